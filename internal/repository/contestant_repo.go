package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Iamanointing/mvv/internal/model"
)

// ContestantWithPosition is a contestant row joined with its position name.
type ContestantWithPosition struct {
	ID           uint      `json:"id"`
	PositionID   uint      `json:"position_id"`
	Name         string    `json:"name"`
	RegNumber    *string   `json:"reg_number"`
	Level        *string   `json:"level"`
	Department   *string   `json:"department"`
	Photo        *string   `json:"photo"`
	Bio          *string   `json:"bio"`
	Verified     bool      `json:"verified"`
	CreatedAt    time.Time `json:"created_at"`
	PositionName string    `json:"position_name"`
}

// ContestantRepository accesses candidates.
type ContestantRepository interface {
	Create(ctx context.Context, contestant *model.Contestant) error
	GetByID(ctx context.Context, id uint) (*model.Contestant, error)
	// ListWithPosition returns every contestant, newest first.
	ListWithPosition(ctx context.Context) ([]ContestantWithPosition, error)
	// ListVerified returns verified contestants ordered by position then id.
	ListVerified(ctx context.Context) ([]model.Contestant, error)
	// ListVerifiedByName returns verified contestants ordered by position then name.
	ListVerifiedByName(ctx context.Context) ([]model.Contestant, error)
	Verify(ctx context.Context, id uint) error
}

type contestantRepo struct {
	db *gorm.DB
}

// NewContestantRepo creates a ContestantRepository.
func NewContestantRepo(db *gorm.DB) ContestantRepository {
	return &contestantRepo{db: db}
}

func (r *contestantRepo) Create(ctx context.Context, contestant *model.Contestant) error {
	return r.db.WithContext(ctx).Create(contestant).Error
}

func (r *contestantRepo) GetByID(ctx context.Context, id uint) (*model.Contestant, error) {
	var contestant model.Contestant
	if err := r.db.WithContext(ctx).First(&contestant, id).Error; err != nil {
		return nil, err
	}
	return &contestant, nil
}

func (r *contestantRepo) ListWithPosition(ctx context.Context) ([]ContestantWithPosition, error) {
	var rows []ContestantWithPosition
	err := r.db.WithContext(ctx).
		Table("contestants AS c").
		Select("c.id, c.position_id, c.name, c.reg_number, c.level, c.department, c.photo, c.bio, c.verified, c.created_at, p.name AS position_name").
		Joins("JOIN positions p ON p.id = c.position_id").
		Order("c.created_at DESC, c.id DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *contestantRepo) ListVerified(ctx context.Context) ([]model.Contestant, error) {
	var contestants []model.Contestant
	err := r.db.WithContext(ctx).
		Where("verified = ?", true).
		Order("position_id ASC, id ASC").
		Find(&contestants).Error
	return contestants, err
}

func (r *contestantRepo) ListVerifiedByName(ctx context.Context) ([]model.Contestant, error) {
	var contestants []model.Contestant
	err := r.db.WithContext(ctx).
		Where("verified = ?", true).
		Order("position_id ASC, name ASC, id ASC").
		Find(&contestants).Error
	return contestants, err
}

func (r *contestantRepo) Verify(ctx context.Context, id uint) error {
	return updateOne(r.db.WithContext(ctx).
		Model(&model.Contestant{}).
		Where("id = ?", id).
		Update("verified", true))
}
