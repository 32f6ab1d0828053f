package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Iamanointing/mvv/internal/model"
)

// PositionRepository accesses elected offices.
type PositionRepository interface {
	Create(ctx context.Context, position *model.Position) error
	GetByID(ctx context.Context, id uint) (*model.Position, error)
	// List returns positions newest first.
	List(ctx context.Context) ([]model.Position, error)
	// ListInBallotOrder returns positions oldest first.
	ListInBallotOrder(ctx context.Context) ([]model.Position, error)
}

type positionRepo struct {
	db *gorm.DB
}

// NewPositionRepo creates a PositionRepository.
func NewPositionRepo(db *gorm.DB) PositionRepository {
	return &positionRepo{db: db}
}

func (r *positionRepo) Create(ctx context.Context, position *model.Position) error {
	return r.db.WithContext(ctx).Create(position).Error
}

func (r *positionRepo) GetByID(ctx context.Context, id uint) (*model.Position, error) {
	var position model.Position
	if err := r.db.WithContext(ctx).First(&position, id).Error; err != nil {
		return nil, err
	}
	return &position, nil
}

func (r *positionRepo) List(ctx context.Context) ([]model.Position, error) {
	var positions []model.Position
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&positions).Error
	return positions, err
}

func (r *positionRepo) ListInBallotOrder(ctx context.Context) ([]model.Position, error) {
	var positions []model.Position
	err := r.db.WithContext(ctx).
		Order("created_at ASC, id ASC").
		Find(&positions).Error
	return positions, err
}
