package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Iamanointing/mvv/internal/model"
)

// VoteDetail is a vote joined with voter, position and contestant names.
type VoteDetail struct {
	ID             uint       `json:"id"`
	UserID         uint       `json:"user_id"`
	PositionID     uint       `json:"position_id"`
	ContestantID   *uint      `json:"contestant_id"`
	Choice         string     `json:"choice"`
	Photo          string     `json:"photo"`
	IsCancelled    bool       `json:"is_cancelled"`
	CancelledBy    *uint      `json:"cancelled_by"`
	CancelledAt    *time.Time `json:"cancelled_at"`
	CreatedAt      time.Time  `json:"created_at"`
	VoterName      string     `json:"voter_name"`
	VoterReg       string     `json:"voter_reg"`
	PositionName   string     `json:"position_name"`
	ContestantName *string    `json:"contestant_name"`
}

// VoterLog is one non-cancelled ballot entry with the voter's identity.
type VoterLog struct {
	FullName  string    `json:"full_name"`
	RegNumber string    `json:"reg_number"`
	VotedAt   time.Time `json:"voted_at"`
}

// VoteTally counts votes sharing position, contestant, choice and status.
type VoteTally struct {
	PositionID   uint
	ContestantID *uint
	Choice       string
	IsCancelled  bool
	Count        int64
}

// VoteRepository accesses ballot entries.
type VoteRepository interface {
	Create(ctx context.Context, vote *model.Vote) error
	// ListDetailed returns joined vote rows ordered by creation time.
	ListDetailed(ctx context.Context, newestFirst bool) ([]VoteDetail, error)
	// Cancel marks a vote cancelled by adminID. Unknown ids yield
	// gorm.ErrRecordNotFound.
	Cancel(ctx context.Context, id, adminID uint, at time.Time) error
	// Tally groups every vote by (position, contestant, choice, cancelled).
	Tally(ctx context.Context) ([]VoteTally, error)
	ListVoterLogs(ctx context.Context) ([]VoterLog, error)
}

type voteRepo struct {
	db *gorm.DB
}

// NewVoteRepo creates a VoteRepository.
func NewVoteRepo(db *gorm.DB) VoteRepository {
	return &voteRepo{db: db}
}

func (r *voteRepo) Create(ctx context.Context, vote *model.Vote) error {
	return r.db.WithContext(ctx).Create(vote).Error
}

func (r *voteRepo) ListDetailed(ctx context.Context, newestFirst bool) ([]VoteDetail, error) {
	order := "v.created_at ASC, v.id ASC"
	if newestFirst {
		order = "v.created_at DESC, v.id DESC"
	}

	var rows []VoteDetail
	err := r.db.WithContext(ctx).
		Table("votes AS v").
		Select(`v.id, v.user_id, v.position_id, v.contestant_id, v.choice, v.photo,
			v.is_cancelled, v.cancelled_by, v.cancelled_at, v.created_at,
			u.full_name AS voter_name, u.reg_number AS voter_reg,
			p.name AS position_name, c.name AS contestant_name`).
		Joins("JOIN users u ON u.id = v.user_id").
		Joins("JOIN positions p ON p.id = v.position_id").
		Joins("LEFT JOIN contestants c ON c.id = v.contestant_id").
		Order(order).
		Scan(&rows).Error
	return rows, err
}

func (r *voteRepo) Cancel(ctx context.Context, id, adminID uint, at time.Time) error {
	return updateOne(r.db.WithContext(ctx).
		Model(&model.Vote{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_cancelled": true,
			"cancelled_by": adminID,
			"cancelled_at": at,
		}))
}

func (r *voteRepo) Tally(ctx context.Context) ([]VoteTally, error) {
	var rows []VoteTally
	err := r.db.WithContext(ctx).
		Model(&model.Vote{}).
		Select("position_id, contestant_id, choice, is_cancelled, COUNT(*) AS count").
		Group("position_id, contestant_id, choice, is_cancelled").
		Scan(&rows).Error
	return rows, err
}

func (r *voteRepo) ListVoterLogs(ctx context.Context) ([]VoterLog, error) {
	var rows []VoterLog
	err := r.db.WithContext(ctx).
		Table("votes AS v").
		Select("u.full_name, u.reg_number, v.created_at AS voted_at").
		Joins("JOIN users u ON u.id = v.user_id").
		Where("v.is_cancelled = ?", false).
		Order("v.created_at DESC, v.id DESC").
		Scan(&rows).Error
	return rows, err
}
