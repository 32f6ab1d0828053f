package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Iamanointing/mvv/internal/repository"
)

var (
	ErrVoteNotFound = errors.New("vote not found")
)

// VoteService is the admin view over recorded votes.
type VoteService interface {
	// List returns every vote with names, newest first.
	List(ctx context.Context) ([]repository.VoteDetail, error)
	// Cancel excludes a vote from results. It never clears the voter's
	// has_voted flag and cannot be undone.
	Cancel(ctx context.Context, voteID, adminID uint) error
	VoterLogs(ctx context.Context) ([]repository.VoterLog, error)
}

type voteService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewVoteService creates a VoteService.
func NewVoteService(repo *repository.Repository, logger *zap.Logger) VoteService {
	return &voteService{repo: repo, logger: logger, now: time.Now}
}

func (s *voteService) List(ctx context.Context) ([]repository.VoteDetail, error) {
	rows, err := s.repo.Vote.ListDetailed(ctx, true)
	if err != nil {
		s.logger.Error("list votes failed", zap.Error(err))
		return nil, err
	}
	return nonNil(rows), nil
}

func (s *voteService) Cancel(ctx context.Context, voteID, adminID uint) error {
	if err := s.repo.Vote.Cancel(ctx, voteID, adminID, s.now()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVoteNotFound
		}
		s.logger.Error("cancel vote failed", zap.Uint("vote_id", voteID), zap.Error(err))
		return err
	}
	s.logger.Info("vote cancelled", zap.Uint("vote_id", voteID), zap.Uint("admin_id", adminID))
	return nil
}

func (s *voteService) VoterLogs(ctx context.Context) ([]repository.VoterLog, error) {
	rows, err := s.repo.Vote.ListVoterLogs(ctx)
	if err != nil {
		s.logger.Error("list voter logs failed", zap.Error(err))
		return nil, err
	}
	return nonNil(rows), nil
}
