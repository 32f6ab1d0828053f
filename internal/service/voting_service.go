package service

import (
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Iamanointing/mvv/internal/dto"
	"github.com/Iamanointing/mvv/internal/model"
	"github.com/Iamanointing/mvv/internal/realtime"
	"github.com/Iamanointing/mvv/internal/repository"
	"github.com/Iamanointing/mvv/pkg/upload"
)

var (
	ErrVotingClosed  = errors.New("voting is closed")
	ErrAlreadyVoted  = errors.New("user already voted")
	ErrPhotoRequired = errors.New("vote photo required")
	ErrInvalidBallot = errors.New("invalid ballot")
	ErrUserNotFound  = errors.New("user not found")
)

// VoteSubmitted is the payload of a vote-submitted event.
type VoteSubmitted struct {
	UserID uint `json:"user_id"`
}

// VotingService serves the ballot and accepts submissions.
type VotingService interface {
	Ballot(ctx context.Context) (*dto.BallotResponse, error)
	HasVoted(ctx context.Context, userID uint) (bool, error)
	// Submit records every entry of votesJSON for userID, then marks the
	// user as having voted. Checks run in the order: voting open, not yet
	// voted, photo present.
	Submit(ctx context.Context, userID uint, votesJSON string, photo *multipart.FileHeader) error
}

type votingService struct {
	repo   *repository.Repository
	files  FileStore
	events realtime.Publisher
	atomic bool
	logger *zap.Logger
}

// NewVotingService creates a VotingService. atomic wraps the writes of one
// submission in a transaction.
func NewVotingService(repo *repository.Repository, files FileStore, events realtime.Publisher, atomic bool, logger *zap.Logger) VotingService {
	return &votingService{repo: repo, files: files, events: events, atomic: atomic, logger: logger}
}

// ────────────────────── Ballot ──────────────────────

func (s *votingService) Ballot(ctx context.Context) (*dto.BallotResponse, error) {
	votingOpen, err := s.flag(ctx, model.SettingVotingOpen)
	if err != nil {
		return nil, err
	}
	votingEnded, err := s.flag(ctx, model.SettingVotingEnded)
	if err != nil {
		return nil, err
	}

	positions, err := s.repo.Position.ListInBallotOrder(ctx)
	if err != nil {
		s.logger.Error("list positions failed", zap.Error(err))
		return nil, err
	}
	contestants, err := s.repo.Contestant.ListVerifiedByName(ctx)
	if err != nil {
		s.logger.Error("list contestants failed", zap.Error(err))
		return nil, err
	}

	byPosition := make(map[uint][]model.Contestant, len(positions))
	for _, c := range contestants {
		byPosition[c.PositionID] = append(byPosition[c.PositionID], c)
	}

	resp := &dto.BallotResponse{
		Positions:   make([]dto.BallotPosition, 0, len(positions)),
		VotingOpen:  votingOpen,
		VotingEnded: votingEnded,
	}
	for _, p := range positions {
		cs := nonNil(byPosition[p.ID])
		resp.Positions = append(resp.Positions, dto.BallotPosition{
			Position:        p,
			ContestantCount: len(cs),
			Contestants:     cs,
		})
	}
	return resp, nil
}

// ────────────────────── Status ──────────────────────

func (s *votingService) HasVoted(ctx context.Context, userID uint) (bool, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrUserNotFound
		}
		s.logger.Error("user lookup failed", zap.Uint("user_id", userID), zap.Error(err))
		return false, err
	}
	return user.HasVoted, nil
}

// ────────────────────── Submit ──────────────────────

func (s *votingService) Submit(ctx context.Context, userID uint, votesJSON string, photo *multipart.FileHeader) error {
	open, err := s.flag(ctx, model.SettingVotingOpen)
	if err != nil {
		return err
	}
	if !open {
		return ErrVotingClosed
	}

	// has_voted is read here and written after the inserts without a lock;
	// two concurrent submissions by the same voter can both pass.
	voted, err := s.HasVoted(ctx, userID)
	if err != nil {
		return err
	}
	if voted {
		return ErrAlreadyVoted
	}

	if photo == nil {
		return ErrPhotoRequired
	}

	entries, err := parseBallot(votesJSON)
	if err != nil {
		return err
	}

	photoPath, err := saveUpload(s.files, photo, upload.DirVotes, s.logger)
	if err != nil {
		return err
	}

	err = runWrites(ctx, s.repo, s.atomic, func(r *repository.Repository) error {
		for _, e := range entries {
			vote := &model.Vote{
				UserID:       userID,
				PositionID:   e.PositionID,
				ContestantID: e.ContestantID,
				Choice:       e.Choice,
				Photo:        photoPath,
			}
			if err := r.Vote.Create(ctx, vote); err != nil {
				return err
			}
		}
		return r.User.MarkVoted(ctx, userID)
	})
	if err != nil {
		s.logger.Error("record ballot failed", zap.Uint("user_id", userID), zap.Error(err))
		return err
	}

	s.logger.Info("ballot submitted", zap.Uint("user_id", userID), zap.Int("entries", len(entries)))
	publish(ctx, s.events, s.logger, realtime.EventVoteSubmitted, VoteSubmitted{UserID: userID})
	return nil
}

// parseBallot decodes the "votes" form field. An empty array is a valid
// (blank) ballot.
func parseBallot(raw string) ([]dto.BallotEntry, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrInvalidBallot
	}

	var entries []dto.BallotEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, ErrInvalidBallot
	}
	for i := range entries {
		e := &entries[i]
		e.Choice = strings.TrimSpace(e.Choice)
		if e.PositionID == 0 || e.Choice == "" {
			return nil, ErrInvalidBallot
		}
		if e.ContestantID != nil && *e.ContestantID == 0 {
			e.ContestantID = nil
		}
	}
	return entries, nil
}

func (s *votingService) flag(ctx context.Context, key string) (bool, error) {
	v, err := s.repo.Setting.Get(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		s.logger.Error("read setting failed", zap.String("key", key), zap.Error(err))
		return false, err
	}
	return v == "1", nil
}
