package service

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"

	"go.uber.org/zap"

	"github.com/Iamanointing/mvv/internal/dto"
	"github.com/Iamanointing/mvv/internal/model"
	"github.com/Iamanointing/mvv/internal/repository"
	pkgerrors "github.com/Iamanointing/mvv/pkg/errors"
	"github.com/Iamanointing/mvv/pkg/upload"
)

var (
	ErrPositionExists     = errors.New("position already exists")
	ErrPositionNotFound   = errors.New("position not found")
	ErrContestantNotFound = errors.New("contestant not found")
	ErrInvalidUpload      = errors.New("upload is not an image within the size limit")
)

// ElectionService configures positions and their contestants.
type ElectionService interface {
	ListPositions(ctx context.Context) ([]model.Position, error)
	CreatePosition(ctx context.Context, req *dto.CreatePositionRequest) (*model.Position, error)
	ListContestants(ctx context.Context) ([]repository.ContestantWithPosition, error)
	// CreateContestant stores the optional photo and inserts an unverified
	// contestant.
	CreateContestant(ctx context.Context, req *dto.CreateContestantRequest, photo *multipart.FileHeader) (*model.Contestant, error)
	VerifyContestant(ctx context.Context, id uint) error
}

type electionService struct {
	repo   *repository.Repository
	files  FileStore
	logger *zap.Logger
}

// NewElectionService creates an ElectionService.
func NewElectionService(repo *repository.Repository, files FileStore, logger *zap.Logger) ElectionService {
	return &electionService{repo: repo, files: files, logger: logger}
}

// ────────────────────── Positions ──────────────────────

func (s *electionService) ListPositions(ctx context.Context) ([]model.Position, error) {
	positions, err := s.repo.Position.List(ctx)
	if err != nil {
		s.logger.Error("list positions failed", zap.Error(err))
		return nil, err
	}
	return nonNil(positions), nil
}

func (s *electionService) CreatePosition(ctx context.Context, req *dto.CreatePositionRequest) (*model.Position, error) {
	position := &model.Position{
		Name:        strings.TrimSpace(req.Name),
		Description: optional(strings.TrimSpace(req.Description)),
	}
	if err := s.repo.Position.Create(ctx, position); err != nil {
		if pkgerrors.IsDuplicateKey(err) {
			return nil, ErrPositionExists
		}
		s.logger.Error("create position failed", zap.String("name", position.Name), zap.Error(err))
		return nil, err
	}
	return position, nil
}

// ────────────────────── Contestants ──────────────────────

func (s *electionService) ListContestants(ctx context.Context) ([]repository.ContestantWithPosition, error) {
	contestants, err := s.repo.Contestant.ListWithPosition(ctx)
	if err != nil {
		s.logger.Error("list contestants failed", zap.Error(err))
		return nil, err
	}
	return nonNil(contestants), nil
}

func (s *electionService) CreateContestant(ctx context.Context, req *dto.CreateContestantRequest, photo *multipart.FileHeader) (*model.Contestant, error) {
	if _, err := s.repo.Position.GetByID(ctx, req.PositionID); err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, ErrPositionNotFound
		}
		s.logger.Error("position lookup failed", zap.Uint("position_id", req.PositionID), zap.Error(err))
		return nil, err
	}

	contestant := &model.Contestant{
		PositionID: req.PositionID,
		Name:       strings.TrimSpace(req.Name),
		RegNumber:  optional(strings.TrimSpace(req.RegNumber)),
		Level:      optional(strings.TrimSpace(req.Level)),
		Department: optional(strings.TrimSpace(req.Department)),
		Bio:        optional(strings.TrimSpace(req.Bio)),
	}

	if photo != nil {
		path, err := saveUpload(s.files, photo, upload.DirContestants, s.logger)
		if err != nil {
			return nil, err
		}
		contestant.Photo = &path
	}

	if err := s.repo.Contestant.Create(ctx, contestant); err != nil {
		s.logger.Error("create contestant failed", zap.String("name", contestant.Name), zap.Error(err))
		return nil, err
	}
	return contestant, nil
}

func (s *electionService) VerifyContestant(ctx context.Context, id uint) error {
	if err := s.repo.Contestant.Verify(ctx, id); err != nil {
		if pkgerrors.IsNotFound(err) {
			return ErrContestantNotFound
		}
		s.logger.Error("verify contestant failed", zap.Uint("id", id), zap.Error(err))
		return err
	}
	return nil
}

// saveUpload maps upload validation failures to ErrInvalidUpload.
func saveUpload(files FileStore, fh *multipart.FileHeader, dir string, logger *zap.Logger) (string, error) {
	path, err := files.Save(fh, dir)
	if err != nil {
		if errors.Is(err, upload.ErrFileTooLarge) || errors.Is(err, upload.ErrUnsupportedType) {
			return "", ErrInvalidUpload
		}
		logger.Error("store upload failed", zap.String("dir", dir), zap.Error(err))
		return "", err
	}
	return path, nil
}
