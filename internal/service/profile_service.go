package service

import (
	"context"
	"errors"
	"mime/multipart"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Iamanointing/mvv/internal/dto"
	"github.com/Iamanointing/mvv/internal/repository"
	"github.com/Iamanointing/mvv/pkg/upload"
)

var (
	ErrFileRequired = errors.New("no file uploaded")
)

// ProfileService serves the logged-in voter's own account.
type ProfileService interface {
	Get(ctx context.Context, userID uint) (*dto.UserResponse, error)
	UpdatePicture(ctx context.Context, userID uint, fh *multipart.FileHeader) (string, error)
	// Report records a problem report. Reports are only written to the log.
	Report(ctx context.Context, userID uint, req *dto.ReportRequest) error
}

type profileService struct {
	repo   *repository.Repository
	files  FileStore
	logger *zap.Logger
}

// NewProfileService creates a ProfileService.
func NewProfileService(repo *repository.Repository, files FileStore, logger *zap.Logger) ProfileService {
	return &profileService{repo: repo, files: files, logger: logger}
}

func (s *profileService) Get(ctx context.Context, userID uint) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("user lookup failed", zap.Uint("user_id", userID), zap.Error(err))
		return nil, err
	}
	return dto.NewUserResponse(user), nil
}

func (s *profileService) UpdatePicture(ctx context.Context, userID uint, fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", ErrFileRequired
	}

	path, err := saveUpload(s.files, fh, upload.DirProfiles, s.logger)
	if err != nil {
		return "", err
	}

	if err := s.repo.User.UpdateProfilePicture(ctx, userID, path); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		s.logger.Error("update profile picture failed", zap.Uint("user_id", userID), zap.Error(err))
		return "", err
	}
	return path, nil
}

func (s *profileService) Report(_ context.Context, userID uint, req *dto.ReportRequest) error {
	s.logger.Info("problem reported",
		zap.Uint("user_id", userID),
		zap.String("subject", req.Subject),
		zap.String("message", req.Message),
	)
	return nil
}
