package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/Iamanointing/mvv/internal/dto"
	"github.com/Iamanointing/mvv/internal/model"
	"github.com/Iamanointing/mvv/internal/realtime"
	"github.com/Iamanointing/mvv/internal/repository"
)

// latestAnnouncements is how many notices the public list shows.
const latestAnnouncements = 10

// NewAnnouncement is the payload of a new-announcement event.
type NewAnnouncement struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// AnnouncementService posts and lists admin notices.
type AnnouncementService interface {
	ListLatest(ctx context.Context) ([]repository.AnnouncementWithAdmin, error)
	Create(ctx context.Context, adminID uint, req *dto.CreateAnnouncementRequest) (*model.Announcement, error)
}

type announcementService struct {
	repo   *repository.Repository
	events realtime.Publisher
	logger *zap.Logger
}

// NewAnnouncementService creates an AnnouncementService.
func NewAnnouncementService(repo *repository.Repository, events realtime.Publisher, logger *zap.Logger) AnnouncementService {
	return &announcementService{repo: repo, events: events, logger: logger}
}

func (s *announcementService) ListLatest(ctx context.Context) ([]repository.AnnouncementWithAdmin, error) {
	rows, err := s.repo.Announcement.ListLatest(ctx, latestAnnouncements)
	if err != nil {
		s.logger.Error("list announcements failed", zap.Error(err))
		return nil, err
	}
	return nonNil(rows), nil
}

func (s *announcementService) Create(ctx context.Context, adminID uint, req *dto.CreateAnnouncementRequest) (*model.Announcement, error) {
	a := &model.Announcement{
		AdminID: adminID,
		Title:   strings.TrimSpace(req.Title),
		Content: req.Content,
	}
	if err := s.repo.Announcement.Create(ctx, a); err != nil {
		s.logger.Error("create announcement failed", zap.Uint("admin_id", adminID), zap.Error(err))
		return nil, err
	}

	publish(ctx, s.events, s.logger, realtime.EventNewAnnouncement, NewAnnouncement{Title: a.Title, Content: a.Content})
	return a, nil
}
