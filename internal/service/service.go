package service

import (
	"context"
	"mime/multipart"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Iamanointing/mvv/config"
	"github.com/Iamanointing/mvv/internal/realtime"
	"github.com/Iamanointing/mvv/internal/repository"
	"github.com/Iamanointing/mvv/pkg/jwt"
)

// FileStore persists uploaded images and returns their public URL path.
type FileStore interface {
	Save(fh *multipart.FileHeader, dir string) (string, error)
}

// TokenBlacklist revokes session tokens before they expire.
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// Deps are the collaborators shared by the services.
// Blacklist may be nil when Redis is not configured.
type Deps struct {
	Config    *config.Config
	Repo      *repository.Repository
	JWT       *jwt.Manager
	Files     FileStore
	Events    realtime.Publisher
	Blacklist TokenBlacklist
	Logger    *zap.Logger
}

// Service groups every domain service.
type Service struct {
	Auth         AuthService
	Roster       RosterService
	Election     ElectionService
	Setting      SettingService
	Voting       VotingService
	Result       ResultService
	Export       ExportService
	Vote         VoteService
	Announcement AnnouncementService
	Profile      ProfileService

	bootOnce sync.Once
	bootErr  error
}

// NewService wires every service from deps.
func NewService(d Deps) *Service {
	if d.Events == nil {
		d.Events = realtime.NopPublisher{}
	}
	atomic := d.Config.Feature.AtomicWrites

	results := NewResultService(d.Repo, d.Logger)
	return &Service{
		Auth:         NewAuthService(d.Config, d.Repo, d.JWT, d.Blacklist, d.Logger),
		Roster:       NewRosterService(d.Repo, d.Logger),
		Election:     NewElectionService(d.Repo, d.Files, d.Logger),
		Setting:      NewSettingService(d.Repo, d.Events, atomic, d.Logger),
		Voting:       NewVotingService(d.Repo, d.Files, d.Events, atomic, d.Logger),
		Result:       results,
		Export:       NewExportService(results, d.Logger),
		Vote:         NewVoteService(d.Repo, d.Logger),
		Announcement: NewAnnouncementService(d.Repo, d.Events, d.Logger),
		Profile:      NewProfileService(d.Repo, d.Files, d.Logger),
	}
}

// Bootstrap seeds the control flags and the default admin account. It runs
// at most once per Service; later calls return the first result.
func (s *Service) Bootstrap(ctx context.Context) error {
	s.bootOnce.Do(func() {
		if err := s.Setting.SeedDefaults(ctx); err != nil {
			s.bootErr = err
			return
		}
		s.bootErr = s.Auth.EnsureDefaultAdmin(ctx)
	})
	return s.bootErr
}

// runWrites executes fn in a transaction when atomic is set, otherwise
// directly against repo so each step commits on its own.
func runWrites(ctx context.Context, repo *repository.Repository, atomic bool, fn func(r *repository.Repository) error) error {
	if atomic {
		return repo.Transaction(ctx, fn)
	}
	return fn(repo)
}

// publish sends an event and only logs failures; clients refetch on the
// next event anyway.
func publish(ctx context.Context, events realtime.Publisher, logger *zap.Logger, name string, data interface{}) {
	if err := events.Publish(ctx, name, data); err != nil {
		logger.Warn("publish event failed", zap.String("event", name), zap.Error(err))
	}
}
