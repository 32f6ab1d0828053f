package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Iamanointing/mvv/internal/model"
	"github.com/Iamanointing/mvv/internal/realtime"
	"github.com/Iamanointing/mvv/internal/repository"
)

var (
	ErrUnknownSetting      = errors.New("unknown setting")
	ErrInvalidSettingValue = errors.New("setting value must be 0 or 1")
)

// SettingChange is the payload of a settings-update event.
type SettingChange struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// SettingService controls the registration and voting windows.
type SettingService interface {
	GetAll(ctx context.Context) (map[string]string, error)
	Update(ctx context.Context, key, value string) error
	// ToggleRegistration flips registration_open and returns the new state.
	ToggleRegistration(ctx context.Context) (bool, error)
	// ToggleVoting flips voting_open and returns the new state.
	ToggleVoting(ctx context.Context) (bool, error)
	// EndVoting closes voting and marks the election ended.
	EndVoting(ctx context.Context) error
	// IsOpen reports whether a flag is "1". Missing flags read as closed.
	IsOpen(ctx context.Context, key string) (bool, error)
	SeedDefaults(ctx context.Context) error
}

type settingService struct {
	repo   *repository.Repository
	events realtime.Publisher
	atomic bool
	logger *zap.Logger
}

// NewSettingService creates a SettingService. atomic wraps EndVoting's two
// writes in one transaction.
func NewSettingService(repo *repository.Repository, events realtime.Publisher, atomic bool, logger *zap.Logger) SettingService {
	return &settingService{repo: repo, events: events, atomic: atomic, logger: logger}
}

func (s *settingService) GetAll(ctx context.Context) (map[string]string, error) {
	rows, err := s.repo.Setting.GetAll(ctx)
	if err != nil {
		s.logger.Error("read settings failed", zap.Error(err))
		return nil, err
	}
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.Key] = r.Value
	}
	return out, nil
}

func (s *settingService) Update(ctx context.Context, key, value string) error {
	if !model.IsKnownSetting(key) {
		return ErrUnknownSetting
	}
	if value != "0" && value != "1" {
		return ErrInvalidSettingValue
	}
	if err := s.set(ctx, s.repo, key, value); err != nil {
		return err
	}
	publish(ctx, s.events, s.logger, realtime.EventSettingsUpdate, SettingChange{Key: key, Value: value})
	return nil
}

func (s *settingService) ToggleRegistration(ctx context.Context) (bool, error) {
	return s.toggle(ctx, model.SettingRegistrationOpen)
}

func (s *settingService) ToggleVoting(ctx context.Context) (bool, error) {
	return s.toggle(ctx, model.SettingVotingOpen)
}

// toggle is read, flip, write, publish. Concurrent toggles may interleave.
func (s *settingService) toggle(ctx context.Context, key string) (bool, error) {
	open, err := s.IsOpen(ctx, key)
	if err != nil {
		return false, err
	}

	next := "1"
	if open {
		next = "0"
	}
	if err := s.set(ctx, s.repo, key, next); err != nil {
		return false, err
	}

	s.logger.Info("setting toggled", zap.String("key", key), zap.String("value", next))
	publish(ctx, s.events, s.logger, realtime.EventSettingsUpdate, SettingChange{Key: key, Value: next})
	return next == "1", nil
}

func (s *settingService) EndVoting(ctx context.Context) error {
	err := runWrites(ctx, s.repo, s.atomic, func(r *repository.Repository) error {
		if err := s.set(ctx, r, model.SettingVotingOpen, "0"); err != nil {
			return err
		}
		return s.set(ctx, r, model.SettingVotingEnded, "1")
	})
	if err != nil {
		return err
	}

	s.logger.Info("voting ended")
	publish(ctx, s.events, s.logger, realtime.EventSettingsUpdate, SettingChange{Key: model.SettingVotingEnded, Value: "1"})
	publish(ctx, s.events, s.logger, realtime.EventSettingsUpdate, SettingChange{Key: model.SettingVotingOpen, Value: "0"})
	return nil
}

func (s *settingService) IsOpen(ctx context.Context, key string) (bool, error) {
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

func (s *settingService) SeedDefaults(ctx context.Context) error {
	if err := s.repo.Setting.SeedDefaults(ctx, model.DefaultSettings); err != nil {
		s.logger.Error("seed settings failed", zap.Error(err))
		return err
	}
	return nil
}

// set writes through r, inserting the row when it is missing.
func (s *settingService) set(ctx context.Context, r *repository.Repository, key, value string) error {
	err := r.Setting.Set(ctx, key, value)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err = r.Setting.SeedDefaults(ctx, map[string]string{key: value}); err == nil {
			return nil
		}
	}
	if err != nil {
		s.logger.Error("write setting failed", zap.String("key", key), zap.Error(err))
	}
	return err
}
