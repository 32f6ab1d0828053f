package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Iamanointing/mvv/internal/model"
	"github.com/Iamanointing/mvv/internal/realtime"
)

func setupSettings(atomic bool) (*testEnv, SettingService) {
	env := newTestEnv(model.DefaultSettings)
	return env, NewSettingService(env.repo, env.events, atomic, env.logger)
}

func TestToggleVoting_PublishesAndPersists(t *testing.T) {
	env, svc := setupSettings(false)

	open, err := svc.ToggleVoting(context.Background())
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if !open {
		t.Fatal("voting should be open after the first toggle")
	}

	all, _ := svc.GetAll(context.Background())
	if all[model.SettingVotingOpen] != "1" {
		t.Errorf("expected voting_open=1, got %q", all[model.SettingVotingOpen])
	}

	if len(env.events.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(env.events.events))
	}
	ev := env.events.events[0]
	if ev.Name != realtime.EventSettingsUpdate {
		t.Errorf("expected %s, got %s", realtime.EventSettingsUpdate, ev.Name)
	}
	if ev.Data != (SettingChange{Key: model.SettingVotingOpen, Value: "1"}) {
		t.Errorf("unexpected payload %+v", ev.Data)
	}

	open, _ = svc.ToggleVoting(context.Background())
	if open {
		t.Error("second toggle should close voting")
	}
}

func TestToggleRegistration(t *testing.T) {
	env, svc := setupSettings(false)

	open, err := svc.ToggleRegistration(context.Background())
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if open {
		t.Error("registration starts open, first toggle should close it")
	}
	if env.settings.values[model.SettingRegistrationOpen] != "0" {
		t.Errorf("expected registration_open=0, got %q", env.settings.values[model.SettingRegistrationOpen])
	}
}

func TestToggle_MissingRowIsInserted(t *testing.T) {
	env := newTestEnv(nil)
	svc := NewSettingService(env.repo, env.events, false, env.logger)

	open, err := svc.ToggleVoting(context.Background())
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if !open || env.settings.values[model.SettingVotingOpen] != "1" {
		t.Errorf("missing flag should read closed and toggle to 1, got %q", env.settings.values[model.SettingVotingOpen])
	}
}

func TestEndVoting(t *testing.T) {
	for _, atomic := range []bool{false, true} {
		env, svc := setupSettings(atomic)
		env.settings.values[model.SettingVotingOpen] = "1"

		if err := svc.EndVoting(context.Background()); err != nil {
			t.Fatalf("atomic=%v: end voting failed: %v", atomic, err)
		}
		if env.settings.values[model.SettingVotingOpen] != "0" || env.settings.values[model.SettingVotingEnded] != "1" {
			t.Errorf("atomic=%v: unexpected flags %v", atomic, env.settings.values)
		}
		if len(env.settings.writes) != 2 || env.settings.writes[0] != "voting_open=0" || env.settings.writes[1] != "voting_ended=1" {
			t.Errorf("atomic=%v: unexpected write order %v", atomic, env.settings.writes)
		}
		if len(env.events.events) != 2 {
			t.Fatalf("atomic=%v: expected 2 events, got %d", atomic, len(env.events.events))
		}
		if env.events.events[0].Data != (SettingChange{Key: model.SettingVotingEnded, Value: "1"}) {
			t.Errorf("atomic=%v: first event should announce voting_ended, got %+v", atomic, env.events.events[0].Data)
		}
	}
}

func TestUpdateSetting(t *testing.T) {
	env, svc := setupSettings(false)

	if err := svc.Update(context.Background(), model.SettingVotingOpen, "1"); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if env.settings.values[model.SettingVotingOpen] != "1" {
		t.Error("value not written")
	}
	if len(env.events.events) != 1 {
		t.Errorf("expected 1 event, got %d", len(env.events.events))
	}

	if err := svc.Update(context.Background(), "theme", "1"); !errors.Is(err, ErrUnknownSetting) {
		t.Errorf("expected ErrUnknownSetting, got %v", err)
	}
	if err := svc.Update(context.Background(), model.SettingVotingOpen, "yes"); !errors.Is(err, ErrInvalidSettingValue) {
		t.Errorf("expected ErrInvalidSettingValue, got %v", err)
	}
}

func TestIsOpen_MissingKeyIsClosed(t *testing.T) {
	env := newTestEnv(nil)
	svc := NewSettingService(env.repo, env.events, false, env.logger)

	open, err := svc.IsOpen(context.Background(), model.SettingRegistrationOpen)
	if err != nil || open {
		t.Errorf("expected closed with no error, got open=%v err=%v", open, err)
	}
}
