package service

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/Iamanointing/mvv/internal/dto"
)

func TestProfile_Get(t *testing.T) {
	env := newTestEnv(nil)
	u := env.addUser("REG001", false)
	svc := NewProfileService(env.repo, env.files, env.logger)

	resp, err := svc.Get(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if resp.RegNumber != "REG001" {
		t.Errorf("unexpected profile %+v", resp)
	}
	if _, err := svc.Get(context.Background(), 99); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestProfile_UpdatePicture(t *testing.T) {
	env := newTestEnv(nil)
	u := env.addUser("REG001", false)
	svc := NewProfileService(env.repo, env.files, env.logger)

	if _, err := svc.UpdatePicture(context.Background(), u.ID, nil); !errors.Is(err, ErrFileRequired) {
		t.Fatalf("expected ErrFileRequired, got %v", err)
	}

	path, err := svc.UpdatePicture(context.Background(), u.ID, &multipart.FileHeader{Filename: "me.webp"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if path != "/uploads/profiles/me.webp" {
		t.Errorf("unexpected path %s", path)
	}
	if env.users.users[u.ID].ProfilePicture == nil || *env.users.users[u.ID].ProfilePicture != path {
		t.Error("profile picture not stored on the user")
	}
}

func TestProfile_Report(t *testing.T) {
	env := newTestEnv(nil)
	svc := NewProfileService(env.repo, env.files, env.logger)

	if err := svc.Report(context.Background(), 1, &dto.ReportRequest{Subject: "Login", Message: "Cannot log in"}); err != nil {
		t.Errorf("report failed: %v", err)
	}
}
