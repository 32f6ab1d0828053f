package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Iamanointing/mvv/internal/model"
)

func TestCancelVote(t *testing.T) {
	env := newTestEnv(nil)
	u := env.addUser("REG001", true)
	p := env.addPosition("President")
	env.addVotes(u.ID, p.ID, nil, model.ChoiceYes, 2)

	at := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	svc := NewVoteService(env.repo, env.logger).(*voteService)
	svc.now = func() time.Time { return at }

	if err := svc.Cancel(context.Background(), 1, 7); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	v := env.votes.votes[0]
	if !v.IsCancelled || v.CancelledBy == nil || *v.CancelledBy != 7 || !v.CancelledAt.Equal(at) {
		t.Errorf("unexpected cancelled vote %+v", v)
	}
	if env.votes.votes[1].IsCancelled {
		t.Error("other votes must be untouched")
	}
	if !env.users.users[u.ID].HasVoted {
		t.Error("cancelling must not reset has_voted")
	}

	if err := svc.Cancel(context.Background(), 99, 7); !errors.Is(err, ErrVoteNotFound) {
		t.Errorf("expected ErrVoteNotFound, got %v", err)
	}
}

func TestListVotes_NewestFirst(t *testing.T) {
	env := newTestEnv(nil)
	p := env.addPosition("President")
	env.addVotes(1, p.ID, nil, model.ChoiceYes, 3)
	svc := NewVoteService(env.repo, env.logger)

	rows, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(rows) != 3 || rows[0].ID != 3 {
		t.Errorf("expected newest first, got %+v", rows)
	}
}

func TestVoterLogs_Empty(t *testing.T) {
	env := newTestEnv(nil)
	svc := NewVoteService(env.repo, env.logger)

	logs, err := svc.VoterLogs(context.Background())
	if err != nil {
		t.Fatalf("logs failed: %v", err)
	}
	if logs == nil {
		t.Error("expected an empty list, got nil")
	}
}
