package service

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/Iamanointing/mvv/internal/dto"
	"github.com/Iamanointing/mvv/internal/model"
	"github.com/Iamanointing/mvv/internal/repository"
)

// ResultService aggregates votes into per-position results.
type ResultService interface {
	// Realtime returns one entry per position, oldest position first, with
	// every verified contestant in id order.
	Realtime(ctx context.Context) ([]dto.PositionResult, error)
	// Detailed returns every vote row with names, oldest first.
	Detailed(ctx context.Context) ([]repository.VoteDetail, error)
}

type resultService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewResultService creates a ResultService.
func NewResultService(repo *repository.Repository, logger *zap.Logger) ResultService {
	return &resultService{repo: repo, logger: logger}
}

func (s *resultService) Detailed(ctx context.Context) ([]repository.VoteDetail, error) {
	rows, err := s.repo.Vote.ListDetailed(ctx, false)
	if err != nil {
		s.logger.Error("list votes failed", zap.Error(err))
		return nil, err
	}
	return nonNil(rows), nil
}

func (s *resultService) Realtime(ctx context.Context) ([]dto.PositionResult, error) {
	positions, err := s.repo.Position.ListInBallotOrder(ctx)
	if err != nil {
		s.logger.Error("list positions failed", zap.Error(err))
		return nil, err
	}
	contestants, err := s.repo.Contestant.ListVerified(ctx)
	if err != nil {
		s.logger.Error("list contestants failed", zap.Error(err))
		return nil, err
	}
	tallies, err := s.repo.Vote.Tally(ctx)
	if err != nil {
		s.logger.Error("tally votes failed", zap.Error(err))
		return nil, err
	}

	return aggregate(positions, contestants, tallies), nil
}

// counts for one contestant, or for the NULL-contestant bucket of a position.
type counts struct {
	valid, cancelled, yes, no int64
}

func (c *counts) add(t repository.VoteTally) {
	if t.IsCancelled {
		c.cancelled += t.Count
		return
	}
	c.valid += t.Count
	switch t.Choice {
	case model.ChoiceYes:
		c.yes += t.Count
	case model.ChoiceNo:
		c.no += t.Count
	}
}

// aggregate computes results from grouped tallies.
//
// A position with several verified contestants counts every valid vote naming
// a contestant. A position with exactly one contestant is a referendum: only
// "yes" votes count, and entries without a contestant id are attributed to
// the sole contestant. Percentages are relative to all valid votes on the
// position. The winner is the first contestant holding the maximum.
func aggregate(positions []model.Position, contestants []model.Contestant, tallies []repository.VoteTally) []dto.PositionResult {
	byPosition := make(map[uint][]model.Contestant, len(positions))
	for _, c := range contestants {
		byPosition[c.PositionID] = append(byPosition[c.PositionID], c)
	}

	type key struct{ position, contestant uint }
	perContestant := make(map[key]*counts)
	unassigned := make(map[uint]*counts)
	totals := make(map[uint]*counts)

	bucket := func(m map[uint]*counts, id uint) *counts {
		if m[id] == nil {
			m[id] = &counts{}
		}
		return m[id]
	}

	for _, t := range tallies {
		bucket(totals, t.PositionID).add(t)
		if t.ContestantID == nil {
			bucket(unassigned, t.PositionID).add(t)
			continue
		}
		k := key{t.PositionID, *t.ContestantID}
		if perContestant[k] == nil {
			perContestant[k] = &counts{}
		}
		perContestant[k].add(t)
	}

	results := make([]dto.PositionResult, 0, len(positions))
	for _, p := range positions {
		cs := byPosition[p.ID]
		total := bucket(totals, p.ID)
		referendum := len(cs) == 1

		pr := dto.PositionResult{
			Position:            p,
			Contestants:         make([]dto.ContestantResult, 0, len(cs)),
			TotalValidVotes:     total.valid,
			TotalCancelledVotes: total.cancelled,
		}

		for _, c := range cs {
			got := counts{}
			if pc := perContestant[key{p.ID, c.ID}]; pc != nil {
				got = *pc
			}
			if referendum {
				if u := unassigned[p.ID]; u != nil {
					got.yes += u.yes
					got.no += u.no
					got.cancelled += u.cancelled
				}
			}

			votes := got.valid
			if referendum {
				votes = got.yes
			}

			pr.Contestants = append(pr.Contestants, dto.ContestantResult{
				Contestant:     c,
				Votes:          votes,
				Percentage:     percentage(votes, total.valid),
				CancelledVotes: got.cancelled,
				YesVotes:       got.yes,
				NoVotes:        got.no,
			})
		}

		for i := range pr.Contestants {
			if pr.Winner == nil || pr.Contestants[i].Votes > pr.Winner.Votes {
				w := pr.Contestants[i]
				pr.Winner = &w
			}
		}

		results = append(results, pr)
	}
	return results
}

// percentage returns part/total*100 rounded to two decimals, 0 when total is 0.
func percentage(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*10000) / 100
}
