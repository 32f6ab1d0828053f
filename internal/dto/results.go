package dto

import "github.com/Iamanointing/mvv/internal/model"

// ContestantResult is a contestant with its tallies.
type ContestantResult struct {
	model.Contestant
	Votes          int64   `json:"votes"`
	Percentage     float64 `json:"percentage"`
	CancelledVotes int64   `json:"cancelled_votes"`
	YesVotes       int64   `json:"yes_votes"`
	NoVotes        int64   `json:"no_votes"`
}

// PositionResult is the aggregated outcome of one position.
type PositionResult struct {
	Position            model.Position     `json:"position"`
	Contestants         []ContestantResult `json:"contestants"`
	Winner              *ContestantResult  `json:"winner"`
	TotalValidVotes     int64              `json:"total_valid_votes"`
	TotalCancelledVotes int64              `json:"total_cancelled_votes"`
}
