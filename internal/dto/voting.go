package dto

import "github.com/Iamanointing/mvv/internal/model"

// BallotEntry is one element of the "votes" form field on submission.
// ContestantID is omitted for referendum entries.
type BallotEntry struct {
	PositionID   uint   `json:"position_id"`
	ContestantID *uint  `json:"contestant_id"`
	Choice       string `json:"choice"`
}

// BallotPosition is a position with its verified contestants.
type BallotPosition struct {
	model.Position
	ContestantCount int                `json:"contestant_count"`
	Contestants     []model.Contestant `json:"contestants"`
}

// BallotResponse GET /api/voting/positions
type BallotResponse struct {
	Positions   []BallotPosition `json:"positions"`
	VotingOpen  bool             `json:"voting_open"`
	VotingEnded bool             `json:"voting_ended"`
}

// VotingStatusResponse GET /api/voting/status
type VotingStatusResponse struct {
	HasVoted bool `json:"has_voted"`
}
