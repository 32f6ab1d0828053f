package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Iamanointing/mvv/internal/dto"
	"github.com/Iamanointing/mvv/internal/service"
	"github.com/Iamanointing/mvv/pkg/response"
)

// VotingHandler serves the ballot to logged-in voters.
type VotingHandler struct {
	votingSvc service.VotingService
}

// NewVotingHandler creates a VotingHandler.
func NewVotingHandler(votingSvc service.VotingService) *VotingHandler {
	return &VotingHandler{votingSvc: votingSvc}
}

// Ballot positions with verified contestants and the voting flags
// GET /api/voting/positions
func (h *VotingHandler) Ballot(c *gin.Context) {
	ballot, err := h.votingSvc.Ballot(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, ballot)
}

// Status
// GET /api/voting/status
func (h *VotingHandler) Status(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	voted, err := h.votingSvc.HasVoted(c.Request.Context(), userID)
	if err != nil {
		handleVotingError(c, err)
		return
	}
	response.OK(c, dto.VotingStatusResponse{HasVoted: voted})
}

// Submit records the whole ballot
// POST /api/voting/submit (multipart: file "photo", field "votes")
func (h *VotingHandler) Submit(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	photo, ok := optionalFile(c, "photo")
	if !ok {
		return
	}

	err := h.votingSvc.Submit(c.Request.Context(), userID, c.PostForm("votes"), photo)
	if err != nil {
		handleVotingError(c, err)
		return
	}
	response.Message(c, "Vote submitted successfully")
}

func handleVotingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrVotingClosed):
		response.Forbidden(c, "Voting is currently closed")
	case errors.Is(err, service.ErrAlreadyVoted):
		response.Forbidden(c, "You have already voted")
	case errors.Is(err, service.ErrPhotoRequired):
		response.BadRequest(c, "Photo is required to submit vote")
	case errors.Is(err, service.ErrInvalidBallot):
		response.BadRequest(c, "Invalid votes payload")
	case errors.Is(err, service.ErrInvalidUpload):
		response.BadRequest(c, msgInvalidUpload)
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, "User not found")
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}
