package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Iamanointing/mvv/internal/service"
	"github.com/Iamanointing/mvv/pkg/response"
)

// VoteHandler is the admin view over recorded votes.
type VoteHandler struct {
	voteSvc service.VoteService
}

// NewVoteHandler creates a VoteHandler.
func NewVoteHandler(voteSvc service.VoteService) *VoteHandler {
	return &VoteHandler{voteSvc: voteSvc}
}

// ListVotes newest first
// GET /api/admin/votes
func (h *VoteHandler) ListVotes(c *gin.Context) {
	votes, err := h.voteSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, votes)
}

// CancelVote
// PUT /api/admin/votes/:id/cancel
func (h *VoteHandler) CancelVote(c *gin.Context) {
	voteID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	adminID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.voteSvc.Cancel(c.Request.Context(), voteID, adminID); err != nil {
		if errors.Is(err, service.ErrVoteNotFound) {
			response.NotFound(c, "Vote not found")
			return
		}
		_ = c.Error(err)
		response.InternalError(c)
		return
	}
	response.Message(c, "Vote cancelled successfully")
}

// VoterLogs who voted and when
// GET /api/admin/logs/voters
func (h *VoteHandler) VoterLogs(c *gin.Context) {
	logs, err := h.voteSvc.VoterLogs(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, logs)
}
