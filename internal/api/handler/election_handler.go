package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Iamanointing/mvv/internal/dto"
	"github.com/Iamanointing/mvv/internal/service"
	"github.com/Iamanointing/mvv/pkg/response"
)

// ElectionHandler serves positions and contestants (admin).
type ElectionHandler struct {
	electionSvc service.ElectionService
}

// NewElectionHandler creates an ElectionHandler.
func NewElectionHandler(electionSvc service.ElectionService) *ElectionHandler {
	return &ElectionHandler{electionSvc: electionSvc}
}

// ListPositions newest first
// GET /api/admin/positions
func (h *ElectionHandler) ListPositions(c *gin.Context) {
	positions, err := h.electionSvc.ListPositions(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, positions)
}

// CreatePosition
// POST /api/admin/positions
func (h *ElectionHandler) CreatePosition(c *gin.Context) {
	var req dto.CreatePositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Position name is required")
		return
	}

	position, err := h.electionSvc.CreatePosition(c.Request.Context(), &req)
	if err != nil {
		handleElectionError(c, err)
		return
	}
	response.Created(c, position)
}

// ListContestants with their position name
// GET /api/admin/contestants
func (h *ElectionHandler) ListContestants(c *gin.Context) {
	contestants, err := h.electionSvc.ListContestants(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, contestants)
}

// CreateContestant
// POST /api/admin/contestants (multipart, optional file "photo")
func (h *ElectionHandler) CreateContestant(c *gin.Context) {
	var req dto.CreateContestantRequest
	if err := c.ShouldBind(&req); err != nil {
		if isBodyTooLarge(err) {
			writeFormError(c, err)
			return
		}
		response.BadRequest(c, "Position and name are required")
		return
	}
	photo, ok := optionalFile(c, "photo")
	if !ok {
		return
	}

	contestant, err := h.electionSvc.CreateContestant(c.Request.Context(), &req, photo)
	if err != nil {
		handleElectionError(c, err)
		return
	}
	response.Created(c, contestant)
}

// VerifyContestant puts a contestant on the ballot
// PUT /api/admin/contestants/:id/verify
func (h *ElectionHandler) VerifyContestant(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.electionSvc.VerifyContestant(c.Request.Context(), id); err != nil {
		handleElectionError(c, err)
		return
	}
	response.Message(c, "Contestant verified successfully")
}

func handleElectionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPositionExists):
		response.BadRequest(c, "Position already exists")
	case errors.Is(err, service.ErrPositionNotFound):
		response.BadRequest(c, "Position not found")
	case errors.Is(err, service.ErrInvalidUpload):
		response.BadRequest(c, msgInvalidUpload)
	case errors.Is(err, service.ErrContestantNotFound):
		response.NotFound(c, "Contestant not found")
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}
