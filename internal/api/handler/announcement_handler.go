package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Iamanointing/mvv/internal/dto"
	"github.com/Iamanointing/mvv/internal/service"
	"github.com/Iamanointing/mvv/pkg/response"
)

// AnnouncementHandler serves notices.
type AnnouncementHandler struct {
	announcementSvc service.AnnouncementService
}

// NewAnnouncementHandler creates an AnnouncementHandler.
func NewAnnouncementHandler(announcementSvc service.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{announcementSvc: announcementSvc}
}

// List latest notices (public)
// GET /api/announcements
func (h *AnnouncementHandler) List(c *gin.Context) {
	items, err := h.announcementSvc.ListLatest(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, items)
}

// Create posts a notice and broadcasts it (admin)
// POST /api/announcements
func (h *AnnouncementHandler) Create(c *gin.Context) {
	var req dto.CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Title and content are required")
		return
	}
	adminID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	a, err := h.announcementSvc.Create(c.Request.Context(), adminID, &req)
	if err != nil {
		_ = c.Error(err)
		response.InternalError(c)
		return
	}
	response.Created(c, a)
}
