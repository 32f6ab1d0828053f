package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Iamanointing/mvv/internal/dto"
	"github.com/Iamanointing/mvv/internal/service"
	"github.com/Iamanointing/mvv/pkg/response"
)

// UserHandler serves the logged-in voter's own profile.
type UserHandler struct {
	profileSvc service.ProfileService
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(profileSvc service.ProfileService) *UserHandler {
	return &UserHandler{profileSvc: profileSvc}
}

// GetProfile
// GET /api/user/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.profileSvc.Get(c.Request.Context(), userID)
	if err != nil {
		handleUserError(c, err)
		return
	}
	response.OK(c, user)
}

// UploadPicture
// POST /api/user/profile/picture (multipart, file "profile_picture")
func (h *UserHandler) UploadPicture(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	picture, ok := optionalFile(c, "profile_picture")
	if !ok {
		return
	}

	path, err := h.profileSvc.UpdatePicture(c.Request.Context(), userID, picture)
	if err != nil {
		handleUserError(c, err)
		return
	}
	response.OK(c, dto.ProfilePictureResponse{ProfilePicture: path})
}

// Report sends a problem report
// POST /api/user/report
func (h *UserHandler) Report(c *gin.Context) {
	var req dto.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Subject and message are required")
		return
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.profileSvc.Report(c.Request.Context(), userID, &req); err != nil {
		handleUserError(c, err)
		return
	}
	response.Message(c, "Report submitted successfully")
}

func handleUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrFileRequired):
		response.BadRequest(c, msgNoFile)
	case errors.Is(err, service.ErrInvalidUpload):
		response.BadRequest(c, msgInvalidUpload)
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, "User not found")
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}
