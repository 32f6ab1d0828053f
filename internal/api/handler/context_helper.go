package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Iamanointing/mvv/internal/api/middleware"
	"github.com/Iamanointing/mvv/pkg/response"
)

// MustGetUserID returns the principal id stored by JWTAuth. When it is
// missing a 401 is written and ok is false; callers return immediately.
func MustGetUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(middleware.CtxUserID)
	if !exists {
		response.Unauthorized(c, "Access token required")
		return 0, false
	}
	id, ok := v.(uint)
	if !ok || id == 0 {
		response.Unauthorized(c, "Access token required")
		return 0, false
	}
	return id, true
}

// tokenInfo returns the jti and expiry of the current token, zero when absent.
func tokenInfo(c *gin.Context) (string, time.Time) {
	exp, _ := c.Get(middleware.CtxTokenExp)
	t, _ := exp.(time.Time)
	return c.GetString(middleware.CtxTokenID), t
}

// parseIDParam reads a positive numeric path parameter. On failure a 400 is
// written and ok is false.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

const (
	msgNoFile          = "No file uploaded"
	msgInvalidUpload   = "Only image files up to the size limit are allowed"
	msgUnreadableSheet = "Unable to read spreadsheet"
	msgBodyTooLarge    = "Request body too large"
	msgInvalidForm     = "Invalid multipart form"
)

// optionalFile returns the uploaded file for field, or nil when the form
// carries none. Any other form error is written and ok is false.
func optionalFile(c *gin.Context, field string) (*multipart.FileHeader, bool) {
	fh, err := c.FormFile(field)
	switch {
	case err == nil:
		return fh, true
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return nil, true
	default:
		writeFormError(c, err)
		return nil, false
	}
}

// writeFormError answers a failed multipart parse: 413 when the body went
// over the BodyLimit cap, 400 otherwise.
func writeFormError(c *gin.Context, err error) {
	if isBodyTooLarge(err) {
		response.Error(c, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
		return
	}
	response.BadRequest(c, msgInvalidForm)
}

func isBodyTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	return errors.As(err, &tooLarge)
}
