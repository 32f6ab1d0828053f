package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Iamanointing/mvv/internal/dto"
	"github.com/Iamanointing/mvv/internal/service"
	"github.com/Iamanointing/mvv/pkg/response"
)

// RosterHandler serves the student roster and registered voters (admin).
type RosterHandler struct {
	rosterSvc service.RosterService
}

// NewRosterHandler creates a RosterHandler.
func NewRosterHandler(rosterSvc service.RosterService) *RosterHandler {
	return &RosterHandler{rosterSvc: rosterSvc}
}

// ListUsers registered voters
// GET /api/admin/users
func (h *RosterHandler) ListUsers(c *gin.Context) {
	users, err := h.rosterSvc.ListUsers(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, users)
}

// ListStudents roster, newest first
// GET /api/admin/students
func (h *RosterHandler) ListStudents(c *gin.Context) {
	students, err := h.rosterSvc.ListStudents(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, students)
}

// CreateStudent
// POST /api/admin/students
func (h *RosterHandler) CreateStudent(c *gin.Context) {
	var req dto.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Registration number, full name, level and department are required")
		return
	}

	if err := h.rosterSvc.CreateStudent(c.Request.Context(), &req); err != nil {
		handleRosterError(c, err)
		return
	}
	response.Created(c, response.MessageBody{Message: "Student added successfully"})
}

// BulkCreateStudents inserts many students, skipping existing reg numbers
// POST /api/admin/students/bulk
func (h *RosterHandler) BulkCreateStudents(c *gin.Context) {
	var req dto.BulkStudentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Students array is required")
		return
	}

	inserted, err := h.rosterSvc.BulkCreate(c.Request.Context(), &req)
	if err != nil {
		handleRosterError(c, err)
		return
	}
	response.Created(c, gin.H{"message": "Students uploaded successfully", "inserted": inserted})
}

// ImportStudents reads an .xlsx roster
// POST /api/admin/students/import (multipart, field "file")
func (h *RosterHandler) ImportStudents(c *gin.Context) {
	fh, ok := optionalFile(c, "file")
	if !ok {
		return
	}
	if fh == nil {
		response.BadRequest(c, msgNoFile)
		return
	}
	file, err := fh.Open()
	if err != nil {
		response.BadRequest(c, msgUnreadableSheet)
		return
	}
	defer file.Close()

	rows, err := h.rosterSvc.ParseImportFile(file)
	if err != nil {
		handleRosterError(c, err)
		return
	}

	result, err := h.rosterSvc.ImportStudents(c.Request.Context(), rows)
	if err != nil {
		handleRosterError(c, err)
		return
	}
	response.OK(c, result)
}

func handleRosterError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrStudentExists):
		response.BadRequest(c, "Student with this registration number already exists")
	case errors.Is(err, service.ErrImportUnreadable):
		response.BadRequest(c, msgUnreadableSheet)
	case errors.Is(err, service.ErrImportNoData):
		response.BadRequest(c, "Spreadsheet has no data rows (the first row is the header)")
	case errors.Is(err, service.ErrImportTooManyRows):
		response.BadRequest(c, "Spreadsheet has too many rows")
	case errors.Is(err, service.ErrImportBadHeader):
		response.BadRequest(c, "Spreadsheet header must contain reg_number, full_name, level and department")
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}
