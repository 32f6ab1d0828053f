package dto

// ── roster ──

// CreateStudentRequest adds one roster entry.
type CreateStudentRequest struct {
	RegNumber  string `json:"reg_number" binding:"required,max=50"`
	FullName   string `json:"full_name"  binding:"required,max=200"`
	Level      string `json:"level"      binding:"required,max=20"`
	Department string `json:"department" binding:"required,max=200"`
	Email      string `json:"email"`
}

// BulkStudentsRequest adds many roster entries, skipping existing reg numbers.
type BulkStudentsRequest struct {
	Students []CreateStudentRequest `json:"students" binding:"required,dive"`
}

// ── election configuration ──

// CreatePositionRequest adds an elected office.
type CreatePositionRequest struct {
	Name        string `json:"name"        binding:"required,max=200"`
	Description string `json:"description"`
}

// CreateContestantRequest is posted as multipart form data with an optional
// "photo" file.
type CreateContestantRequest struct {
	PositionID uint   `form:"position_id" binding:"required"`
	Name       string `form:"name"        binding:"required,max=200"`
	RegNumber  string `form:"reg_number"`
	Level      string `form:"level"`
	Department string `form:"department"`
	Bio        string `form:"bio"`
}

// UpdateSettingRequest sets one control flag.
type UpdateSettingRequest struct {
	Key   string `json:"key"   binding:"required"`
	Value string `json:"value" binding:"required"`
}

// ── announcements & reports ──

// CreateAnnouncementRequest posts a notice.
type CreateAnnouncementRequest struct {
	Title   string `json:"title"   binding:"required,max=300"`
	Content string `json:"content" binding:"required"`
}

// ReportRequest is a problem report sent by a voter.
type ReportRequest struct {
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}
