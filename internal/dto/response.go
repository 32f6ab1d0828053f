package dto

import "github.com/Iamanointing/mvv/internal/model"

// UserResponse is a voter without credentials.
type UserResponse struct {
	ID             uint    `json:"id"`
	RegNumber      string  `json:"reg_number"`
	FullName       string  `json:"full_name"`
	Level          string  `json:"level"`
	Department     string  `json:"department"`
	Email          *string `json:"email"`
	ProfilePicture *string `json:"profile_picture"`
	HasVoted       bool    `json:"has_voted"`
}

// NewUserResponse strips credentials from u.
func NewUserResponse(u *model.User) *UserResponse {
	return &UserResponse{
		ID:             u.ID,
		RegNumber:      u.RegNumber,
		FullName:       u.FullName,
		Level:          u.Level,
		Department:     u.Department,
		Email:          u.Email,
		ProfilePicture: u.ProfilePicture,
		HasVoted:       u.HasVoted,
	}
}

// AdminResponse identifies the logged-in administrator.
type AdminResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// LoginResponse carries the session token and either the voter or the admin.
type LoginResponse struct {
	Token string         `json:"token"`
	User  *UserResponse  `json:"user,omitempty"`
	Admin *AdminResponse `json:"admin,omitempty"`
}

// ProfilePictureResponse POST /api/user/profile/picture
type ProfilePictureResponse struct {
	ProfilePicture string `json:"profile_picture"`
}

// ImportRowError explains why a spreadsheet row was rejected.
type ImportRowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportStudentsResponse summarises a roster import.
type ImportStudentsResponse struct {
	Total    int              `json:"total"`
	Inserted int              `json:"inserted"`
	Skipped  int              `json:"skipped"`
	Errors   []ImportRowError `json:"errors"`
}
