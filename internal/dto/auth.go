package dto

// ── auth ──

// RegisterRequest voter self-registration. RegNumber and FullName must match
// a roster entry.
type RegisterRequest struct {
	RegNumber  string `json:"reg_number" binding:"required,max=50"`
	Password   string `json:"password"   binding:"required,min=6,max=72"`
	FullName   string `json:"full_name"  binding:"required,max=200"`
	Level      string `json:"level"      binding:"required,max=20"`
	Department string `json:"department" binding:"required,max=200"`
	Email      string `json:"email"      binding:"max=255"`
}

// LoginRequest voter login.
type LoginRequest struct {
	RegNumber string `json:"reg_number" binding:"required"`
	Password  string `json:"password"   binding:"required"`
}

// AdminLoginRequest administrator login.
type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
