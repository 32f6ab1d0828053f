package model

// User is a registered voter.
type User struct {
	BaseModel
	RegNumber      string  `gorm:"type:varchar(50);uniqueIndex;not null" json:"reg_number"`
	Password       string  `gorm:"type:varchar(255);not null"             json:"-"`
	FullName       string  `gorm:"type:varchar(200);not null"             json:"full_name"`
	Level          string  `gorm:"type:varchar(20);not null"              json:"level"`
	Department     string  `gorm:"type:varchar(200);not null"             json:"department"`
	Email          *string `gorm:"type:varchar(255)"                      json:"email"`
	ProfilePicture *string `gorm:"type:varchar(500)"                      json:"profile_picture"`
	HasVoted       bool    `gorm:"not null;default:false"                 json:"has_voted"`
}

func (User) TableName() string { return "users" }
