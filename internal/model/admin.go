package model

// Admin is an election administrator account.
type Admin struct {
	BaseModel
	Username string `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	Password string `gorm:"type:varchar(255);not null"             json:"-"`
}

func (Admin) TableName() string { return "admins" }
