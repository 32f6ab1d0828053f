package model

// Student is an entry on the eligibility roster. Only listed students may
// register as voters.
type Student struct {
	BaseModel
	RegNumber  string  `gorm:"type:varchar(50);uniqueIndex;not null" json:"reg_number"`
	FullName   string  `gorm:"type:varchar(200);not null"             json:"full_name"`
	Level      string  `gorm:"type:varchar(20);not null"              json:"level"`
	Department string  `gorm:"type:varchar(200);not null"             json:"department"`
	Email      *string `gorm:"type:varchar(255)"                      json:"email"`
}

// TableName overrides the gorm default.
func (Student) TableName() string { return "students" }
