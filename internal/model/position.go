package model

// Position is an elected office, e.g. "President".
type Position struct {
	BaseModel
	Name        string  `gorm:"type:varchar(200);uniqueIndex;not null" json:"name"`
	Description *string `gorm:"type:text"                              json:"description"`
}

func (Position) TableName() string { return "positions" }
