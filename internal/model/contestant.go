package model

// Contestant is a candidate for one position. Only verified contestants
// appear on the ballot and in results.
type Contestant struct {
	BaseModel
	PositionID uint    `gorm:"not null;index"            json:"position_id"`
	Name       string  `gorm:"type:varchar(200);not null" json:"name"`
	RegNumber  *string `gorm:"type:varchar(50)"           json:"reg_number"`
	Level      *string `gorm:"type:varchar(20)"           json:"level"`
	Department *string `gorm:"type:varchar(200)"          json:"department"`
	Photo      *string `gorm:"type:varchar(500)"          json:"photo"`
	Bio        *string `gorm:"type:text"                  json:"bio"`
	Verified   bool    `gorm:"not null;default:false"     json:"verified"`

	Position *Position `gorm:"foreignKey:PositionID" json:"-"`
}

func (Contestant) TableName() string { return "contestants" }
