package model

// Announcement is a notice posted by an admin to all voters.
type Announcement struct {
	BaseModel
	AdminID uint   `gorm:"not null;index"             json:"admin_id"`
	Title   string `gorm:"type:varchar(300);not null" json:"title"`
	Content string `gorm:"type:text;not null"         json:"content"`

	Admin *Admin `gorm:"foreignKey:AdminID" json:"-"`
}

func (Announcement) TableName() string { return "announcements" }
