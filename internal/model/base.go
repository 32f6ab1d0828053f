package model

import "time"

// BaseModel carries the surrogate key and creation time shared by every table
// except settings.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"              json:"id"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"    json:"created_at"`
}

// All lists every model, in dependency order, for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&Student{},
		&User{},
		&Admin{},
		&Position{},
		&Contestant{},
		&Vote{},
		&Announcement{},
		&Setting{},
	}
}
