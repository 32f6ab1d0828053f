package model

import "time"

// Settings keys. Values are stored as "0" / "1".
const (
	SettingRegistrationOpen = "registration_open"
	SettingVotingOpen       = "voting_open"
	SettingVotingEnded      = "voting_ended"
)

// DefaultSettings are seeded on first start.
var DefaultSettings = map[string]string{
	SettingRegistrationOpen: "1",
	SettingVotingOpen:       "0",
	SettingVotingEnded:      "0",
}

// Setting is one key/value row of the election control flags.
type Setting struct {
	Key       string    `gorm:"type:varchar(100);primaryKey"       json:"key"`
	Value     string    `gorm:"type:text;not null"                 json:"value"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Setting) TableName() string { return "settings" }

// IsKnownSetting reports whether key is one of the control flags.
func IsKnownSetting(key string) bool {
	_, ok := DefaultSettings[key]
	return ok
}
