package model

import "time"

// Vote choices. Multi-candidate positions record ChoiceCandidate; a
// single-candidate position is a yes/no referendum.
const (
	ChoiceYes       = "yes"
	ChoiceNo        = "no"
	ChoiceCandidate = "candidate"
)

// Vote is one ballot entry for one position. Votes are never deleted, only
// cancelled by an admin.
type Vote struct {
	BaseModel
	UserID       uint       `gorm:"not null;index"            json:"user_id"`
	PositionID   uint       `gorm:"not null;index"            json:"position_id"`
	ContestantID *uint      `gorm:"index"                     json:"contestant_id"`
	Choice       string     `gorm:"type:varchar(20);not null" json:"choice"`
	Photo        string     `gorm:"type:varchar(500);not null" json:"photo"`
	IsCancelled  bool       `gorm:"not null;default:false"    json:"is_cancelled"`
	CancelledBy  *uint      `                                 json:"cancelled_by"`
	CancelledAt  *time.Time `                                 json:"cancelled_at"`

	User       *User       `gorm:"foreignKey:UserID"       json:"-"`
	Position   *Position   `gorm:"foreignKey:PositionID"   json:"-"`
	Contestant *Contestant `gorm:"foreignKey:ContestantID" json:"-"`
	Canceller  *Admin      `gorm:"foreignKey:CancelledBy"  json:"-"`
}

func (Vote) TableName() string { return "votes" }
