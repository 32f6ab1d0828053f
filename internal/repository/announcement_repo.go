package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Iamanointing/mvv/internal/model"
)

// AnnouncementWithAdmin is an announcement joined with its author's username.
type AnnouncementWithAdmin struct {
	ID            uint      `json:"id"`
	AdminID       uint      `json:"admin_id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"created_at"`
	AdminUsername string    `json:"admin_username"`
}

// AnnouncementRepository accesses admin notices.
type AnnouncementRepository interface {
	Create(ctx context.Context, a *model.Announcement) error
	ListLatest(ctx context.Context, limit int) ([]AnnouncementWithAdmin, error)
}

type announcementRepo struct {
	db *gorm.DB
}

// NewAnnouncementRepo creates an AnnouncementRepository.
func NewAnnouncementRepo(db *gorm.DB) AnnouncementRepository {
	return &announcementRepo{db: db}
}

func (r *announcementRepo) Create(ctx context.Context, a *model.Announcement) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *announcementRepo) ListLatest(ctx context.Context, limit int) ([]AnnouncementWithAdmin, error) {
	var rows []AnnouncementWithAdmin
	err := r.db.WithContext(ctx).
		Table("announcements AS a").
		Select("a.id, a.admin_id, a.title, a.content, a.created_at, ad.username AS admin_username").
		Joins("JOIN admins ad ON ad.id = a.admin_id").
		Order("a.created_at DESC, a.id DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
