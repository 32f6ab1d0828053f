package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Iamanointing/mvv/internal/model"
)

// SettingRepository accesses the election control flags.
type SettingRepository interface {
	Get(ctx context.Context, key string) (string, error)
	GetAll(ctx context.Context) ([]model.Setting, error)
	// Set updates an existing key. Missing keys yield gorm.ErrRecordNotFound.
	Set(ctx context.Context, key, value string) error
	// SeedDefaults inserts every key that is not present yet.
	SeedDefaults(ctx context.Context, defaults map[string]string) error
}

type settingRepo struct {
	db *gorm.DB
}

// NewSettingRepo creates a SettingRepository.
func NewSettingRepo(db *gorm.DB) SettingRepository {
	return &settingRepo{db: db}
}

func (r *settingRepo) Get(ctx context.Context, key string) (string, error) {
	var s model.Setting
	if err := r.db.WithContext(ctx).Where(map[string]interface{}{"key": key}).First(&s).Error; err != nil {
		return "", err
	}
	return s.Value, nil
}

func (r *settingRepo) GetAll(ctx context.Context) ([]model.Setting, error) {
	var settings []model.Setting
	err := r.db.WithContext(ctx).Order(clause.OrderByColumn{Column: clause.Column{Name: "key"}}).Find(&settings).Error
	return settings, err
}

func (r *settingRepo) Set(ctx context.Context, key, value string) error {
	return updateOne(r.db.WithContext(ctx).
		Model(&model.Setting{}).
		Where(map[string]interface{}{"key": key}).
		Updates(map[string]interface{}{
			"value":      value,
			"updated_at": time.Now(),
		}))
}

func (r *settingRepo) SeedDefaults(ctx context.Context, defaults map[string]string) error {
	rows := make([]model.Setting, 0, len(defaults))
	for k, v := range defaults {
		rows = append(rows, model.Setting{Key: k, Value: v, UpdatedAt: time.Now()})
	}
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}
