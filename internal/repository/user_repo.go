package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Iamanointing/mvv/internal/model"
)

// UserRepository accesses registered voters.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByRegNumber(ctx context.Context, regNumber string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	MarkVoted(ctx context.Context, id uint) error
	UpdateProfilePicture(ctx context.Context, id uint, path string) error
}

type userRepo struct {
	db *gorm.DB
}

// NewUserRepo creates a UserRepository.
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepo) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByRegNumber(ctx context.Context, regNumber string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("reg_number = ?", regNumber).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&users).Error
	return users, err
}

func (r *userRepo) MarkVoted(ctx context.Context, id uint) error {
	return updateOne(r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Update("has_voted", true))
}

func (r *userRepo) UpdateProfilePicture(ctx context.Context, id uint, path string) error {
	return updateOne(r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Update("profile_picture", path))
}

// updateOne maps a zero-row update to gorm.ErrRecordNotFound.
func updateOne(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
