package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Iamanointing/mvv/internal/model"
)

// StudentRepository accesses the eligibility roster.
type StudentRepository interface {
	Create(ctx context.Context, student *model.Student) error
	// CreateIgnoreDuplicates inserts every student whose reg number is not
	// already on the roster and returns how many rows were inserted.
	CreateIgnoreDuplicates(ctx context.Context, students []model.Student) (int64, error)
	GetByRegNumberAndName(ctx context.Context, regNumber, fullName string) (*model.Student, error)
	List(ctx context.Context) ([]model.Student, error)
}

type studentRepo struct {
	db *gorm.DB
}

// NewStudentRepo creates a StudentRepository.
func NewStudentRepo(db *gorm.DB) StudentRepository {
	return &studentRepo{db: db}
}

func (r *studentRepo) Create(ctx context.Context, student *model.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepo) CreateIgnoreDuplicates(ctx context.Context, students []model.Student) (int64, error) {
	if len(students) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&students)
	return res.RowsAffected, res.Error
}

func (r *studentRepo) GetByRegNumberAndName(ctx context.Context, regNumber, fullName string) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).
		Where("reg_number = ? AND full_name = ?", regNumber, fullName).
		First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepo) List(ctx context.Context) ([]model.Student, error) {
	var students []model.Student
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&students).Error
	return students, err
}
