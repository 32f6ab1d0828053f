package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository groups every data-access interface behind one handle.
type Repository struct {
	db *gorm.DB

	Student      StudentRepository
	User         UserRepository
	Admin        AdminRepository
	Position     PositionRepository
	Contestant   ContestantRepository
	Vote         VoteRepository
	Announcement AnnouncementRepository
	Setting      SettingRepository
}

// NewRepository wires every repository to db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:           db,
		Student:      NewStudentRepo(db),
		User:         NewUserRepo(db),
		Admin:        NewAdminRepo(db),
		Position:     NewPositionRepo(db),
		Contestant:   NewContestantRepo(db),
		Vote:         NewVoteRepo(db),
		Announcement: NewAnnouncementRepo(db),
		Setting:      NewSettingRepo(db),
	}
}

// BeginTx starts a transaction. It returns a nil tx when the Repository has
// no database handle (mock-backed repositories in tests).
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return tx, nil
}

// WithTx returns a Repository whose members run inside tx.
// A nil tx returns r unchanged.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}

// Transaction runs fn against a transactional Repository, committing when fn
// returns nil and rolling back otherwise.
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) (err error) {
	tx, err := r.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(p)
		}
	}()

	if err := fn(r.WithTx(tx)); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		return err
	}

	if tx != nil {
		return tx.Commit().Error
	}
	return nil
}
