package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/justsurfingit/job-tracker/internal/models"
	"gorm.io/gorm"
)

type GormUserStore struct {
	DB    *gorm.DB
	ready Readiness
}

func NewGormUserStore(db *gorm.DB, ready Readiness) *GormUserStore {
	return &GormUserStore{DB: db, ready: ready}
}

// FindOrCreate returns the user with u.GoogleID, creating it from u when
// absent. Profile fields of an existing user are left as stored.
func (s *GormUserStore) FindOrCreate(ctx context.Context, u models.User) (*models.User, error) {
	if s.DB == nil || s.ready == nil || !s.ready.Ready(ctx) {
		return nil, ErrUnavailable
	}

	var user models.User
	err := s.DB.WithContext(ctx).
		Where(models.User{GoogleID: u.GoogleID}).
		Attrs(models.User{ID: uuid.NewString(), Email: u.Email, Name: u.Name, Picture: u.Picture}).
		FirstOrCreate(&user).Error
	if err != nil {
		return nil, fmt.Errorf("find or create user: %w", err)
	}
	return &user, nil
}
