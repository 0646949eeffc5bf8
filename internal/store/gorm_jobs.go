package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/justsurfingit/job-tracker/internal/models"
	"gorm.io/gorm"
)

type GormJobStore struct {
	DB    *gorm.DB
	ready Readiness
	now   func() time.Time
}

func NewGormJobStore(db *gorm.DB, ready Readiness) *GormJobStore {
	return &GormJobStore{DB: db, ready: ready, now: func() time.Time { return time.Now().UTC() }}
}

// check fails fast instead of letting the query block on a dead connection.
func (s *GormJobStore) check(ctx context.Context) error {
	if s.DB == nil || s.ready == nil || !s.ready.Ready(ctx) {
		return ErrUnavailable
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (s *GormJobStore) List(ctx context.Context, ownerID string, f Filter) ([]models.Job, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}

	q := s.DB.WithContext(ctx).Where("user_id = ?", ownerID)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Company != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(f.Company)) + "%"
		q = q.Where(`LOWER(company) LIKE ? ESCAPE '\'`, pattern)
	}
	if f.Sort == SortByDate {
		q = q.Order("date_applied IS NULL").Order("date_applied DESC")
	}
	q = q.Order("updated_at DESC")

	jobs := []models.Job{}
	if err := q.Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

func (s *GormJobStore) Create(ctx context.Context, job models.Job) (*models.Job, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	rec := job.Clone()
	if err := s.DB.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	return &rec, nil
}

func (s *GormJobStore) Update(ctx context.Context, ownerID, id string, patch models.JobPatch) (*models.Job, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}

	var job models.Job
	err := s.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, ownerID).First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load job: %w", err)
	}

	job.Apply(patch, s.now())
	if err := s.DB.WithContext(ctx).Save(&job).Error; err != nil {
		return nil, fmt.Errorf("save job: %w", err)
	}
	return &job, nil
}

func (s *GormJobStore) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	res := s.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, ownerID).Delete(&models.Job{})
	if res.Error != nil {
		return fmt.Errorf("delete job: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
