// Package store holds the job and user persistence layers: a gorm-backed
// primary store, a JSON-file fallback store, and the combinator that routes
// every call to the fallback when the primary fails.
package store

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks . JobStore,UserStore

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/justsurfingit/job-tracker/internal/models"
)

var (
	// ErrUnavailable means the backing database is not in a ready state.
	ErrUnavailable = errors.New("store unavailable")
	ErrNotFound    = errors.New("job not found")
)

// SortByDate orders by application date, newest first. Any other value
// orders by last update.
const SortByDate = "date"

type Filter struct {
	Status  models.Status
	Company string
	Sort    string
}

// JobStore is implemented by GormJobStore, FileJobStore and
// FallbackJobStore. Every operation is scoped to the owner.
type JobStore interface {
	List(ctx context.Context, ownerID string, f Filter) ([]models.Job, error)
	Create(ctx context.Context, job models.Job) (*models.Job, error)
	Update(ctx context.Context, ownerID, id string, patch models.JobPatch) (*models.Job, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type UserStore interface {
	FindOrCreate(ctx context.Context, u models.User) (*models.User, error)
}

// Readiness reports whether the database can take a query right now.
type Readiness interface {
	Ready(ctx context.Context) bool
}

func matches(j *models.Job, ownerID string, f Filter) bool {
	if j.UserID != ownerID {
		return false
	}
	if f.Status != "" && j.Status != f.Status {
		return false
	}
	if f.Company != "" && !strings.Contains(strings.ToLower(j.Company), strings.ToLower(f.Company)) {
		return false
	}
	return true
}

// sortJobs orders in place the same way GormJobStore orders in SQL.
func sortJobs(jobs []models.Job, order string) {
	sort.SliceStable(jobs, func(a, b int) bool {
		if order == SortByDate {
			da, db := jobs[a].DateApplied, jobs[b].DateApplied
			switch {
			case da == nil && db == nil:
			case da == nil:
				return false
			case db == nil:
				return true
			case !da.Equal(*db):
				return da.After(*db)
			}
		}
		return jobs[a].UpdatedAt.After(jobs[b].UpdatedAt)
	})
}
