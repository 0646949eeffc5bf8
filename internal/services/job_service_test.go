package services

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/justsurfingit/job-tracker/internal/config"
	"github.com/justsurfingit/job-tracker/internal/database"
	"github.com/justsurfingit/job-tracker/internal/dtos"
	"github.com/justsurfingit/job-tracker/internal/models"
	"github.com/justsurfingit/job-tracker/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type alwaysReady bool

func (r alwaysReady) Ready(context.Context) bool { return bool(r) }

// newTestService wires the same combinator main does. With dbUp false the
// primary has no connection and every call lands in the file store.
func newTestService(t *testing.T, dbUp bool) (*JobService, *store.FileJobStore) {
	t.Helper()
	file, err := store.OpenFileJobStore(filepath.Join(t.TempDir(), "jobs.json"))
	require.NoError(t, err)

	primary := store.NewGormJobStore(nil, alwaysReady(false))
	if dbUp {
		db, err := database.Connect(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:", PingTimeout: time.Second})
		require.NoError(t, err)
		require.NoError(t, database.Migrate(db))
		primary = store.NewGormJobStore(db, alwaysReady(true))
	}

	svc := NewJobService(store.NewFallbackJobStore(primary, file))
	fixed := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("job-%d", n)
	}
	return svc, file
}

func TestJobService_CreateDefaults(t *testing.T) {
	svc, _ := newTestService(t, false)

	job, err := svc.CreateJob(context.Background(), "owner-1", &dtos.JobCreationRequest{Title: " Engineer ", Company: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, "job-1", job.ID)
	assert.Equal(t, "owner-1", job.UserID)
	assert.Equal(t, "Engineer", job.Title)
	assert.Equal(t, models.StatusWishlist, job.Status)
	assert.Equal(t, models.SourceManual, job.Source)
	require.Len(t, job.Timeline, 1)
	assert.Equal(t, models.TimelineCreated, job.Timeline[0].Type)
}

func TestJobService_ValidationRejectsBeforeStore(t *testing.T) {
	svc, file := newTestService(t, false)
	ctx := context.Background()

	tests := []struct {
		name string
		req  dtos.JobCreationRequest
	}{
		{name: "empty title", req: dtos.JobCreationRequest{Title: "  ", Company: "Acme"}},
		{name: "empty company", req: dtos.JobCreationRequest{Title: "Engineer"}},
		{name: "bad status", req: dtos.JobCreationRequest{Title: "Engineer", Company: "Acme", Status: "ghosted"}},
		{name: "bad source", req: dtos.JobCreationRequest{Title: "Engineer", Company: "Acme", Source: "carrier-pigeon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateJob(ctx, "owner-1", &tt.req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	jobs, err := file.List(ctx, "owner-1", store.Filter{})
	require.NoError(t, err)
	assert.Empty(t, jobs)

	_, err = svc.ListJobs(ctx, "owner-1", dtos.JobListQuery{Status: "ghosted"})
	assert.ErrorIs(t, err, ErrValidation)

	empty := ""
	_, err = svc.UpdateJob(ctx, "owner-1", "x", &dtos.JobUpdateRequest{Title: &empty})
	assert.ErrorIs(t, err, ErrValidation)

	bad := "ghosted"
	_, err = svc.UpdateJob(ctx, "owner-1", "x", &dtos.JobUpdateRequest{Status: &bad})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestJobService_UpdateIsIdempotent(t *testing.T) {
	svc, _ := newTestService(t, false)
	ctx := context.Background()

	job, err := svc.CreateJob(ctx, "owner-1", &dtos.JobCreationRequest{Title: "Engineer", Company: "Acme", Status: "applied"})
	require.NoError(t, err)

	status := "interviewing"
	salary := "$150k"
	notes := dtos.NoteList{{Text: "Recruiter call went well"}}
	req := &dtos.JobUpdateRequest{Status: &status, Salary: &salary, Notes: &notes}

	first, err := svc.UpdateJob(ctx, "owner-1", job.ID, req)
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, err := svc.UpdateJob(ctx, "owner-1", job.ID, req)
	require.NoError(t, err)

	// updatedAt is bumped on every write; everything else, note dates
	// included, must match.
	first.UpdatedAt, second.UpdatedAt = time.Time{}, time.Time{}
	assert.Equal(t, first, second)
	require.Len(t, second.Notes, 1)
	assert.False(t, second.Notes[0].Date.IsZero())
	assert.Equal(t, models.StatusInterviewing, second.Status)
	assert.Len(t, second.Timeline, 2)
}

func TestJobService_OwnershipIsolation(t *testing.T) {
	for _, dbUp := range []bool{false, true} {
		name := "fallback"
		if dbUp {
			name = "primary"
		}
		t.Run(name, func(t *testing.T) {
			svc, _ := newTestService(t, dbUp)
			ctx := context.Background()

			job, err := svc.CreateJob(ctx, "owner-a", &dtos.JobCreationRequest{Title: "Engineer", Company: "Acme"})
			require.NoError(t, err)

			jobs, err := svc.ListJobs(ctx, "owner-b", dtos.JobListQuery{})
			require.NoError(t, err)
			assert.Empty(t, jobs)

			title := "mine now"
			_, err = svc.UpdateJob(ctx, "owner-b", job.ID, &dtos.JobUpdateRequest{Title: &title})
			assert.ErrorIs(t, err, store.ErrNotFound)
			assert.ErrorIs(t, svc.DeleteJob(ctx, "owner-b", job.ID), store.ErrNotFound)

			jobs, err = svc.ListJobs(ctx, "owner-a", dtos.JobListQuery{})
			require.NoError(t, err)
			require.Len(t, jobs, 1)
			assert.Equal(t, "Engineer", jobs[0].Title)
		})
	}
}

func TestJobService_FallbackEquivalence(t *testing.T) {
	run := func(dbUp bool) []models.Job {
		svc, _ := newTestService(t, dbUp)
		ctx := context.Background()

		a, err := svc.CreateJob(ctx, "owner-1", &dtos.JobCreationRequest{Title: "Engineer", Company: "Acme", Status: "applied"})
		require.NoError(t, err)
		b, err := svc.CreateJob(ctx, "owner-1", &dtos.JobCreationRequest{Title: "SRE", Company: "Globex"})
		require.NoError(t, err)

		status := "offer"
		_, err = svc.UpdateJob(ctx, "owner-1", a.ID, &dtos.JobUpdateRequest{Status: &status})
		require.NoError(t, err)
		require.NoError(t, svc.DeleteJob(ctx, "owner-1", b.ID))

		jobs, err := svc.ListJobs(ctx, "owner-1", dtos.JobListQuery{})
		require.NoError(t, err)
		return jobs
	}

	up, down := run(true), run(false)
	require.Len(t, up, 1)
	require.Len(t, down, 1)
	assert.Equal(t, up[0].ID, down[0].ID)
	assert.Equal(t, up[0].Status, down[0].Status)
	assert.Equal(t, up[0].Title, down[0].Title)
	assert.Equal(t, len(up[0].Timeline), len(down[0].Timeline))
}

func TestJobService_SaveFromExtension(t *testing.T) {
	svc, _ := newTestService(t, false)
	ctx := context.Background()

	job, err := svc.SaveFromExtension(ctx, "owner-1", dtos.ExtensionJob{
		Title:       "Backend Engineer",
		Company:     "Initech",
		Description: "Build and run Go services.",
		Source:      "general",
	})
	require.NoError(t, err)
	assert.Equal(t, models.SourceManual, job.Source)
	assert.Equal(t, "Build and run Go services.", job.JDText)
	assert.Equal(t, models.StatusWishlist, job.Status)

	job, err = svc.SaveFromExtension(ctx, "owner-1", dtos.ExtensionJob{Title: "T", Company: "C", Source: "linkedin", JDText: "kept", Description: "ignored"})
	require.NoError(t, err)
	assert.Equal(t, models.SourceLinkedIn, job.Source)
	assert.Equal(t, "kept", job.JDText)

	_, err = svc.SaveFromExtension(ctx, "owner-1", dtos.ExtensionJob{Company: "C"})
	assert.ErrorIs(t, err, ErrValidation)
}
