package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/justsurfingit/job-tracker/internal/dtos"
	"github.com/justsurfingit/job-tracker/internal/models"
	"github.com/justsurfingit/job-tracker/internal/store"
)

// ErrValidation wraps every input problem the service rejects before
// touching a store.
var ErrValidation = errors.New("validation failed")

type JobService struct {
	Store store.JobStore
	now   func() time.Time
	newID func() string
}

func NewJobService(s store.JobStore) *JobService {
	return &JobService{
		Store: s,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

func (s *JobService) ListJobs(ctx context.Context, ownerID string, q dtos.JobListQuery) ([]models.Job, error) {
	f := store.Filter{Company: strings.TrimSpace(q.Company), Sort: q.Sort}
	if q.Status != "" {
		status := models.Status(q.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, q.Status)
		}
		f.Status = status
	}
	return s.Store.List(ctx, ownerID, f)
}

func (s *JobService) CreateJob(ctx context.Context, ownerID string, req *dtos.JobCreationRequest) (*models.Job, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Company) == "" {
		return nil, fmt.Errorf("%w: title and company are required", ErrValidation)
	}

	status := models.StatusWishlist
	if req.Status != "" {
		status = models.Status(req.Status)
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, req.Status)
	}
	source := models.SourceManual
	if req.Source != "" {
		source = models.Source(req.Source)
	}
	if !source.Valid() {
		return nil, fmt.Errorf("%w: unknown source %q", ErrValidation, req.Source)
	}

	now := s.now()
	job := models.Job{
		ID:          s.newID(),
		CreatedAt:   now,
		UpdatedAt:   now,
		UserID:      ownerID,
		Title:       strings.TrimSpace(req.Title),
		Company:     strings.TrimSpace(req.Company),
		Location:    req.Location,
		URL:         req.URL,
		JDText:      req.JDText,
		Salary:      req.Salary,
		Status:      status,
		Source:      source,
		DateApplied: req.DateApplied.Ptr(),
		Notes:       models.StampNotes(req.Notes, now),
		Timeline:    models.StampTimeline(req.Timeline, now),
	}
	if len(job.Timeline) == 0 {
		job.Timeline = []models.TimelineEntry{{Type: models.TimelineCreated, Text: "Job created", Date: now}}
	}
	if req.ResumeFile != nil {
		rf := *req.ResumeFile
		if rf.UploadedAt.IsZero() {
			rf.UploadedAt = now
		}
		job.ResumeFile = &rf
	}

	return s.Store.Create(ctx, job)
}

func (s *JobService) UpdateJob(ctx context.Context, ownerID, id string, req *dtos.JobUpdateRequest) (*models.Job, error) {
	patch, err := toPatch(req)
	if err != nil {
		return nil, err
	}
	return s.Store.Update(ctx, ownerID, id, patch)
}

func (s *JobService) DeleteJob(ctx context.Context, ownerID, id string) error {
	return s.Store.Delete(ctx, ownerID, id)
}

// SaveFromExtension normalizes what the browser extension scraped and stores
// it like any other create.
func (s *JobService) SaveFromExtension(ctx context.Context, ownerID string, ext dtos.ExtensionJob) (*models.Job, error) {
	req := &dtos.JobCreationRequest{
		Title:    ext.Title,
		Company:  ext.Company,
		Location: ext.Location,
		URL:      ext.URL,
		JDText:   ext.JDText,
		Salary:   ext.Salary,
		Status:   ext.Status,
		Source:   ext.Source,
	}
	if strings.TrimSpace(req.JDText) == "" {
		req.JDText = ext.Description
	}
	if !models.Source(req.Source).Valid() {
		req.Source = string(models.SourceManual)
	}
	return s.CreateJob(ctx, ownerID, req)
}

func toPatch(req *dtos.JobUpdateRequest) (models.JobPatch, error) {
	p := models.JobPatch{
		Location: req.Location,
		URL:      req.URL,
		JDText:   req.JDText,
		Salary:   req.Salary,
		Timeline: req.Timeline,
	}
	for name, v := range map[string]*string{"title": req.Title, "company": req.Company} {
		if v != nil && strings.TrimSpace(*v) == "" {
			return p, fmt.Errorf("%w: %s cannot be empty", ErrValidation, name)
		}
	}
	p.Title = req.Title
	p.Company = req.Company

	if req.Status != nil {
		status := models.Status(*req.Status)
		if !status.Valid() {
			return p, fmt.Errorf("%w: unknown status %q", ErrValidation, *req.Status)
		}
		p.Status = &status
	}
	if req.Source != nil {
		source := models.Source(*req.Source)
		if !source.Valid() {
			return p, fmt.Errorf("%w: unknown source %q", ErrValidation, *req.Source)
		}
		p.Source = &source
	}
	if req.DateApplied != nil {
		p.DateApplied = req.DateApplied.Ptr()
	}
	if req.Notes != nil {
		notes := []models.Note(*req.Notes)
		p.Notes = &notes
	}
	p.ResumeFile = req.ResumeFile
	return p, nil
}
