package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/justsurfingit/job-tracker/internal/models"
)

// FileJobStore keeps every job in memory and rewrites the whole JSON array
// to disk after each mutation. A mutation is visible only after its flush
// succeeded. Concurrent writes to the same job are last-write-wins.
type FileJobStore struct {
	path string
	now  func() time.Time

	mu   sync.RWMutex
	jobs []models.Job
}

// OpenFileJobStore loads path once. A missing or unreadable file starts the
// store from the two seed records; nothing is written until the first
// mutation.
func OpenFileJobStore(path string) (*FileJobStore, error) {
	s := &FileJobStore{path: path, now: func() time.Time { return time.Now().UTC() }}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.jobs = seedJobs(s.now())
	case err != nil:
		return nil, fmt.Errorf("read fallback file: %w", err)
	default:
		if err := json.Unmarshal(data, &s.jobs); err != nil {
			log.Printf("⚠️  Failed to parse %s (%v), using seed jobs", path, err)
			s.jobs = seedJobs(s.now())
		}
	}
	log.Printf("📁 Fallback store loaded %d jobs from %s", len(s.jobs), path)
	return s, nil
}

func (s *FileJobStore) List(_ context.Context, ownerID string, f Filter) ([]models.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Job{}
	for i := range s.jobs {
		if matches(&s.jobs[i], ownerID, f) {
			out = append(out, s.jobs[i].Clone())
		}
	}
	sortJobs(out, f.Sort)
	return out, nil
}

func (s *FileJobStore) Create(_ context.Context, job models.Job) (*models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := job.Clone()
	now := s.now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = now
	}
	for i := range s.jobs {
		if s.jobs[i].ID == rec.ID {
			return nil, fmt.Errorf("job %s already exists", rec.ID)
		}
	}

	next := make([]models.Job, len(s.jobs), len(s.jobs)+1)
	copy(next, s.jobs)
	next = append(next, rec)
	if err := s.commit(next); err != nil {
		return nil, err
	}
	out := rec.Clone()
	return &out, nil
}

func (s *FileJobStore) Update(_ context.Context, ownerID, id string, patch models.JobPatch) (*models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(ownerID, id)
	if idx < 0 {
		return nil, ErrNotFound
	}

	updated := s.jobs[idx].Clone()
	updated.Apply(patch, s.now())

	next := make([]models.Job, len(s.jobs))
	copy(next, s.jobs)
	next[idx] = updated
	if err := s.commit(next); err != nil {
		return nil, err
	}
	out := updated.Clone()
	return &out, nil
}

func (s *FileJobStore) Delete(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(ownerID, id)
	if idx < 0 {
		return ErrNotFound
	}

	next := make([]models.Job, 0, len(s.jobs)-1)
	next = append(next, s.jobs[:idx]...)
	next = append(next, s.jobs[idx+1:]...)
	return s.commit(next)
}

func (s *FileJobStore) indexOf(ownerID, id string) int {
	for i := range s.jobs {
		if s.jobs[i].ID == id && s.jobs[i].UserID == ownerID {
			return i
		}
	}
	return -1
}

// commit flushes next to disk and only then swaps it in. Caller holds mu.
func (s *FileJobStore) commit(next []models.Job) error {
	if err := s.flush(next); err != nil {
		return err
	}
	s.jobs = next
	return nil
}

func (s *FileJobStore) flush(jobs []models.Job) error {
	data, err := json.MarshalIndent(jobs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode fallback jobs: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("save fallback jobs: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("save fallback jobs: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save fallback jobs: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("save fallback jobs: %w", err)
	}
	return nil
}

func seedJobs(now time.Time) []models.Job {
	applied1 := time.Date(2023, 11, 15, 0, 0, 0, 0, time.UTC)
	applied2 := time.Date(2023, 11, 10, 0, 0, 0, 0, time.UTC)
	return []models.Job{
		{
			ID:          "1",
			UserID:      models.DevUserID,
			Title:       "Senior Frontend Engineer",
			Company:     "Google",
			Location:    "Mountain View, CA",
			Status:      models.StatusInterviewing,
			Source:      models.SourceLinkedIn,
			DateApplied: &applied1,
			Salary:      "$180k - $220k",
			JDText:      "We are looking for a Senior Frontend Engineer...",
			Notes:       []models.Note{{Text: "Referral from Sarah", Date: now}},
			Timeline:    []models.TimelineEntry{},
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          "2",
			UserID:      models.DevUserID,
			Title:       "Full Stack Developer",
			Company:     "Netflix",
			Location:    "Los Gatos, CA",
			Status:      models.StatusOffer,
			Source:      models.SourceIndeed,
			DateApplied: &applied2,
			Salary:      "$200k+",
			Notes:       []models.Note{},
			Timeline:    []models.TimelineEntry{},
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
}
