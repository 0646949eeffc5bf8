package store

import (
	"context"
	"log"

	"github.com/justsurfingit/job-tracker/internal/models"
)

// FallbackJobStore tries Primary and, on any error, repeats the same call
// against Secondary. Callers cannot tell which one answered.
type FallbackJobStore struct {
	Primary   JobStore
	Secondary JobStore
}

func NewFallbackJobStore(primary, secondary JobStore) *FallbackJobStore {
	return &FallbackJobStore{Primary: primary, Secondary: secondary}
}

func withFallback[T any](op string, primary, secondary func() (T, error)) (T, error) {
	v, err := primary()
	if err == nil {
		return v, nil
	}
	log.Printf("⚠️  %s: primary store failed (%v), using fallback store", op, err)
	return secondary()
}

func (s *FallbackJobStore) List(ctx context.Context, ownerID string, f Filter) ([]models.Job, error) {
	return withFallback("list jobs",
		func() ([]models.Job, error) { return s.Primary.List(ctx, ownerID, f) },
		func() ([]models.Job, error) { return s.Secondary.List(ctx, ownerID, f) },
	)
}

func (s *FallbackJobStore) Create(ctx context.Context, job models.Job) (*models.Job, error) {
	return withFallback("create job",
		func() (*models.Job, error) { return s.Primary.Create(ctx, job) },
		func() (*models.Job, error) { return s.Secondary.Create(ctx, job) },
	)
}

func (s *FallbackJobStore) Update(ctx context.Context, ownerID, id string, patch models.JobPatch) (*models.Job, error) {
	return withFallback("update job",
		func() (*models.Job, error) { return s.Primary.Update(ctx, ownerID, id, patch) },
		func() (*models.Job, error) { return s.Secondary.Update(ctx, ownerID, id, patch) },
	)
}

func (s *FallbackJobStore) Delete(ctx context.Context, ownerID, id string) error {
	_, err := withFallback("delete job",
		func() (struct{}, error) { return struct{}{}, s.Primary.Delete(ctx, ownerID, id) },
		func() (struct{}, error) { return struct{}{}, s.Secondary.Delete(ctx, ownerID, id) },
	)
	return err
}
