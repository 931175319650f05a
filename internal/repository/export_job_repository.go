package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/exam-seating/internal/models"
	appErrors "github.com/noah-isme/exam-seating/pkg/errors"
)

type exportJobRecord struct {
	job  models.ExportJob
	plan *models.SeatingPlan
}

// ExportJobRepository keeps export jobs in process memory. The plan attached
// to a job is released as soon as the job reaches a terminal state.
type ExportJobRepository struct {
	mu    sync.RWMutex
	items map[string]*exportJobRecord
}

// NewExportJobRepository constructs an empty repository.
func NewExportJobRepository() *ExportJobRepository {
	return &ExportJobRepository{items: make(map[string]*exportJobRecord)}
}

// Create stores a new job together with the plan it exports.
func (r *ExportJobRepository) Create(ctx context.Context, job *models.ExportJob, plan *models.SeatingPlan) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.Status == "" {
		job.Status = models.ExportStatusQueued
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[job.ID] = &exportJobRecord{job: *job, plan: plan}
	return nil
}

// GetByID returns a copy of the job.
func (r *ExportJobRepository) GetByID(ctx context.Context, id string) (*models.ExportJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.items[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
	}
	job := record.job
	return &job, nil
}

// Plan returns the plan held for a job that has not finished yet.
func (r *ExportJobRepository) Plan(ctx context.Context, id string) (*models.SeatingPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.items[id]
	if !ok || record.plan == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export plan not available")
	}
	return record.plan, nil
}

// UpdateExportJobParams defines the mutable fields.
type UpdateExportJobParams struct {
	Status       *models.ExportStatus
	Progress     *int
	ResultURL    *string
	ErrorMessage *string
	FinishedAt   *time.Time
}

// Update applies the provided changes.
func (r *ExportJobRepository) Update(ctx context.Context, id string, params UpdateExportJobParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.items[id]
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "export job not found")
	}
	if params.Status != nil {
		record.job.Status = *params.Status
		if *params.Status == models.ExportStatusFinished || *params.Status == models.ExportStatusFailed {
			record.plan = nil
		}
	}
	if params.Progress != nil {
		record.job.Progress = *params.Progress
	}
	if params.ResultURL != nil {
		url := *params.ResultURL
		record.job.ResultURL = &url
	}
	if params.ErrorMessage != nil {
		if *params.ErrorMessage == "" {
			record.job.ErrorMessage = nil
		} else {
			msg := *params.ErrorMessage
			record.job.ErrorMessage = &msg
		}
	}
	if params.FinishedAt != nil {
		finished := *params.FinishedAt
		record.job.FinishedAt = &finished
	}
	return nil
}

// ListFinishedBefore returns terminal jobs that finished before cutoff, oldest first.
func (r *ExportJobRepository) ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ExportJob, error) {
	r.mu.RLock()
	out := make([]models.ExportJob, 0)
	for _, record := range r.items {
		if record.job.FinishedAt != nil && record.job.FinishedAt.Before(cutoff) {
			out = append(out, record.job)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].FinishedAt.Before(*out[j].FinishedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Delete forgets a job.
func (r *ExportJobRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	delete(r.items, id)
	r.mu.Unlock()
	return nil
}
