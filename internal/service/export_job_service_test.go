package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/exam-seating/internal/dto"
	"github.com/noah-isme/exam-seating/internal/models"
	"github.com/noah-isme/exam-seating/internal/repository"
	appErrors "github.com/noah-isme/exam-seating/pkg/errors"
	"github.com/noah-isme/exam-seating/pkg/jobs"
)

type queueStub struct {
	jobs []jobs.Job
	err  error
}

func (q *queueStub) Enqueue(job jobs.Job) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

type planProviderStub struct {
	plan *models.SeatingPlan
	err  error
}

func (p planProviderStub) Plan(ctx context.Context, req dto.SeatingRequest, actor string) (*models.SeatingPlan, bool, error) {
	if p.err != nil {
		return nil, false, p.err
	}
	return p.plan, false, nil
}

type exportStub struct {
	result *ExportResult
	err    error
}

func (e exportStub) Generate(ctx context.Context, job *models.ExportJob, plan *models.SeatingPlan) (*ExportResult, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.result, nil
}

func newExportJobServiceForTest(t *testing.T, plans planProviderStub) (*ExportJobService, *repository.ExportJobRepository, *queueStub, *ExportService) {
	t.Helper()
	repo := repository.NewExportJobRepository()
	queue := &queueStub{}
	exportSvc, _ := newExportServiceForTest(t)
	svc := NewExportJobService(repo, plans, queue, exportSvc, zap.NewNop(), ExportJobServiceConfig{
		ResultTTL:       time.Hour,
		CleanupInterval: time.Hour,
	})
	return svc, repo, queue, exportSvc
}

func exportRequest(format models.ExportFormat) dto.ExportJobRequest {
	return dto.ExportJobRequest{
		SeatingRequest: dto.SeatingRequest{Students: []string{"A", "B", "C"}, Proctors: []string{"Ada", "Ben"}},
		Format:         format,
	}
}

func TestExportJobServiceCreateJob(t *testing.T) {
	plan := samplePlan(t)
	svc, repo, queue, _ := newExportJobServiceForTest(t, planProviderStub{plan: plan})

	resp, err := svc.CreateJob(context.Background(), exportRequest(models.ExportFormatCSV), "admin@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, resp.ID)
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, ExportJobType, queue.jobs[0].Type)
	assert.Equal(t, models.ExportStatusQueued, resp.Status)
	assert.Equal(t, plan.Key, resp.PlanKey)

	held, err := repo.Plan(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Same(t, plan, held)
}

func TestExportJobServiceCreateJobSurfacesSeatingErrors(t *testing.T) {
	svc, _, queue, _ := newExportJobServiceForTest(t, planProviderStub{err: appErrors.Clone(appErrors.ErrCapacity, "3 students for 2 seats")})

	_, err := svc.CreateJob(context.Background(), exportRequest(models.ExportFormatPDF), "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrCapacity.Code, appErrors.FromError(err).Code)
	assert.Empty(t, queue.jobs)
}

func TestExportJobServiceCreateJobQueueFailure(t *testing.T) {
	svc, repo, queue, _ := newExportJobServiceForTest(t, planProviderStub{plan: samplePlan(t)})
	queue.err = errors.New("queue exports is full")

	_, err := svc.CreateJob(context.Background(), exportRequest(models.ExportFormatCSV), "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrServiceDisabled.Code, appErrors.FromError(err).Code)

	failed, listErr := repo.ListFinishedBefore(context.Background(), time.Now().Add(time.Minute), 10)
	require.NoError(t, listErr)
	require.Len(t, failed, 1)
	assert.Equal(t, models.ExportStatusFailed, failed[0].Status)
}

func TestExportJobServiceGetStatusNotFound(t *testing.T) {
	svc, _, _, _ := newExportJobServiceForTest(t, planProviderStub{plan: samplePlan(t)})

	_, err := svc.GetStatus(context.Background(), "missing")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestExportJobLifecycleAndDownload(t *testing.T) {
	svc, repo, queue, exportSvc := newExportJobServiceForTest(t, planProviderStub{plan: samplePlan(t)})
	worker := NewExportWorker(repo, exportSvc, 2, zap.NewNop())

	resp, err := svc.CreateJob(context.Background(), exportRequest(models.ExportFormatCSV), "")
	require.NoError(t, err)
	require.NoError(t, worker.Handle(context.Background(), queue.jobs[0]))

	status, err := svc.GetStatus(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusFinished, status.Status)
	assert.Equal(t, 100, status.Progress)
	require.NotNil(t, status.ResultURL)
	assert.Nil(t, status.Error)

	_, err = repo.Plan(context.Background(), resp.ID)
	assert.Error(t, err)

	token := extractToken(*status.ResultURL)
	download, err := svc.ResolveDownload(context.Background(), token)
	require.NoError(t, err)
	defer download.File.Close()
	assert.Equal(t, "all_rooms.csv", download.Filename)
	assert.Equal(t, "text/csv", download.ContentType)

	_, err = svc.ResolveDownload(context.Background(), "garbage")
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestExportWorkerRequeuesBeforeLastAttempt(t *testing.T) {
	repo := repository.NewExportJobRepository()
	job := &models.ExportJob{Format: models.ExportFormatPDF}
	require.NoError(t, repo.Create(context.Background(), job, samplePlan(t)))
	worker := NewExportWorker(repo, exportStub{err: errors.New("disk full")}, 2, zap.NewNop())

	err := worker.Handle(context.Background(), jobs.Job{ID: job.ID, Attempt: 0})
	require.Error(t, err)

	stored, err := repo.GetByID(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusQueued, stored.Status)
	require.NotNil(t, stored.ErrorMessage)
	assert.Equal(t, "disk full", *stored.ErrorMessage)
}

func TestExportWorkerFailsOnLastAttempt(t *testing.T) {
	repo := repository.NewExportJobRepository()
	job := &models.ExportJob{Format: models.ExportFormatCSV}
	require.NoError(t, repo.Create(context.Background(), job, samplePlan(t)))
	worker := NewExportWorker(repo, exportStub{err: errors.New("disk full")}, 1, zap.NewNop())

	err := worker.Handle(context.Background(), jobs.Job{ID: job.ID, Attempt: 1})
	require.Error(t, err)

	stored, err := repo.GetByID(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusFailed, stored.Status)
	require.NotNil(t, stored.FinishedAt)
}

func TestExportWorkerDisabledExporterFailsWithoutRetry(t *testing.T) {
	repo := repository.NewExportJobRepository()
	job := &models.ExportJob{Format: models.ExportFormatCSV}
	require.NoError(t, repo.Create(context.Background(), job, samplePlan(t)))
	worker := NewExportWorker(repo, exportStub{err: appErrors.ErrServiceDisabled}, 3, zap.NewNop())

	require.NoError(t, worker.Handle(context.Background(), jobs.Job{ID: job.ID}))

	stored, err := repo.GetByID(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusFailed, stored.Status)
}

func TestExportWorkerMarkFailedKeepsFinishedJobs(t *testing.T) {
	repo := repository.NewExportJobRepository()
	job := &models.ExportJob{Format: models.ExportFormatCSV}
	require.NoError(t, repo.Create(context.Background(), job, samplePlan(t)))
	finished := models.ExportStatusFinished
	require.NoError(t, repo.Update(context.Background(), job.ID, repository.UpdateExportJobParams{Status: &finished}))
	worker := NewExportWorker(repo, exportStub{}, 0, zap.NewNop())

	worker.MarkFailed(jobs.Job{ID: job.ID}, errors.New("late"))

	stored, err := repo.GetByID(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusFinished, stored.Status)
}

func TestExportJobCleanupRemovesExpired(t *testing.T) {
	svc, repo, queue, exportSvc := newExportJobServiceForTest(t, planProviderStub{plan: samplePlan(t)})
	svc.cfg.ResultTTL = time.Nanosecond
	worker := NewExportWorker(repo, exportSvc, 0, zap.NewNop())

	resp, err := svc.CreateJob(context.Background(), exportRequest(models.ExportFormatCSV), "")
	require.NoError(t, err)
	require.NoError(t, worker.Handle(context.Background(), queue.jobs[0]))
	time.Sleep(2 * time.Millisecond)

	svc.cleanupExpired(context.Background())

	_, err = svc.GetStatus(context.Background(), resp.ID)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
