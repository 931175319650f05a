package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/exam-seating/internal/models"
	"github.com/noah-isme/exam-seating/internal/seating"
	appErrors "github.com/noah-isme/exam-seating/pkg/errors"
	"github.com/noah-isme/exam-seating/pkg/export"
	"github.com/noah-isme/exam-seating/pkg/storage"
)

// ExportBaseName is the download name of every export, as in "all_rooms.csv".
const ExportBaseName = "all_rooms"

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ExportFormat
	ExpiresAt    time.Time
}

// RenderedExport is an in-memory export ready to stream.
type RenderedExport struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders plans and persists rendered files for later download.
type ExportService struct {
	storage fileStorage
	csv     datasetRenderer
	pdf     datasetRenderer
	signer  *storage.SignedURLSigner
	metrics *MetricsService
	logger  *zap.Logger
	cfg     ExportConfig
}

// NewExportService constructs an ExportService. storage and signer are only
// needed for Generate.
func NewExportService(storage fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, metrics *MetricsService, logger *zap.Logger, csv, pdf datasetRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		storage: storage,
		csv:     csv,
		pdf:     pdf,
		signer:  signer,
		metrics: metrics,
		logger:  logger,
		cfg:     cfg,
	}
}

// Render flattens plan into the requested format for immediate download.
func (s *ExportService) Render(plan *models.SeatingPlan, format models.ExportFormat) (*RenderedExport, error) {
	rendered, err := s.render(plan, format)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordExport(format, "sync")
	return rendered, nil
}

func (s *ExportService) render(plan *models.SeatingPlan, format models.ExportFormat) (*RenderedExport, error) {
	var renderer datasetRenderer
	switch format {
	case models.ExportFormatCSV:
		renderer = s.csv
	case models.ExportFormatPDF:
		renderer = s.pdf
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	body, err := renderer.Render(seating.ReportDataset(plan))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return &RenderedExport{
		Filename:    fmt.Sprintf("%s.%s", ExportBaseName, format.Extension()),
		ContentType: renderer.ContentType(),
		Body:        body,
	}, nil
}

// Generate renders the job's plan, stores the file and signs a download URL.
func (s *ExportService) Generate(ctx context.Context, job *models.ExportJob, plan *models.SeatingPlan) (*ExportResult, error) {
	if job == nil || plan == nil {
		return nil, fmt.Errorf("export job and plan required")
	}
	if s.storage == nil || s.signer == nil {
		return nil, appErrors.Clone(appErrors.ErrServiceDisabled, "export storage is not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rendered, err := s.render(plan, job.Format)
	if err != nil {
		return nil, err
	}

	relPath, err := s.storage.Save(fmt.Sprintf("%s_%s", job.ID, rendered.Filename), rendered.Body)
	if err != nil {
		return nil, err
	}

	token, err := s.signer.Sign(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	s.metrics.RecordExport(job.Format, "job")
	s.logger.Info("export stored", zap.String("job_id", job.ID), zap.String("path", relPath), zap.Int("bytes", len(rendered.Body)))

	return &ExportResult{
		RelativePath: relPath,
		Token:        token.Value,
		URL:          fmt.Sprintf("%s/exports/download/%s", prefix, token.Value),
		Format:       job.Format,
		ExpiresAt:    token.ExpiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (storage.TokenClaims, error) {
	if s.signer == nil {
		return storage.TokenClaims{}, fmt.Errorf("signer not configured")
	}
	return s.signer.Verify(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if s.storage == nil {
		return nil, nil
	}
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}
