package service

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/exam-seating/internal/models"
	"github.com/noah-isme/exam-seating/internal/seating"
	appErrors "github.com/noah-isme/exam-seating/pkg/errors"
	"github.com/noah-isme/exam-seating/pkg/export"
	"github.com/noah-isme/exam-seating/pkg/storage"
)

func newExportServiceForTest(t *testing.T) (*ExportService, *storage.LocalStorage) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("secret", time.Hour)
	cfg := ExportConfig{APIPrefix: "/api/v1", ResultTTL: time.Hour}
	svc := NewExportService(store, signer, cfg, NewMetricsService(), zap.NewNop(), export.NewCSVExporter(), export.NewPDFExporter())
	return svc, store
}

func samplePlan(t *testing.T) *models.SeatingPlan {
	t.Helper()
	cfg, err := seating.NewConfiguration(2, 2, 2, models.ExamWindow{Start: "09:00 AM", End: "12:00 PM"})
	require.NoError(t, err)
	plan, err := seating.Compute([]string{"A", "B", "C"}, []string{"Ada", "Ben"}, cfg, nil)
	require.NoError(t, err)
	return plan
}

func TestExportServiceRenderCSV(t *testing.T) {
	svc, _ := newExportServiceForTest(t)

	out, err := svc.Render(samplePlan(t), models.ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "all_rooms.csv", out.Filename)
	assert.Equal(t, "text/csv", out.ContentType)
	assert.Equal(t, "Room Name,Seat 1,Seat 2\nRoom 1,A,B\nRoom 1,C,Empty\nRoom 2,Empty,Empty\nRoom 2,Empty,Empty\n", string(out.Body))
}

func TestExportServiceRenderPDF(t *testing.T) {
	svc, _ := newExportServiceForTest(t)

	out, err := svc.Render(samplePlan(t), models.ExportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "all_rooms.pdf", out.Filename)
	assert.True(t, strings.HasPrefix(string(out.Body), "%PDF"))
}

func TestExportServiceRenderRejectsUnknownFormat(t *testing.T) {
	svc, _ := newExportServiceForTest(t)

	_, err := svc.Render(samplePlan(t), models.ExportFormat("xlsx"))
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExportServiceGenerateStoresSignedFile(t *testing.T) {
	svc, store := newExportServiceForTest(t)
	job := &models.ExportJob{ID: "job-1", Format: models.ExportFormatCSV}

	result, err := svc.Generate(context.Background(), job, samplePlan(t))
	require.NoError(t, err)
	assert.Equal(t, "job-1_all_rooms.csv", result.RelativePath)
	assert.True(t, strings.HasPrefix(result.URL, "/api/v1/exports/download/"))

	info, err := os.Stat(store.Path(result.RelativePath))
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	claims, err := svc.ParseToken(result.Token, false)
	require.NoError(t, err)
	assert.Equal(t, "job-1", claims.JobID)

	file, err := svc.Open(claims.Path)
	require.NoError(t, err)
	body, err := io.ReadAll(file)
	require.NoError(t, file.Close())
	require.NoError(t, err)
	assert.Contains(t, string(body), "Room 1,A,B")

	require.NoError(t, svc.Delete(claims.Path))
	_, err = os.Stat(store.Path(result.RelativePath))
	assert.True(t, os.IsNotExist(err))
}

func TestExportServiceGenerateWithoutStorage(t *testing.T) {
	svc := NewExportService(nil, nil, ExportConfig{}, nil, nil, nil, nil)
	_, err := svc.Generate(context.Background(), &models.ExportJob{ID: "job-1", Format: models.ExportFormatCSV}, samplePlan(t))
	assert.Equal(t, appErrors.ErrServiceDisabled.Code, appErrors.FromError(err).Code)

	removed, err := svc.Cleanup(0)
	assert.NoError(t, err)
	assert.Empty(t, removed)
}
