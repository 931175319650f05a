package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/exam-seating/internal/dto"
	"github.com/noah-isme/exam-seating/internal/models"
	"github.com/noah-isme/exam-seating/internal/service"
	appErrors "github.com/noah-isme/exam-seating/pkg/errors"
)

type exportJobServiceMock struct {
	createResp  *dto.ExportJobResponse
	createErr   error
	lastActor   string
	statusResp  *dto.ExportStatusResponse
	statusErr   error
	download    *service.ExportDownload
	downloadErr error
}

func (m *exportJobServiceMock) CreateJob(ctx context.Context, req dto.ExportJobRequest, actor string) (*dto.ExportJobResponse, error) {
	m.lastActor = actor
	return m.createResp, m.createErr
}

func (m *exportJobServiceMock) GetStatus(ctx context.Context, id string) (*dto.ExportStatusResponse, error) {
	return m.statusResp, m.statusErr
}

func (m *exportJobServiceMock) ResolveDownload(ctx context.Context, token string) (*service.ExportDownload, error) {
	return m.download, m.downloadErr
}

func TestExportJobHandlerCreate(t *testing.T) {
	mockSvc := &exportJobServiceMock{
		createResp: &dto.ExportJobResponse{ID: "job-1", Format: models.ExportFormatCSV, Status: models.ExportStatusQueued},
	}
	h := NewExportJobHandler(mockSvc)

	w := serveJSON(h.Create, http.MethodPost, "/exports", dto.ExportJobRequest{SeatingRequest: smallRequest(), Format: models.ExportFormatCSV})
	require.Equal(t, http.StatusAccepted, w.Code)

	var res dto.ExportJobResponse
	decode(t, w, &res)
	assert.Equal(t, "job-1", res.ID)
	assert.Equal(t, models.ExportStatusQueued, res.Status)
}

func TestExportJobHandlerCreatePropagatesErrors(t *testing.T) {
	mockSvc := &exportJobServiceMock{createErr: appErrors.Clone(appErrors.ErrCapacity, "3 students for 2 seats")}
	h := NewExportJobHandler(mockSvc)

	w := serveJSON(h.Create, http.MethodPost, "/exports", dto.ExportJobRequest{SeatingRequest: smallRequest(), Format: models.ExportFormatPDF})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, appErrors.ErrCapacity.Code, decode(t, w, nil).Error.Code)
}

func TestExportJobHandlerDisabled(t *testing.T) {
	h := NewExportJobHandler(nil)

	w := serveJSON(h.Create, http.MethodPost, "/exports", dto.ExportJobRequest{Format: models.ExportFormatCSV})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestExportJobHandlerStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &exportJobServiceMock{
		statusResp: &dto.ExportStatusResponse{ID: "job-1", Status: models.ExportStatusFinished, Progress: 100},
	}
	h := NewExportJobHandler(mockSvc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/exports/job-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "job-1"}}

	h.Status(c)
	require.Equal(t, http.StatusOK, w.Code)
	var res dto.ExportStatusResponse
	decode(t, w, &res)
	assert.Equal(t, 100, res.Progress)
}

func TestExportJobHandlerDownload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	path := filepath.Join(t.TempDir(), "job-1_all_rooms.csv")
	require.NoError(t, os.WriteFile(path, []byte("Room Name,Seat 1\n"), 0o600))
	file, err := os.Open(path)
	require.NoError(t, err)

	mockSvc := &exportJobServiceMock{
		download: &service.ExportDownload{File: file, Filename: "all_rooms.csv", ContentType: "text/csv"},
	}
	h := NewExportJobHandler(mockSvc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/exports/download/token", nil)
	c.Params = gin.Params{{Key: "token", Value: "token"}}

	h.Download(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="all_rooms.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "Room Name,Seat 1\n", w.Body.String())
}

func TestExportJobHandlerDownloadForbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &exportJobServiceMock{downloadErr: appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token")}
	h := NewExportJobHandler(mockSvc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/exports/download/bad", nil)
	c.Params = gin.Params{{Key: "token", Value: "bad"}}

	h.Download(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
