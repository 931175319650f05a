package handler

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/exam-seating/internal/dto"
	"github.com/noah-isme/exam-seating/internal/ingest"
	"github.com/noah-isme/exam-seating/internal/middleware"
	"github.com/noah-isme/exam-seating/internal/models"
	"github.com/noah-isme/exam-seating/internal/service"
	appErrors "github.com/noah-isme/exam-seating/pkg/errors"
	"github.com/noah-isme/exam-seating/pkg/response"
)

type seatingService interface {
	Plan(ctx context.Context, req dto.SeatingRequest, actor string) (*models.SeatingPlan, bool, error)
	BuildPlan(ctx context.Context, req dto.SeatingRequest, room, actor string) (*dto.SeatingPlanResponse, error)
	Search(ctx context.Context, req dto.SeatSearchRequest, actor string) (*dto.SeatSearchResponse, error)
	RecentRuns(ctx context.Context, limit int) ([]models.SeatingRun, error)
}

type planRenderer interface {
	Render(plan *models.SeatingPlan, format models.ExportFormat) (*service.RenderedExport, error)
}

// SeatingHandler exposes the seating plan endpoints.
type SeatingHandler struct {
	service        seatingService
	exporter       planRenderer
	maxUploadBytes int64
}

// NewSeatingHandler constructs the handler. maxUploadBytes caps every request body.
func NewSeatingHandler(svc seatingService, exporter planRenderer, maxUploadBytes int64) *SeatingHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 5 << 20
	}
	return &SeatingHandler{service: svc, exporter: exporter, maxUploadBytes: maxUploadBytes}
}

// Plan godoc
// @Summary Build a seating plan
// @Description Allocates students room by room and assigns one proctor per room
// @Tags Seating
// @Accept json
// @Produce json
// @Param room query string false "Only return this room"
// @Param payload body dto.SeatingRequest true "Seating inputs"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /seating/plan [post]
func (h *SeatingHandler) Plan(c *gin.Context) {
	var req dto.SeatingRequest
	if err := h.bindJSON(c, &req, "invalid seating payload"); err != nil {
		response.Error(c, err)
		return
	}
	h.respondPlan(c, req)
}

// Upload godoc
// @Summary Build a seating plan from CSV uploads
// @Tags Seating
// @Accept mpfd
// @Produce json
// @Param students formData file true "Student roster with a Roll Number column"
// @Param proctors formData file true "Proctor list, first column"
// @Param rooms formData int false "Number of rooms"
// @Param rows formData int false "Rows per room"
// @Param columns formData int false "Columns per room"
// @Param startTime formData string false "Exam start"
// @Param endTime formData string false "Exam end"
// @Param rename formData []string false "Room rename as N=Name" collectionFormat(multi)
// @Param room query string false "Only return this room"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /seating/upload [post]
func (h *SeatingHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	students, err := readUpload(c, "students", ingest.ReadRoster)
	if err != nil {
		response.Error(c, err)
		return
	}
	proctors, err := readUpload(c, "proctors", ingest.ReadProctors)
	if err != nil {
		response.Error(c, err)
		return
	}

	req := dto.SeatingRequest{
		Students:  students,
		Proctors:  proctors,
		StartTime: c.PostForm("startTime"),
		EndTime:   c.PostForm("endTime"),
	}
	for _, field := range []struct {
		name   string
		target **int
	}{{"rooms", &req.Rooms}, {"rows", &req.Rows}, {"columns", &req.Columns}} {
		value, err := optionalInt(c.PostForm(field.name))
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrConfiguration, field.name+" must be an integer"))
			return
		}
		*field.target = value
	}
	for _, raw := range c.PostFormArray("rename") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		rename, err := dto.ParseRoomRename(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrConfiguration, err.Error()))
			return
		}
		req.Renames = append(req.Renames, rename)
	}
	h.respondPlan(c, req)
}

// Search godoc
// @Summary Locate a student's seat
// @Description Returns the matched room only; a miss or empty roll number returns every room
// @Tags Seating
// @Accept json
// @Produce json
// @Param payload body dto.SeatSearchRequest true "Seating inputs and roll number"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /seating/search [post]
func (h *SeatingHandler) Search(c *gin.Context) {
	var req dto.SeatSearchRequest
	if err := h.bindJSON(c, &req, "invalid search payload"); err != nil {
		response.Error(c, err)
		return
	}
	res, err := h.service.Search(c.Request.Context(), req, middleware.Actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, res.Plan.Cached)
	middleware.SetPlanKey(c, res.Plan.PlanKey)
	response.JSON(c, http.StatusOK, res, middleware.ExtractMeta(c))
}

// Export godoc
// @Summary Download every room as one file
// @Tags Seating
// @Accept json
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" Enums(csv, pdf)
// @Param payload body dto.SeatingRequest true "Seating inputs"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /seating/export [post]
func (h *SeatingHandler) Export(c *gin.Context) {
	if h.exporter == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrServiceDisabled, "export not configured"))
		return
	}
	format := models.ExportFormat(strings.ToLower(c.DefaultQuery("format", string(models.ExportFormatCSV))))
	var req dto.SeatingRequest
	if err := h.bindJSON(c, &req, "invalid seating payload"); err != nil {
		response.Error(c, err)
		return
	}
	plan, _, err := h.service.Plan(c.Request.Context(), req, middleware.Actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	out, err := h.exporter.Render(plan, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("X-Plan-Key", plan.Key)
	response.Attachment(c, out.Filename, out.ContentType, out.Body)
}

// Runs godoc
// @Summary Recent seating runs
// @Tags Seating
// @Produce json
// @Param limit query int false "Max rows"
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /seating/runs [get]
func (h *SeatingHandler) Runs(c *gin.Context) {
	var query dto.SeatingRunQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	runs, err := h.service.RecentRuns(c.Request.Context(), query.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, runs, map[string]interface{}{"count": len(runs)})
}

func (h *SeatingHandler) respondPlan(c *gin.Context, req dto.SeatingRequest) {
	res, err := h.service.BuildPlan(c.Request.Context(), req, c.Query("room"), middleware.Actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, res.Cached)
	middleware.SetPlanKey(c, res.PlanKey)
	response.JSON(c, http.StatusOK, res, middleware.ExtractMeta(c))
}

// bindJSON decodes the capped request body into dst.
func (h *SeatingHandler) bindJSON(c *gin.Context, dst interface{}, message string) error {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	if err := c.ShouldBindJSON(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return appErrors.Clone(appErrors.ErrValidation, "payload exceeds size limit")
		}
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message)
	}
	return nil
}

func readUpload(c *gin.Context, field string, parse func(io.Reader) ([]string, error)) ([]string, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "upload exceeds size limit")
		}
		return nil, appErrors.Clone(appErrors.ErrValidation, field+" file is required")
	}
	src, err := fileHeader.Open()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open "+field+" file")
	}
	defer func(f multipart.File) { _ = f.Close() }(src)
	return parse(src)
}

func optionalInt(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &value, nil
}
