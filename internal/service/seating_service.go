package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/exam-seating/internal/dto"
	"github.com/noah-isme/exam-seating/internal/models"
	"github.com/noah-isme/exam-seating/internal/seating"
	appErrors "github.com/noah-isme/exam-seating/pkg/errors"
)

type planCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// SeatingRunStore persists the run audit trail.
type SeatingRunStore interface {
	Create(ctx context.Context, run *models.SeatingRun) error
	ListRecent(ctx context.Context, limit int) ([]models.SeatingRun, error)
}

// SeatingServiceConfig holds the defaults applied to omitted request fields.
type SeatingServiceConfig struct {
	DefaultRooms   int
	DefaultRows    int
	DefaultColumns int
	DefaultStart   string
	DefaultEnd     string
	CacheTTL       time.Duration
}

// SeatingService turns requests into seating plans. Each call recomputes the
// plan from its inputs unless the plan cache already holds the same inputs.
type SeatingService struct {
	cache     planCache
	runs      SeatingRunStore
	metrics   *MetricsService
	assigner  *seating.ProctorAssigner
	validator *validator.Validate
	logger    *zap.Logger
	cfg       SeatingServiceConfig
}

// NewSeatingService wires the service. cache and runs may be nil.
func NewSeatingService(cache planCache, runs SeatingRunStore, metrics *MetricsService, assigner *seating.ProctorAssigner, validate *validator.Validate, logger *zap.Logger, cfg SeatingServiceConfig) *SeatingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if assigner == nil {
		assigner = seating.NewProctorAssigner(nil)
	}
	if cfg.DefaultRooms == 0 {
		cfg.DefaultRooms = 2
	}
	if cfg.DefaultRows == 0 {
		cfg.DefaultRows = 5
	}
	if cfg.DefaultColumns == 0 {
		cfg.DefaultColumns = 6
	}
	if cfg.DefaultStart == "" {
		cfg.DefaultStart = "09:00 AM"
	}
	if cfg.DefaultEnd == "" {
		cfg.DefaultEnd = "12:00 PM"
	}
	return &SeatingService{
		cache:     cache,
		runs:      runs,
		metrics:   metrics,
		assigner:  assigner,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// Configuration resolves defaults and applies renames in request order.
func (s *SeatingService) Configuration(req dto.SeatingRequest) (models.SeatingConfiguration, error) {
	window := models.ExamWindow{
		Start: firstNonBlank(req.StartTime, s.cfg.DefaultStart),
		End:   firstNonBlank(req.EndTime, s.cfg.DefaultEnd),
	}
	cfg, err := seating.NewConfiguration(
		intOr(req.Rooms, s.cfg.DefaultRooms),
		intOr(req.Rows, s.cfg.DefaultRows),
		intOr(req.Columns, s.cfg.DefaultColumns),
		window,
	)
	if err != nil {
		return models.SeatingConfiguration{}, err
	}
	for _, rename := range req.Renames {
		if cfg, err = seating.Rename(cfg, rename.Index-1, rename.Name); err != nil {
			return models.SeatingConfiguration{}, err
		}
	}
	return cfg, nil
}

// Plan returns the plan for req and whether it came from the cache.
func (s *SeatingService) Plan(ctx context.Context, req dto.SeatingRequest, actor string) (*models.SeatingPlan, bool, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid seating payload")
	}

	start := time.Now()
	cfg, err := s.Configuration(req)
	if err != nil {
		s.observe(ctx, req, s.fallbackConfiguration(req), actor, nil, err, time.Since(start))
		return nil, false, err
	}

	key := seating.Fingerprint(req.Students, req.Proctors, cfg)
	if s.cache != nil {
		var cached models.SeatingPlan
		hit, cacheErr := s.cache.Get(ctx, PlanKey(key), &cached)
		if cacheErr == nil && hit {
			s.logger.Debug("seating plan served from cache", zap.String("plan_key", key))
			return &cached, true, nil
		}
	}

	plan, err := seating.Compute(req.Students, req.Proctors, cfg, s.assigner)
	s.observe(ctx, req, cfg, actor, plan, err, time.Since(start))
	if err != nil {
		return nil, false, err
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, PlanKey(plan.Key), plan, s.cfg.CacheTTL)
	}
	return plan, false, nil
}

// BuildPlan computes the plan and renders the view. A non-empty room selects
// the individual room view.
func (s *SeatingService) BuildPlan(ctx context.Context, req dto.SeatingRequest, room, actor string) (*dto.SeatingPlanResponse, error) {
	plan, cached, err := s.Plan(ctx, req, actor)
	if err != nil {
		return nil, err
	}
	return NewPlanResponse(plan, cached, room)
}

// Search locates a roll number. A hit narrows the plan to the matched room;
// a miss or an empty roll number returns every room.
func (s *SeatingService) Search(ctx context.Context, req dto.SeatSearchRequest, actor string) (*dto.SeatSearchResponse, error) {
	plan, cached, err := s.Plan(ctx, req.SeatingRequest, actor)
	if err != nil {
		return nil, err
	}

	resp := &dto.SeatSearchResponse{RollNumber: req.RollNumber, Searched: req.RollNumber != ""}
	room := ""
	if resp.Searched {
		if loc, ok := seating.Find(plan.Grid, req.RollNumber, plan.Configuration.RoomNames); ok {
			proctor, _ := plan.Assignment.Proctor(loc.Room)
			resp.Found = true
			resp.Match = &dto.SeatMatch{
				RoomIndex: loc.RoomIndex,
				Room:      loc.Room,
				Proctor:   proctor,
				Row:       loc.Row,
				Column:    loc.Column,
				RowNumber: loc.Row + 1,
				Seat:      loc.SeatLabel(),
			}
			room = loc.Room
		}
	}

	view, err := NewPlanResponse(plan, cached, room)
	if err != nil {
		return nil, err
	}
	resp.Plan = *view
	return resp, nil
}

// RecentRuns lists the audit trail, newest first.
func (s *SeatingService) RecentRuns(ctx context.Context, limit int) ([]models.SeatingRun, error) {
	if s.runs == nil {
		return nil, appErrors.Clone(appErrors.ErrServiceDisabled, "run audit is disabled")
	}
	runs, err := s.runs.ListRecent(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list seating runs")
	}
	return runs, nil
}

// NewPlanResponse renders plan for clients. An unknown room is NOT_FOUND.
func NewPlanResponse(plan *models.SeatingPlan, cached bool, room string) (*dto.SeatingPlanResponse, error) {
	cfg := plan.Configuration
	resp := &dto.SeatingPlanResponse{
		PlanKey:    plan.Key,
		Capacity:   plan.Grid.SeatCount(),
		Students:   plan.Grid.Occupied(),
		EmptySeats: plan.Grid.Empty(),
		Cached:     cached,
	}

	columns := seating.ReportHeaders(cfg.Columns)[1:]
	for idx, seats := range plan.Grid {
		name := models.DefaultRoomName(idx)
		if idx < len(cfg.RoomNames) {
			name = cfg.RoomNames[idx]
		}
		if room != "" && room != name {
			continue
		}
		proctor, _ := plan.Assignment.Proctor(name)
		resp.Rooms = append(resp.Rooms, dto.RoomView{
			Index:    idx,
			Name:     name,
			Proctor:  proctor,
			Window:   cfg.Window,
			ExamTime: cfg.Window.String(),
			Columns:  columns,
			Seats:    seats,
			Occupied: models.SeatingGrid{seats}.Occupied(),
		})
	}
	if room != "" && len(resp.Rooms) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("room %q not found", room))
	}
	return resp, nil
}

// observe records metrics and the audit row for one computation.
func (s *SeatingService) observe(ctx context.Context, req dto.SeatingRequest, cfg models.SeatingConfiguration, actor string, plan *models.SeatingPlan, runErr error, elapsed time.Duration) {
	run := &models.SeatingRun{
		RosterSize:      len(req.Students),
		ProctorPoolSize: len(req.Proctors),
		Rooms:           cfg.Rooms,
		RowsPerRoom:     cfg.Rows,
		ColumnsPerRoom:  cfg.Columns,
		Outcome:         models.RunOutcomeSuccess,
	}
	code := ""
	if runErr != nil {
		code = appErrors.FromError(runErr).Code
		run.Outcome = models.RunOutcomeFailed
		run.ErrorCode = &code
		run.PlanKey = seating.Fingerprint(req.Students, req.Proctors, cfg)
		s.logger.Info("seating run rejected", zap.String("code", code), zap.Int("students", run.RosterSize), zap.Int("proctors", run.ProctorPoolSize))
	} else {
		run.PlanKey = plan.Key
		run.SeatsFilled = plan.Grid.Occupied()
		s.logger.Info("seating run computed", zap.String("plan_key", plan.Key), zap.Int("seats_filled", run.SeatsFilled), zap.Int("rooms", cfg.Rooms))
	}
	s.metrics.RecordSeatingRun(code, run.SeatsFilled, elapsed)

	if s.runs == nil {
		return
	}
	if actor != "" {
		run.CreatedBy = &actor
	}
	start := time.Now()
	err := s.runs.Create(ctx, run)
	s.metrics.ObserveDBQuery("seating_runs.create", time.Since(start))
	if err != nil {
		s.logger.Warn("failed to record seating run", zap.Error(err))
	}
}

// fallbackConfiguration describes a request whose configuration was rejected.
func (s *SeatingService) fallbackConfiguration(req dto.SeatingRequest) models.SeatingConfiguration {
	return models.SeatingConfiguration{
		Rooms:   intOr(req.Rooms, s.cfg.DefaultRooms),
		Rows:    intOr(req.Rows, s.cfg.DefaultRows),
		Columns: intOr(req.Columns, s.cfg.DefaultColumns),
		Window:  models.ExamWindow{Start: req.StartTime, End: req.EndTime},
	}
}

func intOr(value *int, fallback int) int {
	if value == nil {
		return fallback
	}
	return *value
}

func firstNonBlank(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
