package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/FontysVenlo/alda-appointmentplanner-api/internal/dto"
	"github.com/FontysVenlo/alda-appointmentplanner-api/internal/models"
	appErrors "github.com/FontysVenlo/alda-appointmentplanner-api/pkg/errors"
	"github.com/FontysVenlo/alda-appointmentplanner-api/pkg/planner"
)

type planRepository interface {
	CreatePlan(ctx context.Context, plan *models.DayPlan) error
	GetPlan(ctx context.Context, id string) (*models.DayPlan, error)
	ListPlans(ctx context.Context, filter models.PlanFilter) ([]models.DayPlan, int, error)
	DeletePlan(ctx context.Context, id string) error
	TouchPlan(ctx context.Context, id string, ts time.Time) error
	InsertAppointment(ctx context.Context, appt *models.Appointment) error
	GetAppointment(ctx context.Context, id string) (*models.Appointment, error)
	ListAppointments(ctx context.Context, planID string) ([]models.Appointment, error)
	DeleteAppointment(ctx context.Context, id string) error
}

// PlanDefaults supplies the day window applied when a create request
// leaves timezone or bounds unset.
type PlanDefaults struct {
	Timezone string
	DayStart string
	DayEnd   string
}

// PlanService coordinates persisted day plans with in-memory timeline
// placement. Appointment rows are the source of truth; the timeline is
// rebuilt from them whenever placement or gap questions are asked.
type PlanService struct {
	repo      planRepository
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	defaults  PlanDefaults
}

// NewPlanService constructs a PlanService instance.
func NewPlanService(repo planRepository, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, defaults PlanDefaults) *PlanService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &PlanService{repo: repo, cache: cache, metrics: metrics, validator: validate, logger: logger, defaults: defaults}
}

// CreatePlan validates the requested day window and stores a new plan.
func (s *PlanService) CreatePlan(ctx context.Context, actorID string, req dto.CreatePlanRequest) (*dto.PlanResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid plan payload")
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be formatted as YYYY-MM-DD")
	}

	tz := req.Timezone
	if tz == "" {
		tz = s.defaults.Timezone
	}
	dayStart := req.DayStart
	if dayStart == "" {
		dayStart = s.defaults.DayStart
	}
	dayEnd := req.DayEnd
	if dayEnd == "" {
		dayEnd = s.defaults.DayEnd
	}

	// Constructing the timeline up front rejects unknown zones and
	// empty or inverted day windows before anything is persisted.
	if _, err := buildEmptyDayPlan(tz, date, dayStart, dayEnd); err != nil {
		return nil, err
	}

	plan := &models.DayPlan{
		OwnerID:  actorID,
		PlanDate: time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
		Timezone: tz,
		DayStart: dayStart,
		DayEnd:   dayEnd,
	}
	if err := s.repo.CreatePlan(ctx, plan); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store plan")
	}

	resp := planRowToDTO(plan)
	return &resp, nil
}

// ListPlans returns plans visible to the actor.
func (s *PlanService) ListPlans(ctx context.Context, actorID string, role models.UserRole, filter dto.PlanListFilter) ([]dto.PlanResponse, *models.Pagination, error) {
	repoFilter := models.PlanFilter{
		OwnerID:   filter.OwnerID,
		DateFrom:  filter.DateFrom,
		DateTo:    filter.DateTo,
		Page:      filter.Page,
		PageSize:  filter.PageSize,
		SortBy:    filter.SortBy,
		SortOrder: filter.SortOrder,
	}
	if role == models.RolePlanner {
		repoFilter.OwnerID = actorID
	}

	plans, total, err := s.repo.ListPlans(ctx, repoFilter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list plans")
	}

	out := make([]dto.PlanResponse, 0, len(plans))
	for i := range plans {
		out = append(out, planRowToDTO(&plans[i]))
	}

	page := repoFilter.Page
	if page < 1 {
		page = 1
	}
	pageSize := repoFilter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return out, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// GetPlanDetail returns a plan together with its appointments and gaps.
// The bool reports whether the response was served from cache.
func (s *PlanService) GetPlanDetail(ctx context.Context, actorID string, role models.UserRole, planID string) (*dto.PlanDetailResponse, bool, error) {
	cacheKey := fmt.Sprintf("plan:%s:detail", planID)
	if s.cache.Enabled() {
		var cached dto.PlanDetailResponse
		if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
			if err := s.authorizeOwner(role, actorID, cached.OwnerID, false); err != nil {
				return nil, false, err
			}
			return &cached, true, nil
		}
	}

	plan, rows, err := s.loadPlan(ctx, planID)
	if err != nil {
		return nil, false, err
	}
	if err := s.authorizeOwner(role, actorID, plan.OwnerID, false); err != nil {
		return nil, false, err
	}

	dayPlan, err := buildDayPlan(plan, rows)
	if err != nil {
		return nil, false, err
	}

	detail := dto.PlanDetailResponse{
		PlanResponse:     planRowToDTO(plan),
		NrOfAppointments: dayPlan.NrOfAppointments(),
		NrOfGaps:         dayPlan.NrOfGaps(),
		Appointments:     make([]dto.AppointmentResponse, 0, len(rows)),
		Gaps:             make([]dto.GapResponse, 0),
	}
	for _, row := range rows {
		detail.Appointments = append(detail.Appointments, appointmentRowToDTO(row))
	}
	for _, gap := range dayPlan.GapsFitting(0) {
		detail.Gaps = append(detail.Gaps, gapToDTO(dayPlan.Day(), gap))
	}

	if s.cache.Enabled() {
		_ = s.cache.Set(ctx, cacheKey, detail, 0)
	}
	return &detail, false, nil
}

// DeletePlan removes a plan and its appointments.
func (s *PlanService) DeletePlan(ctx context.Context, actorID string, role models.UserRole, planID string) error {
	plan, err := s.getPlanRow(ctx, planID)
	if err != nil {
		return err
	}
	if err := s.authorizeOwner(role, actorID, plan.OwnerID, true); err != nil {
		return err
	}

	if err := s.repo.DeletePlan(ctx, planID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "plan not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete plan")
	}

	s.invalidatePlan(ctx, planID)
	return nil
}

// AddAppointment attempts to place a new appointment on the plan's
// timeline and persists the resolved slot on success.
func (s *PlanService) AddAppointment(ctx context.Context, actorID string, role models.UserRole, planID string, req dto.AddAppointmentRequest) (*dto.AppointmentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid appointment payload")
	}

	plan, rows, err := s.loadPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeOwner(role, actorID, plan.OwnerID, true); err != nil {
		return nil, err
	}

	dayPlan, err := buildDayPlan(plan, rows)
	if err != nil {
		return nil, err
	}

	priority := planner.PriorityLow
	if req.Priority != "" {
		priority, err = planner.ParsePriority(req.Priority)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
		}
	}
	data, err := planner.NewAppointmentData(req.Description, time.Duration(req.DurationMinutes)*time.Minute, priority)
	if err != nil {
		return nil, mapPlannerError(err, "invalid appointment data")
	}

	placed, storedPref, err := s.place(dayPlan, data, req)
	if err != nil {
		if s.metrics != nil && errors.Is(err, planner.ErrUnplaceable) {
			s.metrics.RecordPlacement(false)
		}
		return nil, mapPlannerError(err, "no free slot accommodates the appointment")
	}
	if s.metrics != nil {
		s.metrics.RecordPlacement(true)
	}

	row := &models.Appointment{
		PlanID:          planID,
		Description:     req.Description,
		Priority:        priority.String(),
		DurationMinutes: req.DurationMinutes,
		StartTime:       dayPlan.Day().TimeOfInstant(placed.Start()).String(),
		Preference:      storedPref,
	}
	if req.Start != "" {
		requested := req.Start
		row.RequestedStart = &requested
	}
	if err := s.repo.InsertAppointment(ctx, row); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store appointment")
	}

	if err := s.repo.TouchPlan(ctx, planID, time.Now().UTC()); err != nil {
		s.logger.Warn("failed to touch plan", zap.String("plan_id", planID), zap.Error(err))
	}
	s.invalidatePlan(ctx, planID)

	resp := appointmentRowToDTO(*row)
	return &resp, nil
}

// place resolves the placement strategy for the request and returns the
// placed appointment together with the canonical preference to record.
func (s *PlanService) place(dayPlan *planner.LocalDayPlan, data planner.AppointmentData, req dto.AddAppointmentRequest) (*planner.Appointment, string, error) {
	if req.Start == "" {
		pref, err := planner.ParseTimePreference(req.Preference)
		if err != nil {
			return nil, "", appErrors.Clone(appErrors.ErrValidation, err.Error())
		}
		placed, err := dayPlan.AddAppointment(data, pref)
		return placed, pref.String(), err
	}

	at, err := planner.ParseLocalTime(req.Start)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrValidation, err.Error())
	}

	if req.Fallback != "" {
		fallback, err := planner.ParseTimePreference(req.Fallback)
		if err != nil {
			return nil, "", appErrors.Clone(appErrors.ErrValidation, err.Error())
		}
		placed, err := dayPlan.AddAppointmentAtWithFallback(data, at, fallback)
		return placed, fallback.String(), err
	}

	if req.Preference != "" {
		pref, err := planner.ParseTimePreference(req.Preference)
		if err != nil {
			return nil, "", appErrors.Clone(appErrors.ErrValidation, err.Error())
		}
		if pref == planner.PreferenceEarliestAfter || pref == planner.PreferenceLatestBefore {
			request, err := planner.NewAppointmentRequestAt(data, at, pref)
			if err != nil {
				return nil, "", err
			}
			placed, err := dayPlan.AddAppointmentRequest(request)
			return placed, pref.String(), err
		}
	}

	placed, err := dayPlan.AddAppointmentAt(data, at)
	return placed, planner.PreferenceUnspecified.String(), err
}

// RemoveAppointment deletes an appointment row and echoes the original
// request so the caller can replan it.
func (s *PlanService) RemoveAppointment(ctx context.Context, actorID string, role models.UserRole, planID, appointmentID string) (*dto.RemovedAppointmentResponse, error) {
	plan, err := s.getPlanRow(ctx, planID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeOwner(role, actorID, plan.OwnerID, true); err != nil {
		return nil, err
	}

	row, err := s.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "appointment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load appointment")
	}
	if row.PlanID != planID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "appointment not found in plan")
	}

	if err := s.repo.DeleteAppointment(ctx, appointmentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "appointment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete appointment")
	}

	if err := s.repo.TouchPlan(ctx, planID, time.Now().UTC()); err != nil {
		s.logger.Warn("failed to touch plan", zap.String("plan_id", planID), zap.Error(err))
	}
	s.invalidatePlan(ctx, planID)

	return &dto.RemovedAppointmentResponse{
		Description:     row.Description,
		Priority:        row.Priority,
		DurationMinutes: row.DurationMinutes,
		Preference:      row.Preference,
		RequestedStart:  row.RequestedStart,
	}, nil
}

// RemoveAppointments deletes every appointment matching the description
// and priority filters and echoes the removed requests in start order.
// Empty filters match everything, clearing the plan.
func (s *PlanService) RemoveAppointments(ctx context.Context, actorID string, role models.UserRole, planID, description, priority string) ([]dto.RemovedAppointmentResponse, error) {
	plan, rows, err := s.loadPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeOwner(role, actorID, plan.OwnerID, true); err != nil {
		return nil, err
	}

	priorityFilter := ""
	if priority != "" {
		p, err := planner.ParsePriority(priority)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
		}
		priorityFilter = p.String()
	}

	removed := make([]dto.RemovedAppointmentResponse, 0)
	for i := range rows {
		row := rows[i]
		if description != "" && row.Description != description {
			continue
		}
		if priorityFilter != "" && row.Priority != priorityFilter {
			continue
		}
		if err := s.repo.DeleteAppointment(ctx, row.ID); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete appointment")
		}
		removed = append(removed, dto.RemovedAppointmentResponse{
			Description:     row.Description,
			Priority:        row.Priority,
			DurationMinutes: row.DurationMinutes,
			Preference:      row.Preference,
			RequestedStart:  row.RequestedStart,
		})
	}

	if len(removed) > 0 {
		if err := s.repo.TouchPlan(ctx, planID, time.Now().UTC()); err != nil {
			s.logger.Warn("failed to touch plan", zap.String("plan_id", planID), zap.Error(err))
		}
		s.invalidatePlan(ctx, planID)
	}
	return removed, nil
}

// ListAppointments returns the plan's appointments in chronological order.
func (s *PlanService) ListAppointments(ctx context.Context, actorID string, role models.UserRole, planID string) ([]dto.AppointmentResponse, error) {
	plan, rows, err := s.loadPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeOwner(role, actorID, plan.OwnerID, false); err != nil {
		return nil, err
	}

	out := make([]dto.AppointmentResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, appointmentRowToDTO(row))
	}
	return out, nil
}

var gapOrders = map[string]bool{
	"":         true,
	"natural":  true,
	"reversed": true,
	"smallest": true,
	"largest":  true,
}

// Gaps returns the free slots of the plan that fit the requested number
// of minutes, in the requested order. The bool reports whether the
// response was served from cache.
func (s *PlanService) Gaps(ctx context.Context, actorID string, role models.UserRole, planID string, fitMinutes int, order string) ([]dto.GapResponse, bool, error) {
	if !gapOrders[order] {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "order must be one of natural, reversed, smallest, largest")
	}
	if fitMinutes < 0 {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "fit must not be negative")
	}

	cacheKey := fmt.Sprintf("plan:%s:gaps:%d:%s", planID, fitMinutes, order)
	if s.cache.Enabled() {
		var cached []dto.GapResponse
		if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
			if plan, err := s.getPlanRow(ctx, planID); err == nil {
				if err := s.authorizeOwner(role, actorID, plan.OwnerID, false); err != nil {
					return nil, false, err
				}
			}
			return cached, true, nil
		}
	}

	plan, rows, err := s.loadPlan(ctx, planID)
	if err != nil {
		return nil, false, err
	}
	if err := s.authorizeOwner(role, actorID, plan.OwnerID, false); err != nil {
		return nil, false, err
	}

	dayPlan, err := buildDayPlan(plan, rows)
	if err != nil {
		return nil, false, err
	}

	fit := time.Duration(fitMinutes) * time.Minute
	var slots []planner.TimeSlot
	switch order {
	case "reversed":
		slots = dayPlan.GapsFittingReversed(fit)
	case "smallest":
		slots = dayPlan.GapsFittingSmallestFirst(fit)
	case "largest":
		slots = dayPlan.GapsFittingLargestFirst(fit)
	default:
		slots = dayPlan.GapsFitting(fit)
	}

	out := make([]dto.GapResponse, 0, len(slots))
	for _, slot := range slots {
		out = append(out, gapToDTO(dayPlan.Day(), slot))
	}

	if s.cache.Enabled() {
		_ = s.cache.Set(ctx, cacheKey, out, 0)
	}
	return out, false, nil
}

// CanAdd reports whether the plan still has room for an appointment of
// the given number of minutes.
func (s *PlanService) CanAdd(ctx context.Context, actorID string, role models.UserRole, planID string, durationMinutes int) (bool, error) {
	plan, rows, err := s.loadPlan(ctx, planID)
	if err != nil {
		return false, err
	}
	if err := s.authorizeOwner(role, actorID, plan.OwnerID, false); err != nil {
		return false, err
	}

	dayPlan, err := buildDayPlan(plan, rows)
	if err != nil {
		return false, err
	}
	return dayPlan.CanAddAppointmentOfDuration(time.Duration(durationMinutes) * time.Minute), nil
}

// Render returns the plan's plain text rendering, one line per
// appointment between the day header and footer.
func (s *PlanService) Render(ctx context.Context, actorID string, role models.UserRole, planID string) (string, error) {
	plan, rows, err := s.loadPlan(ctx, planID)
	if err != nil {
		return "", err
	}
	if err := s.authorizeOwner(role, actorID, plan.OwnerID, false); err != nil {
		return "", err
	}

	dayPlan, err := buildDayPlan(plan, rows)
	if err != nil {
		return "", err
	}
	return dayPlan.String(), nil
}

func (s *PlanService) getPlanRow(ctx context.Context, planID string) (*models.DayPlan, error) {
	plan, err := s.repo.GetPlan(ctx, planID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "plan not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load plan")
	}
	return plan, nil
}

func (s *PlanService) loadPlan(ctx context.Context, planID string) (*models.DayPlan, []models.Appointment, error) {
	start := time.Now()
	plan, err := s.getPlanRow(ctx, planID)
	if err != nil {
		return nil, nil, err
	}
	rows, err := s.repo.ListAppointments(ctx, planID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load appointments")
	}
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("plan_load", time.Since(start))
	}
	return plan, rows, nil
}

func (s *PlanService) authorizeOwner(role models.UserRole, actorID, ownerID string, write bool) error {
	switch role {
	case models.RoleAdmin:
		return nil
	case models.RolePlanner:
		if ownerID != actorID {
			return appErrors.Clone(appErrors.ErrForbidden, "plan belongs to another user")
		}
		return nil
	case models.RoleViewer:
		if write {
			return appErrors.Clone(appErrors.ErrForbidden, "viewers cannot modify plans")
		}
		return nil
	default:
		return appErrors.Clone(appErrors.ErrForbidden, "insufficient role")
	}
}

func (s *PlanService) invalidatePlan(ctx context.Context, planID string) {
	if err := s.cache.Invalidate(ctx, fmt.Sprintf("plan:%s:*", planID)); err != nil {
		s.logger.Warn("failed to invalidate plan cache", zap.String("plan_id", planID), zap.Error(err))
	}
}

// buildEmptyDayPlan constructs a timeline for the given window without
// any appointments, validating zone and bounds.
func buildEmptyDayPlan(tz string, date time.Time, dayStart, dayEnd string) (*planner.LocalDayPlan, error) {
	zone, err := time.LoadLocation(tz)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown timezone %q", tz))
	}
	startT, err := planner.ParseLocalTime(dayStart)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	endT, err := planner.ParseLocalTime(dayEnd)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}

	day := planner.NewLocalDay(zone, date.Year(), date.Month(), date.Day())
	dayPlan, err := planner.NewLocalDayPlan(day, startT, endT)
	if err != nil {
		return nil, mapPlannerError(err, "day window is empty or inverted")
	}
	return dayPlan, nil
}

// buildDayPlan reconstructs the timeline of a stored plan by replaying
// its appointment rows as fixed placements.
func buildDayPlan(plan *models.DayPlan, rows []models.Appointment) (*planner.LocalDayPlan, error) {
	dayPlan, err := buildEmptyDayPlan(plan.Timezone, plan.PlanDate.UTC(), plan.DayStart, plan.DayEnd)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		priority, err := planner.ParsePriority(row.Priority)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "stored appointment has unknown priority")
		}
		data, err := planner.NewAppointmentData(row.Description, time.Duration(row.DurationMinutes)*time.Minute, priority)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "stored appointment data is invalid")
		}
		at, err := planner.ParseLocalTime(row.StartTime)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "stored appointment has invalid start time")
		}
		if _, err := dayPlan.AddAppointmentAt(data, at); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "stored appointments no longer form a valid timeline")
		}
	}
	return dayPlan, nil
}

func mapPlannerError(err error, msg string) error {
	switch {
	case errors.Is(err, planner.ErrUnplaceable):
		return appErrors.Clone(appErrors.ErrUnplaceable, msg)
	case errors.Is(err, planner.ErrInvalidAppointment), errors.Is(err, planner.ErrInvalidRequest), errors.Is(err, planner.ErrInvalidSlot):
		return appErrors.Clone(appErrors.ErrValidation, err.Error())
	case errors.Is(err, planner.ErrNotFound):
		return appErrors.Clone(appErrors.ErrNotFound, msg)
	default:
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return appErr
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, msg)
	}
}

func planRowToDTO(plan *models.DayPlan) dto.PlanResponse {
	return dto.PlanResponse{
		ID:        plan.ID,
		OwnerID:   plan.OwnerID,
		Date:      plan.PlanDate.UTC().Format("2006-01-02"),
		Timezone:  plan.Timezone,
		DayStart:  plan.DayStart,
		DayEnd:    plan.DayEnd,
		CreatedAt: plan.CreatedAt,
		UpdatedAt: plan.UpdatedAt,
	}
}

func appointmentRowToDTO(row models.Appointment) dto.AppointmentResponse {
	end := ""
	if at, err := planner.ParseLocalTime(row.StartTime); err == nil {
		total := at.Hour()*60 + at.Minute() + row.DurationMinutes
		end = fmt.Sprintf("%02d:%02d", total/60, total%60)
	}
	return dto.AppointmentResponse{
		ID:              row.ID,
		Description:     row.Description,
		Priority:        row.Priority,
		DurationMinutes: row.DurationMinutes,
		Start:           row.StartTime,
		End:             end,
		Preference:      row.Preference,
		RequestedStart:  row.RequestedStart,
	}
}

func gapToDTO(day planner.LocalDay, slot planner.TimeSlot) dto.GapResponse {
	return dto.GapResponse{
		Start:           day.TimeOfInstant(slot.Start()).String(),
		End:             day.TimeOfInstant(slot.End()).String(),
		DurationMinutes: int(slot.Duration() / time.Minute),
	}
}
