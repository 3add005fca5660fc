package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/FontysVenlo/alda-appointmentplanner-api/internal/dto"
	"github.com/FontysVenlo/alda-appointmentplanner-api/internal/middleware"
	"github.com/FontysVenlo/alda-appointmentplanner-api/internal/models"
	appErrors "github.com/FontysVenlo/alda-appointmentplanner-api/pkg/errors"
	"github.com/FontysVenlo/alda-appointmentplanner-api/pkg/response"
)

type planService interface {
	CreatePlan(ctx context.Context, actorID string, req dto.CreatePlanRequest) (*dto.PlanResponse, error)
	ListPlans(ctx context.Context, actorID string, role models.UserRole, filter dto.PlanListFilter) ([]dto.PlanResponse, *models.Pagination, error)
	GetPlanDetail(ctx context.Context, actorID string, role models.UserRole, planID string) (*dto.PlanDetailResponse, bool, error)
	DeletePlan(ctx context.Context, actorID string, role models.UserRole, planID string) error
	AddAppointment(ctx context.Context, actorID string, role models.UserRole, planID string, req dto.AddAppointmentRequest) (*dto.AppointmentResponse, error)
	RemoveAppointment(ctx context.Context, actorID string, role models.UserRole, planID, appointmentID string) (*dto.RemovedAppointmentResponse, error)
	RemoveAppointments(ctx context.Context, actorID string, role models.UserRole, planID, description, priority string) ([]dto.RemovedAppointmentResponse, error)
	ListAppointments(ctx context.Context, actorID string, role models.UserRole, planID string) ([]dto.AppointmentResponse, error)
	Gaps(ctx context.Context, actorID string, role models.UserRole, planID string, fitMinutes int, order string) ([]dto.GapResponse, bool, error)
	CanAdd(ctx context.Context, actorID string, role models.UserRole, planID string, durationMinutes int) (bool, error)
	Render(ctx context.Context, actorID string, role models.UserRole, planID string) (string, error)
}

// PlanHandler exposes day plan and appointment endpoints.
type PlanHandler struct {
	service planService
}

// NewPlanHandler constructs the handler.
func NewPlanHandler(svc planService) *PlanHandler {
	return &PlanHandler{service: svc}
}

// CreatePlan godoc
// @Summary Create a day plan
// @Description Creates an empty plan for one calendar day
// @Tags Plans
// @Accept json
// @Produce json
// @Param payload body dto.CreatePlanRequest true "Plan definition"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /plans [post]
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid plan payload"))
		return
	}

	plan, err := h.service.CreatePlan(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, plan)
}

// ListPlans godoc
// @Summary List day plans
// @Description Planners see their own plans, admins and viewers see all
// @Tags Plans
// @Produce json
// @Param ownerId query string false "Filter by owner"
// @Param from query string false "Earliest plan date (YYYY-MM-DD)"
// @Param to query string false "Latest plan date (YYYY-MM-DD)"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Param sortBy query string false "Sort column (plan_date, created_at, updated_at)"
// @Param sortOrder query string false "Sort order (ASC, DESC)"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /plans [get]
func (h *PlanHandler) ListPlans(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	filter := dto.PlanListFilter{
		OwnerID:   strings.TrimSpace(c.Query("ownerId")),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}
	if raw := strings.TrimSpace(c.Query("from")); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "from must be formatted as YYYY-MM-DD"))
			return
		}
		filter.DateFrom = &parsed
	}
	if raw := strings.TrimSpace(c.Query("to")); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "to must be formatted as YYYY-MM-DD"))
			return
		}
		filter.DateTo = &parsed
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	plans, pagination, err := h.service.ListPlans(c.Request.Context(), claims.UserID, claims.Role, filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, plans, pagination)
}

// GetPlan godoc
// @Summary Get a day plan
// @Description Returns the plan with its appointments and remaining gaps
// @Tags Plans
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /plans/{id} [get]
func (h *PlanHandler) GetPlan(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	detail, cacheHit, err := h.service.GetPlanDetail(c.Request.Context(), claims.UserID, claims.Role, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, detail, nil, middleware.ExtractMeta(c))
}

// DeletePlan godoc
// @Summary Delete a day plan
// @Description Removes the plan and all of its appointments
// @Tags Plans
// @Param id path string true "Plan ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /plans/{id} [delete]
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.DeletePlan(c.Request.Context(), claims.UserID, claims.Role, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// AddAppointment godoc
// @Summary Add an appointment
// @Description Places an appointment on the plan's timeline, honoring the requested start and preference
// @Tags Appointments
// @Accept json
// @Produce json
// @Param id path string true "Plan ID"
// @Param payload body dto.AddAppointmentRequest true "Appointment definition"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /plans/{id}/appointments [post]
func (h *PlanHandler) AddAppointment(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.AddAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid appointment payload"))
		return
	}

	appt, err := h.service.AddAppointment(c.Request.Context(), claims.UserID, claims.Role, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, appt)
}

// ListAppointments godoc
// @Summary List appointments
// @Description Returns the plan's appointments in chronological order
// @Tags Appointments
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /plans/{id}/appointments [get]
func (h *PlanHandler) ListAppointments(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	appts, err := h.service.ListAppointments(c.Request.Context(), claims.UserID, claims.Role, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, appts, nil)
}

// RemoveAppointment godoc
// @Summary Remove an appointment
// @Description Removes the appointment and echoes its original request so it can be replanned
// @Tags Appointments
// @Produce json
// @Param id path string true "Plan ID"
// @Param appointmentId path string true "Appointment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /plans/{id}/appointments/{appointmentId} [delete]
func (h *PlanHandler) RemoveAppointment(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	removed, err := h.service.RemoveAppointment(c.Request.Context(), claims.UserID, claims.Role, c.Param("id"), c.Param("appointmentId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, removed, nil)
}

// RemoveAppointments godoc
// @Summary Remove matching appointments
// @Description Removes every appointment matching the description and priority filters; empty filters clear the plan
// @Tags Appointments
// @Produce json
// @Param id path string true "Plan ID"
// @Param description query string false "Exact description to match"
// @Param priority query string false "Priority to match (LOW, MEDIUM, HIGH)"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /plans/{id}/appointments [delete]
func (h *PlanHandler) RemoveAppointments(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	removed, err := h.service.RemoveAppointments(c.Request.Context(), claims.UserID, claims.Role, c.Param("id"), strings.TrimSpace(c.Query("description")), strings.TrimSpace(c.Query("priority")))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, removed, nil)
}

// Gaps godoc
// @Summary List free gaps
// @Description Returns the plan's free slots fitting the requested duration
// @Tags Appointments
// @Produce json
// @Param id path string true "Plan ID"
// @Param fit query int false "Minimum gap length in minutes"
// @Param order query string false "Gap order (natural, reversed, smallest, largest)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /plans/{id}/gaps [get]
func (h *PlanHandler) Gaps(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	fit := 0
	if raw := strings.TrimSpace(c.Query("fit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "fit must be an integer number of minutes"))
			return
		}
		fit = parsed
	}

	gaps, cacheHit, err := h.service.Gaps(c.Request.Context(), claims.UserID, claims.Role, c.Param("id"), fit, c.Query("order"))
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, gaps, nil, middleware.ExtractMeta(c))
}

// CanAdd godoc
// @Summary Check remaining room
// @Description Reports whether the plan still has a gap for the given duration
// @Tags Appointments
// @Produce json
// @Param id path string true "Plan ID"
// @Param duration query int true "Appointment length in minutes"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /plans/{id}/can-add [get]
func (h *PlanHandler) CanAdd(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	duration, err := strconv.Atoi(strings.TrimSpace(c.Query("duration")))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "duration must be an integer number of minutes"))
		return
	}

	ok, err := h.service.CanAdd(c.Request.Context(), claims.UserID, claims.Role, c.Param("id"), duration)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, dto.CanAddResponse{DurationMinutes: duration, CanAdd: ok}, nil)
}

// RenderPlan godoc
// @Summary Render a day plan as text
// @Description Returns the plan as plain text, one line per appointment
// @Tags Plans
// @Produce plain
// @Param id path string true "Plan ID"
// @Success 200 {string} string "Rendered plan"
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /plans/{id}/render [get]
func (h *PlanHandler) RenderPlan(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	text, err := h.service.Render(c.Request.Context(), claims.UserID, claims.Role, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.String(http.StatusOK, text)
}
