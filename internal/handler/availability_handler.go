package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/FontysVenlo/alda-appointmentplanner-api/internal/dto"
	appErrors "github.com/FontysVenlo/alda-appointmentplanner-api/pkg/errors"
	"github.com/FontysVenlo/alda-appointmentplanner-api/pkg/response"
)

type availabilityService interface {
	MatchingSlots(ctx context.Context, planIDs []string, durationMinutes int) ([]dto.FreeSlotResponse, error)
}

// AvailabilityHandler exposes cross-plan free slot matching.
type AvailabilityHandler struct {
	service availabilityService
}

// NewAvailabilityHandler constructs the handler.
func NewAvailabilityHandler(svc availabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: svc}
}

// MatchingSlots godoc
// @Summary Find shared free slots
// @Description Intersects the free slots of the given plans and keeps intervals of at least the requested duration
// @Tags Availability
// @Produce json
// @Param planIds query string true "Comma separated plan IDs"
// @Param duration query int true "Minimum slot length in minutes"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /availability [get]
func (h *AvailabilityHandler) MatchingSlots(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("planIds"))
	if raw == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "planIds is required"))
		return
	}
	planIDs := make([]string, 0)
	for _, id := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			planIDs = append(planIDs, trimmed)
		}
	}

	duration, err := strconv.Atoi(strings.TrimSpace(c.Query("duration")))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "duration must be an integer number of minutes"))
		return
	}

	slots, err := h.service.MatchingSlots(c.Request.Context(), planIDs, duration)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, slots, nil)
}
