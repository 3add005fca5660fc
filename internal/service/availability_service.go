package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/FontysVenlo/alda-appointmentplanner-api/internal/dto"
	appErrors "github.com/FontysVenlo/alda-appointmentplanner-api/pkg/errors"
	"github.com/FontysVenlo/alda-appointmentplanner-api/pkg/planner"
)

// AvailabilityService answers which free slots are shared across plans,
// the building block for scheduling a meeting between several agendas.
type AvailabilityService struct {
	repo   planRepository
	logger *zap.Logger
}

// NewAvailabilityService constructs an AvailabilityService instance.
func NewAvailabilityService(repo planRepository, logger *zap.Logger) *AvailabilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{repo: repo, logger: logger}
}

// MatchingSlots rebuilds every requested plan and intersects their free
// slots, keeping only intervals of at least the requested length. Slots
// are reported as absolute instants because the plans may disagree on
// timezone.
func (s *AvailabilityService) MatchingSlots(ctx context.Context, planIDs []string, durationMinutes int) ([]dto.FreeSlotResponse, error) {
	if len(planIDs) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "at least one plan id is required")
	}
	if durationMinutes < 1 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "duration must be at least one minute")
	}

	seen := make(map[string]bool, len(planIDs))
	dayPlans := make([]*planner.LocalDayPlan, 0, len(planIDs))
	for _, planID := range planIDs {
		if seen[planID] {
			continue
		}
		seen[planID] = true

		plan, err := s.repo.GetPlan(ctx, planID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "plan "+planID+" not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load plan")
		}
		rows, err := s.repo.ListAppointments(ctx, planID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load appointments")
		}
		dayPlan, err := buildDayPlan(plan, rows)
		if err != nil {
			return nil, err
		}
		dayPlans = append(dayPlans, dayPlan)
	}

	duration := time.Duration(durationMinutes) * time.Minute
	slots := dayPlans[0].MatchingFreeSlotsOfDuration(duration, dayPlans[1:])

	out := make([]dto.FreeSlotResponse, 0, len(slots))
	for _, slot := range slots {
		out = append(out, dto.FreeSlotResponse{
			Start:           slot.Start().UTC(),
			End:             slot.End().UTC(),
			DurationMinutes: int(slot.Duration() / time.Minute),
		})
	}
	return out, nil
}
