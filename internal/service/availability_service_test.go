package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FontysVenlo/alda-appointmentplanner-api/internal/dto"
	"github.com/FontysVenlo/alda-appointmentplanner-api/internal/models"
	appErrors "github.com/FontysVenlo/alda-appointmentplanner-api/pkg/errors"
)

func TestAvailabilityServiceMatchingSlots(t *testing.T) {
	planSvc, repo := newPlanServiceForTest(t)
	svc := NewAvailabilityService(repo, zap.NewNop())
	ctx := context.Background()

	alice := createTestPlan(t, planSvc, "alice")
	bob := createTestPlan(t, planSvc, "bob")

	_, err := planSvc.AddAppointment(ctx, "alice", models.RolePlanner, alice, dto.AddAppointmentRequest{
		Description:     "review",
		DurationMinutes: 60,
		Start:           "09:00",
	})
	require.NoError(t, err)
	_, err = planSvc.AddAppointment(ctx, "bob", models.RolePlanner, bob, dto.AddAppointmentRequest{
		Description:     "client call",
		DurationMinutes: 60,
		Start:           "13:00",
	})
	require.NoError(t, err)

	slots, err := svc.MatchingSlots(ctx, []string{alice, bob}, 120)
	require.NoError(t, err)
	require.Len(t, slots, 2)

	// Plans run 08:30-17:30 Amsterdam time, UTC+1 on 2026-03-17.
	require.True(t, slots[0].Start.Equal(time.Date(2026, 3, 17, 9, 0, 0, 0, time.UTC)))
	require.True(t, slots[0].End.Equal(time.Date(2026, 3, 17, 12, 0, 0, 0, time.UTC)))
	require.Equal(t, 180, slots[0].DurationMinutes)
	require.True(t, slots[1].Start.Equal(time.Date(2026, 3, 17, 13, 0, 0, 0, time.UTC)))
	require.Equal(t, 210, slots[1].DurationMinutes)
}

func TestAvailabilityServiceDeduplicatesPlanIDs(t *testing.T) {
	planSvc, repo := newPlanServiceForTest(t)
	svc := NewAvailabilityService(repo, zap.NewNop())
	ctx := context.Background()

	plan := createTestPlan(t, planSvc, "alice")

	slots, err := svc.MatchingSlots(ctx, []string{plan, plan, plan}, 30)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	require.Equal(t, 540, slots[0].DurationMinutes)
}

func TestAvailabilityServiceValidation(t *testing.T) {
	_, repo := newPlanServiceForTest(t)
	svc := NewAvailabilityService(repo, zap.NewNop())
	ctx := context.Background()

	_, err := svc.MatchingSlots(ctx, nil, 30)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, appErrors.ErrValidation.Code, appErr.Code)

	_, err = svc.MatchingSlots(ctx, []string{"plan-1"}, 0)
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, appErrors.ErrValidation.Code, appErr.Code)

	_, err = svc.MatchingSlots(ctx, []string{"missing"}, 30)
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
