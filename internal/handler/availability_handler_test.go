package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/FontysVenlo/alda-appointmentplanner-api/internal/dto"
)

type availabilityServiceMock struct {
	planIDs  []string
	duration int
	slots    []dto.FreeSlotResponse
	err      error
}

func (m *availabilityServiceMock) MatchingSlots(ctx context.Context, planIDs []string, durationMinutes int) ([]dto.FreeSlotResponse, error) {
	m.planIDs = planIDs
	m.duration = durationMinutes
	if m.err != nil {
		return nil, m.err
	}
	return m.slots, nil
}

func TestAvailabilityHandlerMatchingSlots(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &availabilityServiceMock{slots: []dto.FreeSlotResponse{{
		Start:           time.Date(2026, 3, 17, 9, 0, 0, 0, time.UTC),
		End:             time.Date(2026, 3, 17, 12, 0, 0, 0, time.UTC),
		DurationMinutes: 180,
	}}}
	handler := NewAvailabilityHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/availability?planIds=plan-1,%20plan-2&duration=120", nil)
	c.Request = req

	handler.MatchingSlots(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, []string{"plan-1", "plan-2"}, mockSvc.planIDs)
	require.Equal(t, 120, mockSvc.duration)
}

func TestAvailabilityHandlerRequiresPlanIDs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAvailabilityHandler(&availabilityServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/availability?duration=30", nil)
	c.Request = req

	handler.MatchingSlots(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAvailabilityHandlerRejectsBadDuration(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAvailabilityHandler(&availabilityServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/availability?planIds=plan-1&duration=soon", nil)
	c.Request = req

	handler.MatchingSlots(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
