package dto

import "time"

// CreatePlanRequest captures the POST /plans payload. Omitted window
// fields fall back to the configured planner defaults.
type CreatePlanRequest struct {
	Date     string `json:"date" validate:"required"`
	Timezone string `json:"timezone,omitempty"`
	DayStart string `json:"dayStart,omitempty"`
	DayEnd   string `json:"dayEnd,omitempty"`
}

// PlanResponse is the list representation of a day plan.
type PlanResponse struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Date      string    `json:"date"`
	Timezone  string    `json:"timezone"`
	DayStart  string    `json:"dayStart"`
	DayEnd    string    `json:"dayEnd"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PlanDetailResponse augments a plan with its appointments and remaining gaps.
type PlanDetailResponse struct {
	PlanResponse
	NrOfAppointments int                   `json:"nrOfAppointments"`
	NrOfGaps         int                   `json:"nrOfGaps"`
	Appointments     []AppointmentResponse `json:"appointments"`
	Gaps             []GapResponse         `json:"gaps"`
}

// AddAppointmentRequest captures the POST /plans/:id/appointments payload.
// Start pins the appointment to a wall clock time; Preference steers
// placement when Start is absent or, for EARLIEST_AFTER and LATEST_BEFORE,
// relative to it. Fallback applies when the pinned start is occupied.
type AddAppointmentRequest struct {
	Description     string `json:"description" validate:"required"`
	DurationMinutes int    `json:"durationMinutes" validate:"required,min=1"`
	Priority        string `json:"priority,omitempty"`
	Start           string `json:"start,omitempty"`
	Preference      string `json:"preference,omitempty"`
	Fallback        string `json:"fallback,omitempty"`
}

// AppointmentResponse is the API representation of a placed appointment.
type AppointmentResponse struct {
	ID              string  `json:"id"`
	Description     string  `json:"description"`
	Priority        string  `json:"priority"`
	DurationMinutes int     `json:"durationMinutes"`
	Start           string  `json:"start"`
	End             string  `json:"end"`
	Preference      string  `json:"preference"`
	RequestedStart  *string `json:"requestedStart,omitempty"`
}

// RemovedAppointmentResponse echoes the original request of a removed
// appointment so callers can replan it elsewhere.
type RemovedAppointmentResponse struct {
	Description     string  `json:"description"`
	Priority        string  `json:"priority"`
	DurationMinutes int     `json:"durationMinutes"`
	Preference      string  `json:"preference"`
	RequestedStart  *string `json:"requestedStart,omitempty"`
}

// GapResponse describes a free interval within a single plan.
type GapResponse struct {
	Start           string `json:"start"`
	End             string `json:"end"`
	DurationMinutes int    `json:"durationMinutes"`
}

// CanAddResponse answers whether a plan still has room for an
// appointment of the echoed duration.
type CanAddResponse struct {
	DurationMinutes int  `json:"durationMinutes"`
	CanAdd          bool `json:"canAdd"`
}

// FreeSlotResponse describes a shared free interval across plans. Instants
// are absolute because the compared plans may live in different timezones.
type FreeSlotResponse struct {
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	DurationMinutes int       `json:"durationMinutes"`
}

// PlanListFilter captures query parameters for GET /plans.
type PlanListFilter struct {
	OwnerID   string
	DateFrom  *time.Time
	DateTo    *time.Time
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
