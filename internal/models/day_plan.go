package models

import "time"

// DayPlan represents a single-day appointment plan stored in the day_plans table.
// DayStart and DayEnd are wall clock times ("HH:MM") in the plan's timezone,
// bounding the half-open window appointments may occupy.
type DayPlan struct {
	ID        string    `db:"id" json:"id"`
	OwnerID   string    `db:"owner_id" json:"owner_id"`
	PlanDate  time.Time `db:"plan_date" json:"plan_date"`
	Timezone  string    `db:"timezone" json:"timezone"`
	DayStart  string    `db:"day_start" json:"day_start"`
	DayEnd    string    `db:"day_end" json:"day_end"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Appointment represents a placed appointment row belonging to a day plan.
// StartTime is the resolved wall clock position; RequestedStart preserves the
// originally requested time when one was given.
type Appointment struct {
	ID              string    `db:"id" json:"id"`
	PlanID          string    `db:"plan_id" json:"plan_id"`
	Description     string    `db:"description" json:"description"`
	Priority        string    `db:"priority" json:"priority"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	StartTime       string    `db:"start_time" json:"start_time"`
	Preference      string    `db:"preference" json:"preference"`
	RequestedStart  *string   `db:"requested_start" json:"requested_start,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// PlanFilter captures filtering criteria for listing day plans.
type PlanFilter struct {
	OwnerID   string
	DateFrom  *time.Time
	DateTo    *time.Time
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
