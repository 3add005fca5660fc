package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/FontysVenlo/alda-appointmentplanner-api/internal/models"
)

// PlanRepository persists day plans and their appointment rows.
type PlanRepository struct {
	db *sqlx.DB
}

// NewPlanRepository constructs the repository.
func NewPlanRepository(db *sqlx.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// CreatePlan inserts a new day plan row with generated defaults.
func (r *PlanRepository) CreatePlan(ctx context.Context, plan *models.DayPlan) error {
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = now
	}
	plan.UpdatedAt = now

	const query = `INSERT INTO day_plans (id, owner_id, plan_date, timezone, day_start, day_end, created_at, updated_at) VALUES (:id, :owner_id, :plan_date, :timezone, :day_start, :day_end, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, plan); err != nil {
		return fmt.Errorf("create day plan: %w", err)
	}
	return nil
}

// GetPlan returns a day plan by identifier.
func (r *PlanRepository) GetPlan(ctx context.Context, id string) (*models.DayPlan, error) {
	const query = `SELECT id, owner_id, plan_date, timezone, day_start, day_end, created_at, updated_at FROM day_plans WHERE id = $1 LIMIT 1`
	var plan models.DayPlan
	if err := r.db.GetContext(ctx, &plan, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get day plan: %w", err)
	}
	return &plan, nil
}

// ListPlans returns day plans based on filters with total count.
func (r *PlanRepository) ListPlans(ctx context.Context, filter models.PlanFilter) ([]models.DayPlan, int, error) {
	baseQuery := `FROM day_plans WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.OwnerID != "" {
		conditions = append(conditions, fmt.Sprintf("owner_id = $%d", len(args)+1))
		args = append(args, filter.OwnerID)
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("plan_date >= $%d", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("plan_date <= $%d", len(args)+1))
		args = append(args, *filter.DateTo)
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"plan_date":  true,
		"created_at": true,
		"updated_at": true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "plan_date"
	}

	sortOrder := strings.ToUpper(filter.SortOrder)
	if sortOrder != "ASC" && sortOrder != "DESC" {
		sortOrder = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT id, owner_id, plan_date, timezone, day_start, day_end, created_at, updated_at %s ORDER BY %s %s LIMIT %d OFFSET %d", baseQuery, sortBy, sortOrder, pageSize, offset)

	var plans []models.DayPlan
	if err := r.db.SelectContext(ctx, &plans, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list day plans: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count day plans: %w", err)
	}

	return plans, total, nil
}

// DeletePlan removes a day plan and its appointments.
func (r *PlanRepository) DeletePlan(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete day plan: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM appointments WHERE plan_id = $1`, id); err != nil {
		return fmt.Errorf("delete plan appointments: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM day_plans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete day plan: %w", err)
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete day plan: %w", err)
	}
	return nil
}

// TouchPlan bumps the plan's updated_at timestamp.
func (r *PlanRepository) TouchPlan(ctx context.Context, id string, ts time.Time) error {
	const query = `UPDATE day_plans SET updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, ts); err != nil {
		return fmt.Errorf("touch day plan: %w", err)
	}
	return nil
}

// InsertAppointment stores a placed appointment row.
func (r *PlanRepository) InsertAppointment(ctx context.Context, appt *models.Appointment) error {
	if appt.ID == "" {
		appt.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if appt.CreatedAt.IsZero() {
		appt.CreatedAt = now
	}
	appt.UpdatedAt = now

	const query = `INSERT INTO appointments (id, plan_id, description, priority, duration_minutes, start_time, preference, requested_start, created_at, updated_at) VALUES (:id, :plan_id, :description, :priority, :duration_minutes, :start_time, :preference, :requested_start, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, appt); err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

// GetAppointment returns a single appointment row.
func (r *PlanRepository) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	const query = `SELECT id, plan_id, description, priority, duration_minutes, start_time, preference, requested_start, created_at, updated_at FROM appointments WHERE id = $1 LIMIT 1`
	var appt models.Appointment
	if err := r.db.GetContext(ctx, &appt, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	return &appt, nil
}

// ListAppointments returns all appointment rows of a plan in chronological order.
func (r *PlanRepository) ListAppointments(ctx context.Context, planID string) ([]models.Appointment, error) {
	const query = `SELECT id, plan_id, description, priority, duration_minutes, start_time, preference, requested_start, created_at, updated_at FROM appointments WHERE plan_id = $1 ORDER BY start_time ASC, created_at ASC`
	var appts []models.Appointment
	if err := r.db.SelectContext(ctx, &appts, query, planID); err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appts, nil
}

// DeleteAppointment removes an appointment row.
func (r *PlanRepository) DeleteAppointment(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
