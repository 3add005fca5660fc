package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FontysVenlo/alda-appointmentplanner-api/internal/dto"
	"github.com/FontysVenlo/alda-appointmentplanner-api/internal/models"
	"github.com/FontysVenlo/alda-appointmentplanner-api/internal/repository"
	appErrors "github.com/FontysVenlo/alda-appointmentplanner-api/pkg/errors"
	"github.com/FontysVenlo/alda-appointmentplanner-api/pkg/jobs"
)

type exportRepoStub struct {
	mu   sync.Mutex
	seq  int
	jobs map[string]*models.ExportJob
}

func newExportRepoStub() *exportRepoStub {
	return &exportRepoStub{jobs: make(map[string]*models.ExportJob)}
}

func (s *exportRepoStub) Create(ctx context.Context, job *models.ExportJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	if job.ID == "" {
		job.ID = fmt.Sprintf("job-%d", s.seq)
	}
	stored := *job
	s.jobs[job.ID] = &stored
	return nil
}

func (s *exportRepoStub) GetByID(ctx context.Context, id string) (*models.ExportJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	stored := *job
	return &stored, nil
}

func (s *exportRepoStub) Update(ctx context.Context, id string, params repository.UpdateExportJobParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return sql.ErrNoRows
	}
	if params.Status != nil {
		job.Status = *params.Status
	}
	if params.Progress != nil {
		job.Progress = *params.Progress
	}
	if params.ResultURL != nil {
		job.ResultURL = params.ResultURL
	}
	if params.ErrorMessage != nil {
		job.ErrorMessage = params.ErrorMessage
	}
	if params.FinishedAt != nil {
		job.FinishedAt = params.FinishedAt
	}
	return nil
}

func (s *exportRepoStub) ListQueued(ctx context.Context, limit int) ([]models.ExportJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ExportJob
	for _, job := range s.jobs {
		if job.Status == models.ExportStatusQueued {
			out = append(out, *job)
		}
	}
	return out, nil
}

func (s *exportRepoStub) ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ExportJob, error) {
	return nil, nil
}

type queueStub struct {
	mu   sync.Mutex
	jobs []jobs.Job
	err  error
}

func (q *queueStub) Enqueue(job jobs.Job) error {
	if q.err != nil {
		return q.err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
	return nil
}

type planGetterStub struct {
	plan *models.DayPlan
	err  error
}

func (p planGetterStub) GetPlan(ctx context.Context, id string) (*models.DayPlan, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.plan, nil
}

func newExportJobServiceForTest(t *testing.T) (*ExportJobService, *exportRepoStub, *queueStub) {
	t.Helper()
	repo := newExportRepoStub()
	queue := &queueStub{}
	exporter, _ := newExportServiceForTest(t)
	plans := planGetterStub{plan: exportFixturePlan().plan}
	svc := NewExportJobService(repo, plans, queue, exporter, zap.NewNop(), ExportJobServiceConfig{
		ResultTTL:  time.Hour,
		MaxRetries: 2,
	})
	return svc, repo, queue
}

func TestExportJobServiceCreateJob(t *testing.T) {
	svc, repo, queue := newExportJobServiceForTest(t)

	resp, err := svc.CreateJob(context.Background(), dto.ExportRequest{
		Type:   models.ExportTypeSchedule,
		PlanID: "plan-1",
		Format: models.ExportFormatCSV,
	}, "user-1", models.RolePlanner)
	require.NoError(t, err)
	require.NotEmpty(t, resp.ID)
	require.Equal(t, models.ExportStatusQueued, resp.Status)

	require.Len(t, queue.jobs, 1)
	require.Equal(t, resp.ID, queue.jobs[0].ID)

	stored, err := repo.GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	require.Equal(t, "user-1", stored.CreatedBy)
	require.Equal(t, "plan-1", stored.Params.PlanID)
}

func TestExportJobServiceCreateJobForeignPlanForbidden(t *testing.T) {
	svc, _, queue := newExportJobServiceForTest(t)

	_, err := svc.CreateJob(context.Background(), dto.ExportRequest{
		Type:   models.ExportTypeAvailability,
		PlanID: "plan-1",
		Format: models.ExportFormatPDF,
	}, "intruder", models.RolePlanner)
	require.ErrorIs(t, err, appErrors.ErrForbidden)
	require.Empty(t, queue.jobs)
}

func TestExportJobServiceCreateJobRejectsUnknownFormat(t *testing.T) {
	svc, _, _ := newExportJobServiceForTest(t)

	_, err := svc.CreateJob(context.Background(), dto.ExportRequest{
		Type:   models.ExportTypeSchedule,
		PlanID: "plan-1",
		Format: models.ExportFormat("xlsx"),
	}, "user-1", models.RoleAdmin)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestExportJobServiceCreateJobEnqueueFailure(t *testing.T) {
	svc, repo, queue := newExportJobServiceForTest(t)
	queue.err = errors.New("queue full")

	_, err := svc.CreateJob(context.Background(), dto.ExportRequest{
		Type:   models.ExportTypeSchedule,
		PlanID: "plan-1",
		Format: models.ExportFormatCSV,
	}, "user-1", models.RoleAdmin)
	require.Error(t, err)

	repo.mu.Lock()
	defer repo.mu.Unlock()
	require.Len(t, repo.jobs, 1)
	for _, job := range repo.jobs {
		require.Equal(t, models.ExportStatusFailed, job.Status)
		require.Equal(t, 100, job.Progress)
		require.NotNil(t, job.ErrorMessage)
	}
}

func TestExportJobServiceGetStatus(t *testing.T) {
	svc, _, _ := newExportJobServiceForTest(t)

	resp, err := svc.CreateJob(context.Background(), dto.ExportRequest{
		Type:   models.ExportTypeSchedule,
		PlanID: "plan-1",
		Format: models.ExportFormatCSV,
	}, "user-1", models.RolePlanner)
	require.NoError(t, err)

	status, err := svc.GetStatus(context.Background(), resp.ID, "user-1", models.RolePlanner)
	require.NoError(t, err)
	require.Equal(t, models.ExportStatusQueued, status.Status)

	_, err = svc.GetStatus(context.Background(), resp.ID, "someone-else", models.RolePlanner)
	require.ErrorIs(t, err, appErrors.ErrForbidden)

	_, err = svc.GetStatus(context.Background(), "missing", "user-1", models.RoleAdmin)
	require.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestExportJobServiceResolveDownload(t *testing.T) {
	repo := newExportRepoStub()
	queue := &queueStub{}
	exporter, _ := newExportServiceForTest(t)
	plans := planGetterStub{plan: exportFixturePlan().plan}
	svc := NewExportJobService(repo, plans, queue, exporter, zap.NewNop(), ExportJobServiceConfig{ResultTTL: time.Hour})

	resp, err := svc.CreateJob(context.Background(), dto.ExportRequest{
		Type:   models.ExportTypeSchedule,
		PlanID: "plan-1",
		Format: models.ExportFormatCSV,
	}, "user-1", models.RoleAdmin)
	require.NoError(t, err)

	worker := NewExportWorker(repo, exporter, 2, zap.NewNop())
	require.NoError(t, worker.Handle(context.Background(), jobs.Job{ID: resp.ID, Type: string(models.ExportTypeSchedule), Attempt: 1}))

	status, err := svc.GetStatus(context.Background(), resp.ID, "user-1", models.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, models.ExportStatusFinished, status.Status)
	require.NotNil(t, status.ResultURL)

	token := (*status.ResultURL)[strings.LastIndex(*status.ResultURL, "/")+1:]
	download, err := svc.ResolveDownload(context.Background(), token)
	require.NoError(t, err)
	defer download.File.Close()
	require.Equal(t, models.ExportFormatCSV, download.Format)
	require.True(t, strings.HasSuffix(download.Filename, ".csv"))

	_, err = svc.ResolveDownload(context.Background(), "not-a-token")
	require.Error(t, err)
}

func TestExportJobServiceScheduleCSV(t *testing.T) {
	svc, _, queue := newExportJobServiceForTest(t)

	payload, filename, err := svc.ScheduleCSV(context.Background(), "plan-1", "user-1", models.RolePlanner)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(filename, "schedule_plan-1_"))
	require.True(t, strings.HasSuffix(filename, ".csv"))
	require.Contains(t, string(payload), "dentist")
	require.Contains(t, string(payload), "standup")
	require.Empty(t, queue.jobs)
}

func TestExportJobServiceScheduleCSVForeignPlanForbidden(t *testing.T) {
	svc, _, _ := newExportJobServiceForTest(t)

	_, _, err := svc.ScheduleCSV(context.Background(), "plan-1", "intruder", models.RolePlanner)
	require.ErrorIs(t, err, appErrors.ErrForbidden)

	_, _, err = svc.ScheduleCSV(context.Background(), "plan-1", "intruder", models.RoleAdmin)
	require.NoError(t, err)
}

func TestExportJobServiceScheduleCSVPlanNotFound(t *testing.T) {
	repo := newExportRepoStub()
	exporter, _ := newExportServiceForTest(t)
	svc := NewExportJobService(repo, planGetterStub{err: sql.ErrNoRows}, &queueStub{}, exporter, zap.NewNop(), ExportJobServiceConfig{ResultTTL: time.Hour})

	_, _, err := svc.ScheduleCSV(context.Background(), "missing", "user-1", models.RoleAdmin)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

type exportGenStub struct {
	result *ExportResult
	err    error
	calls  int
}

func (g *exportGenStub) Generate(ctx context.Context, job *models.ExportJob) (*ExportResult, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return g.result, nil
}

func TestExportWorkerHandleSuccess(t *testing.T) {
	repo := newExportRepoStub()
	job := &models.ExportJob{
		Type:      models.ExportTypeSchedule,
		Params:    models.ExportJobParams{PlanID: "plan-1", Format: models.ExportFormatCSV},
		Status:    models.ExportStatusQueued,
		CreatedBy: "user-1",
	}
	require.NoError(t, repo.Create(context.Background(), job))

	gen := &exportGenStub{result: &ExportResult{URL: "/api/v1/export/tok", RelativePath: "2026/03/f.csv", Format: models.ExportFormatCSV}}
	worker := NewExportWorker(repo, gen, 2, zap.NewNop())

	require.NoError(t, worker.Handle(context.Background(), jobs.Job{ID: job.ID, Attempt: 1}))

	stored, err := repo.GetByID(context.Background(), job.ID)
	require.NoError(t, err)
	require.Equal(t, models.ExportStatusFinished, stored.Status)
	require.Equal(t, 100, stored.Progress)
	require.NotNil(t, stored.ResultURL)
	require.Equal(t, "/api/v1/export/tok", *stored.ResultURL)
	require.NotNil(t, stored.FinishedAt)
}

func TestExportWorkerHandleFailureRetries(t *testing.T) {
	repo := newExportRepoStub()
	job := &models.ExportJob{
		Type:      models.ExportTypeSchedule,
		Params:    models.ExportJobParams{PlanID: "plan-1", Format: models.ExportFormatCSV},
		Status:    models.ExportStatusQueued,
		CreatedBy: "user-1",
	}
	require.NoError(t, repo.Create(context.Background(), job))

	gen := &exportGenStub{err: errors.New("render failed")}
	worker := NewExportWorker(repo, gen, 2, zap.NewNop())

	require.Error(t, worker.Handle(context.Background(), jobs.Job{ID: job.ID, Attempt: 1}))
	stored, err := repo.GetByID(context.Background(), job.ID)
	require.NoError(t, err)
	require.Equal(t, models.ExportStatusQueued, stored.Status)

	require.Error(t, worker.Handle(context.Background(), jobs.Job{ID: job.ID, Attempt: 2}))
	stored, err = repo.GetByID(context.Background(), job.ID)
	require.NoError(t, err)
	require.Equal(t, models.ExportStatusFailed, stored.Status)
	require.Equal(t, 100, stored.Progress)
	require.NotNil(t, stored.ErrorMessage)
	require.Equal(t, 2, gen.calls)
}
