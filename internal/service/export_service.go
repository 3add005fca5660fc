package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/FontysVenlo/alda-appointmentplanner-api/internal/models"
	"github.com/FontysVenlo/alda-appointmentplanner-api/pkg/export"
	"github.com/FontysVenlo/alda-appointmentplanner-api/pkg/storage"
)

type exportPlanReader interface {
	GetPlan(ctx context.Context, id string) (*models.DayPlan, error)
	ListAppointments(ctx context.Context, planID string) ([]models.Appointment, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ExportFormat
	ExpiresAt    time.Time
}

// ExportService builds plan datasets and persists rendered files.
type ExportService struct {
	plans   exportPlanReader
	storage fileStorage
	csv     csvRenderer
	pdf     pdfRenderer
	signer  *storage.SignedURLSigner
	logger  *zap.Logger
	cfg     ExportConfig
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// NewExportService constructs an ExportService.
func NewExportService(plans exportPlanReader, storage fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		plans:   plans,
		storage: storage,
		csv:     csv,
		pdf:     pdf,
		signer:  signer,
		logger:  logger,
		cfg:     cfg,
	}
}

// Generate builds the dataset according to the job definition and stores the rendered export.
func (s *ExportService) Generate(ctx context.Context, job *models.ExportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	dataset, title, err := s.buildDataset(ctx, job)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch job.Params.Format {
	case models.ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	default:
		err = fmt.Errorf("unsupported format %s", job.Params.Format)
	}
	if err != nil {
		return nil, err
	}

	filename := s.buildFilename(job)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	signedURL := strings.TrimRight(s.cfg.APIPrefix, "/")
	if signedURL == "" {
		signedURL = "/api/v1"
	}
	signedURL = fmt.Sprintf("%s/export/%s", signedURL, token)

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          signedURL,
		Format:       job.Params.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// RenderScheduleCSV renders the plan's schedule as CSV in memory,
// bypassing the job queue and file storage. It returns the payload and
// a download filename.
func (s *ExportService) RenderScheduleCSV(ctx context.Context, planID string) ([]byte, string, error) {
	job := &models.ExportJob{
		Type:   models.ExportTypeSchedule,
		Params: models.ExportJobParams{PlanID: planID, Format: models.ExportFormatCSV},
	}
	dataset, _, err := s.buildDataset(ctx, job)
	if err != nil {
		return nil, "", err
	}
	payload, err := s.csv.Render(dataset)
	if err != nil {
		return nil, "", err
	}
	return payload, s.buildFilename(job), nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildFilename(job *models.ExportJob) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	planPart := sanitizeFilename(job.Params.PlanID)
	return fmt.Sprintf("%s_%s_%s.%s", strings.ToLower(string(job.Type)), planPart, timestamp, job.Params.Format)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

func (s *ExportService) buildDataset(ctx context.Context, job *models.ExportJob) (export.Dataset, string, error) {
	plan, err := s.plans.GetPlan(ctx, job.Params.PlanID)
	if err != nil {
		return export.Dataset{}, "", fmt.Errorf("load plan %s: %w", job.Params.PlanID, err)
	}
	rows, err := s.plans.ListAppointments(ctx, job.Params.PlanID)
	if err != nil {
		return export.Dataset{}, "", fmt.Errorf("load appointments: %w", err)
	}

	switch job.Type {
	case models.ExportTypeSchedule:
		return buildScheduleDataset(plan, rows)
	case models.ExportTypeAvailability:
		return buildAvailabilityDataset(plan, rows, job.Params.FitMinutes)
	default:
		return export.Dataset{}, "", fmt.Errorf("unsupported export type %s", job.Type)
	}
}

func buildScheduleDataset(plan *models.DayPlan, rows []models.Appointment) (export.Dataset, string, error) {
	dataRows := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		item := appointmentRowToDTO(row)
		dataRows = append(dataRows, map[string]string{
			"Start":          item.Start,
			"End":            item.End,
			"Duration (min)": fmt.Sprintf("%d", item.DurationMinutes),
			"Description":    item.Description,
			"Priority":       item.Priority,
		})
	}
	dataset := export.Dataset{
		Headers: []string{"Start", "End", "Duration (min)", "Description", "Priority"},
		Rows:    dataRows,
	}
	title := fmt.Sprintf("Schedule %s", plan.PlanDate.UTC().Format("2006-01-02"))
	return dataset, title, nil
}

func buildAvailabilityDataset(plan *models.DayPlan, rows []models.Appointment, fitMinutes int) (export.Dataset, string, error) {
	dayPlan, err := buildDayPlan(plan, rows)
	if err != nil {
		return export.Dataset{}, "", err
	}

	fit := time.Duration(fitMinutes) * time.Minute
	gaps := dayPlan.GapsFitting(fit)
	dataRows := make([]map[string]string, 0, len(gaps))
	for _, gap := range gaps {
		item := gapToDTO(dayPlan.Day(), gap)
		dataRows = append(dataRows, map[string]string{
			"Start":          item.Start,
			"End":            item.End,
			"Duration (min)": fmt.Sprintf("%d", item.DurationMinutes),
		})
	}
	dataset := export.Dataset{
		Headers: []string{"Start", "End", "Duration (min)"},
		Rows:    dataRows,
	}
	title := fmt.Sprintf("Availability %s", plan.PlanDate.UTC().Format("2006-01-02"))
	return dataset, title, nil
}
