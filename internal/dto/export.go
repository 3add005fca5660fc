package dto

import "github.com/FontysVenlo/alda-appointmentplanner-api/internal/models"

// ExportRequest captures POST /exports payload.
type ExportRequest struct {
	Type       models.ExportType   `json:"type"`
	PlanID     string              `json:"planId"`
	Format     models.ExportFormat `json:"format"`
	FitMinutes int                 `json:"fitMinutes,omitempty"`
}

// ExportJobResponse is returned after enqueueing an export.
type ExportJobResponse struct {
	ID       string              `json:"id"`
	Status   models.ExportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ExportStatusResponse exposes job progress metadata.
type ExportStatusResponse struct {
	ID        string              `json:"id"`
	Status    models.ExportStatus `json:"status"`
	Progress  int                 `json:"progress"`
	ResultURL *string             `json:"resultUrl,omitempty"`
	Error     *string             `json:"error,omitempty"`
}
