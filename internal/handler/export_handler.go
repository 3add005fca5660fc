package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FontysVenlo/alda-appointmentplanner-api/internal/dto"
	"github.com/FontysVenlo/alda-appointmentplanner-api/internal/models"
	"github.com/FontysVenlo/alda-appointmentplanner-api/internal/service"
	appErrors "github.com/FontysVenlo/alda-appointmentplanner-api/pkg/errors"
	"github.com/FontysVenlo/alda-appointmentplanner-api/pkg/response"
)

type exportJobService interface {
	CreateJob(ctx context.Context, req dto.ExportRequest, actorID string, role models.UserRole) (*dto.ExportJobResponse, error)
	GetStatus(ctx context.Context, id string, actorID string, role models.UserRole) (*dto.ExportStatusResponse, error)
	ResolveDownload(ctx context.Context, token string) (*service.ExportDownload, error)
	ScheduleCSV(ctx context.Context, planID string, actorID string, role models.UserRole) ([]byte, string, error)
}

// ExportHandler exposes asynchronous export endpoints.
type ExportHandler struct {
	service exportJobService
	logger  *zap.Logger
}

// NewExportHandler constructs the handler.
func NewExportHandler(svc exportJobService, logger *zap.Logger) *ExportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportHandler{service: svc, logger: logger}
}

// GenerateExport godoc
// @Summary Queue an export
// @Description Queues a schedule or availability export of a plan and returns the job reference
// @Tags Exports
// @Accept json
// @Produce json
// @Param payload body dto.ExportRequest true "Export definition"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Security BearerAuth
// @Router /exports [post]
func (h *ExportHandler) GenerateExport(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export payload"))
		return
	}

	job, err := h.service.CreateJob(c.Request.Context(), req, claims.UserID, claims.Role)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Accepted(c, job)
}

// ExportStatus godoc
// @Summary Export job status
// @Description Returns progress and, once finished, the download URL
// @Tags Exports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /exports/{id} [get]
func (h *ExportHandler) ExportStatus(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	status, err := h.service.GetStatus(c.Request.Context(), c.Param("id"), claims.UserID, claims.Role)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, status, nil)
}

// DownloadScheduleCSV godoc
// @Summary Download a schedule as CSV
// @Description Renders the plan's schedule as CSV synchronously
// @Tags Exports
// @Produce text/csv
// @Param id path string true "Plan ID"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /plans/{id}/export.csv [get]
func (h *ExportHandler) DownloadScheduleCSV(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	payload, filename, err := h.service.ScheduleCSV(c.Request.Context(), c.Param("id"), claims.UserID, claims.Role)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", payload)
}

// DownloadExport godoc
// @Summary Download an export
// @Description Streams the export file referenced by a signed download token
// @Tags Exports
// @Produce octet-stream
// @Param token path string true "Signed download token"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Router /export/{token} [get]
func (h *ExportHandler) DownloadExport(c *gin.Context) {
	download, err := h.service.ResolveDownload(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer download.File.Close()

	info, err := download.File.Stat()
	if err != nil {
		h.logger.Warn("failed to stat export file", zap.Error(err))
		response.Error(c, appErrors.ErrInternal)
		return
	}

	contentType := "text/csv"
	if download.Format == models.ExportFormatPDF {
		contentType = "application/pdf"
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download.Filename))
	c.Header("Expires", download.ExpiresAt.UTC().Format(http.TimeFormat))
	c.DataFromReader(http.StatusOK, info.Size(), contentType, download.File, nil)
}
