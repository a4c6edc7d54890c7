package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/redact/redact-backend/internal/common"
	"github.com/redact/redact-backend/internal/domain"
	"github.com/redact/redact-backend/internal/middleware"
	"github.com/redact/redact-backend/internal/service"
)

// DeletionHandler drives the preview/delete pipeline and job status lookups
type DeletionHandler struct {
	service *service.DeletionService
}

// NewDeletionHandler creates a new DeletionHandler
func NewDeletionHandler(service *service.DeletionService) *DeletionHandler {
	return &DeletionHandler{service: service}
}

// Preview handles POST /discord/preview
// @Summary Preview which messages a filter would delete
// @Tags deletion
// @Accept json
// @Produce json
// @Param request body domain.DeletionFilter true "deletion filter"
// @Success 200 {object} domain.PreviewResponse
// @Router /discord/preview [post]
func (h *DeletionHandler) Preview(c *gin.Context) {
	var filter domain.DeletionFilter
	if err := c.ShouldBindJSON(&filter); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	preview, err := h.service.Preview(c.Request.Context(), middleware.GetDiscordToken(c), middleware.GetUserID(c), filter)
	if err != nil {
		if errors.Is(err, common.ErrChannelRequired) {
			common.ErrorResponse(c, http.StatusBadRequest, "At least one channel is required", err)
			return
		}
		upstreamOrInternal(c, "Failed to preview deletion", err)
		return
	}

	c.JSON(http.StatusOK, preview)
}

// StartDeletion handles POST /discord/delete
// @Summary Start a bulk deletion job
// @Tags deletion
// @Accept json
// @Produce json
// @Param request body domain.DeletionFilter true "deletion filter"
// @Success 200 {object} domain.DeletionJob
// @Router /discord/delete [post]
func (h *DeletionHandler) StartDeletion(c *gin.Context) {
	var filter domain.DeletionFilter
	if err := c.ShouldBindJSON(&filter); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	job, err := h.service.StartDeletion(c.Request.Context(), middleware.GetDiscordToken(c), middleware.GetUserID(c), filter)
	if err != nil {
		if errors.Is(err, common.ErrChannelRequired) {
			common.ErrorResponse(c, http.StatusBadRequest, "At least one channel is required", err)
			return
		}
		upstreamOrInternal(c, "Failed to start deletion", err)
		return
	}

	middleware.CountJobStarted()
	c.JSON(http.StatusOK, job)
}

// GetJob handles GET /discord/jobs/:job_id
// @Summary Get the current status of a deletion job
// @Tags deletion
// @Produce json
// @Param job_id path string true "job ID"
// @Success 200 {object} domain.DeletionJob
// @Router /discord/jobs/{job_id} [get]
func (h *DeletionHandler) GetJob(c *gin.Context) {
	job, err := h.service.Job(c.Request.Context(), c.Param("job_id"))
	if err != nil {
		if errors.Is(err, common.ErrJobNotFound) {
			common.ErrorResponse(c, http.StatusNotFound, "Job not found", err)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch job", err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// CancelJob handles POST /discord/jobs/:job_id/cancel
// @Summary Cancel a running deletion job
// @Tags deletion
// @Produce json
// @Param job_id path string true "job ID"
// @Router /discord/jobs/{job_id}/cancel [post]
func (h *DeletionHandler) CancelJob(c *gin.Context) {
	err := h.service.Cancel(c.Request.Context(), c.Param("job_id"))
	if err != nil {
		switch {
		case errors.Is(err, common.ErrJobNotFound):
			common.ErrorResponse(c, http.StatusNotFound, "Job not found", err)
		case errors.Is(err, common.ErrJobNotCancelable):
			common.ErrorResponse(c, http.StatusConflict, "Job is not running", err)
		default:
			common.ErrorResponse(c, http.StatusInternalServerError, "Failed to cancel job", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
