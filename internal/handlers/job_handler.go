package handlers

import (
	"net/http"

	"github.com/ahamhfc/aham-cms-api/internal/services"
	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	jobService *services.JobService
}

func NewJobHandler(jobSvc *services.JobService) *JobHandler {
	return &JobHandler{
		jobService: jobSvc,
	}
}

// Status returns the current worker status
// @Summary Get background job status
// @Description Statistics about maintenance jobs (active, completed, failed, queue length, last run)
// @Tags Jobs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} jobs.WorkerStats
// @Router /admin/jobs/status [get]
func (h *JobHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.jobService.GetStatus())
}

// SweepOrphans queues an immediate media orphan sweep
// @Summary Sweep orphan media files
// @Description Removes stored files no media record references
// @Tags Jobs
// @Produce json
// @Security BearerAuth
// @Success 202 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /admin/media/sweep [post]
func (h *JobHandler) SweepOrphans(c *gin.Context) {
	if err := h.jobService.TriggerOrphanSweep(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "Orphan sweep queued"})
}
