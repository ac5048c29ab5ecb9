package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"clinical-records-server/internal/middleware"
	"clinical-records-server/internal/services"
	"clinical-records-server/internal/utils"
)

const workerResource = "healthcare_worker"

// HealthcareWorkerHandler handles the worker directory endpoints.
type HealthcareWorkerHandler struct {
	Service *services.WorkerService
	Logger  *zap.Logger
	Metrics *middleware.Metrics
}

// NewHealthcareWorkerHandler creates a new HealthcareWorkerHandler.
func NewHealthcareWorkerHandler(db *gorm.DB, logger *zap.Logger, metrics *middleware.Metrics) *HealthcareWorkerHandler {
	return &HealthcareWorkerHandler{
		Service: services.NewWorkerService(db),
		Logger:  logger,
		Metrics: metrics,
	}
}

// ListWorkers handles GET /healthcareworker/?search=.
func (h *HealthcareWorkerHandler) ListWorkers(c *gin.Context) {
	workers, err := h.Service.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondError(c, h.Logger, h.Metrics, workerResource, err)
		return
	}
	audit(c, h.Logger, "list", workerResource, 0)
	utils.Success(c, workers)
}

// CreateWorker handles POST /healthcareworker/.
func (h *HealthcareWorkerHandler) CreateWorker(c *gin.Context) {
	var input services.WorkerInput
	if !utils.BindAndValidate(c, &input) {
		return
	}

	worker, err := h.Service.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.Logger, h.Metrics, workerResource, err)
		return
	}
	audit(c, h.Logger, "create", workerResource, worker.ID)
	utils.Created(c, worker)
}

// GetWorker handles GET /healthcareworker/:id/.
func (h *HealthcareWorkerHandler) GetWorker(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	worker, err := h.Service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.Logger, h.Metrics, workerResource, err)
		return
	}
	audit(c, h.Logger, "retrieve", workerResource, id)
	utils.Success(c, worker)
}

// UpdateWorker handles PUT (full) and PATCH (partial) on /healthcareworker/:id/.
func (h *HealthcareWorkerHandler) UpdateWorker(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var input services.WorkerInput
	if !utils.BindAndValidate(c, &input) {
		return
	}

	partial := c.Request.Method == http.MethodPatch
	worker, err := h.Service.Update(c.Request.Context(), id, input, partial)
	if err != nil {
		respondError(c, h.Logger, h.Metrics, workerResource, err)
		return
	}
	audit(c, h.Logger, "update", workerResource, id)
	utils.Success(c, worker)
}

// DeleteWorker handles DELETE /healthcareworker/:id/.
func (h *HealthcareWorkerHandler) DeleteWorker(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.Service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.Logger, h.Metrics, workerResource, err)
		return
	}
	audit(c, h.Logger, "delete", workerResource, id)
	utils.NoContent(c)
}
