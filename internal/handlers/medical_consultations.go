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

const consultationResource = "medical_consultation"

// MedicalConsultationHandler handles the consultation ledger endpoints.
type MedicalConsultationHandler struct {
	Service *services.ConsultationService
	Logger  *zap.Logger
	Metrics *middleware.Metrics
}

// NewMedicalConsultationHandler creates a new MedicalConsultationHandler.
func NewMedicalConsultationHandler(db *gorm.DB, hours services.BusinessHours, logger *zap.Logger, metrics *middleware.Metrics) *MedicalConsultationHandler {
	return &MedicalConsultationHandler{
		Service: services.NewConsultationService(db, hours),
		Logger:  logger,
		Metrics: metrics,
	}
}

// ListConsultations handles GET /medicalconsultation/?search=.
func (h *MedicalConsultationHandler) ListConsultations(c *gin.Context) {
	consultations, err := h.Service.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondError(c, h.Logger, h.Metrics, consultationResource, err)
		return
	}
	audit(c, h.Logger, "list", consultationResource, 0)
	utils.Success(c, consultations)
}

// CreateConsultation handles POST /medicalconsultation/.
func (h *MedicalConsultationHandler) CreateConsultation(c *gin.Context) {
	var input services.ConsultationInput
	if !utils.BindAndValidate(c, &input) {
		return
	}

	consultation, err := h.Service.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.Logger, h.Metrics, consultationResource, err)
		return
	}
	audit(c, h.Logger, "create", consultationResource, consultation.ID)
	utils.Created(c, consultation)
}

// GetConsultation handles GET /medicalconsultation/:id/.
func (h *MedicalConsultationHandler) GetConsultation(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	consultation, err := h.Service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.Logger, h.Metrics, consultationResource, err)
		return
	}
	audit(c, h.Logger, "retrieve", consultationResource, id)
	utils.Success(c, consultation)
}

// UpdateConsultation handles PUT (full) and PATCH (partial) on /medicalconsultation/:id/.
func (h *MedicalConsultationHandler) UpdateConsultation(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var input services.ConsultationInput
	if !utils.BindAndValidate(c, &input) {
		return
	}

	partial := c.Request.Method == http.MethodPatch
	consultation, err := h.Service.Update(c.Request.Context(), id, input, partial)
	if err != nil {
		respondError(c, h.Logger, h.Metrics, consultationResource, err)
		return
	}
	audit(c, h.Logger, "update", consultationResource, id)
	utils.Success(c, consultation)
}

// DeleteConsultation handles DELETE /medicalconsultation/:id/.
func (h *MedicalConsultationHandler) DeleteConsultation(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.Service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.Logger, h.Metrics, consultationResource, err)
		return
	}
	audit(c, h.Logger, "delete", consultationResource, id)
	utils.NoContent(c)
}
