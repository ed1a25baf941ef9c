package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/careaxis/hms/internal/domain/prescription"
	"github.com/careaxis/hms/internal/handler/middleware"
	"github.com/careaxis/hms/internal/service"
)

type PrescriptionHandler struct {
	prescriptionSvc *service.PrescriptionService
}

func NewPrescriptionHandler(prescriptionSvc *service.PrescriptionService) *PrescriptionHandler {
	return &PrescriptionHandler{prescriptionSvc: prescriptionSvc}
}

type createPrescriptionRequest struct {
	PatientID     uuid.UUID                   `json:"patient_id" binding:"required"`
	AppointmentID *uuid.UUID                  `json:"appointment_id"`
	Medicines     []prescription.MedicineItem `json:"medicines" binding:"required"`
	Diagnosis     string                      `json:"diagnosis"`
	Instructions  string                      `json:"instructions"`
}

func (h *PrescriptionHandler) Create(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	var req createPrescriptionRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &prescription.CreatePrescriptionCommand{
		PatientID:     req.PatientID,
		DoctorID:      claims.UserID,
		AppointmentID: req.AppointmentID,
		Medicines:     req.Medicines,
		Diagnosis:     req.Diagnosis,
		Instructions:  req.Instructions,
		CreatedBy:     claims.UserID,
	}
	if claims.StaffID != nil {
		cmd.DoctorID = *claims.StaffID
	}

	p, err := h.prescriptionSvc.CreatePrescription(c.Request.Context(), cmd, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, p)
}

func (h *PrescriptionHandler) Get(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	p, err := h.prescriptionSvc.Get(c.Request.Context(), id, string(claims.Role), claims.PatientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, p)
}

type processPrescriptionRequest struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason"`
}

func (h *PrescriptionHandler) Process(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req processPrescriptionRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &prescription.ProcessPrescriptionCommand{
		Approve:     req.Approve,
		Reason:      req.Reason,
		ProcessedBy: claims.UserID,
	}

	p, err := h.prescriptionSvc.Process(c.Request.Context(), id, cmd, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, p)
}

func (h *PrescriptionHandler) List(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	q := &prescription.ListPrescriptionsQuery{
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "page_size", 20),
	}
	if raw := c.Query("patient_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			q.PatientID = &id
		}
	}
	if raw := c.Query("status"); raw != "" {
		status := prescription.PrescriptionStatus(raw)
		q.Status = &status
	}

	paged, err := h.prescriptionSvc.List(c.Request.Context(), q, string(claims.Role), claims.PatientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, paged)
}
