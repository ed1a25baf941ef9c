package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/careaxis/hms/internal/domain/laborder"
	"github.com/careaxis/hms/internal/handler/middleware"
	"github.com/careaxis/hms/internal/service"
)

type LabOrderHandler struct {
	labOrderSvc *service.LabOrderService
}

func NewLabOrderHandler(labOrderSvc *service.LabOrderService) *LabOrderHandler {
	return &LabOrderHandler{labOrderSvc: labOrderSvc}
}

type createLabOrderRequest struct {
	PatientID     uuid.UUID             `json:"patient_id" binding:"required"`
	AppointmentID *uuid.UUID            `json:"appointment_id"`
	Tests         []laborder.OrderedTest `json:"tests" binding:"required"`
	ClinicalNotes string                `json:"clinical_notes"`
}

func (h *LabOrderHandler) Create(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	var req createLabOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &laborder.CreateLabOrderCommand{
		PatientID:     req.PatientID,
		DoctorID:      claims.UserID,
		AppointmentID: req.AppointmentID,
		Tests:         req.Tests,
		ClinicalNotes: req.ClinicalNotes,
		CreatedBy:     claims.UserID,
	}
	if claims.StaffID != nil {
		cmd.DoctorID = *claims.StaffID
	}

	o, err := h.labOrderSvc.CreateOrder(c.Request.Context(), cmd, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, o)
}

func (h *LabOrderHandler) Get(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	o, err := h.labOrderSvc.Get(c.Request.Context(), id, string(claims.Role), claims.PatientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, o)
}

func (h *LabOrderHandler) CollectSample(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	o, err := h.labOrderSvc.CollectSample(c.Request.Context(), id, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, o)
}

func (h *LabOrderHandler) StartProcessing(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	o, err := h.labOrderSvc.StartProcessing(c.Request.Context(), id, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, o)
}

type completeLabOrderRequest struct {
	ResultSummary string `json:"result_summary" binding:"required"`
}

func (h *LabOrderHandler) Complete(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req completeLabOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	o, err := h.labOrderSvc.CompleteOrder(c.Request.Context(), id, req.ResultSummary, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, o)
}

type cancelLabOrderRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func (h *LabOrderHandler) Cancel(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req cancelLabOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	o, err := h.labOrderSvc.CancelOrder(c.Request.Context(), id, req.Reason, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, o)
}

func (h *LabOrderHandler) List(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	q := &laborder.ListLabOrdersQuery{
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "page_size", 20),
		Unbilled: c.Query("unbilled") == "true",
	}
	if raw := c.Query("patient_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			q.PatientID = &id
		}
	}
	if raw := c.Query("status"); raw != "" {
		status := laborder.OrderStatus(raw)
		q.Status = &status
	}

	paged, err := h.labOrderSvc.List(c.Request.Context(), q, string(claims.Role), claims.PatientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, paged)
}
