package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/careaxis/hms/internal/domain/medicalrecord"
	"github.com/careaxis/hms/internal/handler/middleware"
	"github.com/careaxis/hms/internal/service"
)

type MedicalRecordHandler struct {
	recordSvc *service.MedicalRecordService
}

func NewMedicalRecordHandler(recordSvc *service.MedicalRecordService) *MedicalRecordHandler {
	return &MedicalRecordHandler{recordSvc: recordSvc}
}

type createRecordRequest struct {
	PatientID     uuid.UUID                `json:"patient_id" binding:"required"`
	AppointmentID *uuid.UUID               `json:"appointment_id"`
	LabOrderID    *uuid.UUID               `json:"lab_order_id"`
	Type          medicalrecord.RecordType `json:"type" binding:"required"`
	SOAPNote      *medicalrecord.SOAPNote  `json:"soap_note"`
	Vitals        *medicalrecord.Vitals    `json:"vitals"`
	Diagnoses     []string                 `json:"diagnoses"`
	Notes         string                   `json:"notes"`
}

func (h *MedicalRecordHandler) Create(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	var req createRecordRequest
	if !bindJSON(c, &req) {
		return
	}

	doctorID := claims.UserID
	if claims.StaffID != nil {
		doctorID = *claims.StaffID
	}

	cmd := &medicalrecord.CreateRecordCommand{
		PatientID:     req.PatientID,
		AppointmentID: req.AppointmentID,
		LabOrderID:    req.LabOrderID,
		DoctorID:      doctorID,
		Type:          req.Type,
		SOAPNote:      req.SOAPNote,
		Vitals:        req.Vitals,
		Diagnoses:     req.Diagnoses,
		Notes:         req.Notes,
		CreatedBy:     claims.UserID,
	}

	r, err := h.recordSvc.CreateRecord(c.Request.Context(), cmd, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, r)
}

func (h *MedicalRecordHandler) Get(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	r, err := h.recordSvc.Get(c.Request.Context(), id, claims.UserID, string(claims.Role), claims.PatientID, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, r)
}

type addAddendumRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *MedicalRecordHandler) AddAddendum(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req addAddendumRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &medicalrecord.AddAddendumCommand{
		MedicalRecordID: id,
		Content:         req.Content,
		CreatedBy:       claims.UserID,
	}

	if err := h.recordSvc.AddAddendum(c.Request.Context(), cmd, claims.UserID, string(claims.Role), c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, APIResponse[gin.H]{Data: gin.H{"medical_record_id": id}})
}

func (h *MedicalRecordHandler) List(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	q := &medicalrecord.ListRecordsQuery{
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "page_size", 20),
	}
	if raw := c.Query("patient_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			q.PatientID = &id
		}
	}
	if raw := c.Query("doctor_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			q.DoctorID = &id
		}
	}
	if raw := c.Query("appointment_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			q.AppointmentID = &id
		}
	}
	if raw := c.Query("type"); raw != "" {
		t := medicalrecord.RecordType(raw)
		q.Type = &t
	}
	if raw := c.Query("date_from"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			q.DateFrom = &t
		}
	}
	if raw := c.Query("date_to"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			q.DateTo = &t
		}
	}

	paged, err := h.recordSvc.List(c.Request.Context(), q, string(claims.Role), claims.PatientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, paged)
}
