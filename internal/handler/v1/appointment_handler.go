package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/careaxis/hms/internal/domain/appointment"
	"github.com/careaxis/hms/internal/handler/middleware"
	"github.com/careaxis/hms/internal/service"
)

type AppointmentHandler struct {
	appointmentSvc *service.AppointmentService
}

func NewAppointmentHandler(appointmentSvc *service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointmentSvc: appointmentSvc}
}

type scheduleAppointmentRequest struct {
	PatientID      uuid.UUID                   `json:"patient_id" binding:"required"`
	DoctorID       uuid.UUID                   `json:"doctor_id" binding:"required"`
	Department     string                      `json:"department" binding:"required"`
	ScheduledAt    time.Time                   `json:"scheduled_at" binding:"required"`
	DurationMins   int                         `json:"duration_mins"`
	Type           appointment.AppointmentType `json:"type" binding:"required"`
	ChiefComplaint string                      `json:"chief_complaint"`
	Notes          string                      `json:"notes"`
	Room           string                      `json:"room"`
}

func (h *AppointmentHandler) Schedule(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	var req scheduleAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.DurationMins == 0 {
		req.DurationMins = 30
	}

	cmd := &appointment.CreateAppointmentCommand{
		PatientID:      req.PatientID,
		DoctorID:       req.DoctorID,
		Department:     req.Department,
		ScheduledAt:    req.ScheduledAt,
		DurationMins:   req.DurationMins,
		Type:           req.Type,
		ChiefComplaint: req.ChiefComplaint,
		Notes:          req.Notes,
		Room:           req.Room,
		CreatedBy:      claims.UserID,
	}

	a, err := h.appointmentSvc.Schedule(c.Request.Context(), cmd, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, a)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	a, err := h.appointmentSvc.Get(c.Request.Context(), id, string(claims.Role), claims.PatientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, a)
}

type rescheduleRequest struct {
	ScheduledAt    *time.Time                   `json:"scheduled_at"`
	DurationMins   *int                         `json:"duration_mins"`
	Type           *appointment.AppointmentType `json:"type"`
	ChiefComplaint *string                      `json:"chief_complaint"`
	Notes          *string                      `json:"notes"`
	Room           *string                      `json:"room"`
}

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req rescheduleRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &appointment.UpdateAppointmentCommand{
		ScheduledAt:    req.ScheduledAt,
		DurationMins:   req.DurationMins,
		Type:           req.Type,
		ChiefComplaint: req.ChiefComplaint,
		Notes:          req.Notes,
		Room:           req.Room,
		UpdatedBy:      claims.UserID,
	}

	a, err := h.appointmentSvc.Reschedule(c.Request.Context(), id, cmd, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, a)
}

func (h *AppointmentHandler) Start(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	a, err := h.appointmentSvc.Start(c.Request.Context(), id, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, a)
}

type completeAppointmentRequest struct {
	Notes string `json:"notes"`
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req completeAppointmentRequest
	_ = c.ShouldBindJSON(&req) // body is optional

	a, err := h.appointmentSvc.Complete(c.Request.Context(), id, req.Notes, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, a)
}

type cancelAppointmentRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req cancelAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &appointment.CancelAppointmentCommand{
		Reason:      req.Reason,
		CancelledBy: claims.UserID,
	}

	a, err := h.appointmentSvc.Cancel(c.Request.Context(), id, cmd, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, a)
}

func (h *AppointmentHandler) List(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	q := &appointment.ListAppointmentsQuery{
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
	if raw := c.Query("department"); raw != "" {
		q.Department = &raw
	}
	if raw := c.Query("status"); raw != "" {
		status := appointment.AppointmentStatus(raw)
		q.Status = &status
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

	paged, err := h.appointmentSvc.List(c.Request.Context(), q, string(claims.Role), claims.PatientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, paged)
}
