package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/careaxis/hms/internal/domain/patient"
	"github.com/careaxis/hms/internal/handler/middleware"
	"github.com/careaxis/hms/internal/service"
)

type PatientHandler struct {
	patientSvc *service.PatientService
}

func NewPatientHandler(patientSvc *service.PatientService) *PatientHandler {
	return &PatientHandler{patientSvc: patientSvc}
}

type registerPatientRequest struct {
	FirstName         string                     `json:"first_name" binding:"required"`
	LastName          string                     `json:"last_name" binding:"required"`
	DateOfBirth       time.Time                  `json:"date_of_birth" binding:"required"`
	Gender            patient.Gender             `json:"gender" binding:"required"`
	BloodType         patient.BloodType          `json:"blood_type"`
	Phone             string                     `json:"phone"`
	Email             string                     `json:"email"`
	Address           string                     `json:"address"`
	City              string                     `json:"city"`
	State             string                     `json:"state"`
	ZipCode           string                     `json:"zip_code"`
	Country           string                     `json:"country"`
	EmergencyContact  *patient.EmergencyContact  `json:"emergency_contact"`
	Insurance         *patient.Insurance         `json:"insurance"`
	Allergies         []string                   `json:"allergies"`
	ChronicConditions []string                   `json:"chronic_conditions"`
	AssignedDoctorID  *uuid.UUID                 `json:"assigned_doctor_id"`
	Notes             string                     `json:"notes"`
}

func (h *PatientHandler) Register(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	var req registerPatientRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &patient.CreatePatientCommand{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		DateOfBirth:       req.DateOfBirth,
		Gender:            req.Gender,
		BloodType:         req.BloodType,
		Phone:             req.Phone,
		Email:             req.Email,
		Address:           req.Address,
		City:              req.City,
		State:             req.State,
		ZipCode:           req.ZipCode,
		Country:           req.Country,
		EmergencyContact:  req.EmergencyContact,
		Insurance:         req.Insurance,
		Allergies:         req.Allergies,
		ChronicConditions: req.ChronicConditions,
		AssignedDoctorID:  req.AssignedDoctorID,
		Notes:             req.Notes,
		CreatedBy:         claims.UserID,
	}

	p, err := h.patientSvc.RegisterPatient(c.Request.Context(), cmd, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, p)
}

func (h *PatientHandler) Get(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	p, err := h.patientSvc.GetPatient(c.Request.Context(), id, claims.UserID, string(claims.Role), claims.PatientID, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, p)
}

func (h *PatientHandler) GetByUHID(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	p, err := h.patientSvc.GetPatientByUHID(c.Request.Context(), c.Param("uhid"), claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, p)
}

type updatePatientRequest struct {
	FirstName         *string                   `json:"first_name"`
	LastName          *string                   `json:"last_name"`
	Gender            *patient.Gender           `json:"gender"`
	BloodType         *patient.BloodType        `json:"blood_type"`
	Phone             *string                   `json:"phone"`
	Email             *string                   `json:"email"`
	Address           *string                   `json:"address"`
	City              *string                   `json:"city"`
	State             *string                   `json:"state"`
	ZipCode           *string                   `json:"zip_code"`
	Country           *string                   `json:"country"`
	EmergencyContact  *patient.EmergencyContact `json:"emergency_contact"`
	Insurance         *patient.Insurance        `json:"insurance"`
	Allergies         *[]string                 `json:"allergies"`
	ChronicConditions *[]string                 `json:"chronic_conditions"`
	AssignedDoctorID  *uuid.UUID                `json:"assigned_doctor_id"`
	Notes             *string                   `json:"notes"`
}

func (h *PatientHandler) Update(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updatePatientRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &patient.UpdatePatientCommand{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Gender:            req.Gender,
		BloodType:         req.BloodType,
		Phone:             req.Phone,
		Email:             req.Email,
		Address:           req.Address,
		City:              req.City,
		State:             req.State,
		ZipCode:           req.ZipCode,
		Country:           req.Country,
		EmergencyContact:  req.EmergencyContact,
		Insurance:         req.Insurance,
		Allergies:         req.Allergies,
		ChronicConditions: req.ChronicConditions,
		AssignedDoctorID:  req.AssignedDoctorID,
		Notes:             req.Notes,
		UpdatedBy:         claims.UserID,
	}

	p, err := h.patientSvc.UpdatePatient(c.Request.Context(), id, cmd, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, p)
}

func (h *PatientHandler) Deactivate(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.patientSvc.DeactivatePatient(c.Request.Context(), id, claims.UserID, string(claims.Role), c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"message": "patient deactivated"})
}

func (h *PatientHandler) List(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	q := &patient.ListPatientsQuery{
		Search:    c.Query("search"),
		Page:      parseQueryInt(c, "page", 1),
		PageSize:  parseQueryInt(c, "page_size", 20),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if raw := c.Query("status"); raw != "" {
		status := patient.Status(raw)
		q.Status = &status
	}
	if raw := c.Query("doctor_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			q.AssignedDoctorID = &id
		}
	}

	paged, err := h.patientSvc.ListPatients(c.Request.Context(), q, claims.UserID, string(claims.Role))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, paged)
}
