package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/careaxis/hms/internal/domain/appointment"
	"github.com/careaxis/hms/internal/domain/bed"
	"github.com/careaxis/hms/internal/domain/billing"
	"github.com/careaxis/hms/internal/domain/laborder"
	"github.com/careaxis/hms/internal/domain/medicalrecord"
	"github.com/careaxis/hms/internal/domain/medicine"
	"github.com/careaxis/hms/internal/domain/patient"
	"github.com/careaxis/hms/internal/domain/prescription"
	"github.com/careaxis/hms/internal/domain/staff"
	"github.com/careaxis/hms/internal/service"
)

type APIResponse[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

type ValidationErrorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, APIResponse[any]{Data: data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, APIResponse[any]{Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

func respondServiceError(c *gin.Context, err error) {
	var validErr *service.ValidationError
	if errors.As(err, &validErr) {
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{
			Error:  "validation failed",
			Fields: validErr.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, patient.ErrPatientNotFound),
		errors.Is(err, appointment.ErrAppointmentNotFound),
		errors.Is(err, medicalrecord.ErrRecordNotFound),
		errors.Is(err, prescription.ErrPrescriptionNotFound),
		errors.Is(err, laborder.ErrLabOrderNotFound),
		errors.Is(err, billing.ErrBillNotFound),
		errors.Is(err, medicine.ErrMedicineNotFound),
		errors.Is(err, staff.ErrStaffNotFound),
		errors.Is(err, bed.ErrWardNotFound),
		errors.Is(err, bed.ErrBedNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})

	case errors.Is(err, patient.ErrPatientAlreadyExists),
		errors.Is(err, appointment.ErrAppointmentConflict),
		errors.Is(err, appointment.ErrAlreadyBilled),
		errors.Is(err, laborder.ErrAlreadyBilled),
		errors.Is(err, prescription.ErrAlreadyProcessed),
		errors.Is(err, medicine.ErrMedicineAlreadyExists),
		errors.Is(err, staff.ErrStaffAlreadyExists),
		errors.Is(err, bed.ErrBedUnavailable),
		errors.Is(err, bed.ErrPatientAlreadyIn):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})

	case errors.Is(err, appointment.ErrScheduledInPast),
		errors.Is(err, appointment.ErrInvalidDuration),
		errors.Is(err, appointment.ErrInvalidStatusTransition),
		errors.Is(err, appointment.ErrInvalidAppointmentType),
		errors.Is(err, patient.ErrPatientDeceased),
		errors.Is(err, patient.ErrInvalidGender),
		errors.Is(err, laborder.ErrInvalidStatusTransition),
		errors.Is(err, laborder.ErrNoTests),
		errors.Is(err, laborder.ErrNegativeTestPrice),
		errors.Is(err, prescription.ErrNoMedicines),
		errors.Is(err, prescription.ErrRejectReasonRequired),
		errors.Is(err, billing.ErrInvalidStatusTransition),
		errors.Is(err, billing.ErrNoItems),
		errors.Is(err, billing.ErrInvalidSourceType),
		errors.Is(err, billing.ErrNegativeAmount),
		errors.Is(err, medicine.ErrNameRequired),
		errors.Is(err, medicine.ErrInsufficientStock),
		errors.Is(err, staff.ErrLicenseRequired),
		errors.Is(err, staff.ErrInvalidDesignation),
		errors.Is(err, bed.ErrBedNotOccupied),
		errors.Is(err, bed.ErrNoOpenAssignment),
		errors.Is(err, bed.ErrInvalidWardType),
		errors.Is(err, medicalrecord.ErrInvalidRecordType),
		errors.Is(err, medicalrecord.ErrRecordImmutable):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})

	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "access denied"})

	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})

	case errors.Is(err, service.ErrAccountInactive):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "account is inactive"})

	case errors.Is(err, service.ErrAccountLocked):
		c.JSON(http.StatusTooManyRequests, ErrorResponse{
			Error: "account temporarily locked",
			Code:  "ACCOUNT_LOCKED",
		})

	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return false
	}

	return true
}

func parseUUID(c *gin.Context, param string) (uuid.UUID, bool) {
	raw := c.Param(param)
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + param + ": must be a valid UUID"})
		return uuid.Nil, false
	}
	return id, true
}

func parseQueryInt(c *gin.Context, key string, defaultVal int) int {
	if raw := c.Query(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return defaultVal
}
