package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/careaxis/hms/internal/domain/bed"
	"github.com/careaxis/hms/internal/handler/middleware"
	"github.com/careaxis/hms/internal/service"
)

type BedHandler struct {
	bedSvc *service.BedService
}

func NewBedHandler(bedSvc *service.BedService) *BedHandler {
	return &BedHandler{bedSvc: bedSvc}
}

type createWardRequest struct {
	Name  string       `json:"name" binding:"required"`
	Floor int          `json:"floor"`
	Type  bed.WardType `json:"type" binding:"required"`
}

func (h *BedHandler) CreateWard(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	var req createWardRequest
	if !bindJSON(c, &req) {
		return
	}

	w := &bed.Ward{
		Name:  req.Name,
		Floor: req.Floor,
		Type:  req.Type,
	}
	if err := h.bedSvc.CreateWard(c.Request.Context(), w, claims.UserID, string(claims.Role), c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, w)
}

func (h *BedHandler) ListWards(c *gin.Context) {
	wards, err := h.bedSvc.ListWards(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, wards)
}

type createBedRequest struct {
	WardID      uuid.UUID       `json:"ward_id" binding:"required"`
	Number      string          `json:"number" binding:"required"`
	DailyTariff decimal.Decimal `json:"daily_tariff"`
}

func (h *BedHandler) CreateBed(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	var req createBedRequest
	if !bindJSON(c, &req) {
		return
	}

	b := &bed.Bed{
		WardID:      req.WardID,
		Number:      req.Number,
		Status:      bed.StatusAvailable,
		DailyTariff: req.DailyTariff,
	}
	if err := h.bedSvc.CreateBed(c.Request.Context(), b, claims.UserID, string(claims.Role), c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, b)
}

func (h *BedHandler) ListBeds(c *gin.Context) {
	q := &bed.ListBedsQuery{
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "page_size", 20),
	}
	if raw := c.Query("ward_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			q.WardID = &id
		}
	}
	if raw := c.Query("status"); raw != "" {
		status := bed.BedStatus(raw)
		q.Status = &status
	}

	paged, err := h.bedSvc.ListBeds(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, paged)
}

type admitPatientRequest struct {
	BedID     uuid.UUID `json:"bed_id" binding:"required"`
	PatientID uuid.UUID `json:"patient_id" binding:"required"`
}

func (h *BedHandler) Admit(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	var req admitPatientRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &bed.AdmitPatientCommand{
		BedID:      req.BedID,
		PatientID:  req.PatientID,
		AdmittedBy: claims.UserID,
	}

	a, err := h.bedSvc.Admit(c.Request.Context(), cmd, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, a)
}

type transferPatientRequest struct {
	ToBedID uuid.UUID `json:"to_bed_id" binding:"required"`
}

// Transfer moves the occupant of the bed in the path to another bed.
func (h *BedHandler) Transfer(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	fromBedID, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req transferPatientRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.bedSvc.Transfer(c.Request.Context(), fromBedID, req.ToBedID, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, a)
}

func (h *BedHandler) Discharge(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	a, err := h.bedSvc.Discharge(c.Request.Context(), id, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, a)
}
