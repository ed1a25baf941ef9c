package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/careaxis/hms/internal/domain/billing"
	"github.com/careaxis/hms/internal/handler/middleware"
	"github.com/careaxis/hms/internal/service"
)

type BillingHandler struct {
	billingSvc *service.BillingService
}

func NewBillingHandler(billingSvc *service.BillingService) *BillingHandler {
	return &BillingHandler{billingSvc: billingSvc}
}

type createBillItemRequest struct {
	SourceType  billing.SourceType `json:"source_type" binding:"required"`
	SourceID    uuid.UUID          `json:"source_id" binding:"required"`
	Description string             `json:"description" binding:"required"`
	UnitPrice   decimal.Decimal    `json:"unit_price" binding:"required"`
	Quantity    int                `json:"quantity"`
}

type createBillRequest struct {
	PatientID uuid.UUID               `json:"patient_id" binding:"required"`
	Items     []createBillItemRequest `json:"items" binding:"required"`
	Discount  decimal.Decimal         `json:"discount"`
}

func (h *BillingHandler) Create(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	var req createBillRequest
	if !bindJSON(c, &req) {
		return
	}

	items := make([]billing.CreateBillItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = billing.CreateBillItem{
			SourceType:  it.SourceType,
			SourceID:    it.SourceID,
			Description: it.Description,
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
		}
	}

	cmd := &billing.CreateBillCommand{
		PatientID: req.PatientID,
		Items:     items,
		Discount:  req.Discount,
		CreatedBy: claims.UserID,
	}

	b, err := h.billingSvc.CreateBill(c.Request.Context(), cmd, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, b)
}

type billAppointmentRequest struct {
	AppointmentID uuid.UUID `json:"appointment_id" binding:"required"`
}

func (h *BillingHandler) BillAppointment(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	var req billAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	b, err := h.billingSvc.BillAppointment(c.Request.Context(), req.AppointmentID, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, b)
}

func (h *BillingHandler) Get(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	b, err := h.billingSvc.Get(c.Request.Context(), id, string(claims.Role), claims.PatientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, b)
}

func (h *BillingHandler) Issue(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	b, err := h.billingSvc.IssueBill(c.Request.Context(), id, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, b)
}

type payBillRequest struct {
	Via string `json:"via" binding:"required"`
}

func (h *BillingHandler) Pay(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req payBillRequest
	if !bindJSON(c, &req) {
		return
	}

	b, err := h.billingSvc.PayBill(c.Request.Context(), id, req.Via, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, b)
}

type voidBillRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func (h *BillingHandler) Void(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req voidBillRequest
	if !bindJSON(c, &req) {
		return
	}

	b, err := h.billingSvc.VoidBill(c.Request.Context(), id, req.Reason, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, b)
}

func (h *BillingHandler) List(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	q := &billing.ListBillsQuery{
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "page_size", 20),
	}
	if raw := c.Query("patient_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			q.PatientID = &id
		}
	}
	if raw := c.Query("status"); raw != "" {
		status := billing.BillStatus(raw)
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

	paged, err := h.billingSvc.List(c.Request.Context(), q, string(claims.Role), claims.PatientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, paged)
}
