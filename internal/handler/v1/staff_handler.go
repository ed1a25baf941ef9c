package v1

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/careaxis/hms/internal/domain/staff"
	"github.com/careaxis/hms/internal/handler/middleware"
	"github.com/careaxis/hms/internal/service"
)

type StaffHandler struct {
	staffSvc *service.StaffService
}

func NewStaffHandler(staffSvc *service.StaffService) *StaffHandler {
	return &StaffHandler{staffSvc: staffSvc}
}

type onboardStaffRequest struct {
	FirstName      string            `json:"first_name" binding:"required"`
	LastName       string            `json:"last_name" binding:"required"`
	Designation    staff.Designation `json:"designation" binding:"required"`
	Department     string            `json:"department" binding:"required"`
	Specialization string            `json:"specialization"`
	LicenseNumber  string            `json:"license_number"`
	Phone          string            `json:"phone"`
	Email          string            `json:"email" binding:"omitempty,email"`
	JoinedAt       *time.Time        `json:"joined_at"`
}

func (h *StaffHandler) Onboard(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	var req onboardStaffRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &staff.CreateStaffCommand{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Designation:    req.Designation,
		Department:     req.Department,
		Specialization: req.Specialization,
		LicenseNumber:  req.LicenseNumber,
		Phone:          req.Phone,
		Email:          req.Email,
		CreatedBy:      claims.UserID,
	}
	if req.JoinedAt != nil {
		cmd.JoinedAt = *req.JoinedAt
	}

	s, err := h.staffSvc.OnboardStaff(c.Request.Context(), cmd, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, s)
}

func (h *StaffHandler) Get(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	s, err := h.staffSvc.Get(c.Request.Context(), id, string(claims.Role))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, s)
}

func (h *StaffHandler) GetByEmployeeCode(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	s, err := h.staffSvc.GetByEmployeeCode(c.Request.Context(), c.Param("code"), string(claims.Role))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, s)
}

type updateStaffRequest struct {
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	Department     *string `json:"department"`
	Specialization *string `json:"specialization"`
	LicenseNumber  *string `json:"license_number"`
	Phone          *string `json:"phone"`
	Email          *string `json:"email" binding:"omitempty,email"`
	IsActive       *bool   `json:"is_active"`
}

func (h *StaffHandler) Update(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updateStaffRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &staff.UpdateStaffCommand{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Department:     req.Department,
		Specialization: req.Specialization,
		LicenseNumber:  req.LicenseNumber,
		Phone:          req.Phone,
		Email:          req.Email,
		IsActive:       req.IsActive,
		UpdatedBy:      claims.UserID,
	}

	s, err := h.staffSvc.UpdateStaff(c.Request.Context(), id, cmd, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, s)
}

func (h *StaffHandler) List(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	q := &staff.ListStaffQuery{
		Search:     c.Query("search"),
		ActiveOnly: c.Query("active_only") == "true",
		Page:       parseQueryInt(c, "page", 1),
		PageSize:   parseQueryInt(c, "page_size", 20),
	}
	if raw := c.Query("designation"); raw != "" {
		d := staff.Designation(raw)
		q.Designation = &d
	}
	if raw := c.Query("department"); raw != "" {
		q.Department = &raw
	}

	paged, err := h.staffSvc.List(c.Request.Context(), q, string(claims.Role))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, paged)
}
