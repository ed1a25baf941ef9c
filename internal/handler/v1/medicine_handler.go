package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/careaxis/hms/internal/domain/medicine"
	"github.com/careaxis/hms/internal/handler/middleware"
	"github.com/careaxis/hms/internal/service"
	"github.com/careaxis/hms/pkg/metrics"
)

type MedicineHandler struct {
	medicineSvc *service.MedicineService
	collector   *metrics.Collector
}

func NewMedicineHandler(medicineSvc *service.MedicineService, collector *metrics.Collector) *MedicineHandler {
	return &MedicineHandler{medicineSvc: medicineSvc, collector: collector}
}

type addMedicineRequest struct {
	Name             string          `json:"name" binding:"required"`
	GenericName      string          `json:"generic_name"`
	Manufacturer     string          `json:"manufacturer"`
	Form             medicine.Form   `json:"form"`
	Strength         string          `json:"strength"`
	DefaultDosage    string          `json:"default_dosage"`
	DefaultFrequency string          `json:"default_frequency"`
	DefaultDuration  string          `json:"default_duration"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Stock            int             `json:"stock"`
}

func (h *MedicineHandler) Add(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	var req addMedicineRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &medicine.CreateMedicineCommand{
		Name:             req.Name,
		GenericName:      req.GenericName,
		Manufacturer:     req.Manufacturer,
		Form:             req.Form,
		Strength:         req.Strength,
		DefaultDosage:    req.DefaultDosage,
		DefaultFrequency: req.DefaultFrequency,
		DefaultDuration:  req.DefaultDuration,
		UnitPrice:        req.UnitPrice,
		Stock:            req.Stock,
		CreatedBy:        claims.UserID,
	}

	m, err := h.medicineSvc.AddMedicine(c.Request.Context(), cmd, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, m)
}

func (h *MedicineHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	m, err := h.medicineSvc.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, m)
}

func (h *MedicineHandler) List(c *gin.Context) {
	q := &medicine.ListMedicinesQuery{
		Search:   c.Query("search"),
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "page_size", 20),
	}

	paged, err := h.medicineSvc.List(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, paged)
}

// Recommend is consumed by the prescription entry form, which fills the
// dosage fields as the doctor types. It always answers 200 with a usable
// payload; an empty or unknown name yields the conservative defaults
// rather than an error the form would have to special-case.
func (h *MedicineHandler) Recommend(c *gin.Context) {
	name := c.Query("name")

	rec := h.medicineSvc.Recommend(c.Request.Context(), name)
	if h.collector != nil {
		h.collector.RecommendationsServed.WithLabelValues(string(rec.Source)).Inc()
	}

	c.JSON(http.StatusOK, rec)
}

func (h *MedicineHandler) Autocomplete(c *gin.Context) {
	prefix := c.Query("q")

	results, err := h.medicineSvc.Autocomplete(c.Request.Context(), prefix)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "autocomplete lookup failed",
			"results": []string{},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}
