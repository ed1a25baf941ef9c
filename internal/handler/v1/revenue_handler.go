package v1

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/careaxis/hms/internal/handler/middleware"
	"github.com/careaxis/hms/internal/service"
	"github.com/careaxis/hms/pkg/metrics"
)

type RevenueHandler struct {
	revenueSvc *service.RevenueService
	collector  *metrics.Collector
}

func NewRevenueHandler(revenueSvc *service.RevenueService, collector *metrics.Collector) *RevenueHandler {
	return &RevenueHandler{revenueSvc: revenueSvc, collector: collector}
}

func (h *RevenueHandler) Report(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	start := time.Now()
	report, err := h.revenueSvc.GenerateReport(c.Request.Context(), claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if h.collector != nil {
		h.collector.RevenueReportDuration.Observe(time.Since(start).Seconds())
		h.collector.RevenueFindingsTotal.Add(float64(report.TotalFindings))
	}

	respondOK(c, report)
}

func (h *RevenueHandler) PatientFindings(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	findings, err := h.revenueSvc.PatientFindings(c.Request.Context(), id, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, findings)
}
