package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/careaxis/hms/internal/config"
	"github.com/careaxis/hms/internal/domain"
	"github.com/careaxis/hms/internal/handler/middleware"
	"github.com/careaxis/hms/pkg/auth"
	"github.com/careaxis/hms/pkg/metrics"
)

// Handlers bundles every v1 handler so the router signature stays flat.
type Handlers struct {
	Auth          *AuthHandler
	Patient       *PatientHandler
	Appointment   *AppointmentHandler
	LabOrder      *LabOrderHandler
	Prescription  *PrescriptionHandler
	Medicine      *MedicineHandler
	Billing       *BillingHandler
	Bed           *BedHandler
	Staff         *StaffHandler
	MedicalRecord *MedicalRecordHandler
	Revenue       *RevenueHandler
}

// NewRouter builds the gin engine with the full middleware chain and all
// v1 routes. Authorization is enforced twice: route groups gate on role
// where the set is fixed, and services re-check on every call so a wiring
// mistake here fails closed.
func NewRouter(
	cfg *config.Config,
	log *zap.Logger,
	jwtManager *auth.JWTManager,
	collector *metrics.Collector,
	h Handlers,
) *gin.Engine {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.Recovery(log),
		middleware.RequestID(),
		middleware.CORS(cfg.CORS),
		middleware.NewRateLimiter(cfg.RateLimit).Middleware(),
		middleware.Tracing(cfg.App.Name),
		middleware.Metrics(collector),
		middleware.AccessLog(log),
	)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": cfg.App.Version})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.AuthRateLimiter(cfg.RateLimit))
	{
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
		authGroup.POST("/change-password", middleware.Authenticate(jwtManager), h.Auth.ChangePassword)
	}

	protected := api.Group("")
	protected.Use(middleware.Authenticate(jwtManager))

	patients := protected.Group("/patients")
	{
		patients.POST("", h.Patient.Register)
		patients.GET("", h.Patient.List)
		patients.GET("/:id", h.Patient.Get)
		patients.GET("/uhid/:uhid", h.Patient.GetByUHID)
		patients.PUT("/:id", h.Patient.Update)
		patients.DELETE("/:id", h.Patient.Deactivate)
	}

	appointments := protected.Group("/appointments")
	{
		appointments.POST("", h.Appointment.Schedule)
		appointments.GET("", h.Appointment.List)
		appointments.GET("/:id", h.Appointment.Get)
		appointments.PUT("/:id/reschedule", h.Appointment.Reschedule)
		appointments.POST("/:id/start", h.Appointment.Start)
		appointments.POST("/:id/complete", h.Appointment.Complete)
		appointments.POST("/:id/cancel", h.Appointment.Cancel)
	}

	labOrders := protected.Group("/lab-orders")
	{
		labOrders.POST("", h.LabOrder.Create)
		labOrders.GET("", h.LabOrder.List)
		labOrders.GET("/:id", h.LabOrder.Get)
		labOrders.POST("/:id/collect", h.LabOrder.CollectSample)
		labOrders.POST("/:id/process", h.LabOrder.StartProcessing)
		labOrders.POST("/:id/complete", h.LabOrder.Complete)
		labOrders.POST("/:id/cancel", h.LabOrder.Cancel)
	}

	prescriptions := protected.Group("/prescriptions")
	{
		prescriptions.POST("", h.Prescription.Create)
		prescriptions.GET("", h.Prescription.List)
		prescriptions.GET("/:id", h.Prescription.Get)
		prescriptions.POST("/:id/process", h.Prescription.Process)
	}

	medicines := protected.Group("/medicines")
	{
		medicines.POST("", middleware.RequireRole(domain.RolePharmacist, domain.RoleAdmin), h.Medicine.Add)
		medicines.GET("", h.Medicine.List)
		medicines.GET("/recommendations", h.Medicine.Recommend)
		medicines.GET("/autocomplete", h.Medicine.Autocomplete)
		medicines.GET("/:id", h.Medicine.Get)
	}

	bills := protected.Group("/bills")
	{
		bills.POST("", h.Billing.Create)
		bills.POST("/from-appointment", h.Billing.BillAppointment)
		bills.GET("", h.Billing.List)
		bills.GET("/:id", h.Billing.Get)
		bills.POST("/:id/issue", h.Billing.Issue)
		bills.POST("/:id/pay", h.Billing.Pay)
		bills.POST("/:id/void", h.Billing.Void)
	}

	wards := protected.Group("/wards")
	{
		wards.POST("", middleware.RequireRole(domain.RoleAdmin), h.Bed.CreateWard)
		wards.GET("", h.Bed.ListWards)
	}

	beds := protected.Group("/beds")
	{
		beds.POST("", middleware.RequireRole(domain.RoleAdmin), h.Bed.CreateBed)
		beds.GET("", h.Bed.ListBeds)
		beds.POST("/admit", h.Bed.Admit)
		beds.POST("/:id/transfer", h.Bed.Transfer)
		beds.POST("/:id/discharge", h.Bed.Discharge)
	}

	staffGroup := protected.Group("/staff")
	{
		staffGroup.POST("", middleware.RequireRole(domain.RoleAdmin), h.Staff.Onboard)
		staffGroup.GET("", h.Staff.List)
		staffGroup.GET("/:id", h.Staff.Get)
		staffGroup.GET("/code/:code", h.Staff.GetByEmployeeCode)
		staffGroup.PUT("/:id", middleware.RequireRole(domain.RoleAdmin), h.Staff.Update)
	}

	records := protected.Group("/medical-records")
	{
		records.POST("", h.MedicalRecord.Create)
		records.GET("", h.MedicalRecord.List)
		records.GET("/:id", h.MedicalRecord.Get)
		records.POST("/:id/addenda", h.MedicalRecord.AddAddendum)
	}

	revenueGroup := protected.Group("/revenue")
	revenueGroup.Use(middleware.RequireRole(domain.RoleAccountant, domain.RoleAdmin))
	{
		revenueGroup.GET("/unbilled", h.Revenue.Report)
		revenueGroup.GET("/unbilled/:id", h.Revenue.PatientFindings)
	}

	return r
}
