package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/careaxis/hms/internal/config"
	v1 "github.com/careaxis/hms/internal/handler/v1"
	"github.com/careaxis/hms/internal/repository/postgres"
	"github.com/careaxis/hms/internal/revenue"
	"github.com/careaxis/hms/internal/seed"
	"github.com/careaxis/hms/internal/service"
	"github.com/careaxis/hms/pkg/auth"
	"github.com/careaxis/hms/pkg/database"
	"github.com/careaxis/hms/pkg/logger"
	"github.com/careaxis/hms/pkg/metrics"
	"github.com/careaxis/hms/pkg/tracer"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Tracing.Enabled {
		tp, err := tracer.Init(cfg.Tracing)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				log.Warn("shutting down tracer", zap.Error(err))
			}
		}()
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	if err := database.Migrate(db, log); err != nil {
		return err
	}

	seed.LoadMedicines(ctx, db, log, cfg.Seed.MedicineCatalogCSV)

	collector := metrics.NewCollector(cfg.App.Name)
	go watchDBConnections(ctx, db, collector)

	jwtManager := auth.NewJWTManager(cfg.JWT)

	patientRepo := postgres.NewPatientRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	labOrderRepo := postgres.NewLabOrderRepository(db)
	prescriptionRepo := postgres.NewPrescriptionRepository(db)
	billingRepo := postgres.NewBillingRepository(db)
	medicineRepo := postgres.NewMedicineRepository(db)
	bedRepo := postgres.NewBedRepository(db)
	staffRepo := postgres.NewStaffRepository(db)
	recordRepo := postgres.NewMedicalRecordRepository(db)
	userRepo := postgres.NewUserRepository(db)
	auditRepo := postgres.NewAuditRepository(db)

	auditSvc := service.NewAuditService(auditRepo, collector, log)
	defer auditSvc.Shutdown()

	consultationFee := decimal.NewFromFloat(cfg.Billing.ConsultationFee)
	medicineNominal := decimal.NewFromFloat(cfg.Billing.MedicineNominalPrice)
	taxRate := decimal.NewFromFloat(cfg.Billing.TaxRatePercent)

	authSvc := service.NewAuthService(userRepo, jwtManager, auditSvc, log)
	patientSvc := service.NewPatientService(patientRepo, auditSvc, collector, log)
	appointmentSvc := service.NewAppointmentService(appointmentRepo, consultationFee, auditSvc, collector, log)
	labOrderSvc := service.NewLabOrderService(labOrderRepo, auditSvc, log)
	prescriptionSvc := service.NewPrescriptionService(prescriptionRepo, medicineRepo, auditSvc, collector, log)
	billingSvc := service.NewBillingService(billingRepo, appointmentRepo, labOrderRepo, taxRate, auditSvc, collector, log)
	medicineSvc := service.NewMedicineService(medicineRepo, auditSvc, log)
	bedSvc := service.NewBedService(bedRepo, billingSvc, auditSvc, log)
	staffSvc := service.NewStaffService(staffRepo, auditSvc, log)
	recordSvc := service.NewMedicalRecordService(recordRepo, auditSvc, log)
	revenueSvc := service.NewRevenueService(
		revenue.Config{ConsultationFee: consultationFee, MedicineNominalPrice: medicineNominal},
		patientRepo, staffRepo, appointmentRepo, labOrderRepo, prescriptionRepo, billingRepo,
		auditSvc, log,
	)

	router := v1.NewRouter(cfg, log, jwtManager, collector, v1.Handlers{
		Auth:          v1.NewAuthHandler(authSvc),
		Patient:       v1.NewPatientHandler(patientSvc),
		Appointment:   v1.NewAppointmentHandler(appointmentSvc),
		LabOrder:      v1.NewLabOrderHandler(labOrderSvc),
		Prescription:  v1.NewPrescriptionHandler(prescriptionSvc),
		Medicine:      v1.NewMedicineHandler(medicineSvc, collector),
		Billing:       v1.NewBillingHandler(billingSvc),
		Bed:           v1.NewBedHandler(bedSvc),
		Staff:         v1.NewStaffHandler(staffSvc),
		MedicalRecord: v1.NewMedicalRecordHandler(recordSvc),
		Revenue:       v1.NewRevenueHandler(revenueSvc, collector),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("environment", cfg.App.Environment),
			zap.String("version", cfg.App.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info("server stopped")
	return nil
}

// watchDBConnections samples the pool so the dashboard sees connection
// pressure without a scrape-time DB call.
func watchDBConnections(ctx context.Context, db *gorm.DB, collector *metrics.Collector) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}

	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			collector.DBConnections.Set(float64(sqlDB.Stats().OpenConnections))
		}
	}
}
