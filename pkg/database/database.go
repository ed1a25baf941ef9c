package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/careaxis/hms/internal/config"
	"github.com/careaxis/hms/internal/domain"
	"github.com/careaxis/hms/internal/domain/appointment"
	"github.com/careaxis/hms/internal/domain/bed"
	"github.com/careaxis/hms/internal/domain/billing"
	"github.com/careaxis/hms/internal/domain/laborder"
	"github.com/careaxis/hms/internal/domain/medicalrecord"
	"github.com/careaxis/hms/internal/domain/medicine"
	"github.com/careaxis/hms/internal/domain/patient"
	"github.com/careaxis/hms/internal/domain/prescription"
	"github.com/careaxis/hms/internal/domain/staff"
	"github.com/careaxis/hms/internal/repository/postgres"
)

func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		PrepareStmt:                              true,
		DisableForeignKeyConstraintWhenMigrating: false,
		DisableAutomaticPing:                     false,
	}

	db, err := gorm.Open(pgdriver.New(pgdriver.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: false,
	}), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")
	start := time.Now()

	schemas := []string{"clinical", "inventory", "finance", "auth", "audit"} // logical namespaces
	for _, schema := range schemas {
		if err := db.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schema)).Error; err != nil {
			return fmt.Errorf("creating schema %s: %w", schema, err)
		}
	}

	models := []any{
		&domain.User{},
		&domain.AuditLog{},
		&patient.Patient{},
		&staff.Staff{},
		&appointment.Appointment{},
		&medicalrecord.MedicalRecord{},
		&medicalrecord.Addendum{},
		&prescription.Prescription{},
		&laborder.LabOrder{},
		&medicine.Medicine{},
		&billing.Bill{},
		&billing.BillingItem{},
		&bed.Ward{},
		&bed.Bed{},
		&bed.Assignment{},
		&postgres.Counter{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrating models: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("creating indexes: %w", err)
	}

	log.Info("migrations completed", zap.Duration("duration", time.Since(start)))
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []struct {
		name  string
		query string
	}{
		{
			name:  "idx_appointments_doctor_schedule",
			query: `CREATE INDEX IF NOT EXISTS idx_appointments_doctor_schedule ON clinical.appointments (doctor_id, scheduled_at, duration_mins) WHERE deleted_at IS NULL AND status NOT IN ('cancelled')`,
		},
		// Patient search: GIN index for full-text search on name fields
		{
			name:  "idx_patients_name_search",
			query: `CREATE INDEX IF NOT EXISTS idx_patients_name_trgm ON clinical.patients USING gin ((first_name || ' ' || last_name) gin_trgm_ops) WHERE deleted_at IS NULL`,
		},
		// The revenue report scans these three constantly
		{
			name:  "idx_appointments_completed_unbilled",
			query: `CREATE INDEX IF NOT EXISTS idx_appointments_completed_unbilled ON clinical.appointments (patient_id) WHERE deleted_at IS NULL AND status = 'completed' AND bill_id IS NULL`,
		},
		{
			name:  "idx_lab_orders_completed_unbilled",
			query: `CREATE INDEX IF NOT EXISTS idx_lab_orders_completed_unbilled ON clinical.lab_orders (patient_id) WHERE deleted_at IS NULL AND status = 'completed' AND bill_generated = false`,
		},
		{
			name:  "idx_billing_items_source",
			query: `CREATE INDEX IF NOT EXISTS idx_billing_items_source ON finance.billing_items (source_type, source_id)`,
		},
		// Autocomplete prefix search
		{
			name:  "idx_medicines_name_pattern",
			query: `CREATE INDEX IF NOT EXISTS idx_medicines_name_pattern ON inventory.medicines (LOWER(name) varchar_pattern_ops) WHERE deleted_at IS NULL`,
		},
	}

	_ = db.Exec("CREATE EXTENSION IF NOT EXISTS pg_trgm").Error

	for _, idx := range indexes {
		if err := db.Exec(idx.query).Error; err != nil {
			// Index creation is best-effort; a failure degrades
			// performance, not correctness.
			_ = err
		}
	}

	return nil
}
