package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Server.Address() != "0.0.0.0:8080" {
		t.Errorf("unexpected address %q", cfg.Server.Address())
	}
	if cfg.Billing.ConsultationFee != 500 {
		t.Errorf("expected default consultation fee 500, got %v", cfg.Billing.ConsultationFee)
	}
	if cfg.Billing.MedicineNominalPrice != 100 {
		t.Errorf("expected default medicine nominal price 100, got %v", cfg.Billing.MedicineNominalPrice)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_ENV", "development")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("BILLING_CONSULTATION_FEE", "750")
	t.Setenv("JWT_ACCESS_TTL", "30m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port override, got %d", cfg.Server.Port)
	}
	if cfg.Billing.ConsultationFee != 750 {
		t.Errorf("expected fee override, got %v", cfg.Billing.ConsultationFee)
	}
	if cfg.JWT.AccessTokenTTL != 30*time.Minute {
		t.Errorf("expected 30m access TTL, got %v", cfg.JWT.AccessTokenTTL)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("expected trimmed origin list, got %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Fatalf("expected JWT_SECRET error, got %v", err)
	}
}

func TestLoad_ProductionGuards(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "short")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_SSLMODE", "disable")

	_, err := Load()
	if err == nil {
		t.Fatal("expected production validation errors")
	}
	if !strings.Contains(err.Error(), "at least 32 characters") {
		t.Errorf("expected secret length error, got %v", err)
	}
	if !strings.Contains(err.Error(), "DB_SSLMODE") {
		t.Errorf("expected sslmode error, got %v", err)
	}
}

func TestLoad_NegativeBillingAmountsRejected(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_ENV", "development")
	t.Setenv("BILLING_CONSULTATION_FEE", "-1")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for negative consultation fee")
	}
}
