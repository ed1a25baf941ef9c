package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/careaxis/hms/internal/config"
	"github.com/careaxis/hms/internal/domain"
)

func testManager(accessTTL time.Duration) *JWTManager {
	return NewJWTManager(config.JWTConfig{
		Secret:          "unit-test-secret-at-least-32-chars-long",
		AccessTokenTTL:  accessTTL,
		RefreshTokenTTL: time.Hour,
		Issuer:          "careaxis-hms-test",
	})
}

func testClaims() *domain.Claims {
	staffID := uuid.New()
	return &domain.Claims{
		UserID:  uuid.New(),
		Email:   "doctor@careaxis.health",
		Role:    domain.RoleDoctor,
		StaffID: &staffID,
	}
}

func TestTokenPair_RoundTrip(t *testing.T) {
	m := testManager(15 * time.Minute)
	in := testClaims()

	pair, err := m.GenerateTokenPair(in)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if pair.TokenType != "Bearer" {
		t.Errorf("expected Bearer token type, got %q", pair.TokenType)
	}

	out, err := m.ValidateAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if out.UserID != in.UserID || out.Email != in.Email || out.Role != in.Role {
		t.Errorf("claims did not survive the round trip: %+v", out)
	}
	if out.StaffID == nil || *out.StaffID != *in.StaffID {
		t.Error("staff id did not survive the round trip")
	}
}

func TestValidate_RejectsWrongTokenType(t *testing.T) {
	m := testManager(15 * time.Minute)

	pair, err := m.GenerateTokenPair(testClaims())
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, err := m.ValidateAccessToken(pair.RefreshToken); !errors.Is(err, ErrTokenTypeMismatch) {
		t.Errorf("refresh token must not pass access validation, got %v", err)
	}
	if _, err := m.ValidateRefreshToken(pair.AccessToken); !errors.Is(err, ErrTokenTypeMismatch) {
		t.Errorf("access token must not pass refresh validation, got %v", err)
	}
}

func TestValidate_RejectsExpired(t *testing.T) {
	m := testManager(-time.Minute)

	pair, err := m.GenerateTokenPair(testClaims())
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, err := m.ValidateAccessToken(pair.AccessToken); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestValidate_RejectsWrongSecret(t *testing.T) {
	pair, err := testManager(15 * time.Minute).GenerateTokenPair(testClaims())
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	other := NewJWTManager(config.JWTConfig{
		Secret:         "a-completely-different-signing-secret!!",
		AccessTokenTTL: 15 * time.Minute,
		Issuer:         "careaxis-hms-test",
	})
	if _, err := other.ValidateAccessToken(pair.AccessToken); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid for wrong secret, got %v", err)
	}
}

func TestValidate_RejectsGarbage(t *testing.T) {
	m := testManager(15 * time.Minute)
	if _, err := m.ValidateAccessToken("not.a.token"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}
