package v1

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/careaxis/hms/internal/domain"
	"github.com/careaxis/hms/internal/domain/medicine"
	"github.com/careaxis/hms/internal/service"
)

type catalogStub struct {
	byName    map[string]*medicine.Medicine
	names     []string
	findErr   error
	searchErr error
}

func (s *catalogStub) Create(_ context.Context, _ *medicine.Medicine) error { return nil }

func (s *catalogStub) GetByID(_ context.Context, _ uuid.UUID) (*medicine.Medicine, error) {
	return nil, medicine.ErrMedicineNotFound
}

func (s *catalogStub) FindByName(_ context.Context, name string) (*medicine.Medicine, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if m, ok := s.byName[strings.ToLower(name)]; ok {
		return m, nil
	}
	return nil, medicine.ErrMedicineNotFound
}

func (s *catalogStub) SearchByPrefix(_ context.Context, prefix string, limit int) ([]string, error) {
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	var out []string
	for _, n := range s.names {
		if strings.HasPrefix(strings.ToLower(n), strings.ToLower(prefix)) {
			out = append(out, n)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *catalogStub) List(_ context.Context, _ *medicine.ListMedicinesQuery) (*medicine.PagedMedicines, error) {
	return &medicine.PagedMedicines{}, nil
}

func (s *catalogStub) AdjustStock(_ context.Context, _ uuid.UUID, _ int) error { return nil }

type auditStub struct{}

func (auditStub) Create(_ context.Context, _ *domain.AuditLog) error { return nil }

func newMedicineTestRouter(stub *catalogStub) *gin.Engine {
	gin.SetMode(gin.TestMode)

	auditSvc := service.NewAuditService(auditStub{}, nil, zap.NewNop())
	svc := service.NewMedicineService(stub, auditSvc, zap.NewNop())
	h := NewMedicineHandler(svc, nil)

	r := gin.New()
	r.GET("/medicines/recommendations", h.Recommend)
	r.GET("/medicines/autocomplete", h.Autocomplete)
	return r
}

func TestRecommendEndpoint_KnownMedicine(t *testing.T) {
	router := newMedicineTestRouter(&catalogStub{byName: map[string]*medicine.Medicine{
		"napa 500mg": {
			Name:             "Napa 500mg",
			DefaultDosage:    "1 tablet",
			DefaultFrequency: "Three times daily",
			DefaultDuration:  "3 days",
		},
	}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/medicines/recommendations?name=Napa+500mg", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body struct {
		Dosage    string `json:"dosage"`
		Frequency string `json:"frequency"`
		Duration  string `json:"duration"`
		Source    string `json:"source"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body.Dosage != "1 tablet" || body.Source != "database" {
		t.Errorf("expected catalog answer, got %+v", body)
	}
}

func TestRecommendEndpoint_LookupFailureStill200(t *testing.T) {
	router := newMedicineTestRouter(&catalogStub{findErr: errors.New("db down")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/medicines/recommendations?name=Amoxicillin", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("recommendation endpoint must answer 200 on lookup failure, got %d", w.Code)
	}

	var body struct {
		Dosage    string `json:"dosage"`
		Frequency string `json:"frequency"`
		Duration  string `json:"duration"`
		Source    string `json:"source"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body.Source != "default" {
		t.Errorf("expected default source, got %q", body.Source)
	}
	if body.Dosage == "" || body.Frequency == "" || body.Duration == "" {
		t.Errorf("default payload must be fully populated, got %+v", body)
	}
}

func TestRecommendEndpoint_MissingNameStill200(t *testing.T) {
	router := newMedicineTestRouter(&catalogStub{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/medicines/recommendations", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for missing name, got %d", w.Code)
	}
}

func TestAutocompleteEndpoint_PrefixMatches(t *testing.T) {
	router := newMedicineTestRouter(&catalogStub{names: []string{"Napa 500mg", "Napa Extra", "Naproxen"}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/medicines/autocomplete?q=nap", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body struct {
		Results []string `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(body.Results) != 3 {
		t.Errorf("expected 3 matches, got %v", body.Results)
	}
}

func TestAutocompleteEndpoint_EmptyQueryIsEmptyList(t *testing.T) {
	router := newMedicineTestRouter(&catalogStub{names: []string{"Napa 500mg"}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/medicines/autocomplete", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for empty query, got %d", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != `{"results":[]}` {
		t.Errorf("expected empty results array, got %s", got)
	}
}

func TestAutocompleteEndpoint_SearchFailureIs500WithEmptyResults(t *testing.T) {
	router := newMedicineTestRouter(&catalogStub{searchErr: errors.New("db down")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/medicines/autocomplete?q=nap", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 on search failure, got %d", w.Code)
	}

	var body struct {
		Error   string   `json:"error"`
		Results []string `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body.Error == "" {
		t.Error("expected an error message")
	}
	if body.Results == nil || len(body.Results) != 0 {
		t.Errorf("expected empty results array, got %#v", body.Results)
	}
}
