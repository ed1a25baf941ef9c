package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/careaxis/hms/internal/domain/medicine"
	"github.com/careaxis/hms/internal/recommend"
)

type fakeMedicineRepo struct {
	byName      map[string]*medicine.Medicine
	createErr   error
	findErr     error
	searchErr   error
	created     []*medicine.Medicine
	adjustments map[uuid.UUID]int
}

func (f *fakeMedicineRepo) Create(_ context.Context, m *medicine.Medicine) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, m)
	return nil
}

func (f *fakeMedicineRepo) GetByID(_ context.Context, _ uuid.UUID) (*medicine.Medicine, error) {
	return nil, medicine.ErrMedicineNotFound
}

func (f *fakeMedicineRepo) FindByName(_ context.Context, name string) (*medicine.Medicine, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if m, ok := f.byName[strings.ToLower(name)]; ok {
		return m, nil
	}
	return nil, medicine.ErrMedicineNotFound
}

func (f *fakeMedicineRepo) SearchByPrefix(_ context.Context, prefix string, limit int) ([]string, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	var names []string
	for _, m := range f.byName {
		if strings.HasPrefix(strings.ToLower(m.Name), strings.ToLower(prefix)) {
			names = append(names, m.Name)
		}
		if len(names) == limit {
			break
		}
	}
	return names, nil
}

func (f *fakeMedicineRepo) List(_ context.Context, _ *medicine.ListMedicinesQuery) (*medicine.PagedMedicines, error) {
	return &medicine.PagedMedicines{}, nil
}

func (f *fakeMedicineRepo) AdjustStock(_ context.Context, id uuid.UUID, delta int) error {
	if f.adjustments == nil {
		f.adjustments = map[uuid.UUID]int{}
	}
	f.adjustments[id] += delta
	return nil
}

func newMedicineService(repo medicine.Repository) *MedicineService {
	auditSvc, _ := newTestAuditService()
	return NewMedicineService(repo, auditSvc, zap.NewNop())
}

func TestRecommend_CatalogDefaultsWin(t *testing.T) {
	repo := &fakeMedicineRepo{byName: map[string]*medicine.Medicine{
		"napa 500mg": {
			Name:             "Napa 500mg",
			DefaultDosage:    "1 tablet",
			DefaultFrequency: "Three times daily",
			DefaultDuration:  "3 days",
		},
	}}
	svc := newMedicineService(repo)

	rec := svc.Recommend(context.Background(), "Napa 500mg")
	if rec.Source != recommend.SourceDatabase {
		t.Fatalf("expected source %q, got %q", recommend.SourceDatabase, rec.Source)
	}
	if rec.Dosage != "1 tablet" {
		t.Errorf("expected catalog dosage, got %q", rec.Dosage)
	}
}

func TestRecommend_UnknownNameServesDefault(t *testing.T) {
	svc := newMedicineService(&fakeMedicineRepo{})

	rec := svc.Recommend(context.Background(), "Mystery 250mg")
	if rec.Source != recommend.SourceDefault {
		t.Fatalf("expected source %q for unknown medicine, got %q", recommend.SourceDefault, rec.Source)
	}
	if rec.Dosage != "250 mg" {
		t.Errorf("expected dosage extracted from name, got %q", rec.Dosage)
	}
	if rec.Frequency != "Twice daily" || rec.Duration != "5 days" {
		t.Errorf("expected fixed fallbacks, got %q / %q", rec.Frequency, rec.Duration)
	}
}

func TestRecommend_RepoFailureServesDefault(t *testing.T) {
	svc := newMedicineService(&fakeMedicineRepo{findErr: errors.New("connection refused")})

	rec := svc.Recommend(context.Background(), "Amoxicillin")
	if rec.Source != recommend.SourceDefault {
		t.Fatalf("lookup failure must degrade to the default recommendation, got source %q", rec.Source)
	}
	if rec.Dosage == "" || rec.Frequency == "" || rec.Duration == "" {
		t.Errorf("default recommendation must be fully populated, got %+v", rec)
	}
}

func TestRecommend_EmptyNameServesDefault(t *testing.T) {
	svc := newMedicineService(&fakeMedicineRepo{})

	rec := svc.Recommend(context.Background(), "  ")
	if rec.Source != recommend.SourceDefault {
		t.Fatalf("expected source %q, got %q", recommend.SourceDefault, rec.Source)
	}
	if rec.Dosage != "500 mg" {
		t.Errorf("expected fixed fallback dosage, got %q", rec.Dosage)
	}
}

func TestAutocomplete_EmptyPrefixIsEmptyResult(t *testing.T) {
	svc := newMedicineService(&fakeMedicineRepo{searchErr: errors.New("must not be called")})

	results, err := svc.Autocomplete(context.Background(), "   ")
	if err != nil {
		t.Fatalf("empty prefix must not error: %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", results)
	}
}

func TestAutocomplete_PropagatesRepoError(t *testing.T) {
	svc := newMedicineService(&fakeMedicineRepo{searchErr: errors.New("connection refused")})

	if _, err := svc.Autocomplete(context.Background(), "nap"); err == nil {
		t.Fatal("expected error when the search fails")
	}
}

func TestAutocomplete_NilResultBecomesEmptySlice(t *testing.T) {
	svc := newMedicineService(&fakeMedicineRepo{})

	results, err := svc.Autocomplete(context.Background(), "zzz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results == nil {
		t.Error("expected non-nil slice for no matches")
	}
}

func TestAddMedicine_RBAC(t *testing.T) {
	repo := &fakeMedicineRepo{}
	svc := newMedicineService(repo)

	cmd := &medicine.CreateMedicineCommand{Name: "Napa", UnitPrice: decimal.NewFromInt(2)}

	if _, err := svc.AddMedicine(context.Background(), cmd, uuid.New(), "doctor", "127.0.0.1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("doctor must not add catalog entries, got %v", err)
	}
	if _, err := svc.AddMedicine(context.Background(), cmd, uuid.New(), "pharmacist", "127.0.0.1"); err != nil {
		t.Fatalf("pharmacist add failed: %v", err)
	}
	if len(repo.created) != 1 {
		t.Errorf("expected one created entry, got %d", len(repo.created))
	}
}

func TestAddMedicine_RejectsNegativePrice(t *testing.T) {
	svc := newMedicineService(&fakeMedicineRepo{})

	cmd := &medicine.CreateMedicineCommand{Name: "Napa", UnitPrice: decimal.NewFromInt(-1)}
	if _, err := svc.AddMedicine(context.Background(), cmd, uuid.New(), "admin", "127.0.0.1"); err == nil {
		t.Fatal("expected validation error for negative unit price")
	}
}
