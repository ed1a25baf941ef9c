package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/careaxis/hms/internal/domain"
	"github.com/careaxis/hms/internal/domain/medicine"
	"github.com/careaxis/hms/internal/recommend"
)

// autocompleteLimit caps the number of suggestions returned per query.
const autocompleteLimit = 10

type MedicineService struct {
	repo     medicine.Repository
	auditSvc *AuditService
	log      *zap.Logger
}

func NewMedicineService(repo medicine.Repository, auditSvc *AuditService, log *zap.Logger) *MedicineService {
	return &MedicineService{
		repo:     repo,
		auditSvc: auditSvc,
		log:      log,
	}
}

func (s *MedicineService) AddMedicine(ctx context.Context, cmd *medicine.CreateMedicineCommand, callerID uuid.UUID, callerRole string, ip string) (*medicine.Medicine, error) {
	switch domain.Role(callerRole) {
	case domain.RolePharmacist, domain.RoleAdmin:
	default:
		return nil, ErrForbidden
	}

	if strings.TrimSpace(cmd.Name) == "" {
		return nil, medicine.ErrNameRequired
	}
	if cmd.UnitPrice.IsNegative() {
		return nil, &ValidationError{Fields: []string{"unit_price must not be negative"}}
	}
	if cmd.Stock < 0 {
		return nil, &ValidationError{Fields: []string{"stock must not be negative"}}
	}

	m := &medicine.Medicine{
		Name:             strings.TrimSpace(cmd.Name),
		GenericName:      cmd.GenericName,
		Manufacturer:     cmd.Manufacturer,
		Form:             cmd.Form,
		Strength:         cmd.Strength,
		DefaultDosage:    cmd.DefaultDosage,
		DefaultFrequency: cmd.DefaultFrequency,
		DefaultDuration:  cmd.DefaultDuration,
		UnitPrice:        cmd.UnitPrice,
		Stock:            cmd.Stock,
		CreatedBy:        cmd.CreatedBy,
	}

	if err := s.repo.Create(ctx, m); err != nil {
		if errors.Is(err, medicine.ErrMedicineAlreadyExists) {
			return nil, err
		}
		s.log.Error("failed to create medicine", zap.Error(err))
		return nil, fmt.Errorf("creating medicine: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "create",
		ResourceType: "medicine",
		ResourceID:   m.ID.String(),
		IPAddress:    ip,
	})

	return m, nil
}

func (s *MedicineService) Get(ctx context.Context, id uuid.UUID) (*medicine.Medicine, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *MedicineService) List(ctx context.Context, q *medicine.ListMedicinesQuery) (*medicine.PagedMedicines, error) {
	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}

	return s.repo.List(ctx, q)
}

// Recommend returns dosage guidance for a medicine name. It never
// fails: when the catalog lookup errors or the medicine is unknown,
// the caller gets the conservative default recommendation.
func (s *MedicineService) Recommend(ctx context.Context, name string) recommend.Recommendation {
	name = strings.TrimSpace(name)
	if name == "" {
		return recommend.Default(name)
	}

	med, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if !errors.Is(err, medicine.ErrMedicineNotFound) {
			s.log.Warn("catalog lookup failed, serving default recommendation",
				zap.String("medicine", name),
				zap.Error(err),
			)
		}
		return recommend.Default(name)
	}

	return recommend.Compute(med, name)
}

// Autocomplete returns up to ten catalog names starting with the query
// prefix. An empty prefix yields an empty result, not an error.
func (s *MedicineService) Autocomplete(ctx context.Context, prefix string) ([]string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return []string{}, nil
	}

	names, err := s.repo.SearchByPrefix(ctx, prefix, autocompleteLimit)
	if err != nil {
		s.log.Error("autocomplete search failed",
			zap.String("prefix", prefix),
			zap.Error(err),
		)
		return nil, fmt.Errorf("searching medicines: %w", err)
	}
	if names == nil {
		names = []string{}
	}

	return names, nil
}
