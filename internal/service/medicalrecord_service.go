package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/careaxis/hms/internal/domain"
	"github.com/careaxis/hms/internal/domain/medicalrecord"
)

type MedicalRecordService struct {
	repo     medicalrecord.Repository
	auditSvc *AuditService
	log      *zap.Logger
}

func NewMedicalRecordService(repo medicalrecord.Repository, auditSvc *AuditService, log *zap.Logger) *MedicalRecordService {
	return &MedicalRecordService{
		repo:     repo,
		auditSvc: auditSvc,
		log:      log,
	}
}

func (s *MedicalRecordService) CreateRecord(ctx context.Context, cmd *medicalrecord.CreateRecordCommand, callerID uuid.UUID, callerRole string, ip string) (*medicalrecord.MedicalRecord, error) {
	switch domain.Role(callerRole) {
	case domain.RoleDoctor, domain.RoleNurse, domain.RoleAdmin:
	default:
		return nil, ErrForbidden
	}

	if !cmd.Type.IsValid() {
		return nil, medicalrecord.ErrInvalidRecordType
	}
	if cmd.PatientID == uuid.Nil || cmd.DoctorID == uuid.Nil {
		return nil, &ValidationError{Fields: []string{"patient_id and doctor_id are required"}}
	}

	r := &medicalrecord.MedicalRecord{
		PatientID:     cmd.PatientID,
		AppointmentID: cmd.AppointmentID,
		LabOrderID:    cmd.LabOrderID,
		DoctorID:      cmd.DoctorID,
		Type:          cmd.Type,
		SOAPNote:      cmd.SOAPNote,
		Vitals:        cmd.Vitals,
		Diagnoses:     cmd.Diagnoses,
		Notes:         cmd.Notes,
		CreatedBy:     cmd.CreatedBy,
	}

	if err := s.repo.Create(ctx, r); err != nil {
		s.log.Error("failed to create medical record", zap.Error(err))
		return nil, fmt.Errorf("creating medical record: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "create",
		ResourceType: "medical_record",
		ResourceID:   r.ID.String(),
		IPAddress:    ip,
	})

	return r, nil
}

func (s *MedicalRecordService) Get(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole string, callerPatientID *uuid.UUID, ip string) (*medicalrecord.MedicalRecord, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if domain.Role(callerRole) == domain.RolePatient {
		if callerPatientID == nil || *callerPatientID != r.PatientID {
			return nil, ErrForbidden
		}
	}

	// Every PHI read is audited
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "read",
		ResourceType: "medical_record",
		ResourceID:   id.String(),
		IPAddress:    ip,
	})

	return r, nil
}

// AddAddendum appends a correction. Records themselves are immutable.
func (s *MedicalRecordService) AddAddendum(ctx context.Context, cmd *medicalrecord.AddAddendumCommand, callerID uuid.UUID, callerRole string, ip string) error {
	switch domain.Role(callerRole) {
	case domain.RoleDoctor, domain.RoleNurse, domain.RoleAdmin:
	default:
		return ErrForbidden
	}

	if strings.TrimSpace(cmd.Content) == "" {
		return &ValidationError{Fields: []string{"addendum content is required"}}
	}

	if _, err := s.repo.GetByID(ctx, cmd.MedicalRecordID); err != nil {
		return err
	}

	a := &medicalrecord.Addendum{
		MedicalRecordID: cmd.MedicalRecordID,
		Content:         cmd.Content,
		CreatedBy:       cmd.CreatedBy,
	}
	if err := s.repo.AddAddendum(ctx, a); err != nil {
		return fmt.Errorf("adding addendum: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "update",
		ResourceType: "medical_record",
		ResourceID:   cmd.MedicalRecordID.String(),
		IPAddress:    ip,
	})

	return nil
}

func (s *MedicalRecordService) List(ctx context.Context, q *medicalrecord.ListRecordsQuery, callerRole string, callerPatientID *uuid.UUID) (*medicalrecord.PagedRecords, error) {
	if domain.Role(callerRole) == domain.RolePatient {
		if callerPatientID == nil {
			return nil, ErrForbidden
		}
		q.PatientID = callerPatientID
	}

	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}

	return s.repo.List(ctx, q)
}
