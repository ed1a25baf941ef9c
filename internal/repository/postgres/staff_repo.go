package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/careaxis/hms/internal/domain/staff"
)

type StaffRepository struct {
	db *gorm.DB
}

func NewStaffRepository(db *gorm.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

func (r *StaffRepository) Create(ctx context.Context, s *staff.Staff) error {
	err := r.db.WithContext(ctx).Create(s).Error
	if err != nil && isUniqueViolation(err) {
		return staff.ErrStaffAlreadyExists
	}
	return err
}

func (r *StaffRepository) GetByID(ctx context.Context, id uuid.UUID) (*staff.Staff, error) {
	var s staff.Staff
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, staff.ErrStaffNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StaffRepository) GetByEmployeeCode(ctx context.Context, code string) (*staff.Staff, error) {
	var s staff.Staff
	err := r.db.WithContext(ctx).First(&s, "employee_code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, staff.ErrStaffNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StaffRepository) Update(ctx context.Context, id uuid.UUID, cmd *staff.UpdateStaffCommand) (*staff.Staff, error) {
	updates := map[string]any{}
	setIf(updates, "first_name", cmd.FirstName)
	setIf(updates, "last_name", cmd.LastName)
	setIf(updates, "department", cmd.Department)
	setIf(updates, "specialization", cmd.Specialization)
	setIf(updates, "license_number", cmd.LicenseNumber)
	setIf(updates, "phone", cmd.Phone)
	setIf(updates, "email", cmd.Email)
	setIf(updates, "is_active", cmd.IsActive)

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&staff.Staff{}).
			Where("id = ? AND deleted_at IS NULL", id).
			Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, staff.ErrStaffNotFound
		}
	}

	return r.GetByID(ctx, id)
}

func (r *StaffRepository) List(ctx context.Context, q *staff.ListStaffQuery) (*staff.PagedStaff, error) {
	tx := r.db.WithContext(ctx).Model(&staff.Staff{}).Where("deleted_at IS NULL")

	if q.Search != "" {
		like := "%" + escapeLike(strings.ToLower(q.Search)) + "%"
		tx = tx.Where(
			"LOWER(first_name || ' ' || last_name) LIKE ? OR LOWER(employee_code) LIKE ?",
			like, like,
		)
	}
	if q.Designation != nil {
		tx = tx.Where("designation = ?", *q.Designation)
	}
	if q.Department != nil {
		tx = tx.Where("department = ?", *q.Department)
	}
	if q.ActiveOnly {
		tx = tx.Where("is_active = true")
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}

	var members []*staff.Staff
	err := tx.Order("employee_code ASC").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&members).Error
	if err != nil {
		return nil, err
	}

	return &staff.PagedStaff{
		Staff:      members,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages(total, q.PageSize),
	}, nil
}

func (r *StaffRepository) NextEmployeeSequence(ctx context.Context) (int, error) {
	return nextSequence(ctx, r.db, "employee_code")
}

func (r *StaffRepository) GetAll(ctx context.Context) ([]*staff.Staff, error) {
	var members []*staff.Staff
	err := r.db.WithContext(ctx).
		Where("deleted_at IS NULL").
		Find(&members).Error
	return members, err
}
