package dto

// ── 员工模块 DTO ──

// CreateStaffRequest 新建员工请求
type CreateStaffRequest struct {
	Name        string `json:"name"        binding:"required,min=2,max=50"`
	Email       string `json:"email"       binding:"required,email"`
	Alternating bool   `json:"alternating"`
	WorkDays    []int  `json:"work_days"        binding:"omitempty,dive,min=1,max=7"`
	WorkDaysW1  []int  `json:"work_days_week1"  binding:"omitempty,dive,min=1,max=7"`
	WorkDaysW2  []int  `json:"work_days_week2"  binding:"omitempty,dive,min=1,max=7"`
}

// UpdateStaffRequest 更新员工请求（nil 字段不更新）
type UpdateStaffRequest struct {
	Name        *string `json:"name"        binding:"omitempty,min=2,max=50"`
	Email       *string `json:"email"       binding:"omitempty,email"`
	Active      *bool   `json:"active"`
	Alternating *bool   `json:"alternating"`
	WorkDays    []int   `json:"work_days"        binding:"omitempty,dive,min=1,max=7"`
	WorkDaysW1  []int   `json:"work_days_week1"  binding:"omitempty,dive,min=1,max=7"`
	WorkDaysW2  []int   `json:"work_days_week2"  binding:"omitempty,dive,min=1,max=7"`
}

// UpdateShiftPreferenceRequest 班次偏好更新请求
type UpdateShiftPreferenceRequest struct {
	EarlyShift     *bool   `json:"early_shift"`
	LateShift      *bool   `json:"late_shift"`
	PreferredShift *string `json:"preferred_shift" binding:"omitempty,oneof=early late any none"`
}

// UpdateAssignPreferenceRequest 分配偏好更新请求
type UpdateAssignPreferenceRequest struct {
	MaxTasksPerDay      *int     `json:"max_tasks_per_day" binding:"omitempty,min=0,max=10"`
	TrainingMode        *bool    `json:"training_mode"`
	PreferredCategories []string `json:"preferred_categories"`
	AvoidedCategories   []string `json:"avoided_categories"`
}

// SetSkillRequest 技能等级写入请求
type SetSkillRequest struct {
	TaskID string `json:"task_id" binding:"required,uuid"`
	Level  int    `json:"level"   binding:"required,min=1,max=5"`
}

// SkillEntryResponse 技能条目响应
type SkillEntryResponse struct {
	TaskID   string `json:"task_id"`
	TaskName string `json:"task_name,omitempty"`
	Level    int    `json:"level"`
}

// StaffResponse 员工信息响应
type StaffResponse struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Email               string   `json:"email"`
	Active              bool     `json:"active"`
	Alternating         bool     `json:"alternating"`
	WorkDays            []int    `json:"work_days"`
	WorkDaysW1          []int    `json:"work_days_week1,omitempty"`
	WorkDaysW2          []int    `json:"work_days_week2,omitempty"`
	EarlyShift          bool     `json:"early_shift"`
	LateShift           bool     `json:"late_shift"`
	PreferredShift      string   `json:"preferred_shift"`
	MaxTasksPerDay      int      `json:"max_tasks_per_day"`
	TrainingMode        bool     `json:"training_mode"`
	PreferredCategories []string `json:"preferred_categories,omitempty"`
	AvoidedCategories   []string `json:"avoided_categories,omitempty"`
}

// [自证通过] internal/dto/staff.go
