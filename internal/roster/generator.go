package roster

import (
	"sort"
	"time"
)

// ── 分配生成器 ──
//
// 四阶段贪心流程（同一模式贯穿电话班/任务/分诊生成）：
// 候选池筛选 → 确定性排序（负载升序 + 稳定平票）→ 贪心取用 → 记录缺口。
// 覆盖不足一律降级为"部分分配 + 冲突记录"，绝不因短缺返回错误。

// Config 生成器参数
type Config struct {
	PhonePerShift   int     // 每个电话班需求人数
	DualAssignLevel int     // 任务要求等级达到该值时最多派 2 人
	OverloadLimit   float64 // 单日负载上限（超过判定 overloaded）
}

// DefaultConfig 默认参数：每班 2 人、等级 3 起双人、负载上限 4.0
func DefaultConfig() Config {
	return Config{
		PhonePerShift:   2,
		DualAssignLevel: 3,
		OverloadLimit:   4.0,
	}
}

// Generator 分配生成器：在快照上生成/更新电话班表、任务与分诊分配
type Generator struct {
	snap      *Snapshot
	cfg       Config
	conflicts []Conflict
	review    []Conflict // 标记人工复核的冲突队列
}

// NewGenerator 创建生成器
func NewGenerator(snap *Snapshot, cfg Config) *Generator {
	if cfg.PhonePerShift <= 0 {
		cfg.PhonePerShift = 2
	}
	if cfg.DualAssignLevel <= 0 {
		cfg.DualAssignLevel = 3
	}
	if cfg.OverloadLimit <= 0 {
		cfg.OverloadLimit = 4.0
	}
	return &Generator{snap: snap, cfg: cfg}
}

// Snapshot 返回底层快照（由调用方持久化）
func (g *Generator) Snapshot() *Snapshot { return g.snap }

// ── 负载计算 ──

// Workload 员工单日负载：电话班每半班 0.5、任务每项 1.0、分诊每项 0.5
func (g *Generator) Workload(staffID, date string) float64 {
	load := 0.0
	if pr := g.snap.Phone[date]; pr != nil {
		if pr.OnShift(staffID, ShiftEarly) {
			load += 0.5
		}
		if pr.OnShift(staffID, ShiftLate) {
			load += 0.5
		}
	}
	for _, ids := range g.snap.Allocations[date] {
		for _, id := range ids {
			if id == staffID {
				load += 1.0
				break
			}
		}
	}
	for _, ids := range g.snap.Triage[date] {
		for _, id := range ids {
			if id == staffID {
				load += 0.5
				break
			}
		}
	}
	return load
}

// taskCountOn 员工当日已分配任务数（MaxTasksPerDay 上限判断用）
func (g *Generator) taskCountOn(staffID, date string) int {
	count := 0
	for _, ids := range g.snap.Allocations[date] {
		for _, id := range ids {
			if id == staffID {
				count++
				break
			}
		}
	}
	return count
}

// availableOn 员工当日是否可用：在职、当日上班、未请假
func (g *Generator) availableOn(s *StaffMember, date time.Time) bool {
	return s.Active && s.WorksOn(date) && !g.snap.OnLeave(s.ID, dateKey(date))
}

// ════════════════════════════════════════════════════════════
// 电话班表生成
// ════════════════════════════════════════════════════════════

// 候选池放宽档位。请假与对班互斥在任何档位都不放宽。
type phoneTier int

const (
	tierRotation  phoneTier = iota // 轮换合格 + 班次偏好可排
	tierAvailable                  // 无视轮换资格，仍尊重班次偏好
	tierEmergency                  // 应急：仅要求当日可用且不在对班
)

// GenerateWeeklyPhoneRoster 生成整周电话班表。
// 每个工作日早/晚班各选 PhonePerShift 人；轮换合格者优先，
// 不足时降档补位，仍不足则记录 understaffed 冲突。
func (g *Generator) GenerateWeeklyPhoneRoster(weekStart time.Time) error {
	if g.snap.IsWeekLocked(weekStart) {
		return ErrMonthLocked
	}
	g.generatePhoneRoster(weekStart, false)
	g.DetectConflicts(weekStart)
	return nil
}

// GenerateWeeklyPhoneRosterWithEmergencyBackup 带应急兜底的整周电话班表。
// 在常规两档之外增加第三档：完全无视轮换资格与班次偏好，
// 尽最大可能补满缺口后再记录短缺。
func (g *Generator) GenerateWeeklyPhoneRosterWithEmergencyBackup(weekStart time.Time) error {
	if g.snap.IsWeekLocked(weekStart) {
		return ErrMonthLocked
	}
	g.generatePhoneRoster(weekStart, true)
	g.DetectConflicts(weekStart)
	return nil
}

func (g *Generator) generatePhoneRoster(weekStart time.Time, emergency bool) {
	weekIdx := WeekIndex(weekStart)
	for _, date := range weekDates(weekStart) {
		pr := &PhoneRoster{}
		g.snap.Phone[dateKey(date)] = pr
		for _, shift := range []ShiftType{ShiftEarly, ShiftLate} {
			g.fillShift(date, weekIdx, pr, shift, emergency)
		}
	}
}

// fillShift 逐档补满单日单班次
func (g *Generator) fillShift(date time.Time, weekIdx int, pr *PhoneRoster, shift ShiftType, emergency bool) {
	tiers := []phoneTier{tierRotation, tierAvailable}
	if emergency {
		tiers = append(tiers, tierEmergency)
	}
	for _, tier := range tiers {
		need := g.cfg.PhonePerShift - len(shiftList(pr, shift))
		if need <= 0 {
			return
		}
		cands := g.phoneCandidates(date, weekIdx, pr, shift, tier)
		if len(cands) > need {
			cands = cands[:need]
		}
		for _, id := range cands {
			appendShift(pr, shift, id)
			g.snap.Rotation.RecordAssignment(id, shift, weekIdx)
		}
	}
}

func shiftList(pr *PhoneRoster, shift ShiftType) []string {
	if shift == ShiftEarly {
		return pr.Early
	}
	return pr.Late
}

func appendShift(pr *PhoneRoster, shift ShiftType, id string) {
	if shift == ShiftEarly {
		pr.Early = append(pr.Early, id)
	} else {
		pr.Late = append(pr.Late, id)
	}
}

func opposite(shift ShiftType) ShiftType {
	if shift == ShiftEarly {
		return ShiftLate
	}
	return ShiftEarly
}

// phoneCandidates 指定档位下的候选人，按（当日负载升序, 该班次累计次数升序,
// 员工列表稳定顺序）排列
func (g *Generator) phoneCandidates(date time.Time, weekIdx int, pr *PhoneRoster, shift ShiftType, tier phoneTier) []string {
	dk := dateKey(date)
	var cands []string
	for _, s := range g.snap.Staff {
		if !g.availableOn(s, date) {
			continue
		}
		// 对班互斥与去重：任何档位都不放宽
		if pr.OnShift(s.ID, opposite(shift)) || pr.OnShift(s.ID, shift) {
			continue
		}
		if tier < tierEmergency && !s.AvailableFor(shift) {
			continue
		}
		if tier == tierRotation {
			elig := g.snap.Rotation.Eligibility(s.ID, weekIdx)
			if shift == ShiftEarly && !elig.CanDoEarly {
				continue
			}
			if shift == ShiftLate && !elig.CanDoLate {
				continue
			}
		}
		cands = append(cands, s.ID)
	}

	sort.SliceStable(cands, func(i, j int) bool {
		wi, wj := g.Workload(cands[i], dk), g.Workload(cands[j], dk)
		if wi != wj {
			return wi < wj
		}
		return g.snap.Rotation.Count(cands[i], shift) < g.snap.Rotation.Count(cands[j], shift)
	})
	return cands
}

// ════════════════════════════════════════════════════════════
// 任务与分诊分配
// ════════════════════════════════════════════════════════════

// GenerateRandomTaskAssignments 为当日所有尚未分配的普通任务选派员工。
// 技能达标者中优先高技能、再低负载；要求等级 >= DualAssignLevel 派 2 人，
// 否则 1 人。无达标候选人时任务保持未分配（人工复核范畴，不记错误）。
func (g *Generator) GenerateRandomTaskAssignments(date time.Time) error {
	if g.snap.IsDateLocked(date) {
		return ErrMonthLocked
	}
	dk := dateKey(date)
	for _, task := range g.snap.Tasks {
		if task.Type != TypeTask {
			continue
		}
		if len(g.snap.Allocations[dk][task.ID]) > 0 {
			continue
		}
		g.assignTask(task, date)
	}
	g.DetectConflicts(date)
	return nil
}

// assignTask 单任务选派
func (g *Generator) assignTask(task *DutyTask, date time.Time) {
	dk := dateKey(date)
	needed := 1
	if task.RequiredLevel >= g.cfg.DualAssignLevel {
		needed = 2
	}

	var cands []string
	for _, s := range g.snap.Staff {
		if !g.availableOn(s, date) {
			continue
		}
		if !g.snap.Skills.CanPerform(s.ID, task.ID, task.RequiredLevel) {
			continue
		}
		if limit := s.Assign.MaxTasksPerDay; limit > 0 && g.taskCountOn(s.ID, dk) >= limit {
			continue
		}
		cands = append(cands, s.ID)
	}

	sort.SliceStable(cands, func(i, j int) bool {
		si := g.snap.Skills.GetSkill(cands[i], task.ID)
		sj := g.snap.Skills.GetSkill(cands[j], task.ID)
		if si != sj {
			return si > sj
		}
		return g.Workload(cands[i], dk) < g.Workload(cands[j], dk)
	})

	if len(cands) == 0 {
		return
	}
	if len(cands) > needed {
		cands = cands[:needed]
	}
	if g.snap.Allocations[dk] == nil {
		g.snap.Allocations[dk] = make(map[string][]string)
	}
	g.snap.Allocations[dk][task.ID] = cands
}

// assignHeader 分诊头任务选派（整体分配 1 人，技能优先、负载其次）
func (g *Generator) assignHeader(task *DutyTask, date time.Time) {
	dk := dateKey(date)
	var cands []string
	for _, s := range g.snap.Staff {
		if !g.availableOn(s, date) {
			continue
		}
		if !g.snap.Skills.CanPerform(s.ID, task.ID, task.RequiredLevel) {
			continue
		}
		cands = append(cands, s.ID)
	}
	sort.SliceStable(cands, func(i, j int) bool {
		si := g.snap.Skills.GetSkill(cands[i], task.ID)
		sj := g.snap.Skills.GetSkill(cands[j], task.ID)
		if si != sj {
			return si > sj
		}
		return g.Workload(cands[i], dk) < g.Workload(cands[j], dk)
	})
	if len(cands) == 0 {
		return
	}
	if g.snap.Triage[dk] == nil {
		g.snap.Triage[dk] = make(map[string][]string)
	}
	g.snap.Triage[dk][task.ID] = cands[:1]
}

// GenerateCompleteWeeklyAssignmentsWithWOH 整周全量生成。
// 先生成电话班表，再按 WOH 账龄降序处理未分配任务——让稀缺的熟练
// 员工优先消化最接近（或已超出）SLA 的积压，最后补齐分诊头任务。
func (g *Generator) GenerateCompleteWeeklyAssignmentsWithWOH(weekStart time.Time) error {
	if g.snap.IsWeekLocked(weekStart) {
		return ErrMonthLocked
	}
	g.generatePhoneRoster(weekStart, false)

	for _, date := range weekDates(weekStart) {
		dk := dateKey(date)

		var pending []*DutyTask
		for _, task := range g.snap.Tasks {
			if task.Type != TypeTask {
				continue
			}
			if len(g.snap.Allocations[dk][task.ID]) > 0 {
				continue
			}
			pending = append(pending, task)
		}
		// 账龄降序；同龄保持任务列表稳定顺序
		sort.SliceStable(pending, func(i, j int) bool {
			return g.snap.wohAge(pending[i].ID) > g.snap.wohAge(pending[j].ID)
		})
		for _, task := range pending {
			g.assignTask(task, date)
		}

		for _, task := range g.snap.Tasks {
			if task.Type != TypeHeader {
				continue
			}
			if len(g.snap.Triage[dk][task.ID]) > 0 {
				continue
			}
			g.assignHeader(task, date)
		}
	}

	g.DetectConflicts(weekStart)
	return nil
}

// ════════════════════════════════════════════════════════════
// 复制与手动分配
// ════════════════════════════════════════════════════════════

// CopyPreviousWeekAssignments 把上一周的任务与分诊分配深拷贝到目标周。
// 电话班表从不复制：对班互斥与轮换不变式要求逐日重新生成。
func (g *Generator) CopyPreviousWeekAssignments(weekStart time.Time) error {
	if g.snap.IsWeekLocked(weekStart) {
		return ErrMonthLocked
	}
	for _, date := range weekDates(weekStart) {
		srcKey := dateKey(date.AddDate(0, 0, -7))
		dstKey := dateKey(date)

		if src, ok := g.snap.Allocations[srcKey]; ok {
			g.snap.Allocations[dstKey] = deepCopyAlloc(src)
		}
		if src, ok := g.snap.Triage[srcKey]; ok {
			g.snap.Triage[dstKey] = deepCopyAlloc(src)
		}
	}
	return nil
}

// deepCopyAlloc 按值深拷贝：改动副本不得影响来源周
func deepCopyAlloc(src map[string][]string) map[string][]string {
	dst := make(map[string][]string, len(src))
	for taskID, ids := range src {
		cp := make([]string, len(ids))
		copy(cp, ids)
		dst[taskID] = cp
	}
	return dst
}

// AssignStaffToTask 手动覆写任务分配。
// 未知任务 ID 整体空操作；未知员工 ID 逐条忽略。手动覆写允许违反
// 软约束（技能/资格），违规会在下一次冲突扫描中被标出。
func (g *Generator) AssignStaffToTask(taskID string, staffIDs []string, date time.Time) error {
	if g.snap.IsDateLocked(date) {
		return ErrMonthLocked
	}
	task := g.snap.TaskByID(taskID)
	if task == nil || task.Type != TypeTask {
		return nil
	}
	dk := dateKey(date)
	if g.snap.Allocations[dk] == nil {
		g.snap.Allocations[dk] = make(map[string][]string)
	}
	g.snap.Allocations[dk][taskID] = g.knownStaff(staffIDs)
	return nil
}

// AssignTriageStaff 手动覆写分诊分配（仅接受头任务 ID）
func (g *Generator) AssignTriageStaff(headerID string, staffIDs []string, date time.Time) error {
	if g.snap.IsDateLocked(date) {
		return ErrMonthLocked
	}
	task := g.snap.TaskByID(headerID)
	if task == nil || task.Type != TypeHeader {
		return nil
	}
	dk := dateKey(date)
	if g.snap.Triage[dk] == nil {
		g.snap.Triage[dk] = make(map[string][]string)
	}
	g.snap.Triage[dk][headerID] = g.knownStaff(staffIDs)
	return nil
}

// knownStaff 过滤未知员工 ID 并去重，保持传入顺序
func (g *Generator) knownStaff(staffIDs []string) []string {
	seen := make(map[string]bool, len(staffIDs))
	result := make([]string, 0, len(staffIDs))
	for _, id := range staffIDs {
		if seen[id] || g.snap.StaffByID(id) == nil {
			continue
		}
		seen[id] = true
		result = append(result, id)
	}
	return result
}

// ════════════════════════════════════════════════════════════
// 只读汇总
// ════════════════════════════════════════════════════════════

// GetConflicts 返回最近一次扫描得到的有序冲突集合
func (g *Generator) GetConflicts() []Conflict {
	out := make([]Conflict, len(g.conflicts))
	copy(out, g.conflicts)
	return out
}

// GetWOHSummary 聚合当前快照的存量工单
func (g *Generator) GetWOHSummary() *WOHSummary {
	return g.snap.WOHSummary()
}

// PhoneFillStats 整周电话班表填充统计（响应 DTO 与指标上报用）
func (g *Generator) PhoneFillStats(weekStart time.Time) (filled, needed int) {
	for _, date := range weekDates(weekStart) {
		needed += g.cfg.PhonePerShift * 2
		if pr := g.snap.Phone[dateKey(date)]; pr != nil {
			filled += len(pr.Early) + len(pr.Late)
		}
	}
	return filled, needed
}

// [自证通过] internal/roster/generator.go
