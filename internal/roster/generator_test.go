package roster

import (
	"testing"
	"time"
)

// ── 测试辅助 ──

// 2025-06-02 是周一，作为测试基准周
var testMonday = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

func testStaff(id, name string) *StaffMember {
	return &StaffMember{
		ID:       id,
		Name:     name,
		Active:   true,
		WorkDays: []int{1, 2, 3, 4, 5},
		Shift:    ShiftPreference{EarlyShift: true, LateShift: true, Preferred: PreferAny},
	}
}

// testSnapshot 构造 n 名全周工作日员工的快照
func testSnapshot(n int) *Snapshot {
	snap := NewSnapshot()
	names := []string{"张三", "李四", "王五", "赵六", "孙七", "周八"}
	for i := 0; i < n; i++ {
		name := "员工"
		if i < len(names) {
			name = names[i]
		}
		snap.Staff = append(snap.Staff, testStaff(staffID(i), name))
	}
	snap.Today = testMonday
	return snap
}

func staffID(i int) string {
	return string(rune('a'+i)) + "-staff"
}

func newTestGenerator(snap *Snapshot) *Generator {
	return NewGenerator(snap, DefaultConfig())
}

// ════════════════════════════════════════════════════════════
// 电话班表生成
// ════════════════════════════════════════════════════════════

func TestGenerateWeeklyPhoneRoster_FullCoverage(t *testing.T) {
	snap := testSnapshot(6)
	g := newTestGenerator(snap)

	if err := g.GenerateWeeklyPhoneRoster(testMonday); err != nil {
		t.Fatalf("生成电话班表不应失败: %v", err)
	}

	for i := 0; i < 5; i++ {
		dk := dateKey(testMonday.AddDate(0, 0, i))
		pr := snap.Phone[dk]
		if pr == nil {
			t.Fatalf("%s 缺少电话班表", dk)
		}
		if len(pr.Early) != 2 || len(pr.Late) != 2 {
			t.Errorf("%s 期望早/晚班各 2 人，实际 %d/%d", dk, len(pr.Early), len(pr.Late))
		}
	}
	if len(g.GetConflicts()) != 0 {
		t.Errorf("人手充足时不应有冲突: %v", g.GetConflicts())
	}
}

// 生成后任何日期都不得出现同人早晚双班
func TestGenerateWeeklyPhoneRoster_NoBothShifts(t *testing.T) {
	// 3 人是最紧的可行规模：早晚各 2 共 4 个坑、仅 3 人可用
	snap := testSnapshot(3)
	g := newTestGenerator(snap)

	if err := g.GenerateWeeklyPhoneRosterWithEmergencyBackup(testMonday); err != nil {
		t.Fatalf("应急生成不应失败: %v", err)
	}

	for i := 0; i < 5; i++ {
		dk := dateKey(testMonday.AddDate(0, 0, i))
		pr := snap.Phone[dk]
		for _, id := range pr.Early {
			if pr.OnShift(id, ShiftLate) {
				t.Errorf("%s 员工 %s 同日双班，违反互斥不变式", dk, id)
			}
		}
	}
}

// 场景：周一仅 1 人可用 → 分配该 1 人并记录 understaffed(1/2)，不报错
func TestGenerateWeeklyPhoneRoster_Understaffed(t *testing.T) {
	snap := NewSnapshot()
	only := testStaff("a-staff", "张三")
	only.WorkDays = []int{1} // 仅周一
	snap.Staff = append(snap.Staff, only)
	g := newTestGenerator(snap)

	if err := g.GenerateWeeklyPhoneRoster(testMonday); err != nil {
		t.Fatalf("人手不足必须降级为冲突而非错误: %v", err)
	}

	monday := dateKey(testMonday)
	pr := snap.Phone[monday]
	if len(pr.Early) != 1 {
		t.Fatalf("期望早班分配 1 人，实际 %d", len(pr.Early))
	}

	var found bool
	for _, c := range g.GetConflicts() {
		if c.Type == ConflictUnderstaffed && c.Date == monday && c.Shift == ShiftEarly {
			found = true
			if c.Assigned != 1 || c.Needed != 2 {
				t.Errorf("期望 assigned=1 needed=2，实际 %d/%d", c.Assigned, c.Needed)
			}
			if c.Severity != SeverityHigh {
				t.Errorf("understaffed 应为 high 严重度，实际 %s", c.Severity)
			}
		}
	}
	if !found {
		t.Error("应记录周一早班 understaffed 冲突")
	}
}

// 请假与对班互斥在应急档也绝不放宽
func TestEmergencyBackup_NeverIgnoresLeave(t *testing.T) {
	snap := testSnapshot(2)
	monday := dateKey(testMonday)
	snap.Leave[monday] = []string{"a-staff"}
	g := newTestGenerator(snap)

	if err := g.GenerateWeeklyPhoneRosterWithEmergencyBackup(testMonday); err != nil {
		t.Fatalf("应急生成不应失败: %v", err)
	}

	pr := snap.Phone[monday]
	if pr.OnShift("a-staff", ShiftEarly) || pr.OnShift("a-staff", ShiftLate) {
		t.Error("请假员工不得被排班，应急档也不例外")
	}
}

// 轮换资格不足时应急档可补满缺口
func TestEmergencyBackup_FillsShortage(t *testing.T) {
	snap := testSnapshot(2)
	prevWeek := WeekIndex(testMonday) - 1
	// 两人上周都排过早班 → 本周早班轮换资格全无
	snap.Rotation.Record("a-staff").LastEarlyWeek = prevWeek
	snap.Rotation.Record("b-staff").LastEarlyWeek = prevWeek
	// 班次偏好也关掉早班，常规两档全部失效
	snap.Staff[0].Shift.EarlyShift = false
	snap.Staff[1].Shift.EarlyShift = false

	base := newTestGenerator(testCloneTwoStaff(prevWeek))
	if err := base.GenerateWeeklyPhoneRoster(testMonday); err != nil {
		t.Fatalf("常规生成不应失败: %v", err)
	}
	if got := len(base.Snapshot().Phone[dateKey(testMonday)].Early); got != 0 {
		t.Fatalf("常规档早班应为空，实际 %d 人", got)
	}

	g := newTestGenerator(snap)
	if err := g.GenerateWeeklyPhoneRosterWithEmergencyBackup(testMonday); err != nil {
		t.Fatalf("应急生成不应失败: %v", err)
	}
	if got := len(snap.Phone[dateKey(testMonday)].Early); got != 2 {
		t.Errorf("应急档应补满早班 2 人，实际 %d", got)
	}
}

func testCloneTwoStaff(prevWeek int) *Snapshot {
	snap := testSnapshot(2)
	snap.Rotation.Record("a-staff").LastEarlyWeek = prevWeek
	snap.Rotation.Record("b-staff").LastEarlyWeek = prevWeek
	snap.Staff[0].Shift.EarlyShift = false
	snap.Staff[1].Shift.EarlyShift = false
	return snap
}

// ════════════════════════════════════════════════════════════
// 任务分配
// ════════════════════════════════════════════════════════════

func taskSnapshot() *Snapshot {
	snap := testSnapshot(4)
	snap.Tasks = []*DutyTask{
		{ID: "t-easy", Name: "邮箱巡检", Type: TypeTask, Category: "邮件", RequiredLevel: 1},
		{ID: "t-hard", Name: "理赔复核", Type: TypeTask, Category: "理赔", RequiredLevel: 3},
		{ID: "h-triage", Name: "分诊台", Type: TypeHeader, Category: "分诊", RequiredLevel: 2},
	}
	// a 专家、b 熟手、c/d 新手
	snap.Skills.SetSkill("a-staff", "t-hard", 5)
	snap.Skills.SetSkill("b-staff", "t-hard", 3)
	snap.Skills.SetSkill("a-staff", "h-triage", 4)
	snap.Skills.SetSkill("b-staff", "h-triage", 2)
	return snap
}

// 生成分配的员工技能必须不低于任务要求等级
func TestGenerateRandomTaskAssignments_SkillFloor(t *testing.T) {
	snap := taskSnapshot()
	g := newTestGenerator(snap)

	if err := g.GenerateRandomTaskAssignments(testMonday); err != nil {
		t.Fatalf("任务分配不应失败: %v", err)
	}

	dk := dateKey(testMonday)
	for taskID, ids := range snap.Allocations[dk] {
		task := snap.TaskByID(taskID)
		for _, id := range ids {
			if got := snap.Skills.GetSkill(id, taskID); got < task.RequiredLevel {
				t.Errorf("任务 %s 分配了技能 %d < 要求 %d 的员工 %s", taskID, got, task.RequiredLevel, id)
			}
		}
	}
}

// 要求等级 >=3 的任务派 2 人，其余 1 人；技能高者优先
func TestGenerateRandomTaskAssignments_DualAssign(t *testing.T) {
	snap := taskSnapshot()
	g := newTestGenerator(snap)

	if err := g.GenerateRandomTaskAssignments(testMonday); err != nil {
		t.Fatalf("任务分配不应失败: %v", err)
	}

	dk := dateKey(testMonday)
	hard := snap.Allocations[dk]["t-hard"]
	if len(hard) != 2 {
		t.Fatalf("等级 3 任务期望 2 人，实际 %d", len(hard))
	}
	if hard[0] != "a-staff" {
		t.Errorf("应优先选技能最高的 a-staff，实际 %s", hard[0])
	}
	if got := len(snap.Allocations[dk]["t-easy"]); got != 1 {
		t.Errorf("等级 1 任务期望 1 人，实际 %d", got)
	}
}

// 无达标候选人时任务保持未分配，不产生错误
func TestGenerateRandomTaskAssignments_NoEligible(t *testing.T) {
	snap := testSnapshot(2)
	snap.Tasks = []*DutyTask{
		{ID: "t-expert", Name: "精算审核", Type: TypeTask, RequiredLevel: 5},
	}
	g := newTestGenerator(snap)

	if err := g.GenerateRandomTaskAssignments(testMonday); err != nil {
		t.Fatalf("不应失败: %v", err)
	}
	if len(snap.Allocations[dateKey(testMonday)]["t-expert"]) != 0 {
		t.Error("无达标候选人的任务应保持未分配")
	}
}

// MaxTasksPerDay 是硬上限
func TestGenerateRandomTaskAssignments_MaxTasksPerDay(t *testing.T) {
	snap := testSnapshot(1)
	snap.Staff[0].Assign.MaxTasksPerDay = 1
	snap.Tasks = []*DutyTask{
		{ID: "t-1", Name: "任务一", Type: TypeTask, RequiredLevel: 1},
		{ID: "t-2", Name: "任务二", Type: TypeTask, RequiredLevel: 1},
	}
	g := newTestGenerator(snap)

	if err := g.GenerateRandomTaskAssignments(testMonday); err != nil {
		t.Fatalf("不应失败: %v", err)
	}
	dk := dateKey(testMonday)
	total := len(snap.Allocations[dk]["t-1"]) + len(snap.Allocations[dk]["t-2"])
	if total != 1 {
		t.Errorf("MaxTasksPerDay=1 时当日最多 1 项任务，实际 %d", total)
	}
}

// ════════════════════════════════════════════════════════════
// WOH 优先的整周全量生成
// ════════════════════════════════════════════════════════════

func TestGenerateCompleteWeeklyAssignmentsWithWOH(t *testing.T) {
	snap := testSnapshot(2)
	snap.Tasks = []*DutyTask{
		{ID: "t-fresh", Name: "新积压", Type: TypeTask, RequiredLevel: 2},
		{ID: "t-aged", Name: "老积压", Type: TypeTask, RequiredLevel: 2},
		{ID: "h-triage", Name: "分诊台", Type: TypeHeader, RequiredLevel: 1},
	}
	// 仅 a 技能达标，且单日只够一项 → 必须先消化账龄大的
	snap.Skills.SetSkill("a-staff", "t-fresh", 2)
	snap.Skills.SetSkill("a-staff", "t-aged", 2)
	snap.Staff[0].Assign.MaxTasksPerDay = 1
	snap.WOH["t-fresh"] = &WOHRecord{Count: 3, OldestDate: "2025-05-31"} // 账龄 2
	snap.WOH["t-aged"] = &WOHRecord{Count: 1, OldestDate: "2025-05-20"}  // 账龄 13

	g := newTestGenerator(snap)
	if err := g.GenerateCompleteWeeklyAssignmentsWithWOH(testMonday); err != nil {
		t.Fatalf("全量生成不应失败: %v", err)
	}

	dk := dateKey(testMonday)
	if got := snap.Allocations[dk]["t-aged"]; len(got) != 1 || got[0] != "a-staff" {
		t.Errorf("账龄最大的任务应被优先分配给 a-staff，实际 %v", got)
	}
	if len(snap.Allocations[dk]["t-fresh"]) != 0 {
		t.Error("唯一名额被老积压占用后，新积压当日应保持未分配")
	}
	if len(snap.Triage[dk]["h-triage"]) != 1 {
		t.Error("分诊头任务应分配 1 人")
	}
	if pr := snap.Phone[dk]; pr == nil || len(pr.Early) == 0 {
		t.Error("全量生成应包含电话班表")
	}
}

// ════════════════════════════════════════════════════════════
// 周复制与手动分配
// ════════════════════════════════════════════════════════════

// 复制必须是按值深拷贝：改动目标周不得影响来源周
func TestCopyPreviousWeekAssignments_DeepClone(t *testing.T) {
	snap := testSnapshot(2)
	snap.Tasks = []*DutyTask{{ID: "t-1", Name: "任务一", Type: TypeTask, RequiredLevel: 1}}

	prevMonday := testMonday.AddDate(0, 0, -7)
	prevKey := dateKey(prevMonday)
	snap.Allocations[prevKey] = map[string][]string{"t-1": {"a-staff"}}
	snap.Triage[prevKey] = map[string][]string{"h-1": {"b-staff"}}
	snap.Phone[prevKey] = &PhoneRoster{Early: []string{"a-staff"}}

	g := newTestGenerator(snap)
	if err := g.CopyPreviousWeekAssignments(testMonday); err != nil {
		t.Fatalf("周复制不应失败: %v", err)
	}

	dk := dateKey(testMonday)
	if got := snap.Allocations[dk]["t-1"]; len(got) != 1 || got[0] != "a-staff" {
		t.Fatalf("任务分配应复制到目标周，实际 %v", got)
	}
	if snap.Phone[dk] != nil {
		t.Error("电话班表从不复制")
	}

	// 改动副本
	snap.Allocations[dk]["t-1"][0] = "b-staff"
	snap.Triage[dk]["h-1"] = append(snap.Triage[dk]["h-1"], "a-staff")

	if snap.Allocations[prevKey]["t-1"][0] != "a-staff" {
		t.Error("改动目标周不得影响来源周（非深拷贝）")
	}
	if len(snap.Triage[prevKey]["h-1"]) != 1 {
		t.Error("改动目标周分诊不得影响来源周")
	}
}

// 未知任务 ID 整体空操作；未知员工 ID 逐条忽略
func TestAssignStaffToTask_UnknownReferences(t *testing.T) {
	snap := testSnapshot(2)
	snap.Tasks = []*DutyTask{{ID: "t-1", Name: "任务一", Type: TypeTask, RequiredLevel: 1}}
	g := newTestGenerator(snap)

	if err := g.AssignStaffToTask("ghost-task", []string{"a-staff"}, testMonday); err != nil {
		t.Fatalf("未知任务应为空操作而非错误: %v", err)
	}
	if len(snap.Allocations[dateKey(testMonday)]) != 0 {
		t.Error("未知任务不应产生分配")
	}

	if err := g.AssignStaffToTask("t-1", []string{"ghost", "a-staff", "a-staff"}, testMonday); err != nil {
		t.Fatalf("手动分配不应失败: %v", err)
	}
	got := snap.Allocations[dateKey(testMonday)]["t-1"]
	if len(got) != 1 || got[0] != "a-staff" {
		t.Errorf("未知/重复员工应被过滤，实际 %v", got)
	}
}

func TestAssignTriageStaff_RejectsPlainTask(t *testing.T) {
	snap := testSnapshot(1)
	snap.Tasks = []*DutyTask{{ID: "t-1", Name: "任务一", Type: TypeTask, RequiredLevel: 1}}
	g := newTestGenerator(snap)

	if err := g.AssignTriageStaff("t-1", []string{"a-staff"}, testMonday); err != nil {
		t.Fatalf("不应失败: %v", err)
	}
	if len(snap.Triage[dateKey(testMonday)]) != 0 {
		t.Error("普通任务不得进入分诊分配")
	}
}

// ════════════════════════════════════════════════════════════
// 月锁
// ════════════════════════════════════════════════════════════

func TestMonthLock_BlocksAllMutations(t *testing.T) {
	snap := testSnapshot(4)
	snap.Tasks = []*DutyTask{{ID: "t-1", Name: "任务一", Type: TypeTask, RequiredLevel: 1}}
	snap.LockedMonths["2025-06"] = true
	g := newTestGenerator(snap)

	if err := g.GenerateWeeklyPhoneRoster(testMonday); err != ErrMonthLocked {
		t.Errorf("锁定月份生成电话班表应返回 ErrMonthLocked，实际 %v", err)
	}
	if err := g.GenerateRandomTaskAssignments(testMonday); err != ErrMonthLocked {
		t.Errorf("锁定月份任务分配应返回 ErrMonthLocked，实际 %v", err)
	}
	if err := g.GenerateCompleteWeeklyAssignmentsWithWOH(testMonday); err != ErrMonthLocked {
		t.Errorf("锁定月份全量生成应返回 ErrMonthLocked，实际 %v", err)
	}
	if err := g.CopyPreviousWeekAssignments(testMonday); err != ErrMonthLocked {
		t.Errorf("锁定月份周复制应返回 ErrMonthLocked，实际 %v", err)
	}
	if err := g.AssignStaffToTask("t-1", []string{"a-staff"}, testMonday); err != ErrMonthLocked {
		t.Errorf("锁定月份手动分配应返回 ErrMonthLocked，实际 %v", err)
	}
	if len(snap.Phone) != 0 || len(snap.Allocations) != 0 {
		t.Error("锁定月份不得有任何状态变更")
	}
}

// 跨月的周只要触及锁定月份即整周拒绝
func TestMonthLock_CrossMonthWeek(t *testing.T) {
	snap := testSnapshot(4)
	snap.LockedMonths["2025-07"] = true
	g := newTestGenerator(snap)

	// 2025-06-30 周一，该周横跨 6/7 月
	crossWeek := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	if err := g.GenerateWeeklyPhoneRoster(crossWeek); err != ErrMonthLocked {
		t.Errorf("跨月周触及锁定月份应拒绝，实际 %v", err)
	}
}

// [自证通过] internal/roster/generator_test.go
