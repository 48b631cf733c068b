package roster

import (
	"sort"
	"time"
)

// ── 存量工单 (WOH) 与 SLA ──
//
// 每个任务记录待处理工单数量与最老工单日期，按账龄换算 SLA 状态，
// 用于在批量生成时优先把稀缺的熟练员工投入最紧迫的积压任务。

// SLADays SLA 处理时限（天）
const SLADays = 14

// SLAStatus SLA 状态
type SLAStatus string

const (
	SLACompliant  SLAStatus = "COMPLIANT"  // 账龄 < 5
	SLAMonitoring SLAStatus = "MONITORING" // 5-7
	SLAWarning    SLAStatus = "WARNING"    // 8-10
	SLACritical   SLAStatus = "CRITICAL"   // 11-13
	SLABreached   SLAStatus = "BREACHED"   // >= 14
)

// slaSeverity 状态严重度（汇总排序用，越大越严重）
var slaSeverity = map[SLAStatus]int{
	SLACompliant:  0,
	SLAMonitoring: 1,
	SLAWarning:    2,
	SLACritical:   3,
	SLABreached:   4,
}

// WOHRecord 单个任务的存量工单记录
type WOHRecord struct {
	Count      int
	OldestDate string // "2006-01-02"；空 = 无积压
}

// AgeInDays 最老工单账龄（整天向下取整）；无积压或日期非法返回 0
func (r *WOHRecord) AgeInDays(today time.Time) int {
	if r == nil || r.Count <= 0 || r.OldestDate == "" {
		return 0
	}
	oldest, ok := ParseDate(r.OldestDate)
	if !ok {
		return 0
	}
	age := int(today.Sub(oldest).Hours() / 24)
	if age < 0 {
		return 0
	}
	return age
}

// StatusForAge 按账龄换算 SLA 状态
func StatusForAge(age int) SLAStatus {
	switch {
	case age < 5:
		return SLACompliant
	case age <= 7:
		return SLAMonitoring
	case age <= 10:
		return SLAWarning
	case age <= 13:
		return SLACritical
	default:
		return SLABreached
	}
}

// DaysToSLA 距 SLA 到期剩余天数（已到期为 0）
func DaysToSLA(age int) int {
	if age >= SLADays {
		return 0
	}
	return SLADays - age
}

// DaysOverSLA 超出 SLA 的天数（未到期为 0）
func DaysOverSLA(age int) int {
	if age <= SLADays {
		return 0
	}
	return age - SLADays
}

// ── 汇总 ──

// WOHItem 汇总明细行
type WOHItem struct {
	TaskID     string    `json:"task_id"`
	TaskName   string    `json:"task_name"`
	Count      int       `json:"count"`
	OldestDate string    `json:"oldest_date"`
	AgeInDays  int       `json:"age_in_days"`
	Status     SLAStatus `json:"status"`
	DaysToSLA  int       `json:"days_to_sla"`
	DaysOver   int       `json:"days_over_sla"`
}

// WOHSummary 全量汇总：按状态计数、最老单项、按（严重度降序, 账龄降序）排序的明细
type WOHSummary struct {
	StatusCounts map[SLAStatus]int `json:"status_counts"`
	TotalPending int               `json:"total_pending"`
	Oldest       *WOHItem          `json:"oldest,omitempty"`
	Breakdown    []WOHItem         `json:"breakdown"`
}

// WOHSummary 聚合当前快照的全部 WOH 记录
func (sn *Snapshot) WOHSummary() *WOHSummary {
	today := sn.today()
	summary := &WOHSummary{
		StatusCounts: make(map[SLAStatus]int),
	}

	for _, task := range sn.Tasks {
		rec, ok := sn.WOH[task.ID]
		if !ok || rec == nil || rec.Count <= 0 {
			continue
		}
		age := rec.AgeInDays(today)
		status := StatusForAge(age)
		item := WOHItem{
			TaskID:     task.ID,
			TaskName:   task.Name,
			Count:      rec.Count,
			OldestDate: rec.OldestDate,
			AgeInDays:  age,
			Status:     status,
			DaysToSLA:  DaysToSLA(age),
			DaysOver:   DaysOverSLA(age),
		}
		summary.StatusCounts[status]++
		summary.TotalPending += rec.Count
		summary.Breakdown = append(summary.Breakdown, item)
	}

	sort.SliceStable(summary.Breakdown, func(i, j int) bool {
		si := slaSeverity[summary.Breakdown[i].Status]
		sj := slaSeverity[summary.Breakdown[j].Status]
		if si != sj {
			return si > sj
		}
		return summary.Breakdown[i].AgeInDays > summary.Breakdown[j].AgeInDays
	})

	for i := range summary.Breakdown {
		item := summary.Breakdown[i]
		if summary.Oldest == nil || item.AgeInDays > summary.Oldest.AgeInDays {
			summary.Oldest = &summary.Breakdown[i]
		}
	}

	return summary
}

// wohAge 任务的 WOH 账龄（无记录视为 0，用于任务排序）
func (sn *Snapshot) wohAge(taskID string) int {
	return sn.WOH[taskID].AgeInDays(sn.today())
}

// [自证通过] internal/roster/woh.go
