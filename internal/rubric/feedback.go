package rubric

import (
	"fmt"
	"sort"
	"strings"

	"talent-radar/internal/model"
)

// focusThreshold 以下的平均分触发对应的成长项。
const focusThreshold = 3.5

// FeedbackAverage 是多轮反馈的逐项无加权均值，全部保留一位小数。
type FeedbackAverage struct {
	TechnicalSkills map[string]float64 `json:"technical_skills"`
	SoftSkills      map[string]float64 `json:"soft_skills"`
	CultureFit      float64            `json:"culture_fit"`
	Overall         float64            `json:"overall"`
	Rounds          int                `json:"rounds"`
}

// AverageFeedback 对每个叶子指标独立求均值，不按时间加权。
// 零条反馈返回 nil（定义良好的"无数据"结果），不会除零。
// 某条反馈缺失的指标不计入该指标的分母。
func AverageFeedback(items []model.InterviewFeedback) *FeedbackAverage {
	if len(items) == 0 {
		return nil
	}

	avg := &FeedbackAverage{
		TechnicalSkills: averageMaps(items, func(fb model.InterviewFeedback) map[string]int { return fb.TechnicalSkills }),
		SoftSkills:      averageMaps(items, func(fb model.InterviewFeedback) map[string]int { return fb.SoftSkills }),
		Rounds:          len(items),
	}

	cultureSum, overallSum := 0.0, 0.0
	for _, fb := range items {
		cultureSum += float64(fb.CultureFit)
		overallSum += fb.OverallRating
	}
	avg.CultureFit = round1(cultureSum / float64(len(items)))
	avg.Overall = round1(overallSum / float64(len(items)))
	return avg
}

func averageMaps(items []model.InterviewFeedback, pick func(model.InterviewFeedback) map[string]int) map[string]float64 {
	sums := make(map[string]int)
	counts := make(map[string]int)
	for _, fb := range items {
		for metric, score := range pick(fb) {
			sums[metric] += score
			counts[metric]++
		}
	}
	out := make(map[string]float64, len(sums))
	for metric, sum := range sums {
		out[metric] = round1(float64(sum) / float64(counts[metric]))
	}
	return out
}

// OverallRating 在提交时由全部叶子指标推导整体评分，一位小数。
func OverallRating(fb model.InterviewFeedback) float64 {
	sum, count := 0, 0
	for _, score := range fb.TechnicalSkills {
		sum += score
		count++
	}
	for _, score := range fb.SoftSkills {
		sum += score
		count++
	}
	if fb.CultureFit > 0 {
		sum += fb.CultureFit
		count++
	}
	if count == 0 {
		return 0
	}
	return round1(float64(sum) / float64(count))
}

// PlanItem 表示一个成长重点及建议动作。
type PlanItem struct {
	Metric string  `json:"metric"`
	Score  float64 `json:"score"`
	Action string  `json:"action"`
}

// Plan 是入职后的个性化成长计划。
type Plan struct {
	CandidateID string     `json:"candidate_id"`
	FocusAreas  []PlanItem `json:"focus_areas"`
}

// trainingModules 固定规则表：指标 → 训练模块。
// 不在表内的指标落到导师结对。
var trainingModules = map[string]string{
	"algorithms":    "Algorithms and data structures deep-dive",
	"system design": "System design workshop series",
	"code quality":  "Code review shadowing program",
	"communication": "Structured communication coaching",
	"leadership":    "Emerging leaders mentorship track",
	"culture fit":   "Team onboarding buddy program",
}

// OnboardingPlan 由均值反馈推导成长计划。
// 规则表是确定性的：所有低于阈值的指标全部触发，互不排斥。
// 没有任何反馈时返回固定的默认计划。
func OnboardingPlan(candidateID string, avg *FeedbackAverage) Plan {
	plan := Plan{CandidateID: candidateID}
	if avg == nil {
		plan.FocusAreas = []PlanItem{
			{Metric: "general", Action: "Standard new-hire onboarding track"},
			{Metric: "team", Action: "Team onboarding buddy program"},
		}
		return plan
	}

	addFocus := func(metric string, score float64) {
		if score >= focusThreshold {
			return
		}
		action, ok := trainingModules[normalizeMetric(metric)]
		if !ok {
			action = fmt.Sprintf("Mentorship pairing for %s", metric)
		}
		plan.FocusAreas = append(plan.FocusAreas, PlanItem{Metric: metric, Score: score, Action: action})
	}

	for _, metric := range sortedKeys(avg.TechnicalSkills) {
		addFocus(metric, avg.TechnicalSkills[metric])
	}
	for _, metric := range sortedKeys(avg.SoftSkills) {
		addFocus(metric, avg.SoftSkills[metric])
	}
	addFocus("culture fit", avg.CultureFit)
	return plan
}

func normalizeMetric(metric string) string {
	return strings.ToLower(strings.TrimSpace(metric))
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
