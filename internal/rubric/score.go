package rubric

import (
	"fmt"
	"math"

	"talent-radar/internal/model"
)

// ScoreTemplate 按加权类别规则聚合一次面试打分。
// 每个类别先对细项得分取均值（未打分记 0），乘以类别权重后求和，
// 再除以总权重，保留一位小数。空类别均值为 0 而非跳过：
// 未完成的评估应当拉低总分。权重之和不为 100 返回校验错误。
func ScoreTemplate(tpl Template, scores map[string]int) (float64, error) {
	if got := tpl.TotalWeight(); got != 100 {
		return 0, fmt.Errorf("%w: template weights sum to %d, want 100", model.ErrValidation, got)
	}

	weightedSum := 0.0
	for _, cat := range tpl.Categories {
		avg := 0.0
		if len(cat.Criteria) > 0 {
			sum := 0
			for _, criterion := range cat.Criteria {
				sum += scores[criterion]
			}
			avg = float64(sum) / float64(len(cat.Criteria))
		}
		weightedSum += avg * float64(cat.Weight)
	}

	return round1(weightedSum / float64(tpl.TotalWeight())), nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
