package dedup

import (
	"strings"

	"talent-radar/internal/model"
)

// Match 表示一对疑似重复的候选人记录。
type Match struct {
	Confidence int             `json:"confidence"`
	Primary    model.Candidate `json:"primary"`
	Secondary  model.Candidate `json:"secondary"`
	Reason     string          `json:"reason"`
}

// Scan 单趟扫描候选人集合，按归一化邮箱找出完全重复。
// 同一邮箱的首见记录为 primary，之后每条命中各产生一对结果；
// 邮箱为空的记录不参与比对。刻意只做精确匹配，模糊姓名比对留作扩展。
func Scan(candidates []model.Candidate) []Match {
	seen := make(map[string]model.Candidate)
	var matches []Match
	for _, c := range candidates {
		email := strings.ToLower(strings.TrimSpace(c.Email))
		if email == "" {
			continue
		}
		if first, ok := seen[email]; ok {
			matches = append(matches, Match{
				Confidence: 100,
				Primary:    first,
				Secondary:  c,
				Reason:     "Exact Email Match",
			})
			continue
		}
		seen[email] = c
	}
	return matches
}
