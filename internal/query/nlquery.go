package query

import "strings"

// Interpretation 是自然语言查询的结构化解读结果。
// Summary 为展示给用户的解读文案，由命中的字段拼装。
type Interpretation struct {
	Seniority string   `json:"seniority"`
	Role      string   `json:"role"`
	Location  string   `json:"location"`
	Skills    []string `json:"skills"`
	Summary   string   `json:"ai_interpretation"`
}

// skillKeywords 按固定优先级排列，命中顺序即输出顺序。
var skillKeywords = []struct {
	keyword string
	skill   string
}{
	{"react", "React"},
	{"python", "Python"},
	{"node", "Node.js"},
	{"aws", "AWS"},
}

// ParseQuery 从自由文本提取结构化线索（关键词识别，非真正的 NLP）。
// 纯函数：同一输入恒得同一输出，不做任何副作用；
// 是否及如何并入当前筛选由调用方决定。
func ParseQuery(text string) Interpretation {
	lower := strings.ToLower(text)
	var out Interpretation

	if strings.Contains(lower, "senior") {
		out.Seniority = "Senior"
	}
	if strings.Contains(lower, "dev") || strings.Contains(lower, "engineer") {
		out.Role = "Engineer"
	}
	if strings.Contains(lower, "sf") || strings.Contains(lower, "san francisco") {
		out.Location = "San Francisco, CA"
	}
	for _, entry := range skillKeywords {
		if strings.Contains(lower, entry.keyword) {
			out.Skills = append(out.Skills, entry.skill)
		}
	}

	out.Summary = summarize(out)
	return out
}

func summarize(in Interpretation) string {
	var parts []string
	if in.Seniority != "" {
		parts = append(parts, in.Seniority+" level")
	}
	if in.Role != "" {
		parts = append(parts, in.Role+" roles")
	}
	if in.Location != "" {
		parts = append(parts, "in "+in.Location)
	}
	if len(in.Skills) > 0 {
		parts = append(parts, "with "+strings.Join(in.Skills, ", "))
	}
	if len(parts) == 0 {
		return "No structured hints detected in query"
	}
	return "Searching for " + strings.Join(parts, " ")
}
