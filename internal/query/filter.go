package query

import (
	"strings"
	"time"

	"talent-radar/internal/model"
)

// revisitCoolOffDays 拒绝后可重新触达的冷却天数，满 90 天（含）即可。
const revisitCoolOffDays = 90

// FilterAll 表示该维度不做约束的哨兵值。
const FilterAll = "All"

// Filter 描述一组各自可选的筛选条件，激活的条件之间为 AND 关系。
// 零值（或 FilterAll）表示该维度不做约束。
type Filter struct {
	Location        string   `json:"location"`
	Role            string   `json:"role"`
	MinAvailability int      `json:"min_availability"`
	MinTenure       int      `json:"min_tenure"`
	Tags            []string `json:"tags"`
	Query           string   `json:"query"`
	SilverMedalist  bool     `json:"silver_medalist"`
	ReadyForRevisit bool     `json:"ready_for_revisit"`
	SourceType      string   `json:"source_type"`
}

// Engine 对内存中的候选人集合求值筛选条件。
// 纯读操作，保持输入顺序（稳定过滤，不排序）。
type Engine struct {
	now func() time.Time
}

// NewEngine 创建筛选引擎。
func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// Apply 返回满足全部激活条件的候选人，顺序与输入一致。
// 空筛选对象原样返回输入列表。
func (e *Engine) Apply(candidates []model.Candidate, f Filter) []model.Candidate {
	out := make([]model.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if e.matches(c, f) {
			out = append(out, c)
		}
	}
	return out
}

// matches 依序求值各条件，廉价条件在前以便短路。
func (e *Engine) matches(c model.Candidate, f Filter) bool {
	if active(f.Location) && !containsFold(c.Location, f.Location) {
		return false
	}
	if f.Role != "" && !containsFold(c.Role, f.Role) {
		return false
	}
	if f.MinAvailability > 0 && c.AvailabilityScore < f.MinAvailability {
		return false
	}
	if f.MinTenure > 0 && c.TenureMonths < f.MinTenure {
		return false
	}
	if len(f.Tags) > 0 {
		// 已知妥协：标签在 role+name 文本上做子串匹配，见 DESIGN.md。
		blob := strings.ToLower(c.Role + " " + c.Name)
		for _, tag := range f.Tags {
			if tag == "" {
				continue
			}
			if !strings.Contains(blob, strings.ToLower(tag)) {
				return false
			}
		}
	}
	if f.Query != "" && !matchesFreeText(c, f.Query) {
		return false
	}
	if f.SilverMedalist && !c.IsSilverMedalist {
		return false
	}
	if f.ReadyForRevisit && !e.readyForRevisit(c) {
		return false
	}
	if active(f.SourceType) && string(c.SourceType) != f.SourceType {
		return false
	}
	return true
}

// readyForRevisit 判断候选人被拒满 90 天（含边界当天）。
func (e *Engine) readyForRevisit(c model.Candidate) bool {
	if c.RejectionDate == nil {
		return false
	}
	elapsed := e.now().Sub(*c.RejectionDate)
	return elapsed >= revisitCoolOffDays*24*time.Hour
}

func matchesFreeText(c model.Candidate, text string) bool {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return true
	}
	for _, field := range []string{c.Name, c.Role, c.Location, c.Email} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	for _, tag := range c.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func active(value string) bool {
	return value != "" && value != FilterAll
}
