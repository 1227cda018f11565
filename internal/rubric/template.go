package rubric

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Category 表示评分卡中的一个类别及其权重与细项。
type Category struct {
	Name     string   `yaml:"name" json:"name"`
	Weight   int      `yaml:"weight" json:"weight"`
	Criteria []string `yaml:"criteria" json:"criteria"`
}

// Template 表示一个岗位的面试评分卡。
// 静态配置，运行期不修改；各类别权重之和应为 100，
// 该约束在聚合时校验而非存储时强制。
type Template struct {
	Role         string         `yaml:"role" json:"role"`
	Department   string         `yaml:"department" json:"department"`
	Categories   []Category     `yaml:"categories" json:"categories"`
	ScoringGuide map[int]string `yaml:"scoring_guide" json:"scoring_guide"`
}

// TotalWeight 返回全部类别权重之和。
func (t Template) TotalWeight() int {
	total := 0
	for _, cat := range t.Categories {
		total += cat.Weight
	}
	return total
}

// LoadTemplates 从 YAML 文件读取评分卡配置。
func LoadTemplates(path string) ([]Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read templates: %w", err)
	}
	var wrapper struct {
		Templates []Template `yaml:"templates"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return wrapper.Templates, nil
}

// DefaultTemplates 返回内置评分卡，配置文件缺失时使用。
func DefaultTemplates() []Template {
	guide := map[int]string{
		1: "Well below the bar",
		2: "Below the bar",
		3: "Meets the bar",
		4: "Above the bar",
		5: "Exceptional",
	}
	return []Template{
		{
			Role:       "Software Engineer",
			Department: "Engineering",
			Categories: []Category{
				{Name: "Technical Depth", Weight: 40, Criteria: []string{"Algorithms", "System design", "Code quality"}},
				{Name: "Problem Solving", Weight: 25, Criteria: []string{"Decomposition", "Tradeoff analysis"}},
				{Name: "Communication", Weight: 20, Criteria: []string{"Clarity", "Listening"}},
				{Name: "Culture Fit", Weight: 15, Criteria: []string{"Collaboration", "Ownership"}},
			},
			ScoringGuide: guide,
		},
		{
			Role:       "Product Manager",
			Department: "Product",
			Categories: []Category{
				{Name: "Product Sense", Weight: 35, Criteria: []string{"User empathy", "Prioritization"}},
				{Name: "Execution", Weight: 30, Criteria: []string{"Delivery track record", "Stakeholder management"}},
				{Name: "Analytical", Weight: 20, Criteria: []string{"Metrics fluency", "Experiment design"}},
				{Name: "Culture Fit", Weight: 15, Criteria: []string{"Collaboration", "Ownership"}},
			},
			ScoringGuide: guide,
		},
	}
}
