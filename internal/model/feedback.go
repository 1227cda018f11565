package model

import "time"

// Recommendation 表示面试官的录用建议。
type Recommendation string

const (
	RecommendHire    Recommendation = "hire"
	RecommendReject  Recommendation = "reject"
	RecommendPending Recommendation = "pending"
)

// InterviewFeedback 表示一轮面试反馈，提交后不可修改、不可删除。
// CandidateID 仅为外部引用，反馈记录由反馈存储自身持有。
// OverallRating 在提交时由各叶子指标均值推导。
type InterviewFeedback struct {
	ID              string         `gorm:"primaryKey" json:"id"`
	CandidateID     string         `gorm:"index" json:"candidate_id"`
	Interviewer     string         `json:"interviewer"`
	TechnicalSkills map[string]int `gorm:"serializer:json" json:"technical_skills"`
	SoftSkills      map[string]int `gorm:"serializer:json" json:"soft_skills"`
	CultureFit      int            `json:"culture_fit"`
	OverallRating   float64        `json:"overall_rating"`
	Recommendation  Recommendation `json:"recommendation"`
	Notes           string         `json:"notes"`
	CreatedAt       time.Time      `json:"created_at"`
}
