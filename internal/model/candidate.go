package model

import (
	"time"
)

// Stage 表示候选人所处的招聘阶段，取值固定且有序。
type Stage string

const (
	StageSourcing  Stage = "Sourcing"
	StageScreening Stage = "Screening"
	StageInterview Stage = "Interview"
	StageOffer     Stage = "Offer"
	StageHired     Stage = "Hired"
	StageRejected  Stage = "Rejected"
)

// Stages 按流程顺序列出全部阶段，供前端筛选与校验使用。
var Stages = []Stage{StageSourcing, StageScreening, StageInterview, StageOffer, StageHired, StageRejected}

// SourceType 表示候选人来源渠道类型。
type SourceType string

const (
	SourceReferral SourceType = "Referral"
	SourceInbound  SourceType = "Inbound"
	SourceOutbound SourceType = "Outbound"
	SourceAgency   SourceType = "Agency"
	SourceEvent    SourceType = "Event"
)

// SourceTypes 列出全部来源类型。
var SourceTypes = []SourceType{SourceReferral, SourceInbound, SourceOutbound, SourceAgency, SourceEvent}

// RiskLevel 表示二档风险评级。
type RiskLevel string

const (
	RiskHigh RiskLevel = "High"
	RiskLow  RiskLevel = "Low"
)

// Candidate 表示一个候选人档案
// 字段约定：
// - ID/Name: 必填身份字段，缺失时富化返回校验错误
// - 打分字段取值 [0,100]，0 视为未设置，由富化补全
// - InterviewScores/OfferIntelligence/RecruiterContext: 嵌套子记录，
//   要么整体存在要么为 nil，由富化整体合成，不允许半填充
// - RejectionDate/RejectionReason: 当且仅当 Stage 为 Rejected 时非空
// - CreatedAt/UpdatedAt: 由 GORM 自动维护

type Candidate struct {
	ID       string `gorm:"primaryKey" json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Location string `json:"location"`
	Stage    Stage  `json:"stage"`

	TenureMonths int      `json:"tenure_months"`
	Tags         []string `gorm:"serializer:json" json:"tags"`

	MatchScore        int `json:"match_score"`
	AvailabilityScore int `json:"availability_score"`
	EngagementLevel   int `json:"engagement_level"`
	SentimentScore    int `json:"sentiment_score"`

	IsSilverMedalist bool `json:"is_silver_medalist"`
	IsBoomerang      bool `json:"is_boomerang"`
	IsVIP            bool `json:"is_vip"`
	IsHotLead        bool `json:"is_hot_lead"`

	SourceType    SourceType `json:"source_type"`
	SourceChannel string     `json:"source_channel"`

	RejectionDate   *time.Time `json:"rejection_date"`
	RejectionReason string     `json:"rejection_reason"`

	InterviewScores   *InterviewScores   `gorm:"serializer:json" json:"interview_scores"`
	OfferIntelligence *OfferIntelligence `gorm:"serializer:json" json:"offer_intelligence"`
	RecruiterContext  *RecruiterContext  `gorm:"serializer:json" json:"recruiter_context"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InterviewScores 固定四个维度，取值 1-5。
type InterviewScores struct {
	TechnicalSkills int `json:"technical_skills"`
	Communication   int `json:"communication"`
	CultureFit      int `json:"culture_fit"`
	ProblemSolving  int `json:"problem_solving"`
}

// OfferIntelligence 描述 Offer 阶段的决策辅助信息。
type OfferIntelligence struct {
	CompAlignmentScore int       `json:"comp_alignment_score"`
	CounterOfferRisk   RiskLevel `json:"counter_offer_risk"`
	WarmingStatus      string    `json:"warming_status"`
	ReferencesChecked  bool      `json:"references_checked"`
	CompApproved       bool      `json:"comp_approved"`
	StartDateAligned   bool      `json:"start_date_aligned"`
}

// RecruiterContext 描述招聘顾问视角的风险标记与触达历史。
type RecruiterContext struct {
	CompMismatch    bool            `json:"comp_mismatch"`
	NoticeRisk      RiskLevel       `json:"notice_risk"`
	OfferRisk       RiskLevel       `json:"offer_risk"`
	MarketSalaryMin int             `json:"market_salary_min"`
	MarketSalaryMax int             `json:"market_salary_max"`
	Outreach        []OutreachEvent `json:"outreach"`
}

// OutreachEvent 表示一次触达记录，按时间顺序追加。
type OutreachEvent struct {
	At      time.Time `json:"at"`
	Channel string    `json:"channel"`
	Note    string    `json:"note"`
}
