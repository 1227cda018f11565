package model

import "time"

// NegotiationStatus 表示谈判主状态，Accepted/Rejected 为终态。
type NegotiationStatus string

const (
	NegotiationOfferSent     NegotiationStatus = "Offer Sent"
	NegotiationInNegotiation NegotiationStatus = "In Negotiation"
	NegotiationAccepted      NegotiationStatus = "Accepted"
	NegotiationRejected      NegotiationStatus = "Rejected"
)

// Terminal 判断状态是否为终态。
func (s NegotiationStatus) Terminal() bool {
	return s == NegotiationAccepted || s == NegotiationRejected
}

// ApprovalStatus 表示与主状态正交的审批子状态。
type ApprovalStatus string

const (
	ApprovalNotRequired ApprovalStatus = "Not Required"
	ApprovalPending     ApprovalStatus = "Pending"
	ApprovalApproved    ApprovalStatus = "Approved"
	ApprovalRejected    ApprovalStatus = "Rejected"
)

// CompPackage 表示一份薪酬包。Total 只计 base+bonus+equity，福利不参与差额。
type CompPackage struct {
	BaseSalary int    `json:"base_salary"`
	Bonus      int    `json:"bonus"`
	Equity     int    `json:"equity"`
	Benefits   string `json:"benefits"`
}

// Total 返回总包金额。
func (p CompPackage) Total() int {
	return p.BaseSalary + p.Bonus + p.Equity
}

// NegotiationNote 表示一条审计日志，只追加、不修改、不删除。
type NegotiationNote struct {
	ID     string    `json:"id"`
	At     time.Time `json:"at"`
	Author string    `json:"author"`
	Text   string    `json:"text"`
}

// NegotiationTimeline 记录关键事件日期。
type NegotiationTimeline struct {
	OfferSentAt       *time.Time `json:"offer_sent_at"`
	CounterReceivedAt *time.Time `json:"counter_received_at"`
	ClosedAt          *time.Time `json:"closed_at"`
}

// Negotiation 表示一条 Offer 谈判记录
// BudgetVariance 始终由 (counter 或 final 总包) - (initial 总包) 重算，
// 不允许独立于输入单独存储。
type Negotiation struct {
	ID          string            `gorm:"primaryKey" json:"id"`
	CandidateID string            `gorm:"index" json:"candidate_id"`
	Status      NegotiationStatus `json:"status"`

	InitialOffer CompPackage  `gorm:"serializer:json" json:"initial_offer"`
	CounterOffer *CompPackage `gorm:"serializer:json" json:"counter_offer"`
	FinalOffer   *CompPackage `gorm:"serializer:json" json:"final_offer"`

	ApprovalStatus ApprovalStatus `json:"approval_status"`
	BudgetVariance int            `json:"budget_variance"`

	Notes    []NegotiationNote   `gorm:"serializer:json" json:"notes"`
	Timeline NegotiationTimeline `gorm:"serializer:json" json:"timeline"`

	TimeToAcceptanceDays int `json:"time_to_acceptance_days"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
