package enrich

import (
	"fmt"
	"time"

	"talent-radar/internal/model"
)

// Enricher 将原始候选人补全为展示就绪的档案。
// 已有字段一律保留，缺失字段由注入的 Defaults 合成，
// 因此对已富化输入幂等：已定字段不会被重掷。
type Enricher struct {
	defaults Defaults
	signals  SignalSource
	now      func() time.Time
}

// New 创建 Enricher。
func New(defaults Defaults) *Enricher {
	return &Enricher{
		defaults: defaults,
		signals:  ActivitySignals{},
		now:      time.Now,
	}
}

var (
	sourceChannels = []string{"LinkedIn", "Employee referral", "Careers page", "Conference booth", "Agency shortlist"}
	warmingStates  = []string{"Cold", "Warming", "Warm", "Committed"}
	rejectReasons  = []string{
		"Stronger candidate selected",
		"Compensation expectations misaligned",
		"Role requirements changed",
		"Withdrew from process",
	}
	outreachChannels = []string{"email", "phone", "linkedin"}
)

// Enrich 返回补全后的新候选人，不修改输入。
// 唯一失败场景：缺失 ID 或 Name 时返回 ErrValidation。
func (e *Enricher) Enrich(c model.Candidate) (model.Candidate, error) {
	if c.ID == "" || c.Name == "" {
		return model.Candidate{}, fmt.Errorf("%w: candidate requires id and name", model.ErrValidation)
	}

	out := c
	out.Tags = append([]string(nil), c.Tags...)

	if out.Stage == "" {
		out.Stage = model.StageSourcing
	}
	if out.TenureMonths == 0 {
		out.TenureMonths = e.defaults.IntBetween(3, 72)
	}
	if out.MatchScore == 0 {
		out.MatchScore = e.defaults.IntBetween(40, 95)
	}
	if out.EngagementLevel == 0 {
		out.EngagementLevel = e.defaults.IntBetween(20, 90)
	}
	if out.SentimentScore == 0 {
		out.SentimentScore = e.defaults.IntBetween(30, 95)
	}
	// 跳槽意愿分基于任期与信号计算而非随机，需在上面的信号输入就绪后再算。
	if out.AvailabilityScore == 0 {
		out.AvailabilityScore = e.ScoreAvailability(out)
	}

	if out.SourceType == "" {
		out.SourceType = model.SourceTypes[e.defaults.IntBetween(0, len(model.SourceTypes)-1)]
	}
	if out.SourceChannel == "" {
		out.SourceChannel = e.defaults.Pick(sourceChannels)
	}

	// 拒绝字段当且仅当处于 Rejected 阶段存在，其他阶段一律清空。
	if out.Stage == model.StageRejected {
		if out.RejectionDate == nil {
			d := e.now().AddDate(0, 0, -e.defaults.IntBetween(30, 180))
			out.RejectionDate = &d
		}
		if out.RejectionReason == "" {
			out.RejectionReason = e.defaults.Pick(rejectReasons)
		}
	} else {
		out.RejectionDate = nil
		out.RejectionReason = ""
	}

	// 嵌套子记录整体合成：只要指针为 nil 就整块补全，杜绝半填充。
	if out.InterviewScores == nil {
		out.InterviewScores = e.buildInterviewScores()
	} else {
		scores := *c.InterviewScores
		out.InterviewScores = &scores
	}
	if out.OfferIntelligence == nil {
		out.OfferIntelligence = e.buildOfferIntelligence()
	} else {
		intel := *c.OfferIntelligence
		out.OfferIntelligence = &intel
	}
	if out.RecruiterContext == nil {
		out.RecruiterContext = e.buildRecruiterContext()
	} else {
		rc := *c.RecruiterContext
		rc.Outreach = append([]model.OutreachEvent(nil), c.RecruiterContext.Outreach...)
		out.RecruiterContext = &rc
	}

	return out, nil
}

func (e *Enricher) buildInterviewScores() *model.InterviewScores {
	return &model.InterviewScores{
		TechnicalSkills: e.defaults.IntBetween(1, 5),
		Communication:   e.defaults.IntBetween(1, 5),
		CultureFit:      e.defaults.IntBetween(1, 5),
		ProblemSolving:  e.defaults.IntBetween(1, 5),
	}
}

func (e *Enricher) buildOfferIntelligence() *model.OfferIntelligence {
	risk := model.RiskLow
	if e.defaults.Chance(0.3) {
		risk = model.RiskHigh
	}
	return &model.OfferIntelligence{
		CompAlignmentScore: e.defaults.IntBetween(50, 95),
		CounterOfferRisk:   risk,
		WarmingStatus:      e.defaults.Pick(warmingStates),
		ReferencesChecked:  e.defaults.Chance(0.5),
		CompApproved:       e.defaults.Chance(0.6),
		StartDateAligned:   e.defaults.Chance(0.7),
	}
}

func (e *Enricher) buildRecruiterContext() *model.RecruiterContext {
	noticeRisk := model.RiskLow
	if e.defaults.Chance(0.25) {
		noticeRisk = model.RiskHigh
	}
	offerRisk := model.RiskLow
	if e.defaults.Chance(0.25) {
		offerRisk = model.RiskHigh
	}

	minSalary := e.defaults.IntBetween(90, 140) * 1000
	maxSalary := minSalary + e.defaults.IntBetween(10, 40)*1000

	count := e.defaults.IntBetween(1, 3)
	outreach := make([]model.OutreachEvent, 0, count)
	for i := count; i > 0; i-- {
		outreach = append(outreach, model.OutreachEvent{
			At:      e.now().AddDate(0, 0, -i*e.defaults.IntBetween(3, 14)),
			Channel: e.defaults.Pick(outreachChannels),
			Note:    "Outreach touchpoint",
		})
	}

	return &model.RecruiterContext{
		CompMismatch:    e.defaults.Chance(0.25),
		NoticeRisk:      noticeRisk,
		OfferRisk:       offerRisk,
		MarketSalaryMin: minSalary,
		MarketSalaryMax: maxSalary,
		Outreach:        outreach,
	}
}
