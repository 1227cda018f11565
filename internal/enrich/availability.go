package enrich

import (
	"fmt"

	"talent-radar/internal/model"
)

// Signal 表示一个影响跳槽意愿的活跃信号。
type Signal struct {
	Reason string
	Boost  int
}

// SignalSource 评估候选人的活跃信号，信号加成合计不超过 maxSignalBoost。
type SignalSource interface {
	Signals(c model.Candidate) []Signal
}

const (
	availabilityBase = 50
	availabilityMin  = 10
	availabilityMax  = 98
	maxSignalBoost   = 25
)

// ActivitySignals 基于已富化字段推导信号，同一输入总是给出同一结果。
type ActivitySignals struct{}

// Signals 实现 SignalSource。
func (ActivitySignals) Signals(c model.Candidate) []Signal {
	var signals []Signal
	if c.IsHotLead {
		signals = append(signals, Signal{Reason: "Flagged as hot lead by sourcing", Boost: 10})
	}
	if c.EngagementLevel >= 70 {
		signals = append(signals, Signal{Reason: "High engagement with recent outreach", Boost: 10})
	}
	if c.SentimentScore >= 70 {
		signals = append(signals, Signal{Reason: "Positive sentiment in recent conversations", Boost: 5})
	}
	return signals
}

// ScoreAvailability 计算 0-100 的跳槽意愿分。
// 规则：基础 50 分；任期分档互斥、从高到低判断：>36 月 +30，
// (24,36] 月 +20，<12 月 -20；活跃信号最多再加 25；最终收敛到 [10,98]。
func (e *Enricher) ScoreAvailability(c model.Candidate) int {
	score := availabilityBase
	switch {
	case c.TenureMonths > 36:
		score += 30
	case c.TenureMonths > 24:
		score += 20
	case c.TenureMonths < 12:
		score -= 20
	}

	boost := 0
	for _, sig := range e.signals.Signals(c) {
		boost += sig.Boost
	}
	if boost > maxSignalBoost {
		boost = maxSignalBoost
	}
	score += boost

	return clamp(score, availabilityMin, availabilityMax)
}

// ExplainAvailability 生成与打分同源的解释文案，永不返回空列表：
// 没有任何分档或信号命中时返回单条中性文案。
func (e *Enricher) ExplainAvailability(c model.Candidate) []string {
	var reasons []string
	switch {
	case c.TenureMonths > 36:
		reasons = append(reasons, fmt.Sprintf("Long tenure (%d months) suggests openness to a move", c.TenureMonths))
	case c.TenureMonths > 24:
		reasons = append(reasons, fmt.Sprintf("Tenure of %d months is in the historically receptive window", c.TenureMonths))
	case c.TenureMonths < 12:
		reasons = append(reasons, fmt.Sprintf("Only %d months in current role, unlikely to move soon", c.TenureMonths))
	}
	for _, sig := range e.signals.Signals(c) {
		reasons = append(reasons, sig.Reason)
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "No detected activity signals")
	}
	return reasons
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
