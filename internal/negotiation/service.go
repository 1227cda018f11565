package negotiation

import (
	"context"
	"fmt"
	"time"

	"talent-radar/internal/model"

	"github.com/google/uuid"
)

// Store 定义持久化接口，便于测试替换。
type Store interface {
	GetNegotiation(ctx context.Context, id string) (*model.Negotiation, error)
	CreateNegotiation(ctx context.Context, n *model.Negotiation) error
	UpdateNegotiation(ctx context.Context, n *model.Negotiation) error
}

// Service 驱动 Offer 谈判状态机：
// Offer Sent → In Negotiation → {Accepted, Rejected}，终态后不可再迁移；
// 审批子状态与主状态正交，审批操作不会触碰主状态。
// 每次迁移都会向 Notes 追加一条不可变审计记录。
type Service struct {
	store Store
	now   func() time.Time
	newID func() string
}

// NewService 创建谈判服务。
func NewService(store Store) *Service {
	return &Service{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Open 为候选人创建一条谈判记录，初始状态 Offer Sent。
func (s *Service) Open(ctx context.Context, candidateID string, initial model.CompPackage, author string) (model.Negotiation, error) {
	if candidateID == "" {
		return model.Negotiation{}, fmt.Errorf("%w: candidate id required", model.ErrValidation)
	}

	sentAt := s.now()
	n := model.Negotiation{
		ID:             s.newID(),
		CandidateID:    candidateID,
		Status:         model.NegotiationOfferSent,
		InitialOffer:   initial,
		ApprovalStatus: model.ApprovalNotRequired,
		Timeline:       model.NegotiationTimeline{OfferSentAt: &sentAt},
	}
	s.appendNote(&n, author, fmt.Sprintf("Offer sent with total compensation %d", initial.Total()))

	if err := s.store.CreateNegotiation(ctx, &n); err != nil {
		return model.Negotiation{}, err
	}
	return n, nil
}

// SubmitCounterOffer 记录还价并进入 In Negotiation。
// 预算偏差始终重算：counter 总包 - initial 总包（base+bonus+equity）。
func (s *Service) SubmitCounterOffer(ctx context.Context, id string, counter model.CompPackage, author string) (model.Negotiation, error) {
	n, err := s.store.GetNegotiation(ctx, id)
	if err != nil {
		return model.Negotiation{}, err
	}
	if n.Status != model.NegotiationOfferSent && n.Status != model.NegotiationInNegotiation {
		return model.Negotiation{}, fmt.Errorf("%w: cannot counter in status %q", model.ErrState, n.Status)
	}

	received := s.now()
	n.CounterOffer = &counter
	n.Status = model.NegotiationInNegotiation
	n.BudgetVariance = counter.Total() - n.InitialOffer.Total()
	n.Timeline.CounterReceivedAt = &received
	s.appendNote(n, author, fmt.Sprintf("Counter offer received, budget variance %d", n.BudgetVariance))

	if err := s.store.UpdateNegotiation(ctx, n); err != nil {
		return model.Negotiation{}, err
	}
	return *n, nil
}

// RequestApproval 将审批子状态置为 Pending，不改变主状态。
func (s *Service) RequestApproval(ctx context.Context, id, author string) (model.Negotiation, error) {
	n, err := s.store.GetNegotiation(ctx, id)
	if err != nil {
		return model.Negotiation{}, err
	}
	if n.Status.Terminal() {
		return model.Negotiation{}, fmt.Errorf("%w: negotiation already closed", model.ErrState)
	}

	n.ApprovalStatus = model.ApprovalPending
	s.appendNote(n, author, "Approval requested for revised offer")

	if err := s.store.UpdateNegotiation(ctx, n); err != nil {
		return model.Negotiation{}, err
	}
	return *n, nil
}

// ProcessApproval 处理待审批请求，仅更新审批子状态。
func (s *Service) ProcessApproval(ctx context.Context, id string, approved bool, author string) (model.Negotiation, error) {
	n, err := s.store.GetNegotiation(ctx, id)
	if err != nil {
		return model.Negotiation{}, err
	}
	if n.ApprovalStatus != model.ApprovalPending {
		return model.Negotiation{}, fmt.Errorf("%w: no pending approval", model.ErrState)
	}

	if approved {
		n.ApprovalStatus = model.ApprovalApproved
		s.appendNote(n, author, "Revised offer approved")
	} else {
		n.ApprovalStatus = model.ApprovalRejected
		s.appendNote(n, author, "Revised offer approval rejected")
	}

	if err := s.store.UpdateNegotiation(ctx, n); err != nil {
		return model.Negotiation{}, err
	}
	return *n, nil
}

// Finalize 终结谈判。Accepted 锁定最终 Offer 并记录接受耗时（天）；
// Rejected 只锁定状态，不产生最终 Offer。终态后再次调用返回 ErrState。
func (s *Service) Finalize(ctx context.Context, id string, decision model.NegotiationStatus, author string) (model.Negotiation, error) {
	if !decision.Terminal() {
		return model.Negotiation{}, fmt.Errorf("%w: decision must be Accepted or Rejected", model.ErrValidation)
	}

	n, err := s.store.GetNegotiation(ctx, id)
	if err != nil {
		return model.Negotiation{}, err
	}
	if n.Status.Terminal() {
		return model.Negotiation{}, fmt.Errorf("%w: negotiation already %q", model.ErrState, n.Status)
	}

	closedAt := s.now()
	n.Status = decision
	n.Timeline.ClosedAt = &closedAt

	if decision == model.NegotiationAccepted {
		final := n.InitialOffer
		if n.CounterOffer != nil {
			final = *n.CounterOffer
		}
		n.FinalOffer = &final
		n.BudgetVariance = final.Total() - n.InitialOffer.Total()
		if n.Timeline.OfferSentAt != nil {
			n.TimeToAcceptanceDays = int(closedAt.Sub(*n.Timeline.OfferSentAt).Hours() / 24)
		}
		s.appendNote(n, author, fmt.Sprintf("Offer accepted after %d days", n.TimeToAcceptanceDays))
	} else {
		s.appendNote(n, author, "Offer rejected by candidate")
	}

	if err := s.store.UpdateNegotiation(ctx, n); err != nil {
		return model.Negotiation{}, err
	}
	return *n, nil
}

// appendNote 追加一条审计日志，日志只增不减。
func (s *Service) appendNote(n *model.Negotiation, author, text string) {
	n.Notes = append(n.Notes, model.NegotiationNote{
		ID:     s.newID(),
		At:     s.now(),
		Author: author,
		Text:   text,
	})
}
