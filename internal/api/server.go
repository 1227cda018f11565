package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"talent-radar/internal/dedup"
	"talent-radar/internal/model"
	"talent-radar/internal/query"
	"talent-radar/internal/rubric"

	"github.com/google/uuid"
)

// CandidateStore 抽象候选人存储接口。
type CandidateStore interface {
	ListCandidates(ctx context.Context) ([]model.Candidate, error)
	GetCandidate(ctx context.Context, id string) (*model.Candidate, error)
}

// FeedbackStore 抽象面试反馈存储接口。
type FeedbackStore interface {
	CreateFeedback(ctx context.Context, fb *model.InterviewFeedback) error
	ListFeedback(ctx context.Context, candidateID string) ([]model.InterviewFeedback, error)
}

// Enricher 抽象档案富化接口。
type Enricher interface {
	Enrich(c model.Candidate) (model.Candidate, error)
	ExplainAvailability(c model.Candidate) []string
}

// FilterEngine 抽象筛选求值接口。
type FilterEngine interface {
	Apply(candidates []model.Candidate, f query.Filter) []model.Candidate
}

// ViewService 处理保存视图。
type ViewService interface {
	Save(ctx context.Context, name string, filter query.Filter) (model.SavedView, error)
	List(ctx context.Context) ([]model.SavedView, error)
}

// NegotiationService 驱动谈判状态机。
type NegotiationService interface {
	Open(ctx context.Context, candidateID string, initial model.CompPackage, author string) (model.Negotiation, error)
	SubmitCounterOffer(ctx context.Context, id string, counter model.CompPackage, author string) (model.Negotiation, error)
	RequestApproval(ctx context.Context, id, author string) (model.Negotiation, error)
	ProcessApproval(ctx context.Context, id string, approved bool, author string) (model.Negotiation, error)
	Finalize(ctx context.Context, id string, decision model.NegotiationStatus, author string) (model.Negotiation, error)
}

// NegotiationStore 抽象谈判记录读取接口。
type NegotiationStore interface {
	GetNegotiation(ctx context.Context, id string) (*model.Negotiation, error)
	ListNegotiations(ctx context.Context, candidateID string) ([]model.Negotiation, error)
}

// Deps 聚合 Handler 依赖。
type Deps struct {
	Candidates   CandidateStore
	Feedback     FeedbackStore
	Enricher     Enricher
	Filter       FilterEngine
	Views        ViewService
	Negotiations NegotiationService
	Negotiation  NegotiationStore
	Templates    []rubric.Template
}

// MetaResponse 暴露前端筛选所需的枚举元数据。
type MetaResponse struct {
	Stages      []model.Stage      `json:"stages"`
	SourceTypes []model.SourceType `json:"source_types"`
	RubricRoles []string           `json:"rubric_roles"`
}

// NewHandler 构造 HTTP 多路复用器，面向 UI 层暴露引擎能力。
func NewHandler(deps Deps) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("GET /api/meta", func(w http.ResponseWriter, r *http.Request) {
		meta := MetaResponse{Stages: model.Stages, SourceTypes: model.SourceTypes}
		for _, tpl := range deps.Templates {
			meta.RubricRoles = append(meta.RubricRoles, tpl.Role)
		}
		writeJSON(w, http.StatusOK, meta)
	})

	mux.HandleFunc("GET /api/candidates", func(w http.ResponseWriter, r *http.Request) {
		limit := 20
		if l := r.URL.Query().Get("limit"); l != "" {
			if v, err := strconv.Atoi(l); err == nil && v > 0 {
				if v > 100 {
					v = 100
				}
				limit = v
			}
		}
		page := 1
		if p := r.URL.Query().Get("page"); p != "" {
			if v, err := strconv.Atoi(p); err == nil && v > 0 {
				page = v
			}
		}

		enriched, err := listEnriched(r.Context(), deps)
		if err != nil {
			writeError(w, err)
			return
		}

		filtered := deps.Filter.Apply(enriched, filterFromQuery(r))

		total := len(filtered)
		offset := (page - 1) * limit
		if offset > total {
			offset = total
		}
		end := offset + limit
		if end > total {
			end = total
		}

		w.Header().Set("X-Page", strconv.Itoa(page))
		w.Header().Set("X-Limit", strconv.Itoa(limit))
		w.Header().Set("X-Has-More", strconv.FormatBool(end < total))
		w.Header().Set("X-Total", strconv.Itoa(total))
		writeJSON(w, http.StatusOK, filtered[offset:end])
	})

	mux.HandleFunc("GET /api/candidates/{id}", func(w http.ResponseWriter, r *http.Request) {
		candidate, err := deps.Candidates.GetCandidate(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		enriched, err := deps.Enricher.Enrich(*candidate)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"candidate":            enriched,
			"availability_reasons": deps.Enricher.ExplainAvailability(enriched),
		})
	})

	mux.HandleFunc("POST /api/query/parse", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		writeJSON(w, http.StatusOK, query.ParseQuery(req.Text))
	})

	mux.HandleFunc("GET /api/duplicates", func(w http.ResponseWriter, r *http.Request) {
		enriched, err := listEnriched(r.Context(), deps)
		if err != nil {
			writeError(w, err)
			return
		}
		matches := dedup.Scan(enriched)
		if matches == nil {
			matches = []dedup.Match{}
		}
		writeJSON(w, http.StatusOK, matches)
	})

	mux.HandleFunc("GET /api/views", func(w http.ResponseWriter, r *http.Request) {
		items, err := deps.Views.List(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	})

	mux.HandleFunc("POST /api/views", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name   string       `json:"name"`
			Filter query.Filter `json:"filter"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		view, err := deps.Views.Save(r.Context(), req.Name, req.Filter)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, view)
	})

	mux.HandleFunc("POST /api/feedback", func(w http.ResponseWriter, r *http.Request) {
		var fb model.InterviewFeedback
		if err := json.NewDecoder(r.Body).Decode(&fb); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		if err := validateFeedback(fb); err != nil {
			writeError(w, err)
			return
		}
		if _, err := deps.Candidates.GetCandidate(r.Context(), fb.CandidateID); err != nil {
			writeError(w, err)
			return
		}

		fb.ID = uuid.NewString()
		fb.CreatedAt = time.Now()
		fb.OverallRating = rubric.OverallRating(fb)
		if fb.Recommendation == "" {
			fb.Recommendation = model.RecommendPending
		}
		if err := deps.Feedback.CreateFeedback(r.Context(), &fb); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, fb)
	})

	mux.HandleFunc("GET /api/candidates/{id}/feedback", func(w http.ResponseWriter, r *http.Request) {
		items, err := deps.Feedback.ListFeedback(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	})

	mux.HandleFunc("GET /api/candidates/{id}/feedback/average", func(w http.ResponseWriter, r *http.Request) {
		items, err := deps.Feedback.ListFeedback(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rubric.AverageFeedback(items))
	})

	mux.HandleFunc("GET /api/candidates/{id}/onboarding", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		items, err := deps.Feedback.ListFeedback(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rubric.OnboardingPlan(id, rubric.AverageFeedback(items)))
	})

	mux.HandleFunc("GET /api/rubric/templates", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, deps.Templates)
	})

	mux.HandleFunc("POST /api/rubric/score", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Role   string         `json:"role"`
			Scores map[string]int `json:"scores"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		tpl, ok := findTemplate(deps.Templates, req.Role)
		if !ok {
			writeError(w, fmt.Errorf("%w: no rubric template for role %q", model.ErrNotFound, req.Role))
			return
		}
		score, err := rubric.ScoreTemplate(tpl, req.Scores)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"role": tpl.Role, "overall": score})
	})

	mux.HandleFunc("POST /api/negotiations", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			CandidateID  string            `json:"candidate_id"`
			InitialOffer model.CompPackage `json:"initial_offer"`
			Author       string            `json:"author"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		if _, err := deps.Candidates.GetCandidate(r.Context(), req.CandidateID); err != nil {
			writeError(w, err)
			return
		}
		n, err := deps.Negotiations.Open(r.Context(), req.CandidateID, req.InitialOffer, req.Author)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, n)
	})

	mux.HandleFunc("GET /api/candidates/{id}/negotiations", func(w http.ResponseWriter, r *http.Request) {
		list, err := deps.Negotiation.ListNegotiations(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	})

	mux.HandleFunc("GET /api/negotiations/{id}", func(w http.ResponseWriter, r *http.Request) {
		n, err := deps.Negotiation.GetNegotiation(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, n)
	})

	mux.HandleFunc("POST /api/negotiations/{id}/counter", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			CounterOffer model.CompPackage `json:"counter_offer"`
			Author       string            `json:"author"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		n, err := deps.Negotiations.SubmitCounterOffer(r.Context(), r.PathValue("id"), req.CounterOffer, req.Author)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, n)
	})

	mux.HandleFunc("POST /api/negotiations/{id}/approval/request", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Author string `json:"author"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		n, err := deps.Negotiations.RequestApproval(r.Context(), r.PathValue("id"), req.Author)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, n)
	})

	mux.HandleFunc("POST /api/negotiations/{id}/approval/process", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Approved bool   `json:"approved"`
			Author   string `json:"author"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		n, err := deps.Negotiations.ProcessApproval(r.Context(), r.PathValue("id"), req.Approved, req.Author)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, n)
	})

	mux.HandleFunc("POST /api/negotiations/{id}/finalize", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Decision model.NegotiationStatus `json:"decision"`
			Author   string                  `json:"author"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		n, err := deps.Negotiations.Finalize(r.Context(), r.PathValue("id"), req.Decision, req.Author)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, n)
	})

	return mux
}

// listEnriched 读取全部候选人并逐个富化，读路径不回写存储。
func listEnriched(ctx context.Context, deps Deps) ([]model.Candidate, error) {
	raw, err := deps.Candidates.ListCandidates(ctx)
	if err != nil {
		return nil, err
	}
	enriched := make([]model.Candidate, 0, len(raw))
	for _, c := range raw {
		ec, err := deps.Enricher.Enrich(c)
		if err != nil {
			// 缺失身份字段的脏记录跳过，不让单条坏数据拖垮整个列表。
			log.Printf("skip unenrichable candidate %q: %v", c.ID, err)
			continue
		}
		enriched = append(enriched, ec)
	}
	return enriched, nil
}

// filterFromQuery 从查询参数还原筛选对象。
func filterFromQuery(r *http.Request) query.Filter {
	q := r.URL.Query()
	f := query.Filter{
		Location:   q.Get("location"),
		Role:       q.Get("role"),
		Query:      q.Get("query"),
		SourceType: q.Get("source_type"),
	}
	if v, err := strconv.Atoi(q.Get("min_availability")); err == nil {
		f.MinAvailability = v
	}
	if v, err := strconv.Atoi(q.Get("min_tenure")); err == nil {
		f.MinTenure = v
	}
	if tags := strings.TrimSpace(q.Get("tags")); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			if trimmed := strings.TrimSpace(tag); trimmed != "" {
				f.Tags = append(f.Tags, trimmed)
			}
		}
	}
	f.SilverMedalist = q.Get("silver_medalist") == "true"
	f.ReadyForRevisit = q.Get("ready_for_revisit") == "true"
	return f
}

func validateFeedback(fb model.InterviewFeedback) error {
	if fb.CandidateID == "" || fb.Interviewer == "" {
		return fmt.Errorf("%w: feedback requires candidate_id and interviewer", model.ErrValidation)
	}
	check := func(metric string, score int) error {
		if score < 1 || score > 5 {
			return fmt.Errorf("%w: %s score %d outside 1-5", model.ErrValidation, metric, score)
		}
		return nil
	}
	for metric, score := range fb.TechnicalSkills {
		if err := check(metric, score); err != nil {
			return err
		}
	}
	for metric, score := range fb.SoftSkills {
		if err := check(metric, score); err != nil {
			return err
		}
	}
	return check("culture fit", fb.CultureFit)
}

func findTemplate(templates []rubric.Template, role string) (rubric.Template, bool) {
	for _, tpl := range templates {
		if strings.EqualFold(tpl.Role, role) {
			return tpl, true
		}
	}
	return rubric.Template{}, false
}

// writeError 按错误分类映射 HTTP 状态码。
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, model.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, model.ErrState):
		status = http.StatusConflict
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
