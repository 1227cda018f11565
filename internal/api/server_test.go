package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"talent-radar/internal/enrich"
	"talent-radar/internal/model"
	"talent-radar/internal/query"
	"talent-radar/internal/rubric"
)

func testDeps() Deps {
	candidates := []model.Candidate{
		{ID: "1", Name: "Ada Lovelace", Email: "ada@example.com", Role: "Senior Backend Engineer", Location: "San Francisco, CA", Stage: model.StageInterview, TenureMonths: 40, AvailabilityScore: 85, SourceType: model.SourceReferral},
		{ID: "2", Name: "Grace Hopper", Email: "ada@example.com", Role: "Frontend Engineer", Location: "New York, NY", Stage: model.StageSourcing, TenureMonths: 18, AvailabilityScore: 55, SourceType: model.SourceInbound},
		{ID: "3", Name: "Alan Turing", Email: "alan@example.com", Role: "Data Scientist", Location: "London, UK", Stage: model.StageSourcing, TenureMonths: 10, AvailabilityScore: 35, SourceType: model.SourceOutbound},
	}
	return Deps{
		Candidates:   &stubCandidates{items: candidates},
		Feedback:     &stubFeedback{},
		Enricher:     enrich.New(enrich.NewSeededDefaults(7)),
		Filter:       query.NewEngine(),
		Views:        &stubViews{},
		Negotiations: &stubNegotiations{},
		Negotiation:  &stubNegotiations{},
		Templates:    rubric.DefaultTemplates(),
	}
}

func TestListCandidatesAppliesFilterAndHeaders(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(NewHandler(testDeps()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/candidates?role=engineer")
	if err != nil {
		t.Fatalf("GET error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("X-Total"); got != "2" {
		t.Fatalf("expected X-Total 2, got %q", got)
	}
	var got []model.Candidate
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "2" {
		t.Fatalf("unexpected filtered result: %+v", got)
	}
	// 列表经过富化，嵌套子记录必须全部就位。
	for _, c := range got {
		if c.InterviewScores == nil || c.OfferIntelligence == nil || c.RecruiterContext == nil {
			t.Fatalf("candidate %s not enriched", c.ID)
		}
	}
}

func TestListCandidatesPagination(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(NewHandler(testDeps()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/candidates?limit=2&page=1")
	if err != nil {
		t.Fatalf("GET error: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("X-Has-More"); got != "true" {
		t.Fatalf("expected X-Has-More true, got %q", got)
	}
	var got []model.Candidate
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates on page, got %d", len(got))
	}
}

func TestGetCandidateIncludesAvailabilityReasons(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(NewHandler(testDeps()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/candidates/1")
	if err != nil {
		t.Fatalf("GET error: %v", err)
	}
	defer resp.Body.Close()

	var got struct {
		Candidate           model.Candidate `json:"candidate"`
		AvailabilityReasons []string        `json:"availability_reasons"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if got.Candidate.ID != "1" {
		t.Fatalf("unexpected candidate: %+v", got.Candidate)
	}
	if len(got.AvailabilityReasons) == 0 {
		t.Fatalf("expected availability reasons, got none")
	}
}

func TestGetCandidateNotFoundMapsTo404(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(NewHandler(testDeps()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/candidates/missing")
	if err != nil {
		t.Fatalf("GET error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestParseQueryEndpoint(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(NewHandler(testDeps()))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/query/parse", "application/json", strings.NewReader(`{"text":"Senior React engineers in SF"}`))
	if err != nil {
		t.Fatalf("POST error: %v", err)
	}
	defer resp.Body.Close()

	var got query.Interpretation
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if got.Seniority != "Senior" || got.Role != "Engineer" || got.Location != "San Francisco, CA" {
		t.Fatalf("unexpected interpretation: %+v", got)
	}
}

func TestDuplicatesEndpoint(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(NewHandler(testDeps()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/duplicates")
	if err != nil {
		t.Fatalf("GET error: %v", err)
	}
	defer resp.Body.Close()

	var got []struct {
		Confidence int    `json:"confidence"`
		Reason     string `json:"reason"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(got) != 1 || got[0].Confidence != 100 || got[0].Reason != "Exact Email Match" {
		t.Fatalf("unexpected duplicates: %+v", got)
	}
}

func TestSaveViewValidationMapsTo400(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(NewHandler(testDeps()))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/views", "application/json", strings.NewReader(`{"name":""}`))
	if err != nil {
		t.Fatalf("POST error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestFeedbackRejectsOutOfRangeScores(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(NewHandler(testDeps()))
	defer srv.Close()

	body := `{"candidate_id":"1","interviewer":"alex","technical_skills":{"algorithms":9},"culture_fit":4}`
	resp, err := http.Post(srv.URL+"/api/feedback", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestFeedbackDerivesOverallRating(t *testing.T) {
	t.Parallel()

	deps := testDeps()
	feedback := deps.Feedback.(*stubFeedback)
	srv := httptest.NewServer(NewHandler(deps))
	defer srv.Close()

	body := `{"candidate_id":"1","interviewer":"alex","technical_skills":{"algorithms":4},"soft_skills":{"communication":5},"culture_fit":3}`
	resp, err := http.Post(srv.URL+"/api/feedback", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if len(feedback.items) != 1 {
		t.Fatalf("expected feedback persisted, got %d", len(feedback.items))
	}
	if got := feedback.items[0].OverallRating; got != 4.0 {
		t.Fatalf("expected derived overall 4.0, got %v", got)
	}
}

func TestRubricScoreEndpointRejectsBadWeights(t *testing.T) {
	t.Parallel()

	deps := testDeps()
	deps.Templates = []rubric.Template{{
		Role:       "Broken",
		Categories: []rubric.Category{{Name: "A", Weight: 60, Criteria: []string{"x"}}},
	}}
	srv := httptest.NewServer(NewHandler(deps))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/rubric/score", "application/json", strings.NewReader(`{"role":"Broken","scores":{"x":5}}`))
	if err != nil {
		t.Fatalf("POST error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestNegotiationStateErrorMapsTo409(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(NewHandler(testDeps()))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/negotiations/closed/finalize", "application/json", strings.NewReader(`{"decision":"Accepted","author":"r"}`))
	if err != nil {
		t.Fatalf("POST error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

// 该用例捕获全局日志输出，不能并行。
func TestListCandidatesLogsSkippedRecords(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	deps := testDeps()
	stub := deps.Candidates.(*stubCandidates)
	stub.items = append(stub.items, model.Candidate{ID: "dirty-1", Email: "noname@example.com"})

	srv := httptest.NewServer(NewHandler(deps))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/candidates")
	if err != nil {
		t.Fatalf("GET error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var list []model.Candidate
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	for _, c := range list {
		if c.ID == "dirty-1" {
			t.Fatalf("unenrichable candidate leaked into the list")
		}
	}
	if !strings.Contains(buf.String(), `skip unenrichable candidate "dirty-1"`) {
		t.Fatalf("expected skip log for dirty record, got: %s", buf.String())
	}
}

func TestListCandidateNegotiations(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(NewHandler(testDeps()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/candidates/1/negotiations")
	if err != nil {
		t.Fatalf("GET error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var list []model.Negotiation
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(list) != 1 || list[0].CandidateID != "1" {
		t.Fatalf("unexpected negotiation list: %+v", list)
	}
}

type stubCandidates struct {
	items []model.Candidate
}

func (s *stubCandidates) ListCandidates(context.Context) ([]model.Candidate, error) {
	return s.items, nil
}

func (s *stubCandidates) GetCandidate(_ context.Context, id string) (*model.Candidate, error) {
	for _, c := range s.items {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, model.ErrNotFound
}

type stubFeedback struct {
	items []model.InterviewFeedback
}

func (s *stubFeedback) CreateFeedback(_ context.Context, fb *model.InterviewFeedback) error {
	s.items = append(s.items, *fb)
	return nil
}

func (s *stubFeedback) ListFeedback(_ context.Context, candidateID string) ([]model.InterviewFeedback, error) {
	var out []model.InterviewFeedback
	for _, fb := range s.items {
		if fb.CandidateID == candidateID {
			out = append(out, fb)
		}
	}
	return out, nil
}

type stubViews struct {
	views []model.SavedView
}

func (s *stubViews) Save(_ context.Context, name string, _ query.Filter) (model.SavedView, error) {
	if strings.TrimSpace(name) == "" {
		return model.SavedView{}, fmt.Errorf("%w: view name required", model.ErrValidation)
	}
	view := model.SavedView{ID: "v1", Name: name}
	s.views = append(s.views, view)
	return view, nil
}

func (s *stubViews) List(context.Context) ([]model.SavedView, error) {
	return s.views, nil
}

type stubNegotiations struct{}

func (s *stubNegotiations) Open(_ context.Context, candidateID string, initial model.CompPackage, _ string) (model.Negotiation, error) {
	return model.Negotiation{ID: "n1", CandidateID: candidateID, Status: model.NegotiationOfferSent, InitialOffer: initial}, nil
}

func (s *stubNegotiations) SubmitCounterOffer(_ context.Context, id string, counter model.CompPackage, _ string) (model.Negotiation, error) {
	return model.Negotiation{ID: id, Status: model.NegotiationInNegotiation, CounterOffer: &counter}, nil
}

func (s *stubNegotiations) RequestApproval(_ context.Context, id, _ string) (model.Negotiation, error) {
	return model.Negotiation{ID: id, ApprovalStatus: model.ApprovalPending}, nil
}

func (s *stubNegotiations) ProcessApproval(_ context.Context, id string, approved bool, _ string) (model.Negotiation, error) {
	status := model.ApprovalRejected
	if approved {
		status = model.ApprovalApproved
	}
	return model.Negotiation{ID: id, ApprovalStatus: status}, nil
}

func (s *stubNegotiations) Finalize(_ context.Context, id string, _ model.NegotiationStatus, _ string) (model.Negotiation, error) {
	return model.Negotiation{}, fmt.Errorf("%w: negotiation already closed", model.ErrState)
}

func (s *stubNegotiations) GetNegotiation(_ context.Context, id string) (*model.Negotiation, error) {
	return nil, model.ErrNotFound
}

func (s *stubNegotiations) ListNegotiations(_ context.Context, candidateID string) ([]model.Negotiation, error) {
	return []model.Negotiation{{ID: "n1", CandidateID: candidateID, Status: model.NegotiationOfferSent}}, nil
}
