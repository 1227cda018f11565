package views

import (
	"context"
	"errors"
	"testing"
	"time"

	"talent-radar/internal/model"
	"talent-radar/internal/query"
)

func newTestService(store *stubStore) *Service {
	svc := NewService(store)
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC) }
	svc.newID = func() string { return "view-1" }
	return svc
}

func TestSavePersistsFilterSnapshot(t *testing.T) {
	t.Parallel()

	store := &stubStore{}
	svc := newTestService(store)

	view, err := svc.Save(context.Background(), "Senior engineers SF", query.Filter{
		Role:            "engineer",
		Location:        "San Francisco, CA",
		MinAvailability: 70,
		Tags:            []string{"golang"},
	})
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if view.ID != "view-1" || view.Name != "Senior engineers SF" {
		t.Fatalf("unexpected view: %+v", view)
	}
	if store.calls != 1 {
		t.Fatalf("expected store called once, got %d", store.calls)
	}
	if view.Filter["role"] != "engineer" {
		t.Fatalf("expected role in snapshot, got %v", view.Filter)
	}
	if view.Filter["min_availability"] != float64(70) {
		t.Fatalf("expected min availability in snapshot, got %v", view.Filter["min_availability"])
	}
}

func TestSaveRequiresName(t *testing.T) {
	t.Parallel()

	store := &stubStore{}
	svc := newTestService(store)

	for _, name := range []string{"", "   "} {
		if _, err := svc.Save(context.Background(), name, query.Filter{}); !errors.Is(err, model.ErrValidation) {
			t.Fatalf("expected validation error for name %q, got %v", name, err)
		}
	}
	if store.calls != 0 {
		t.Fatalf("store must not be called on invalid input")
	}
}

func TestSavePropagatesStoreError(t *testing.T) {
	t.Parallel()

	store := &stubStore{err: errors.New("boom")}
	svc := newTestService(store)

	if _, err := svc.Save(context.Background(), "any", query.Filter{}); err == nil {
		t.Fatalf("expected error when store fails")
	}
}

func TestListReturnsStoredViews(t *testing.T) {
	t.Parallel()

	store := &stubStore{views: []model.SavedView{{ID: "a", Name: "one"}, {ID: "b", Name: "two"}}}
	svc := newTestService(store)

	got, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a" {
		t.Fatalf("unexpected views: %+v", got)
	}
}

type stubStore struct {
	calls int
	err   error
	views []model.SavedView
}

func (s *stubStore) CreateSavedView(_ context.Context, view *model.SavedView) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	s.views = append(s.views, *view)
	return nil
}

func (s *stubStore) ListSavedViews(_ context.Context) ([]model.SavedView, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.views, nil
}
