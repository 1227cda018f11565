package dedup

import (
	"testing"

	"talent-radar/internal/model"
)

func TestScanFindsExactEmailMatch(t *testing.T) {
	t.Parallel()

	candidates := []model.Candidate{
		{ID: "1", Name: "Ada Lovelace", Email: "a@x.com"},
		{ID: "2", Name: "Ada L.", Email: "a@x.com"},
		{ID: "3", Name: "Grace Hopper", Email: "grace@x.com"},
	}
	matches := Scan(candidates)
	if len(matches) != 1 {
		t.Fatalf("expected exactly 1 duplicate pair, got %d", len(matches))
	}
	m := matches[0]
	if m.Confidence != 100 {
		t.Fatalf("expected confidence 100, got %d", m.Confidence)
	}
	if m.Reason != "Exact Email Match" {
		t.Fatalf("unexpected reason %q", m.Reason)
	}
	if m.Primary.ID != "1" || m.Secondary.ID != "2" {
		t.Fatalf("expected first-seen as primary, got %s/%s", m.Primary.ID, m.Secondary.ID)
	}
}

func TestScanNormalizesEmailCase(t *testing.T) {
	t.Parallel()

	matches := Scan([]model.Candidate{
		{ID: "1", Email: "Ada@X.com"},
		{ID: "2", Email: " ada@x.com "},
	})
	if len(matches) != 1 {
		t.Fatalf("expected case/space-insensitive match, got %d", len(matches))
	}
}

func TestScanNoSharedEmails(t *testing.T) {
	t.Parallel()

	matches := Scan([]model.Candidate{
		{ID: "1", Email: "a@x.com"},
		{ID: "2", Email: "b@x.com"},
	})
	if len(matches) != 0 {
		t.Fatalf("expected no duplicates, got %d", len(matches))
	}
}

func TestScanSkipsMissingEmails(t *testing.T) {
	t.Parallel()

	matches := Scan([]model.Candidate{
		{ID: "1"},
		{ID: "2"},
		{ID: "3", Email: ""},
	})
	if len(matches) != 0 {
		t.Fatalf("candidates without email must never be flagged, got %d", len(matches))
	}
}

func TestScanThreeWayCollisionProducesPairPerExtra(t *testing.T) {
	t.Parallel()

	matches := Scan([]model.Candidate{
		{ID: "1", Email: "a@x.com"},
		{ID: "2", Email: "a@x.com"},
		{ID: "3", Email: "a@x.com"},
	})
	if len(matches) != 2 {
		t.Fatalf("expected one pair per later duplicate, got %d", len(matches))
	}
	for _, m := range matches {
		if m.Primary.ID != "1" {
			t.Fatalf("expected first-seen record as primary, got %s", m.Primary.ID)
		}
	}
}
