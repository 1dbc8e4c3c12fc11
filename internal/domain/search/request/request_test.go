package request

import (
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/perkdex/internal/domain"
	"github.com/kailas-cloud/perkdex/internal/domain/search/mode"
)

func TestNew_Defaults(t *testing.T) {
	r, err := New("hotel", "", 0, "", Defaults{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Query() != "hotel" {
		t.Errorf("Query() = %q", r.Query())
	}
	if r.Mode() != mode.Name {
		t.Errorf("Mode() = %q, want name (default)", r.Mode())
	}
	if r.TopK() != DefaultTopK {
		t.Errorf("TopK() = %d, want %d", r.TopK(), DefaultTopK)
	}
	if r.Category() != "" {
		t.Errorf("Category() = %q", r.Category())
	}
}

func TestNew_ExplicitValues(t *testing.T) {
	r, err := New("coffee", mode.Keyword, 3, " dining ", Defaults{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Mode() != mode.Keyword {
		t.Errorf("Mode() = %q", r.Mode())
	}
	if r.TopK() != 3 {
		t.Errorf("TopK() = %d", r.TopK())
	}
	if r.Category() != "dining" {
		t.Errorf("Category() = %q", r.Category())
	}
}

func TestNew_Defaults_Bounds(t *testing.T) {
	r, err := New("q", "", 0, "", Defaults{TopK: 5, MaxTopK: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.TopK() != 5 {
		t.Errorf("TopK() = %d, want 5", r.TopK())
	}

	r, err = New("q", "", 500, "", Defaults{TopK: 5, MaxTopK: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.TopK() != 20 {
		t.Errorf("TopK() = %d, want clamped 20", r.TopK())
	}
}

func TestNew_DefaultMode(t *testing.T) {
	r, err := New("q", "", 0, "", Defaults{Mode: mode.Keyword})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Mode() != mode.Keyword {
		t.Errorf("Mode() = %q, want keyword", r.Mode())
	}
}

func TestNew_EmptyQueryAllowed(t *testing.T) {
	if _, err := New("", "", 0, "", Defaults{}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name  string
		query string
		mode  mode.Mode
		topK  int
	}{
		{"too long", strings.Repeat("a", MaxQueryLength+1), "", 0},
		{"invalid mode", "q", "semantic", 0},
		{"negative top_k", "q", "", -1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.query, tc.mode, tc.topK, "", Defaults{})
			if !errors.Is(err, domain.ErrInvalidRequest) {
				t.Errorf("expected ErrInvalidRequest, got %v", err)
			}
		})
	}
}

func TestMatchesCategory(t *testing.T) {
	r, _ := New("q", "", 0, "travel", Defaults{})
	if !r.MatchesCategory("Travel") {
		t.Error("expected case-insensitive match")
	}
	if r.MatchesCategory("Dining") {
		t.Error("unexpected match")
	}

	all, _ := New("q", "", 0, "", Defaults{})
	if !all.MatchesCategory("Other") {
		t.Error("empty filter should match everything")
	}
}
