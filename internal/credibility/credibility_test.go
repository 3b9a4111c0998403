// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package credibility

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/report-engine/pkg/types"
)

func TestLevelFromScoreBoundaries(t *testing.T) {
	tests := []struct {
		score int
		want  types.CredibilityLevel
	}{
		{100, types.LevelHigh},
		{71, types.LevelHigh},
		{70, types.LevelHigh},
		{69, types.LevelMedium},
		{50, types.LevelMedium},
		{45, types.LevelMedium},
		{44, types.LevelLow},
		{0, types.LevelLow},
		{-10, types.LevelLow},
	}
	for _, tt := range tests {
		if got := LevelFromScore(tt.score); got != tt.want {
			t.Errorf("LevelFromScore(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestAssessHighTrustDomain(t *testing.T) {
	s := NewScorer(Lists{})

	got := s.Assess(
		"https://en.wikipedia.org/wiki/Tesla,_Inc.",
		"Tesla, Inc.",
		strings.Repeat("a", 500),
	)

	// 50 baseline + 30 high-trust + 5 content length = 85.
	if got.Score != 85 {
		t.Errorf("Score = %d, want 85", got.Score)
	}
	if got.Level != types.LevelHigh {
		t.Errorf("Level = %q, want High", got.Level)
	}
	if got.Domain != "en.wikipedia.org" {
		t.Errorf("Domain = %q, want en.wikipedia.org", got.Domain)
	}
}

func TestAssessCommercialDomain(t *testing.T) {
	s := NewScorer(Lists{})

	got := s.Assess(
		"https://cheapteslaparts-sale.com/deals",
		"Cheap Tesla Parts",
		strings.Repeat("x", 50),
	)

	// 50 baseline - 25 commercial intent = 25.
	if got.Score != 25 {
		t.Errorf("Score = %d, want 25", got.Score)
	}
	if got.Level != types.LevelLow {
		t.Errorf("Level = %q, want Low", got.Level)
	}
}

func TestAssessAdjustments(t *testing.T) {
	s := NewScorer(Lists{})

	tests := []struct {
		name    string
		url     string
		title   string
		content string
		want    int
	}{
		{
			name:  "mid-trust domain",
			url:   "https://techcrunch.com/2024/tesla",
			title: "Tesla update",
			want:  55,
		},
		{
			name:  "official company site bonus",
			url:   "https://tesla.com/about",
			title: "Tesla | Official Site",
			want:  60,
		},
		{
			name:  "company title on co.uk",
			url:   "https://examplemotors.co.uk/about",
			title: "Example Motors company profile",
			want:  60,
		},
		{
			name:  "no official bonus for commercial domain",
			url:   "https://teslashop.com",
			title: "Official Tesla Shop",
			want:  25,
		},
		{
			name:    "content with year",
			url:     "https://unknown-blog.net/post",
			title:   "Some post",
			content: "Founded in 2003, the firm grew quickly.",
			want:    55,
		},
		{
			name:    "long content with year",
			url:     "https://unknown-blog.net/post",
			title:   "Some post",
			content: strings.Repeat("In 2003 the firm grew. ", 20),
			want:    60,
		},
		{
			name:  "unparseable url scores neutral",
			url:   "://not a url",
			title: "whatever",
			want:  50,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Assess(tt.url, tt.title, tt.content)
			if got.Score != tt.want {
				t.Errorf("Score = %d, want %d", got.Score, tt.want)
			}
			if got.Level != LevelFromScore(got.Score) {
				t.Errorf("Level = %q, not derived from score %d", got.Level, got.Score)
			}
		})
	}
}

func TestAssessSuffixMatching(t *testing.T) {
	s := NewScorer(Lists{})

	// .gov matches as a suffix, not as a substring: a .com domain that
	// merely contains "gov" must not get the high-trust bonus.
	gov := s.Assess("https://www.nhtsa.gov/recalls", "Recalls", "")
	if gov.Score != 80 {
		t.Errorf(".gov score = %d, want 80", gov.Score)
	}

	fake := s.Assess("https://governyourmoney.com/tips", "Tips", "")
	if fake.Score != 50 {
		t.Errorf("substring-only score = %d, want 50", fake.Score)
	}
}

func TestAssessDeterministic(t *testing.T) {
	s := NewScorer(Lists{})
	a := s.Assess("https://reuters.com/article", "Tesla earnings", "Reported in 2024.")
	b := s.Assess("https://reuters.com/article", "Tesla earnings", "Reported in 2024.")
	if a != b {
		t.Errorf("Assess not deterministic: %+v vs %+v", a, b)
	}
}

func TestLoadLists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trust.yaml")
	content := "high:\n  - example.org\ncommercial:\n  - promo\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	lists, err := LoadLists(path)
	if err != nil {
		t.Fatalf("LoadLists: %v", err)
	}
	if len(lists.High) != 1 || lists.High[0] != "example.org" {
		t.Errorf("High = %v, want [example.org]", lists.High)
	}
	if len(lists.Commercial) != 1 || lists.Commercial[0] != "promo" {
		t.Errorf("Commercial = %v, want [promo]", lists.Commercial)
	}
	// Omitted sections keep defaults.
	if len(lists.Medium) == 0 {
		t.Error("Medium should fall back to defaults")
	}
}

func TestLoadListsMissingFile(t *testing.T) {
	_, err := LoadLists(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
