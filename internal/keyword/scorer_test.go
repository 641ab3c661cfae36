package keyword

import (
	"math"
	"testing"

	"github.com/hyperjump/kotoba/internal/models"
)

func TestScore_Tiers(t *testing.T) {
	tests := []struct {
		name         string
		tokens       []string
		keyword      string
		wantScore    float64
		wantDistance int
		wantToken    string
	}{
		{"exact", []string{"netz"}, "netz", ExactScore, 1, "netz"},
		{"keyword extends token", []string{"zeichn"}, "zeichnet", PrefixScore, 3, "zeichn"},
		{"token extends keyword", []string{"netzwerke"}, "netzwerk", PrefixScore, 2, "netzwerke"},
		{"first rune differs", []string{"bar"}, "car", TailPrefixScore, 2, "bar"},
		{"lexicographic order beats length", []string{"zeichn"}, "zeichen", 1.0 / 2 / 10, 2, "zeichn"},
		{"fallback", []string{"zeichn"}, "zweichnet", 1.0 / 4 / 10, 4, "zeichn"},
		{"closest token wins", []string{"kabel", "zeichn"}, "zeichnet", PrefixScore, 3, "zeichn"},
		{"tie keeps first token", []string{"abc", "abd"}, "abx", 1.0 / 2 / 10, 2, "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.tokens, []string{tt.keyword})
			if len(got) != 1 {
				t.Fatalf("expected 1 match, got %d", len(got))
			}
			m := got[0]
			if math.Abs(m.Score-tt.wantScore) > 1e-9 {
				t.Errorf("score = %v, want %v", m.Score, tt.wantScore)
			}
			if m.Distance != tt.wantDistance {
				t.Errorf("distance = %d, want %d", m.Distance, tt.wantDistance)
			}
			if m.Token != tt.wantToken {
				t.Errorf("token = %q, want %q", m.Token, tt.wantToken)
			}
			if m.Score <= 0 || m.Score > 1 {
				t.Errorf("score %v outside (0, 1]", m.Score)
			}
		})
	}
}

func TestScore_LongerShorterAreLexicographic(t *testing.T) {
	m := Score([]string{"zeichn"}, []string{"zeichen"})[0]
	if m.Longer != "zeichn" || m.Shorter != "zeichen" {
		t.Errorf("longer/shorter = %q/%q", m.Longer, m.Shorter)
	}
}

func TestScore_FirstRuneIsMultiByte(t *testing.T) {
	m := Score([]string{"über"}, []string{"aber"})[0]
	if m.Score != TailPrefixScore {
		t.Errorf("score = %v, want %v", m.Score, TailPrefixScore)
	}
}

func TestScore_NoTokens(t *testing.T) {
	if got := Score(nil, []string{"netz"}); len(got) != 0 {
		t.Errorf("expected no matches, got %v", got)
	}
}

func TestRank(t *testing.T) {
	matches := []models.ScoredMatch{
		{Keyword: "a", Score: 0.1},
		{Keyword: "b", Score: 0.5},
		{Keyword: "c", Score: 0.1},
		{Keyword: "d", Score: 0.8},
	}
	ranked := Rank(matches, 3)
	want := []string{"d", "b", "a"}
	if len(ranked) != len(want) {
		t.Fatalf("len = %d, want %d", len(ranked), len(want))
	}
	for i, w := range want {
		if ranked[i].Keyword != w {
			t.Errorf("ranked[%d] = %q, want %q", i, ranked[i].Keyword, w)
		}
	}
	if matches[0].Keyword != "a" {
		t.Error("Rank must not reorder its input")
	}
}

func TestRank_DefaultLimit(t *testing.T) {
	matches := make([]models.ScoredMatch, 25)
	for i := range matches {
		matches[i] = models.ScoredMatch{Keyword: string(rune('a' + i)), Score: float64(i%5+1) / 10}
	}
	ranked := Rank(matches, 0)
	if len(ranked) != DefaultMaxMatches {
		t.Fatalf("len = %d, want %d", len(ranked), DefaultMaxMatches)
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].Score > ranked[i-1].Score {
			t.Errorf("scores not non-increasing at %d", i)
		}
	}
}

func TestRank_LimitCappedAtDefault(t *testing.T) {
	matches := make([]models.ScoredMatch, 25)
	for i := range matches {
		matches[i] = models.ScoredMatch{Keyword: string(rune('a' + i)), Score: 0.1}
	}
	ranked := Rank(matches, 50)
	if len(ranked) != DefaultMaxMatches {
		t.Fatalf("len = %d, want %d", len(ranked), DefaultMaxMatches)
	}
	if ranked[0].Keyword != "a" || ranked[DefaultMaxMatches-1].Keyword != "j" {
		t.Errorf("ties must keep input order, got %q..%q", ranked[0].Keyword, ranked[DefaultMaxMatches-1].Keyword)
	}
}

func TestBuildPattern(t *testing.T) {
	ranked := []models.ScoredMatch{{Keyword: "zeichnet", Score: 0.5}, {Keyword: "zeichen", Score: 0.05}}
	p := BuildPattern("zeichn", ranked)
	if p.Original.Term != "zeichn" || p.Original.Weight != models.OriginalTermWeight {
		t.Errorf("original = %+v", p.Original)
	}
	if len(p.Terms) != 2 || p.Terms[0].Term != "zeichnet" || p.Terms[1].Weight != 0.05 {
		t.Errorf("terms = %+v", p.Terms)
	}
}
