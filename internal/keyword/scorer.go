package keyword

import (
	"sort"
	"strings"

	"github.com/hyperjump/kotoba/internal/models"
)

// Score tiers.
const (
	ExactScore      = 0.8
	PrefixScore     = 0.5
	TailPrefixScore = 0.1
	fallbackDivisor = 10.0
)

// DefaultMaxMatches is how many ranked keywords a pattern carries.
const DefaultMaxMatches = 10

// Score rates each candidate keyword against its closest token. Tokens must be non-empty.
// Candidates keep their input order.
func Score(tokens []string, candidates []string) []models.ScoredMatch {
	if len(tokens) == 0 {
		return nil
	}
	matches := make([]models.ScoredMatch, 0, len(candidates))
	for _, keyword := range candidates {
		matches = append(matches, scoreOne(tokens, keyword))
	}
	return matches
}

func scoreOne(tokens []string, keyword string) models.ScoredMatch {
	best := tokens[0]
	bestDist := LevenshteinDistance(best, keyword)
	for _, token := range tokens[1:] {
		if d := LevenshteinDistance(token, keyword); d < bestDist {
			best, bestDist = token, d
		}
	}

	distance := bestDist + 1
	longer, shorter := best, keyword
	if keyword > best {
		longer, shorter = keyword, best
	}

	var score float64
	switch {
	case keyword == best:
		score = ExactScore
	case strings.HasPrefix(longer, shorter):
		score = PrefixScore
	case strings.HasPrefix(dropFirstRune(longer), dropFirstRune(shorter)):
		score = TailPrefixScore
	default:
		score = 1 / float64(distance) / fallbackDivisor
	}

	return models.ScoredMatch{
		Keyword:  keyword,
		Token:    best,
		Distance: distance,
		Score:    score,
		Longer:   longer,
		Shorter:  shorter,
	}
}

func dropFirstRune(s string) string {
	for i := range s {
		if i > 0 {
			return s[i:]
		}
	}
	return ""
}

// Rank sorts matches by descending score, keeping input order for ties, and keeps at most limit.
// A limit <= 0 or above DefaultMaxMatches keeps DefaultMaxMatches.
func Rank(matches []models.ScoredMatch, limit int) []models.ScoredMatch {
	if limit <= 0 || limit > DefaultMaxMatches {
		limit = DefaultMaxMatches
	}
	ranked := make([]models.ScoredMatch, len(matches))
	copy(ranked, matches)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// BuildPattern returns the original phrase followed by the ranked keywords weighted by score.
func BuildPattern(original string, ranked []models.ScoredMatch) *models.SearchPattern {
	pattern := models.NewSearchPattern(original)
	for _, m := range ranked {
		pattern.AddTerm(m.Keyword, m.Score)
	}
	return pattern
}
