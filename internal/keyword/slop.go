package keyword

import (
	"fmt"
	"strings"

	"github.com/hyperjump/kotoba/internal/models"
)

// Strategy selects how typo-tolerant LIKE patterns are derived from a token.
type Strategy string

const (
	// StrategyAnchored matches keyword prefixes and, through the reversed column, keyword suffixes.
	StrategyAnchored Strategy = "anchored"
	// StrategySubstring wraps every variant in % on both sides and matches anywhere in the keyword.
	StrategySubstring Strategy = "substring"
)

// ParseStrategy returns the Strategy named s. An empty name selects StrategyAnchored.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyAnchored:
		return StrategyAnchored, nil
	case StrategySubstring:
		return StrategySubstring, nil
	}
	return "", fmt.Errorf("unknown pattern strategy %q", s)
}

// likeEscape is the escape character the keyword store declares in its LIKE clauses.
const likeEscape = `\`

// Slop returns S for a token of n runes. S bounds both the number of runes a variant
// may skip and the number of single-rune placeholders it may insert.
func Slop(n int) int {
	if n > 4 {
		return 2
	}
	return 1
}

// Generate builds the de-duplicated pattern set for all tokens, in token order.
func Generate(tokens []string, strategy Strategy) models.PatternSet {
	b := newPatternBuilder()
	for _, token := range tokens {
		if token == "" {
			continue
		}
		runes := []rune(token)
		switch strategy {
		case StrategySubstring:
			substringPatterns(b, runes)
		default:
			anchoredPatterns(b, runes)
		}
	}
	return b.set
}

// substringPatterns emits '%' + t[:i] + '_'*p + t[i+g:] + '%' for every cut position i.
func substringPatterns(b *patternBuilder, t []rune) {
	if len(t) <= 1 {
		b.keyword("%" + escapeLike(t) + "%")
		return
	}
	slop := Slop(len(t))
	for i := 0; i < len(t); i++ {
		for g := 1; g <= slop; g++ {
			for p := 0; p <= slop; p++ {
				b.keyword("%" + variant(t, i, g, p) + "%")
			}
		}
	}
}

// anchoredPatterns keeps the first rune of the token (and of its reverse) fixed and
// cuts at every other position, so each pattern is a prefix match on its column.
func anchoredPatterns(b *patternBuilder, t []rune) {
	rev := reverseRunes(t)
	if len(t) <= 2 {
		b.keyword(escapeLike(t) + "%")
		b.reversed(escapeLike(rev) + "%")
		return
	}
	slop := Slop(len(t))
	for i := 1; i <= len(t)-2; i += 2 {
		for g := 1; g <= slop; g++ {
			for p := 0; p <= slop; p++ {
				b.keyword(variant(t, i, g, p) + "%")
				b.reversed(variant(rev, i, g, p) + "%")
			}
		}
	}
}

// variant returns t[:i] + '_'*p + t[i+g:] with t's LIKE metacharacters escaped.
func variant(t []rune, i, g, p int) string {
	var sb strings.Builder
	sb.WriteString(escapeLike(t[:i]))
	sb.WriteString(strings.Repeat("_", p))
	if i+g < len(t) {
		sb.WriteString(escapeLike(t[i+g:]))
	}
	return sb.String()
}

func escapeLike(r []rune) string {
	var sb strings.Builder
	for _, c := range r {
		switch c {
		case '%', '_', '\\':
			sb.WriteString(likeEscape)
		}
		sb.WriteRune(c)
	}
	return sb.String()
}

// Reverse returns s with its runes in reverse order.
func Reverse(s string) string {
	return string(reverseRunes([]rune(s)))
}

func reverseRunes(r []rune) []rune {
	out := make([]rune, len(r))
	for i, c := range r {
		out[len(r)-1-i] = c
	}
	return out
}

type patternBuilder struct {
	set  models.PatternSet
	seen map[string]struct{}
}

func newPatternBuilder() *patternBuilder {
	return &patternBuilder{
		set:  models.PatternSet{Keyword: []string{}, Reversed: []string{}},
		seen: make(map[string]struct{}),
	}
}

func (b *patternBuilder) keyword(p string) {
	if _, ok := b.seen["k"+p]; ok {
		return
	}
	b.seen["k"+p] = struct{}{}
	b.set.Keyword = append(b.set.Keyword, p)
}

func (b *patternBuilder) reversed(p string) {
	if _, ok := b.seen["r"+p]; ok {
		return
	}
	b.seen["r"+p] = struct{}{}
	b.set.Reversed = append(b.set.Reversed, p)
}
