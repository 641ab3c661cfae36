package models

// SearchTerm is a term with the weight it contributes to a full-text query.
type SearchTerm struct {
	Term   string  `json:"term"`
	Weight float64 `json:"weight"`
}

// OriginalTermWeight is the weight of the user's own phrase in a SearchPattern.
const OriginalTermWeight = 1.0

// SearchPattern is the interpreter's output: the original phrase plus ranked dictionary keywords.
type SearchPattern struct {
	Original SearchTerm   `json:"original"`
	Terms    []SearchTerm `json:"terms"`
}

// NewSearchPattern returns a pattern that only holds the original phrase.
func NewSearchPattern(original string) *SearchPattern {
	return &SearchPattern{
		Original: SearchTerm{Term: original, Weight: OriginalTermWeight},
		Terms:    []SearchTerm{},
	}
}

// AddTerm appends a weighted keyword.
func (p *SearchPattern) AddTerm(term string, weight float64) {
	p.Terms = append(p.Terms, SearchTerm{Term: term, Weight: weight})
}

// AllTerms returns the original term followed by the ranked terms.
func (p *SearchPattern) AllTerms() []SearchTerm {
	out := make([]SearchTerm, 0, len(p.Terms)+1)
	out = append(out, p.Original)
	return append(out, p.Terms...)
}

// Keywords returns the ranked term strings in order.
func (p *SearchPattern) Keywords() []string {
	out := make([]string, len(p.Terms))
	for i, t := range p.Terms {
		out[i] = t.Term
	}
	return out
}

// PatternSet holds LIKE patterns for the keyword column and for the reversed-keyword column.
type PatternSet struct {
	Keyword  []string `json:"keyword"`
	Reversed []string `json:"reversed,omitempty"`
}

// Len is the total number of patterns.
func (s PatternSet) Len() int {
	return len(s.Keyword) + len(s.Reversed)
}

// ScoredMatch records how a dictionary keyword matched the closest token.
type ScoredMatch struct {
	Keyword  string  `json:"keyword"`
	Token    string  `json:"token"`
	Distance int     `json:"distance"`
	Score    float64 `json:"score"`
	Longer   string  `json:"longer"`
	Shorter  string  `json:"shorter"`
}

// Interpretation is the diagnostic view of one interpreter run.
type Interpretation struct {
	Pattern      *SearchPattern `json:"pattern"`
	Tokens       []string       `json:"tokens"`
	PatternCount int            `json:"pattern_count"`
	Candidates   int            `json:"candidates"`
	Matches      []ScoredMatch  `json:"matches"`
}
