package keyword

import (
	"unicode/utf8"

	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
)

// Tokenizer splits a raw search phrase into normalized tokens.
type Tokenizer interface {
	Tokenize(phrase string) []string
}

// BleveTokenizer segments on Unicode word boundaries and lowercases each word.
// Tokens shorter than minLength runes are dropped and duplicates are removed,
// keeping the first occurrence.
type BleveTokenizer struct {
	tokenizer *unicode.UnicodeTokenizer
	lower     *lowercase.LowerCaseFilter
	minLength int
}

// NewBleveTokenizer returns a tokenizer. minLength < 1 is treated as 1.
func NewBleveTokenizer(minLength int) *BleveTokenizer {
	if minLength < 1 {
		minLength = 1
	}
	return &BleveTokenizer{
		tokenizer: unicode.NewUnicodeTokenizer(),
		lower:     lowercase.NewLowerCaseFilter(),
		minLength: minLength,
	}
}

// Tokenize implements Tokenizer.
func (t *BleveTokenizer) Tokenize(phrase string) []string {
	if phrase == "" {
		return nil
	}
	stream := t.lower.Filter(t.tokenizer.Tokenize([]byte(phrase)))

	seen := make(map[string]struct{}, len(stream))
	tokens := make([]string, 0, len(stream))
	for _, tok := range stream {
		term := string(tok.Term)
		if utf8.RuneCountInString(term) < t.minLength {
			continue
		}
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		tokens = append(tokens, term)
	}
	return tokens
}
