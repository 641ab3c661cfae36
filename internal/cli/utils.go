// Package cli provides CLI output formatting for kotoba.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/hyperjump/kotoba/internal/models"
	"github.com/hyperjump/kotoba/pkg/utils"
)

// OutputFormat is the format for interpreter output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputCompact is a single line of boosted terms, usable as a full-text query string.
	OutputCompact OutputFormat = "compact"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

const maxKeywordWidth = 60

// ParseOutputFormat validates a --output flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "", OutputText:
		return OutputText, nil
	case OutputCompact, OutputJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (use text, compact or json)", s)
	}
}

// WritePattern writes a search pattern to w in the given format.
func WritePattern(w io.Writer, pattern *models.SearchPattern, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, pattern)
	case OutputCompact:
		_, err := fmt.Fprintln(w, CompactPattern(pattern))
		return err
	default:
		writePatternText(w, pattern)
		return nil
	}
}

// WriteInterpretation writes an explained interpreter run. Compact output is the same as for
// WritePattern.
func WriteInterpretation(w io.Writer, result *models.Interpretation, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, result)
	case OutputCompact:
		return WritePattern(w, result.Pattern, OutputCompact)
	}
	fmt.Fprintf(w, "\nTokens: %s\n", strings.Join(result.Tokens, ", "))
	fmt.Fprintf(w, "Patterns: %d | Candidates: %d | Matches: %d\n", result.PatternCount, result.Candidates, len(result.Matches))
	if len(result.Matches) > 0 {
		fmt.Fprintln(w, "\n--- Matches ---")
		for i, m := range result.Matches {
			fmt.Fprintf(w, "%2d. %-30s token=%s distance=%d score=%.4f\n",
				i+1, utils.Truncate(m.Keyword, maxKeywordWidth), m.Token, m.Distance, m.Score)
		}
	}
	writePatternText(w, result.Pattern)
	return nil
}

// CompactPattern renders the pattern as space-separated term^weight pairs.
// Terms with spaces are quoted.
func CompactPattern(pattern *models.SearchPattern) string {
	parts := make([]string, 0, len(pattern.Terms)+1)
	for _, t := range pattern.AllTerms() {
		term := t.Term
		if strings.ContainsAny(term, " \t") {
			term = strconv.Quote(term)
		}
		parts = append(parts, term+"^"+strconv.FormatFloat(t.Weight, 'g', 4, 64))
	}
	return strings.Join(parts, " ")
}

func writePatternText(w io.Writer, pattern *models.SearchPattern) {
	fmt.Fprintf(w, "\nSearch pattern for %q (%d keywords)\n", pattern.Original.Term, len(pattern.Terms))
	fmt.Fprintln(w, "─────────────────────────────────────────────────────────")
	fmt.Fprintf(w, "  %.4f  %s (original)\n", pattern.Original.Weight, pattern.Original.Term)
	for _, t := range pattern.Terms {
		fmt.Fprintf(w, "  %.4f  %s\n", t.Weight, utils.Truncate(t.Term, maxKeywordWidth))
	}
	fmt.Fprintln(w)
}

// WriteKeywords writes dictionary entries to w.
func WriteKeywords(w io.Writer, entries []*models.DictionaryEntry, total int64, format OutputFormat) error {
	switch format {
	case OutputJSON:
		if entries == nil {
			entries = []*models.DictionaryEntry{}
		}
		return writeJSON(w, map[string]interface{}{"total": total, "keywords": entries})
	case OutputCompact:
		for _, e := range entries {
			if _, err := fmt.Fprintln(w, e.Keyword); err != nil {
				return err
			}
		}
		return nil
	}
	fmt.Fprintf(w, "Showing %d of %d keywords\n", len(entries), total)
	for _, e := range entries {
		fmt.Fprintf(w, "%8d  %-12s %s\n", e.ID, e.Scope, utils.Truncate(e.Keyword, maxKeywordWidth))
	}
	return nil
}

// PrintPattern prints a pattern to stdout in text format.
func PrintPattern(pattern *models.SearchPattern) {
	_ = WritePattern(os.Stdout, pattern, OutputText)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
