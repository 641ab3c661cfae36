package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/hyperjump/kotoba/internal/models"
)

func testPattern() *models.SearchPattern {
	p := models.NewSearchPattern("zeichn")
	p.AddTerm("zeichnet", 0.5)
	p.AddTerm("zeichen", 0.05)
	p.AddTerm("zweichnet", 0.025)
	return p
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", OutputText, false},
		{"text", OutputText, false},
		{"JSON", OutputJSON, false},
		{" compact ", OutputCompact, false},
		{"yaml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseOutputFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseOutputFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseOutputFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWritePattern_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePattern(&buf, testPattern(), OutputJSON); err != nil {
		t.Fatalf("WritePattern(json): %v", err)
	}
	var decoded models.SearchPattern
	if err := json.NewDecoder(&buf).Decode(&decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Original.Term != "zeichn" || decoded.Original.Weight != 1 {
		t.Errorf("original = %+v", decoded.Original)
	}
	if got := decoded.Keywords(); strings.Join(got, ",") != "zeichnet,zeichen,zweichnet" {
		t.Errorf("keywords = %v", got)
	}
}

func TestWritePattern_compact(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePattern(&buf, testPattern(), OutputCompact); err != nil {
		t.Fatalf("WritePattern(compact): %v", err)
	}
	want := "zeichn^1 zeichnet^0.5 zeichen^0.05 zweichnet^0.025\n"
	if buf.String() != want {
		t.Errorf("compact = %q, want %q", buf.String(), want)
	}
}

func TestCompactPattern_quotesPhrases(t *testing.T) {
	p := models.NewSearchPattern("zweite kabel")
	p.AddTerm("netzwerkkabel", 1.0/30)
	got := CompactPattern(p)
	want := `"zweite kabel"^1 netzwerkkabel^0.03333`
	if got != want {
		t.Errorf("CompactPattern = %q, want %q", got, want)
	}
}

func TestWritePattern_text(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePattern(&buf, testPattern(), OutputText); err != nil {
		t.Fatalf("WritePattern(text): %v", err)
	}
	out := buf.String()
	for _, sub := range []string{`"zeichn" (3 keywords)`, "1.0000  zeichn (original)", "0.5000  zeichnet", "0.0250  zweichnet"} {
		if !strings.Contains(out, sub) {
			t.Errorf("text output missing %q:\n%s", sub, out)
		}
	}
}

func TestWritePattern_unknownFormatTreatedAsText(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePattern(&buf, testPattern(), OutputFormat("unknown")); err != nil {
		t.Fatalf("WritePattern(unknown): %v", err)
	}
	if !strings.Contains(buf.String(), "Search pattern for") {
		t.Errorf("unknown format should fall back to text; got %q", buf.String())
	}
}

func TestWriteInterpretation(t *testing.T) {
	result := &models.Interpretation{
		Pattern:      testPattern(),
		Tokens:       []string{"zeichn"},
		PatternCount: 24,
		Candidates:   3,
		Matches: []models.ScoredMatch{
			{Keyword: "zeichnet", Token: "zeichn", Distance: 3, Score: 0.5, Longer: "zeichnet", Shorter: "zeichn"},
		},
	}

	var buf bytes.Buffer
	if err := WriteInterpretation(&buf, result, OutputText); err != nil {
		t.Fatalf("WriteInterpretation(text): %v", err)
	}
	out := buf.String()
	for _, sub := range []string{"Tokens: zeichn", "Patterns: 24 | Candidates: 3 | Matches: 1", "distance=3", "score=0.5000", "Search pattern for"} {
		if !strings.Contains(out, sub) {
			t.Errorf("text output missing %q:\n%s", sub, out)
		}
	}

	buf.Reset()
	if err := WriteInterpretation(&buf, result, OutputJSON); err != nil {
		t.Fatalf("WriteInterpretation(json): %v", err)
	}
	var decoded models.Interpretation
	if err := json.NewDecoder(&buf).Decode(&decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.PatternCount != 24 || len(decoded.Matches) != 1 {
		t.Errorf("decoded = %+v", decoded)
	}

	buf.Reset()
	if err := WriteInterpretation(&buf, result, OutputCompact); err != nil {
		t.Fatalf("WriteInterpretation(compact): %v", err)
	}
	if !strings.HasPrefix(buf.String(), "zeichn^1 ") {
		t.Errorf("compact = %q", buf.String())
	}
}

func TestWriteKeywords(t *testing.T) {
	entries := []*models.DictionaryEntry{
		{ID: 1, Scope: "product", Keyword: "netzwerk"},
		{ID: 2, Scope: "product", Keyword: "netzwerkkabel"},
	}

	var buf bytes.Buffer
	if err := WriteKeywords(&buf, entries, 10, OutputText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Showing 2 of 10 keywords") || !strings.Contains(buf.String(), "netzwerkkabel") {
		t.Errorf("text output:\n%s", buf.String())
	}

	buf.Reset()
	if err := WriteKeywords(&buf, entries, 10, OutputCompact); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "netzwerk\nnetzwerkkabel\n" {
		t.Errorf("compact output = %q", buf.String())
	}

	buf.Reset()
	if err := WriteKeywords(&buf, nil, 0, OutputJSON); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"keywords": []`) {
		t.Errorf("json output = %q", buf.String())
	}
}

func TestPrintPattern(t *testing.T) {
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w
	defer func() {
		os.Stdout = oldStdout
		_ = w.Close()
	}()
	PrintPattern(testPattern())
	_ = w.Close()
	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	if !strings.Contains(buf.String(), "zeichnet") {
		t.Errorf("PrintPattern should write to stdout; got %q", buf.String())
	}
}
