package extract

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// extractPlain returns one fragment per non-empty line. Invalid UTF-8 is replaced.
func extractPlain(content []byte) ([]string, error) {
	return splitLines(validUTF8(content)), nil
}

// extractCSV returns every non-empty cell. Rows may have differing field counts.
func extractCSV(content []byte) ([]string, error) {
	r := csv.NewReader(strings.NewReader(validUTF8(bytes.TrimPrefix(content, []byte("\xef\xbb\xbf")))))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var out []string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV: %w", err)
		}
		for _, cell := range record {
			if cell = strings.TrimSpace(cell); cell != "" {
				out = append(out, cell)
			}
		}
	}
	return out, nil
}

func validUTF8(content []byte) string {
	if !utf8.Valid(content) {
		return strings.ToValidUTF8(string(content), "\ufffd")
	}
	return string(content)
}
