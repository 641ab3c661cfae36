package models

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrTermTooShort is returned by InterpretRequest.Validate when the phrase is below the minimum length.
var ErrTermTooShort = errors.New("search term is too short")

// InterpretRequest is an API request to interpret a search phrase.
type InterpretRequest struct {
	Term       string `json:"term"`
	Scope      string `json:"scope,omitempty"`
	TenantID   string `json:"tenant_id,omitempty"`
	LanguageID string `json:"language_id,omitempty"`
	Explain    bool   `json:"explain,omitempty"`
}

// Validate trims the term, applies the default scope and enforces minTermLength (in runes).
// A minTermLength of zero disables the length check.
func (r *InterpretRequest) Validate(minTermLength int, defaultScope string) error {
	r.Term = strings.TrimSpace(r.Term)
	r.Scope = strings.TrimSpace(r.Scope)
	if r.Scope == "" {
		r.Scope = defaultScope
	}
	if minTermLength > 0 && utf8.RuneCountInString(r.Term) < minTermLength {
		return fmt.Errorf("%w: need at least %d characters", ErrTermTooShort, minTermLength)
	}
	return nil
}
