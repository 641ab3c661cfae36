package models

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestInterpretRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		req       *InterpretRequest
		minLength int
		wantErr   bool
		wantScope string
	}{
		{"valid", &InterpretRequest{Term: "zeichn"}, 3, false, "product"},
		{"too short", &InterpretRequest{Term: "ab"}, 3, true, "product"},
		{"trimmed before check", &InterpretRequest{Term: "  ab  "}, 3, true, "product"},
		{"rune length", &InterpretRequest{Term: "büro"}, 4, false, "product"},
		{"check disabled", &InterpretRequest{Term: ""}, 0, false, "product"},
		{"keeps scope", &InterpretRequest{Term: "netz", Scope: "category"}, 3, false, "category"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate(tt.minLength, "product")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrTermTooShort) {
				t.Errorf("expected ErrTermTooShort, got %v", err)
			}
			if tt.req.Scope != tt.wantScope {
				t.Errorf("scope = %q, want %q", tt.req.Scope, tt.wantScope)
			}
		})
	}
}

func TestParseTenantContext(t *testing.T) {
	fallback := DefaultTenantContext()
	tenant := uuid.New()

	tc, err := ParseTenantContext(tenant.String(), "", fallback)
	if err != nil {
		t.Fatal(err)
	}
	if tc.TenantID != tenant || tc.LanguageID != DefaultLanguageID {
		t.Errorf("got %v", tc)
	}

	tc, err = ParseTenantContext("", "", fallback)
	if err != nil {
		t.Fatal(err)
	}
	if tc != fallback {
		t.Errorf("expected fallback, got %v", tc)
	}

	if _, err := ParseTenantContext("not-a-uuid", "", fallback); err == nil {
		t.Error("expected error for invalid tenant id")
	}
}

func TestSearchPattern(t *testing.T) {
	p := NewSearchPattern("zeichn")
	if len(p.AllTerms()) != 1 || p.AllTerms()[0].Weight != OriginalTermWeight {
		t.Fatalf("unexpected initial pattern %+v", p)
	}
	p.AddTerm("zeichnet", 0.5)
	p.AddTerm("zeichen", 0.05)

	all := p.AllTerms()
	if len(all) != 3 || all[0].Term != "zeichn" || all[1].Term != "zeichnet" {
		t.Errorf("AllTerms() = %+v", all)
	}
	kw := p.Keywords()
	if len(kw) != 2 || kw[0] != "zeichnet" || kw[1] != "zeichen" {
		t.Errorf("Keywords() = %v", kw)
	}
}
