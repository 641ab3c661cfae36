// Package models holds the data types shared by the interpreter, the keyword store and the API.
package models

import (
	"fmt"

	"github.com/google/uuid"
)

// Platform defaults used when a request carries no tenant or language.
var (
	DefaultTenantID   = uuid.MustParse("20080911ffff4fffafffffff19830531")
	DefaultLanguageID = uuid.MustParse("2fbb5fe2e29a4d70aa5854ce7ce3e20b")
)

// TenantContext scopes every dictionary lookup to one tenant and language.
type TenantContext struct {
	TenantID   uuid.UUID `json:"tenant_id"`
	LanguageID uuid.UUID `json:"language_id"`
}

// DefaultTenantContext returns the context of the default tenant and system language.
func DefaultTenantContext() TenantContext {
	return TenantContext{TenantID: DefaultTenantID, LanguageID: DefaultLanguageID}
}

// ParseTenantContext parses tenant and language ids. Empty values fall back to fallback.
func ParseTenantContext(tenant, language string, fallback TenantContext) (TenantContext, error) {
	tc := fallback
	if tenant != "" {
		id, err := uuid.Parse(tenant)
		if err != nil {
			return TenantContext{}, fmt.Errorf("invalid tenant id %q: %w", tenant, err)
		}
		tc.TenantID = id
	}
	if language != "" {
		id, err := uuid.Parse(language)
		if err != nil {
			return TenantContext{}, fmt.Errorf("invalid language id %q: %w", language, err)
		}
		tc.LanguageID = id
	}
	return tc, nil
}

// String returns "tenant/language" in hex form.
func (tc TenantContext) String() string {
	return tc.TenantID.String() + "/" + tc.LanguageID.String()
}
