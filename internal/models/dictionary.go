package models

import (
	"time"

	"github.com/google/uuid"
)

// DictionaryEntry is one stored keyword of a tenant/language/scope dictionary.
type DictionaryEntry struct {
	ID         int64     `json:"id"`
	TenantID   uuid.UUID `json:"tenant_id"`
	LanguageID uuid.UUID `json:"language_id"`
	Scope      string    `json:"scope"`
	Keyword    string    `json:"keyword"`
	Reversed   string    `json:"reversed"`
	CreatedAt  time.Time `json:"created_at"`
}
