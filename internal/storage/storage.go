// Package storage persists the per-tenant keyword dictionary the interpreter matches against.
package storage

import (
	"context"

	"github.com/hyperjump/kotoba/internal/models"
)

// Dictionary defines keyword lookup and maintenance operations.
type Dictionary interface {
	// FindKeywordsMatching returns the distinct keywords of scope matching any keyword pattern
	// or whose reversed form matches any reversed pattern, in insertion order.
	FindKeywordsMatching(ctx context.Context, patterns models.PatternSet, scope string, tc models.TenantContext) ([]string, error)

	AddKeywords(ctx context.Context, tc models.TenantContext, scope string, keywords []string) (int, error)
	// ReplaceKeywords atomically swaps the whole scope for keywords.
	ReplaceKeywords(ctx context.Context, tc models.TenantContext, scope string, keywords []string) (int, error)
	// DeleteKeywords removes the given keywords, or the whole scope when keywords is empty.
	DeleteKeywords(ctx context.Context, tc models.TenantContext, scope string, keywords []string) (int, error)
	ListKeywords(ctx context.Context, tc models.TenantContext, scope string, offset, limit int) ([]*models.DictionaryEntry, error)
	CountKeywords(ctx context.Context, tc models.TenantContext, scope string) (int64, error)
	ScopeCounts(ctx context.Context, tc models.TenantContext) (map[string]int64, error)

	// Revision changes whenever the scope's keywords change.
	Revision(ctx context.Context, tc models.TenantContext, scope string) (int64, error)

	Close() error
}
