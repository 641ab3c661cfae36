package search

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/hyperjump/kotoba/internal/models"
)

// RevisionedFinder is a KeywordFinder that reports when a scope's dictionary changes.
type RevisionedFinder interface {
	KeywordFinder
	Revision(ctx context.Context, tc models.TenantContext, scope string) (int64, error)
}

// CachedFinder memoizes keyword lookups per tenant, language, scope and pattern set.
// Entries are keyed by the dictionary revision, so any write to a scope makes its old
// entries unreachable.
type CachedFinder struct {
	source RevisionedFinder
	cache  *lru.Cache[string, []string]
	group  singleflight.Group
	logger *zap.Logger
	hits   atomic.Int64
	misses atomic.Int64
}

// CacheStats reports cache effectiveness.
type CacheStats struct {
	Size   int   `json:"size"`
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

// NewCachedFinder wraps source with an LRU of the given capacity.
func NewCachedFinder(source RevisionedFinder, capacity int, logger *zap.Logger) (*CachedFinder, error) {
	cache, err := lru.New[string, []string](capacity)
	if err != nil {
		return nil, fmt.Errorf("failed to create lookup cache: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedFinder{source: source, cache: cache, logger: logger}, nil
}

// FindKeywordsMatching implements KeywordFinder.
func (c *CachedFinder) FindKeywordsMatching(ctx context.Context, patterns models.PatternSet, scope string, tc models.TenantContext) ([]string, error) {
	rev, err := c.source.Revision(ctx, tc, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to read dictionary revision: %w", err)
	}
	key := cacheKey(tc, scope, rev, patterns)

	if kw, ok := c.cache.Get(key); ok {
		c.hits.Add(1)
		return cloneStrings(kw), nil
	}
	c.misses.Add(1)

	// The shared lookup outlives any single caller; each caller stops waiting on its own ctx.
	lookupCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		kw, err := c.source.FindKeywordsMatching(lookupCtx, patterns, scope, tc)
		if err != nil {
			return nil, err
		}
		c.cache.Add(key, kw)
		return kw, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			c.logger.Debug("shared keyword lookup", zap.String("scope", scope), zap.Int64("revision", rev))
		}
		return cloneStrings(res.Val.([]string)), nil
	}
}

// Stats returns the current cache counters.
func (c *CachedFinder) Stats() CacheStats {
	return CacheStats{Size: c.cache.Len(), Hits: c.hits.Load(), Misses: c.misses.Load()}
}

// Purge drops all entries.
func (c *CachedFinder) Purge() {
	c.cache.Purge()
}

func cacheKey(tc models.TenantContext, scope string, rev int64, patterns models.PatternSet) string {
	h := sha256.New()
	for _, p := range patterns.Keyword {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	h.Write([]byte{1})
	for _, p := range patterns.Reversed {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%s|%s|%s|%d|%s", tc.TenantID, tc.LanguageID, scope, rev, hex.EncodeToString(h.Sum(nil)))
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
