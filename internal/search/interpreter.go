// Package search interprets raw search phrases into weighted search patterns.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/kotoba/internal/config"
	"github.com/hyperjump/kotoba/internal/keyword"
	"github.com/hyperjump/kotoba/internal/models"
)

// KeywordFinder looks up dictionary keywords matching LIKE patterns.
type KeywordFinder interface {
	FindKeywordsMatching(ctx context.Context, patterns models.PatternSet, scope string, tc models.TenantContext) ([]string, error)
}

// Interpreter turns a phrase into a SearchPattern of the original term plus the best
// matching dictionary keywords. It holds no per-request state and is safe for concurrent use.
type Interpreter struct {
	finder    KeywordFinder
	tokenizer keyword.Tokenizer
	strategy  keyword.Strategy
	config    *config.InterpreterConfig
	logger    *zap.Logger
}

// InterpreterOption configures an Interpreter.
type InterpreterOption func(*Interpreter)

// WithLogger sets the logger for match and request diagnostics.
func WithLogger(logger *zap.Logger) InterpreterOption {
	return func(i *Interpreter) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithTokenizer replaces the default bleve tokenizer.
func WithTokenizer(t keyword.Tokenizer) InterpreterOption {
	return func(i *Interpreter) {
		if t != nil {
			i.tokenizer = t
		}
	}
}

// NewInterpreter creates an interpreter over finder.
func NewInterpreter(finder KeywordFinder, cfg *config.InterpreterConfig, opts ...InterpreterOption) (*Interpreter, error) {
	if cfg == nil {
		cfg = &config.InterpreterConfig{}
	}
	strategy, err := keyword.ParseStrategy(cfg.Strategy)
	if err != nil {
		return nil, err
	}
	i := &Interpreter{
		finder:    finder,
		tokenizer: keyword.NewBleveTokenizer(cfg.MinTokenLength),
		strategy:  strategy,
		config:    cfg,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// Strategy returns the pattern strategy in use.
func (i *Interpreter) Strategy() keyword.Strategy {
	return i.strategy
}

// Interpret returns the weighted search pattern for phrase within scope.
func (i *Interpreter) Interpret(ctx context.Context, phrase, scope string, tc models.TenantContext) (*models.SearchPattern, error) {
	result, err := i.Explain(ctx, phrase, scope, tc)
	if err != nil {
		return nil, err
	}
	return result.Pattern, nil
}

// Explain runs the interpreter and returns the tokens, pattern count and ranked matches
// alongside the pattern.
func (i *Interpreter) Explain(ctx context.Context, phrase, scope string, tc models.TenantContext) (*models.Interpretation, error) {
	start := time.Now()
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return nil, NewValidationError("scope", "scope is required", nil)
	}

	tokens := i.tokenizer.Tokenize(phrase)
	result := &models.Interpretation{
		Pattern: models.NewSearchPattern(phrase),
		Tokens:  tokens,
		Matches: []models.ScoredMatch{},
	}
	if len(tokens) == 0 {
		return result, nil
	}
	if limit := i.config.MaxTokens; limit > 0 && len(tokens) > limit {
		return nil, NewValidationError("term",
			fmt.Sprintf("%d tokens exceed the limit of %d", len(tokens), limit), ErrPatternLimitExceeded)
	}

	patterns := keyword.Generate(tokens, i.strategy)
	result.PatternCount = patterns.Len()
	if limit := i.config.MaxPatterns; limit > 0 && patterns.Len() > limit {
		return nil, NewValidationError("term",
			fmt.Sprintf("%d patterns exceed the limit of %d", patterns.Len(), limit), ErrPatternLimitExceeded)
	}

	candidates, err := i.finder.FindKeywordsMatching(ctx, patterns, scope, tc)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("keyword lookup aborted: %w", err)
		}
		return nil, &StoreError{Op: "keyword lookup", Err: err}
	}
	result.Candidates = len(candidates)

	ranked := keyword.Rank(keyword.Score(tokens, candidates), i.config.MaxMatches)
	for _, m := range ranked {
		i.logger.Debug("search match",
			zap.String("keyword", m.Keyword),
			zap.String("token", m.Token),
			zap.Int("distance", m.Distance),
			zap.Float64("score", m.Score),
			zap.String("longer", m.Longer),
			zap.String("shorter", m.Shorter),
		)
	}
	result.Matches = ranked
	result.Pattern = keyword.BuildPattern(phrase, ranked)

	i.logger.Debug("interpreted search term",
		zap.String("term", phrase),
		zap.String("scope", scope),
		zap.Stringer("context", tc),
		zap.Int("tokens", len(tokens)),
		zap.Int("patterns", patterns.Len()),
		zap.Int("candidates", len(candidates)),
		zap.Int("matches", len(ranked)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}
