// Package indexer fills the keyword dictionary from catalog files.
package indexer

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hyperjump/kotoba/internal/extract"
	"github.com/hyperjump/kotoba/internal/keyword"
	"github.com/hyperjump/kotoba/internal/models"
)

// KeywordWriter is the write side of the keyword dictionary.
type KeywordWriter interface {
	AddKeywords(ctx context.Context, tc models.TenantContext, scope string, keywords []string) (int, error)
	ReplaceKeywords(ctx context.Context, tc models.TenantContext, scope string, keywords []string) (int, error)
}

// ImportOptions selects where imported keywords go and which files are read.
type ImportOptions struct {
	Scope      string
	Context    models.TenantContext
	Extensions []string // empty means every supported format
	Recursive  bool
}

// ImportResult summarizes an import run.
type ImportResult struct {
	Files    int `json:"files"`
	Keywords int `json:"keywords"`
	Skipped  int `json:"skipped"`
}

// Importer extracts text from files, tokenizes it and stores the tokens as keywords.
type Importer struct {
	store     KeywordWriter
	tokenizer keyword.Tokenizer
	extractor *extract.Extractor
	minLength int
	workers   int
	logger    *zap.Logger // optional; when set, logs debug events
}

// ImporterOption configures an Importer.
type ImporterOption func(*Importer)

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) ImporterOption {
	return func(imp *Importer) { imp.logger = l }
}

// WithMinKeywordLength drops tokens shorter than n runes. Default 2.
func WithMinKeywordLength(n int) ImporterOption {
	return func(imp *Importer) { imp.minLength = n }
}

// WithWorkers bounds how many files Rebuild reads at once.
func WithWorkers(n int) ImporterOption {
	return func(imp *Importer) {
		if n > 0 {
			imp.workers = n
		}
	}
}

// NewImporter creates an importer. extractor may be nil, in which case a default one is used.
func NewImporter(store KeywordWriter, tokenizer keyword.Tokenizer, extractor *extract.Extractor, opts ...ImporterOption) *Importer {
	if extractor == nil {
		extractor = extract.NewExtractor()
	}
	imp := &Importer{
		store:     store,
		tokenizer: tokenizer,
		extractor: extractor,
		minLength: 2,
		workers:   runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(imp)
	}
	return imp
}

// ImportFile adds the keywords of one file to the scope and returns how many were new.
func (imp *Importer) ImportFile(ctx context.Context, path string, opts ImportOptions) (int, error) {
	keywords, err := imp.CollectFile(path, opts.Extensions)
	if err != nil {
		return 0, err
	}
	n, err := imp.store.AddKeywords(ctx, opts.Context, opts.Scope, keywords)
	if err != nil {
		return 0, fmt.Errorf("failed to store keywords of %s: %w", path, err)
	}
	imp.debug("imported file", zap.String("path", path), zap.Int("keywords", len(keywords)), zap.Int("added", n))
	return n, nil
}

// ImportDirectory adds the keywords of every matching file under dir.
func (imp *Importer) ImportDirectory(ctx context.Context, dir string, opts ImportOptions) (ImportResult, error) {
	var res ImportResult
	err := imp.walk(dir, opts, func(path string) error {
		n, err := imp.ImportFile(ctx, path, opts)
		if err != nil {
			return err
		}
		res.Files++
		res.Keywords += n
		return nil
	})
	return res, err
}

// Rebuild replaces the scope with the keywords of every matching file under dirs.
// Files are read concurrently; keyword order follows the walk order. Unreadable files are
// skipped and counted, and the store is only touched once all files are read.
func (imp *Importer) Rebuild(ctx context.Context, dirs []string, opts ImportOptions) (ImportResult, error) {
	var res ImportResult
	var paths []string
	for _, dir := range dirs {
		err := imp.walk(dir, opts, func(path string) error {
			paths = append(paths, path)
			return nil
		})
		if err != nil {
			return res, err
		}
	}

	perFile := make([][]string, len(paths))
	var skipped atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(imp.workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			keywords, err := imp.CollectFile(path, opts.Extensions)
			if err != nil {
				skipped.Add(1)
				imp.debug("skipping unreadable file", zap.String("path", path), zap.Error(err))
				return nil
			}
			perFile[i] = keywords
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}
	res.Skipped = int(skipped.Load())
	res.Files = len(paths) - res.Skipped

	var all []string
	seen := make(map[string]struct{})
	for _, keywords := range perFile {
		for _, kw := range keywords {
			if _, ok := seen[kw]; !ok {
				seen[kw] = struct{}{}
				all = append(all, kw)
			}
		}
	}
	n, err := imp.store.ReplaceKeywords(ctx, opts.Context, opts.Scope, all)
	if err != nil {
		return res, fmt.Errorf("failed to replace scope %q: %w", opts.Scope, err)
	}
	res.Keywords = n
	imp.debug("rebuilt dictionary", zap.String("scope", opts.Scope), zap.Int("files", res.Files), zap.Int("keywords", n))
	return res, nil
}

// CollectFile returns the distinct keywords of a file without storing them.
func (imp *Importer) CollectFile(path string, allowedExts []string) ([]string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if len(allowedExts) > 0 && !extensionAllowed(ext, allowedExts) {
		return nil, fmt.Errorf("extension %q not in allowed list", ext)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("not a regular file: %s", path)
	}
	fragments, err := imp.extractor.Extract(path)
	if err != nil {
		return nil, fmt.Errorf("extract content: %w", err)
	}

	seen := make(map[string]struct{})
	var keywords []string
	for _, fragment := range fragments {
		for _, token := range imp.tokenizer.Tokenize(Preprocess(fragment)) {
			if !isKeyword(token, imp.minLength) {
				continue
			}
			if _, ok := seen[token]; ok {
				continue
			}
			seen[token] = struct{}{}
			keywords = append(keywords, token)
		}
	}
	return keywords, nil
}

// walk calls fn for every regular, supported file under dir whose extension is allowed.
func (imp *Importer) walk(dir string, opts ImportOptions, fn func(path string) error) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("absolute path: %w", err)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", absDir)
	}
	return filepath.WalkDir(absDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if path != absDir && (!opts.Recursive || strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if !extract.Supported(ext) {
			return nil
		}
		if len(opts.Extensions) > 0 && !extensionAllowed(ext, opts.Extensions) {
			return nil
		}
		// resolve symlinks so only regular files are read
		finfo, statErr := os.Stat(path)
		if statErr != nil || !finfo.Mode().IsRegular() {
			return nil
		}
		return fn(path)
	})
}

func (imp *Importer) debug(msg string, fields ...zap.Field) {
	if imp.logger != nil {
		imp.logger.Debug(msg, fields...)
	}
}

func extensionAllowed(ext string, allowed []string) bool {
	extNorm := strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, a := range allowed {
		if strings.ToLower(strings.TrimPrefix(a, ".")) == extNorm {
			return true
		}
	}
	return false
}
