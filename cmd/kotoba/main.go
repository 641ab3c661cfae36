// Package main is the kotoba CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/kotoba/internal/cli"
	"github.com/hyperjump/kotoba/internal/config"
	"github.com/hyperjump/kotoba/internal/extract"
	"github.com/hyperjump/kotoba/internal/indexer"
	"github.com/hyperjump/kotoba/internal/keyword"
	"github.com/hyperjump/kotoba/internal/models"
	"github.com/hyperjump/kotoba/internal/search"
	"github.com/hyperjump/kotoba/internal/server"
	"github.com/hyperjump/kotoba/internal/storage"
	"github.com/hyperjump/kotoba/internal/watcher"
	"github.com/hyperjump/kotoba/pkg/utils"
)

var version = "dev"

const defaultServerURL = "http://localhost:8080"

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory; when neither exists the built-in defaults are used.
// Returns the config and the path that was loaded ("" for built-in defaults).
func loadConfig(path string) (*config.Config, string, error) {
	if path == config.DefaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		if path == config.DefaultConfigPath && errors.Is(err, fs.ErrNotExist) {
			cfg = &config.Config{}
			config.ApplyDefaults(cfg)
			return cfg, "", nil
		}
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "interpret":
		runInterpret()
	case "import":
		runImport()
	case "keywords":
		runKeywords()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("kotoba version %s (%s, %s)\n", version, storage.BuildMode, storage.DriverName)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// setup loads the config and creates the logger and components shared by the direct-mode commands.
func setup(configPath string, debug bool) (*config.Config, string, *zap.Logger, *Components) {
	cfg, resolved, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || debug
	logger, err := utils.NewLogger(debugMode, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	return cfg, resolved, logger, components
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", config.DefaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (per-match scores, imports, directory changes)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, logger, components := setup(*configPath, *debug)
	defer logger.Sync()
	defer components.Close()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.String("database_path", cfg.Storage.DatabasePath),
		zap.String("strategy", string(components.Interpreter.Strategy())),
	)

	tc, err := cfg.Tenant.Context()
	if err != nil {
		logger.Fatal("Invalid tenant config", zap.Error(err))
	}
	importOpts := importOptions(cfg, cfg.Import.Scope, tc)

	var watchSvc *watcher.Watcher
	rebuild := func(ctx context.Context) {
		res, err := components.Importer.Rebuild(ctx, watchSvc.Directories(), importOpts)
		if err != nil {
			logger.Warn("dictionary rebuild failed", zap.Error(err))
			return
		}
		logger.Info("dictionary rebuilt",
			zap.String("scope", importOpts.Scope),
			zap.Int("files", res.Files),
			zap.Int("keywords", res.Keywords),
			zap.Int("skipped", res.Skipped),
		)
	}
	watchSvc = watcher.NewWatcher(
		cfg.Import.Directories,
		cfg.Import.Extensions,
		cfg.Import.RecursiveOrDefault(),
		rebuild,
		watcher.WithLogger(logger),
	)
	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if err := watchSvc.Start(watchCtx); err != nil {
		logger.Fatal("Failed to start watcher", zap.Error(err))
	}
	if len(cfg.Import.Directories) > 0 {
		go rebuild(watchCtx)
	}

	opts := []server.ServerOption{server.WithWatch(watchSvc, resolvedConfigPath)}
	if components.Cache != nil {
		opts = append(opts, server.WithCache(components.Cache))
	}
	srv := server.NewServer(components.Interpreter, components.Dictionary, cfg, logger, opts...)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	watchSvc.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func printInterpretUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: kotoba interpret [flags] <phrase>\n\n")
	fmt.Fprintf(fs.Output(), "The phrase is all remaining arguments joined by spaces.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Examples:
  kotoba interpret zeichn
  kotoba interpret --explain --output json Büronetz
  kotoba interpret --server "" --scope customer mueller   # read the dictionary directly
`)
}

// buildPhrase joins all positional args with spaces so multi-word phrases
// work the same with or without shell quoting.
func buildPhrase(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// argsReorder moves any flags (and their values) that appear after the phrase
// to the front of the slice so that flag.Parse() sees them.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func runInterpret() {
	fs := flag.NewFlagSet("interpret", flag.ExitOnError)
	configPath := fs.String("config", config.DefaultConfigPath, "config file path (direct mode)")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = read the dictionary directly)")
	scope := fs.String("scope", "", "dictionary scope (default from config)")
	tenant := fs.String("tenant", "", "tenant id (default from config)")
	language := fs.String("language", "", "language id (default from config)")
	explain := fs.Bool("explain", false, "show tokens, pattern counts and per-match distances")
	outputFormat := fs.String("output", "text", "output format: text, compact (boosted query string) or json")
	fs.Usage = func() { printInterpretUsage(fs) }
	_ = fs.Parse(argsReorder(os.Args[2:]))

	phrase := buildPhrase(fs.Args())
	if phrase == "" {
		printInterpretUsage(fs)
		os.Exit(1)
	}
	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	req := &models.InterpretRequest{Term: phrase, Scope: *scope, TenantID: *tenant, LanguageID: *language, Explain: *explain}

	if *serverURL != "" {
		if err := interpretViaHTTP(*serverURL, req, format, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Interpret failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg, _, logger, components := setup(*configPath, false)
	defer logger.Sync()
	defer components.Close()

	if err := req.Validate(cfg.Search.MinTermLength, cfg.Search.DefaultScope); err != nil {
		fmt.Fprintf(os.Stderr, "Interpret failed: %v\n", err)
		os.Exit(1)
	}
	fallback, err := cfg.Tenant.Context()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid tenant config: %v\n", err)
		os.Exit(1)
	}
	tc, err := models.ParseTenantContext(req.TenantID, req.LanguageID, fallback)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Interpret failed: %v\n", err)
		os.Exit(1)
	}
	result, err := components.Interpreter.Explain(context.Background(), req.Term, req.Scope, tc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Interpret failed: %v\n", err)
		os.Exit(1)
	}
	if req.Explain {
		err = cli.WriteInterpretation(os.Stdout, result, format)
	} else {
		err = cli.WritePattern(os.Stdout, result.Pattern, format)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

// interpretURL builds the interpret endpoint URL for req.
func interpretURL(serverURL string, req *models.InterpretRequest) string {
	q := url.Values{}
	q.Set("term", req.Term)
	if req.Scope != "" {
		q.Set("scope", req.Scope)
	}
	if req.TenantID != "" {
		q.Set("tenant", req.TenantID)
	}
	if req.LanguageID != "" {
		q.Set("language", req.LanguageID)
	}
	if req.Explain {
		q.Set("explain", "true")
	}
	return strings.TrimRight(serverURL, "/") + "/api/v1/search/interpret?" + q.Encode()
}

func interpretViaHTTP(serverURL string, req *models.InterpretRequest, format cli.OutputFormat, w io.Writer) error {
	target := interpretURL(serverURL, req)
	if req.Explain {
		var result models.Interpretation
		if err := getJSON(target, &result); err != nil {
			return err
		}
		return cli.WriteInterpretation(w, &result, format)
	}
	var pattern models.SearchPattern
	if err := getJSON(target, &pattern); err != nil {
		return err
	}
	return cli.WritePattern(w, &pattern, format)
}

func getJSON(target string, out interface{}) error {
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(target)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return responseError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// responseError turns a non-2xx API response into an error carrying its code.
func responseError(resp *http.Response) error {
	b, _ := io.ReadAll(resp.Body)
	var body struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if json.Unmarshal(b, &body) == nil && body.Code != "" {
		return fmt.Errorf("server returned %d %s: %s", resp.StatusCode, body.Code, body.Error)
	}
	return fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
}

func runImport() {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	configPath := fs.String("config", config.DefaultConfigPath, "config file path")
	scope := fs.String("scope", "", "dictionary scope (default: import.scope from config)")
	tenant := fs.String("tenant", "", "tenant id (default from config)")
	language := fs.String("language", "", "language id (default from config)")
	replace := fs.Bool("replace", false, "replace the whole scope instead of adding to it (directories only)")
	_ = fs.Parse(argsReorder(os.Args[2:]))

	if fs.NArg() < 1 {
		fmt.Println("Usage: kotoba import [flags] <file-or-directory>")
		os.Exit(1)
	}
	path := fs.Arg(0)

	cfg, _, logger, components := setup(*configPath, false)
	defer logger.Sync()
	defer components.Close()

	tc := tenantOrExit(cfg, *tenant, *language)
	if *scope == "" {
		*scope = cfg.Import.Scope
	}
	opts := importOptions(cfg, *scope, tc)

	ctx := context.Background()
	info, err := os.Stat(path)
	if err != nil {
		fmt.Printf("Failed to stat path: %v\n", err)
		os.Exit(1)
	}
	if info.IsDir() {
		var res indexer.ImportResult
		if *replace {
			res, err = components.Importer.Rebuild(ctx, []string{path}, opts)
		} else {
			res, err = components.Importer.ImportDirectory(ctx, path, opts)
		}
		if err != nil {
			fmt.Printf("Import failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Imported %d keyword(s) from %d file(s) into scope %q (%d skipped)\n",
			res.Keywords, res.Files, opts.Scope, res.Skipped)
		return
	}
	// Single file: no extension filter
	opts.Extensions = nil
	n, err := components.Importer.ImportFile(ctx, path, opts)
	if err != nil {
		fmt.Printf("Import failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Imported %d new keyword(s) from %s into scope %q\n", n, path, opts.Scope)
}

func runKeywords() {
	if len(os.Args) < 3 {
		printKeywordsUsage()
		os.Exit(1)
	}
	sub := os.Args[2]
	fs := flag.NewFlagSet("keywords", flag.ExitOnError)
	configPath := fs.String("config", config.DefaultConfigPath, "config file path")
	scope := fs.String("scope", "", "dictionary scope (default from config)")
	tenant := fs.String("tenant", "", "tenant id (default from config)")
	language := fs.String("language", "", "language id (default from config)")
	offset := fs.Int("offset", 0, "list: entries to skip")
	limit := fs.Int("limit", 100, "list: entries to show")
	outputFormat := fs.String("output", "text", "list: output format text, compact or json")
	_ = fs.Parse(argsReorder(os.Args[3:]))

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, _, logger, components := setup(*configPath, false)
	defer logger.Sync()
	defer components.Close()

	tc := tenantOrExit(cfg, *tenant, *language)
	if *scope == "" {
		*scope = cfg.Search.DefaultScope
	}
	ctx := context.Background()
	dict := components.Dictionary

	switch sub {
	case "add":
		if fs.NArg() < 1 {
			fmt.Println("Usage: kotoba keywords add [flags] <keyword>...")
			os.Exit(1)
		}
		n, err := dict.AddKeywords(ctx, tc, *scope, fs.Args())
		if err != nil {
			fmt.Printf("Add failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Added %d keyword(s) to scope %q\n", n, *scope)
	case "delete":
		if fs.NArg() < 1 {
			fmt.Println("Usage: kotoba keywords delete [flags] <keyword>...")
			os.Exit(1)
		}
		n, err := dict.DeleteKeywords(ctx, tc, *scope, fs.Args())
		if err != nil {
			fmt.Printf("Delete failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Deleted %d keyword(s) from scope %q\n", n, *scope)
	case "list":
		entries, err := dict.ListKeywords(ctx, tc, *scope, *offset, *limit)
		if err != nil {
			fmt.Printf("List failed: %v\n", err)
			os.Exit(1)
		}
		total, err := dict.CountKeywords(ctx, tc, *scope)
		if err != nil {
			fmt.Printf("Count failed: %v\n", err)
			os.Exit(1)
		}
		if err := cli.WriteKeywords(os.Stdout, entries, total, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Printf("Unknown keywords subcommand: %s\n", sub)
		printKeywordsUsage()
		os.Exit(1)
	}
}

func printKeywordsUsage() {
	fmt.Println("Usage: kotoba keywords <add|list|delete> [flags] [keyword...]")
	fmt.Println("  kotoba keywords add <keyword>...     Add keywords to a scope")
	fmt.Println("  kotoba keywords list                 List the keywords of a scope")
	fmt.Println("  kotoba keywords delete <keyword>...  Remove keywords from a scope")
}

// statusResponse is the shape of the GET /api/v1/status response.
type statusResponse struct {
	Scopes            map[string]int64   `json:"scopes"`
	Keywords          int64              `json:"keywords"`
	Strategy          string             `json:"strategy"`
	Driver            string             `json:"driver"`
	Build             string             `json:"build"`
	DatabaseSizeBytes *int64             `json:"database_size_bytes,omitempty"`
	Cache             *search.CacheStats `json:"cache,omitempty"`
	Config            *statusConfig      `json:"config,omitempty"`
}

type statusConfig struct {
	DatabasePath      string   `json:"database_path"`
	DefaultScope      string   `json:"default_scope"`
	MinTermLength     int      `json:"min_term_length"`
	MaxMatches        int      `json:"max_matches"`
	MaxPatterns       int      `json:"max_patterns"`
	ImportDirectories []string `json:"import_directories,omitempty"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", config.DefaultConfigPath, "config file path (direct mode)")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = read the dictionary directly)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	var status statusResponse
	if *serverURL != "" {
		if err := getJSON(strings.TrimRight(*serverURL, "/")+"/api/v1/status", &status); err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		cfg, _, logger, components := setup(*configPath, false)
		defer logger.Sync()
		defer components.Close()
		res, err := directStatus(context.Background(), cfg, components)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		status = *res
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		writeStatusText(os.Stdout, &status)
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func directStatus(ctx context.Context, cfg *config.Config, c *Components) (*statusResponse, error) {
	tc, err := cfg.Tenant.Context()
	if err != nil {
		return nil, err
	}
	counts, err := c.Dictionary.ScopeCounts(ctx, tc)
	if err != nil {
		return nil, err
	}
	status := &statusResponse{
		Scopes:   counts,
		Strategy: string(c.Interpreter.Strategy()),
		Driver:   storage.DriverName,
		Build:    storage.BuildMode,
		Config: &statusConfig{
			DatabasePath:      cfg.Storage.DatabasePath,
			DefaultScope:      cfg.Search.DefaultScope,
			MinTermLength:     cfg.Search.MinTermLength,
			MaxMatches:        cfg.Interpreter.MaxMatches,
			MaxPatterns:       cfg.Interpreter.MaxPatterns,
			ImportDirectories: cfg.Import.Directories,
		},
	}
	for _, n := range counts {
		status.Keywords += n
	}
	if size, err := c.Dictionary.SizeBytes(); err == nil {
		status.DatabaseSizeBytes = &size
	}
	return status, nil
}

func writeStatusText(w io.Writer, status *statusResponse) {
	fmt.Fprintf(w, "keywords:           %d   # dictionary entries of the tenant\n", status.Keywords)
	scopes := make([]string, 0, len(status.Scopes))
	for s := range status.Scopes {
		scopes = append(scopes, s)
	}
	sort.Strings(scopes)
	for _, s := range scopes {
		fmt.Fprintf(w, "  %-18s%d\n", s+":", status.Scopes[s])
	}
	fmt.Fprintf(w, "strategy:           %s\n", status.Strategy)
	fmt.Fprintf(w, "driver:             %s (%s)\n", status.Driver, status.Build)
	if status.DatabaseSizeBytes != nil {
		fmt.Fprintf(w, "database_size:      %d   # bytes on disk incl. WAL\n", *status.DatabaseSizeBytes)
	}
	if status.Cache != nil {
		fmt.Fprintf(w, "cache:              %d entries, %d hits, %d misses\n", status.Cache.Size, status.Cache.Hits, status.Cache.Misses)
	}
	if status.Config != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "# configuration")
		fmt.Fprintf(w, "database_path:      %s\n", status.Config.DatabasePath)
		fmt.Fprintf(w, "default_scope:      %s\n", status.Config.DefaultScope)
		fmt.Fprintf(w, "min_term_length:    %d\n", status.Config.MinTermLength)
		fmt.Fprintf(w, "max_matches:        %d\n", status.Config.MaxMatches)
		fmt.Fprintf(w, "max_patterns:       %d\n", status.Config.MaxPatterns)
		for _, d := range status.Config.ImportDirectories {
			fmt.Fprintf(w, "import_directory:   %s\n", d)
		}
	}
}

func tenantOrExit(cfg *config.Config, tenant, language string) models.TenantContext {
	fallback, err := cfg.Tenant.Context()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid tenant config: %v\n", err)
		os.Exit(1)
	}
	tc, err := models.ParseTenantContext(tenant, language, fallback)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	return tc
}

func importOptions(cfg *config.Config, scope string, tc models.TenantContext) indexer.ImportOptions {
	return indexer.ImportOptions{
		Scope:      scope,
		Context:    tc,
		Extensions: cfg.Import.Extensions,
		Recursive:  cfg.Import.RecursiveOrDefault(),
	}
}

// Components holds initialized services.
type Components struct {
	Dictionary  *storage.SQLiteDictionary
	Cache       *search.CachedFinder
	Tokenizer   keyword.Tokenizer
	Interpreter *search.Interpreter
	Importer    *indexer.Importer
}

func (c *Components) Close() {
	if c.Dictionary != nil {
		_ = c.Dictionary.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	dict, err := storage.NewSQLiteDictionary(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	c := &Components{Dictionary: dict}

	var finder search.KeywordFinder = dict
	if cfg.Interpreter.CacheSize > 0 {
		cache, err := search.NewCachedFinder(dict, cfg.Interpreter.CacheSize, logger)
		if err != nil {
			c.Close()
			return nil, err
		}
		c.Cache = cache
		finder = cache
	}

	c.Tokenizer = keyword.NewBleveTokenizer(cfg.Interpreter.MinTokenLength)
	interp, err := search.NewInterpreter(finder, &cfg.Interpreter,
		search.WithLogger(logger),
		search.WithTokenizer(c.Tokenizer),
	)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize interpreter: %w", err)
	}
	c.Interpreter = interp

	c.Importer = indexer.NewImporter(dict, c.Tokenizer, extract.NewExtractor(), indexer.WithLogger(logger))
	logger.Debug("components initialized",
		zap.String("driver", storage.DriverName),
		zap.String("build", storage.BuildMode),
		zap.Int("cache_size", cfg.Interpreter.CacheSize),
	)
	return c, nil
}

func printUsage() {
	fmt.Println(`kotoba - fuzzy search-term interpreter

Usage:
  kotoba server [flags]                  Start the HTTP server
  kotoba interpret [flags] <phrase>      Interpret a search phrase
  kotoba import [flags] <file-or-dir>    Import catalog keywords into the dictionary
  kotoba keywords <add|list|delete>      Maintain dictionary keywords
  kotoba status [flags]                  Show dictionary and interpreter status
  kotoba version                         Show version
  kotoba help                            Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/kotoba/config.yaml)
  --debug            Enable debug logging (per-match scores, imports, directory changes)

Interpret Flags:
  --server string    Server URL (default: http://localhost:8080). Use --server "" to read the dictionary directly.
  --scope string     Dictionary scope (default from config)
  --tenant string    Tenant id; --language string  Language id
  --explain          Show tokens, pattern counts and per-match distances
  --output string    text, compact or json (default: text)

Import Flags:
  --scope string     Target scope (default: import.scope)
  --replace          Replace the scope with the directory's keywords

Status Flags:
  --server string    Server URL (default: http://localhost:8080). Use --server "" for direct storage.
  --output string    Output format: text or json (default: text)

Examples:
  kotoba server
  kotoba interpret zeichn
  kotoba interpret --explain Büronetz
  kotoba interpret --output compact "netzwerk kabel"
  kotoba import --replace ./catalog
  kotoba keywords add --scope customer müller schmidt
  kotoba keywords list --scope customer --output json
  kotoba status --output json`)
}
