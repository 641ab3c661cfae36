package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/hyperjump/kotoba/internal/cli"
	"github.com/hyperjump/kotoba/internal/config"
	"github.com/hyperjump/kotoba/internal/models"
)

func TestArgsReorder(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "flags after phrase are moved first",
			args:     []string{"netzwerk kabel", "-scope", "product"},
			expected: []string{"-scope", "product", "netzwerk kabel"},
		},
		{
			name:     "flags first returns unchanged",
			args:     []string{"-explain", "zeichn"},
			expected: []string{"-explain", "zeichn"},
		},
		{
			name:     "phrase only returns unchanged",
			args:     []string{"zeichn"},
			expected: []string{"zeichn"},
		},
		{
			name:     "empty args returns unchanged",
			args:     []string{},
			expected: []string{},
		},
		{
			name:     "multiple positionals then flags",
			args:     []string{"zweite", "kabel", "-output", "json"},
			expected: []string{"-output", "json", "zweite", "kabel"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := argsReorder(tt.args)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("argsReorder() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestBuildPhrase(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"single word", []string{"zeichn"}, "zeichn"},
		{"multiple words", []string{"zweite", "kabel"}, "zweite kabel"},
		{"single quoted phrase", []string{"zweite kabel"}, "zweite kabel"},
		{"empty args", []string{}, ""},
		{"blank args", []string{"  ", "  "}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildPhrase(tt.args)
			if got != tt.expected {
				t.Errorf("buildPhrase(%v) = %q, want %q", tt.args, got, tt.expected)
			}
		})
	}
}

func TestInterpretURL(t *testing.T) {
	req := &models.InterpretRequest{Term: "Büronetz kabel", Scope: "product", Explain: true}
	got := interpretURL("http://localhost:8080/", req)

	u, err := url.Parse(got)
	if err != nil {
		t.Fatal(err)
	}
	if u.Path != "/api/v1/search/interpret" {
		t.Errorf("path = %q", u.Path)
	}
	q := u.Query()
	if q.Get("term") != "Büronetz kabel" || q.Get("scope") != "product" || q.Get("explain") != "true" {
		t.Errorf("query = %v", q)
	}
	if q.Has("tenant") || q.Has("language") {
		t.Errorf("empty tenant/language should be omitted: %v", q)
	}
}

func TestInterpretViaHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("term") == "ze" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"search term is too short","code":"SEARCH-TERM-TOO-SHORT"}`))
			return
		}
		_, _ = w.Write([]byte(`{"original":{"term":"zeichn","weight":1},"terms":[{"term":"zeichnet","weight":0.5}]}`))
	}))
	defer srv.Close()

	var buf bytes.Buffer
	err := interpretViaHTTP(srv.URL, &models.InterpretRequest{Term: "zeichn"}, cli.OutputCompact, &buf)
	if err != nil {
		t.Fatal(err)
	}
	if buf.String() != "zeichn^1 zeichnet^0.5\n" {
		t.Errorf("output = %q", buf.String())
	}

	err = interpretViaHTTP(srv.URL, &models.InterpretRequest{Term: "ze"}, cli.OutputText, &buf)
	if err == nil || !strings.Contains(err.Error(), "SEARCH-TERM-TOO-SHORT") {
		t.Errorf("expected error code in %v", err)
	}
}

func TestLoadConfig_prefersCwdConfigWhenDefaultPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
debug: true
server:
  host: "localhost"
  port: 8080
storage:
  database_path: "./test.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	origWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(origWd) }()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(config.DefaultConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	// On macOS, cwd can be /private/var/... while configPath from t.TempDir() is /var/...; compare canonical paths.
	resolvedCanon, _ := filepath.EvalSymlinks(resolved)
	configPathCanon, _ := filepath.EvalSymlinks(configPath)
	if resolvedCanon != configPathCanon {
		t.Errorf("resolved path = %s (canon %s), want %s (canon %s)", resolved, resolvedCanon, configPath, configPathCanon)
	}
	if !cfg.Debug {
		t.Error("debug should be true from cwd config.yaml")
	}
}

func TestLoadConfig_usesExplicitPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
storage:
  database_path: "./test.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != configPath {
		t.Errorf("resolved path = %s, want %s", resolved, configPath)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
}

func TestLoadConfig_missingExplicitPathFails(t *testing.T) {
	if _, _, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestInitializeComponents_importAndInterpret(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Storage.DatabasePath = filepath.Join(dir, "dict.db")
	cfg.Interpreter.CacheSize = 64

	components, err := initializeComponents(cfg, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer components.Close()
	if components.Cache == nil {
		t.Fatal("cache should be enabled when cache_size is set")
	}

	catalog := filepath.Join(dir, "catalog")
	if err := os.MkdirAll(catalog, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(catalog, "items.txt"), []byte("Zeichnet Zeichen\nZweichnet Netzwerkkabel\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tc := models.DefaultTenantContext()
	ctx := context.Background()
	res, err := components.Importer.Rebuild(ctx, []string{catalog}, importOptions(cfg, cfg.Import.Scope, tc))
	if err != nil {
		t.Fatal(err)
	}
	if res.Files != 1 || res.Keywords != 4 {
		t.Errorf("rebuild = %+v", res)
	}

	pattern, err := components.Interpreter.Interpret(ctx, "zeichn", cfg.Search.DefaultScope, tc)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(pattern.Keywords(), ","); got != "zeichnet,zeichen,zweichnet" {
		t.Errorf("keywords = %s", got)
	}

	status, err := directStatus(ctx, cfg, components)
	if err != nil {
		t.Fatal(err)
	}
	if status.Keywords != 4 || status.Scopes[cfg.Search.DefaultScope] != 4 || status.Strategy != "anchored" {
		t.Errorf("status = %+v", status)
	}
	var buf bytes.Buffer
	writeStatusText(&buf, status)
	if !strings.Contains(buf.String(), "keywords:           4") {
		t.Errorf("status text:\n%s", buf.String())
	}
}
