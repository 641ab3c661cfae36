package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hyperjump/kotoba/internal/config"
	"github.com/hyperjump/kotoba/internal/models"
	"github.com/hyperjump/kotoba/internal/search"
	"github.com/hyperjump/kotoba/internal/storage"
)

// Error codes returned in the "code" field of error responses.
const (
	CodeSearchTermTooShort    = "SEARCH-TERM-TOO-SHORT"
	CodeInvalidInput          = "INVALID-INPUT"
	CodePatternLimitExceeded  = "PATTERN-LIMIT-EXCEEDED"
	CodeDictionaryUnavailable = "DICTIONARY-UNAVAILABLE"
	CodeNotFound              = "NOT-FOUND"
	CodeNotImplemented        = "NOT-IMPLEMENTED"
	CodeInternal              = "INTERNAL-ERROR"
)

const (
	// HeaderTenantID and HeaderLanguageID select the dictionary when no query parameter does.
	HeaderTenantID   = "X-Tenant-Id"
	HeaderLanguageID = "X-Language-Id"

	defaultListLimit = 100
	maxListLimit     = 1000
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type keywordsRequest struct {
	Keywords []string `json:"keywords"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// interpretRequest reads the term, scope and tenant of a search request.
func (s *Server) interpretRequest(r *http.Request) (*models.InterpretRequest, models.TenantContext, error) {
	q := r.URL.Query()
	req := &models.InterpretRequest{
		Term:       q.Get("term"),
		Scope:      q.Get("scope"),
		TenantID:   firstNonEmpty(q.Get("tenant"), r.Header.Get(HeaderTenantID)),
		LanguageID: firstNonEmpty(q.Get("language"), r.Header.Get(HeaderLanguageID)),
	}
	if v := q.Get("explain"); v != "" {
		explain, err := strconv.ParseBool(v)
		if err != nil {
			return nil, models.TenantContext{}, search.NewValidationError("explain", "must be a boolean", err)
		}
		req.Explain = explain
	}
	if err := req.Validate(s.config.Search.MinTermLength, s.config.Search.DefaultScope); err != nil {
		return nil, models.TenantContext{}, err
	}
	tc, err := s.tenantContext(req.TenantID, req.LanguageID)
	if err != nil {
		return nil, models.TenantContext{}, err
	}
	return req, tc, nil
}

func (s *Server) tenantContext(tenant, language string) (models.TenantContext, error) {
	fallback, err := s.config.Tenant.Context()
	if err != nil {
		fallback = models.DefaultTenantContext()
	}
	tc, err := models.ParseTenantContext(tenant, language, fallback)
	if err != nil {
		return models.TenantContext{}, search.NewValidationError("tenant", err.Error(), err)
	}
	return tc, nil
}

func (s *Server) requestTenant(r *http.Request) (models.TenantContext, error) {
	q := r.URL.Query()
	return s.tenantContext(
		firstNonEmpty(q.Get("tenant"), r.Header.Get(HeaderTenantID)),
		firstNonEmpty(q.Get("language"), r.Header.Get(HeaderLanguageID)),
	)
}

func (s *Server) handleInterpret(w http.ResponseWriter, r *http.Request) {
	req, tc, err := s.interpretRequest(r)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.logger.Debug("interpret request",
		zap.String("term", req.Term), zap.String("scope", req.Scope), zap.Stringer("context", tc))

	if req.Explain {
		result, err := s.interpreter.Explain(r.Context(), req.Term, req.Scope, tc)
		if err != nil {
			s.respondServiceError(w, err)
			return
		}
		s.respondJSON(w, http.StatusOK, result)
		return
	}
	pattern, err := s.interpreter.Interpret(r.Context(), req.Term, req.Scope, tc)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, pattern)
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	req, tc, err := s.interpretRequest(r)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	pattern, err := s.interpreter.Interpret(r.Context(), req.Term, req.Scope, tc)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"term":        req.Term,
		"suggestions": pattern.Keywords(),
	})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	req, tc, err := s.interpretRequest(r)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	pattern, err := s.interpreter.Interpret(r.Context(), req.Term, req.Scope, tc)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	fields := r.URL.Query()["field"]
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"term":  req.Term,
		"query": search.BleveQuery(pattern, fields...),
	})
}

func (s *Server) handleListKeywords(w http.ResponseWriter, r *http.Request) {
	scope := chi.URLParam(r, "scope")
	tc, err := s.requestTenant(r)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	offset, err := intParam(r, "offset", 0)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	limit, err := intParam(r, "limit", defaultListLimit)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}

	entries, err := s.dictionary.ListKeywords(r.Context(), tc, scope, offset, limit)
	if err != nil {
		s.respondServiceError(w, &search.StoreError{Op: "list keywords", Err: err})
		return
	}
	total, err := s.dictionary.CountKeywords(r.Context(), tc, scope)
	if err != nil {
		s.respondServiceError(w, &search.StoreError{Op: "count keywords", Err: err})
		return
	}
	if entries == nil {
		entries = []*models.DictionaryEntry{}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"scope":    scope,
		"total":    total,
		"offset":   offset,
		"keywords": entries,
	})
}

func (s *Server) handleAddKeywords(w http.ResponseWriter, r *http.Request) {
	scope, tc, keywords, err := s.keywordsRequest(r)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.logger.Debug("add keywords request", zap.String("scope", scope), zap.Int("count", len(keywords)))
	n, err := s.dictionary.AddKeywords(r.Context(), tc, scope, keywords)
	if err != nil {
		s.respondServiceError(w, &search.StoreError{Op: "add keywords", Err: err})
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]interface{}{"scope": scope, "added": n})
}

func (s *Server) handleDeleteKeywords(w http.ResponseWriter, r *http.Request) {
	scope, tc, keywords, err := s.keywordsRequest(r)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.logger.Debug("delete keywords request", zap.String("scope", scope), zap.Int("count", len(keywords)))
	n, err := s.dictionary.DeleteKeywords(r.Context(), tc, scope, keywords)
	if err != nil {
		s.respondServiceError(w, &search.StoreError{Op: "delete keywords", Err: err})
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"scope": scope, "deleted": n})
}

// keywordsRequest decodes a non-empty keyword list. An empty list would clear the whole scope
// on delete, which the API does not allow.
func (s *Server) keywordsRequest(r *http.Request) (string, models.TenantContext, []string, error) {
	scope := strings.TrimSpace(chi.URLParam(r, "scope"))
	if scope == "" {
		return "", models.TenantContext{}, nil, search.NewValidationError("scope", "scope is required", nil)
	}
	tc, err := s.requestTenant(r)
	if err != nil {
		return "", models.TenantContext{}, nil, err
	}
	var body keywordsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return "", models.TenantContext{}, nil, search.NewValidationError("body", "invalid request body", err)
	}
	var keywords []string
	for _, kw := range body.Keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	if len(keywords) == 0 {
		return "", models.TenantContext{}, nil, search.NewValidationError("keywords", "at least one keyword is required", nil)
	}
	return scope, tc, keywords, nil
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tc, err := s.requestTenant(r)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	counts, err := s.dictionary.ScopeCounts(ctx, tc)
	if err != nil {
		s.logger.Error("status: scope counts failed", zap.Error(err))
		s.respondServiceError(w, &search.StoreError{Op: "scope counts", Err: err})
		return
	}
	var total int64
	for _, n := range counts {
		total += n
	}
	resp := map[string]interface{}{
		"tenant":   tc,
		"scopes":   counts,
		"keywords": total,
		"strategy": s.interpreter.Strategy(),
		"driver":   storage.DriverName,
		"build":    storage.BuildMode,
	}
	if sized, ok := s.dictionary.(interface{ SizeBytes() (int64, error) }); ok {
		if size, err := sized.SizeBytes(); err == nil {
			resp["database_size_bytes"] = size
		} else {
			s.logger.Warn("status: database size unavailable", zap.Error(err))
		}
	}
	if s.cache != nil {
		resp["cache"] = s.cache.Stats()
	}

	configInfo := map[string]interface{}{
		"database_path":   s.config.Storage.DatabasePath,
		"default_scope":   s.config.Search.DefaultScope,
		"min_term_length": s.config.Search.MinTermLength,
		"max_matches":     s.config.Interpreter.MaxMatches,
		"max_patterns":    s.config.Interpreter.MaxPatterns,
	}
	if s.watch != nil {
		configInfo["import_directories"] = s.watch.Directories()
	}
	resp["config"] = configInfo
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleImportDirectoriesList(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		s.respondError(w, http.StatusNotImplemented, CodeNotImplemented, "import watch not enabled")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"directories": s.watch.Directories()})
}

type directoryRequest struct {
	Path    string `json:"path"`
	Rebuild *bool  `json:"rebuild,omitempty"`
}

func (s *Server) handleImportDirectoriesAdd(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		s.respondError(w, http.StatusNotImplemented, CodeNotImplemented, "import watch not enabled")
		return
	}
	var req directoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, CodeInvalidInput, "invalid request body")
		return
	}
	if req.Path == "" {
		s.respondError(w, http.StatusBadRequest, CodeInvalidInput, "path is required")
		return
	}
	abs, err := filepath.Abs(req.Path)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, CodeInvalidInput, "invalid path")
		return
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			s.respondError(w, http.StatusNotFound, CodeNotFound, "directory not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, CodeInternal, err.Error())
		return
	}
	if !info.IsDir() {
		s.respondError(w, http.StatusBadRequest, CodeInvalidInput, "path is not a directory")
		return
	}
	rebuild := true
	if req.Rebuild != nil {
		rebuild = *req.Rebuild
	}
	s.logger.Debug("import add directory request", zap.String("path", abs), zap.Bool("rebuild", rebuild))
	if err := s.watch.AddDirectory(abs, rebuild); err != nil {
		s.logger.Error("import add directory failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, CodeInternal, err.Error())
		return
	}
	s.persistDirectories()
	s.respondJSON(w, http.StatusCreated, map[string]string{"path": abs, "status": "added"})
}

func (s *Server) handleImportDirectoriesRemove(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		s.respondError(w, http.StatusNotImplemented, CodeNotImplemented, "import watch not enabled")
		return
	}
	path := r.URL.Query().Get("path")
	if path == "" {
		var body directoryRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			path = body.Path
		}
	}
	if path == "" {
		s.respondError(w, http.StatusBadRequest, CodeInvalidInput, "path is required (query or body)")
		return
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, CodeInvalidInput, "invalid path")
		return
	}
	s.logger.Debug("import remove directory request", zap.String("path", abs))
	if err := s.watch.RemoveDirectory(abs); err != nil {
		s.logger.Error("import remove directory failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, CodeInternal, err.Error())
		return
	}
	s.persistDirectories()
	s.respondJSON(w, http.StatusOK, map[string]string{"path": abs, "status": "removed"})
}

func (s *Server) persistDirectories() {
	if s.configPath == "" {
		return
	}
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.config.Import.Directories = s.watch.Directories()
	if err := config.Save(s.configPath, s.config); err != nil {
		s.logger.Warn("failed to persist import directories", zap.Error(err))
	}
}

// respondServiceError maps interpreter and store errors to status codes.
func (s *Server) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrTermTooShort):
		s.respondError(w, http.StatusBadRequest, CodeSearchTermTooShort, err.Error())
	case errors.Is(err, search.ErrPatternLimitExceeded):
		s.respondError(w, http.StatusBadRequest, CodePatternLimitExceeded, err.Error())
	case errors.Is(err, search.ErrInvalidInput):
		s.respondError(w, http.StatusBadRequest, CodeInvalidInput, err.Error())
	case errors.Is(err, search.ErrDictionaryUnavailable),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		s.logger.Error("dictionary unavailable", zap.Error(err))
		s.respondError(w, http.StatusServiceUnavailable, CodeDictionaryUnavailable, err.Error())
	default:
		s.logger.Error("request failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, CodeInternal, err.Error())
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, errorResponse{Error: message, Code: code})
}

func intParam(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, search.NewValidationError(name, "must be a non-negative integer", err)
	}
	return n, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
