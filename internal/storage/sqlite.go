package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/hyperjump/kotoba/internal/keyword"
	"github.com/hyperjump/kotoba/internal/models"
)

// SQLiteDictionary implements Dictionary using SQLite.
type SQLiteDictionary struct {
	db   *sql.DB
	path string
}

var _ Dictionary = (*SQLiteDictionary)(nil)

// NewSQLiteDictionary opens or creates a SQLite database at dbPath and applies migrations.
// Parent directories are created if they do not exist.
func NewSQLiteDictionary(dbPath string) (*SQLiteDictionary, error) {
	if dbPath != ":memory:" {
		if dir := filepath.Dir(dbPath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}
	db, err := sql.Open(DriverName, dataSourceName(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one connection keeps the LIKE pragma and in-memory databases consistent
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteDictionary{db: db, path: dbPath}, nil
}

// querier is implemented by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

const findKeywordsSQL = `
SELECT d.keyword FROM search_dictionary d
WHERE d.tenant_id = ? AND d.language_id = ? AND d.scope = ?
  AND (
    EXISTS (SELECT 1 FROM json_each(?) p WHERE d.keyword LIKE p.value ESCAPE '\')
    OR EXISTS (SELECT 1 FROM json_each(?) p WHERE d.reversed LIKE p.value ESCAPE '\')
  )
ORDER BY d.id`

// FindKeywordsMatching implements Dictionary.
func (s *SQLiteDictionary) FindKeywordsMatching(ctx context.Context, patterns models.PatternSet, scope string, tc models.TenantContext) ([]string, error) {
	if patterns.Len() == 0 {
		return nil, nil
	}
	keywordJSON, err := jsonArray(patterns.Keyword)
	if err != nil {
		return nil, err
	}
	reversedJSON, err := jsonArray(patterns.Reversed)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, findKeywordsSQL,
		tc.TenantID[:], tc.LanguageID[:], scope, keywordJSON, reversedJSON)
	if err != nil {
		return nil, fmt.Errorf("keyword lookup failed: %w", err)
	}
	defer rows.Close()

	var keywords []string
	for rows.Next() {
		var kw string
		if err := rows.Scan(&kw); err != nil {
			return nil, fmt.Errorf("keyword lookup failed: %w", err)
		}
		keywords = append(keywords, kw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("keyword lookup failed: %w", err)
	}
	return keywords, nil
}

func jsonArray(values []string) (string, error) {
	if len(values) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("failed to encode patterns: %w", err)
	}
	return string(b), nil
}

// normalizeKeyword trims and lowercases; tokens reaching the matcher are lowercase.
func normalizeKeyword(kw string) string {
	return strings.ToLower(strings.TrimSpace(kw))
}

// AddKeywords inserts keywords that are not yet in the scope and returns how many were added.
func (s *SQLiteDictionary) AddKeywords(ctx context.Context, tc models.TenantContext, scope string, keywords []string) (int, error) {
	var added int
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		n, err := insertKeywords(ctx, tx, tc, scope, keywords)
		if err != nil {
			return err
		}
		added = n
		if n > 0 {
			return bumpRevision(ctx, tx, tc, scope)
		}
		return nil
	})
	return added, err
}

// ReplaceKeywords implements Dictionary.
func (s *SQLiteDictionary) ReplaceKeywords(ctx context.Context, tc models.TenantContext, scope string, keywords []string) (int, error) {
	var added int
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM search_dictionary WHERE tenant_id = ? AND language_id = ? AND scope = ?`,
			tc.TenantID[:], tc.LanguageID[:], scope,
		); err != nil {
			return fmt.Errorf("failed to clear scope %q: %w", scope, err)
		}
		n, err := insertKeywords(ctx, tx, tc, scope, keywords)
		if err != nil {
			return err
		}
		added = n
		return bumpRevision(ctx, tx, tc, scope)
	})
	return added, err
}

// DeleteKeywords implements Dictionary.
func (s *SQLiteDictionary) DeleteKeywords(ctx context.Context, tc models.TenantContext, scope string, keywords []string) (int, error) {
	var deleted int
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var n int64
		if len(keywords) == 0 {
			res, err := tx.ExecContext(ctx,
				`DELETE FROM search_dictionary WHERE tenant_id = ? AND language_id = ? AND scope = ?`,
				tc.TenantID[:], tc.LanguageID[:], scope)
			if err != nil {
				return err
			}
			n, _ = res.RowsAffected()
		} else {
			stmt, err := tx.PrepareContext(ctx,
				`DELETE FROM search_dictionary WHERE tenant_id = ? AND language_id = ? AND scope = ? AND keyword = ?`)
			if err != nil {
				return err
			}
			defer stmt.Close()
			for _, kw := range keywords {
				res, err := stmt.ExecContext(ctx, tc.TenantID[:], tc.LanguageID[:], scope, normalizeKeyword(kw))
				if err != nil {
					return err
				}
				affected, _ := res.RowsAffected()
				n += affected
			}
		}
		deleted = int(n)
		if n > 0 {
			return bumpRevision(ctx, tx, tc, scope)
		}
		return nil
	})
	return deleted, err
}

func insertKeywords(ctx context.Context, tx *sql.Tx, tc models.TenantContext, scope string, keywords []string) (int, error) {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO search_dictionary (tenant_id, language_id, scope, keyword, reversed)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	var added int
	for _, kw := range keywords {
		kw = normalizeKeyword(kw)
		if kw == "" {
			continue
		}
		res, err := stmt.ExecContext(ctx, tc.TenantID[:], tc.LanguageID[:], scope, kw, keyword.Reverse(kw))
		if err != nil {
			return added, fmt.Errorf("failed to insert keyword %q: %w", kw, err)
		}
		n, _ := res.RowsAffected()
		added += int(n)
	}
	return added, nil
}

func bumpRevision(ctx context.Context, q querier, tc models.TenantContext, scope string) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO search_dictionary_revision (tenant_id, language_id, scope, revision)
		 VALUES (?, ?, ?, 1)
		 ON CONFLICT(tenant_id, language_id, scope) DO UPDATE SET revision = revision + 1`,
		tc.TenantID[:], tc.LanguageID[:], scope)
	if err != nil {
		return fmt.Errorf("failed to bump revision: %w", err)
	}
	return nil
}

// Revision implements Dictionary. A scope that was never written has revision 0.
func (s *SQLiteDictionary) Revision(ctx context.Context, tc models.TenantContext, scope string) (int64, error) {
	var rev int64
	err := s.db.QueryRowContext(ctx,
		`SELECT revision FROM search_dictionary_revision WHERE tenant_id = ? AND language_id = ? AND scope = ?`,
		tc.TenantID[:], tc.LanguageID[:], scope,
	).Scan(&rev)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return rev, err
}

// ListKeywords returns entries of scope in insertion order.
func (s *SQLiteDictionary) ListKeywords(ctx context.Context, tc models.TenantContext, scope string, offset, limit int) ([]*models.DictionaryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, tenant_id, language_id, scope, keyword, reversed, created_at
		 FROM search_dictionary
		 WHERE tenant_id = ? AND language_id = ? AND scope = ?
		 ORDER BY id LIMIT ? OFFSET ?`,
		tc.TenantID[:], tc.LanguageID[:], scope, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.DictionaryEntry
	for rows.Next() {
		var e models.DictionaryEntry
		var tenant, language []byte
		if err := rows.Scan(&e.ID, &tenant, &language, &e.Scope, &e.Keyword, &e.Reversed, &e.CreatedAt); err != nil {
			return nil, err
		}
		if e.TenantID, err = uuid.FromBytes(tenant); err != nil {
			return nil, fmt.Errorf("corrupt tenant id for keyword %d: %w", e.ID, err)
		}
		if e.LanguageID, err = uuid.FromBytes(language); err != nil {
			return nil, fmt.Errorf("corrupt language id for keyword %d: %w", e.ID, err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// CountKeywords returns the number of keywords in scope.
func (s *SQLiteDictionary) CountKeywords(ctx context.Context, tc models.TenantContext, scope string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM search_dictionary WHERE tenant_id = ? AND language_id = ? AND scope = ?`,
		tc.TenantID[:], tc.LanguageID[:], scope,
	).Scan(&count)
	return count, err
}

// ScopeCounts returns the keyword count of every scope of the tenant and language.
func (s *SQLiteDictionary) ScopeCounts(ctx context.Context, tc models.TenantContext) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT scope, COUNT(*) FROM search_dictionary
		 WHERE tenant_id = ? AND language_id = ? GROUP BY scope`,
		tc.TenantID[:], tc.LanguageID[:],
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var scope string
		var n int64
		if err := rows.Scan(&scope, &n); err != nil {
			return nil, err
		}
		counts[scope] = n
	}
	return counts, rows.Err()
}

func (s *SQLiteDictionary) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Close closes the database connection.
func (s *SQLiteDictionary) Close() error {
	return s.db.Close()
}
