package knowledge

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MinQueryLength is the shortest accepted search query, in characters.
	MinQueryLength = 3
	// DefaultTopK is used when SearchOptions.TopK is not positive.
	DefaultTopK = 5
)

// ErrQueryTooShort is returned for queries under MinQueryLength characters.
var ErrQueryTooShort = errors.New("query must be at least 3 characters")

// SearchOptions narrows a search.
type SearchOptions struct {
	TopK int
	// Project restricts results to documents tagged with this project,
	// compared case-insensitively.
	Project string
}

// Result is a matching document with its relevance. Higher scores are
// better matches.
type Result struct {
	Document
	Score float64 `json:"relevance_score"`
}

// Search runs a keyword search over title and content. Every word of the
// query is optional, so documents matching more of them rank higher.
func (s *Store) Search(ctx context.Context, query string, opts SearchOptions) ([]Result, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinQueryLength {
		return nil, ErrQueryTooShort
	}
	match := matchExpr(query)
	if match == "" {
		return []Result{}, nil
	}
	topK := opts.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	sqlQuery := `
		SELECT d.id, d.title, d.content, d.project, d.source, d.doc_type, d.last_updated, d.created_at,
			   bm25(documents_fts) AS score
		FROM documents d
		JOIN documents_fts ON d.rowid = documents_fts.rowid
		WHERE documents_fts MATCH ?`
	args := []interface{}{match}
	if opts.Project != "" {
		sqlQuery += ` AND d.project = ? COLLATE NOCASE`
		args = append(args, opts.Project)
	}
	sqlQuery += ` ORDER BY score, d.id LIMIT ?`
	args = append(args, topK)

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}
	defer rows.Close()

	results := []Result{}
	for rows.Next() {
		var (
			r          Result
			project    sql.NullString
			source     sql.NullString
			docType    sql.NullString
			lastUpdate sql.NullString
			createdAt  string
			rank       float64
		)
		if err := rows.Scan(&r.ID, &r.Title, &r.Content, &project, &source, &docType, &lastUpdate, &createdAt, &rank); err != nil {
			return nil, fmt.Errorf("scan search result: %w", err)
		}
		r.Project = project.String
		r.Source = source.String
		r.DocType = docType.String
		r.LastUpdated = lastUpdate.String
		r.CreatedAt, _ = parseTime(createdAt)
		// bm25 is negative; more negative is more relevant.
		r.Score = -rank
		results = append(results, r)
	}
	return results, rows.Err()
}

// matchExpr turns free text into an FTS5 expression that ORs the quoted
// words, so punctuation in the query cannot break the syntax.
func matchExpr(query string) string {
	words := strings.FieldsFunc(query, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	seen := make(map[string]bool, len(words))
	terms := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(w)
		if seen[w] {
			continue
		}
		seen[w] = true
		terms = append(terms, `"`+w+`"`)
	}
	return strings.Join(terms, " OR ")
}
