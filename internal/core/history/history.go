// Package history defines the search history domain types.
package history

import (
	"context"
	"strings"
	"time"

	"github.com/colonyops/mappicker/internal/core/geo"
)

// Entry is a location search that resolved to a position.
type Entry struct {
	Query     string       `json:"query"`
	Position  geo.Position `json:"position"`
	Timestamp time.Time    `json:"timestamp"`
}

// Store persists search history, newest first.
type Store interface {
	List(ctx context.Context) ([]Entry, error)
	// Save records entry, dropping older entries for the same query and
	// pruning to maxEntries (0 keeps everything).
	Save(ctx context.Context, entry Entry, maxEntries int) error
}

// SameQuery reports whether two queries are the same search, ignoring case and
// surrounding whitespace.
func SameQuery(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// Recall steps through past queries the way a shell steps through its history.
// Prev moves to older queries, Next back toward the text typed before
// recalling started.
type Recall struct {
	queries []string // newest first
	pos     int      // index into queries, -1 when not recalling
	draft   string
}

// NewRecall returns a Recall over entries, which must be newest first.
func NewRecall(entries []Entry) *Recall {
	r := &Recall{pos: -1}
	for i := len(entries) - 1; i >= 0; i-- {
		r.Add(entries[i].Query)
	}
	return r
}

// Add puts query at the front, removing earlier copies, and stops recalling.
func (r *Recall) Add(query string) {
	query = strings.TrimSpace(query)
	r.Reset()
	if query == "" {
		return
	}

	out := make([]string, 0, len(r.queries)+1)
	out = append(out, query)
	for _, q := range r.queries {
		if !SameQuery(q, query) {
			out = append(out, q)
		}
	}
	r.queries = out
}

// Prev returns the next older query. current is kept as the draft when
// recalling starts. It returns false when there is nothing older.
func (r *Recall) Prev(current string) (string, bool) {
	if r.pos+1 >= len(r.queries) {
		return "", false
	}
	if r.pos == -1 {
		r.draft = current
	}
	r.pos++
	return r.queries[r.pos], true
}

// Next returns the next newer query, or the draft after the newest one. It
// returns false when not recalling.
func (r *Recall) Next() (string, bool) {
	if r.pos == -1 {
		return "", false
	}
	r.pos--
	if r.pos == -1 {
		return r.draft, true
	}
	return r.queries[r.pos], true
}

// Reset stops recalling.
func (r *Recall) Reset() {
	r.pos = -1
	r.draft = ""
}

// Len returns the number of remembered queries.
func (r *Recall) Len() int {
	return len(r.queries)
}
