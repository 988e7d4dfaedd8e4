// Package source defines the narrow contract pagegraph requires of its
// content storage collaborator.
package source

import (
	"context"
	"errors"

	"github.com/pagegraph/pagegraph/internal/model"
)

// ErrNotFound reports that a record referenced by id does not exist.
var ErrNotFound = errors.New("source: record not found")

// Query describes one page fetch. Zero values mean "no restriction".
type Query struct {
	// ID restricts to a single record id when non-nil.
	ID *int
	// URLPath restricts to records with exactly this url path.
	URLPath string
	// ChildOf restricts to direct children of the given page id when
	// non-nil.
	ChildOf *int
	// MenuOnly restricts to menu-flagged records.
	MenuOnly bool
	// LiveOnly restricts to live/published records.
	LiveOnly bool
	// Specific asks for the most-specific subtype representation.
	Specific bool
	// OrderByPath asks for ascending hierarchical-path ordering, which
	// encodes tree pre-order traversal.
	OrderByPath bool
	// Prefetch lists lower-cased class names whose rows should be joined
	// eagerly. It never changes the result set, only the fetch plan.
	Prefetch []string
}

// DataSource is the content storage collaborator. Implementations own all
// retry and failure-recovery policy; errors propagate to the caller as-is.
type DataSource interface {
	// FetchPages returns page records matching the query.
	FetchPages(ctx context.Context, q Query) ([]*model.Record, error)
	// FetchRecords returns all records of the given class key, in storage
	// order. Used for snippets and settings.
	FetchRecords(ctx context.Context, classKey string) ([]*model.Record, error)
	// Site returns the current site.
	Site(ctx context.Context) (*model.Site, error)
}
