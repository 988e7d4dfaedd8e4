package source

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/pagegraph/pagegraph/internal/model"
)

// InMemory is a DataSource over a fixed record set. It backs tests and the
// example server. Records are stored in their most-specific representation,
// so the Specific restriction is satisfied structurally.
type InMemory struct {
	mu      sync.Mutex
	pages   []*model.Record
	records map[string][]*model.Record // non-page records by class key
	site    *model.Site

	// LastPrefetch captures the prefetch list of the most recent FetchPages
	// call, for join-accounting in tests.
	LastPrefetch []string
}

// NewInMemory creates an empty in-memory source.
func NewInMemory() *InMemory {
	return &InMemory{records: make(map[string][]*model.Record)}
}

// AddPage adds a page record.
func (s *InMemory) AddPage(recs ...*model.Record) *InMemory {
	s.pages = append(s.pages, recs...)
	return s
}

// AddRecord adds a non-page record under its content-type class key.
func (s *InMemory) AddRecord(recs ...*model.Record) *InMemory {
	for _, rec := range recs {
		s.records[rec.ContentType] = append(s.records[rec.ContentType], rec)
	}
	return s
}

// SetSite sets the current site.
func (s *InMemory) SetSite(site *model.Site) *InMemory {
	s.site = site
	return s
}

func (s *InMemory) FetchPages(ctx context.Context, q Query) ([]*model.Record, error) {
	s.mu.Lock()
	s.LastPrefetch = append([]string(nil), q.Prefetch...)
	s.mu.Unlock()

	var parent *model.Record
	if q.ChildOf != nil {
		for _, rec := range s.pages {
			if rec.ID == *q.ChildOf {
				parent = rec
				break
			}
		}
		if parent == nil {
			return nil, ErrNotFound
		}
	}

	var out []*model.Record
	for _, rec := range s.pages {
		if q.ID != nil && rec.ID != *q.ID {
			continue
		}
		if q.URLPath != "" && rec.URLPath != q.URLPath {
			continue
		}
		if parent != nil {
			if rec.Depth != parent.Depth+1 || !strings.HasPrefix(rec.Path, parent.Path) {
				continue
			}
		}
		if q.MenuOnly && !rec.ShowInMenus {
			continue
		}
		if q.LiveOnly && !rec.Live {
			continue
		}
		out = append(out, rec)
	}
	if q.OrderByPath {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	}
	return out, nil
}

func (s *InMemory) FetchRecords(ctx context.Context, classKey string) ([]*model.Record, error) {
	return s.records[classKey], nil
}

func (s *InMemory) Site(ctx context.Context) (*model.Site, error) {
	return s.site, nil
}
