// Package permission carries the per-request principal and the filter
// hook applied before any page or snippet read reaches the caller.
package permission

import (
	"context"

	"github.com/pagegraph/pagegraph/internal/model"
)

// Filter narrows a loaded record set to what the acting user may see.
// It must not fetch or mutate data, only drop records.
type Filter func(user *model.User, recs []*model.Record) []*model.Record

// AllowAll is the identity filter.
func AllowAll(_ *model.User, recs []*model.Record) []*model.Record { return recs }

// Published hides unpublished page records from everyone but superusers.
// Records outside the page tree (snippets, settings) carry no live flag
// and always pass.
func Published(user *model.User, recs []*model.Record) []*model.Record {
	if user != nil && user.Superuser {
		return recs
	}
	out := make([]*model.Record, 0, len(recs))
	for _, rec := range recs {
		if rec.Path != "" && !rec.Live {
			continue
		}
		out = append(out, rec)
	}
	return out
}

type userKey struct{}

// WithUser returns a copy of ctx carrying the acting user.
func WithUser(ctx context.Context, u *model.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// UserFrom extracts the acting user from ctx. Returns nil for anonymous
// requests.
func UserFrom(ctx context.Context) *model.User {
	u, _ := ctx.Value(userKey{}).(*model.User)
	return u
}
