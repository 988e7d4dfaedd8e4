package resolve

import (
	"context"
	"fmt"
	"strings"

	"github.com/pagegraph/pagegraph/internal/model"
	"github.com/pagegraph/pagegraph/internal/permission"
	"github.com/pagegraph/pagegraph/internal/source"
)

func (r *Runtime) resolveQuery(ctx context.Context, field string, args map[string]any, selections []string) (any, error) {
	switch field {
	case "page":
		return r.resolvePage(ctx, args)
	case "pages":
		return r.resolvePages(ctx, args, selections)
	case "showInMenus":
		recs, err := r.fetchPages(ctx, source.Query{
			MenuOnly:    true,
			LiveOnly:    true,
			OrderByPath: true,
		})
		if err != nil {
			return nil, err
		}
		return toAnyList(recs), nil
	case "root":
		return r.resolveRoot(ctx)
	case "settings":
		return r.resolveSettings(ctx, args)
	}

	if tp, ok := r.snippets[field]; ok {
		recs, err := r.fetchRecords(ctx, tp.Class.Key())
		if err != nil {
			return nil, err
		}
		return toAnyList(recs), nil
	}
	return nil, fmt.Errorf("unknown query field %q", field)
}

// resolvePage looks a single page up by exactly one of id or url. The url
// form is normalized against the serving prefix before matching.
func (r *Runtime) resolvePage(ctx context.Context, args map[string]any) (any, error) {
	idArg, hasID := args["id"]
	urlArg, hasURL := args["url"]
	if hasID == hasURL {
		return nil, fmt.Errorf("%w: exactly one of 'id' or 'url' must be given", ErrInvalidArgument)
	}

	q := source.Query{LiveOnly: true, Specific: true}
	if hasID {
		id, ok := asInt(idArg)
		if !ok {
			return nil, fmt.Errorf("%w: 'id' must be an integer", ErrInvalidArgument)
		}
		q.ID = &id
	} else {
		url, ok := urlArg.(string)
		if !ok {
			return nil, fmt.Errorf("%w: 'url' must be a string", ErrInvalidArgument)
		}
		q.URLPath = r.urlPrefix + strings.Trim(url, "/") + "/"
	}

	recs, err := r.fetchPages(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return recs[0], nil
}

// resolvePages lists live pages in tree pre-order, optionally restricted
// to direct children of a parent page. Only the joins named by both the
// request's selection set and the registered prefetch fields are planned.
func (r *Runtime) resolvePages(ctx context.Context, args map[string]any, selections []string) (any, error) {
	q := source.Query{
		LiveOnly:    true,
		Specific:    true,
		OrderByPath: true,
		Prefetch:    r.prefetchFor(selections),
	}
	if parentArg, ok := args["parent"]; ok {
		id, ok := asInt(parentArg)
		if !ok {
			return nil, fmt.Errorf("%w: 'parent' must be an integer", ErrInvalidArgument)
		}
		q.ChildOf = &id
	}
	recs, err := r.fetchPages(ctx, q)
	if err != nil {
		return nil, err
	}
	return toAnyList(recs), nil
}

// prefetchFor maps selection names to prefetch keys: a selection naming a
// synthesized type (from a fragment condition) contributes its class name,
// anything else is matched by its normalized lower-case form.
func (r *Runtime) prefetchFor(selections []string) []string {
	var names []string
	seen := map[string]bool{}
	for _, sel := range selections {
		name, ok := r.classes[sel]
		if !ok {
			name = strings.ReplaceAll(strings.ToLower(model.CamelToSnake(sel)), "_", "")
		}
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return r.reg.PrefetchIntersection(names)
}

// resolveRoot exposes the site record to superusers only; everyone else
// sees null.
func (r *Runtime) resolveRoot(ctx context.Context) (any, error) {
	user := permission.UserFrom(ctx)
	if user == nil || !user.Superuser {
		return nil, nil
	}
	site, err := r.fetchSite(ctx)
	if err != nil {
		return nil, err
	}
	if site == nil {
		return nil, nil
	}
	return site, nil
}

// resolveSettings returns the first stored record of the settings class
// registered under the given display name, or null when none is stored.
func (r *Runtime) resolveSettings(ctx context.Context, args map[string]any) (any, error) {
	name, _ := args["name"].(string)
	entry, err := r.reg.Setting(name)
	if err != nil {
		return nil, err
	}
	recs, err := r.fetchRecords(ctx, entry.Class.Key())
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return recs[0], nil
}
