// Package resolve implements the execution runtime over a frozen
// registry: root query and mutation dispatch, synthesized field
// resolution, polymorphic type resolution and scalar serialization.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/pagegraph/pagegraph/internal/eventbus"
	"github.com/pagegraph/pagegraph/internal/events"
	"github.com/pagegraph/pagegraph/internal/model"
	"github.com/pagegraph/pagegraph/internal/permission"
	"github.com/pagegraph/pagegraph/internal/registry"
	"github.com/pagegraph/pagegraph/internal/source"
	"github.com/pagegraph/pagegraph/internal/synth"
)

// ErrInvalidArgument reports a malformed root-field argument combination.
var ErrInvalidArgument = errors.New("resolve: invalid argument")

// Runtime resolves fields against the registry and data source. Build it
// after registry.Freeze: the lookup indexes are computed once and then
// read concurrently without locking.
type Runtime struct {
	reg       *registry.Registry
	src       source.DataSource
	filter    permission.Filter
	urlPrefix string

	types     map[string]*registry.SynthesizedType // all synthesized object types by name
	snippets  map[string]*registry.SynthesizedType // by root query field name
	mutations map[string]*registry.MutationType    // by root mutation field name
	classes   map[string]string                    // type name -> lower-cased class name
}

// NewRuntime creates a Runtime over a frozen registry.
func NewRuntime(reg *registry.Registry, src source.DataSource, filter permission.Filter, urlPrefix string) *Runtime {
	if filter == nil {
		filter = permission.AllowAll
	}
	r := &Runtime{
		reg:       reg,
		src:       src,
		filter:    filter,
		urlPrefix: urlPrefix,
		types:     make(map[string]*registry.SynthesizedType),
		snippets:  make(map[string]*registry.SynthesizedType),
		mutations: make(map[string]*registry.MutationType),
		classes:   make(map[string]string),
	}
	index := func(tp *registry.SynthesizedType) {
		r.types[tp.Name] = tp
		r.classes[tp.Name] = strings.ToLower(tp.Class.Name)
	}
	for _, tp := range reg.Pages() {
		index(tp)
	}
	for _, entry := range reg.Settings() {
		index(entry.Type)
	}
	for _, tp := range reg.Snippets() {
		index(tp)
		r.snippets[model.LowerFirst(tp.Name)] = tp
	}
	for _, tp := range reg.Records() {
		index(tp)
	}
	for _, mt := range reg.Forms() {
		r.mutations[mt.FieldName] = mt
	}
	return r
}

// ResolveField dispatches one field resolution: root fields by name,
// synthesized resolvers by type, then structural access on the source
// value.
func (r *Runtime) ResolveField(ctx context.Context, objectType, field string, src any, args map[string]any, selections []string) (any, error) {
	switch objectType {
	case synth.QueryTypeName:
		return r.resolveQuery(ctx, field, args, selections)
	case synth.MutationTypeName:
		mt, ok := r.mutations[field]
		if !ok {
			return nil, fmt.Errorf("unknown mutation field %q", field)
		}
		return mt.Mutate(ctx, args)
	}

	if tp, ok := r.types[objectType]; ok {
		if res, ok := tp.Resolvers[field]; ok {
			rec, _ := src.(*model.Record)
			return res(ctx, rec)
		}
	}

	switch v := src.(type) {
	case *model.Record:
		return r.recordField(v, field), nil
	case *model.Site:
		return siteField(v, field)
	case map[string]any:
		return v[field], nil
	}
	return nil, fmt.Errorf("cannot resolve field %q on type %q from %T", field, objectType, src)
}

// recordField reads a contract field from the record itself, falling back
// to the declared-field data map under the snake_case name.
func (r *Runtime) recordField(rec *model.Record, field string) any {
	switch field {
	case "id":
		return rec.ID
	case "title":
		return rec.Title
	case "slug":
		return rec.Slug
	case "path":
		return rec.Path
	case "depth":
		return rec.Depth
	case "seoTitle":
		return rec.SEOTitle
	case "numchild":
		return rec.Numchild
	case "contentType":
		return rec.ContentType
	case "urlPath":
		return r.pageURL(rec)
	}
	if v, ok := rec.Data[model.CamelToSnake(field)]; ok {
		return v
	}
	return rec.Data[field]
}

// pageURL is the record's url path with the serving prefix stripped and
// the trailing slash removed.
func (r *Runtime) pageURL(rec *model.Record) any {
	url := rec.URLPath
	if url == "" {
		return nil
	}
	if r.urlPrefix != "" && strings.HasPrefix(url, r.urlPrefix) {
		url = url[len(r.urlPrefix):]
	}
	return strings.TrimRight(url, "/")
}

func siteField(site *model.Site, field string) (any, error) {
	switch field {
	case "id":
		return site.ID, nil
	case "hostname":
		return site.Hostname, nil
	case "port":
		return site.Port, nil
	case "siteName":
		return site.SiteName, nil
	}
	return nil, fmt.Errorf("unknown site field %q", field)
}

// SerializeLeaf coerces a resolved value to its scalar's JSON shape.
// JSON values pass through untouched.
func (r *Runtime) SerializeLeaf(_ context.Context, scalarTypeName string, value any) (any, error) {
	switch scalarTypeName {
	case "JSON":
		return value, nil
	case "Int":
		n, ok := asInt(value)
		if !ok {
			return nil, fmt.Errorf("cannot serialize %T as Int", value)
		}
		return n, nil
	case "Float":
		switch v := value.(type) {
		case float64:
			return v, nil
		case float32:
			return float64(v), nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		}
		return nil, fmt.Errorf("cannot serialize %T as Float", value)
	case "Boolean":
		b, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("cannot serialize %T as Boolean", value)
		}
		return b, nil
	case "String", "ID":
		if s, ok := value.(string); ok {
			return s, nil
		}
		if s, ok := value.(fmt.Stringer); ok {
			return s.String(), nil
		}
		if rv := reflect.ValueOf(value); rv.Kind() == reflect.String {
			return rv.String(), nil
		}
		return nil, fmt.Errorf("cannot serialize %T as String", value)
	}
	return nil, fmt.Errorf("unknown scalar type %q", scalarTypeName)
}

// asInt accepts the integer representations seen across AST literals,
// JSON-decoded variables and record data.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}

func (r *Runtime) fetchPages(ctx context.Context, q source.Query) ([]*model.Record, error) {
	started := time.Now()
	eventbus.Publish(ctx, events.SourceFetchStart{Operation: "pages"})
	recs, err := r.src.FetchPages(ctx, q)
	eventbus.Publish(ctx, events.SourceFetchFinish{
		Operation: "pages", Count: len(recs), Err: err, Duration: time.Since(started),
	})
	if err != nil {
		return nil, err
	}
	return r.filter(permission.UserFrom(ctx), recs), nil
}

func (r *Runtime) fetchRecords(ctx context.Context, classKey string) ([]*model.Record, error) {
	started := time.Now()
	eventbus.Publish(ctx, events.SourceFetchStart{Operation: "records"})
	recs, err := r.src.FetchRecords(ctx, classKey)
	eventbus.Publish(ctx, events.SourceFetchFinish{
		Operation: "records", Count: len(recs), Err: err, Duration: time.Since(started),
	})
	if err != nil {
		return nil, err
	}
	return r.filter(permission.UserFrom(ctx), recs), nil
}

func (r *Runtime) fetchSite(ctx context.Context) (*model.Site, error) {
	started := time.Now()
	eventbus.Publish(ctx, events.SourceFetchStart{Operation: "site"})
	site, err := r.src.Site(ctx)
	eventbus.Publish(ctx, events.SourceFetchFinish{
		Operation: "site", Err: err, Duration: time.Since(started),
	})
	return site, err
}

func toAnyList(recs []*model.Record) []any {
	out := make([]any, len(recs))
	for i, rec := range recs {
		out[i] = rec
	}
	return out
}
