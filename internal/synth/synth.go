// Package synth derives GraphQL types from content-model classes: it
// inspects each class discovered for a content source, synthesizes a
// schema type with resolvers for its stream fields, and registers the
// result into the process-wide registry.
package synth

import (
	"context"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/pagegraph/pagegraph/internal/forms"
	"github.com/pagegraph/pagegraph/internal/model"
	"github.com/pagegraph/pagegraph/internal/permission"
	"github.com/pagegraph/pagegraph/internal/registry"
	"github.com/pagegraph/pagegraph/internal/schema"
	"github.com/pagegraph/pagegraph/internal/source"
)

// Synthesizer drives type synthesis for content sources. It owns the
// registration pass; once every source is registered, BuildSchema
// assembles the executable schema and the registry is frozen by the
// caller before serving traffic.
type Synthesizer struct {
	reg      *registry.Registry
	provider model.Provider
	src      source.DataSource
	filter   permission.Filter
	engine   forms.Engine

	sanitizer *bluemonday.Policy
	subTypes  []*schema.Type // stream-field sub-types, in creation order
}

// New creates a Synthesizer. The filter defaults to permission.AllowAll
// when nil.
func New(reg *registry.Registry, provider model.Provider, src source.DataSource, filter permission.Filter, engine forms.Engine) *Synthesizer {
	if filter == nil {
		filter = permission.AllowAll
	}
	return &Synthesizer{
		reg:       reg,
		provider:  provider,
		src:       src,
		filter:    filter,
		engine:    engine,
		sanitizer: bluemonday.UGCPolicy(),
	}
}

// typeParams accumulates the construction parameters for one synthesized
// type: field definitions plus the resolvers for synthesized fields.
type typeParams struct {
	fields    []*schema.Field
	resolvers map[string]registry.FieldResolver
}

func newTypeParams() *typeParams {
	return &typeParams{resolvers: make(map[string]registry.FieldResolver)}
}

func (p *typeParams) addField(f *schema.Field) { p.fields = append(p.fields, f) }

func (p *typeParams) addResolver(field string, r registry.FieldResolver) {
	p.resolvers[field] = r
}

// filteredPages fetches pages and applies the permission filter with the
// acting user from ctx.
func (s *Synthesizer) filteredPages(ctx context.Context, q source.Query) ([]*model.Record, error) {
	recs, err := s.src.FetchPages(ctx, q)
	if err != nil {
		return nil, err
	}
	return s.filter(permission.UserFrom(ctx), recs), nil
}

// expandPrefix fills the node-name prefix template for one class.
// Placeholders: {app} (capitalized source name) and {class}.
func expandPrefix(tmpl, app, clsName string) string {
	out := strings.ReplaceAll(tmpl, "{app}", model.CapFirst(app))
	return strings.ReplaceAll(out, "{class}", clsName)
}
