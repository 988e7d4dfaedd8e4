package resolve

import (
	"context"
	"fmt"

	"github.com/pagegraph/pagegraph/internal/model"
	"github.com/pagegraph/pagegraph/internal/source"
	"github.com/pagegraph/pagegraph/internal/synth"
)

// ResolveConcreteValue prepares an abstract-typed value for completion.
// A bare integer id standing in for a page is loaded into its specific
// record here; records pass through unchanged.
func (r *Runtime) ResolveConcreteValue(ctx context.Context, abstractType string, value any) (any, error) {
	switch abstractType {
	case synth.PageInterfaceName, synth.PageUnionName:
		if _, ok := value.(*model.Record); ok {
			return value, nil
		}
		id, ok := asInt(value)
		if !ok {
			return nil, fmt.Errorf("cannot resolve %q value of type %T", abstractType, value)
		}
		recs, err := r.src.FetchPages(ctx, source.Query{ID: &id, Specific: true})
		if err != nil {
			return nil, err
		}
		if len(recs) == 0 {
			return nil, fmt.Errorf("%w: page id=%d", source.ErrNotFound, id)
		}
		return recs[0], nil
	}
	return value, nil
}

// ResolveType maps a concrete value to its synthesized type name. An
// unregistered content type is a hard error: silently defaulting would
// mask a registration defect.
func (r *Runtime) ResolveType(_ context.Context, abstractType string, value any) (string, error) {
	rec, ok := value.(*model.Record)
	if !ok {
		return "", fmt.Errorf("cannot resolve type of %T for %q", value, abstractType)
	}
	switch abstractType {
	case synth.PageInterfaceName, synth.PageUnionName:
		tp, err := r.reg.PageByClass(rec.ContentType)
		if err != nil {
			return "", err
		}
		return tp.Name, nil
	case synth.SettingsName:
		for _, entry := range r.reg.Settings() {
			if entry.Class.Key() == rec.ContentType {
				return entry.Type.Name, nil
			}
		}
		return "", fmt.Errorf("no settings type registered for content type %q", rec.ContentType)
	}
	return "", fmt.Errorf("unknown abstract type %q", abstractType)
}
