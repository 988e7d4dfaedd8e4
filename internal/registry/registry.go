// Package registry holds the process-wide mapping from content-model
// classes to their synthesized GraphQL types. It is populated by a single
// registration pass at startup, frozen, and then read concurrently without
// locking during query execution.
package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/pagegraph/pagegraph/internal/model"
	"github.com/pagegraph/pagegraph/internal/schema"
)

// ErrNotFound reports a lookup for a class or name that was never
// registered. Hitting it at query time is a registration defect, not a
// data condition.
var ErrNotFound = errors.New("registry: not found")

// FieldResolver materializes one synthesized field value from a loaded
// record.
type FieldResolver func(ctx context.Context, rec *model.Record) (any, error)

// MutateFunc executes a synthesized form mutation.
type MutateFunc func(ctx context.Context, args map[string]any) (any, error)

// SynthesizedType is a generated schema type bound one-to-one to a model
// class. Immutable after creation.
type SynthesizedType struct {
	Name      string
	Class     *model.ModelClass
	Def       *schema.Type
	Resolvers map[string]FieldResolver // keyed by GraphQL field name
}

// MutationType is a generated mutation bound to a form class, keyed in
// the registry by its node name rather than by class.
type MutationType struct {
	Name      string // "<Node>Mutation"
	FieldName string // root mutation field name
	Class     *model.ModelClass
	Def       *schema.Type
	Mutate    MutateFunc
}

// SettingEntry pairs a settings class with its synthesized type, keyed by
// the class's display name.
type SettingEntry struct {
	Class *model.ModelClass
	Type  *SynthesizedType
}

// Registry is the five-bucket store. Inserts overwrite unconditionally;
// the registration driver's seen-guard is what prevents duplicates, so
// callers must not bypass it.
type Registry struct {
	frozen bool

	pages     map[string]*SynthesizedType // by class key
	pageOrder []string

	forms     map[string]*MutationType // by node name
	formOrder []string

	settings     map[string]*SettingEntry // by display name
	settingOrder []string

	snippets       map[string]*SynthesizedType // by class key
	snippetsByName map[string]*SynthesizedType // by node name
	snippetOrder   []string

	records     map[string]*SynthesizedType // by node name
	recordOrder []string

	prefetch map[string]struct{}
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		pages:          make(map[string]*SynthesizedType),
		forms:          make(map[string]*MutationType),
		settings:       make(map[string]*SettingEntry),
		snippets:       make(map[string]*SynthesizedType),
		snippetsByName: make(map[string]*SynthesizedType),
		records:        make(map[string]*SynthesizedType),
		prefetch:       make(map[string]struct{}),
	}
}

// Freeze marks the end of the registration pass. Any later write panics:
// re-registration while serving queries is a programming error, not a
// supported operation.
func (r *Registry) Freeze() { r.frozen = true }

func (r *Registry) write() {
	if r.frozen {
		panic("registry: write after freeze")
	}
}

// AddPage registers a page type under its class key.
func (r *Registry) AddPage(tp *SynthesizedType) {
	r.write()
	key := tp.Class.Key()
	if _, ok := r.pages[key]; !ok {
		r.pageOrder = append(r.pageOrder, key)
	}
	r.pages[key] = tp
}

// PageByClass looks up the page type registered for a class key.
func (r *Registry) PageByClass(classKey string) (*SynthesizedType, error) {
	tp, ok := r.pages[classKey]
	if !ok {
		return nil, fmt.Errorf("%w: page type for class %q", ErrNotFound, classKey)
	}
	return tp, nil
}

// Pages returns all registered page types in registration order.
func (r *Registry) Pages() []*SynthesizedType {
	out := make([]*SynthesizedType, 0, len(r.pageOrder))
	for _, key := range r.pageOrder {
		out = append(out, r.pages[key])
	}
	return out
}

// AddForm registers a form mutation under its node name.
func (r *Registry) AddForm(mt *MutationType) {
	r.write()
	if _, ok := r.forms[mt.Name]; !ok {
		r.formOrder = append(r.formOrder, mt.Name)
	}
	r.forms[mt.Name] = mt
}

// Form looks up a mutation by node name.
func (r *Registry) Form(node string) (*MutationType, error) {
	mt, ok := r.forms[node]
	if !ok {
		return nil, fmt.Errorf("%w: form mutation %q", ErrNotFound, node)
	}
	return mt, nil
}

// Forms returns all registered mutations in registration order.
func (r *Registry) Forms() []*MutationType {
	out := make([]*MutationType, 0, len(r.formOrder))
	for _, name := range r.formOrder {
		out = append(out, r.forms[name])
	}
	return out
}

// AddSetting registers a settings class under its display name. Two
// classes sharing a display name collide; last write wins.
func (r *Registry) AddSetting(displayName string, entry *SettingEntry) {
	r.write()
	if _, ok := r.settings[displayName]; !ok {
		r.settingOrder = append(r.settingOrder, displayName)
	}
	r.settings[displayName] = entry
}

// Setting looks up the settings class registered under a display name.
func (r *Registry) Setting(displayName string) (*SettingEntry, error) {
	entry, ok := r.settings[displayName]
	if !ok {
		return nil, fmt.Errorf("%w: setting %q", ErrNotFound, displayName)
	}
	return entry, nil
}

// Settings returns all setting entries in registration order.
func (r *Registry) Settings() []*SettingEntry {
	out := make([]*SettingEntry, 0, len(r.settingOrder))
	for _, name := range r.settingOrder {
		out = append(out, r.settings[name])
	}
	return out
}

// AddSnippet registers a snippet type under both its class key and its
// node name.
func (r *Registry) AddSnippet(tp *SynthesizedType) {
	r.write()
	key := tp.Class.Key()
	if _, ok := r.snippets[key]; !ok {
		r.snippetOrder = append(r.snippetOrder, key)
	}
	r.snippets[key] = tp
	r.snippetsByName[tp.Name] = tp
}

// SnippetByClass looks up a snippet type by class key.
func (r *Registry) SnippetByClass(classKey string) (*SynthesizedType, error) {
	tp, ok := r.snippets[classKey]
	if !ok {
		return nil, fmt.Errorf("%w: snippet type for class %q", ErrNotFound, classKey)
	}
	return tp, nil
}

// SnippetByName looks up a snippet type by node name.
func (r *Registry) SnippetByName(node string) (*SynthesizedType, error) {
	tp, ok := r.snippetsByName[node]
	if !ok {
		return nil, fmt.Errorf("%w: snippet type %q", ErrNotFound, node)
	}
	return tp, nil
}

// Snippets returns all snippet types in registration order.
func (r *Registry) Snippets() []*SynthesizedType {
	out := make([]*SynthesizedType, 0, len(r.snippetOrder))
	for _, key := range r.snippetOrder {
		out = append(out, r.snippets[key])
	}
	return out
}

// AddRecord registers a generic record type under its node name.
func (r *Registry) AddRecord(tp *SynthesizedType) {
	r.write()
	if _, ok := r.records[tp.Name]; !ok {
		r.recordOrder = append(r.recordOrder, tp.Name)
	}
	r.records[tp.Name] = tp
}

// RecordByName looks up a generic record type by node name.
func (r *Registry) RecordByName(node string) (*SynthesizedType, error) {
	tp, ok := r.records[node]
	if !ok {
		return nil, fmt.Errorf("%w: record type %q", ErrNotFound, node)
	}
	return tp, nil
}

// Records returns all generic record types in registration order.
func (r *Registry) Records() []*SynthesizedType {
	out := make([]*SynthesizedType, 0, len(r.recordOrder))
	for _, name := range r.recordOrder {
		out = append(out, r.records[name])
	}
	return out
}

// MarkPrefetch adds a lower-cased class name to the set of fields that
// should be eagerly joined when listing pages.
func (r *Registry) MarkPrefetch(name string) {
	r.write()
	r.prefetch[name] = struct{}{}
}

// IsPrefetch reports membership in the prefetch set.
func (r *Registry) IsPrefetch(name string) bool {
	_, ok := r.prefetch[name]
	return ok
}

// PrefetchIntersection returns, preserving the input order, the names in
// the given selection that are registered prefetch fields.
func (r *Registry) PrefetchIntersection(selection []string) []string {
	var out []string
	for _, name := range selection {
		if r.IsPrefetch(name) {
			out = append(out, name)
		}
	}
	return out
}
