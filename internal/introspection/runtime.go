// Package introspection layers the GraphQL introspection surface
// (__schema, __type and friends) over an executor.Runtime without the
// synthesized runtime knowing about it.
package introspection

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pagegraph/pagegraph/internal/executor"
	"github.com/pagegraph/pagegraph/internal/schema"
)

// Wrapper bundles the introspection-aware runtime with the extended
// schema the executor must be constructed against.
type Wrapper struct {
	Runtime executor.Runtime
	Schema  *schema.Schema
}

// Wrap extends the schema with the introspection types and returns a
// runtime that answers introspection fields itself and delegates
// everything else to base. Introspection queries report on the original
// schema, never on the extension.
func Wrap(base executor.Runtime, sch *schema.Schema) *Wrapper {
	extended := extend(sch)
	return &Wrapper{
		Runtime: &runtime{base: base, original: sch},
		Schema:  extended,
	}
}

type runtime struct {
	base     executor.Runtime
	original *schema.Schema
}

// directiveDef describes an executable directive for introspection. The
// schema value model carries no directive definitions, so the two
// standard ones are declared here.
type directiveDef struct {
	Name        string
	Description string
	Locations   []string
	Args        []*schema.InputValue
}

var executableDirectives = []*directiveDef{
	{
		Name:        "include",
		Description: "Directs the executor to include this field or fragment only when the `if` argument is true.",
		Locations:   []string{"FIELD", "FRAGMENT_SPREAD", "INLINE_FRAGMENT"},
		Args: []*schema.InputValue{
			schema.NewInputValue("if", "Included when true.", schema.NonNullType(schema.NamedType("Boolean"))),
		},
	},
	{
		Name:        "skip",
		Description: "Directs the executor to skip this field or fragment when the `if` argument is true.",
		Locations:   []string{"FIELD", "FRAGMENT_SPREAD", "INLINE_FRAGMENT"},
		Args: []*schema.InputValue{
			schema.NewInputValue("if", "Skipped when true.", schema.NonNullType(schema.NamedType("Boolean"))),
		},
	},
}

func (r *runtime) ResolveField(ctx context.Context, objectType, field string, source any, args map[string]any, selections []string) (any, error) {
	switch src := source.(type) {
	case *schema.Schema:
		if v, ok := resolveSchemaField(src, field); ok {
			return v, nil
		}
	case *schema.Type:
		if v, ok := resolveTypeField(r.original, src, field); ok {
			return v, nil
		}
	case *schema.TypeRef:
		return resolveTypeRefField(r.original, src, field)
	case *schema.Field:
		if v, ok := resolveFieldField(src, field); ok {
			return v, nil
		}
	case *schema.InputValue:
		if v, ok := resolveInputValueField(src, field); ok {
			return v, nil
		}
	case *directiveDef:
		if v, ok := resolveDirectiveField(src, field); ok {
			return v, nil
		}
	}

	if objectType == r.original.QueryType {
		switch field {
		case "__schema":
			return r.original, nil
		case "__type":
			name, _ := args["name"].(string)
			if name == "" {
				return nil, nil
			}
			if t := r.original.Types[name]; t != nil {
				return t, nil
			}
			return nil, nil
		}
	}

	return r.base.ResolveField(ctx, objectType, field, source, args, selections)
}

func (r *runtime) ResolveConcreteValue(ctx context.Context, abstractType string, value any) (any, error) {
	return r.base.ResolveConcreteValue(ctx, abstractType, value)
}

func (r *runtime) ResolveType(ctx context.Context, abstractType string, value any) (string, error) {
	return r.base.ResolveType(ctx, abstractType, value)
}

func (r *runtime) SerializeLeaf(ctx context.Context, scalarTypeName string, value any) (any, error) {
	if strings.HasPrefix(scalarTypeName, "__") {
		return value, nil
	}
	return r.base.SerializeLeaf(ctx, scalarTypeName, value)
}

func resolveSchemaField(sch *schema.Schema, field string) (any, bool) {
	switch field {
	case "description":
		return sch.Description, true
	case "types":
		out := make([]*schema.Type, 0, len(sch.Types))
		for _, t := range sch.Types {
			out = append(out, t)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
		return out, true
	case "queryType":
		return sch.GetQueryType(), true
	case "mutationType":
		if sch.MutationType == "" {
			return nil, true
		}
		return sch.GetMutationType(), true
	case "subscriptionType":
		return nil, true
	case "directives":
		return executableDirectives, true
	}
	return nil, false
}

func resolveTypeField(sch *schema.Schema, t *schema.Type, field string) (any, bool) {
	switch field {
	case "kind":
		return string(t.Kind), true
	case "name":
		return t.Name, true
	case "description":
		return t.Description, true
	case "specifiedByURL":
		return nil, true
	case "fields":
		if t.Kind != schema.TypeKindObject && t.Kind != schema.TypeKindInterface {
			return nil, true
		}
		out := make([]*schema.Field, len(t.Fields))
		copy(out, t.Fields)
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
		return out, true
	case "interfaces":
		if t.Kind != schema.TypeKindObject && t.Kind != schema.TypeKindInterface {
			return nil, true
		}
		return namedTypes(sch, t.Interfaces), true
	case "possibleTypes":
		if t.Kind != schema.TypeKindInterface && t.Kind != schema.TypeKindUnion {
			return nil, true
		}
		return namedTypes(sch, t.PossibleTypes), true
	case "enumValues", "inputFields", "ofType":
		return nil, true
	case "isOneOf":
		return false, true
	}
	return nil, false
}

// resolveTypeRefField unwraps List and Non-Null references itself and
// answers everything else off the referenced named type.
func resolveTypeRefField(sch *schema.Schema, tr *schema.TypeRef, field string) (any, error) {
	wrapper := tr.Kind == schema.TypeRefKindList || tr.Kind == schema.TypeRefKindNonNull
	switch field {
	case "kind":
		if wrapper {
			return string(tr.Kind), nil
		}
	case "name":
		if wrapper {
			return nil, nil
		}
	case "ofType":
		if wrapper {
			return tr.OfType, nil
		}
		return nil, nil
	}
	if wrapper {
		return nil, nil
	}
	def := sch.Types[tr.Named]
	if def == nil {
		return nil, fmt.Errorf("unknown type %q in type reference", tr.Named)
	}
	v, _ := resolveTypeField(sch, def, field)
	return v, nil
}

func resolveFieldField(f *schema.Field, field string) (any, bool) {
	switch field {
	case "name":
		return f.Name, true
	case "description":
		return f.Description, true
	case "args":
		return f.Arguments, true
	case "type":
		return f.Type, true
	case "isDeprecated":
		return false, true
	case "deprecationReason":
		return nil, true
	}
	return nil, false
}

func resolveInputValueField(a *schema.InputValue, field string) (any, bool) {
	switch field {
	case "name":
		return a.Name, true
	case "description":
		return a.Description, true
	case "type":
		return a.Type, true
	case "defaultValue":
		if a.DefaultValue == nil {
			return nil, true
		}
		return fmt.Sprintf("%v", a.DefaultValue), true
	case "isDeprecated":
		return false, true
	case "deprecationReason":
		return nil, true
	}
	return nil, false
}

func resolveDirectiveField(d *directiveDef, field string) (any, bool) {
	switch field {
	case "name":
		return d.Name, true
	case "description":
		return d.Description, true
	case "isRepeatable":
		return false, true
	case "locations":
		return d.Locations, true
	case "args":
		return d.Args, true
	}
	return nil, false
}

func namedTypes(sch *schema.Schema, names []string) []*schema.Type {
	out := make([]*schema.Type, 0, len(names))
	for _, name := range names {
		if def := sch.Types[name]; def != nil {
			out = append(out, def)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
