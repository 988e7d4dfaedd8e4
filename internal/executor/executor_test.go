package executor

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/pagegraph/pagegraph/internal/language"
	"github.com/pagegraph/pagegraph/internal/schema"
)

// stubRuntime resolves fields from a fixed "Type.field" table. A table
// value may be a plain value or a resolver func.
type stubRuntime struct {
	fields map[string]any
	typeOf func(abstract string, value any) (string, error)
}

type stubResolver func(source any, args map[string]any) (any, error)

func (r stubRuntime) ResolveField(_ context.Context, objectType, field string, source any, args map[string]any, _ []string) (any, error) {
	v, ok := r.fields[objectType+"."+field]
	if !ok {
		return nil, fmt.Errorf("no stub for %s.%s", objectType, field)
	}
	if f, ok := v.(stubResolver); ok {
		return f(source, args)
	}
	return v, nil
}

func (r stubRuntime) ResolveConcreteValue(_ context.Context, _ string, value any) (any, error) {
	return value, nil
}

func (r stubRuntime) ResolveType(_ context.Context, abstract string, value any) (string, error) {
	if r.typeOf == nil {
		return "", fmt.Errorf("no type resolver")
	}
	return r.typeOf(abstract, value)
}

func (r stubRuntime) SerializeLeaf(_ context.Context, _ string, value any) (any, error) {
	return value, nil
}

func mustParseQuery(t *testing.T, q string) *language.QueryDocument {
	t.Helper()
	doc, err := language.ParseQuery(q)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return doc
}

func testSchema() *schema.Schema {
	sch := schema.NewSchema("").AddBuiltins()
	sch.SetQueryType("Query").SetMutationType("Mutation")

	sch.AddType(schema.NewType("Query", schema.TypeKindObject, "").
		AddField(schema.NewField("a", "", schema.NamedType("String"))).
		AddField(schema.NewField("obj", "", schema.NamedType("Obj"))).
		AddField(schema.NewField("objNN", "", schema.NonNullType(schema.NamedType("Obj")))).
		AddField(schema.NewField("list", "", schema.ListType(schema.NamedType("String")))).
		AddField(
			schema.NewField("echo", "", schema.NamedType("String")).
				AddArgument(schema.NewInputValue("msg", "", schema.NamedType("String"))).
				AddArgument(schema.NewInputValue("times", "", schema.NamedType("Int")).SetDefault(1))).
		AddField(schema.NewField("animal", "", schema.NamedType("Animal"))))

	sch.AddType(schema.NewType("Obj", schema.TypeKindObject, "").
		AddField(schema.NewField("x", "", schema.NamedType("String"))).
		AddField(schema.NewField("xNN", "", schema.NonNullType(schema.NamedType("String")))))

	animal := schema.NewType("Animal", schema.TypeKindInterface, "").
		AddField(schema.NewField("name", "", schema.NamedType("String")))
	animal.AddPossibleType("Dog").AddPossibleType("Cat")
	sch.AddType(animal)

	sch.AddType(schema.NewType("Dog", schema.TypeKindObject, "").
		AddInterface("Animal").
		AddField(schema.NewField("name", "", schema.NamedType("String"))).
		AddField(schema.NewField("bark", "", schema.NamedType("String"))))
	sch.AddType(schema.NewType("Cat", schema.TypeKindObject, "").
		AddInterface("Animal").
		AddField(schema.NewField("name", "", schema.NamedType("String"))).
		AddField(schema.NewField("meow", "", schema.NamedType("String"))))

	sch.AddType(schema.NewType("Mutation", schema.TypeKindObject, "").
		AddField(schema.NewField("doIt", "", schema.NamedType("String"))))

	return sch
}

func TestExecuteBasic(t *testing.T) {
	rt := stubRuntime{fields: map[string]any{
		"Query.a":    "A",
		"Query.obj":  map[string]any{},
		"Obj.x":      "X",
		"Query.list": []any{"p", "q"},
	}}
	exec := New(testSchema(), rt)

	got := exec.ExecuteRequest(context.Background(), mustParseQuery(t, "{ a obj { x } list }"), "", "", nil)

	want := map[string]any{
		"a":    "A",
		"obj":  map[string]any{"x": "X"},
		"list": []any{"p", "q"},
	}
	require.Empty(t, got.Errors)
	if diff := cmp.Diff(want, got.Data); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestExecuteAliasesAndTypename(t *testing.T) {
	rt := stubRuntime{fields: map[string]any{"Query.a": "A"}}
	exec := New(testSchema(), rt)

	got := exec.ExecuteRequest(context.Background(), mustParseQuery(t, "{ first: a second: a __typename }"), "", "", nil)

	require.Empty(t, got.Errors)
	want := map[string]any{"first": "A", "second": "A", "__typename": "Query"}
	if diff := cmp.Diff(want, got.Data); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestExecuteArguments(t *testing.T) {
	rt := stubRuntime{fields: map[string]any{
		"Query.echo": stubResolver(func(_ any, args map[string]any) (any, error) {
			return fmt.Sprintf("%v x%v", args["msg"], args["times"]), nil
		}),
	}}
	exec := New(testSchema(), rt)

	got := exec.ExecuteRequest(context.Background(), mustParseQuery(t, `{ echo(msg: "hi", times: 3) }`), "", "", nil)
	require.Empty(t, got.Errors)
	require.Equal(t, map[string]any{"echo": "hi x3"}, got.Data)

	// Argument defaults apply when omitted.
	got = exec.ExecuteRequest(context.Background(), mustParseQuery(t, `{ echo(msg: "hi") }`), "", "", nil)
	require.Empty(t, got.Errors)
	require.Equal(t, map[string]any{"echo": "hi x1"}, got.Data)
}

func TestExecuteVariables(t *testing.T) {
	rt := stubRuntime{fields: map[string]any{
		"Query.echo": stubResolver(func(_ any, args map[string]any) (any, error) {
			return args["msg"], nil
		}),
	}}
	exec := New(testSchema(), rt)
	doc := mustParseQuery(t, `query Q($m: String = "fallback") { echo(msg: $m) }`)

	got := exec.ExecuteRequest(context.Background(), doc, "", "Q", map[string]any{"m": "given"})
	require.Empty(t, got.Errors)
	require.Equal(t, map[string]any{"echo": "given"}, got.Data)

	got = exec.ExecuteRequest(context.Background(), doc, "", "Q", nil)
	require.Empty(t, got.Errors)
	require.Equal(t, map[string]any{"echo": "fallback"}, got.Data)
}

func TestExecuteInterfaceFragments(t *testing.T) {
	rt := stubRuntime{
		fields: map[string]any{
			"Query.animal": map[string]any{"kind": "dog"},
			"Dog.name":     "Rex",
			"Dog.bark":     "woof",
		},
		typeOf: func(_ string, _ any) (string, error) { return "Dog", nil },
	}
	exec := New(testSchema(), rt)
	doc := mustParseQuery(t, `{ animal { name ... on Dog { bark } ... on Cat { meow } __typename } }`)

	got := exec.ExecuteRequest(context.Background(), doc, "", "", nil)
	require.Empty(t, got.Errors)
	want := map[string]any{"animal": map[string]any{
		"name":       "Rex",
		"bark":       "woof",
		"__typename": "Dog",
	}}
	if diff := cmp.Diff(want, got.Data); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestExecuteSkipInclude(t *testing.T) {
	rt := stubRuntime{fields: map[string]any{"Query.a": "A", "Query.list": []any{}}}
	exec := New(testSchema(), rt)
	doc := mustParseQuery(t, `query Q($yes: Boolean!) { a @skip(if: $yes) list @include(if: $yes) }`)

	got := exec.ExecuteRequest(context.Background(), doc, "", "Q", map[string]any{"yes": true})
	require.Empty(t, got.Errors)
	require.Equal(t, map[string]any{"list": []any{}}, got.Data)

	got = exec.ExecuteRequest(context.Background(), doc, "", "Q", map[string]any{"yes": false})
	require.Empty(t, got.Errors)
	require.Equal(t, map[string]any{"a": "A"}, got.Data)
}

// A null in a non-null field propagates to the nearest nullable ancestor.
func TestExecuteNonNullPropagation(t *testing.T) {
	rt := stubRuntime{fields: map[string]any{
		"Query.obj":   map[string]any{},
		"Query.objNN": map[string]any{},
		"Obj.xNN":     nil,
	}}
	exec := New(testSchema(), rt)

	got := exec.ExecuteRequest(context.Background(), mustParseQuery(t, "{ obj { xNN } }"), "", "", nil)
	require.Len(t, got.Errors, 1)
	require.Equal(t, map[string]any{"obj": nil}, got.Data)

	got = exec.ExecuteRequest(context.Background(), mustParseQuery(t, "{ objNN { xNN } }"), "", "", nil)
	require.Len(t, got.Errors, 1)
	require.Nil(t, got.Data)
}

func TestExecuteResolverError(t *testing.T) {
	rt := stubRuntime{fields: map[string]any{
		"Query.a": stubResolver(func(any, map[string]any) (any, error) {
			return nil, fmt.Errorf("boom")
		}),
		"Query.obj": map[string]any{},
		"Obj.x":     "X",
	}}
	exec := New(testSchema(), rt)

	got := exec.ExecuteRequest(context.Background(), mustParseQuery(t, "{ a obj { x } }"), "", "", nil)
	require.Len(t, got.Errors, 1)
	require.Contains(t, got.Errors[0].Message, "boom")
	want := map[string]any{"a": nil, "obj": map[string]any{"x": "X"}}
	if diff := cmp.Diff(want, got.Data); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestExecuteUnknownField(t *testing.T) {
	rt := stubRuntime{fields: map[string]any{}}
	exec := New(testSchema(), rt)

	got := exec.ExecuteRequest(context.Background(), mustParseQuery(t, "{ nope }"), "", "", nil)
	require.Len(t, got.Errors, 1)
	require.Contains(t, got.Errors[0].Message, `"nope"`)
}

func TestExecuteMutationRoot(t *testing.T) {
	rt := stubRuntime{fields: map[string]any{"Mutation.doIt": "done"}}
	exec := New(testSchema(), rt)

	got := exec.ExecuteRequest(context.Background(), mustParseQuery(t, "mutation { doIt }"), "", "", nil)
	require.Empty(t, got.Errors)
	require.Equal(t, map[string]any{"doIt": "done"}, got.Data)
}

func TestExecuteOperationSelection(t *testing.T) {
	rt := stubRuntime{fields: map[string]any{"Query.a": "A"}}
	exec := New(testSchema(), rt)
	doc := mustParseQuery(t, "query One { a } query Two { a }")

	got := exec.ExecuteRequest(context.Background(), doc, "", "", nil)
	require.Len(t, got.Errors, 1)

	got = exec.ExecuteRequest(context.Background(), doc, "", "Two", nil)
	require.Empty(t, got.Errors)
	require.Equal(t, map[string]any{"a": "A"}, got.Data)
}
