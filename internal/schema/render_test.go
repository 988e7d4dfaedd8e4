package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRenderSDL(t *testing.T) {
	sch := NewSchema("").AddBuiltins().SetQueryType("Query")

	iface := NewType("Node", TypeKindInterface, "").
		AddField(NewField("id", "", NonNullType(NamedType("Int"))))
	iface.AddPossibleType("Post")

	sch.AddType(iface).
		AddType(NewType("Post", TypeKindObject, "").
			AddInterface("Node").
			AddField(NewField("id", "", NonNullType(NamedType("Int")))).
			AddField(NewField("tags", "", ListType(NonNullType(NamedType("String")))))).
		AddType(NewType("Query", TypeKindObject, "").
			AddField(
				NewField("post", "", NamedType("Post")).
					AddArgument(NewInputValue("id", "", NonNullType(NamedType("Int")))))).
		AddType(func() *Type {
			u := NewType("Content", TypeKindUnion, "")
			u.AddPossibleType("Post")
			return u
		}())

	want := `union Content = Post

"""
The ` + "`JSON`" + ` scalar type represents an opaque structured value, serialized as JSON.
"""
scalar JSON

interface Node {
  id: Int!
}

type Post implements Node {
  id: Int!
  tags: [String!]
}

type Query {
  post(id: Int!): Post
}
`
	if diff := cmp.Diff(want, Render(sch)); diff != "" {
		t.Fatalf("SDL mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderSkipsBuiltinsExceptJSON(t *testing.T) {
	sdl := Render(NewSchema("").AddBuiltins())
	if diff := cmp.Diff("\"\"\"\nThe `JSON` scalar type represents an opaque structured value, serialized as JSON.\n\"\"\"\nscalar JSON\n", sdl); diff != "" {
		t.Fatalf("builtin rendering mismatch (-want +got):\n%s", diff)
	}
}

func TestTypeRefHelpers(t *testing.T) {
	ref := NonNullType(ListType(NonNullType(NamedType("Int"))))
	if !ref.IsNonNull() || !ref.IsList() {
		t.Fatal("wrapping flags wrong")
	}
	if got := ref.GetNamedType(); got != "Int" {
		t.Fatalf("named type: got %q", got)
	}
	if ref.Unwrap().Kind != TypeRefKindList {
		t.Fatal("unwrap should drop one layer")
	}
}
