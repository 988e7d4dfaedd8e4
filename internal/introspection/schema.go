package introspection

import (
	"github.com/pagegraph/pagegraph/internal/schema"
)

// extend returns a copy of the schema with the introspection types added
// and the __schema/__type fields appended to the query root. The original
// schema is left untouched; it is what introspection queries report on.
func extend(original *schema.Schema) *schema.Schema {
	extended := &schema.Schema{
		QueryType:    original.QueryType,
		MutationType: original.MutationType,
		Types:        make(map[string]*schema.Type),
		Description:  original.Description,
	}
	for name, typ := range original.Types {
		extended.Types[name] = typ
	}

	extended.AddType(schemaType()).
		AddType(typeType()).
		AddType(fieldType()).
		AddType(inputValueType()).
		AddType(enumValueType()).
		AddType(directiveType()).
		AddType(typeKindType()).
		AddType(directiveLocationType())

	if qt := original.GetQueryType(); qt != nil {
		queryCopy := &schema.Type{
			Name:        qt.Name,
			Kind:        qt.Kind,
			Description: qt.Description,
			Fields:      make([]*schema.Field, len(qt.Fields)),
			Interfaces:  qt.Interfaces,
		}
		copy(queryCopy.Fields, qt.Fields)
		queryCopy.AddField(
			schema.NewField("__schema", "Access the current type schema of this server.",
				schema.NonNullType(schema.NamedType("__Schema")))).
			AddField(
				schema.NewField("__type", "Request the type information of a single type.",
					schema.NamedType("__Type")).
					AddArgument(schema.NewInputValue("name", "The name of the type to look up.",
						schema.NonNullType(schema.NamedType("String")))))
		extended.Types[qt.Name] = queryCopy
	}

	return extended
}

func schemaType() *schema.Type {
	return schema.NewType("__Schema", schema.TypeKindObject,
		"A GraphQL Schema defines the capabilities of a GraphQL server.").
		AddField(schema.NewField("description", "", schema.NamedType("String"))).
		AddField(schema.NewField("types", "A list of all types supported by this server.",
			schema.NonNullType(schema.ListType(schema.NonNullType(schema.NamedType("__Type")))))).
		AddField(schema.NewField("queryType", "The type that query operations will be rooted at.",
			schema.NonNullType(schema.NamedType("__Type")))).
		AddField(schema.NewField("mutationType", "If this server supports mutation, the type that mutation operations will be rooted at.",
			schema.NamedType("__Type"))).
		AddField(schema.NewField("subscriptionType", "If this server support subscription, the type that subscription operations will be rooted at.",
			schema.NamedType("__Type"))).
		AddField(schema.NewField("directives", "A list of all directives supported by this server.",
			schema.NonNullType(schema.ListType(schema.NonNullType(schema.NamedType("__Directive"))))))
}

func typeType() *schema.Type {
	return schema.NewType("__Type", schema.TypeKindObject,
		"The fundamental unit of any GraphQL Schema is the type.").
		AddField(schema.NewField("kind", "", schema.NonNullType(schema.NamedType("__TypeKind")))).
		AddField(schema.NewField("name", "", schema.NamedType("String"))).
		AddField(schema.NewField("description", "", schema.NamedType("String"))).
		AddField(schema.NewField("specifiedByURL", "", schema.NamedType("String"))).
		AddField(schema.NewField("fields", "",
			schema.ListType(schema.NonNullType(schema.NamedType("__Field")))).
			AddArgument(schema.NewInputValue("includeDeprecated", "", schema.NamedType("Boolean")).SetDefault(false))).
		AddField(schema.NewField("interfaces", "",
			schema.ListType(schema.NonNullType(schema.NamedType("__Type"))))).
		AddField(schema.NewField("possibleTypes", "",
			schema.ListType(schema.NonNullType(schema.NamedType("__Type"))))).
		AddField(schema.NewField("enumValues", "",
			schema.ListType(schema.NonNullType(schema.NamedType("__EnumValue")))).
			AddArgument(schema.NewInputValue("includeDeprecated", "", schema.NamedType("Boolean")).SetDefault(false))).
		AddField(schema.NewField("inputFields", "",
			schema.ListType(schema.NonNullType(schema.NamedType("__InputValue")))).
			AddArgument(schema.NewInputValue("includeDeprecated", "", schema.NamedType("Boolean")).SetDefault(false))).
		AddField(schema.NewField("ofType", "", schema.NamedType("__Type"))).
		AddField(schema.NewField("isOneOf", "", schema.NamedType("Boolean")))
}

func fieldType() *schema.Type {
	return schema.NewType("__Field", schema.TypeKindObject, "").
		AddField(schema.NewField("name", "", schema.NonNullType(schema.NamedType("String")))).
		AddField(schema.NewField("description", "", schema.NamedType("String"))).
		AddField(schema.NewField("args", "",
			schema.NonNullType(schema.ListType(schema.NonNullType(schema.NamedType("__InputValue"))))).
			AddArgument(schema.NewInputValue("includeDeprecated", "", schema.NamedType("Boolean")).SetDefault(false))).
		AddField(schema.NewField("type", "", schema.NonNullType(schema.NamedType("__Type")))).
		AddField(schema.NewField("isDeprecated", "", schema.NonNullType(schema.NamedType("Boolean")))).
		AddField(schema.NewField("deprecationReason", "", schema.NamedType("String")))
}

func inputValueType() *schema.Type {
	return schema.NewType("__InputValue", schema.TypeKindObject, "").
		AddField(schema.NewField("name", "", schema.NonNullType(schema.NamedType("String")))).
		AddField(schema.NewField("description", "", schema.NamedType("String"))).
		AddField(schema.NewField("type", "", schema.NonNullType(schema.NamedType("__Type")))).
		AddField(schema.NewField("defaultValue", "", schema.NamedType("String"))).
		AddField(schema.NewField("isDeprecated", "", schema.NonNullType(schema.NamedType("Boolean")))).
		AddField(schema.NewField("deprecationReason", "", schema.NamedType("String")))
}

func enumValueType() *schema.Type {
	return schema.NewType("__EnumValue", schema.TypeKindObject, "").
		AddField(schema.NewField("name", "", schema.NonNullType(schema.NamedType("String")))).
		AddField(schema.NewField("description", "", schema.NamedType("String"))).
		AddField(schema.NewField("isDeprecated", "", schema.NonNullType(schema.NamedType("Boolean")))).
		AddField(schema.NewField("deprecationReason", "", schema.NamedType("String")))
}

func directiveType() *schema.Type {
	return schema.NewType("__Directive", schema.TypeKindObject, "").
		AddField(schema.NewField("name", "", schema.NonNullType(schema.NamedType("String")))).
		AddField(schema.NewField("description", "", schema.NamedType("String"))).
		AddField(schema.NewField("isRepeatable", "", schema.NonNullType(schema.NamedType("Boolean")))).
		AddField(schema.NewField("locations", "",
			schema.NonNullType(schema.ListType(schema.NonNullType(schema.NamedType("__DirectiveLocation")))))).
		AddField(schema.NewField("args", "",
			schema.NonNullType(schema.ListType(schema.NonNullType(schema.NamedType("__InputValue"))))).
			AddArgument(schema.NewInputValue("includeDeprecated", "", schema.NamedType("Boolean")).SetDefault(false)))
}

// The two enum-valued introspection types are carried as leaf scalars:
// their values serialize as the bare kind and location strings.
func typeKindType() *schema.Type {
	return schema.NewType("__TypeKind", schema.TypeKindScalar,
		"An enum describing what kind of type a given `__Type` is.")
}

func directiveLocationType() *schema.Type {
	return schema.NewType("__DirectiveLocation", schema.TypeKindScalar,
		"A Directive can be adjacent to many parts of the GraphQL language, a __DirectiveLocation describes one such possible adjacencies.")
}
