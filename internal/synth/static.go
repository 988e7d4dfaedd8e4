package synth

import "github.com/pagegraph/pagegraph/internal/schema"

// Well-known type names produced by the synthesis pass.
const (
	PageInterfaceName    = "PageInterface"
	SettingsName         = "Settings"
	PageLinkName         = "PageLink"
	PageUnionName        = "Page"
	SiteName             = "Site"
	FormFieldName        = "FormField"
	FormErrorName        = "FormError"
	QueryTypeName        = "Query"
	MutationTypeName     = "Mutation"
)

// pageContractFields returns the field set shared by every page type and
// the page interface itself.
func pageContractFields() []*schema.Field {
	return []*schema.Field{
		schema.NewField("id", "", schema.NonNullType(schema.NamedType("Int"))),
		schema.NewField("title", "", schema.NonNullType(schema.NamedType("String"))),
		schema.NewField("urlPath", "", schema.NamedType("String")),
		schema.NewField("contentType", "", schema.NamedType("String")),
		schema.NewField("slug", "", schema.NonNullType(schema.NamedType("String"))),
		schema.NewField("path", "", schema.NamedType("String")),
		schema.NewField("depth", "", schema.NamedType("Int")),
		schema.NewField("seoTitle", "", schema.NamedType("String")),
		schema.NewField("numchild", "", schema.NamedType("Int")),
	}
}

func pageInterfaceType() *schema.Type {
	t := schema.NewType(PageInterfaceName, schema.TypeKindInterface, "A servable content page.")
	for _, f := range pageContractFields() {
		t.AddField(f)
	}
	return t
}

func settingsInterfaceType() *schema.Type {
	return schema.NewType(SettingsName, schema.TypeKindInterface, "A site-wide settings object.").
		AddField(schema.NewField("name", "", schema.NonNullType(schema.NamedType("String"))))
}

// pageLinkType is the light projection used by menu listings: interface
// fields only, no specific-type resolution.
func pageLinkType() *schema.Type {
	t := schema.NewType(PageLinkName, schema.TypeKindObject, "").
		AddInterface(PageInterfaceName)
	for _, f := range pageContractFields() {
		t.AddField(f)
	}
	return t
}

func siteType() *schema.Type {
	return schema.NewType(SiteName, schema.TypeKindObject, "").
		AddField(schema.NewField("id", "", schema.NonNullType(schema.NamedType("Int")))).
		AddField(schema.NewField("hostname", "", schema.NamedType("String"))).
		AddField(schema.NewField("port", "", schema.NamedType("Int"))).
		AddField(schema.NewField("siteName", "", schema.NamedType("String")))
}

func formFieldType() *schema.Type {
	return schema.NewType(FormFieldName, schema.TypeKindObject, "").
		AddField(schema.NewField("name", "", schema.NonNullType(schema.NamedType("String")))).
		AddField(schema.NewField("fieldType", "", schema.NonNullType(schema.NamedType("String"))))
}

func formErrorType() *schema.Type {
	return schema.NewType(FormErrorName, schema.TypeKindObject, "").
		AddField(schema.NewField("name", "", schema.NonNullType(schema.NamedType("String")))).
		AddField(schema.NewField("messages", "", schema.NonNullType(schema.ListType(schema.NonNullType(schema.NamedType("String"))))))
}
