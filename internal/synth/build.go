package synth

import (
	"github.com/pagegraph/pagegraph/internal/model"
	"github.com/pagegraph/pagegraph/internal/schema"
)

// BuildSchema assembles the executable schema from everything registered
// so far: shared interfaces, the synthesized types and their stream
// sub-types, the page union, and the query/mutation roots.
func (s *Synthesizer) BuildSchema() *schema.Schema {
	sch := schema.NewSchema("").AddBuiltins()
	sch.SetQueryType(QueryTypeName)

	pageIface := pageInterfaceType()
	settingsIface := settingsInterfaceType()
	sch.AddType(pageIface).
		AddType(settingsIface).
		AddType(pageLinkType()).
		AddType(siteType()).
		AddType(formFieldType()).
		AddType(formErrorType())
	pageIface.AddPossibleType(PageLinkName)

	for _, tp := range s.reg.Pages() {
		sch.AddType(tp.Def)
		pageIface.AddPossibleType(tp.Name)
	}
	for _, entry := range s.reg.Settings() {
		sch.AddType(entry.Type.Def)
		settingsIface.AddPossibleType(entry.Type.Name)
	}
	for _, tp := range s.reg.Snippets() {
		sch.AddType(tp.Def)
	}
	for _, tp := range s.reg.Records() {
		sch.AddType(tp.Def)
	}
	for _, sub := range s.subTypes {
		sch.AddType(sub)
	}

	if pages := s.reg.Pages(); len(pages) > 0 {
		union := schema.NewType(PageUnionName, schema.TypeKindUnion, "")
		for _, tp := range pages {
			union.AddPossibleType(tp.Name)
		}
		sch.AddType(union)
	}

	sch.AddType(s.queryType())

	if forms := s.reg.Forms(); len(forms) > 0 {
		mutation := schema.NewType(MutationTypeName, schema.TypeKindObject, "")
		for _, mt := range forms {
			sch.AddType(mt.Def)
			mutation.AddField(
				schema.NewField(mt.FieldName, "", schema.NamedType(mt.Name)).
					AddArgument(schema.NewInputValue("values", "", schema.NamedType("JSON"))).
					AddArgument(schema.NewInputValue("url", "", schema.NonNullType(schema.NamedType("String")))))
		}
		sch.AddType(mutation)
		sch.SetMutationType(MutationTypeName)
	}

	return sch
}

// queryType builds the root query: page lookup, filtered listing, menu
// items, the site root, settings by display name, and one list field per
// registered snippet type.
func (s *Synthesizer) queryType() *schema.Type {
	q := schema.NewType(QueryTypeName, schema.TypeKindObject, "").
		AddField(
			schema.NewField("pages", "", schema.ListType(schema.NamedType(PageInterfaceName))).
				AddArgument(schema.NewInputValue("parent", "", schema.NamedType("Int")))).
		AddField(
			schema.NewField("page", "", schema.NamedType(PageInterfaceName)).
				AddArgument(schema.NewInputValue("id", "", schema.NamedType("Int"))).
				AddArgument(schema.NewInputValue("url", "", schema.NamedType("String")))).
		AddField(schema.NewField("showInMenus", "", schema.ListType(schema.NamedType(PageLinkName)))).
		AddField(schema.NewField("root", "", schema.NamedType(SiteName)))

	if len(s.reg.Settings()) > 0 {
		q.AddField(
			schema.NewField("settings", "", schema.NamedType(SettingsName)).
				AddArgument(schema.NewInputValue("name", "", schema.NonNullType(schema.NamedType("String")))))
	}
	for _, tp := range s.reg.Snippets() {
		q.AddField(schema.NewField(model.LowerFirst(tp.Name), "", schema.ListType(schema.NamedType(tp.Name))))
	}
	return q
}
