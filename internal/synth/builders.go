package synth

import (
	"context"
	"fmt"
	"strings"

	"github.com/pagegraph/pagegraph/internal/forms"
	"github.com/pagegraph/pagegraph/internal/model"
	"github.com/pagegraph/pagegraph/internal/permission"
	"github.com/pagegraph/pagegraph/internal/registry"
	"github.com/pagegraph/pagegraph/internal/schema"
	"github.com/pagegraph/pagegraph/internal/source"
)

// fieldTypeRef maps a declared model field type to its GraphQL type.
func fieldTypeRef(ft model.FieldType) *schema.TypeRef {
	switch ft {
	case model.FieldInt:
		return schema.NamedType("Int")
	case model.FieldFloat:
		return schema.NamedType("Float")
	case model.FieldBool:
		return schema.NamedType("Boolean")
	case model.FieldJSON:
		return schema.NamedType("JSON")
	default:
		// char, text, richtext, date, datetime
		return schema.NamedType("String")
	}
}

// classFields converts the class's declared scalar fields.
func classFields(cls *model.ModelClass) []*schema.Field {
	out := make([]*schema.Field, 0, len(cls.Fields))
	for _, f := range cls.Fields {
		out = append(out, schema.NewField(model.SnakeToCamel(f.Name), "", fieldTypeRef(f.Type)))
	}
	return out
}

func buildObjectDef(name string, iface string, contract bool, cls *model.ModelClass, params *typeParams) *schema.Type {
	t := schema.NewType(name, schema.TypeKindObject, "")
	if iface != "" {
		t.AddInterface(iface)
	}
	if contract {
		for _, f := range pageContractFields() {
			t.AddField(f)
		}
	} else {
		t.AddField(schema.NewField("id", "", schema.NonNullType(schema.NamedType("Int"))))
	}
	for _, f := range classFields(cls) {
		t.AddField(f)
	}
	for _, f := range params.fields {
		t.AddField(f)
	}
	return t
}

// addPage synthesizes a page type: attaches the page interface and
// registers into the pages bucket.
func (s *Synthesizer) addPage(cls *model.ModelClass, node string, params *typeParams) {
	s.reg.MarkPrefetch(strings.ToLower(cls.Name))
	def := buildObjectDef(node, PageInterfaceName, true, cls, params)
	s.reg.AddPage(&registry.SynthesizedType{
		Name:      node,
		Class:     cls,
		Def:       def,
		Resolvers: params.resolvers,
	})
}

// addForm synthesizes a form page type plus its sibling mutation. The page
// type registers into pages by class; the mutation registers into forms by
// node name.
func (s *Synthesizer) addForm(cls *model.ModelClass, node string, params *typeParams, urlPrefix string) {
	s.reg.MarkPrefetch(strings.ToLower(cls.Name))

	params.addField(schema.NewField("formFields", "", schema.ListType(schema.NamedType(FormFieldName))))
	params.addResolver("formFields", formFieldsResolver(cls))

	def := buildObjectDef(node, PageInterfaceName, true, cls, params)
	s.reg.AddPage(&registry.SynthesizedType{
		Name:      node,
		Class:     cls,
		Def:       def,
		Resolvers: params.resolvers,
	})

	mutationName := node + "Mutation"
	mutationDef := schema.NewType(mutationName, schema.TypeKindObject, "").
		AddField(schema.NewField("result", "", schema.NamedType("String"))).
		AddField(schema.NewField("errors", "", schema.ListType(schema.NamedType(FormErrorName))))

	s.reg.AddForm(&registry.MutationType{
		Name:      mutationName,
		FieldName: model.LowerFirst(node),
		Class:     cls,
		Def:       mutationDef,
		Mutate:    s.formMutation(cls, urlPrefix),
	})
}

// formFieldsResolver returns {name, fieldType} pairs for every declared
// form field, in declaration order.
func formFieldsResolver(cls *model.ModelClass) registry.FieldResolver {
	return func(_ context.Context, _ *model.Record) (any, error) {
		out := make([]any, 0, len(cls.FormFields))
		for _, f := range cls.FormFields {
			out = append(out, map[string]any{
				"name":      f.Name,
				"fieldType": f.FieldType,
			})
		}
		return out, nil
	}
}

// formMutation executes one form submission: resolve the target page from
// the url argument, bind and validate, process on success.
func (s *Synthesizer) formMutation(cls *model.ModelClass, urlPrefix string) registry.MutateFunc {
	return func(ctx context.Context, args map[string]any) (any, error) {
		url, _ := args["url"].(string)
		values, _ := args["values"].(map[string]any)
		if values == nil {
			values = map[string]any{}
		}

		path := urlPrefix + strings.TrimRight(url, "/") + "/"
		recs, err := s.filteredPages(ctx, source.Query{URLPath: path, LiveOnly: true, Specific: true})
		if err != nil {
			return nil, err
		}
		if len(recs) == 0 {
			return nil, fmt.Errorf("%w: no live page at %q", source.ErrNotFound, path)
		}
		page := recs[0]

		v, err := s.engine.Bind(ctx, cls, values, page, permission.UserFrom(ctx))
		if err != nil {
			return nil, err
		}
		if v.Valid() {
			if err := s.engine.Submit(ctx, page, v); err != nil {
				return nil, err
			}
			return map[string]any{"result": "OK"}, nil
		}
		return map[string]any{
			"result": "FAIL",
			"errors": fieldErrorValues(v.FieldErrors()),
		}, nil
	}
}

func fieldErrorValues(errs []forms.FieldError) []any {
	out := make([]any, 0, len(errs))
	for _, fe := range errs {
		out = append(out, map[string]any{
			"name":     fe.Name,
			"messages": fe.Messages,
		})
	}
	return out
}

// addSetting synthesizes a settings type keyed by the class's capitalized
// display name. Two classes sharing a display name collide; last write
// wins, consistent with the registry's overwrite contract.
func (s *Synthesizer) addSetting(cls *model.ModelClass, node string, params *typeParams) {
	displayName := cls.DisplayName()
	params.addField(schema.NewField("name", "", schema.NonNullType(schema.NamedType("String"))))
	params.addResolver("name", func(_ context.Context, _ *model.Record) (any, error) {
		return displayName, nil
	})

	def := buildObjectDef(node, SettingsName, false, cls, params)
	s.reg.AddSetting(displayName, &registry.SettingEntry{
		Class: cls,
		Type: &registry.SynthesizedType{
			Name:      node,
			Class:     cls,
			Def:       def,
			Resolvers: params.resolvers,
		},
	})
}

// addSnippet synthesizes a snippet type: no shared interface, registered
// under both the class and the node name.
func (s *Synthesizer) addSnippet(cls *model.ModelClass, node string, params *typeParams) {
	def := buildObjectDef(node, "", false, cls, params)
	s.reg.AddSnippet(&registry.SynthesizedType{
		Name:      node,
		Class:     cls,
		Def:       def,
		Resolvers: params.resolvers,
	})
}

// addRecord synthesizes a generic record type, the fallback for classes
// matching no other kind.
func (s *Synthesizer) addRecord(cls *model.ModelClass, node string, params *typeParams) {
	def := buildObjectDef(node, "", false, cls, params)
	s.reg.AddRecord(&registry.SynthesizedType{
		Name:      node,
		Class:     cls,
		Def:       def,
		Resolvers: params.resolvers,
	})
}
