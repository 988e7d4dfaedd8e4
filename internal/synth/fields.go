package synth

import (
	"context"
	"fmt"

	"github.com/pagegraph/pagegraph/internal/model"
	"github.com/pagegraph/pagegraph/internal/registry"
	"github.com/pagegraph/pagegraph/internal/schema"
	"github.com/pagegraph/pagegraph/internal/source"
)

// blockHandler turns one raw block value into a schema value.
type blockHandler func(ctx context.Context, value any) (any, error)

// addStreamFields synthesizes a sub-type, a field definition and a
// resolver for every stream field declared on the class. A class with no
// stream fields is a no-op.
func (s *Synthesizer) addStreamFields(cls *model.ModelClass, node string, params *typeParams) {
	for _, sf := range cls.StreamFields {
		subName := node + model.TitleSnake(sf.Name)

		handlers := make(map[string]blockHandler, len(sf.Blocks))
		for _, blk := range sf.Blocks {
			handlers[blk.Name] = s.blockHandler(blk)
		}

		subType := schema.NewType(subName, schema.TypeKindObject, "").
			AddField(schema.NewField("blockType", "", schema.NonNullType(schema.NamedType("String")))).
			AddField(schema.NewField("value", "", schema.NamedType("JSON")))
		s.subTypes = append(s.subTypes, subType)

		fieldName := model.SnakeToCamel(sf.Name)
		params.addField(schema.NewField(fieldName, "", schema.ListType(schema.NamedType(subName))))
		params.addResolver(fieldName, streamFieldResolver(sf.Name, handlers))
	}
}

// streamFieldResolver returns the blocks of one stream field in their
// declaration order from the underlying content.
func streamFieldResolver(rawName string, handlers map[string]blockHandler) registry.FieldResolver {
	return func(ctx context.Context, rec *model.Record) (any, error) {
		raw, ok := rec.Data[rawName]
		if !ok || raw == nil {
			return []any{}, nil
		}
		blocks, ok := raw.([]model.Block)
		if !ok {
			return nil, fmt.Errorf("stream field %q: unexpected value %T", rawName, raw)
		}
		out := make([]any, 0, len(blocks))
		for _, blk := range blocks {
			value := blk.Value
			if handle, ok := handlers[blk.Type]; ok {
				resolved, err := handle(ctx, value)
				if err != nil {
					return nil, err
				}
				value = resolved
			}
			out = append(out, map[string]any{
				"blockType": blk.Type,
				"value":     value,
			})
		}
		return out, nil
	}
}

// blockHandler builds the handler for one declared block kind.
func (s *Synthesizer) blockHandler(spec model.BlockSpec) blockHandler {
	switch spec.Kind {
	case model.BlockRichText:
		return func(_ context.Context, value any) (any, error) {
			text, ok := value.(string)
			if !ok {
				return value, nil
			}
			return s.sanitizer.Sanitize(text), nil
		}
	case model.BlockPage:
		return s.pageReferenceHandler()
	case model.BlockSnippet:
		return s.snippetReferenceHandler(spec.Target)
	case model.BlockStruct:
		children := make(map[string]blockHandler, len(spec.Children))
		for _, child := range spec.Children {
			children[child.Name] = s.blockHandler(child)
		}
		return func(ctx context.Context, value any) (any, error) {
			fields, ok := value.(map[string]any)
			if !ok {
				return value, nil
			}
			out := make(map[string]any, len(fields))
			for name, raw := range fields {
				resolved := raw
				if handle, ok := children[name]; ok {
					v, err := handle(ctx, raw)
					if err != nil {
						return nil, err
					}
					resolved = v
				}
				out[name] = resolved
			}
			return out, nil
		}
	default:
		// char, text, int, float, bool: scalar passthrough
		return func(_ context.Context, value any) (any, error) { return value, nil }
	}
}

// pageReferenceHandler resolves a page id block value into a link
// projection, through the permission filter.
func (s *Synthesizer) pageReferenceHandler() blockHandler {
	return func(ctx context.Context, value any) (any, error) {
		id, ok := blockID(value)
		if !ok {
			return nil, nil
		}
		recs, err := s.filteredPages(ctx, source.Query{ID: &id, LiveOnly: true, Specific: true})
		if err != nil {
			return nil, err
		}
		if len(recs) == 0 {
			return nil, nil
		}
		rec := recs[0]
		return map[string]any{
			"id":    rec.ID,
			"title": rec.Title,
			"slug":  rec.Slug,
		}, nil
	}
}

// snippetReferenceHandler resolves a snippet id block value into the
// referenced record's data.
func (s *Synthesizer) snippetReferenceHandler(target string) blockHandler {
	return func(ctx context.Context, value any) (any, error) {
		id, ok := blockID(value)
		if !ok {
			return nil, nil
		}
		recs, err := s.src.FetchRecords(ctx, target)
		if err != nil {
			return nil, err
		}
		for _, rec := range recs {
			if rec.ID == id {
				out := map[string]any{"id": rec.ID}
				for name, v := range rec.Data {
					out[model.SnakeToCamel(name)] = v
				}
				return out, nil
			}
		}
		return nil, nil
	}
}

func blockID(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}
