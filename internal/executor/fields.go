package executor

import (
	"github.com/pagegraph/pagegraph/internal/language"
	"github.com/pagegraph/pagegraph/internal/schema"
)

// collectedField is one response entry: a response key and the AST fields
// (possibly from several fragments) merged under it.
type collectedField struct {
	ResponseName string
	Fields       []*language.Field
}

// collectFields groups the selection set into response entries, flattening
// fragments whose type condition applies to objectType and honoring
// @skip/@include.
func collectFields(doc *language.QueryDocument, sch *schema.Schema, objectType *schema.Type, sel language.SelectionSet, variables map[string]any) []*collectedField {
	var order []string
	grouped := map[string]*collectedField{}

	var visit func(sel language.SelectionSet)
	visit = func(sel language.SelectionSet) {
		for _, s := range sel {
			switch s := s.(type) {
			case *language.Field:
				if skipped(s.Directives, variables) {
					continue
				}
				key := s.Alias
				if key == "" {
					key = s.Name
				}
				cf, ok := grouped[key]
				if !ok {
					cf = &collectedField{ResponseName: key}
					grouped[key] = cf
					order = append(order, key)
				}
				cf.Fields = append(cf.Fields, s)
			case *language.InlineFragment:
				if skipped(s.Directives, variables) {
					continue
				}
				if typeApplies(sch, objectType, s.TypeCondition) {
					visit(s.SelectionSet)
				}
			case *language.FragmentSpread:
				if skipped(s.Directives, variables) {
					continue
				}
				def := doc.Fragments.ForName(s.Name)
				if def != nil && typeApplies(sch, objectType, def.TypeCondition) {
					visit(def.SelectionSet)
				}
			}
		}
	}
	visit(sel)

	out := make([]*collectedField, 0, len(order))
	for _, key := range order {
		out = append(out, grouped[key])
	}
	return out
}

// typeApplies reports whether a fragment type condition matches the
// concrete object type, either directly or through an interface or union
// the object belongs to.
func typeApplies(sch *schema.Schema, objectType *schema.Type, condition string) bool {
	if condition == "" || condition == objectType.Name {
		return true
	}
	cond := sch.Types[condition]
	if cond == nil {
		return false
	}
	switch cond.Kind {
	case schema.TypeKindInterface:
		return objectType.Implements(condition)
	case schema.TypeKindUnion:
		for _, name := range cond.PossibleTypes {
			if name == objectType.Name {
				return true
			}
		}
	}
	return false
}

// skipped evaluates @skip and @include against the current variables.
func skipped(directives language.DirectiveList, variables map[string]any) bool {
	for _, d := range directives {
		arg := d.Arguments.ForName("if")
		if arg == nil {
			continue
		}
		cond, _ := goValue(arg.Value, variables).(bool)
		switch d.Name {
		case "skip":
			if cond {
				return true
			}
		case "include":
			if !cond {
				return true
			}
		}
	}
	return false
}

// selectionNames lists the response-level names selected under a field
// group: plain field names plus fragment type conditions. Runtimes use
// this to plan fetches from the requested shape.
func selectionNames(doc *language.QueryDocument, fields []*language.Field) []string {
	var names []string
	seen := map[string]bool{}
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for _, f := range fields {
		for _, s := range f.SelectionSet {
			switch s := s.(type) {
			case *language.Field:
				add(s.Name)
			case *language.InlineFragment:
				add(s.TypeCondition)
			case *language.FragmentSpread:
				if def := doc.Fragments.ForName(s.Name); def != nil {
					add(def.TypeCondition)
				}
			}
		}
	}
	return names
}
