package executor

import (
	"strconv"

	"github.com/pagegraph/pagegraph/internal/language"
	"github.com/pagegraph/pagegraph/internal/schema"
)

// coerceVariableValues resolves operation variables from the request
// payload, applying declared defaults for absent variables.
func coerceVariableValues(op *language.OperationDefinition, provided map[string]any) map[string]any {
	coerced := make(map[string]any, len(op.VariableDefinitions))
	for _, vd := range op.VariableDefinitions {
		if v, ok := provided[vd.Variable]; ok {
			coerced[vd.Variable] = v
			continue
		}
		if vd.DefaultValue != nil {
			coerced[vd.Variable] = goValue(vd.DefaultValue, nil)
		}
	}
	return coerced
}

// coerceArgumentValues computes the argument map for one field invocation.
// Arguments that resolve to null are omitted so resolvers can distinguish
// "absent" from an explicit value.
func coerceArgumentValues(def *schema.Field, args language.ArgumentList, variables map[string]any) map[string]any {
	out := make(map[string]any, len(def.Arguments))
	for _, in := range def.Arguments {
		if a := args.ForName(in.Name); a != nil {
			if v := goValue(a.Value, variables); v != nil {
				out[in.Name] = v
			}
			continue
		}
		if in.DefaultValue != nil {
			out[in.Name] = in.DefaultValue
		}
	}
	return out
}

// goValue converts an AST value literal to its Go representation.
func goValue(v *language.Value, variables map[string]any) any {
	if v == nil {
		return nil
	}
	switch v.Kind {
	case language.Variable:
		return variables[v.Raw]
	case language.IntValue:
		n, err := strconv.Atoi(v.Raw)
		if err != nil {
			return nil
		}
		return n
	case language.FloatValue:
		f, err := strconv.ParseFloat(v.Raw, 64)
		if err != nil {
			return nil
		}
		return f
	case language.StringValue, language.BlockValue, language.EnumValue:
		return v.Raw
	case language.BooleanValue:
		return v.Raw == "true"
	case language.NullValue:
		return nil
	case language.ListValue:
		items := make([]any, 0, len(v.Children))
		for _, c := range v.Children {
			items = append(items, goValue(c.Value, variables))
		}
		return items
	case language.ObjectValue:
		obj := make(map[string]any, len(v.Children))
		for _, c := range v.Children {
			obj[c.Name] = goValue(c.Value, variables)
		}
		return obj
	}
	return nil
}
