// Package executor evaluates GraphQL operations against a synthesized
// schema. Field values, abstract type resolution and scalar serialization
// are delegated to a Runtime; the executor owns selection collection,
// value completion and error propagation.
package executor

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/pagegraph/pagegraph/internal/eventbus"
	"github.com/pagegraph/pagegraph/internal/events"
	"github.com/pagegraph/pagegraph/internal/language"
	"github.com/pagegraph/pagegraph/internal/schema"
)

// Executor runs operations against one schema and runtime pair.
type Executor struct {
	schema  *schema.Schema
	runtime Runtime
}

// New creates an Executor for the schema and runtime.
func New(sch *schema.Schema, rt Runtime) *Executor {
	return &Executor{schema: sch, runtime: rt}
}

// errBubble marks an error that has already been recorded and is
// propagating a null toward the nearest nullable ancestor.
var errBubble = errors.New("non-null field resolved to null")

type execState struct {
	doc       *language.QueryDocument
	variables map[string]any
	errors    []*language.Error
}

func (st *execState) addError(err *language.Error) {
	st.errors = append(st.errors, err)
}

// record converts err into a recorded GraphQL error exactly once and
// returns the bubble marker for further propagation.
func (st *execState) record(err error) error {
	if errors.Is(err, errBubble) {
		return errBubble
	}
	var gqlErr *language.Error
	if errors.As(err, &gqlErr) {
		st.addError(gqlErr)
	} else {
		st.addError(language.Errorf("%s", err.Error()))
	}
	return errBubble
}

// Execute parses and runs a single request from source text.
func (e *Executor) Execute(ctx context.Context, query, operationName string, variables map[string]any) *ExecutionResult {
	doc, err := language.ParseQuery(query)
	if err != nil {
		var gqlErr *language.Error
		if errors.As(err, &gqlErr) {
			return &ExecutionResult{Errors: []*language.Error{gqlErr}}
		}
		return &ExecutionResult{Errors: []*language.Error{language.Errorf("%s", err.Error())}}
	}
	return e.ExecuteRequest(ctx, doc, query, operationName, variables)
}

// ExecuteRequest runs one operation from an already parsed document.
func (e *Executor) ExecuteRequest(ctx context.Context, doc *language.QueryDocument, query, operationName string, variables map[string]any) *ExecutionResult {
	op, err := operationFor(doc, operationName)
	if err != nil {
		return &ExecutionResult{Errors: []*language.Error{language.Errorf("%s", err.Error())}}
	}

	var rootType *schema.Type
	switch op.Operation {
	case language.Query:
		rootType = e.schema.GetQueryType()
	case language.Mutation:
		rootType = e.schema.GetMutationType()
	}
	if rootType == nil {
		return &ExecutionResult{Errors: []*language.Error{
			language.Errorf("schema does not support %s operations", op.Operation),
		}}
	}

	started := time.Now()
	eventbus.Publish(ctx, events.GraphQLStart{
		Query:         query,
		OperationName: op.Name,
		OperationType: string(op.Operation),
	})

	st := &execState{doc: doc, variables: coerceVariableValues(op, variables)}
	data, execErr := e.executeSelectionSet(ctx, st, rootType, op.SelectionSet, nil)

	result := &ExecutionResult{Errors: st.errors}
	if execErr == nil {
		result.Data = data
	}

	finish := events.GraphQLFinish{
		Query:         query,
		OperationName: op.Name,
		OperationType: string(op.Operation),
		Duration:      time.Since(started),
	}
	for _, gqlErr := range st.errors {
		finish.Errors = append(finish.Errors, gqlErr)
	}
	eventbus.Publish(ctx, finish)
	return result
}

func operationFor(doc *language.QueryDocument, name string) (*language.OperationDefinition, error) {
	if name == "" {
		if len(doc.Operations) != 1 {
			return nil, fmt.Errorf("operationName is required for documents with %d operations", len(doc.Operations))
		}
		return doc.Operations[0], nil
	}
	op := doc.Operations.ForName(name)
	if op == nil {
		return nil, fmt.Errorf("operation %q not found in document", name)
	}
	return op, nil
}

func (e *Executor) executeSelectionSet(ctx context.Context, st *execState, objectType *schema.Type, sel language.SelectionSet, source any) (map[string]any, error) {
	out := make(map[string]any)
	for _, cf := range collectFields(st.doc, e.schema, objectType, sel, st.variables) {
		f := cf.Fields[0]
		if f.Name == "__typename" {
			out[cf.ResponseName] = objectType.Name
			continue
		}
		fieldDef := objectType.FieldByName(f.Name)
		if fieldDef == nil {
			st.addError(language.Errorf("cannot query field %q on type %q", f.Name, objectType.Name))
			continue
		}

		args := coerceArgumentValues(fieldDef, f.Arguments, st.variables)
		value, err := e.runtime.ResolveField(ctx, objectType.Name, f.Name, source, args, selectionNames(st.doc, cf.Fields))
		var completed any
		if err == nil {
			completed, err = e.completeValue(ctx, st, fieldDef.Type, cf.Fields, value)
		}
		if err != nil {
			err = st.record(err)
			if fieldDef.Type.IsNonNull() {
				return nil, err
			}
			out[cf.ResponseName] = nil
			continue
		}
		out[cf.ResponseName] = completed
	}
	return out, nil
}

func (e *Executor) completeValue(ctx context.Context, st *execState, ref *schema.TypeRef, fields []*language.Field, value any) (any, error) {
	if ref.Kind == schema.TypeRefKindNonNull {
		v, err := e.completeValue(ctx, st, ref.OfType, fields, value)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, fmt.Errorf("cannot return null for non-nullable type %q", ref.OfType.GetNamedType())
		}
		return v, nil
	}
	if value == nil {
		return nil, nil
	}
	if ref.Kind == schema.TypeRefKindList {
		items, err := toSlice(value)
		if err != nil {
			return nil, err
		}
		out := make([]any, 0, len(items))
		for _, item := range items {
			v, err := e.completeValue(ctx, st, ref.OfType, fields, item)
			if err != nil {
				err = st.record(err)
				if ref.OfType.IsNonNull() {
					return nil, err
				}
				v = nil
			}
			out = append(out, v)
		}
		return out, nil
	}

	t := e.schema.Types[ref.Named]
	if t == nil {
		return nil, fmt.Errorf("unknown type %q", ref.Named)
	}
	switch t.Kind {
	case schema.TypeKindScalar:
		return e.runtime.SerializeLeaf(ctx, t.Name, value)
	case schema.TypeKindObject:
		return e.executeSelectionSet(ctx, st, t, mergedSelections(fields), value)
	case schema.TypeKindInterface, schema.TypeKindUnion:
		concrete, err := e.runtime.ResolveConcreteValue(ctx, t.Name, value)
		if err != nil {
			return nil, err
		}
		if concrete == nil {
			return nil, nil
		}
		name, err := e.runtime.ResolveType(ctx, t.Name, concrete)
		if err != nil {
			return nil, err
		}
		ot := e.schema.Types[name]
		if ot == nil || ot.Kind != schema.TypeKindObject {
			return nil, fmt.Errorf("resolved type %q is not an object type", name)
		}
		if !possibleTypeOf(t, name) {
			return nil, fmt.Errorf("type %q is not a possible type of %q", name, t.Name)
		}
		return e.executeSelectionSet(ctx, st, ot, mergedSelections(fields), concrete)
	}
	return nil, fmt.Errorf("cannot complete value of type %q", t.Name)
}

func possibleTypeOf(abstract *schema.Type, name string) bool {
	for _, p := range abstract.PossibleTypes {
		if p == name {
			return true
		}
	}
	return false
}

// mergedSelections concatenates the sub-selections of all fields merged
// under one response key.
func mergedSelections(fields []*language.Field) language.SelectionSet {
	if len(fields) == 1 {
		return fields[0].SelectionSet
	}
	var merged language.SelectionSet
	for _, f := range fields {
		merged = append(merged, f.SelectionSet...)
	}
	return merged
}

func toSlice(value any) ([]any, error) {
	if items, ok := value.([]any); ok {
		return items, nil
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("expected a list value, got %T", value)
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, nil
}
