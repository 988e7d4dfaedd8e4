package executor

import "context"

// Runtime is the host integration surface for field resolution, abstract
// type resolution and leaf-value serialization used by the Executor.
//
// Contract
//   - Execution is synchronous and depth-first; the Executor may run
//     independent operations concurrently, so implementations must be
//     safe for concurrent reads.
//   - selections carries the response-level selection names requested
//     under the field (plain field names plus fragment type conditions),
//     so runtimes can plan fetches from the requested shape.
//   - ResolveConcreteValue converts an abstract-typed value into its
//     concrete representation before completion; bare identifiers are
//     loaded into full records here.
//   - ResolveType must return a type name that is a possible type of
//     abstractType in the schema; failing to resolve is an error, never a
//     silent default.
//   - Errors returned from any method become GraphQL errors. Non-Null
//     fields propagate the null to the nearest nullable ancestor.
type Runtime interface {
	// ResolveField resolves one field value on the given object type.
	// source is the parent value (nil for root fields); args are coerced
	// argument values. Return (nil, nil) for a GraphQL null.
	ResolveField(ctx context.Context, objectType, field string, source any, args map[string]any, selections []string) (any, error)

	// ResolveConcreteValue converts an interface or union envelope value
	// into its concrete representation prior to completion.
	ResolveConcreteValue(ctx context.Context, abstractType string, value any) (any, error)

	// ResolveType determines the concrete runtime type name for a value
	// of an abstract GraphQL type.
	ResolveType(ctx context.Context, abstractType string, value any) (string, error)

	// SerializeLeaf serializes a scalar value to a JSON-safe Go value.
	SerializeLeaf(ctx context.Context, scalarTypeName string, value any) (any, error)
}
