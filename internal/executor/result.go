package executor

import "github.com/pagegraph/pagegraph/internal/language"

// ExecutionResult is the outcome of one GraphQL operation.
type ExecutionResult struct {
	Data   any               `json:"data"`
	Errors []*language.Error `json:"errors,omitempty"`
}
