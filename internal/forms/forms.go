// Package forms defines the form-engine collaborator contract: bind raw
// submitted values to a form class, validate, and process on success.
package forms

import (
	"context"

	"github.com/pagegraph/pagegraph/internal/model"
)

// FieldError carries the validation messages reported for one field.
type FieldError struct {
	Name     string
	Messages []string
}

// Validation is the outcome of binding submitted values to a form.
type Validation interface {
	// Valid reports whether every field passed validation.
	Valid() bool
	// FieldErrors returns one entry per failed field, in the order the
	// failures were reported.
	FieldErrors() []FieldError
	// Values returns the cleaned submitted values.
	Values() map[string]any
}

// Engine binds and processes form submissions.
type Engine interface {
	// Bind builds a form bound to the submitted values, the resolved page
	// and the acting user.
	Bind(ctx context.Context, class *model.ModelClass, values map[string]any, page *model.Record, user *model.User) (Validation, error)
	// Submit processes a successful submission. Called only when the
	// validation is valid.
	Submit(ctx context.Context, page *model.Record, v Validation) error
}
