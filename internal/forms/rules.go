package forms

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/pagegraph/pagegraph/internal/model"
)

// RuleEngine is a reference Engine that validates submissions against the
// declared form fields: required presence, email shape and numeric fields.
type RuleEngine struct {
	mu          sync.Mutex
	submissions []Submission
}

// Submission is one processed form submission.
type Submission struct {
	PageID int
	Values map[string]any
}

// NewRuleEngine creates an empty rule engine.
func NewRuleEngine() *RuleEngine { return &RuleEngine{} }

// Submissions returns the processed submissions in arrival order.
func (e *RuleEngine) Submissions() []Submission {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Submission(nil), e.submissions...)
}

func (e *RuleEngine) Bind(ctx context.Context, class *model.ModelClass, values map[string]any, page *model.Record, user *model.User) (Validation, error) {
	v := &ruleValidation{values: values}
	for _, field := range class.FormFields {
		raw, present := values[field.Name]
		text, isText := raw.(string)

		missing := !present || raw == nil || (isText && strings.TrimSpace(text) == "")

		var messages []string
		if field.Required && missing {
			messages = append(messages, "This field is required.")
		}
		if present && text != "" {
			switch field.FieldType {
			case "email":
				if !strings.Contains(text, "@") || !strings.Contains(text, ".") {
					messages = append(messages, "Enter a valid email address.")
				}
			case "number":
				if _, err := strconv.ParseFloat(text, 64); err != nil {
					messages = append(messages, "Enter a number.")
				}
			}
		}
		if len(messages) > 0 {
			v.errors = append(v.errors, FieldError{Name: field.Name, Messages: messages})
		}
	}
	return v, nil
}

func (e *RuleEngine) Submit(ctx context.Context, page *model.Record, v Validation) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.submissions = append(e.submissions, Submission{PageID: page.ID, Values: v.Values()})
	return nil
}

type ruleValidation struct {
	values map[string]any
	errors []FieldError
}

func (v *ruleValidation) Valid() bool               { return len(v.errors) == 0 }
func (v *ruleValidation) FieldErrors() []FieldError { return v.errors }
func (v *ruleValidation) Values() map[string]any    { return v.values }
