package events

import "time"

// GraphQLStart is emitted before an operation executes against the
// synthesized schema.
type GraphQLStart struct {
	Query         string
	OperationName string
	OperationType string
}

// GraphQLFinish is emitted after an operation completes, carrying every
// error recorded during execution.
type GraphQLFinish struct {
	Query         string
	OperationName string
	OperationType string
	Errors        []error
	Duration      time.Duration
}
