package event

import "fmt"

// NotFoundError means a resolver search returned zero results for the
// requested identifier.
type NotFoundError struct {
	Identifier string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("event not found: %s", e.Identifier)
}

// InvalidArgumentError means an identifier of an unsupported type was passed
// to Resolve. Only strings (SKUs) and integers (internal ids) are accepted.
type InvalidArgumentError struct {
	Value any
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid identifier %v (%T): want string sku or int id", e.Value, e.Value)
}
