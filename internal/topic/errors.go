package topic

import (
	"errors"
	"fmt"
)

// ErrNoTopic indicates no topic name was given.
var ErrNoTopic = errors.New("no topic specified")

// NotFoundError indicates the topic file could not be found or read.
type NotFoundError struct {
	Name string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("topic file %q not found: %v", e.Name, e.Err)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// MalformedError indicates the topic file was read but does not satisfy
// the topic contract.
type MalformedError struct {
	Name string
	Err  error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("topic file %q is malformed: %v", e.Name, e.Err)
}

func (e *MalformedError) Unwrap() error { return e.Err }
