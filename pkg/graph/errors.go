package graph

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrNodeNotFound     = errors.New("node not found")
	ErrEdgeNotFound     = errors.New("edge not found")
	ErrInvalidTimepoint = errors.New("invalid timepoint")
	// ErrInvalidEdge covers colocalization edges whose endpoints are not one
	// ARG and one MGE at the same timepoint, and temporal edges that do not
	// link one entity forward in time.
	ErrInvalidEdge = errors.New("invalid edge")
)

// GraphError provides structured error information for graph operations.
type GraphError struct {
	Op      string // operation that failed, e.g. "AddEdge"
	Entity  string // "node" or "edge"
	Key     string // rendered node or edge key
	Cause   error
	Context string
}

func (e *GraphError) Error() string {
	switch {
	case e.Key != "" && e.Context != "":
		return fmt.Sprintf("%s %s %s (%s): %v", e.Op, e.Entity, e.Key, e.Context, e.Cause)
	case e.Key != "":
		return fmt.Sprintf("%s %s %s: %v", e.Op, e.Entity, e.Key, e.Cause)
	case e.Context != "":
		return fmt.Sprintf("%s %s (%s): %v", e.Op, e.Entity, e.Context, e.Cause)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *GraphError) Unwrap() error {
	return e.Cause
}

// ErrorBuilder provides a fluent interface for building GraphErrors.
type ErrorBuilder struct {
	err GraphError
}

// NewError creates a new error builder with the given operation.
func NewError(op string) *ErrorBuilder {
	return &ErrorBuilder{err: GraphError{Op: op}}
}

// Node sets the entity to "node" with the given key.
func (b *ErrorBuilder) Node(k NodeKey) *ErrorBuilder {
	b.err.Entity = "node"
	b.err.Key = k.String()
	return b
}

// Edge sets the entity to "edge" with the given key.
func (b *ErrorBuilder) Edge(k EdgeKey) *ErrorBuilder {
	b.err.Entity = "edge"
	b.err.Key = k.String()
	return b
}

func (b *ErrorBuilder) Context(ctx string) *ErrorBuilder {
	b.err.Context = ctx
	return b
}

func (b *ErrorBuilder) Cause(err error) *ErrorBuilder {
	b.err.Cause = err
	return b
}

// Err returns the error as an error interface.
func (b *ErrorBuilder) Err() error {
	return &b.err
}

// IsInvalidEdge reports whether err stems from a structurally invalid edge.
func IsInvalidEdge(err error) bool {
	return errors.Is(err, ErrInvalidEdge)
}
