package graph

import (
	"errors"
	"fmt"
)

// Sentinel errors for graph operations.
var (
	ErrNodeNotFound  = errors.New("node not found")
	ErrEdgeNotFound  = errors.New("edge not found")
	ErrDuplicateEdge = errors.New("edge already exists")
	ErrUnknownHandle = errors.New("handle not declared on block")
	ErrUnknownKind   = errors.New("unknown node kind")
	ErrKindMismatch  = errors.New("payload kind does not match node kind")
	ErrDuplicateName = errors.New("duplicate canonical signal name")
)

// GraphError provides structured context for a failed graph operation.
type GraphError struct {
	Op      string // operation that failed, e.g. "RemoveNode"
	Entity  string // "node" or "edge"
	ID      string // entity id, if applicable
	Cause   error
	Context string
}

// Error implements the error interface.
func (e *GraphError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %s %s: %v", e.Op, e.Entity, e.ID, e.Cause)
	}
	if e.Context != "" {
		return fmt.Sprintf("%s %s (%s): %v", e.Op, e.Entity, e.Context, e.Cause)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *GraphError) Unwrap() error { return e.Cause }
