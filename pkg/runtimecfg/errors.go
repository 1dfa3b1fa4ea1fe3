package runtimecfg

import (
	"errors"
	"fmt"
)

// Sentinel errors for config compilation.
var (
	ErrDuplicateSignalName = errors.New("duplicate signal name")
	ErrMalformedConfig     = errors.New("malformed config text")
)

// ParseError wraps a yaml decoding failure with the wire-contract context.
type ParseError struct {
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse config: %v", e.Cause)
}

func (e *ParseError) Unwrap() error { return ErrMalformedConfig }

// Warning reports a non-fatal loss during parsing: a port reference that
// names no declared signal. The edge is dropped; the document still loads.
type Warning struct {
	Block  string `json:"block"`
	Port   string `json:"port"`
	Signal string `json:"signal"`
}

func (w Warning) String() string {
	return fmt.Sprintf("block %q port %q references undeclared signal %q; wire dropped", w.Block, w.Port, w.Signal)
}
