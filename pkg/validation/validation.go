// Package validation gates every mutation of a control-logic document. It
// provides the connection validator (edge admissibility), the field
// validator (per-kind payload rules), and a fluent validator for service
// configuration structs.
//
// Validators never panic and never return Go errors for user mistakes:
// they return a Result value whose message is meant to be shown to the
// operator as-is.
package validation

import "github.com/go-playground/validator/v10"

// Result is the outcome of a validation check.
type Result struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

func ok() Result {
	return Result{Valid: true}
}

func fail(msg string) Result {
	return Result{Valid: false, Error: msg}
}

// validate is the singleton tag validator shared by the field checks.
var validate = validator.New()
