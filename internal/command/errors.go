package command

import (
	"fmt"
	"net/http"
)

// Code identifies a grammar violation. Each code maps to exactly one
// HTTP-style status via ParseError.Status.
type Code string

const (
	CodeUnknownResource      Code = "unknown_resource"
	CodeMissingRulesState    Code = "missing_rules_state"
	CodeInvalidRulesState    Code = "invalid_rules_state"
	CodeUnknownColour        Code = "unknown_colour"
	CodeMissingHexColour     Code = "missing_hex_colour"
	CodeInvalidHexColour     Code = "invalid_hex_colour"
	CodeMissingRGBComponents Code = "missing_rgb_components"
	CodeInvalidRGBComponent  Code = "invalid_rgb_component"
	CodeUnknownMode          Code = "unknown_mode"
	CodeInvalidPeriod        Code = "invalid_period"
	CodeTooManySegments      Code = "too_many_path_segments"
)

// ParseError is a structured grammar error. Raw holds the offending token
// where one exists (empty for structural errors such as a missing segment).
type ParseError struct {
	Code Code
	Raw  string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Raw == "" {
		return fmt.Sprintf("command: %s", e.Code)
	}
	return fmt.Sprintf("command: %s: %q", e.Code, e.Raw)
}

// Status returns the HTTP-style status code for this error:
// 404 for an unknown resource, 400 for every other grammar violation.
func (e *ParseError) Status() int {
	if e.Code == CodeUnknownResource {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}

// newErr builds a ParseError with an offending token.
func newErr(code Code, raw string) *ParseError {
	return &ParseError{Code: code, Raw: raw}
}
