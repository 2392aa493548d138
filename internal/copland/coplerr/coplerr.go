// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Copland Phrase Contributors

// Package coplerr defines the error codes shared by every package in the
// Copland phrase subsystem, wrapping github.com/samber/oops the same way
// the command package wraps it for dispatch errors.
package coplerr

import "github.com/samber/oops"

// Error codes for the Copland phrase subsystem.
const (
	CodeNullInput     = "NULL_INPUT"
	CodeAlloc         = "ALLOC"
	CodeMalformed     = "MALFORMED"
	CodeUnknownArg    = "UNKNOWN_ARG"
	CodeTypeMismatch  = "TYPE_MISMATCH"
	CodeOutOfRange    = "OUT_OF_RANGE"
	CodeRegexCompile  = "REGEX_COMPILE"
	CodeBoundMiss     = "BOUND_MISS"
	CodeTemplateMiss  = "TEMPLATE_MISS"
	CodeNotFound      = "NOT_FOUND"
	CodeIoFailure     = "IO_FAILURE"
	CodeSignatureFail = "SIGNATURE_FAIL"
)

// NullInput builds a NullInput error for the named argument.
func NullInput(arg string) error {
	return oops.Code(CodeNullInput).With("argument", arg).Errorf("%s must not be empty", arg)
}

// Malformed builds a Malformed error describing why input failed to parse.
func Malformed(input, reason string) error {
	return oops.Code(CodeMalformed).With("input", input).Errorf("malformed input: %s", reason)
}

// UnknownArg builds an UnknownArg error for an argument name not present in a template.
func UnknownArg(name string) error {
	return oops.Code(CodeUnknownArg).With("name", name).Errorf("argument %q not found in template", name)
}

// TypeMismatch builds a TypeMismatch error between an actual and template argument kind.
func TypeMismatch(name string) error {
	return oops.Code(CodeTypeMismatch).With("name", name).Errorf("argument %q has a mismatched kind", name)
}

// OutOfRange builds an OutOfRange error for an integer/place value outside its bounds.
func OutOfRange(name, value string) error {
	return oops.Code(CodeOutOfRange).With("name", name).With("value", value).
		Errorf("value %q for argument %q is out of range", value, name)
}

// RegexCompile builds a RegexCompile error for an uncompilable template bound.
func RegexCompile(pattern string, cause error) error {
	return oops.Code(CodeRegexCompile).With("pattern", pattern).Wrap(cause)
}

// BoundMiss builds a BoundMiss error when an actual value fails its template's bound.
func BoundMiss(name string) error {
	return oops.Code(CodeBoundMiss).With("name", name).Errorf("value for argument %q is not within bounds", name)
}

// TemplateMiss builds a TemplateMiss error when no template matches a requested phrase.
func TemplateMiss(term string) error {
	return oops.Code(CodeTemplateMiss).With("term", term).Errorf("no template found for phrase %q", term)
}

// NotFound builds a NotFound error for a missing place or field.
func NotFound(kind, id string) error {
	return oops.Code(CodeNotFound).With("kind", kind).With("id", id).Errorf("%s %q not found", kind, id)
}

// IoFailure builds an IoFailure error wrapping an underlying I/O error.
func IoFailure(op string, cause error) error {
	return oops.Code(CodeIoFailure).With("op", op).Wrap(cause)
}

// SignatureFail builds a SignatureFail error for a subcontract that failed verification.
func SignatureFail(index int, cause error) error {
	b := oops.Code(CodeSignatureFail).With("subcontract_index", index)
	if cause != nil {
		return b.Wrap(cause)
	}
	return b.Errorf("subcontract %d failed signature verification", index)
}
