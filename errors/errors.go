// Package errors provides error handling for schemagen.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints and details
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := loadPackages(); err != nil {
//	    return errors.Wrap(err, "failed to load packages")
//	}
//
//	// Check errors
//	if errors.Is(err, errors.ErrUnsupportedTypeKind) {
//	    // skip the type and keep going
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint           = crdb.WithHint
	WithHintf          = crdb.WithHintf
	WithDetail         = crdb.WithDetail
	WithDetailf        = crdb.WithDetailf
	WithSecondaryError = crdb.WithSecondaryError
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Sentinel errors raised by type analysis.
// Use these with errors.Is(); wrap them with errors.Wrap() to add context while
// preserving the type.
var (
	// ErrNullInput indicates the type handed to the analyzer was absent
	ErrNullInput = New("null input")

	// ErrUnsupportedTypeKind indicates the type is neither an enum, an interface,
	// nor a serializable record
	ErrUnsupportedTypeKind = New("unsupported type kind")
)

// IsNullInput checks if an error is or wraps ErrNullInput
func IsNullInput(err error) bool {
	return err != nil && Is(err, ErrNullInput)
}

// IsUnsupportedTypeKind checks if an error is or wraps ErrUnsupportedTypeKind
func IsUnsupportedTypeKind(err error) bool {
	return err != nil && Is(err, ErrUnsupportedTypeKind)
}

// NewUnsupportedTypeKind reports typeName as an unsupported top-level type.
// The type name is part of the message; the hint lists the accepted shapes.
func NewUnsupportedTypeKind(typeName string) error {
	err := Wrapf(ErrUnsupportedTypeKind, "type %s", typeName)
	return WithHint(err, "only enums, interfaces, and structs marked as serializable records can be analyzed")
}
