/*
Copyright © 2026 the SatBin authors.
This file is part of SatBin.

SatBin is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

SatBin is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with SatBin.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package errs holds the typed errors returned by the geometry and
// binning packages. Every error carries a machine-readable Kind plus the
// name of the operation that failed.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an error.
type Kind int

// These are the error kinds.
const (
	Unknown Kind = iota
	// InvalidArgument is returned for bad grid specifications, mismatched
	// dimension lengths and similar caller errors.
	InvalidArgument
	// OutOfMemory is returned when a size limit on an internal buffer
	// would be exceeded.
	OutOfMemory
	// InvalidVariable is returned for variables whose shape, type or unit
	// is inconsistent with how they are used.
	InvalidVariable
	// DegenerateGeometry is returned when a geometric object cannot be
	// defined and no fallback exists.
	DegenerateGeometry
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "invalid argument"
	case OutOfMemory:
		return "out of memory"
	case InvalidVariable:
		return "invalid variable"
	case DegenerateGeometry:
		return "degenerate geometry"
	default:
		return "unknown error"
	}
}

// Error is an error with a Kind.
type Error struct {
	Kind Kind
	// Op is the name of the operation, for example "satbin.BinSpatial".
	Op  string
	Err error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.Err }

// New returns an error of the given kind with a formatted message.
func New(k Kind, op, format string, args ...interface{}) error {
	return &Error{Kind: k, Op: op, Err: fmt.Errorf(format, args...)}
}

// Wrap attaches an operation name to err. If err already carries a Kind
// that Kind is kept, otherwise k is used. Wrap returns nil if err is nil.
func Wrap(k Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	if kk := KindOf(err); kk != Unknown {
		k = kk
	}
	return &Error{Kind: k, Op: op, Err: err}
}

// KindOf returns the Kind of err, or Unknown if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// Is reports whether err has Kind k.
func Is(err error, k Kind) bool {
	return KindOf(err) == k
}
