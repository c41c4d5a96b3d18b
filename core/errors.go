// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package core

import (
	"errors"
	"fmt"
)

// Domain validation errors
var (
	// ErrInvalidEntity indicates an Entity failed validation.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrEmptyName indicates the display name is empty.
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrZeroID indicates an entity carries the reserved identifier 0.
	ErrZeroID = errors.New("pdgid cannot be zero")

	// ErrNonFinite indicates an attribute holds NaN or an infinity.
	ErrNonFinite = errors.New("attribute is not finite")

	// ErrConjugateAsymmetric indicates A names B as its conjugate but B does
	// not name A.
	ErrConjugateAsymmetric = errors.New("conjugate relation is not symmetric")

	// ErrConjugateMismatch indicates a conjugate pair disagrees on mass or
	// charge.
	ErrConjugateMismatch = errors.New("conjugate attributes do not match")

	// ErrInternal is surfaced in place of any failure that does not belong
	// to a known kind. It never carries internal detail.
	ErrInternal = errors.New("internal error")
)

// NotFoundError reports an identifier or alias that does not resolve.
type NotFoundError struct {
	Kind string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.Key)
}

// NewNotFound returns the NotFoundError for an unknown particle ID.
func NewNotFound(id ID) *NotFoundError {
	return &NotFoundError{Kind: "particle with PDG ID", Key: id.String()}
}

// ValidationError reports malformed caller input.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// LoadError reports that the catalog source as a whole could not be used.
// It is fatal at startup.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load catalog from %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ConversionError reports a single record that could not be converted.
// It is never fatal; the record is skipped and counted.
type ConversionError struct {
	Line  int // 0 when not applicable
	ID    ID  // 0 when not yet known
	Field string
	Err   error
}

func (e *ConversionError) Error() string {
	switch {
	case e.Line > 0 && e.Field != "":
		return fmt.Sprintf("line %d: field %s: %v", e.Line, e.Field, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	case e.Field != "":
		return fmt.Sprintf("pdgid %d: field %s: %v", e.ID, e.Field, e.Err)
	default:
		return fmt.Sprintf("pdgid %d: %v", e.ID, e.Err)
	}
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Classify maps err onto one of the known error kinds. Errors that already
// are (or wrap) a NotFoundError, ValidationError, LoadError or
// ConversionError are returned unchanged. Anything else becomes ErrInternal.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var (
		notFound   *NotFoundError
		validation *ValidationError
		load       *LoadError
		conversion *ConversionError
	)
	switch {
	case errors.As(err, &notFound),
		errors.As(err, &validation),
		errors.As(err, &load),
		errors.As(err, &conversion),
		errors.Is(err, ErrInternal):
		return err
	}
	return ErrInternal
}
