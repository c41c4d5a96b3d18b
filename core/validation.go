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
	"fmt"
	"math"
)

// conjugateTolerance bounds the mass and charge disagreement allowed
// between conjugates.
const conjugateTolerance = 1e-6

// Finite returns a pointer to v, or nil when v is NaN or infinite.
func Finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// ValidateEntity validates an Entity according to domain rules.
//
// Validation rules:
//   - ID must not be 0
//   - Name must not be empty
//   - Every present float attribute must be finite
//
// NOT validated (needs the whole catalog):
//   - Conjugate symmetry, see CheckConjugates
func ValidateEntity(e *Entity) error {
	if e == nil {
		return fmt.Errorf("%w: entity is nil", ErrInvalidEntity)
	}
	if e.ID == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidEntity, ErrZeroID)
	}
	if e.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEntity, ErrEmptyName)
	}

	floats := []struct {
		name string
		v    *float64
	}{
		{"mass", e.Mass}, {"mass_upper", e.MassUpper}, {"mass_lower", e.MassLower},
		{"width", e.Width}, {"width_upper", e.WidthUpper}, {"width_lower", e.WidthLower},
		{"charge", e.Charge}, {"spin", e.Spin}, {"lifetime", e.Lifetime}, {"ctau", e.CTau},
	}
	for _, f := range floats {
		if f.v != nil && (math.IsNaN(*f.v) || math.IsInf(*f.v, 0)) {
			return fmt.Errorf("%w: %s: %w", ErrInvalidEntity, f.name, ErrNonFinite)
		}
	}
	return nil
}

// CheckConjugates verifies the conjugate relation over a set of entities.
// For every entity with a distinct conjugate, the conjugate must exist,
// point back, carry the opposite charge and the same mass whenever both
// sides define the attribute.
func CheckConjugates(entities []*Entity) error {
	byID := make(map[ID]*Entity, len(entities))
	for _, e := range entities {
		byID[e.ID] = e
	}

	for _, e := range entities {
		if !e.HasConjugate() {
			continue
		}
		c, ok := byID[e.Conjugate]
		if !ok {
			return fmt.Errorf("%w: %d names missing conjugate %d", ErrConjugateAsymmetric, e.ID, e.Conjugate)
		}
		if c.Conjugate != e.ID {
			return fmt.Errorf("%w: %d -> %d -> %d", ErrConjugateAsymmetric, e.ID, e.Conjugate, c.Conjugate)
		}
		if err := MatchConjugates(e, c); err != nil {
			return err
		}
	}
	return nil
}

// MatchConjugates reports ErrConjugateMismatch when a and b disagree on
// charge (which must be opposite) or mass, comparing only attributes both
// define.
func MatchConjugates(a, b *Entity) error {
	if a.Charge != nil && b.Charge != nil && math.Abs(*a.Charge+*b.Charge) > conjugateTolerance {
		return fmt.Errorf("%w: charge of %d and %d", ErrConjugateMismatch, a.ID, b.ID)
	}
	if a.Mass != nil && b.Mass != nil && math.Abs(*a.Mass-*b.Mass) > conjugateTolerance {
		return fmt.Errorf("%w: mass of %d and %d", ErrConjugateMismatch, a.ID, b.ID)
	}
	return nil
}
