package core

import "math"

// Physical constants used to derive lifetimes from decay widths.
const (
	// HbarMeVns is the reduced Planck constant in MeV*ns.
	HbarMeVns = 6.582119569e-13
	// SpeedOfLightMMPerNs is c in mm/ns.
	SpeedOfLightMMPerNs = 299.792458
)

// Spin returns the total spin J encoded in the identifier, or nil when the
// numbering scheme does not determine it.
//
// Quarks and leptons carry 1/2, the gauge bosons 1 and the Higgs 0. For
// hadrons J = (nJ-1)/2 where nJ is the last digit, with the K(L)0 and
// K(S)0 special cases.
func (id ID) Spin() *float64 {
	a := id.Abs()
	switch {
	case a >= 1 && a <= 8, a >= 11 && a <= 18:
		return Finite(0.5)
	case a >= 21 && a <= 24:
		return Finite(1)
	case a == 25:
		return Finite(0)
	case a == 130 || a == 310:
		return Finite(0)
	case a >= 100:
		nj := int64(a % 10)
		if nj == 0 {
			return nil
		}
		return Finite(float64(nj-1) / 2)
	}
	return nil
}

// LifetimeFromWidth converts a decay width in MeV to a mean lifetime in ns.
// A nil width yields nil. A zero width means a stable particle whose
// infinite lifetime is reported as nil.
func LifetimeFromWidth(width *float64) *float64 {
	if width == nil || *width < 0 {
		return nil
	}
	if *width == 0 {
		return Finite(math.Inf(1))
	}
	return Finite(HbarMeVns / *width)
}

// CTauFromLifetime converts a lifetime in ns to the decay length c*tau in mm.
func CTauFromLifetime(lifetime *float64) *float64 {
	if lifetime == nil {
		return nil
	}
	return Finite(SpeedOfLightMMPerNs * *lifetime)
}
