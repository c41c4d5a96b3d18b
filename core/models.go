package core

import (
	"strconv"
	"strings"
)

// ID is a PDG Monte Carlo particle identifier.
// A negative ID conventionally denotes the charge conjugate of the
// corresponding positive one.
type ID int64

// String returns the decimal form of the ID.
func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Abs returns the ID with its sign removed.
func (id ID) Abs() ID {
	if id < 0 {
		return -id
	}
	return id
}

// ParseID parses a decimal PDG identifier.
// Surrounding whitespace is ignored. Anything that is not an integer
// yields a *ValidationError.
func ParseID(raw string) (ID, error) {
	trimmed := strings.TrimSpace(raw)
	v, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, &ValidationError{Field: "pdgid", Value: raw, Reason: "not an integer"}
	}
	return ID(v), nil
}

// Entity is one immutable catalog record describing a particle.
//
// Optional numeric attributes are nil when unknown. They are never NaN or
// infinite; see Finite.
type Entity struct {
	ID              ID
	Name            string // short symbol, e.g. "e-"
	DescriptiveName string // human label, falls back to Name
	Latex           string

	Mass       *float64 // MeV
	MassUpper  *float64
	MassLower  *float64
	Width      *float64 // MeV
	WidthUpper *float64
	WidthLower *float64

	Charge      *float64
	ThreeCharge *int
	Spin        *float64
	Parity      *int
	CParity     *int
	GParity     *int

	Lifetime *float64 // ns
	CTau     *float64 // mm

	// Conjugate equals ID when the entity has no distinct conjugate.
	Conjugate     ID
	ConjugateName string

	Status string
	Quarks string
}

// HasConjugate reports whether the entity has a distinct charge conjugate.
func (e *Entity) HasConjugate() bool {
	return e.Conjugate != 0 && e.Conjugate != e.ID
}

// Summary returns the reduced view of the entity used in result lists.
func (e *Entity) Summary() Summary {
	return Summary{
		ID:              e.ID,
		Name:            e.Name,
		DescriptiveName: e.DescriptiveName,
		Latex:           e.Latex,
		Mass:            cloneFloat(e.Mass),
		Charge:          cloneFloat(e.Charge),
		ThreeCharge:     cloneInt(e.ThreeCharge),
	}
}

// Clone returns a deep copy of the entity.
func (e *Entity) Clone() *Entity {
	c := *e
	c.Mass = cloneFloat(e.Mass)
	c.MassUpper = cloneFloat(e.MassUpper)
	c.MassLower = cloneFloat(e.MassLower)
	c.Width = cloneFloat(e.Width)
	c.WidthUpper = cloneFloat(e.WidthUpper)
	c.WidthLower = cloneFloat(e.WidthLower)
	c.Charge = cloneFloat(e.Charge)
	c.ThreeCharge = cloneInt(e.ThreeCharge)
	c.Spin = cloneFloat(e.Spin)
	c.Parity = cloneInt(e.Parity)
	c.CParity = cloneInt(e.CParity)
	c.GParity = cloneInt(e.GParity)
	c.Lifetime = cloneFloat(e.Lifetime)
	c.CTau = cloneFloat(e.CTau)
	return &c
}

// Summary is the reduced entity view returned by resolution and the
// popular list.
type Summary struct {
	ID              ID       `json:"pdgid"`
	Name            string   `json:"name"`
	DescriptiveName string   `json:"descriptive_name"`
	Latex           string   `json:"latex_name"`
	Mass            *float64 `json:"mass"`
	Charge          *float64 `json:"charge"`
	ThreeCharge     *int     `json:"three_charge"`
}

// Clone returns a deep copy of the summary.
func (s Summary) Clone() Summary {
	s.Mass = cloneFloat(s.Mass)
	s.Charge = cloneFloat(s.Charge)
	s.ThreeCharge = cloneInt(s.ThreeCharge)
	return s
}

// Clone returns a deep copy of the result.
func (r *ResolveResult) Clone() *ResolveResult {
	results := make([]Summary, len(r.Results))
	for i, s := range r.Results {
		results[i] = s.Clone()
	}
	return &ResolveResult{Results: results, Total: r.Total}
}

// ResolveResult is the outcome of resolving a query.
// Total counts every match accumulated before truncation, so it may exceed
// len(Results).
type ResolveResult struct {
	Results []Summary `json:"particles"`
	Total   int       `json:"total"`
}

// Int returns a pointer to v.
func Int(v int) *int {
	return &v
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
