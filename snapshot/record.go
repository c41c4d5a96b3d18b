package snapshot

import (
	"bytes"
	"encoding/json"

	"github.com/poiesic/particula/core"
)

// nanosecondsPerSecond converts stored lifetimes to seconds.
const nanosecondsPerSecond = 1e9

// DetailRecord is the full per-entity artifact.
type DetailRecord struct {
	PDGID             core.ID  `json:"pdgid"`
	Name              string   `json:"name"`
	DescriptiveName   string   `json:"descriptive_name"`
	LatexName         string   `json:"latex_name"`
	Mass              *float64 `json:"mass"`
	MassUpper         *float64 `json:"mass_upper"`
	MassLower         *float64 `json:"mass_lower"`
	Width             *float64 `json:"width"`
	WidthUpper        *float64 `json:"width_upper"`
	WidthLower        *float64 `json:"width_lower"`
	Charge            *float64 `json:"charge"`
	ThreeCharge       *int     `json:"three_charge"`
	Spin              *float64 `json:"spin"`
	Parity            *int     `json:"parity"`
	CParity           *int     `json:"c_parity"`
	GParity           *int     `json:"g_parity"`
	AntiParticlePDGID *core.ID `json:"anti_particle_pdgid"`
	AntiParticleName  *string  `json:"anti_particle_name"`
	Status            *string  `json:"status"`
	Lifetime          *float64 `json:"lifetime"`
	CTau              *float64 `json:"ctau"`
}

// NewDetailRecord builds the artifact view of e.
//
// Lifetime is stored in nanoseconds and published in seconds, but only
// when it is present and non-zero; zero passes through unconverted.
func NewDetailRecord(e *core.Entity) *DetailRecord {
	r := &DetailRecord{
		PDGID:           e.ID,
		Name:            e.Name,
		DescriptiveName: e.DescriptiveName,
		LatexName:       e.Latex,
		Mass:            e.Mass,
		MassUpper:       e.MassUpper,
		MassLower:       e.MassLower,
		Width:           e.Width,
		WidthUpper:      e.WidthUpper,
		WidthLower:      e.WidthLower,
		Charge:          e.Charge,
		ThreeCharge:     e.ThreeCharge,
		Spin:            e.Spin,
		Parity:          e.Parity,
		CParity:         e.CParity,
		GParity:         e.GParity,
		Lifetime:        e.Lifetime,
		CTau:            e.CTau,
	}
	if e.HasConjugate() {
		id, name := e.Conjugate, e.ConjugateName
		r.AntiParticlePDGID = &id
		r.AntiParticleName = &name
	}
	if e.Status != "" {
		status := e.Status
		r.Status = &status
	}
	if e.Lifetime != nil && *e.Lifetime != 0 {
		r.Lifetime = core.Finite(*e.Lifetime / nanosecondsPerSecond)
	}
	return r
}

// PopularArtifact is the popular.json document.
type PopularArtifact struct {
	Particles []core.Summary `json:"particles"`
}

// encodeJSON renders v as two-space indented JSON without HTML escaping,
// terminated by a newline.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
