package catalog

import "github.com/poiesic/particula/core"

// descriptiveNames holds curated human-readable labels for common
// particles. Entities not listed here use their display name.
var descriptiveNames = map[core.ID]string{
	// Leptons
	11:  "electron",
	-11: "positron",
	13:  "muon",
	-13: "antimuon",
	15:  "tau lepton",
	-15: "tau antilepton",
	12:  "electron neutrino",
	-12: "electron antineutrino",
	14:  "muon neutrino",
	-14: "muon antineutrino",
	16:  "tau neutrino",
	-16: "tau antineutrino",

	// Gauge bosons
	22:  "photon",
	23:  "Z boson",
	24:  "W+ boson",
	-24: "W- boson",
	25:  "Higgs boson",

	// Baryons
	2212:  "proton",
	-2212: "antiproton",
	2112:  "neutron",
	-2112: "antineutron",

	// Mesons
	211:  "charged pion",
	-211: "charged pion",
	111:  "neutral pion",
	321:  "charged kaon",
	-321: "charged kaon",
	311:  "neutral kaon",
	130:  "neutral kaon (long)",
	310:  "neutral kaon (short)",

	// Quarks
	1:  "down quark",
	-1: "anti-down quark",
	2:  "up quark",
	-2: "anti-up quark",
	3:  "strange quark",
	-3: "anti-strange quark",
	4:  "charm quark",
	-4: "anti-charm quark",
	5:  "bottom quark",
	-5: "anti-bottom quark",
	6:  "top quark",
	-6: "anti-top quark",
}

// DescriptiveName returns the curated label for id, or name when there is
// none.
func DescriptiveName(id core.ID, name string) string {
	if d, ok := descriptiveNames[id]; ok {
		return d
	}
	return name
}

// statusNames maps the upstream status code to its label.
var statusNames = []string{"Common", "Rare", "Unsure", "Further", "Nonexistent"}
