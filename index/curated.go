package index

import "github.com/poiesic/particula/core"

// defaultAliases holds the common-language synonyms for particles whose
// symbols alone are not what people type. Keys are identifiers so the
// target of every alias is explicit.
var defaultAliases = map[core.ID][]string{
	11:    {"electron"},
	-11:   {"positron"},
	13:    {"muon"},
	-13:   {"antimuon"},
	15:    {"tau"},
	-15:   {"antitau"},
	22:    {"photon"},
	25:    {"higgs", "higgs boson"},
	2212:  {"proton"},
	-2212: {"antiproton"},
	2112:  {"neutron"},
	-2112: {"antineutron"},

	1:  {"down", "down quark", "d"},
	-1: {"anti-down", "antidown"},
	2:  {"up", "up quark", "u"},
	-2: {"anti-up", "antiup"},
	3:  {"strange", "strange quark", "s"},
	-3: {"anti-strange", "antistrange"},
	4:  {"charm", "charm quark", "c"},
	-4: {"anti-charm", "anticharm"},
	5:  {"bottom", "bottom quark", "beauty", "b"},
	-5: {"anti-bottom", "antibottom", "anti-beauty"},
	6:  {"top", "top quark", "t"},
	-6: {"anti-top", "antitop"},
}

// DefaultAliases returns a copy of the built-in curated alias table.
func DefaultAliases() map[core.ID][]string {
	out := make(map[core.ID][]string, len(defaultAliases))
	for id, aliases := range defaultAliases {
		out[id] = append([]string(nil), aliases...)
	}
	return out
}
