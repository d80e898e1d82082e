package transform

import (
	"fmt"
	"sort"
)

// ProjectionType classifies a registered projection.
type ProjectionType string

// Projection type constants.
const (
	Geographic ProjectionType = "geographic"
	UTM        ProjectionType = "utm"
	StatePlane ProjectionType = "stateplane"
)

// Definition describes a registered projection/datum pair. Definitions are
// fixed at compile time and never mutated.
type Definition struct {
	Name       string
	Datum      string
	Type       ProjectionType
	EPSG       int
	Hemisphere string // utm only
}

// definitions is the fixed projection registry. UTM and State Plane entries
// are registered so requests against them fail with a descriptive error
// instead of an unknown-projection one; their conversions are not
// implemented.
var definitions = map[string]Definition{
	"WGS84": {Name: "WGS84", Datum: "WGS84", Type: Geographic, EPSG: 4326},
	"NAD83": {Name: "NAD83", Datum: "NAD83", Type: Geographic, EPSG: 4269},
	"NAD27": {Name: "NAD27", Datum: "NAD27", Type: Geographic, EPSG: 4267},

	"UTM_WGS84_N": {Name: "UTM_WGS84_N", Datum: "WGS84", Type: UTM, Hemisphere: "N"},
	"UTM_WGS84_S": {Name: "UTM_WGS84_S", Datum: "WGS84", Type: UTM, Hemisphere: "S"},
	"UTM_NAD83_N": {Name: "UTM_NAD83_N", Datum: "NAD83", Type: UTM, Hemisphere: "N"},
	"UTM_NAD83_S": {Name: "UTM_NAD83_S", Datum: "NAD83", Type: UTM, Hemisphere: "S"},

	"STATEPLANE_NAD83": {Name: "STATEPLANE_NAD83", Datum: "NAD83", Type: StatePlane},
}

// Lookup resolves a projection name against the registry.
func Lookup(name string) (Definition, error) {
	def, ok := definitions[name]
	if !ok {
		return Definition{}, fmt.Errorf("projection %q: %w", name, ErrUnknownProjection)
	}
	return def, nil
}

// ProjectionNames returns every registered projection identifier, sorted.
func ProjectionNames() []string {
	names := make([]string, 0, len(definitions))
	for name := range definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
