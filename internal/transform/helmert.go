package transform

import (
	"fmt"
	"math"
)

const arcsecToRad = math.Pi / 648000

// Helmert holds the seven parameters of a similarity transform between two
// Cartesian datums: translations in meters, rotations in arcseconds
// (position-vector convention), scale difference in parts per million.
type Helmert struct {
	DX, DY, DZ float64 // meters
	RX, RY, RZ float64 // arcseconds
	DS         float64 // ppm
}

// Inverted returns the reverse transform. Negating all seven parameters is
// exact to first order, which is well inside the survey tolerances of the
// registered sets.
func (h Helmert) Inverted() Helmert {
	return Helmert{-h.DX, -h.DY, -h.DZ, -h.RX, -h.RY, -h.RZ, -h.DS}
}

// apply runs the 7-parameter transform on an ECEF position.
func (h Helmert) apply(x, y, z float64) (float64, float64, float64) {
	rx := h.RX * arcsecToRad
	ry := h.RY * arcsecToRad
	rz := h.RZ * arcsecToRad
	scale := 1 + h.DS*1e-6

	xt := h.DX + scale*(x-rz*y+ry*z)
	yt := h.DY + scale*(rz*x+y-rx*z)
	zt := h.DZ + scale*(-ry*x+rx*y+z)
	return xt, yt, zt
}

// pivotDatum bridges datum pairs with no direct parameter set.
const pivotDatum = "NAD83"

// datumShifts registers the known parameter sets, keyed "FROM:TO". The
// reverse direction uses the inverted set; WGS84<->NAD27 composes two hops
// through NAD83.
var datumShifts = map[string]Helmert{
	// NGS CORS96 set, WGS84(G1150) -> NAD83(CORS96).
	"WGS84:NAD83": {DX: -0.9956, DY: 1.9013, DZ: 0.5215, RX: 0.025915, RY: 0.009426, RZ: 0.011599, DS: 0.00062},
	// CONUS translation-only approximation; the rigorous path is a NADCON grid.
	"NAD27:NAD83": {DX: -8, DY: 160, DZ: 176},
}

// shiftDatum moves a geographic coordinate from one datum to another through
// the geocentric frame.
func shiftDatum(c Coordinate, fromDatum, toDatum string) (Coordinate, error) {
	if fromDatum == toDatum {
		return c, nil
	}

	if params, ok := datumShifts[fromDatum+":"+toDatum]; ok {
		return applyShift(c, params), nil
	}
	if params, ok := datumShifts[toDatum+":"+fromDatum]; ok {
		return applyShift(c, params.Inverted()), nil
	}

	// Two-hop composition through the pivot datum.
	if fromDatum != pivotDatum && toDatum != pivotDatum {
		mid, err := shiftDatum(c, fromDatum, pivotDatum)
		if err == nil {
			return shiftDatum(mid, pivotDatum, toDatum)
		}
	}

	return Coordinate{}, fmt.Errorf("%w: %s to %s", ErrNoDatumShift, fromDatum, toDatum)
}

func applyShift(c Coordinate, params Helmert) Coordinate {
	x, y, z := geographicToECEF(c.Lat, c.Lng, c.Elevation)
	x, y, z = params.apply(x, y, z)
	lat, lng, height := ecefToGeographic(x, y, z)

	out := c
	out.Lat = lat
	out.Lng = lng
	out.Elevation = height
	return out
}
