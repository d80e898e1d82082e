package geodesy

import (
	"fmt"
)

// Centroid returns the arithmetic mean of a simple ring's vertices. The
// ring-closing duplicate vertex, when present, is excluded from the mean.
func (e *Engine) Centroid(ring []Coordinate) (Coordinate, error) {
	if len(ring) < 3 {
		return Coordinate{}, fmt.Errorf("centroid needs at least 3 points, got %d: %w", len(ring), ErrInsufficientPoints)
	}

	points := ring
	if ringClosed(points) && len(points) > 3 {
		points = points[:len(points)-1]
	}

	var sumLat, sumLng, sumElev float64
	hasElevation := false
	for _, p := range points {
		sumLat += p.lat
		sumLng += p.lng
		sumElev += p.elevation
		hasElevation = hasElevation || p.hasElevation
	}

	n := float64(len(points))
	c := New(sumLat/n, sumLng/n,
		WithHeightReference(points[0].heightRef), WithProjection(points[0].projection))
	if hasElevation {
		c.elevation = sumElev / n
		c.hasElevation = true
	}
	return c, nil
}

// CentroidWithHoles returns the area-weighted centroid of a ring with holes:
// each hole's area-weighted contribution is subtracted from the exterior
// ring's. When any hole has fewer than 3 points, or the net area is not
// positive, the plain exterior centroid is returned instead.
func (e *Engine) CentroidWithHoles(exterior []Coordinate, holes [][]Coordinate) (Coordinate, error) {
	outer, err := e.Centroid(exterior)
	if err != nil {
		return Coordinate{}, err
	}
	if len(holes) == 0 {
		return outer, nil
	}

	outerArea, err := e.Area(exterior, WithoutElevation())
	if err != nil {
		return Coordinate{}, err
	}

	weightedLat := outer.lat * outerArea.SquareMeters
	weightedLng := outer.lng * outerArea.SquareMeters
	netArea := outerArea.SquareMeters

	for _, hole := range holes {
		if len(hole) < 3 {
			return outer, nil
		}
		holeCentroid, err := e.Centroid(hole)
		if err != nil {
			return outer, nil
		}
		holeArea, err := e.Area(hole, WithoutElevation())
		if err != nil {
			return outer, nil
		}
		weightedLat -= holeCentroid.lat * holeArea.SquareMeters
		weightedLng -= holeCentroid.lng * holeArea.SquareMeters
		netArea -= holeArea.SquareMeters
	}

	if netArea <= 0 {
		return outer, nil
	}

	c := New(weightedLat/netArea, weightedLng/netArea,
		WithHeightReference(outer.heightRef), WithProjection(outer.projection))
	c.elevation = outer.elevation
	c.hasElevation = outer.hasElevation
	return c, nil
}

// PathCenter returns the point at half the path's cumulative length,
// interpolated within the segment that spans it. Paths of 0 points fail, a
// single point returns itself, and two points return their midpoint.
func (e *Engine) PathCenter(path []Coordinate) (Coordinate, error) {
	switch len(path) {
	case 0:
		return Coordinate{}, fmt.Errorf("path center of empty path: %w", ErrInsufficientPoints)
	case 1:
		return path[0].Clone(), nil
	case 2:
		return path[0].MidpointTo(path[1]), nil
	}

	var total float64
	for i := 1; i < len(path); i++ {
		total += path[i-1].HaversineDistanceTo(path[i])
	}
	if total == 0 {
		return path[0].Clone(), nil
	}

	half := total / 2
	var walked float64
	for i := 1; i < len(path); i++ {
		segment := path[i-1].HaversineDistanceTo(path[i])
		if walked+segment >= half && segment > 0 {
			t := (half - walked) / segment
			return interpolate(path[i-1], path[i], t), nil
		}
		walked += segment
	}

	// Accumulated rounding can leave the walk just short of the half-length
	// point; fall back to the arithmetic mean.
	return e.Centroid(path)
}

// PointInPolygon reports whether p lies inside the ring via ray casting. The
// ring is closed first when open.
func (e *Engine) PointInPolygon(p Coordinate, ring []Coordinate) bool {
	closed := closeRing(ring)
	if len(closed) < 4 {
		return false
	}

	inside := false
	for i := 1; i < len(closed); i++ {
		a, b := closed[i-1], closed[i]
		if (a.lat > p.lat) == (b.lat > p.lat) {
			continue
		}
		crossLng := a.lng + (p.lat-a.lat)/(b.lat-a.lat)*(b.lng-a.lng)
		if p.lng < crossLng {
			inside = !inside
		}
	}
	return inside
}
