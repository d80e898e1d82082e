package geodesy

import (
	"fmt"
	"math"
)

// SegmentPoint is the result of projecting a point onto a path segment.
type SegmentPoint struct {
	// Point is the nearest position on the segment.
	Point Coordinate
	// Distance is the meters between the query point and Point.
	Distance float64
	// Fraction is the position of Point along the segment in [0, 1].
	Fraction float64
}

// Destination returns the point reached by travelling distanceMeters from
// start along the initial bearing, using the forward great-circle formula.
// Elevation, height reference, and projection carry over from start.
func (e *Engine) Destination(start Coordinate, distanceMeters, bearingDeg float64) Coordinate {
	lat1 := start.lat * degToRad
	lng1 := start.lng * degToRad
	theta := bearingDeg * degToRad
	delta := distanceMeters / EarthRadiusMeters

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(delta) +
		math.Cos(lat1)*math.Sin(delta)*math.Cos(theta))
	lng2 := lng1 + math.Atan2(
		math.Sin(theta)*math.Sin(delta)*math.Cos(lat1),
		math.Cos(delta)-math.Sin(lat1)*math.Sin(lat2),
	)

	dest := New(lat2/degToRad, wrapLongitude(lng2/degToRad),
		WithHeightReference(start.heightRef), WithProjection(start.projection))
	dest.elevation = start.elevation
	dest.hasElevation = start.hasElevation
	return dest
}

// Perimeter sums consecutive pairwise distances along the path. Rings of 3+
// points that do not repeat their first point are closed automatically.
// Elevation contributes unless excluded via WithoutElevation.
func (e *Engine) Perimeter(points []Coordinate, opts ...MeasureOption) float64 {
	mc := newMeasureConfig(opts)
	if len(points) < 2 {
		return 0
	}

	ring := closeRing(points)
	var total float64
	for i := 1; i < len(ring); i++ {
		total += pairDistance(ring[i-1], ring[i], mc)
	}
	return total
}

// NearestPointOnSegment projects p onto the segment from a to b, clamped to
// the segment's endpoints. The projection runs in a local equirectangular
// plane, accurate for the segment lengths typical of site geometry.
func (e *Engine) NearestPointOnSegment(p, a, b Coordinate) SegmentPoint {
	// Scale longitude by cos(mid latitude) so east-west and north-south
	// degrees carry comparable lengths in the local plane.
	midLat := (a.lat + b.lat) / 2 * degToRad
	scale := math.Cos(midLat)

	ax, ay := a.lng*scale, a.lat
	bx, by := b.lng*scale, b.lat
	px, py := p.lng*scale, p.lat

	dx, dy := bx-ax, by-ay
	lengthSq := dx*dx + dy*dy

	var fraction float64
	if lengthSq > 0 {
		fraction = ((px-ax)*dx + (py-ay)*dy) / lengthSq
		fraction = math.Max(0, math.Min(1, fraction))
	}

	nearest := interpolate(a, b, fraction)
	return SegmentPoint{
		Point:    nearest,
		Distance: p.DistanceTo(nearest),
		Fraction: fraction,
	}
}

// PerpendicularOffset interpolates a point at a fractional position along
// the indexed path segment and projects it sideways by offsetMeters,
// perpendicular to the segment bearing. Negative offsets project to the left
// of the direction of travel, positive to the right.
func (e *Engine) PerpendicularOffset(path []Coordinate, segmentIndex int, fraction, offsetMeters float64) (Coordinate, error) {
	if len(path) < 2 {
		return Coordinate{}, fmt.Errorf("perpendicular offset needs a segment, got %d points: %w", len(path), ErrInsufficientPoints)
	}
	if segmentIndex < 0 || segmentIndex >= len(path)-1 {
		return Coordinate{}, fmt.Errorf("segment %d of %d: %w", segmentIndex, len(path)-1, ErrInvalidSegment)
	}

	a, b := path[segmentIndex], path[segmentIndex+1]
	fraction = math.Max(0, math.Min(1, fraction))
	base := interpolate(a, b, fraction)

	bearing := a.BearingTo(b) + 90
	if offsetMeters < 0 {
		bearing -= 180
		offsetMeters = -offsetMeters
	}
	return e.Destination(base, offsetMeters, normalizeBearing(bearing)), nil
}

// OffsetLine shifts every vertex of the path sideways by offsetMeters,
// perpendicular to its segment. Interior vertices offset along the bearing
// of the incoming segment. When closed is set the result repeats its first
// point.
func (e *Engine) OffsetLine(path []Coordinate, offsetMeters float64, closed bool) ([]Coordinate, error) {
	if len(path) < 2 {
		return nil, fmt.Errorf("offset line needs at least 2 points, got %d: %w", len(path), ErrInsufficientPoints)
	}

	out := make([]Coordinate, 0, len(path)+1)
	for i, p := range path {
		var bearing float64
		if i == 0 {
			bearing = path[0].BearingTo(path[1])
		} else {
			bearing = path[i-1].BearingTo(path[i])
		}
		side := bearing + 90
		dist := offsetMeters
		if dist < 0 {
			side -= 180
			dist = -dist
		}
		out = append(out, e.Destination(p, dist, normalizeBearing(side)))
	}
	if closed && len(out) > 0 {
		out = append(out, out[0])
	}
	return out, nil
}

// ElevationGainLoss accumulates positive deltas as gain and negative deltas
// as positive loss along the path. Pairs where either point lacks elevation
// data are skipped.
func (e *Engine) ElevationGainLoss(path []Coordinate) (gain, loss float64) {
	for i := 1; i < len(path); i++ {
		if !path[i-1].hasElevation || !path[i].hasElevation {
			continue
		}
		delta := path[i].elevation - path[i-1].elevation
		if delta > 0 {
			gain += delta
		} else {
			loss -= delta
		}
	}
	return gain, loss
}

// pairDistance measures one segment under the measurement options.
func pairDistance(a, b Coordinate, mc measureConfig) float64 {
	if mc.includeElevation {
		return a.DistanceTo(b)
	}
	return a.HaversineDistanceTo(b)
}

// interpolate returns the point at fraction t between a and b, linear in the
// geographic plane with elevation interpolated alongside.
func interpolate(a, b Coordinate, t float64) Coordinate {
	p := New(
		a.lat+(b.lat-a.lat)*t,
		a.lng+(b.lng-a.lng)*t,
		WithHeightReference(a.heightRef), WithProjection(a.projection),
	)
	if a.hasElevation && b.hasElevation {
		p.elevation = a.elevation + (b.elevation-a.elevation)*t
		p.hasElevation = true
	} else if a.hasElevation {
		p.elevation = a.elevation
		p.hasElevation = true
	} else if b.hasElevation {
		p.elevation = b.elevation
		p.hasElevation = true
	}
	return p
}

// ringClosed reports whether the ring repeats its first point.
func ringClosed(points []Coordinate) bool {
	if len(points) < 2 {
		return false
	}
	first, last := points[0], points[len(points)-1]
	return first.lat == last.lat && first.lng == last.lng
}

// closeRing returns the points with the first point appended when a ring of
// 3+ points is open. Shorter paths pass through unchanged.
func closeRing(points []Coordinate) []Coordinate {
	if len(points) < 3 || ringClosed(points) {
		return points
	}
	closed := make([]Coordinate, len(points)+1)
	copy(closed, points)
	closed[len(points)] = points[0]
	return closed
}
