package geodesy

import (
	"fmt"
	"math"
)

// AreaResult carries a polygon area and whether the value is a documented
// approximation (self-intersecting rings fall back to the spherical fan
// without triangulation).
type AreaResult struct {
	SquareMeters float64
	Approximate  bool
}

// Area returns the polygon area in square meters. Open rings are closed
// first. Non-intersecting rings use the planar 3D method when elevation is
// included and the spherical angular-excess method otherwise;
// self-intersecting rings always use the spherical method and are flagged
// approximate.
func (e *Engine) Area(points []Coordinate, opts ...MeasureOption) (AreaResult, error) {
	mc := newMeasureConfig(opts)
	if len(points) < 3 {
		return AreaResult{}, fmt.Errorf("area needs at least 3 points, got %d: %w", len(points), ErrInsufficientPoints)
	}

	ring := closeRing(points)
	if e.SelfIntersects(ring) {
		return AreaResult{SquareMeters: sphericalArea(ring), Approximate: true}, nil
	}
	if mc.includeElevation {
		return AreaResult{SquareMeters: planarArea(ring)}, nil
	}
	return AreaResult{SquareMeters: sphericalArea(ring)}, nil
}

// SelfIntersects reports whether any two non-adjacent segments of the closed
// ring cross.
func (e *Engine) SelfIntersects(points []Coordinate) bool {
	ring := closeRing(points)
	n := len(ring) - 1 // segment count
	if n < 4 {
		return false
	}
	for i := 0; i < n; i++ {
		for j := i + 2; j < n; j++ {
			// The last segment shares the ring-closing vertex with the first.
			if i == 0 && j == n-1 {
				continue
			}
			if segmentsCross(ring[i], ring[i+1], ring[j], ring[j+1]) {
				return true
			}
		}
	}
	return false
}

// segmentsCross tests segments p1-p2 and p3-p4 via orientation signs, with
// the on-segment check for colinear endpoints.
func segmentsCross(p1, p2, p3, p4 Coordinate) bool {
	o1 := orientation(p1, p2, p3)
	o2 := orientation(p1, p2, p4)
	o3 := orientation(p3, p4, p1)
	o4 := orientation(p3, p4, p2)

	if o1 != o2 && o3 != o4 {
		return true
	}

	if o1 == 0 && onSegment(p1, p3, p2) {
		return true
	}
	if o2 == 0 && onSegment(p1, p4, p2) {
		return true
	}
	if o3 == 0 && onSegment(p3, p1, p4) {
		return true
	}
	if o4 == 0 && onSegment(p3, p2, p4) {
		return true
	}
	return false
}

// orientation returns the turn direction of the triple (a, b, c): 0 for
// colinear, 1 clockwise, 2 counterclockwise.
func orientation(a, b, c Coordinate) int {
	cross := (b.lng-a.lng)*(c.lat-a.lat) - (b.lat-a.lat)*(c.lng-a.lng)
	switch {
	case math.Abs(cross) < 1e-12:
		return 0
	case cross < 0:
		return 1
	default:
		return 2
	}
}

// onSegment reports whether colinear point q lies within the bounding box of
// segment a-b.
func onSegment(a, q, b Coordinate) bool {
	return q.lng <= math.Max(a.lng, b.lng) && q.lng >= math.Min(a.lng, b.lng) &&
		q.lat <= math.Max(a.lat, b.lat) && q.lat >= math.Min(a.lat, b.lat)
}

// sphericalArea sums Girard angular-excess triangle areas fanned from the
// first vertex of the closed ring.
func sphericalArea(ring []Coordinate) float64 {
	var total float64
	for i := 1; i < len(ring)-1; i++ {
		total += sphericalTriangleArea(ring[0], ring[i], ring[i+1])
	}
	return total
}

// sphericalTriangleArea is the Girard angular excess times R^2, computed via
// L'Huilier's theorem from the semiperimeter. Recovering the interior angles
// directly (law of cosines) cancels catastrophically when the sides are tiny
// fractions of the radius, so survey-scale triangles would drown in rounding
// noise. Degenerate triangles contribute zero.
func sphericalTriangleArea(p1, p2, p3 Coordinate) float64 {
	a := p2.HaversineDistanceTo(p3) / EarthRadiusMeters
	b := p1.HaversineDistanceTo(p3) / EarthRadiusMeters
	c := p1.HaversineDistanceTo(p2) / EarthRadiusMeters
	if a < 1e-12 || b < 1e-12 || c < 1e-12 {
		return 0
	}

	s := (a + b + c) / 2
	t := math.Tan(s/2) * math.Tan((s-a)/2) * math.Tan((s-b)/2) * math.Tan((s-c)/2)
	// Rounding can push the product slightly negative for near-degenerate
	// triangles.
	if t <= 0 {
		return 0
	}
	excess := 4 * math.Atan(math.Sqrt(t))
	return excess * EarthRadiusMeters * EarthRadiusMeters
}

// planarArea projects the ring's vertices into Cartesian space at their true
// radii, flattens them onto the best-fit plane of the first non-degenerate
// triangle, and sums fan triangle areas from the first projected vertex.
func planarArea(ring []Coordinate) float64 {
	points := make([]vec3, len(ring))
	for i, c := range ring {
		points[i] = cartesian(c)
	}

	normal, ok := planeNormal(points)
	if !ok {
		return 0
	}

	flat := make([]vec3, len(points))
	for i, p := range points {
		d := dot(sub(p, points[0]), normal)
		flat[i] = sub(p, scaleVec(normal, d))
	}

	var total float64
	for i := 1; i < len(flat)-1; i++ {
		total += norm(crossVec(sub(flat[i], flat[0]), sub(flat[i+1], flat[0]))) / 2
	}
	return total
}

type vec3 struct{ x, y, z float64 }

// cartesian converts a coordinate to Earth-centered Cartesian on a sphere of
// radius EarthRadiusMeters plus elevation.
func cartesian(c Coordinate) vec3 {
	r := EarthRadiusMeters + c.elevation
	lat := c.lat * degToRad
	lng := c.lng * degToRad
	return vec3{
		x: r * math.Cos(lat) * math.Cos(lng),
		y: r * math.Cos(lat) * math.Sin(lng),
		z: r * math.Sin(lat),
	}
}

// planeNormal finds the unit normal of the first non-degenerate triangle
// fanned from points[0].
func planeNormal(points []vec3) (vec3, bool) {
	for i := 1; i < len(points)-1; i++ {
		n := crossVec(sub(points[i], points[0]), sub(points[i+1], points[0]))
		if length := norm(n); length > 1e-9 {
			return scaleVec(n, 1/length), true
		}
	}
	return vec3{}, false
}

func sub(a, b vec3) vec3 { return vec3{a.x - b.x, a.y - b.y, a.z - b.z} }

func dot(a, b vec3) float64 { return a.x*b.x + a.y*b.y + a.z*b.z }

func crossVec(a, b vec3) vec3 {
	return vec3{
		x: a.y*b.z - a.z*b.y,
		y: a.z*b.x - a.x*b.z,
		z: a.x*b.y - a.y*b.x,
	}
}

func scaleVec(a vec3, s float64) vec3 { return vec3{a.x * s, a.y * s, a.z * s} }

func norm(a vec3) float64 { return math.Sqrt(dot(a, a)) }
