package geodesy

import (
	"errors"
	"math"
	"testing"
)

// squareRing builds an open ring approximating a square of the given side
// length starting at its southwest corner.
func squareRing(e *Engine, side float64) []Coordinate {
	sw := New(40.0, -75.0)
	se := e.Destination(sw, side, 90)
	ne := e.Destination(se, side, 0)
	nw := e.Destination(ne, side, 270)
	return []Coordinate{sw, se, ne, nw}
}

func square1000m(e *Engine) []Coordinate { return squareRing(e, 1000) }

func TestDestination_RoundTripDistance(t *testing.T) {
	e := newTestEngine(t)
	start := New(40.0, -75.0)

	for _, bearing := range []float64{0, 45, 90, 135, 180, 225, 270, 315} {
		dest := e.Destination(start, 5000, bearing)
		d := start.HaversineDistanceTo(dest)
		almost(t, d, 5000, 1, "destination distance at bearing")
	}
}

func TestDestination_CarriesElevation(t *testing.T) {
	e := newTestEngine(t)
	start := New(40.0, -75.0, WithElevation(250))
	dest := e.Destination(start, 1000, 90)
	if !dest.HasElevation() || dest.Elevation() != 250 {
		t.Errorf("destination lost elevation: %v (has=%v)", dest.Elevation(), dest.HasElevation())
	}
}

func TestPerimeter_TriangleEqualsEdgeSum(t *testing.T) {
	e := newTestEngine(t)
	a := New(40.0, -75.0)
	b := New(40.01, -75.0)
	c := New(40.0, -74.99)

	want := a.DistanceTo(b) + b.DistanceTo(c) + c.DistanceTo(a)
	got := e.Perimeter([]Coordinate{a, b, c})
	almost(t, got, want, 1e-6, "auto-closed triangle perimeter")

	closed := e.Perimeter([]Coordinate{a, b, c, a})
	almost(t, closed, want, 1e-6, "explicitly closed triangle perimeter")
}

func TestPerimeter_ShortInputs(t *testing.T) {
	e := newTestEngine(t)
	if p := e.Perimeter(nil); p != 0 {
		t.Errorf("empty path perimeter = %v, want 0", p)
	}
	if p := e.Perimeter([]Coordinate{New(40, -75)}); p != 0 {
		t.Errorf("single point perimeter = %v, want 0", p)
	}

	// A two-point path is a segment, not a ring: no auto-close.
	a, b := New(40, -75), New(40.01, -75)
	almost(t, e.Perimeter([]Coordinate{a, b}), a.DistanceTo(b), 1e-9, "two-point path")
}

func TestArea_SquareKilometer(t *testing.T) {
	e := newTestEngine(t)
	result, err := e.Area(square1000m(e))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Approximate {
		t.Error("simple square should not be flagged approximate")
	}
	if math.Abs(result.SquareMeters-1_000_000) > 30_000 {
		t.Errorf("square area = %v, want about 1e6 within a few percent", result.SquareMeters)
	}
}

func TestArea_SphericalMatchesPlanarForFlatRing(t *testing.T) {
	e := newTestEngine(t)
	ring := square1000m(e)

	withElev, err := e.Area(ring)
	if err != nil {
		t.Fatal(err)
	}
	withoutElev, err := e.Area(ring, WithoutElevation())
	if err != nil {
		t.Fatal(err)
	}
	// Both methods approximate the same flat square.
	if math.Abs(withElev.SquareMeters-withoutElev.SquareMeters) > 0.05*withoutElev.SquareMeters {
		t.Errorf("planar %v and spherical %v diverge beyond 5%%", withElev.SquareMeters, withoutElev.SquareMeters)
	}
}

func TestArea_SphericalStableAtSurveyScale(t *testing.T) {
	e := newTestEngine(t)

	// Small rings exercise the angular-excess computation where the sides
	// are tiny fractions of the radius; the result must stay within a few
	// percent of side^2 instead of drowning in rounding noise.
	for _, side := range []float64{100, 1000, 10_000} {
		got, err := e.Area(squareRing(e, side), WithoutElevation())
		if err != nil {
			t.Fatalf("side %v: unexpected error: %v", side, err)
		}
		want := side * side
		if math.Abs(got.SquareMeters-want) > 0.03*want {
			t.Errorf("side %v m: spherical area = %v, want about %v", side, got.SquareMeters, want)
		}
	}
}

func TestArea_TooFewPoints(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Area([]Coordinate{New(40, -75), New(41, -75)})
	if !errors.Is(err, ErrInsufficientPoints) {
		t.Fatalf("expected ErrInsufficientPoints, got %v", err)
	}
}

func TestArea_BowtieIsApproximate(t *testing.T) {
	e := newTestEngine(t)
	// Crossing segments: (0,0)-(1,1) and (1,0)-(0,1) intersect.
	bowtie := []Coordinate{
		New(0, 0),
		New(1, 1),
		New(1, 0),
		New(0, 1),
	}
	if !e.SelfIntersects(bowtie) {
		t.Fatal("bowtie should self-intersect")
	}

	result, err := e.Area(bowtie)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Approximate {
		t.Error("self-intersecting ring must be flagged approximate")
	}
}

func TestSelfIntersects_SimpleRing(t *testing.T) {
	e := newTestEngine(t)
	if e.SelfIntersects(square1000m(e)) {
		t.Error("square should not self-intersect")
	}
}

func TestPointInPolygon(t *testing.T) {
	e := newTestEngine(t)
	ring := square1000m(e)

	centroid, err := e.Centroid(ring)
	if err != nil {
		t.Fatal(err)
	}
	if !e.PointInPolygon(centroid, ring) {
		t.Error("centroid of a convex ring should test inside")
	}
	if e.PointInPolygon(New(50.0, -60.0), ring) {
		t.Error("point far outside the bounding box should test outside")
	}
}

func TestCentroid(t *testing.T) {
	e := newTestEngine(t)
	ring := []Coordinate{
		New(0, 0, WithElevation(0)),
		New(0, 2, WithElevation(100)),
		New(2, 2, WithElevation(200)),
		New(2, 0, WithElevation(300)),
	}

	c, err := e.Centroid(ring)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	almost(t, c.Lat(), 1, 1e-9, "latitude")
	almost(t, c.Lng(), 1, 1e-9, "longitude")
	almost(t, c.Elevation(), 150, 1e-9, "elevation")
}

func TestCentroid_ExcludesClosingVertex(t *testing.T) {
	e := newTestEngine(t)
	open := []Coordinate{New(0, 0), New(0, 2), New(2, 2), New(2, 0)}
	closed := append(append([]Coordinate{}, open...), open[0])

	a, err := e.Centroid(open)
	if err != nil {
		t.Fatal(err)
	}
	b, err := e.Centroid(closed)
	if err != nil {
		t.Fatal(err)
	}
	almost(t, a.Lat(), b.Lat(), 1e-9, "latitude")
	almost(t, a.Lng(), b.Lng(), 1e-9, "longitude")
}

func TestCentroid_TooFewPoints(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Centroid([]Coordinate{New(0, 0), New(1, 1)})
	if !errors.Is(err, ErrInsufficientPoints) {
		t.Fatalf("expected ErrInsufficientPoints, got %v", err)
	}
}

func TestCentroidWithHoles(t *testing.T) {
	e := newTestEngine(t)
	exterior := []Coordinate{New(0, 0), New(0, 4), New(4, 4), New(4, 0)}
	// Hole in the upper-right quadrant pulls the centroid down-left.
	hole := []Coordinate{New(2, 2), New(2, 3.8), New(3.8, 3.8), New(3.8, 2)}

	plain, err := e.Centroid(exterior)
	if err != nil {
		t.Fatal(err)
	}
	weighted, err := e.CentroidWithHoles(exterior, [][]Coordinate{hole})
	if err != nil {
		t.Fatal(err)
	}
	if weighted.Lat() >= plain.Lat() || weighted.Lng() >= plain.Lng() {
		t.Errorf("hole should pull the centroid away: plain=%v weighted=%v", plain, weighted)
	}
}

func TestCentroidWithHoles_InvalidHoleFallsBack(t *testing.T) {
	e := newTestEngine(t)
	exterior := []Coordinate{New(0, 0), New(0, 4), New(4, 4), New(4, 0)}
	degenerate := [][]Coordinate{{New(1, 1), New(2, 2)}}

	plain, err := e.Centroid(exterior)
	if err != nil {
		t.Fatal(err)
	}
	got, err := e.CentroidWithHoles(exterior, degenerate)
	if err != nil {
		t.Fatal(err)
	}
	if got.Lat() != plain.Lat() || got.Lng() != plain.Lng() {
		t.Errorf("degenerate hole should fall back to the plain centroid, got %v", got)
	}
}

func TestPathCenter(t *testing.T) {
	e := newTestEngine(t)

	if _, err := e.PathCenter(nil); !errors.Is(err, ErrInsufficientPoints) {
		t.Fatalf("expected ErrInsufficientPoints, got %v", err)
	}

	single := New(40, -75)
	got, err := e.PathCenter([]Coordinate{single})
	if err != nil {
		t.Fatal(err)
	}
	if got.Lat() != 40 || got.Lng() != -75 {
		t.Errorf("single-point center = %v", got)
	}

	a, b := New(0, 0), New(0, 10)
	mid, err := e.PathCenter([]Coordinate{a, b})
	if err != nil {
		t.Fatal(err)
	}
	almost(t, mid.Lng(), 5, 1e-9, "two-point midpoint")

	// Uneven three-point path: the half-length point sits inside the longer leg.
	path := []Coordinate{New(0, 0), New(0, 1), New(0, 4)}
	center, err := e.PathCenter(path)
	if err != nil {
		t.Fatal(err)
	}
	almost(t, center.Lng(), 2, 1e-6, "half-length point")
}

func TestCircle(t *testing.T) {
	e := newTestEngine(t)
	center := New(40.0, -75.0)

	ring, err := e.Circle(center, 1000, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ring) != 9 {
		t.Fatalf("expected 9 points (closed ring), got %d", len(ring))
	}
	if ring[0] != ring[len(ring)-1] {
		t.Error("ring should repeat its first point")
	}
	for i, p := range ring[:len(ring)-1] {
		d := center.HaversineDistanceTo(p)
		if math.Abs(d-1000) > 5 {
			t.Errorf("point %d at distance %v, want 1000 within 0.5%%", i, d)
		}
	}
}

func TestCircle_TooFewSegments(t *testing.T) {
	e := newTestEngine(t)
	if _, err := e.Circle(New(40, -75), 1000, 2); !errors.Is(err, ErrInsufficientPoints) {
		t.Fatalf("expected ErrInsufficientPoints, got %v", err)
	}
}

func TestArc(t *testing.T) {
	e := newTestEngine(t)
	center := New(40.0, -75.0)

	points, err := e.Arc(center, 500, 0, 90, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 5 {
		t.Fatalf("expected 5 points, got %d", len(points))
	}
	for i, p := range points {
		d := center.HaversineDistanceTo(p)
		if math.Abs(d-500) > 2 {
			t.Errorf("point %d at distance %v, want 500", i, d)
		}
	}
	// End points sit due north and due east of the center.
	almost(t, center.BearingTo(points[0]), 0, 0.1, "start bearing")
	almost(t, center.BearingTo(points[4]), 90, 0.1, "end bearing")
}

func TestRectangle(t *testing.T) {
	e := newTestEngine(t)
	center := New(40.0, -75.0)

	ring, err := e.Rectangle(center, 400, 200, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ring) != 5 {
		t.Fatalf("expected 5 points, got %d", len(ring))
	}
	if ring[0] != ring[4] {
		t.Error("ring should repeat its first point")
	}

	halfDiag := math.Hypot(200, 100)
	for i, p := range ring[:4] {
		d := center.HaversineDistanceTo(p)
		if math.Abs(d-halfDiag) > 2 {
			t.Errorf("corner %d at distance %v, want %v", i, d, halfDiag)
		}
	}

	area, err := e.Area(ring, WithoutElevation())
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(area.SquareMeters-80_000) > 4_000 {
		t.Errorf("rectangle area = %v, want about 80000", area.SquareMeters)
	}
}

func TestRectangle_InvalidDimensions(t *testing.T) {
	e := newTestEngine(t)
	if _, err := e.Rectangle(New(40, -75), 0, 100, 0); !errors.Is(err, ErrInvalidDimensions) {
		t.Fatalf("expected ErrInvalidDimensions for zero width, got %v", err)
	}
	if _, err := e.Rectangle(New(40, -75), 100, -1, 0); !errors.Is(err, ErrInvalidDimensions) {
		t.Fatalf("expected ErrInvalidDimensions for negative height, got %v", err)
	}
}

func TestNearestPointOnSegment(t *testing.T) {
	e := newTestEngine(t)
	a := New(0, 0)
	b := New(0, 1)

	// Query point abeam the middle of the segment.
	mid := e.NearestPointOnSegment(New(0.5, 0.5), a, b)
	almost(t, mid.Fraction, 0.5, 1e-6, "fraction")
	almost(t, mid.Point.Lng(), 0.5, 1e-6, "nearest longitude")
	almost(t, mid.Point.Lat(), 0, 1e-6, "nearest latitude")

	// Query point beyond the end clamps to the endpoint.
	end := e.NearestPointOnSegment(New(0, 2), a, b)
	almost(t, end.Fraction, 1, 1e-9, "clamped fraction")
	almost(t, end.Point.Lng(), 1, 1e-9, "clamped longitude")
}

func TestPerpendicularOffset(t *testing.T) {
	e := newTestEngine(t)
	path := []Coordinate{New(0, 0), New(0, 1)}

	right, err := e.PerpendicularOffset(path, 0, 0.5, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The segment runs due east; a positive offset projects due south.
	if right.Lat() >= 0 {
		t.Errorf("positive offset should be south of the segment, got lat %v", right.Lat())
	}

	left, err := e.PerpendicularOffset(path, 0, 0.5, -1000)
	if err != nil {
		t.Fatal(err)
	}
	if left.Lat() <= 0 {
		t.Errorf("negative offset should be north of the segment, got lat %v", left.Lat())
	}

	base := interpolate(path[0], path[1], 0.5)
	almost(t, base.DistanceTo(right), 1000, 1, "offset distance")
}

func TestPerpendicularOffset_InvalidSegment(t *testing.T) {
	e := newTestEngine(t)
	path := []Coordinate{New(0, 0), New(0, 1)}

	if _, err := e.PerpendicularOffset(path, 1, 0.5, 100); !errors.Is(err, ErrInvalidSegment) {
		t.Fatalf("expected ErrInvalidSegment, got %v", err)
	}
	if _, err := e.PerpendicularOffset(path, -1, 0.5, 100); !errors.Is(err, ErrInvalidSegment) {
		t.Fatalf("expected ErrInvalidSegment, got %v", err)
	}
	if _, err := e.PerpendicularOffset([]Coordinate{New(0, 0)}, 0, 0.5, 100); !errors.Is(err, ErrInsufficientPoints) {
		t.Fatalf("expected ErrInsufficientPoints, got %v", err)
	}
}

func TestOffsetLine(t *testing.T) {
	e := newTestEngine(t)
	path := []Coordinate{New(0, 0), New(0, 1), New(0, 2)}

	out, err := e.OffsetLine(path, 1000, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 points, got %d", len(out))
	}
	for i, p := range out {
		if p.Lat() >= 0 {
			t.Errorf("point %d should be south of the eastbound path, got lat %v", i, p.Lat())
		}
	}

	closed, err := e.OffsetLine(path, 1000, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(closed) != 4 || closed[0] != closed[3] {
		t.Error("closed offset line should repeat its first point")
	}
}

func TestElevationGainLoss(t *testing.T) {
	e := newTestEngine(t)
	path := []Coordinate{
		New(0, 0, WithElevation(100)),
		New(0, 1, WithElevation(250)), // +150
		New(0, 2),                     // no elevation, pair skipped both ways
		New(0, 3, WithElevation(180)),
		New(0, 4, WithElevation(120)), // -60
	}

	gain, loss := e.ElevationGainLoss(path)
	almost(t, gain, 150, 1e-9, "gain")
	almost(t, loss, 60, 1e-9, "loss")
}
