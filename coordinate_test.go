package geodesy

import (
	"math"
	"testing"
)

func almost(t *testing.T, got, want, tolerance float64, msg string) {
	t.Helper()
	if math.Abs(got-want) > tolerance {
		t.Errorf("%s: got %v, want %v (tolerance %v)", msg, got, want, tolerance)
	}
}

func TestNew_ClampsOutOfRange(t *testing.T) {
	c := New(95, -200)
	if c.Lat() != 90 {
		t.Errorf("latitude 95 should clamp to 90, got %v", c.Lat())
	}
	if c.Lng() != -180 {
		t.Errorf("longitude -200 should clamp to -180, got %v", c.Lng())
	}
}

func TestNew_SanitizesNonFinite(t *testing.T) {
	c := New(math.NaN(), math.Inf(1), WithElevation(math.NaN()))
	if c.Lat() != 0 || c.Lng() != 0 {
		t.Errorf("non-finite lat/lng should become 0, got (%v, %v)", c.Lat(), c.Lng())
	}
	if c.Elevation() != 0 {
		t.Errorf("non-finite elevation should become 0, got %v", c.Elevation())
	}
}

func TestNew_Defaults(t *testing.T) {
	c := New(40, -75)
	if c.HeightRef() != HeightEllipsoidal {
		t.Errorf("default height reference should be ellipsoidal, got %q", c.HeightRef())
	}
	if c.Projection() != DefaultProjection {
		t.Errorf("default projection should be %q, got %q", DefaultProjection, c.Projection())
	}
	if c.HasElevation() {
		t.Error("coordinate without elevation option should report no elevation")
	}
}

func TestWithHeightReference_UnknownResets(t *testing.T) {
	c := New(40, -75, WithHeightReference("barometric"))
	if c.HeightRef() != HeightEllipsoidal {
		t.Errorf("unknown reference should reset to ellipsoidal, got %q", c.HeightRef())
	}
}

func TestSetElevation(t *testing.T) {
	c := New(40, -75)
	if err := c.SetElevation(123.4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Elevation() != 123.4 || !c.HasElevation() {
		t.Errorf("elevation not set: %v (has=%v)", c.Elevation(), c.HasElevation())
	}

	if err := c.SetElevation(math.NaN()); err == nil {
		t.Fatal("expected error for NaN elevation")
	}
	if err := c.SetElevation(math.Inf(-1)); err == nil {
		t.Fatal("expected error for infinite elevation")
	}
	if c.Elevation() != 123.4 {
		t.Errorf("failed SetElevation must not change the value, got %v", c.Elevation())
	}
}

func TestDistanceTo_SelfIsZero(t *testing.T) {
	c := New(40.0, -75.0, WithElevation(100))
	if d := c.DistanceTo(c); d != 0 {
		t.Errorf("distance to self = %v, want 0", d)
	}
}

func TestDistanceTo_Symmetric(t *testing.T) {
	a := New(40.0, -75.0, WithElevation(100))
	b := New(41.5, -73.2, WithElevation(350))
	almost(t, a.DistanceTo(b), b.DistanceTo(a), 1e-6, "symmetry")
}

func TestDistanceTo_IncludesElevation(t *testing.T) {
	a := New(40.0, -75.0, WithElevation(0))
	b := New(40.0, -75.0, WithElevation(300))
	almost(t, a.DistanceTo(b), 300, 1e-9, "vertical-only distance")
	almost(t, a.HaversineDistanceTo(b), 0, 1e-9, "horizontal distance")
}

func TestHaversineDistance_KnownPair(t *testing.T) {
	// Philadelphia city hall to the Empire State Building, roughly 130 km.
	a := New(39.9526, -75.1652)
	b := New(40.7484, -73.9857)
	d := a.HaversineDistanceTo(b)
	if d < 125_000 || d > 135_000 {
		t.Errorf("distance %v outside expected band", d)
	}
}

func TestBearingTo_Range(t *testing.T) {
	pairs := []struct{ a, b Coordinate }{
		{New(0, 0), New(10, 0)},
		{New(0, 0), New(-10, 0)},
		{New(0, 0), New(0, 10)},
		{New(0, 0), New(0, -10)},
		{New(40, -75), New(41.5, -73.2)},
		{New(-33, 151), New(51, 0)},
	}
	for _, p := range pairs {
		b := p.a.BearingTo(p.b)
		if b < 0 || b >= 360 {
			t.Errorf("bearing %v outside [0, 360)", b)
		}
	}
}

func TestBearingTo_CardinalDirections(t *testing.T) {
	origin := New(0, 0)
	almost(t, origin.BearingTo(New(10, 0)), 0, 1e-9, "north")
	almost(t, origin.BearingTo(New(0, 10)), 90, 1e-9, "east")
	almost(t, origin.BearingTo(New(-10, 0)), 180, 1e-9, "south")
	almost(t, origin.BearingTo(New(0, -10)), 270, 1e-9, "west")
}

func TestMidpointTo(t *testing.T) {
	a := New(0, 0, WithElevation(100))
	b := New(0, 10, WithElevation(300))

	mid := a.MidpointTo(b)
	almost(t, mid.Lat(), 0, 1e-9, "latitude")
	almost(t, mid.Lng(), 5, 1e-9, "longitude")
	almost(t, mid.Elevation(), 200, 1e-9, "elevation")
	if !mid.HasElevation() {
		t.Error("midpoint of elevated points should carry elevation")
	}
}

func TestClone_Independent(t *testing.T) {
	a := New(40, -75, WithElevation(10))
	b := a.Clone()
	if err := b.SetElevation(99); err != nil {
		t.Fatal(err)
	}
	if a.Elevation() != 10 {
		t.Errorf("mutating the clone changed the original: %v", a.Elevation())
	}
}

func TestRecord(t *testing.T) {
	c := New(40, -75, WithElevation(10), WithHeightReference(HeightOrthometric), WithProjection("NAD83"))
	rec := c.Record()
	if rec["lat"] != 40.0 || rec["lng"] != -75.0 || rec["elevation"] != 10.0 {
		t.Errorf("unexpected record: %v", rec)
	}
	if rec["heightReference"] != "orthometric" || rec["projection"] != "NAD83" {
		t.Errorf("unexpected record metadata: %v", rec)
	}
}
