package geoid

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/atlasgrid/geodesy/internal/cache"
)

func TestHeight_OutOfRange(t *testing.T) {
	m := NewModel(Config{})
	ctx := context.Background()

	cases := []struct {
		name     string
		lat, lng float64
	}{
		{"lat too high", 90.01, 0},
		{"lat too low", -90.01, 0},
		{"lng too high", 0, 180.01},
		{"lng too low", 0, -180.01},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := m.Height(ctx, tc.lat, tc.lng)
			if !errors.Is(err, ErrOutOfRange) {
				t.Fatalf("expected ErrOutOfRange, got %v", err)
			}
		})
	}
}

func TestHeight_ConusPlausible(t *testing.T) {
	m := NewModel(Config{})
	ctx := context.Background()

	// Inside the CONUS box the anchors span roughly -45..-20 m.
	h, err := m.Height(ctx, 40.0, -75.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h > -15 || h < -50 {
		t.Errorf("CONUS separation %v outside plausible band", h)
	}
}

func TestHeight_Deterministic(t *testing.T) {
	m := NewModel(Config{})
	ctx := context.Background()

	a, err := m.Height(ctx, 40.0, -75.0)
	if err != nil {
		t.Fatal(err)
	}
	b, err := m.Height(ctx, 40.0, -75.0)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("repeated lookups differ: %v vs %v", a, b)
	}
}

func TestHeight_QuantizationSharesEntry(t *testing.T) {
	store := cache.NewMemoryStore()
	m := NewModel(Config{Store: store})
	ctx := context.Background()

	// Both positions round to the same 4-decimal cell.
	if _, err := m.Height(ctx, 40.00001, -75.00001); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Height(ctx, 40.00004, -75.00004); err != nil {
		t.Fatal(err)
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 cached entry, got %d", store.Len())
	}
}

func TestHeight_OutsideConusFallback(t *testing.T) {
	m := NewModel(Config{})
	ctx := context.Background()

	lat, lng := 48.8566, 2.3522 // Paris, outside the CONUS box
	h, err := m.Height(ctx, lat, lng)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := coarseSeparation(lat, lng)
	if math.Abs(h-want) > 1e-9 {
		t.Errorf("fallback separation = %v, want %v", h, want)
	}
}

func TestClearCache(t *testing.T) {
	store := cache.NewMemoryStore()
	m := NewModel(Config{Store: store})
	ctx := context.Background()

	if _, err := m.Height(ctx, 40.0, -75.0); err != nil {
		t.Fatal(err)
	}
	if store.Len() == 0 {
		t.Fatal("expected a cached entry")
	}
	if err := m.ClearCache(ctx); err != nil {
		t.Fatal(err)
	}
	if store.Len() != 0 {
		t.Errorf("expected empty cache, got %d entries", store.Len())
	}
}

func TestLoadGrid_ReportsNotImplemented(t *testing.T) {
	m := NewModel(Config{})
	err := m.LoadGrid("egm2008.grd")
	if !errors.Is(err, ErrGridNotImplemented) {
		t.Fatalf("expected ErrGridNotImplemented, got %v", err)
	}
}
