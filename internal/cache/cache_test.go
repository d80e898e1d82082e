package cache

import (
	"context"
	"errors"
	"testing"
)

func TestTransformKey_Quantization(t *testing.T) {
	a := TransformKey(40.1234567891, -75.9876543211, 100.0004, "WGS84", "NAD83")
	b := TransformKey(40.1234567894, -75.9876543214, 100.0004, "WGS84", "NAD83")
	if a != b {
		t.Errorf("keys differ below quantization granularity:\n%s\n%s", a, b)
	}

	c := TransformKey(40.1234567891, -75.9876543211, 100.0004, "WGS84", "NAD27")
	if a == c {
		t.Error("keys for different target datums must differ")
	}
}

func TestGeoidKey(t *testing.T) {
	got := GeoidKey(40.0, -75.0)
	want := "geodesy:geoid:40.0000|-75.0000"
	if got != want {
		t.Errorf("GeoidKey = %q, want %q", got, want)
	}
}

func TestPositionCodec(t *testing.T) {
	lat, lng, elev, err := DecodePosition(EncodePosition(40.5, -75.25, 123.456))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lat != 40.5 || lng != -75.25 || elev != 123.456 {
		t.Errorf("round trip lost precision: %v %v %v", lat, lng, elev)
	}
}

func TestDecodePosition_BadLength(t *testing.T) {
	if _, _, _, err := DecodePosition([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for short input")
	}
}

func TestHeightCodec(t *testing.T) {
	h, err := DecodeHeight(EncodeHeight(-33.125))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h != -33.125 {
		t.Errorf("round trip lost precision: %v", h)
	}

	if _, err := DecodeHeight([]byte{1}); err == nil {
		t.Fatal("expected error for short input")
	}
}

func TestMemoryStore_GetSetClear(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, err := s.Get(ctx, "absent"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}

	if err := s.Set(ctx, TransformPrefix+"a", []byte("1")); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, GeoidPrefix+"b", []byte("2")); err != nil {
		t.Fatal(err)
	}

	data, err := s.Get(ctx, TransformPrefix+"a")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "1" {
		t.Errorf("expected 1, got %q", data)
	}

	if err := s.Clear(ctx, TransformPrefix); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, TransformPrefix+"a"); !errors.Is(err, ErrKeyNotFound) {
		t.Error("transform entry should be cleared")
	}
	if _, err := s.Get(ctx, GeoidPrefix+"b"); err != nil {
		t.Error("geoid entry should survive a transform-prefix clear")
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 remaining entry, got %d", s.Len())
	}
}
