// Package cache provides the key-value stores backing the transform-result
// and geoid-height caches. Entries never expire; they are removed only by an
// explicit clear.
package cache

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrKeyNotFound signals a cache miss.
var ErrKeyNotFound = errors.New("cache: key not found")

// Key prefixes separate the two caches inside a shared store.
const (
	TransformPrefix = "geodesy:tf:"
	GeoidPrefix     = "geodesy:geoid:"
)

// Store is the storage contract shared by the in-memory and Redis backends.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Clear removes every key under the given prefix.
	Clear(ctx context.Context, prefix string) error
}

// TransformKey builds the transform-cache key. Latitude and longitude are
// quantized to 9 decimal places, elevation to 3, so equivalent requests
// collapse onto one entry.
func TransformKey(lat, lng, elevation float64, from, to string) string {
	return fmt.Sprintf("%s%.9f|%.9f|%.3f|%s|%s", TransformPrefix, lat, lng, elevation, from, to)
}

// GeoidKey builds the geoid-cache key at 4-decimal-degree granularity.
func GeoidKey(lat, lng float64) string {
	return fmt.Sprintf("%s%.4f|%.4f", GeoidPrefix, lat, lng)
}

// EncodePosition packs lat/lng/elevation into 24 bytes, little-endian.
func EncodePosition(lat, lng, elevation float64) []byte {
	buf := make([]byte, 24)
	binary.LittleEndian.PutUint64(buf[0:], math.Float64bits(lat))
	binary.LittleEndian.PutUint64(buf[8:], math.Float64bits(lng))
	binary.LittleEndian.PutUint64(buf[16:], math.Float64bits(elevation))
	return buf
}

// DecodePosition is the inverse of EncodePosition.
func DecodePosition(data []byte) (lat, lng, elevation float64, err error) {
	if len(data) != 24 {
		return 0, 0, 0, fmt.Errorf("invalid cached position: len=%d (want 24)", len(data))
	}
	lat = math.Float64frombits(binary.LittleEndian.Uint64(data[0:]))
	lng = math.Float64frombits(binary.LittleEndian.Uint64(data[8:]))
	elevation = math.Float64frombits(binary.LittleEndian.Uint64(data[16:]))
	return lat, lng, elevation, nil
}

// EncodeHeight packs a single geoid height into 8 bytes, little-endian.
func EncodeHeight(h float64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, math.Float64bits(h))
	return buf
}

// DecodeHeight is the inverse of EncodeHeight.
func DecodeHeight(data []byte) (float64, error) {
	if len(data) != 8 {
		return 0, fmt.Errorf("invalid cached height: len=%d (want 8)", len(data))
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(data)), nil
}
