package geodesy

import (
	"fmt"
	"math"
	"strconv"

	geom "github.com/twpayne/go-geom"
)

// Alias tables for coordinate-like records. This is the only place the
// alternate key names appear; every operation goes through Normalize.
var (
	latAliases  = []string{"lat", "latitude", "y"}
	lngAliases  = []string{"lng", "longitude", "x"}
	elevAliases = []string{"elevation", "altitude", "alt", "z"}
	refAliases  = []string{"heightReference", "height_reference", "heightRef"}
	projAliases = []string{"projection", "proj"}
)

// Accessor-style coordinate sources (provider point types expose positions
// as methods rather than fields).
type latLngAccessor interface {
	Lat() float64
	Lng() float64
}

type latLonAccessor interface {
	Lat() float64
	Lon() float64
}

type latitudeLongitudeAccessor interface {
	Latitude() float64
	Longitude() float64
}

type elevationAccessor interface {
	Elevation() float64
}

type altitudeAccessor interface {
	Altitude() float64
}

// rawCoordinate is the intermediate form between a heterogeneous input and a
// Coordinate. Warnings collect every lenient coercion for the engine to log
// or, in strict mode, to fail on.
type rawCoordinate struct {
	lat, lng, elevation float64
	hasLat, hasLng      bool
	hasElevation        bool
	heightRef           HeightReference
	projection          string
	warnings            []string
}

// parseAny reads any supported coordinate-like value. It returns an error
// only for inputs it cannot interpret at all; recoverable problems surface
// as warnings on the raw form.
func parseAny(v any) (rawCoordinate, error) {
	switch src := v.(type) {
	case Coordinate:
		return rawFromCoordinate(src), nil
	case *Coordinate:
		if src == nil {
			return rawCoordinate{}, fmt.Errorf("nil coordinate: %w", ErrMalformedCoordinate)
		}
		return rawFromCoordinate(*src), nil
	case map[string]any:
		return parseMap(src), nil
	case map[string]float64:
		generic := make(map[string]any, len(src))
		for k, val := range src {
			generic[k] = val
		}
		return parseMap(generic), nil
	case geom.Coord:
		return parseOrdinates(src), nil
	case []float64:
		return parseOrdinates(src), nil
	case *geom.Point:
		if src == nil {
			return rawCoordinate{}, fmt.Errorf("nil point: %w", ErrMalformedCoordinate)
		}
		return parseOrdinates(src.FlatCoords()), nil
	case nil:
		return rawCoordinate{}, fmt.Errorf("nil input: %w", ErrMalformedCoordinate)
	default:
		if raw, ok := parseAccessors(v); ok {
			return raw, nil
		}
		return rawCoordinate{}, fmt.Errorf("unsupported input type %T: %w", v, ErrMalformedCoordinate)
	}
}

func rawFromCoordinate(c Coordinate) rawCoordinate {
	return rawCoordinate{
		lat: c.lat, lng: c.lng, elevation: c.elevation,
		hasLat: true, hasLng: true, hasElevation: c.hasElevation,
		heightRef: c.heightRef, projection: c.projection,
	}
}

// parseOrdinates reads GeoJSON-ordered ordinates: [lng, lat, elevation].
func parseOrdinates(ords []float64) rawCoordinate {
	raw := rawCoordinate{heightRef: HeightEllipsoidal, projection: DefaultProjection}
	if len(ords) >= 2 {
		raw.lng, raw.hasLng = ords[0], true
		raw.lat, raw.hasLat = ords[1], true
	} else {
		raw.warnings = append(raw.warnings, fmt.Sprintf("ordinate slice has %d values, want at least 2", len(ords)))
	}
	if len(ords) >= 3 {
		raw.elevation, raw.hasElevation = ords[2], true
	}
	return raw
}

func parseMap(m map[string]any) rawCoordinate {
	raw := rawCoordinate{heightRef: HeightEllipsoidal, projection: DefaultProjection}

	raw.lat, raw.hasLat = lookupNumber(m, latAliases, &raw)
	raw.lng, raw.hasLng = lookupNumber(m, lngAliases, &raw)
	raw.elevation, raw.hasElevation = lookupNumber(m, elevAliases, &raw)

	for _, key := range refAliases {
		if v, ok := m[key]; ok {
			ref, _ := v.(string)
			switch HeightReference(ref) {
			case HeightEllipsoidal, HeightOrthometric:
				raw.heightRef = HeightReference(ref)
			default:
				raw.warnings = append(raw.warnings,
					fmt.Sprintf("height reference %q is not recognized, using ellipsoidal", ref))
			}
			break
		}
	}
	for _, key := range projAliases {
		if v, ok := m[key]; ok {
			if p, isStr := v.(string); isStr && p != "" {
				raw.projection = p
			}
			break
		}
	}

	if !raw.hasLat {
		raw.warnings = append(raw.warnings, "latitude missing or invalid, using 0")
	}
	if !raw.hasLng {
		raw.warnings = append(raw.warnings, "longitude missing or invalid, using 0")
	}
	return raw
}

func lookupNumber(m map[string]any, keys []string, raw *rawCoordinate) (float64, bool) {
	for _, key := range keys {
		v, ok := m[key]
		if !ok {
			continue
		}
		f, ok := toFloat(v)
		if !ok {
			raw.warnings = append(raw.warnings, fmt.Sprintf("value for %q is not numeric", key))
			continue
		}
		return f, true
	}
	return 0, false
}

// toFloat coerces the numeric shapes seen in interchange records, including
// string-typed numbers. NaN and infinities are rejected regardless of the
// source type.
func toFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseAccessors reads accessor-style sources. Provider point types may
// panic inside their accessors, so the calls are guarded; a panic degrades
// to "not a coordinate" instead of propagating.
func parseAccessors(v any) (raw rawCoordinate, ok bool) {
	defer func() {
		if recover() != nil {
			raw, ok = rawCoordinate{}, false
		}
	}()

	raw = rawCoordinate{heightRef: HeightEllipsoidal, projection: DefaultProjection}

	switch src := v.(type) {
	case latLngAccessor:
		raw.lat, raw.lng = src.Lat(), src.Lng()
	case latLonAccessor:
		raw.lat, raw.lng = src.Lat(), src.Lon()
	case latitudeLongitudeAccessor:
		raw.lat, raw.lng = src.Latitude(), src.Longitude()
	default:
		return rawCoordinate{}, false
	}
	raw.hasLat, raw.hasLng = true, true

	switch src := v.(type) {
	case elevationAccessor:
		raw.elevation, raw.hasElevation = src.Elevation(), true
	case altitudeAccessor:
		raw.elevation, raw.hasElevation = src.Altitude(), true
	}
	return raw, true
}

// coordinate materializes the raw form, applying the lenient clamping rules
// and collecting range warnings.
func (r *rawCoordinate) coordinate() Coordinate {
	if r.lat < -90 || r.lat > 90 {
		r.warnings = append(r.warnings, fmt.Sprintf("latitude %.6f out of range, clamping", r.lat))
	}
	if r.lng < -180 || r.lng > 180 {
		r.warnings = append(r.warnings, fmt.Sprintf("longitude %.6f out of range, clamping", r.lng))
	}

	opts := []CoordinateOption{
		WithHeightReference(r.heightRef),
		WithProjection(r.projection),
	}
	if r.hasElevation {
		opts = append(opts, WithElevation(r.elevation))
	}
	return New(r.lat, r.lng, opts...)
}
