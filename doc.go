// Package geodesy is a 3D geographic computation engine: an immutable
// Coordinate value type, a pluggable datum/projection transform pipeline
// with Helmert shifts through ECEF, a geoid height model, and an
// ellipsoidal geometry engine for distances, bearings, areas, and shape
// generation.
//
// # Coordinates and geometry
//
//	engine, _ := geodesy.NewEngine()
//	a := geodesy.New(40.0, -75.0, geodesy.WithElevation(100))
//	b := geodesy.New(40.1, -75.1)
//	meters, _ := engine.Distance(ctx, a, b)
//	bearing := engine.Bearing(a, b)
//	ring, _ := engine.Circle(a, 1000, 32)
//	area, _ := engine.Area(ring)
//
// # Datum transforms and heights
//
//	nad27, _ := engine.Transform(ctx, a, "WGS84", "NAD27")
//	ortho, _ := engine.ToHeightReference(ctx, a, geodesy.HeightOrthometric)
//	sep, _ := engine.GeoidHeight(ctx, 40.0, -75.0)
//
// Transform and geoid results are cached. The default cache is an in-memory
// store; deployments sharing caches across instances plug in the Redis store
// via WithCacheStore. Mixed inputs (alias-keyed maps, GeoJSON-ordered
// slices, go-geom points, accessor types) normalize through Engine.Normalize
// before any geometry runs.
package geodesy
