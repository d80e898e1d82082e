package geodesy

import (
	"context"
	"fmt"

	geom "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// GeoJSON renders the coordinate as a GeoJSON Point. The output is always
// WGS84 with [lng, lat, elevation] ordering, reprojecting first when the
// coordinate carries a different projection.
func (e *Engine) GeoJSON(ctx context.Context, c Coordinate) ([]byte, error) {
	if c.Projection() != DefaultProjection {
		converted, err := e.ToProjection(ctx, c, DefaultProjection)
		if err != nil {
			return nil, fmt.Errorf("reproject for geojson: %w", err)
		}
		c = converted
	}

	point := geom.NewPointFlat(geom.XYZ, []float64{c.Lng(), c.Lat(), c.Elevation()})
	encoded, err := geojson.Marshal(point)
	if err != nil {
		return nil, fmt.Errorf("encode geojson point: %w", err)
	}
	return encoded, nil
}

// Point converts the coordinate to a go-geom XYZ point in its current
// projection, for callers composing larger geometries.
func (c Coordinate) Point() *geom.Point {
	return geom.NewPointFlat(geom.XYZ, []float64{c.lng, c.lat, c.elevation})
}
