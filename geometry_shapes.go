package geodesy

import (
	"fmt"
	"math"
)

// Arc returns points along a circular arc around center, sweeping from
// startBearing to endBearing in degrees over the given number of segments.
// The result has segments+1 points and is not closed.
func (e *Engine) Arc(center Coordinate, radiusMeters, startBearing, endBearing float64, segments int) ([]Coordinate, error) {
	if segments < 1 {
		return nil, fmt.Errorf("arc needs at least 1 segment, got %d: %w", segments, ErrInsufficientPoints)
	}

	sweep := endBearing - startBearing
	step := sweep / float64(segments)

	points := make([]Coordinate, 0, segments+1)
	for i := 0; i <= segments; i++ {
		bearing := normalizeBearing(startBearing + step*float64(i))
		points = append(points, e.Destination(center, radiusMeters, bearing))
	}
	return points, nil
}

// Circle returns a closed ring approximating a circle around center: one
// destination point per bearing increment plus the repeated first point, so
// the result has segments+1 points.
func (e *Engine) Circle(center Coordinate, radiusMeters float64, segments int) ([]Coordinate, error) {
	if segments < 3 {
		return nil, fmt.Errorf("circle needs at least 3 segments, got %d: %w", segments, ErrInsufficientPoints)
	}

	step := 360.0 / float64(segments)
	points := make([]Coordinate, 0, segments+1)
	for i := 0; i < segments; i++ {
		points = append(points, e.Destination(center, radiusMeters, step*float64(i)))
	}
	points = append(points, points[0])
	return points, nil
}

// Rectangle returns a closed 5-point ring centered on center with the given
// width (east-west) and height (north-south) in meters, rotated clockwise by
// rotationDeg. Corners sit at the half-diagonal distance along the four
// corner bearings.
func (e *Engine) Rectangle(center Coordinate, widthMeters, heightMeters, rotationDeg float64) ([]Coordinate, error) {
	if widthMeters <= 0 || heightMeters <= 0 {
		return nil, fmt.Errorf("rectangle %gx%g m: %w", widthMeters, heightMeters, ErrInvalidDimensions)
	}

	halfW := widthMeters / 2
	halfH := heightMeters / 2
	halfDiag := math.Hypot(halfW, halfH)
	cornerAngle := math.Atan2(halfW, halfH) / degToRad

	bearings := []float64{
		cornerAngle,       // northeast
		180 - cornerAngle, // southeast
		180 + cornerAngle, // southwest
		360 - cornerAngle, // northwest
	}

	points := make([]Coordinate, 0, 5)
	for _, b := range bearings {
		points = append(points, e.Destination(center, halfDiag, normalizeBearing(b+rotationDeg)))
	}
	points = append(points, points[0])
	return points, nil
}
