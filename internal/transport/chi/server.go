package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	geodesy "github.com/atlasgrid/geodesy"
	logpkg "github.com/atlasgrid/geodesy/internal/logger"
	"github.com/atlasgrid/geodesy/internal/metrics"
	"github.com/atlasgrid/geodesy/internal/version"
)

// Error codes returned in JSON error responses.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeNotImplemented   = "not_implemented"
	codeOutOfRange       = "out_of_range"
	codeInternalError    = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Server exposes the geodesy engine over HTTP.
type Server struct {
	engine        *geodesy.Engine
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server around an engine.
func NewServer(engine *geodesy.Engine, logger *zap.Logger) *Server {
	s := &Server{
		engine: engine,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(geodesy.ErrNotImplemented, http.StatusNotImplemented, codeNotImplemented),
		sentinelHandler(geodesy.ErrUnknownProjection, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(geodesy.ErrUnknownTransformer, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(geodesy.ErrUnsupportedHeightReference, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(geodesy.ErrOutOfRange, http.StatusBadRequest, codeOutOfRange),
		sentinelHandler(geodesy.ErrInsufficientPoints, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(geodesy.ErrInvalidSegment, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(geodesy.ErrInvalidDimensions, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(geodesy.ErrMalformedCoordinate, http.StatusBadRequest, codeValidationFailed),
	}
	return s
}

// Routes mounts every endpoint on the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/projections", s.Projections)
		r.Get("/geoid-height", s.GeoidHeight)
		r.Post("/transform", s.Transform)
		r.Post("/height-reference", s.HeightReference)
		r.Post("/distance", s.Distance)
		r.Post("/bearing", s.Bearing)
		r.Post("/area", s.Area)
		r.Post("/perimeter", s.Perimeter)
		r.Post("/centroid", s.Centroid)
		r.Post("/destination", s.Destination)
		r.Post("/circle", s.Circle)
		r.Post("/rectangle", s.Rectangle)
		r.Post("/geojson", s.GeoJSON)
		r.Delete("/caches", s.ClearCaches)
	})
}

// coordinatePayload is the wire form of a coordinate. Elevation is optional
// so its presence survives the round trip.
type coordinatePayload struct {
	Lat             float64  `json:"lat"`
	Lng             float64  `json:"lng"`
	Elevation       *float64 `json:"elevation,omitempty"`
	HeightReference string   `json:"heightReference,omitempty"`
	Projection      string   `json:"projection,omitempty"`
}

func (p coordinatePayload) coordinate() geodesy.Coordinate {
	opts := []geodesy.CoordinateOption{}
	if p.Elevation != nil {
		opts = append(opts, geodesy.WithElevation(*p.Elevation))
	}
	if p.HeightReference != "" {
		opts = append(opts, geodesy.WithHeightReference(geodesy.HeightReference(p.HeightReference)))
	}
	if p.Projection != "" {
		opts = append(opts, geodesy.WithProjection(p.Projection))
	}
	return geodesy.New(p.Lat, p.Lng, opts...)
}

func payloadFrom(c geodesy.Coordinate) coordinatePayload {
	p := coordinatePayload{
		Lat:             c.Lat(),
		Lng:             c.Lng(),
		HeightReference: string(c.HeightRef()),
		Projection:      c.Projection(),
	}
	if c.HasElevation() {
		elev := c.Elevation()
		p.Elevation = &elev
	}
	return p
}

func payloadsFrom(points []geodesy.Coordinate) []coordinatePayload {
	out := make([]coordinatePayload, len(points))
	for i, c := range points {
		out[i] = payloadFrom(c)
	}
	return out
}

func coordinatesFrom(payloads []coordinatePayload) []geodesy.Coordinate {
	out := make([]geodesy.Coordinate, len(payloads))
	for i, p := range payloads {
		out[i] = p.coordinate()
	}
	return out
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.Version,
		"commit":  version.Commit,
	})
}

// Projections handles GET /v1/projections: per transformer type, the list of
// supported projection identifiers.
func (s *Server) Projections(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.SupportedProjections())
}

// GeoidHeight handles GET /v1/geoid-height?lat=..&lng=..
func (s *Server) GeoidHeight(w http.ResponseWriter, r *http.Request) {
	lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "lat must be a number")
		return
	}
	lng, err := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "lng must be a number")
		return
	}

	height, err := s.engine.GeoidHeight(r.Context(), lat, lng)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"height": height})
}

// Transform handles POST /v1/transform.
func (s *Server) Transform(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Coordinate coordinatePayload `json:"coordinate"`
		From       string            `json:"from"`
		To         string            `json:"to"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.From == "" || req.To == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "from and to projections are required")
		return
	}

	out, err := s.engine.Transform(r.Context(), req.Coordinate.coordinate(), req.From, req.To)
	if err != nil {
		metrics.TransformsTotal.WithLabelValues(req.From, req.To, "error").Inc()
		s.handleDomainError(w, r, err)
		return
	}
	metrics.TransformsTotal.WithLabelValues(req.From, req.To, "ok").Inc()
	writeJSON(w, http.StatusOK, payloadFrom(out))
}

// HeightReference handles POST /v1/height-reference.
func (s *Server) HeightReference(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Coordinate coordinatePayload `json:"coordinate"`
		Target     string            `json:"target"`
	}
	if !decode(w, r, &req) {
		return
	}

	out, err := s.engine.ToHeightReference(r.Context(), req.Coordinate.coordinate(), geodesy.HeightReference(req.Target))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payloadFrom(out))
}

// Distance handles POST /v1/distance.
func (s *Server) Distance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		A                coordinatePayload `json:"a"`
		B                coordinatePayload `json:"b"`
		ExcludeElevation bool              `json:"excludeElevation,omitempty"`
	}
	if !decode(w, r, &req) {
		return
	}

	var opts []geodesy.MeasureOption
	if req.ExcludeElevation {
		opts = append(opts, geodesy.WithoutElevation())
	}
	meters, err := s.engine.Distance(r.Context(), req.A.coordinate(), req.B.coordinate(), opts...)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"meters": meters})
}

// Bearing handles POST /v1/bearing.
func (s *Server) Bearing(w http.ResponseWriter, r *http.Request) {
	var req struct {
		A coordinatePayload `json:"a"`
		B coordinatePayload `json:"b"`
	}
	if !decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{
		"degrees": s.engine.Bearing(req.A.coordinate(), req.B.coordinate()),
	})
}

// Area handles POST /v1/area.
func (s *Server) Area(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Points           []coordinatePayload `json:"points"`
		ExcludeElevation bool                `json:"excludeElevation,omitempty"`
	}
	if !decode(w, r, &req) {
		return
	}

	var opts []geodesy.MeasureOption
	if req.ExcludeElevation {
		opts = append(opts, geodesy.WithoutElevation())
	}
	result, err := s.engine.Area(coordinatesFrom(req.Points), opts...)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"squareMeters": result.SquareMeters,
		"approximate":  result.Approximate,
	})
}

// Perimeter handles POST /v1/perimeter.
func (s *Server) Perimeter(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Points           []coordinatePayload `json:"points"`
		ExcludeElevation bool                `json:"excludeElevation,omitempty"`
	}
	if !decode(w, r, &req) {
		return
	}

	var opts []geodesy.MeasureOption
	if req.ExcludeElevation {
		opts = append(opts, geodesy.WithoutElevation())
	}
	writeJSON(w, http.StatusOK, map[string]float64{
		"meters": s.engine.Perimeter(coordinatesFrom(req.Points), opts...),
	})
}

// Centroid handles POST /v1/centroid, with optional holes.
func (s *Server) Centroid(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Ring  []coordinatePayload   `json:"ring"`
		Holes [][]coordinatePayload `json:"holes,omitempty"`
	}
	if !decode(w, r, &req) {
		return
	}

	ring := coordinatesFrom(req.Ring)
	var (
		out geodesy.Coordinate
		err error
	)
	if len(req.Holes) > 0 {
		holes := make([][]geodesy.Coordinate, len(req.Holes))
		for i, hole := range req.Holes {
			holes[i] = coordinatesFrom(hole)
		}
		out, err = s.engine.CentroidWithHoles(ring, holes)
	} else {
		out, err = s.engine.Centroid(ring)
	}
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payloadFrom(out))
}

// Destination handles POST /v1/destination.
func (s *Server) Destination(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Start   coordinatePayload `json:"start"`
		Meters  float64           `json:"meters"`
		Bearing float64           `json:"bearing"`
	}
	if !decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, payloadFrom(
		s.engine.Destination(req.Start.coordinate(), req.Meters, req.Bearing),
	))
}

// Circle handles POST /v1/circle.
func (s *Server) Circle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Center   coordinatePayload `json:"center"`
		Radius   float64           `json:"radius"`
		Segments int               `json:"segments"`
	}
	if !decode(w, r, &req) {
		return
	}

	ring, err := s.engine.Circle(req.Center.coordinate(), req.Radius, req.Segments)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"points": payloadsFrom(ring)})
}

// Rectangle handles POST /v1/rectangle.
func (s *Server) Rectangle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Center   coordinatePayload `json:"center"`
		Width    float64           `json:"width"`
		Height   float64           `json:"height"`
		Rotation float64           `json:"rotation,omitempty"`
	}
	if !decode(w, r, &req) {
		return
	}

	ring, err := s.engine.Rectangle(req.Center.coordinate(), req.Width, req.Height, req.Rotation)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"points": payloadsFrom(ring)})
}

// GeoJSON handles POST /v1/geojson: the coordinate as a WGS84 GeoJSON Point.
func (s *Server) GeoJSON(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Coordinate coordinatePayload `json:"coordinate"`
	}
	if !decode(w, r, &req) {
		return
	}

	encoded, err := s.engine.GeoJSON(r.Context(), req.Coordinate.coordinate())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(encoded)
}

// ClearCaches handles DELETE /v1/caches.
func (s *Server) ClearCaches(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.ClearCaches(r.Context()); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// safeDomainMessage maps an error to a message safe to expose to clients.
func safeDomainMessage(err error) string {
	sentinels := []error{
		geodesy.ErrNotImplemented,
		geodesy.ErrUnknownProjection,
		geodesy.ErrUnknownTransformer,
		geodesy.ErrUnsupportedHeightReference,
		geodesy.ErrOutOfRange,
		geodesy.ErrInsufficientPoints,
		geodesy.ErrInvalidSegment,
		geodesy.ErrMalformedCoordinate,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return err.Error()
		}
	}
	return "internal error"
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	logger := s.requestLogger(r)
	logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

// requestLogger prefers the request-scoped logger placed in the context by
// the wide-event middleware.
func (s *Server) requestLogger(r *http.Request) *zap.Logger {
	return logpkg.FromContextOr(r.Context(), s.logger)
}
