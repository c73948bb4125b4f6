package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/disintegration/imaging"
	"github.com/go-chi/chi/v5"

	"github.com/boxart-tools/boxart/internal/box"
	"github.com/boxart-tools/boxart/internal/geometry"
	"github.com/boxart-tools/boxart/internal/mix"
	"github.com/boxart-tools/boxart/internal/spine"
)

// maxUploadBytes bounds multipart request bodies.
const maxUploadBytes = 32 << 20

// Server holds the shared state behind the HTTP API: the platform style
// registry and the mix layout are built once and reused across requests.
type Server struct {
	startTime time.Time
	version   string
	registry  *spine.Registry
	layout    mix.Layout
}

// NewServer creates a new server instance
func NewServer(version string) *Server {
	return &Server{
		startTime: time.Now(),
		version:   version,
		registry:  spine.NewRegistry(),
		layout:    mix.DefaultLayout(),
	}
}

// Routes registers the API handlers on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.GetHealth)
	r.Get("/platforms", s.GetPlatforms)
	r.Post("/box3d", s.CreateBox3D)
	r.Post("/mix", s.CreateMix)
}

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    int       `json:"uptime"`
	Version   string    `json:"version"`
}

// PlatformsResponse lists the platform codes with a registered spine style.
type PlatformsResponse struct {
	Platforms []string `json:"platforms"`
}

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// GetHealth implements the health check endpoint
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Uptime:    int(time.Since(s.startTime).Seconds()),
		Version:   s.version,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Error encoding health response: %v", err)
	}
}

// GetPlatforms implements the platform listing endpoint
func (s *Server) GetPlatforms(w http.ResponseWriter, r *http.Request) {
	response := PlatformsResponse{Platforms: s.registry.Codes()}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Error encoding platforms response: %v", err)
	}
}

// CreateBox3D implements the 3D box endpoint: multipart upload with a "cover"
// image part and optional form fields tuning the render.
func (s *Server) CreateBox3D(w http.ResponseWriter, r *http.Request) {
	requestID := generateRequestID()

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST",
			"Request body must be multipart/form-data", requestID)
		return
	}

	cover, found, err := readFormImage(r, "cover")
	if err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "ASSET_DECODE_ERROR",
			err.Error(), requestID)
		return
	}
	if !found {
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST",
			"Multipart field 'cover' is required", requestID)
		return
	}

	opts := box.DefaultOptions()
	opts.Title = r.FormValue("title")
	opts.Platform = r.FormValue("platform")
	if err := parseFloatField(r, "spine_ratio", &opts.SpineRatio); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST",
			err.Error(), requestID)
		return
	}
	if err := parseFloatField(r, "depth", &opts.DepthPercent); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST",
			err.Error(), requestID)
		return
	}
	if err := parseBoolField(r, "shadow", &opts.Shadow); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST",
			err.Error(), requestID)
		return
	}
	if err := parseIntField(r, "canvas_width", &opts.CanvasW); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST",
			err.Error(), requestID)
		return
	}
	if err := parseIntField(r, "canvas_height", &opts.CanvasH); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST",
			err.Error(), requestID)
		return
	}

	result, err := box.Synthesize(cover, opts, s.registry)
	if err != nil {
		s.handleRenderError(w, err, requestID)
		return
	}

	s.writePNGResponse(w, result, requestID)
}

// CreateMix implements the mix thumbnail endpoint: multipart upload with a
// mandatory "screenshot" part and optional "marquee", "box3d" and
// "physicalmedia" parts.
func (s *Server) CreateMix(w http.ResponseWriter, r *http.Request) {
	requestID := generateRequestID()

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST",
			"Request body must be multipart/form-data", requestID)
		return
	}

	layers := make(map[string]image.Image, 4)
	for _, field := range []string{"screenshot", "marquee", "box3d", "physicalmedia"} {
		img, found, err := readFormImage(r, field)
		if err != nil {
			s.writeErrorResponse(w, http.StatusBadRequest, "ASSET_DECODE_ERROR",
				err.Error(), requestID)
			return
		}
		if found {
			layers[field] = img
		}
	}
	if layers["screenshot"] == nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST",
			"Multipart field 'screenshot' is required", requestID)
		return
	}

	result, err := mix.Compose(layers["screenshot"], layers["marquee"],
		layers["box3d"], layers["physicalmedia"], s.layout)
	if err != nil {
		s.handleRenderError(w, err, requestID)
		return
	}

	s.writePNGResponse(w, result, requestID)
}

// handleRenderError maps compositor errors to API error codes.
func (s *Server) handleRenderError(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, geometry.ErrSourceDegenerate),
		errors.Is(err, box.ErrDegenerateGeometry):
		s.writeErrorResponse(w, http.StatusBadRequest, "SOURCE_DEGENERATE",
			err.Error(), requestID)
	case errors.Is(err, mix.ErrNoScreenshot):
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST",
			err.Error(), requestID)
	default:
		log.Printf("Render error [%s]: %v", requestID, err)
		s.writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"Internal server error", requestID)
	}
}

// writePNGResponse encodes the render and writes it with tracking headers.
func (s *Server) writePNGResponse(w http.ResponseWriter, img image.Image, requestID string) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		log.Printf("Error encoding PNG [%s]: %v", requestID, err)
		s.writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"Internal server error", requestID)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Request-ID", requestID)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("Error writing response: %v", err)
	}
}

// writeErrorResponse writes a standard error response
func (s *Server) writeErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message, requestID string) {
	response := ErrorResponse{
		Error:     errorCode,
		Message:   message,
		RequestID: requestID,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}

// readFormImage decodes the named multipart file part. found is false when
// the part is absent; a part that is present but undecodable is an error.
func readFormImage(r *http.Request, field string) (img image.Image, found bool, err error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading multipart field %q: %w", field, err)
	}
	defer file.Close()

	img, err = imaging.Decode(file)
	if err != nil {
		return nil, true, fmt.Errorf("decoding multipart field %q: %w", field, err)
	}
	return img, true, nil
}

func parseFloatField(r *http.Request, field string, dst *float64) error {
	raw := r.FormValue(field)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("field %q must be a number", field)
	}
	*dst = v
	return nil
}

func parseIntField(r *http.Request, field string, dst *int) error {
	raw := r.FormValue(field)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fmt.Errorf("field %q must be a non-negative integer", field)
	}
	*dst = v
	return nil
}

func parseBoolField(r *http.Request, field string, dst *bool) error {
	raw := r.FormValue(field)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fmt.Errorf("field %q must be a boolean", field)
	}
	*dst = v
	return nil
}

// generateRequestID generates a unique request ID
func generateRequestID() string {
	return fmt.Sprintf("req_%d", time.Now().UnixNano())
}
