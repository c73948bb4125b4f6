package server

import (
	"bytes"
	"encoding/json"
	"image/color"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Test server setup
func setupTestServer() *httptest.Server {
	r := chi.NewRouter()

	// Add middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(30 * time.Second))

	// CORS middleware
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	apiServer := NewServer("1.0.0-test")
	r.Route("/api/v1", apiServer.Routes)

	return httptest.NewServer(r)
}

// encodeTestPNG returns an in-memory PNG of the given size.
func encodeTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := imaging.New(w, h, color.NRGBA{R: 120, G: 60, B: 200, A: 255})
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		t.Fatalf("Failed to encode test PNG: %v", err)
	}
	return buf.Bytes()
}

// multipartBody builds a multipart request body from file parts and fields.
func multipartBody(t *testing.T, files map[string][]byte, fields map[string]string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, data := range files {
		part, err := mw.CreateFormFile(name, name+".png")
		if err != nil {
			t.Fatalf("Failed to create form file: %v", err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatalf("Failed to write form file: %v", err)
		}
	}
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			t.Fatalf("Failed to write form field: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("Failed to close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

var pngSignature = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

func TestHealthEndpoint(t *testing.T) {
	server := setupTestServer()
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/v1/health")
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "application/json" {
		t.Errorf("Expected Content-Type application/json, got %s", contentType)
	}

	var healthResp HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&healthResp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if healthResp.Status != "healthy" {
		t.Errorf("Expected status 'healthy', got %s", healthResp.Status)
	}

	if healthResp.Version != "1.0.0-test" {
		t.Errorf("Expected version '1.0.0-test', got %s", healthResp.Version)
	}

	if healthResp.Uptime < 0 {
		t.Errorf("Expected valid uptime, got %d", healthResp.Uptime)
	}

	if time.Since(healthResp.Timestamp) > time.Minute {
		t.Errorf("Timestamp seems too old: %v", healthResp.Timestamp)
	}
}

func TestPlatformsEndpoint(t *testing.T) {
	server := setupTestServer()
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/v1/platforms")
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	var platformsResp PlatformsResponse
	if err := json.NewDecoder(resp.Body).Decode(&platformsResp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if len(platformsResp.Platforms) == 0 {
		t.Fatal("Expected at least one registered platform")
	}

	found := false
	for _, code := range platformsResp.Platforms {
		if code == "ps2" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected 'ps2' in platform list, got %v", platformsResp.Platforms)
	}
}

func TestBox3DEndpoint_Success(t *testing.T) {
	server := setupTestServer()
	defer server.Close()

	body, contentType := multipartBody(t,
		map[string][]byte{"cover": encodeTestPNG(t, 120, 160)},
		map[string]string{
			"spine_ratio": "0.08",
			"depth":       "0.30",
			"shadow":      "true",
			"title":       "Okami",
			"platform":    "ps2",
		},
	)

	resp, err := http.Post(server.URL+"/api/v1/box3d", contentType, body)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status 200, got %d. Body: %s", resp.StatusCode, string(respBody))
	}

	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("Expected Content-Type image/png, got %s", ct)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}

	if len(imageData) < 8 || !bytes.Equal(imageData[:8], pngSignature) {
		t.Error("Response does not appear to be a valid PNG file")
	}

	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("Expected X-Request-ID header")
	}
}

func TestBox3DEndpoint_ValidationErrors(t *testing.T) {
	server := setupTestServer()
	defer server.Close()

	testCases := []struct {
		name          string
		files         map[string][]byte
		fields        map[string]string
		expectedError string
	}{
		{
			name:          "Missing cover",
			files:         nil,
			fields:        map[string]string{"title": "Okami"},
			expectedError: "INVALID_REQUEST",
		},
		{
			name:          "Corrupt cover",
			files:         map[string][]byte{"cover": []byte("not a png")},
			expectedError: "ASSET_DECODE_ERROR",
		},
		{
			name:          "Non-numeric spine ratio",
			files:         map[string][]byte{"cover": encodeTestPNG(t, 60, 80)},
			fields:        map[string]string{"spine_ratio": "wide"},
			expectedError: "INVALID_REQUEST",
		},
		{
			name:          "Negative canvas width",
			files:         map[string][]byte{"cover": encodeTestPNG(t, 60, 80)},
			fields:        map[string]string{"canvas_width": "-5"},
			expectedError: "INVALID_REQUEST",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			body, contentType := multipartBody(t, tc.files, tc.fields)

			resp, err := http.Post(server.URL+"/api/v1/box3d", contentType, body)
			if err != nil {
				t.Fatalf("Failed to make request: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusBadRequest {
				respBody, _ := io.ReadAll(resp.Body)
				t.Errorf("Expected status 400, got %d. Body: %s", resp.StatusCode, string(respBody))
			}

			var errorResp ErrorResponse
			if err := json.NewDecoder(resp.Body).Decode(&errorResp); err != nil {
				t.Fatalf("Failed to decode error response: %v", err)
			}

			if errorResp.Error != tc.expectedError {
				t.Errorf("Expected error code %s, got %s", tc.expectedError, errorResp.Error)
			}
		})
	}
}

func TestMixEndpoint_Success(t *testing.T) {
	server := setupTestServer()
	defer server.Close()

	body, contentType := multipartBody(t,
		map[string][]byte{
			"screenshot": encodeTestPNG(t, 320, 240),
			"marquee":    encodeTestPNG(t, 200, 50),
			"box3d":      encodeTestPNG(t, 150, 250),
		},
		nil,
	)

	resp, err := http.Post(server.URL+"/api/v1/mix", contentType, body)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status 200, got %d. Body: %s", resp.StatusCode, string(respBody))
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}

	if len(imageData) < 8 || !bytes.Equal(imageData[:8], pngSignature) {
		t.Error("Response does not appear to be a valid PNG file")
	}

	if decoded, err := imaging.Decode(bytes.NewReader(imageData)); err != nil {
		t.Errorf("Failed to decode returned PNG: %v", err)
	} else if b := decoded.Bounds(); b.Dx() != 1280 || b.Dy() != 960 {
		t.Errorf("Expected 1280x960 canvas, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestMixEndpoint_MissingScreenshot(t *testing.T) {
	server := setupTestServer()
	defer server.Close()

	body, contentType := multipartBody(t,
		map[string][]byte{"marquee": encodeTestPNG(t, 200, 50)},
		nil,
	)

	resp, err := http.Post(server.URL+"/api/v1/mix", contentType, body)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}

	var errorResp ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errorResp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}

	if errorResp.Error != "INVALID_REQUEST" {
		t.Errorf("Expected error code INVALID_REQUEST, got %s", errorResp.Error)
	}
}

func TestCORSHeaders(t *testing.T) {
	server := setupTestServer()
	defer server.Close()

	req, err := http.NewRequest("OPTIONS", server.URL+"/api/v1/box3d", nil)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Expected Access-Control-Allow-Origin: *")
	}

	if !strings.Contains(resp.Header.Get("Access-Control-Allow-Methods"), "POST") {
		t.Error("Expected Access-Control-Allow-Methods to include POST")
	}
}
