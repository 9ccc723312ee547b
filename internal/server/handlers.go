package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ytget/cyclops/internal/frames"
)

// Links carries hypermedia references of a response
type Links struct {
	Self         string `json:"self"`
	Frames       string `json:"frames,omitempty"`
	FrameExample string `json:"frame_example,omitempty"`
}

// VideoItem is one entry of the video list
type VideoItem struct {
	ID    string `json:"id"`
	Path  string `json:"path"`
	Links Links  `json:"_links"`
}

// VideoList is the GET /video response
type VideoList struct {
	Count  int         `json:"count"`
	Videos []VideoItem `json:"videos"`
}

// VideoInfo is the GET /video/{vid} response
type VideoInfo struct {
	frames.Metadata
	Links Links `json:"_links"`
}

// TextResponse carries recognized text
type TextResponse struct {
	Text string `json:"text"`
}

// HealthResponse is the GET /health response
type HealthResponse struct {
	Status string `json:"status"`
	Videos int    `json:"videos"`
}

// ErrorResponse carries a failure description
type ErrorResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy", Videos: s.registry.Len()}, s.logger)
}

func (s *Server) handleListVideos(w http.ResponseWriter, r *http.Request) {
	videos := s.registry.List()
	resp := VideoList{Count: len(videos), Videos: make([]VideoItem, 0, len(videos))}
	for _, v := range videos {
		resp.Videos = append(resp.Videos, VideoItem{
			ID:   v.ID,
			Path: v.Path,
			Links: Links{
				Self:         "/video/" + v.ID,
				FrameExample: "/video/" + v.ID + "/frame/0",
			},
		})
	}
	writeJSON(w, http.StatusOK, resp, s.logger)
}

func (s *Server) handleVideoInfo(w http.ResponseWriter, r *http.Request) {
	vid := chi.URLParam(r, "vid")
	path, err := s.resolve(vid)
	if err != nil {
		s.writeFailure(w, err)
		return
	}

	ctx, cancel := s.withTimeout(r.Context())
	defer cancel()

	meta, err := s.frames.Probe(ctx, path)
	if err != nil {
		s.writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, VideoInfo{
		Metadata: meta,
		Links: Links{
			Self:   "/video/" + vid,
			Frames: "/video/" + vid + "/frame/{seconds}",
		},
	}, s.logger)
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	image, ok := s.extractFrame(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(image)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(image); err != nil {
		s.logger.Warn("Failed to write frame", "error", err)
	}
}

func (s *Server) handleFrameOCR(w http.ResponseWriter, r *http.Request) {
	image, ok := s.extractFrame(w, r)
	if !ok {
		return
	}
	s.recognize(w, r, image)
}

func (s *Server) handleUploadOCR(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error(), s.logger)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing form field \"file\"", s.logger)
		return
	}
	defer file.Close()

	mediaType, _, _ := mime.ParseMediaType(header.Header.Get("Content-Type"))
	if mediaType != "image/png" {
		writeError(w, http.StatusUnsupportedMediaType, "Only PNG images are allowed.", s.logger)
		return
	}

	image, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read upload", s.logger)
		return
	}
	s.recognize(w, r, image)
}

// extractFrame resolves the video and timestamp of r and returns the PNG.
// On failure the response is already written.
func (s *Server) extractFrame(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	path, err := s.resolve(chi.URLParam(r, "vid"))
	if err != nil {
		s.writeFailure(w, err)
		return nil, false
	}

	raw := chi.URLParam(r, "timestamp")
	seconds, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid timestamp %q", raw), s.logger)
		return nil, false
	}

	ctx, cancel := s.withTimeout(r.Context())
	defer cancel()

	image, err := s.frames.FrameAt(ctx, path, seconds)
	if err != nil {
		s.writeFailure(w, err)
		return nil, false
	}
	return image, true
}

func (s *Server) recognize(w http.ResponseWriter, r *http.Request, image []byte) {
	ctx, cancel := s.withTimeout(r.Context())
	defer cancel()

	text, err := s.recognizer.Recognize(ctx, image)
	if err != nil {
		s.logger.Error("OCR failed", "error", err)
		writeError(w, http.StatusInternalServerError, "text recognition failed", s.logger)
		return
	}
	writeJSON(w, http.StatusOK, TextResponse{Text: text}, s.logger)
}

// writeFailure maps domain errors to status codes
func (s *Server) writeFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrVideoNotFound):
		writeError(w, http.StatusNotFound, err.Error(), s.logger)
	case errors.Is(err, frames.ErrUnreadable), errors.Is(err, frames.ErrFrameOutOfRange):
		writeError(w, http.StatusBadRequest, err.Error(), s.logger)
	default:
		s.logger.Error("Request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error", s.logger)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string, logger *slog.Logger) {
	writeJSON(w, status, ErrorResponse{Detail: detail}, logger)
}
