package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/0xcro3dile/prism/internal/domain/entities"
	"github.com/0xcro3dile/prism/internal/domain/usecases"
	"github.com/0xcro3dile/prism/internal/logger"
	"github.com/0xcro3dile/prism/internal/report"
)

// errBadRequest marks malformed request bodies.
var errBadRequest = errors.New("bad request")

// processRequest is the body of POST /process-text.
type processRequest struct {
	Text       string   `json:"text"`
	Query      string   `json:"query"`
	ChunkSize  int      `json:"chunk_size"`
	Overlap    int      `json:"overlap"`
	Separators []string `json:"separators,omitempty"`
	LengthUnit string   `json:"length_unit,omitempty"` // "chars" (default) or "tokens"
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)

	var body processRequest
	if err := decodeBody(r.Body, &body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, fmt.Errorf("%w: request body exceeds %d bytes", entities.ErrDocumentTooLarge, tooLarge.Limit))
			return
		}
		s.writeError(w, r, fmt.Errorf("%w: decoding body: %w", errBadRequest, err))
		return
	}

	cfg := entities.NewSplitConfig(body.ChunkSize, body.Overlap)
	if len(body.Separators) > 0 {
		cfg.Separators = body.Separators
	}
	switch strings.ToLower(body.LengthUnit) {
	case "", "chars":
	case "tokens":
		if s.tokens == nil {
			s.writeError(w, r, &entities.ConfigurationError{Field: "length_unit", Reason: "tokens are not available"})
			return
		}
		cfg.LengthFn = usecases.TokenLength(r.Context(), s.tokens)
	default:
		s.writeError(w, r, &entities.ConfigurationError{Field: "length_unit", Reason: "must be chars or tokens"})
		return
	}

	result, err := s.process.Process(r.Context(), entities.ProcessRequest{
		Document: body.Text,
		Query:    body.Query,
		Config:   cfg,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.metrics.chunks.Observe(float64(len(result.Chunks)))
	s.metrics.documentBytes.Observe(float64(len(body.Text)))
	writeJSON(w, r, http.StatusOK, report.FromResult(result))
}

// decodeBody reads exactly one JSON object with known fields only, so a
// misspelled field or trailing data is rejected instead of silently ignored.
func decodeBody(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return err
		}
		return errors.New("unexpected data after the JSON object")
	}
	return nil
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// writeError maps domain errors to status codes.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, entities.ErrInvalidConfig), errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, entities.ErrDocumentTooLarge):
		status = http.StatusRequestEntityTooLarge
	}

	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error("request failed", "error", err)
	} else {
		log.Debug("request rejected", "status", status, "error", err)
	}
	writeJSON(w, r, status, errorResponse{Code: status, Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("failed to write response", "error", err)
	}
}
