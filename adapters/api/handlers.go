package api

import (
	"encoding/json"
	"net/http"

	attrdomain "gocause/domain/attribution"
	causaldomain "gocause/domain/causal"
	apperrors "gocause/internal/errors"
)

// maxBodyBytes bounds request payloads; series data is numeric and compact.
const maxBodyBytes = 8 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAttribution(w http.ResponseWriter, r *http.Request) {
	var req attrdomain.Request
	if !s.decode(w, r, &req) {
		return
	}

	runID, result, err := s.service.Attribution(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, AttributionResponse{RunID: runID, Result: result})
}

func (s *Server) handleRootCause(w http.ResponseWriter, r *http.Request) {
	var req causaldomain.Request
	if !s.decode(w, r, &req) {
		return
	}

	runID, result, err := s.service.RootCause(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, RootCauseResponse{RunID: runID, Result: result})
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		s.writeJSON(w, http.StatusOK, RunsResponse{})
		return
	}
	runs, err := s.runs.List(r.Context(), 50)
	if err != nil {
		s.writeError(w, apperrors.Wrap(err, "listing runs"))
		return
	}
	s.writeJSON(w, http.StatusOK, RunsResponse{Runs: runs})
}

// decode parses the JSON request body, writing a 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		s.writeError(w, apperrors.InvalidInput("malformed request body: "+err.Error()))
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encoding response: %v", err)
	}
}

// writeError maps application error codes to HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case apperrors.CodeValidationError, apperrors.CodeInvalidInput:
		status = http.StatusBadRequest
	case apperrors.CodeUnsupportedMethod:
		status = http.StatusUnprocessableEntity
	case apperrors.CodeInsufficientData:
		status = http.StatusUnprocessableEntity
	case apperrors.CodeDatabaseError:
		status = http.StatusServiceUnavailable
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed: %v", err)
	}
	s.writeJSON(w, status, ErrorResponse{Error: ErrorBody{Code: code, Message: err.Error()}})
}
