package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kingrea/bizplan/internal/form"
	"github.com/kingrea/bizplan/internal/navigator"
	"github.com/kingrea/bizplan/internal/planner"
	"github.com/kingrea/bizplan/internal/report"
	"github.com/kingrea/bizplan/internal/summary"
)

type healthResponse struct {
	Status        string `json:"status"`
	DraftPresent  bool   `json:"draftPresent"`
	SummaryReady  bool   `json:"summaryReady"`
	UptimeSeconds int64  `json:"uptimeSeconds"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type summaryRequest struct {
	Transcript string `json:"transcript"`
}

type summaryResponse struct {
	Summary string `json:"summary"`
}

type fieldRequest struct {
	Value string `json:"value"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:        string(s.Status()),
		DraftPresent:  s.store.Exists(),
		SummaryReady:  s.session.SummaryAvailable(),
		UptimeSeconds: s.uptimeSeconds(),
	})
}

func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.store.Load()
	if !ok {
		writeError(w, http.StatusNotFound, "no draft saved")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handlePutDraft(w http.ResponseWriter, r *http.Request) {
	var doc form.Document
	if err := s.readJSON(w, r, &doc); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.session.Replace(doc)
	if err := s.session.LastSaveError(); err != nil {
		writeError(w, http.StatusInternalServerError, "draft could not be saved")
		return
	}
	writeJSON(w, http.StatusOK, s.session.Document())
}

func (s *Server) handleDeleteDraft(w http.ResponseWriter, r *http.Request) {
	s.session.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetField(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	var req fieldRequest
	if err := s.readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.session.Set(key, req.Value); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, form.ErrUnknownField) {
			status = http.StatusNotFound
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.session.Document())
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	section := s.session.Current()
	if raw := strings.TrimSpace(r.URL.Query().Get("section")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "section must be an integer")
			return
		}
		section = parsed
	}
	writeJSON(w, http.StatusOK, navigator.Progress(section, form.TotalSections()))
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	doc := s.session.Document()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.FileName(doc)))
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, report.HTML(doc))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	var req summaryRequest
	if r.ContentLength != 0 {
		if err := s.readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	narrative, err := s.session.Submit(r.Context(), req.Transcript)
	if err == nil {
		writeJSON(w, http.StatusOK, summaryResponse{Summary: narrative})
		return
	}
	var verrs form.ValidationErrors
	var apiErr *summary.APIError
	switch {
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: errorDetail{Message: "validation failed", Fields: verrs}})
	case errors.Is(err, summary.ErrNotConfigured):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, planner.ErrSubmitInFlight):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, summary.ErrTimeout):
		writeError(w, http.StatusGatewayTimeout, err.Error())
	case errors.As(err, &apiErr):
		writeError(w, http.StatusBadGateway, apiErr.Message)
	default:
		s.logger.Printf("server: summary failed: %v", err)
		writeError(w, http.StatusBadGateway, err.Error())
	}
}

func (s *Server) readJSON(w http.ResponseWriter, r *http.Request, v any) error {
	reader := http.MaxBytesReader(w, r.Body, s.settings.MaxBodyBytes)
	defer reader.Close()
	if err := json.NewDecoder(reader).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errors.New("payload exceeds limit")
		}
		return errors.New("invalid JSON")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Error: errorDetail{Message: message}})
}
