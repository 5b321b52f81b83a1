package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/cleardwell/assess-cli/internal/model"
	"github.com/cleardwell/assess-cli/internal/store"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().Error("server: encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListProperties(w http.ResponseWriter, r *http.Request) {
	props, err := s.store.ListProperties(r.Context())
	if err != nil {
		zap.L().Error("server: list properties", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, props)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rep, err := s.buildReport(r, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "property not found")
			return
		}
		zap.L().Error("server: build report", zap.String("property_id", id), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, rep)
}

func (s *Server) buildReport(r *http.Request, propertyID string) (*model.Report, error) {
	ctx := r.Context()
	if _, err := s.store.GetProperty(ctx, propertyID); err != nil {
		return nil, err
	}
	readings, err := s.store.ListReadings(ctx, store.ReadingFilter{PropertyID: propertyID})
	if err != nil {
		return nil, err
	}
	return s.builder.Build(propertyID, readings), nil
}

type createReadingRequest struct {
	PropertyID string  `json:"property_id"`
	RoomID     *string `json:"room_id,omitempty"`
	MetricKey  string  `json:"metric_key"`
	Value      float64 `json:"value"`
	TakenAt    string  `json:"taken_at,omitempty"`
}

func (s *Server) handleCreateReading(w http.ResponseWriter, r *http.Request) {
	var req createReadingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.PropertyID == "" || req.MetricKey == "" {
		respondError(w, http.StatusBadRequest, "property_id and metric_key are required")
		return
	}
	if !s.catalog.Has(req.MetricKey) {
		respondError(w, http.StatusBadRequest, "unknown metric key")
		return
	}

	reading := model.Reading{
		PropertyID: req.PropertyID,
		RoomID:     req.RoomID,
		MetricKey:  req.MetricKey,
		Value:      req.Value,
	}
	if req.TakenAt != "" {
		t, err := time.Parse(time.RFC3339, req.TakenAt)
		if err != nil {
			respondError(w, http.StatusBadRequest, "taken_at must be RFC 3339")
			return
		}
		reading.TakenAt = t.UTC()
	}

	if _, err := s.store.GetProperty(r.Context(), req.PropertyID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "property not found")
			return
		}
		zap.L().Error("server: get property", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	saved, err := s.store.InsertReading(r.Context(), reading)
	if err != nil {
		zap.L().Error("server: insert reading", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleCreateShare(w http.ResponseWriter, r *http.Request) {
	if !s.shareLimiter.Allow() {
		respondError(w, http.StatusTooManyRequests, "share link rate limit exceeded")
		return
	}

	id := chi.URLParam(r, "id")
	if _, err := s.store.GetProperty(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "property not found")
			return
		}
		zap.L().Error("server: get property", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	link, err := s.store.CreateShareLink(r.Context(), id, s.shareTTL)
	if err != nil {
		zap.L().Error("server: create share link", zap.String("property_id", id), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusCreated, link)
}

func (s *Server) handleSharedReport(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	link, err := s.store.ResolveShareLink(r.Context(), token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "share link not found or expired")
			return
		}
		zap.L().Error("server: resolve share link", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if link.Expired(s.now()) {
		respondError(w, http.StatusNotFound, "share link not found or expired")
		return
	}

	rep, err := s.buildReport(r, link.PropertyID)
	if err != nil {
		zap.L().Error("server: build shared report", zap.String("token", token), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, rep)
}
