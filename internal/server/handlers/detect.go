// internal/server/handlers/detect.go

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"sitefix/internal/domain/business"
	"sitefix/internal/domain/geo"
	"sitefix/internal/service/detect"
)

// businessSource is the narrow slice of the business store the detection
// handlers need
type businessSource interface {
	ListBusinesses(ctx context.Context, tenantID string) ([]business.Business, error)
}

// DetectHandler handles detection-related HTTP requests
type DetectHandler struct {
	sessions   *detect.Manager
	businesses businessSource
	tenantID   string
}

// NewDetectHandler creates a new detect handler
func NewDetectHandler(sessions *detect.Manager, businesses businessSource, tenantID string) *DetectHandler {
	return &DetectHandler{
		sessions:   sessions,
		businesses: businesses,
		tenantID:   tenantID,
	}
}

// positionReport is the device-captured positioning fix, or the failure the
// device hit trying to capture one
type positionReport struct {
	Status         string    `json:"status,omitempty"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	AccuracyMeters float64   `json:"accuracy_meters"`
	CapturedAt     time.Time `json:"captured_at"`
}

// wifiReport is the device-captured ambient wireless scan
type wifiReport struct {
	NetworkIDs []string  `json:"network_ids"`
	CapturedAt time.Time `json:"captured_at"`
}

// detectRequest is the payload for POST /detect
type detectRequest struct {
	DeviceID string          `json:"device_id"`
	Position *positionReport `json:"position"`
	WiFi     *wifiReport     `json:"wifi,omitempty"`
}

// Detect resolves the reporting device's business location
func (h *DetectHandler) Detect(w http.ResponseWriter, r *http.Request) {
	var req detectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if req.DeviceID == "" {
		respondWithError(w, http.StatusBadRequest, "Missing device ID", nil)
		return
	}

	entry := h.sessions.Acquire(req.DeviceID)
	entry.Feed.SetReport(reportSignals(req))

	lc, err := entry.Session.Detect(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, geo.ErrDetectionInFlight):
			respondWithError(w, http.StatusConflict, "Detection already in progress", err)
		case errors.Is(err, geo.ErrExhausted):
			respondWithJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"error":    "detection exhausted",
				"fallback": true,
			})
		default:
			respondWithError(w, http.StatusInternalServerError, "Detection failed", err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, lc)
}

// confirmRequest is the payload for POST /detect/confirm
type confirmRequest struct {
	DeviceID string                `json:"device_id"`
	Context  *geo.LocationContext  `json:"context"`
	Chosen   geo.BusinessCandidate `json:"chosen"`
}

// Confirm records the human's location choice and returns the new confirmed
// context
func (h *DetectHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if req.DeviceID == "" || req.Context == nil || req.Chosen.ID == "" {
		respondWithError(w, http.StatusBadRequest, "Missing device ID, context or chosen candidate", nil)
		return
	}

	entry := h.sessions.Acquire(req.DeviceID)

	confirmed, err := entry.Session.Confirm(r.Context(), req.Context, req.Chosen)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to confirm location", err)
		return
	}

	respondWithJSON(w, http.StatusOK, confirmed)
}

// manualRequest is the payload for POST /detect/manual
type manualRequest struct {
	DeviceID string `json:"device_id"`
}

// Manual builds a manual-selection context over the full business list
func (h *DetectHandler) Manual(w http.ResponseWriter, r *http.Request) {
	var req manualRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if req.DeviceID == "" {
		respondWithError(w, http.StatusBadRequest, "Missing device ID", nil)
		return
	}

	businesses, err := h.businesses.ListBusinesses(r.Context(), h.tenantID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load businesses", err)
		return
	}

	entry := h.sessions.Acquire(req.DeviceID)

	lc, err := entry.Session.BuildManualContext(r.Context(), businesses)
	if err != nil {
		if errors.Is(err, geo.ErrNoBusinesses) {
			respondWithError(w, http.StatusNotFound, "No locations available", err)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to build manual context", err)
		return
	}

	respondWithJSON(w, http.StatusOK, lc)
}

// ClearCache drops a device session's cached detection result
func (h *DetectHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	deviceID := r.URL.Query().Get("device_id")
	if deviceID == "" {
		respondWithError(w, http.StatusBadRequest, "Missing device ID", nil)
		return
	}

	h.sessions.Acquire(deviceID).Session.ClearCache()

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// Reset clears a device session's retry counter for a fresh user-initiated
// attempt
func (h *DetectHandler) Reset(w http.ResponseWriter, r *http.Request) {
	deviceID := r.URL.Query().Get("device_id")
	if deviceID == "" {
		respondWithError(w, http.StatusBadRequest, "Missing device ID", nil)
		return
	}

	h.sessions.Acquire(deviceID).Session.Reset()

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// reportSignals translates a detect request into feed signals
func reportSignals(req detectRequest) (*geo.Coordinate, *geo.WirelessSignature, error) {
	var fix *geo.Coordinate
	var fixErr error

	switch {
	case req.Position == nil:
		fixErr = geo.ErrPositionUnavailable
	case req.Position.Status == "permission_denied":
		fixErr = geo.ErrPermissionDenied
	case req.Position.Status == "timeout":
		fixErr = geo.ErrPositionTimeout
	case req.Position.Status == "unavailable":
		fixErr = geo.ErrPositionUnavailable
	default:
		fix = &geo.Coordinate{
			Latitude:       req.Position.Latitude,
			Longitude:      req.Position.Longitude,
			AccuracyMeters: req.Position.AccuracyMeters,
			CapturedAt:     req.Position.CapturedAt,
		}
	}

	var sig *geo.WirelessSignature
	if req.WiFi != nil && len(req.WiFi.NetworkIDs) > 0 {
		sig = &geo.WirelessSignature{
			NetworkIDs: req.WiFi.NetworkIDs,
			CapturedAt: req.WiFi.CapturedAt,
		}
	}

	return fix, sig, fixErr
}

// Helper for JSON responses
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper for error responses
func respondWithError(w http.ResponseWriter, code int, message string, err error) {
	response := map[string]string{"error": message}

	jsonResponse, _ := json.Marshal(response)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(jsonResponse)
}
