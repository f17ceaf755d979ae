// internal/server/handlers/business.go

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"sitefix/internal/domain/business"
)

// BusinessStore is the storage surface the business handlers need
type BusinessStore interface {
	SaveBusiness(ctx context.Context, b business.Business) error
	ListBusinesses(ctx context.Context, tenantID string) ([]business.Business, error)
	GetBusiness(ctx context.Context, id string) (*business.Business, error)
}

// BusinessHandler handles business registry HTTP requests
type BusinessHandler struct {
	store    BusinessStore
	tenantID string
}

// NewBusinessHandler creates a new business handler
func NewBusinessHandler(store BusinessStore, tenantID string) *BusinessHandler {
	return &BusinessHandler{
		store:    store,
		tenantID: tenantID,
	}
}

// ListBusinesses returns all registered businesses for the tenant
func (h *BusinessHandler) ListBusinesses(w http.ResponseWriter, r *http.Request) {
	businesses, err := h.store.ListBusinesses(r.Context(), h.tenantID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to list businesses", err)
		return
	}

	if businesses == nil {
		businesses = []business.Business{}
	}

	respondWithJSON(w, http.StatusOK, businesses)
}

// GetBusiness returns a single registered business by ID
func (h *BusinessHandler) GetBusiness(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "Missing business ID", nil)
		return
	}

	b, err := h.store.GetBusiness(r.Context(), id)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to get business", err)
		return
	}

	// Another tenant's business is invisible, not forbidden
	if b == nil || b.TenantID != h.tenantID {
		respondWithError(w, http.StatusNotFound, "Business not found", nil)
		return
	}

	respondWithJSON(w, http.StatusOK, b)
}

// CreateBusiness registers a new business location
func (h *BusinessHandler) CreateBusiness(w http.ResponseWriter, r *http.Request) {
	var b business.Business
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if b.Name == "" {
		respondWithError(w, http.StatusBadRequest, "Missing business name", nil)
		return
	}

	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	b.TenantID = h.tenantID
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}

	if err := h.store.SaveBusiness(r.Context(), b); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to save business", err)
		return
	}

	respondWithJSON(w, http.StatusCreated, b)
}
