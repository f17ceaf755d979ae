// internal/adapter/storage/detection_store.go

package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"sitefix/internal/domain/geo"
)

// DetectionStore is an append-only audit log of resolved location contexts.
// Contexts are immutable; a confirmation is a new row, never an update.
type DetectionStore struct {
	db *pgxpool.Pool
}

// NewDetectionStore creates a new detection store
func NewDetectionStore(db *pgxpool.Pool) *DetectionStore {
	return &DetectionStore{
		db: db,
	}
}

// SaveDetection appends a resolved context to the audit log
func (s *DetectionStore) SaveDetection(ctx context.Context, tenantID string, lc *geo.LocationContext) error {
	query := `
		INSERT INTO detections (
			id, tenant_id, method, confidence, requires_confirmation,
			user_confirmed, location, accuracy_m, suggested_id,
			candidates, created_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, ST_MakePoint($7, $8)::geography, $9, $10,
			$11, $12
		)
	`

	candidatesJSON, err := json.Marshal(lc.Candidates)
	if err != nil {
		return fmt.Errorf("error marshaling candidates: %w", err)
	}

	var suggestedID *string
	if lc.Suggested != nil {
		suggestedID = &lc.Suggested.ID
	}

	_, err = s.db.Exec(
		ctx,
		query,
		lc.ID,
		tenantID,
		string(lc.Method),
		lc.Confidence,
		lc.RequiresConfirmation,
		lc.UserConfirmed,
		lc.Coordinate.Longitude,
		lc.Coordinate.Latitude,
		lc.Coordinate.AccuracyMeters,
		suggestedID,
		candidatesJSON,
		lc.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	return nil
}
