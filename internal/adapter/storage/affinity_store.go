// internal/adapter/storage/affinity_store.go

package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"sitefix/internal/domain/geo"
	"sitefix/internal/service/detect"
)

// AffinityStore persists wireless-signature-to-business priors. Each row ties
// one network identifier to one business confirmed while that network was
// visible; overlap with a later scan is what makes a detection "hybrid".
type AffinityStore struct {
	db *pgxpool.Pool
}

// NewAffinityStore creates a new affinity store
func NewAffinityStore(db *pgxpool.Pool) *AffinityStore {
	return &AffinityStore{
		db: db,
	}
}

// Record remembers that a business was confirmed while the given networks
// were visible
func (s *AffinityStore) Record(ctx context.Context, tenantID string, networkIDs []string, businessID string, businessType geo.BusinessType) error {
	if len(networkIDs) == 0 {
		return nil
	}

	query := `
		INSERT INTO signature_affinities (
			tenant_id, network_id, business_id, business_type, confirmed_at
		)
		SELECT $1, unnest($2::text[]), $3, $4, $5
		ON CONFLICT (tenant_id, network_id, business_id) DO UPDATE
		SET
			business_type = $4,
			confirmed_at = $5
	`

	_, err := s.db.Exec(ctx, query, tenantID, networkIDs, businessID, string(businessType), time.Now())
	if err != nil {
		return fmt.Errorf("error recording affinity: %w", err)
	}

	return nil
}

// Match returns businesses previously confirmed under signatures overlapping
// the given network identifiers
func (s *AffinityStore) Match(ctx context.Context, tenantID string, networkIDs []string) (detect.Affinity, error) {
	if len(networkIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT DISTINCT business_id, business_type
		FROM signature_affinities
		WHERE tenant_id = $1
		AND network_id = ANY($2)
	`

	rows, err := s.db.Query(ctx, query, tenantID, networkIDs)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	affinity := make(detect.Affinity)
	for rows.Next() {
		var businessID string
		var businessType geo.BusinessType
		if err := rows.Scan(&businessID, &businessType); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		affinity[businessID] = businessType
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return affinity, nil
}
