// internal/adapter/storage/business_store.go

package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"sitefix/internal/domain/business"
	"sitefix/internal/domain/geo"
)

// BusinessStore implements storage for registered businesses
type BusinessStore struct {
	db *pgxpool.Pool
}

// NewBusinessStore creates a new business store
func NewBusinessStore(db *pgxpool.Pool) *BusinessStore {
	return &BusinessStore{
		db: db,
	}
}

// SaveBusiness saves a business to storage
func (s *BusinessStore) SaveBusiness(ctx context.Context, b business.Business) error {
	query := `
		INSERT INTO businesses (
			id, tenant_id, name, type, address, location, created_at
		) VALUES (
			$1, $2, $3, $4, $5, ST_MakePoint($6, $7)::geography, $8
		)
		ON CONFLICT (id) DO UPDATE
		SET
			name = $3,
			type = $4,
			address = $5,
			location = ST_MakePoint($6, $7)::geography
	`

	_, err := s.db.Exec(
		ctx,
		query,
		b.ID,
		b.TenantID,
		b.Name,
		string(b.Type),
		b.Address,
		b.Longitude,
		b.Latitude,
		b.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	return nil
}

// GetBusiness retrieves a business by ID
func (s *BusinessStore) GetBusiness(ctx context.Context, id string) (*business.Business, error) {
	query := `
		SELECT
			id, tenant_id, name, type, address,
			ST_X(location::geometry) as lng, ST_Y(location::geometry) as lat,
			created_at
		FROM businesses
		WHERE id = $1
	`

	var b business.Business
	err := s.db.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.TenantID, &b.Name, &b.Type, &b.Address,
		&b.Longitude, &b.Latitude, &b.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying business: %w", err)
	}

	return &b, nil
}

// ListBusinesses returns all businesses registered for a tenant, in a stable
// order suitable for the manual-selection fallback
func (s *BusinessStore) ListBusinesses(ctx context.Context, tenantID string) ([]business.Business, error) {
	query := `
		SELECT
			id, tenant_id, name, type, address,
			ST_X(location::geometry) as lng, ST_Y(location::geometry) as lat,
			created_at
		FROM businesses
		WHERE tenant_id = $1
		ORDER BY name, id
	`

	rows, err := s.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var businesses []business.Business
	for rows.Next() {
		var b business.Business
		if err := rows.Scan(
			&b.ID, &b.TenantID, &b.Name, &b.Type, &b.Address,
			&b.Longitude, &b.Latitude, &b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		businesses = append(businesses, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return businesses, nil
}

// FindNearby returns a tenant's businesses within a radius of a coordinate,
// closest first, with the computed distance filled in
func (s *BusinessStore) FindNearby(ctx context.Context, tenantID string, coord geo.Coordinate, radiusMeters float64) ([]geo.BusinessCandidate, error) {
	query := `
		SELECT
			id, name, type, address,
			ST_Distance(geography(location), geography(ST_MakePoint($2, $3))) as distance_m
		FROM businesses
		WHERE tenant_id = $1
		AND ST_DWithin(
			geography(location),
			geography(ST_MakePoint($2, $3)),
			$4
		)
		ORDER BY distance_m
		LIMIT 50
	`

	rows, err := s.db.Query(ctx, query, tenantID, coord.Longitude, coord.Latitude, radiusMeters)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var candidates []geo.BusinessCandidate
	for rows.Next() {
		var c geo.BusinessCandidate
		if err := rows.Scan(&c.ID, &c.Name, &c.Type, &c.Address, &c.DistanceMeters); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		candidates = append(candidates, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return candidates, nil
}
