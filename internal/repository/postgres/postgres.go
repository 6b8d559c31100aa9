package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/estimmo/backend/internal/domain"
)

// PostgresRepository implements domain.EstimationRepository
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// SaveEstimation persists a completed estimation to PostgreSQL. The
// full result is stored as JSON next to the indexed summary columns so
// past estimates stay auditable.
func (r *PostgresRepository) SaveEstimation(ctx context.Context, location domain.GeoPoint, result domain.EstimationResult) error {
	detail, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("postgres: failed to marshal estimation: %w", err)
	}

	query := `
		INSERT INTO estimations (
			latitude, longitude, total_price, price_low, price_high,
			confidence, quality_grade, detail, estimated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = r.pool.Exec(ctx, query,
		location.Latitude, location.Longitude,
		result.TotalPrice, result.PriceLow, result.PriceHigh,
		result.Confidence, string(result.Grade), detail, result.EstimatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to save estimation: %w", err)
	}

	return nil
}

// GetHistory retrieves estimation history from PostgreSQL
func (r *PostgresRepository) GetHistory(ctx context.Context, from, to time.Time, limit int) ([]domain.HistoryEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	query := `
		SELECT id, latitude, longitude, total_price, price_low, price_high,
			   confidence, quality_grade, estimated_at
		FROM estimations
		WHERE estimated_at BETWEEN $1 AND $2
		ORDER BY estimated_at DESC
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query estimations: %w", err)
	}
	defer rows.Close()

	var results []domain.HistoryEntry
	for rows.Next() {
		var e domain.HistoryEntry
		var grade string
		err := rows.Scan(
			&e.ID, &e.Location.Latitude, &e.Location.Longitude,
			&e.TotalPrice, &e.PriceLow, &e.PriceHigh,
			&e.Confidence, &grade, &e.EstimatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan estimation row: %w", err)
		}
		e.Grade = domain.QualityGrade(grade)
		results = append(results, e)
	}

	return results, nil
}

// Health checks database connectivity
func (r *PostgresRepository) Health(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}
