package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/lib/pq"

	"smart-pricing/models"
	"smart-pricing/utils"
)

// PostgresStore keeps the market dataset and analysis run summaries in PostgreSQL
type PostgresStore struct {
	db     *sql.DB
	logger *utils.Logger
}

// NewPostgresStore opens the database and pings it, retrying with backoff
func NewPostgresStore(connStr string, maxRetries int, logger *utils.Logger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Minute * 5)

	err = utils.RetryWithBackoff(maxRetries, time.Second, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return db.PingContext(ctx)
	}, logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	logger.Info("Connected to PostgreSQL successfully")
	return &PostgresStore{db: db, logger: logger}, nil
}

// CreateTables creates the listings and pricing_runs tables if they don't exist, with indexes
func (s *PostgresStore) CreateTables(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS listings (
		id            SERIAL PRIMARY KEY,
		name          TEXT          NOT NULL,
		latitude      DOUBLE PRECISION NOT NULL,
		longitude     DOUBLE PRECISION NOT NULL,
		total_price   NUMERIC(12,2) NOT NULL CHECK (total_price > 0),
		nights        INTEGER       NOT NULL CHECK (nights > 0),
		bedrooms      INTEGER       NOT NULL DEFAULT 0,
		bathrooms     INTEGER       NOT NULL DEFAULT 0,
		area_m2       NUMERIC(8,2)  NOT NULL,
		rating        NUMERIC(4,2)  NOT NULL DEFAULT 0,
		reviews_count INTEGER       NOT NULL DEFAULT 0,
		amenities     TEXT[]        NOT NULL DEFAULT '{}',
		UNIQUE (name, latitude, longitude, nights)
	);

	CREATE INDEX IF NOT EXISTS idx_listings_nights   ON listings (nights);
	CREATE INDEX IF NOT EXISTS idx_listings_bedrooms ON listings (bedrooms);
	CREATE INDEX IF NOT EXISTS idx_listings_rating   ON listings (rating);

	CREATE TABLE IF NOT EXISTS pricing_runs (
		run_id            UUID PRIMARY KEY,
		created_at        TIMESTAMPTZ   NOT NULL DEFAULT NOW(),
		dataset           TEXT          NOT NULL,
		target_name       TEXT          NOT NULL,
		radius_km         DOUBLE PRECISION NOT NULL,
		current_price     NUMERIC(12,2),
		candidate_count   INTEGER       NOT NULL,
		recommended_price NUMERIC(12,2),
		median_price      NUMERIC(12,2),
		average_price     NUMERIC(12,2),
		comparables_used  INTEGER       NOT NULL DEFAULT 0,
		verdict           TEXT          NOT NULL,
		percentile        DOUBLE PRECISION,
		best_model        TEXT,
		best_r2           DOUBLE PRECISION,
		best_mae          DOUBLE PRECISION,
		predicted_price   DOUBLE PRECISION,
		report            JSONB         NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_pricing_runs_created ON pricing_runs (created_at);
	`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	s.logger.Info("Tables 'listings' and 'pricing_runs' are ready")
	return nil
}

// ImportListings inserts listings in a single transaction, skipping duplicates
func (s *PostgresStore) ImportListings(ctx context.Context, listings []models.Listing) (err error) {
	if len(listings) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO listings (name, latitude, longitude, total_price, nights, bedrooms,
			bathrooms, area_m2, rating, reviews_count, amenities)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (name, latitude, longitude, nights) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, l := range listings {
		res, execErr := stmt.ExecContext(ctx,
			l.Name,
			l.Latitude,
			l.Longitude,
			l.TotalPrice,
			l.Nights,
			l.Bedrooms,
			l.Bathrooms,
			l.AreaM2,
			l.Rating,
			l.ReviewsCount,
			pq.Array([]string(l.Amenities)),
		)
		if execErr != nil {
			s.logger.Warn("Skipping insert for '%s': %v", l.Name, execErr)
			continue
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info("Inserted %d/%d listings into PostgreSQL", inserted, len(listings))
	return nil
}

// NightsSource reads the listings of one dataset (stay length) from the store
type NightsSource struct {
	store  *PostgresStore
	nights int
}

// Source returns a ListingSource for listings priced over the given number of nights
func (s *PostgresStore) Source(nights int) *NightsSource {
	return &NightsSource{store: s, nights: nights}
}

// LoadListings returns the stored listings for the source's stay length
func (n *NightsSource) LoadListings(ctx context.Context) ([]models.Listing, error) {
	rows, err := n.store.db.QueryContext(ctx, `
		SELECT name, latitude, longitude, total_price, nights, bedrooms, bathrooms,
			area_m2, rating, reviews_count, amenities
		FROM listings
		WHERE nights = $1
		ORDER BY id
	`, n.nights)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	var listings []models.Listing
	for rows.Next() {
		var l models.Listing
		var amenities []string
		if err := rows.Scan(&l.Name, &l.Latitude, &l.Longitude, &l.TotalPrice, &l.Nights,
			&l.Bedrooms, &l.Bathrooms, &l.AreaM2, &l.Rating, &l.ReviewsCount,
			pq.Array(&amenities)); err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		l.Amenities = models.NewAmenitySet(amenities...)
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate listings: %w", err)
	}

	n.store.logger.Info("Loaded %d listings (%d nights) from PostgreSQL", len(listings), n.nights)
	return listings, nil
}

// SaveAnalysis stores the run summary and the full report as JSONB
func (s *PostgresStore) SaveAnalysis(ctx context.Context, report *models.AnalysisReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	var bestModel sql.NullString
	var bestR2, bestMAE sql.NullFloat64
	if report.Metrics != nil {
		bestModel = sql.NullString{String: report.Metrics.BestModel, Valid: true}
		bestR2 = sql.NullFloat64{Float64: report.Metrics.BestR2, Valid: true}
		bestMAE = sql.NullFloat64{Float64: report.Metrics.BestMAE, Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO pricing_runs (run_id, created_at, dataset, target_name, radius_km,
			current_price, candidate_count, recommended_price, median_price, average_price,
			comparables_used, verdict, percentile, best_model, best_r2, best_mae,
			predicted_price, report)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`,
		report.RunID.String(),
		report.CreatedAt,
		report.Dataset,
		report.Target.Name,
		report.RadiusKm,
		report.CurrentPrice,
		report.CandidateCount,
		nullFloat(report.Insight.RecommendedPrice),
		nullFloat(report.Insight.MedianPrice),
		nullFloat(report.Insight.AveragePrice),
		report.Insight.ComparablesUsed,
		string(report.Position.Verdict),
		report.Position.Percentile,
		bestModel,
		bestR2,
		bestMAE,
		nullFloat(report.PredictedPrice),
		payload,
	)
	if err != nil {
		return fmt.Errorf("failed to insert pricing run: %w", err)
	}

	s.logger.Info("Saved analysis run %s", report.RunID)
	return nil
}

// Close closes the database connection
func (s *PostgresStore) Close() {
	if s.db != nil {
		_ = s.db.Close()
	}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
