package listings

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/estatelab/wardnavi/internal/database"
	"github.com/estatelab/wardnavi/internal/domain"
)

// Repository provides access to the historical transaction store.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new listings repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "listings").Logger(),
	}
}

// InsertBatch stores parsed transactions in one database transaction.
func (r *Repository) InsertBatch(transactions []Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	return database.WithTransaction(r.db, func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`
			INSERT INTO transactions
			(ward, town, price_man, floor_area, building_age, walk_minutes, source_file)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, t := range transactions {
			if _, err := stmt.Exec(
				string(t.Ward), t.Town, t.PriceMan, t.FloorArea,
				t.BuildingAge, t.WalkMinutes, t.SourceFile,
			); err != nil {
				return fmt.Errorf("failed to insert transaction for %s: %w", t.Ward, err)
			}
		}
		return nil
	})
}

// Count returns the total number of stored transactions.
func (r *Repository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM transactions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

// CountByWard returns the number of stored transactions for one ward.
func (r *Repository) CountByWard(ward domain.Ward) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM transactions WHERE ward = ?`, string(ward)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions for %s: %w", ward, err)
	}
	return count, nil
}

// RequireDataset verifies historical records exist for the ward.
// Returns MissingDatasetError when the ward has no records, so evaluations
// can abort with a user-visible error naming the district.
func (r *Repository) RequireDataset(ward domain.Ward) error {
	count, err := r.CountByWard(ward)
	if err != nil {
		return err
	}
	if count == 0 {
		return &MissingDatasetError{Ward: ward}
	}
	return nil
}

// Stats computes per-ward summary statistics over the stored records.
func (r *Repository) Stats(ward domain.Ward) (*WardStats, error) {
	rows, err := r.db.Query(`
		SELECT price_man, floor_area, building_age
		FROM transactions WHERE ward = ?
	`, string(ward))
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for %s: %w", ward, err)
	}
	defer rows.Close()

	var prices, unitPrices, ages []float64
	for rows.Next() {
		var price, area float64
		var age int
		if err := rows.Scan(&price, &area, &age); err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		prices = append(prices, price)
		if area > 0 {
			unitPrices = append(unitPrices, price/area)
		}
		ages = append(ages, float64(age))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("transaction row iteration failed: %w", err)
	}

	if len(prices) == 0 {
		return nil, &MissingDatasetError{Ward: ward}
	}

	// stat.Quantile requires sorted input
	sorted := append([]float64(nil), prices...)
	sort.Float64s(sorted)

	return &WardStats{
		Ward:             ward,
		Count:            len(prices),
		MeanPriceMan:     stat.Mean(prices, nil),
		MedianPriceMan:   stat.Quantile(0.5, stat.Empirical, sorted, nil),
		MeanUnitPriceMan: stat.Mean(unitPrices, nil),
		MeanAge:          stat.Mean(ages, nil),
	}, nil
}
