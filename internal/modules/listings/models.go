// Package listings manages the historical condo transaction records the
// price estimator was trained on. The records are bulk-loaded from per-ward
// CSV exports at startup and treated as read-only reference data afterwards.
package listings

import (
	"fmt"

	"github.com/estatelab/wardnavi/internal/domain"
)

// Transaction is one parsed historical sale record.
type Transaction struct {
	Ward        domain.Ward `json:"ward"`
	Town        string      `json:"town"`
	PriceMan    float64     `json:"price_man"`    // transaction price, man-yen
	FloorArea   float64     `json:"floor_area"`   // square meters
	BuildingAge int         `json:"building_age"` // years at transaction time
	WalkMinutes int         `json:"walk_minutes"`
	SourceFile  string      `json:"source_file,omitempty"`
}

// MissingDatasetError indicates no historical records exist for a ward.
// Evaluations for that ward abort with a user-visible error naming the
// district; no partial output is produced.
type MissingDatasetError struct {
	Ward domain.Ward
}

func (e *MissingDatasetError) Error() string {
	return fmt.Sprintf("no historical transaction records for ward %s (%s)", e.Ward, e.Ward.JapaneseName())
}

// WardStats summarizes the stored transactions of one ward.
type WardStats struct {
	Ward             domain.Ward `json:"ward"`
	Count            int         `json:"count"`
	MeanPriceMan     float64     `json:"mean_price_man"`
	MedianPriceMan   float64     `json:"median_price_man"`
	MeanUnitPriceMan float64     `json:"mean_unit_price_man"` // man-yen per square meter
	MeanAge          float64     `json:"mean_age"`
}
