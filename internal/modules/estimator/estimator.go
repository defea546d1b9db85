// Package estimator provides the trained price prediction model.
//
// The model itself is an opaque, pre-trained regression artifact fitted
// offline on historical transaction records. This package only loads it,
// validates it, and exposes a deterministic Predict capability. Training
// is out of scope; the artifact is an external input to the system.
package estimator

import (
	"errors"
	"fmt"

	"github.com/estatelab/wardnavi/internal/domain"
)

// ErrMissingArtifact indicates the estimator artifact file is absent or
// unreadable at load time. This is a session-level condition: the host keeps
// running and valuation requests surface the error to the user.
var ErrMissingArtifact = errors.New("price estimator artifact missing or unreadable")

// PredictionError wraps a failure during a single prediction. It is caught
// at the evaluation boundary and converted to a user-visible message; it
// must never propagate as a raw fault to the presentation layer.
type PredictionError struct {
	Reason string
	Err    error
}

func (e *PredictionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("prediction failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("prediction failed: %s", e.Reason)
}

func (e *PredictionError) Unwrap() error {
	return e.Err
}

// Features is the input vector for one prediction.
//
// Ward and Town are unordered category tokens. The model splits on set
// membership, never on token ordering, so "adachi" and "chiyoda" carry no
// implied ranking. Brand is an optional flag feature used by the richer
// model variant; the simple 3-feature variant ignores it.
type Features struct {
	FloorArea   float64     // exclusive floor area in square meters
	BuildingAge float64     // building age in years (may be fractional)
	WalkMinutes float64     // walk time to the nearest station
	Ward        domain.Ward // category token, one of the 23 wards
	Town        string      // optional locality token within the ward
	Brand       bool        // optional developer-brand flag
}

// Estimator predicts a market price in man-yen for a feature vector.
//
// Implementations must be deterministic for fixed inputs and safe for
// concurrent use: the model is loaded once per process and shared read-only
// across evaluations.
type Estimator interface {
	Predict(f Features) (float64, error)
}
