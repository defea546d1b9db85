package estimator

import (
	"fmt"
	"os"

	"github.com/vmihailenco/msgpack/v5"
)

// Load reads a trained forest from a msgpack artifact file.
//
// A missing or corrupt file returns ErrMissingArtifact (wrapped) so the
// caller can degrade the feature for the session instead of crashing the
// host process.
func Load(path string) (*Forest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMissingArtifact, path, err)
	}

	var forest Forest
	if err := msgpack.Unmarshal(data, &forest); err != nil {
		return nil, fmt.Errorf("%w: %s: decode: %v", ErrMissingArtifact, path, err)
	}

	if err := forest.validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMissingArtifact, path, err)
	}

	return &forest, nil
}

// Save writes the forest to a msgpack artifact file. The training side uses
// this to produce the artifact the server loads; the server itself never
// writes models.
func Save(path string, forest *Forest) error {
	if err := forest.validate(); err != nil {
		return fmt.Errorf("refusing to save invalid forest: %w", err)
	}

	data, err := msgpack.Marshal(forest)
	if err != nil {
		return fmt.Errorf("failed to encode forest: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write artifact %s: %w", path, err)
	}

	return nil
}
