package estimator

import (
	"fmt"
	"math"
)

// Feature names used by split nodes. The artifact stores these as strings so
// the decoder can reject unknown features instead of misreading them.
const (
	featureArea  = "area"
	featureAge   = "age"
	featureWalk  = "walk"
	featureWard  = "ward"
	featureTown  = "town"
	featureBrand = "brand"
)

// Node is one node of a regression tree.
//
// Interior nodes split either on a numeric threshold (area, age, walk) or on
// categorical set membership (ward, town, brand). Leaf nodes carry the
// predicted price in man-yen.
type Node struct {
	Leaf       bool     `msgpack:"leaf"`
	Value      float64  `msgpack:"value"`      // leaf prediction, man-yen
	Feature    string   `msgpack:"feature"`    // split feature for interior nodes
	Threshold  float64  `msgpack:"threshold"`  // numeric splits: go left when feature <= threshold
	Categories []string `msgpack:"categories"` // categorical splits: go left when token is a member
	Left       int32    `msgpack:"left"`       // index into the tree's node slice
	Right      int32    `msgpack:"right"`
}

// Tree is a single regression tree stored as a flat node slice, root at 0.
type Tree struct {
	Nodes []Node `msgpack:"nodes"`
}

// Forest is the trained ensemble. The prediction is the mean of the per-tree
// leaf values. All state is immutable after load, so Predict is safe to call
// concurrently from multiple evaluations.
type Forest struct {
	Trees     []Tree `msgpack:"trees"`
	TrainedAt string `msgpack:"trained_at"` // informational, set by the training side
	Samples   int    `msgpack:"samples"`    // number of training records, informational
}

// validate checks structural integrity after decode so that a corrupt
// artifact fails at load time rather than mid-evaluation.
func (f *Forest) validate() error {
	if len(f.Trees) == 0 {
		return fmt.Errorf("forest has no trees")
	}
	for ti, tree := range f.Trees {
		if len(tree.Nodes) == 0 {
			return fmt.Errorf("tree %d has no nodes", ti)
		}
		n := int32(len(tree.Nodes))
		for ni, node := range tree.Nodes {
			if node.Leaf {
				continue
			}
			if node.Left < 0 || node.Left >= n || node.Right < 0 || node.Right >= n {
				return fmt.Errorf("tree %d node %d: child index out of range", ti, ni)
			}
			switch node.Feature {
			case featureArea, featureAge, featureWalk, featureWard, featureTown, featureBrand:
			default:
				return fmt.Errorf("tree %d node %d: unknown split feature %q", ti, ni, node.Feature)
			}
		}
	}
	return nil
}

// Predict returns the ensemble mean for the feature vector.
// A non-finite or non-positive output is reported as a PredictionError
// rather than returned as a bogus price.
func (f *Forest) Predict(feat Features) (float64, error) {
	var sum float64
	for ti := range f.Trees {
		v, err := f.Trees[ti].walk(feat)
		if err != nil {
			return 0, &PredictionError{Reason: fmt.Sprintf("tree %d", ti), Err: err}
		}
		sum += v
	}
	price := sum / float64(len(f.Trees))

	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, &PredictionError{Reason: "model produced a non-finite price"}
	}
	if price <= 0 {
		return 0, &PredictionError{Reason: fmt.Sprintf("model produced non-positive price %.2f", price)}
	}
	return price, nil
}

// walk descends from the root to a leaf for the given features.
func (t *Tree) walk(feat Features) (float64, error) {
	idx := int32(0)
	// A tree of N nodes can be at most N deep; anything longer is a cycle.
	for steps := 0; steps <= len(t.Nodes); steps++ {
		node := &t.Nodes[idx]
		if node.Leaf {
			return node.Value, nil
		}
		if node.matches(feat) {
			idx = node.Left
		} else {
			idx = node.Right
		}
	}
	return 0, fmt.Errorf("cycle detected in tree traversal")
}

// matches reports whether the feature vector goes down the left branch.
func (n *Node) matches(feat Features) bool {
	switch n.Feature {
	case featureArea:
		return feat.FloorArea <= n.Threshold
	case featureAge:
		return feat.BuildingAge <= n.Threshold
	case featureWalk:
		return feat.WalkMinutes <= n.Threshold
	case featureWard:
		return containsToken(n.Categories, string(feat.Ward))
	case featureTown:
		return containsToken(n.Categories, feat.Town)
	case featureBrand:
		return feat.Brand
	}
	return false
}

func containsToken(set []string, token string) bool {
	for _, s := range set {
		if s == token {
			return true
		}
	}
	return false
}
