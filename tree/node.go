package tree

import (
	"github.com/pbanos/herbarium/feature"
)

/*
Node is a node of the tree
*/
type Node struct {
	// An ID to identify the node
	ID string
	// The ID for the parent of the node in the tree
	ParentID string
	// An slice with the IDs of the nodes directly under this node
	SubtreeIDs []string
	// The prediction for samples reaching this node. Leaves must have one,
	// inner nodes may have one for samples that satisfy no subtree criterion.
	Prediction *Prediction
	// The constraint on the parent's SubtreeFeature that, when satisfied by
	// the sample being classified, selects this node to continue the walk
	// (unless it is an undefined criterion, then it is only taken when no
	// sibling criterion is satisfied).
	FeatureCriterion feature.Criterion
	// The feature on which nodes directly under this node impose a
	// constraint, nil for leaves.
	SubtreeFeature feature.Feature
}
