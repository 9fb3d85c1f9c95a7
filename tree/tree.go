/*
Package tree provides decision trees that classify samples by walking from
their root node down the branches whose criteria the samples satisfy,
until reaching a node with a prediction.
*/
package tree

import (
	"context"
	"fmt"
	"strings"

	"github.com/pbanos/herbarium/feature"
	"github.com/pkg/errors"
)

// Tree represents a decision tree. It is composed of a
// NodeStore where all its nodes are stored, the id for the
// root node of the tree and the label it is able to
// predict.
type Tree struct {
	NodeStore
	RootID string
	Label  feature.Feature
}

// New takes the ID for the root Node, a NodeStore and a label feature and
// returns a tree composed of the nodes in the NodeStore connected to the
// node with the given root ID that predicts the given feature.
func New(rootID string, nodeStore NodeStore, label feature.Feature) *Tree {
	return &Tree{nodeStore, rootID, label}
}

/*
Predict takes a sample and returns the prediction of the node it reaches
according to the tree, or an error if the prediction could not be made.

On every node the sample moves to the first subtree whose criterion it
satisfies. A subtree with an undefined criterion is only taken when no
other subtree criterion is satisfied.
*/
func (t *Tree) Predict(ctx context.Context, s feature.Sample) (*Prediction, error) {
	if t == nil {
		return nil, errors.New("nil tree cannot predict samples")
	}
	n, err := t.Get(ctx, t.RootID)
	if err != nil {
		return nil, errors.Wrapf(err, "predicting sample: retrieving node %v", t.RootID)
	}
	if n == nil {
		return nil, errors.Errorf("predicting sample: root node %v not found", t.RootID)
	}
	for n.SubtreeFeature != nil {
		var selectedNode *Node
		for _, nID := range n.SubtreeIDs {
			subnode, err := t.Get(ctx, nID)
			if err != nil {
				return nil, errors.Wrapf(err, "predicting sample: retrieving node %v", nID)
			}
			if subnode == nil {
				return nil, errors.Errorf("predicting sample: node %v not found", nID)
			}
			if subnode.FeatureCriterion == nil {
				continue
			}
			ok, err := subnode.FeatureCriterion.SatisfiedBy(ctx, s)
			if err != nil {
				return nil, err
			}
			if ok {
				selectedNode = subnode
				if _, ok = subnode.FeatureCriterion.(feature.UndefinedCriterion); !ok {
					break
				}
			}
		}
		if selectedNode == nil {
			if n.Prediction != nil {
				return n.Prediction, nil
			}
			return nil, errors.Wrapf(ErrCannotPredictFromSample, "no subtree criteria satisfied on feature %s", n.SubtreeFeature.Name())
		}
		n = selectedNode
	}
	if n.Prediction != nil {
		return n.Prediction, nil
	}
	return nil, ErrCannotPredictFromSample
}

// Traverse takes a context, bottomup boolean and an
// error-returning function that takes a context and a node
// as parameters, and goes through the tree running the
// function with the context and every traversed node.
// Traverse will call the function with a parent node before
// calling it for its children if bottomup is false, and
// call it after its children if bottomup is true.
// If the given context times out or is cancelled, the context
// error is returned. If a node cannot be retrieved from the
// tree's node store, the obtained error is returned. If the
// call to the function returns an error, the traversing is
// aborted and the error is returned. Otherwise, when the
// traversing is over, nil is returned.
func (t *Tree) Traverse(ctx context.Context, bottomup bool, f func(context.Context, *Node) error) error {
	n, err := t.NodeStore.Get(ctx, t.RootID)
	if err != nil {
		return err
	}
	if n == nil {
		return errors.Errorf("root node %v not found", t.RootID)
	}
	return t.traverse(ctx, n, bottomup, f)
}

func (t *Tree) traverse(ctx context.Context, n *Node, bottomup bool, f func(context.Context, *Node) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !bottomup {
		if err := f(ctx, n); err != nil {
			return err
		}
	}
	for _, snID := range n.SubtreeIDs {
		sn, err := t.NodeStore.Get(ctx, snID)
		if err != nil {
			return err
		}
		if sn == nil {
			return errors.Errorf("node %v not found", snID)
		}
		if err = t.traverse(ctx, sn, bottomup, f); err != nil {
			return err
		}
	}
	if bottomup {
		return f(ctx, n)
	}
	return nil
}

func (t *Tree) String() string {
	return t.subtreeString(t.RootID)
}

func (t *Tree) subtreeString(nodeID string) string {
	n, err := t.NodeStore.Get(context.TODO(), nodeID)
	if err != nil {
		return fmt.Sprintf("ERROR: %s\n", err.Error())
	}
	if n == nil {
		return fmt.Sprintf("ERROR: node %s not found\n", nodeID)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[%s]\n", nodeID)
	if n.FeatureCriterion != nil {
		fmt.Fprintf(&b, "{ %v }\n", n.FeatureCriterion)
	}
	if n.Prediction != nil {
		fmt.Fprintf(&b, "{ %v }\n", n.Prediction)
	}
	if len(n.SubtreeIDs) > 0 {
		b.WriteString("|\n")
	} else {
		b.WriteString(" \n")
	}
	for i, subtreeID := range n.SubtreeIDs {
		for j, line := range strings.Split(t.subtreeString(subtreeID), "\n") {
			if len(line) == 0 {
				continue
			}
			switch {
			case j == 0:
				fmt.Fprintf(&b, "|__%s\n", line)
			case i == len(n.SubtreeIDs)-1:
				fmt.Fprintf(&b, "   %s\n", line)
			default:
				fmt.Fprintf(&b, "|  %s\n", line)
			}
		}
	}
	return b.String()
}
