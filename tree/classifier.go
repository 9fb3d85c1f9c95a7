package tree

import (
	"context"

	"github.com/pbanos/herbarium/classifier"
	"github.com/pbanos/herbarium/feature"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Classifier is a classifier.Classifier backed by a decision tree.
type Classifier struct {
	tree   *Tree
	schema *classifier.Schema
}

// NewClassifier takes a tree and the schema it was trained on and returns
// a Classifier, or an error if the tree does not predict the schema label.
func NewClassifier(t *Tree, schema *classifier.Schema) (*Classifier, error) {
	if t.Label == nil || t.Label.Name() != schema.Label.Name() {
		return nil, errors.Errorf("tree does not predict label %s", schema.Label.Name())
	}
	return &Classifier{t, schema}, nil
}

// Schema returns the schema of the classifier.
func (c *Classifier) Schema() *classifier.Schema {
	return c.schema
}

// Tree returns the decision tree of the classifier.
func (c *Classifier) Tree() *Tree {
	return c.tree
}

/*
Distribution returns the probabilities of the prediction the tree makes for
the sample, in label order. Probabilities are normalised over the labels of
the schema, and an error is returned if none of them is predicted.
*/
func (c *Classifier) Distribution(ctx context.Context, s feature.Sample) ([]float64, error) {
	p, err := c.tree.Predict(ctx, s)
	if err != nil {
		return nil, err
	}
	labels := c.schema.Labels()
	d := make([]float64, len(labels))
	for i, l := range labels {
		d[i] = p.ProbabilityOf(l)
	}
	sum := floats.Sum(d)
	if sum <= 0 {
		return nil, errors.Wrapf(ErrCannotPredictFromSample, "prediction %v has no known label", p)
	}
	floats.Scale(1/sum, d)
	return d, nil
}

// Classify returns the index of the most probable label, the lowest one on
// ties.
func (c *Classifier) Classify(ctx context.Context, s feature.Sample) (int, error) {
	d, err := c.Distribution(ctx, s)
	if err != nil {
		return 0, err
	}
	return floats.MaxIdx(d), nil
}
