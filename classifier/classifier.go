/*
Package classifier defines the interface of pre-trained predictors and the
schema describing the samples they take and the labels they predict.
*/
package classifier

import (
	"context"

	"github.com/pbanos/herbarium/feature"
)

/*
Classifier is an immutable, pre-trained predictor.

Classify takes a sample and returns the index of the predicted label among
the values of the schema label.

Distribution takes a sample and returns the probability of every label,
in label order.
*/
type Classifier interface {
	Schema() *Schema
	Classify(ctx context.Context, s feature.Sample) (int, error)
	Distribution(ctx context.Context, s feature.Sample) ([]float64, error)
}

/*
Schema describes the data a classifier was trained on: the relation name,
the input features in training order and the discrete label it predicts.
*/
type Schema struct {
	Relation string
	Features []feature.Feature
	Label    *feature.DiscreteFeature
}

// Labels returns the values of the label in order.
func (s *Schema) Labels() []string {
	return s.Label.AvailableValues()
}

// AllFeatures returns the input features followed by the label.
func (s *Schema) AllFeatures() []feature.Feature {
	return append(append([]feature.Feature(nil), s.Features...), s.Label)
}
