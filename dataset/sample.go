package dataset

import (
	"context"
	"fmt"

	"github.com/pbanos/herbarium/feature"
	"github.com/pkg/errors"
)

/*
Sample represents a row of a dataset: one value per feature of the dataset,
nil for missing ones. It implements feature.Sample so that classifiers can
look up its values by feature name.
*/
type Sample struct {
	dataset *Dataset
	values  []interface{}
}

/*
ValueFor returns the value of the sample for the feature of the dataset
with the same name as the given one. It returns an error if the dataset
has no such feature.
*/
func (s *Sample) ValueFor(_ context.Context, f feature.Feature) (interface{}, error) {
	i := s.dataset.FeatureIndex(f.Name())
	if i < 0 {
		return nil, errors.Errorf("sample has no value for unknown feature %s", f.Name())
	}
	return s.values[i], nil
}

// Value returns the value of the sample at the i-th column.
func (s *Sample) Value(i int) interface{} {
	return s.values[i]
}

// Values returns the values of the sample in column order. The returned
// slice must not be modified.
func (s *Sample) Values() []interface{} {
	return s.values
}

// SetValue validates the value against the feature at the i-th column and
// sets it on the sample.
func (s *Sample) SetValue(i int, v interface{}) error {
	if i < 0 || i >= len(s.values) {
		return errors.Errorf("column %d out of range for %d features", i, len(s.values))
	}
	f := s.dataset.features[i]
	if ok, err := f.Valid(v); !ok {
		return errors.Wrapf(err, "setting value %v for feature %s", v, f.Name())
	}
	s.values[i] = v
	return nil
}

func (s *Sample) String() string {
	return fmt.Sprintf("%v", s.values)
}
