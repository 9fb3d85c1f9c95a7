/*
Package dataset provides an in-memory table of samples described by an
ordered list of features, one of which may be designated as the class.
*/
package dataset

import (
	"github.com/pbanos/herbarium/feature"
	"github.com/pkg/errors"
)

/*
Dataset represents an ordered collection of samples sharing the same
features. Feature types are fixed when the dataset is created; features
can only be appended afterwards.
*/
type Dataset struct {
	relation   string
	features   []feature.Feature
	index      map[string]int
	classIndex int
	samples    []*Sample
}

/*
New takes a relation name and a slice of features and returns an empty
dataset with them and no class feature. It returns an error if two features
share the same name.
*/
func New(relation string, features []feature.Feature) (*Dataset, error) {
	d := &Dataset{
		relation:   relation,
		features:   make([]feature.Feature, 0, len(features)),
		index:      make(map[string]int, len(features)),
		classIndex: -1,
	}
	for _, f := range features {
		if err := d.addFeature(f); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Relation returns the name of the relation the dataset holds.
func (d *Dataset) Relation() string {
	return d.relation
}

// Features returns the features of the dataset in column order. The
// returned slice must not be modified.
func (d *Dataset) Features() []feature.Feature {
	return d.features
}

// Feature returns the feature at the i-th column.
func (d *Dataset) Feature(i int) feature.Feature {
	return d.features[i]
}

// FeatureIndex returns the column of the feature with the given name, or -1
// if the dataset has no such feature.
func (d *Dataset) FeatureIndex(name string) int {
	i, ok := d.index[name]
	if !ok {
		return -1
	}
	return i
}

// ClassIndex returns the column of the class feature, -1 if none is set.
func (d *Dataset) ClassIndex() int {
	return d.classIndex
}

// SetClassIndex designates the feature at column i as the class feature.
func (d *Dataset) SetClassIndex(i int) error {
	if i < -1 || i >= len(d.features) {
		return errors.Errorf("class index %d out of range for %d features", i, len(d.features))
	}
	d.classIndex = i
	return nil
}

/*
SetClassFeature designates the column named like the given feature as
the class. If the dataset has no such column, the feature is appended
with missing values first.
*/
func (d *Dataset) SetClassFeature(f feature.Feature) error {
	i := d.FeatureIndex(f.Name())
	if i < 0 {
		if err := d.AppendFeature(f); err != nil {
			return err
		}
		i = len(d.features) - 1
	}
	return d.SetClassIndex(i)
}

// ClassFeature returns the class feature or nil if none has been set.
func (d *Dataset) ClassFeature() feature.Feature {
	if d.classIndex < 0 {
		return nil
	}
	return d.features[d.classIndex]
}

// Len returns the number of samples in the dataset.
func (d *Dataset) Len() int {
	return len(d.samples)
}

// Sample returns the i-th sample of the dataset.
func (d *Dataset) Sample(i int) *Sample {
	return d.samples[i]
}

// Samples returns the samples of the dataset in order. The returned
// slice must not be modified.
func (d *Dataset) Samples() []*Sample {
	return d.samples
}

/*
Add takes a slice with one value per feature, validates each value
against its feature and appends a sample with them to the dataset.
The slice is retained by the sample.
*/
func (d *Dataset) Add(values []interface{}) (*Sample, error) {
	if len(values) != len(d.features) {
		return nil, errors.Errorf("sample has %d values, expected %d", len(values), len(d.features))
	}
	for i, v := range values {
		if ok, err := d.features[i].Valid(v); !ok {
			return nil, errors.Wrapf(err, "invalid value %v for feature %s", v, d.features[i].Name())
		}
	}
	s := &Sample{dataset: d, values: values}
	d.samples = append(d.samples, s)
	return s, nil
}

/*
AppendFeature adds a new last column for the given feature, with a
missing value on every existing sample.
*/
func (d *Dataset) AppendFeature(f feature.Feature) error {
	if err := d.addFeature(f); err != nil {
		return err
	}
	for _, s := range d.samples {
		s.values = append(s.values, nil)
	}
	return nil
}

/*
Copy returns a deep copy of the dataset: modifying samples or features of
the copy leaves the original untouched. Features themselves are immutable
and shared.
*/
func (d *Dataset) Copy() *Dataset {
	c := &Dataset{
		relation:   d.relation,
		features:   append([]feature.Feature(nil), d.features...),
		index:      make(map[string]int, len(d.index)),
		classIndex: d.classIndex,
		samples:    make([]*Sample, len(d.samples)),
	}
	for k, v := range d.index {
		c.index[k] = v
	}
	for i, s := range d.samples {
		c.samples[i] = &Sample{dataset: c, values: append([]interface{}(nil), s.values...)}
	}
	return c
}

func (d *Dataset) addFeature(f feature.Feature) error {
	if _, ok := d.index[f.Name()]; ok {
		return errors.Errorf("duplicate feature %s", f.Name())
	}
	d.index[f.Name()] = len(d.features)
	d.features = append(d.features, f)
	return nil
}
