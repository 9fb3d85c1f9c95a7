package herbarium

import (
	"github.com/pbanos/herbarium/classifier"
	"github.com/pbanos/herbarium/dataset"
	"github.com/pbanos/herbarium/feature"
	"github.com/pkg/errors"
)

// SchemaError is the type of the errors returned by CheckSchema.
type SchemaError string

// ErrSchemaMismatch is the cause of every error returned by CheckSchema.
const ErrSchemaMismatch = SchemaError("dataset does not match the model schema")

func (se SchemaError) Error() string {
	return string(se)
}

/*
CheckSchema takes a dataset and a classifier schema and returns an error
wrapping ErrSchemaMismatch unless:
  - the dataset has a class feature,
  - the class feature is discrete with exactly the labels of the schema, in
    the same order,
  - every input feature of the schema is present on the dataset by name and
    has the same kind; a discrete feature of the dataset may only declare
    values the schema declares for it.

Extra features on the dataset are ignored.
*/
func CheckSchema(ds *dataset.Dataset, schema *classifier.Schema) error {
	cf := ds.ClassFeature()
	if cf == nil {
		return errors.Wrap(ErrSchemaMismatch, "no class attribute set")
	}
	dcf, ok := cf.(*feature.DiscreteFeature)
	if !ok {
		return errors.Wrapf(ErrSchemaMismatch, "class attribute %s is not nominal", cf.Name())
	}
	labels := schema.Labels()
	values := dcf.AvailableValues()
	if len(values) != len(labels) {
		return errors.Wrapf(ErrSchemaMismatch, "class attribute %s has %d values, model predicts %d labels", cf.Name(), len(values), len(labels))
	}
	for i, l := range labels {
		if values[i] != l {
			return errors.Wrapf(ErrSchemaMismatch, "class attribute %s value %d is %q, expected %q", cf.Name(), i+1, values[i], l)
		}
	}
	for _, f := range schema.Features {
		i := ds.FeatureIndex(f.Name())
		if i < 0 {
			return errors.Wrapf(ErrSchemaMismatch, "missing attribute %s", f.Name())
		}
		if i == ds.ClassIndex() {
			return errors.Wrapf(ErrSchemaMismatch, "attribute %s is the class attribute", f.Name())
		}
		if !feature.SameKind(ds.Feature(i), f) {
			return errors.Wrapf(ErrSchemaMismatch, "attribute %s does not have the type or values the model expects", f.Name())
		}
	}
	return nil
}
