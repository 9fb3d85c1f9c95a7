/*
Package json encodes and decodes feature.Criterion values as JSON, the way
they appear on the nodes of serialized trees.
*/
package json

import (
	"encoding/json"
	"strconv"

	"github.com/pbanos/herbarium/feature"
	"github.com/pkg/errors"
)

/*
CriteriaEncodeDecoder is an interface for objects
that allow encoding criteria into slices of
bytes and decoding them back to criteria.
*/
type CriteriaEncodeDecoder interface {

	//Encode receives a feature.Criterion
	//and returns a slice of bytes with the criterion
	//encoded or an error if the encoding could not
	//be performed for some reason.
	Encode(feature.Criterion) ([]byte, error)

	//Decode receives a slice of bytes
	//and returns a feature.Criterion decoded from the
	//slice of bytes or an error if the decoding
	//could not be performed for some reason.
	Decode([]byte) (feature.Criterion, error)
}

type jsonCriteriaEncodeDecoder []feature.Feature

type jsonCriterion struct {
	Type    string `json:"t"`
	Feature string `json:"f"`
	Value   string `json:"v,omitempty"`
	A       string `json:"a,omitempty"`
	B       string `json:"b,omitempty"`
}

// NewCriteriaEncodeDecoder takes a slice of feature.Feature and returns a
// CriteriaEncodeDecoder that marshals and unmarshals
// criteria into/from slices of bytes as JSON.
// Specifically, criteria are encoded as a JSON object
// with a "f" property set to the name of the feature
// of the criteria and a "t" property that can be one of
// "continuous", "discrete" or "undefined":
//   - If the criteria is continuous it will have "a" and "b"
//     properties defining the start and end of the interval for
//     the feature ("-Inf" and "+Inf" for open ends)
//   - If the criteria is discrete it will have a "v"
//     property defining the specific value for the feature
//   - If the criteria is undefined it will have no additional
//     properties
func NewCriteriaEncodeDecoder(features []feature.Feature) CriteriaEncodeDecoder {
	return jsonCriteriaEncodeDecoder(features)
}

func (jced jsonCriteriaEncodeDecoder) Encode(fc feature.Criterion) ([]byte, error) {
	jc := &jsonCriterion{Feature: fc.Feature().Name()}
	switch c := fc.(type) {
	case feature.ContinuousCriterion:
		a, b := c.Interval()
		jc.Type = "continuous"
		jc.A = strconv.FormatFloat(a, 'g', -1, 64)
		jc.B = strconv.FormatFloat(b, 'g', -1, 64)
	case feature.DiscreteCriterion:
		jc.Type = "discrete"
		jc.Value = c.Value()
	case feature.UndefinedCriterion:
		jc.Type = "undefined"
	default:
		return nil, errors.Errorf("unknown type of feature.Criterion %T", fc)
	}
	return json.Marshal(jc)
}

func (jced jsonCriteriaEncodeDecoder) Decode(data []byte) (feature.Criterion, error) {
	jc := &jsonCriterion{}
	err := json.Unmarshal(data, jc)
	if err != nil {
		return nil, err
	}
	return jc.criterion(jced)
}

func (jc *jsonCriterion) criterion(features []feature.Feature) (feature.Criterion, error) {
	var f feature.Feature
	for _, feat := range features {
		if feat.Name() == jc.Feature {
			f = feat
			break
		}
	}
	if f == nil {
		return nil, errors.Errorf("unknown feature '%s'", jc.Feature)
	}
	switch jc.Type {
	case "continuous":
		cf, ok := f.(*feature.ContinuousFeature)
		if !ok {
			return nil, errors.Errorf("expected continuous feature for continuous criterion but found %T feature %v", f, f.Name())
		}
		a, err := strconv.ParseFloat(jc.A, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing start of interval on %s", f.Name())
		}
		b, err := strconv.ParseFloat(jc.B, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing end of interval on %s", f.Name())
		}
		return feature.NewContinuousCriterion(cf, a, b), nil
	case "discrete":
		df, ok := f.(*feature.DiscreteFeature)
		if !ok {
			return nil, errors.Errorf("expected discrete feature for discrete criterion but found %T feature %v", f, f.Name())
		}
		if df.Index(jc.Value) < 0 {
			return nil, errors.Errorf("discrete criterion on %s refers to unknown value %q", f.Name(), jc.Value)
		}
		return feature.NewDiscreteCriterion(df, jc.Value), nil
	case "undefined":
		return feature.NewUndefinedCriterion(f), nil
	}
	return nil, errors.Errorf("unknown feature criterion type '%s'", jc.Type)
}
