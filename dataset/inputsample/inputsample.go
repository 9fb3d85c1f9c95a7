/*
Package inputsample provides an implementation of feature.Sample whose
values are read from an io.Reader, one per line, as they are needed.
*/
package inputsample

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/pbanos/herbarium/feature"
	"github.com/pkg/errors"
)

/*
FeatureValueRequester represents a way to ask
for feature values and reject the given values.
*/
type FeatureValueRequester interface {
	RequestValueFor(feature.Feature) error
	RejectValueFor(feature.Feature, interface{}) error
}

type readSample struct {
	obtainedValues        map[string]interface{}
	undefinedValue        string
	scanner               *bufio.Scanner
	featureValueRequester FeatureValueRequester
	features              []feature.Feature
}

/*
New takes an io.Reader, a slice of features, a FeatureValueRequester and an
undefinedValue coding string and returns a feature.Sample.

The returned Sample ValueFor method reads feature values first requesting
them with the given FeatureValueRequester and then parsing the values from
the reader. Each value is expected on its own line, surrounding whitespace
ignored, and a line holding the undefinedValue string is read as a missing
value. Values are read once and remembered.

For a feature.ContinuousFeature, lines are read until one holds a valid
float64 number. For a feature.DiscreteFeature, lines are read until one holds
one of its available values. Any line is a valid value for a
feature.StringFeature. Rejected lines are reported with the
FeatureValueRequester's RejectValueFor method.

Attempting to obtain a value for a feature not in the given features slice
returns an error.
*/
func New(r io.Reader, features []feature.Feature, featureValueRequester FeatureValueRequester, undefinedValue string) feature.Sample {
	scanner := bufio.NewScanner(r)
	return &readSample{make(map[string]interface{}), undefinedValue, scanner, featureValueRequester, features}
}

func (rs *readSample) ValueFor(ctx context.Context, f feature.Feature) (interface{}, error) {
	value, ok := rs.obtainedValues[f.Name()]
	if ok {
		return value, nil
	}
	var featureWithInfo feature.Feature
	for _, feature := range rs.features {
		if f.Name() == feature.Name() {
			featureWithInfo = feature
		}
	}
	if featureWithInfo == nil {
		return nil, errors.Errorf("have no information about feature %s, do not know how to read its value", f.Name())
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	err := rs.featureValueRequester.RequestValueFor(featureWithInfo)
	if err != nil {
		return nil, err
	}
	value, err = rs.readValue(featureWithInfo)
	if err != nil {
		return nil, err
	}
	rs.obtainedValues[f.Name()] = value
	return value, nil
}

func (rs *readSample) readValue(f feature.Feature) (interface{}, error) {
	for rs.scanner.Scan() {
		line := strings.TrimSpace(rs.scanner.Text())
		if line == rs.undefinedValue {
			return nil, nil
		}
		if v, ok := parseValue(f, line); ok {
			return v, nil
		}
		if err := rs.featureValueRequester.RejectValueFor(f, line); err != nil {
			return nil, err
		}
	}
	if err := rs.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, errors.Errorf("EOF when requesting value for %s", f.Name())
}

func parseValue(f feature.Feature, line string) (interface{}, bool) {
	switch f := f.(type) {
	case *feature.ContinuousFeature:
		value, err := strconv.ParseFloat(line, 64)
		return value, err == nil
	case *feature.DiscreteFeature:
		return line, f.Index(line) >= 0
	case *feature.StringFeature:
		return line, true
	}
	return nil, false
}
