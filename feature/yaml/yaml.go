/*
Package yaml provides methods to parse feature.Feature specifications
also known as metadata, from YAML documents.

A feature specification is a mapping with a property for each feature with
its name and either a string value of 'continuous' for continuous features
or a list of valid values for discrete features.
*/
package yaml

import (
	"fmt"

	"github.com/pbanos/herbarium/feature"
	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// ContinuousType is the value that declares a continuous feature.
const ContinuousType = "continuous"

/*
ParseFeatures takes an already unmarshalled yaml.MapSlice of feature
declarations and returns the features it declares, in order.
*/
func ParseFeatures(declarations yaml.MapSlice) ([]feature.Feature, error) {
	features := make([]feature.Feature, 0, len(declarations))
	seen := make(map[string]bool)
	for _, item := range declarations {
		fn := fmt.Sprintf("%v", item.Key)
		if seen[fn] {
			return nil, errors.Errorf("feature %s declared twice", fn)
		}
		seen[fn] = true
		switch values := item.Value.(type) {
		case string:
			if values != ContinuousType {
				return nil, errors.Errorf("invalid declaration %q for feature %s", values, fn)
			}
			features = append(features, feature.NewContinuousFeature(fn))
		case []interface{}:
			if len(values) == 0 {
				return nil, errors.Errorf("discrete feature %s declares no values", fn)
			}
			stringVs := make([]string, 0, len(values))
			for _, v := range values {
				stringVs = append(stringVs, fmt.Sprintf("%v", v))
			}
			features = append(features, feature.NewDiscreteFeature(fn, stringVs))
		default:
			return nil, errors.Errorf("invalid feature declaration of type %T", item.Value)
		}
	}
	return features, nil
}
