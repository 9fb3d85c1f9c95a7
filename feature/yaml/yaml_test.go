package yaml

import (
	"testing"

	"github.com/pbanos/herbarium/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yaml "gopkg.in/yaml.v2"
)

const metadata = `
sepallength: continuous
colour: [red, green, blue]
petals: [3, 4, 5]
class: [pos, neg]
`

func declarations(t *testing.T, doc string) yaml.MapSlice {
	var ms yaml.MapSlice
	require.NoError(t, yaml.Unmarshal([]byte(doc), &ms))
	return ms
}

func TestParseFeaturesKeepsOrder(t *testing.T) {
	features, err := ParseFeatures(declarations(t, metadata))
	require.NoError(t, err)
	require.Len(t, features, 4)

	names := []string{}
	for _, f := range features {
		names = append(names, f.Name())
	}
	assert.Equal(t, []string{"sepallength", "colour", "petals", "class"}, names)

	assert.IsType(t, &feature.ContinuousFeature{}, features[0])
	colour, ok := features[1].(*feature.DiscreteFeature)
	require.True(t, ok)
	assert.Equal(t, []string{"red", "green", "blue"}, colour.AvailableValues())
	petals := features[2].(*feature.DiscreteFeature)
	assert.Equal(t, []string{"3", "4", "5"}, petals.AvailableValues())
}

func TestParseFeaturesErrors(t *testing.T) {
	tcs := map[string]yaml.MapSlice{
		"bad type":     declarations(t, "a: categorical\n"),
		"empty values": declarations(t, "a: []\n"),
		"nested":       declarations(t, "a: {b: continuous}\n"),
		"duplicate": {
			{Key: "a", Value: ContinuousType},
			{Key: "a", Value: ContinuousType},
		},
	}
	for name, ms := range tcs {
		t.Run(name, func(t *testing.T) {
			_, err := ParseFeatures(ms)
			assert.Error(t, err)
		})
	}
}

func TestParseFeaturesEmpty(t *testing.T) {
	features, err := ParseFeatures(nil)
	require.NoError(t, err)
	assert.Empty(t, features)
}
