package json

import (
	"math"
	"testing"

	"github.com/pbanos/herbarium/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	length := feature.NewContinuousFeature("length")
	colour := feature.NewDiscreteFeature("colour", []string{"red", "green"})
	ced := NewCriteriaEncodeDecoder([]feature.Feature{length, colour})

	data, err := ced.Encode(feature.NewContinuousCriterion(length, math.Inf(-1), 2.45))
	require.NoError(t, err)
	assert.JSONEq(t, `{"t":"continuous","f":"length","a":"-Inf","b":"2.45"}`, string(data))
	c, err := ced.Decode(data)
	require.NoError(t, err)
	cc, ok := c.(feature.ContinuousCriterion)
	require.True(t, ok)
	a, b := cc.Interval()
	assert.True(t, math.IsInf(a, -1))
	assert.Equal(t, 2.45, b)
	assert.Same(t, length, cc.Feature())

	data, err = ced.Encode(feature.NewDiscreteCriterion(colour, "green"))
	require.NoError(t, err)
	c, err = ced.Decode(data)
	require.NoError(t, err)
	dc, ok := c.(feature.DiscreteCriterion)
	require.True(t, ok)
	assert.Equal(t, "green", dc.Value())

	data, err = ced.Encode(feature.NewUndefinedCriterion(colour))
	require.NoError(t, err)
	c, err = ced.Decode(data)
	require.NoError(t, err)
	_, ok = c.(feature.UndefinedCriterion)
	assert.True(t, ok)
}

func TestDecodeErrors(t *testing.T) {
	length := feature.NewContinuousFeature("length")
	colour := feature.NewDiscreteFeature("colour", []string{"red", "green"})
	ced := NewCriteriaEncodeDecoder([]feature.Feature{length, colour})

	for name, doc := range map[string]string{
		"unknown feature": `{"t":"undefined","f":"width"}`,
		"unknown type":    `{"t":"fuzzy","f":"length"}`,
		"kind mismatch":   `{"t":"discrete","f":"length","v":"red"}`,
		"unknown value":   `{"t":"discrete","f":"colour","v":"blue"}`,
		"bad interval":    `{"t":"continuous","f":"length","a":"x","b":"1"}`,
		"not json":        `{`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ced.Decode([]byte(doc))
			assert.Error(t, err)
		})
	}
}
