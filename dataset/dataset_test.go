package dataset

import (
	"context"
	"testing"

	"github.com/pbanos/herbarium/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWeather(t *testing.T) *Dataset {
	d, err := New("weather", []feature.Feature{
		feature.NewDiscreteFeature("outlook", []string{"sunny", "rainy"}),
		feature.NewContinuousFeature("temperature"),
		feature.NewDiscreteFeature("play", []string{"yes", "no"}),
	})
	require.NoError(t, err)
	require.NoError(t, d.SetClassIndex(2))
	_, err = d.Add([]interface{}{"sunny", 30.0, nil})
	require.NoError(t, err)
	_, err = d.Add([]interface{}{"rainy", nil, "no"})
	require.NoError(t, err)
	return d
}

func TestNewRejectsDuplicateFeatures(t *testing.T) {
	_, err := New("r", []feature.Feature{feature.NewContinuousFeature("a"), feature.NewStringFeature("a")})
	assert.Error(t, err)
}

func TestAddValidatesValues(t *testing.T) {
	d := newWeather(t)
	_, err := d.Add([]interface{}{"cloudy", 1.0, nil})
	assert.Error(t, err)
	_, err = d.Add([]interface{}{"sunny", 1.0})
	assert.Error(t, err)
	assert.Equal(t, 2, d.Len())
}

func TestClassFeature(t *testing.T) {
	d := newWeather(t)
	assert.Equal(t, "play", d.ClassFeature().Name())
	assert.Error(t, d.SetClassIndex(3))
	require.NoError(t, d.SetClassIndex(-1))
	assert.Nil(t, d.ClassFeature())
}

func TestValueFor(t *testing.T) {
	d := newWeather(t)
	ctx := context.Background()
	v, err := d.Sample(0).ValueFor(ctx, feature.NewContinuousFeature("temperature"))
	require.NoError(t, err)
	assert.Equal(t, 30.0, v)
	v, err = d.Sample(1).ValueFor(ctx, feature.NewContinuousFeature("temperature"))
	require.NoError(t, err)
	assert.Nil(t, v)
	_, err = d.Sample(0).ValueFor(ctx, feature.NewContinuousFeature("humidity"))
	assert.Error(t, err)
}

func TestCopyIsIndependent(t *testing.T) {
	d := newWeather(t)
	c := d.Copy()

	require.NoError(t, c.Sample(0).SetValue(2, "yes"))
	require.NoError(t, c.AppendFeature(feature.NewContinuousFeature("yes_distribution")))
	require.NoError(t, c.Sample(0).SetValue(3, 0.75))

	assert.Nil(t, d.Sample(0).Value(2))
	assert.Len(t, d.Features(), 3)
	assert.Len(t, d.Sample(0).Values(), 3)
	assert.Equal(t, -1, d.FeatureIndex("yes_distribution"))

	assert.Equal(t, "yes", c.Sample(0).Value(2))
	assert.Equal(t, 0.75, c.Sample(0).Value(3))
	assert.Nil(t, c.Sample(1).Value(3))
	assert.Equal(t, 3, c.FeatureIndex("yes_distribution"))
	assert.Equal(t, 2, c.ClassIndex())
}

func TestSetValueValidates(t *testing.T) {
	d := newWeather(t)
	assert.Error(t, d.Sample(0).SetValue(2, "maybe"))
	assert.Error(t, d.Sample(0).SetValue(1, "hot"))
	assert.Error(t, d.Sample(0).SetValue(5, nil))
}

func TestAppendFeatureRejectsDuplicates(t *testing.T) {
	d := newWeather(t)
	assert.Error(t, d.AppendFeature(feature.NewContinuousFeature("outlook")))
}

func TestSetClassFeature(t *testing.T) {
	d := newWeather(t)
	require.NoError(t, d.SetClassFeature(feature.NewContinuousFeature("temperature")))
	assert.Equal(t, 1, d.ClassIndex())

	windy := feature.NewDiscreteFeature("windy", []string{"true", "false"})
	require.NoError(t, d.SetClassFeature(windy))
	assert.Equal(t, 3, d.ClassIndex())
	assert.Same(t, windy, d.ClassFeature())
	assert.Nil(t, d.Sample(1).Value(3))
}
