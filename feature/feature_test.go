package feature

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapSample map[string]interface{}

func (ms mapSample) ValueFor(_ context.Context, f Feature) (interface{}, error) {
	return ms[f.Name()], nil
}

func TestValid(t *testing.T) {
	colour := NewDiscreteFeature("colour", []string{"red", "green"})
	length := NewContinuousFeature("length")
	note := NewStringFeature("note")

	tcs := []struct {
		name  string
		f     Feature
		value interface{}
		valid bool
	}{
		{"discrete known", colour, "green", true},
		{"discrete unknown", colour, "blue", false},
		{"discrete wrong type", colour, 1.0, false},
		{"discrete missing", colour, nil, true},
		{"continuous", length, 2.5, true},
		{"continuous wrong type", length, "2.5", false},
		{"continuous missing", length, nil, true},
		{"string", note, "anything", true},
		{"string wrong type", note, 3.0, false},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := tc.f.Valid(tc.value)
			assert.Equal(t, tc.valid, ok)
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestDiscreteIndex(t *testing.T) {
	f := NewDiscreteFeature("colour", []string{"red", "green", "blue"})
	assert.Equal(t, 0, f.Index("red"))
	assert.Equal(t, 2, f.Index("blue"))
	assert.Equal(t, -1, f.Index("black"))
}

func TestSameKind(t *testing.T) {
	small := NewDiscreteFeature("c", []string{"a", "b"})
	large := NewDiscreteFeature("c", []string{"a", "b", "c"})
	assert.True(t, SameKind(small, large))
	assert.False(t, SameKind(large, small))
	assert.True(t, SameKind(NewContinuousFeature("x"), NewContinuousFeature("y")))
	assert.False(t, SameKind(NewContinuousFeature("x"), small))
	assert.False(t, SameKind(NewStringFeature("x"), NewContinuousFeature("x")))
}

func TestCriteria(t *testing.T) {
	ctx := context.Background()
	length := NewContinuousFeature("length")
	colour := NewDiscreteFeature("colour", []string{"red", "green"})

	below := NewContinuousCriterion(length, math.Inf(-1), 2)
	between := NewContinuousCriterion(length, 2, 4)
	red := NewDiscreteCriterion(colour, "red")
	undefined := NewUndefinedCriterion(length)

	s := mapSample{"length": 2.0, "colour": "red"}
	ok, err := below.SatisfiedBy(ctx, s)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = between.SatisfiedBy(ctx, s)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = red.SatisfiedBy(ctx, s)
	require.NoError(t, err)
	assert.True(t, ok)

	missing := mapSample{}
	ok, err = between.SatisfiedBy(ctx, missing)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = red.SatisfiedBy(ctx, missing)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = undefined.SatisfiedBy(ctx, missing)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, "length < 2.000000", below.(interface{ String() string }).String())
}
