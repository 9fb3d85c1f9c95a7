package inputsample

import (
	"context"
	"strings"
	"testing"

	"github.com/pbanos/herbarium/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRequester struct {
	requested []string
	rejected  []interface{}
}

func (rr *recordingRequester) RequestValueFor(f feature.Feature) error {
	rr.requested = append(rr.requested, f.Name())
	return nil
}

func (rr *recordingRequester) RejectValueFor(_ feature.Feature, v interface{}) error {
	rr.rejected = append(rr.rejected, v)
	return nil
}

var (
	length = feature.NewContinuousFeature("length")
	colour = feature.NewDiscreteFeature("colour", []string{"red", "blue"})
	note   = feature.NewStringFeature("note")
)

func TestValueFor(t *testing.T) {
	ctx := context.Background()
	rr := &recordingRequester{}
	s := New(strings.NewReader("long\n 4.5 \ngreen\nblue\n?\n"), []feature.Feature{length, colour, note}, rr, "?")

	v, err := s.ValueFor(ctx, length)
	require.NoError(t, err)
	assert.Equal(t, 4.5, v)
	v, err = s.ValueFor(ctx, colour)
	require.NoError(t, err)
	assert.Equal(t, "blue", v)
	v, err = s.ValueFor(ctx, note)
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = s.ValueFor(ctx, length)
	require.NoError(t, err)
	assert.Equal(t, 4.5, v)
	assert.Equal(t, []string{"length", "colour", "note"}, rr.requested)
	assert.Equal(t, []interface{}{"long", "green"}, rr.rejected)
}

func TestValueForErrors(t *testing.T) {
	ctx := context.Background()
	s := New(strings.NewReader("long\n"), []feature.Feature{length}, &recordingRequester{}, "?")
	_, err := s.ValueFor(ctx, colour)
	assert.Error(t, err)
	_, err = s.ValueFor(ctx, length)
	assert.EqualError(t, err, "EOF when requesting value for length")
}
