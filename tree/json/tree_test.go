package json

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/pbanos/herbarium/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapSample map[string]interface{}

func (ms mapSample) ValueFor(_ context.Context, f feature.Feature) (interface{}, error) {
	return ms[f.Name()], nil
}

const weatherTree = `{"rootID":"1","label":"play","nodes":[
{"id":"1","stIds":["2","3","4"],"f":"outlook"},
{"id":"2","pId":"1","c":{"t":"discrete","f":"outlook","v":"sunny"},"f":"humidity","stIds":["5","6"]},
{"id":"5","pId":"2","c":{"t":"continuous","f":"humidity","a":"-Inf","b":"70"},"pred":{"probs":{"yes":1},"w":2}},
{"id":"6","pId":"2","c":{"t":"continuous","f":"humidity","a":"70","b":"+Inf"},"pred":{"probs":{"no":1},"w":3}},
{"id":"3","pId":"1","c":{"t":"discrete","f":"outlook","v":"rainy"},"pred":{"probs":{"yes":0.6,"no":0.4},"w":5}},
{"id":"4","pId":"1","c":{"t":"undefined","f":"outlook"},"pred":{"probs":{"yes":0.64,"no":0.36},"w":14}}
]}`

var (
	outlook  = feature.NewDiscreteFeature("outlook", []string{"sunny", "rainy"})
	humidity = feature.NewContinuousFeature("humidity")
	play     = feature.NewDiscreteFeature("play", []string{"yes", "no"})
	features = []feature.Feature{outlook, humidity, play}
)

func TestReadJSONTree(t *testing.T) {
	ctx := context.Background()
	tr, err := ReadJSONTree(ctx, strings.NewReader(weatherTree), NewNodeEncodeDecoder(features), features)
	require.NoError(t, err)
	assert.Equal(t, "1", tr.RootID)
	assert.Same(t, play, tr.Label)
	n, err := tr.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	for expected, sample := range map[string]mapSample{
		"yes": {"outlook": "sunny", "humidity": 65.0},
		"no":  {"outlook": "sunny", "humidity": 90.0},
	} {
		p, err := tr.Predict(ctx, sample)
		require.NoError(t, err)
		v, _ := p.PredictedValue()
		assert.Equal(t, expected, v)
	}
	p, err := tr.Predict(ctx, mapSample{})
	require.NoError(t, err)
	assert.Equal(t, 14, p.Weight())
	assert.Equal(t, 0.64, p.ProbabilityOf("yes"))
}

func TestWriteJSONTreeRoundTrip(t *testing.T) {
	ctx := context.Background()
	ned := NewNodeEncodeDecoder(features)
	tr, err := ReadJSONTree(ctx, strings.NewReader(weatherTree), ned, features)
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	require.NoError(t, WriteJSONTree(ctx, tr, ned, buf))
	assert.True(t, strings.HasPrefix(buf.String(), `{"rootID":"1","label":"play","nodes":[{"id":"1",`))

	rt, err := ReadJSONTree(ctx, buf, ned, features)
	require.NoError(t, err)
	assert.Equal(t, tr.String(), rt.String())
}

func TestReadJSONTreeErrors(t *testing.T) {
	ned := NewNodeEncodeDecoder(features)
	for name, doc := range map[string]string{
		"not json":          `{"rootID":`,
		"unknown label":     `{"rootID":"1","label":"windy","nodes":[{"id":"1"}]}`,
		"no root":           `{"label":"play","nodes":[{"id":"1"}]}`,
		"missing root node": `{"rootID":"2","label":"play","nodes":[{"id":"1"}]}`,
		"missing child":     `{"rootID":"1","label":"play","nodes":[{"id":"1","stIds":["2"],"f":"outlook"}]}`,
		"unreachable node":  `{"rootID":"1","label":"play","nodes":[{"id":"1"},{"id":"2"}]}`,
		"cycle":             `{"rootID":"1","label":"play","nodes":[{"id":"1","stIds":["1"],"f":"outlook"}]}`,
		"unknown feature":   `{"rootID":"1","label":"play","nodes":[{"id":"1","f":"windy"}]}`,
		"bad criterion":     `{"rootID":"1","label":"play","nodes":[{"id":"1","c":{"t":"discrete","f":"outlook","v":"snowy"}}]}`,
		"node without id":   `{"rootID":"1","label":"play","nodes":[{"pId":"1"}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ReadJSONTree(context.Background(), strings.NewReader(doc), ned, features)
			assert.Error(t, err)
		})
	}
}
