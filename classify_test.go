package herbarium

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/pbanos/herbarium/classifier"
	"github.com/pbanos/herbarium/classifier/logistic"
	"github.com/pbanos/herbarium/dataset"
	"github.com/pbanos/herbarium/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	petalLength = feature.NewContinuousFeature("petallength")
	class       = feature.NewDiscreteFeature("class", []string{"setosa", "versicolor", "virginica"})
	irisSchema  = &classifier.Schema{
		Relation: "iris",
		Features: []feature.Feature{petalLength},
		Label:    class,
	}
)

// thresholdClassifier spreads probability on petal length thresholds.
type thresholdClassifier struct {
	calls int
	fail  int
}

func (tc *thresholdClassifier) Schema() *classifier.Schema {
	return irisSchema
}

func (tc *thresholdClassifier) Distribution(ctx context.Context, s feature.Sample) ([]float64, error) {
	tc.calls++
	if tc.calls == tc.fail {
		return nil, errors.New("predictor failure")
	}
	v, err := s.ValueFor(ctx, petalLength)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return []float64{0.4, 0.4, 0.2}, nil
	}
	switch pl := v.(float64); {
	case pl < 2.5:
		return []float64{0.98, 0.015, 0.005}, nil
	case pl < 5:
		return []float64{0.1, 0.7, 0.2}, nil
	}
	return []float64{0.01, 0.19, 0.8}, nil
}

func (tc *thresholdClassifier) Classify(ctx context.Context, s feature.Sample) (int, error) {
	d, err := tc.Distribution(ctx, s)
	if err != nil {
		return 0, err
	}
	return Argmax(d), nil
}

type fixedClassifier struct {
	idx  int
	dist []float64
}

func (fc *fixedClassifier) Schema() *classifier.Schema { return irisSchema }

func (fc *fixedClassifier) Classify(context.Context, feature.Sample) (int, error) { return fc.idx, nil }

func (fc *fixedClassifier) Distribution(context.Context, feature.Sample) ([]float64, error) {
	return fc.dist, nil
}

func irisDataset(t *testing.T, lengths ...interface{}) *dataset.Dataset {
	ds, err := dataset.New("iris", []feature.Feature{petalLength, class})
	require.NoError(t, err)
	require.NoError(t, ds.SetClassIndex(1))
	for _, l := range lengths {
		_, err := ds.Add([]interface{}{l, nil})
		require.NoError(t, err)
	}
	return ds
}

func TestClassifyAll(t *testing.T) {
	ctx := context.Background()
	ds := irisDataset(t, 1.4, 4.5, 6.0, nil)
	report := &bytes.Buffer{}

	labeled, err := ClassifyAll(ctx, ds, &thresholdClassifier{}, Options{Report: report})
	require.NoError(t, err)
	require.Equal(t, ds.Len(), labeled.Len())
	assert.Len(t, labeled.Features(), 2)
	for i, expected := range []string{"setosa", "versicolor", "virginica", "setosa"} {
		assert.Equal(t, expected, labeled.Sample(i).Value(1))
		assert.Equal(t, ds.Sample(i).Value(0), labeled.Sample(i).Value(0))
		assert.Nil(t, ds.Sample(i).Value(1))
	}
	assert.Equal(t, "Instance 1: classified as setosa\n"+
		"Instance 2: classified as versicolor\n"+
		"Instance 3: classified as virginica\n"+
		"Instance 4: classified as setosa\n", report.String())
}

func TestClassifyAllWithDistribution(t *testing.T) {
	ctx := context.Background()
	ds := irisDataset(t, 1.4, 4.5, 6.0)
	report := &bytes.Buffer{}

	labeled, err := ClassifyAll(ctx, ds, &thresholdClassifier{}, Options{Distribution: true, Report: report})
	require.NoError(t, err)
	require.Equal(t, 3, labeled.Len())
	require.Len(t, labeled.Features(), 5)
	assert.Len(t, ds.Features(), 2)
	for j, l := range class.AvailableValues() {
		f := labeled.Feature(2 + j)
		assert.Equal(t, l+"_distribution", f.Name())
		assert.IsType(t, &feature.ContinuousFeature{}, f)
	}
	for i, s := range labeled.Samples() {
		sum := 0.0
		dist := make([]float64, 3)
		for j := range dist {
			p, ok := s.Value(2 + j).(float64)
			require.True(t, ok)
			assert.True(t, p >= 0 && p <= 1)
			dist[j] = p
			sum += p
		}
		assert.InDelta(t, 1, sum, 1e-6)
		assert.Equal(t, class.AvailableValues()[Argmax(dist)], s.Value(1), "row %d", i)
	}
	assert.Equal(t, "Instance 1: classified as setosa\tDistribution: (setosa=0.9800) (versicolor=0.0150) (virginica=0.0050)\n"+
		"Instance 2: classified as versicolor\tDistribution: (setosa=0.1000) (versicolor=0.7000) (virginica=0.2000)\n"+
		"Instance 3: classified as virginica\tDistribution: (setosa=0.0100) (versicolor=0.1900) (virginica=0.8000)\n",
		report.String())
}

func TestClassifyAllTiesGoToFirstLabel(t *testing.T) {
	ds := irisDataset(t, 3.0)
	labeled, err := ClassifyAll(context.Background(), ds, &fixedClassifier{dist: []float64{0.2, 0.4, 0.4}}, Options{Distribution: true})
	require.NoError(t, err)
	assert.Equal(t, "versicolor", labeled.Sample(0).Value(1))
}

func TestClassifyAllWithoutDistributionUsesClassify(t *testing.T) {
	ds := irisDataset(t, 3.0)
	labeled, err := ClassifyAll(context.Background(), ds, &fixedClassifier{idx: 2, dist: []float64{1, 0, 0}}, Options{})
	require.NoError(t, err)
	assert.Equal(t, "virginica", labeled.Sample(0).Value(1))
}

func TestClassifyAllEmptyDataset(t *testing.T) {
	labeled, err := ClassifyAll(context.Background(), irisDataset(t), &thresholdClassifier{}, Options{Distribution: true})
	require.NoError(t, err)
	assert.Equal(t, 0, labeled.Len())
	assert.Len(t, labeled.Features(), 5)
}

func TestClassifyAllErrors(t *testing.T) {
	ctx := context.Background()
	for name, tc := range map[string]struct {
		c    classifier.Classifier
		opts Options
		row  int
	}{
		"predictor failure":    {&thresholdClassifier{fail: 2}, Options{}, 2},
		"index out of range":   {&fixedClassifier{idx: 3}, Options{}, 1},
		"negative index":       {&fixedClassifier{idx: -1}, Options{}, 1},
		"short distribution":   {&fixedClassifier{dist: []float64{1}}, Options{Distribution: true}, 1},
		"distribution failure": {&thresholdClassifier{fail: 3}, Options{Distribution: true}, 3},
		"NaN distribution":     {&fixedClassifier{dist: []float64{math.NaN(), math.NaN(), math.NaN()}}, Options{Distribution: true}, 1},
		"negative probability": {&fixedClassifier{dist: []float64{-0.1, 0.6, 0.5}}, Options{Distribution: true}, 1},
		"sum below one":        {&fixedClassifier{dist: []float64{0.5, 0.2, 0.2}}, Options{Distribution: true}, 1},
		"infinite probability": {&fixedClassifier{dist: []float64{math.Inf(1), 0, 0}}, Options{Distribution: true}, 1},
	} {
		t.Run(name, func(t *testing.T) {
			labeled, err := ClassifyAll(ctx, irisDataset(t, 1.0, 2.0, 3.0), tc.c, tc.opts)
			assert.Nil(t, labeled)
			var ce *ClassificationError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tc.row, ce.Row)
		})
	}
}

func TestClassifyAllExtremeValue(t *testing.T) {
	c, err := logistic.New(irisSchema, logistic.Parameters{
		Intercepts:   []float64{0, 0, 0},
		Coefficients: [][]float64{{-10}, {0}, {10}},
	})
	require.NoError(t, err)
	for _, distribution := range []bool{true, false} {
		report := &bytes.Buffer{}
		labeled, err := ClassifyAll(context.Background(), irisDataset(t, 1.4, 1e308), c, Options{Distribution: distribution, Report: report})
		assert.Nil(t, labeled)
		var ce *ClassificationError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, 2, ce.Row)
		assert.Equal(t, 1, strings.Count(report.String(), "Instance "))
	}
}

func TestClassifyAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ClassifyAll(ctx, irisDataset(t, 1.0), &thresholdClassifier{}, Options{})
	var ce *ClassificationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 1, ce.Row)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClassifyAllSchemaMismatch(t *testing.T) {
	ds := irisDataset(t, 1.0)
	require.NoError(t, ds.SetClassIndex(-1))
	_, err := ClassifyAll(context.Background(), ds, &thresholdClassifier{}, Options{})
	var ce *ClassificationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 0, ce.Row)
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestArgmax(t *testing.T) {
	assert.Equal(t, 0, Argmax([]float64{1}))
	assert.Equal(t, 1, Argmax([]float64{0.1, 0.45, 0.45}))
	assert.Equal(t, 0, Argmax([]float64{0.5, 0.5}))
	assert.Equal(t, 2, Argmax([]float64{0, 0.1, 0.9}))
}

func TestReportLine(t *testing.T) {
	assert.Equal(t, "Instance 7: classified as b\n", ReportLine(7, "b", []string{"a", "b"}, nil))
	assert.Equal(t, "Instance 1: classified as a\tDistribution: (a=0.6667) (b=0.3333)\n",
		ReportLine(1, "a", []string{"a", "b"}, []float64{2.0 / 3, 1.0 / 3}))
}
