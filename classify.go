/*
Package herbarium applies a pre-trained classifier to every sample of a
dataset and produces a labeled copy of it.

The classification loop lives here, together with the functions that pick
a dataset reader or writer for a location and the typed errors every
stage of a run returns.
*/
package herbarium

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/pbanos/herbarium/classifier"
	"github.com/pbanos/herbarium/dataset"
	"github.com/pbanos/herbarium/feature"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
)

// DistributionSuffix is appended to a label to name the feature holding
// its probability.
const DistributionSuffix = "_distribution"

// Options tune a ClassifyAll run.
type Options struct {
	// Distribution requests one probability column per label.
	Distribution bool
	// Report, when not nil, receives one line per classified sample.
	Report io.Writer
}

/*
ClassifyAll takes a context, a dataset, a classifier and options and returns
a copy of the dataset where the class value of every sample is the label the
classifier predicts for it. The dataset itself is never modified.

When distributions are requested, a continuous feature named after every
label followed by DistributionSuffix is appended to the copy, in label order,
and holds the probability of that label; the class value is then the most
probable label, the first one on ties.

Any failure is returned as a *ClassificationError and no dataset is returned.
*/
func ClassifyAll(ctx context.Context, ds *dataset.Dataset, c classifier.Classifier, opts Options) (*dataset.Dataset, error) {
	schema := c.Schema()
	if err := CheckSchema(ds, schema); err != nil {
		return nil, &ClassificationError{Err: err}
	}
	labels := schema.Labels()
	labeled := ds.Copy()
	distCol := len(labeled.Features())
	if opts.Distribution {
		for _, l := range labels {
			if err := labeled.AppendFeature(feature.NewContinuousFeature(l + DistributionSuffix)); err != nil {
				return nil, &ClassificationError{Err: err}
			}
		}
	}
	classCol := labeled.ClassIndex()
	for i, s := range labeled.Samples() {
		if err := ctx.Err(); err != nil {
			return nil, &ClassificationError{Row: i + 1, Err: err}
		}
		// the row is read from the input dataset so predictions never see
		// values written on the labeled copy
		row := ds.Sample(i)
		var idx int
		var dist []float64
		var err error
		if opts.Distribution {
			dist, err = c.Distribution(ctx, row)
			if err == nil {
				err = checkDistribution(dist, len(labels))
			}
			if err == nil {
				idx = Argmax(dist)
			}
		} else {
			idx, err = c.Classify(ctx, row)
		}
		if err == nil && (idx < 0 || idx >= len(labels)) {
			err = errors.Errorf("predicted label index %d out of range", idx)
		}
		if err != nil {
			return nil, &ClassificationError{Row: i + 1, Err: err}
		}
		if err = s.SetValue(classCol, labels[idx]); err != nil {
			return nil, &ClassificationError{Row: i + 1, Err: err}
		}
		for j, p := range dist {
			if err = s.SetValue(distCol+j, p); err != nil {
				return nil, &ClassificationError{Row: i + 1, Err: err}
			}
		}
		if opts.Report != nil {
			if _, err = io.WriteString(opts.Report, ReportLine(i+1, labels[idx], labels, dist)); err != nil {
				return nil, &ClassificationError{Row: i + 1, Err: errors.Wrap(err, "writing report")}
			}
		}
	}
	return labeled, nil
}

// distributionTolerance bounds how far the probabilities of a sample may
// add up from 1.
const distributionTolerance = 1e-6

func checkDistribution(dist []float64, labels int) error {
	if len(dist) != labels {
		return errors.Errorf("distribution has %d values for %d labels", len(dist), labels)
	}
	for j, p := range dist {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return errors.Errorf("probability %v of label %d is not in [0, 1]", p, j)
		}
	}
	if sum := floats.Sum(dist); math.Abs(sum-1) > distributionTolerance {
		return errors.Errorf("probabilities add up to %v", sum)
	}
	return nil
}

/*
Argmax returns the index of the greatest value of a non-empty slice, the
lowest index among equal greatest values.
*/
func Argmax(d []float64) int {
	return floats.MaxIdx(d)
}

/*
ReportLine returns the line reporting the classification of the n-th
sample, with the distribution appended when it is not nil:

	Instance 1: classified as Iris-setosa	Distribution: (Iris-setosa=0.9800) (Iris-versicolor=0.0200)

Probabilities are rounded to 4 decimal places.
*/
func ReportLine(n int, label string, labels []string, dist []float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Instance %d: classified as %s", n, label)
	if dist != nil {
		b.WriteString("\tDistribution:")
		for j, p := range dist {
			fmt.Fprintf(&b, " (%s=%s)", labels[j], decimal.NewFromFloat(p).StringFixed(4))
		}
	}
	b.WriteString("\n")
	return b.String()
}
