/*
Package logistic provides a multinomial logistic regression classifier
whose distribution is softmax(W·x + b).

The input vector x has one term per continuous feature of the schema and
one one-hot term per value of each discrete feature, in schema order.
Missing continuous values are replaced by a fill value, missing discrete
values contribute no term.
*/
package logistic

import (
	"context"
	"encoding/json"
	"io"
	"math"

	"github.com/pbanos/herbarium/classifier"
	"github.com/pbanos/herbarium/feature"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Parameters holds the trained values of a logistic classifier.
type Parameters struct {
	// Intercepts has one entry per label.
	Intercepts []float64 `json:"intercepts"`
	// Coefficients has one row per label and one column per input term.
	Coefficients [][]float64 `json:"coefficients"`
	// Fill has one entry per input term; only the ones for continuous
	// features are used.
	Fill []float64 `json:"fill"`
}

// Classifier is a classifier.Classifier implementing multinomial logistic
// regression.
type Classifier struct {
	schema *classifier.Schema
	w      *mat.Dense
	b      *mat.VecDense
	fill   []float64
}

// Terms returns the number of input terms for the features of a schema.
func Terms(schema *classifier.Schema) int {
	n := 0
	for _, f := range schema.Features {
		if df, ok := f.(*feature.DiscreteFeature); ok {
			n += len(df.AvailableValues())
		} else {
			n++
		}
	}
	return n
}

/*
New takes a schema and parameters and returns a Classifier or an error if
the dimensions of the parameters do not match the schema.
*/
func New(schema *classifier.Schema, p Parameters) (*Classifier, error) {
	labels := len(schema.Labels())
	if labels == 0 {
		return nil, errors.New("label has no values")
	}
	for _, f := range schema.Features {
		switch f.(type) {
		case *feature.ContinuousFeature, *feature.DiscreteFeature:
		default:
			return nil, errors.Errorf("unsupported input feature %s of type %T", f.Name(), f)
		}
	}
	terms := Terms(schema)
	if len(p.Intercepts) != labels {
		return nil, errors.Errorf("expected %d intercepts, got %d", labels, len(p.Intercepts))
	}
	if len(p.Coefficients) != labels {
		return nil, errors.Errorf("expected %d rows of coefficients, got %d", labels, len(p.Coefficients))
	}
	fill := p.Fill
	if fill == nil {
		fill = make([]float64, terms)
	}
	if len(fill) != terms {
		return nil, errors.Errorf("expected %d fill values, got %d", terms, len(fill))
	}
	if terms == 0 {
		return nil, errors.New("schema has no input features")
	}
	w := mat.NewDense(labels, terms, nil)
	for i, row := range p.Coefficients {
		if len(row) != terms {
			return nil, errors.Errorf("expected %d coefficients for label %s, got %d", terms, schema.Labels()[i], len(row))
		}
		w.SetRow(i, row)
	}
	return &Classifier{
		schema: schema,
		w:      w,
		b:      mat.NewVecDense(labels, append([]float64(nil), p.Intercepts...)),
		fill:   append([]float64(nil), fill...),
	}, nil
}

/*
Decode takes a schema and an io.Reader with JSON encoded Parameters and
returns the Classifier for them.
*/
func Decode(schema *classifier.Schema, r io.Reader) (*Classifier, error) {
	p := Parameters{}
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, errors.Wrap(err, "decoding logistic parameters")
	}
	return New(schema, p)
}

// Schema returns the schema of the classifier.
func (c *Classifier) Schema() *classifier.Schema {
	return c.schema
}

// Classify returns the index of the label with the highest score, the
// lowest one on ties.
func (c *Classifier) Classify(ctx context.Context, s feature.Sample) (int, error) {
	z, err := c.scores(ctx, s)
	if err != nil {
		return 0, err
	}
	return floats.MaxIdx(z), nil
}

// Distribution returns the softmax of the label scores for the sample.
func (c *Classifier) Distribution(ctx context.Context, s feature.Sample) ([]float64, error) {
	z, err := c.scores(ctx, s)
	if err != nil {
		return nil, err
	}
	return softmax(z), nil
}

func (c *Classifier) scores(ctx context.Context, s feature.Sample) ([]float64, error) {
	x, err := c.inputs(ctx, s)
	if err != nil {
		return nil, err
	}
	z := mat.NewVecDense(c.b.Len(), nil)
	z.MulVec(c.w, x)
	z.AddVec(z, c.b)
	for i := 0; i < z.Len(); i++ {
		if v := z.AtVec(i); math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.Errorf("score for label %s is not finite", c.schema.Labels()[i])
		}
	}
	return z.RawVector().Data, nil
}

func (c *Classifier) inputs(ctx context.Context, s feature.Sample) (*mat.VecDense, error) {
	_, terms := c.w.Dims()
	x := mat.NewVecDense(terms, nil)
	t := 0
	for _, f := range c.schema.Features {
		v, err := s.ValueFor(ctx, f)
		if err != nil {
			return nil, errors.Wrapf(err, "obtaining value for %s", f.Name())
		}
		switch f := f.(type) {
		case *feature.DiscreteFeature:
			if v != nil {
				vs, ok := v.(string)
				if !ok || f.Index(vs) < 0 {
					return nil, errors.Errorf("invalid value %v for discrete feature %s", v, f.Name())
				}
				x.SetVec(t+f.Index(vs), 1)
			}
			t += len(f.AvailableValues())
		default:
			if v == nil {
				x.SetVec(t, c.fill[t])
			} else {
				vf, ok := v.(float64)
				if !ok || math.IsNaN(vf) || math.IsInf(vf, 0) {
					return nil, errors.Errorf("invalid value %v for continuous feature %s", v, f.Name())
				}
				x.SetVec(t, vf)
			}
			t++
		}
	}
	return x, nil
}

func softmax(z []float64) []float64 {
	top := floats.Max(z)
	p := make([]float64, len(z))
	for i, v := range z {
		p[i] = math.Exp(v - top)
	}
	floats.Scale(1/floats.Sum(p), p)
	return p
}
