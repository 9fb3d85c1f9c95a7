package tree

import (
	"fmt"
	"sort"
	"strings"
)

/*
Prediction represents a prediction made by a decision Tree: the
probability of every value of the label among the training samples
that reached a node, and how many of them there were.
*/
type Prediction struct {
	probabilities map[string]float64
	weight        int
}

// PredictionError represents an error related with predictions
type PredictionError string

/*
ErrCannotPredictFromSample is the error returned by the Predict method of a tree
when the prediction cannot be made because the tree itself cannot make
a prediction for that kind of sample, as opposed to cases where values
for a feature cannot be obtained for example.
*/
const ErrCannotPredictFromSample = PredictionError("no prediction available for this kind of sample")

func (pe PredictionError) Error() string {
	return string(pe)
}

/*
NewPrediction takes a map[string]float64 with the probabilities
of each value in the prediction and an integer with the number
of samples in the dataset from which those probabilities were computed
and returns a prediction representing those values.
*/
func NewPrediction(probs map[string]float64, weight int) *Prediction {
	return &Prediction{probabilities: probs, weight: weight}
}

/*
ProbabilityOf takes a string value and returns the float64 probability of that
value according to the prediction.
*/
func (p *Prediction) ProbabilityOf(value string) float64 {
	return p.probabilities[value]
}

/*
Probabilities returns a map of string to float64 containing
the probabilities of each available value
*/
func (p *Prediction) Probabilities() map[string]float64 {
	return p.probabilities
}

/*
Weight returns the weight of the prediction: an
int equal to the number of samples in the dataset from which
the prediction was made
*/
func (p *Prediction) Weight() int {
	return p.weight
}

/*
PredictedValue returns a string with the most probable value and a float64 with
its prevalence. Ties go to the lowest value in lexical order.
*/
func (p *Prediction) PredictedValue() (value string, prob float64) {
	for _, k := range p.values() {
		if v := p.probabilities[k]; v > prob {
			value = k
			prob = v
		}
	}
	return
}

func (p *Prediction) values() []string {
	values := make([]string, 0, len(p.probabilities))
	for k := range p.probabilities {
		values = append(values, k)
	}
	sort.Strings(values)
	return values
}

func (p *Prediction) String() string {
	parts := make([]string, 0, len(p.probabilities))
	for _, k := range p.values() {
		parts = append(parts, fmt.Sprintf("%s:%v", k, p.probabilities[k]))
	}
	return "[" + strings.Join(parts, " ") + "]"
}
