package feature

import (
	"context"
	"fmt"
	"math"
)

/*
Criterion represents a constraint on a feature that decision trees use to
route samples down their branches.

Its SatisfiedBy method takes a sample and returns a boolean indicating if
the sample's value for the feature satisfies the criterion.

Its Feature method returns the feature on which the criterion is applied.
*/
type Criterion interface {
	Feature() Feature
	SatisfiedBy(ctx context.Context, sample Sample) (bool, error)
}

/*
Sample is an interface for something that can satisfy a Criterion or be
classified.

Its ValueFor method returns the value corresponding to the feature
passed as parameter, nil if the value is missing.
*/
type Sample interface {
	ValueFor(context.Context, Feature) (interface{}, error)
}

/*
ContinuousCriterion constrains a continuous feature to the interval [a, b).
Either end can be open by using -Inf or +Inf.
*/
type ContinuousCriterion interface {
	Criterion
	Interval() (float64, float64)
}

// DiscreteCriterion constrains a discrete feature to a single value.
type DiscreteCriterion interface {
	Criterion
	Value() string
}

/*
UndefinedCriterion is satisfied by any sample. Trees use it for the branch
followed by samples that lack a value for the branching feature.
*/
type UndefinedCriterion interface {
	Criterion
	IsUndefinedCriterion() bool
}

type continuousCriterion struct {
	feature *ContinuousFeature
	a, b    float64
}

type discreteCriterion struct {
	feature *DiscreteFeature
	value   string
}

type undefinedCriterion struct {
	feature Feature
}

// NewContinuousCriterion returns a ContinuousCriterion on the given
// feature for the interval [a, b).
func NewContinuousCriterion(feature *ContinuousFeature, a float64, b float64) ContinuousCriterion {
	return &continuousCriterion{feature, a, b}
}

// NewDiscreteCriterion returns a DiscreteCriterion on the given feature
// satisfied by samples whose value is the given one.
func NewDiscreteCriterion(feature *DiscreteFeature, value string) DiscreteCriterion {
	return &discreteCriterion{feature, value}
}

// NewUndefinedCriterion takes a Feature and returns a Criterion that
// is always satisfied.
func NewUndefinedCriterion(f Feature) UndefinedCriterion {
	return &undefinedCriterion{f}
}

func (cc *continuousCriterion) Feature() Feature {
	return cc.feature
}

/*
SatisfiedBy returns false if the sample does not define a float64 value for
the feature, and whether the value lies in the criterion's interval
otherwise.
*/
func (cc *continuousCriterion) SatisfiedBy(ctx context.Context, sample Sample) (bool, error) {
	val, err := sample.ValueFor(ctx, cc.feature)
	if err != nil || val == nil {
		return false, err
	}
	v, ok := val.(float64)
	if !ok {
		return false, nil
	}
	return (math.IsInf(cc.a, -1) || cc.a <= v) && (math.IsInf(cc.b, 1) || v < cc.b), nil
}

func (cc *continuousCriterion) Interval() (float64, float64) {
	return cc.a, cc.b
}

func (cc *continuousCriterion) String() string {
	if math.IsInf(cc.a, 0) {
		return fmt.Sprintf("%s < %f", cc.feature.Name(), cc.b)
	}
	if math.IsInf(cc.b, 0) {
		return fmt.Sprintf("%f <= %s", cc.a, cc.feature.Name())
	}
	return fmt.Sprintf("%f <= %s < %f", cc.a, cc.feature.Name(), cc.b)
}

func (dc *discreteCriterion) Feature() Feature {
	return dc.feature
}

// SatisfiedBy returns whether the sample's value for the feature is the
// criterion's value. Missing values never satisfy it.
func (dc *discreteCriterion) SatisfiedBy(ctx context.Context, sample Sample) (bool, error) {
	val, err := sample.ValueFor(ctx, dc.feature)
	if err != nil || val == nil {
		return false, err
	}
	s, ok := val.(string)
	return ok && s == dc.value, nil
}

func (dc *discreteCriterion) Value() string {
	return dc.value
}

func (dc *discreteCriterion) String() string {
	return fmt.Sprintf("%s is %s", dc.feature.Name(), dc.value)
}

func (u *undefinedCriterion) Feature() Feature {
	return u.feature
}

func (u *undefinedCriterion) SatisfiedBy(context.Context, Sample) (bool, error) {
	return true, nil
}

func (u *undefinedCriterion) IsUndefinedCriterion() bool {
	return true
}

func (u *undefinedCriterion) String() string {
	return fmt.Sprintf("%s not defined", u.feature.Name())
}
