package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/pbanos/herbarium"
	"github.com/pbanos/herbarium/dataset/inputsample"
	"github.com/pbanos/herbarium/feature"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type predictCmdConfig struct {
	*rootCmdConfig
	undefinedValue string
}

type writerFeatureValueRequester struct {
	w              io.Writer
	undefinedValue string
}

func predictCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &predictCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the label of a sample answering questions",
		Long:  `Use the compiled classifier to predict the label of a sample whose feature values are requested one by one on the standard input`,
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Validate(); err != nil {
				return &herbarium.ArgumentError{Err: err}
			}
			bundle, err := config.loadModel()
			if err != nil {
				return err
			}
			config.Logf("Loaded %s %s model for relation %s", bundle.Name, bundle.Version, bundle.Relation)
			requester := &writerFeatureValueRequester{config.stdout, config.undefinedValue}
			sample := inputsample.New(config.stdin, bundle.Schema.Features, requester, config.undefinedValue)
			dist, err := bundle.Classifier.Distribution(cmd.Context(), sample)
			if err != nil {
				return &herbarium.ClassificationError{Row: 1, Err: err}
			}
			labels := bundle.Schema.Labels()
			if len(dist) != len(labels) {
				return &herbarium.ClassificationError{Row: 1, Err: errors.Errorf("distribution has %d values for %d labels", len(dist), len(labels))}
			}
			_, err = io.WriteString(config.stdout, herbarium.ReportLine(1, labels[herbarium.Argmax(dist)], labels, dist))
			return err
		},
	}
	cmd.Flags().StringVarP(&(config.undefinedValue), "undefined-value", "u", "?", "value to input to define a sample's value for a feature as undefined")
	return cmd
}

func (pcc *predictCmdConfig) Validate() error {
	if strings.TrimSpace(pcc.undefinedValue) == "" {
		return errors.New("undefined-value flag cannot be blank")
	}
	return nil
}

func (wfvr *writerFeatureValueRequester) RequestValueFor(f feature.Feature) error {
	switch f := f.(type) {
	case *feature.DiscreteFeature:
		fmt.Fprintf(wfvr.w, "Please provide the sample's %s:\n(valid values are %v or %s if undefined)\n", f.Name(), f.AvailableValues(), wfvr.undefinedValue)
	case *feature.ContinuousFeature:
		fmt.Fprintf(wfvr.w, "Please provide the sample's %s:\n(valid values are real numbers or %s if undefined)\n", f.Name(), wfvr.undefinedValue)
	case *feature.StringFeature:
		fmt.Fprintf(wfvr.w, "Please provide the sample's %s:\n(any text is valid, %s if undefined)\n", f.Name(), wfvr.undefinedValue)
	default:
		return errors.Errorf("unknown feature type %T", f)
	}
	return nil
}

func (wfvr *writerFeatureValueRequester) RejectValueFor(f feature.Feature, value interface{}) error {
	switch f := f.(type) {
	case *feature.DiscreteFeature:
		fmt.Fprintf(wfvr.w, "%v is not a valid value for the sample's %s. Please provide one of %v or %s if undefined.\n", value, f.Name(), f.AvailableValues(), wfvr.undefinedValue)
	case *feature.ContinuousFeature:
		fmt.Fprintf(wfvr.w, "%v is not a valid value for the sample's %s. Please provide a real number or %s if undefined.\n", value, f.Name(), wfvr.undefinedValue)
	default:
		return errors.Errorf("unknown feature type %T", f)
	}
	return nil
}
