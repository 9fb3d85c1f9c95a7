package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/pbanos/herbarium"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type classifyCmdConfig struct {
	*rootCmdConfig
	inputFile        string
	outputFile       string
	showDistribution bool
}

func classifyCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &classifyCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "herbarium",
		Short: "herbarium labels datasets with a pre-trained classifier",
		Long: `Classify every instance of a dataset with the classifier compiled into herbarium.

Without an output file, the predicted label of every instance is printed
followed by the labeled dataset. With one, the labeled dataset is saved on
it in the format its name or URL implies: .csv files, .db, .sqlite and
.sqlite3 SQLite databases, postgres:// and mongodb:// URLs, or ARFF files
otherwise.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Validate(); err != nil {
				return &herbarium.ArgumentError{Err: err}
			}
			return config.run(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&(config.inputFile), "input-file", "i", "", "path to the ARFF, CSV or SQLite file, or the PostgreSQL or MongoDB URL with the dataset to classify (required)")
	cmd.Flags().StringVarP(&(config.outputFile), "output-file", "o", "", "path or URL where the labeled dataset is saved (defaults to printing it)")
	cmd.Flags().BoolVarP(&(config.showDistribution), "show-distribution", "d", false, "add the probability of every class label to the labeled dataset")
	return cmd
}

func (ccc *classifyCmdConfig) Validate() error {
	if ccc.inputFile == "" {
		return errors.New("required input-file flag was not set")
	}
	return nil
}

func (ccc *classifyCmdConfig) run(ctx context.Context) error {
	green := paint(ccc.stdout, color.FgGreen)
	ccc.Logf("Classifying with %v", ccc)
	ccc.Logf("Loading model...")
	bundle, err := ccc.loadModel()
	if err != nil {
		return err
	}
	ccc.Logf("Loaded %s %s model for relation %s", bundle.Name, bundle.Version, bundle.Relation)

	ccc.Logf("Reading dataset from %s...", herbarium.DisplayLocation(ccc.inputFile))
	ds, err := herbarium.ReadDataset(ctx, ccc.fs, ccc.inputFile, bundle.Schema)
	if err != nil {
		return err
	}
	ccc.Logf("Read %d instances with %d attributes", ds.Len(), len(ds.Features()))
	if ccc.outputFile != "" {
		green.Fprintf(ccc.stdout, "Successfully loaded input-file '%s'\n", herbarium.DisplayLocation(ccc.inputFile))
	}

	opts := herbarium.Options{Distribution: ccc.showDistribution}
	if ccc.outputFile == "" {
		opts.Report = ccc.stdout
	}
	labeled, err := herbarium.ClassifyAll(ctx, ds, bundle.Classifier, opts)
	if err != nil {
		return err
	}
	ccc.Logf("Classified %d instances", labeled.Len())

	if ccc.outputFile == "" {
		if err = herbarium.PrintDataset(ccc.stdout, labeled); err != nil {
			return &herbarium.DatasetWriteError{Path: "standard output", Err: err}
		}
		return nil
	}
	green.Fprintln(ccc.stdout, "All instances have been classified!")
	ccc.Logf("Writing labeled dataset to %s...", herbarium.DisplayLocation(ccc.outputFile))
	if err = herbarium.WriteDataset(ctx, ccc.fs, labeled, ccc.outputFile); err != nil {
		return err
	}
	green.Fprintf(ccc.stdout, "Successfully saved data to '%s'!\n", herbarium.DisplayLocation(ccc.outputFile))
	return nil
}

// String returns the flags of the command, for logging.
func (ccc *classifyCmdConfig) String() string {
	return fmt.Sprintf("input-file=%s output-file=%s show-distribution=%t",
		herbarium.DisplayLocation(ccc.inputFile), herbarium.DisplayLocation(ccc.outputFile), ccc.showDistribution)
}
