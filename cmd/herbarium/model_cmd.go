package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func modelCmd(rootConfig *rootCmdConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "model",
		Short: "Describe the classifier compiled into herbarium",
		Long:  `Print the name, version and kind of the compiled classifier along the features it expects and the labels it predicts`,
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bundle, err := rootConfig.loadModel()
			if err != nil {
				return err
			}
			return errors.Wrap(bundle.Describe(rootConfig.stdout), "describing model")
		},
	}
}
