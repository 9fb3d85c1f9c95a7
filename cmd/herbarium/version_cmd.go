package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	// VersionMajor is the major number in herbarium's version
	VersionMajor = 0
	// VersionMinor is the minor number in herbarium's version
	VersionMinor = 3
	// VersionPatch is the patch number in herbarium's version
	VersionPatch = 0
)

func versionCmd(rootConfig *rootCmdConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of herbarium",
		Long:  `All software has versions. This is herbarium's`,
		Args:  noArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(rootConfig.stdout, "herbarium v%d.%d.%d\n", VersionMajor, VersionMinor, VersionPatch)
		},
	}
}
