package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/pbanos/herbarium"
	"github.com/pbanos/herbarium/model"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// Exit codes
const (
	exitOK = iota
	exitArgumentError
	exitModelLoadError
	exitDatasetReadError
	exitClassificationError
	exitDatasetWriteError
)

// env holds what commands read from and write to.
type env struct {
	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer
	fs        afero.Fs
	loadModel func() (*model.Bundle, error)
}

type rootCmdConfig struct {
	*env
	*logger
	verbose bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx, os.Args[1:], &env{
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		fs:        afero.NewOsFs(),
		loadModel: model.Embedded,
	})
	stop()
	os.Exit(code)
}

/*
execute runs the command line given by args and returns the exit code of
the process. Without arguments the usage is printed and 0 returned.
*/
func execute(ctx context.Context, args []string, e *env) int {
	config := &rootCmdConfig{env: e, logger: newLogger(false, e.stderr)}
	rootCmd := cliParser(config)
	if len(args) == 0 {
		if err := rootCmd.Help(); err != nil {
			return exitArgumentError
		}
		return exitOK
	}
	rootCmd.SetArgs(args)
	cmd, err := rootCmd.ExecuteContextC(ctx)
	config.Sync()
	if err == nil {
		return exitOK
	}
	return config.reportError(cmd, err)
}

func cliParser(config *rootCmdConfig) *cobra.Command {
	rootCmd := classifyCmd(config)
	rootCmd.SetIn(config.stdin)
	rootCmd.SetOut(config.stdout)
	rootCmd.SetErr(config.stderr)
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &herbarium.ArgumentError{Err: err}
	})
	rootCmd.PersistentFlags().BoolVarP(&(config.verbose), "verbose", "v", false, "log progress to stderr")
	rootCmd.PersistentPreRun = func(*cobra.Command, []string) {
		config.logger = newLogger(config.verbose, config.stderr)
	}
	rootCmd.AddCommand(versionCmd(config), modelCmd(config), predictCmd(config))
	return rootCmd
}

// reportError prints the diagnostic for err and returns its exit code.
func (rcc *rootCmdConfig) reportError(cmd *cobra.Command, err error) int {
	red := paint(rcc.stderr, color.FgRed)
	var (
		ae  *herbarium.ArgumentError
		mle *herbarium.ModelLoadError
		dre *herbarium.DatasetReadError
		ce  *herbarium.ClassificationError
		dwe *herbarium.DatasetWriteError
	)
	code, op := exitArgumentError, "herbarium"
	switch {
	case errors.As(err, &ae):
		op = "Parsing"
	case errors.As(err, &mle):
		code, op = exitModelLoadError, "Loading model"
	case errors.As(err, &dre):
		code, op = exitDatasetReadError, "Loading input-file"
	case errors.As(err, &ce):
		code, op = exitClassificationError, "Classifying instances"
	case errors.As(err, &dwe):
		code, op = exitDatasetWriteError, "Saving output-file"
	}
	red.Fprintf(rcc.stderr, "ERROR: %s failed!\n", op)
	fmt.Fprintf(rcc.stderr, "  Reason: %v\n", err)
	if ae != nil && cmd != nil {
		fmt.Fprintf(rcc.stderr, "\n%s", cmd.UsageString())
	}
	return code
}

func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return &herbarium.ArgumentError{Err: err}
	}
	return nil
}

// paint returns a color for w, disabled unless w is the standard output or
// error of the process.
func paint(w io.Writer, attr color.Attribute) *color.Color {
	c := color.New(attr)
	if w != io.Writer(os.Stdout) && w != io.Writer(os.Stderr) {
		c.DisableColor()
	}
	return c
}
