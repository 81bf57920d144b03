package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/jutus/internal/compiler"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	loweringFlags
	Lang string
}

// CheckReport is the JSON payload of the check command.
type CheckReport struct {
	File        string                     `json:"file"`
	Diagnostics []compiler.ValidationError `json:"diagnostics"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Validate a script's IR without lowering it",
		Long: `Parse a script and report every construct the lowering pass rejects,
plus warnings for approximate lowering rules. Exits 1 when errors are found.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args[0], cmd)
		},
	}

	opts.loweringFlags.register(cmd)
	cmd.Flags().StringVar(&opts.Lang, "lang", "", "source language (default: from file extension)")

	return cmd
}

func runCheck(opts *CheckOptions, path string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)

	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeConfig, err, nil)
	}
	lopts, err := opts.apply(cfg.Lowering)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeFlag, err, nil)
	}
	src, err := loadSource(path, opts.Lang)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeNotFound, err, nil)
	}

	c := compiler.New(compiler.WithLogger(newLogger(opts.RootOptions, f.GetErrWriter())))
	node, err := c.Parse(commandContext(cmd), src)
	if err != nil {
		return f.Fail(ExitFailure, ErrorCode(err), err, nil)
	}

	diags := compiler.Validate(node, lopts)
	if diags == nil {
		diags = []compiler.ValidationError{}
	}
	report := CheckReport{File: path, Diagnostics: diags}

	if compiler.HasErrors(diags) {
		if f.JSON() {
			if err := f.Error(ErrCodeInvalidIR, fmt.Sprintf("%s: %d problem(s)", path, len(diags)), report); err != nil {
				return err
			}
		} else {
			fmt.Fprintf(f.Writer, "✗ %s\n", path)
			for _, d := range diags {
				fmt.Fprintf(f.Writer, "  %s\n", d.Error())
			}
		}
		return NewExitError(ExitFailure, fmt.Sprintf("%s has errors", path))
	}

	if f.JSON() {
		return f.Success(report)
	}
	fmt.Fprintf(f.Writer, "✓ %s\n", path)
	for _, d := range diags {
		fmt.Fprintf(f.Writer, "  %s\n", d.Error())
	}
	return nil
}
