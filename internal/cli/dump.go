package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/jutus/internal/compiler"
	"github.com/roach88/jutus/internal/ir"
)

// DumpOptions holds flags for the dump command.
type DumpOptions struct {
	*RootOptions
	Lang string
	JSON bool // print the tagged JSON document instead of the tree
}

// NewDumpCommand creates the dump command.
func NewDumpCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DumpOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Print the IR of a script",
		Long: `Parse a script and print its IR, either as an indented tree or, with
--json, as the tagged JSON document that round-trips through the IR decoder.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Lang, "lang", "", "source language (default: from file extension)")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "print the IR as a JSON document")

	return cmd
}

func runDump(opts *DumpOptions, path string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)

	src, err := loadSource(path, opts.Lang)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeNotFound, err, nil)
	}
	c := compiler.New(compiler.WithLogger(newLogger(opts.RootOptions, f.GetErrWriter())))
	node, err := c.Parse(commandContext(cmd), src)
	if err != nil {
		return f.Fail(ExitFailure, ErrorCode(err), err, nil)
	}

	if f.JSON() {
		encoded, err := ir.EncodeNode(node)
		if err != nil {
			return f.Fail(ExitFailure, ErrCodeIR, err, nil)
		}
		fp, err := ir.Fingerprint(node)
		if err != nil {
			return f.Fail(ExitFailure, ErrCodeIR, err, nil)
		}
		return f.Success(map[string]any{"ir": encoded, "fingerprint": fp})
	}

	var out string
	if opts.JSON {
		data, err := ir.MarshalNodeIndent(node)
		if err != nil {
			return f.Fail(ExitFailure, ErrCodeIR, err, nil)
		}
		out = string(data)
	} else {
		out, err = ir.Dump(node)
		if err != nil {
			return f.Fail(ExitFailure, ErrCodeIR, err, nil)
		}
	}
	fmt.Fprintln(f.Writer, out)
	return nil
}
