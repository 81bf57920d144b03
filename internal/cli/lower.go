package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/jutus/internal/compiler"
	"github.com/roach88/jutus/internal/config"
	"github.com/roach88/jutus/internal/lower"
	"github.com/roach88/jutus/internal/store"
	"github.com/roach88/jutus/internal/target"
)

// LowerOptions holds flags for the lower command.
type LowerOptions struct {
	*RootOptions
	loweringFlags
	Lang     string // source language, detected from the extension when empty
	Output   string // output file path
	Record   bool   // record the run in the translation log
	Database string // translation log path, config store.path when empty
}

// LowerReport is the JSON payload of a successful lower command.
type LowerReport struct {
	Module     map[string]any             `json:"module"`
	Source     string                     `json:"source"`
	IRHash     string                     `json:"ir_hash"`
	ModuleHash string                     `json:"module_hash"`
	RunID      string                     `json:"run_id,omitempty"`
	Seq        int64                      `json:"seq,omitempty"`
	Recorded   bool                       `json:"recorded"`
	Warnings   []compiler.ValidationError `json:"warnings"`
	Output     string                     `json:"output,omitempty"`
}

// NewLowerCommand creates the lower command.
func NewLowerCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LowerOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "lower <file>",
		Short: "Lower a script to a validator module",
		Long: `Lower a script through the IR into a validator module and print the
rendered module.

IR documents (.json, .yaml) are read directly; other languages need a
registered frontend.

Example:
  jutus lower examples/add.json
  jutus lower --if-branch then --record --db runs.db examples/max.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLower(opts, args[0], cmd)
		},
	}

	opts.loweringFlags.register(cmd)
	cmd.Flags().StringVar(&opts.Lang, "lang", "", "source language (default: from file extension)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the rendered module to this file")
	cmd.Flags().BoolVar(&opts.Record, "record", false, "record the translation in the log")
	cmd.Flags().StringVar(&opts.Database, "db", "", "translation log path (default: config store.path)")

	return cmd
}

func runLower(opts *LowerOptions, path string, cmd *cobra.Command) error {
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

	copts := []compiler.Option{
		compiler.WithLowering(lopts),
		compiler.WithLogger(newLogger(opts.RootOptions, f.GetErrWriter())),
	}
	if opts.Record {
		st, err := openStore(opts.Database, cfg, true)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeStore, err, nil)
		}
		defer st.Close()
		copts = append(copts, compiler.WithRecorder(st))
	}

	f.VerboseLog("Lowering %s (%s) with if_branch=%s floats=%s", path, src.Lang, lopts.IfBranch, lopts.Floats)

	res, err := compiler.New(copts...).Translate(commandContext(cmd), src)
	if err != nil {
		var details map[string]string
		if stage, ok := compiler.StageOf(err); ok {
			details = map[string]string{"stage": string(stage)}
			if kind, ok := lower.KindOf(err); ok {
				details["kind"] = string(kind)
			}
		}
		return f.Fail(ExitFailure, ErrorCode(err), err, details)
	}

	source, err := target.Format(res.Module)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeLower, err, nil)
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, []byte(source), 0o644); err != nil {
			return f.Fail(ExitCommandError, ErrCodeWriteFailed, fmt.Errorf("writing output file: %w", err), nil)
		}
	}

	if f.JSON() {
		encoded, err := target.Encode(res.Module)
		if err != nil {
			return f.Fail(ExitFailure, ErrCodeLower, err, nil)
		}
		warnings := res.Warnings
		if warnings == nil {
			warnings = []compiler.ValidationError{}
		}
		return f.Success(LowerReport{
			Module:     encoded,
			Source:     source,
			IRHash:     res.IRHash,
			ModuleHash: res.ModuleHash,
			RunID:      res.RunID,
			Seq:        res.Seq,
			Recorded:   res.Recorded,
			Warnings:   warnings,
			Output:     opts.Output,
		})
	}

	for _, w := range res.Warnings {
		fmt.Fprintf(f.GetErrWriter(), "warning: %s\n", w.Error())
	}
	if opts.Output != "" {
		fmt.Fprintf(f.Writer, "✓ Lowered %s (%d definition(s))\n", path, len(res.Module.Definitions))
		fmt.Fprintf(f.Writer, "Wrote module to %s\n", opts.Output)
	} else {
		fmt.Fprint(f.Writer, source)
	}
	if opts.Record {
		status := "recorded"
		if !res.Recorded {
			status = "already recorded"
		}
		fmt.Fprintf(f.GetErrWriter(), "run %s seq %d %s\n", res.RunID, res.Seq, status)
	}
	return nil
}

func loadSource(path, lang string) (compiler.Source, error) {
	var l compiler.Language
	if lang != "" {
		parsed, err := compiler.ParseLanguage(lang)
		if err != nil {
			return compiler.Source{}, err
		}
		l = parsed
	}
	return compiler.LoadSource(path, l)
}

// openStore opens the translation log at path, or at the configured store
// path when path is empty. Without create, a missing database is an error.
func openStore(path string, cfg config.Config, create bool) (*store.Store, error) {
	if path == "" {
		path = cfg.StorePath
	}
	if create {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create store directory: %w", err)
			}
		}
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("translation log %s: %w", path, err)
	}
	return store.Open(path)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
