package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/jutus/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Limit    int
	ID       string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded translations",
		Long: `List the translation log, newest first, or show one run with --id.

Example:
  jutus history --db .jutus/jutus.db --limit 10
  jutus history --id 0192f1c4-...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "translation log path (default: config store.path)")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "maximum number of runs (0 for all)")
	cmd.Flags().StringVar(&opts.ID, "id", "", "show a single run")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)
	ctx := commandContext(cmd)

	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeConfig, err, nil)
	}
	st, err := openStore(opts.Database, cfg, false)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeNotFound, err, nil)
	}
	defer st.Close()

	if opts.ID != "" {
		t, ok, err := st.GetTranslation(ctx, opts.ID)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeStore, err, nil)
		}
		if !ok {
			return f.Fail(ExitFailure, ErrCodeNotFound, fmt.Errorf("no run with id %q", opts.ID), nil)
		}
		if f.JSON() {
			return f.Success(t)
		}
		printTranslation(f, t)
		return nil
	}

	rows, err := st.ListTranslations(ctx, opts.Limit)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, err, nil)
	}
	if rows == nil {
		rows = []store.Translation{}
	}
	if f.JSON() {
		return f.Success(rows)
	}
	if len(rows) == 0 {
		fmt.Fprintln(f.Writer, "No translations recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(f.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tSTATUS\tSCRIPT\tMODULE\tRUN")
	for _, t := range rows {
		module := short(t.ModuleHash)
		if t.Status == store.StatusError {
			module = "(" + t.ErrorStage + ")"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", t.Seq, t.Status, t.ScriptPath, module, t.ID)
	}
	return tw.Flush()
}

func printTranslation(f *OutputFormatter, t store.Translation) {
	w := f.Writer
	fmt.Fprintf(w, "Run:      %s\n", t.ID)
	fmt.Fprintf(w, "Seq:      %d\n", t.Seq)
	fmt.Fprintf(w, "Script:   %s (%s)\n", t.ScriptPath, t.Language)
	fmt.Fprintf(w, "Status:   %s\n", t.Status)
	fmt.Fprintf(w, "Options:  %s\n", short(t.OptionsHash))
	if t.Status == store.StatusError {
		fmt.Fprintf(w, "Stage:    %s\n", t.ErrorStage)
		fmt.Fprintf(w, "Error:    %s\n", t.ErrorMessage)
		return
	}
	fmt.Fprintf(w, "IR:       %s\n", short(t.IRHash))
	fmt.Fprintf(w, "Module:   %s\n", short(t.ModuleHash))
	if f.Verbose {
		fmt.Fprintf(w, "\n%s\n", t.ModuleJSON)
	}
}

func short(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
