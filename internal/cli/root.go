package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/jutus/internal/config"
	"github.com/roach88/jutus/internal/lower"
)

// DefaultConfigFile is read from the working directory when --config is not
// given. A missing file means defaults.
const DefaultConfigFile = "jutus.cue"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Config  string // config file path
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the jutus CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "jutus",
		Short: "jutus - lower scripts to validator modules",
		Long: `jutus translates scripts through a language-neutral IR into validator
modules for an Aiken-like backend, and keeps a log of every translation.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "config file (default "+DefaultConfigFile+" if present)")

	cmd.AddCommand(NewLowerCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewDumpCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}

// newLogger logs to w at Debug with --verbose and at Warn otherwise.
func newLogger(opts *RootOptions, w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadConfig reads --config, or jutus.cue when present.
func loadConfig(opts *RootOptions) (config.Config, error) {
	if opts.Config != "" {
		return config.Load(opts.Config)
	}
	return config.LoadOptional(DefaultConfigFile)
}

// loweringFlags are the per-command overrides of the configured lowering
// options.
type loweringFlags struct {
	IfBranch string
	Floats   string
}

func (l *loweringFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&l.IfBranch, "if-branch", "", `arm lowered into if branches ("else" or "then")`)
	cmd.Flags().StringVar(&l.Floats, "floats", "", `float literal policy ("reject" or "text")`)
}

func (l *loweringFlags) apply(opts lower.Options) (lower.Options, error) {
	if l.IfBranch != "" {
		b, err := lower.ParseIfBranch(l.IfBranch)
		if err != nil {
			return lower.Options{}, fmt.Errorf("--if-branch: %w", err)
		}
		opts.IfBranch = b
	}
	if l.Floats != "" {
		p, err := lower.ParseFloatPolicy(l.Floats)
		if err != nil {
			return lower.Options{}, fmt.Errorf("--floats: %w", err)
		}
		opts.Floats = p
	}
	return opts, nil
}
