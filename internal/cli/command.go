package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/idelchi/dirscope/internal/dirstat"
	"github.com/idelchi/dirscope/internal/integration"
)

// EnvPrefix prefixes environment variables that override flags.
const EnvPrefix = "DIRSCOPE"

// CLI represents the command-line interface.
type CLI struct {
	version string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version}
}

//nolint:gochecknoglobals // Config constant
var allowedOutputs = []string{"table", "json", "plain"}

// Execute runs the CLI with the process arguments.
func (c CLI) Execute(ctx context.Context) error {
	return c.Command().ExecuteContext(ctx)
}

// Command builds the root command. Every flag can also be set through the
// config file or a DIRSCOPE_* environment variable.
func (c CLI) Command() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "dirscope [flags] [path]",
		Short: "Report disk usage and explore the largest directories",
		Long: heredoc.Doc(`
			dirscope reports disk usage: total, used and free space of a volume, and a
			ranked breakdown of space by directory and by file extension.

			By default it starts an interactive session at path (the filesystem root
			if not specified). Enter a number to descend into that directory or 'exit'
			to quit.

			Use --report, or a json/plain output, for a single non-interactive scan.

			The '-i' flag prints a zsh function 'dscd' which pipes the plain output
			into 'fzf' and changes into the chosen directory.

			Configuration is read from $XDG_CONFIG_HOME/dirscope/config.yaml (or
			--config) and DIRSCOPE_* environment variables, e.g. DIRSCOPE_TOP=10.
		`),
		Args:          cobra.MaximumNArgs(1),
		Version:       c.version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			options, err := loadOptions(cmd.Flags(), v, args)
			if err != nil {
				return err
			}

			if options.Integration {
				rendered, err := integration.Render()
				if err != nil {
					return fmt.Errorf("rendering integration script: %w", err)
				}

				_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)

				return err
			}

			if err := validate(options); err != nil {
				return err
			}

			return logic(cmd.Context(), options, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.SetVersionTemplate("{{.Version}}\n")
	registerFlags(cmd.Flags())

	return cmd
}

func registerFlags(flags *pflag.FlagSet) {
	flags.SortFlags = false

	flags.IntP("top", "t", 5, "Number of top directories to display")
	flags.IntP("top-ext", "x", 5, "Number of top file extensions to display")
	flags.StringP("output", "o", "table", "Output format: table, json or plain")
	flags.BoolP("report", "r", false, "Print a single report instead of starting the interactive explorer")
	flags.IntP("workers", "w", 0, "Number of parallel walkers (0=number of CPUs)")
	flags.Duration("progress-interval", dirstat.DefaultProgressInterval, "Interval between progress updates")
	flags.Bool("debug", false, "Enable debug output")
	flags.BoolP("init", "i", false, "Output init script for shell usage")
	flags.String("config", "", "Path to a config file")
}

// loadOptions merges flags, environment and config file, in that precedence.
func loadOptions(flags *pflag.FlagSet, v *viper.Viper, args []string) (dirstat.Options, error) {
	if err := v.BindPFlags(flags); err != nil {
		return dirstat.Options{}, fmt.Errorf("binding flags: %w", err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := readConfig(v); err != nil {
		return dirstat.Options{}, err
	}

	options := dirstat.Options{
		TopDirs:          v.GetInt("top"),
		TopExts:          v.GetInt("top-ext"),
		Workers:          v.GetInt("workers"),
		ProgressInterval: v.GetDuration("progress-interval"),
		Debug:            v.GetBool("debug"),
		Output:           strings.ToLower(v.GetString("output")),
		Report:           v.GetBool("report"),
		Integration:      v.GetBool("init"),
	}

	switch {
	case len(args) > 0:
		options.Path = args[0]
	case v.GetString("path") != "":
		options.Path = v.GetString("path")
	default:
		options.Path = DefaultRoot()
	}

	return options, nil
}

func readConfig(v *viper.Viper) error {
	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)

		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %q: %w", file, err)
		}

		return nil
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "dirscope"))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config file: %w", err)
		}
	}

	return nil
}

func validate(options dirstat.Options) error {
	if !slices.Contains(allowedOutputs, options.Output) {
		return fmt.Errorf("invalid output format %q: must be one of %v", options.Output, allowedOutputs)
	}

	if options.TopDirs < 0 {
		return errors.New("top cannot be negative")
	}

	if options.TopExts < 0 {
		return errors.New("top-ext cannot be negative")
	}

	if options.Workers < 0 {
		return errors.New("workers cannot be negative")
	}

	return nil
}

// DefaultRoot returns the filesystem root of the volume holding the working directory.
func DefaultRoot() string {
	if wd, err := os.Getwd(); err == nil {
		if volume := filepath.VolumeName(wd); volume != "" {
			return volume + string(filepath.Separator)
		}
	}

	return string(filepath.Separator)
}
