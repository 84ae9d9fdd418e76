package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/agaraleas/ConcordanceChallenge/pkg/boot"
	"github.com/agaraleas/ConcordanceChallenge/pkg/config"
)

// EntryFunc returns the path of the running entry point.
type EntryFunc func() (string, error)

// loggedError marks errors which have already been reported through the logger.
type loggedError struct {
	err error
}

func (e loggedError) Error() string {
	return e.err.Error()
}

func (e loggedError) Unwrap() error {
	return e.err
}

func levelFor(level zerolog.Level, verbose int) zerolog.Level {
	switch {
	case verbose >= 2 && level > zerolog.DebugLevel:
		return zerolog.DebugLevel
	case verbose == 1 && level > zerolog.InfoLevel:
		return zerolog.InfoLevel
	}

	return level
}

func newLogger(out io.Writer, json, debug bool, level zerolog.Level) zerolog.Logger {
	traceErrors = debug
	if json {
		return zerolog.New(out).Level(level).With().Timestamp().Logger()
	}

	writer := NewConsoleWriter(out)
	writer.Debug = debug
	return zerolog.New(writer).Level(level)
}

// NewRootCmd builds the boot command. entry locates the running entry point.
func NewRootCmd(entry EntryFunc) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "boot",
		Short: "Configures the cmake build directory",
		Long: `This command locates the project root (the directory containing this tool), makes sure
out/build exists there and runs the cmake configure step with out/build as build directory.

Settings can be overridden through boot.toml in the project root or BOOT_* environment variables.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, err := cmd.Flags().GetBool("dry")
			if err != nil {
				return err
			}

			verbose, err := cmd.Flags().GetCount("verbose")
			if err != nil {
				return err
			}

			stderr := cmd.ErrOrStderr()
			logger := newLogger(stderr, false, false, levelFor(zerolog.WarnLevel, verbose))
			fail := func(err error, msg string) error {
				logger.Error().Err(err).Msg(msg)
				return loggedError{err: err}
			}

			entryPath, err := entry()
			if err != nil {
				return fail(err, "Failed to locate the entry point")
			}

			base, err := boot.Locate(entryPath)
			if err != nil {
				return fail(err, "Failed to resolve the project root")
			}

			cfg, err := config.Load(base)
			if err != nil {
				return fail(err, "Failed to parse config")
			}

			logger = newLogger(stderr, cfg.Log.JSON, cfg.Debug, levelFor(cfg.LogLevel(), verbose))
			ctx := boot.WithLogger(cmd.Context(), &logger)

			layout, err := boot.NewLayout(base, cfg.Output)
			if err != nil {
				return fail(err, "Invalid build layout")
			}

			configurator := cfg.Configurator()
			configurator.DryRun = dryRun
			configurator.Stdin = cmd.InOrStdin()
			configurator.Stdout = cmd.OutOrStdout()
			configurator.Stderr = stderr

			err = boot.Run(ctx, layout, configurator)
			if err != nil {
				return fail(err, "Bootstrap failed")
			}

			return nil
		},
	}

	rootCmd.Flags().BoolP("dry", "n", false, "dry run; only print the cmake command, don't execute it")
	rootCmd.Flags().CountP("verbose", "v", "print the steps (-v) and debug details (-vv)")
	return rootCmd
}

func run(rootCmd *cobra.Command, args []string) int {
	if args != nil {
		rootCmd.SetArgs(args)
	}

	err := rootCmd.Execute()
	if err != nil {
		var logged loggedError
		if !errors.As(err, &logged) {
			fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %s\n", err)
		}
	}

	return boot.ExitCode(err)
}

// Execute runs the boot command and returns the process exit status. source is the main
// package's source file, used when running through "go run".
func Execute(source string) int {
	return run(NewRootCmd(func() (string, error) {
		return boot.EntryPoint(source)
	}), nil)
}
