package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/aryankumar/tempbench/internal/config"
	"github.com/spf13/cobra"
)

// app carries state shared by the subcommands of one invocation
type app struct {
	cfgFile string
	envFile string
	manager *config.Manager
	config  *config.BenchConfig
}

// Execute runs the root command with the provided context
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

// newRootCmd creates the root command
func newRootCmd() *cobra.Command {
	a := &app{manager: config.NewManager("")}

	rootCmd := &cobra.Command{
		Use:   "tempbench",
		Short: "tempbench - concurrent weather fetch benchmark",
		Long: `tempbench measures how much a worker pool speeds up fetching and
summarizing hourly temperatures for the 27 Brazilian state capitals.

Each scenario (sequential, or a pool of N workers) runs a number of timed
trials against the Open-Meteo API and reports the mean wall time and the
speedup over the sequential baseline.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.tempbench.yaml)")
	flags.StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	flags.StringP("output", "o", "", "output format (json, yaml, table)")
	flags.BoolP("verbose", "v", false, "verbose output with debug logging")
	flags.Bool("no-color", false, "disable colored output")
	flags.Bool("no-headers", false, "omit table headers")

	v := a.manager.Viper()
	v.BindPFlag("output.format", flags.Lookup("output"))
	v.BindPFlag("output.noColor", flags.Lookup("no-color"))
	v.BindPFlag("output.noHeaders", flags.Lookup("no-headers"))
	addSourceFlags(rootCmd, a)

	// Add subcommands
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newRunCmd(a))
	rootCmd.AddCommand(newFetchCmd(a))
	rootCmd.AddCommand(newLocationsCmd(a))

	return rootCmd
}

// initConfig sets up logging and loads configuration
func (a *app) initConfig(cmd *cobra.Command) error {
	setupLogging(cmd)

	a.manager.SetConfigPath(a.cfgFile)
	a.manager.SetEnvFile(a.envFile)

	cfg, err := a.manager.Load()
	if err != nil {
		return err
	}
	a.config = cfg

	if used := a.manager.ConfigFileUsed(); used != "" {
		slog.Debug("loaded configuration", "file", used)
	}

	return nil
}

// setupLogging configures structured logging with slog
func setupLogging(cmd *cobra.Command) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	noColor, _ := cmd.Flags().GetBool("no-color")

	// Set log level based on verbose flag
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var handler slog.Handler
	if noColor {
		// Use JSON handler for no-color mode
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))

	if verbose {
		slog.Debug("verbose logging enabled")
	}
}
