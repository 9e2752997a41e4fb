package cmd

import (
	"os"

	"github.com/abdul-hamid-achik/yhspec/packages/core/config"
	"github.com/abdul-hamid-achik/yhspec/packages/core/logging"
	"github.com/abdul-hamid-achik/yhspec/packages/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	configFlag   string
	logLevelFlag string
	noColorFlag  bool
	devLogFlag   bool

	cfg    = config.DefaultConfig()
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "yhspec",
	Short: "Extraction and assertion engine for YAML API tests.",
	Long: `yhspec evaluates extraction expressions (status_code, $.data.token,
body.items[0].id, headers.Content-Type, regexes) against saved HTTP and
socket responses, and reports on recorded test runs.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// setup resolves the effective configuration (file, then YHSPEC_* variables,
// then flags) and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.LoadConfig(configFlag)
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}

	overrides := &config.Config{}
	if cmd.Flags().Changed("log-level") {
		overrides.LogLevel = logLevelFlag
	}
	if cmd.Flags().Changed("no-color") {
		overrides.NoColor = config.BoolPtr(noColorFlag)
	}
	cfg = loaded.Merge(config.FromEnv()).Merge(overrides)

	l, err := logging.New(cfg.LogLevel, devLogFlag)
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}
	logger = l
	logger.Debug("configuration loaded",
		zap.String("config", configFlag),
		zap.String("resultsDir", cfg.ResultsDir),
		zap.String("schemaDir", cfg.SchemaDir),
	)
	return nil
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		output.NewConsoleFormatter(
			output.WithWriter(os.Stderr),
			output.WithNoColor(cfg.GetNoColor()),
		).FormatError(err)
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", getEnvString("YHSPEC_CONFIG", ""), "Path to config file (env: YHSPEC_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "info", "Log level: debug, info, warn, error (env: YHSPEC_LOG_LEVEL)")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "Disable colored output (env: YHSPEC_NO_COLOR)")
	rootCmd.PersistentFlags().BoolVar(&devLogFlag, "dev-log", false, "Human readable log output")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(assertCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}

func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
