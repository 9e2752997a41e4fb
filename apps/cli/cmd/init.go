package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/yhspec/packages/core/config"
	"github.com/spf13/cobra"
)

var (
	forceInit bool
	initDir   string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default .yhspec.yaml",
	Long: `Write a .yhspec.yaml holding the default settings into the current
directory (or --dir).

Examples:
  yhspec init
  yhspec init --dir ./api-tests --force`,
	Args: cobra.NoArgs,
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite an existing config file")
	initCmd.Flags().StringVarP(&initDir, "dir", "d", ".", "Directory to write the config file into")
}

func initCommand(cmd *cobra.Command, args []string) error {
	if err := os.MkdirAll(initDir, 0755); err != nil {
		return withExitCode(ExitConfigError, fmt.Errorf("failed to create %s: %w", initDir, err))
	}
	configFile := filepath.Join(initDir, config.ConfigFilenames[0])

	if !forceInit {
		if _, err := os.Stat(configFile); err == nil {
			return withExitCode(ExitUsageError, fmt.Errorf("file already exists: %s (use --force to overwrite)", configFile))
		}
	}

	c := config.DefaultConfig()
	c.SchemaDir = "schemas"
	c.Variables = map[string]any{
		"base_url": "http://localhost:3000",
	}
	if err := c.SaveConfig(configFile); err != nil {
		return withExitCode(ExitConfigError, fmt.Errorf("failed to create config file: %w", err))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", configFile)
	return nil
}
