// Package main is the assessly CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const app = "assessly"

// Set at build time with -ldflags "-X main.version=...".
var version = "dev"

const defaultConfigPath = "/usr/local/etc/assessly/config.yaml"

type rootFlags struct {
	configPath string
	debug      bool
	envFile    string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           app,
		Short:         "assessly recommends talent assessments for a hiring query",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadEnvFile(flags.envFile)
		},
	}
	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", defaultConfigPath, "config file path")
	root.PersistentFlags().BoolVarP(&flags.debug, "debug", "d", false, "enable debug logging")
	root.PersistentFlags().StringVar(&flags.envFile, "env-file", ".env", "dotenv file loaded before reading the environment (ignored when missing)")

	root.AddCommand(
		newServeCmd(flags),
		newIndexCmd(flags),
		newImportCmd(flags),
		newRecommendCmd(flags),
		newStatusCmd(flags),
		newVersionCmd(),
	)
	return root
}

// loadEnvFile loads path into the process environment without overriding variables
// that are already set. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", app, version)
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
