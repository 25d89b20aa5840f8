package main

import (
	"strings"

	"github.com/hyperjump/assessly/internal/cli"
	"github.com/spf13/cobra"
)

func newRecommendCmd(flags *rootFlags) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "recommend <query>...",
		Short: "Print recommendations for a query",
		Long: `Run one recommendation without starting the server. The query is all
remaining arguments joined by spaces, so quoting is optional.`,
		Example: `  assessly recommend Java developer who works well in teams
  assessly recommend --output json "sales manager, 40 minutes"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cli.ParseOutputFormat(output)
			if err != nil {
				return err
			}
			return runRecommend(cmd, flags, buildQuery(args), format)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text or json")
	return cmd
}

// buildQuery joins positional args with spaces so multi-word queries work the same
// with or without shell quoting.
func buildQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func runRecommend(cmd *cobra.Command, flags *rootFlags, query string, format cli.OutputFormat) error {
	cfg, logger, err := setup(flags)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx := cmd.Context()
	components, err := initializeComponents(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer components.Close()

	resp, err := components.Service.Recommend(ctx, query)
	if err != nil {
		return err
	}
	return cli.WriteRecommendations(cmd.OutOrStdout(), resp, format)
}
