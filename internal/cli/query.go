package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the full persisted state as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runQuery(cmd, func(ctx context.Context, c careClient) (any, error) {
			return c.State(ctx)
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print what the pet needs right now as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runQuery(cmd, func(ctx context.Context, c careClient) (any, error) {
			return c.Status(ctx)
		})
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print every pet that ever lived as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runQuery(cmd, func(ctx context.Context, c careClient) (any, error) {
			return c.History(ctx)
		})
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the current pet's summary as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runQuery(cmd, func(ctx context.Context, c careClient) (any, error) {
			return c.CurrentSummary(ctx)
		})
	},
}

func init() {
	rootCmd.AddCommand(stateCmd, statusCmd, historyCmd, summaryCmd)
}

func runQuery(cmd *cobra.Command, fn func(context.Context, careClient) (any, error)) error {
	c, err := newCareClient()
	if err != nil {
		return err
	}
	v, err := fn(cmd.Context(), c)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), v)
}
