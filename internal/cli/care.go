package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"moltmon/internal/adapters/remote"
	"moltmon/internal/adapters/storage/filestore"
	"moltmon/internal/domain/care"
	"moltmon/internal/domain/pet"

	"github.com/spf13/cobra"
)

// Comandos de cuidado: validan contra el estado guardado y encolan. El
// proceso dueño del tick los aplica en el próximo tick.

// careClient lo cumplen care.Service (data dir local) y remote.Client
// (`moltmon web` por HTTP).
type careClient interface {
	Feed(ctx context.Context) (care.Receipt, error)
	Clean(ctx context.Context) (care.Receipt, error)
	Heal(ctx context.Context) (care.Receipt, error)
	Hatch(ctx context.Context, personality string) (care.Receipt, error)

	State(ctx context.Context) (pet.StateData, error)
	Status(ctx context.Context) (care.Status, error)
	History(ctx context.Context) (pet.History, error)
	CurrentSummary(ctx context.Context) (pet.Summary, error)
}

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Feed the pet (only when hungry)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runCare(cmd, func(ctx context.Context, svc careClient) (care.Receipt, error) {
			return svc.Feed(ctx)
		})
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean up the poop",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runCare(cmd, func(ctx context.Context, svc careClient) (care.Receipt, error) {
			return svc.Clean(ctx)
		})
	},
}

var healCmd = &cobra.Command{
	Use:   "heal",
	Short: "Heal a sick pet",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runCare(cmd, func(ctx context.Context, svc careClient) (care.Receipt, error) {
			return svc.Heal(ctx)
		})
	},
}

var hatchCmd = &cobra.Command{
	Use:   "hatch <personality>",
	Short: "Hatch the egg with a personality (brave, curious, ...)",
	Long: `Hatch the egg. The personality picks the creature: brave pets are
usually dogs, curious ones usually cats, anything else is a coin flip.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCare(cmd, func(ctx context.Context, svc careClient) (care.Receipt, error) {
			return svc.Hatch(ctx, args[0])
		})
	},
}

var careJSON bool

func init() {
	for _, c := range []*cobra.Command{feedCmd, cleanCmd, healCmd, hatchCmd} {
		c.Flags().BoolVar(&careJSON, "json", false, "print the receipt as JSON")
		rootCmd.AddCommand(c)
	}
}

func newCareClient() (careClient, error) {
	if u := strings.TrimSpace(cfg.Remote.URL); u != "" {
		return remote.NewClient(remote.Config{BaseURL: u, Timeout: cfg.Remote.Timeout()})
	}
	return care.NewService(filestore.New(dataDir())), nil
}

func runCare(cmd *cobra.Command, fn func(context.Context, careClient) (care.Receipt, error)) error {
	c, err := newCareClient()
	if err != nil {
		return err
	}
	rec, err := fn(cmd.Context(), c)
	if err != nil {
		return err
	}
	if careJSON {
		return printJSON(cmd.OutOrStdout(), rec)
	}
	fmt.Fprintln(cmd.OutOrStdout(), rec.Message)
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
