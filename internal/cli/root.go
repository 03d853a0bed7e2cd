package cli

import (
	"fmt"

	"moltmon/internal/config"
	"moltmon/internal/domain/timing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "moltmon",
	Short: "A virtual pet that lives in your terminal",
	Long: `Moltmon is a virtual pet. One process owns the clock (the terminal or the
web server) and every other command talks to it through a shared data
directory: feed, clean and heal are queued and applied on the next tick.

Running moltmon without a subcommand starts the terminal view.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runTerminal,
}

// cfg queda listo en PersistentPreRunE, antes de cualquier RunE.
var cfg *config.Config

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config file (default is ./moltmon.yaml or $XDG_CONFIG_HOME/moltmon/moltmon.yaml)")
	rootCmd.PersistentFlags().BoolP("dev-mode", "d", false, "use fast timers (seconds instead of minutes)")
	rootCmd.PersistentFlags().String("data-dir", "", "shared data directory (default $MOLTMON_DATA_DIR or ./.moltmon/v0)")
	rootCmd.PersistentFlags().String("remote", "", "send care commands and queries to a running moltmon web server at this url")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("dev_mode", rootCmd.PersistentFlags().Lookup("dev-mode"))
	_ = viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
	_ = viper.BindPFlag("remote.url", rootCmd.PersistentFlags().Lookup("remote"))
}

func initConfig() {
	// Defaults primero: así existen aunque no haya archivo de configuración.
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(config.AppName)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath(config.ConfigDir())
	}

	config.LoadEnvFiles(".")
	config.BindEnv()

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

func loadConfig(_ *cobra.Command, _ []string) error {
	c, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	cfg = c
	timing.SetDevMode(cfg.DevMode)
	return nil
}
