package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/critiqhq/critiq/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage critiq configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.ConfigPath()
		if err != nil {
			return err
		}

		if _, err := os.Stat(path); err == nil {
			fmt.Fprintf(os.Stderr, "Config file already exists at %s\n", path)
			return nil
		}

		cfg := config.Default()
		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Fprintf(os.Stdout, "Config file created at %s\n", path)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadFile()
		if err != nil {
			// If no config file, start from defaults
			cfg = config.Default()
		}

		if err := config.SetField(&cfg, args[0], args[1]); err != nil {
			return err
		}

		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}

		fmt.Fprintf(os.Stdout, "Set %s = %s\n", args[0], args[1])
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	Long:  "Shows the merged configuration (defaults, file, environment) as the keys accepted by `config set`.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(nil)
		if err != nil {
			return err
		}

		rows := []struct {
			key   string
			value any
		}{
			{"provider", cfg.Provider},
			{"model", cfg.Model},
			{"format", cfg.Format},
			{"temperature", cfg.Temperature},
			{"maxTokens", cfg.MaxTokens},
			{"timeoutSeconds", cfg.TimeoutSeconds},
			{"minReviewScore", cfg.MinReviewScore},
			{"autoPostReview", cfg.AutoPostReview},
			{"weightsFile", cfg.WeightsFile},
			{"server.host", cfg.Server.Host},
			{"server.port", cfg.Server.Port},
			{"gerrit.url", cfg.Gerrit.URL},
			{"cache.enabled", cfg.Cache.Enabled},
			{"cache.dir", cfg.Cache.Dir},
			{"cache.ttlSeconds", cfg.Cache.TTLSeconds},
			{"privacy.redactSecrets", cfg.Privacy.RedactSecrets},
		}
		for _, row := range rows {
			fmt.Fprintf(os.Stdout, "%-22s = %v\n", row.key, row.value)
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configShowCmd)
}
