package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/critiqhq/critiq/internal/config"
	"github.com/critiqhq/critiq/internal/gerrit"
	"github.com/critiqhq/critiq/internal/server"
)

var (
	flagHost string
	flagPort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP analysis API",
	Long:  "Serve the analysis API over HTTP, including the Gerrit webhook when Gerrit credentials are configured.",
	RunE: func(cmd *cobra.Command, args []string) error {
		overrides := buildOverrides()
		if flagHost != "" {
			overrides["host"] = flagHost
		}
		if flagPort > 0 {
			overrides["port"] = strconv.Itoa(flagPort)
		}

		cfg, err := config.Load(overrides)
		if err != nil {
			return err
		}

		log := slog.New(slog.NewTextHandler(os.Stderr, nil))

		opts := server.Options{Logger: log}
		if gc, err := gerrit.NewClient(cfg.Gerrit.URL); err != nil {
			log.Warn("gerrit integration disabled", "reason", err)
		} else {
			opts.Gerrit = gc
		}

		if err := server.New(cfg, opts).ListenAndServe(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagHost, "host", "", "Bind address (default from config)")
	serveCmd.Flags().IntVar(&flagPort, "port", 0, "Listen port (default from config)")
	serveCmd.Flags().StringVar(&flagProvider, "provider", "", "LLM provider (gemini, anthropic, openai, ollama)")
	serveCmd.Flags().StringVar(&flagModel, "model", "", "Model name")
}
