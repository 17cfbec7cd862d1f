package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scrutiny/internal/adapters/driven/config/file"
	"github.com/custodia-labs/scrutiny/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/scrutiny/internal/logger"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server for browser and script clients.

Endpoints:
  POST /upload    multipart syllabus, question_paper and textbooks files
  POST /validate  {"question_paper_path": "..."} from a previous upload
  GET  /healthz   health check

Prompt templates are reloaded when files in the prompt directory change.`,
	Annotations: aiAnnotation(),
	RunE:        runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if sessionService == nil || built == nil {
		return errors.New("session service not configured")
	}

	settings := built.Server
	if serveAddr != "" {
		settings.Addr = serveAddr
	}

	server, err := httpapi.NewServer(sessionService, settings)
	if err != nil {
		return err
	}

	if built.Prompts != nil && built.PromptDir != "" {
		watcher, err := file.WatchPrompts(cmd.Context(), built.Prompts, built.PromptDir,
			file.WithReloadHook(func(name string) {
				logger.Info("Prompt %s changed, reloaded", name)
			}))
		if err != nil {
			logger.Warn("Prompt hot reload disabled: %v", err)
		} else {
			defer func() { _ = watcher.Close() }()
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "HTTP server listening on %s\n", settings.Addr)
	return server.Run(cmd.Context(), settings.Addr)
}
