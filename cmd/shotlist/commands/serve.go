package commands

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cmorrow/shotlist/internal/api"
	"github.com/cmorrow/shotlist/internal/capture"
	"github.com/cmorrow/shotlist/internal/logger"
	"github.com/cmorrow/shotlist/internal/shotlist"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the shotlist server",
	Long: `Start the shotlist HTTP server.

The server loads the screenshot index, exposes the list over a REST
API, and streams a rendered preview of the two-pane layout to websocket
clients. Captures can be triggered through the API.`,
	Example: `  # Start server on default port (8080)
  shotlist serve

  # Start server on custom port
  shotlist serve --port 9090

  # Start with debug logging
  shotlist serve --log-level debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	configMgr, cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.WithComponent("serve")
	log.Info().Str("config", configMgr.Path()).Msg("Configuration loaded")

	router := capture.NewRouter()
	if err := router.Start(); err != nil {
		// The server can still browse existing screenshots without a
		// capture backend.
		log.Warn().Err(err).Msg("No capture backend, API captures will fail")
	} else {
		defer router.Stop()
		log.Info().Str("backend", router.Name()).Msg("Capture backend ready")
	}

	server := api.NewServer(configMgr)
	list := shotlist.New(server, router, cfg.ShotsDir)
	list.ListWidth = cfg.ListWidth
	list.OnResize(1024, 600)
	server.SetList(list)

	if err := list.LoadFromFile(cfg.IndexPath()); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Info().Msg("No screenshot index yet, starting empty")
		} else {
			log.Warn().Err(err).Msg("Could not load screenshot index")
		}
	}

	go func() {
		if err := server.Start(cfg.ServerPort); err != nil {
			logger.Fatal(err, "server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	log.Info().
		Str("url", fmt.Sprintf("http://localhost:%d", cfg.ServerPort)).
		Int("screenshots", list.Len()).
		Msg("shotlist is running, press Ctrl+C to stop")

	select {
	case <-sigChan:
	case <-server.Done():
	}

	log.Info().Msg("Shutting down, saving index")
	if err := list.SaveToFile(cfg.IndexPath()); err != nil {
		log.Error().Err(err).Msg("Failed to save index on shutdown")
	}
	return nil
}
