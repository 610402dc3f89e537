package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cmorrow/shotlist/internal/capture"
	"github.com/cmorrow/shotlist/internal/logger"
	"github.com/cmorrow/shotlist/internal/shotlist"
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Take a screenshot and add it to the list",
	Long: `Capture the full screen and store it at the front of the screenshot
list. The image is written as a BMP file under the shots directory and
the JSON index is updated, with the previous index kept as a .bak file.`,
	Example: `  # Capture using the default config
  shotlist capture

  # Capture with a specific config file
  shotlist capture --config /path/to/config.yaml`,
	RunE: runCapture,
}

func init() {
	rootCmd.AddCommand(captureCmd)
}

func runCapture(cmd *cobra.Command, args []string) error {
	_, cfg, err := loadConfig()
	if err != nil {
		return err
	}

	router := capture.NewRouter()
	if err := router.Start(); err != nil {
		return fmt.Errorf("failed to start capture backend: %w", err)
	}
	defer router.Stop()

	list := shotlist.New(nil, router, cfg.ShotsDir)
	list.ListWidth = cfg.ListWidth

	// An absent index just means this is the first capture.
	if err := list.LoadFromFile(cfg.IndexPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.WithComponent("capture-cmd").Warn().Err(err).
			Msg("Could not load existing index, starting fresh")
	}

	list.CaptureAndPrepend()

	if err := list.SaveToFile(cfg.IndexPath()); err != nil {
		return fmt.Errorf("failed to save index: %w", err)
	}

	fmt.Printf("Captured %s (%dx%d), %d screenshot(s) in list\n",
		list.At(0).FileName, list.At(0).Width(), list.At(0).Height(), list.Len())
	return nil
}
