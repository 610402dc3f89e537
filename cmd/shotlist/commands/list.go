package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cmorrow/shotlist/internal/shotlist"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List captured screenshots",
	Long: `List the screenshots in the index, newest first.

Each entry shows the file name, pixel size, and whether it is the
currently selected item.`,
	Example: `  # List screenshots in table format (default)
  shotlist list

  # List screenshots in JSON format
  shotlist list --format json`,
	RunE: runList,
}

var listFormat string

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listFormat, "format", "f", "table", "output format (table or json)")
}

// listEntry is the JSON output shape of one index entry.
type listEntry struct {
	FileName string `json:"file_name"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Selected bool   `json:"selected"`
}

func runList(cmd *cobra.Command, args []string) error {
	_, cfg, err := loadConfig()
	if err != nil {
		return err
	}

	list := shotlist.New(nil, nil, cfg.ShotsDir)
	if err := list.LoadFromFile(cfg.IndexPath()); err != nil {
		return fmt.Errorf("failed to load index: %w", err)
	}

	entries := make([]listEntry, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		s := list.At(i)
		entries = append(entries, listEntry{
			FileName: s.FileName,
			Width:    s.Width(),
			Height:   s.Height(),
			Selected: i == list.SelectedIndex,
		})
	}

	switch listFormat {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	case "table":
		if err := printEntriesTable(entries); err != nil {
			return err
		}
		printSummary(list.Len(), list.SelectedIndex, list.ListScroll)
		return nil
	default:
		return fmt.Errorf("unsupported format: %s (use 'table' or 'json')", listFormat)
	}
}

func printEntriesTable(entries []listEntry) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "FILE\tSIZE\tSELECTED")
	fmt.Fprintln(w, "----\t----\t--------")

	for _, e := range entries {
		selected := ""
		if e.Selected {
			selected = "*"
		}
		fmt.Fprintf(w, "%s\t%dx%d\t%s\n", e.FileName, e.Width, e.Height, selected)
	}

	return nil
}

func printSummary(count, selected, scroll int) {
	fmt.Printf("\n%d screenshot(s), selected index %d, list scroll %d\n",
		count, selected, scroll)
}
