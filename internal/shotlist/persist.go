package shotlist

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cmorrow/shotlist/internal/logger"
	"github.com/cmorrow/shotlist/internal/shot"
)

// indexFile is the on-disk JSON shape of the list. Every field is a
// pointer so absent keys can be told apart from zero values: loading
// only overwrites state the file actually mentions, which keeps old
// index files valid as fields are added.
type indexFile struct {
	Screenshots       *[]string `json:"screenshots"`
	ListWidth         *int      `json:"listWidth"`
	SelectedIndex     *int      `json:"selectedIndex"`
	ListScroll        *int      `json:"listScroll"`
	HotkeysRegistered *bool     `json:"hotkeysRegistered"`
}

// SaveToFile writes the list state to path as JSON. The previous index
// survives as path+".bak": the old backup is removed, the current file
// is renamed into its place, and only then is the new index written.
func (l *List) SaveToFile(path string) error {
	idx := indexFile{
		ListWidth:         &l.ListWidth,
		SelectedIndex:     &l.SelectedIndex,
		ListScroll:        &l.ListScroll,
		HotkeysRegistered: &l.HotkeysRegistered,
	}
	names := make([]string, 0, len(l.shots))
	for _, s := range l.shots {
		names = append(names, s.FileName)
	}
	idx.Screenshots = &names

	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}
	data = append(data, '\n')

	bakPath := path + ".bak"
	if err := os.Remove(bakPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove old backup: %w", err)
	}
	if err := os.Rename(path, bakPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to back up index: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}
	return nil
}

// LoadFromFile replaces the list state with the contents of the index
// at path. A missing or malformed index leaves the model untouched and
// returns an error; individual screenshot files that fail to load are
// skipped with a warning rather than failing the whole load, so one
// deleted BMP does not take the rest of the list with it.
func (l *List) LoadFromFile(path string) error {
	log := logger.WithComponent("shotlist")

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read index: %w", err)
	}

	var idx indexFile
	if err := json.Unmarshal(data, &idx); err != nil {
		return fmt.Errorf("failed to parse index: %w", err)
	}

	l.Clear()

	if idx.Screenshots != nil {
		for _, name := range *idx.Screenshots {
			s := &shot.Shot{}
			if err := s.LoadBMPFile(name); err != nil {
				log.Warn().Err(err).Str("file", name).
					Msg("Skipping unreadable screenshot")
				continue
			}
			l.shots = append(l.shots, s)
		}
	}

	if idx.ListWidth != nil {
		l.ListWidth = *idx.ListWidth
	}
	if idx.SelectedIndex != nil {
		l.SelectedIndex = *idx.SelectedIndex
	}
	if idx.ListScroll != nil {
		l.ListScroll = *idx.ListScroll
	}
	if idx.HotkeysRegistered != nil {
		l.HotkeysRegistered = *idx.HotkeysRegistered
	}

	// Stored selection and scroll may point past the end if screenshots
	// failed to load, so re-clamp against what actually arrived.
	l.boundSelectedIndex()
	l.setScrollInfo()
	l.host.RequestRedraw()

	log.Info().Int("count", len(l.shots)).Str("path", path).Msg("Loaded screenshot index")
	return nil
}
