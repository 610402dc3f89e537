package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cmorrow/shotlist/internal/logger"
)

// Config is the application configuration.
type Config struct {
	// ShotsDir is the directory screenshot files and the index are
	// written to.
	ShotsDir string `yaml:"shots_dir"`

	// IndexFile is the name of the JSON index inside ShotsDir.
	IndexFile string `yaml:"index_file"`

	// ListWidth is the initial pixel width of the thumbnail column.
	ListWidth int `yaml:"list_width"`

	// ServerPort is the port the preview server listens on.
	ServerPort int `yaml:"server_port"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// IndexPath returns the full path of the JSON index file.
func (c *Config) IndexPath() string {
	return filepath.Join(c.ShotsDir, c.IndexFile)
}

// Defaults returns the default configuration.
func Defaults() *Config {
	return &Config{
		ShotsDir:   "shots",
		IndexFile:  "list.json",
		ListWidth:  400,
		ServerPort: 8080,
		LogLevel:   "info",
	}
}

// Manager loads and saves the YAML config file.
type Manager struct {
	configPath string
	config     *Config
}

// NewManager loads the config from configFile, falling back to
// ~/.config/shotlist/config.yaml. A missing file is created with
// defaults.
func NewManager(configFile string) (*Manager, error) {
	actualPath := configFile
	if actualPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		actualPath = filepath.Join(homeDir, ".config", "shotlist", "config.yaml")
	}

	m := &Manager{configPath: actualPath}

	if err := m.load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		logger.WithComponent("config").Info().
			Str("path", m.configPath).
			Msg("Config file not found, creating new config")
		m.config = Defaults()
		if err := m.Save(); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	return m, nil
}

// load reads the configuration from disk. Absent fields keep their
// defaults, so old config files stay valid as fields are added.
func (m *Manager) load() error {
	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	m.config = cfg
	return nil
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() *Config {
	if m.config == nil {
		return Defaults()
	}
	cfg := *m.config
	return &cfg
}

// Save writes the current configuration to disk.
func (m *Manager) Save() error {
	cfg := m.config
	if cfg == nil {
		cfg = Defaults()
	}

	if err := os.MkdirAll(filepath.Dir(m.configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(m.configPath, data, 0644)
}

// Path returns the config file path.
func (m *Manager) Path() string {
	return m.configPath
}
