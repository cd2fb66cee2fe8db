// Package config provides YAML-based configuration for the wheel weaver server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/CryoKynase/wheel-lacing-app/internal/models"
	"gopkg.in/yaml.v3"
)

// AppConfig represents the root configuration document
type AppConfig struct {
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Live       LiveConfig       `yaml:"live"`
	Processing ProcessingConfig `yaml:"processing"`
	Advanced   AdvancedConfig   `yaml:"advanced"`
	Defaults   DefaultsConfig   `yaml:"defaults"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port           int    `yaml:"port"`
	BindAddress    string `yaml:"bindAddress"`
	EnableCORS     bool   `yaml:"enableCORS"`
	AllowOrigins   string `yaml:"allowOrigins"`
	ReadTimeout    int    `yaml:"readTimeoutSeconds"`
	WriteTimeout   int    `yaml:"writeTimeoutSeconds"`
	IdleTimeout    int    `yaml:"idleTimeoutSeconds"`
	RequestTimeout int    `yaml:"requestTimeoutSeconds"`
	BodyLimit      string `yaml:"bodyLimit"`
}

// StorageConfig selects and locates the preset store
type StorageConfig struct {
	Driver        string `yaml:"driver"`
	DataDirectory string `yaml:"dataDirectory"`
	DatabaseFile  string `yaml:"databaseFile"`
}

// LiveConfig controls websocket live-compute sessions
type LiveConfig struct {
	SessionTimeoutMinutes  int `yaml:"sessionTimeoutMinutes"`
	CleanupIntervalMinutes int `yaml:"cleanupIntervalMinutes"`
	MaxMessageSizeKB       int `yaml:"maxMessageSizeKB"`
	MaxSessions            int `yaml:"maxSessions"`
}

// ProcessingConfig contains response processing settings
type ProcessingConfig struct {
	EnableCompression bool `yaml:"enableCompression"`
	CompressionLevel  int  `yaml:"compressionLevel"`
}

// AdvancedConfig contains logging and tuning options
type AdvancedConfig struct {
	LogLevel             string `yaml:"logLevel"`
	EnableRequestLogging bool   `yaml:"enableRequestLogging"`
	DevelopmentLogging   bool   `yaml:"developmentLogging"`
}

// DefaultsConfig holds the inputs used when a request omits them
type DefaultsConfig struct {
	Method         string                `yaml:"method"`
	Holes          int                   `yaml:"holes"`
	StartRimHole   int                   `yaml:"startRimHole"`
	ValveReference models.ValveReference `yaml:"valveReference"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:           8089,
			BindAddress:    "0.0.0.0",
			EnableCORS:     true,
			AllowOrigins:   "*",
			ReadTimeout:    30,
			WriteTimeout:   30,
			IdleTimeout:    120,
			RequestTimeout: 30,
			BodyLimit:      "2M",
		},
		Storage: StorageConfig{
			Driver:        "duckdb",
			DataDirectory: "./data",
			DatabaseFile:  "presets.duckdb",
		},
		Live: LiveConfig{
			SessionTimeoutMinutes:  30,
			CleanupIntervalMinutes: 5,
			MaxMessageSizeKB:       64,
			MaxSessions:            256,
		},
		Processing: ProcessingConfig{
			EnableCompression: true,
			CompressionLevel:  5,
		},
		Advanced: AdvancedConfig{
			LogLevel:             "info",
			EnableRequestLogging: true,
		},
		Defaults: DefaultsConfig{
			Method:         "standard",
			Holes:          32,
			StartRimHole:   1,
			ValveReference: models.RightOfValve,
		},
	}
}

// LoadConfig loads configuration from a YAML file, writing the defaults there
// first if it does not exist. Keys missing from the file keep their defaults.
func LoadConfig(configPath string) (*AppConfig, error) {
	config := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := config.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	config.applyEnvironmentOverrides()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.resolvePaths(filepath.Dir(configPath))

	return config, nil
}

// Save saves the configuration to a YAML file
func (c *AppConfig) Save(configPath string) error {
	output, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte("# Wheel Weaver configuration\n# This file is auto-generated on first run\n\n")
	content := append(header, output...)

	if dir := filepath.Dir(configPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate rejects values the server cannot start with
func (c *AppConfig) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	switch c.Storage.Driver {
	case "duckdb", "sqlite", "memory":
	default:
		return fmt.Errorf("invalid storage driver %q (want duckdb, sqlite or memory)", c.Storage.Driver)
	}
	if c.Defaults.Holes != 0 && (c.Defaults.Holes < 20 || c.Defaults.Holes%2 != 0) {
		return fmt.Errorf("invalid default hole count %d", c.Defaults.Holes)
	}
	if c.Defaults.ValveReference != "" && !c.Defaults.ValveReference.Valid() {
		return fmt.Errorf("invalid default valve reference %q", c.Defaults.ValveReference)
	}
	return nil
}

// applyEnvironmentOverrides allows environment variables to override config values
func (c *AppConfig) applyEnvironmentOverrides() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if dataDir := os.Getenv("DATA_DIR"); dataDir != "" {
		c.Storage.DataDirectory = dataDir
	}

	if driver := os.Getenv("WHEELWEAVER_STORAGE_DRIVER"); driver != "" {
		c.Storage.Driver = strings.ToLower(driver)
	}

	if level := os.Getenv("WHEELWEAVER_LOG_LEVEL"); level != "" {
		c.Advanced.LogLevel = level
	}
}

// resolvePaths converts relative paths to absolute based on config file location
func (c *AppConfig) resolvePaths(configDir string) {
	if !filepath.IsAbs(c.Storage.DataDirectory) {
		c.Storage.DataDirectory = filepath.Join(configDir, c.Storage.DataDirectory)
	}
}

// GetDataDir returns the absolute data directory path
func (c *AppConfig) GetDataDir() string {
	return c.Storage.DataDirectory
}

// DatabasePath returns the preset database location. The memory driver has
// none.
func (c *AppConfig) DatabasePath() string {
	if c.Storage.Driver == "memory" {
		return ""
	}
	if filepath.IsAbs(c.Storage.DatabaseFile) {
		return c.Storage.DatabaseFile
	}
	return filepath.Join(c.Storage.DataDirectory, c.Storage.DatabaseFile)
}

// GetServerAddr returns the server bind address
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// EnsureDirectories creates all necessary directories
func (c *AppConfig) EnsureDirectories() error {
	dirs := []string{c.Storage.DataDirectory}
	if path := c.DatabasePath(); path != "" {
		dirs = append(dirs, filepath.Dir(path))
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
