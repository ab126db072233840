package config

import (
	"log"
	"os"
	"path/filepath"
)

// Config holds application configuration
type Config struct {
	// Server settings
	ListenAddr string `json:"listen_addr"`
	Debug      bool   `json:"debug"`

	// Directories
	DataDirectory string `json:"data_directory"`

	// File paths
	AdvisoryFile string `json:"advisory_file"`

	// Explicit reference table filename inside the data directory.
	// Empty means the standard primary/fallback filenames.
	SectorFile string `json:"sector_file"`

	// Passphrase for an encrypted data directory. Empty means prompt
	// on the terminal when the directory turns out to be encrypted.
	DataPassword string `json:"-"`
}

// DefaultConfig returns configuration with sensible defaults
func DefaultConfig() *Config {
	// Get working directory
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}

	return &Config{
		ListenAddr:    ":8080",
		Debug:         false,
		DataDirectory: filepath.Join(wd, "data"),
		AdvisoryFile:  filepath.Join(wd, "configs", "advisory.yaml"),
	}
}

// Load loads configuration from environment variables
func Load() *Config {
	cfg := DefaultConfig()

	// Override with environment variables
	if addr := os.Getenv("CBAM_LISTEN_ADDR"); addr != "" {
		cfg.ListenAddr = addr
	}
	if debug := os.Getenv("CBAM_DEBUG"); debug == "true" || debug == "1" {
		cfg.Debug = true
	}
	if dataDir := os.Getenv("CBAM_DATA_DIR"); dataDir != "" {
		cfg.DataDirectory = dataDir
	}
	if advisoryFile := os.Getenv("CBAM_ADVISORY_FILE"); advisoryFile != "" {
		cfg.AdvisoryFile = advisoryFile
	}
	if sectorFile := os.Getenv("CBAM_SECTOR_FILE"); sectorFile != "" {
		cfg.SectorFile = sectorFile
	}
	cfg.DataPassword = os.Getenv("CBAM_DATA_PASSWORD")

	// Ensure directories exist
	cfg.ensureDirectories()

	return cfg
}

// ensureDirectories creates required directories if they don't exist
func (c *Config) ensureDirectories() {
	if err := os.MkdirAll(c.DataDirectory, 0755); err != nil {
		log.Printf("Warning: could not create directory %s: %v", c.DataDirectory, err)
	}
}
