package config

import "time"

// DefaultPath is where Load and the init wizard look for the config file.
const DefaultPath = ".folio.yml"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:    8080,
		DataDir: ".folio",
		Storage: StorageConfig{Driver: StorageSQLite},
		Snapshot: SnapshotConfig{
			Path:    "data.json",
			Timeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Images: ImagesConfig{
			Concurrency: 8,
			Timeout:     10 * time.Second,
		},
	}
}
