package config

import "time"

// StorageDriver selects the local storage backend.
type StorageDriver string

const (
	StorageSQLite StorageDriver = "sqlite"
	StorageBadger StorageDriver = "badger"
	StorageMemory StorageDriver = "memory"
)

// Config is the top-level folio configuration, corresponding to .folio.yml.
type Config struct {
	Port            int             `yaml:"port" koanf:"port"`
	DataDir         string          `yaml:"data_dir" koanf:"data_dir"`
	Storage         StorageConfig   `yaml:"storage" koanf:"storage"`
	Snapshot        SnapshotConfig  `yaml:"snapshot" koanf:"snapshot"`
	CORS            CORSConfig      `yaml:"cors" koanf:"cors"`
	ContactDefaults ContactDefaults `yaml:"contact_defaults" koanf:"contact_defaults"`
	Log             LogConfig       `yaml:"log" koanf:"log"`
	Images          ImagesConfig    `yaml:"images" koanf:"images"`
}

// StorageConfig picks where admin edits are kept.
type StorageConfig struct {
	Driver StorageDriver `yaml:"driver" koanf:"driver"`
}

// SnapshotConfig locates the published data.json. URL wins over Path when
// both are set.
type SnapshotConfig struct {
	URL     string        `yaml:"url" koanf:"url"`
	Path    string        `yaml:"path" koanf:"path"`
	Watch   bool          `yaml:"watch" koanf:"watch"`
	Timeout time.Duration `yaml:"timeout" koanf:"timeout"`
}

// CORSConfig controls cross-origin access to the API.
type CORSConfig struct {
	AllowAll bool `yaml:"allow_all" koanf:"allow_all"`
}

// ContactDefaults fill an empty email or phone in the merged contact and are
// then saved to storage.
type ContactDefaults struct {
	Email string `yaml:"email" koanf:"email"`
	Phone string `yaml:"phone" koanf:"phone"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `yaml:"level" koanf:"level"`
	Format string `yaml:"format" koanf:"format"`
}

// ImagesConfig tunes `folio images check`.
type ImagesConfig struct {
	Concurrency int           `yaml:"concurrency" koanf:"concurrency"`
	Timeout     time.Duration `yaml:"timeout" koanf:"timeout"`
}
