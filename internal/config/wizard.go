package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// detectSnapshot looks for a published data.json in the usual places.
func detectSnapshot() string {
	for _, candidate := range []string{"data.json", "public/data.json", "site/data.json"} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .folio.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to folio! Let's configure your portfolio.")
	fmt.Println()

	cfg := DefaultConfig()

	detected := detectSnapshot()
	if detected != "" {
		fmt.Printf("Found published snapshot: %s\n\n", detected)
	}

	// 1. Storage backend.
	driverPrompt := promptui.Select{
		Label: "Where should admin edits be stored",
		Items: []string{
			"sqlite - single file in the data directory",
			"badger - embedded key/value directory",
			"memory - discarded on exit (previews)",
		},
	}
	driverIdx, _, err := driverPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("storage selection: %w", err)
	}
	drivers := []StorageDriver{StorageSQLite, StorageBadger, StorageMemory}
	cfg.Storage.Driver = drivers[driverIdx]

	// 2. Data directory.
	dataPrompt := promptui.Prompt{
		Label:   "Data directory",
		Default: cfg.DataDir,
	}
	if cfg.DataDir, err = dataPrompt.Run(); err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	// 3. Snapshot location.
	snapshotPrompt := promptui.Prompt{
		Label:   "Published data.json (file path or http(s) URL)",
		Default: firstNonEmpty(detected, cfg.Snapshot.Path),
	}
	snapshot, err := snapshotPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("snapshot location: %w", err)
	}
	if strings.HasPrefix(snapshot, "http://") || strings.HasPrefix(snapshot, "https://") {
		cfg.Snapshot.URL, cfg.Snapshot.Path = snapshot, ""
	} else {
		cfg.Snapshot.Path = snapshot
		cfg.Snapshot.Watch = true
	}

	// 4. Port.
	portPrompt := promptui.Prompt{
		Label:   "HTTP port",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("not a valid port")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	// 5. Contact defaults.
	emailPrompt := promptui.Prompt{
		Label:   "Default contact email (leave blank to skip)",
		Default: "",
	}
	if cfg.ContactDefaults.Email, err = emailPrompt.Run(); err != nil {
		return nil, fmt.Errorf("contact email: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := cfg.Save(DefaultPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", DefaultPath)
	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
