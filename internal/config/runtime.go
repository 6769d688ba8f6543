package config

import "sync"

var (
	mu      sync.Mutex
	current *Config
)

// Init loads the configuration and caches it for Get. When path is empty
// the standard search locations are used; otherwise the file at path is
// required.
func Init(path string) error {
	var cfg *Config
	var err error

	if path != "" {
		cfg, err = LoadFromPath(path)
	} else {
		cfg, err = Load()
	}
	if err != nil {
		return err
	}

	mu.Lock()
	current = cfg
	mu.Unlock()

	return nil
}

// Get returns the config loaded by Init, or defaults when Init has not
// run (e.g. in commands that do not require configuration).
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	if current == nil {
		cfg := NewDefaultConfig()
		return &cfg
	}
	return current
}

// Reset clears cached configuration. For tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	current = nil
}
