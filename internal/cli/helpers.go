package cli

import (
	"github.com/glorpus-work/clearcache/pkg/config"
)

// ConfigPath is set by the main package from the --config flag.
var ConfigPath *string

// loadConfig loads the configuration file, falling back to the per-user
// default location and then to built-in defaults.
func loadConfig() (*config.Config, error) {
	path := ""
	if ConfigPath != nil {
		path = *ConfigPath
	}

	if path == "" {
		defaultPath, err := config.GetDefaultConfigPath()
		if err != nil {
			return config.DefaultConfig(), nil
		}
		path = defaultPath
	}

	return config.LoadConfig(path)
}
