package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/garrisonlabs/bugle/internal/config"
)

// Environment holds env-var overrides for deployment settings that do
// not belong in the schedule document. BUGLE_CONFIG is handled by the
// cli flag itself.
type Environment struct {
	APIToken      string
	ListenAddress string
}

// LoadEnvironment reads .env (if present) and the BUGLE_* variables.
func LoadEnvironment() Environment {
	_ = godotenv.Load()

	return Environment{
		APIToken:      os.Getenv("BUGLE_API_TOKEN"),
		ListenAddress: os.Getenv("BUGLE_LISTEN_ADDRESS"),
	}
}

// Apply overlays the environment onto the loaded configuration.
func (e Environment) Apply(cfg *config.Config) {
	if e.APIToken != "" {
		cfg.APIToken = e.APIToken
	}
	if e.ListenAddress != "" {
		cfg.ListenAddress = e.ListenAddress
	}
}
