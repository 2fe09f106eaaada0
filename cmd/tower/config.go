package main

import (
	"fmt"
	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-multierror"
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

const (
	// DefaultConfigPath is the default path to the application configuration.
	DefaultConfigPath = "tower.toml"

	// DefaultAddr is the default bind address of the HTTP server.
	DefaultAddr = ":8080"
)

// Supported log formats.
const (
	LogFormatLogfmt = "logfmt"
	LogFormatJSON   = "json"
)

// Config represents the CLI configuration file.
type Config struct {
	HTTP struct {
		Addr           string   `toml:"addr"`
		AllowedOrigins []string `toml:"allowed-origins"`
	} `toml:"http"`

	Log struct {
		Format string `toml:"format"`
	} `toml:"log"`

	// A zero RPS disables rate limiting.
	RateLimit struct {
		RPS   float64 `toml:"rps"`
		Burst int     `toml:"burst"`
	} `toml:"ratelimit"`
}

// DefaultConfig returns a new instance of Config with defaults set.
func DefaultConfig() Config {
	var config Config
	config.HTTP.Addr = DefaultAddr
	config.HTTP.AllowedOrigins = []string{"http://localhost:3000"}
	config.Log.Format = LogFormatLogfmt
	config.RateLimit.Burst = 1
	return config
}

// Validate returns every problem found in the configuration.
func (c Config) Validate() error {
	var result *multierror.Error
	if c.HTTP.Addr == "" {
		result = multierror.Append(result, fmt.Errorf("http.addr required"))
	}
	if c.Log.Format != LogFormatLogfmt && c.Log.Format != LogFormatJSON {
		result = multierror.Append(result, fmt.Errorf("log.format: unsupported format %q", c.Log.Format))
	}
	if c.RateLimit.RPS < 0 {
		result = multierror.Append(result, fmt.Errorf("ratelimit.rps must not be negative"))
	}
	if c.RateLimit.RPS > 0 && c.RateLimit.Burst < 1 {
		result = multierror.Append(result, fmt.Errorf("ratelimit.burst must be at least 1 when rps is set"))
	}
	return result.ErrorOrNil()
}

// ReadConfigFile unmarshalls config from config file
func ReadConfigFile(filename string) (Config, error) {
	config := DefaultConfig()
	if buf, err := os.ReadFile(filename); err != nil {
		return config, err
	} else if err := toml.Unmarshal(buf, &config); err != nil {
		return config, err
	}
	return config, nil
}

// expand returns path using tilde expansion. This means that a file path that
// begins with the "~" will be expanded to prefix the user's home directory.
func expand(path string) (string, error) {
	// Ignore if path has no leading tilde.
	if path != "~" && !strings.HasPrefix(path, "~"+string(os.PathSeparator)) {
		return path, nil
	}

	// Fetch the current user to determine the home path.
	u, err := user.Current()
	if err != nil {
		return path, err
	} else if u.HomeDir == "" {
		return path, fmt.Errorf("home directory unset")
	}

	if path == "~" {
		return u.HomeDir, nil
	}
	return filepath.Join(u.HomeDir, strings.TrimPrefix(path, "~"+string(os.PathSeparator))), nil
}
