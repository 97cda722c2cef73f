// Package config provides centralized configuration management.
// Values come from defaults, then an optional YAML file, then environment
// variables.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	DefaultAPIURL    = "https://adamperkowski.dev/api/nixdle"
	DefaultTheme     = "nix"
	DefaultLockfile  = "/tmp/nixdle.lock"
	DefaultDataDir   = "lib/data"
	DefaultAddr      = "0.0.0.0:8000"
	DefaultPublicURL = "http://0.0.0.0:8000"
	DefaultLogLevel  = "info"
)

// NixdleEnv holds all nixdle settings.
type NixdleEnv struct {
	// APIURL is the game server the client talks to (NIXDLE_API)
	APIURL string

	// Theme is the client color theme, nix or lix (NIXDLE_THEME)
	Theme string

	// HideRules skips the rules text on start (NIXDLE_HIDE_RULES)
	HideRules bool

	// Lockfile is the client's progress file; its tag lives next to it (NIXDLE_LOCKFILE)
	Lockfile string

	// LogLevel is the minimum log level (NIXDLE_LOG_LEVEL)
	LogLevel string

	// DataDir holds functions.json and builtin_types.json (DATA_DIR)
	DataDir string

	// Addr is the server listen address (NIXDLE_ADDR)
	Addr string

	// PublicURL is the externally visible server URL used in attempt_url (NIXDLE_PUBLIC_URL)
	PublicURL string

	// BuildCommit is the nixpkgs commit the data was generated from (NIXDLE_BUILD_COMMIT)
	BuildCommit string

	// ConfigFile is the YAML file that was applied, if any (NIXDLE_CONFIG)
	ConfigFile string

	// ConfigErr is set when a config file exists but could not be applied,
	// or when an explicit NIXDLE_CONFIG is missing
	ConfigErr error
}

var (
	env     *NixdleEnv
	envOnce sync.Once
)

// Env returns the singleton configuration.
// Thread-safe, loads once on first call.
func Env() *NixdleEnv {
	envOnce.Do(func() {
		env = load()
	})
	return env
}

// ResetEnv resets the cached configuration (for testing).
func ResetEnv() {
	envOnce = sync.Once{}
	env = nil
}

func load() *NixdleEnv {
	e := &NixdleEnv{
		APIURL:    DefaultAPIURL,
		Theme:     DefaultTheme,
		Lockfile:  DefaultLockfile,
		LogLevel:  DefaultLogLevel,
		DataDir:   DefaultDataDir,
		Addr:      DefaultAddr,
		PublicURL: DefaultPublicURL,
	}

	path := os.Getenv("NIXDLE_CONFIG")
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}
	f, err := LoadFile(path)
	switch {
	case err == nil:
		f.apply(e)
		e.ConfigFile = path
	case explicit || !IsNotExist(err):
		e.ConfigErr = err
	}

	e.APIURL = getEnvDefault("NIXDLE_API", e.APIURL)
	e.Theme = getEnvDefault("NIXDLE_THEME", e.Theme)
	e.HideRules = getEnvBool("NIXDLE_HIDE_RULES", e.HideRules)
	e.Lockfile = getEnvDefault("NIXDLE_LOCKFILE", e.Lockfile)
	e.LogLevel = getEnvDefault("NIXDLE_LOG_LEVEL", e.LogLevel)
	e.DataDir = getEnvDefault("DATA_DIR", e.DataDir)
	e.Addr = getEnvDefault("NIXDLE_ADDR", e.Addr)
	e.PublicURL = strings.TrimRight(getEnvDefault("NIXDLE_PUBLIC_URL", e.PublicURL), "/")
	e.BuildCommit = getEnvDefault("NIXDLE_BUILD_COMMIT", e.BuildCommit)
	return e
}

func getEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	}
	return fallback
}

// DefaultConfigPath is ~/.config/nixdle/config.yaml, honoring XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "nixdle", "config.yaml")
}
