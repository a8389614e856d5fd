package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	flag "github.com/spf13/pflag"

	"github.com/s2-streamstore/s2-tui/internal/app"
)

// Config captures runtime configuration for the application.
type Config struct {
	App         app.Config
	Logging     Logging
	ConfigPath  string
	ShowVersion bool
	SaveToken   bool
	Flags       map[string]string
	Args        []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

// File is the on-disk TOML shape, shared with the other s2 command-line
// tools (~/.config/s2/config.toml).
type File struct {
	AccessToken     string `toml:"access_token"`
	AccountEndpoint string `toml:"account_endpoint,omitempty"`
	BasinEndpoint   string `toml:"basin_endpoint,omitempty"`
}

const (
	envAccessToken     = "S2_ACCESS_TOKEN"
	envAccountEndpoint = "S2_ACCOUNT_ENDPOINT"
	envBasinEndpoint   = "S2_BASIN_ENDPOINT"
	envConfigFile      = "S2_CONFIG_FILE"
	envLogFile         = "S2_TUI_LOG_FILE"
	envTrace           = "S2_TUI_TRACE"
)

// Load parses configuration from CLI arguments, environment variables, and
// the config file, in decreasing precedence.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	fs := flag.NewFlagSet("s2-tui", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	token := fs.String("access-token", envOrDefault(env, envAccessToken, ""), "access token for the service (overrides the config file)")
	accountEndpoint := fs.String("account-endpoint", envOrDefault(env, envAccountEndpoint, ""), "override the account endpoint")
	basinEndpoint := fs.String("basin-endpoint", envOrDefault(env, envBasinEndpoint, ""), "override the basin endpoint ({basin} placeholder)")
	configPath := fs.String("config", envOrDefault(env, envConfigFile, ""), "path to the config file")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file")
	trace := fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging")
	noUpdateCheck := fs.Bool("no-update-check", false, "skip the startup release check")
	showVersion := fs.BoolP("version", "V", false, "print version and exit")
	saveToken := fs.Bool("save-token", false, "write the supplied access token to the config file and exit")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	path := *configPath
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return Config{}, err
		}
	}
	file, err := readFile(path)
	if err != nil {
		return Config{}, err
	}

	resolvedToken := firstNonEmpty(*token, file.AccessToken)
	resolvedAccount := firstNonEmpty(*accountEndpoint, file.AccountEndpoint)
	resolvedBasin := firstNonEmpty(*basinEndpoint, file.BasinEndpoint)

	startURI := ""
	if rest := fs.Args(); len(rest) > 0 {
		startURI = rest[0]
	}

	cfg := Config{
		App: app.Config{
			AccessToken:     resolvedToken,
			AccountEndpoint: resolvedAccount,
			BasinEndpoint:   resolvedBasin,
			StartURI:        startURI,
			CheckUpdates:    !*noUpdateCheck,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		ConfigPath:  path,
		ShowVersion: *showVersion,
		SaveToken:   *saveToken,
		Flags: map[string]string{
			"account-endpoint": resolvedAccount,
			"basin-endpoint":   resolvedBasin,
			"config":           path,
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

// DefaultPath returns the config file location shared with the s2 CLI.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(base, "s2", "config.toml"), nil
}

func readFile(path string) (File, error) {
	var file File
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return file, nil
	}
	if err != nil {
		return file, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &file); err != nil {
		return file, fmt.Errorf("parse config %s: %w", path, err)
	}
	return file, nil
}

// Save writes the config file, creating parent directories as needed. The
// file holds a credential, hence the tight permissions.
func Save(path string, file File) error {
	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// Validate ensures required minimum configuration is present.
func Validate(cfg Config) error {
	if cfg.ShowVersion {
		return nil
	}
	if strings.TrimSpace(cfg.App.AccessToken) == "" {
		return fmt.Errorf("no access token: set %s, pass --access-token, or add access_token to %s", envAccessToken, cfg.ConfigPath)
	}
	return nil
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
