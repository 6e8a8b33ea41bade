// Package config loads the dialmap YAML configuration, applying defaults
// and DIALMAP_* environment overrides before validating.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Listen         string `yaml:"listen"`
		ReadTimeoutMs  int    `yaml:"read_timeout_ms"`
		WriteTimeoutMs int    `yaml:"write_timeout_ms"`
		PidFile        string `yaml:"pid_file"`
	} `yaml:"server"`

	Dialplan struct {
		Dir string `yaml:"dir"`
		// AutoReload watches dialplan.dir and reloads *.conf files at runtime.
		AutoReload struct {
			Enabled    bool `yaml:"enabled"`
			DebounceMs int  `yaml:"debounce_ms"`
		} `yaml:"auto_reload"`
	} `yaml:"dialplan"`

	Digitmap struct {
		// MaxBytes caps generated digit maps; most devices reject maps
		// over 2048 bytes.
		MaxBytes int `yaml:"max_bytes"`
	} `yaml:"digitmap"`

	Logging struct {
		AccessLog     bool   `yaml:"access_log"`
		AccessLogPath string `yaml:"access_log_path"`
	} `yaml:"logging"`
}

func Load(path string) (*Config, error) {
	// #nosec G304 -- path is provided by trusted config/flag.
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadIfExists behaves like Load but a missing file yields the defaults
// instead of an error, for tooling that runs without a config file.
func LoadIfExists(path string) (*Config, error) {
	p := strings.TrimSpace(path)
	if p != "" {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}
	var cfg Config
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.Server.Listen) == "" {
		cfg.Server.Listen = ":8388"
	}
	if cfg.Server.ReadTimeoutMs <= 0 {
		cfg.Server.ReadTimeoutMs = 15000
	}
	if cfg.Server.WriteTimeoutMs <= 0 {
		cfg.Server.WriteTimeoutMs = 15000
	}
	if strings.TrimSpace(cfg.Server.PidFile) == "" {
		cfg.Server.PidFile = "/var/run/dialmapd.pid"
	}
	if strings.TrimSpace(cfg.Dialplan.Dir) == "" {
		cfg.Dialplan.Dir = "./config/dialplan"
	}
	if cfg.Dialplan.AutoReload.DebounceMs <= 0 {
		cfg.Dialplan.AutoReload.DebounceMs = 300
	}
	if cfg.Digitmap.MaxBytes == 0 {
		cfg.Digitmap.MaxBytes = 2048
	}
	// default true for local debugging
	if !cfg.Logging.AccessLog {
		cfg.Logging.AccessLog = true
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("DIALMAP_LISTEN")); v != "" {
		cfg.Server.Listen = v
	}
	if n, ok := envInt("DIALMAP_READ_TIMEOUT_MS"); ok && n > 0 {
		cfg.Server.ReadTimeoutMs = n
	}
	if n, ok := envInt("DIALMAP_WRITE_TIMEOUT_MS"); ok && n > 0 {
		cfg.Server.WriteTimeoutMs = n
	}
	if v := strings.TrimSpace(os.Getenv("DIALMAP_PID_FILE")); v != "" {
		cfg.Server.PidFile = v
	}
	if v := strings.TrimSpace(os.Getenv("DIALMAP_DIALPLAN_DIR")); v != "" {
		cfg.Dialplan.Dir = v
	}
	cfg.Dialplan.AutoReload.Enabled = envBool("DIALMAP_AUTO_RELOAD_ENABLED", cfg.Dialplan.AutoReload.Enabled)
	if n, ok := envInt("DIALMAP_AUTO_RELOAD_DEBOUNCE_MS"); ok {
		cfg.Dialplan.AutoReload.DebounceMs = n
	}
	if n, ok := envInt("DIALMAP_DIGITMAP_MAX_BYTES"); ok {
		cfg.Digitmap.MaxBytes = n
	}
	cfg.Logging.AccessLog = envBool("DIALMAP_ACCESS_LOG", cfg.Logging.AccessLog)
	if v := strings.TrimSpace(os.Getenv("DIALMAP_ACCESS_LOG_PATH")); v != "" {
		cfg.Logging.AccessLogPath = v
	}
}

func validate(cfg *Config) error {
	if cfg.Digitmap.MaxBytes < 64 {
		return errors.New("digitmap.max_bytes must be >= 64")
	}
	if cfg.Dialplan.AutoReload.Enabled && cfg.Dialplan.AutoReload.DebounceMs <= 0 {
		return errors.New("dialplan.auto_reload.debounce_ms must be > 0 when dialplan.auto_reload.enabled=true")
	}
	return nil
}

func envInt(name string) (int, bool) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envBool(name string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}
