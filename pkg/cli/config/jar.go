package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/memoryjar/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// AppConfig is the optional TOML file given by --config
type AppConfig struct {
	Timezone string        `toml:"timezone"`
	Gate     GateConfig    `toml:"gate"`
	Session  SessionConfig `toml:"session"`
}

// GateConfig holds the unlock codes
type GateConfig struct {
	UserCode  string `toml:"user_code"`
	AdminCode string `toml:"admin_code"`
}

// SessionConfig holds the session token settings
type SessionConfig struct {
	Secret string `toml:"secret"`
	TTL    string `toml:"ttl"`
}

// Validate checks if the AppConfig is valid
func (a *AppConfig) Validate() error {
	if a.Timezone != "" {
		if _, err := time.LoadLocation(a.Timezone); err != nil {
			return goerr.Wrap(ErrInvalidConfig, "unknown timezone", goerr.V(OptionKey, a.Timezone))
		}
	}
	if a.Session.TTL != "" {
		ttl, err := time.ParseDuration(a.Session.TTL)
		if err != nil || ttl <= 0 {
			return goerr.Wrap(ErrInvalidConfig, "invalid session ttl", goerr.V(OptionKey, a.Session.TTL))
		}
	}
	return nil
}

// LoadAppConfiguration reads and validates a TOML app config file
func LoadAppConfiguration(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the operator
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, path))
	}

	var cfg AppConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse config file",
			goerr.V(ConfigPathKey, path), goerr.V("cause", err.Error()))
	}

	if err := cfg.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid config file", goerr.V(ConfigPathKey, path))
	}

	return &cfg, nil
}

// Jar holds the flags shaping the jar itself: its calendar and access gate
type Jar struct {
	configPath    string
	timezone      string
	userCode      string
	adminCode     string
	sessionSecret string
	sessionTTL    time.Duration
}

func (j *Jar) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Category:    "Jar",
			Usage:       "Path to a TOML config file",
			Sources:     cli.EnvVars("MEMORYJAR_CONFIG"),
			Destination: &j.configPath,
		},
		&cli.StringFlag{
			Name:        "timezone",
			Category:    "Jar",
			Usage:       "Time zone for calendar dates, e.g. Asia/Tokyo (default: local)",
			Sources:     cli.EnvVars("MEMORYJAR_TIMEZONE", "TZ"),
			Destination: &j.timezone,
		},
		&cli.StringFlag{
			Name:        "user-code",
			Category:    "Jar",
			Usage:       "Unlock code granting USER access",
			Sources:     cli.EnvVars("MEMORYJAR_USER_CODE"),
			Destination: &j.userCode,
		},
		&cli.StringFlag{
			Name:        "admin-code",
			Category:    "Jar",
			Usage:       "Unlock code granting ADMIN access",
			Sources:     cli.EnvVars("MEMORYJAR_ADMIN_CODE"),
			Destination: &j.adminCode,
		},
		&cli.StringFlag{
			Name:        "session-secret",
			Category:    "Jar",
			Usage:       "HMAC key for session cookies, random per process when empty",
			Sources:     cli.EnvVars("MEMORYJAR_SESSION_SECRET"),
			Destination: &j.sessionSecret,
		},
		&cli.DurationFlag{
			Name:        "session-ttl",
			Category:    "Jar",
			Usage:       "Lifetime of an unlocked session",
			Sources:     cli.EnvVars("MEMORYJAR_SESSION_TTL"),
			Destination: &j.sessionTTL,
		},
	}
}

func (j *Jar) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("config", j.configPath),
		slog.String("timezone", j.timezone),
		slog.Bool("custom_codes", j.userCode != "" || j.adminCode != ""),
		slog.Bool("session_secret_set", j.sessionSecret != ""),
	}
}

// Settings is the resolved jar configuration
type Settings struct {
	Location *time.Location
	GateOpts []usecase.AccessGateOption
}

// Configure merges the config file with the flags. A flag that is set wins
// over the file.
func (j *Jar) Configure() (*Settings, error) {
	file := &AppConfig{}
	if j.configPath != "" {
		loaded, err := LoadAppConfiguration(j.configPath)
		if err != nil {
			return nil, err
		}
		file = loaded
	}

	tz := pick(j.timezone, file.Timezone)
	loc := time.Local
	if tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return nil, goerr.Wrap(ErrInvalidConfig, "unknown timezone", goerr.V(OptionKey, tz))
		}
		loc = l
	}

	ttl := j.sessionTTL
	if ttl == 0 && file.Session.TTL != "" {
		// validated in LoadAppConfiguration
		ttl, _ = time.ParseDuration(file.Session.TTL)
	}

	opts := []usecase.AccessGateOption{
		usecase.WithCodes(pick(j.userCode, file.Gate.UserCode), pick(j.adminCode, file.Gate.AdminCode)),
	}
	if secret := pick(j.sessionSecret, file.Session.Secret); secret != "" {
		opts = append(opts, usecase.WithSessionSecret([]byte(secret)))
	}
	if ttl > 0 {
		opts = append(opts, usecase.WithSessionTTL(ttl))
	}

	return &Settings{
		Location: loc,
		GateOpts: opts,
	}, nil
}

func pick(flag, file string) string {
	if flag != "" {
		return flag
	}
	return file
}
