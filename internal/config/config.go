package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// MinSessionSecretLength is the shortest SESSION_SECRET accepted at startup.
const MinSessionSecretLength = 32

type Config interface {
	EnvConfig
	TwitterConfig
	SessionConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	IsProduction() bool
	GetLogLevel() string
	GetPostConnectRedirect() string
}

type mainConfig struct {
	EnvVars
	Twitter
	Session
}

var _ Config = mainConfig{}

// Load parses the environment and validates it. Parse failures and an
// unusable session secret are fatal; missing Twitter credentials are not,
// those surface as configuration errors when the flow is started.
func Load() (Config, error) {
	var c mainConfig
	if err := env.Parse(&c); err != nil {
		return nil, fmt.Errorf("[config Load] parse env: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("[config Load] %w", err)
	}
	return c, nil
}

func (c mainConfig) validate() error {
	if len(c.SessionSecret) < MinSessionSecretLength {
		return fmt.Errorf("SESSION_SECRET must be at least %d characters", MinSessionSecretLength)
	}
	switch strings.ToUpper(c.Environment) {
	case EnvDev, EnvProduction:
	default:
		return fmt.Errorf("ENV must be %s or %s, got %q", EnvDev, EnvProduction, c.Environment)
	}
	if !isSiteRelative(c.PostConnectRedirect) {
		return fmt.Errorf("POST_CONNECT_REDIRECT must be a site-relative path, got %q", c.PostConnectRedirect)
	}
	return nil
}

// isSiteRelative accepts a path on this host. "//host" and "/\host" are
// read by browsers as another origin.
func isSiteRelative(path string) bool {
	return strings.HasPrefix(path, "/") &&
		!strings.HasPrefix(path, "//") &&
		!strings.HasPrefix(path, `/\`)
}
