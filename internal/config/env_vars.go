package config

import (
	"fmt"
	"strings"
)

const (
	EnvDev        = "DEV"
	EnvProduction = "PRODUCTION"
)

type EnvVars struct {
	Port                string `env:"PORT" envDefault:"8080"`
	AppName             string `env:"APP_NAME" envDefault:"Twitter Connect"`
	Environment         string `env:"ENV" envDefault:"DEV"`
	LogLevel            string `env:"LOG_LEVEL" envDefault:"info"`
	PostConnectRedirect string `env:"POST_CONNECT_REDIRECT" envDefault:"/"`
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetPort() string {
	port := e.Port
	if port == "" {
		port = "8080"
	}
	if port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (e EnvVars) GetAppName() string {
	return e.AppName
}

func (e EnvVars) GetEnv() string {
	if e.Environment == "" {
		return EnvDev
	}
	return strings.ToUpper(e.Environment)
}

func (e EnvVars) IsProduction() bool {
	return e.GetEnv() == EnvProduction
}

func (e EnvVars) GetLogLevel() string {
	return e.LogLevel
}

// GetPostConnectRedirect is the application path the callback redirects to,
// with either connected=twitter or error=<code> appended.
func (e EnvVars) GetPostConnectRedirect() string {
	if e.PostConnectRedirect == "" {
		return "/"
	}
	return e.PostConnectRedirect
}
