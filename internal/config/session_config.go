package config

import "time"

type SessionConfig interface {
	GetSessionSecret() string
	GetSessionCookieName() string
	GetSessionMaxAge() time.Duration
}

type Session struct {
	SessionSecret string        `env:"SESSION_SECRET"`
	CookieName    string        `env:"SESSION_COOKIE_NAME" envDefault:"lexicloud_session"`
	MaxAge        time.Duration `env:"SESSION_MAX_AGE" envDefault:"336h"` // 14 days
}

var _ SessionConfig = Session{}

func (s Session) GetSessionSecret() string {
	return s.SessionSecret
}

func (s Session) GetSessionCookieName() string {
	return s.CookieName
}

func (s Session) GetSessionMaxAge() time.Duration {
	return s.MaxAge
}
