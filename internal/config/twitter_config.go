package config

type TwitterConfig interface {
	GetTwitterClientID() string
	GetTwitterClientSecret() string
	GetTwitterCallbackURL() string
	GetTwitterAuthURL() string
	GetTwitterTokenURL() string
	GetTwitterAPIBaseURL() string
}

type Twitter struct {
	ClientID     string `env:"TWITTER_CLIENT_ID"`
	ClientSecret string `env:"TWITTER_CLIENT_SECRET"`
	CallbackURL  string `env:"TWITTER_CALLBACK_URL" envDefault:"http://localhost:8080/api/connect/twitter/callback"`

	// Endpoint overrides, for pointing at a sandbox or a local stub
	AuthURL    string `env:"TWITTER_AUTH_URL" envDefault:"https://twitter.com/i/oauth2/authorize"`
	TokenURL   string `env:"TWITTER_TOKEN_URL" envDefault:"https://api.twitter.com/2/oauth2/token"`
	APIBaseURL string `env:"TWITTER_API_BASE_URL" envDefault:"https://api.twitter.com"`
}

var _ TwitterConfig = Twitter{}

func (t Twitter) GetTwitterClientID() string {
	return t.ClientID
}

func (t Twitter) GetTwitterClientSecret() string {
	return t.ClientSecret
}

func (t Twitter) GetTwitterCallbackURL() string {
	return t.CallbackURL
}

func (t Twitter) GetTwitterAuthURL() string {
	return t.AuthURL
}

func (t Twitter) GetTwitterTokenURL() string {
	return t.TokenURL
}

func (t Twitter) GetTwitterAPIBaseURL() string {
	return t.APIBaseURL
}
