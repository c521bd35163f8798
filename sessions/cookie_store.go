package sessions

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/jrsteele09/twitter-connect/internal/errors"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const (
	// maxCookieSize is the per-cookie limit browsers are required to honour (RFC 6265 §6.1).
	maxCookieSize = 4096

	keyInfo = "twitter-connect session cookie v1"
)

var ErrInvalidCookie = errors.New("invalid session cookie")

// CookieOptions configures the encrypted cookie.
type CookieOptions struct {
	Name   string
	Secret string
	MaxAge time.Duration
	Secure bool
}

// CookieStore keeps the session in a single encrypted and authenticated cookie.
// The cookie value is base64url(nonce || XChaCha20-Poly1305(json)) with the
// cookie name as additional data, keyed by HKDF-SHA256 over the server secret.
type CookieStore struct {
	opts CookieOptions
	aead cipher.AEAD
}

func NewCookieStore(opts CookieOptions) (*CookieStore, error) {
	if opts.Name == "" {
		return nil, errors.New("[sessions NewCookieStore] cookie name is required")
	}
	if opts.Secret == "" {
		return nil, errors.New("[sessions NewCookieStore] secret is required")
	}

	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(opts.Secret), nil, []byte(keyInfo)), key); err != nil {
		return nil, fmt.Errorf("[sessions NewCookieStore] derive key: %w", err)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("[sessions NewCookieStore] create cipher: %w", err)
	}

	return &CookieStore{opts: opts, aead: aead}, nil
}

// Encode seals data into a cookie value.
func (c *CookieStore) Encode(data *Data) (string, error) {
	plaintext, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("[sessions Encode] marshal: %w", err)
	}

	nonce := make([]byte, c.aead.NonceSize(), c.aead.NonceSize()+len(plaintext)+c.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("[sessions Encode] nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, plaintext, []byte(c.opts.Name))
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decode opens a cookie value produced by Encode.
func (c *CookieStore) Decode(value string) (*Data, error) {
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCookie, err)
	}
	if len(raw) < c.aead.NonceSize()+c.aead.Overhead() {
		return nil, fmt.Errorf("%w: too short", ErrInvalidCookie)
	}

	nonce, ciphertext := raw[:c.aead.NonceSize()], raw[c.aead.NonceSize():]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, []byte(c.opts.Name))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCookie, err)
	}

	var data Data
	if err := json.Unmarshal(plaintext, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCookie, err)
	}
	return &data, nil
}

// Bind returns the Store for one request/response pair.
func (c *CookieStore) Bind(w http.ResponseWriter, r *http.Request) Store {
	return &requestStore{store: c, w: w, r: r}
}

type requestStore struct {
	store *CookieStore
	w     http.ResponseWriter
	r     *http.Request
	data  *Data
}

var _ Store = (*requestStore)(nil)

func (rs *requestStore) Load(ctx context.Context) (*Data, error) {
	if rs.data != nil {
		return rs.data, nil
	}

	rs.data = &Data{}
	cookie, err := rs.r.Cookie(rs.store.opts.Name)
	if err != nil || cookie.Value == "" {
		return rs.data, nil
	}

	data, err := rs.store.Decode(cookie.Value)
	if err != nil {
		// Tampered, stale-key or corrupt cookies start a fresh session
		zerolog.Ctx(ctx).Warn().Err(err).Msg("discarding unreadable session cookie")
		return rs.data, nil
	}
	rs.data = data
	return rs.data, nil
}

func (rs *requestStore) Save(ctx context.Context, data *Data) error {
	if data == nil {
		data = &Data{}
	}
	value, err := rs.store.Encode(data)
	if err != nil {
		return apperrors.Mark(apperrors.ErrSessionStore, err)
	}

	cookie := &http.Cookie{
		Name:     rs.store.opts.Name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   rs.store.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if rs.store.opts.MaxAge > 0 {
		cookie.MaxAge = int(rs.store.opts.MaxAge.Seconds())
		cookie.Expires = time.Now().Add(rs.store.opts.MaxAge)
	}
	serialized := cookie.String()
	if len(serialized) > maxCookieSize {
		return apperrors.Mark(apperrors.ErrSessionStore, fmt.Errorf("session cookie is %d bytes, limit is %d", len(serialized), maxCookieSize))
	}

	rs.replaceCookieHeader(serialized)
	rs.data = data
	return nil
}

// replaceCookieHeader keeps a single Set-Cookie for the session so that a
// request saving twice does not emit conflicting cookies.
func (rs *requestStore) replaceCookieHeader(serialized string) {
	header := rs.w.Header()
	prefix := rs.store.opts.Name + "="
	var kept []string
	for _, v := range header.Values("Set-Cookie") {
		if !strings.HasPrefix(v, prefix) {
			kept = append(kept, v)
		}
	}
	header.Del("Set-Cookie")
	for _, v := range kept {
		header.Add("Set-Cookie", v)
	}
	header.Add("Set-Cookie", serialized)
}
