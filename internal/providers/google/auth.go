package google

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/golang-jwt/jwt/v5"

	"ttsgateway/internal/platform/errors"
	"ttsgateway/internal/platform/httpx"
)

const (
	cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"
	jwtBearerGrant     = "urn:ietf:params:oauth:grant-type:jwt-bearer"
	tokenLifetime      = time.Hour
)

// ServiceAccountKey is the JSON key file issued by the Cloud console. Only
// the fields needed for the JWT bearer flow are decoded.
type ServiceAccountKey struct {
	Type        string `json:"type"`
	ProjectID   string `json:"project_id"`
	PrivateKey  string `json:"private_key"`
	ClientEmail string `json:"client_email"`
	TokenURI    string `json:"token_uri"`
}

func ParseServiceAccountKey(data []byte) (*ServiceAccountKey, error) {
	const op = "authenticate"

	var key ServiceAccountKey
	if err := sonic.Unmarshal(data, &key); err != nil {
		return nil, errors.Wrap(errors.CodeInvalidConfiguration, op, "parse service account key", err)
	}
	if key.ClientEmail == "" || key.PrivateKey == "" {
		return nil, errors.InvalidConfiguration(op, "service account key missing client_email or private_key")
	}
	if key.TokenURI == "" {
		key.TokenURI = "https://oauth2.googleapis.com/token"
	}
	return &key, nil
}

// TokenSource yields Bearer tokens for the TTS API. Implementations cache
// tokens until close to expiry.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenSource wraps a pre-issued access token from the environment.
type StaticTokenSource string

func (s StaticTokenSource) Token(context.Context) (string, error) { return string(s), nil }

// jwtTokenSource exchanges a signed service account assertion for an access
// token and caches it for its lifetime.
type jwtTokenSource struct {
	key  *ServiceAccountKey
	http *httpx.Client
	now  func() time.Time

	mu      sync.Mutex
	token   string
	expires time.Time
}

func NewJWTTokenSource(key *ServiceAccountKey, http *httpx.Client) TokenSource {
	return &jwtTokenSource{key: key, http: http, now: time.Now}
}

func (s *jwtTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Refresh a minute early so in-flight requests never carry a stale token.
	if s.token != "" && s.now().Add(time.Minute).Before(s.expires) {
		return s.token, nil
	}

	token, expiresIn, err := s.exchange(ctx)
	if err != nil {
		return "", err
	}
	s.token = token
	s.expires = s.now().Add(time.Duration(expiresIn) * time.Second)
	return token, nil
}

func (s *jwtTokenSource) exchange(ctx context.Context) (string, int, error) {
	const op = "authenticate"

	now := s.now()
	claims := jwt.MapClaims{
		"iss":   s.key.ClientEmail,
		"scope": cloudPlatformScope,
		"aud":   s.key.TokenURI,
		"exp":   now.Add(tokenLifetime).Unix(),
		"iat":   now.Unix(),
	}

	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(s.key.PrivateKey))
	if err != nil {
		return "", 0, errors.Wrap(errors.CodeUnauthorized, op, "invalid private key", err)
	}

	assertion, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(privateKey)
	if err != nil {
		return "", 0, errors.Wrap(errors.CodeUnauthorized, op, "sign service account assertion", err)
	}

	resp, err := s.http.Post(s.key.TokenURI).
		Form(url.Values{
			"grant_type": {jwtBearerGrant},
			"assertion":  {assertion},
		}).
		Send(ctx)
	if err != nil {
		return "", 0, errors.Translate(op, err, maxInputChars)
	}
	if !resp.OK() {
		return "", 0, errors.FromStatus(op, resp.Status, resp.Body, maxInputChars)
	}

	var parsed struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := resp.DecodeJSON(&parsed); err != nil {
		return "", 0, errors.Wrap(errors.CodeUnauthorized, op, "parse token response", err)
	}
	if parsed.AccessToken == "" {
		return "", 0, errors.New(errors.CodeUnauthorized, op, "token endpoint returned no access token")
	}
	if parsed.ExpiresIn <= 0 {
		parsed.ExpiresIn = int(tokenLifetime / time.Second)
	}
	return parsed.AccessToken, parsed.ExpiresIn, nil
}
