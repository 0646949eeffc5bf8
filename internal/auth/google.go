package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/idtoken"
	googleoauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrMissingPayload = errors.New("token payload missing")
)

// DevExtensionToken is what the extension sends when chrome.identity is not
// available. It is only honoured when dev auth is enabled.
const DevExtensionToken = "dev-extension-token"

// Identity is the normalized result of a successful verification.
type Identity struct {
	ProviderID string
	Email      string
	Name       string
	Picture    string
}

var devIdentity = Identity{
	ProviderID: "dev_ext_user_123",
	Email:      "dev_ext@test.com",
	Name:       "Dev Extension User",
}

// IDTokenValidator matches idtoken.Validate so tests can swap it out.
type IDTokenValidator func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

type GoogleVerifier struct {
	webClientID string
	devAuth     bool
	validate    IDTokenValidator
	httpClient  *http.Client
	endpoint    string
}

type VerifierOption func(*GoogleVerifier)

func WithIDTokenValidator(v IDTokenValidator) VerifierOption {
	return func(g *GoogleVerifier) { g.validate = v }
}

// WithUserinfoEndpoint points the access-token check at another base URL.
func WithUserinfoEndpoint(endpoint string) VerifierOption {
	return func(g *GoogleVerifier) { g.endpoint = endpoint }
}

func WithHTTPClient(c *http.Client) VerifierOption {
	return func(g *GoogleVerifier) { g.httpClient = c }
}

func NewGoogleVerifier(webClientID string, devAuth bool, opts ...VerifierOption) *GoogleVerifier {
	v := &GoogleVerifier{
		webClientID: webClientID,
		devAuth:     devAuth,
		validate:    idtoken.Validate,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify checks a web ID token or, for the extension, an OAuth access token.
func (v *GoogleVerifier) Verify(ctx context.Context, token string, isExtension bool) (*Identity, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	if isExtension {
		if token == DevExtensionToken && v.devAuth {
			id := devIdentity
			return &id, nil
		}
		return v.verifyAccessToken(ctx, token)
	}
	return v.verifyIDToken(ctx, token)
}

func (v *GoogleVerifier) verifyIDToken(ctx context.Context, token string) (*Identity, error) {
	if v.webClientID == "" {
		return nil, errors.New("GOOGLE_CLIENT_ID_WEB is not configured")
	}
	payload, err := v.validate(ctx, token, v.webClientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if payload == nil || payload.Subject == "" {
		return nil, ErrMissingPayload
	}

	id := &Identity{
		ProviderID: payload.Subject,
		Email:      claimString(payload.Claims, "email"),
		Name:       claimString(payload.Claims, "name"),
		Picture:    claimString(payload.Claims, "picture"),
	}
	if id.Email == "" {
		return nil, ErrMissingPayload
	}
	return id, nil
}

func (v *GoogleVerifier) verifyAccessToken(ctx context.Context, token string) (*Identity, error) {
	// The access token rides on a static source; the base client carries timeouts.
	baseCtx := context.WithValue(ctx, oauth2.HTTPClient, v.httpClient)
	client := oauth2.NewClient(baseCtx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}))

	opts := []option.ClientOption{option.WithHTTPClient(client)}
	if v.endpoint != "" {
		opts = append(opts, option.WithEndpoint(v.endpoint))
	}
	svc, err := googleoauth2.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("userinfo client: %w", err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		var gErr *googleapi.Error
		if errors.As(err, &gErr) {
			return nil, fmt.Errorf("%w: userinfo returned %d", ErrInvalidToken, gErr.Code)
		}
		return nil, fmt.Errorf("userinfo request: %w", err)
	}
	if info.Id == "" || info.Email == "" {
		return nil, ErrMissingPayload
	}
	return &Identity{
		ProviderID: info.Id,
		Email:      info.Email,
		Name:       info.Name,
		Picture:    info.Picture,
	}, nil
}

func claimString(claims map[string]interface{}, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
