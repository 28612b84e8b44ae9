package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/dukerupert/custodykeeper/internal/model"
)

func (c *Client) Login(ctx context.Context, in model.LoginInput) (*model.TokenResponse, error) {
	var out model.TokenResponse
	r := request{method: http.MethodPost, path: "/auth/login", public: true, fallback: "Login failed"}
	if err := c.do(ctx, r, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, in model.RegisterInput) (*model.TokenResponse, error) {
	var out model.TokenResponse
	r := request{method: http.MethodPost, path: "/auth/register", public: true, fallback: "Registration failed"}
	if err := c.do(ctx, r, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GoogleSession exchanges the session id from the Google sign-in redirect
// for a token.
func (c *Client) GoogleSession(ctx context.Context, sessionID string) (*model.TokenResponse, error) {
	var out model.TokenResponse
	r := request{method: http.MethodPost, path: "/auth/google/session", public: true, fallback: "Authentication failed"}
	in := map[string]string{"session_id": sessionID}
	if err := c.do(ctx, r, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var out model.User
	if err := c.do(ctx, request{method: http.MethodGet, path: "/auth/me"}, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProfile(ctx context.Context, in model.ProfileInput) (*model.User, error) {
	var out model.User
	r := request{method: http.MethodPut, path: "/auth/profile", fallback: "Failed to update profile"}
	if err := c.do(ctx, r, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) TwoFactorStatus(ctx context.Context) (*model.TwoFactorStatus, error) {
	var out model.TwoFactorStatus
	if err := c.do(ctx, request{method: http.MethodGet, path: "/auth/2fa/status"}, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetTwoFactor enables or disables email codes on login.
func (c *Client) SetTwoFactor(ctx context.Context, enabled bool) error {
	path := "/auth/2fa/disable"
	if enabled {
		path = "/auth/2fa/enable"
	}
	r := request{method: http.MethodPost, path: path, fallback: "Failed to update security settings"}
	return c.do(ctx, r, struct{}{}, nil)
}

type CodeSent struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// SendTwoFactorCode emails a login code to the account.
func (c *Client) SendTwoFactorCode(ctx context.Context, email string) (*CodeSent, error) {
	var out CodeSent
	err := c.postForm(ctx, "/auth/2fa/send-code", url.Values{"email": {email}}, "Failed to send code", &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) VerifyTwoFactor(ctx context.Context, email, code string) (*model.TokenResponse, error) {
	var out model.TokenResponse
	form := url.Values{"email": {email}, "code": {code}}
	if err := c.postForm(ctx, "/auth/2fa/verify", form, "Invalid code", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, fallback string, out any) error {
	r := request{
		method:      http.MethodPost,
		path:        path,
		body:        strings.NewReader(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
		public:      true,
		fallback:    fallback,
	}
	return c.do(ctx, r, nil, out)
}
