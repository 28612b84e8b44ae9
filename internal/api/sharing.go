package api

import (
	"context"
	"net/http"

	"github.com/dukerupert/custodykeeper/internal/model"
)

func (c *Client) ListShareTokens(ctx context.Context) ([]model.ShareToken, error) {
	out := []model.ShareToken{}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/share/tokens", fallback: "Failed to load share links"}, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateShareToken(ctx context.Context, in model.ShareTokenInput) (*model.ShareToken, error) {
	var out model.ShareToken
	if err := c.do(ctx, request{method: http.MethodPost, path: "/share/tokens", fallback: "Failed to create share link"}, &in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RevokeShareToken(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/share/tokens/" + escape(id), fallback: "Failed to revoke share link"}, nil, nil)
}

// SharedView reads the records behind a share link. It needs no sign-in.
func (c *Client) SharedView(ctx context.Context, token string) (*model.SharedView, error) {
	var out model.SharedView
	r := request{method: http.MethodGet, path: "/shared/" + escape(token), public: true, fallback: "This link is invalid or has expired"}
	if err := c.do(ctx, r, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
