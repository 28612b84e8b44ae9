package api

import (
	"context"
	"net/http"

	"github.com/dukerupert/custodykeeper/internal/model"
)

func (c *Client) DashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	var out model.DashboardStats
	if err := c.do(ctx, request{method: http.MethodGet, path: "/dashboard/stats", fallback: "Failed to load dashboard"}, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StateLaws lists the custody statutes of every state. Public.
func (c *Client) StateLaws(ctx context.Context) (*model.StateLaws, error) {
	var out model.StateLaws
	if err := c.do(ctx, request{method: http.MethodGet, path: "/state-laws", public: true, fallback: "Failed to load state laws"}, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) StateLaw(ctx context.Context, state string) (*model.StateLaw, error) {
	var out model.StateLaw
	r := request{method: http.MethodGet, path: "/state-laws/" + escape(state), public: true, fallback: "State not found"}
	if err := c.do(ctx, r, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ParentalAlienationResources(ctx context.Context) ([]model.Resource, error) {
	out := []model.Resource{}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/resources/parental-alienation", fallback: "Failed to load resources"}, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) JournalSummary(ctx context.Context, in model.JournalSummaryRequest) (*model.JournalSummary, error) {
	var out model.JournalSummary
	if err := c.do(ctx, request{method: http.MethodPost, path: "/ai/journal-summary", fallback: "Failed to summarize journals"}, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) WritingAssist(ctx context.Context, in model.WritingAssistRequest) (*model.WritingAssistResponse, error) {
	var out model.WritingAssistResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/ai/writing-assist", fallback: "Writing assistant unavailable"}, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendEmail emails the selected journals or violations to a recipient.
func (c *Client) SendEmail(ctx context.Context, in model.EmailRequest) (*model.EmailResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var out model.EmailResult
	if err := c.do(ctx, request{method: http.MethodPost, path: "/send-email", fallback: "Failed to send email"}, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
