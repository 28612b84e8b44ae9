package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dukerupert/custodykeeper/internal/model"
)

// Page selects one page of a paginated list. The zero Page lets the
// backend apply its defaults (first 50 records).
type Page struct {
	Page     int
	PageSize int
	Severity model.Severity // violations only
}

func (p Page) query() url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(p.PageSize))
	}
	if p.Severity != "" {
		q.Set("severity", string(p.Severity))
	}
	return q
}

// pageSizeAll is the page size used when walking every page.
const pageSizeAll = 100

// all collects every page from fetch until a short page is returned.
func all[T any](ctx context.Context, base Page, fetch func(context.Context, Page) ([]T, error)) ([]T, error) {
	var out []T
	base.PageSize = pageSizeAll
	for page := 1; ; page++ {
		base.Page = page
		items, err := fetch(ctx, base)
		if err != nil {
			return nil, err
		}
		out = append(out, items...)
		if len(items) < pageSizeAll {
			return out, nil
		}
	}
}

func (c *Client) ListChildren(ctx context.Context) ([]model.Child, error) {
	out := []model.Child{}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/children", fallback: "Failed to load children"}, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateChild(ctx context.Context, in model.ChildInput) (*model.Child, error) {
	var out model.Child
	if err := c.do(ctx, request{method: http.MethodPost, path: "/children", fallback: "Failed to add child"}, &in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateChild(ctx context.Context, id string, in model.ChildInput) (*model.Child, error) {
	var out model.Child
	r := request{method: http.MethodPut, path: "/children/" + escape(id), fallback: "Failed to update child"}
	if err := c.do(ctx, r, &in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteChild(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/children/" + escape(id), fallback: "Failed to delete child"}, nil, nil)
}

func (c *Client) ListJournals(ctx context.Context, p Page) ([]model.JournalEntry, error) {
	out := []model.JournalEntry{}
	r := request{method: http.MethodGet, path: "/journals", query: p.query(), fallback: "Failed to load journals"}
	if err := c.do(ctx, r, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AllJournals walks every page of journals.
func (c *Client) AllJournals(ctx context.Context) ([]model.JournalEntry, error) {
	return all(ctx, Page{}, c.ListJournals)
}

func (c *Client) GetJournal(ctx context.Context, id string) (*model.JournalEntry, error) {
	var out model.JournalEntry
	r := request{method: http.MethodGet, path: "/journals/" + escape(id), fallback: "Journal not found"}
	if err := c.do(ctx, r, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateJournal(ctx context.Context, in model.JournalInput) (*model.JournalEntry, error) {
	var out model.JournalEntry
	if err := c.do(ctx, request{method: http.MethodPost, path: "/journals", fallback: "Failed to save journal"}, &in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateJournal(ctx context.Context, id string, in model.JournalInput) (*model.JournalEntry, error) {
	var out model.JournalEntry
	r := request{method: http.MethodPut, path: "/journals/" + escape(id), fallback: "Failed to save journal"}
	if err := c.do(ctx, r, &in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteJournal(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/journals/" + escape(id), fallback: "Failed to delete journal"}, nil, nil)
}

func (c *Client) ListViolations(ctx context.Context, p Page) ([]model.Violation, error) {
	out := []model.Violation{}
	r := request{method: http.MethodGet, path: "/violations", query: p.query(), fallback: "Failed to load violations"}
	if err := c.do(ctx, r, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AllViolations walks every page of violations, optionally of one severity.
func (c *Client) AllViolations(ctx context.Context, severity model.Severity) ([]model.Violation, error) {
	return all(ctx, Page{Severity: severity}, c.ListViolations)
}

func (c *Client) GetViolation(ctx context.Context, id string) (*model.Violation, error) {
	var out model.Violation
	r := request{method: http.MethodGet, path: "/violations/" + escape(id), fallback: "Violation not found"}
	if err := c.do(ctx, r, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateViolation(ctx context.Context, in model.ViolationInput) (*model.Violation, error) {
	var out model.Violation
	if err := c.do(ctx, request{method: http.MethodPost, path: "/violations", fallback: "Failed to log violation"}, &in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateViolation(ctx context.Context, id string, in model.ViolationInput) (*model.Violation, error) {
	var out model.Violation
	r := request{method: http.MethodPut, path: "/violations/" + escape(id), fallback: "Failed to update violation"}
	if err := c.do(ctx, r, &in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteViolation(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/violations/" + escape(id), fallback: "Failed to delete violation"}, nil, nil)
}

func (c *Client) ListEvents(ctx context.Context) ([]model.CalendarEvent, error) {
	out := []model.CalendarEvent{}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/calendar", fallback: "Failed to load events"}, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateEvent(ctx context.Context, in model.EventInput) (*model.CalendarEvent, error) {
	var out model.CalendarEvent
	if err := c.do(ctx, request{method: http.MethodPost, path: "/calendar", fallback: "Failed to create event"}, &in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateEvent(ctx context.Context, id string, in model.EventInput) (*model.CalendarEvent, error) {
	var out model.CalendarEvent
	r := request{method: http.MethodPut, path: "/calendar/" + escape(id), fallback: "Failed to update event"}
	if err := c.do(ctx, r, &in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/calendar/" + escape(id), fallback: "Failed to delete event"}, nil, nil)
}

func (c *Client) ListContacts(ctx context.Context) ([]model.Contact, error) {
	out := []model.Contact{}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/contacts", fallback: "Failed to load contacts"}, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateContact(ctx context.Context, in model.ContactInput) (*model.Contact, error) {
	var out model.Contact
	if err := c.do(ctx, request{method: http.MethodPost, path: "/contacts", fallback: "Failed to save contact"}, &in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateContact(ctx context.Context, id string, in model.ContactInput) (*model.Contact, error) {
	var out model.Contact
	r := request{method: http.MethodPut, path: "/contacts/" + escape(id), fallback: "Failed to save contact"}
	if err := c.do(ctx, r, &in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteContact(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/contacts/" + escape(id), fallback: "Failed to delete contact"}, nil, nil)
}
