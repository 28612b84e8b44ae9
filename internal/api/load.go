package api

import (
	"context"

	"github.com/dukerupert/custodykeeper/internal/model"
	"github.com/dukerupert/custodykeeper/internal/timeline"
	"golang.org/x/sync/errgroup"
)

// CalendarData is what the calendar view needs.
type CalendarData struct {
	Events   []model.CalendarEvent
	Children []model.Child
}

// LoadCalendar fetches events and children in parallel. The first failure
// cancels the other request.
func (c *Client) LoadCalendar(ctx context.Context) (*CalendarData, error) {
	var data CalendarData
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		data.Events, err = c.ListEvents(ctx)
		return err
	})
	g.Go(func() (err error) {
		data.Children, err = c.ListChildren(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &data, nil
}

// LoadTimeline fetches the four timeline sources in parallel.
func (c *Client) LoadTimeline(ctx context.Context) (*timeline.Sources, error) {
	var src timeline.Sources
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		src.Journals, err = c.AllJournals(ctx)
		return err
	})
	g.Go(func() (err error) {
		src.Violations, err = c.AllViolations(ctx, "")
		return err
	})
	g.Go(func() (err error) {
		src.Events, err = c.ListEvents(ctx)
		return err
	})
	g.Go(func() (err error) {
		src.Documents, err = c.ListDocuments(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &src, nil
}

// ReportData is what a records PDF needs: the records plus children for
// resolving names.
type ReportData struct {
	Journals   []model.JournalEntry
	Violations []model.Violation
	Children   []model.Child
}

func (c *Client) LoadJournalReport(ctx context.Context) (*ReportData, error) {
	var data ReportData
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		data.Journals, err = c.AllJournals(ctx)
		return err
	})
	g.Go(func() (err error) {
		data.Children, err = c.ListChildren(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &data, nil
}
