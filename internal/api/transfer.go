package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/dukerupert/custodykeeper/internal/model"
)

// ExportAll returns the backend's full JSON export.
func (c *Client) ExportAll(ctx context.Context) (*model.ExportBundle, error) {
	var out model.ExportBundle
	if err := c.do(ctx, request{method: http.MethodGet, path: "/export/all", fallback: "Failed to export data"}, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ExportJournals(ctx context.Context) ([]model.JournalEntry, error) {
	out := []model.JournalEntry{}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/export/journals", fallback: "Failed to export journals"}, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ExportViolations(ctx context.Context) ([]model.Violation, error) {
	out := []model.Violation{}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/export/violations", fallback: "Failed to export violations"}, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func checkImportType(t string) error {
	if !model.ValidImportType(t) {
		return &model.ValidationError{Field: "type", Message: fmt.Sprintf("unknown import type %q", t)}
	}
	return nil
}

// ImportTemplate returns the CSV template for an import type.
func (c *Client) ImportTemplate(ctx context.Context, importType string) ([]byte, error) {
	if err := checkImportType(importType); err != nil {
		return nil, err
	}
	resp, err := c.send(ctx, request{method: http.MethodGet, path: "/import/templates/" + escape(importType), fallback: "Failed to download template"})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	return data, nil
}

// Import uploads a CSV or Excel file of records of importType.
func (c *Client) Import(ctx context.Context, importType, fileName string, content io.Reader) (*model.ImportResult, error) {
	if err := checkImportType(importType); err != nil {
		return nil, err
	}
	ext := strings.ToLower(path.Ext(fileName))
	if ext != ".csv" && ext != ".xlsx" {
		return nil, &model.ValidationError{Field: "file", Message: "Please select a CSV or Excel file"}
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return nil, fmt.Errorf("read import file: %w", err)
	}

	fileType := "text/csv"
	if ext == ".xlsx" {
		fileType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	body, contentType, err := multipartBody(fileName, fileType, data, nil)
	if err != nil {
		return nil, err
	}

	var out model.ImportResult
	r := request{method: http.MethodPost, path: "/import/" + escape(importType), body: body, contentType: contentType, fallback: "Failed to import data"}
	if err := c.do(ctx, r, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
