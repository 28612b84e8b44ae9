package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/dukerupert/custodykeeper/internal/model"
	"github.com/dukerupert/custodykeeper/internal/preview"
)

func (c *Client) ListDocuments(ctx context.Context) ([]model.Document, error) {
	out := []model.Document{}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/documents", fallback: "Failed to load documents"}, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Upload is a file to send to the backend.
type Upload struct {
	FileName string
	FileType string
	Content  io.Reader
}

// UploadDocument sends the file as multipart form data with its category
// and description. The file is checked against the upload rules first.
func (c *Client) UploadDocument(ctx context.Context, up Upload, in model.DocumentInput) (*model.Document, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(io.LimitReader(up.Content, preview.MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	fileType := preview.UploadType(up.FileName, up.FileType)
	if err := preview.ValidateUpload(up.FileName, fileType, int64(len(data))); err != nil {
		return nil, err
	}

	body, contentType, err := multipartBody(up.FileName, fileType, data, map[string]string{
		"category":    string(in.Category),
		"description": in.Description,
	})
	if err != nil {
		return nil, err
	}

	var out model.Document
	r := request{method: http.MethodPost, path: "/documents", body: body, contentType: contentType, fallback: "Upload failed"}
	if err := c.do(ctx, r, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func multipartBody(fileName, fileType string, data []byte, fields map[string]string) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
	h.Set("Content-Type", fileType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("create file part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", fmt.Errorf("write file part: %w", err)
	}
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}

type downloadPayload struct {
	Filename string `json:"filename"`
	FileType string `json:"file_type"`
	FileData string `json:"file_data"`
}

// DownloadDocument fetches a document's content, sent by the backend as
// base64 inside JSON.
func (c *Client) DownloadDocument(ctx context.Context, id string) (*model.DocumentContent, error) {
	var payload downloadPayload
	r := request{method: http.MethodGet, path: "/documents/" + escape(id) + "/download", fallback: "Failed to download document"}
	if err := c.do(ctx, r, nil, &payload); err != nil {
		return nil, err
	}
	data, err := base64.StdEncoding.DecodeString(payload.FileData)
	if err != nil {
		return nil, fmt.Errorf("decode document %s: %w", id, err)
	}
	return &model.DocumentContent{
		FileName: payload.Filename,
		FileType: payload.FileType,
		Data:     data,
	}, nil
}

func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/documents/" + escape(id), fallback: "Failed to delete document"}, nil, nil)
}
