package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dukerupert/custodykeeper/internal/api"
	"github.com/dukerupert/custodykeeper/internal/model"
	"github.com/dukerupert/custodykeeper/internal/preview"
	"github.com/dukerupert/custodykeeper/internal/websocket"
)

// multipartOverhead allows for form fields and boundaries around a file at
// the size limit.
const multipartOverhead = 1 << 20

type DocumentHandler struct {
	broadcaster
	logger *slog.Logger
}

func NewDocumentHandler(hub *websocket.Hub, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{broadcaster: broadcaster{hub}, logger: logger}
}

type documentView struct {
	model.Document
	CategoryLabel string       `json:"category_label"`
	Icon          string       `json:"icon"`
	Size          string       `json:"size"`
	Preview       preview.Kind `json:"preview"`
}

func viewDocument(d model.Document) documentView {
	return documentView{
		Document:      d,
		CategoryLabel: d.Category.Label(),
		Icon:          preview.Icon(d.FileType),
		Size:          preview.FormatSize(d.FileSize),
		Preview:       preview.Classify(d.FileType, d.FileName),
	}
}

// List handles GET /api/documents?category=
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	docs, err := client(r).ListDocuments(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	category := model.DocumentCategory(r.URL.Query().Get("category"))
	out := make([]documentView, 0, len(docs))
	for _, d := range docs {
		if category != "" && category != "all" && d.Category != category {
			continue
		}
		out = append(out, viewDocument(d))
	}
	writeJSON(w, http.StatusOK, out)
}

// Upload handles POST /api/documents as multipart form data with a "file"
// part and optional category and description fields.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, preview.MaxUploadSize+multipartOverhead)
	if err := r.ParseMultipartForm(preview.MaxUploadSize + multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeMessage(w, http.StatusRequestEntityTooLarge, "File too large (max 10MB)")
			return
		}
		writeMessage(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	in := model.DocumentInput{
		Category:    model.DocumentCategory(r.FormValue("category")),
		Description: r.FormValue("description"),
	}
	up := api.Upload{
		FileName: header.Filename,
		FileType: header.Header.Get("Content-Type"),
		Content:  file,
	}
	doc, err := client(r).UploadDocument(r.Context(), up, in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.broadcast("document", "created", doc.DocumentID)
	writeJSON(w, http.StatusCreated, viewDocument(*doc))
}

// Download handles GET /api/documents/{id}/download
func (h *DocumentHandler) Download(w http.ResponseWriter, r *http.Request) {
	content, err := client(r).DownloadDocument(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	attachment(w, preview.ContentType(content.FileType, content.FileName), content.FileName)
	w.Header().Set("Content-Length", strconv.Itoa(len(content.Data)))
	w.Write(content.Data)
}

// Preview handles GET /api/documents/{id}/preview: the content served inline
// for images, PDFs, video and audio. Other types answer 415 so the caller
// offers a download instead.
func (h *DocumentHandler) Preview(w http.ResponseWriter, r *http.Request) {
	content, err := client(r).DownloadDocument(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	kind := preview.Classify(content.FileType, content.FileName)
	if !kind.CanPreview() {
		writeJSON(w, http.StatusUnsupportedMediaType, map[string]any{
			"error":   "Preview not available for this file type",
			"preview": kind,
		})
		return
	}
	w.Header().Set("Content-Type", preview.ContentType(content.FileType, content.FileName))
	w.Header().Set("Content-Disposition", `inline; filename="`+sanitizeFileName(content.FileName)+`"`)
	w.Header().Set("X-Preview-Element", kind.Element())
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy", "sandbox")
	w.Header().Set("Content-Length", strconv.Itoa(len(content.Data)))
	w.Write(content.Data)
}

func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := client(r).DeleteDocument(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.broadcast("document", "deleted", id)
	w.WriteHeader(http.StatusNoContent)
}
