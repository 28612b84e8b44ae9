package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/custodykeeper/internal/auth"
	"github.com/dukerupert/custodykeeper/internal/export"
	"github.com/dukerupert/custodykeeper/internal/model"
	"github.com/dukerupert/custodykeeper/internal/recurrence"
	"github.com/dukerupert/custodykeeper/internal/websocket"
)

// TransferHandler serves PDF reports, data exports and CSV imports.
type TransferHandler struct {
	broadcaster
	opts   recurrence.Options
	now    func() time.Time
	logger *slog.Logger
}

func NewTransferHandler(hub *websocket.Hub, opts recurrence.Options, logger *slog.Logger) *TransferHandler {
	return &TransferHandler{broadcaster: broadcaster{hub}, opts: opts, now: time.Now, logger: logger}
}

// servePDF renders into memory first so a rendering failure can still be
// reported as JSON.
func (h *TransferHandler) servePDF(w http.ResponseWriter, fileName string, render func(io.Writer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		h.logger.Error("render pdf", "file", fileName, "error", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to export PDF")
		return
	}
	attachment(w, "application/pdf", fileName)
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	buf.WriteTo(w)
}

// JournalsPDF handles GET /api/export/journals.pdf
func (h *TransferHandler) JournalsPDF(w http.ResponseWriter, r *http.Request) {
	data, err := client(r).LoadJournalReport(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	user := auth.User(r.Context())
	report := export.Report{
		Kind:       export.KindJournal,
		PreparedBy: user.FullName,
		State:      user.State,
		Generated:  h.now(),
		Journals:   data.Journals,
		Children:   data.Children,
	}
	h.servePDF(w, report.FileName(), func(out io.Writer) error { return export.RecordsPDF(out, report) })
}

// ViolationsPDF handles GET /api/export/violations.pdf?severity=
func (h *TransferHandler) ViolationsPDF(w http.ResponseWriter, r *http.Request) {
	severity := model.Severity(r.URL.Query().Get("severity"))
	if severity != "" && !severity.Valid() {
		writeMessage(w, http.StatusBadRequest, "severity must be low, medium or high")
		return
	}
	violations, err := client(r).AllViolations(r.Context(), severity)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	user := auth.User(r.Context())
	report := export.Report{
		Kind:       export.KindViolations,
		PreparedBy: user.FullName,
		State:      user.State,
		Generated:  h.now(),
		Violations: violations,
	}
	h.servePDF(w, report.FileName(), func(out io.Writer) error { return export.RecordsPDF(out, report) })
}

// CalendarPDF handles GET /api/export/calendar.pdf?month=yyyy-MM
func (h *TransferHandler) CalendarPDF(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if s := r.URL.Query().Get("month"); s != "" {
		t, err := time.Parse("2006-01", s)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "month must be yyyy-MM")
			return
		}
		month = t
	}
	events, err := client(r).ListEvents(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	report := export.CalendarReport{
		Month:      month,
		Events:     events,
		PreparedBy: auth.User(r.Context()).FullName,
		Generated:  now,
		Options:    h.opts,
	}
	h.servePDF(w, report.FileName(), func(out io.Writer) error { return export.CalendarPDF(out, report) })
}

func (h *TransferHandler) serveJSON(w http.ResponseWriter, fileName string, v any) {
	attachment(w, "application/json", fileName)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

// ExportAll handles GET /api/export/all, a JSON backup of every record.
func (h *TransferHandler) ExportAll(w http.ResponseWriter, r *http.Request) {
	bundle, err := client(r).ExportAll(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.serveJSON(w, "custodykeeper_export_"+h.now().Format("2006-01-02")+".json", bundle)
}

// ExportRecords handles GET /api/export/{kind} for journals and violations
// as JSON.
func (h *TransferHandler) ExportRecords(w http.ResponseWriter, r *http.Request) {
	kind := r.PathValue("kind")
	var v any
	var err error
	switch kind {
	case "journals":
		v, err = client(r).ExportJournals(r.Context())
	case "violations":
		v, err = client(r).ExportViolations(r.Context())
	default:
		writeMessage(w, http.StatusNotFound, "unknown export")
		return
	}
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.serveJSON(w, kind+"_"+h.now().Format("2006-01-02")+".json", v)
}

// ImportTemplate handles GET /api/import/{type}/template
func (h *TransferHandler) ImportTemplate(w http.ResponseWriter, r *http.Request) {
	importType := r.PathValue("type")
	data, err := client(r).ImportTemplate(r.Context(), importType)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	attachment(w, "text/csv", importType+"_template.csv")
	w.Write(data)
}

// Import handles POST /api/import/{type} with a "file" multipart part.
func (h *TransferHandler) Import(w http.ResponseWriter, r *http.Request) {
	importType := r.PathValue("type")
	r.Body = http.MaxBytesReader(w, r.Body, 2*maxImportSize)
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
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

	result, err := client(r).Import(r.Context(), importType, header.Filename, file)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.logger.Info("imported", "type", importType, "imported", result.ImportedCount, "skipped", result.SkippedCount)
	if result.ImportedCount > 0 {
		h.broadcast(importEntity(importType), "imported", "")
	}
	writeJSON(w, http.StatusOK, result)
}

const maxImportSize = 10 << 20

func importEntity(importType string) string {
	switch importType {
	case "journals":
		return "journal"
	case "violations":
		return "violation"
	case "calendar":
		return "calendar_event"
	case "contacts":
		return "contact"
	}
	return importType
}
