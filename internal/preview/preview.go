// Package preview decides how a stored document can be shown and which
// files may be uploaded.
package preview

import (
	"fmt"
	"path"
	"strings"
)

// Kind is the closed set of in-browser preview renderings.
type Kind int

const (
	Unsupported Kind = iota
	Image
	PDF
	Video
	Audio
)

var kindNames = [...]string{
	Unsupported: "unsupported",
	Image:       "image",
	PDF:         "pdf",
	Video:       "video",
	Audio:       "audio",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unsupported"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Element is the HTML element used to render the kind, or "" when the file
// can only be downloaded.
func (k Kind) Element() string {
	switch k {
	case Image:
		return "img"
	case PDF:
		return "iframe"
	case Video:
		return "video"
	case Audio:
		return "audio"
	}
	return ""
}

func (k Kind) CanPreview() bool {
	return k != Unsupported
}

var (
	imageExts = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg"}
	videoExts = []string{".mp4", ".webm", ".ogg", ".mov"}
	audioExts = []string{".mp3", ".wav", ".ogg", ".m4a"}
)

// Classify picks the preview kind from the MIME type, falling back to the
// file extension. Checks run image, pdf, video, audio in that order, so an
// .ogg file without a MIME type is a video.
func Classify(mimeType, fileName string) Kind {
	typ := strings.ToLower(strings.TrimSpace(mimeType))
	ext := strings.ToLower(path.Ext(fileName))

	switch {
	case strings.HasPrefix(typ, "image/") || hasExt(imageExts, ext):
		return Image
	case typ == "application/pdf" || ext == ".pdf":
		return PDF
	case strings.HasPrefix(typ, "video/") || hasExt(videoExts, ext):
		return Video
	case strings.HasPrefix(typ, "audio/") || hasExt(audioExts, ext):
		return Audio
	}
	return Unsupported
}

func hasExt(exts []string, ext string) bool {
	for _, e := range exts {
		if e == ext {
			return true
		}
	}
	return false
}

// Icon names the icon family shown for a file in document lists.
func Icon(mimeType string) string {
	typ := strings.ToLower(mimeType)
	switch {
	case strings.Contains(typ, "pdf"):
		return "pdf"
	case strings.Contains(typ, "image"):
		return "image"
	case strings.Contains(typ, "word") || strings.Contains(typ, "document"):
		return "word"
	case strings.HasPrefix(typ, "video/"):
		return "video"
	case strings.HasPrefix(typ, "audio/"):
		return "audio"
	}
	return "file"
}

// MaxUploadSize is the largest document the backend accepts.
const MaxUploadSize = 10 << 20

var allowedUploadTypes = map[string]bool{
	"application/pdf":    true,
	"image/jpeg":         true,
	"image/jpg":          true,
	"image/png":          true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

var uploadTypeByExt = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// UploadType returns the MIME type to send for a file, inferring it from
// the extension when mimeType is empty or generic.
func UploadType(fileName, mimeType string) string {
	typ := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(typ, ';'); i >= 0 {
		typ = strings.TrimSpace(typ[:i])
	}
	if typ == "" || typ == "application/octet-stream" {
		if t, ok := uploadTypeByExt[strings.ToLower(path.Ext(fileName))]; ok {
			return t
		}
	}
	return typ
}

// mediaTypeByExt covers the previewable extensions outside the upload
// types. .ogg is served as video to match Classify.
var mediaTypeByExt = map[string]string{
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".ogg":  "video/ogg",
	".mov":  "video/quicktime",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".m4a":  "audio/mp4",
}

// ContentType returns the type to serve a stored document with. A missing
// or generic type is inferred from the file name, and anything unknown is
// served as application/octet-stream.
func ContentType(mimeType, fileName string) string {
	typ := UploadType(fileName, mimeType)
	if typ != "" && typ != "application/octet-stream" {
		return typ
	}
	if t, ok := mediaTypeByExt[strings.ToLower(path.Ext(fileName))]; ok {
		return t
	}
	return "application/octet-stream"
}

// UploadError explains why a file was rejected before upload.
type UploadError struct {
	Reason string
}

func (e *UploadError) Error() string {
	return e.Reason
}

// ValidateUpload applies the backend's upload rules locally so a rejected
// file never leaves the machine.
func ValidateUpload(fileName, mimeType string, size int64) error {
	if strings.TrimSpace(fileName) == "" {
		return &UploadError{Reason: "file name is required"}
	}
	if !allowedUploadTypes[UploadType(fileName, mimeType)] {
		return &UploadError{Reason: "File type not allowed"}
	}
	if size > MaxUploadSize {
		return &UploadError{Reason: "File too large (max 10MB)"}
	}
	return nil
}

// FormatSize renders a byte count the way document lists show it.
func FormatSize(n int64) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	}
	return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
}
