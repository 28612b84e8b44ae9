package preview

import (
	"errors"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		mime string
		name string
		want Kind
	}{
		{"image/png", "scan.png", Image},
		{"", "photo.JPG", Image},
		{"image/svg+xml", "", Image},
		{"application/pdf", "order.bin", PDF},
		{"", "Custody Order.pdf", PDF},
		{"video/mp4", "", Video},
		{"", "exchange.mov", Video},
		{"", "voicemail.ogg", Video},
		{"audio/ogg", "voicemail.ogg", Video},
		{"audio/ogg", "", Audio},
		{"", "call.m4a", Audio},
		{"application/msword", "letter.doc", Unsupported},
		{"", "", Unsupported},
		{"text/plain", "notes.txt", Unsupported},
	}

	for _, tt := range tests {
		if got := Classify(tt.mime, tt.name); got != tt.want {
			t.Errorf("Classify(%q, %q) = %s, want %s", tt.mime, tt.name, got, tt.want)
		}
	}
}

func TestKindElement(t *testing.T) {
	want := map[Kind]string{
		Image:       "img",
		PDF:         "iframe",
		Video:       "video",
		Audio:       "audio",
		Unsupported: "",
	}
	for k, el := range want {
		if got := k.Element(); got != el {
			t.Errorf("%s.Element() = %q, want %q", k, got, el)
		}
		if k.CanPreview() != (el != "") {
			t.Errorf("%s.CanPreview() = %v", k, k.CanPreview())
		}
	}
}

func TestIcon(t *testing.T) {
	tests := map[string]string{
		"application/pdf":    "pdf",
		"image/jpeg":         "image",
		"application/msword": "word",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document": "word",
		"video/mp4":  "video",
		"audio/mpeg": "audio",
		"":           "file",
	}
	for mime, want := range tests {
		if got := Icon(mime); got != want {
			t.Errorf("Icon(%q) = %q, want %q", mime, got, want)
		}
	}
}

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		mime    string
		size    int64
		wantErr bool
	}{
		{"pdf", "order.pdf", "application/pdf", 1024, false},
		{"docx by extension", "plan.docx", "application/octet-stream", 2048, false},
		{"jpeg with params", "a.jpg", "image/jpeg; charset=binary", 10, false},
		{"exactly max", "big.pdf", "application/pdf", MaxUploadSize, false},
		{"too large", "big.pdf", "application/pdf", MaxUploadSize + 1, true},
		{"video not allowed", "clip.mp4", "video/mp4", 10, true},
		{"gif not allowed", "a.gif", "", 10, true},
		{"missing name", "", "application/pdf", 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpload(tt.file, tt.mime, tt.size)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateUpload error = %v, wantErr %v", err, tt.wantErr)
			}
			var ue *UploadError
			if err != nil && !errors.As(err, &ue) {
				t.Errorf("error %T is not an *UploadError", err)
			}
		})
	}
}

func TestUploadType(t *testing.T) {
	if got := UploadType("scan.PNG", ""); got != "image/png" {
		t.Errorf("UploadType = %q, want image/png", got)
	}
	if got := UploadType("scan.png", "Image/JPEG"); got != "image/jpeg" {
		t.Errorf("UploadType should keep an explicit type, got %q", got)
	}
}

func TestFormatSize(t *testing.T) {
	tests := map[int64]string{
		512:             "512 B",
		1536:            "1.5 KB",
		3 * 1024 * 1024: "3.0 MB",
	}
	for n, want := range tests {
		if got := FormatSize(n); got != want {
			t.Errorf("FormatSize(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestContentType(t *testing.T) {
	tests := []struct {
		mime string
		name string
		want string
	}{
		{"application/pdf", "order.pdf", "application/pdf"},
		{"", "photo.jpg", "image/jpeg"},
		{"", "order.pdf", "application/pdf"},
		{"application/octet-stream", "clip.mp4", "video/mp4"},
		{"", "voicemail.ogg", "video/ogg"},
		{"", "call.m4a", "audio/mp4"},
		{"", "notes.txt", "application/octet-stream"},
		{"", "", "application/octet-stream"},
	}
	for _, tt := range tests {
		if got := ContentType(tt.mime, tt.name); got != tt.want {
			t.Errorf("ContentType(%q, %q) = %q, want %q", tt.mime, tt.name, got, tt.want)
		}
	}
}
