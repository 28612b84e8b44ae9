package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dukerupert/custodykeeper/internal/database"
	"github.com/dukerupert/custodykeeper/internal/model"
	"github.com/dukerupert/custodykeeper/internal/secure"
	"github.com/dukerupert/custodykeeper/internal/store"
)

// mockS3Client implements objectStore for testing.
type mockS3Client struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newMockS3() *mockS3Client {
	return &mockS3Client{objects: make(map[string][]byte)}
}

func (m *mockS3Client) PutObject(_ context.Context, input *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.putErr != nil {
		return nil, m.putErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, _ := io.ReadAll(input.Body)
	m.objects[*input.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (m *mockS3Client) GetObject(_ context.Context, input *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[*input.Key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (m *mockS3Client) DeleteObject(_ context.Context, input *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, *input.Key)
	return &s3.DeleteObjectOutput{}, nil
}

var testConfig = Config{Bucket: "records", AccessKey: "key", SecretKey: "secret", Passphrase: "correct horse", Keep: 2}

func newTestArchiver(t *testing.T) (*Archiver, *mockS3Client) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	a := New(testConfig, store.NewArchiveStore(db), slog.New(slog.NewTextHandler(io.Discard, nil)))
	mock := newMockS3()
	a.client = mock

	// Distinct keys for uploads in the same test.
	tick := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	a.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}
	return a, mock
}

var testBundle = &model.ExportBundle{
	ExportedAt: "2024-03-01T09:00:00Z",
	Journals:   []model.JournalEntry{{JournalID: "j1", Title: "Pickup late"}},
}

func TestEnabled(t *testing.T) {
	tests := map[string]struct {
		cfg  Config
		want bool
	}{
		"complete":      {testConfig, true},
		"no passphrase": {Config{Bucket: "b", AccessKey: "k", SecretKey: "s"}, false},
		"no bucket":     {Config{AccessKey: "k", SecretKey: "s", Passphrase: "p"}, false},
		"empty":         {Config{}, false},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tt.cfg.Enabled(); got != tt.want {
				t.Errorf("Enabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDisabled(t *testing.T) {
	a := New(Config{}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if a.Enabled() {
		t.Fatal("archiver without config should be disabled")
	}
	if _, err := a.Upload(context.Background(), "u1", testBundle); !errors.Is(err, ErrDisabled) {
		t.Errorf("Upload err = %v, want ErrDisabled", err)
	}
	if _, err := a.Fetch(context.Background(), "u1", 1); !errors.Is(err, ErrDisabled) {
		t.Errorf("Fetch err = %v, want ErrDisabled", err)
	}
}

func TestUploadSealsAndFetchOpens(t *testing.T) {
	a, mock := newTestArchiver(t)
	ctx := context.Background()

	rec, err := a.Upload(ctx, "u1", testBundle)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if rec.Status != model.ArchiveStatusCompleted || rec.SizeBytes == 0 {
		t.Errorf("record = %+v", rec)
	}
	if !strings.HasPrefix(rec.ObjectKey, "u1/export-") {
		t.Errorf("key = %q", rec.ObjectKey)
	}

	stored := string(mock.objects[rec.ObjectKey])
	if !secure.IsSealed(stored) || strings.Contains(stored, "Pickup late") {
		t.Error("stored object is not sealed")
	}

	data, err := a.Fetch(ctx, "u1", rec.ID)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	var got model.ExportBundle
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Journals) != 1 || got.Journals[0].Title != "Pickup late" {
		t.Errorf("bundle = %+v", got)
	}

	if _, err := a.Fetch(ctx, "u2", rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("fetch as other user err = %v, want ErrNotFound", err)
	}
}

func TestUploadFailureRecorded(t *testing.T) {
	a, mock := newTestArchiver(t)
	mock.putErr = errors.New("access denied")

	if _, err := a.Upload(context.Background(), "u1", testBundle); err == nil {
		t.Fatal("expected upload error")
	}
	list, err := a.List("u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Status != model.ArchiveStatusFailed {
		t.Errorf("list = %+v", list)
	}
	if _, err := a.Fetch(context.Background(), "u1", list[0].ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("fetch failed archive err = %v, want ErrNotFound", err)
	}
}

func TestCleanupKeepsNewest(t *testing.T) {
	a, mock := newTestArchiver(t)
	ctx := context.Background()

	var keys []string
	for i := 0; i < 4; i++ {
		rec, err := a.Upload(ctx, "u1", testBundle)
		if err != nil {
			t.Fatalf("upload %d: %v", i, err)
		}
		keys = append(keys, rec.ObjectKey)
	}

	removed, err := a.Cleanup(ctx, "u1")
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	for _, k := range keys[:2] {
		if _, ok := mock.objects[k]; ok {
			t.Errorf("old object %s still stored", k)
		}
	}
	for _, k := range keys[2:] {
		if _, ok := mock.objects[k]; !ok {
			t.Errorf("recent object %s was deleted", k)
		}
	}
	list, _ := a.List("u1")
	if len(list) != 2 {
		t.Errorf("records left = %d, want 2", len(list))
	}
}
