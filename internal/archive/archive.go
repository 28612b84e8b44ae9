// Package archive keeps sealed copies of the user's exported records in
// S3-compatible object storage.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dukerupert/custodykeeper/internal/model"
	"github.com/dukerupert/custodykeeper/internal/secure"
	"github.com/dukerupert/custodykeeper/internal/store"
)

var (
	ErrDisabled = errors.New("archive storage is not configured")
	ErrNotFound = errors.New("archive not found")
)

// DefaultKeep is how many archives per user survive a cleanup.
const DefaultKeep = 10

// objectStore is the part of the S3 client the archiver uses.
type objectStore interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, input *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	// Passphrase seals every archive before upload. Archiving is off
	// without one.
	Passphrase string
	Keep       int
}

func (c Config) Enabled() bool {
	return c.Bucket != "" && c.AccessKey != "" && c.SecretKey != "" && c.Passphrase != ""
}

type Archiver struct {
	cfg     Config
	client  objectStore
	sealer  *secure.Sealer
	records *store.ArchiveStore
	logger  *slog.Logger
	now     func() time.Time
}

// New returns an Archiver. When cfg is incomplete every operation fails
// with ErrDisabled.
func New(cfg Config, records *store.ArchiveStore, logger *slog.Logger) *Archiver {
	if cfg.Keep <= 0 {
		cfg.Keep = DefaultKeep
	}
	a := &Archiver{
		cfg:     cfg,
		sealer:  secure.NewSealer(cfg.Passphrase),
		records: records,
		logger:  logger.With("component", "archive"),
		now:     time.Now,
	}
	if cfg.Enabled() {
		a.client = newS3Client(cfg)
	}
	return a
}

func newS3Client(cfg Config) *s3.Client {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	opts := s3.Options{
		Region:       region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

func (a *Archiver) Enabled() bool {
	return a != nil && a.client != nil
}

func (a *Archiver) List(userID string) ([]model.Archive, error) {
	if !a.Enabled() {
		return nil, ErrDisabled
	}
	return a.records.List(userID, 100)
}

// Upload seals bundle and stores it under the user's prefix.
func (a *Archiver) Upload(ctx context.Context, userID string, bundle *model.ExportBundle) (*model.Archive, error) {
	if !a.Enabled() {
		return nil, ErrDisabled
	}

	data, err := json.Marshal(bundle)
	if err != nil {
		return nil, fmt.Errorf("encode bundle: %w", err)
	}
	sealed, err := a.sealer.Seal(string(data))
	if err != nil {
		return nil, fmt.Errorf("seal bundle: %w", err)
	}

	key := fmt.Sprintf("%s/export-%s.json.enc", userID, a.now().UTC().Format("2006-01-02T150405.000Z"))
	record, err := a.records.Create(userID, key)
	if err != nil {
		return nil, err
	}

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.cfg.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader([]byte(sealed)),
		ContentLength: aws.Int64(int64(len(sealed))),
		ContentType:   aws.String("application/octet-stream"),
	})
	if err != nil {
		a.records.Fail(record.ID, err.Error())
		return nil, fmt.Errorf("upload archive: %w", err)
	}

	if err := a.records.Complete(record.ID, int64(len(sealed))); err != nil {
		return nil, err
	}
	a.logger.Info("archive uploaded", "user_id", userID, "key", key, "bytes", len(sealed))

	done, err := a.records.Get(record.ID, userID)
	if err != nil {
		return nil, err
	}
	return done, nil
}

// Fetch downloads and opens the archive with id, returning the bundle JSON.
func (a *Archiver) Fetch(ctx context.Context, userID string, id int64) ([]byte, error) {
	if !a.Enabled() {
		return nil, ErrDisabled
	}
	record, err := a.records.Get(id, userID)
	if err != nil {
		return nil, err
	}
	if record == nil || record.Status != model.ArchiveStatusCompleted {
		return nil, ErrNotFound
	}

	out, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.cfg.Bucket),
		Key:    aws.String(record.ObjectKey),
	})
	if err != nil {
		return nil, fmt.Errorf("download archive: %w", err)
	}
	defer out.Body.Close()

	sealed, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}
	plain, err := a.sealer.Open(string(sealed))
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	return []byte(plain), nil
}

// Cleanup deletes the user's archives beyond the configured count and
// returns how many were removed.
func (a *Archiver) Cleanup(ctx context.Context, userID string) (int, error) {
	if !a.Enabled() {
		return 0, ErrDisabled
	}
	expired, err := a.records.Expired(userID, a.cfg.Keep)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, rec := range expired {
		_, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(a.cfg.Bucket),
			Key:    aws.String(rec.ObjectKey),
		})
		if err != nil {
			a.logger.Warn("delete archive object", "key", rec.ObjectKey, "error", err)
			continue
		}
		if err := a.records.Delete(rec.ID); err != nil {
			return removed, err
		}
		removed++
	}
	if removed > 0 {
		a.logger.Info("archives pruned", "user_id", userID, "removed", removed)
	}
	return removed, nil
}
