package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/rs/zerolog/log"

	"groundnut_back_end/internal/models"
)

// ErrDisabled is returned when no object storage is configured.
var ErrDisabled = errors.New("export upload is disabled")

// ObjectStore is the part of *minio.Client used by the uploader.
type ObjectStore interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	PresignedGetObject(ctx context.Context, bucket, object string, expiry time.Duration, params url.Values) (*url.URL, error)
}

// Uploader stores CSV exports in a bucket and hands out presigned download links.
type Uploader struct {
	objects ObjectStore
	bucket  string
	ttl     time.Duration
	now     func() time.Time
}

func NewUploader(objects ObjectStore, bucket string, ttl time.Duration) *Uploader {
	return &Uploader{objects: objects, bucket: bucket, ttl: ttl, now: time.Now}
}

func (u *Uploader) Enabled() bool {
	return u != nil && u.objects != nil
}

// EnsureBucket creates the export bucket when missing.
func (u *Uploader) EnsureBucket(ctx context.Context) error {
	if !u.Enabled() {
		return ErrDisabled
	}
	ok, err := u.objects.BucketExists(ctx, u.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", u.bucket, err)
	}
	if ok {
		return nil
	}
	if err := u.objects.MakeBucket(ctx, u.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", u.bucket, err)
	}
	log.Info().Str("bucket", u.bucket).Msg("✅ Export bucket created")
	return nil
}

// Upload writes the export of orders and returns a link valid for the
// configured TTL.
func (u *Uploader) Upload(ctx context.Context, orders []models.Order) (string, error) {
	if !u.Enabled() {
		return "", ErrDisabled
	}
	data, err := CSV(orders)
	if err != nil {
		return "", err
	}

	now := u.now()
	// Several exports a day must not overwrite each other.
	object := fmt.Sprintf("%s/%d-%s", now.UTC().Format("2006/01"), now.UnixNano(), FileName(now))

	_, err = u.objects.PutObject(ctx, u.bucket, object, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "text/csv; charset=utf-8"})
	if err != nil {
		return "", fmt.Errorf("upload export: %w", err)
	}

	params := make(url.Values)
	params.Set("response-content-disposition", fmt.Sprintf("attachment; filename=%q", FileName(now)))
	link, err := u.objects.PresignedGetObject(ctx, u.bucket, object, u.ttl, params)
	if err != nil {
		return "", fmt.Errorf("sign export url: %w", err)
	}
	log.Info().Str("object", object).Int("orders", len(orders)).Msg("📦 Order export uploaded")
	return link.String(), nil
}
