package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"cloud.google.com/go/storage"
	"github.com/gabriel-vasile/mimetype"

	"products-scraper/internal/scraper"
)

// BucketSink uploads each CSV file to a Google Cloud Storage bucket.
// Credentials come from the usual application default lookup.
type BucketSink struct {
	client *storage.Client
	bucket string
	prefix string
	runID  string
}

func NewBucketSink(ctx context.Context, bucket, prefix, runID string) (*BucketSink, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &BucketSink{client: client, bucket: bucket, prefix: prefix, runID: runID}, nil
}

func (b *BucketSink) Export(ctx context.Context, _ scraper.Category, csvPath string, _ []scraper.Product) error {
	file, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", csvPath, err)
	}
	defer file.Close()

	w := b.client.Bucket(b.bucket).Object(ObjectName(b.prefix, b.runID, csvPath)).NewWriter(ctx)
	w.ContentType = DetectContentType(csvPath)

	if _, err := io.Copy(w, file); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to copy file data to bucket %s: %w", b.bucket, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close writer for file %s: %w", csvPath, err)
	}
	return nil
}

func (b *BucketSink) Close(context.Context) error {
	return b.client.Close()
}

// ObjectName is <prefix>/<run id>/<file name>.
func ObjectName(prefix, runID, csvPath string) string {
	return path.Join(prefix, runID, filepath.Base(csvPath))
}

// DetectContentType falls back to a binary stream when detection fails.
func DetectContentType(filePath string) string {
	mime, err := mimetype.DetectFile(filePath)
	if err != nil {
		return "application/octet-stream"
	}
	return mime.String()
}
