package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"cloud.google.com/go/storage"
)

// Archive mirrors rendered reports into a Cloud Storage bucket so they
// outlive the local retention window.
type Archive struct {
	client     *storage.Client
	bucketName string
	prefix     string
}

// NewArchive creates an archive backed by the given bucket.
func NewArchive(ctx context.Context, bucketName string) (*Archive, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}
	return &Archive{
		client:     client,
		bucketName: bucketName,
		prefix:     "reports/",
	}, nil
}

// Store uploads the local report file under reports/<basename>.
func (a *Archive) Store(ctx context.Context, localPath string) error {
	file, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("opening report %s: %w", localPath, err)
	}
	defer file.Close()

	object := a.prefix + filepath.Base(localPath)
	writer := a.client.Bucket(a.bucketName).Object(object).NewWriter(ctx)
	writer.ContentType = "application/pdf"

	if _, err := io.Copy(writer, file); err != nil {
		writer.Close()
		return fmt.Errorf("uploading report %s: %w", object, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finalizing upload %s: %w", object, err)
	}
	return nil
}

// Close releases the underlying storage client.
func (a *Archive) Close() error {
	return a.client.Close()
}
