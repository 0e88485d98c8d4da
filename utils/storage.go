package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// getGoogleClient initializes a Google Cloud Storage client
func getGoogleClient(ctx context.Context) (*storage.Client, error) {
	// Prefer ADC (Cloud Run service account / GOOGLE_APPLICATION_CREDENTIALS).
	// If you need to provide explicit JSON (e.g. locally), set GCS_CREDENTIALS_JSON.
	if credJSON := os.Getenv("GCS_CREDENTIALS_JSON"); strings.TrimSpace(credJSON) != "" {
		client, err := storage.NewClient(ctx, option.WithCredentialsJSON([]byte(credJSON)))
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// GetGCSClient exposes the shared Google Cloud Storage client.
func GetGCSClient(ctx context.Context) (*storage.Client, error) {
	return getGoogleClient(ctx)
}

// objectReader keeps the storage client alive for the lifetime of the reader.
type objectReader struct {
	io.ReadCloser
	client *storage.Client
}

func (r *objectReader) Close() error {
	err := r.ReadCloser.Close()
	_ = r.client.Close()
	return err
}

// OpenBucketObject opens objectName in the GCS_BUCKET bucket for reading.
// The caller owns the returned reader.
func OpenBucketObject(ctx context.Context, objectName string) (io.ReadCloser, error) {
	bucketName := os.Getenv("GCS_BUCKET")
	if bucketName == "" {
		return nil, errors.New("GCS_BUCKET is required")
	}

	client, err := getGoogleClient(ctx)
	if err != nil {
		return nil, err
	}

	reader, err := client.Bucket(bucketName).Object(objectName).NewReader(ctx)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("open gs://%s/%s: %v", bucketName, objectName, err)
	}
	return &objectReader{ReadCloser: reader, client: client}, nil
}
