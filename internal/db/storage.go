package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	fbstorage "firebase.google.com/go/v4/storage"
)

// firebaseFileStore implements FileStore on the project's Cloud Storage
// buckets via the Firebase Admin SDK.
type firebaseFileStore struct {
	client        *fbstorage.Client
	defaultBucket string
}

// NewFirebaseFileStore creates a new firebaseFileStore. defaultBucket is
// used when an upload does not name one.
func NewFirebaseFileStore(client *fbstorage.Client, defaultBucket string) FileStore {
	if client == nil {
		log.Fatal("Firebase Storage client is not initialized for FileStore.")
	}
	return &firebaseFileStore{client: client, defaultBucket: defaultBucket}
}

// Upload writes the object with upsert semantics and returns its public
// URL. Callers are responsible for bucket-level access rules.
func (s *firebaseFileStore) Upload(ctx context.Context, bucket, path, contentType string, data []byte) (string, error) {
	if path == "" {
		return "", errors.New("path cannot be empty for Upload operation")
	}
	if bucket == "" {
		bucket = s.defaultBucket
	}
	if bucket == "" {
		return "", errors.New("no bucket named and no default bucket configured")
	}

	handle, err := s.client.Bucket(bucket)
	if err != nil {
		return "", fmt.Errorf("failed to open bucket '%s': %w", bucket, err)
	}

	w := handle.Object(path).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return "", fmt.Errorf("failed to write object '%s/%s': %w", bucket, path, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize object '%s/%s': %w", bucket, path, err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, path), nil
}
