// internal/store/blobstore.go
// Blob storage on S3: whole-file upload, cancellable upload with
// progress callbacks, deletion by path or resolved URL, and listing.

package store

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// UploadLimits constrain a blob upload before any bytes are transferred
type UploadLimits struct {
	AllowedTypes []string // MIME types; empty allows everything
	MaxSizeBytes int64    // 0 means unlimited
}

// BlobStore wraps an S3 bucket
type BlobStore struct {
	s3Client *s3.S3
	bucket   string
}

// NewBlobStore creates a new blob store adapter
func NewBlobStore(sess *session.Session, bucket string) *BlobStore {
	return &BlobStore{
		s3Client: s3.New(sess),
		bucket:   bucket,
	}
}

// GeneratePath builds a unique blob path of the form
// {folder}/{ownerId}/{timestamp}_{sanitizedFilename}
func GeneratePath(folder, ownerID, filename string) string {
	sanitized := pathUnsafeRe.ReplaceAllString(filename, "_")
	return fmt.Sprintf("%s/%s/%d_%s", folder, ownerID, time.Now().UnixMilli(), sanitized)
}

// URL resolves a blob path to its publicly reachable URL
func (b *BlobStore) URL(path string) string {
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", b.bucket, path)
}

// Upload validates the payload against the limits, transfers it, and
// returns the public URL
func (b *BlobStore) Upload(ctx context.Context, path string, data []byte, contentType string, limits UploadLimits) (string, error) {
	if err := checkLimits(int64(len(data)), contentType, limits); err != nil {
		return "", err
	}

	_, err := b.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:             aws.String(b.bucket),
		Key:                aws.String(path),
		Body:               bytes.NewReader(data),
		ContentType:        aws.String(contentType),
		ContentDisposition: aws.String("inline"),
		ACL:                aws.String("public-read"),
	})
	observeBlobUpload(int64(len(data)), err)
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", path, err)
	}

	return b.URL(path), nil
}

// UploadTask is a cancellable in-flight upload
type UploadTask struct {
	cancel context.CancelFunc
	mu     sync.Mutex
	done   bool
}

// Cancel aborts the upload. Cancellation is best-effort: if the upload
// has already completed, completion wins and Cancel is a no-op.
func (t *UploadTask) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return
	}
	t.cancel()
}

func (t *UploadTask) finish() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	return true
}

// UploadCallbacks receive asynchronous upload events. Progress is a
// monotonically non-decreasing percentage in [0,100]; exactly one of
// OnComplete or OnError fires, after which no further callbacks occur.
type UploadCallbacks struct {
	OnProgress func(percent float64)
	OnComplete func(url string)
	OnError    func(err error)
}

// UploadWithProgress starts the upload in the background and returns a
// cancellable handle immediately
func (b *BlobStore) UploadWithProgress(ctx context.Context, path string, data []byte, contentType string, limits UploadLimits, cb UploadCallbacks) (*UploadTask, error) {
	if err := checkLimits(int64(len(data)), contentType, limits); err != nil {
		return nil, err
	}

	taskCtx, cancel := context.WithCancel(ctx)
	task := &UploadTask{cancel: cancel}

	reader := newProgressReader(data, func(percent float64) {
		if cb.OnProgress != nil {
			cb.OnProgress(percent)
		}
	})

	go func() {
		defer cancel()

		_, err := b.s3Client.PutObjectWithContext(taskCtx, &s3.PutObjectInput{
			Bucket:             aws.String(b.bucket),
			Key:                aws.String(path),
			Body:               reader,
			ContentLength:      aws.Int64(int64(len(data))),
			ContentType:        aws.String(contentType),
			ContentDisposition: aws.String("inline"),
			ACL:                aws.String("public-read"),
		})
		observeBlobUpload(int64(len(data)), err)

		if !task.finish() {
			return
		}

		if err != nil {
			if cb.OnError != nil {
				cb.OnError(fmt.Errorf("failed to upload %s: %w", path, err))
			}
			return
		}

		reader.complete()
		if cb.OnComplete != nil {
			cb.OnComplete(b.URL(path))
		}
	}()

	return task, nil
}

// Delete removes a blob by path
func (b *BlobStore) Delete(ctx context.Context, path string) error {
	_, err := b.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	return nil
}

// DeleteByURL removes a blob by its previously resolved URL
func (b *BlobStore) DeleteByURL(ctx context.Context, fileURL string) error {
	prefix := fmt.Sprintf("https://%s.s3.amazonaws.com/", b.bucket)
	if !strings.HasPrefix(fileURL, prefix) {
		return fmt.Errorf("URL %q does not belong to bucket %s", fileURL, b.bucket)
	}
	return b.Delete(ctx, strings.TrimPrefix(fileURL, prefix))
}

// List returns the paths of all blobs under a prefix
func (b *BlobStore) List(ctx context.Context, prefix string) ([]string, error) {
	var paths []string
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(b.bucket),
		Prefix: aws.String(prefix),
	}

	err := b.s3Client.ListObjectsV2PagesWithContext(ctx, input,
		func(page *s3.ListObjectsV2Output, lastPage bool) bool {
			for _, obj := range page.Contents {
				paths = append(paths, aws.StringValue(obj.Key))
			}
			return true
		})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", prefix, err)
	}

	return paths, nil
}

func checkLimits(size int64, contentType string, limits UploadLimits) error {
	if len(limits.AllowedTypes) > 0 {
		allowed := false
		for _, t := range limits.AllowedTypes {
			if t == contentType {
				allowed = true
				break
			}
		}
		if !allowed {
			return fmt.Errorf("content type %s is not allowed", contentType)
		}
	}

	if limits.MaxSizeBytes > 0 && size > limits.MaxSizeBytes {
		return fmt.Errorf("file size %d exceeds maximum of %d bytes", size, limits.MaxSizeBytes)
	}

	return nil
}
