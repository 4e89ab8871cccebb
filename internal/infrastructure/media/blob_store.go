package media

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	"gocloud.dev/gcerrors"
	"slotzi.backend/internal/domain/entities"
	domainerrors "slotzi.backend/internal/domain/errors"
	"slotzi.backend/pkg/logger"
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// BlobStore keeps business images in a gocloud bucket and serves them from publicBaseURL
type BlobStore struct {
	bucket        *blob.Bucket
	publicBaseURL string
	maxSize       int64
}

// Open opens the bucket behind bucketURL (mem://, file:///path, ...).
func Open(ctx context.Context, bucketURL, publicBaseURL string, maxSize int64) (*BlobStore, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, fmt.Errorf("open media bucket: %w", err)
	}
	return NewBlobStore(bucket, publicBaseURL, maxSize), nil
}

func NewBlobStore(bucket *blob.Bucket, publicBaseURL string, maxSize int64) *BlobStore {
	return &BlobStore{
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		maxSize:       maxSize,
	}
}

func (s *BlobStore) UploadImage(ctx context.Context, upload *entities.MediaUpload, folder string) (string, error) {
	if upload == nil || len(upload.Data) == 0 {
		return "", domainerrors.BadRequest("Empty image upload")
	}
	if s.maxSize > 0 && int64(len(upload.Data)) > s.maxSize {
		return "", domainerrors.BadRequest("Image exceeds the maximum upload size")
	}

	contentType := upload.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(upload.Data)
	}
	ext, ok := imageExtensions[strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))]
	if !ok {
		return "", domainerrors.BadRequest("Unsupported image type")
	}

	key := path.Join(strings.Trim(folder, "/"), uuid.NewString()+ext)
	if err := s.bucket.WriteAll(ctx, key, upload.Data, &blob.WriterOptions{ContentType: contentType}); err != nil {
		return "", fmt.Errorf("write media object: %w", err)
	}

	logger.Debug(ctx, "Image uploaded", zap.String("key", key), zap.Int("bytes", len(upload.Data)))
	return s.publicBaseURL + "/" + key, nil
}

// Delete removes the object behind a URL returned by UploadImage. Unknown
// URLs and missing objects are not errors.
func (s *BlobStore) Delete(ctx context.Context, publicURL string) error {
	key, ok := s.keyFor(publicURL)
	if !ok {
		return nil
	}
	if err := s.bucket.Delete(ctx, key); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil
		}
		return fmt.Errorf("delete media object: %w", err)
	}
	return nil
}

// Read returns an object and its content type for the /media route.
func (s *BlobStore) Read(ctx context.Context, key string) ([]byte, string, error) {
	attrs, err := s.bucket.Attributes(ctx, key)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, "", domainerrors.ErrNotFound
		}
		return nil, "", err
	}
	data, err := s.bucket.ReadAll(ctx, key)
	if err != nil {
		return nil, "", err
	}
	return data, attrs.ContentType, nil
}

func (s *BlobStore) Close() error {
	return s.bucket.Close()
}

func (s *BlobStore) keyFor(publicURL string) (string, bool) {
	prefix := s.publicBaseURL + "/"
	if !strings.HasPrefix(publicURL, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(publicURL, prefix)
	return key, key != ""
}
