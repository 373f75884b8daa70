package images

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stockroomhq/stockroom-backend/pkg/config"
	pkgerrors "github.com/stockroomhq/stockroom-backend/pkg/errors"
	"github.com/stockroomhq/stockroom-backend/pkg/logger"
	"github.com/stockroomhq/stockroom-backend/pkg/metrics"
)

const objectPrefix = "products/"

// objectStore is the slice of the storage client the resolver needs.
type objectStore interface {
	UploadObject(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	DeleteObject(ctx context.Context, key string) error
	ObjectURL(key string) string
	Bucket() string
}

// Upload describes a spooled multipart file waiting to be attached.
type Upload struct {
	// TempPath is the local spool file. The resolver removes it on every
	// exit path, success or failure.
	TempPath    string
	Filename    string
	ContentType string
}

// Attachment is the stored result of a successful upload.
type Attachment struct {
	SecureURL string
	ObjectKey string
}

// Resolver stores product images in the object bucket and hands back the
// public URL the product row keeps.
type Resolver struct {
	store   objectStore
	cfg     config.ImagesConfig
	metrics *metrics.InventoryMetrics
	logg    *logger.Logger
}

// NewResolver constructs the attachment resolver.
func NewResolver(store objectStore, cfg config.ImagesConfig, invMetrics *metrics.InventoryMetrics, logg *logger.Logger) (*Resolver, error) {
	if store == nil {
		return nil, fmt.Errorf("object store required")
	}
	return &Resolver{store: store, cfg: cfg, metrics: invMetrics, logg: logg}, nil
}

// PlaceholderURL is the imageUrl used when no upload is provided.
func (r *Resolver) PlaceholderURL() string {
	return r.cfg.PlaceholderPath
}

// Upload pushes the spooled file to the bucket under a fresh object key.
// The remote call is bounded by the configured timeout and retried once;
// any remote failure surfaces as an upload error distinct from validation.
func (r *Resolver) Upload(ctx context.Context, upload Upload) (*Attachment, error) {
	defer func() {
		if upload.TempPath != "" {
			if err := os.Remove(upload.TempPath); err != nil && !os.IsNotExist(err) && r.logg != nil {
				r.logg.Warn(ctx, fmt.Sprintf("removing spool file: %v", err))
			}
		}
	}()

	if upload.TempPath == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image file is required")
	}

	key := objectPrefix + uuid.NewString() + sanitizeExt(upload.Filename)

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		url, err := r.uploadOnce(ctx, key, upload)
		if err == nil {
			r.metrics.IncUpload("success")
			return &Attachment{SecureURL: url, ObjectKey: key}, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}

	r.metrics.IncUpload("failure")
	if r.logg != nil {
		r.logg.Error(ctx, "image upload failed", lastErr)
	}
	return nil, pkgerrors.Wrap(pkgerrors.CodeUploadFailed, lastErr, "image upload failed")
}

func (r *Resolver) uploadOnce(ctx context.Context, key string, upload Upload) (string, error) {
	timeout := r.cfg.UploadTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// reopen per attempt so a retry starts from the beginning
	f, err := os.Open(upload.TempPath)
	if err != nil {
		return "", fmt.Errorf("opening spool file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return r.store.UploadObject(ctx, key, upload.ContentType, f)
}

// ObjectKeyFromURL maps a stored imageUrl back to its bucket key. It returns
// false for the placeholder and for anything outside this bucket, so callers
// never try to delete objects they don't own.
func (r *Resolver) ObjectKeyFromURL(imageURL string) (string, bool) {
	prefix := r.store.ObjectURL("")
	if prefix == "" || !strings.HasPrefix(imageURL, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(imageURL, prefix)
	if key == "" || !strings.HasPrefix(key, objectPrefix) {
		return "", false
	}
	return key, true
}

// Delete removes a stored object directly. The API path prefers publishing a
// cleanup event; the worker and the seed tool use this synchronous form.
func (r *Resolver) Delete(ctx context.Context, objectKey string) error {
	return r.store.DeleteObject(ctx, objectKey)
}

func sanitizeExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
		return ext
	default:
		return ""
	}
}
