package utils

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/teambuildf/oraville-backend/config"
)

// Presigned upload URLs stay valid for one hour.
const uploadURLExpiry = time.Hour

// ErrContentTypeNotAllowed is returned for upload types outside the image allow-list.
var ErrContentTypeNotAllowed = errors.New("content type not allowed")

var allowedImageTypes = map[string]string{
	"image/jpeg": "jpeg",
	"image/png":  "png",
	"image/webp": "webp",
}

var (
	storageClient *minio.Client
	storageOnce   sync.Once
	storageErr    error
)

func getStorage() (*minio.Client, error) {
	storageOnce.Do(func() {
		cfg := config.Get()
		storageClient, storageErr = minio.New(cfg.StorageEndpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.StorageAccessKey, cfg.StorageSecretKey, ""),
			Secure: cfg.StorageUseSSL,
			Region: cfg.StorageRegion,
		})
	})
	return storageClient, storageErr
}

// PresignAvatarUpload produces a time-limited direct-upload URL plus the
// object key the client must upload to. The key embeds the owning user id so
// a later confirm call can be sanity checked.
func PresignAvatarUpload(ctx context.Context, userID uint, contentType string) (uploadURL, key string, err error) {
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return "", "", ErrContentTypeNotAllowed
	}

	client, err := getStorage()
	if err != nil {
		return "", "", err
	}

	cfg := config.Get()
	key = fmt.Sprintf("avatars/%d/%s.%s", userID, uuid.NewString(), ext)

	u, err := client.PresignedPutObject(ctx, cfg.StorageBucket, key, uploadURLExpiry)
	if err != nil {
		return "", "", err
	}
	return u.String(), key, nil
}

// PublicObjectURL composes the public URL for a stored object key.
func PublicObjectURL(key string) string {
	cfg := config.Get()
	if cfg.StoragePublicBase != "" {
		return strings.TrimRight(cfg.StoragePublicBase, "/") + "/" + key
	}
	scheme := "http"
	if cfg.StorageUseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s.%s/%s", scheme, cfg.StorageBucket, cfg.StorageEndpoint, key)
}

// OwnsAvatarKey reports whether an object key belongs to the given user.
func OwnsAvatarKey(key string, userID uint) bool {
	return strings.HasPrefix(key, fmt.Sprintf("avatars/%d/", userID))
}
