package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/campusclear/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func validStorageConfig() *config.StorageConfig {
	return &config.StorageConfig{
		Bucket:            "clearance-documents",
		AccessKey:         "test-key",
		SecretKey:         "test-secret",
		Endpoint:          "http://localhost:9000",
		Region:            "us-east-1",
		UsePathStyle:      true,
		PresignExpiration: 15 * time.Minute,
	}
}

func TestNewS3ObjectStorage_Validation(t *testing.T) {
	t.Run("nil config returns error", func(t *testing.T) {
		_, err := NewS3ObjectStorage(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing bucket returns error", func(t *testing.T) {
		cfg := validStorageConfig()
		cfg.Bucket = ""
		_, err := NewS3ObjectStorage(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("missing access key returns error", func(t *testing.T) {
		cfg := validStorageConfig()
		cfg.AccessKey = ""
		_, err := NewS3ObjectStorage(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access key is required")
	})

	t.Run("missing secret key returns error", func(t *testing.T) {
		cfg := validStorageConfig()
		cfg.SecretKey = ""
		_, err := NewS3ObjectStorage(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "secret key is required")
	})

	t.Run("valid config creates storage", func(t *testing.T) {
		storage, err := NewS3ObjectStorage(validStorageConfig())
		require.NoError(t, err)
		require.NotNil(t, storage)
		assert.Equal(t, "clearance-documents", storage.GetBucket())
		assert.Equal(t, 15*time.Minute, storage.presignExpiration)
	})

	t.Run("endpoint and region defaults apply", func(t *testing.T) {
		cfg := validStorageConfig()
		cfg.Endpoint = ""
		cfg.Region = ""
		storage, err := NewS3ObjectStorage(cfg)
		require.NoError(t, err)
		require.NotNil(t, storage)
	})

	t.Run("adds scheme prefix based on SSL setting", func(t *testing.T) {
		cfg := validStorageConfig()
		cfg.Endpoint = "storage.campus.edu:9000"
		cfg.UseSSL = true
		storage, err := NewS3ObjectStorage(cfg)
		require.NoError(t, err)
		require.NotNil(t, storage)
	})

	t.Run("default presign expiration is 15 minutes", func(t *testing.T) {
		cfg := validStorageConfig()
		cfg.PresignExpiration = 0
		storage, err := NewS3ObjectStorage(cfg)
		require.NoError(t, err)
		assert.Equal(t, 15*time.Minute, storage.presignExpiration)
	})
}

func TestS3ObjectStorageOptions(t *testing.T) {
	t.Run("WithLogger sets custom logger", func(t *testing.T) {
		storage, err := NewS3ObjectStorage(validStorageConfig(), WithLogger(zaptest.NewLogger(t)))
		require.NoError(t, err)
		assert.NotNil(t, storage.logger)
	})

	t.Run("WithPresignExpiration sets custom duration", func(t *testing.T) {
		storage, err := NewS3ObjectStorage(validStorageConfig(), WithPresignExpiration(1*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, 1*time.Hour, storage.presignExpiration)
	})
}

func TestS3ObjectStorage_GenerateUploadURL(t *testing.T) {
	storage, err := NewS3ObjectStorage(validStorageConfig())
	require.NoError(t, err)
	ctx := context.Background()
	key := "dues/2b1f9c9a-6f09-4f24-9a57-3a1f6f1f9b01/documents/waiver.pdf"

	t.Run("empty storage key returns error", func(t *testing.T) {
		url, _, err := storage.GenerateUploadURL(ctx, "", "application/pdf", 15*time.Minute)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage key is required")
		assert.Empty(t, url)
	})

	t.Run("generates presigned URL", func(t *testing.T) {
		url, expiresAt, err := storage.GenerateUploadURL(ctx, key, "application/pdf", 15*time.Minute)
		require.NoError(t, err)
		assert.Contains(t, url, "localhost:9000")
		assert.Contains(t, url, "clearance-documents")
		assert.True(t, strings.Contains(url, "waiver.pdf"))
		assert.True(t, expiresAt.After(time.Now()))
		assert.True(t, expiresAt.Before(time.Now().Add(16*time.Minute)))
	})

	t.Run("uses default expiration when not provided", func(t *testing.T) {
		url, expiresAt, err := storage.GenerateUploadURL(ctx, key, "application/pdf", 0)
		require.NoError(t, err)
		assert.NotEmpty(t, url)
		assert.True(t, expiresAt.After(time.Now()))
	})
}

func TestS3ObjectStorage_GenerateDownloadURL(t *testing.T) {
	storage, err := NewS3ObjectStorage(validStorageConfig())
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("empty storage key returns error", func(t *testing.T) {
		url, _, err := storage.GenerateDownloadURL(ctx, "", 15*time.Minute)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage key is required")
		assert.Empty(t, url)
	})

	t.Run("generates presigned URL", func(t *testing.T) {
		url, expiresAt, err := storage.GenerateDownloadURL(ctx, "dues/x/documents/scan.png", 1*time.Hour)
		require.NoError(t, err)
		assert.Contains(t, url, "localhost:9000")
		assert.Contains(t, url, "clearance-documents")
		assert.True(t, expiresAt.After(time.Now()))
	})
}

func TestS3ObjectStorage_KeyValidation(t *testing.T) {
	storage, err := NewS3ObjectStorage(validStorageConfig())
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("DeleteObject requires a key", func(t *testing.T) {
		err := storage.DeleteObject(ctx, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage key is required")
	})

	t.Run("ObjectExists requires a key", func(t *testing.T) {
		exists, err := storage.ObjectExists(ctx, "")
		require.Error(t, err)
		assert.False(t, exists)
		assert.Contains(t, err.Error(), "storage key is required")
	})

	t.Run("Upload requires a key", func(t *testing.T) {
		err := storage.Upload(ctx, "", []byte("scan"), "application/pdf")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage key is required")
	})
}
