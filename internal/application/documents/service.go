// Package documents handles clearance document uploads. Operators obtain a
// presigned upload URL for a pending due, push the file directly to object
// storage, and hand the resulting object URL to the permission-grant flow.
package documents

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	duedomain "github.com/campusclear/backend/internal/domain/dues"
	"github.com/campusclear/backend/internal/domain/identity"
	"github.com/campusclear/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AllowedContentTypes is the whitelist of content types accepted as clearance
// evidence. Scans and office documents only; anything executable is rejected.
var AllowedContentTypes = map[string]bool{
	"image/jpeg":         true,
	"image/png":          true,
	"image/webp":         true,
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// ObjectStorageService defines the interface for object storage operations.
// Implemented by the infrastructure layer (S3-compatible backends or a stub).
type ObjectStorageService interface {
	// GenerateUploadURL generates a presigned URL for uploading a file
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL generates a presigned URL for downloading a file
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists checks if an object exists in storage
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// ServiceConfig holds URL lifetime configuration
type ServiceConfig struct {
	UploadURLExpiry   time.Duration
	DownloadURLExpiry time.Duration
}

// DefaultServiceConfig returns the default configuration
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		UploadURLExpiry:   15 * time.Minute,
		DownloadURLExpiry: 1 * time.Hour,
	}
}

// Service issues presigned URLs for clearance documents
type Service struct {
	dueRepo duedomain.DueRepository
	storage ObjectStorageService
	config  ServiceConfig
}

// NewService creates a new document Service
func NewService(dueRepo duedomain.DueRepository, storage ObjectStorageService) *Service {
	return &Service{
		dueRepo: dueRepo,
		storage: storage,
		config:  DefaultServiceConfig(),
	}
}

// SetConfig sets the service configuration
func (s *Service) SetConfig(config ServiceConfig) {
	s.config = config
}

// InitiateUploadResponse carries the presigned PUT URL and the storage key the
// uploaded object will live under
type InitiateUploadResponse struct {
	StorageKey string
	UploadURL  string
	ExpiresAt  time.Time
}

// InitiateUpload returns a presigned upload URL for a clearance document on a
// pending due. Only actors allowed to grant permission-based clearance for the
// due's department may upload evidence for it.
func (s *Service) InitiateUpload(ctx context.Context, actor identity.ActorContext, dueID uuid.UUID, fileName, contentType string) (*InitiateUploadResponse, error) {
	due, err := s.dueRepo.FindByID(ctx, dueID)
	if err != nil {
		return nil, err
	}

	if !identity.CanClearByPermission(actor, due.Department) {
		return nil, shared.NewDomainError(shared.ErrCodeForbidden, "Not allowed to attach clearance documents for this department")
	}
	if due.IsResolved() {
		return nil, shared.NewDomainError(shared.ErrCodeAlreadyResolved, "Due is already resolved")
	}
	if !AllowedContentTypes[strings.ToLower(strings.TrimSpace(contentType))] {
		return nil, shared.NewDomainError(shared.ErrCodeValidation,
			fmt.Sprintf("Content type '%s' is not allowed for clearance documents", contentType))
	}

	storageKey := generateStorageKey(dueID, fileName)

	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, storageKey, contentType, s.config.UploadURLExpiry)
	if err != nil {
		return nil, shared.NewDomainError("UPLOAD_URL_FAILED", "Failed to generate upload URL")
	}

	return &InitiateUploadResponse{
		StorageKey: storageKey,
		UploadURL:  uploadURL,
		ExpiresAt:  expiresAt,
	}, nil
}

// DocumentURLResponse carries a presigned download URL
type DocumentURLResponse struct {
	DownloadURL string
	ExpiresAt   time.Time
}

// ConfirmUpload verifies the object landed in storage and returns a download
// URL suitable for the permission-grant request
func (s *Service) ConfirmUpload(ctx context.Context, actor identity.ActorContext, dueID uuid.UUID, storageKey string) (*DocumentURLResponse, error) {
	due, err := s.dueRepo.FindByID(ctx, dueID)
	if err != nil {
		return nil, err
	}

	if !identity.CanClearByPermission(actor, due.Department) {
		return nil, shared.NewDomainError(shared.ErrCodeForbidden, "Not allowed to attach clearance documents for this department")
	}
	if !strings.HasPrefix(storageKey, keyPrefix(dueID)) {
		return nil, shared.NewDomainError(shared.ErrCodeValidation, "Storage key does not belong to this due")
	}

	exists, err := s.storage.ObjectExists(ctx, storageKey)
	if err != nil {
		return nil, shared.NewDomainError("STORAGE_CHECK_FAILED", "Failed to verify upload")
	}
	if !exists {
		return nil, shared.NewDomainError(shared.ErrCodeDocumentRequired, "Document not found in storage; upload the file first")
	}

	downloadURL, expiresAt, err := s.storage.GenerateDownloadURL(ctx, storageKey, s.config.DownloadURLExpiry)
	if err != nil {
		return nil, shared.NewDomainError("DOWNLOAD_URL_FAILED", "Failed to generate download URL")
	}

	return &DocumentURLResponse{
		DownloadURL: downloadURL,
		ExpiresAt:   expiresAt,
	}, nil
}

// GetDocumentURL returns a fresh download URL for the clearance document of a
// permission-cleared due. Any actor who can view the due may fetch it.
func (s *Service) GetDocumentURL(ctx context.Context, actor identity.ActorContext, dueID uuid.UUID) (*DocumentURLResponse, error) {
	due, err := s.dueRepo.FindByID(ctx, dueID)
	if err != nil {
		return nil, err
	}

	if !identity.CanViewDepartment(actor, due.Department) {
		return nil, shared.NewDomainError(shared.ErrCodeForbidden, "Not allowed to view this department's dues")
	}
	if due.ClearanceDocumentURL == "" {
		return nil, shared.NewDomainError(shared.ErrCodeNotFound, "Due has no clearance document")
	}

	// Documents attached through this service carry a storage key path; URLs
	// recorded directly on the due are returned untouched.
	storageKey := extractStorageKey(due.ClearanceDocumentURL, dueID)
	if storageKey == "" {
		return &DocumentURLResponse{DownloadURL: due.ClearanceDocumentURL}, nil
	}

	downloadURL, expiresAt, err := s.storage.GenerateDownloadURL(ctx, storageKey, s.config.DownloadURLExpiry)
	if err != nil {
		return nil, shared.NewDomainError("DOWNLOAD_URL_FAILED", "Failed to generate download URL")
	}

	return &DocumentURLResponse{
		DownloadURL: downloadURL,
		ExpiresAt:   expiresAt,
	}, nil
}

func keyPrefix(dueID uuid.UUID) string {
	return "dues/" + dueID.String() + "/documents/"
}

// generateStorageKey generates a unique storage key for a clearance document
func generateStorageKey(dueID uuid.UUID, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return keyPrefix(dueID) + uuid.New().String() + ext
}

// extractStorageKey pulls the storage key out of a recorded document URL when
// the URL points at this service's key layout, otherwise returns ""
func extractStorageKey(documentURL string, dueID uuid.UUID) string {
	idx := strings.Index(documentURL, keyPrefix(dueID))
	if idx < 0 {
		return ""
	}
	key := documentURL[idx:]
	// Strip any presign query string
	if q := strings.IndexByte(key, '?'); q >= 0 {
		key = key[:q]
	}
	return key
}
