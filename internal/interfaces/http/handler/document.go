package handler

import (
	"time"

	"github.com/campusclear/backend/internal/application/documents"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DocumentHandler handles clearance document API endpoints
type DocumentHandler struct {
	BaseHandler
	documentService *documents.Service
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(documentService *documents.Service) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
	}
}

// InitiateUploadRequest represents a request to initiate a clearance document upload
// @Description Request body for initiating a clearance document upload
type InitiateUploadRequest struct {
	FileName    string `json:"file_name" binding:"required,min=1,max=255" example:"waiver-letter.pdf"`
	ContentType string `json:"content_type" binding:"required" example:"application/pdf"`
}

// ConfirmUploadRequest represents a request to confirm a clearance document upload
// @Description Request body for confirming a clearance document upload
type ConfirmUploadRequest struct {
	StorageKey string `json:"storage_key" binding:"required" example:"dues/550e8400-e29b-41d4-a716-446655440010/documents/7f1a.pdf"`
}

// UploadURLResponse represents the presigned upload URL in API responses
// @Description Presigned upload URL response
type UploadURLResponse struct {
	StorageKey string    `json:"storage_key"`
	UploadURL  string    `json:"upload_url"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// DocumentURLResponse represents a presigned download URL in API responses
// @Description Presigned download URL response
type DocumentURLResponse struct {
	DownloadURL string     `json:"download_url"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// InitiateUpload godoc
// @Summary      Initiate a clearance document upload
// @Description  Returns a presigned upload URL for attaching clearance evidence to a pending due
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        id path string true "Due ID"
// @Param        request body InitiateUploadRequest true "Upload initiation request"
// @Success      201 {object} dto.Response{data=UploadURLResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /dues/{id}/documents/upload [post]
func (h *DocumentHandler) InitiateUpload(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	dueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid due ID")
		return
	}

	var req InitiateUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.documentService.InitiateUpload(c.Request.Context(), actor, dueID, req.FileName, req.ContentType)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, UploadURLResponse{
		StorageKey: result.StorageKey,
		UploadURL:  result.UploadURL,
		ExpiresAt:  result.ExpiresAt,
	})
}

// ConfirmUpload godoc
// @Summary      Confirm a clearance document upload
// @Description  Verifies the file landed in storage and returns a download URL for the permission-grant request
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        id path string true "Due ID"
// @Param        request body ConfirmUploadRequest true "Upload confirmation request"
// @Success      200 {object} dto.Response{data=DocumentURLResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /dues/{id}/documents/confirm [post]
func (h *DocumentHandler) ConfirmUpload(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	dueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid due ID")
		return
	}

	var req ConfirmUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.documentService.ConfirmUpload(c.Request.Context(), actor, dueID, req.StorageKey)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toDocumentURLResponse(result))
}

// GetDocumentURL godoc
// @Summary      Get the clearance document URL
// @Description  Returns a fresh download URL for the clearance document of a permission-cleared due
// @Tags         documents
// @Produce      json
// @Param        id path string true "Due ID"
// @Success      200 {object} dto.Response{data=DocumentURLResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /dues/{id}/documents/url [get]
func (h *DocumentHandler) GetDocumentURL(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	dueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid due ID")
		return
	}

	result, err := h.documentService.GetDocumentURL(c.Request.Context(), actor, dueID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toDocumentURLResponse(result))
}

func toDocumentURLResponse(result *documents.DocumentURLResponse) DocumentURLResponse {
	resp := DocumentURLResponse{DownloadURL: result.DownloadURL}
	if !result.ExpiresAt.IsZero() {
		expiresAt := result.ExpiresAt
		resp.ExpiresAt = &expiresAt
	}
	return resp
}
