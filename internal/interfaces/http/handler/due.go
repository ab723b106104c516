package handler

import (
	"strconv"

	"github.com/campusclear/backend/internal/application/dues"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DueHandler handles due lifecycle API endpoints
type DueHandler struct {
	BaseHandler
	dueService *dues.Service
}

// NewDueHandler creates a new DueHandler
func NewDueHandler(dueService *dues.Service) *DueHandler {
	return &DueHandler{
		dueService: dueService,
	}
}

// Create godoc
// @Summary      Record a new due
// @Description  Record a due against a student or faculty member
// @Tags         dues
// @Accept       json
// @Produce      json
// @Param        request body CreateDueRequest true "Due details"
// @Success      201 {object} dto.Response{data=DueResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /dues [post]
func (h *DueHandler) Create(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateDueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	due, err := h.dueService.Create(c.Request.Context(), actor, dues.CreateDueInput{
		PersonID:    req.PersonID,
		PersonType:  req.PersonType,
		Department:  req.Department,
		Description: req.Description,
		DueType:     req.DueType,
		Category:    req.Category,
		Amount:      toDecimal(req.Amount),
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toDueResponse(due))
}

// Get godoc
// @Summary      Get a due
// @Description  Get a single due by ID, subject to department visibility
// @Tags         dues
// @Produce      json
// @Param        id path string true "Due ID"
// @Success      200 {object} dto.Response{data=DueResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /dues/{id} [get]
func (h *DueHandler) Get(c *gin.Context) {
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

	due, err := h.dueService.GetByID(c.Request.Context(), actor, dueID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toDueResponse(due))
}

// List godoc
// @Summary      List dues
// @Description  List dues visible to the caller, optionally filtered by department and status
// @Tags         dues
// @Produce      json
// @Param        department query string false "Department filter"
// @Param        status query string false "Status filter" Enums(pending, cleared, cleared-by-permission)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]DueResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /dues [get]
func (h *DueHandler) List(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	query := dues.ListQuery{
		Department: c.Query("department"),
		Status:     c.Query("status"),
		Page:       page,
		PageSize:   pageSize,
	}

	result, err := h.dueService.List(c.Request.Context(), actor, query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]DueResponse, len(result.Items))
	for i := range result.Items {
		responses[i] = toDueResponse(&result.Items[i])
	}

	h.SuccessWithMeta(c, responses, result.Total, result.Page, result.PageSize)
}

// MarkPayment godoc
// @Summary      Mark payment on a due
// @Description  Record a payment status change; done is sticky and never reverts
// @Tags         dues
// @Accept       json
// @Produce      json
// @Param        id path string true "Due ID"
// @Param        request body MarkPaymentRequest true "Target payment status"
// @Success      200 {object} dto.Response{data=DueResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /dues/{id}/payment [put]
func (h *DueHandler) MarkPayment(c *gin.Context) {
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

	var req MarkPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	due, err := h.dueService.MarkPayment(c.Request.Context(), actor, dueID, req.PaymentStatus)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toDueResponse(due))
}

// Clear godoc
// @Summary      Clear a due
// @Description  Resolve a due through the regular or permission-based path
// @Tags         dues
// @Accept       json
// @Produce      json
// @Param        id path string true "Due ID"
// @Param        request body ClearDueRequest true "Clearance type and optional document URL"
// @Success      200 {object} dto.Response{data=DueResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /dues/{id}/clear [put]
func (h *DueHandler) Clear(c *gin.Context) {
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

	var req ClearDueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	mode := dues.ClearanceMode(req.ClearanceType)
	if req.ClearanceType == "" {
		mode = dues.ClearanceRegular
	}

	due, err := h.dueService.Clear(c.Request.Context(), actor, dueID, mode, req.DocumentURL)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toDueResponse(due))
}

// GrantPermission godoc
// @Summary      Grant permission-based clearance
// @Description  Resolve a due on documentary evidence instead of payment
// @Tags         dues
// @Accept       json
// @Produce      json
// @Param        id path string true "Due ID"
// @Param        request body GrantPermissionRequest true "Clearance document URL"
// @Success      200 {object} dto.Response{data=DueResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /dues/{id}/grant-permission [put]
func (h *DueHandler) GrantPermission(c *gin.Context) {
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

	var req GrantPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	due, err := h.dueService.GrantPermission(c.Request.Context(), actor, dueID, req.DocumentURL)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toDueResponse(due))
}
