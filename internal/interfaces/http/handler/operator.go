package handler

import (
	appidentity "github.com/campusclear/backend/internal/application/identity"
	"github.com/campusclear/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OperatorHandler handles operator administration HTTP requests. All routes
// are mounted behind the super admin role gate.
type OperatorHandler struct {
	BaseHandler
	operatorService *appidentity.OperatorService
}

// NewOperatorHandler creates a new operator admin handler
func NewOperatorHandler(operatorService *appidentity.OperatorService) *OperatorHandler {
	return &OperatorHandler{
		operatorService: operatorService,
	}
}

// Create godoc
// @Summary      Create operator
// @Description  Register a new operator account
// @Tags         operators
// @Accept       json
// @Produce      json
// @Param        request body CreateOperatorRequest true "Operator details"
// @Success      201 {object} dto.Response{data=OperatorResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /operators [post]
func (h *OperatorHandler) Create(c *gin.Context) {
	var req CreateOperatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	info, err := h.operatorService.Create(c.Request.Context(), appidentity.CreateOperatorInput{
		Username:      req.Username,
		Password:      req.Password,
		DisplayName:   req.DisplayName,
		Roles:         toRoleKinds(req.Roles),
		Department:    req.Department,
		HodDepartment: req.HodDepartment,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toOperatorResponse(*info))
}

// List godoc
// @Summary      List operators
// @Description  List all operator accounts
// @Tags         operators
// @Produce      json
// @Success      200 {object} dto.Response{data=[]OperatorResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /operators [get]
func (h *OperatorHandler) List(c *gin.Context) {
	infos, err := h.operatorService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]OperatorResponse, len(infos))
	for i, info := range infos {
		responses[i] = toOperatorResponse(info)
	}
	h.Success(c, responses)
}

// UpdateRoles godoc
// @Summary      Update operator roles
// @Description  Replace an operator's role set and department affinities
// @Tags         operators
// @Accept       json
// @Produce      json
// @Param        id path string true "Operator ID"
// @Param        request body UpdateOperatorRolesRequest true "New role set"
// @Success      200 {object} dto.Response{data=OperatorResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /operators/{id}/roles [put]
func (h *OperatorHandler) UpdateRoles(c *gin.Context) {
	operatorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid operator ID")
		return
	}

	var req UpdateOperatorRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	info, err := h.operatorService.UpdateRoles(c.Request.Context(), appidentity.UpdateOperatorRolesInput{
		OperatorID:    operatorID,
		Roles:         toRoleKinds(req.Roles),
		Department:    req.Department,
		HodDepartment: req.HodDepartment,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toOperatorResponse(*info))
}

// ResetPassword godoc
// @Summary      Reset operator password
// @Description  Set a new password for an operator without the old one
// @Tags         operators
// @Accept       json
// @Produce      json
// @Param        id path string true "Operator ID"
// @Param        request body ResetOperatorPasswordRequest true "New password"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /operators/{id}/password [put]
func (h *OperatorHandler) ResetPassword(c *gin.Context) {
	operatorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid operator ID")
		return
	}

	var req ResetOperatorPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	err = h.operatorService.ResetPassword(c.Request.Context(), appidentity.ResetPasswordInput{
		OperatorID:  operatorID,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Password reset successfully"})
}

// SetEnabled godoc
// @Summary      Enable or disable operator
// @Description  Toggle an operator account; disabling cuts off active sessions
// @Tags         operators
// @Accept       json
// @Produce      json
// @Param        id path string true "Operator ID"
// @Param        request body SetOperatorEnabledRequest true "Enabled flag"
// @Success      200 {object} dto.Response{data=OperatorResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /operators/{id}/enabled [put]
func (h *OperatorHandler) SetEnabled(c *gin.Context) {
	operatorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid operator ID")
		return
	}

	var req SetOperatorEnabledRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	info, err := h.operatorService.SetEnabled(c.Request.Context(), operatorID, *req.Enabled)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toOperatorResponse(*info))
}

func toRoleKinds(roles []string) []identity.RoleKind {
	kinds := make([]identity.RoleKind, len(roles))
	for i, r := range roles {
		kinds[i] = identity.RoleKind(r)
	}
	return kinds
}
