package identity

import (
	"context"

	"github.com/campusclear/backend/internal/domain/identity"
	"github.com/campusclear/backend/internal/domain/shared"
	"github.com/campusclear/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OperatorService handles operator administration. Every method expects the
// caller to be a super admin; the HTTP layer enforces the role gate.
type OperatorService struct {
	operatorRepo identity.OperatorRepository
	blacklist    auth.TokenBlacklist
	jwtService   *auth.JWTService
	logger       *zap.Logger
}

// NewOperatorService creates a new operator administration service
func NewOperatorService(
	operatorRepo identity.OperatorRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *OperatorService {
	return &OperatorService{
		operatorRepo: operatorRepo,
		blacklist:    blacklist,
		jwtService:   jwtService,
		logger:       logger,
	}
}

// Create registers a new operator account
func (s *OperatorService) Create(ctx context.Context, input CreateOperatorInput) (*OperatorInfo, error) {
	s.logger.Info("Creating operator", zap.String("username", input.Username))

	if existing, err := s.operatorRepo.FindByUsername(ctx, input.Username); err == nil && existing != nil {
		return nil, shared.NewDomainError("USERNAME_EXISTS", "Username already exists")
	}

	op, err := identity.NewOperator(input.Username, input.Password, input.Roles, input.Department, input.HodDepartment)
	if err != nil {
		return nil, err
	}

	if input.DisplayName != "" {
		if err := op.SetDisplayName(input.DisplayName); err != nil {
			return nil, err
		}
	}

	if err := s.operatorRepo.Save(ctx, op); err != nil {
		s.logger.Error("Failed to save operator", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create operator")
	}

	s.logger.Info("Operator created",
		zap.String("operator_id", op.ID.String()),
		zap.String("username", op.Username))

	info := toOperatorInfo(op)
	return &info, nil
}

// List returns all operators
func (s *OperatorService) List(ctx context.Context) ([]OperatorInfo, error) {
	operators, err := s.operatorRepo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list operators", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list operators")
	}

	infos := make([]OperatorInfo, len(operators))
	for i := range operators {
		infos[i] = toOperatorInfo(&operators[i])
	}
	return infos, nil
}

// UpdateRoles replaces an operator's role set and department affinities
func (s *OperatorService) UpdateRoles(ctx context.Context, input UpdateOperatorRolesInput) (*OperatorInfo, error) {
	op, err := s.operatorRepo.FindByID(ctx, input.OperatorID)
	if err != nil {
		return nil, shared.NewDomainError(shared.ErrCodeNotFound, "Operator not found")
	}

	if err := op.SetRoles(input.Roles, input.Department, input.HodDepartment); err != nil {
		return nil, err
	}

	if err := s.operatorRepo.Save(ctx, op); err != nil {
		s.logger.Error("Failed to save operator roles", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update operator")
	}

	// Role change takes effect on next login; outstanding tokens carry the
	// old role set, so cut them off.
	s.invalidateSessions(ctx, op)

	s.logger.Info("Operator roles updated", zap.String("operator_id", op.ID.String()))

	info := toOperatorInfo(op)
	return &info, nil
}

// ResetPassword sets a new password without requiring the old one
func (s *OperatorService) ResetPassword(ctx context.Context, input ResetPasswordInput) error {
	op, err := s.operatorRepo.FindByID(ctx, input.OperatorID)
	if err != nil {
		return shared.NewDomainError(shared.ErrCodeNotFound, "Operator not found")
	}

	if err := op.SetPassword(input.NewPassword); err != nil {
		return err
	}

	if err := s.operatorRepo.Save(ctx, op); err != nil {
		s.logger.Error("Failed to save operator password", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to reset password")
	}

	s.invalidateSessions(ctx, op)

	s.logger.Info("Operator password reset", zap.String("operator_id", op.ID.String()))
	return nil
}

// SetEnabled enables or disables an operator account
func (s *OperatorService) SetEnabled(ctx context.Context, operatorID uuid.UUID, enabled bool) (*OperatorInfo, error) {
	op, err := s.operatorRepo.FindByID(ctx, operatorID)
	if err != nil {
		return nil, shared.NewDomainError(shared.ErrCodeNotFound, "Operator not found")
	}

	if enabled {
		op.Enable()
	} else {
		op.Disable()
	}

	if err := s.operatorRepo.Save(ctx, op); err != nil {
		s.logger.Error("Failed to save operator state", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update operator")
	}

	if !enabled {
		s.invalidateSessions(ctx, op)
	}

	s.logger.Info("Operator state changed",
		zap.String("operator_id", op.ID.String()),
		zap.Bool("enabled", enabled))

	info := toOperatorInfo(op)
	return &info, nil
}

// invalidateSessions blacklists all of the operator's outstanding tokens
func (s *OperatorService) invalidateSessions(ctx context.Context, op *identity.Operator) {
	if s.blacklist == nil {
		return
	}
	ttl := s.jwtService.GetAccessTokenExpiration()
	if err := s.blacklist.AddOperatorTokensToBlacklist(ctx, op.ID.String(), ttl); err != nil {
		s.logger.Error("Failed to invalidate operator sessions",
			zap.String("operator_id", op.ID.String()),
			zap.Error(err))
	}
}
