package identity

import (
	"context"

	"github.com/campusclear/backend/internal/domain/identity"
	"github.com/campusclear/backend/internal/domain/shared"
	"github.com/campusclear/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthService handles operator authentication
type AuthService struct {
	operatorRepo identity.OperatorRepository
	jwtService   *auth.JWTService
	blacklist    auth.TokenBlacklist
	logger       *zap.Logger
}

// NewAuthService creates a new authentication service. The blacklist is
// optional; without it logout only takes effect client-side.
func NewAuthService(
	operatorRepo identity.OperatorRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		operatorRepo: operatorRepo,
		jwtService:   jwtService,
		blacklist:    blacklist,
		logger:       logger,
	}
}

// Login authenticates an operator and returns a signed access token
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	s.logger.Info("Login attempt",
		zap.String("username", input.Username),
		zap.String("ip", input.IP))

	op, err := s.operatorRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		s.logger.Warn("Operator not found during login", zap.String("username", input.Username))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	if !op.Enabled {
		s.logger.Warn("Login attempt for disabled operator", zap.String("username", input.Username))
		return nil, shared.NewDomainError("ACCOUNT_DISABLED", "Account has been disabled")
	}

	if !op.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("username", input.Username))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	token, err := s.jwtService.Generate(op)
	if err != nil {
		s.logger.Error("Failed to generate access token", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication token")
	}

	s.logger.Info("Operator logged in",
		zap.String("username", op.Username),
		zap.String("operator_id", op.ID.String()))

	return &LoginResult{
		AccessToken: token.AccessToken,
		ExpiresAt:   token.ExpiresAt,
		TokenType:   token.TokenType,
		Operator:    toOperatorInfo(op),
	}, nil
}

// Logout invalidates the current token, or every token of the operator
// when input.Everywhere is set
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if s.blacklist == nil {
		s.logger.Debug("Logout without blacklist, tokens expire naturally",
			zap.String("operator_id", input.OperatorID.String()))
		return nil
	}

	if input.Everywhere {
		if err := s.blacklist.AddOperatorTokensToBlacklist(ctx, input.OperatorID.String(), input.TokenTTL); err != nil {
			s.logger.Error("Failed to invalidate operator tokens", zap.Error(err))
			return shared.NewDomainError("INTERNAL_ERROR", "Failed to invalidate sessions")
		}
		s.logger.Info("Operator logged out everywhere", zap.String("operator_id", input.OperatorID.String()))
		return nil
	}

	if input.TokenJTI != "" && input.TokenTTL > 0 {
		if err := s.blacklist.AddToBlacklist(ctx, input.TokenJTI, input.TokenTTL); err != nil {
			s.logger.Error("Failed to blacklist token", zap.Error(err))
			return shared.NewDomainError("INTERNAL_ERROR", "Failed to invalidate session")
		}
	}

	s.logger.Info("Operator logged out", zap.String("operator_id", input.OperatorID.String()))
	return nil
}

// GetCurrentOperator retrieves the authenticated operator's profile
func (s *AuthService) GetCurrentOperator(ctx context.Context, operatorID uuid.UUID) (*OperatorInfo, error) {
	op, err := s.operatorRepo.FindByID(ctx, operatorID)
	if err != nil {
		return nil, shared.NewDomainError(shared.ErrCodeNotFound, "Operator not found")
	}

	info := toOperatorInfo(op)
	return &info, nil
}

// ChangePassword changes the operator's own password after verifying the old one
func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	op, err := s.operatorRepo.FindByID(ctx, input.OperatorID)
	if err != nil {
		return shared.NewDomainError(shared.ErrCodeNotFound, "Operator not found")
	}

	if !op.VerifyPassword(input.OldPassword) {
		return shared.NewDomainError("INVALID_CREDENTIALS", "Current password is incorrect")
	}

	if err := op.SetPassword(input.NewPassword); err != nil {
		return err
	}

	if err := s.operatorRepo.Save(ctx, op); err != nil {
		s.logger.Error("Failed to save operator after password change", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update password")
	}

	// Password change invalidates every existing session
	if s.blacklist != nil {
		ttl := s.jwtService.GetAccessTokenExpiration()
		if err := s.blacklist.AddOperatorTokensToBlacklist(ctx, op.ID.String(), ttl); err != nil {
			s.logger.Error("Failed to invalidate sessions after password change", zap.Error(err))
		}
	}

	s.logger.Info("Operator password changed", zap.String("operator_id", input.OperatorID.String()))
	return nil
}

func toOperatorInfo(op *identity.Operator) OperatorInfo {
	return OperatorInfo{
		ID:            op.ID,
		Username:      op.Username,
		DisplayName:   op.DisplayName,
		Roles:         op.Roles,
		Department:    op.Department,
		HodDepartment: op.HodDepartment,
		Enabled:       op.Enabled,
	}
}
