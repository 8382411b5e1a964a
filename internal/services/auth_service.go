package services

import (
	"net/http"
	"strings"

	"smartattend_backend/internal/appErrors"
	"smartattend_backend/internal/auth"
	"smartattend_backend/internal/config"
	"smartattend_backend/internal/email"
	"smartattend_backend/internal/logger"
	"smartattend_backend/internal/repositories"
	"smartattend_backend/internal/resetcode"
	"smartattend_backend/internal/services/dto"
)

type AuthService interface {
	Login(req *dto.LoginRequest) (*dto.LoginResponse, error)
	RequestPasswordReset(emailAddr string) error
	ResetPassword(req *dto.ResetPasswordRequest) error
	ChangePassword(userID, currentPassword, newPassword string) error
}

type AuthServiceImpl struct {
	userRepo      repositories.UserRepository
	ledger        *resetcode.Ledger
	emailProvider email.Provider
	cfg           *config.Config
}

func NewAuthService(
	userRepo repositories.UserRepository,
	ledger *resetcode.Ledger,
	emailProvider email.Provider,
	cfg *config.Config,
) AuthService {
	return &AuthServiceImpl{
		userRepo:      userRepo,
		ledger:        ledger,
		emailProvider: emailProvider,
		cfg:           cfg,
	}
}

// Login authenticates a user and issues an access token.
func (s *AuthServiceImpl) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	emailAddr := normalizeEmail(req.Email)

	user, err := s.userRepo.FindByEmail(emailAddr)
	if err != nil {
		if appErrors.Is(err, repositories.ErrUserNotFound) {
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, appErrors.DatabaseError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, appErrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, appErrors.NewForbiddenError("Account is deactivated")
	}

	token, err := auth.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, appErrors.InternalError(err)
	}

	// Best effort; a failed timestamp update must not block the login.
	if err := s.userRepo.UpdateLastLogin(user.ID); err != nil {
		logger.Warn("failed to update last login", "user_id", user.ID, "error", err)
	}

	return &dto.LoginResponse{
		Success: true,
		Token:   token,
		User:    dto.NewUserResponse(user),
	}, nil
}

// RequestPasswordReset issues a one-time code for the email and mails it.
// The ledger write is not rolled back when the mail is delayed or lost;
// only a hard dispatch failure surfaces to the caller.
func (s *AuthServiceImpl) RequestPasswordReset(emailAddr string) error {
	emailAddr = normalizeEmail(emailAddr)

	if !s.isAllowedEmail(emailAddr) {
		return appErrors.ErrInvalidEmailDomain
	}

	if _, err := s.userRepo.FindByEmail(emailAddr); err != nil {
		if appErrors.Is(err, repositories.ErrUserNotFound) {
			return appErrors.ErrEmailNotFound
		}
		return appErrors.DatabaseError(err)
	}

	code, expires, err := s.ledger.Issue(emailAddr)
	if err != nil {
		return appErrors.InternalError(err)
	}

	logger.Info("password reset code issued", "email", emailAddr, "expires", expires)

	if err := s.emailProvider.SendPasswordResetCode(emailAddr, code, resetcode.DefaultTTL); err != nil {
		// The ticket stays valid; the user may retry the request.
		return appErrors.Wrap(err, appErrors.CodeInternalError, "Failed to send verification email", http.StatusInternalServerError)
	}

	return nil
}

// ResetPassword consumes the one-time code and persists the new password
// hash. The code is consumed before the update, so a failed update does
// not restore the ticket; the user must request a fresh code.
func (s *AuthServiceImpl) ResetPassword(req *dto.ResetPasswordRequest) error {
	if err := auth.ValidatePassword(req.NewPassword); err != nil {
		return appErrors.ErrWeakPassword
	}

	emailAddr := normalizeEmail(req.Email)

	if err := s.ledger.Consume(emailAddr, req.Code); err != nil {
		if appErrors.Is(err, resetcode.ErrCodeExpired) {
			return appErrors.ErrResetCodeExpired
		}
		return appErrors.ErrInvalidResetCode
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return appErrors.InternalError(err)
	}

	if err := s.userRepo.UpdatePassword(emailAddr, hash); err != nil {
		return appErrors.Wrap(err, appErrors.CodeInternalError, "Failed to update password", http.StatusInternalServerError)
	}

	return nil
}

// ChangePassword updates the password of an authenticated user who knows
// the current one.
func (s *AuthServiceImpl) ChangePassword(userID, currentPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if appErrors.Is(err, repositories.ErrUserNotFound) {
			return appErrors.ErrUserNotFound
		}
		return appErrors.DatabaseError(err)
	}

	if !auth.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return appErrors.ErrInvalidCredentials
	}

	if err := auth.ValidatePassword(newPassword); err != nil {
		return appErrors.ErrWeakPassword
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return appErrors.InternalError(err)
	}

	if err := s.userRepo.UpdateFields(user.ID, map[string]interface{}{"password_hash": hash}); err != nil {
		return appErrors.DatabaseError(err)
	}

	return nil
}

// isAllowedEmail checks the address against the admin whitelist and the
// allowed user domains.
func (s *AuthServiceImpl) isAllowedEmail(emailAddr string) bool {
	for _, admin := range s.cfg.Accounts.AdminEmails {
		if emailAddr == strings.ToLower(admin) {
			return true
		}
	}
	for _, domain := range s.cfg.Accounts.AllowedEmailDomains {
		if strings.HasSuffix(emailAddr, "@"+strings.ToLower(domain)) {
			return true
		}
	}
	return false
}

func normalizeEmail(emailAddr string) string {
	return strings.ToLower(strings.TrimSpace(emailAddr))
}
