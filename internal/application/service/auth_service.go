package service

import (
	"context"
	"strings"

	"github.com/ferreteria/ordenes-api/internal/domain/entity"
	"github.com/ferreteria/ordenes-api/internal/domain/repository"
	"github.com/ferreteria/ordenes-api/pkg/apperror"
	"github.com/ferreteria/ordenes-api/pkg/utils"
	"github.com/rs/zerolog"
)

// AuthService handles authentication-related operations
type AuthService struct {
	userRepo   repository.UserRepository
	jwtManager *utils.JWTManager
	log        zerolog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	jwtManager *utils.JWTManager,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		log:        log.With().Str("component", "auth").Logger(),
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Username string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	User        *entity.User
	AccessToken string
}

// Login authenticates a user and returns an access token
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(input.Username))
	if err != nil {
		return nil, apperror.NewStorageError("Failed to look up user", err)
	}
	if user == nil {
		return nil, apperror.ErrInvalidCredentials
	}

	if !utils.VerifyPassword(input.Password, user.PasswordHash, user.Salt) {
		s.log.Warn().Str("username", user.Username).Msg("failed login")
		return nil, apperror.ErrInvalidCredentials
	}

	// Legacy sha256 accounts move to bcrypt on their first successful login
	if user.Salt != nil {
		if err := s.rehash(ctx, user, input.Password); err != nil {
			s.log.Error().Err(err).Str("username", user.Username).Msg("failed to upgrade password hash")
		}
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Username, user.Role.String())
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		User:        user,
		AccessToken: accessToken,
	}, nil
}

// GetCurrentUser returns the current user by ID
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uint) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.NewStorageError("Failed to get user", err)
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}

// ChangePasswordInput represents the change password input
type ChangePasswordInput struct {
	UserID          uint
	CurrentPassword string
	NewPassword     string
}

// ChangePassword changes the user's password
func (s *AuthService) ChangePassword(ctx context.Context, input *ChangePasswordInput) error {
	user, err := s.GetCurrentUser(ctx, input.UserID)
	if err != nil {
		return err
	}

	if !utils.VerifyPassword(input.CurrentPassword, user.PasswordHash, user.Salt) {
		return apperror.NewBadRequestError("Current password is incorrect")
	}
	if len(input.NewPassword) < minPasswordLength {
		return apperror.NewValidationError([]apperror.FieldError{
			{Field: "new_password", Message: "password must be at least 6 characters"},
		})
	}

	return s.rehash(ctx, user, input.NewPassword)
}

func (s *AuthService) rehash(ctx context.Context, user *entity.User, password string) error {
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	user.PasswordHash = hashed
	user.Salt = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return apperror.NewStorageError("Failed to update password", err)
	}
	return nil
}
