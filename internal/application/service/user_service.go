package service

import (
	"context"
	"strings"

	"github.com/ferreteria/ordenes-api/internal/domain/entity"
	"github.com/ferreteria/ordenes-api/internal/domain/enum"
	"github.com/ferreteria/ordenes-api/internal/domain/repository"
	infraRepo "github.com/ferreteria/ordenes-api/internal/infrastructure/repository"
	"github.com/ferreteria/ordenes-api/pkg/apperror"
	"github.com/ferreteria/ordenes-api/pkg/utils"
)

const minPasswordLength = 6

// UserService handles user management operations
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// CreateUserInput represents the input for creating a user
type CreateUserInput struct {
	Username    string
	Password    string
	DisplayName string
	Role        string
}

// CreateUser registers a new operator account
func (s *UserService) CreateUser(ctx context.Context, input *CreateUserInput) (*entity.User, error) {
	username := strings.TrimSpace(input.Username)
	var errs []apperror.FieldError
	if username == "" {
		errs = append(errs, apperror.FieldError{Field: "username", Message: "username is required"})
	}
	if len(input.Password) < minPasswordLength {
		errs = append(errs, apperror.FieldError{Field: "password", Message: "password must be at least 6 characters"})
	}
	role, err := enum.ParseRole(input.Role)
	if err != nil {
		errs = append(errs, apperror.FieldError{Field: "role", Message: "role must be user or admin"})
	}
	if len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, apperror.NewStorageError("Failed to look up user", err)
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Username already taken")
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Username:     username,
		PasswordHash: hashed,
		Role:         role,
	}
	if name := strings.TrimSpace(input.DisplayName); name != "" {
		user.DisplayName = &name
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if infraRepo.IsUniqueViolation(err) {
			return nil, apperror.NewConflictError("Username already taken")
		}
		return nil, apperror.NewStorageError("Failed to create user", err)
	}
	return user, nil
}

// GetUser returns a user by ID
func (s *UserService) GetUser(ctx context.Context, userID uint) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.NewStorageError("Failed to get user", err)
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}
