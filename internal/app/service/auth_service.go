package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"inventory_api/internal/common"
	"inventory_api/internal/common/security"
	"inventory_api/internal/domain/model"
	"inventory_api/internal/domain/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for both an unknown email and a wrong
// password so the two cannot be told apart.
var ErrInvalidCredentials = fmt.Errorf("invalid email or password: %w", common.ErrUnauthorized)

type AuthService struct {
	userRepo            repository.UserRepository
	emitTokenOnRegister bool
}

func NewAuthService(userRepo repository.UserRepository, emitTokenOnRegister bool) *AuthService {
	return &AuthService{userRepo: userRepo, emitTokenOnRegister: emitTokenOnRegister}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	Message string      `json:"message"`
	User    *model.User `json:"user"`
	Token   string      `json:"token,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, fmt.Errorf("missing required fields: %w", common.ErrValidation)
	}

	// Fast path only; the unique constraint on users.email is authoritative.
	_, err := s.userRepo.FindByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return nil, fmt.Errorf("email already exists: %w", common.ErrConflict)
	case !errors.Is(err, common.ErrNotFound):
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, fmt.Errorf("password must be at most 72 bytes: %w", common.ErrValidation)
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Name:           req.Name,
		Email:          req.Email,
		HashedPassword: hashedPassword,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, fmt.Errorf("email already exists: %w", common.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	resp := &RegisterResponse{Message: "User created", User: user}
	if s.emitTokenOnRegister {
		token, err := security.GenerateToken(user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to generate token: %w", err)
		}
		resp.Token = token
	}
	return resp, nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("email and password are required: %w", common.ErrValidation)
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			security.BurnPasswordCheck(req.Password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, ErrInvalidCredentials
	}

	token, err := security.GenerateToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &LoginResponse{Token: token, User: user}, nil
}
