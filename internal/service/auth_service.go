package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"complaint_portal/internal/model"
	"complaint_portal/internal/repository"
	"complaint_portal/internal/utils"
)

var (
	ErrUserAlreadyExists     = errors.New("user with this email already exists")
	ErrUserNotFound          = errors.New("user not found")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrInvalidRoleTransition = errors.New("role can only be changed to official")
)

// AuthService provides authentication and account management services
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	ListOfficials(ctx context.Context) ([]model.User, error)
	PromoteRole(ctx context.Context, userID int64, role string) error
}

type authService struct {
	userRepo repository.UserRepository
	jwtUtil  *utils.JWTUtil
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, jwtUtil *utils.JWTUtil) AuthService {
	return &authService{
		userRepo: userRepo,
		jwtUtil:  jwtUtil,
	}
}

// Register creates a new citizen account
func (s *authService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	existingUser, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, ErrUserAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	userRole := model.RoleUser // Default role

	// Check for initial admin setup via environment variable
	initialAdminEmail := os.Getenv("INITIAL_ADMIN_EMAIL")
	if initialAdminEmail != "" && email == initialAdminEmail {
		userRole = model.RoleAdmin
		log.Printf("INFO: User %s is being registered as ADMIN via INITIAL_ADMIN_EMAIL.", email)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         userRole,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user in repository: %w", err)
	}

	return user, nil
}

// Login authenticates a user and returns a JWT token
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials // User not found, same message as password mismatch
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

// ListUsers returns every non-admin account for the admin dashboard
func (s *authService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.FindNonAdmins(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// ListOfficials returns every account holding the official role
func (s *authService) ListOfficials(ctx context.Context) ([]model.User, error) {
	officials, err := s.userRepo.FindByRole(ctx, model.RoleOfficial)
	if err != nil {
		return nil, fmt.Errorf("failed to list officials: %w", err)
	}
	return officials, nil
}

// PromoteRole changes a user's role. The only transition the backend accepts
// is to official; anything else is rejected before touching the database.
func (s *authService) PromoteRole(ctx context.Context, userID int64, role string) error {
	if role != model.RoleOfficial {
		return ErrInvalidRoleTransition
	}

	updated, err := s.userRepo.UpdateRole(ctx, userID, model.RoleOfficial)
	if err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}
	if !updated {
		return ErrUserNotFound
	}
	return nil
}
