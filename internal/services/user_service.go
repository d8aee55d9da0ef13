package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"

	"lead-backend/internal/auth"
	"lead-backend/internal/models"
	"lead-backend/internal/repositories"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrEmailTaken         = errors.New("email already registered")
)

type UserService struct {
	userRepo     *repositories.UserRepository
	loginLogRepo *repositories.LoginLogRepository
	jwtManager   *auth.JWTManager
}

func NewUserService(db repositories.DBTX, jwtManager *auth.JWTManager) *UserService {
	return &UserService{
		userRepo:     repositories.NewUserRepository(db),
		loginLogRepo: repositories.NewLoginLogRepository(db),
		jwtManager:   jwtManager,
	}
}

// Signup registers a new agent account and returns a signed token.
func (s *UserService) Signup(ctx context.Context, req *models.SignupRequest) (*models.AuthResponse, error) {
	if err := validateSignup(req); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, models.NewPersistenceError("lookup email", err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         "agent",
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, models.NewPersistenceError("create user", err)
	}

	token, err := s.jwtManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	log.Printf("[UserService] New signup: %s", user.Email)
	return &models.AuthResponse{Token: token, User: user}, nil
}

// Login verifies credentials and records the login with client metadata.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest, ip, userAgent string) (*models.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if errors.Is(err, repositories.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, models.NewPersistenceError("lookup user", err)
	}

	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	token, err := s.jwtManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	entry := &models.LoginLog{
		UserID:    user.ID,
		UserName:  user.Name,
		IPAddress: ip,
		UserAgent: userAgent,
	}
	if err := s.loginLogRepo.Create(ctx, entry); err != nil {
		// Login still succeeds; the log is best-effort.
		log.Printf("[UserService] Login log failed for %s: %v", user.Email, err)
	}

	return &models.AuthResponse{Token: token, User: user}, nil
}

// CreateUser lets an admin provision an account with an explicit role.
func (s *UserService) CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	if err := validateSignup(&models.SignupRequest{Name: req.Name, Email: req.Email, Password: req.Password}); err != nil {
		return nil, err
	}
	if req.Role != "admin" && req.Role != "agent" {
		return nil, models.NewValidationError("role must be admin or agent")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, models.NewPersistenceError("lookup email", err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         req.Role,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, models.NewPersistenceError("create user", err)
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.userRepo.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.userRepo.Get(ctx, id)
}

func (s *UserService) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return s.userRepo.SetActive(ctx, id, active)
}

func (s *UserService) LoginLogs(ctx context.Context, limit int) ([]*models.LoginLog, error) {
	return s.loginLogRepo.List(ctx, limit)
}

func validateSignup(req *models.SignupRequest) error {
	if len(strings.TrimSpace(req.Name)) < 2 {
		return models.NewValidationError("name must be at least 2 characters")
	}
	if !strings.Contains(req.Email, "@") {
		return models.NewValidationError("invalid email")
	}
	if len(req.Password) < 8 {
		return models.NewValidationError("password must be at least 8 characters")
	}
	return nil
}
