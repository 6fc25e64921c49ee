package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/crypto/bcrypt"

	"github.com/EobardThawne2/parking-beta/internal/domain"
	"github.com/EobardThawne2/parking-beta/internal/dto"
	"github.com/EobardThawne2/parking-beta/internal/repository"
	"github.com/EobardThawne2/parking-beta/pkg/telemetry"
)

// TokenClaims holds the identity extracted from a validated token
type TokenClaims struct {
	UserID string
	Email  string
	Role   domain.UserRole
}

// AuthConfig holds auth service configuration
type AuthConfig struct {
	JWTSecret      string
	AccessTokenTTL time.Duration
	Issuer         string
}

// AuthService handles registration, login and token validation
type AuthService struct {
	userRepo repository.UserRepository
	secret   []byte
	tokenTTL time.Duration
	issuer   string
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, cfg *AuthConfig) *AuthService {
	ttl := cfg.AccessTokenTTL
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{
		userRepo: userRepo,
		secret:   []byte(cfg.JWTSecret),
		tokenTTL: ttl,
		issuer:   cfg.Issuer,
	}
}

// Register creates a new user account and returns an access token
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.register")
	defer span.End()

	if err := req.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Phone:        req.Phone,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("user_id", user.ID))

	resp, err := s.issueToken(user)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return resp, nil
}

// Login verifies credentials and returns an access token
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.login")
	defer span.End()

	user, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("user_id", user.ID))

	resp, err := s.issueToken(user)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return resp, nil
}

// AdminLogin verifies credentials and requires admin access
func (s *AuthService) AdminLogin(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.admin_login")
	defer span.End()

	user, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if !user.HasAdminAccess() {
		span.SetStatus(codes.Error, "not admin")
		return nil, domain.ErrForbidden
	}

	span.SetAttributes(attribute.String("user_id", user.ID))

	resp, err := s.issueToken(user)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return resp, nil
}

// ValidateToken parses and verifies a bearer token
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*TokenClaims, error) {
	_, span := telemetry.StartSpan(ctx, "service.auth.validate_token")
	defer span.End()

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		span.SetStatus(codes.Error, "invalid token")
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		span.SetStatus(codes.Error, "invalid claims")
		return nil, domain.ErrInvalidToken
	}

	userID, _ := claims["user_id"].(string)
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	if userID == "" {
		span.SetStatus(codes.Error, "missing user_id claim")
		return nil, domain.ErrInvalidToken
	}

	span.SetStatus(codes.Ok, "")
	return &TokenClaims{
		UserID: userID,
		Email:  email,
		Role:   domain.UserRole(role),
	}, nil
}

// GetUser returns the user with the given ID
func (s *AuthService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.get_user")
	defer span.End()

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return user, nil
}

// SeedAdmin creates the default admin account when no users exist
func (s *AuthService) SeedAdmin(ctx context.Context, email, password, fullName string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.seed_admin")
	defer span.End()

	count, err := s.userRepo.Count(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		span.SetStatus(codes.Ok, "users exist")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	now := time.Now()
	admin := &domain.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, admin); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to seed admin: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

func (s *AuthService) authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		// Same error whether the account exists or not
		return nil, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return user, nil
}

func (s *AuthService) issueToken(user *domain.User) (*dto.AuthResponse, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":     user.ID,
		"user_id": user.ID,
		"email":   user.Email,
		"role":    string(user.Role),
		"iat":     now.Unix(),
		"exp":     now.Add(s.tokenTTL).Unix(),
	}
	if s.issuer != "" {
		claims["iss"] = s.issuer
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &dto.AuthResponse{
		Token:     signed,
		TokenType: "Bearer",
		ExpiresIn: int64(s.tokenTTL.Seconds()),
		User:      dto.NewUserResponse(user),
	}, nil
}
