package users

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"user-vault/internal/config"
	"user-vault/internal/utils/crypto"
	"user-vault/internal/utils/sanitize"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Service handles account business logic
type Service struct {
	repo   Repository
	config config.Config
	log    *slog.Logger
}

// NewService creates a new users service
func NewService(repo Repository, cfg config.Config, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		config: cfg,
		log:    log,
	}
}

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email" example:"test@example.com"`
	Password    string `json:"password" validate:"required,password" example:"Password123"`
	UserName    string `json:"UserName" validate:"required" example:"John Doe"`
	PhoneNumber string `json:"phoneNumber" validate:"required" example:"+1234567890"`
	Address     string `json:"address" validate:"required" example:"123 Main St, City"`
}

// LoginRequest represents a user login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" example:"test@example.com"`
	Password string `json:"password" validate:"required" example:"Password123"`
}

// LoginResponse carries the authenticated user's id and a signed bearer token.
type LoginResponse struct {
	ID    string `json:"id" example:"683cdb8aa96ad71e8e075bd1"`
	Token string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// UpdateUserRequest represents a user update request.
// Omitted fields leave the stored value unchanged.
type UpdateUserRequest struct {
	UserName    *string `json:"UserName,omitempty" validate:"omitempty,min=1" example:"John Doe"`
	PhoneNumber *string `json:"phoneNumber,omitempty" example:"+1234567890"`
	Address     *string `json:"address,omitempty" example:"123 Main St, City"`
}

// Register creates a new user account.
//
// The FindByEmail probe is advisory only; the unique index on email is the
// authoritative guard, so a concurrent duplicate still surfaces as ErrEmailTaken.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	email := normalizeEmail(req.Email)

	existing, err := s.repo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := crypto.HashPassword(req.Password, s.config.BcryptCost)
	if err != nil {
		s.log.Error("failed to hash password", "error", err)
		return nil, errors.New("failed to process password")
	}

	now := time.Now()
	user := &User{
		ID:           bson.NewObjectID(),
		Email:        email,
		PasswordHash: hashedPassword,
		UserName:     sanitize.Clean(req.UserName),
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
		Address:      sanitize.Clean(req.Address),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		s.log.Error("failed to create user", "error", err)
		return nil, errors.New("failed to create user")
	}

	return user, nil
}

// Login authenticates a user and issues a bearer token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	email := normalizeEmail(req.Email)

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.log.Error("failed to find user by email", "error", err)
		return nil, err
	}

	if err := crypto.CheckPassword(req.Password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateJWT(user)
	if err != nil {
		s.log.Error("failed to generate token", "error", err)
		return nil, ErrGenAccessToken
	}

	return &LoginResponse{
		ID:    user.ID.Hex(),
		Token: token,
	}, nil
}

// List returns all user records
func (s *Service) List(ctx context.Context) ([]*User, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error("failed to list users", "error", err)
		return nil, err
	}
	return list, nil
}

// Get returns a single user by id
func (s *Service) Get(ctx context.Context, id bson.ObjectID) (*User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			s.log.Error("failed to find user by id", "error", err, "user_id", id.Hex())
		}
		return nil, err
	}
	return user, nil
}

// Update applies the supplied fields to the stored record.
// Every omitted field keeps its previous value.
func (s *Service) Update(ctx context.Context, id bson.ObjectID, req UpdateUserRequest) (*User, error) {
	patch := UpdateUser{
		PhoneNumber: req.PhoneNumber,
	}
	if req.UserName != nil {
		cleaned := sanitize.Clean(*req.UserName)
		patch.UserName = &cleaned
	}
	if req.Address != nil {
		cleaned := sanitize.Clean(*req.Address)
		patch.Address = &cleaned
	}

	user, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			s.log.Error("failed to update user", "error", err, "user_id", id.Hex())
		}
		return nil, err
	}
	return user, nil
}

// Delete removes a user record by id
func (s *Service) Delete(ctx context.Context, id bson.ObjectID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			s.log.Error("failed to delete user", "error", err, "user_id", id.Hex())
		}
		return err
	}
	return nil
}

func (s *Service) generateJWT(user *User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID.Hex(),
		"exp":     time.Now().Add(time.Duration(s.config.TokenTTLMinutes) * time.Minute).Unix(),
		"iat":     time.Now().Unix(),
	}

	if strings.ToUpper(s.config.JWTAlgorithm) != "HS256" {
		return "", errors.New("unsupported JWT algorithm")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
