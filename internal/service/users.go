package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/Dan9191/loan-service/internal/apperrors"
	"github.com/Dan9191/loan-service/internal/models"
)

const minPasswordLength = 6

// Users manages back office operators and issues login tokens
type Users struct {
	store     UserStore
	log       *logrus.Logger
	jwtSecret string
	tokenTTL  time.Duration
	now       func() time.Time
}

// NewUsers initializes the user service
func NewUsers(store UserStore, log *logrus.Logger, jwtSecret string, tokenTTL time.Duration) *Users {
	return &Users{store: store, log: log, jwtSecret: jwtSecret, tokenTTL: tokenTTL, now: time.Now}
}

// UserInput creates or edits a user. An empty password on update keeps the
// current one.
type UserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Active   *bool  `json:"active"`
}

// LoginResult is returned on successful authentication
type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

func (in *UserInput) normalize(creating bool) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Role = strings.ToUpper(strings.TrimSpace(in.Role))
	if in.Name == "" {
		return apperrors.Invalid("name", "is required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return apperrors.Invalid("email", "invalid e-mail address")
	}
	if creating || in.Password != "" {
		if len(in.Password) < minPasswordLength {
			return apperrors.Invalid("password", "must have at least %d characters", minPasswordLength)
		}
	}
	switch in.Role {
	case "":
		in.Role = models.RoleOperator
	case models.RoleAdmin, models.RoleOperator:
	default:
		return apperrors.Invalid("role", "unknown role %q", in.Role)
	}
	return nil
}

// Create registers a user with a hashed password
func (s *Users) Create(ctx context.Context, in UserInput) (*models.User, error) {
	if err := in.normalize(true); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         in.Role,
		Active:       in.Active == nil || *in.Active,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.log.Infof("User registered: %s", user.Email)
	return user, nil
}

// List returns every user
func (s *Users) List(ctx context.Context) ([]models.User, error) {
	return s.store.ListUsers(ctx)
}

// Get returns one user
func (s *Users) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.store.GetUser(ctx, id)
}

// Update edits a user, rehashing the password when one is given
func (s *Users) Update(ctx context.Context, id uuid.UUID, in UserInput) (*models.User, error) {
	if err := in.normalize(false); err != nil {
		return nil, err
	}
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Name = in.Name
	user.Email = in.Email
	user.Role = in.Role
	if in.Active != nil {
		user.Active = *in.Active
	}
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	s.log.Infof("User updated: %s", user.Email)
	return user, nil
}

// Delete removes a user
func (s *Users) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.log.Infof("User deleted: %s", id)
	return nil
}

// Login authenticates a user and returns a JWT token
func (s *Users) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.store.FindUserByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("invalid credentials: %w", apperrors.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", apperrors.ErrUnauthorized)
	}
	if !user.Active {
		return nil, fmt.Errorf("user is inactive: %w", apperrors.ErrUnauthorized)
	}

	// Generate JWT
	expires := s.now().Add(s.tokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		IssuedAt:  jwt.NewNumericDate(s.now()),
		ExpiresAt: jwt.NewNumericDate(expires),
	})
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	if err := s.store.TouchLastAccess(ctx, user.ID); err != nil {
		s.log.WithError(err).Warnf("Failed to record last access for %s", user.Email)
	}

	s.log.Infof("User logged in: %s", user.Email)
	return &LoginResult{Token: tokenString, ExpiresAt: expires, User: user}, nil
}

// CheckActive rejects tokens whose user was deleted or deactivated after
// login.
func (s *Users) CheckActive(ctx context.Context, id uuid.UUID) error {
	user, err := s.store.GetUser(ctx, id)
	if errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("user %s no longer exists: %w", id, apperrors.ErrUnauthorized)
	}
	if err != nil {
		return err
	}
	if !user.Active {
		return fmt.Errorf("user is inactive: %w", apperrors.ErrUnauthorized)
	}
	return nil
}

// EnsureAdmin creates the bootstrap administrator when no user exists yet.
// It is a no-op when email is empty.
func (s *Users) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" {
		return nil
	}
	n, err := s.store.CountUsers(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	_, err = s.Create(ctx, UserInput{
		Name:     "Administrador",
		Email:    email,
		Password: password,
		Role:     models.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	return nil
}
