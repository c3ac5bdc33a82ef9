package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bakery-api/internal/apperror"
	"bakery-api/internal/auth"
	"bakery-api/internal/domain"
	"bakery-api/internal/repository"

	"github.com/google/uuid"
)

// PasswordHasher is the subset of auth.PasswordHasher the service depends on.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
	VerifyAbsent(password string)
}

// TokenIssuer signs bearer tokens for authenticated users.
type TokenIssuer interface {
	Issue(subjectID uuid.UUID, role string) (string, time.Time, error)
}

// RegisterInput carries a validated registration request
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// ProfileUpdate holds the fields a user may change. Nil means unchanged.
type ProfileUpdate struct {
	Name     *string
	Email    *string
	Password *string
}

// LoginResult is returned by a successful login
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// UserService defines the interface for user business logic
type UserService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
}

type userService struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	tokens   TokenIssuer
}

// NewUserService creates a new instance of UserService
func NewUserService(userRepo repository.UserRepository, hasher PasswordHasher, tokens TokenIssuer) UserService {
	return &userService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashError(err error) error {
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return apperror.Field("password", fmt.Sprintf("Must be at most %d bytes long", auth.MaxPasswordBytes))
	}
	return apperror.Internal(fmt.Errorf("failed to hash password: %w", err))
}

// Register creates a new user account with a hashed password
func (s *userService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	email := normalizeEmail(input.Email)

	existingUser, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return nil, apperror.Internal(fmt.Errorf("failed to check existing user: %w", err))
	}
	if existingUser != nil {
		return nil, apperror.Conflict("email is already registered")
	}

	hashedPassword, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, hashError(err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// A concurrent registration loses at the unique index.
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			return nil, apperror.Conflict("email is already registered")
		}
		return nil, storeError(fmt.Errorf("failed to create user: %w", err))
	}

	return user, nil
}

// Login authenticates a user and returns a signed token. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *userService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.hasher.VerifyAbsent(password)
			return nil, apperror.InvalidCredentials()
		}
		return nil, apperror.Internal(fmt.Errorf("failed to find user: %w", err))
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, apperror.InvalidCredentials()
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to issue token: %w", err))
	}

	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// GetByID retrieves a user by ID
func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	userID, err := parseID("id", id)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.NotFound("user")
		}
		return nil, apperror.Internal(fmt.Errorf("failed to get user: %w", err))
	}
	return user, nil
}

// UpdateProfile merges the supplied fields into the stored user. The password
// is re-hashed only when a new one is given.
func (s *userService) UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*domain.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		user.Name = strings.TrimSpace(*update.Name)
	}
	if update.Email != nil {
		user.Email = normalizeEmail(*update.Email)
	}
	if update.Password != nil {
		hashedPassword, err := s.hasher.Hash(*update.Password)
		if err != nil {
			return nil, hashError(err)
		}
		user.PasswordHash = hashedPassword
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.userRepo.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrUserAlreadyExists):
			return nil, apperror.Conflict("email is already registered")
		case errors.Is(err, repository.ErrUserNotFound):
			return nil, apperror.NotFound("user")
		}
		return nil, storeError(fmt.Errorf("failed to update user: %w", err))
	}

	return user, nil
}

// List returns every registered user
func (s *userService) List(ctx context.Context) ([]*domain.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to list users: %w", err))
	}
	return users, nil
}
