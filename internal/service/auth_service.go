package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/apperr"
	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/model"
	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/repository"
	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/utils"
)

const msgInvalidCredentials = "invalid email or password"

type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginInput is checked by Authenticate only: missing credentials fail
// the same way as wrong ones.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileInput leaves a field unchanged when it is empty.
type UpdateProfileInput struct {
	Name            string `json:"name" validate:"max=120"`
	Email           string `json:"email" validate:"omitempty,email,max=255"`
	Dietary         string `json:"dietary" validate:"omitempty,oneof=none vegetarian vegan halal kosher"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword" validate:"omitempty,min=6,max=72"`
}

// Session is an authenticated user plus the token that proves it.
type Session struct {
	User      model.User
	Token     string
	ExpiresAt time.Time
}

type AuthService struct {
	users      UserStore
	tokens     *utils.Tokens
	validate   *utils.Validator
	bcryptCost int
}

func NewAuthService(users UserStore, tokens *utils.Tokens, validate *utils.Validator, bcryptCost int) *AuthService {
	return &AuthService{users: users, tokens: tokens, validate: validate, bcryptCost: bcryptCost}
}

// Register creates an account and opens a session for it.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := s.validate.Struct(in, "invalid registration"); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, err, "hash password")
	}
	u := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         model.RoleUser,
		Dietary:      model.DietaryNone,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, apperr.Conflict("user already exists")
		}
		return nil, apperr.Wrap(apperr.CodeInternal, err, "create user")
	}
	return s.open(*u)
}

// Authenticate returns the account matching email and password. Unknown
// emails and wrong passwords fail identically.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.BurnPasswordCheck(password, s.bcryptCost)
			return nil, apperr.Unauthorized(msgInvalidCredentials)
		}
		return nil, apperr.Wrap(apperr.CodeInternal, err, "load user")
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return nil, apperr.Unauthorized(msgInvalidCredentials)
	}
	pub := u.Public()
	return &pub, nil
}

// Login authenticates and opens a session.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, apperr.Unauthorized(msgInvalidCredentials)
	}
	u, err := s.Authenticate(ctx, in.Email, in.Password)
	if err != nil {
		return nil, err
	}
	return s.open(*u)
}

// Identify maps a session token to its live user. Any failure, including
// a user deleted after the token was issued, is Unauthorized; only store
// outages surface as internal errors.
func (s *AuthService) Identify(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, apperr.Unauthorized("not authorized, no token")
	}
	id, err := s.tokens.Verify(token)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeUnauthorized, err, "not authorized, token failed")
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Unauthorized("not authorized, user not found")
		}
		return nil, apperr.Wrap(apperr.CodeInternal, err, "load user")
	}
	pub := u.Public()
	return &pub, nil
}

// UpdateProfile applies the non-empty fields of in to the identity's
// account. Changing the password requires the current one.
func (s *AuthService) UpdateProfile(ctx context.Context, identity uint64, in UpdateProfileInput) (*model.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Dietary = strings.ToLower(strings.TrimSpace(in.Dietary))
	if err := s.validate.Struct(in, "invalid profile update"); err != nil {
		return nil, err
	}

	u, err := s.users.GetByID(ctx, identity)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Wrap(apperr.CodeInternal, err, "load user")
	}

	if in.NewPassword != "" {
		if in.CurrentPassword == "" {
			return nil, apperr.Validation("current password required",
				apperr.FieldError{Field: "currentPassword", Message: "is required"})
		}
		if !utils.VerifyPassword(u.PasswordHash, in.CurrentPassword) {
			return nil, apperr.Unauthorized("current password is incorrect")
		}
		hash, err := utils.HashPassword(in.NewPassword, s.bcryptCost)
		if err != nil {
			return nil, apperr.Wrap(apperr.CodeInternal, err, "hash password")
		}
		u.PasswordHash = hash
	}
	if in.Name != "" {
		u.Name = in.Name
	}
	if in.Email != "" {
		u.Email = in.Email
	}
	if in.Dietary != "" {
		u.Dietary = in.Dietary
	}

	if err := s.users.Update(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, apperr.Conflict("email already in use")
		}
		return nil, apperr.Wrap(apperr.CodeInternal, err, "update user")
	}
	pub := u.Public()
	return &pub, nil
}

func (s *AuthService) open(u model.User) (*Session, error) {
	token, exp, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, err, "issue token")
	}
	return &Session{User: u.Public(), Token: token, ExpiresAt: exp}, nil
}
