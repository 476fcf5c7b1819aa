package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/petpal-app/petpal-backend/pkg/config"
	"github.com/petpal-app/petpal-backend/pkg/db/models"
	pkgerrors "github.com/petpal-app/petpal-backend/pkg/errors"
	"github.com/petpal-app/petpal-backend/pkg/security"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

const invalidCredentialsMessage = "Invalid username or password."

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	validate   = validator.New()
)

type userStore interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByUsernameOrEmail(ctx context.Context, identifier string) (*models.User, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
}

// Service exposes account registration and credential verification.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(ctx context.Context, input LoginInput) (*models.User, error)
}

type service struct {
	users     userStore
	passwords config.PasswordConfig
}

// NewService builds an auth service backed by the provided user store.
func NewService(users userStore, passwords config.PasswordConfig) (Service, error) {
	if users == nil {
		return nil, fmt.Errorf("user store required")
	}
	return &service{users: users, passwords: passwords}, nil
}

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	Username        string
	Email           string
	FullName        string
	Password        string
	ConfirmPassword string
	AcceptedTerms   bool
}

// LoginInput carries the login form fields. Identifier matches either
// username or email.
type LoginInput struct {
	Identifier string
	Password   string
}

// Register validates the input, checks uniqueness, and creates the account
// with an Argon2id password hash.
func (s *service) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	input.FullName = strings.TrimSpace(input.FullName)

	if err := validateRegistration(input); err != nil {
		return nil, asValidationError(err)
	}

	if taken, err := s.users.UsernameTaken(ctx, input.Username); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check username")
	} else if taken {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "Username is already taken.")
	}
	if taken, err := s.users.EmailTaken(ctx, input.Email); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email")
	} else if taken {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "Email is already registered.")
	}

	hash, err := security.HashPassword(input.Password, s.passwords)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.Create(ctx, &models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		FullName:     input.FullName,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return user, nil
}

// Login verifies the credentials. Every failure mode surfaces the same
// generic message so callers cannot probe which field was wrong.
func (s *service) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	identifier := strings.TrimSpace(input.Identifier)
	if identifier == "" || input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Username and password are required.")
	}

	user, err := s.users.FindByUsernameOrEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}

func validateRegistration(input RegisterInput) error {
	var err error

	switch {
	case input.Username == "":
		err = multierr.Append(err, errors.New("Username is required."))
	case len(input.Username) < 3:
		err = multierr.Append(err, errors.New("Username must be at least 3 characters."))
	case len(input.Username) > 50:
		err = multierr.Append(err, errors.New("Username must be at most 50 characters."))
	case !usernameRe.MatchString(input.Username):
		err = multierr.Append(err, errors.New("Username can only contain letters, numbers, and underscores."))
	}

	if input.Email == "" {
		err = multierr.Append(err, errors.New("Email is required."))
	} else if validate.Var(input.Email, "email") != nil {
		err = multierr.Append(err, errors.New("Please enter a valid email address."))
	}

	if input.FullName == "" {
		err = multierr.Append(err, errors.New("Full name is required."))
	}

	if input.Password == "" {
		err = multierr.Append(err, errors.New("Password is required."))
	} else if len(input.Password) < 6 {
		err = multierr.Append(err, errors.New("Password must be at least 6 characters."))
	}
	if input.Password != input.ConfirmPassword {
		err = multierr.Append(err, errors.New("Passwords do not match."))
	}

	if !input.AcceptedTerms {
		err = multierr.Append(err, errors.New("You must agree to the terms and conditions."))
	}

	return err
}

func asValidationError(err error) error {
	if err == nil {
		return nil
	}
	all := multierr.Errors(err)
	messages := make([]string, 0, len(all))
	for _, e := range all {
		messages = append(messages, e.Error())
	}
	return pkgerrors.New(pkgerrors.CodeValidation, messages[0]).WithDetails(messages)
}
