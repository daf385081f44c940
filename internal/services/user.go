package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"blogdeck/internal/apperr"
	"blogdeck/internal/models"
)

const minPasswordLen = 6

type UserService struct {
	store UserStore
	cost  int
}

func NewUserService(store UserStore) *UserService {
	return &UserService{store: store, cost: bcrypt.DefaultCost}
}

// Register creates an account. The email is stored lower-cased; a taken
// address yields apperr.ErrEmailExists.
func (s *UserService) Register(ctx context.Context, name, email, password string, role models.Role) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" {
		return nil, apperr.Invalid("name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperr.Invalid("email is not valid")
	}
	if len(password) < minPasswordLen {
		return nil, apperr.Invalid("password must be at least 6 characters")
	}
	if role != models.RoleAdmin {
		role = models.RoleUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeInvalidInput, "password cannot be hashed")
	}

	u := &models.User{Name: name, Email: email, Password: string(hash), Role: role}
	if err := s.store.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate checks credentials. An unknown email and a wrong password
// both yield apperr.ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.store.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.ErrInvalidCredentials
		}
		return nil, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return nil, apperr.ErrInvalidCredentials
	}
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeUnauthenticated, "stored password hash is unusable")
	}
	return u, nil
}

func (s *UserService) Get(ctx context.Context, userID string) (*models.User, error) {
	return s.store.Get(ctx, userID)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
