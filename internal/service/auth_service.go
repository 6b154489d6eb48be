package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"agencia-viajes/internal/domain"
	"agencia-viajes/internal/security"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

const bcryptCost = 12

// Redirect targets issued after a successful login
const (
	RedirectHome  = "/"
	RedirectAdmin = "/administracion"
)

// ValidateCredentials trims and validates raw login form input. It is pure:
// no repository access, no side effects. Returns the validated pair or
// domain.ErrInvalidInput.
func ValidateCredentials(email, password string) (string, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || len(email) > 255 || !emailRegex.MatchString(email) {
		return "", "", domain.ErrInvalidInput
	}
	if password == "" {
		return "", "", domain.ErrInvalidInput
	}
	return email, password, nil
}

// AuthService implements the login flow: CSRF check, credential validation,
// user lookup, password verification and session establishment. Sessions are
// explicit values passed in and out; the handler layer binds them to the
// session cookie.
type AuthService struct {
	userRepo    domain.UserRepository
	sessionRepo domain.SessionRepository
	tokens      *security.TokenManager
	sessionTTL  time.Duration
}

func NewAuthService(userRepo domain.UserRepository, sessionRepo domain.SessionRepository, sessionTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		tokens:      security.NewTokenManager(),
		sessionTTL:  sessionTTL,
	}
}

// StartSession creates a fresh anonymous session carrying only a CSRF token.
// Called on the first GET of the login page.
func (s *AuthService) StartSession(ctx context.Context) (*domain.Session, error) {
	csrfToken, err := s.tokens.Generate()
	if err != nil {
		return nil, fmt.Errorf("%w: generating csrf token: %v", domain.ErrInternal, err)
	}

	session := &domain.Session{
		Token:     uuid.New().String(),
		CSRFToken: csrfToken,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("%w: creating session: %v", domain.ErrInternal, err)
	}

	return session, nil
}

// EnsureCSRFToken returns the session's CSRF token, issuing and persisting a
// new one if the session does not hold one yet.
func (s *AuthService) EnsureCSRFToken(ctx context.Context, session *domain.Session) (string, error) {
	if session.CSRFToken != "" {
		return session.CSRFToken, nil
	}

	csrfToken, err := s.tokens.Generate()
	if err != nil {
		return "", fmt.Errorf("%w: generating csrf token: %v", domain.ErrInternal, err)
	}

	if err := s.sessionRepo.UpdateCSRFToken(ctx, csrfToken, session.Token); err != nil {
		return "", fmt.Errorf("%w: storing csrf token: %v", domain.ErrInternal, err)
	}

	session.CSRFToken = csrfToken
	return csrfToken, nil
}

// Login runs the authentication sequence for a POST of the login form.
// Checks happen in a fixed order: CSRF first (fail fast, no information
// about credentials), then input validation, then the single user-store
// query, then password verification. On success the session token is
// regenerated (fixation defense), the CSRF token is retired, and the new
// session plus the role-based redirect target are returned.
//
// On any failure the original session is left untouched; errors are one of
// domain.ErrSecurityCheck, domain.ErrInvalidInput, domain.ErrInvalidCredentials
// or domain.ErrInternal.
func (s *AuthService) Login(ctx context.Context, session *domain.Session, submittedCSRF, rawEmail, rawPassword string) (*domain.Session, string, error) {
	if session == nil {
		return nil, "", domain.ErrSecurityCheck
	}
	if err := s.tokens.Verify(session.CSRFToken, submittedCSRF); err != nil {
		return nil, "", domain.ErrSecurityCheck
	}

	email, password, err := ValidateCredentials(rawEmail, rawPassword)
	if err != nil {
		return nil, "", err
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Indistinguishable from a wrong password
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("%w: user lookup: %v", domain.ErrInternal, err)
	}

	if err := bcrypt.CompareHashAndPassword(
		[]byte(user.PasswordHash), []byte(password),
	); err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	// Fresh token, cleared CSRF token: the pre-login identifier and CSRF
	// token are both dead after this point. Username is stored raw and
	// escaped at render time.
	authenticated := &domain.Session{
		Token:     uuid.New().String(),
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}

	if err := s.sessionRepo.Create(ctx, authenticated); err != nil {
		return nil, "", fmt.Errorf("%w: creating session: %v", domain.ErrInternal, err)
	}

	// The anonymous row only held the retired CSRF token; removal is best
	// effort and the expiry sweep catches leftovers.
	_ = s.sessionRepo.Delete(ctx, session.Token)

	redirect := RedirectHome
	if user.IsAdmin() {
		redirect = RedirectAdmin
	}

	return authenticated, redirect, nil
}

// Register creates a new standard-role account. Mirrors the validation the
// database schema enforces so duplicate work surfaces as a domain error
// before the insert.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	if len(username) < 3 || len(username) > 50 {
		return nil, domain.ErrInvalidInput
	}
	if !usernameRegex.MatchString(username) {
		return nil, domain.ErrInvalidInput
	}
	email = strings.TrimSpace(email)
	if !emailRegex.MatchString(email) || len(email) > 255 {
		return nil, domain.ErrInvalidInput
	}
	if len(password) < 8 || len(password) > 100 {
		return nil, domain.ErrInvalidInput
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("%w: hashing password: %v", domain.ErrInternal, err)
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         domain.RoleStandard,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Logout destroys the session identified by token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessionRepo.Delete(ctx, token)
}

// GetSession loads the session for a cookie token, if present and unexpired.
func (s *AuthService) GetSession(ctx context.Context, token string) (*domain.Session, error) {
	return s.sessionRepo.GetByToken(ctx, token)
}

// Users returns all registered accounts for the administration page.
func (s *AuthService) Users(ctx context.Context) ([]*domain.User, error) {
	return s.userRepo.List(ctx)
}
