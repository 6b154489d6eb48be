package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"agencia-viajes/internal/domain"

	"github.com/google/uuid"
)

var idCounter atomic.Int64

func nextID() int64 {
	return idCounter.Add(1)
}

// UserOptions allows customizing user fixture creation
type UserOptions struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// NewTestUser creates a test user with sensible defaults.
// Pass options to override specific fields.
func NewTestUser(opts ...func(*UserOptions)) *domain.User {
	o := &UserOptions{
		ID:           nextID(),
		PasswordHash: "$2a$10$test.hash.for.testing.purposes.only",
		Role:         domain.RoleStandard,
	}
	o.Username = fmt.Sprintf("testuser%d", o.ID)

	for _, opt := range opts {
		opt(o)
	}

	if o.Email == "" {
		o.Email = o.Username + "@example.com"
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}

	return &domain.User{
		ID:           o.ID,
		Username:     o.Username,
		Email:        o.Email,
		PasswordHash: o.PasswordHash,
		Role:         o.Role,
		CreatedAt:    o.CreatedAt,
	}
}

// WithUsername sets the username
func WithUsername(username string) func(*UserOptions) {
	return func(o *UserOptions) {
		o.Username = username
	}
}

// WithEmail sets the email
func WithEmail(email string) func(*UserOptions) {
	return func(o *UserOptions) {
		o.Email = email
	}
}

// WithRole sets the role
func WithRole(role string) func(*UserOptions) {
	return func(o *UserOptions) {
		o.Role = role
	}
}

// WithPasswordHash sets the password hash
func WithPasswordHash(hash string) func(*UserOptions) {
	return func(o *UserOptions) {
		o.PasswordHash = hash
	}
}

// SessionOptions allows customizing session fixture creation
type SessionOptions struct {
	Token     string
	UserID    int64
	Username  string
	Role      string
	CSRFToken string
	ExpiresAt time.Time
}

// NewTestSession creates an anonymous test session with a CSRF token.
// Pass options to attach a user or override fields.
func NewTestSession(opts ...func(*SessionOptions)) *domain.Session {
	o := &SessionOptions{
		Token:     uuid.New().String(),
		CSRFToken: "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	for _, opt := range opts {
		opt(o)
	}

	return &domain.Session{
		Token:     o.Token,
		UserID:    o.UserID,
		Username:  o.Username,
		Role:      o.Role,
		CSRFToken: o.CSRFToken,
		ExpiresAt: o.ExpiresAt,
		CreatedAt: time.Now(),
	}
}

// WithSessionToken sets the session token
func WithSessionToken(token string) func(*SessionOptions) {
	return func(o *SessionOptions) {
		o.Token = token
	}
}

// ForUser binds the session to a user
func ForUser(user *domain.User) func(*SessionOptions) {
	return func(o *SessionOptions) {
		o.UserID = user.ID
		o.Username = user.Username
		o.Role = user.Role
	}
}

// WithCSRFToken sets the CSRF token
func WithCSRFToken(token string) func(*SessionOptions) {
	return func(o *SessionOptions) {
		o.CSRFToken = token
	}
}

// Expired marks the session as already expired
func Expired() func(*SessionOptions) {
	return func(o *SessionOptions) {
		o.ExpiresAt = time.Now().Add(-time.Minute)
	}
}

// NewTestDestination creates a destination fixture
func NewTestDestination(city, kind string, price float64) *domain.Destination {
	id := nextID()
	return &domain.Destination{
		ID:          id,
		City:        city,
		Photo:       fmt.Sprintf("destino%d.jpg", id),
		Kind:        kind,
		Description: "Un destino de prueba.",
		Price:       price,
		CreatedAt:   time.Now(),
	}
}
