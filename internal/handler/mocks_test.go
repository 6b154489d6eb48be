package handler

import (
	"context"
	"errors"
	"testing"
	"time"

	"agencia-viajes/internal/domain"
	"agencia-viajes/internal/messaging"
	"agencia-viajes/internal/service"
	"agencia-viajes/internal/web"

	"golang.org/x/crypto/bcrypt"
)

// mockUserRepository implements domain.UserRepository for testing
type mockUserRepository struct {
	createFunc   func(ctx context.Context, user *domain.User) error
	getByIDFunc  func(ctx context.Context, id int64) (*domain.User, error)
	getEmailFunc func(ctx context.Context, email string) (*domain.User, error)
	listFunc     func(ctx context.Context) ([]*domain.User, error)
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return errors.New("not implemented")
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getEmailFunc != nil {
		return m.getEmailFunc(ctx, email)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, errors.New("not implemented")
}

// mockSessionRepository implements domain.SessionRepository for testing
type mockSessionRepository struct {
	createFunc     func(ctx context.Context, session *domain.Session) error
	getByTokenFunc func(ctx context.Context, token string) (*domain.Session, error)
	updateCSRFFunc func(ctx context.Context, csrfToken, sessionToken string) error
	deleteFunc     func(ctx context.Context, token string) error
}

func (m *mockSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, session)
	}
	return nil
}

func (m *mockSessionRepository) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	if m.getByTokenFunc != nil {
		return m.getByTokenFunc(ctx, token)
	}
	return nil, domain.ErrSessionNotFound
}

func (m *mockSessionRepository) UpdateCSRFToken(ctx context.Context, csrfToken, sessionToken string) error {
	if m.updateCSRFFunc != nil {
		return m.updateCSRFFunc(ctx, csrfToken, sessionToken)
	}
	return nil
}

func (m *mockSessionRepository) Delete(ctx context.Context, token string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, token)
	}
	return nil
}

func (m *mockSessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	return 0, nil
}

// mockDestinationRepository implements domain.DestinationRepository for testing
type mockDestinationRepository struct {
	getByIDFunc    func(ctx context.Context, id int64) (*domain.Destination, error)
	listByKindFunc func(ctx context.Context, kind string) ([]*domain.Destination, error)
}

func (m *mockDestinationRepository) GetByID(ctx context.Context, id int64) (*domain.Destination, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, domain.ErrDestinationNotFound
}

func (m *mockDestinationRepository) ListByKind(ctx context.Context, kind string) ([]*domain.Destination, error) {
	if m.listByKindFunc != nil {
		return m.listByKindFunc(ctx, kind)
	}
	return nil, nil
}

// mockPublisher implements ContactPublisher for testing
type mockPublisher struct {
	publishFunc func(ctx context.Context, req *messaging.ContactRequest) error
	published   []*messaging.ContactRequest
}

func (m *mockPublisher) PublishContactRequest(ctx context.Context, req *messaging.ContactRequest) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, req)
	}
	m.published = append(m.published, req)
	return nil
}

func newTestAuthService(userRepo domain.UserRepository, sessionRepo domain.SessionRepository) *service.AuthService {
	return service.NewAuthService(userRepo, sessionRepo, time.Hour)
}

func testRenderer(t *testing.T) *web.Renderer {
	t.Helper()
	r, err := web.NewRenderer()
	if err != nil {
		t.Fatalf("web.NewRenderer() error = %v", err)
	}
	return r
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	return string(hash)
}
