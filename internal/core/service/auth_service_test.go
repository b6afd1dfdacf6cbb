package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/listado/marketplace-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stubs
// ---------------------------------------------------------------------------

type stubAccountRepo struct {
	byEmail map[string]*domain.Account
	nextID  int
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{byEmail: make(map[string]*domain.Account)}
}

func (r *stubAccountRepo) Create(_ context.Context, a *domain.Account) (*domain.Account, error) {
	if _, ok := r.byEmail[a.Email]; ok {
		return nil, domain.ErrAccountExists
	}
	r.nextID++
	clone := *a
	clone.ID = fmt.Sprintf("acc_%d", r.nextID)
	r.byEmail[a.Email] = &clone
	out := clone
	return &out, nil
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	a, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *stubAccountRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	for _, a := range r.byEmail {
		if a.ID == id {
			clone := *a
			return &clone, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) UpdateRole(_ context.Context, id string, role domain.Role) error {
	for _, a := range r.byEmail {
		if a.ID == id {
			a.Role = role
			return nil
		}
	}
	return domain.ErrAccountNotFound
}

func (r *stubAccountRepo) Delete(_ context.Context, id string) error {
	for email, a := range r.byEmail {
		if a.ID == id {
			delete(r.byEmail, email)
			return nil
		}
	}
	return domain.ErrAccountNotFound
}

type stubRevoker struct {
	revoked map[string]time.Duration
}

func newStubRevoker() *stubRevoker {
	return &stubRevoker{revoked: make(map[string]time.Duration)}
}

func (s *stubRevoker) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	s.revoked[jti] = ttl
	return nil
}

func (s *stubRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, ok := s.revoked[jti]
	return ok, nil
}

const testSecret = "test-secret"

// ---------------------------------------------------------------------------
// Register
// ---------------------------------------------------------------------------

func TestAuthService_Register_AlwaysRoleUser(t *testing.T) {
	svc := NewAuthService(newStubAccountRepo(), nil, testSecret, time.Hour)

	account, err := svc.Register(context.Background(), "mod@example.com", "wannabe_admin", "s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.Role != domain.RoleUser {
		t.Errorf("registration must always yield role user, got %q", account.Role)
	}
	if account.ID == "" {
		t.Error("expected an assigned account id")
	}
	if account.PasswordHash == "s3cret" {
		t.Error("password must be hashed, not stored verbatim")
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := newStubAccountRepo()
	svc := NewAuthService(repo, nil, testSecret, time.Hour)

	if _, err := svc.Register(context.Background(), "a@example.com", "a", "pw"); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Register(context.Background(), "a@example.com", "b", "pw")
	if !errors.Is(err, domain.ErrAccountExists) {
		t.Fatalf("expected ErrAccountExists, got %v", err)
	}
}

func TestAuthService_Register_EmptyFields(t *testing.T) {
	svc := NewAuthService(newStubAccountRepo(), nil, testSecret, time.Hour)

	if _, err := svc.Register(context.Background(), "", "u", "pw"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("empty email: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "a@example.com", "u", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("empty password: expected ErrInvalidCredentials, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func TestAuthService_Login_TokenCarriesIdentityClaims(t *testing.T) {
	repo := newStubAccountRepo()
	svc := NewAuthService(repo, nil, testSecret, time.Hour)

	if _, err := svc.Register(context.Background(), "a@example.com", "alice", "pw"); err != nil {
		t.Fatal(err)
	}

	token, account, err := svc.Login(context.Background(), "a@example.com", "pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.Email != "a@example.com" {
		t.Errorf("unexpected account: %+v", account)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token must parse with the signing secret: %v", err)
	}
	if claims["sub"] != account.ID {
		t.Errorf("sub claim: expected %q, got %v", account.ID, claims["sub"])
	}
	if claims["role"] != string(domain.RoleUser) {
		t.Errorf("role claim: expected user, got %v", claims["role"])
	}
	if jti, _ := claims["jti"].(string); jti == "" {
		t.Error("token must carry a jti for revocation")
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := newStubAccountRepo()
	svc := NewAuthService(repo, nil, testSecret, time.Hour)

	if _, err := svc.Register(context.Background(), "a@example.com", "alice", "pw"); err != nil {
		t.Fatal(err)
	}
	_, _, err := svc.Login(context.Background(), "a@example.com", "nope")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc := NewAuthService(newStubAccountRepo(), nil, testSecret, time.Hour)

	_, _, err := svc.Login(context.Background(), "ghost@example.com", "pw")
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Logout
// ---------------------------------------------------------------------------

func TestAuthService_Logout_RevokesTokenID(t *testing.T) {
	repo := newStubAccountRepo()
	revoker := newStubRevoker()
	svc := NewAuthService(repo, revoker, testSecret, time.Hour)

	if _, err := svc.Register(context.Background(), "a@example.com", "alice", "pw"); err != nil {
		t.Fatal(err)
	}
	token, _, err := svc.Login(context.Background(), "a@example.com", "pw")
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.Logout(context.Background(), token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(revoker.revoked) != 1 {
		t.Fatalf("expected 1 revoked jti, got %d", len(revoker.revoked))
	}
	for _, ttl := range revoker.revoked {
		if ttl <= 0 || ttl > time.Hour {
			t.Errorf("revocation ttl must cover the remaining lifetime, got %v", ttl)
		}
	}
}

func TestAuthService_Logout_RejectsForgedToken(t *testing.T) {
	revoker := newStubRevoker()
	svc := NewAuthService(newStubAccountRepo(), revoker, testSecret, time.Hour)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "acc_1", "jti": "x", "exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := forged.SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.Logout(context.Background(), signed); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	if len(revoker.revoked) != 0 {
		t.Error("forged token must not revoke anything")
	}
}
