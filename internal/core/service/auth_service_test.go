package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/kvision/portal-api/internal/core/domain"
	"github.com/kvision/portal-api/internal/core/ports"
)

type credRepoStub struct {
	mu      sync.Mutex
	byEmail map[string]*domain.Credential
	created []*domain.Credential
}

func newCredRepoStub() *credRepoStub {
	return &credRepoStub{byEmail: map[string]*domain.Credential{}}
}

func (s *credRepoStub) FindByEmail(_ context.Context, email string) (*domain.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cred, ok := s.byEmail[email]
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	return cred, nil
}

func (s *credRepoStub) Create(_ context.Context, cred *domain.Credential) (*domain.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byEmail[cred.Email]; exists {
		return nil, domain.ErrUserExists
	}
	s.byEmail[cred.Email] = cred
	s.created = append(s.created, cred)
	return cred, nil
}

type sessionStoreStub struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
	deleted  []string
}

func newSessionStoreStub() *sessionStoreStub {
	return &sessionStoreStub{sessions: map[string]*domain.Session{}}
}

func (s *sessionStoreStub) Create(_ context.Context, sess *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *sess
	s.sessions[sess.ID] = &copied
	return nil
}

func (s *sessionStoreStub) Find(_ context.Context, id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

func (s *sessionStoreStub) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *sessionStoreStub) live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

type stateStoreStub struct {
	issued map[string]bool
}

func (s *stateStoreStub) Issue(context.Context) (string, error) {
	s.issued["state-1"] = true
	return "state-1", nil
}

func (s *stateStoreStub) Redeem(_ context.Context, state string) error {
	if !s.issued[state] {
		return errors.New("unknown state")
	}
	delete(s.issued, state)
	return nil
}

type oauthProviderStub struct {
	identity *ports.OAuthIdentity
}

func (s *oauthProviderStub) AuthURL(state string) string {
	return "https://accounts.example.com/auth?state=" + state
}

func (s *oauthProviderStub) Exchange(context.Context, string) (*ports.OAuthIdentity, error) {
	if s.identity == nil {
		return nil, errors.New("exchange failed")
	}
	return s.identity, nil
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return string(hash)
}

type authFixture struct {
	service  *AuthService
	creds    *credRepoStub
	profiles *profileRepoStub
	sessions *sessionStoreStub
	states   *stateStoreStub
	oauth    *oauthProviderStub
}

func newAuthFixture(profiles *profileRepoStub) *authFixture {
	creds := newCredRepoStub()
	sessions := newSessionStoreStub()
	states := &stateStoreStub{issued: map[string]bool{}}
	oauth := &oauthProviderStub{}
	clock := newFakeClock()
	resolver := NewProfileResolver(profiles, clock, zerolog.Nop())
	svc := NewAuthService(creds, profiles, sessions, states, oauth, resolver, clock, zerolog.Nop(), "test-secret", time.Hour)
	return &authFixture{service: svc, creds: creds, profiles: profiles, sessions: sessions, states: states, oauth: oauth}
}

func studentProfileRepo(role domain.Role) *profileRepoStub {
	return &profileRepoStub{
		findByID: func(_ context.Context, id string) (*domain.Profile, error) {
			return &domain.Profile{ID: id, Name: "Ravi Kumar", Email: "ravi@school.edu", Role: role}, nil
		},
	}
}

func TestAuthService_SignUpRejectsNonStudent(t *testing.T) {
	fx := newAuthFixture(&profileRepoStub{})

	for _, role := range []domain.Role{domain.RoleTeacher, domain.RoleAdmin} {
		err := fx.service.SignUp(context.Background(), "x@school.edu", "password123", "X", role)
		if !errors.Is(err, domain.ErrRoleNotAllowed) {
			t.Fatalf("role %s: expected ErrRoleNotAllowed, got %v", role, err)
		}
	}
	if len(fx.creds.created) != 0 {
		t.Fatalf("no credential may be written for a rejected role")
	}
}

func TestAuthService_SignUpStoresHashedPassword(t *testing.T) {
	provisioned := make(chan *domain.Profile, 1)
	profiles := &profileRepoStub{
		create: func(_ context.Context, p *domain.Profile) (*domain.Profile, error) {
			provisioned <- p
			return p, nil
		},
	}
	fx := newAuthFixture(profiles)

	if err := fx.service.SignUp(context.Background(), "ravi@school.edu", "password123", "Ravi Kumar", domain.RoleStudent); err != nil {
		t.Fatalf("signup: %v", err)
	}

	if len(fx.creds.created) != 1 {
		t.Fatalf("expected one credential, got %d", len(fx.creds.created))
	}
	cred := fx.creds.created[0]
	if cred.PasswordHash == "password123" {
		t.Fatalf("password stored in plain text")
	}
	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte("password123")) != nil {
		t.Fatalf("stored hash does not verify")
	}

	select {
	case p := <-provisioned:
		if p.ID != cred.UserID || p.Role != domain.RoleStudent {
			t.Fatalf("unexpected provisioned profile %+v", p)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("profile was never provisioned")
	}
}

func TestAuthService_SignUpDuplicateEmail(t *testing.T) {
	fx := newAuthFixture(&profileRepoStub{})

	if err := fx.service.SignUp(context.Background(), "ravi@school.edu", "password123", "Ravi", domain.RoleStudent); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	err := fx.service.SignUp(context.Background(), "ravi@school.edu", "different456", "Ravi", domain.RoleStudent)
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_LoginSuccessIssuesVerifiableToken(t *testing.T) {
	fx := newAuthFixture(studentProfileRepo(domain.RoleStudent))
	fx.creds.byEmail["ravi@school.edu"] = &domain.Credential{
		UserID:       "u1",
		Email:        "ravi@school.edu",
		PasswordHash: hashPassword(t, "password123"),
	}

	result, err := fx.service.Login(context.Background(), "ravi@school.edu", "password123", domain.RoleStudent)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.Fallback {
		t.Fatalf("unexpected fallback")
	}
	if result.User == nil || result.User.Name != "Ravi Kumar" {
		t.Fatalf("unexpected user %+v", result.User)
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(result.Token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !tkn.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		t.Fatalf("token missing session reference")
	}
	sess, err := fx.sessions.Find(context.Background(), sid)
	if err != nil {
		t.Fatalf("referenced session not live: %v", err)
	}
	if sess.Role != domain.RoleStudent {
		t.Fatalf("session role not stamped, got %q", sess.Role)
	}
}

func TestAuthService_LoginWrongPasswordLeavesNoSession(t *testing.T) {
	fx := newAuthFixture(studentProfileRepo(domain.RoleStudent))
	fx.creds.byEmail["ravi@school.edu"] = &domain.Credential{
		UserID:       "u1",
		Email:        "ravi@school.edu",
		PasswordHash: hashPassword(t, "password123"),
	}

	_, err := fx.service.Login(context.Background(), "ravi@school.edu", "wrong", domain.RoleStudent)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if fx.sessions.live() != 0 {
		t.Fatalf("failed login left a live session")
	}
}

func TestAuthService_LoginUnknownEmail(t *testing.T) {
	fx := newAuthFixture(studentProfileRepo(domain.RoleStudent))

	_, err := fx.service.Login(context.Background(), "nobody@school.edu", "password123", domain.RoleStudent)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if fx.sessions.live() != 0 {
		t.Fatalf("failed login left a live session")
	}
}

func TestAuthService_LoginRoleMismatchRevokesSession(t *testing.T) {
	// Stored role is TEACHER; the student entry point is used.
	fx := newAuthFixture(studentProfileRepo(domain.RoleTeacher))
	fx.creds.byEmail["ravi@school.edu"] = &domain.Credential{
		UserID:       "u1",
		Email:        "ravi@school.edu",
		PasswordHash: hashPassword(t, "password123"),
	}

	_, err := fx.service.Login(context.Background(), "ravi@school.edu", "password123", domain.RoleStudent)
	var rm *domain.RoleMismatchError
	if !errors.As(err, &rm) {
		t.Fatalf("expected RoleMismatchError, got %v", err)
	}
	if rm.Expected != domain.RoleStudent || rm.Actual != domain.RoleTeacher {
		t.Fatalf("unexpected mismatch %+v", rm)
	}
	if fx.sessions.live() != 0 {
		t.Fatalf("mismatch login left a live session")
	}
	if len(fx.sessions.deleted) == 0 {
		t.Fatalf("session was never revoked")
	}
}

func TestAuthService_SignOutRevokesSession(t *testing.T) {
	fx := newAuthFixture(studentProfileRepo(domain.RoleStudent))
	fx.sessions.Create(context.Background(), &domain.Session{ID: "s1", UserID: "u1"})

	if err := fx.service.SignOut(context.Background(), "s1"); err != nil {
		t.Fatalf("signout: %v", err)
	}
	if _, err := fx.sessions.Find(context.Background(), "s1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("session still live after signout")
	}
}

func TestAuthService_OAuthCallbackRejectsUnknownState(t *testing.T) {
	fx := newAuthFixture(&profileRepoStub{})

	_, err := fx.service.OAuthCallback(context.Background(), "forged", "code")
	if !errors.Is(err, domain.ErrOAuthState) {
		t.Fatalf("expected ErrOAuthState, got %v", err)
	}
}

func TestAuthService_OAuthCallbackProvisionsNewStudent(t *testing.T) {
	var created *domain.Profile
	profiles := &profileRepoStub{
		create: func(_ context.Context, p *domain.Profile) (*domain.Profile, error) {
			created = p
			return p, nil
		},
		findByID: func(_ context.Context, id string) (*domain.Profile, error) {
			if created != nil && created.ID == id {
				return created, nil
			}
			return nil, domain.ErrProfileNotFound
		},
	}
	fx := newAuthFixture(profiles)
	fx.oauth.identity = &ports.OAuthIdentity{
		Subject: "108",
		Email:   "ravi@gmail.com",
		Name:    "Ravi Kumar",
		Avatar:  "https://lh3.example.com/p.jpg",
	}

	url, err := fx.service.OAuthURL(context.Background())
	if err != nil || url == "" {
		t.Fatalf("oauth url: %v", err)
	}

	result, err := fx.service.OAuthCallback(context.Background(), "state-1", "code")
	if err != nil {
		t.Fatalf("callback: %v", err)
	}
	if created == nil || created.ID != "g-108" {
		t.Fatalf("expected provisioned profile g-108, got %+v", created)
	}
	if created.Role != domain.RoleStudent {
		t.Fatalf("new oauth identity must default to student, got %s", created.Role)
	}
	if result.Session.Role != domain.RoleStudent {
		t.Fatalf("session role not stamped, got %q", result.Session.Role)
	}
	if result.Token == "" {
		t.Fatalf("expected a token")
	}
}

func TestAuthService_OAuthStateIsSingleUse(t *testing.T) {
	fx := newAuthFixture(studentProfileRepo(domain.RoleStudent))
	fx.oauth.identity = &ports.OAuthIdentity{Subject: "108", Email: "ravi@gmail.com"}

	if _, err := fx.service.OAuthURL(context.Background()); err != nil {
		t.Fatalf("oauth url: %v", err)
	}
	if _, err := fx.service.OAuthCallback(context.Background(), "state-1", "code"); err != nil {
		t.Fatalf("first redeem: %v", err)
	}
	if _, err := fx.service.OAuthCallback(context.Background(), "state-1", "code"); !errors.Is(err, domain.ErrOAuthState) {
		t.Fatalf("expected replayed state to fail, got %v", err)
	}
}
