package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/kvision/portal-api/internal/core/domain"
	"github.com/kvision/portal-api/internal/core/ports"
)

const provisionTimeout = 10 * time.Second

// AuthService implements sign-up, role-gated login and sign-out on top of a
// revocable session store. Logins through a role-specific entry point must
// match the stored role; a mismatch revokes the freshly created session
// before the error surfaces, so no failure path leaves a live session.
type AuthService struct {
	creds    ports.CredentialRepository
	profiles ports.ProfileRepository
	sessions ports.SessionStore
	states   ports.OAuthStateStore
	oauth    ports.OAuthProvider
	resolver *ProfileResolver
	clock    ports.Clock
	log      zerolog.Logger

	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(
	creds ports.CredentialRepository,
	profiles ports.ProfileRepository,
	sessions ports.SessionStore,
	states ports.OAuthStateStore,
	oauth ports.OAuthProvider,
	resolver *ProfileResolver,
	clock ports.Clock,
	log zerolog.Logger,
	jwtSecret string,
	tokenTTL time.Duration,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		creds:     creds,
		profiles:  profiles,
		sessions:  sessions,
		states:    states,
		oauth:     oauth,
		resolver:  resolver,
		clock:     clock,
		log:       log,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

// SignUp registers a new student credential. The role check runs before any
// backend write: only STUDENT self-registration is permitted from this
// entry point.
func (s *AuthService) SignUp(ctx context.Context, email, password, name string, claimedRole domain.Role) error {
	if claimedRole != domain.RoleStudent {
		return domain.ErrRoleNotAllowed
	}
	if email == "" || password == "" {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	cred := &domain.Credential{
		UserID:       uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.clock.Now(),
	}
	if _, err := s.creds.Create(ctx, cred); err != nil {
		return err
	}

	// The profile row is provisioned out of band, mirroring a database
	// trigger: the first login may observe a window where the credential
	// exists but the profile does not. The resolver absorbs that lag.
	go s.provisionProfile(cred, name)

	return nil
}

func (s *AuthService) provisionProfile(cred *domain.Credential, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), provisionTimeout)
	defer cancel()

	now := s.clock.Now()
	profile := &domain.Profile{
		ID:        cred.UserID,
		Name:      name,
		Email:     cred.Email,
		Role:      domain.RoleStudent,
		Avatar:    domain.DefaultAvatarURL(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.profiles.Create(ctx, profile); err != nil {
		s.log.Error().Err(err).Str("user_id", cred.UserID).Msg("profile provisioning failed")
	}
}

// Login authenticates the credentials, enforces the claimed role against
// the stored one, and only reports success once profile resolution has
// completed.
func (s *AuthService) Login(ctx context.Context, email, password string, claimedRole domain.Role) (*ports.LoginResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	cred, err := s.creds.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	session, err := s.createSession(ctx, cred.UserID, cred.Email, "", "")
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.FindByID(ctx, cred.UserID)
	if err != nil {
		// The session must not remain active when the role cannot be
		// confirmed.
		s.revoke(ctx, session.ID)
		return nil, err
	}
	if profile.Role != claimedRole {
		s.revoke(ctx, session.ID)
		s.log.Warn().
			Str("user_id", cred.UserID).
			Str("claimed", string(claimedRole)).
			Str("stored", string(profile.Role)).
			Msg("role mismatch, session revoked")
		return nil, &domain.RoleMismatchError{Expected: claimedRole, Actual: profile.Role}
	}

	return s.complete(ctx, session, profile.Role)
}

// OAuthURL issues a single-use state and returns the provider redirect URL.
func (s *AuthService) OAuthURL(ctx context.Context) (string, error) {
	state, err := s.states.Issue(ctx)
	if err != nil {
		return "", err
	}
	return s.oauth.AuthURL(state), nil
}

// OAuthCallback completes an OAuth login. No role check happens here: the
// role is whatever the resolved profile holds, defaulting to STUDENT for
// first-time identities.
func (s *AuthService) OAuthCallback(ctx context.Context, state, code string) (*ports.LoginResult, error) {
	if err := s.states.Redeem(ctx, state); err != nil {
		return nil, domain.ErrOAuthState
	}

	identity, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	userID := "g-" + identity.Subject
	role := domain.RoleStudent
	if profile, err := s.profiles.FindByID(ctx, userID); err == nil {
		role = profile.Role
	} else {
		now := s.clock.Now()
		_, err := s.profiles.Create(ctx, &domain.Profile{
			ID:        userID,
			Name:      identity.Name,
			Email:     identity.Email,
			Role:      domain.RoleStudent,
			Avatar:    identity.Avatar,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			s.log.Warn().Err(err).Str("user_id", userID).Msg("oauth profile creation failed, resolver will fall back")
		}
	}

	session, err := s.createSession(ctx, userID, identity.Email, identity.Name, identity.Avatar)
	if err != nil {
		return nil, err
	}
	return s.complete(ctx, session, role)
}

// Resolve turns an existing session into application user state.
func (s *AuthService) Resolve(ctx context.Context, session *domain.Session) *domain.Profile {
	user, _ := s.resolver.Resolve(ctx, session)
	return user
}

// SignOut revokes the session immediately.
func (s *AuthService) SignOut(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

func (s *AuthService) createSession(ctx context.Context, userID, email, name, avatar string) (*domain.Session, error) {
	now := s.clock.Now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Email:     email,
		Name:      name,
		Avatar:    avatar,
		CreatedAt: now,
		ExpiresAt: now.Add(s.tokenTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// complete stamps the confirmed role onto the session, resolves the user
// and issues the access token.
func (s *AuthService) complete(ctx context.Context, session *domain.Session, role domain.Role) (*ports.LoginResult, error) {
	session.Role = role
	if err := s.sessions.Create(ctx, session); err != nil {
		s.revoke(ctx, session.ID)
		return nil, err
	}

	user, fallback := s.resolver.Resolve(ctx, session)

	token, err := s.generateToken(session)
	if err != nil {
		s.revoke(ctx, session.ID)
		return nil, err
	}

	return &ports.LoginResult{
		Token:    token,
		Session:  session,
		User:     user,
		Fallback: fallback,
	}, nil
}

func (s *AuthService) revoke(ctx context.Context, sessionID string) {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		s.log.Error().Err(err).Str("session_id", sessionID).Msg("session revocation failed")
	}
}

func (s *AuthService) generateToken(session *domain.Session) (string, error) {
	claims := jwt.MapClaims{
		"sub":   session.UserID,
		"sid":   session.ID,
		"email": session.Email,
		"role":  string(session.Role),
		"exp":   session.ExpiresAt.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
