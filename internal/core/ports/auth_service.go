package ports

import (
	"context"

	"github.com/kvision/portal-api/internal/core/domain"
)

// LoginResult is returned once a login fully completes: credentials
// verified, claimed role confirmed, and profile resolution finished, so the
// caller can rely on User being populated before navigating onward.
type LoginResult struct {
	Token   string
	Session *domain.Session
	User    *domain.Profile
	// Fallback is true when the profile row never became visible and the
	// user was synthesized from session metadata.
	Fallback bool
}

// OAuthIdentity is the subject returned by the OAuth provider after a
// successful code exchange.
type OAuthIdentity struct {
	Subject string
	Email   string
	Name    string
	Avatar  string
}

// OAuthProvider abstracts the external OAuth flow (redirect URL + code
// exchange + userinfo fetch).
type OAuthProvider interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*OAuthIdentity, error)
}

// AuthService implements sign-up, role-gated login, OAuth login and
// sign-out.
type AuthService interface {
	// SignUp registers a STUDENT credential. Any other claimed role fails
	// with domain.ErrRoleNotAllowed before any backend write.
	SignUp(ctx context.Context, email, password, name string, claimedRole domain.Role) error
	// Login authenticates and enforces that the stored role matches the
	// role of the entry point used. On mismatch the freshly created
	// session is revoked before the error is returned.
	Login(ctx context.Context, email, password string, claimedRole domain.Role) (*LoginResult, error)
	// OAuthURL issues a single-use state and returns the provider
	// redirect URL.
	OAuthURL(ctx context.Context) (string, error)
	// OAuthCallback redeems the state, exchanges the code and completes
	// login. No role check happens here; new identities default to
	// STUDENT.
	OAuthCallback(ctx context.Context, state, code string) (*LoginResult, error)
	// Resolve turns an existing session into application user state
	// (bootstrap path, used by GET /auth/session).
	Resolve(ctx context.Context, session *domain.Session) *domain.Profile
	SignOut(ctx context.Context, sessionID string) error
}
