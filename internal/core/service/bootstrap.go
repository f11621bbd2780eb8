package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/kvision/portal-api/internal/core/domain"
	"github.com/kvision/portal-api/internal/core/ports"
	"github.com/kvision/portal-api/internal/metrics"
)

const (
	// One initial lookup plus up to three delayed retries.
	defaultMaxAttempts   = 4
	defaultRetryDelay    = time.Second
	defaultSafetyTimeout = 6 * time.Second
)

// resolveState is the explicit state of one profile resolution.
type resolveState int

const (
	stateResolving resolveState = iota
	stateResolved
	stateFallbackApplied
)

// ProfileResolver converts an auth session into application user state.
//
// The profile row is created by a provisioning step that races the first
// login, so a missing row is retried a bounded number of times with a fixed
// delay before a STUDENT user is synthesized from session metadata. The
// whole resolution is capped by a safety timeout; Resolve never errors and
// never blocks indefinitely.
type ProfileResolver struct {
	profiles ports.ProfileRepository
	clock    ports.Clock
	log      zerolog.Logger
	group    singleflight.Group

	maxAttempts   int
	retryDelay    time.Duration
	safetyTimeout time.Duration
}

func NewProfileResolver(profiles ports.ProfileRepository, clock ports.Clock, log zerolog.Logger) *ProfileResolver {
	return &ProfileResolver{
		profiles:      profiles,
		clock:         clock,
		log:           log,
		maxAttempts:   defaultMaxAttempts,
		retryDelay:    defaultRetryDelay,
		safetyTimeout: defaultSafetyTimeout,
	}
}

type resolveResult struct {
	user     *domain.Profile
	fallback bool
}

// Resolve looks up the session's profile and returns the application user.
// The second return value is true when the fallback user was synthesized.
// Concurrent calls for the same session ID coalesce onto one in-flight
// resolution.
func (r *ProfileResolver) Resolve(ctx context.Context, session *domain.Session) (*domain.Profile, bool) {
	v, _, _ := r.group.Do(session.ID, func() (any, error) {
		ctx, cancel := context.WithTimeout(ctx, r.safetyTimeout)
		defer cancel()
		user, fallback := r.run(ctx, session)
		return resolveResult{user: user, fallback: fallback}, nil
	})
	res := v.(resolveResult)
	return res.user, res.fallback
}

// run drives the {Resolving(attempt), Resolved, FallbackApplied} machine.
// Attempts are strictly sequential with a fixed inter-attempt delay.
func (r *ProfileResolver) run(ctx context.Context, session *domain.Session) (*domain.Profile, bool) {
	state := stateResolving
	var resolved *domain.Profile

	for attempt := 1; state == stateResolving; attempt++ {
		profile, err := r.profiles.FindByID(ctx, session.UserID)
		switch {
		case err == nil:
			resolved = profile
			state = stateResolved

		case attempt >= r.maxAttempts || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
			state = stateFallbackApplied

		default:
			if !errors.Is(err, domain.ErrProfileNotFound) {
				r.log.Warn().Err(err).Str("user_id", session.UserID).Int("attempt", attempt).Msg("profile lookup failed, retrying")
			}
			if r.clock.Sleep(ctx, r.retryDelay) != nil {
				// Safety timeout fired mid-delay.
				state = stateFallbackApplied
			}
		}
	}

	if state == stateResolved {
		return r.merge(session, resolved), false
	}

	metrics.BootstrapFallbacksTotal.Inc()
	r.log.Warn().Str("user_id", session.UserID).Msg("profile never became visible, applying student fallback")
	return r.fallbackUser(session), true
}

// merge fills any missing optional profile fields from session metadata.
func (r *ProfileResolver) merge(session *domain.Session, p *domain.Profile) *domain.Profile {
	out := *p
	if out.Name == "" {
		out.Name = session.FallbackName()
	}
	if out.Email == "" {
		out.Email = session.Email
	}
	if out.Avatar == "" {
		if session.Avatar != "" {
			out.Avatar = session.Avatar
		} else {
			out.Avatar = domain.DefaultAvatarURL(out.Name)
		}
	}
	return &out
}

// fallbackUser synthesizes a STUDENT user from session metadata alone.
func (r *ProfileResolver) fallbackUser(session *domain.Session) *domain.Profile {
	name := session.FallbackName()
	avatar := session.Avatar
	if avatar == "" {
		avatar = domain.DefaultAvatarURL(name)
	}
	return &domain.Profile{
		ID:     session.UserID,
		Name:   name,
		Email:  session.Email,
		Role:   domain.RoleStudent,
		Avatar: avatar,
	}
}
