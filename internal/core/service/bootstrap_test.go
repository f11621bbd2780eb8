package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/kvision/portal-api/internal/core/domain"
	"github.com/kvision/portal-api/internal/core/ports"
)

// fakeClock returns a fixed time and records requested sleeps without
// actually waiting.
type fakeClock struct {
	mu       sync.Mutex
	now      time.Time
	sleeps   []time.Duration
	sleepErr error
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Now().UTC().Truncate(time.Second)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	c.mu.Lock()
	c.sleeps = append(c.sleeps, d)
	c.mu.Unlock()
	if c.sleepErr != nil {
		return c.sleepErr
	}
	return ctx.Err()
}

func (c *fakeClock) sleepCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sleeps)
}

// profileRepoStub delegates to function fields; unset fields report a
// missing row.
type profileRepoStub struct {
	findByID   func(ctx context.Context, id string) (*domain.Profile, error)
	create     func(ctx context.Context, p *domain.Profile) (*domain.Profile, error)
	update     func(ctx context.Context, id string, patch ports.ProfilePatch) (*domain.Profile, error)
	listExcept func(ctx context.Context, excludeID string) ([]*domain.Profile, error)
}

func (s *profileRepoStub) FindByID(ctx context.Context, id string) (*domain.Profile, error) {
	if s.findByID == nil {
		return nil, domain.ErrProfileNotFound
	}
	return s.findByID(ctx, id)
}

func (s *profileRepoStub) Create(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	if s.create == nil {
		return p, nil
	}
	return s.create(ctx, p)
}

func (s *profileRepoStub) Update(ctx context.Context, id string, patch ports.ProfilePatch) (*domain.Profile, error) {
	if s.update == nil {
		return nil, domain.ErrProfileNotFound
	}
	return s.update(ctx, id, patch)
}

func (s *profileRepoStub) ListExcept(ctx context.Context, excludeID string) ([]*domain.Profile, error) {
	if s.listExcept == nil {
		return nil, nil
	}
	return s.listExcept(ctx, excludeID)
}

func testSession() *domain.Session {
	return &domain.Session{
		ID:     "sess-1",
		UserID: "u1",
		Email:  "ravi.kumar@school.edu",
	}
}

func TestProfileResolver_ResolvesFirstAttempt(t *testing.T) {
	repo := &profileRepoStub{
		findByID: func(_ context.Context, id string) (*domain.Profile, error) {
			return &domain.Profile{ID: id, Name: "Ravi Kumar", Email: "ravi.kumar@school.edu", Role: domain.RoleStudent}, nil
		},
	}
	clock := newFakeClock()
	r := NewProfileResolver(repo, clock, zerolog.Nop())

	user, fallback := r.Resolve(context.Background(), testSession())
	if fallback {
		t.Fatalf("unexpected fallback")
	}
	if user.Name != "Ravi Kumar" {
		t.Fatalf("unexpected name %q", user.Name)
	}
	if clock.sleepCount() != 0 {
		t.Fatalf("expected no retries, slept %d times", clock.sleepCount())
	}
}

func TestProfileResolver_RetriesThenResolves(t *testing.T) {
	var calls int32
	repo := &profileRepoStub{
		findByID: func(_ context.Context, id string) (*domain.Profile, error) {
			if atomic.AddInt32(&calls, 1) < 3 {
				return nil, domain.ErrProfileNotFound
			}
			return &domain.Profile{ID: id, Name: "Ravi", Role: domain.RoleStudent}, nil
		},
	}
	clock := newFakeClock()
	r := NewProfileResolver(repo, clock, zerolog.Nop())

	user, fallback := r.Resolve(context.Background(), testSession())
	if fallback {
		t.Fatalf("unexpected fallback")
	}
	if user == nil || user.Name != "Ravi" {
		t.Fatalf("unexpected user %+v", user)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("expected 3 lookups, got %d", got)
	}
	if clock.sleepCount() != 2 {
		t.Fatalf("expected 2 delays, got %d", clock.sleepCount())
	}
}

func TestProfileResolver_FallbackAfterBoundedRetries(t *testing.T) {
	var calls int32
	repo := &profileRepoStub{
		findByID: func(context.Context, string) (*domain.Profile, error) {
			atomic.AddInt32(&calls, 1)
			return nil, domain.ErrProfileNotFound
		},
	}
	clock := newFakeClock()
	r := NewProfileResolver(repo, clock, zerolog.Nop())

	user, fallback := r.Resolve(context.Background(), testSession())
	if !fallback {
		t.Fatalf("expected fallback")
	}
	if got := atomic.LoadInt32(&calls); got != 4 {
		t.Fatalf("expected 4 lookups (1 initial + 3 retries), got %d", got)
	}
	if clock.sleepCount() != 3 {
		t.Fatalf("expected 3 delays, got %d", clock.sleepCount())
	}
	if user.Role != domain.RoleStudent {
		t.Fatalf("fallback user must be a student, got %s", user.Role)
	}
	if user.Name != "ravi.kumar" {
		t.Fatalf("expected email local part as name, got %q", user.Name)
	}
	if user.ID != "u1" || user.Email != "ravi.kumar@school.edu" {
		t.Fatalf("fallback user lost session identity: %+v", user)
	}
	if user.Avatar == "" {
		t.Fatalf("fallback user must carry a generated avatar")
	}
}

func TestProfileResolver_SafetyTimeoutDuringLookup(t *testing.T) {
	var calls int32
	repo := &profileRepoStub{
		findByID: func(context.Context, string) (*domain.Profile, error) {
			atomic.AddInt32(&calls, 1)
			return nil, context.DeadlineExceeded
		},
	}
	clock := newFakeClock()
	r := NewProfileResolver(repo, clock, zerolog.Nop())

	user, fallback := r.Resolve(context.Background(), testSession())
	if !fallback {
		t.Fatalf("expected fallback once the deadline fired")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected no further lookups after the deadline, got %d", got)
	}
	if clock.sleepCount() != 0 {
		t.Fatalf("expected no delays after the deadline, slept %d times", clock.sleepCount())
	}
	if user.Role != domain.RoleStudent {
		t.Fatalf("fallback user must be a student, got %s", user.Role)
	}
}

func TestProfileResolver_SafetyTimeoutDuringDelay(t *testing.T) {
	var calls int32
	repo := &profileRepoStub{
		findByID: func(context.Context, string) (*domain.Profile, error) {
			atomic.AddInt32(&calls, 1)
			return nil, domain.ErrProfileNotFound
		},
	}
	clock := newFakeClock()
	clock.sleepErr = context.DeadlineExceeded
	r := NewProfileResolver(repo, clock, zerolog.Nop())

	user, fallback := r.Resolve(context.Background(), testSession())
	if !fallback {
		t.Fatalf("expected fallback once the delay was interrupted")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected the interrupted delay to end resolution, got %d lookups", got)
	}
	if clock.sleepCount() != 1 {
		t.Fatalf("expected exactly 1 interrupted delay, got %d", clock.sleepCount())
	}
	if user.ID != "u1" || user.Role != domain.RoleStudent {
		t.Fatalf("unexpected fallback user %+v", user)
	}
}

func TestProfileResolver_MergeFillsMissingFields(t *testing.T) {
	repo := &profileRepoStub{
		findByID: func(_ context.Context, id string) (*domain.Profile, error) {
			// Row exists but the optional fields were never filled in.
			return &domain.Profile{ID: id, Role: domain.RoleTeacher}, nil
		},
	}
	r := NewProfileResolver(repo, newFakeClock(), zerolog.Nop())

	session := testSession()
	session.Avatar = "https://example.com/pic.png"
	user, fallback := r.Resolve(context.Background(), session)
	if fallback {
		t.Fatalf("unexpected fallback")
	}
	if user.Name != "ravi.kumar" {
		t.Fatalf("expected session-derived name, got %q", user.Name)
	}
	if user.Email != session.Email {
		t.Fatalf("expected session email, got %q", user.Email)
	}
	if user.Avatar != session.Avatar {
		t.Fatalf("expected session avatar, got %q", user.Avatar)
	}
	if user.Role != domain.RoleTeacher {
		t.Fatalf("stored role must survive the merge, got %s", user.Role)
	}
}

func TestProfileResolver_CoalescesConcurrentResolutions(t *testing.T) {
	gate := make(chan struct{})
	var calls int32
	repo := &profileRepoStub{
		findByID: func(_ context.Context, id string) (*domain.Profile, error) {
			atomic.AddInt32(&calls, 1)
			<-gate
			return &domain.Profile{ID: id, Name: "Ravi", Role: domain.RoleStudent}, nil
		},
	}
	r := NewProfileResolver(repo, newFakeClock(), zerolog.Nop())

	session := testSession()
	var wg sync.WaitGroup
	started := make(chan struct{}, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			started <- struct{}{}
			if _, fallback := r.Resolve(context.Background(), session); fallback {
				t.Errorf("unexpected fallback")
			}
		}()
	}
	<-started
	<-started
	// Both callers are in flight; let the single lookup finish.
	time.Sleep(10 * time.Millisecond)
	close(gate)
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected one coalesced lookup, got %d", got)
	}
}

func TestProfileResolver_UnexpectedErrorStillRetries(t *testing.T) {
	var calls int32
	repo := &profileRepoStub{
		findByID: func(context.Context, string) (*domain.Profile, error) {
			atomic.AddInt32(&calls, 1)
			return nil, errors.New("connection reset")
		},
	}
	clock := newFakeClock()
	r := NewProfileResolver(repo, clock, zerolog.Nop())

	user, fallback := r.Resolve(context.Background(), testSession())
	if !fallback {
		t.Fatalf("expected fallback")
	}
	if user == nil {
		t.Fatalf("resolution must always produce a user")
	}
	if got := atomic.LoadInt32(&calls); got != 4 {
		t.Fatalf("expected the full retry budget, got %d lookups", got)
	}
}
