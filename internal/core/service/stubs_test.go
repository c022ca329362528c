package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/bethwel3001/Eco-mission/internal/core/domain"
	"github.com/bethwel3001/Eco-mission/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories. They mirror the Mongo adapters' semantics,
// including the revision check in ApplyLedgerChange.
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu     sync.Mutex
	users  map[string]*domain.User
	nextID int

	// beforeCommit, if set, runs inside ApplyLedgerChange before the revision
	// check. Tests use it to simulate a concurrent writer.
	beforeCommit func(userID string)
	commitErr    error
	commits      int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.CompletedMissions = slices.Clone(u.CompletedMissions)
	clone.PendingEvents = slices.Clone(u.PendingEvents)
	return &clone
}

// put stores a user directly, bypassing registration.
func (r *stubUserRepo) put(u *domain.User) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = cloneUser(u)
	return u
}

func (r *stubUserRepo) get(id string) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneUser(r.users[id])
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	c := cloneUser(user)
	c.ID = fmt.Sprintf("user-%d", r.nextID)
	r.users[c.ID] = c
	return cloneUser(c), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ApplyLedgerChange(_ context.Context, userID string, expectedRevision int64, change domain.LedgerChange) (*domain.User, error) {
	if r.beforeCommit != nil {
		r.beforeCommit(userID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.commitErr != nil {
		return nil, r.commitErr
	}
	u, ok := r.users[userID]
	if !ok || u.Revision != expectedRevision {
		return nil, domain.ErrRevisionConflict
	}
	if change.AddMission != "" && u.HasCompleted(change.AddMission) {
		return nil, domain.ErrRevisionConflict
	}

	u.Points += change.PointsDelta
	u.PlanetHealth = change.NewHealth
	u.Revision++
	if change.AddMission != "" {
		u.CompletedMissions = append(u.CompletedMissions, change.AddMission)
	}
	if change.Pending != nil {
		u.PendingEvents = append(u.PendingEvents, *change.Pending)
	}
	r.commits++
	return cloneUser(u), nil
}

func (r *stubUserRepo) ClearPendingEvent(_ context.Context, userID, eventID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PendingEvents = slices.DeleteFunc(u.PendingEvents, func(e domain.AnalyticsEvent) bool {
		return e.ID == eventID
	})
	return nil
}

func (r *stubUserRepo) ListTop(_ context.Context, n int) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, cloneUser(u))
	}
	sort.Slice(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if !a.JoinedAt.Equal(b.JoinedAt) {
			return a.JoinedAt.Before(b.JoinedAt)
		}
		return a.ID < b.ID
	})
	if len(all) > n {
		all = all[:n]
	}
	return all, nil
}

func (r *stubUserRepo) ListIDsAboveHealth(_ context.Context, floor float64) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for id, u := range r.users {
		if u.PlanetHealth > floor {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

type stubMissionRepo struct {
	mu       sync.Mutex
	missions map[string]*domain.Mission
	findErr  error
}

func newStubMissionRepo(missions ...*domain.Mission) *stubMissionRepo {
	r := &stubMissionRepo{missions: make(map[string]*domain.Mission)}
	for _, m := range missions {
		clone := *m
		r.missions[m.ID] = &clone
	}
	return r
}

func (r *stubMissionRepo) Create(_ context.Context, m *domain.Mission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.missions[m.ID]; ok {
		return domain.ErrMissionExists
	}
	clone := *m
	r.missions[m.ID] = &clone
	return nil
}

func (r *stubMissionRepo) InsertMissing(ctx context.Context, m *domain.Mission) (bool, error) {
	err := r.Create(ctx, m)
	if errors.Is(err, domain.ErrMissionExists) {
		return false, nil
	}
	return err == nil, err
}

func (r *stubMissionRepo) FindByID(_ context.Context, id string) (*domain.Mission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	m, ok := r.missions[id]
	if !ok {
		return nil, domain.ErrMissionNotFound
	}
	clone := *m
	return &clone, nil
}

func (r *stubMissionRepo) ListActive(_ context.Context) ([]*domain.Mission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Mission
	for _, m := range r.missions {
		if m.IsActive {
			clone := *m
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubMissionRepo) Deactivate(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.missions[id]
	if !ok {
		return domain.ErrMissionNotFound
	}
	m.IsActive = false
	return nil
}

type stubAnalyticsRepo struct {
	mu        sync.Mutex
	events    map[string]domain.AnalyticsEvent
	insertErr error
	inserts   int
}

func newStubAnalyticsRepo() *stubAnalyticsRepo {
	return &stubAnalyticsRepo{events: make(map[string]domain.AnalyticsEvent)}
}

func (r *stubAnalyticsRepo) Insert(_ context.Context, e *domain.AnalyticsEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserts++
	if _, ok := r.events[e.ID]; !ok {
		r.events[e.ID] = *e
	}
	return nil
}

func (r *stubAnalyticsRepo) forUser(userID string, since time.Time) []domain.AnalyticsEvent {
	var out []domain.AnalyticsEvent
	for _, e := range r.events {
		if e.UserID == userID && !e.Timestamp.Before(since) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out
}

func (r *stubAnalyticsRepo) Recent(_ context.Context, userID string, limit int) ([]domain.AnalyticsEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.forUser(userID, time.Time{})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubAnalyticsRepo) Totals(_ context.Context, userID string, since time.Time) (domain.AnalyticsTotals, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var t domain.AnalyticsTotals
	for _, e := range r.forUser(userID, since) {
		t.Add(e)
	}
	t.TreesEquivalent = 0
	return t, nil
}

func (r *stubAnalyticsRepo) Daily(_ context.Context, userID string, since time.Time) ([]domain.DailyImpact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byDay := make(map[string]*domain.DailyImpact)
	for _, e := range r.forUser(userID, since) {
		d := e.Timestamp.UTC().Format(time.DateOnly)
		row, ok := byDay[d]
		if !ok {
			row = &domain.DailyImpact{Date: d}
			byDay[d] = row
		}
		row.PointsEarned += e.PointsEarned
		row.CO2Saved += e.Impact.CO2
		row.Events++
	}
	out := make([]domain.DailyImpact, 0, len(byDay))
	for _, row := range byDay {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// ---------------------------------------------------------------------------
// Collaborator stubs
// ---------------------------------------------------------------------------

// keyedSerializer runs functions inline, one at a time per key.
type keyedSerializer struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
	calls int
}

func newKeyedSerializer() *keyedSerializer {
	return &keyedSerializer{locks: make(map[string]*sync.Mutex)}
}

func (s *keyedSerializer) Do(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	s.calls++
	s.mu.Unlock()

	l.Lock()
	defer l.Unlock()
	return fn(ctx)
}

type stubLeaderboard struct {
	mu          sync.Mutex
	invalidated int
}

func (l *stubLeaderboard) Top(context.Context, int) ([]ports.RankedUser, error) { return nil, nil }

func (l *stubLeaderboard) Invalidate(context.Context) {
	l.mu.Lock()
	l.invalidated++
	l.mu.Unlock()
}

type stubLeaderboardCache struct {
	rows        map[int][]ports.RankedUser
	getErr      error
	sets        int
	invalidated int
}

func newStubLeaderboardCache() *stubLeaderboardCache {
	return &stubLeaderboardCache{rows: make(map[int][]ports.RankedUser)}
}

func (c *stubLeaderboardCache) Get(_ context.Context, n int) ([]ports.RankedUser, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	rows, ok := c.rows[n]
	return rows, ok, nil
}

func (c *stubLeaderboardCache) Set(_ context.Context, n int, rows []ports.RankedUser) error {
	c.sets++
	c.rows[n] = rows
	return nil
}

func (c *stubLeaderboardCache) Invalidate(context.Context) error {
	c.invalidated++
	c.rows = make(map[int][]ports.RankedUser)
	return nil
}

type stubNotifier struct {
	alerts []ports.PlanetAlert
	err    error
}

func (n *stubNotifier) PlanetCritical(_ context.Context, alert ports.PlanetAlert) error {
	if n.err != nil {
		return n.err
	}
	n.alerts = append(n.alerts, alert)
	return nil
}

type stubDenylist struct {
	revoked map[string]time.Duration
}

func newStubDenylist() *stubDenylist {
	return &stubDenylist{revoked: make(map[string]time.Duration)}
}

func (d *stubDenylist) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	d.revoked[tokenID] = ttl
	return nil
}

func (d *stubDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, ok := d.revoked[tokenID]
	return ok, nil
}
