// README: Session manager owns per-user session contexts and their datasets.
package session

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"farecast/internal/modules/trips"
	"farecast/internal/types"
)

var (
	sessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "farecast_sessions_active",
		Help: "Number of open sessions.",
	})
	loadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "farecast_session_loads_total",
		Help: "Dataset load attempts by outcome.",
	}, []string{"outcome"})
)

// Session is one user's context. Its mutex serialises the load/estimate pipeline.
type Session struct {
	id        types.ID
	createdAt time.Time
	lastSeen  atomic.Int64

	mu       sync.Mutex
	state    State
	table    *trips.Table
	source   string
	loadedAt time.Time
}

func (s *Session) ID() types.ID { return s.id }

func (s *Session) touch(now time.Time) { s.lastSeen.Store(now.UnixNano()) }

func (s *Session) info() Info {
	in := Info{ID: s.id, State: s.state, Source: s.source, CreatedAt: s.createdAt, LoadedAt: s.loadedAt}
	if s.table != nil {
		in.Provider = s.table.Provider()
		in.Records = s.table.Len()
		in.RawRows = s.table.RawRows()
		in.Products = s.table.Products()
	}
	return in
}

type Manager struct {
	mu       sync.RWMutex
	sessions map[types.ID]*Session
	opts     trips.LoadOptions
	idleTTL  time.Duration
	now      func() time.Time
}

// NewManager creates a manager. Sessions idle longer than idleTTL are expired by
// the janitor; an idleTTL of 0 keeps sessions until closed.
func NewManager(opts trips.LoadOptions, idleTTL time.Duration) *Manager {
	return &Manager{
		sessions: make(map[types.ID]*Session),
		opts:     opts,
		idleTTL:  idleTTL,
		now:      time.Now,
	}
}

func (m *Manager) Create() Info {
	now := m.now()
	s := &Session{id: types.ID(uuid.NewString()), createdAt: now, state: StateNoDataLoaded}
	s.touch(now)

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()
	sessionsActive.Inc()
	return s.info()
}

func (m *Manager) lookup(id types.ID) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	s.touch(m.now())
	return s, nil
}

func (m *Manager) Get(id types.ID) (Info, error) {
	s, err := m.lookup(id)
	if err != nil {
		return Info{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info(), nil
}

// Load reads and cleans the dataset from src and moves the session to DataLoaded.
// A failed load leaves the session without data so the user can retry.
func (m *Manager) Load(ctx context.Context, id types.ID, src trips.Source) (Info, error) {
	s, err := m.lookup(id)
	if err != nil {
		return Info{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !CanTransition(s.state, StateDataLoaded) {
		loadsTotal.WithLabelValues("rejected").Inc()
		return s.info(), ErrAlreadyLoaded
	}
	tbl, err := src.Load(ctx, m.opts)
	if err != nil {
		loadsTotal.WithLabelValues("failed").Inc()
		return s.info(), fmt.Errorf("load %s: %w", src.Name(), err)
	}

	s.table = tbl
	s.source = src.Name()
	s.state = StateDataLoaded
	s.loadedAt = m.now()
	loadsTotal.WithLabelValues("ok").Inc()
	log.Printf("session %s loaded %s: %d of %d rows kept for %s", s.id, s.source, tbl.Len(), tbl.RawRows(), tbl.Provider())
	return s.info(), nil
}

// WithData runs fn against the session's table while holding the session lock.
func (m *Manager) WithData(id types.ID, fn func(*trips.Table) error) error {
	s, err := m.lookup(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateDataLoaded || s.table == nil {
		return ErrNoData
	}
	return fn(s.table)
}

func (m *Manager) Close(id types.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	sessionsActive.Dec()
	return nil
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Expire drops sessions idle since before now-idleTTL and returns how many were removed.
// Sessions busy in a pipeline are skipped.
func (m *Manager) Expire(now time.Time) int {
	if m.idleTTL <= 0 {
		return 0
	}
	cutoff := now.Add(-m.idleTTL).UnixNano()

	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, s := range m.sessions {
		if s.lastSeen.Load() >= cutoff {
			continue
		}
		if !s.mu.TryLock() {
			continue
		}
		delete(m.sessions, id)
		s.mu.Unlock()
		removed++
	}
	sessionsActive.Sub(float64(removed))
	return removed
}

// RunJanitor expires idle sessions every tick until ctx is done.
func (m *Manager) RunJanitor(ctx context.Context, tick time.Duration) {
	if m.idleTTL <= 0 || tick <= 0 {
		return
	}
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := m.Expire(m.now()); n > 0 {
				log.Printf("session janitor expired %d idle sessions", n)
			}
		}
	}
}
