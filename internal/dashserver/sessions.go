package dashserver

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/wordlens/wordlens/internal/engine"
	"github.com/wordlens/wordlens/internal/engine/analysis"
)

// Per-user sessions. Each dashboard user gets an independent analysis.Session
// so one user's exclusions never leak into another's chart. Sessions expire
// after a TTL of inactivity.

const sessionHeader = "X-Session-ID"

type sessionEntry struct {
	mu       sync.Mutex
	sess     *analysis.Session
	video    engine.VideoMeta
	lastSeen time.Time
}

// SessionManager maps session IDs to live analysis sessions.
type SessionManager struct {
	mu      sync.Mutex
	entries map[string]*sessionEntry
	ttl     time.Duration
	factory func() *analysis.Session
}

// NewSessionManager creates a manager. factory builds a fresh session with the
// deployment's default policy and topN.
func NewSessionManager(ttl time.Duration, factory func() *analysis.Session) *SessionManager {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SessionManager{
		entries: make(map[string]*sessionEntry),
		ttl:     ttl,
		factory: factory,
	}
}

// get returns the entry for id, creating one for unknown IDs.
func (m *SessionManager) get(id string) *sessionEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		e = &sessionEntry{sess: m.factory()}
		m.entries[id] = e
	}
	e.lastSeen = time.Now()
	return e
}

// Len returns the number of live sessions.
func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Sweep drops sessions idle past the TTL and returns how many were removed.
func (m *SessionManager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := time.Now().Add(-m.ttl)
	removed := 0
	for id, e := range m.entries {
		if e.lastSeen.Before(cutoff) {
			delete(m.entries, id)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep periodically until ctx is cancelled.
func (m *SessionManager) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := m.Sweep(); n > 0 {
					slog.Debug("sessions swept", slog.Int("removed", n), slog.Int("live", m.Len()))
				}
			}
		}
	}()
}

// sessionID resolves the caller's session ID: header first, then cookie,
// then a shared default for clients that send neither.
func sessionID(r *http.Request) string {
	if id := r.Header.Get(sessionHeader); id != "" {
		return id
	}
	if c, err := r.Cookie("session"); err == nil && c.Value != "" {
		return c.Value
	}
	return "default"
}

// NewSessionID generates a random session ID for clients that want one issued.
func NewSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "default"
	}
	return hex.EncodeToString(b)
}
