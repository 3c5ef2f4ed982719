package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	mem "hairline/pkg/memcache"
)

// Profile is the user profile returned by the backend at login.
type Profile struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Session is one browser session. Tokens are empty until login.
type Session struct {
	ID           string    `json:"id"`
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	Profile      *Profile  `json:"profile,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func New() *Session {
	return &Session{ID: uuid.NewString()}
}

func (s *Session) Authenticated() bool {
	return s != nil && s.AccessToken != ""
}

// ClearTokens drops credentials but keeps the session id so in-progress
// flows survive a forced logout.
func (s *Session) ClearTokens() {
	s.AccessToken = ""
	s.RefreshToken = ""
	s.Profile = nil
	s.ExpiresAt = time.Time{}
}

// Store isolates session load/save from the storage medium.
type Store interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Clear(ctx context.Context, id string) error
}

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	cache *mem.Cache[Session]
	ttl   time.Duration
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{cache: mem.NewCache[Session](), ttl: ttl}
}

// Load returns nil, nil when the session is unknown.
func (m *MemoryStore) Load(_ context.Context, id string) (*Session, error) {
	s, ok := m.cache.Get(id)
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	m.cache.Set(s.ID, *s, m.ttl)
	return nil
}

// Clear removes the stored tokens of a session, leaving an anonymous session.
func (m *MemoryStore) Clear(_ context.Context, id string) error {
	s, ok := m.cache.Get(id)
	if !ok {
		return nil
	}
	s.ClearTokens()
	m.cache.Set(id, s, m.ttl)
	return nil
}

// Sweep drops expired sessions and reports how many were removed.
func (m *MemoryStore) Sweep() int { return m.cache.Sweep() }
