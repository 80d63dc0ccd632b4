package network

import (
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrServerFull is returned when a connection arrives while MaxSessions are active
var ErrServerFull = errors.New("server full")

// ErrServerClosed is returned when a connection arrives after the manager closed its sessions
var ErrServerClosed = errors.New("server closed")

// Session is one accepted connection
// Read and Write refresh their deadlines, so an idle client surfaces as a read error
type Session struct {
	ID        string
	Addr      string
	StartedAt time.Time

	conn         net.Conn
	idleTimeout  time.Duration
	writeTimeout time.Duration

	closeOnce sync.Once
}

// newSession wraps an established connection
func newSession(conn net.Conn, cfg *Config) *Session {
	return &Session{
		ID:           uuid.NewString(),
		Addr:         conn.RemoteAddr().String(),
		StartedAt:    time.Now(),
		conn:         conn,
		idleTimeout:  cfg.IdleTimeout,
		writeTimeout: cfg.WriteTimeout,
	}
}

// Read reads from the connection with the idle deadline pushed forward
func (s *Session) Read(p []byte) (int, error) {
	if s.idleTimeout > 0 {
		if err := s.conn.SetReadDeadline(time.Now().Add(s.idleTimeout)); err != nil {
			return 0, err
		}
	}
	return s.conn.Read(p)
}

// Write writes to the connection within the write timeout
func (s *Session) Write(p []byte) (int, error) {
	if s.writeTimeout > 0 {
		if err := s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout)); err != nil {
			return 0, err
		}
	}
	return s.conn.Write(p)
}

// Close closes the connection, unblocking any pending Read. Safe to call multiple times
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.conn.Close()
	})
	return err
}

// SessionManager tracks live sessions
type SessionManager struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	maxSessions int
	config      *Config
	closed      bool
}

// NewSessionManager creates a session manager
func NewSessionManager(cfg *Config) *SessionManager {
	return &SessionManager{
		sessions:    make(map[string]*Session),
		maxSessions: cfg.MaxSessions,
		config:      cfg,
	}
}

// Add registers a session for conn, refusing when the limit is reached or after CloseAll
// The caller owns conn on error
func (sm *SessionManager) Add(conn net.Conn) (*Session, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.closed {
		return nil, ErrServerClosed
	}

	if sm.maxSessions > 0 && len(sm.sessions) >= sm.maxSessions {
		return nil, ErrServerFull
	}

	sess := newSession(conn, sm.config)
	sm.sessions[sess.ID] = sess
	return sess, nil
}

// Remove forgets a session
func (sm *SessionManager) Remove(sess *Session) {
	sm.mu.Lock()
	delete(sm.sessions, sess.ID)
	sm.mu.Unlock()
}

// Count returns current session count
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// CloseAll disconnects every session; later Adds are refused
func (sm *SessionManager) CloseAll() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.closed = true

	for _, sess := range sm.sessions {
		sess.Close()
	}
}
