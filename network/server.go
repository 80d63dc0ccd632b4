package network

import (
	"log"
	"net"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/lixenwraith/termsweep/core"
	"github.com/lixenwraith/termsweep/status"
)

// Handler runs one session to completion; the server closes the session afterwards
type Handler func(sess *Session) error

// refusal is written to connections turned away by the session limit
var refusal = []byte("Server full, try again later.\r\n")

// Counter names maintained in Server.Stats
const (
	StatAccepted = "sessions.accepted"
	StatRefused  = "sessions.refused"
	StatFailed   = "sessions.failed"
	StatCrashed  = "sessions.crashed"
)

// Server accepts telnet connections and runs each on its own goroutine
type Server struct {
	config   *Config
	handler  Handler
	listener net.Listener
	sessions *SessionManager
	stats    *status.Registry

	accepted, refused, failed, crashed *atomic.Int64

	running atomic.Bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewServer creates a server with the given configuration
func NewServer(cfg *Config, handler Handler) *Server {
	stats := status.NewRegistry()
	return &Server{
		config:   cfg,
		handler:  handler,
		sessions: NewSessionManager(cfg),
		stats:    stats,
		accepted: stats.Counter(StatAccepted),
		refused:  stats.Counter(StatRefused),
		failed:   stats.Counter(StatFailed),
		crashed:  stats.Counter(StatCrashed),
		stopCh:   make(chan struct{}),
	}
}

// Start binds the configured address and begins accepting
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return errors.Wrapf(err, "listening on %s", s.config.Address)
	}
	if err := s.Serve(ln); err != nil {
		ln.Close()
		return err
	}
	return nil
}

// Serve begins accepting on an existing listener and returns immediately
func (s *Server) Serve(ln net.Listener) error {
	if !s.running.CompareAndSwap(false, true) {
		return errors.New("server already running")
	}

	s.listener = ln
	log.Printf("[SERVER] listening on %s", ln.Addr())

	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

// acceptLoop handles incoming connections
func (s *Server) acceptLoop() {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.stopCh:
				return
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			log.Printf("[SERVER] accept: %v", err)
			continue
		}

		select {
		case <-s.stopCh:
			conn.Close()
			return
		default:
		}

		sess, err := s.sessions.Add(conn)
		if errors.Is(err, ErrServerClosed) {
			// Accepted while Stop was running
			conn.Close()
			return
		}
		if err != nil {
			log.Printf("[SERVER] refusing %s: %v", conn.RemoteAddr(), err)
			s.refused.Add(1)
			conn.Write(refusal)
			conn.Close()
			continue
		}

		s.accepted.Add(1)
		s.wg.Add(1)
		go s.serveSession(sess)
	}
}

// serveSession runs the handler, confining any panic to this connection
func (s *Server) serveSession(sess *Session) {
	defer s.wg.Done()
	defer s.sessions.Remove(sess)
	defer sess.Close()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[SESSION] %s crashed: %v", sess.ID, core.PanicError(r))
			s.crashed.Add(1)
		}
	}()

	log.Printf("[SESSION] %s connected from %s", sess.ID, sess.Addr)
	if err := s.handler(sess); err != nil {
		log.Printf("[SESSION] %s ended: %v", sess.ID, err)
		s.failed.Add(1)
		return
	}
	log.Printf("[SESSION] %s closed by client", sess.ID)
}

// Stop closes the listener and every session, then waits for handlers to return
func (s *Server) Stop() error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	close(s.stopCh)

	var err error
	if s.listener != nil {
		err = s.listener.Close()
	}

	s.sessions.CloseAll()
	s.wg.Wait()

	return err
}

// Addr returns the bound address, nil before Start
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// SessionCount returns connected session count
func (s *Server) SessionCount() int {
	return s.sessions.Count()
}

// Stats returns the server's session counters
func (s *Server) Stats() *status.Registry {
	return s.stats
}

// IsRunning returns server state
func (s *Server) IsRunning() bool {
	return s.running.Load()
}
