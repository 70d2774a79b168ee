package station

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/datdenkikniet/Peroxidecast/internal/config"
)

const (
	headerReadTimeout = 10 * time.Second
	sourceIdleTimeout = 30 * time.Second
	writeTimeout      = 10 * time.Second
)

// Server owns the TCP listener and the mount registry. One connection is
// one request: sources hold theirs open to feed data, listeners to drain
// it, everything else is answered and closed.
type Server struct {
	cfg      *config.Config
	state    *State
	fallback *FallbackLibrary

	listener     net.Listener
	ready        chan struct{}
	shutdown     chan struct{}
	shutdownOnce sync.Once
	wg           sync.WaitGroup
}

func New(cfg *config.Config) (*Server, error) {
	defaultURL, err := ParseStreamURLStrategy(cfg.Station.StreamURLStrategy, cfg.Station.StreamURLStatic)
	if err != nil {
		return nil, err
	}
	mountsFile, err := LoadMounts(cfg.Station.MountsFile)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      cfg,
		state:    NewState(defaultURL, cfg.Station.AllowUnauthenticated, mountsFile),
		fallback: NewFallbackLibrary(cfg.Station.FallbackDir),
		ready:    make(chan struct{}),
		shutdown: make(chan struct{}),
	}
	s.seedFallbackSongs()
	return s, nil
}

// State exposes the mount registry, mainly for the admin surface and tests.
func (s *Server) State() *State {
	return s.state
}

// seedFallbackSongs labels offline permanent mounts with their fallback
// track so /mount_info has something to show before the first source.
func (s *Server) seedFallbackSongs() {
	for _, name := range s.state.Names() {
		mount, ok := s.state.Get(name)
		if !ok || mount.Live() {
			continue
		}
		if path := s.fallback.Lookup(name); path != "" {
			mount.SetSong(s.fallback.Title(path))
		}
	}
}

// Serve blocks until the context is cancelled or Stop is called.
func (s *Server) Serve(ctx context.Context) error {
	l, err := net.Listen("tcp", s.cfg.Station.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Station.ListenAddr, err)
	}
	s.listener = l
	close(s.ready)
	log.Printf("📡 Station listening at %s", l.Addr())

	go func() {
		select {
		case <-ctx.Done():
			s.Stop()
		case <-s.shutdown:
		}
	}()

	for {
		conn, err := l.Accept()
		if err != nil {
			select {
			case <-s.shutdown:
				return nil
			default:
				return fmt.Errorf("accept: %w", err)
			}
		}
		s.wg.Add(1)
		go func(c net.Conn) {
			defer s.wg.Done()
			s.handleConn(c)
		}(conn)
	}
}

// WaitReady returns a channel that closes once the listener is bound.
// Callers should select on it with a timeout to catch startup failures.
func (s *Server) WaitReady() <-chan struct{} {
	return s.ready
}

// Addr returns the bound listener address (for tests).
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}

// Stop closes the listener and kicks every live source, which in turn
// releases all listener connections. It waits for the handlers to finish.
func (s *Server) Stop() {
	s.shutdownOnce.Do(func() {
		close(s.shutdown)
		if s.listener != nil {
			_ = s.listener.Close()
		}
		for _, name := range s.state.Names() {
			if m, ok := s.state.Get(name); ok && m.Live() {
				m.KickSource()
			}
		}
	})
	s.wg.Wait()
}

func (s *Server) handleConn(conn net.Conn) {
	defer func() { _ = conn.Close() }()

	_ = conn.SetReadDeadline(time.Now().Add(headerReadTimeout))
	br := bufio.NewReaderSize(conn, 4096)
	req, err := http.ReadRequest(br)
	if err != nil {
		return
	}
	_ = conn.SetReadDeadline(time.Time{})

	switch req.Method {
	case "SOURCE", http.MethodPut:
		s.handleSource(conn, br, req)
	case http.MethodGet:
		s.handleGet(conn, req)
	default:
		writeError(conn, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleGet(conn net.Conn, req *http.Request) {
	p := req.URL.Path
	switch {
	case p == "/mount_info":
		s.handleMountInfo(conn, req)
	case strings.HasPrefix(p, "/admin/"):
		s.handleAdmin(conn, req)
	default:
		if mount, ok := s.state.Get(p); ok {
			s.handleListen(conn, req, mount)
			return
		}
		s.serveStatic(conn, p)
	}
}

func (s *Server) handleListen(conn net.Conn, req *http.Request, mount *Mount) {
	if auth := mount.SubAuth(); auth != "" && req.Header.Get("Authorization") != auth {
		writeError(conn, http.StatusUnauthorized, "unauthorized")
		return
	}

	if !mount.Live() {
		if path := s.fallback.Lookup(mount.Name); path != "" {
			s.streamFallback(conn, mount, path)
			return
		}
		writeError(conn, http.StatusNotFound, "mount has no connected source")
		return
	}

	sub, err := mount.Subscribe()
	if err != nil {
		writeError(conn, http.StatusNotFound, "mount has no connected source")
		return
	}
	defer mount.Unsubscribe(sub.ID)

	if err := writeHead(conn, http.StatusOK, icyHeaders(mount.ContentType(), mount.Meta())); err != nil {
		return
	}
	log.Printf("🎧 Listener joined %s (%d now)", mount.Name, mount.Subscribers())

	for chunk := range sub.Chunks() {
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if _, err := conn.Write(chunk); err != nil {
			return
		}
	}
}

// streamFallback plays the fallback file once and closes. Good enough for
// "station is asleep" pages and keeps the mount URL warm for players.
func (s *Server) streamFallback(conn net.Conn, mount *Mount, path string) {
	file, err := os.Open(path)
	if err != nil {
		writeError(conn, http.StatusNotFound, "not found")
		return
	}
	defer file.Close()

	if err := writeHead(conn, http.StatusOK, icyHeaders(contentTypeFor(path), mount.Meta())); err != nil {
		return
	}

	buf := make([]byte, sourceBufferSize)
	for {
		n, rerr := file.Read(buf)
		if n > 0 {
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if _, werr := conn.Write(buf[:n]); werr != nil {
				return
			}
			mount.addBytesOut(n)
		}
		if rerr != nil {
			if rerr != io.EOF {
				log.Printf("Warning: fallback read %s: %v", path, rerr)
			}
			return
		}
	}
}
