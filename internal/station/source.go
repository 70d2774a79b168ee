package station

import (
	"bufio"
	"errors"
	"log"
	"net"
	"net/http"
	"time"
)

// handleSource runs a SOURCE (or PUT) connection for its whole lifetime.
// br still holds any stream bytes that arrived buffered behind the headers,
// so the read loop drains the bufio.Reader rather than the conn.
func (s *Server) handleSource(conn net.Conn, br *bufio.Reader, req *http.Request) {
	contentType := req.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	authorization := req.Header.Get("Authorization")

	mount, stop, err := s.state.Connect(
		req.URL.Path,
		authorization,
		s.isAdmin(authorization),
		contentType,
		metaFromHeaders(req.Header),
	)
	switch {
	case errors.Is(err, ErrUnauthorized):
		writeError(conn, http.StatusUnauthorized, "unauthorized")
		return
	case errors.Is(err, ErrMountHasSource):
		writeError(conn, http.StatusConflict, "mount already has a source")
		return
	case err != nil:
		writeError(conn, http.StatusInternalServerError, err.Error())
		return
	}

	if err := writeHead(conn, http.StatusOK, nil); err != nil {
		s.dropSource(mount)
		return
	}
	log.Printf("🎙️ Source connected: %s (%s)", mount.Name, contentType)
	s.runSource(conn, br, mount, stop)
}

func (s *Server) runSource(conn net.Conn, br *bufio.Reader, mount *Mount, stop <-chan struct{}) {
	defer s.dropSource(mount)

	// A kill closes the connection out from under the read loop, so a
	// blocked read returns right away instead of waiting out the idle
	// timeout.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-stop:
			_ = conn.Close()
		case <-done:
		}
	}()

	buf := make([]byte, sourceBufferSize)
	for {
		_ = conn.SetReadDeadline(time.Now().Add(sourceIdleTimeout))
		n, err := br.Read(buf)
		if n > 0 {
			mount.addBytesIn(n)
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			mount.Broadcast(chunk)
		}
		if err != nil {
			select {
			case <-stop:
				log.Printf("🔪 Source killed: %s", mount.Name)
			default:
			}
			return
		}
	}
}

func (s *Server) dropSource(mount *Mount) {
	m, removed := s.state.Disconnect(mount.Name)
	if m == nil {
		return
	}
	if removed {
		log.Printf("🔌 Source left, mount removed: %s", mount.Name)
		return
	}
	log.Printf("🔌 Source left, %s off air", mount.Name)
	if path := s.fallback.Lookup(mount.Name); path != "" {
		mount.SetSong(s.fallback.Title(path))
	}
}
