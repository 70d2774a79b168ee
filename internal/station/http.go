package station

import (
	"encoding/json"
	"fmt"
	"mime"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
)

const serverHeader = "Peroxidecast"

// writeHead emits the status line and headers. Responses are HTTP/1.0 so
// stream bodies can simply run until the connection closes.
func writeHead(conn net.Conn, status int, headers [][2]string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "HTTP/1.0 %d %s\r\n", status, http.StatusText(status))
	fmt.Fprintf(&b, "Server: %s\r\n", serverHeader)
	for _, h := range headers {
		fmt.Fprintf(&b, "%s: %s\r\n", h[0], h[1])
	}
	b.WriteString("\r\n")
	_, err := conn.Write([]byte(b.String()))
	return err
}

func writeResponse(conn net.Conn, status int, headers [][2]string, body []byte) error {
	headers = append(headers,
		[2]string{"Content-Length", strconv.Itoa(len(body))},
		[2]string{"Connection", "close"},
	)
	if err := writeHead(conn, status, headers); err != nil {
		return err
	}
	_, err := conn.Write(body)
	return err
}

func writeError(conn net.Conn, status int, msg string) {
	_ = writeResponse(conn, status, [][2]string{{"Content-Type", "text/plain"}}, []byte(msg+"\n"))
}

func writeJSON(conn net.Conn, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		writeError(conn, http.StatusInternalServerError, "encoding failed")
		return
	}
	_ = writeResponse(conn, status, [][2]string{
		{"Content-Type", "application/json"},
		{"Access-Control-Allow-Origin", "*"},
	}, body)
}

func (s *Server) handleMountInfo(conn net.Conn, req *http.Request) {
	infos := s.state.Infos(req.Host, req.Header.Get("X-Forwarded-Host"))
	writeJSON(conn, http.StatusOK, infos)
}

// audio types the stdlib mime table tends to miss
var extraContentTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".ogg":  "application/ogg",
	".oga":  "audio/ogg",
	".opus": "audio/ogg",
	".flac": "audio/flac",
	".aac":  "audio/aac",
	".m3u":  "audio/x-mpegurl",
	".xspf": "application/xspf+xml",
}

func contentTypeFor(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ct, ok := extraContentTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// serveStatic answers GETs that match no mount from the configured static
// dir. Paths are rooted and cleaned first so requests cannot climb out of
// the directory.
func (s *Server) serveStatic(conn net.Conn, reqPath string) {
	dir := s.cfg.Station.StaticDir
	if dir == "" {
		writeError(conn, http.StatusNotFound, "not found")
		return
	}

	clean := path.Clean("/" + reqPath)
	if clean == "/" {
		clean = "/index.html"
	}
	full := filepath.Join(dir, filepath.FromSlash(clean))
	if rel, err := filepath.Rel(dir, full); err != nil || strings.HasPrefix(rel, "..") {
		writeError(conn, http.StatusNotFound, "not found")
		return
	}

	data, err := os.ReadFile(full)
	if err != nil {
		writeError(conn, http.StatusNotFound, "not found")
		return
	}
	_ = writeResponse(conn, http.StatusOK, [][2]string{
		{"Content-Type", contentTypeFor(full)},
	}, data)
}
