package station

import (
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// isAdmin accepts either the exact configured admin Authorization value or
// a Bearer token signed with the station secret carrying role=admin.
func (s *Server) isAdmin(authorization string) bool {
	if authorization == "" {
		return false
	}
	if s.cfg.Station.AdminAuth != "" && authorization == s.cfg.Station.AdminAuth {
		return true
	}

	tokenString, ok := strings.CutPrefix(authorization, "Bearer ")
	if !ok || s.cfg.Station.JWTSecret == "" {
		return false
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(s.cfg.Station.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	return ok && claims["role"] == "admin"
}

func (s *Server) handleAdmin(conn net.Conn, req *http.Request) {
	authorization := req.Header.Get("Authorization")
	admin := s.isAdmin(authorization)
	q := req.URL.Query()

	switch req.URL.Path {
	case "/admin/metadata":
		// A source may update its own mount's metadata with its source
		// credentials; that is how source clients set song titles.
		mountName := q.Get("mount")
		if !admin && !s.state.SourceAuthMatches(mountName, authorization) {
			writeError(conn, http.StatusUnauthorized, "unauthorized")
			return
		}
		if q.Get("mode") != "updinfo" {
			writeError(conn, http.StatusBadRequest, "unsupported mode")
			return
		}
		song := q.Get("song")
		if err := s.state.UpdateSong(mountName, song); err != nil {
			writeAdminError(conn, err)
			return
		}
		log.Printf("🎵 Metadata updated: %s -> %q", mountName, song)
		_ = writeResponse(conn, http.StatusOK, [][2]string{
			{"Content-Type", "text/plain"},
		}, []byte("Metadata update successful\n"))

	case "/admin/listmounts":
		if !admin {
			writeError(conn, http.StatusUnauthorized, "unauthorized")
			return
		}
		writeJSON(conn, http.StatusOK, s.state.Infos(req.Host, req.Header.Get("X-Forwarded-Host")))

	case "/admin/killsource":
		if !admin {
			writeError(conn, http.StatusUnauthorized, "unauthorized")
			return
		}
		mountName := q.Get("mount")
		if err := s.state.KillSource(mountName); err != nil {
			writeAdminError(conn, err)
			return
		}
		log.Printf("🔪 Kill requested: %s", mountName)
		_ = writeResponse(conn, http.StatusOK, [][2]string{
			{"Content-Type", "text/plain"},
		}, []byte("Source killed\n"))

	default:
		if !admin {
			writeError(conn, http.StatusUnauthorized, "unauthorized")
			return
		}
		writeError(conn, http.StatusNotFound, "not found")
	}
}

func writeAdminError(conn net.Conn, err error) {
	switch {
	case errors.Is(err, ErrMountDoesNotExist), errors.Is(err, ErrMountNotConnected):
		writeError(conn, http.StatusNotFound, err.Error())
	default:
		writeError(conn, http.StatusInternalServerError, err.Error())
	}
}
