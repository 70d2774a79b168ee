package station

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/datdenkikniet/Peroxidecast/internal/config"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("Signing token: %v", err)
	}
	return signed
}

func TestIsAdmin(t *testing.T) {
	cfg := &config.Config{}
	cfg.Station.AdminAuth = "hackme"
	cfg.Station.JWTSecret = "testsecret"
	srv := &Server{cfg: cfg}

	adminToken := signToken(t, "testsecret", jwt.MapClaims{"role": "admin"})
	listenerToken := signToken(t, "testsecret", jwt.MapClaims{"role": "listener"})
	forgedToken := signToken(t, "wrongsecret", jwt.MapClaims{"role": "admin"})

	tests := []struct {
		name          string
		authorization string
		want          bool
	}{
		{"Empty", "", false},
		{"Exact admin secret", "hackme", true},
		{"Wrong secret", "letmein", false},
		{"Admin JWT", "Bearer " + adminToken, true},
		{"JWT without admin role", "Bearer " + listenerToken, false},
		{"JWT with wrong signature", "Bearer " + forgedToken, false},
		{"Garbage bearer token", "Bearer not.a.token", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := srv.isAdmin(tt.authorization); got != tt.want {
				t.Errorf("isAdmin(%q) = %v, want %v", tt.authorization, got, tt.want)
			}
		})
	}
}

func TestIsAdmin_NoJWTSecretConfigured(t *testing.T) {
	cfg := &config.Config{}
	cfg.Station.AdminAuth = "hackme"
	srv := &Server{cfg: cfg}

	token := signToken(t, "anything", jwt.MapClaims{"role": "admin"})
	if srv.isAdmin("Bearer " + token) {
		t.Error("Bearer tokens must be rejected when no secret is configured")
	}
}
