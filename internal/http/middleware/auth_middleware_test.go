package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/emmott-systems/soporte-api/internal/security"
)

func newTestJWT(ttl time.Duration) *security.JWTManager {
	return security.NewJWTManager("soporte-api", "soporte-clients", "0123456789abcdef0123456789abcdef", ttl)
}

func guardedEcho(t *testing.T, jwtMgr *security.JWTManager) http.Handler {
	t.Helper()
	return AuthMiddleware(jwtMgr)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			t.Fatal("expected claims in context")
		}
		w.Write([]byte(claims.Email))
	}))
}

func TestAuthMiddleware(t *testing.T) {
	jwtMgr := newTestJWT(time.Hour)

	t.Run("valid bearer token passes claims through", func(t *testing.T) {
		token, err := jwtMgr.Sign(7, "ana@example.com", "ADMIN")
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		guardedEcho(t, jwtMgr).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if rec.Body.String() != "ana@example.com" {
			t.Fatalf("unexpected body %q", rec.Body.String())
		}
	})

	t.Run("missing and malformed headers are the same 401", func(t *testing.T) {
		cases := []struct {
			name   string
			header string
		}{
			{"no header", ""},
			{"wrong scheme", "Basic abc"},
			{"bearer with no token", "Bearer   "},
			{"garbage token", "Bearer not.a.jwt"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
				if tc.header != "" {
					req.Header.Set("Authorization", tc.header)
				}
				rec := httptest.NewRecorder()
				AuthMiddleware(jwtMgr)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					t.Fatal("handler must not run")
				})).ServeHTTP(rec, req)
				if rec.Code != http.StatusUnauthorized {
					t.Fatalf("expected 401, got %d", rec.Code)
				}
				var env struct {
					Error *struct {
						Code string `json:"code"`
					} `json:"error"`
				}
				if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
					t.Fatalf("decode: %v", err)
				}
				if env.Error == nil || env.Error.Code != "UNAUTHORIZED" {
					t.Fatalf("unexpected envelope %s", rec.Body.String())
				}
			})
		}
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		expired := newTestJWT(-time.Minute)
		token, err := expired.Sign(7, "ana@example.com", "ADMIN")
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		AuthMiddleware(jwtMgr)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		})).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}
