package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/emmott-systems/soporte-api/internal/config"
	"github.com/emmott-systems/soporte-api/internal/database"
	"github.com/emmott-systems/soporte-api/internal/health"
	"github.com/emmott-systems/soporte-api/internal/http/handler"
	"github.com/emmott-systems/soporte-api/internal/http/router"
	"github.com/emmott-systems/soporte-api/internal/repository"
	"github.com/emmott-systems/soporte-api/internal/security"
	"github.com/emmott-systems/soporte-api/internal/service"
)

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type testServerOptions struct {
	authRateLimitPerMin int
	jwtTTL              time.Duration
}

func newTestServer(t *testing.T) *httptest.Server {
	return newTestServerWithOptions(t, testServerOptions{})
}

func newTestServerWithOptions(t *testing.T, opts testServerOptions) *httptest.Server {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := database.Seed(db); err != nil {
		t.Fatalf("seed: %v", err)
	}

	jwtTTL := opts.jwtTTL
	if jwtTTL == 0 {
		jwtTTL = time.Hour
	}
	authRPM := opts.authRateLimitPerMin
	if authRPM == 0 {
		authRPM = 1000
	}

	cfg := &config.Config{
		Env:                 "test",
		JWTIssuer:           "soporte-api",
		JWTAudience:         "soporte-clients",
		JWTSecret:           "0123456789abcdef0123456789abcdef",
		JWTTTL:              jwtTTL,
		BootstrapRoleID:     1,
		BootstrapAreaID:     1,
		CORSAllowedOrigins:  []string{"http://localhost:5173"},
		MaxBodyBytes:        1 << 20,
		AuthRateLimitPerMin: authRPM,
		APIRateLimitPerMin:  10000,
	}

	jwtMgr := security.NewJWTManager(cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTSecret, cfg.JWTTTL)

	userRepo := repository.NewUserRepository(db)
	authSvc := service.NewAuthService(cfg, userRepo, jwtMgr)
	userSvc := service.NewUserService(userRepo)
	roleSvc := service.NewRoleService(repository.NewRoleRepository(db))
	areaSvc := service.NewAreaService(repository.NewAreaRepository(db))
	companySvc := service.NewCompanyService(
		repository.NewCompanyRepository(db),
		repository.NewContactRepository(db),
		repository.NewSubscriptionRepository(db),
	)

	h := router.NewRouter(router.Dependencies{
		AuthHandler:      handler.NewAuthHandler(authSvc),
		UserHandler:      handler.NewUserHandler(userSvc),
		RoleHandler:      handler.NewRoleHandler(roleSvc),
		AreaHandler:      handler.NewAreaHandler(areaSvc),
		CompanyHandler:   handler.NewCompanyHandler(companySvc),
		JWTManager:       jwtMgr,
		CORSOrigins:      cfg.CORSAllowedOrigins,
		MaxBodyBytes:     cfg.MaxBodyBytes,
		AuthRateLimitRPM: cfg.AuthRateLimitPerMin,
		APIRateLimitRPM:  cfg.APIRateLimitPerMin,
		Readiness:        health.NewProbeRunner(time.Second, 0, health.NewDBChecker(db)),
	})

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func request(t *testing.T, method, url, token, body string) (*http.Response, apiEnvelope) {
	t.Helper()
	var reader *bytes.Buffer
	if body == "" {
		reader = bytes.NewBuffer(nil)
	} else {
		reader = bytes.NewBufferString(body)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	var env apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return resp, env
}

func setupAdmin(t *testing.T, baseURL string) (string, uint) {
	t.Helper()
	resp, env := request(t, http.MethodPost, baseURL+"/api/v1/auth/setup", "",
		`{"rut":"12.345.678-9","first_name":"Ana","last_name":"Rojas","email":"ana@example.com","password":"s3cret-pass"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("setup: expected 201, got %d (%+v)", resp.StatusCode, env.Error)
	}
	var result struct {
		User struct {
			ID uint `json:"id"`
		} `json:"user"`
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("decode setup result: %v", err)
	}
	if result.AccessToken == "" {
		t.Fatal("setup returned no access token")
	}
	return result.AccessToken, result.User.ID
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	resp, env := request(t, http.MethodGet, srv.URL+"/health/live", "", "")
	if resp.StatusCode != http.StatusOK || !env.Success {
		t.Fatalf("live: expected 200 success, got %d", resp.StatusCode)
	}
	resp, env = request(t, http.MethodGet, srv.URL+"/health/ready", "", "")
	if resp.StatusCode != http.StatusOK || !env.Success {
		t.Fatalf("ready: expected 200 success, got %d (%+v)", resp.StatusCode, env.Error)
	}
}

func TestBootstrapFlow(t *testing.T) {
	srv := newTestServer(t)
	token, userID := setupAdmin(t, srv.URL)

	t.Run("issued token unlocks the profile", func(t *testing.T) {
		resp, env := request(t, http.MethodGet, srv.URL+"/api/v1/auth/profile", token, "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("profile: expected 200, got %d", resp.StatusCode)
		}
		var user struct {
			ID    uint   `json:"id"`
			Email string `json:"email"`
			Role  struct {
				Name string `json:"name"`
			} `json:"role"`
		}
		if err := json.Unmarshal(env.Data, &user); err != nil {
			t.Fatalf("decode profile: %v", err)
		}
		if user.ID != userID || user.Email != "ana@example.com" || user.Role.Name != "ADMIN" {
			t.Fatalf("unexpected profile %+v", user)
		}
		if strings.Contains(string(env.Data), "password") {
			t.Fatalf("profile payload mentions password: %s", env.Data)
		}
	})

	t.Run("repeat setup is permanently refused", func(t *testing.T) {
		resp, env := request(t, http.MethodPost, srv.URL+"/api/v1/auth/setup", "",
			`{"first_name":"Eve","last_name":"Intruder","email":"eve@example.com","password":"sneaky-pass"}`)
		if resp.StatusCode != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", resp.StatusCode)
		}
		if env.Error == nil || env.Error.Code != "ALREADY_INITIALIZED" {
			t.Fatalf("unexpected envelope %+v", env.Error)
		}
	})

	t.Run("login with the bootstrap credentials", func(t *testing.T) {
		resp, env := request(t, http.MethodPost, srv.URL+"/api/v1/auth/login", "",
			`{"email":"ana@example.com","password":"s3cret-pass"}`)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d (%+v)", resp.StatusCode, env.Error)
		}
		if !strings.Contains(string(env.Data), "access_token") {
			t.Fatalf("expected a token in %s", env.Data)
		}
	})

	t.Run("wrong password is an opaque 401", func(t *testing.T) {
		resp, env := request(t, http.MethodPost, srv.URL+"/api/v1/auth/login", "",
			`{"email":"ana@example.com","password":"wrong-pass"}`)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", resp.StatusCode)
		}
		if env.Error == nil || env.Error.Code != "UNAUTHORIZED" || env.Error.Message != "invalid credentials" {
			t.Fatalf("unexpected envelope %+v", env.Error)
		}
	})
}

func TestRegisterFlow(t *testing.T) {
	srv := newTestServer(t)
	token, _ := setupAdmin(t, srv.URL)

	registerBody := `{"first_name":"Bruno","last_name":"Díaz","email":"bruno@example.com","password":"pass-1234","role_id":3,"area_id":2}`

	t.Run("register requires a token", func(t *testing.T) {
		resp, env := request(t, http.MethodPost, srv.URL+"/api/v1/auth/register", "", registerBody)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", resp.StatusCode)
		}
		if env.Error == nil || env.Error.Code != "UNAUTHORIZED" {
			t.Fatalf("unexpected envelope %+v", env.Error)
		}
	})

	t.Run("register with a token creates the user", func(t *testing.T) {
		resp, env := request(t, http.MethodPost, srv.URL+"/api/v1/auth/register", token, registerBody)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("expected 201, got %d (%+v)", resp.StatusCode, env.Error)
		}
		var user struct {
			Role struct {
				Name string `json:"name"`
			} `json:"role"`
			Area struct {
				Name string `json:"name"`
			} `json:"area"`
		}
		if err := json.Unmarshal(env.Data, &user); err != nil {
			t.Fatalf("decode user: %v", err)
		}
		if user.Role.Name != "ANALYST" || user.Area.Name != "Desarrollo" {
			t.Fatalf("unexpected role/area %+v", user)
		}
	})

	t.Run("duplicate email is a 409 conflict", func(t *testing.T) {
		resp, env := request(t, http.MethodPost, srv.URL+"/api/v1/auth/register", token, registerBody)
		if resp.StatusCode != http.StatusConflict {
			t.Fatalf("expected 409, got %d", resp.StatusCode)
		}
		if env.Error == nil || env.Error.Code != "CONFLICT" {
			t.Fatalf("unexpected envelope %+v", env.Error)
		}
	})

	t.Run("unknown role is a 400 bad reference", func(t *testing.T) {
		body := `{"first_name":"Carla","last_name":"Muñoz","email":"carla@example.com","password":"pass-1234","role_id":999,"area_id":1}`
		resp, env := request(t, http.MethodPost, srv.URL+"/api/v1/auth/register", token, body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", resp.StatusCode)
		}
		if env.Error == nil || env.Error.Code != "BAD_REFERENCE" {
			t.Fatalf("unexpected envelope %+v", env.Error)
		}
	})
}

func TestExpiredTokenIsRejected(t *testing.T) {
	srv := newTestServerWithOptions(t, testServerOptions{jwtTTL: time.Millisecond})
	token, _ := setupAdmin(t, srv.URL)

	time.Sleep(20 * time.Millisecond)

	resp, env := request(t, http.MethodGet, srv.URL+"/api/v1/auth/profile", token, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d", resp.StatusCode)
	}
	if env.Error == nil || env.Error.Code != "UNAUTHORIZED" {
		t.Fatalf("unexpected envelope %+v", env.Error)
	}
}

func TestTokenForDeletedSubjectIsRejected(t *testing.T) {
	srv := newTestServer(t)
	token, userID := setupAdmin(t, srv.URL)

	resp, env := request(t, http.MethodDelete, fmt.Sprintf("%s/api/v1/users/%d", srv.URL, userID), token, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete user: expected 200, got %d (%+v)", resp.StatusCode, env.Error)
	}

	// The token is still valid but its subject is gone; that is an auth
	// failure, not a missing resource.
	resp, env = request(t, http.MethodGet, srv.URL+"/api/v1/auth/profile", token, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a deleted subject, got %d", resp.StatusCode)
	}
	if env.Error == nil || env.Error.Code != "UNAUTHORIZED" {
		t.Fatalf("unexpected envelope %+v", env.Error)
	}
}

func TestAuthEndpointsAreRateLimited(t *testing.T) {
	srv := newTestServerWithOptions(t, testServerOptions{authRateLimitPerMin: 3})

	var last *http.Response
	var lastEnv apiEnvelope
	for i := 0; i < 4; i++ {
		last, lastEnv = request(t, http.MethodPost, srv.URL+"/api/v1/auth/login", "",
			`{"email":"ana@example.com","password":"whatever"}`)
	}
	if last.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after exhausting the window, got %d", last.StatusCode)
	}
	if lastEnv.Error == nil || lastEnv.Error.Code != "RATE_LIMITED" {
		t.Fatalf("unexpected envelope %+v", lastEnv.Error)
	}
	if last.Header.Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}
}

func TestAdminCatalogEndpoints(t *testing.T) {
	srv := newTestServer(t)
	token, _ := setupAdmin(t, srv.URL)

	t.Run("users list is guarded and paginated", func(t *testing.T) {
		resp, _ := request(t, http.MethodGet, srv.URL+"/api/v1/users", "", "")
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
		}

		resp, env := request(t, http.MethodGet, srv.URL+"/api/v1/users?page=1&page_size=10", token, "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		var page struct {
			Items []json.RawMessage `json:"items"`
			Total int64             `json:"total"`
		}
		if err := json.Unmarshal(env.Data, &page); err != nil {
			t.Fatalf("decode page: %v", err)
		}
		if page.Total != 1 || len(page.Items) != 1 {
			t.Fatalf("expected the bootstrap admin in the listing, got %+v", page)
		}
	})

	t.Run("roles catalog round trip", func(t *testing.T) {
		resp, env := request(t, http.MethodPost, srv.URL+"/api/v1/roles", token, `{"name":"AUDITOR","description":"Read-only"}`)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("create role: expected 201, got %d (%+v)", resp.StatusCode, env.Error)
		}

		resp, env = request(t, http.MethodPost, srv.URL+"/api/v1/roles", token, `{"name":"AUDITOR"}`)
		if resp.StatusCode != http.StatusConflict {
			t.Fatalf("duplicate role: expected 409, got %d", resp.StatusCode)
		}

		resp, env = request(t, http.MethodGet, srv.URL+"/api/v1/roles", token, "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("list roles: expected 200, got %d", resp.StatusCode)
		}
		if !strings.Contains(string(env.Data), "AUDITOR") {
			t.Fatalf("expected AUDITOR in %s", env.Data)
		}
	})

	t.Run("company with contacts and subscriptions", func(t *testing.T) {
		resp, env := request(t, http.MethodPost, srv.URL+"/api/v1/companies", token, `{"name":"Acme SpA","rut":"76.123.456-0"}`)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("create company: expected 201, got %d (%+v)", resp.StatusCode, env.Error)
		}
		var company struct {
			ID uint `json:"id"`
		}
		if err := json.Unmarshal(env.Data, &company); err != nil {
			t.Fatalf("decode company: %v", err)
		}

		contactURL := fmt.Sprintf("%s/api/v1/companies/%d/contacts", srv.URL, company.ID)
		resp, env = request(t, http.MethodPost, contactURL, token, `{"name":"Pedro Soto","email":"pedro@acme.cl"}`)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("add contact: expected 201, got %d (%+v)", resp.StatusCode, env.Error)
		}
		var contact struct {
			ID uint `json:"id"`
		}
		if err := json.Unmarshal(env.Data, &contact); err != nil {
			t.Fatalf("decode contact: %v", err)
		}
		resp, env = request(t, http.MethodGet, fmt.Sprintf("%s/%d", contactURL, contact.ID), token, "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("get contact: expected 200, got %d (%+v)", resp.StatusCode, env.Error)
		}
		if !strings.Contains(string(env.Data), "Pedro Soto") {
			t.Fatalf("expected contact payload, got %s", env.Data)
		}

		subsURL := fmt.Sprintf("%s/api/v1/companies/%d/subscriptions", srv.URL, company.ID)
		resp, env = request(t, http.MethodPost, subsURL, token, `{"plan":"premium"}`)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("add subscription: expected 201, got %d (%+v)", resp.StatusCode, env.Error)
		}
		var sub struct {
			ID uint `json:"id"`
		}
		if err := json.Unmarshal(env.Data, &sub); err != nil {
			t.Fatalf("decode subscription: %v", err)
		}
		resp, env = request(t, http.MethodGet, fmt.Sprintf("%s/%d", subsURL, sub.ID), token, "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("get subscription: expected 200, got %d (%+v)", resp.StatusCode, env.Error)
		}

		resp, env = request(t, http.MethodGet, fmt.Sprintf("%s/api/v1/companies/%d", srv.URL, company.ID), token, "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("get company: expected 200, got %d", resp.StatusCode)
		}
		if !strings.Contains(string(env.Data), "Pedro Soto") || !strings.Contains(string(env.Data), "premium") {
			t.Fatalf("expected nested records in %s", env.Data)
		}

		resp, _ = request(t, http.MethodDelete, fmt.Sprintf("%s/api/v1/companies/%d", srv.URL, company.ID), token, "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("delete company: expected 200, got %d", resp.StatusCode)
		}
		resp, env = request(t, http.MethodGet, fmt.Sprintf("%s/api/v1/companies/%d", srv.URL, company.ID), token, "")
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("expected 404 after delete, got %d", resp.StatusCode)
		}
		if env.Error == nil || env.Error.Code != "NOT_FOUND" {
			t.Fatalf("unexpected envelope %+v", env.Error)
		}
	})
}
