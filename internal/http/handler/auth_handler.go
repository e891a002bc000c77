package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/emmott-systems/soporte-api/internal/http/middleware"
	"github.com/emmott-systems/soporte-api/internal/http/response"
	"github.com/emmott-systems/soporte-api/internal/observability"
	"github.com/emmott-systems/soporte-api/internal/repository"
	"github.com/emmott-systems/soporte-api/internal/service"
)

type AuthHandler struct {
	authSvc service.AuthServiceInterface
}

func NewAuthHandler(authSvc service.AuthServiceInterface) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Setup bootstraps the first administrator. It is public but one-shot: once
// a user exists the endpoint permanently refuses.
func (h *AuthHandler) Setup(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() {
		observability.RecordAuthRequestDuration(r.Context(), "setup", status, time.Since(start))
	}()

	var in service.SetupInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		status = "failure"
		observability.RecordAuthSetup(r.Context(), "failure")
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid request body", nil)
		return
	}
	result, err := h.authSvc.Setup(r.Context(), in)
	if err != nil {
		status = "failure"
		observability.Audit(r, "auth.setup.refused", "email", in.Email)
		observability.RecordAuthSetup(r.Context(), "failure")
		writeServiceError(w, r, err)
		return
	}
	observability.Audit(r, "auth.setup.success", "user_id", result.User.ID, "email", result.User.Email)
	observability.RecordAuthSetup(r.Context(), "success")
	response.JSON(w, r, http.StatusCreated, result)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() {
		observability.RecordAuthRequestDuration(r.Context(), "login", status, time.Since(start))
	}()

	var in loginRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		status = "failure"
		observability.RecordAuthLogin(r.Context(), "failure")
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid request body", nil)
		return
	}
	result, err := h.authSvc.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		status = "failure"
		observability.Audit(r, "auth.login.failed", "email", in.Email)
		observability.RecordAuthLogin(r.Context(), "failure")
		writeServiceError(w, r, err)
		return
	}
	observability.Audit(r, "auth.login.success", "user_id", result.User.ID)
	observability.RecordAuthLogin(r.Context(), "success")
	response.JSON(w, r, http.StatusOK, result)
}

// Register creates an additional user. Requires an authenticated caller.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() {
		observability.RecordAuthRequestDuration(r.Context(), "register", status, time.Since(start))
	}()

	var in service.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		status = "failure"
		observability.RecordAuthRegister(r.Context(), "failure")
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid request body", nil)
		return
	}
	user, err := h.authSvc.Register(r.Context(), in)
	if err != nil {
		status = "failure"
		observability.Audit(r, "auth.register.failed", "email", in.Email)
		observability.RecordAuthRegister(r.Context(), "failure")
		writeServiceError(w, r, err)
		return
	}
	observability.Audit(r, "auth.register.success", "user_id", user.ID, "email", user.Email)
	observability.RecordAuthRegister(r.Context(), "success")
	response.JSON(w, r, http.StatusCreated, user)
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	uid, err := claims.UserID()
	if err != nil {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid subject", nil)
		return
	}
	user, err := h.authSvc.Profile(r.Context(), uid)
	if err != nil {
		// A valid token whose subject no longer exists is an authentication
		// failure, not a missing resource.
		if errors.Is(err, repository.ErrUserNotFound) {
			response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "unknown subject", nil)
			return
		}
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, user)
}
