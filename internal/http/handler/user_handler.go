package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/emmott-systems/soporte-api/internal/http/response"
	"github.com/emmott-systems/soporte-api/internal/observability"
	"github.com/emmott-systems/soporte-api/internal/service"
)

type UserHandler struct {
	userSvc service.UserServiceInterface
}

func NewUserHandler(userSvc service.UserServiceInterface) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() {
		observability.RecordAdminListRequestDuration(r.Context(), "users", status, time.Since(start))
	}()

	req := parsePageRequest(r)
	observability.RecordAdminListPageSize(r.Context(), "users", req.PageSize)
	result, err := h.userSvc.ListPaged(r.Context(), req)
	if err != nil {
		status = "failure"
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, paginatedData(result))
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.UserCreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid request body", nil)
		return
	}
	user, err := h.userSvc.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	observability.Audit(r, "users.create", "user_id", user.ID)
	response.JSON(w, r, http.StatusCreated, user)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(r, "id")
	if !ok {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid user id", nil)
		return
	}
	user, err := h.userSvc.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, user)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(r, "id")
	if !ok {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid user id", nil)
		return
	}
	var in service.UserUpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid request body", nil)
		return
	}
	user, err := h.userSvc.Update(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	observability.Audit(r, "users.update", "user_id", id)
	response.JSON(w, r, http.StatusOK, user)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(r, "id")
	if !ok {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid user id", nil)
		return
	}
	if err := h.userSvc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	observability.Audit(r, "users.delete", "user_id", id)
	response.JSON(w, r, http.StatusOK, map[string]any{"deleted": true})
}
