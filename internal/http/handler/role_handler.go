package handler

import (
	"encoding/json"
	"net/http"

	"github.com/emmott-systems/soporte-api/internal/http/response"
	"github.com/emmott-systems/soporte-api/internal/observability"
	"github.com/emmott-systems/soporte-api/internal/service"
)

type RoleHandler struct {
	roleSvc *service.RoleService
}

func NewRoleHandler(roleSvc *service.RoleService) *RoleHandler {
	return &RoleHandler{roleSvc: roleSvc}
}

func (h *RoleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.RoleInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid request body", nil)
		return
	}
	role, err := h.roleSvc.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	observability.Audit(r, "roles.create", "role_id", role.ID, "name", role.Name)
	response.JSON(w, r, http.StatusCreated, role)
}

func (h *RoleHandler) List(w http.ResponseWriter, r *http.Request) {
	roles, err := h.roleSvc.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, roles)
}

func (h *RoleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(r, "id")
	if !ok {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid role id", nil)
		return
	}
	role, err := h.roleSvc.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, role)
}

func (h *RoleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(r, "id")
	if !ok {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid role id", nil)
		return
	}
	var in service.RoleInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid request body", nil)
		return
	}
	role, err := h.roleSvc.Update(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	observability.Audit(r, "roles.update", "role_id", id)
	response.JSON(w, r, http.StatusOK, role)
}

func (h *RoleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(r, "id")
	if !ok {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid role id", nil)
		return
	}
	if err := h.roleSvc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	observability.Audit(r, "roles.delete", "role_id", id)
	response.JSON(w, r, http.StatusOK, map[string]any{"deleted": true})
}
