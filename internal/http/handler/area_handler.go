package handler

import (
	"encoding/json"
	"net/http"

	"github.com/emmott-systems/soporte-api/internal/http/response"
	"github.com/emmott-systems/soporte-api/internal/observability"
	"github.com/emmott-systems/soporte-api/internal/service"
)

type AreaHandler struct {
	areaSvc *service.AreaService
}

func NewAreaHandler(areaSvc *service.AreaService) *AreaHandler {
	return &AreaHandler{areaSvc: areaSvc}
}

func (h *AreaHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.AreaInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid request body", nil)
		return
	}
	area, err := h.areaSvc.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	observability.Audit(r, "areas.create", "area_id", area.ID, "name", area.Name)
	response.JSON(w, r, http.StatusCreated, area)
}

func (h *AreaHandler) List(w http.ResponseWriter, r *http.Request) {
	areas, err := h.areaSvc.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, areas)
}

func (h *AreaHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(r, "id")
	if !ok {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid area id", nil)
		return
	}
	area, err := h.areaSvc.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, area)
}

func (h *AreaHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(r, "id")
	if !ok {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid area id", nil)
		return
	}
	var in service.AreaInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid request body", nil)
		return
	}
	area, err := h.areaSvc.Update(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	observability.Audit(r, "areas.update", "area_id", id)
	response.JSON(w, r, http.StatusOK, area)
}

func (h *AreaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(r, "id")
	if !ok {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid area id", nil)
		return
	}
	if err := h.areaSvc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	observability.Audit(r, "areas.delete", "area_id", id)
	response.JSON(w, r, http.StatusOK, map[string]any{"deleted": true})
}
