package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/emmott-systems/soporte-api/internal/http/response"
	"github.com/emmott-systems/soporte-api/internal/repository"
	"github.com/emmott-systems/soporte-api/internal/service"
)

func parsePathID(r *http.Request, name string) (uint, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func parsePageRequest(r *http.Request) repository.PageRequest {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))
	return repository.PageRequest{Page: page, PageSize: pageSize}
}

func paginatedData[T any](result repository.PageResult[T]) map[string]any {
	items := result.Items
	if items == nil {
		items = []T{}
	}
	return map[string]any{
		"items":       items,
		"page":        result.Page,
		"page_size":   result.PageSize,
		"total":       result.Total,
		"total_pages": result.TotalPages,
	}
}

var notFoundErrors = []error{
	repository.ErrUserNotFound,
	repository.ErrRoleNotFound,
	repository.ErrAreaNotFound,
	repository.ErrCompanyNotFound,
	repository.ErrContactNotFound,
	repository.ErrSubscriptionNotFound,
}

// writeServiceError translates a service-layer error into the response
// envelope. Unknown errors become an opaque INTERNAL so internals never leak.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid credentials", nil)
	case errors.Is(err, service.ErrAlreadyInitialized):
		response.Error(w, r, http.StatusForbidden, "ALREADY_INITIALIZED", "system already initialized", nil)
	case errors.Is(err, service.ErrMissingBootstrapRefs):
		response.Error(w, r, http.StatusBadRequest, "MISSING_REFERENCES", err.Error(), nil)
	case errors.Is(err, service.ErrEmailTaken), errors.Is(err, service.ErrIdentityTaken), errors.Is(err, service.ErrDuplicate):
		response.Error(w, r, http.StatusConflict, "CONFLICT", err.Error(), nil)
	case errors.Is(err, service.ErrBadReference):
		response.Error(w, r, http.StatusBadRequest, "BAD_REFERENCE", err.Error(), nil)
	case isNotFound(err):
		response.Error(w, r, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		response.Error(w, r, http.StatusServiceUnavailable, "UNAVAILABLE", "temporarily unavailable, retry later", nil)
	default:
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
	}
}

func isNotFound(err error) bool {
	for _, sentinel := range notFoundErrors {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
