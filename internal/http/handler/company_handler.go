package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/emmott-systems/soporte-api/internal/http/response"
	"github.com/emmott-systems/soporte-api/internal/observability"
	"github.com/emmott-systems/soporte-api/internal/service"
)

type CompanyHandler struct {
	companySvc *service.CompanyService
}

func NewCompanyHandler(companySvc *service.CompanyService) *CompanyHandler {
	return &CompanyHandler{companySvc: companySvc}
}

func (h *CompanyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.CompanyInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid request body", nil)
		return
	}
	company, err := h.companySvc.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	observability.Audit(r, "companies.create", "company_id", company.ID, "name", company.Name)
	response.JSON(w, r, http.StatusCreated, company)
}

func (h *CompanyHandler) List(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() {
		observability.RecordAdminListRequestDuration(r.Context(), "companies", status, time.Since(start))
	}()

	req := parsePageRequest(r)
	observability.RecordAdminListPageSize(r.Context(), "companies", req.PageSize)
	result, err := h.companySvc.ListPaged(r.Context(), req)
	if err != nil {
		status = "failure"
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, paginatedData(result))
}

func (h *CompanyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(r, "id")
	if !ok {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid company id", nil)
		return
	}
	company, err := h.companySvc.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, company)
}

func (h *CompanyHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(r, "id")
	if !ok {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid company id", nil)
		return
	}
	var in service.CompanyInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid request body", nil)
		return
	}
	company, err := h.companySvc.Update(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	observability.Audit(r, "companies.update", "company_id", id)
	response.JSON(w, r, http.StatusOK, company)
}

func (h *CompanyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(r, "id")
	if !ok {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid company id", nil)
		return
	}
	if err := h.companySvc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	observability.Audit(r, "companies.delete", "company_id", id)
	response.JSON(w, r, http.StatusOK, map[string]any{"deleted": true})
}

func (h *CompanyHandler) AddContact(w http.ResponseWriter, r *http.Request) {
	companyID, ok := parsePathID(r, "id")
	if !ok {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid company id", nil)
		return
	}
	var in service.ContactInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid request body", nil)
		return
	}
	contact, err := h.companySvc.AddContact(r.Context(), companyID, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	observability.Audit(r, "companies.contacts.create", "company_id", companyID, "contact_id", contact.ID)
	response.JSON(w, r, http.StatusCreated, contact)
}

func (h *CompanyHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	companyID, ok := parsePathID(r, "id")
	if !ok {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid company id", nil)
		return
	}
	contacts, err := h.companySvc.ListContacts(r.Context(), companyID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, contacts)
}

func (h *CompanyHandler) GetContact(w http.ResponseWriter, r *http.Request) {
	contactID, ok := parsePathID(r, "contactID")
	if !ok {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid contact id", nil)
		return
	}
	contact, err := h.companySvc.GetContact(r.Context(), contactID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, contact)
}

func (h *CompanyHandler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	contactID, ok := parsePathID(r, "contactID")
	if !ok {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid contact id", nil)
		return
	}
	var in service.ContactInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid request body", nil)
		return
	}
	contact, err := h.companySvc.UpdateContact(r.Context(), contactID, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	observability.Audit(r, "companies.contacts.update", "contact_id", contactID)
	response.JSON(w, r, http.StatusOK, contact)
}

func (h *CompanyHandler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	contactID, ok := parsePathID(r, "contactID")
	if !ok {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid contact id", nil)
		return
	}
	if err := h.companySvc.DeleteContact(r.Context(), contactID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	observability.Audit(r, "companies.contacts.delete", "contact_id", contactID)
	response.JSON(w, r, http.StatusOK, map[string]any{"deleted": true})
}

func (h *CompanyHandler) AddSubscription(w http.ResponseWriter, r *http.Request) {
	companyID, ok := parsePathID(r, "id")
	if !ok {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid company id", nil)
		return
	}
	var in service.SubscriptionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid request body", nil)
		return
	}
	sub, err := h.companySvc.AddSubscription(r.Context(), companyID, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	observability.Audit(r, "companies.subscriptions.create", "company_id", companyID, "subscription_id", sub.ID)
	response.JSON(w, r, http.StatusCreated, sub)
}

func (h *CompanyHandler) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	companyID, ok := parsePathID(r, "id")
	if !ok {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid company id", nil)
		return
	}
	subs, err := h.companySvc.ListSubscriptions(r.Context(), companyID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, subs)
}

func (h *CompanyHandler) GetSubscription(w http.ResponseWriter, r *http.Request) {
	subID, ok := parsePathID(r, "subscriptionID")
	if !ok {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid subscription id", nil)
		return
	}
	sub, err := h.companySvc.GetSubscription(r.Context(), subID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, sub)
}

func (h *CompanyHandler) UpdateSubscription(w http.ResponseWriter, r *http.Request) {
	subID, ok := parsePathID(r, "subscriptionID")
	if !ok {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid subscription id", nil)
		return
	}
	var in service.SubscriptionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid request body", nil)
		return
	}
	sub, err := h.companySvc.UpdateSubscription(r.Context(), subID, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	observability.Audit(r, "companies.subscriptions.update", "subscription_id", subID)
	response.JSON(w, r, http.StatusOK, sub)
}

func (h *CompanyHandler) DeleteSubscription(w http.ResponseWriter, r *http.Request) {
	subID, ok := parsePathID(r, "subscriptionID")
	if !ok {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid subscription id", nil)
		return
	}
	if err := h.companySvc.DeleteSubscription(r.Context(), subID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	observability.Audit(r, "companies.subscriptions.delete", "subscription_id", subID)
	response.JSON(w, r, http.StatusOK, map[string]any{"deleted": true})
}
