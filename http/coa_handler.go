package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"homebuilder-proforma/domain"
	"homebuilder-proforma/service"
)

type COAHandler struct {
	service *service.COAService
}

func NewCOAHandler(service *service.COAService) *COAHandler {
	return &COAHandler{service: service}
}

func (h *COAHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.service.Templates())
}

type classifyRequest struct {
	EntityType string `json:"entityType"`
}

func (h *COAHandler) Classify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeJSON(w, r, http.StatusOK, h.service.Classify(req.EntityType))
}

func (h *COAHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var input domain.COAGenerateInput
	if !decodeJSON(w, r, &input) {
		return
	}

	result, err := h.service.Generate(r.Context(), input)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	status := http.StatusOK
	if result.Persisted {
		status = http.StatusCreated
	}
	writeJSON(w, r, status, result)
}

func (h *COAHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.service.ListAccounts(r.Context(), chi.URLParam(r, "entityID"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, accounts)
}
