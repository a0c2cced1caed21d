package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"homebuilder-proforma/domain"
	"homebuilder-proforma/logger"
	"homebuilder-proforma/service"
)

type ProformaHandler struct {
	lotDevelopment *service.LotDevelopmentService
	lotPurchase    *service.LotPurchaseService
	sensitivity    *service.SensitivityService
	runs           *service.RunService
}

func NewProformaHandler(
	lotDevelopment *service.LotDevelopmentService,
	lotPurchase *service.LotPurchaseService,
	sensitivity *service.SensitivityService,
	runs *service.RunService,
) *ProformaHandler {
	return &ProformaHandler{
		lotDevelopment: lotDevelopment,
		lotPurchase:    lotPurchase,
		sensitivity:    sensitivity,
		runs:           runs,
	}
}

func (h *ProformaHandler) CalculateLotDevelopment(w http.ResponseWriter, r *http.Request) {
	var input domain.LotDevelopmentInput
	if !decodeJSON(w, r, &input) {
		return
	}

	result, err := h.lotDevelopment.Calculate(r.Context(), input)
	if err != nil {
		logger.FromContext(r.Context()).Info("Lot development rejected", "error", err)
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

func (h *ProformaHandler) AnalyzeSensitivity(w http.ResponseWriter, r *http.Request) {
	var input domain.SensitivityInput
	if !decodeJSON(w, r, &input) {
		return
	}

	result, err := h.sensitivity.Analyze(r.Context(), input)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

func (h *ProformaHandler) CalculateLotPurchase(w http.ResponseWriter, r *http.Request) {
	var input domain.LotPurchaseInput
	if !decodeJSON(w, r, &input) {
		return
	}

	result, err := h.lotPurchase.Calculate(r.Context(), input)
	if err != nil {
		logger.FromContext(r.Context()).Info("Lot purchase rejected", "error", err)
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

func (h *ProformaHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.runs.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, run)
}

func (h *ProformaHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			sendJSONError(w, "limit must be an integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	runs, err := h.runs.List(r.Context(), q.Get("kind"), limit)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if runs == nil {
		runs = []domain.ProformaRun{}
	}
	writeJSON(w, r, http.StatusOK, runs)
}
