package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/aruana-vision/apiserver/internal/services"
	"github.com/aruana-vision/apiserver/internal/store"
	"github.com/go-chi/chi/v5"
)

// AlertHandler manages the alert rule catalog.
type AlertHandler struct {
	alertService *services.AlertService
}

// NewAlertHandler constructs an AlertHandler with the provided dependencies.
func NewAlertHandler(alertService *services.AlertService) *AlertHandler {
	return &AlertHandler{alertService: alertService}
}

// AlertRouter registers alert routes on the given router. Listing is
// open; mutations require authentication, enforced by the caller.
func AlertRouter(r chi.Router, handler *AlertHandler, requireAuth func(http.Handler) http.Handler) {
	r.Get("/alerts", handler.List)
	r.With(requireAuth).Post("/alerts", handler.Create)
	r.With(requireAuth).Delete("/alerts/{id}", handler.Delete)
	r.With(requireAuth).Patch("/alerts/{id}", handler.SetEnabled)
}

func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.alertService.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "falha ao listar alertas")
		return
	}
	writeJSON(w, http.StatusOK, alerts)
}

func (h *AlertHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "requisição inválida")
		return
	}

	alert, err := h.alertService.Create(r.Context(), req.ObjectName)
	if err != nil {
		if errors.Is(err, services.ErrEmptyObjectName) {
			writeError(w, http.StatusBadRequest, "object_name é obrigatório")
			return
		}
		writeError(w, http.StatusInternalServerError, "falha ao criar alerta")
		return
	}

	writeJSON(w, http.StatusOK, alert)
}

func (h *AlertHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.alertService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "alerta não encontrado")
			return
		}
		writeError(w, http.StatusInternalServerError, "falha ao excluir alerta")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "alerta excluído"})
}

// SetEnabled toggles an alert rule via the enabled query parameter.
func (h *AlertHandler) SetEnabled(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	enabled, err := strconv.ParseBool(r.URL.Query().Get("enabled"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "enabled deve ser true ou false")
		return
	}

	if err := h.alertService.SetEnabled(r.Context(), id, enabled); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "alerta não encontrado")
			return
		}
		writeError(w, http.StatusInternalServerError, "falha ao atualizar alerta")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "alerta atualizado"})
}

type CreateAlertRequest struct {
	ObjectName string `json:"object_name"`
}
