package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aruana-vision/apiserver/internal/services"
	"github.com/aruana-vision/apiserver/internal/store"
	"github.com/go-chi/chi/v5"
)

// AdminHandler provides the user administration endpoints.
type AdminHandler struct {
	userService      *services.UserService
	detectionService *services.DetectionService
	alertService     *services.AlertService
}

// NewAdminHandler constructs an AdminHandler with the provided dependencies.
func NewAdminHandler(userService *services.UserService, detectionService *services.DetectionService, alertService *services.AlertService) *AdminHandler {
	return &AdminHandler{
		userService:      userService,
		detectionService: detectionService,
		alertService:     alertService,
	}
}

// AdminRouter registers admin routes on the given router. The caller
// wraps the router with the admin middleware.
func AdminRouter(r chi.Router, handler *AdminHandler) {
	r.Get("/admin/users", handler.ListUsers)
	r.Get("/admin/stats", handler.Stats)
	r.Put("/admin/users/{id}", handler.UpdateUser)
	r.Delete("/admin/users/{id}", handler.DeleteUser)
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "falha ao listar usuários")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// Stats returns aggregate system counters.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.Count(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "falha ao calcular estatísticas")
		return
	}
	detections, err := h.detectionService.Count(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "falha ao calcular estatísticas")
		return
	}
	alerts, err := h.alertService.Count(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "falha ao calcular estatísticas")
		return
	}

	writeJSON(w, http.StatusOK, AdminStatsResponse{
		TotalUsers:      users,
		TotalDetections: detections,
		TotalAlerts:     alerts,
	})
}

// UpdateUser applies admin-editable account fields.
func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "requisição inválida")
		return
	}

	if req.Role != nil && *req.Role != defaultUserRole && *req.Role != adminRole {
		writeError(w, http.StatusBadRequest, "role deve ser user ou admin")
		return
	}

	id := chi.URLParam(r, "id")
	user, err := h.userService.SetRoleAndStatus(r.Context(), id, req.Role, req.IsActive)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "usuário não encontrado")
			return
		}
		writeError(w, http.StatusInternalServerError, "falha ao atualizar usuário")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// DeleteUser removes an account. Admins cannot delete themselves.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := chi.URLParam(r, "id")
	if id == identity.UserID {
		writeError(w, http.StatusBadRequest, "não é possível excluir a própria conta")
		return
	}

	if err := h.userService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "usuário não encontrado")
			return
		}
		writeError(w, http.StatusInternalServerError, "falha ao excluir usuário")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "usuário excluído"})
}

type UpdateUserRequest struct {
	Role     *string `json:"role,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type AdminStatsResponse struct {
	TotalUsers      int64 `json:"total_users"`
	TotalDetections int64 `json:"total_detections"`
	TotalAlerts     int64 `json:"total_alerts"`
}
