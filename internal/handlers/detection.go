package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/aruana-vision/apiserver/internal/services"
	"github.com/aruana-vision/apiserver/internal/store"
	"github.com/aruana-vision/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// DetectionHandler manages stored detections and their share links.
type DetectionHandler struct {
	detectionService *services.DetectionService
	shareService     *services.ShareService
}

// NewDetectionHandler constructs a DetectionHandler with the provided
// dependencies.
func NewDetectionHandler(detectionService *services.DetectionService, shareService *services.ShareService) *DetectionHandler {
	return &DetectionHandler{
		detectionService: detectionService,
		shareService:     shareService,
	}
}

// DetectionRouter registers detection routes on the given router. All
// routes require authentication.
func DetectionRouter(r chi.Router, handler *DetectionHandler) {
	r.Get("/detections", handler.List)
	r.Delete("/detections/{id}", handler.Delete)
	r.Post("/detections/{id}/share", handler.CreateShare)
	r.Delete("/detections/{id}/share", handler.DeleteShare)
}

// ShareRouter registers the public share view route.
func ShareRouter(r chi.Router, handler *DetectionHandler) {
	r.Get("/share/{token}", handler.ViewShare)
}

// List returns the caller's detections newest first. Admins see all
// detections across owners.
func (h *DetectionHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit := queryInt(r, "limit", 0)
	skip := queryInt(r, "skip", 0)

	owner := identity.UserID
	if identity.IsAdmin() {
		owner = ""
	}

	detections, err := h.detectionService.List(r.Context(), owner, limit, skip)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "falha ao listar detecções")
		return
	}

	writeJSON(w, http.StatusOK, detections)
}

// Delete removes a detection the caller owns. Admins may delete any
// detection.
func (h *DetectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := chi.URLParam(r, "id")
	detection, err := h.detectionService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "detecção não encontrada")
			return
		}
		writeError(w, http.StatusInternalServerError, "falha ao excluir detecção")
		return
	}

	if !identity.IsAdmin() && detection.UserID != "" && detection.UserID != identity.UserID {
		writeError(w, http.StatusForbidden, "detecção pertence a outro usuário")
		return
	}

	if err := h.detectionService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "detecção não encontrada")
			return
		}
		writeError(w, http.StatusInternalServerError, "falha ao excluir detecção")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "detecção excluída"})
}

// CreateShare issues a public share link for a detection the caller owns.
func (h *DetectionHandler) CreateShare(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := chi.URLParam(r, "id")
	share, url, err := h.shareService.Create(r.Context(), id, identity.UserID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "detecção não encontrada")
		case errors.Is(err, services.ErrNotOwner):
			writeError(w, http.StatusForbidden, "detecção pertence a outro usuário")
		case errors.Is(err, services.ErrSharingDisabled):
			writeError(w, http.StatusInternalServerError, "compartilhamento não configurado")
		default:
			writeError(w, http.StatusInternalServerError, "falha ao criar compartilhamento")
		}
		return
	}

	writeJSON(w, http.StatusOK, ShareResponse{
		ShareToken: share.ShareToken,
		ShareURL:   url,
		CreatedAt:  share.CreatedAt,
	})
}

// DeleteShare revokes every share link the caller created for a
// detection. Revoking a detection with no shares succeeds.
func (h *DetectionHandler) DeleteShare(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.shareService.Delete(r.Context(), id, identity.UserID); err != nil {
		writeError(w, http.StatusInternalServerError, "falha ao remover compartilhamento")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "compartilhamento removido"})
}

// ViewShare serves a shared detection publicly, stripping the owner
// identity and counting the view.
func (h *DetectionHandler) ViewShare(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	shared, err := h.shareService.View(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "compartilhamento não encontrado")
		case errors.Is(err, services.ErrShareExpired):
			writeError(w, http.StatusGone, "compartilhamento expirado")
		default:
			writeError(w, http.StatusInternalServerError, "falha ao carregar compartilhamento")
		}
		return
	}

	writeJSON(w, http.StatusOK, SharedDetectionResponse{
		Detection: shared.Detection,
		Views:     shared.Views,
		SharedAt:  shared.SharedAt,
	})
}

type ShareResponse struct {
	ShareToken string    `json:"share_token"`
	ShareURL   string    `json:"share_url"`
	CreatedAt  time.Time `json:"created_at"`
}

// SharedDetectionResponse flattens the detection fields into the
// response and adds the share metadata.
type SharedDetectionResponse struct {
	types.Detection
	Views    int64     `json:"views"`
	SharedAt time.Time `json:"shared_at"`
}

func queryInt(r *http.Request, name string, fallback int64) int64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return value
}
