package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aruana-vision/apiserver/internal/services"
	"github.com/aruana-vision/apiserver/internal/vision"
	"github.com/aruana-vision/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// DetectHandler exposes the vision analysis endpoints. Every endpoint
// shares one pipeline parameterized by task kind.
type DetectHandler struct {
	detectionService *services.DetectionService
}

// NewDetectHandler constructs a DetectHandler with the provided dependencies.
func NewDetectHandler(detectionService *services.DetectionService) *DetectHandler {
	return &DetectHandler{detectionService: detectionService}
}

// DetectRouter registers analysis routes on the given router. All
// routes require authentication.
func DetectRouter(r chi.Router, handler *DetectHandler) {
	r.Post("/detect/analyze-frame", handler.AnalyzeFrame)
	r.Post("/detect/analyze-nutrition", handler.AnalyzeNutrition)
	r.Post("/detect/read-text", handler.ReadText)
	r.Post("/detect/read-braille", handler.ReadBraille)
	r.Post("/detect/traffic-safety", handler.TrafficSafety)
	r.Post("/detect/math-physics", handler.MathPhysics)
}

// AnalyzeFrame runs general scene analysis, switching to targeted
// object search when a search query is present.
func (h *DetectHandler) AnalyzeFrame(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}
	task := vision.TaskScene
	if strings.TrimSpace(req.SearchQuery) != "" {
		task = vision.TaskObjectSearch
	}
	h.analyze(w, r, task, req)
}

func (h *DetectHandler) AnalyzeNutrition(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}
	h.analyze(w, r, vision.TaskNutrition, req)
}

func (h *DetectHandler) ReadText(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}
	h.analyze(w, r, vision.TaskTextReading, req)
}

func (h *DetectHandler) ReadBraille(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}
	h.analyze(w, r, vision.TaskBraille, req)
}

func (h *DetectHandler) TrafficSafety(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}
	h.analyze(w, r, vision.TaskTrafficSafety, req)
}

func (h *DetectHandler) MathPhysics(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}
	h.analyze(w, r, vision.TaskMathPhysics, req)
}

func (h *DetectHandler) decodeRequest(w http.ResponseWriter, r *http.Request) (DetectRequest, bool) {
	var req DetectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "requisição inválida")
		return DetectRequest{}, false
	}

	req.Source = strings.TrimSpace(req.Source)
	req.DetectionType = strings.TrimSpace(req.DetectionType)
	if req.Source == "" || req.DetectionType == "" || req.ImageData == "" {
		writeError(w, http.StatusBadRequest, "source, detection_type e image_data são obrigatórios")
		return DetectRequest{}, false
	}
	return req, true
}

func (h *DetectHandler) analyze(w http.ResponseWriter, r *http.Request, task vision.Task, req DetectRequest) {
	identity, err := identityFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	detection, err := h.detectionService.Analyze(r.Context(), services.AnalyzeInput{
		Task:          task,
		Source:        req.Source,
		DetectionType: req.DetectionType,
		ImageData:     req.ImageData,
		GeoLocation:   req.GeoLocation,
		SearchQuery:   req.SearchQuery,
		Mode:          req.Mode,
		UserID:        identity.UserID,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidImage):
			writeError(w, http.StatusBadRequest, "imagem inválida")
		case errors.Is(err, vision.ErrUnavailable):
			writeError(w, http.StatusServiceUnavailable, "serviço temporariamente sobrecarregado, tente novamente")
		default:
			writeError(w, http.StatusInternalServerError, "falha ao analisar imagem")
		}
		return
	}

	writeJSON(w, http.StatusOK, detection)
}

// DetectRequest is the shared body of every analysis endpoint.
type DetectRequest struct {
	Source        string             `json:"source"`
	DetectionType string             `json:"detection_type"`
	ImageData     string             `json:"image_data"`
	GeoLocation   *types.GeoLocation `json:"geo_location,omitempty"`
	SearchQuery   string             `json:"search_query,omitempty"`
	Mode          string             `json:"mode,omitempty"`
}
