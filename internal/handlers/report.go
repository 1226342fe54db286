package handlers

import (
	"encoding/csv"
	"net/http"
	"sort"
	"time"

	"github.com/aruana-vision/apiserver/internal/services"
	"github.com/aruana-vision/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// reportWindow caps how many recent detections feed a report.
const reportWindow = 1000

// ReportHandler provides detection export and aggregate reporting.
type ReportHandler struct {
	detectionService *services.DetectionService
}

// NewReportHandler constructs a ReportHandler with the provided dependencies.
func NewReportHandler(detectionService *services.DetectionService) *ReportHandler {
	return &ReportHandler{detectionService: detectionService}
}

// ReportRouter registers reporting routes on the given router.
func ReportRouter(r chi.Router, handler *ReportHandler) {
	r.Get("/reports/export", handler.Export)
	r.Post("/reports/intelligent", handler.Intelligent)
}

// Export streams all detections as JSON or CSV.
func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "csv" {
		writeError(w, http.StatusBadRequest, "format deve ser json ou csv")
		return
	}

	detections, err := h.detectionService.ListRecent(r.Context(), reportWindow)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "falha ao exportar detecções")
		return
	}

	if format == "json" {
		w.Header().Set("Content-Disposition", `attachment; filename="detections.json"`)
		writeJSON(w, http.StatusOK, detections)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="detections.csv"`)
	w.WriteHeader(http.StatusOK)

	writer := csv.NewWriter(w)
	_ = writer.Write([]string{"id", "timestamp", "source", "detection_type", "description"})
	for _, detection := range detections {
		_ = writer.Write([]string{
			detection.ID,
			detection.Timestamp.UTC().Format(time.RFC3339),
			detection.Source,
			detection.DetectionType,
			detection.Description,
		})
	}
	writer.Flush()
}

// Intelligent aggregates emotion, sentiment and object statistics over
// the most recent detections.
func (h *ReportHandler) Intelligent(w http.ResponseWriter, r *http.Request) {
	detections, err := h.detectionService.ListRecent(r.Context(), reportWindow)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "falha ao gerar relatório")
		return
	}

	emotions := types.EmotionAnalysis{}
	sentiments := types.SentimentAnalysis{}
	objectCounts := map[string]int{}
	alertsFired := 0

	for _, detection := range detections {
		if e := detection.EmotionAnalysis; e != nil {
			emotions.Sorrindo += e.Sorrindo
			emotions.Serio += e.Serio
			emotions.Triste += e.Triste
			emotions.Surpreso += e.Surpreso
			emotions.Zangado += e.Zangado
			emotions.Neutro += e.Neutro
		}
		if s := detection.SentimentAnalysis; s != nil {
			sentiments.Positivo += s.Positivo
			sentiments.Neutro += s.Neutro
			sentiments.Negativo += s.Negativo
		}
		for _, object := range detection.ObjectsDetected {
			objectCounts[object.Label]++
		}
		alertsFired += len(detection.AlertsTriggered)
	}

	writeJSON(w, http.StatusOK, IntelligentReportResponse{
		ReportType: "intelligent",
		DetectionsSummary: DetectionsSummary{
			TotalDetections: len(detections),
			AlertsTriggered: alertsFired,
			TopObjects:      topObjects(objectCounts, 10),
		},
		EmotionsAnalysis:  emotions,
		SentimentAnalysis: sentiments,
		Insights:          buildInsights(len(detections), emotions, sentiments, alertsFired),
	})
}

func topObjects(counts map[string]int, limit int) []ObjectCount {
	objects := make([]ObjectCount, 0, len(counts))
	for label, count := range counts {
		objects = append(objects, ObjectCount{Label: label, Count: count})
	}
	sort.Slice(objects, func(i, j int) bool {
		if objects[i].Count != objects[j].Count {
			return objects[i].Count > objects[j].Count
		}
		return objects[i].Label < objects[j].Label
	})
	if len(objects) > limit {
		objects = objects[:limit]
	}
	return objects
}

func buildInsights(total int, emotions types.EmotionAnalysis, sentiments types.SentimentAnalysis, alertsFired int) []string {
	insights := []string{}
	if total == 0 {
		return append(insights, "nenhuma detecção registrada no período")
	}
	if emotions.Sorrindo > emotions.Triste+emotions.Zangado {
		insights = append(insights, "predominância de emoções positivas nas imagens analisadas")
	}
	if sentiments.Negativo > sentiments.Positivo {
		insights = append(insights, "sentimento geral negativo acima do positivo no período")
	}
	if alertsFired > 0 {
		insights = append(insights, "alertas foram disparados no período; revise as regras ativas")
	}
	if len(insights) == 0 {
		insights = append(insights, "atividade dentro do padrão esperado")
	}
	return insights
}

type ObjectCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type DetectionsSummary struct {
	TotalDetections int           `json:"total_detections"`
	AlertsTriggered int           `json:"alerts_triggered"`
	TopObjects      []ObjectCount `json:"top_objects"`
}

type IntelligentReportResponse struct {
	ReportType        string                  `json:"report_type"`
	DetectionsSummary DetectionsSummary       `json:"detections_summary"`
	EmotionsAnalysis  types.EmotionAnalysis   `json:"emotions_analysis"`
	SentimentAnalysis types.SentimentAnalysis `json:"sentiment_analysis"`
	Insights          []string                `json:"insights"`
}
