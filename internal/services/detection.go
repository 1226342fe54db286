package services

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aruana-vision/apiserver/internal/analysis"
	"github.com/aruana-vision/apiserver/internal/notify"
	"github.com/aruana-vision/apiserver/internal/storage"
	"github.com/aruana-vision/apiserver/internal/vision"
	"github.com/aruana-vision/apiserver/types"
	"github.com/google/uuid"
)

// ErrInvalidImage marks image payloads that cannot be decoded.
var ErrInvalidImage = errors.New("invalid image payload")

const (
	defaultListLimit = 50
	maxListLimit     = 100
)

// DetectionRepository defines the persistence operations the detection
// service needs.
type DetectionRepository interface {
	Create(ctx context.Context, detection types.Detection) error
	GetByID(ctx context.Context, id string) (types.Detection, error)
	List(ctx context.Context, userID string, limit, skip int64) ([]types.Detection, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// AlertRuleRepository defines the alert-rule reads the detection
// service needs when matching a new analysis result.
type AlertRuleRepository interface {
	ListEnabled(ctx context.Context) ([]types.Alert, error)
}

// AnalyzeInput carries one analysis request through the pipeline.
type AnalyzeInput struct {
	Task          vision.Task
	Source        string
	DetectionType string
	ImageData     string
	GeoLocation   *types.GeoLocation
	SearchQuery   string
	Mode          string
	UserID        string
}

// DetectionService runs the vision analysis pipeline and manages the
// resulting records.
type DetectionService struct {
	detections DetectionRepository
	alerts     AlertRuleRepository
	vision     vision.Client
	retryer    vision.Retryer
	archive    *storage.Archive
	notifier   *notify.Notifier
	logger     *slog.Logger
}

func NewDetectionService(
	detections DetectionRepository,
	alerts AlertRuleRepository,
	visionClient vision.Client,
	retryer vision.Retryer,
	archive *storage.Archive,
	notifier *notify.Notifier,
	logger *slog.Logger,
) *DetectionService {
	return &DetectionService{
		detections: detections,
		alerts:     alerts,
		vision:     visionClient,
		retryer:    retryer,
		archive:    archive,
		notifier:   notifier,
		logger:     logger,
	}
}

// Analyze runs the full pipeline for one image: decode, prompt, model
// call with retry, tolerant parse, domain mapping, alert matching,
// classification and persistence. Archival and notification are best
// effort and never fail the request.
func (s *DetectionService) Analyze(ctx context.Context, input AnalyzeInput) (types.Detection, error) {
	image, err := decodeImage(input.ImageData)
	if err != nil {
		return types.Detection{}, err
	}

	instructions, err := vision.BuildPrompt(input.Task, vision.PromptParams{
		SearchQuery: input.SearchQuery,
		Mode:        input.Mode,
	})
	if err != nil {
		return types.Detection{}, err
	}

	raw, err := s.retryer.Analyze(ctx, s.vision, instructions, image)
	if err != nil {
		return types.Detection{}, err
	}
	result := vision.Parse(raw)

	detection := types.Detection{
		ID:            uuid.NewString(),
		Timestamp:     time.Now().UTC(),
		Source:        input.Source,
		DetectionType: input.DetectionType,
		ImageData:     input.ImageData,
		UserID:        input.UserID,
		GeoLocation:   input.GeoLocation,
	}
	analysis.Apply(&detection, input.Task, result)

	rules, err := s.alerts.ListEnabled(ctx)
	if err != nil {
		return types.Detection{}, err
	}
	detection.AlertsTriggered = analysis.MatchAlerts(detection.ObjectsDetected, rules)

	detection.Category = analysis.Categorize(input.Task, detection.Description, detection.ObjectsDetected)
	detection.Tags = analysis.Tags(detection)

	if err := s.detections.Create(ctx, detection); err != nil {
		return types.Detection{}, err
	}

	if s.archive != nil {
		if err := s.archive.SaveImage(ctx, detection.ID, image); err != nil {
			s.logger.Warn("failed to archive detection image", "detection_id", detection.ID, "error", err)
		}
	}
	if s.notifier != nil && len(detection.AlertsTriggered) > 0 {
		_, err := s.notifier.AlertsFired(ctx, notify.AlertEvent{
			DetectionID: detection.ID,
			UserID:      detection.UserID,
			Alerts:      detection.AlertsTriggered,
			Timestamp:   detection.Timestamp,
		})
		if err != nil {
			s.logger.Warn("failed to publish alert event", "detection_id", detection.ID, "error", err)
		}
	}

	return detection, nil
}

// List returns detections newest first, clamping the limit to the
// allowed page size.
func (s *DetectionService) List(ctx context.Context, userID string, limit, skip int64) ([]types.Detection, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if skip < 0 {
		skip = 0
	}
	return s.detections.List(ctx, userID, limit, skip)
}

// ListRecent returns up to limit detections across all owners, newest
// first. Used by reporting, which is not paginated.
func (s *DetectionService) ListRecent(ctx context.Context, limit int64) ([]types.Detection, error) {
	return s.detections.List(ctx, "", limit, 0)
}

func (s *DetectionService) GetByID(ctx context.Context, id string) (types.Detection, error) {
	return s.detections.GetByID(ctx, id)
}

// Delete removes a detection and its archived image, if any.
func (s *DetectionService) Delete(ctx context.Context, id string) error {
	if err := s.detections.Delete(ctx, id); err != nil {
		return err
	}
	if s.archive != nil {
		if err := s.archive.RemoveImage(ctx, id); err != nil {
			s.logger.Warn("failed to remove archived image", "detection_id", id, "error", err)
		}
	}
	return nil
}

func (s *DetectionService) Count(ctx context.Context) (int64, error) {
	return s.detections.Count(ctx)
}

// decodeImage accepts raw base64 or a data URI and returns the image
// bytes.
func decodeImage(data string) ([]byte, error) {
	payload := strings.TrimSpace(data)
	if payload == "" {
		return nil, ErrInvalidImage
	}
	if idx := strings.Index(payload, ","); idx >= 0 && strings.HasPrefix(payload, "data:") {
		payload = payload[idx+1:]
	}
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, ErrInvalidImage
	}
	if len(decoded) == 0 {
		return nil, ErrInvalidImage
	}
	return decoded, nil
}
