package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aruana-vision/apiserver/types"
	"github.com/google/uuid"
)

// ErrEmptyObjectName marks alert rules created without a target object.
var ErrEmptyObjectName = errors.New("alert object name is required")

// AlertRepository defines the persistence operations the alert service
// needs.
type AlertRepository interface {
	Create(ctx context.Context, alert types.Alert) error
	List(ctx context.Context) ([]types.Alert, error)
	SetEnabled(ctx context.Context, id string, enabled bool) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// AlertService manages the alert rule catalog.
type AlertService struct {
	repo AlertRepository
}

func NewAlertService(repo AlertRepository) *AlertService {
	return &AlertService{repo: repo}
}

// Create registers a new rule, enabled by default.
func (s *AlertService) Create(ctx context.Context, objectName string) (types.Alert, error) {
	name := strings.TrimSpace(objectName)
	if name == "" {
		return types.Alert{}, ErrEmptyObjectName
	}
	alert := types.Alert{
		ID:         uuid.NewString(),
		ObjectName: name,
		Enabled:    true,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, alert); err != nil {
		return types.Alert{}, err
	}
	return alert, nil
}

func (s *AlertService) List(ctx context.Context) ([]types.Alert, error) {
	return s.repo.List(ctx)
}

func (s *AlertService) SetEnabled(ctx context.Context, id string, enabled bool) error {
	return s.repo.SetEnabled(ctx, id, enabled)
}

func (s *AlertService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *AlertService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
