package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/aruana-vision/apiserver/internal/store"
	"github.com/aruana-vision/apiserver/types"
	"github.com/google/uuid"
)

var (
	// ErrNotOwner marks share attempts on someone else's detection.
	ErrNotOwner = errors.New("detection belongs to another user")
	// ErrShareExpired marks views of a share past its expiry.
	ErrShareExpired = errors.New("share link expired")
	// ErrSharingDisabled marks share creation without a configured base URL.
	ErrSharingDisabled = errors.New("sharing is not configured")
)

// ShareRepository defines the persistence operations the share service
// needs.
type ShareRepository interface {
	Create(ctx context.Context, share types.Share) error
	GetByToken(ctx context.Context, token string) (types.Share, error)
	IncrementViews(ctx context.Context, id string) (types.Share, error)
	DeleteByDetection(ctx context.Context, detectionID, userID string) (int64, error)
}

// SharedDetection is a share link resolved for public viewing.
type SharedDetection struct {
	Detection types.Detection
	Views     int64
	SharedAt  time.Time
}

// ShareService manages public share links for detections.
type ShareService struct {
	shares     ShareRepository
	detections DetectionRepository
	baseURL    string
}

func NewShareService(shares ShareRepository, detections DetectionRepository, baseURL string) *ShareService {
	return &ShareService{
		shares:     shares,
		detections: detections,
		baseURL:    baseURL,
	}
}

// Create issues a share link for a detection the caller owns.
func (s *ShareService) Create(ctx context.Context, detectionID, userID string) (types.Share, string, error) {
	if s.baseURL == "" {
		return types.Share{}, "", ErrSharingDisabled
	}

	detection, err := s.detections.GetByID(ctx, detectionID)
	if err != nil {
		return types.Share{}, "", err
	}
	if detection.UserID != "" && detection.UserID != userID {
		return types.Share{}, "", ErrNotOwner
	}

	token, err := newShareToken()
	if err != nil {
		return types.Share{}, "", err
	}

	share := types.Share{
		ID:          uuid.NewString(),
		DetectionID: detectionID,
		ShareToken:  token,
		UserID:      userID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.shares.Create(ctx, share); err != nil {
		return types.Share{}, "", err
	}
	return share, s.baseURL + "/share/" + token, nil
}

// View resolves a share token, counts the view and returns the shared
// detection with the owner identity stripped.
func (s *ShareService) View(ctx context.Context, token string) (SharedDetection, error) {
	share, err := s.shares.GetByToken(ctx, token)
	if err != nil {
		return SharedDetection{}, err
	}
	if share.ExpiresAt != nil && time.Now().After(*share.ExpiresAt) {
		return SharedDetection{}, ErrShareExpired
	}

	share, err = s.shares.IncrementViews(ctx, share.ID)
	if err != nil {
		return SharedDetection{}, err
	}

	detection, err := s.detections.GetByID(ctx, share.DetectionID)
	if err != nil {
		return SharedDetection{}, err
	}
	detection.UserID = ""

	return SharedDetection{
		Detection: detection,
		Views:     share.Views,
		SharedAt:  share.CreatedAt,
	}, nil
}

// Delete revokes every share the caller created for one detection.
// Revoking a detection with no shares is not an error.
func (s *ShareService) Delete(ctx context.Context, detectionID, userID string) error {
	_, err := s.shares.DeleteByDetection(ctx, detectionID, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}

func newShareToken() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
