package services

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/aruana-vision/apiserver/internal/store"
	"github.com/aruana-vision/apiserver/internal/vision"
	"github.com/aruana-vision/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDetectionRepo struct {
	records []types.Detection
}

func (f *fakeDetectionRepo) Create(ctx context.Context, detection types.Detection) error {
	f.records = append(f.records, detection)
	return nil
}

func (f *fakeDetectionRepo) GetByID(ctx context.Context, id string) (types.Detection, error) {
	for _, detection := range f.records {
		if detection.ID == id {
			return detection, nil
		}
	}
	return types.Detection{}, store.ErrNotFound
}

func (f *fakeDetectionRepo) List(ctx context.Context, userID string, limit, skip int64) ([]types.Detection, error) {
	out := []types.Detection{}
	for _, detection := range f.records {
		if userID == "" || detection.UserID == userID {
			out = append(out, detection)
		}
	}
	if skip > int64(len(out)) {
		skip = int64(len(out))
	}
	out = out[skip:]
	if limit < int64(len(out)) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeDetectionRepo) Delete(ctx context.Context, id string) error {
	for i, detection := range f.records {
		if detection.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeDetectionRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.records)), nil
}

type fakeAlertRuleRepo struct {
	alerts []types.Alert
}

func (f *fakeAlertRuleRepo) ListEnabled(ctx context.Context) ([]types.Alert, error) {
	enabled := []types.Alert{}
	for _, alert := range f.alerts {
		if alert.Enabled {
			enabled = append(enabled, alert)
		}
	}
	return enabled, nil
}

type stubVisionClient struct {
	response string
	err      error
	calls    int
}

func (s *stubVisionClient) Analyze(ctx context.Context, instructions string, image []byte) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func testImage() string {
	return base64.StdEncoding.EncodeToString([]byte{0xFF, 0xD8, 0xFF, 0xD9})
}

func newTestService(client vision.Client, alerts []types.Alert) (*DetectionService, *fakeDetectionRepo) {
	repo := &fakeDetectionRepo{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewDetectionService(
		repo,
		&fakeAlertRuleRepo{alerts: alerts},
		client,
		vision.Retryer{MaxAttempts: 3, Base: time.Millisecond},
		nil,
		nil,
		logger,
	)
	return svc, repo
}

func TestAnalyzeSuccess(t *testing.T) {
	client := &stubVisionClient{response: `{"objects": [{"label": "pessoa", "confidence": 0.9}], "description": "uma pessoa"}`}
	svc, repo := newTestService(client, nil)

	detection, err := svc.Analyze(context.Background(), AnalyzeInput{
		Task:          vision.TaskScene,
		Source:        "camera",
		DetectionType: "scene",
		ImageData:     testImage(),
		UserID:        "user-1",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, detection.ID)
	assert.False(t, detection.Timestamp.IsZero())
	assert.Equal(t, "uma pessoa", detection.Description)
	require.Len(t, detection.ObjectsDetected, 1)
	assert.Equal(t, "user-1", detection.UserID)
	assert.Equal(t, "pessoas", detection.Category)
	assert.Contains(t, detection.Tags, "pessoa")
	require.Len(t, repo.records, 1)
	assert.Equal(t, detection.ID, repo.records[0].ID)
}

func TestAnalyzeDataURIPrefix(t *testing.T) {
	client := &stubVisionClient{response: `{"description": "ok", "objects": []}`}
	svc, _ := newTestService(client, nil)

	_, err := svc.Analyze(context.Background(), AnalyzeInput{
		Task:          vision.TaskScene,
		Source:        "camera",
		DetectionType: "scene",
		ImageData:     "data:image/jpeg;base64," + testImage(),
		UserID:        "user-1",
	})
	require.NoError(t, err)
}

func TestAnalyzeInvalidImage(t *testing.T) {
	client := &stubVisionClient{response: "não deve ser chamado"}
	svc, repo := newTestService(client, nil)

	_, err := svc.Analyze(context.Background(), AnalyzeInput{
		Task:          vision.TaskScene,
		Source:        "camera",
		DetectionType: "scene",
		ImageData:     "not!!base64!!",
		UserID:        "user-1",
	})
	assert.ErrorIs(t, err, ErrInvalidImage)
	assert.Zero(t, client.calls)
	assert.Empty(t, repo.records)
}

func TestAnalyzeUnavailablePropagates(t *testing.T) {
	client := &stubVisionClient{err: vision.ErrUnavailable}
	svc, repo := newTestService(client, nil)

	_, err := svc.Analyze(context.Background(), AnalyzeInput{
		Task:          vision.TaskScene,
		Source:        "camera",
		DetectionType: "scene",
		ImageData:     testImage(),
		UserID:        "user-1",
	})
	assert.ErrorIs(t, err, vision.ErrUnavailable)
	assert.Equal(t, 3, client.calls)
	assert.Empty(t, repo.records)
}

func TestAnalyzeUnparseableOutputStillPersists(t *testing.T) {
	client := &stubVisionClient{response: "A cena mostra um jardim."}
	svc, repo := newTestService(client, nil)

	detection, err := svc.Analyze(context.Background(), AnalyzeInput{
		Task:          vision.TaskScene,
		Source:        "camera",
		DetectionType: "scene",
		ImageData:     testImage(),
		UserID:        "user-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "A cena mostra um jardim.", detection.Description)
	assert.Empty(t, detection.ObjectsDetected)
	require.Len(t, repo.records, 1)
}

func TestAnalyzeMatchesAlerts(t *testing.T) {
	client := &stubVisionClient{response: `{"objects": [{"label": "cachorro grande", "confidence": 0.9}], "description": "um cachorro"}`}
	alerts := []types.Alert{
		{ID: "a1", ObjectName: "Cachorro", Enabled: true},
		{ID: "a2", ObjectName: "gato", Enabled: true},
	}
	svc, _ := newTestService(client, alerts)

	detection, err := svc.Analyze(context.Background(), AnalyzeInput{
		Task:          vision.TaskScene,
		Source:        "camera",
		DetectionType: "scene",
		ImageData:     testImage(),
		UserID:        "user-1",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Cachorro"}, detection.AlertsTriggered)
}

func TestListClampsLimit(t *testing.T) {
	client := &stubVisionClient{}
	svc, repo := newTestService(client, nil)
	for i := 0; i < 3; i++ {
		repo.records = append(repo.records, types.Detection{ID: "d", UserID: "user-1"})
	}

	// Zero limit falls back to the default page size.
	detections, err := svc.List(context.Background(), "user-1", 0, 0)
	require.NoError(t, err)
	assert.Len(t, detections, 3)

	detections, err = svc.List(context.Background(), "user-1", 2, 0)
	require.NoError(t, err)
	assert.Len(t, detections, 2)
}

func TestDeleteMissing(t *testing.T) {
	client := &stubVisionClient{}
	svc, _ := newTestService(client, nil)

	err := svc.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDecodeImageEmpty(t *testing.T) {
	_, err := decodeImage("")
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, err = decodeImage("data:image/jpeg;base64,")
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestAnalyzeNonRetryableVisionError(t *testing.T) {
	permanent := errors.New("model rejected request")
	client := &stubVisionClient{err: permanent}
	svc, repo := newTestService(client, nil)

	_, err := svc.Analyze(context.Background(), AnalyzeInput{
		Task:          vision.TaskScene,
		Source:        "camera",
		DetectionType: "scene",
		ImageData:     testImage(),
		UserID:        "user-1",
	})
	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, client.calls)
	assert.Empty(t, repo.records)
}
