package vision

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClient struct {
	calls   int
	results []func() (string, error)
}

func (s *stubClient) Analyze(ctx context.Context, instructions string, image []byte) (string, error) {
	i := s.calls
	s.calls++
	if i >= len(s.results) {
		i = len(s.results) - 1
	}
	return s.results[i]()
}

func testRetryer() Retryer {
	return Retryer{MaxAttempts: 3, Base: time.Millisecond}
}

func TestRetryExhaustsOnUnavailable(t *testing.T) {
	client := &stubClient{results: []func() (string, error){
		func() (string, error) { return "", ErrUnavailable },
	}}

	_, err := testRetryer().Analyze(context.Background(), client, "prompt", []byte("img"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 3, client.calls)
}

func TestRetrySucceedsOnSecondAttempt(t *testing.T) {
	client := &stubClient{results: []func() (string, error){
		func() (string, error) { return "", ErrUnavailable },
		func() (string, error) { return `{"description": "ok"}`, nil },
	}}

	out, err := testRetryer().Analyze(context.Background(), client, "prompt", []byte("img"))
	require.NoError(t, err)
	assert.Equal(t, `{"description": "ok"}`, out)
	assert.Equal(t, 2, client.calls)
}

func TestRetryDoesNotRetryOtherErrors(t *testing.T) {
	permanent := errors.New("bad request")
	client := &stubClient{results: []func() (string, error){
		func() (string, error) { return "", permanent },
	}}

	_, err := testRetryer().Analyze(context.Background(), client, "prompt", []byte("img"))
	require.Error(t, err)
	assert.ErrorIs(t, err, permanent)
	assert.NotErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 1, client.calls)
}

func TestRetryFirstTrySuccess(t *testing.T) {
	client := &stubClient{results: []func() (string, error){
		func() (string, error) { return "texto", nil },
	}}

	out, err := testRetryer().Analyze(context.Background(), client, "prompt", []byte("img"))
	require.NoError(t, err)
	assert.Equal(t, "texto", out)
	assert.Equal(t, 1, client.calls)
}
