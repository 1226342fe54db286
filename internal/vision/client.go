package vision

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aruana-vision/apiserver/config"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// ErrUnavailable marks overload and rate-limit failures of the vision
// model. Only this kind is retried; everything else propagates
// immediately.
var ErrUnavailable = errors.New("vision service unavailable")

// Client sends an instruction string plus an image to a vision-language
// model and returns its raw text output.
type Client interface {
	Analyze(ctx context.Context, instructions string, image []byte) (string, error)
}

// GeminiClient implements Client on top of the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiClient constructs a Gemini-backed vision client from config.
func NewGeminiClient(ctx context.Context, cfg config.GeminiConfig) (*GeminiClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, err
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}

	return &GeminiClient{
		client: client,
		model:  client.GenerativeModel(modelName),
	}, nil
}

// Analyze sends the instructions and image to the model and collects
// the text parts of the first candidate.
func (c *GeminiClient) Analyze(ctx context.Context, instructions string, image []byte) (string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.ImageData("jpeg", image), genai.Text(instructions))
	if err != nil {
		if isOverloaded(err) {
			return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return "", err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("empty model response")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}

// Close releases the underlying API client.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

func isOverloaded(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == 429 || apiErr.Code == 503 {
			return true
		}
	}
	msg := strings.ToLower(err.Error())
	for _, signal := range []string{"overloaded", "resource exhausted", "resource_exhausted", "rate limit", "quota", "503", "unavailable"} {
		if strings.Contains(msg, signal) {
			return true
		}
	}
	return false
}
