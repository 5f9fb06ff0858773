package insight

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/julianstephens/habitpulse/internal/constants"
)

// GeminiGenerator calls the Gemini API. The client is created on first use.
type GeminiGenerator struct {
	apiKey string
	model  string

	once    sync.Once
	client  *genai.Client
	initErr error
}

var _ Generator = (*GeminiGenerator)(nil)

func NewGeminiGenerator(apiKey string) *GeminiGenerator {
	return &GeminiGenerator{
		apiKey: strings.TrimSpace(apiKey),
		model:  constants.InsightModel,
	}
}

func (g *GeminiGenerator) GenerateInsight(ctx context.Context, prompt string) (string, error) {
	if g.apiKey == "" {
		return "", ErrUnavailable
	}

	g.once.Do(func() {
		g.client, g.initErr = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  g.apiKey,
			Backend: genai.BackendGeminiAPI,
		})
	})
	if g.initErr != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", g.initErr)
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	return resp.Text(), nil
}
