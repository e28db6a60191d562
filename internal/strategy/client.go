package strategy

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/BerylCAtieno/tubearchitect/internal/apperr"
	"github.com/BerylCAtieno/tubearchitect/internal/models"
)

const (
	DefaultModel   = "gemini-2.5-flash"
	DefaultTimeout = 90 * time.Second

	serviceName     = "gemini"
	maxOutputTokens = 8000
)

type Config struct {
	// APIKey is the server-wide credential used when a profile has none.
	APIKey string
	Model  string
	// BaseURL overrides the Gemini API endpoint. Empty uses the SDK default.
	BaseURL    string
	Timeout    time.Duration
	Language   string
	DemoDelay  time.Duration
	HTTPClient *http.Client
}

// Mode names the branch Generate takes for a profile.
type Mode string

const (
	ModeLive Mode = "live"
	ModeDemo Mode = "demo"
)

// GeminiClient turns a profile and channel stats into a validated strategy.
type GeminiClient struct {
	builder  *Builder
	fallback DemoFallbackPolicy
	cfg      Config
	logger   *zap.Logger
}

func NewGeminiClient(cfg Config, logger *zap.Logger) *GeminiClient {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &GeminiClient{
		builder:  NewBuilder(cfg.Language),
		fallback: DemoFallbackPolicy{Delay: cfg.DemoDelay},
		cfg:      cfg,
		logger:   logger,
	}
}

// ModeFor reports which branch Generate would take for profile.
func (g *GeminiClient) ModeFor(profile models.ProfileInput) Mode {
	if g.credential(profile) == "" {
		return ModeDemo
	}
	return ModeLive
}

// Generate makes at most one request to the model. Without a credential it
// returns the demonstration strategy instead.
func (g *GeminiClient) Generate(ctx context.Context, profile models.ProfileInput, stats models.ChannelStats) (*models.ChannelAnalysis, error) {
	req, err := g.builder.Build(profile, stats)
	if err != nil {
		return nil, err
	}

	apiKey := g.credential(profile)
	if apiKey == "" {
		g.logger.Info("No model credential, using demonstration strategy",
			zap.String("channel", stats.Name),
			zap.Duration("delay", g.fallback.Delay))
		return g.fallback.Analysis(ctx)
	}

	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	text, err := g.complete(ctx, apiKey, req)
	if err != nil {
		return nil, err
	}

	analysis, err := Parse(text)
	if err != nil {
		g.logger.Warn("Strategy response failed validation",
			zap.String("channel", stats.Name),
			zap.Int("length", len(text)),
			zap.Error(err))
		return nil, err
	}

	g.logger.Info("Strategy generated",
		zap.String("channel", stats.Name),
		zap.Int("video_ideas", len(analysis.VideoIdeas)))
	return analysis, nil
}

func (g *GeminiClient) complete(ctx context.Context, apiKey string, req *Request) (string, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: g.cfg.HTTPClient,
	}
	if g.cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: g.cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", err)
	}

	genConfig := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemInstruction}},
		},
		ResponseMIMEType: "application/json",
		ResponseSchema:   req.Schema,
		MaxOutputTokens:  maxOutputTokens,
	}

	g.logger.Debug("Generating strategy with Gemini",
		zap.String("model", g.cfg.Model),
		zap.Int("prompt_length", len(req.Prompt)))

	resp, err := client.Models.GenerateContent(ctx, g.cfg.Model, []*genai.Content{
		{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: req.Prompt}},
		},
	}, genConfig)
	if err != nil {
		g.logger.Error("Gemini generation failed", zap.Error(err))
		return "", upstreamError(err)
	}

	text := extractText(resp)
	if strings.TrimSpace(text) == "" {
		return "", apperr.NewEmptyResponse(serviceName)
	}
	return text, nil
}

func (g *GeminiClient) credential(profile models.ProfileInput) string {
	if key := strings.TrimSpace(profile.ModelCredential); key != "" {
		return key
	}
	return strings.TrimSpace(g.cfg.APIKey)
}

// upstreamError keeps the endpoint's own message so it can be shown as is.
func upstreamError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apperr.NewUpstream(serviceName, apiMessage(apiErr), apiErr.Code).WithCause(err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apperr.NewUpstream(serviceName, apiMessage(*apiErrPtr), apiErrPtr.Code).WithCause(err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.NewUpstream(serviceName, "The AI service did not answer in time", 0).WithCause(err)
	}
	return apperr.NewUpstream(serviceName, err.Error(), 0).WithCause(err)
}

func apiMessage(e genai.APIError) string {
	if e.Message != "" {
		return e.Message
	}
	return e.Status
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return ""
	}

	var texts []string
	for _, part := range candidate.Content.Parts {
		if part != nil && part.Text != "" && !part.Thought {
			texts = append(texts, part.Text)
		}
	}
	return strings.Join(texts, "")
}
