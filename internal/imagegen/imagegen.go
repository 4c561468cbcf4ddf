// Package imagegen generates Me Tile artwork with Google Gen AI.
package imagegen

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"google.golang.org/genai"

	"github.com/jmylchreest/bandtint/internal/hardware"
	imgutil "github.com/jmylchreest/bandtint/internal/image"
)

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = "gemini-2.5-flash-image"

	// BackendGeminiAPI selects the Gemini API (API key authentication).
	BackendGeminiAPI = "gemini-api"

	// BackendVertexAI selects Vertex AI (application default credentials).
	BackendVertexAI = "vertex-ai"

	// APIKeyEnv is read when no API key is configured.
	APIKeyEnv = "GOOGLE_API_KEY"

	// tileEnhancement is appended to prompts so results suit a small, wide band screen.
	tileEnhancement = ", simple bold composition readable on a small wide wristband screen, high contrast, no text, no borders, edge-to-edge"

	// imagenAspectRatio is the widest ratio Imagen offers; the tile is cropped from it.
	imagenAspectRatio = "16:9"
)

// Config selects the model and backend.
type Config struct {
	Model   string
	Backend string
	APIKey  string
}

// models is the part of the Gen AI client the generator uses.
type models interface {
	GenerateImages(ctx context.Context, model, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error)
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// clientModels forwards to a genai.Client.
type clientModels struct {
	client *genai.Client
}

func (c clientModels) GenerateImages(ctx context.Context, model, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error) {
	return c.client.Models.GenerateImages(ctx, model, prompt, config)
}

func (c clientModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return c.client.Models.GenerateContent(ctx, model, contents, config)
}

// Generator turns text prompts into Me Tile images.
type Generator struct {
	cfg       Config
	logger    hclog.Logger
	newModels func(ctx context.Context) (models, error)
}

// New creates a Generator. The client is created lazily on first use.
func New(cfg Config, logger hclog.Logger) *Generator {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Backend == "" {
		cfg.Backend = BackendGeminiAPI
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	g := &Generator{cfg: cfg, logger: logger.Named("imagegen")}
	g.newModels = g.clientSetup
	return g
}

// clientSetup creates the Gen AI client for the configured backend.
func (g *Generator) clientSetup(ctx context.Context) (models, error) {
	clientConfig := &genai.ClientConfig{}

	switch g.cfg.Backend {
	case BackendVertexAI:
		clientConfig.Backend = genai.BackendVertexAI
	case BackendGeminiAPI:
		clientConfig.Backend = genai.BackendGeminiAPI
		apiKey := g.cfg.APIKey
		if apiKey == "" {
			apiKey = os.Getenv(APIKeyEnv)
		}
		if apiKey == "" {
			return nil, fmt.Errorf("%s environment variable is required\nGet one at: https://aistudio.google.com/api-keys", APIKeyEnv)
		}
		clientConfig.APIKey = apiKey
	default:
		return nil, fmt.Errorf("unknown Gen AI backend %q (want %s or %s)", g.cfg.Backend, BackendGeminiAPI, BackendVertexAI)
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gen AI client: %w", err)
	}
	g.logger.Debug("created Gen AI client", "backend", g.cfg.Backend, "model", g.cfg.Model)
	return clientModels{client: client}, nil
}

// isGeminiModel reports whether model generates through GenerateContent rather than GenerateImages.
func isGeminiModel(model string) bool {
	return strings.HasPrefix(model, "gemini-")
}

// Generate renders prompt as an image meant for a tile of size.
// The result still has the model's native resolution; callers fit it to the tile.
func (g *Generator) Generate(ctx context.Context, prompt string, size hardware.Dimension2D) (image.Image, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, fmt.Errorf("prompt cannot be empty")
	}

	m, err := g.newModels(ctx)
	if err != nil {
		return nil, err
	}

	enhanced := prompt + tileEnhancement
	var data []byte
	if isGeminiModel(g.cfg.Model) {
		data, err = g.generateWithGemini(ctx, m, enhanced, size)
	} else {
		data, err = g.generateWithImagen(ctx, m, enhanced)
	}
	if err != nil {
		return nil, err
	}

	g.logger.Debug("received image data", "bytes", len(data))
	return imgutil.NewSmartLoader().Decode(bytes.NewReader(data))
}

func (g *Generator) generateWithImagen(ctx context.Context, m models, prompt string) ([]byte, error) {
	g.logger.Debug("calling GenerateImages", "model", g.cfg.Model, "prompt", prompt)

	response, err := m.GenerateImages(ctx, g.cfg.Model, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		AspectRatio:    imagenAspectRatio,
		OutputMIMEType: "image/png",
	})
	if err != nil {
		return nil, fmt.Errorf("image generation failed: %w", err)
	}
	if len(response.GeneratedImages) == 0 {
		return nil, fmt.Errorf("no images generated in response")
	}

	generated := response.GeneratedImages[0]
	if generated.RAIFilteredReason != "" {
		return nil, fmt.Errorf("image was filtered by safety system: %s", generated.RAIFilteredReason)
	}
	if generated.Image == nil || len(generated.Image.ImageBytes) == 0 {
		return nil, fmt.Errorf("generated image has no image data")
	}
	return generated.Image.ImageBytes, nil
}

func (g *Generator) generateWithGemini(ctx context.Context, m models, prompt string, size hardware.Dimension2D) ([]byte, error) {
	g.logger.Debug("calling GenerateContent", "model", g.cfg.Model, "prompt", prompt)

	text := fmt.Sprintf("Generate a %d by %d pixel image: %s", size.Width, size.Height, prompt)
	response, err := m.GenerateContent(ctx, g.cfg.Model, genai.Text(text), &genai.GenerateContentConfig{
		ResponseModalities: []string{"Image"},
	})
	if err != nil {
		return nil, fmt.Errorf("image generation failed: %w", err)
	}
	if len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no image data in response")
	}

	for _, part := range response.Candidates[0].Content.Parts {
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return part.InlineData.Data, nil
		}
	}
	return nil, fmt.Errorf("no inline image data found in response")
}
