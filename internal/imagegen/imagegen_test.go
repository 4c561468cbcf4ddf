package imagegen

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"google.golang.org/genai"

	"github.com/jmylchreest/bandtint/internal/hardware"
)

type fakeModels struct {
	imagesResp  *genai.GenerateImagesResponse
	contentResp *genai.GenerateContentResponse
	err         error

	lastModel  string
	lastPrompt string
}

func (f *fakeModels) GenerateImages(_ context.Context, model, prompt string, _ *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error) {
	f.lastModel, f.lastPrompt = model, prompt
	return f.imagesResp, f.err
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.lastModel = model
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.lastPrompt = contents[0].Parts[0].Text
	}
	return f.contentResp, f.err
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 9))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func newTestGenerator(model string, fake *fakeModels) *Generator {
	g := New(Config{Model: model}, nil)
	g.newModels = func(context.Context) (models, error) { return fake, nil }
	return g
}

var tile = hardware.NewDimension2D(310, 128)

func TestGenerateGemini(t *testing.T) {
	fake := &fakeModels{contentResp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "here you go"},
				{InlineData: &genai.Blob{MIMEType: "image/png", Data: pngBytes(t)}},
			}},
		}},
	}}

	img, err := newTestGenerator("", fake).Generate(context.Background(), "a calm sea", tile)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if img.Bounds().Dx() != 16 {
		t.Errorf("bounds = %v", img.Bounds())
	}
	if fake.lastModel != DefaultModel {
		t.Errorf("model = %q", fake.lastModel)
	}
	if !strings.Contains(fake.lastPrompt, "310 by 128") || !strings.Contains(fake.lastPrompt, "a calm sea") {
		t.Errorf("prompt = %q", fake.lastPrompt)
	}
}

func TestGenerateImagen(t *testing.T) {
	fake := &fakeModels{imagesResp: &genai.GenerateImagesResponse{
		GeneratedImages: []*genai.GeneratedImage{{Image: &genai.Image{ImageBytes: pngBytes(t)}}},
	}}

	if _, err := newTestGenerator("imagen-4.0-generate-001", fake).Generate(context.Background(), "forest", tile); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if fake.lastModel != "imagen-4.0-generate-001" || !strings.HasPrefix(fake.lastPrompt, "forest") {
		t.Errorf("model = %q, prompt = %q", fake.lastModel, fake.lastPrompt)
	}
}

func TestGenerateErrors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		model         string
		fake          *fakeModels
		prompt        string
		errorContains string
	}{
		{name: "empty prompt", fake: &fakeModels{}, prompt: "  ", errorContains: "prompt cannot be empty"},
		{name: "api failure", fake: &fakeModels{err: errors.New("quota")}, prompt: "x", errorContains: "quota"},
		{name: "no candidates", fake: &fakeModels{contentResp: &genai.GenerateContentResponse{}}, prompt: "x", errorContains: "no image data"},
		{
			name:          "text only",
			fake:          &fakeModels{contentResp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []*genai.Part{{Text: "no"}}}}}}},
			prompt:        "x",
			errorContains: "no inline image data",
		},
		{
			name:  "filtered",
			model: "imagen-4.0-generate-001",
			fake: &fakeModels{imagesResp: &genai.GenerateImagesResponse{
				GeneratedImages: []*genai.GeneratedImage{{RAIFilteredReason: "blocked"}},
			}},
			prompt:        "x",
			errorContains: "filtered by safety system",
		},
		{
			name:          "imagen empty",
			model:         "imagen-4.0-generate-001",
			fake:          &fakeModels{imagesResp: &genai.GenerateImagesResponse{}},
			prompt:        "x",
			errorContains: "no images generated",
		},
		{
			name:          "undecodable",
			fake:          &fakeModels{contentResp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []*genai.Part{{InlineData: &genai.Blob{Data: []byte("nope")}}}}}}}},
			prompt:        "x",
			errorContains: "failed to decode image",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestGenerator(tt.model, tt.fake).Generate(ctx, tt.prompt, tile)
			if err == nil || !strings.Contains(err.Error(), tt.errorContains) {
				t.Errorf("Generate() error = %v, want %q", err, tt.errorContains)
			}
		})
	}
}

func TestClientSetupRequiresAPIKey(t *testing.T) {
	t.Setenv(APIKeyEnv, "")
	g := New(Config{}, nil)
	if _, err := g.clientSetup(context.Background()); err == nil || !strings.Contains(err.Error(), APIKeyEnv) {
		t.Errorf("clientSetup() error = %v", err)
	}

	g = New(Config{Backend: "carrier-pigeon"}, nil)
	if _, err := g.clientSetup(context.Background()); err == nil || !strings.Contains(err.Error(), "unknown Gen AI backend") {
		t.Errorf("clientSetup() error = %v", err)
	}
}
