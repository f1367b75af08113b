// Package gemini classifies design traits (pattern, style, garment type)
// with a Google Gen AI model.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"google.golang.org/genai"

	"github.com/jmylchreest/atelier/internal/design"
)

const (
	// DefaultModel is used when Config.Model is empty.
	DefaultModel = "gemini-2.5-flash"

	// BackendGeminiAPI and BackendVertexAI name the supported backends.
	BackendGeminiAPI = "gemini-api"
	BackendVertexAI  = "vertex-ai"

	prompt = `You are a fashion analyst. Describe the outfit design in this image.
Reply with a single JSON object with exactly these string fields:
"pattern" (one of: solid, striped, floral, plaid, polka dot, geometric),
"style" (one of: casual, formal, athletic, bohemian, vintage, minimalist),
"garmentType" (for example: dress, shirt, pants, skirt, jacket).`
)

// generator is the subset of *genai.Models the classifier needs.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Config configures the classifier.
type Config struct {
	Backend string
	Model   string
	// APIKey is required for the Gemini API backend. When empty the
	// GOOGLE_API_KEY environment variable is used.
	APIKey string
}

// Classifier implements design.TraitClassifier.
type Classifier struct {
	models generator
	model  string
	logger hclog.Logger
}

var _ design.TraitClassifier = (*Classifier)(nil)

// New creates a Gen AI client and returns a classifier using it.
func New(ctx context.Context, cfg Config, logger hclog.Logger) (*Classifier, error) {
	clientConfig := &genai.ClientConfig{}

	switch cfg.Backend {
	case BackendVertexAI:
		clientConfig.Backend = genai.BackendVertexAI
	case BackendGeminiAPI, "":
		clientConfig.Backend = genai.BackendGeminiAPI
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("GOOGLE_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("GOOGLE_API_KEY environment variable is required for the %s backend", BackendGeminiAPI)
		}
		clientConfig.APIKey = apiKey
	default:
		return nil, fmt.Errorf("unknown genai backend: %s (valid: %s, %s)", cfg.Backend, BackendGeminiAPI, BackendVertexAI)
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gen AI client: %w", err)
	}

	return newClassifier(client.Models, cfg.Model, logger), nil
}

func newClassifier(models generator, model string, logger hclog.Logger) *Classifier {
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Classifier{models: models, model: model, logger: logger}
}

// ClassifyTraits sends the image to the model and parses its JSON reply.
func (c *Classifier) ClassifyTraits(ctx context.Context, img image.Image) (design.Traits, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return design.Traits{}, fmt.Errorf("failed to encode design image: %w", err)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(buf.Bytes(), "image/png"),
			genai.NewPartFromText(prompt),
		}, genai.RoleUser),
	}

	c.logger.Debug("classifying design traits", "model", c.model, "bytes", buf.Len())

	resp, err := c.models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return design.Traits{}, fmt.Errorf("trait classification failed: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		return design.Traits{}, fmt.Errorf("no text in trait classification response")
	}

	return ParseTraits(text)
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

// ParseTraits decodes a model reply, tolerating a surrounding Markdown code
// fence. Values are lower-cased and trimmed.
func ParseTraits(text string) (design.Traits, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var traits design.Traits
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &traits); err != nil {
		return design.Traits{}, fmt.Errorf("invalid trait classification reply: %w", err)
	}

	traits.Pattern = strings.ToLower(strings.TrimSpace(traits.Pattern))
	traits.Style = strings.ToLower(strings.TrimSpace(traits.Style))
	traits.GarmentType = strings.ToLower(strings.TrimSpace(traits.GarmentType))

	if traits == (design.Traits{}) {
		return design.Traits{}, fmt.Errorf("trait classification reply has no traits")
	}
	return traits, nil
}
