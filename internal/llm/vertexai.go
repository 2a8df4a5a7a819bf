package llm

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
)

const (
	defaultLocation = "us-central1"
	defaultModel    = "gemini-1.5-flash"
)

// Generator produces text for a prompt
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// VertexOptions selects the project and model for the Vertex AI client
type VertexOptions struct {
	ProjectID       string
	Location        string
	Model           string
	Temperature     float32
	MaxOutputTokens int32
}

// VertexAIClient wraps the Vertex AI Gemini API
type VertexAIClient struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	projectID string
	location  string
}

// NewVertexAIClient creates a new Vertex AI client
func NewVertexAIClient(ctx context.Context, opts VertexOptions) (*VertexAIClient, error) {
	if strings.TrimSpace(opts.ProjectID) == "" {
		return nil, fmt.Errorf("google cloud project is not configured")
	}
	if opts.Location == "" {
		opts.Location = defaultLocation
	}
	if opts.Model == "" {
		opts.Model = defaultModel
	}
	if opts.Temperature == 0 {
		opts.Temperature = 0.4
	}
	if opts.MaxOutputTokens == 0 {
		opts.MaxOutputTokens = 1024
	}

	client, err := genai.NewClient(ctx, opts.ProjectID, opts.Location)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vertex AI client: %w", err)
	}

	model := client.GenerativeModel(opts.Model)
	model.SetTemperature(opts.Temperature)
	model.SetTopK(40)
	model.SetTopP(0.95)
	model.SetMaxOutputTokens(opts.MaxOutputTokens)
	model.ResponseMIMEType = "application/json"

	return &VertexAIClient{
		client:    client,
		model:     model,
		projectID: opts.ProjectID,
		location:  opts.Location,
	}, nil
}

// GenerateContent sends a prompt to the model and returns the response
func (v *VertexAIClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	resp, err := v.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response candidates returned")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	return sb.String(), nil
}

// Close closes the Vertex AI client
func (v *VertexAIClient) Close() error {
	return v.client.Close()
}
