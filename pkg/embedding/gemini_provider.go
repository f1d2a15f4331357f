package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"team-knowledge-be/internal/pkg/apperrors"
)

// GeminiProvider calls the Gemini text-embedding-004 REST endpoint.
// The model produces 768-dimensional vectors.
type GeminiProvider struct {
	ApiKey string
	Client *http.Client
}

func NewGeminiProvider(apiKey string) EmbeddingProvider {
	return &GeminiProvider{
		ApiKey: apiKey,
		Client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type geminiEmbedRequestPart struct {
	Text string `json:"text"`
}

type geminiEmbedRequestContent struct {
	Parts []geminiEmbedRequestPart `json:"parts"`
}

type geminiEmbedRequest struct {
	Model    string                    `json:"model"`
	Content  geminiEmbedRequestContent `json:"content"`
	TaskType string                    `json:"task_type,omitempty"`
}

type geminiEmbedResponseEmbedding struct {
	Values []float32 `json:"values"`
}

type geminiEmbedResponse struct {
	Embedding geminiEmbedResponseEmbedding `json:"embedding"`
}

func (p *GeminiProvider) Generate(ctx context.Context, text string, taskType string) ([]float32, error) {
	modelName := "text-embedding-004"

	payload := geminiEmbedRequest{
		Model: modelName,
		Content: geminiEmbedRequestContent{
			Parts: []geminiEmbedRequestPart{
				{
					Text: text,
				},
			},
		},
		TaskType: taskType,
	}
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1/models/%s:embedContent",
		modelName,
	)

	req, err := http.NewRequestWithContext(
		ctx,
		"POST",
		endpoint,
		bytes.NewBuffer(payloadJson),
	)
	if err != nil {
		return nil, err
	}

	req.Header.Set("x-goog-api-key", p.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := p.Client.Do(req)
	if err != nil {
		return nil, apperrors.Provider("gemini embedContent", err)
	}
	defer res.Body.Close()

	resBytes, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, apperrors.Provider("gemini embedContent read body", err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, apperrors.Provider(
			"gemini embedContent",
			fmt.Errorf("status %d, body %s", res.StatusCode, string(resBytes)),
		)
	}

	var embedRes geminiEmbedResponse
	if err := json.Unmarshal(resBytes, &embedRes); err != nil {
		return nil, apperrors.Provider("gemini embedContent decode", err)
	}

	if len(embedRes.Embedding.Values) == 0 {
		return nil, apperrors.Provider("gemini embedContent", fmt.Errorf("empty embedding in response"))
	}

	return embedRes.Embedding.Values, nil
}
