// Package openai is a minimal client for the OpenAI chat-completion and
// embedding endpoints, covering just what enrichment and storage need.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/giftmatch/catalog-ingest/internal/domain"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Config configures the API client.
type Config struct {
	APIKey         string
	BaseURL        string
	ChatModel      string
	EmbeddingModel string
	RequestTimeout time.Duration
}

// Client calls the OpenAI HTTP API.
type Client struct {
	httpClient     *http.Client
	apiKey         string
	baseURL        string
	chatModel      string
	embeddingModel string
}

// NewClient creates an API client.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		httpClient:     &http.Client{Timeout: timeout},
		apiKey:         cfg.APIKey,
		baseURL:        baseURL,
		chatModel:      cfg.ChatModel,
		embeddingModel: cfg.EmbeddingModel,
	}
}

const attributesSystemPrompt = `You are a gift catalog curator. Given an Amazon product listing, ` +
	`produce gift-matching attributes as a JSON object with exactly these keys: ` +
	`"description" (1-3 sentences describing who this gift is perfect for), ` +
	`"category" (a short lowercase category such as "toys" or "electronics"), ` +
	`"min_age" (integer), "max_age" (integer), ` +
	`"gender" (one of "male", "female", "unisex"), ` +
	`"tags" (array of short keyword strings). Respond with JSON only.`

// GenerateAttributes asks the chat model for gift-matching attributes for a
// scraped product.
func (c *Client) GenerateAttributes(ctx context.Context, product domain.ScrapedProduct) (domain.Enrichment, error) {
	userPrompt := fmt.Sprintf("Product name: %s\nPrice: $%.2f\nListing description: %s",
		product.Name, product.Price, product.ProductDescription)

	reqBody := chatRequest{
		Model: c.chatModel,
		Messages: []chatMessage{
			{Role: "system", Content: attributesSystemPrompt},
			{Role: "user", Content: userPrompt},
		},
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	var resp chatResponse
	if err := c.post(ctx, "/chat/completions", reqBody, &resp); err != nil {
		return domain.Enrichment{}, err
	}
	if len(resp.Choices) == 0 {
		return domain.Enrichment{}, fmt.Errorf("chat completion returned no choices")
	}

	var enrichment domain.Enrichment
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &enrichment); err != nil {
		return domain.Enrichment{}, fmt.Errorf("decode enrichment attributes: %w", err)
	}
	enrichment.Gender = domain.ParseGender(string(enrichment.Gender))

	return enrichment, nil
}

// Embed computes the embedding vector for the given text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	reqBody := embeddingRequest{Model: c.embeddingModel, Input: text}

	var resp embeddingResponse
	if err := c.post(ctx, "/embeddings", reqBody, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embedding response contained no data")
	}

	return resp.Data[0].Embedding, nil
}

// post sends a JSON request and decodes a JSON response. Non-2xx statuses
// are reported with the API's error message when one is present.
func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiErrorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("%s: status %d: %s", path, resp.StatusCode, apiErr.Error.Message)
		}
		return fmt.Errorf("%s: status %d", path, resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
