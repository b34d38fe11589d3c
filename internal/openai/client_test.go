package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giftmatch/catalog-ingest/internal/domain"
	"github.com/giftmatch/catalog-ingest/internal/openai"
)

func TestGenerateAttributesDecodesChoice(t *testing.T) {
	var gotAuth string
	var gotReq map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		content := `{"description":"Great for young builders.","category":"toys",` +
			`"min_age":6,"max_age":12,"gender":"unisex","tags":["lego","building"]}`
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	client := openai.NewClient(openai.Config{
		APIKey:    "sk-test",
		BaseURL:   server.URL,
		ChatModel: "gpt-4o-mini",
	})

	enrichment, err := client.GenerateAttributes(context.Background(), domain.ScrapedProduct{
		Name:               "LEGO Castle",
		Price:              49.99,
		ProductDescription: "A buildable castle set.",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "gpt-4o-mini", gotReq["model"])
	assert.Equal(t, "toys", enrichment.Category)
	assert.Equal(t, 6, enrichment.MinAge)
	assert.Equal(t, 12, enrichment.MaxAge)
	assert.Equal(t, domain.GenderUnisex, enrichment.Gender)
	assert.Equal(t, []string{"lego", "building"}, enrichment.Tags)
}

func TestGenerateAttributesNormalizesGender(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		content := `{"description":"text","category":"toys","gender":"EVERYONE"}`
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	client := openai.NewClient(openai.Config{APIKey: "sk-test", BaseURL: server.URL})

	enrichment, err := client.GenerateAttributes(context.Background(), domain.ScrapedProduct{Name: "Thing"})
	require.NoError(t, err)
	assert.Equal(t, domain.GenderUnisex, enrichment.Gender)
}

func TestGenerateAttributesFailsOnMalformedContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "sorry, I cannot help with that"}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	client := openai.NewClient(openai.Config{APIKey: "sk-test", BaseURL: server.URL})

	_, err := client.GenerateAttributes(context.Background(), domain.ScrapedProduct{Name: "Thing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode enrichment attributes")
}

func TestGenerateAttributesFailsOnEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := openai.NewClient(openai.Config{APIKey: "sk-test", BaseURL: server.URL})

	_, err := client.GenerateAttributes(context.Background(), domain.ScrapedProduct{Name: "Thing"})
	require.Error(t, err)
}

func TestEmbedReturnsVector(t *testing.T) {
	var gotReq map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/embeddings", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		resp := map[string]any{
			"data": []map[string]any{
				{"embedding": []float32{0.25, -0.5, 0.125}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	client := openai.NewClient(openai.Config{
		APIKey:         "sk-test",
		BaseURL:        server.URL,
		EmbeddingModel: "text-embedding-3-small",
	})

	vector, err := client.Embed(context.Background(), "a gift for builders")
	require.NoError(t, err)

	assert.Equal(t, "text-embedding-3-small", gotReq["model"])
	assert.Equal(t, "a gift for builders", gotReq["input"])
	assert.Equal(t, []float32{0.25, -0.5, 0.125}, vector)
}

func TestEmbedSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided"}}`))
	}))
	defer server.Close()

	client := openai.NewClient(openai.Config{APIKey: "sk-bad", BaseURL: server.URL})

	_, err := client.Embed(context.Background(), "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
	assert.Contains(t, err.Error(), "Incorrect API key provided")
}
