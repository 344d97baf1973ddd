package vector

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/philippgille/chromem-go"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

const hashDims = 256

// NewEmbeddingFunc builds the embedding function used by the index.
// Supported providers: "ollama", "openai" and "hash".
func NewEmbeddingFunc(provider, model, baseURL, apiKey string) (chromem.EmbeddingFunc, error) {
	var embedder *embeddings.EmbedderImpl

	switch strings.ToLower(provider) {
	case "ollama":
		llm, err := ollama.New(
			ollama.WithServerURL(baseURL),
			ollama.WithModel(model),
		)
		if err != nil {
			return nil, fmt.Errorf("error initializing ollama embedder: %w", err)
		}
		if embedder, err = embeddings.NewEmbedder(llm); err != nil {
			return nil, fmt.Errorf("error creating embedder: %w", err)
		}

	case "openai":
		llm, err := openai.New(
			openai.WithBaseURL(baseURL),
			openai.WithToken(strings.TrimPrefix(apiKey, "Bearer ")),
			openai.WithEmbeddingModel(model),
		)
		if err != nil {
			return nil, fmt.Errorf("error initializing openai embedder: %w", err)
		}
		if embedder, err = embeddings.NewEmbedder(llm); err != nil {
			return nil, fmt.Errorf("error creating embedder: %w", err)
		}

	case "hash", "":
		return HashingEmbeddingFunc(), nil

	default:
		return nil, fmt.Errorf("unknown embedding provider %q", provider)
	}

	return func(ctx context.Context, text string) ([]float32, error) {
		return embedder.EmbedQuery(ctx, text)
	}, nil
}

// HashingEmbeddingFunc embeds text as a normalized bag of hashed word and
// character-trigram features. It needs no model server, which suits tests
// and offline runs.
func HashingEmbeddingFunc() chromem.EmbeddingFunc {
	return func(_ context.Context, text string) ([]float32, error) {
		vec := make([]float32, hashDims)
		vec[0] = 0.01 // keeps empty text from producing a zero vector

		words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		for _, w := range words {
			vec[bucket(w)] += 1
			padded := []rune(" " + w + " ")
			for i := 0; i+3 <= len(padded); i++ {
				vec[bucket(string(padded[i:i+3]))] += 0.5
			}
		}

		var norm float64
		for _, v := range vec {
			norm += float64(v * v)
		}
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
		return vec, nil
	}
}

func bucket(feature string) int {
	h := fnv.New32a()
	h.Write([]byte(feature))
	return 1 + int(h.Sum32()%(hashDims-1))
}
