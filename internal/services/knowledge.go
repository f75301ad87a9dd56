package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// Embedder turns text into a vector for similarity search.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// KnowledgeService stores domain reference material (interview guides,
// rubrics, topic outlines) and retrieves the most relevant snippets as
// extra context for question generation. It is advisory only; retrieval
// failures degrade to no context.
type KnowledgeService interface {
	InitCollection() error
	UpsertSnippet(ctx context.Context, snippetID, domain, text string) error
	SearchContext(ctx context.Context, queryText, domain string, limit int) (string, error)
}

type knowledgeService struct {
	client         *qdrant.Client
	embedder       Embedder
	collectionName string
	vectorSize     uint64
}

func NewKnowledgeService(urlStr, apiKey, collectionName string, embedder Embedder) (KnowledgeService, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port by default.
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &knowledgeService{
		client:         client,
		embedder:       embedder,
		collectionName: collectionName,
		vectorSize:     768, // text-embedding-004 size
	}, nil
}

// InitCollection implements KnowledgeService.
func (k *knowledgeService) InitCollection() error {
	ctx := context.Background()

	exists, err := k.client.CollectionExists(ctx, k.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}
	if exists {
		return nil
	}

	err = k.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: k.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     k.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	return nil
}

// UpsertSnippet implements KnowledgeService.
func (k *knowledgeService) UpsertSnippet(ctx context.Context, snippetID, domain, text string) error {
	embedding, err := k.embedder.GenerateEmbedding(ctx, text)
	if err != nil {
		return fmt.Errorf("failed to embed snippet: %w", err)
	}

	pointID := uuid.New()
	point := &qdrant.PointStruct{
		Id:      qdrant.NewIDNum(uint64(pointID.ID())),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]interface{}{
			"snippet_id": snippetID,
			"domain":     domain,
			"text":       text,
		}),
	}

	_, err = k.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: k.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert snippet: %w", err)
	}

	return nil
}

// SearchContext implements KnowledgeService. The result is a single prompt-
// ready block; an empty string means nothing relevant was found.
func (k *knowledgeService) SearchContext(ctx context.Context, queryText, domain string, limit int) (string, error) {
	embedding, err := k.embedder.GenerateEmbedding(ctx, queryText)
	if err != nil {
		return "", fmt.Errorf("failed to embed query: %w", err)
	}

	var filter *qdrant.Filter
	if domain != "" {
		filter = &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("domain", domain),
			},
		}
	}

	points, err := k.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: k.collectionName,
		Query:          qdrant.NewQuery(embedding...),
		Filter:         filter,
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return "", fmt.Errorf("failed to search knowledge base: %w", err)
	}

	var parts []string
	for i, point := range points {
		text := ""
		if value, ok := point.Payload["text"]; ok {
			if sv, ok := value.GetKind().(*qdrant.Value_StringValue); ok {
				text = sv.StringValue
			}
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("--- Reference %d (Score: %.2f) ---\n%s",
			i+1, point.Score, strings.TrimSpace(text)))
	}

	return strings.Join(parts, "\n\n"), nil
}
