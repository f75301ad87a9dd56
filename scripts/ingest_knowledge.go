package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"inclusiveai/skill-assessment/internal/config"
	"inclusiveai/skill-assessment/internal/services"
)

// Seeds the knowledge base with domain reference material used as extra
// context during question generation. Expects PDFs under ./reference_docs.
func main() {
	log.Println("🚀 Starting knowledge ingestion...")

	cfg := config.Load()

	embedder, err := services.NewGeminiGateway(cfg.LLM.GeminiAPIKey, "")
	if err != nil {
		log.Fatalf("❌ Failed to initialize embedder: %v", err)
	}

	knowledge, err := services.NewKnowledgeService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
		embedder,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize knowledge service: %v", err)
	}

	if err := knowledge.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	pdfParser := services.NewPDFParserService()
	ctx := context.Background()

	documents := []struct {
		Path   string
		Domain string
		Name   string
	}{
		{
			Path:   "./reference_docs/python_interview_guide.pdf",
			Domain: "Python",
			Name:   "Python Interview Guide",
		},
		{
			Path:   "./reference_docs/react_interview_guide.pdf",
			Domain: "React",
			Name:   "React Interview Guide",
		},
		{
			Path:   "./reference_docs/reasoning_rubric.pdf",
			Domain: "General",
			Name:   "Reasoning Assessment Rubric",
		},
	}

	successCount := 0
	failCount := 0

	for _, doc := range documents {
		log.Printf("📄 Processing: %s (%s)", doc.Name, doc.Domain)

		if _, err := os.Stat(doc.Path); os.IsNotExist(err) {
			log.Printf("   ⚠️  File not found, skipping...")
			failCount++
			continue
		}

		text, err := pdfParser.ExtractText(doc.Path)
		if err != nil {
			log.Printf("   ❌ Failed to extract text: %v", err)
			failCount++
			continue
		}

		chunks := services.ChunkText(text, 1000)
		log.Printf("   ✂️  Created %d chunks", len(chunks))

		for i, chunk := range chunks {
			snippetID := fmt.Sprintf("%s_chunk_%d", doc.Domain, i)
			if err := knowledge.UpsertSnippet(ctx, snippetID, doc.Domain, chunk); err != nil {
				log.Printf("   ❌ Failed to store chunk %d: %v", i+1, err)
				continue
			}
		}

		log.Printf("   ✅ Successfully ingested %s", doc.Name)
		successCount++
	}

	log.Printf("📊 Ingestion summary: %d succeeded, %d failed", successCount, failCount)
	if failCount > 0 {
		os.Exit(1)
	}
}
