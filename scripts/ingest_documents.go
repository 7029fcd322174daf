package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"alfredoptarigan/hiremind/internal/config"
	"alfredoptarigan/hiremind/internal/logger"
	"alfredoptarigan/hiremind/internal/services"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Env)
	logger.Logger.Info("🚀 Starting career guide ingestion...")

	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Worker.RetryInitialDelay)
	if err != nil {
		logger.Logger.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}

	qdrantService, err := services.NewQdrantService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		logger.Logger.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}
	defer qdrantService.Close()

	ctx := context.Background()

	if err := qdrantService.InitCollection(ctx); err != nil {
		logger.Logger.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	parser := services.NewDocumentParserService()
	chunker := services.NewTextChunker()

	documents := []struct {
		Path    string
		DocType string
		Name    string
	}{
		{
			Path:    "./reference_docs/career_guide.pdf",
			DocType: "career_guide",
			Name:    "Career Guide",
		},
		{
			Path:    "./reference_docs/resume_tips.docx",
			DocType: "resume_tips",
			Name:    "Resume Writing Tips",
		},
		{
			Path:    "./reference_docs/interview_tips.pdf",
			DocType: "interview_tips",
			Name:    "Interview Preparation Tips",
		},
	}

	successCount := 0
	failCount := 0

	for _, doc := range documents {
		log := logger.Logger.WithField("document", doc.Name)
		log.Infof("📄 Processing %s (%s)", doc.Path, doc.DocType)

		if _, err := os.Stat(doc.Path); os.IsNotExist(err) {
			log.Warn("⚠️  File not found, skipping...")
			failCount++
			continue
		}

		content, err := parser.ExtractTextWithMetaData(doc.Path)
		if err != nil {
			log.Errorf("❌ Failed to extract text: %v", err)
			failCount++
			continue
		}
		log.Infof("✅ Extracted %d pages, %d characters", content.PageCount, len(content.Text))

		// Re-ingesting a document replaces its previous chunks.
		docID := strings.TrimSuffix(filepath.Base(doc.Path), filepath.Ext(doc.Path))
		if err := qdrantService.DeleteDocument(ctx, docID); err != nil {
			log.Warnf("⚠️  Failed to remove previous chunks: %v", err)
		}

		chunks := chunker.ChunkText(content.Text, 1000, 200)
		log.Infof("✂️  Created %d chunks", len(chunks))

		stored := 0
		for i, text := range chunks {
			embedding, err := geminiService.GenerateEmbedding(ctx, text)
			if err != nil {
				log.Errorf("❌ Failed to generate embedding for chunk %d: %v", i+1, err)
				continue
			}

			chunk := services.KnowledgeChunk{
				DocID:   docID,
				DocType: doc.DocType,
				Source:  doc.Name,
				Index:   i,
				Text:    text,
			}
			if err := qdrantService.UpsertChunk(ctx, chunk, embedding); err != nil {
				log.Errorf("❌ Failed to store chunk %d: %v", i+1, err)
				continue
			}
			stored++

			if (i+1)%5 == 0 || i == len(chunks)-1 {
				log.Infof("📊 Progress: %d/%d chunks stored", i+1, len(chunks))
			}
		}

		if stored == 0 {
			log.Error("❌ No chunks were stored")
			failCount++
			continue
		}

		log.Infof("✅ Successfully ingested %d/%d chunks", stored, len(chunks))
		successCount++
	}

	logger.Logger.Info(strings.Repeat("=", 60))
	logger.Logger.Infof("📊 Ingestion Summary: %d successful, %d failed", successCount, failCount)
	logger.Logger.Info(strings.Repeat("=", 60))

	if failCount > 0 {
		logger.Logger.Warn("⚠️  Some documents failed to ingest. Please check the logs above.")
		os.Exit(1)
	}

	logger.Logger.Info("✅ All documents ingested successfully!")
}
