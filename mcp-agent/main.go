package main

import (
	"context"
	"log"
	"os"

	"github.com/SaiNageswarS/course-rag/appconfig"
	"github.com/SaiNageswarS/course-rag/chunker"
	"github.com/SaiNageswarS/course-rag/index"
	"github.com/SaiNageswarS/course-rag/ingest"
	"github.com/SaiNageswarS/course-rag/mcp-agent/handlers"
	"github.com/SaiNageswarS/course-rag/tools"
	"github.com/SaiNageswarS/course-rag/vector"
	"github.com/SaiNageswarS/go-api-boot/config"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
)

// Serves the course search tools over MCP stdio so other agents can query the
// same index without going through the answer loop.
func main() {
	godotenv.Load()

	ccfgg := &appconfig.AppConfig{}
	if err := config.LoadConfig("config.ini", ccfgg); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	ccfgg.ApplyDefaults()

	embed, err := vector.NewEmbeddingFunc(ccfgg.EmbeddingProvider, ccfgg.EmbeddingModel, ccfgg.EmbeddingBaseURL, ccfgg.EmbeddingAPIKey)
	if err != nil {
		log.Fatalf("Failed to create embedding function: %v", err)
	}
	courses := index.NewCourseIndex(vector.NewChromemIndex(embed), float32(ccfgg.MinResolveScore))

	if _, err := os.Stat(ccfgg.DocsPath); err == nil {
		ingestor := ingest.NewIngestor(chunker.NewChunker(ccfgg.ChunkSize, ccfgg.ChunkOverlap), courses)
		if _, err := ingestor.IngestPath(context.Background(), ccfgg.DocsPath, ccfgg.ForceReload); err != nil {
			log.Fatalf("Failed to load course documents: %v", err)
		}
	}

	registry, err := tools.NewRegistry(
		tools.NewContentSearch(courses, ccfgg.MaxResults),
		tools.NewOutline(courses),
	)
	if err != nil {
		log.Fatalf("Failed to register tools: %v", err)
	}

	s := server.NewMCPServer(
		"course-rag-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)
	for _, h := range handlers.ProvideCourseToolHandlers(registry) {
		s.AddTool(h.Tool, h.Handle)
	}

	if err := server.ServeStdio(s); err != nil {
		log.Fatalf("Failed to serve MCP: %v", err)
	}
}
