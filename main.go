package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/SaiNageswarS/course-rag/agentboot"
	"github.com/SaiNageswarS/course-rag/appconfig"
	"github.com/SaiNageswarS/course-rag/chunker"
	"github.com/SaiNageswarS/course-rag/index"
	"github.com/SaiNageswarS/course-rag/ingest"
	"github.com/SaiNageswarS/course-rag/llm"
	"github.com/SaiNageswarS/course-rag/memory"
	"github.com/SaiNageswarS/course-rag/services"
	"github.com/SaiNageswarS/course-rag/tools"
	"github.com/SaiNageswarS/course-rag/vector"
	"github.com/SaiNageswarS/go-api-boot/config"
	"github.com/SaiNageswarS/go-api-boot/dotenv"
	"github.com/SaiNageswarS/go-api-boot/logger"
	"go.uber.org/zap"
)

func main() {
	dotenv.LoadEnv()

	// load config file
	ccfgg := &appconfig.AppConfig{}
	err := config.LoadConfig("config.ini", ccfgg)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	ccfgg.ApplyDefaults()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rag := provideRAGService(ccfgg)

	if _, err := os.Stat(ccfgg.DocsPath); err == nil {
		if _, err := rag.IngestPath(ctx, ccfgg.DocsPath, ccfgg.ForceReload); err != nil {
			logger.Error("Failed to load course documents", zap.String("path", ccfgg.DocsPath), zap.Error(err))
		}
	} else {
		logger.Info("No course documents found", zap.String("path", ccfgg.DocsPath))
	}

	runConsole(ctx, rag, os.Stdin, os.Stdout)
}

func provideRAGService(ccfgg *appconfig.AppConfig) *services.RAGService {
	embed, err := vector.NewEmbeddingFunc(ccfgg.EmbeddingProvider, ccfgg.EmbeddingModel, ccfgg.EmbeddingBaseURL, ccfgg.EmbeddingAPIKey)
	if err != nil {
		logger.Fatal("Failed to create embedding function", zap.Error(err))
	}
	courses := index.NewCourseIndex(vector.NewChromemIndex(embed), float32(ccfgg.MinResolveScore))

	registry, err := tools.NewRegistry(
		tools.NewContentSearch(courses, ccfgg.MaxResults),
		tools.NewOutline(courses),
	)
	if err != nil {
		logger.Fatal("Failed to register tools", zap.Error(err))
	}

	model, err := llm.NewClient(ccfgg.LLMProvider, ccfgg.LLMModel)
	if err != nil {
		logger.Fatal("Failed to create LLM client", zap.Error(err))
	}

	agent := agentboot.NewAgentBuilder().
		WithModel(model).
		WithTools(registry).
		WithMaxTokens(ccfgg.MaxTokens).
		WithTemperature(ccfgg.Temperature).
		Build()

	sessions := memory.NewConversationManager(ccfgg.MaxHistory, time.Duration(ccfgg.SessionTTLMinutes)*time.Minute)
	ingestor := ingest.NewIngestor(chunker.NewChunker(ccfgg.ChunkSize, ccfgg.ChunkOverlap), courses)

	return services.ProvideRAGService(agent, sessions, courses, ingestor, &agentboot.LoggingProgressReporter{})
}

type consoleService interface {
	Answer(ctx context.Context, query, sessionID string) (*services.QueryResponse, error)
	ClearSession(sessionID string) error
	Stats(ctx context.Context) (*services.CourseStats, error)
	IngestPath(ctx context.Context, path string, force bool) (*ingest.Stats, error)
}

// runConsole answers one question per input line. Lines starting with "/" are commands.
func runConsole(ctx context.Context, rag consoleService, in io.Reader, out io.Writer) {
	fmt.Fprintln(out, "Ask about the courses. Commands: /stats, /clear, /ingest <path> [force], /quit")

	sessionID := ""
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() || ctx.Err() != nil {
			return
		}
		line := strings.TrimSpace(scanner.Text())

		switch fields := strings.Fields(line); {
		case line == "":
			continue

		case line == "/quit":
			return

		case line == "/stats":
			stats, err := rag.Stats(ctx)
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			fmt.Fprintf(out, "%d courses\n", stats.TotalCourses)
			for _, title := range stats.CourseTitles {
				fmt.Fprintf(out, "  - %s\n", title)
			}

		case line == "/clear":
			if sessionID != "" {
				if err := rag.ClearSession(sessionID); err != nil {
					fmt.Fprintln(out, "Could not clear the conversation:", err)
					continue
				}
			}
			sessionID = ""
			fmt.Fprintln(out, "Conversation cleared.")

		case fields[0] == "/ingest" && len(fields) >= 2:
			force := len(fields) > 2 && fields[2] == "force"
			stats, err := rag.IngestPath(ctx, fields[1], force)
			if err != nil {
				fmt.Fprintln(out, "Ingestion failed:", err)
				continue
			}
			fmt.Fprintf(out, "Indexed %d courses (%d chunks), skipped %d\n", stats.CoursesIndexed, stats.ChunksIndexed, len(stats.Skipped))

		default:
			resp, err := rag.Answer(ctx, line, sessionID)
			if err != nil {
				var userErr *services.UserError
				if errors.As(err, &userErr) {
					fmt.Fprintln(out, userErr.Message)
				} else {
					fmt.Fprintln(out, "Something went wrong.")
				}
				continue
			}
			sessionID = resp.SessionID

			fmt.Fprintln(out, resp.Answer)
			if len(resp.Sources) > 0 {
				fmt.Fprintln(out, "\nSources:")
				for _, src := range resp.Sources {
					if src.Link != "" {
						fmt.Fprintf(out, "  - %s (%s)\n", src.Display, src.Link)
					} else {
						fmt.Fprintf(out, "  - %s\n", src.Display)
					}
				}
			}
		}
	}
}
