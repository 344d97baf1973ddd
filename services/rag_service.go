package services

import (
	"context"
	"errors"
	"strings"

	"github.com/SaiNageswarS/course-rag/agentboot"
	"github.com/SaiNageswarS/course-rag/course"
	"github.com/SaiNageswarS/course-rag/ingest"
	"github.com/SaiNageswarS/course-rag/memory"
	"github.com/SaiNageswarS/course-rag/prompts"
	"github.com/SaiNageswarS/go-api-boot/logger"
	"go.uber.org/zap"
)

// UserError carries one plain-language sentence for the caller. The underlying
// cause is kept for logs and errors.Is, never shown.
type UserError struct {
	Message string
	Err     error
}

func (e *UserError) Error() string { return e.Message }

func (e *UserError) Unwrap() error { return e.Err }

type QueryResponse struct {
	Answer    string          `json:"answer"`
	Sources   []course.Source `json:"sources"`
	SessionID string          `json:"session_id"`
}

type CourseStats struct {
	TotalCourses int      `json:"total_courses"`
	CourseTitles []string `json:"course_titles"`
}

// CourseCatalog lists indexed courses.
type CourseCatalog interface {
	CourseTitles(ctx context.Context) ([]string, error)
	CourseCount(ctx context.Context) (int, error)
}

type RAGService struct {
	agent    *agentboot.Agent
	sessions *memory.ConversationManager
	catalog  CourseCatalog
	ingestor *ingest.Ingestor
	reporter agentboot.ProgressReporter
}

func ProvideRAGService(
	agent *agentboot.Agent,
	sessions *memory.ConversationManager,
	catalog CourseCatalog,
	ingestor *ingest.Ingestor,
	reporter agentboot.ProgressReporter,
) *RAGService {
	if reporter == nil {
		reporter = &agentboot.NoOpProgressReporter{}
	}
	return &RAGService{
		agent:    agent,
		sessions: sessions,
		catalog:  catalog,
		ingestor: ingestor,
		reporter: reporter,
	}
}

// Answer runs one conversational turn. An empty session id starts a new session.
// History is written only when the whole turn succeeds.
func (s *RAGService) Answer(ctx context.Context, query, sessionID string) (*QueryResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &UserError{Message: "Please enter a question."}
	}
	if sessionID == "" {
		sessionID = s.sessions.Create()
	}

	question, err := prompts.RenderQueryPrompt(query)
	if err != nil {
		logger.Error("Failed to render query prompt", zap.Error(err))
		return nil, &UserError{Message: "Something went wrong while answering your question.", Err: err}
	}

	answer, err := s.agent.Execute(ctx, s.reporter, &agentboot.GenerateRequest{
		Question: question,
		History:  s.sessions.History(sessionID),
	})
	if err != nil {
		logger.Error("Failed to answer query", zap.String("sessionId", sessionID), zap.Error(err))
		return nil, toUserError(err)
	}

	s.sessions.Append(sessionID, query, answer.Text)

	logger.Info("Answered query",
		zap.String("sessionId", sessionID),
		zap.Int("rounds", answer.Rounds),
		zap.Strings("tools", answer.ToolsUsed),
		zap.Int("sources", len(answer.Sources)),
		zap.Int64("processingTimeMs", answer.ProcessingTime))

	return &QueryResponse{
		Answer:    answer.Text,
		Sources:   answer.Sources,
		SessionID: sessionID,
	}, nil
}

func (s *RAGService) ClearSession(sessionID string) error {
	if sessionID == "" {
		return &UserError{Message: "A session id is required."}
	}
	s.sessions.Clear(sessionID)
	return nil
}

func (s *RAGService) Stats(ctx context.Context) (*CourseStats, error) {
	total, err := s.catalog.CourseCount(ctx)
	if err != nil {
		logger.Error("Failed to count courses", zap.Error(err))
		return nil, &UserError{Message: "Course information is unavailable right now.", Err: err}
	}
	titles, err := s.catalog.CourseTitles(ctx)
	if err != nil {
		logger.Error("Failed to list courses", zap.Error(err))
		return nil, &UserError{Message: "Course information is unavailable right now.", Err: err}
	}
	return &CourseStats{TotalCourses: total, CourseTitles: titles}, nil
}

// IngestPath indexes course documents at path. Titles already in the catalog are
// skipped unless force is set.
func (s *RAGService) IngestPath(ctx context.Context, path string, force bool) (*ingest.Stats, error) {
	stats, err := s.ingestor.IngestPath(ctx, path, force)
	if err != nil {
		logger.Error("Ingestion failed", zap.String("path", path), zap.Error(err))
		return stats, err
	}

	logger.Info("Ingestion complete",
		zap.String("path", path),
		zap.Int("courses", stats.CoursesIndexed),
		zap.Int("chunks", stats.ChunksIndexed),
		zap.Int("skipped", len(stats.Skipped)),
		zap.Int("failed", len(stats.Failed)))
	return stats, nil
}

func toUserError(err error) *UserError {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return &UserError{Message: "The request was cancelled before an answer was ready.", Err: err}
	case errors.Is(err, agentboot.ErrGeneration):
		return &UserError{Message: "Sorry, I couldn't generate an answer right now. Please try again.", Err: err}
	default:
		return &UserError{Message: "Something went wrong while answering your question.", Err: err}
	}
}
