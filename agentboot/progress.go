package agentboot

import (
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"go.uber.org/zap"
)

type Stage string

const (
	StageModelCall          Stage = "model_call"
	StageToolExecutionStart Stage = "tool_execution_starting"
	StageToolExecutionDone  Stage = "tool_execution_completed"
	StageAnswerComplete     Stage = "answer_complete"
	StageError              Stage = "error"
)

type ProgressEvent struct {
	Stage     Stage
	Timestamp int64
	Message   string
	Code      string // set on StageError
}

// ProgressReporter is an interface for reporting agent execution progress.
// Send may be called concurrently while a tool batch runs.
type ProgressReporter interface {
	Send(event *ProgressEvent) error
}

// NoOpProgressReporter implements ProgressReporter with no-op operations
type NoOpProgressReporter struct{}

func (r *NoOpProgressReporter) Send(event *ProgressEvent) error {
	return nil
}

// LoggingProgressReporter writes each event to the application log.
type LoggingProgressReporter struct{}

func (r *LoggingProgressReporter) Send(event *ProgressEvent) error {
	if event.Stage == StageError {
		logger.Error(event.Message, zap.String("code", event.Code))
		return nil
	}
	logger.Info(event.Message, zap.String("stage", string(event.Stage)))
	return nil
}

func NewProgressUpdate(stage Stage, message string) *ProgressEvent {
	return &ProgressEvent{
		Stage:     stage,
		Timestamp: time.Now().UnixMilli(),
		Message:   message,
	}
}

func NewStreamError(message, code string) *ProgressEvent {
	return &ProgressEvent{
		Stage:     StageError,
		Timestamp: time.Now().UnixMilli(),
		Message:   message,
		Code:      code,
	}
}
