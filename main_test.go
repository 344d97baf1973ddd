package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/SaiNageswarS/course-rag/course"
	"github.com/SaiNageswarS/course-rag/ingest"
	"github.com/SaiNageswarS/course-rag/services"
	"github.com/stretchr/testify/assert"
)

type fakeConsoleService struct {
	clearErr error
	cleared  []string
	queries  []string
}

func (f *fakeConsoleService) Answer(ctx context.Context, query, sessionID string) (*services.QueryResponse, error) {
	f.queries = append(f.queries, query)
	if query == "fail" {
		return nil, &services.UserError{Message: "The assistant could not answer right now."}
	}
	return &services.QueryResponse{
		Answer:    "answer to " + query,
		Sources:   []course.Source{{Display: "Intro to ML - Lesson 1", Link: "https://example.com/ml/1"}},
		SessionID: "s1",
	}, nil
}

func (f *fakeConsoleService) ClearSession(sessionID string) error {
	f.cleared = append(f.cleared, sessionID)
	return f.clearErr
}

func (f *fakeConsoleService) Stats(ctx context.Context) (*services.CourseStats, error) {
	return &services.CourseStats{TotalCourses: 1, CourseTitles: []string{"Intro to ML"}}, nil
}

func (f *fakeConsoleService) IngestPath(ctx context.Context, path string, force bool) (*ingest.Stats, error) {
	return &ingest.Stats{CoursesIndexed: 1, ChunksIndexed: 3}, nil
}

func runLines(svc consoleService, lines ...string) string {
	var out bytes.Buffer
	runConsole(context.Background(), svc, strings.NewReader(strings.Join(lines, "\n")+"\n"), &out)
	return out.String()
}

func TestRunConsole(t *testing.T) {
	tests := []struct {
		name     string
		svc      *fakeConsoleService
		lines    []string
		expected []string
		absent   []string
		cleared  []string
	}{
		{
			name:     "answer with sources",
			svc:      &fakeConsoleService{},
			lines:    []string{"what is ML?"},
			expected: []string{"answer to what is ML?", "Sources:", "  - Intro to ML - Lesson 1 (https://example.com/ml/1)"},
		},
		{
			name:     "user error is shown",
			svc:      &fakeConsoleService{},
			lines:    []string{"fail"},
			expected: []string{"The assistant could not answer right now."},
		},
		{
			name:     "clear without a session",
			svc:      &fakeConsoleService{},
			lines:    []string{"/clear"},
			expected: []string{"Conversation cleared."},
		},
		{
			name:     "clear after a question",
			svc:      &fakeConsoleService{},
			lines:    []string{"hi", "/clear"},
			expected: []string{"Conversation cleared."},
			cleared:  []string{"s1"},
		},
		{
			name:     "clear failure is reported",
			svc:      &fakeConsoleService{clearErr: errors.New("session id is required")},
			lines:    []string{"hi", "/clear"},
			expected: []string{"Could not clear the conversation: session id is required"},
			absent:   []string{"Conversation cleared."},
			cleared:  []string{"s1"},
		},
		{
			name:     "stats",
			svc:      &fakeConsoleService{},
			lines:    []string{"/stats"},
			expected: []string{"1 courses", "  - Intro to ML"},
		},
		{
			name:     "ingest",
			svc:      &fakeConsoleService{},
			lines:    []string{"/ingest docs force"},
			expected: []string{"Indexed 1 courses (3 chunks), skipped 0"},
		},
		{
			name:   "quit stops reading",
			svc:    &fakeConsoleService{},
			lines:  []string{"/quit", "after quit"},
			absent: []string{"answer to after quit"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := runLines(tt.svc, tt.lines...)

			for _, s := range tt.expected {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, out, s)
			}
			assert.Equal(t, tt.cleared, tt.svc.cleared)
		})
	}
}
