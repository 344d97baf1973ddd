package tools

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/SaiNageswarS/course-rag/course"
	"github.com/SaiNageswarS/course-rag/index"
	"github.com/ollama/ollama/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearcher struct {
	courses   map[string]*course.Course
	results   []index.ScoredChunk
	searchErr error
	getErr    error

	lastQuery  string
	lastFilter index.Filter
	lastTopK   int
}

func (f *fakeSearcher) SearchContent(ctx context.Context, query string, filter index.Filter, topK int) ([]index.ScoredChunk, error) {
	f.lastQuery, f.lastFilter, f.lastTopK = query, filter, topK
	return f.results, f.searchErr
}

func (f *fakeSearcher) ResolveCourse(ctx context.Context, partialName string) (index.CourseMatch, bool) {
	for title := range f.courses {
		if title == partialName || (len(partialName) >= 4 && title[:4] == partialName[:4]) {
			return index.CourseMatch{Title: title, Score: 0.9}, true
		}
	}
	return index.CourseMatch{}, false
}

func (f *fakeSearcher) GetCourse(ctx context.Context, title string) (*course.Course, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	crs, ok := f.courses[title]
	if !ok {
		return nil, fmt.Errorf("%w: %s", index.ErrCourseNotFound, title)
	}
	return crs, nil
}

func testCourse() *course.Course {
	return &course.Course{
		Title:      "Test Course",
		Link:       "https://example.com/course",
		Instructor: "Jane Doe",
		Lessons: []course.Lesson{
			{Number: 1, Title: "Intro", Link: "https://example.com/lesson1"},
			{Number: 2, Title: "Deeper"},
		},
	}
}

func twoResults() []index.ScoredChunk {
	return []index.ScoredChunk{
		{Chunk: course.CourseChunk{CourseTitle: "Test Course", LessonNumber: course.IntPtr(1), Index: 0, Text: "Test content from course 1"}, Score: 0.9},
		{Chunk: course.CourseChunk{CourseTitle: "Test Course", LessonNumber: course.IntPtr(2), Index: 3, Text: "More content from course 1"}, Score: 0.8},
	}
}

func TestContentSearch_Definition(t *testing.T) {
	def := NewContentSearch(&fakeSearcher{}, 5).Definition()
	assert.Equal(t, "search_course_content", def.Function.Name)
	assert.Equal(t, []string{"query"}, def.Function.Parameters.Required)
	assert.Contains(t, def.Function.Parameters.Properties, "course_name")
	assert.Contains(t, def.Function.Parameters.Properties, "lesson_number")
	assert.Equal(t, api.PropertyType{"integer"}, def.Function.Parameters.Properties["lesson_number"].Type)
}

func TestContentSearch_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("formats results and sources", func(t *testing.T) {
		s := &fakeSearcher{courses: map[string]*course.Course{"Test Course": testCourse()}, results: twoResults()}
		res := NewContentSearch(s, 5).Execute(ctx, api.ToolCallFunctionArguments{"query": "test query"})

		assert.Equal(t, "[Test Course - Lesson 1]\nTest content from course 1\n\n[Test Course - Lesson 2]\nMore content from course 1", res.Text)
		assert.Equal(t, []course.Source{
			{Display: "Test Course - Lesson 1", Link: "https://example.com/lesson1"},
			{Display: "Test Course - Lesson 2", Link: "https://example.com/course"},
		}, res.Sources)
		assert.Equal(t, 5, s.lastTopK)
		assert.Equal(t, index.Filter{}, s.lastFilter)
	})

	t.Run("resolves course and lesson filter", func(t *testing.T) {
		s := &fakeSearcher{courses: map[string]*course.Course{"Test Course": testCourse()}, results: twoResults()[:1]}
		NewContentSearch(s, 3).Execute(ctx, api.ToolCallFunctionArguments{
			"query":         "q",
			"course_name":   "Test",
			"lesson_number": float64(1),
		})

		assert.Equal(t, "Test Course", s.lastFilter.CourseTitle)
		require.NotNil(t, s.lastFilter.LessonNumber)
		assert.Equal(t, 1, *s.lastFilter.LessonNumber)
	})

	t.Run("unknown course", func(t *testing.T) {
		s := &fakeSearcher{courses: map[string]*course.Course{"Test Course": testCourse()}}
		res := NewContentSearch(s, 5).Execute(ctx, api.ToolCallFunctionArguments{
			"query":       "neural networks",
			"course_name": "NOPE_NONEXISTENT",
		})

		assert.Equal(t, "No course found matching 'NOPE_NONEXISTENT'", res.Text)
		assert.Empty(t, res.Sources)
		assert.Empty(t, s.lastQuery)
	})

	t.Run("no results echoes filters", func(t *testing.T) {
		s := &fakeSearcher{courses: map[string]*course.Course{"Test Course": testCourse()}}
		res := NewContentSearch(s, 5).Execute(ctx, api.ToolCallFunctionArguments{
			"query":         "q",
			"course_name":   "Test Course",
			"lesson_number": "1",
		})

		assert.Equal(t, "No relevant content found in course 'Test Course' in lesson 1.", res.Text)
		assert.Empty(t, res.Sources)
	})

	t.Run("index error", func(t *testing.T) {
		s := &fakeSearcher{searchErr: errors.New("Database connection failed")}
		res := NewContentSearch(s, 5).Execute(ctx, api.ToolCallFunctionArguments{"query": "q"})
		assert.Equal(t, SearchUnavailable, res.Text)
		assert.NotContains(t, res.Text, "Database connection failed")
		assert.Empty(t, res.Sources)
	})

	t.Run("missing query", func(t *testing.T) {
		res := NewContentSearch(&fakeSearcher{}, 5).Execute(ctx, api.ToolCallFunctionArguments{})
		assert.Equal(t, "Missing required parameter 'query'", res.Text)
	})

	t.Run("bad lesson number", func(t *testing.T) {
		res := NewContentSearch(&fakeSearcher{}, 5).Execute(ctx, api.ToolCallFunctionArguments{"query": "q", "lesson_number": "three"})
		assert.Contains(t, res.Text, "must be an integer")
	})
}

func TestOutline_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("full outline", func(t *testing.T) {
		s := &fakeSearcher{courses: map[string]*course.Course{"Test Course": testCourse()}}
		res := NewOutline(s).Execute(ctx, api.ToolCallFunctionArguments{"course_name": "Test"})

		assert.Equal(t, "Course: Test Course\nCourse Link: https://example.com/course\nInstructor: Jane Doe\n\n"+
			"Lessons (2 total):\nLesson 1: Intro (https://example.com/lesson1)\nLesson 2: Deeper", res.Text)
		assert.Equal(t, []course.Source{{Display: "Test Course", Link: "https://example.com/course"}}, res.Sources)
	})

	t.Run("no lessons", func(t *testing.T) {
		s := &fakeSearcher{courses: map[string]*course.Course{"Test Course": {Title: "Test Course"}}}
		res := NewOutline(s).Execute(ctx, api.ToolCallFunctionArguments{"course_name": "Test Course"})
		assert.Contains(t, res.Text, "No lesson information available")
	})

	t.Run("unknown course", func(t *testing.T) {
		s := &fakeSearcher{courses: map[string]*course.Course{}}
		res := NewOutline(s).Execute(ctx, api.ToolCallFunctionArguments{"course_name": "Nonexistent Course"})
		assert.Equal(t, "No course found matching 'Nonexistent Course'", res.Text)
		assert.Empty(t, res.Sources)
	})

	t.Run("lookup error", func(t *testing.T) {
		s := &fakeSearcher{courses: map[string]*course.Course{"Test Course": testCourse()}, getErr: errors.New("DB Error")}
		res := NewOutline(s).Execute(ctx, api.ToolCallFunctionArguments{"course_name": "Test Course"})
		assert.Equal(t, OutlineUnavailable, res.Text)
		assert.NotContains(t, res.Text, "DB Error")
		assert.Empty(t, res.Sources)
	})
}

type panickyTool struct{}

func (panickyTool) Definition() api.Tool { return NewBuilder("boom", "always panics").Build() }
func (panickyTool) Execute(context.Context, api.ToolCallFunctionArguments) Result {
	panic("unexpected")
}

func TestRegistry(t *testing.T) {
	s := &fakeSearcher{courses: map[string]*course.Course{"Test Course": testCourse()}, results: twoResults()}

	t.Run("definitions in order", func(t *testing.T) {
		r, err := NewRegistry(NewContentSearch(s, 5), NewOutline(s))
		require.NoError(t, err)
		defs := r.Definitions()
		require.Len(t, defs, 2)
		assert.Equal(t, ContentSearchName, defs[0].Function.Name)
		assert.Equal(t, OutlineName, defs[1].Function.Name)
	})

	t.Run("duplicate names rejected", func(t *testing.T) {
		_, err := NewRegistry(NewOutline(s), NewOutline(s))
		assert.Error(t, err)
	})

	t.Run("unnamed tool rejected", func(t *testing.T) {
		_, err := NewRegistry(unnamedTool{})
		assert.Error(t, err)
	})

	t.Run("unknown tool", func(t *testing.T) {
		r, err := NewRegistry(NewOutline(s))
		require.NoError(t, err)
		res := r.Execute(context.Background(), "nonexistent_tool", nil)
		assert.Equal(t, "Tool 'nonexistent_tool' not found", res.Text)
	})

	t.Run("panic becomes failure text", func(t *testing.T) {
		r, err := NewRegistry(panickyTool{})
		require.NoError(t, err)
		res := r.Execute(context.Background(), "boom", nil)
		assert.Equal(t, ExecutionFailed, res.Text)
	})

	t.Run("dispatches by name", func(t *testing.T) {
		r, err := NewRegistry(NewContentSearch(s, 5), NewOutline(s))
		require.NoError(t, err)
		res := r.Execute(context.Background(), ContentSearchName, api.ToolCallFunctionArguments{"query": "test"})
		assert.Contains(t, res.Text, "[Test Course - Lesson 1]")
		assert.Len(t, res.Sources, 2)
	})
}

type unnamedTool struct{}

func (unnamedTool) Definition() api.Tool { return api.Tool{} }
func (unnamedTool) Execute(context.Context, api.ToolCallFunctionArguments) Result {
	return Result{}
}
