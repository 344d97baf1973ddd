package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/SaiNageswarS/course-rag/course"
	"github.com/SaiNageswarS/course-rag/index"
	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/ollama/ollama/api"
	"go.uber.org/zap"
)

const ContentSearchName = "search_course_content"

// ContentSearch searches course transcripts, optionally narrowed to one course and lesson.
type ContentSearch struct {
	index      CourseSearcher
	maxResults int
}

func NewContentSearch(idx CourseSearcher, maxResults int) *ContentSearch {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &ContentSearch{index: idx, maxResults: maxResults}
}

func (t *ContentSearch) Definition() api.Tool {
	return NewBuilder(ContentSearchName, "Search course materials with smart course name matching and lesson filtering").
		StringParam("query", "What to search for in the course content", true).
		StringParam("course_name", "Course title (partial matches work, e.g. 'MCP', 'Introduction')", false).
		IntParam("lesson_number", "Specific lesson number to search within (e.g. 1, 2, 3)", false).
		Build()
}

func (t *ContentSearch) Execute(ctx context.Context, args api.ToolCallFunctionArguments) Result {
	query := stringArg(args, "query")
	if query == "" {
		return textResult("Missing required parameter 'query'")
	}
	courseName := stringArg(args, "course_name")
	lessonNumber, err := intArg(args, "lesson_number")
	if err != nil {
		return textResult("Invalid arguments: %s", err.Error())
	}

	filter := index.Filter{LessonNumber: lessonNumber}
	if courseName != "" {
		match, ok := t.index.ResolveCourse(ctx, courseName)
		if !ok {
			return textResult("No course found matching '%s'", courseName)
		}
		filter.CourseTitle = match.Title
	}

	results, err := t.index.SearchContent(ctx, query, filter, t.maxResults)
	if err != nil {
		logger.Error("Content search failed", zap.String("query", query), zap.Error(err))
		return textResult(SearchUnavailable)
	}

	if len(results) == 0 {
		var scope strings.Builder
		if courseName != "" {
			fmt.Fprintf(&scope, " in course '%s'", courseName)
		}
		if lessonNumber != nil {
			fmt.Fprintf(&scope, " in lesson %d", *lessonNumber)
		}
		return textResult("No relevant content found%s.", scope.String())
	}

	return t.format(ctx, results)
}

func (t *ContentSearch) format(ctx context.Context, results []index.ScoredChunk) Result {
	courses := map[string]*course.Course{}
	blocks := make([]string, 0, len(results))
	sources := make([]course.Source, 0, len(results))

	for _, r := range results {
		label := r.Chunk.CourseTitle
		if r.Chunk.LessonNumber != nil {
			label = fmt.Sprintf("%s - Lesson %d", label, *r.Chunk.LessonNumber)
		}
		blocks = append(blocks, fmt.Sprintf("[%s]\n%s", label, r.Chunk.Text))

		crs, seen := courses[r.Chunk.CourseTitle]
		if !seen {
			crs, _ = t.index.GetCourse(ctx, r.Chunk.CourseTitle)
			courses[r.Chunk.CourseTitle] = crs
		}

		src := course.Source{Display: label}
		if crs != nil {
			src.Link = crs.LessonLink(r.Chunk.LessonNumber)
		}
		sources = append(sources, src)
	}

	return Result{Text: strings.Join(blocks, "\n\n"), Sources: sources}
}
