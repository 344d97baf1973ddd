package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SaiNageswarS/course-rag/course"
	"github.com/SaiNageswarS/course-rag/index"
	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/ollama/ollama/api"
	"go.uber.org/zap"
)

const OutlineName = "get_course_outline"

// Outline returns a course's title, link, instructor and ordered lesson list.
type Outline struct {
	index CourseSearcher
}

func NewOutline(idx CourseSearcher) *Outline {
	return &Outline{index: idx}
}

func (t *Outline) Definition() api.Tool {
	return NewBuilder(OutlineName, "Get the complete outline of a course: title, link, instructor and all lessons").
		StringParam("course_name", "Course title (partial matches work, e.g. 'MCP', 'Introduction')", true).
		Build()
}

func (t *Outline) Execute(ctx context.Context, args api.ToolCallFunctionArguments) Result {
	courseName := stringArg(args, "course_name")
	if courseName == "" {
		return textResult("Missing required parameter 'course_name'")
	}

	match, ok := t.index.ResolveCourse(ctx, courseName)
	if !ok {
		return textResult("No course found matching '%s'", courseName)
	}

	crs, err := t.index.GetCourse(ctx, match.Title)
	if errors.Is(err, index.ErrCourseNotFound) {
		return textResult("No course metadata found for '%s'", match.Title)
	}
	if err != nil {
		logger.Error("Failed to load course outline", zap.String("course", match.Title), zap.Error(err))
		return textResult(OutlineUnavailable)
	}

	return Result{
		Text:    formatOutline(crs),
		Sources: []course.Source{{Display: crs.Title, Link: crs.Link}},
	}
}

func formatOutline(crs *course.Course) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Course: %s\n", crs.Title)
	if crs.Link != "" {
		fmt.Fprintf(&b, "Course Link: %s\n", crs.Link)
	}
	if crs.Instructor != "" {
		fmt.Fprintf(&b, "Instructor: %s\n", crs.Instructor)
	}

	if len(crs.Lessons) == 0 {
		b.WriteString("\nNo lesson information available")
		return b.String()
	}

	fmt.Fprintf(&b, "\nLessons (%d total):", len(crs.Lessons))
	for _, l := range crs.Lessons {
		fmt.Fprintf(&b, "\nLesson %d: %s", l.Number, l.Title)
		if l.Link != "" {
			fmt.Fprintf(&b, " (%s)", l.Link)
		}
	}
	return b.String()
}
