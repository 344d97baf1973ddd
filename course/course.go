package course

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"

	"golang.org/x/crypto/blake2s"
)

// Lesson is a numbered section of a course. Number is unique within its course.
type Lesson struct {
	Number int    `json:"lesson_number"`
	Title  string `json:"lesson_title"`
	Link   string `json:"lesson_link,omitempty"`
}

// Course is identified by its title. Re-ingesting a title replaces the course.
type Course struct {
	Title      string   `json:"title"`
	Instructor string   `json:"instructor,omitempty"`
	Link       string   `json:"course_link,omitempty"`
	Lessons    []Lesson `json:"lessons"`
}

// Lesson returns the lesson with the given number, if the course has one.
func (c *Course) Lesson(number int) (Lesson, bool) {
	for _, l := range c.Lessons {
		if l.Number == number {
			return l, true
		}
	}
	return Lesson{}, false
}

// LessonLink falls back to the course link when the lesson has none.
func (c *Course) LessonLink(number *int) string {
	if number != nil {
		if l, ok := c.Lesson(*number); ok && l.Link != "" {
			return l.Link
		}
	}
	return c.Link
}

// CourseChunk is a bounded span of course text. Index is strictly increasing within a course.
type CourseChunk struct {
	CourseTitle  string `json:"course_title"`
	LessonNumber *int   `json:"lesson_number"`
	Index        int    `json:"chunk_index"`
	Text         string `json:"content"`
}

// Content returns the chunk text prefixed with its context header.
func (c CourseChunk) Content() string {
	if c.LessonNumber == nil {
		return fmt.Sprintf("Course %s content: %s", c.CourseTitle, c.Text)
	}
	return fmt.Sprintf("Course %s Lesson %d content: %s", c.CourseTitle, *c.LessonNumber, c.Text)
}

// ID is stable across re-ingestion of the same course.
func (c CourseChunk) ID() string {
	return TitleKey(c.CourseTitle) + "_" + strconv.Itoa(c.Index)
}

// TitleKey hashes a course title into a compact identifier.
func TitleKey(title string) string {
	sum := blake2s.Sum256([]byte(title))
	return hex.EncodeToString(sum[:8])
}

// Source identifies where supporting text for an answer came from.
// An empty Link is encoded as JSON null.
type Source struct {
	Display string `json:"display"`
	Link    string `json:"link"`
}

func (s Source) MarshalJSON() ([]byte, error) {
	out := struct {
		Display string  `json:"display"`
		Link    *string `json:"link"`
	}{Display: s.Display}
	if s.Link != "" {
		out.Link = &s.Link
	}
	return json.Marshal(out)
}

func IntPtr(v int) *int {
	return &v
}
