package index

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/SaiNageswarS/course-rag/course"
	"github.com/SaiNageswarS/course-rag/vector"
)

func chunkMetadata(c course.CourseChunk) map[string]string {
	md := map[string]string{
		"course_title": c.CourseTitle,
		"chunk_index":  strconv.Itoa(c.Index),
		"text":         c.Text,
	}
	// lesson-less chunks carry no lesson_number key so lesson filters never match them
	if c.LessonNumber != nil {
		md["lesson_number"] = strconv.Itoa(*c.LessonNumber)
	}
	return md
}

func chunkFromDocument(d vector.Document) course.CourseChunk {
	c := course.CourseChunk{
		CourseTitle: d.Metadata["course_title"],
		Text:        d.Metadata["text"],
	}
	c.Index, _ = strconv.Atoi(d.Metadata["chunk_index"])
	if v, ok := d.Metadata["lesson_number"]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.LessonNumber = &n
		}
	}
	if c.Text == "" {
		c.Text = d.Content
	}
	return c
}

func courseFromDocument(d vector.Document) (*course.Course, error) {
	crs := &course.Course{
		Title:      d.Metadata["title"],
		Instructor: d.Metadata["instructor"],
		Link:       d.Metadata["course_link"],
	}
	if raw := d.Metadata["lessons_json"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &crs.Lessons); err != nil {
			return nil, fmt.Errorf("error unmarshaling lessons for %s: %w", crs.Title, err)
		}
	}
	return crs, nil
}
