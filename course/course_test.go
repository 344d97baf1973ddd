package course

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseChunk_Content(t *testing.T) {
	t.Run("with lesson", func(t *testing.T) {
		c := CourseChunk{CourseTitle: "Intro to ML", LessonNumber: IntPtr(3), Text: "Gradients flow."}
		assert.Equal(t, "Course Intro to ML Lesson 3 content: Gradients flow.", c.Content())
	})

	t.Run("preamble", func(t *testing.T) {
		c := CourseChunk{CourseTitle: "Intro to ML", Text: "Welcome."}
		assert.Equal(t, "Course Intro to ML content: Welcome.", c.Content())
	})
}

func TestCourseChunk_ID(t *testing.T) {
	a := CourseChunk{CourseTitle: "Intro to ML", Index: 0}
	b := CourseChunk{CourseTitle: "Intro to ML", Index: 1}
	c := CourseChunk{CourseTitle: "Advanced Systems", Index: 0}

	assert.Equal(t, a.ID(), CourseChunk{CourseTitle: "Intro to ML", Index: 0}.ID())
	assert.NotEqual(t, a.ID(), b.ID())
	assert.NotEqual(t, a.ID(), c.ID())
}

func TestCourse_LessonLink(t *testing.T) {
	c := &Course{
		Title: "Intro to ML",
		Link:  "https://example.com/ml",
		Lessons: []Lesson{
			{Number: 0, Title: "Intro", Link: "https://example.com/ml/0"},
			{Number: 1, Title: "Data"},
		},
	}

	assert.Equal(t, "https://example.com/ml/0", c.LessonLink(IntPtr(0)))
	assert.Equal(t, "https://example.com/ml", c.LessonLink(IntPtr(1)))
	assert.Equal(t, "https://example.com/ml", c.LessonLink(IntPtr(7)))
	assert.Equal(t, "https://example.com/ml", c.LessonLink(nil))
}

func TestSource_MarshalJSON(t *testing.T) {
	b, err := json.Marshal([]Source{
		{Display: "Intro to ML - Lesson 1", Link: "https://example.com/1"},
		{Display: "Intro to ML"},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"display":"Intro to ML - Lesson 1","link":"https://example.com/1"},{"display":"Intro to ML","link":null}]`, string(b))
}
