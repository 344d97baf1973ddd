package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/SaiNageswarS/course-rag/chunker"
	"github.com/SaiNageswarS/course-rag/course"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	courses map[string]int // title -> chunk count
	order   []string
	failOn  string
}

func newFakeStore() *fakeStore {
	return &fakeStore{courses: map[string]int{}}
}

func (s *fakeStore) CourseTitles(context.Context) ([]string, error) {
	return append([]string{}, s.order...), nil
}

func (s *fakeStore) IndexCourse(_ context.Context, crs *course.Course, chunks []course.CourseChunk) error {
	if crs.Title == s.failOn {
		return errors.New("index down")
	}
	if _, ok := s.courses[crs.Title]; !ok {
		s.order = append(s.order, crs.Title)
	}
	s.courses[crs.Title] = len(chunks)
	return nil
}

func courseDoc(title string) string {
	return "Course Title: " + title + "\nCourse Instructor: Grace Hopper\n\n" +
		"Lesson 1: Basics\nCompilers translate code. They are useful.\n\n" +
		"Lesson 2: More\nLinkers join objects.\n"
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func newTestIngestor(store CourseStore) *Ingestor {
	return NewIngestor(chunker.NewChunker(chunker.DefaultChunkSize, chunker.DefaultChunkOverlap), store)
}

func TestIngestPath_Directory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", courseDoc("Compilers"))
	writeFile(t, dir, "b.md", courseDoc("Linkers"))
	writeFile(t, dir, "notes.csv", "ignored")

	store := newFakeStore()
	stats, err := newTestIngestor(store).IngestPath(context.Background(), dir, false)

	require.NoError(t, err)
	assert.Equal(t, 2, stats.CoursesIndexed)
	assert.Equal(t, 4, stats.ChunksIndexed)
	assert.Empty(t, stats.Skipped)
	assert.Equal(t, []string{"Compilers", "Linkers"}, store.order)
}

func TestIngestPath_SkipsExistingUnlessForced(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", courseDoc("Compilers"))

	store := newFakeStore()
	ing := newTestIngestor(store)

	first, err := ing.IngestPath(context.Background(), dir, false)
	require.NoError(t, err)
	assert.Equal(t, 1, first.CoursesIndexed)

	second, err := ing.IngestPath(context.Background(), dir, false)
	require.NoError(t, err)
	assert.Equal(t, 0, second.CoursesIndexed)
	assert.Equal(t, 0, second.ChunksIndexed)
	assert.Equal(t, []string{"Compilers"}, second.Skipped)

	forced, err := ing.IngestPath(context.Background(), dir, true)
	require.NoError(t, err)
	assert.Equal(t, 1, forced.CoursesIndexed)
	assert.Len(t, store.order, 1)
}

func TestIngestPath_DuplicateTitleWithinRun(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", courseDoc("Compilers"))
	writeFile(t, dir, "b.txt", courseDoc("Compilers"))

	stats, err := newTestIngestor(newFakeStore()).IngestPath(context.Background(), dir, false)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.CoursesIndexed)
	assert.Equal(t, []string{"Compilers"}, stats.Skipped)
}

func TestIngestPath_MalformedDocumentContinues(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "a.txt", "Lesson 1: No header\nJust text.")
	writeFile(t, dir, "b.txt", courseDoc("Linkers"))

	stats, err := newTestIngestor(newFakeStore()).IngestPath(context.Background(), dir, false)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.CoursesIndexed)
	assert.Equal(t, []string{bad}, stats.Failed)
}

func TestIngestPath_SingleFile(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "a.txt", courseDoc("Compilers"))

	stats, err := newTestIngestor(newFakeStore()).IngestPath(context.Background(), p, false)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.CoursesIndexed)

	csv := writeFile(t, dir, "x.csv", "a,b")
	_, err = newTestIngestor(newFakeStore()).IngestPath(context.Background(), csv, false)
	assert.ErrorIs(t, err, ErrUnsupportedFile)
}

func TestIngestPath_Errors(t *testing.T) {
	t.Run("missing path", func(t *testing.T) {
		_, err := newTestIngestor(newFakeStore()).IngestPath(context.Background(), filepath.Join(t.TempDir(), "nope"), false)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("index failure stops the run", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "a.txt", courseDoc("Compilers"))
		writeFile(t, dir, "b.txt", courseDoc("Linkers"))

		store := newFakeStore()
		store.failOn = "Compilers"
		stats, err := newTestIngestor(store).IngestPath(context.Background(), dir, false)
		assert.Error(t, err)
		assert.Equal(t, 0, stats.CoursesIndexed)
		assert.Empty(t, store.order)
	})

	t.Run("cancelled context", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "a.txt", courseDoc("Compilers"))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := newTestIngestor(newFakeStore()).IngestPath(ctx, dir, false)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestDocxText(t *testing.T) {
	xml := `<w:document><w:body>` +
		`<w:p><w:r><w:t>Course Title: </w:t></w:r><w:r><w:t xml:space="preserve">Go &amp; You</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Lesson 1: Start</w:t></w:r></w:p>` +
		`</w:body></w:document>`

	assert.Equal(t, "Course Title: Go & You\nLesson 1: Start", docxText(xml))
}

func TestSupported(t *testing.T) {
	for _, name := range []string{"a.txt", "b.MD", "c.pdf", "d.docx"} {
		assert.True(t, Supported(name), name)
	}
	assert.False(t, Supported("e.pptx"))
}
