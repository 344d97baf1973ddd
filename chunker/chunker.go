package chunker

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/SaiNageswarS/course-rag/course"
)

const (
	DefaultChunkSize    = 800
	DefaultChunkOverlap = 100
)

var ErrMissingTitle = errors.New("document has no course title header")

var (
	lessonMarker = regexp.MustCompile(`(?i)^lesson\s+(\d+)\s*:\s*(.*)$`)
	lessonLink   = regexp.MustCompile(`(?i)^lesson\s+link\s*:\s*(.+)$`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// Chunker splits course documents into overlapping sentence-aligned chunks.
// Overlap never crosses a lesson boundary: each lesson is packed on its own.
// Sizes are measured in characters over the chunk body, excluding the context header.
type Chunker struct {
	size    int
	overlap int
}

func NewChunker(size, overlap int) *Chunker {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = min(DefaultChunkOverlap, size/2)
	}
	return &Chunker{size: size, overlap: overlap}
}

// Process parses the header block and lesson markers of a course document and chunks its body.
func (c *Chunker) Process(text string) (*course.Course, []course.CourseChunk, error) {
	lines := splitLines(text)
	crs, rest := parseHeader(lines)
	if crs.Title == "" {
		return nil, nil, ErrMissingTitle
	}

	secs := parseSections(rest)
	added := map[int]bool{}
	for _, sec := range secs {
		if sec.lesson == nil || added[sec.lesson.Number] {
			continue
		}
		added[sec.lesson.Number] = true
		crs.Lessons = append(crs.Lessons, *sec.lesson)
	}

	return crs, c.chunkSections(secs, crs.Title), nil
}

// Chunk splits a document body into chunks tagged with the lesson they belong to.
// Text before the first lesson marker has no lesson.
func (c *Chunker) Chunk(text, courseTitle string) []course.CourseChunk {
	return c.chunkSections(parseSections(splitLines(text)), courseTitle)
}

func (c *Chunker) chunkSections(secs []section, courseTitle string) []course.CourseChunk {
	var out []course.CourseChunk
	for _, sec := range secs {
		var lessonNumber *int
		if sec.lesson != nil {
			lessonNumber = course.IntPtr(sec.lesson.Number)
		}

		for _, body := range c.pack(SplitSentences(sec.text())) {
			out = append(out, course.CourseChunk{
				CourseTitle:  courseTitle,
				LessonNumber: lessonNumber,
				Index:        len(out),
				Text:         body,
			})
		}
	}
	return out
}

// pack greedily fills chunks with whole sentences. A closed chunk seeds the next one
// with its longest sentence suffix that fits the overlap and still leaves room for the
// next sentence.
func (c *Chunker) pack(sentences []string) []string {
	var (
		chunks  []string
		current []string
		fresh   int
	)

	for i := 0; i < len(sentences); {
		s := sentences[i]
		if len(current) == 0 || textLen(current)+1+runeLen(s) <= c.size {
			current = append(current, s)
			fresh++
			i++
			continue
		}

		chunks = append(chunks, strings.Join(current, " "))
		current = c.overlapTail(current, runeLen(s))
		fresh = 0
	}

	if fresh > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}
	return chunks
}

func (c *Chunker) overlapTail(closed []string, nextLen int) []string {
	start := len(closed)
	for j := len(closed) - 1; j >= 0; j-- {
		n := textLen(closed[j:])
		if n > c.overlap || n+1+nextLen > c.size {
			break
		}
		start = j
	}
	return append([]string(nil), closed[start:]...)
}

type section struct {
	lesson *course.Lesson
	lines  []string
}

func (s *section) text() string {
	return strings.TrimSpace(whitespace.ReplaceAllString(strings.Join(s.lines, " "), " "))
}

func parseHeader(lines []string) (*course.Course, []string) {
	crs := &course.Course{}
	i := 0
	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			break
		}
		value = strings.TrimSpace(value)
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "course title":
			crs.Title = value
		case "course link":
			crs.Link = value
		case "course instructor":
			crs.Instructor = value
		default:
			return crs, lines[i:]
		}
	}
	return crs, lines[i:]
}

func parseSections(lines []string) []section {
	secs := []section{{}}
	seen := map[int]*course.Lesson{}

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		m := lessonMarker.FindStringSubmatch(line)
		if m == nil {
			cur := &secs[len(secs)-1]
			if line != "" {
				cur.lines = append(cur.lines, line)
			}
			continue
		}

		number, _ := strconv.Atoi(m[1])
		lesson := &course.Lesson{Number: number, Title: strings.TrimSpace(m[2])}

		// optional link on the next non-blank line
		for j := i + 1; j < len(lines); j++ {
			next := strings.TrimSpace(lines[j])
			if next == "" {
				continue
			}
			if lm := lessonLink.FindStringSubmatch(next); lm != nil {
				lesson.Link = strings.TrimSpace(lm[1])
				i = j
			}
			break
		}

		if prev, ok := seen[number]; ok {
			// a repeated marker continues the lesson it names
			if prev.Link == "" {
				prev.Link = lesson.Link
			}
			lesson = prev
		} else {
			seen[number] = lesson
		}
		secs = append(secs, section{lesson: lesson})
	}

	return secs
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// textLen is the length of the sentences joined by single spaces.
func textLen(sentences []string) int {
	n := 0
	for _, s := range sentences {
		n += runeLen(s)
	}
	return n + max(len(sentences)-1, 0)
}
