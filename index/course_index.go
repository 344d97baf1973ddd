package index

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/SaiNageswarS/course-rag/course"
	"github.com/SaiNageswarS/course-rag/vector"
	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-collection-boot/linq"
	"go.uber.org/zap"
)

const (
	CatalogCollection = "course_catalog"
	ContentCollection = "course_content"
)

var (
	ErrIndexUnavailable = errors.New("course index unavailable")
	ErrCourseNotFound   = errors.New("course not found")
)

// Filter restricts content search by equality on course metadata.
type Filter struct {
	CourseTitle  string
	LessonNumber *int
}

type ScoredChunk struct {
	Chunk course.CourseChunk
	Score float32
}

type CourseMatch struct {
	Title string
	Score float32
}

// CourseIndex keeps one catalog row per course and one content row per chunk.
type CourseIndex struct {
	store           vector.Index
	minResolveScore float32
}

func NewCourseIndex(store vector.Index, minResolveScore float32) *CourseIndex {
	return &CourseIndex{store: store, minResolveScore: minResolveScore}
}

// IndexCourse replaces any existing catalog entry and chunks for the course title.
func (ci *CourseIndex) IndexCourse(ctx context.Context, crs *course.Course, chunks []course.CourseChunk) error {
	if err := ci.deleteCourse(ctx, crs.Title); err != nil {
		return err
	}

	lessons, err := json.Marshal(crs.Lessons)
	if err != nil {
		return fmt.Errorf("error marshaling lessons: %w", err)
	}

	catalog := vector.Document{
		ID:      crs.Title,
		Content: crs.Title,
		Metadata: map[string]string{
			"title":        crs.Title,
			"instructor":   crs.Instructor,
			"course_link":  crs.Link,
			"lessons_json": string(lessons),
			"lesson_count": strconv.Itoa(len(crs.Lessons)),
		},
	}
	if err := ci.store.Upsert(ctx, CatalogCollection, []vector.Document{catalog}); err != nil {
		return fmt.Errorf("%w: %w", ErrIndexUnavailable, err)
	}

	docs, err := linq.Pipe2(
		linq.FromSlice(ctx, chunks),
		linq.Select(func(c course.CourseChunk) vector.Document {
			return vector.Document{ID: c.ID(), Content: c.Content(), Metadata: chunkMetadata(c)}
		}),
		linq.ToSlice[vector.Document](),
	)
	if err != nil {
		return err
	}
	if err := ci.store.Upsert(ctx, ContentCollection, docs); err != nil {
		return fmt.Errorf("%w: %w", ErrIndexUnavailable, err)
	}

	logger.Info("Indexed course", zap.String("title", crs.Title), zap.Int("chunks", len(chunks)))
	return nil
}

func (ci *CourseIndex) deleteCourse(ctx context.Context, title string) error {
	exists, err := ci.HasCourse(ctx, title)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	if err := ci.store.Delete(ctx, CatalogCollection, map[string]string{"title": title}); err != nil {
		return fmt.Errorf("%w: %w", ErrIndexUnavailable, err)
	}
	if err := ci.store.Delete(ctx, ContentCollection, map[string]string{"course_title": title}); err != nil {
		return fmt.Errorf("%w: %w", ErrIndexUnavailable, err)
	}
	return nil
}

// SearchContent ranks chunks by similarity to the query. Filters are applied before ranking.
func (ci *CourseIndex) SearchContent(ctx context.Context, query string, filter Filter, topK int) ([]ScoredChunk, error) {
	where := map[string]string{}
	if filter.CourseTitle != "" {
		where["course_title"] = filter.CourseTitle
	}
	if filter.LessonNumber != nil {
		where["lesson_number"] = strconv.Itoa(*filter.LessonNumber)
	}

	matches, err := ci.store.Query(ctx, ContentCollection, query, where, topK)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIndexUnavailable, err)
	}

	return linq.Pipe2(
		linq.FromSlice(ctx, matches),
		linq.Select(func(m vector.Match) ScoredChunk {
			return ScoredChunk{Chunk: chunkFromDocument(m.Document), Score: m.Score}
		}),
		linq.ToSlice[ScoredChunk](),
	)
}

// ResolveCourse returns the best catalog match for a partial course name.
// The top match is accepted unless a minimum score is configured. Index
// failures and an empty catalog are reported as not found.
func (ci *CourseIndex) ResolveCourse(ctx context.Context, partialName string) (CourseMatch, bool) {
	matches, err := ci.store.Query(ctx, CatalogCollection, partialName, nil, 1)
	if err != nil {
		logger.Error("Failed to resolve course", zap.String("name", partialName), zap.Error(err))
		return CourseMatch{}, false
	}
	if len(matches) == 0 {
		return CourseMatch{}, false
	}

	best := CourseMatch{Title: matches[0].Metadata["title"], Score: matches[0].Score}
	if best.Title == "" || best.Score < ci.minResolveScore {
		return CourseMatch{}, false
	}
	return best, true
}

func (ci *CourseIndex) GetCourse(ctx context.Context, title string) (*course.Course, error) {
	doc, ok, err := ci.store.Get(ctx, CatalogCollection, title)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIndexUnavailable, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCourseNotFound, title)
	}
	return courseFromDocument(doc)
}

func (ci *CourseIndex) HasCourse(ctx context.Context, title string) (bool, error) {
	_, ok, err := ci.store.Get(ctx, CatalogCollection, title)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrIndexUnavailable, err)
	}
	return ok, nil
}

// CourseTitles lists catalog titles in ingestion order.
func (ci *CourseIndex) CourseTitles(ctx context.Context) ([]string, error) {
	docs, err := ci.store.List(ctx, CatalogCollection)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIndexUnavailable, err)
	}
	return linq.Pipe2(
		linq.FromSlice(ctx, docs),
		linq.Select(func(d vector.Document) string { return d.Metadata["title"] }),
		linq.ToSlice[string](),
	)
}

func (ci *CourseIndex) CourseCount(ctx context.Context) (int, error) {
	n, err := ci.store.Count(ctx, CatalogCollection)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrIndexUnavailable, err)
	}
	return n, nil
}
