package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/SaiNageswarS/course-rag/course"
	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-collection-boot/ds"
	"go.uber.org/zap"
)

// Processor turns one document into a course and its chunks.
type Processor interface {
	Process(text string) (*course.Course, []course.CourseChunk, error)
}

// CourseStore is the part of the course index ingestion writes to.
type CourseStore interface {
	CourseTitles(ctx context.Context) ([]string, error)
	IndexCourse(ctx context.Context, crs *course.Course, chunks []course.CourseChunk) error
}

type Stats struct {
	CoursesIndexed int      `json:"courses_indexed"`
	ChunksIndexed  int      `json:"chunks_indexed"`
	Skipped        []string `json:"skipped,omitempty"` // titles already present
	Failed         []string `json:"failed,omitempty"`  // files that could not be read or parsed
}

type Ingestor struct {
	processor Processor
	store     CourseStore
}

func NewIngestor(processor Processor, store CourseStore) *Ingestor {
	return &Ingestor{processor: processor, store: store}
}

// IngestPath indexes a single course document or every supported document under a
// directory. Courses whose title is already indexed are skipped unless force is set.
// Malformed documents are reported in Stats and do not stop the run; index failures do.
func (in *Ingestor) IngestPath(ctx context.Context, path string, force bool) (*Stats, error) {
	files, err := collectFiles(path)
	if err != nil {
		return nil, err
	}

	titles, err := in.store.CourseTitles(ctx)
	if err != nil {
		return nil, err
	}
	existing := ds.NewSet[string]()
	for _, t := range titles {
		existing.Add(t)
	}

	stats := &Stats{}
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		crs, chunks, err := in.load(file)
		if err != nil {
			logger.Error("Skipping malformed course document", zap.String("file", file), zap.Error(err))
			stats.Failed = append(stats.Failed, file)
			continue
		}

		if existing.Contains(crs.Title) && !force {
			logger.Info("Course already indexed", zap.String("title", crs.Title))
			stats.Skipped = append(stats.Skipped, crs.Title)
			continue
		}

		if err := in.store.IndexCourse(ctx, crs, chunks); err != nil {
			return stats, fmt.Errorf("indexing %s: %w", file, err)
		}
		existing.Add(crs.Title)
		stats.CoursesIndexed++
		stats.ChunksIndexed += len(chunks)
	}

	return stats, nil
}

func (in *Ingestor) load(file string) (*course.Course, []course.CourseChunk, error) {
	text, err := ExtractText(file)
	if err != nil {
		return nil, nil, err
	}
	return in.processor.Process(text)
}

// collectFiles returns path itself for a file, or the supported files under a
// directory in lexical order.
func collectFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if !Supported(path) {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, path)
		}
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrPermission) {
				logger.Error("Skipping unreadable path", zap.String("path", p), zap.Error(err))
				return nil
			}
			return err
		}
		if !d.IsDir() && Supported(p) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
