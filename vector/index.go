package vector

import "context"

// Document is one row of a named collection.
type Document struct {
	ID       string
	Content  string
	Metadata map[string]string
}

// Match is a ranked query hit. Score is cosine similarity; higher is closer.
type Match struct {
	Document
	Score float32
}

func (m Match) Distance() float32 {
	return 1 - m.Score
}

// Index is a nearest-neighbour store over named collections. Filters are
// equality matches on metadata keys.
type Index interface {
	Upsert(ctx context.Context, collection string, docs []Document) error
	Query(ctx context.Context, collection, text string, filter map[string]string, topK int) ([]Match, error)
	Get(ctx context.Context, collection, id string) (Document, bool, error)
	Delete(ctx context.Context, collection string, filter map[string]string) error
	List(ctx context.Context, collection string) ([]Document, error)
	Count(ctx context.Context, collection string) (int, error)
}
