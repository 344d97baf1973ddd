package vector

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/philippgille/chromem-go"
)

// ChromemIndex keeps collections in an in-process chromem database.
// Insertion order is tracked per collection so listings are deterministic.
type ChromemIndex struct {
	db    *chromem.DB
	embed chromem.EmbeddingFunc

	mu    sync.RWMutex
	order map[string][]string
}

func NewChromemIndex(embed chromem.EmbeddingFunc) *ChromemIndex {
	return &ChromemIndex{
		db:    chromem.NewDB(),
		embed: embed,
		order: map[string][]string{},
	}
}

func (x *ChromemIndex) collection(name string) (*chromem.Collection, error) {
	c, err := x.db.GetOrCreateCollection(name, nil, x.embed)
	if err != nil {
		return nil, fmt.Errorf("failed to create/get collection %s: %w", name, err)
	}
	return c, nil
}

func (x *ChromemIndex) Upsert(ctx context.Context, collection string, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}
	c, err := x.collection(collection)
	if err != nil {
		return err
	}

	chromemDocs := make([]chromem.Document, len(docs))
	for i, d := range docs {
		chromemDocs[i] = chromem.Document{ID: d.ID, Content: d.Content, Metadata: d.Metadata}
	}
	if err := c.AddDocuments(ctx, chromemDocs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("failed to add documents: %w", err)
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	known := make(map[string]bool, len(x.order[collection]))
	for _, id := range x.order[collection] {
		known[id] = true
	}
	for _, d := range docs {
		if !known[d.ID] {
			known[d.ID] = true
			x.order[collection] = append(x.order[collection], d.ID)
		}
	}
	return nil
}

func (x *ChromemIndex) Query(ctx context.Context, collection, text string, filter map[string]string, topK int) ([]Match, error) {
	c, err := x.collection(collection)
	if err != nil {
		return nil, err
	}

	// chromem rejects nResults above the collection size
	topK = min(topK, c.Count())
	if topK <= 0 {
		return nil, nil
	}
	if len(filter) == 0 {
		filter = nil
	}

	results, err := c.Query(ctx, text, topK, filter, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query by similarity: %w", err)
	}

	matches := make([]Match, len(results))
	for i, r := range results {
		matches[i] = Match{
			Document: Document{ID: r.ID, Content: r.Content, Metadata: r.Metadata},
			Score:    r.Similarity,
		}
	}
	return matches, nil
}

func (x *ChromemIndex) Get(ctx context.Context, collection, id string) (Document, bool, error) {
	c, err := x.collection(collection)
	if err != nil {
		return Document{}, false, err
	}
	if !x.has(collection, id) {
		return Document{}, false, nil
	}

	d, err := c.GetByID(ctx, id)
	if err != nil {
		return Document{}, false, fmt.Errorf("failed to get document %s: %w", id, err)
	}
	return Document{ID: d.ID, Content: d.Content, Metadata: d.Metadata}, true, nil
}

func (x *ChromemIndex) Delete(ctx context.Context, collection string, filter map[string]string) error {
	if len(filter) == 0 {
		return fmt.Errorf("delete requires a filter")
	}
	c, err := x.collection(collection)
	if err != nil {
		return err
	}
	if err := c.Delete(ctx, filter, nil); err != nil {
		return fmt.Errorf("failed to delete documents: %w", err)
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	kept := x.order[collection][:0]
	for _, id := range x.order[collection] {
		if _, err := c.GetByID(ctx, id); err == nil {
			kept = append(kept, id)
		}
	}
	x.order[collection] = kept
	return nil
}

func (x *ChromemIndex) List(ctx context.Context, collection string) ([]Document, error) {
	c, err := x.collection(collection)
	if err != nil {
		return nil, err
	}

	x.mu.RLock()
	ids := append([]string(nil), x.order[collection]...)
	x.mu.RUnlock()

	docs := make([]Document, 0, len(ids))
	for _, id := range ids {
		d, err := c.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to get document %s: %w", id, err)
		}
		docs = append(docs, Document{ID: d.ID, Content: d.Content, Metadata: d.Metadata})
	}
	return docs, nil
}

func (x *ChromemIndex) Count(ctx context.Context, collection string) (int, error) {
	c, err := x.collection(collection)
	if err != nil {
		return 0, err
	}
	return c.Count(), nil
}

func (x *ChromemIndex) has(collection, id string) bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	for _, known := range x.order[collection] {
		if known == id {
			return true
		}
	}
	return false
}
