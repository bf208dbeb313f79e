package service

import (
	"context"
	"sync"

	"github.com/costbook/backend/internal/model"
	"github.com/costbook/backend/internal/repository"
)

// lookupCache memoizes catalogue entries for the lifetime of one batch.
// Ids confirmed absent are remembered too, so a deleted entry referenced by
// many items is only queried once.
type lookupCache struct {
	repo repository.CatalogueRepository

	mu      sync.Mutex
	entries model.Catalogue
	missing map[model.CatalogueKey]bool
}

func newLookupCache(repo repository.CatalogueRepository) *lookupCache {
	return &lookupCache{
		repo:    repo,
		entries: model.Catalogue{},
		missing: make(map[model.CatalogueKey]bool),
	}
}

// load returns a catalogue view holding every requested id that exists.
func (c *lookupCache) load(ctx context.Context, ids map[model.Category][]string) (model.Catalogue, error) {
	for category, want := range ids {
		todo := c.unknown(category, want)
		if len(todo) == 0 {
			continue
		}
		found, err := c.repo.ListByIDs(ctx, category, todo)
		if err != nil {
			return nil, &UpstreamLookupError{Resource: string(category) + " catalogue", ID: todo[0], Err: err}
		}
		c.store(category, todo, found)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	view := model.Catalogue{}
	for category, want := range ids {
		for _, id := range want {
			if e, ok := c.entries.Lookup(category, id); ok {
				view.Put(e)
			}
		}
	}
	return view, nil
}

func (c *lookupCache) unknown(category model.Category, ids []string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	seen := make(map[string]bool, len(ids))
	var todo []string
	for _, id := range ids {
		key := model.CatalogueKey{Category: category, ID: id}
		if seen[id] || c.missing[key] {
			continue
		}
		if _, ok := c.entries[key]; ok {
			continue
		}
		seen[id] = true
		todo = append(todo, id)
	}
	return todo
}

func (c *lookupCache) store(category model.Category, requested []string, found []*model.CatalogueEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range found {
		e.Category = category
		c.entries.Put(e)
	}
	for _, id := range requested {
		key := model.CatalogueKey{Category: category, ID: id}
		if _, ok := c.entries[key]; !ok {
			c.missing[key] = true
		}
	}
}
