// Package catalog loads manufacturer span tables and serves them to the
// selector as immutable snapshots.
package catalog

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"Concreteflow/internal/calc/calcerr"
	"Concreteflow/internal/calc/joist"
)

type Catalog struct {
	ID           string        `json:"id" yaml:"id,omitempty"`
	Name         string        `json:"name" yaml:"name"`
	Manufacturer string        `json:"manufacturer,omitempty" yaml:"manufacturer,omitempty"`
	CreatedAt    time.Time     `json:"created_at" yaml:"-"`
	Entries      []joist.Entry `json:"entries" yaml:"entries"`
}

// Source hands out the rows of a stored catalog.
type Source interface {
	Entries(ctx context.Context, id string) ([]joist.Entry, error)
}

type Store interface {
	Source
	Save(ctx context.Context, c Catalog) (string, error)
}

// NotFound is reported with the empty catalog kind: an unknown id and a
// catalog without rows both leave the selector nothing to search.
func NotFound(id string) error {
	return calcerr.New(calcerr.KindEmptyCatalog, "catalog %q not found or empty", id)
}

// Memory is an in-process Store.
type Memory struct {
	mu   sync.RWMutex
	data map[string]Catalog
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]Catalog)}
}

func (m *Memory) Save(_ context.Context, c Catalog) (string, error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	c.Entries = cloneEntries(c.Entries)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[c.ID] = c
	return c.ID, nil
}

func (m *Memory) Entries(ctx context.Context, id string) ([]joist.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	c, ok := m.data[id]
	m.mu.RUnlock()
	if !ok || len(c.Entries) == 0 {
		return nil, NotFound(id)
	}
	return cloneEntries(c.Entries), nil
}

func cloneEntries(in []joist.Entry) []joist.Entry {
	out := make([]joist.Entry, len(in))
	for i, e := range in {
		e.Bands = slices.Clone(e.Bands)
		out[i] = e
	}
	return out
}
