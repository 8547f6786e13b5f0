package db

import (
	"context"
	"fmt"
	"sync"

	"github.com/entrahub/scim/eval"
	"github.com/entrahub/scim/resource"
	"github.com/entrahub/scim/spec"
)

// Memory returns a new in-memory DB backed by a map guarded by a RWMutex.
// It applies the entire requested filter itself, so QueryResult.Residual is
// always nil; it exists for testing and showcasing rather than high
// throughput use.
func Memory() DB {
	return &memoryDB{db: make(map[string]*resource.Resource)}
}

type memoryDB struct {
	sync.RWMutex
	db map[string]*resource.Resource
}

func (m *memoryDB) GetResource(_ context.Context, id string) (*resource.Resource, error) {
	m.RLock()
	defer m.RUnlock()

	r, ok := m.db[id]
	if !ok {
		return nil, fmt.Errorf("%w: resource not found by id", spec.ErrNotFound)
	}
	return r.Clone(), nil
}

func (m *memoryDB) CreateResource(_ context.Context, r *resource.Resource) (*resource.Resource, error) {
	id := r.IdOrEmpty()
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", spec.ErrInternal)
	}

	m.Lock()
	defer m.Unlock()

	if _, ok := m.db[id]; ok {
		return nil, fmt.Errorf("%w: id exists", spec.ErrUniqueness)
	}
	m.db[id] = r.Clone()
	return r.Clone(), nil
}

func (m *memoryDB) UpdateResource(_ context.Context, id string, r *resource.Resource) (*resource.Resource, error) {
	m.Lock()
	defer m.Unlock()

	if _, ok := m.db[id]; !ok {
		return nil, fmt.Errorf("%w: resource not found by id", spec.ErrNotFound)
	}
	m.db[id] = r.Clone()
	return r.Clone(), nil
}

func (m *memoryDB) DeleteResource(_ context.Context, id string) error {
	m.Lock()
	defer m.Unlock()

	if _, ok := m.db[id]; !ok {
		return fmt.Errorf("%w: resource not found by id", spec.ErrNotFound)
	}
	delete(m.db, id)
	return nil
}

func (m *memoryDB) QueryResources(_ context.Context, req QueryRequest) (*QueryResult, error) {
	m.RLock()
	candidates := make([]*resource.Resource, 0, len(m.db))
	for _, r := range m.db {
		if req.Filter == nil || eval.Evaluate(r, req.Filter) {
			candidates = append(candidates, r.Clone())
		}
	}
	m.RUnlock()

	if req.Sort != nil {
		order := eval.SortAscending
		if req.Sort.Descending {
			order = eval.SortDescending
		}
		eval.Sort(candidates, req.Sort.By, order)
	}

	page := eval.Paginate(candidates, req.StartIndex, req.Count)
	return &QueryResult{Resources: page.Resources, Residual: nil, Page: &page}, nil
}
