package todosync_test

import (
	"context"
	"fmt"
	"sync"

	"go-sync-todo/internal/models"
	"go-sync-todo/internal/todosync"
)

// call は fakeRepo に届いた呼び出しの記録です。
type call struct {
	Method string
	Filter models.ItemFilter
	Set    models.ItemUpdate
	Item   models.TodoItem
	Limit  int
}

// fakeRepo はメモリ上で動く ItemRepository です。
type fakeRepo struct {
	mu     sync.Mutex
	items  []models.TodoItem
	nextID int
	calls  []call
	// failOn に含まれるメソッドは err を返します
	failOn map[string]error
}

func newFakeRepo(items ...models.TodoItem) *fakeRepo {
	return &fakeRepo{items: items, nextID: 100, failOn: map[string]error{}}
}

func (r *fakeRepo) record(c call) error {
	r.calls = append(r.calls, c)
	return r.failOn[c.Method]
}

func (r *fakeRepo) Calls() []call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]call{}, r.calls...)
}

func (r *fakeRepo) FindItems(_ context.Context, filter models.ItemFilter, limit int) ([]models.TodoItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record(call{Method: "FindItems", Filter: filter, Limit: limit}); err != nil {
		return nil, err
	}
	out := []models.TodoItem{}
	for _, it := range r.items {
		if filter.Matches(it) && len(out) < limit {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *fakeRepo) FindOneItem(_ context.Context, filter models.ItemFilter) (*models.TodoItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record(call{Method: "FindOneItem", Filter: filter}); err != nil {
		return nil, err
	}
	for _, it := range r.items {
		if filter.Matches(it) {
			found := it
			return &found, nil
		}
	}
	return nil, todosync.ErrItemNotFound
}

func (r *fakeRepo) InsertItem(_ context.Context, item models.TodoItem) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record(call{Method: "InsertItem", Item: item}); err != nil {
		return "", err
	}
	r.nextID++
	item.ID = fmt.Sprint(r.nextID)
	r.items = append(r.items, item)
	return item.ID, nil
}

func (r *fakeRepo) DeleteItem(_ context.Context, filter models.ItemFilter) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record(call{Method: "DeleteItem", Filter: filter}); err != nil {
		return 0, err
	}
	for i, it := range r.items {
		if filter.Matches(it) {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (r *fakeRepo) DeleteManyItems(_ context.Context, filter models.ItemFilter) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record(call{Method: "DeleteManyItems", Filter: filter}); err != nil {
		return 0, err
	}
	kept := r.items[:0]
	deleted := 0
	for _, it := range r.items {
		if filter.Matches(it) {
			deleted++
			continue
		}
		kept = append(kept, it)
	}
	r.items = kept
	return deleted, nil
}

func (r *fakeRepo) UpdateItem(_ context.Context, filter models.ItemFilter, set models.ItemUpdate) (*models.TodoItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record(call{Method: "UpdateItem", Filter: filter, Set: set}); err != nil {
		return nil, err
	}
	for i := range r.items {
		if filter.Matches(r.items[i]) {
			set.Apply(&r.items[i])
			updated := r.items[i]
			return &updated, nil
		}
	}
	return nil, todosync.ErrItemNotFound
}

func (r *fakeRepo) UpdateManyItems(_ context.Context, filter models.ItemFilter, set models.ItemUpdate) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record(call{Method: "UpdateManyItems", Filter: filter, Set: set}); err != nil {
		return 0, err
	}
	modified := 0
	for i := range r.items {
		if filter.Matches(r.items[i]) && set.Apply(&r.items[i]) {
			modified++
		}
	}
	return modified, nil
}
