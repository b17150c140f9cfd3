package graph

import (
	"context"

	"go-sync-todo/internal/models"
	"go-sync-todo/internal/services"
)

// Resolver は Query と Mutation のルートリゾルバです。
type Resolver struct {
	items *services.ItemService
}

// NewResolver は新しいResolverを作成します。
func NewResolver(items *services.ItemService) *Resolver {
	return &Resolver{items: items}
}

type itemQueryInput struct {
	ID      *string
	OwnerID *string
	Task    *string
	Checked *bool
}

func (in *itemQueryInput) filter() models.ItemFilter {
	if in == nil {
		return models.ItemFilter{}
	}
	return models.ItemFilter{ID: in.ID, OwnerID: in.OwnerID, Task: in.Task, Checked: in.Checked}
}

type itemInsertInput struct {
	ID      *string
	OwnerID string
	Task    string
	Checked *bool
}

type itemUpdateInput struct {
	Task    *string
	Checked *bool
}

func (in itemUpdateInput) update() models.ItemUpdate {
	return models.ItemUpdate{Task: in.Task, Checked: in.Checked}
}

type itemResolver struct {
	item models.TodoItem
}

func (r *itemResolver) ID() string      { return r.item.ID }
func (r *itemResolver) Checked() bool   { return r.item.Checked }
func (r *itemResolver) OwnerID() string { return r.item.OwnerID }
func (r *itemResolver) Task() string    { return r.item.Task }

func resolveItem(item *models.TodoItem) *itemResolver {
	if item == nil {
		return nil
	}
	return &itemResolver{item: *item}
}

type deleteManyPayload struct {
	deleted int
}

func (p *deleteManyPayload) DeletedCount() int32 { return int32(p.deleted) }

type updateManyPayload struct {
	matched, modified int
}

func (p *updateManyPayload) MatchedCount() int32  { return int32(p.matched) }
func (p *updateManyPayload) ModifiedCount() int32 { return int32(p.modified) }

// Item は最初に一致したアイテムを返します。
func (r *Resolver) Item(ctx context.Context, args struct{ Query *itemQueryInput }) (*itemResolver, error) {
	caller, err := CallerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	item, err := r.items.GetItem(ctx, caller, args.Query.filter())
	if err != nil {
		return nil, err
	}
	return resolveItem(item), nil
}

// Items は一致するアイテムを挿入順で返します。
func (r *Resolver) Items(ctx context.Context, args struct {
	Query *itemQueryInput
	Limit *int32
}) ([]*itemResolver, error) {
	caller, err := CallerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	var limit *int
	if args.Limit != nil {
		limit = models.Ptr(int(*args.Limit))
	}
	items, err := r.items.ListItems(ctx, caller, args.Query.filter(), limit)
	if err != nil {
		return nil, err
	}
	out := make([]*itemResolver, len(items))
	for i := range items {
		out[i] = &itemResolver{item: items[i]}
	}
	return out, nil
}

func (r *Resolver) InsertOneItem(ctx context.Context, args struct{ Data itemInsertInput }) (*itemResolver, error) {
	caller, err := CallerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	item := models.TodoItem{OwnerID: args.Data.OwnerID, Task: args.Data.Task}
	if args.Data.ID != nil {
		item.ID = *args.Data.ID
	}
	if args.Data.Checked != nil {
		item.Checked = *args.Data.Checked
	}
	created, err := r.items.InsertItem(ctx, caller, item)
	if err != nil {
		return nil, err
	}
	return resolveItem(created), nil
}

func (r *Resolver) DeleteOneItem(ctx context.Context, args struct{ Query itemQueryInput }) (*itemResolver, error) {
	caller, err := CallerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	deleted, err := r.items.DeleteItem(ctx, caller, args.Query.filter())
	if err != nil {
		return nil, err
	}
	return resolveItem(deleted), nil
}

func (r *Resolver) DeleteManyItems(ctx context.Context, args struct{ Query *itemQueryInput }) (*deleteManyPayload, error) {
	caller, err := CallerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	n, err := r.items.DeleteManyItems(ctx, caller, args.Query.filter())
	if err != nil {
		return nil, err
	}
	return &deleteManyPayload{deleted: n}, nil
}

func (r *Resolver) UpdateOneItem(ctx context.Context, args struct {
	Query itemQueryInput
	Set   itemUpdateInput
}) (*itemResolver, error) {
	caller, err := CallerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	updated, err := r.items.UpdateItem(ctx, caller, args.Query.filter(), args.Set.update())
	if err != nil {
		return nil, err
	}
	return resolveItem(updated), nil
}

func (r *Resolver) UpdateManyItems(ctx context.Context, args struct {
	Query *itemQueryInput
	Set   itemUpdateInput
}) (*updateManyPayload, error) {
	caller, err := CallerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	matched, modified, err := r.items.UpdateManyItems(ctx, caller, args.Query.filter(), args.Set.update())
	if err != nil {
		return nil, err
	}
	return &updateManyPayload{matched: matched, modified: modified}, nil
}
