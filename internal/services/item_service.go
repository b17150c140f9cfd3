package services

import (
	"context"
	"errors"
	"strings"

	"go-sync-todo/internal/models"
	"go-sync-todo/internal/repositories"
)

const (
	DefaultItemLimit = 100
	MaxItemLimit     = 1000
)

var (
	ErrForbidden   = errors.New("access denied")
	ErrInvalidItem = errors.New("invalid item")
)

// Caller はリクエストを行ったユーザーです。
type Caller struct {
	UserID string
	Role   string
}

// IsAdmin は所有者スコープを無視できるかどうかを返します。
func (c Caller) IsAdmin() bool { return c.Role == models.RoleAdmin }

// ItemService はアイテム関連のビジネスロジックを扱います。
// adminでない呼び出し元は、常に自分の owner_id のアイテムだけを操作します。
type ItemService struct {
	itemRepo *repositories.ItemRepository
}

// NewItemService は新しいItemServiceを作成します。
func NewItemService(itemRepo *repositories.ItemRepository) *ItemService {
	return &ItemService{itemRepo: itemRepo}
}

// scope はフィルタを呼び出し元の所有アイテムに限定します。
// 他人の owner_id を指定したフィルタは何にも一致しないので ok=false を返します。
func scope(caller Caller, f models.ItemFilter) (models.ItemFilter, bool) {
	if caller.IsAdmin() {
		return f, true
	}
	if f.OwnerID != nil && *f.OwnerID != caller.UserID {
		return f, false
	}
	f.OwnerID = models.Ptr(caller.UserID)
	return f, true
}

// ClampLimit は items クエリの件数上限を正規化します。
func ClampLimit(limit *int) int {
	if limit == nil {
		return DefaultItemLimit
	}
	switch {
	case *limit < 1:
		return 1
	case *limit > MaxItemLimit:
		return MaxItemLimit
	}
	return *limit
}

// ListItems は一致するアイテムを挿入順で返します。
func (s *ItemService) ListItems(ctx context.Context, caller Caller, f models.ItemFilter, limit *int) ([]models.TodoItem, error) {
	f, ok := scope(caller, f)
	if !ok {
		return []models.TodoItem{}, nil
	}
	return s.itemRepo.FindItems(ctx, f, ClampLimit(limit))
}

// GetItem は最初に一致したアイテムを返します。一致しなければ nil です。
func (s *ItemService) GetItem(ctx context.Context, caller Caller, f models.ItemFilter) (*models.TodoItem, error) {
	f, ok := scope(caller, f)
	if !ok {
		return nil, nil
	}
	return nilIfNotFound(s.itemRepo.FindOneItem(ctx, f))
}

// InsertItem はアイテムを作成します。
func (s *ItemService) InsertItem(ctx context.Context, caller Caller, item models.TodoItem) (*models.TodoItem, error) {
	if strings.TrimSpace(item.Task) == "" {
		return nil, ErrInvalidItem
	}
	if !caller.IsAdmin() {
		if item.OwnerID != caller.UserID {
			return nil, ErrForbidden
		}
		item.ID = ""
	}
	if item.OwnerID == "" {
		return nil, ErrInvalidItem
	}
	id, err := s.itemRepo.InsertItem(ctx, item)
	if err != nil {
		return nil, err
	}
	item.ID = id
	return &item, nil
}

// DeleteItem は最初に一致したアイテムを削除し、削除したアイテムを返します。
func (s *ItemService) DeleteItem(ctx context.Context, caller Caller, f models.ItemFilter) (*models.TodoItem, error) {
	f, ok := scope(caller, f)
	if !ok {
		return nil, nil
	}
	item, err := nilIfNotFound(s.itemRepo.FindOneItem(ctx, f))
	if err != nil || item == nil {
		return nil, err
	}
	n, err := s.itemRepo.DeleteItem(ctx, models.ItemFilter{ID: &item.ID})
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	return item, nil
}

// DeleteManyItems は一致するアイテムをすべて削除し、件数を返します。
func (s *ItemService) DeleteManyItems(ctx context.Context, caller Caller, f models.ItemFilter) (int, error) {
	f, ok := scope(caller, f)
	if !ok {
		return 0, nil
	}
	return s.itemRepo.DeleteManyItems(ctx, f)
}

// UpdateItem は最初に一致したアイテムを更新し、更新後の値を返します。
func (s *ItemService) UpdateItem(ctx context.Context, caller Caller, f models.ItemFilter, set models.ItemUpdate) (*models.TodoItem, error) {
	f, ok := scope(caller, f)
	if !ok {
		return nil, nil
	}
	if set.Task != nil && strings.TrimSpace(*set.Task) == "" {
		return nil, ErrInvalidItem
	}
	return nilIfNotFound(s.itemRepo.UpdateItem(ctx, f, set))
}

// UpdateManyItems は一致するアイテムをすべて更新し、一致件数と変更件数を返します。
func (s *ItemService) UpdateManyItems(ctx context.Context, caller Caller, f models.ItemFilter, set models.ItemUpdate) (matched, modified int, err error) {
	f, ok := scope(caller, f)
	if !ok {
		return 0, 0, nil
	}
	if set.Task != nil && strings.TrimSpace(*set.Task) == "" {
		return 0, 0, ErrInvalidItem
	}
	return s.itemRepo.UpdateManyItemsCounted(ctx, f, set)
}

func nilIfNotFound(item *models.TodoItem, err error) (*models.TodoItem, error) {
	if errors.Is(err, repositories.ErrItemNotFound) {
		return nil, nil
	}
	return item, err
}
