package todosync

import (
	"context"

	"go-sync-todo/internal/models"
)

// ErrItemNotFound は対象のアイテムがリモートに存在しない場合のエラーです。
var ErrItemNotFound = models.ErrItemNotFound

// ItemRepository はホストされたデータAPIへの操作を表します。
// Session はこのインターフェースにだけ依存します。
type ItemRepository interface {
	// FindItems は filter に一致するアイテムを最大 limit 件、挿入順で返します。
	FindItems(ctx context.Context, filter models.ItemFilter, limit int) ([]models.TodoItem, error)
	// FindOneItem は最初に一致したアイテムを返します。なければ ErrItemNotFound を返します。
	FindOneItem(ctx context.Context, filter models.ItemFilter) (*models.TodoItem, error)
	// InsertItem は新しいアイテムを作成し、採番された _id を返します。
	InsertItem(ctx context.Context, item models.TodoItem) (string, error)
	// DeleteItem は最初に一致したアイテムを削除し、削除件数を返します。
	DeleteItem(ctx context.Context, filter models.ItemFilter) (int, error)
	// DeleteManyItems は一致するすべてのアイテムを削除し、削除件数を返します。
	DeleteManyItems(ctx context.Context, filter models.ItemFilter) (int, error)
	// UpdateItem は最初に一致したアイテムを更新し、更新後のアイテムを返します。
	// 一致しなければ ErrItemNotFound を返します。
	UpdateItem(ctx context.Context, filter models.ItemFilter, set models.ItemUpdate) (*models.TodoItem, error)
	// UpdateManyItems は一致するすべてのアイテムを更新し、変更件数を返します。
	UpdateManyItems(ctx context.Context, filter models.ItemFilter, set models.ItemUpdate) (int, error)
}
