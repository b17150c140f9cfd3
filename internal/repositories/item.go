// Package repositories はデータベース操作を行うリポジトリを提供します。
package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"go-sync-todo/internal/database"
	"go-sync-todo/internal/models"
)

var (
	ErrItemNotFound  = models.ErrItemNotFound
	ErrDuplicateItem = errors.New("duplicate item id")
)

// ItemRepository は items テーブルをドキュメントのコレクションとして扱います。
type ItemRepository struct {
	DB *sql.DB

	seqMu   sync.Mutex
	lastSeq int64
}

// NewItemRepository は新しいItemRepositoryインスタンスを作成します。
func NewItemRepository(db *sql.DB) *ItemRepository {
	return &ItemRepository{DB: db}
}

const selectItems = "SELECT id, owner_id, task, checked FROM items"

// querier は *sql.DB と *sql.Tx の共通部分です。
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// FindItems は filter に一致するアイテムを挿入順で最大 limit 件返します。limit <= 0 は無制限です。
func (r *ItemRepository) FindItems(ctx context.Context, filter models.ItemFilter, limit int) ([]models.TodoItem, error) {
	return findItems(ctx, r.DB, filter, limit)
}

// FindOneItem は最初に一致したアイテムを返します。
func (r *ItemRepository) FindOneItem(ctx context.Context, filter models.ItemFilter) (*models.TodoItem, error) {
	items, err := findItems(ctx, r.DB, filter, 1)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrItemNotFound
	}
	return &items[0], nil
}

// InsertItem は新しいアイテムを挿入し、_id を返します。
// item.ID が空ならUUIDを採番します。
func (r *ItemRepository) InsertItem(ctx context.Context, item models.TodoItem) (string, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	query := "INSERT INTO items (id, owner_id, task, checked, seq) VALUES (?, ?, ?, ?, ?)"
	if _, err := r.DB.ExecContext(ctx, query, item.ID, item.OwnerID, item.Task, item.Checked, r.nextSeq()); err != nil {
		if database.IsDuplicateKey(err) {
			return "", ErrDuplicateItem
		}
		slog.Error("item_insert_failed", "error", err)
		return "", fmt.Errorf("could not insert item: %w", err)
	}
	return item.ID, nil
}

// DeleteItem は最初に一致したアイテムを削除し、削除件数 (0 または 1) を返します。
func (r *ItemRepository) DeleteItem(ctx context.Context, filter models.ItemFilter) (int, error) {
	deleted := 0
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		items, err := findItems(ctx, tx, filter, 1)
		if err != nil || len(items) == 0 {
			return err
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM items WHERE id = ?", items[0].ID)
		if err != nil {
			return fmt.Errorf("could not delete item: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("could not get rows affected: %w", err)
		}
		deleted = int(n)
		return nil
	})
	return deleted, err
}

// DeleteManyItems は一致するアイテムをすべて削除し、削除件数を返します。
func (r *ItemRepository) DeleteManyItems(ctx context.Context, filter models.ItemFilter) (int, error) {
	where, args := whereClause(filter)
	res, err := r.DB.ExecContext(ctx, "DELETE FROM items"+where, args...)
	if err != nil {
		slog.Error("item_delete_many_failed", "error", err)
		return 0, fmt.Errorf("could not delete items: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("could not get rows affected: %w", err)
	}
	return int(n), nil
}

// UpdateItem は最初に一致したアイテムを更新し、更新後の値を返します。
func (r *ItemRepository) UpdateItem(ctx context.Context, filter models.ItemFilter, set models.ItemUpdate) (*models.TodoItem, error) {
	var updated *models.TodoItem
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		items, err := findItems(ctx, tx, filter, 1)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrItemNotFound
		}
		item := items[0]
		if !set.IsEmpty() {
			assign, args := setClause(set)
			args = append(args, item.ID)
			if _, err := tx.ExecContext(ctx, "UPDATE items SET "+assign+" WHERE id = ?", args...); err != nil {
				return fmt.Errorf("could not update item: %w", err)
			}
			set.Apply(&item)
		}
		updated = &item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateManyItems は一致するアイテムをすべて更新し、値が変わった件数を返します。
func (r *ItemRepository) UpdateManyItems(ctx context.Context, filter models.ItemFilter, set models.ItemUpdate) (int, error) {
	_, modified, err := r.UpdateManyItemsCounted(ctx, filter, set)
	return modified, err
}

// UpdateManyItemsCounted は一致件数と変更件数の両方を返します。
// 変更件数の数え方が MySQL と SQLite で揃うように、値が変わる行だけを UPDATE します。
func (r *ItemRepository) UpdateManyItemsCounted(ctx context.Context, filter models.ItemFilter, set models.ItemUpdate) (matched, modified int, err error) {
	err = r.withTx(ctx, func(tx *sql.Tx) error {
		where, args := whereClause(filter)
		var count int64
		rows, err := tx.QueryContext(ctx, "SELECT COUNT(*) FROM items"+where, args...)
		if err != nil {
			return fmt.Errorf("could not count items: %w", err)
		}
		if rows.Next() {
			if err := rows.Scan(&count); err != nil {
				rows.Close()
				return fmt.Errorf("could not scan count: %w", err)
			}
		}
		rows.Close()
		matched = int(count)
		if set.IsEmpty() || matched == 0 {
			return nil
		}

		assign, setArgs := setClause(set)
		differs, diffArgs := differsClause(set)
		cond := where
		if cond == "" {
			cond = " WHERE " + differs
		} else {
			cond += " AND " + differs
		}
		all := append(append(setArgs, args...), diffArgs...)
		res, err := tx.ExecContext(ctx, "UPDATE items SET "+assign+cond, all...)
		if err != nil {
			return fmt.Errorf("could not update items: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("could not get rows affected: %w", err)
		}
		modified = int(n)
		return nil
	})
	return matched, modified, err
}

func (r *ItemRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	return nil
}

// nextSeq は挿入順を表す単調増加の値を返します。
func (r *ItemRepository) nextSeq() int64 {
	r.seqMu.Lock()
	defer r.seqMu.Unlock()
	seq := time.Now().UnixNano()
	if seq <= r.lastSeq {
		seq = r.lastSeq + 1
	}
	r.lastSeq = seq
	return seq
}

func findItems(ctx context.Context, q querier, filter models.ItemFilter, limit int) ([]models.TodoItem, error) {
	where, args := whereClause(filter)
	query := selectItems + where + " ORDER BY seq ASC, id ASC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Error("item_query_failed", "error", err)
		return nil, fmt.Errorf("could not query items: %w", err)
	}
	defer rows.Close()

	items := []models.TodoItem{}
	for rows.Next() {
		var it models.TodoItem
		if err := rows.Scan(&it.ID, &it.OwnerID, &it.Task, &it.Checked); err != nil {
			return nil, fmt.Errorf("could not scan item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}
	return items, nil
}

func whereClause(f models.ItemFilter) (string, []any) {
	var conds []string
	var args []any
	if f.ID != nil {
		conds = append(conds, "id = ?")
		args = append(args, *f.ID)
	}
	if f.OwnerID != nil {
		conds = append(conds, "owner_id = ?")
		args = append(args, *f.OwnerID)
	}
	if f.Task != nil {
		conds = append(conds, "task = ?")
		args = append(args, *f.Task)
	}
	if f.Checked != nil {
		conds = append(conds, "checked = ?")
		args = append(args, *f.Checked)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func setClause(u models.ItemUpdate) (string, []any) {
	var parts []string
	var args []any
	if u.Task != nil {
		parts = append(parts, "task = ?")
		args = append(args, *u.Task)
	}
	if u.Checked != nil {
		parts = append(parts, "checked = ?")
		args = append(args, *u.Checked)
	}
	return strings.Join(parts, ", "), args
}

func differsClause(u models.ItemUpdate) (string, []any) {
	var parts []string
	var args []any
	if u.Task != nil {
		parts = append(parts, "task <> ?")
		args = append(args, *u.Task)
	}
	if u.Checked != nil {
		parts = append(parts, "checked <> ?")
		args = append(args, *u.Checked)
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}
