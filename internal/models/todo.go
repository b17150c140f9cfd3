// Package modelsはTodoItemとその検索条件を定義します。
package models

import "errors"

// ErrItemNotFound は条件に一致するアイテムが無い場合のエラーです。
var ErrItemNotFound = errors.New("todo item not found")

// TodoItem は1件のタスクを表すドキュメントです。
// _id はサーバーが採番し、owner_id は作成時のユーザーIDから変更されません。
type TodoItem struct {
	ID      string `json:"_id"`      // サーバー採番の識別子
	OwnerID string `json:"owner_id"` // 所有ユーザー
	Task    string `json:"task"`     // タスク本文
	Checked bool   `json:"checked"`  // 完了状態 (省略時 false)
}

// ItemFilter はドキュメント検索条件です。nil のフィールドは条件に含めません。
type ItemFilter struct {
	ID      *string `json:"_id,omitempty"`
	OwnerID *string `json:"owner_id,omitempty"`
	Task    *string `json:"task,omitempty"`
	Checked *bool   `json:"checked,omitempty"`
}

// ItemUpdate は更新で代入するフィールドです。
type ItemUpdate struct {
	Task    *string `json:"task,omitempty"`
	Checked *bool   `json:"checked,omitempty"`
}

// Matches はフィルタがアイテムに一致するかを返します。
func (f ItemFilter) Matches(item TodoItem) bool {
	if f.ID != nil && *f.ID != item.ID {
		return false
	}
	if f.OwnerID != nil && *f.OwnerID != item.OwnerID {
		return false
	}
	if f.Task != nil && *f.Task != item.Task {
		return false
	}
	if f.Checked != nil && *f.Checked != item.Checked {
		return false
	}
	return true
}

// Apply は更新内容をアイテムに反映し、値が変化したかを返します。
func (u ItemUpdate) Apply(item *TodoItem) bool {
	changed := false
	if u.Task != nil && *u.Task != item.Task {
		item.Task = *u.Task
		changed = true
	}
	if u.Checked != nil && *u.Checked != item.Checked {
		item.Checked = *u.Checked
		changed = true
	}
	return changed
}

// IsEmpty は代入するフィールドが1つもないかを返します。
func (u ItemUpdate) IsEmpty() bool {
	return u.Task == nil && u.Checked == nil
}

// Ptr は値のポインタを返す小さなヘルパーです。
func Ptr[T any](v T) *T {
	return &v
}
