package todolist

import "go-sync-todo/internal/models"

// Action は Reduce に渡す状態変更要求です。
// 実装はこのパッケージ内の型に限られます。
type Action interface {
	isAction()
}

// SetTodos は一覧を丸ごと置き換えます。
type SetTodos struct {
	Todos []models.TodoItem
}

// AddTodo は1件を末尾に追加します。Checked が nil なら false として扱います。
type AddTodo struct {
	ID      string
	OwnerID string
	Task    string
	Checked *bool
}

// RemoveTodo は ID が一致するアイテムを取り除きます。
type RemoveTodo struct {
	ID string
}

// ClearCompletedTodos は完了済みのアイテムをすべて取り除きます。
type ClearCompletedTodos struct{}

// ClearTodos は一覧を空にします。
type ClearTodos struct{}

// SetTodoStatus は ID が一致するアイテムの checked を設定します。
type SetTodoStatus struct {
	ID      string
	Checked bool
}

// CompleteAllTodos はすべてのアイテムを完了にします。
type CompleteAllTodos struct{}

// ToggleTodoStatus は ID が一致するアイテムの checked を反転します。
type ToggleTodoStatus struct {
	ID string
}

func (SetTodos) isAction()            {}
func (AddTodo) isAction()             {}
func (RemoveTodo) isAction()          {}
func (ClearCompletedTodos) isAction() {}
func (ClearTodos) isAction()          {}
func (SetTodoStatus) isAction()       {}
func (CompleteAllTodos) isAction()    {}
func (ToggleTodoStatus) isAction()    {}
