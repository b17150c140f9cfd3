// Package todosync はローカルのTodo一覧をリモートのデータAPIと同期させます。
// 各アクションはまずリモートを呼び出し、成功した場合だけリデューサーへディスパッチします。
package todosync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go-sync-todo/internal/models"
	"go-sync-todo/internal/todolist"
)

// InitialLoadLimit は初回読み込みで取得する最大件数です。
const InitialLoadLimit = 1000

// Status はセッションの読み込み状態です。
type Status int

const (
	Unloaded Status = iota
	Loading
	Loaded
)

func (s Status) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	default:
		return "unknown"
	}
}

// Actions はUIから呼び出す操作の集合です。
type Actions interface {
	AddTodo(ctx context.Context, task string) error
	RemoveTodo(ctx context.Context, id string) error
	SetTodoCompletionStatus(ctx context.Context, id string, status bool) error
	ClearTodos(ctx context.Context) error
	ClearCompletedTodos(ctx context.Context) error
	CompleteAllTodos(ctx context.Context) error
	ToggleTodoStatus(ctx context.Context, id string) error
}

// Option は Session の設定を変更します。
type Option func(*Session)

// WithOnChange はディスパッチのたびに新しい状態を受け取るコールバックを設定します。
// コールバックはロックの外で呼ばれます。
func WithOnChange(fn func(todolist.State)) Option {
	return func(s *Session) { s.onChange = fn }
}

// WithLogger はセッションが使うロガーを設定します。
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// Session は1ユーザー分のTodo一覧の状態を保持し、リモートと同期します。
// 状態の変更はすべて dispatch を通ります。
type Session struct {
	repo   ItemRepository
	userID string

	mu     sync.Mutex
	state  todolist.State
	status Status

	loadOnce sync.Once
	loadErr  error

	onChange func(todolist.State)
	logger   *slog.Logger
}

var _ Actions = (*Session)(nil)

// New は新しい Session を作成します。初回読み込みは Activate で行います。
func New(repo ItemRepository, userID string, opts ...Option) *Session {
	s := &Session{
		repo:   repo,
		userID: userID,
		state:  todolist.State{Todos: []models.TodoItem{}},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UserID はセッションのユーザーIDを返します。
func (s *Session) UserID() string { return s.userID }

// Items は現在のアイテムのコピーを返します。
func (s *Session) Items() []models.TodoItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.TodoItem, len(s.state.Todos))
	copy(out, s.state.Todos)
	return out
}

// HasHadTodos は一度でもアイテムが読み込まれたかを返します。
func (s *Session) HasHadTodos() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.HasHadTodos
}

// Status は読み込み状態を返します。
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Snapshot は現在の状態を返します。
func (s *Session) Snapshot() todolist.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return todolist.State{
		Todos:       append([]models.TodoItem{}, s.state.Todos...),
		HasHadTodos: s.state.HasHadTodos,
	}
}

// Activate は初回読み込みを行います。読み込みはセッションの生存期間中に1回だけ実行され、
// 2回目以降の呼び出しは最初の結果を返します。
func (s *Session) Activate(ctx context.Context) error {
	s.loadOnce.Do(func() {
		s.setStatus(Loading)
		items, err := s.repo.FindItems(ctx, s.scope(models.ItemFilter{}), InitialLoadLimit)
		if err != nil {
			s.logger.Warn("todo_load_failed", "user_id", s.userID, "error", err)
			s.loadErr = fmt.Errorf("load todos: %w", err)
			return
		}
		s.dispatch(todolist.SetTodos{Todos: items})
		s.setStatus(Loaded)
		s.logger.Debug("todo_load_success", "user_id", s.userID, "count", len(items))
	})
	return s.loadErr
}

// AddTodo はアイテムを作成し、採番された _id を付けてローカルに追加します。
func (s *Session) AddTodo(ctx context.Context, task string) error {
	id, err := s.repo.InsertItem(ctx, models.TodoItem{Task: task, OwnerID: s.userID, Checked: false})
	if err != nil {
		return s.fail("add", err)
	}
	s.dispatch(todolist.AddTodo{ID: id, Task: task, OwnerID: s.userID})
	return nil
}

// RemoveTodo は id のアイテムを削除します。
func (s *Session) RemoveTodo(ctx context.Context, id string) error {
	if _, err := s.repo.DeleteItem(ctx, s.scope(models.ItemFilter{ID: &id})); err != nil {
		return s.fail("remove", err)
	}
	s.dispatch(todolist.RemoveTodo{ID: id})
	return nil
}

// SetTodoCompletionStatus は id のアイテムの checked を status にします。
// ローカルにはリモートが返した値を反映します。
func (s *Session) SetTodoCompletionStatus(ctx context.Context, id string, status bool) error {
	updated, err := s.repo.UpdateItem(ctx, s.scope(models.ItemFilter{ID: &id}), models.ItemUpdate{Checked: &status})
	if err != nil {
		return s.fail("set status", err)
	}
	if updated == nil {
		return s.fail("set status", ErrItemNotFound)
	}
	s.dispatch(todolist.SetTodoStatus{ID: updated.ID, Checked: updated.Checked})
	return nil
}

// ClearTodos はユーザーのアイテムをすべて削除します。
func (s *Session) ClearTodos(ctx context.Context) error {
	if _, err := s.repo.DeleteManyItems(ctx, s.scope(models.ItemFilter{})); err != nil {
		return s.fail("clear", err)
	}
	s.dispatch(todolist.ClearTodos{})
	return nil
}

// ClearCompletedTodos は完了済みのアイテムを削除します。
func (s *Session) ClearCompletedTodos(ctx context.Context) error {
	if _, err := s.repo.DeleteManyItems(ctx, s.scope(models.ItemFilter{Checked: models.Ptr(true)})); err != nil {
		return s.fail("clear completed", err)
	}
	s.dispatch(todolist.ClearCompletedTodos{})
	return nil
}

// CompleteAllTodos はユーザーのアイテムをすべて完了にします。
func (s *Session) CompleteAllTodos(ctx context.Context) error {
	if _, err := s.repo.UpdateManyItems(ctx, s.scope(models.ItemFilter{}), models.ItemUpdate{Checked: models.Ptr(true)}); err != nil {
		return s.fail("complete all", err)
	}
	s.dispatch(todolist.CompleteAllTodos{})
	return nil
}

// ToggleTodoStatus は現在の値をリモートから読み直してから反転させます。
// 読み込みが失敗した場合は更新もディスパッチも行いません。
func (s *Session) ToggleTodoStatus(ctx context.Context, id string) error {
	current, err := s.repo.FindOneItem(ctx, s.scope(models.ItemFilter{ID: &id}))
	if err != nil {
		return s.fail("toggle", err)
	}
	if current == nil {
		return s.fail("toggle", ErrItemNotFound)
	}
	next := !current.Checked
	if _, err := s.repo.UpdateItem(ctx, s.scope(models.ItemFilter{ID: &current.ID}), models.ItemUpdate{Checked: &next}); err != nil {
		return s.fail("toggle", err)
	}
	s.dispatch(todolist.ToggleTodoStatus{ID: current.ID})
	return nil
}

// scope はフィルタをセッションのユーザーに限定します。
func (s *Session) scope(f models.ItemFilter) models.ItemFilter {
	owner := s.userID
	f.OwnerID = &owner
	return f
}

func (s *Session) dispatch(action todolist.Action) {
	s.mu.Lock()
	s.state = todolist.Reduce(s.state, action)
	next := s.state
	s.mu.Unlock()

	if s.onChange != nil {
		s.onChange(next)
	}
}

func (s *Session) setStatus(st Status) {
	s.mu.Lock()
	s.status = st
	s.mu.Unlock()
}

func (s *Session) fail(op string, err error) error {
	if errors.Is(err, context.Canceled) {
		s.logger.Debug("todo_action_canceled", "op", op, "user_id", s.userID)
	} else {
		s.logger.Warn("todo_action_failed", "op", op, "user_id", s.userID, "error", err)
	}
	return fmt.Errorf("%s todo: %w", op, err)
}
