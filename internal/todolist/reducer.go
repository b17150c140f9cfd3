// Package todolist はTodo一覧のローカル状態と、その状態遷移を行うリデューサーを提供します。
package todolist

import (
	"fmt"
	"log/slog"

	"go-sync-todo/internal/models"
)

// State はリデューサーが保持する状態です。
// HasHadTodos は「まだ読み込んでいない」と「空であることが確定した」を区別するために使います。
type State struct {
	Todos       []models.TodoItem `json:"todos"`
	HasHadTodos bool              `json:"hasHadTodos"`
}

// Reduce は action を state に適用した新しい状態を返します。
// 入力の state は変更しません。
func Reduce(state State, action Action) State {
	switch a := action.(type) {
	case SetTodos:
		return State{
			Todos:       clone(a.Todos),
			HasHadTodos: len(a.Todos) > 0,
		}

	case AddTodo:
		checked := false
		if a.Checked != nil {
			checked = *a.Checked
		}
		todos := make([]models.TodoItem, 0, len(state.Todos)+1)
		todos = append(todos, state.Todos...)
		todos = append(todos, models.TodoItem{
			ID:      a.ID,
			OwnerID: a.OwnerID,
			Task:    a.Task,
			Checked: checked,
		})
		return State{Todos: todos, HasHadTodos: true}

	case RemoveTodo:
		state.Todos = filter(state.Todos, func(t models.TodoItem) bool { return t.ID != a.ID })
		return state

	case ClearCompletedTodos:
		state.Todos = filter(state.Todos, func(t models.TodoItem) bool { return !t.Checked })
		return state

	case ClearTodos:
		state.Todos = []models.TodoItem{}
		return state

	case SetTodoStatus:
		state.Todos = mapTodos(state.Todos, func(t models.TodoItem) models.TodoItem {
			if t.ID == a.ID {
				t.Checked = a.Checked
			}
			return t
		})
		return state

	case CompleteAllTodos:
		state.Todos = mapTodos(state.Todos, func(t models.TodoItem) models.TodoItem {
			t.Checked = true
			return t
		})
		return state

	case ToggleTodoStatus:
		state.Todos = mapTodos(state.Todos, func(t models.TodoItem) models.TodoItem {
			if t.ID == a.ID {
				t.Checked = !t.Checked
			}
			return t
		})
		return state

	default:
		// Action は閉じた型なので、ここに来るのは nil だけ
		slog.Error("invalid_todo_action", "type", fmt.Sprintf("%T", action))
		return state
	}
}

func clone(todos []models.TodoItem) []models.TodoItem {
	out := make([]models.TodoItem, len(todos))
	copy(out, todos)
	return out
}

func filter(todos []models.TodoItem, keep func(models.TodoItem) bool) []models.TodoItem {
	out := make([]models.TodoItem, 0, len(todos))
	for _, t := range todos {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

func mapTodos(todos []models.TodoItem, fn func(models.TodoItem) models.TodoItem) []models.TodoItem {
	out := make([]models.TodoItem, len(todos))
	for i, t := range todos {
		out[i] = fn(t)
	}
	return out
}
