package todolist_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-sync-todo/internal/models"
	"go-sync-todo/internal/todolist"
)

func item(id, task string, checked bool) models.TodoItem {
	return models.TodoItem{ID: id, OwnerID: "u", Task: task, Checked: checked}
}

func ids(s todolist.State) []string {
	out := make([]string, 0, len(s.Todos))
	for _, t := range s.Todos {
		out = append(out, t.ID)
	}
	return out
}

func TestReduce_SetTodos(t *testing.T) {
	start := todolist.State{Todos: []models.TodoItem{}, HasHadTodos: false}

	next := todolist.Reduce(start, todolist.SetTodos{Todos: []models.TodoItem{
		{ID: "1", Task: "a", Checked: false, OwnerID: "u"},
	}})

	require.Len(t, next.Todos, 1)
	assert.Equal(t, models.TodoItem{ID: "1", Task: "a", Checked: false, OwnerID: "u"}, next.Todos[0])
	assert.True(t, next.HasHadTodos)

	// 空の読み込みは hasHadTodos を false で置き換える
	empty := todolist.Reduce(next, todolist.SetTodos{})
	assert.Empty(t, empty.Todos)
	assert.NotNil(t, empty.Todos)
	assert.False(t, empty.HasHadTodos)
}

func TestReduce_AddTodo(t *testing.T) {
	start := todolist.State{Todos: []models.TodoItem{item("1", "a", true)}}

	next := todolist.Reduce(start, todolist.AddTodo{ID: "42", Task: "buy milk", OwnerID: "u1"})

	require.Len(t, next.Todos, 2)
	assert.Equal(t, models.TodoItem{ID: "42", Task: "buy milk", OwnerID: "u1", Checked: false}, next.Todos[1])
	assert.True(t, next.HasHadTodos)
	assert.Len(t, start.Todos, 1, "input state must not be modified")

	checked := todolist.Reduce(next, todolist.AddTodo{ID: "43", Task: "done", Checked: models.Ptr(true)})
	assert.True(t, checked.Todos[2].Checked)
}

func TestReduce_RemoveTodo(t *testing.T) {
	start := todolist.State{Todos: []models.TodoItem{item("1", "a", false), item("2", "b", false)}, HasHadTodos: true}

	t.Run("removes the matching id", func(t *testing.T) {
		next := todolist.Reduce(start, todolist.RemoveTodo{ID: "1"})
		assert.Equal(t, []string{"2"}, ids(next))
		assert.True(t, next.HasHadTodos)
	})

	t.Run("missing id is a no-op", func(t *testing.T) {
		next := todolist.Reduce(start, todolist.RemoveTodo{ID: "X"})
		assert.Equal(t, start.Todos, next.Todos)
		assert.Equal(t, start.HasHadTodos, next.HasHadTodos)
	})
}

func TestReduce_ClearCompletedTodos(t *testing.T) {
	start := todolist.State{Todos: []models.TodoItem{item("1", "a", true), item("2", "b", false)}, HasHadTodos: true}

	once := todolist.Reduce(start, todolist.ClearCompletedTodos{})
	assert.Equal(t, []string{"2"}, ids(once))

	twice := todolist.Reduce(once, todolist.ClearCompletedTodos{})
	assert.Equal(t, once, twice)
}

func TestReduce_ClearTodos(t *testing.T) {
	start := todolist.State{Todos: []models.TodoItem{item("1", "a", true), item("2", "b", false)}, HasHadTodos: true}

	next := todolist.Reduce(start, todolist.ClearTodos{})
	assert.Empty(t, next.Todos)
	assert.True(t, next.HasHadTodos, "clearing never resets hasHadTodos")
}

func TestReduce_SetTodoStatus(t *testing.T) {
	start := todolist.State{Todos: []models.TodoItem{item("1", "a", false), item("2", "b", false)}}

	next := todolist.Reduce(start, todolist.SetTodoStatus{ID: "2", Checked: true})
	assert.False(t, next.Todos[0].Checked)
	assert.True(t, next.Todos[1].Checked)
	assert.False(t, start.Todos[1].Checked, "input state must not be modified")
}

func TestReduce_CompleteAllTodos(t *testing.T) {
	start := todolist.State{Todos: []models.TodoItem{item("1", "a", false)}, HasHadTodos: true}

	next := todolist.Reduce(start, todolist.CompleteAllTodos{})
	require.Len(t, next.Todos, 1)
	assert.True(t, next.Todos[0].Checked)
}

func TestReduce_ToggleTodoStatusIsItsOwnInverse(t *testing.T) {
	start := todolist.State{Todos: []models.TodoItem{item("1", "a", false), item("2", "b", true)}}

	once := todolist.Reduce(start, todolist.ToggleTodoStatus{ID: "1"})
	assert.True(t, once.Todos[0].Checked)
	assert.True(t, once.Todos[1].Checked)

	twice := todolist.Reduce(once, todolist.ToggleTodoStatus{ID: "1"})
	assert.Equal(t, start.Todos, twice.Todos)
}

func TestReduce_NilActionLeavesStateUnchanged(t *testing.T) {
	start := todolist.State{Todos: []models.TodoItem{item("1", "a", false)}, HasHadTodos: true}

	next := todolist.Reduce(start, nil)
	assert.Equal(t, start, next)
}

func TestReduce_HasHadTodosNeverResetByOtherActions(t *testing.T) {
	state := todolist.Reduce(todolist.State{}, todolist.AddTodo{ID: "1", Task: "a"})
	require.True(t, state.HasHadTodos)

	actions := []todolist.Action{
		todolist.ToggleTodoStatus{ID: "1"},
		todolist.ClearCompletedTodos{},
		todolist.SetTodoStatus{ID: "1", Checked: false},
		todolist.CompleteAllTodos{},
		todolist.RemoveTodo{ID: "1"},
		todolist.ClearTodos{},
	}
	for _, a := range actions {
		state = todolist.Reduce(state, a)
		assert.True(t, state.HasHadTodos, "after %T", a)
	}
}

func TestReduce_KeepsIDsUnique(t *testing.T) {
	state := todolist.Reduce(todolist.State{}, todolist.SetTodos{Todos: []models.TodoItem{item("1", "a", false), item("2", "b", true)}})
	actions := []todolist.Action{
		todolist.AddTodo{ID: "3", Task: "c"},
		todolist.ToggleTodoStatus{ID: "2"},
		todolist.RemoveTodo{ID: "1"},
		todolist.CompleteAllTodos{},
		todolist.AddTodo{ID: "4", Task: "d"},
		todolist.ClearCompletedTodos{},
		todolist.AddTodo{ID: "5", Task: "e"},
	}
	for _, a := range actions {
		state = todolist.Reduce(state, a)
		seen := map[string]bool{}
		for _, id := range ids(state) {
			require.False(t, seen[id], "duplicate id %s after %T", id, a)
			seen[id] = true
		}
	}
	assert.Equal(t, []string{"4", "5"}, ids(state))
}
