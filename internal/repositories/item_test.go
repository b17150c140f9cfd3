package repositories_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-sync-todo/internal/models"
	"go-sync-todo/internal/repositories"
	"go-sync-todo/testutil"
)

func seedItems(t *testing.T, repo *repositories.ItemRepository, owner string, tasks ...string) []string {
	t.Helper()
	ids := make([]string, 0, len(tasks))
	for _, task := range tasks {
		id, err := repo.InsertItem(context.Background(), models.TodoItem{OwnerID: owner, Task: task})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func TestItemRepository_InsertAndFind(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewItemRepository(db)
	ctx := context.Background()

	ids := seedItems(t, repo, "alice", "milk", "eggs", "bread")
	seedItems(t, repo, "bob", "other")

	t.Run("insertion order", func(t *testing.T) {
		items, err := repo.FindItems(ctx, models.ItemFilter{OwnerID: models.Ptr("alice")}, 0)
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, ids[0], items[0].ID)
		assert.Equal(t, "milk", items[0].Task)
		assert.Equal(t, "bread", items[2].Task)
		assert.False(t, items[0].Checked)
	})

	t.Run("limit", func(t *testing.T) {
		items, err := repo.FindItems(ctx, models.ItemFilter{}, 2)
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("find one", func(t *testing.T) {
		item, err := repo.FindOneItem(ctx, models.ItemFilter{ID: &ids[1]})
		require.NoError(t, err)
		assert.Equal(t, "eggs", item.Task)
		assert.Equal(t, "alice", item.OwnerID)
	})

	t.Run("find one missing", func(t *testing.T) {
		_, err := repo.FindOneItem(ctx, models.ItemFilter{ID: models.Ptr("nope")})
		assert.ErrorIs(t, err, repositories.ErrItemNotFound)
	})

	t.Run("duplicate id", func(t *testing.T) {
		_, err := repo.InsertItem(ctx, models.TodoItem{ID: ids[0], OwnerID: "alice", Task: "x"})
		assert.ErrorIs(t, err, repositories.ErrDuplicateItem)
	})
}

func TestItemRepository_Delete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewItemRepository(db)
	ctx := context.Background()

	seedItems(t, repo, "alice", "a", "b", "c")
	seedItems(t, repo, "bob", "d")

	n, err := repo.DeleteItem(ctx, models.ItemFilter{OwnerID: models.Ptr("alice")})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	items, err := repo.FindItems(ctx, models.ItemFilter{OwnerID: models.Ptr("alice")}, 0)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "b", items[0].Task)

	n, err = repo.DeleteItem(ctx, models.ItemFilter{ID: models.Ptr("missing")})
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = repo.DeleteManyItems(ctx, models.ItemFilter{OwnerID: models.Ptr("alice")})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rest, err := repo.FindItems(ctx, models.ItemFilter{}, 0)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "bob", rest[0].OwnerID)
}

func TestItemRepository_Update(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewItemRepository(db)
	ctx := context.Background()

	ids := seedItems(t, repo, "alice", "a", "b", "c")

	t.Run("update one", func(t *testing.T) {
		item, err := repo.UpdateItem(ctx, models.ItemFilter{ID: &ids[1]}, models.ItemUpdate{Checked: models.Ptr(true)})
		require.NoError(t, err)
		assert.True(t, item.Checked)
		assert.Equal(t, "b", item.Task)

		stored, err := repo.FindOneItem(ctx, models.ItemFilter{ID: &ids[1]})
		require.NoError(t, err)
		assert.True(t, stored.Checked)
	})

	t.Run("update one missing", func(t *testing.T) {
		_, err := repo.UpdateItem(ctx, models.ItemFilter{ID: models.Ptr("nope")}, models.ItemUpdate{Checked: models.Ptr(true)})
		assert.ErrorIs(t, err, repositories.ErrItemNotFound)
	})

	t.Run("update many counts", func(t *testing.T) {
		matched, modified, err := repo.UpdateManyItemsCounted(ctx,
			models.ItemFilter{OwnerID: models.Ptr("alice")}, models.ItemUpdate{Checked: models.Ptr(true)})
		require.NoError(t, err)
		assert.Equal(t, 3, matched)
		assert.Equal(t, 2, modified)

		modifiedAgain, err := repo.UpdateManyItems(ctx,
			models.ItemFilter{OwnerID: models.Ptr("alice")}, models.ItemUpdate{Checked: models.Ptr(true)})
		require.NoError(t, err)
		assert.Equal(t, 0, modifiedAgain)
	})

	t.Run("filter by checked", func(t *testing.T) {
		items, err := repo.FindItems(ctx, models.ItemFilter{Checked: models.Ptr(true)}, 0)
		require.NoError(t, err)
		assert.Len(t, items, 3)
	})
}
