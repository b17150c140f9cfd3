package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go-sync-todo/internal/models"
)

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "[░░░░] 0/0", ProgressBar(0, 0, 4))
	assert.Equal(t, "[██░░] 1/2", ProgressBar(1, 2, 4))
	assert.Equal(t, "[████] 3/3", ProgressBar(3, 3, 4))
}

func TestStats(t *testing.T) {
	d, p := Stats([]models.TodoItem{{Checked: true}, {}, {}})
	assert.Equal(t, 1, d)
	assert.Equal(t, 2, p)
}

func TestEmptyMessage(t *testing.T) {
	assert.Contains(t, EmptyMessage(true), "All done")
	assert.Contains(t, EmptyMessage(false), "Nothing to do yet")
}
