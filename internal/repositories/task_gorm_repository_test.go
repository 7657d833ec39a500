package repositories_test

import (
	"fmt"
	"testing"
	"time"

	"taskmanager/internal/models"
	"taskmanager/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTaskRepo(t *testing.T) *repositories.GORMTaskRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Task{}))
	return repositories.NewGORMTaskRepository(db)
}

func TestGORMTaskRepository_ListByUser(t *testing.T) {
	repo := setupTaskRepo(t)

	seed := []models.Task{
		{UserID: "user-1", Title: "Pay rent", Description: "Before the 1st", Status: "pending", Priority: "high"},
		{UserID: "user-1", Title: "Groceries", Description: "Milk and BREAD", Status: "completed", Priority: "low"},
		{UserID: "user-1", Title: "Call plumber", Description: "", Status: "pending", Priority: "medium"},
		{UserID: "user-2", Title: "Pay rent", Description: "Someone else's rent", Status: "pending", Priority: "high"},
	}
	for i := range seed {
		require.NoError(t, repo.Create(&seed[i]))
		time.Sleep(5 * time.Millisecond) // distinct created_at for ordering
	}

	// No filters: everything owned by user-1, newest first.
	tasks, err := repo.ListByUser("user-1", models.TaskFilters{})
	assert.NoError(t, err)
	assert.Len(t, tasks, 3)
	assert.Equal(t, "Call plumber", tasks[0].Title)
	assert.Equal(t, "Groceries", tasks[1].Title)
	assert.Equal(t, "Pay rent", tasks[2].Title)

	// Never another user's tasks, whatever the filters.
	for _, task := range tasks {
		assert.Equal(t, "user-1", task.UserID)
	}

	// Exact-match status filter.
	tasks, err = repo.ListByUser("user-1", models.TaskFilters{Status: "pending"})
	assert.NoError(t, err)
	assert.Len(t, tasks, 2)

	// Filters are ANDed together.
	tasks, err = repo.ListByUser("user-1", models.TaskFilters{Status: "pending", Priority: "high"})
	assert.NoError(t, err)
	assert.Len(t, tasks, 1)
	assert.Equal(t, "Pay rent", tasks[0].Title)

	// Case-insensitive substring search across title and description.
	tasks, err = repo.ListByUser("user-1", models.TaskFilters{Search: "bread"})
	assert.NoError(t, err)
	assert.Len(t, tasks, 1)
	assert.Equal(t, "Groceries", tasks[0].Title)

	tasks, err = repo.ListByUser("user-1", models.TaskFilters{Search: "PLUMB"})
	assert.NoError(t, err)
	assert.Len(t, tasks, 1)
	assert.Equal(t, "Call plumber", tasks[0].Title)

	// Empty result is an empty slice, not nil.
	tasks, err = repo.ListByUser("user-1", models.TaskFilters{Search: "no such thing"})
	assert.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestGORMTaskRepository_CRUD(t *testing.T) {
	repo := setupTaskRepo(t)

	due := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	task := &models.Task{
		UserID:      "user-1",
		Title:       "Round trip",
		Description: "Created then fetched",
		Status:      "in-progress",
		Priority:    "high",
		DueDate:     &due,
	}
	require.NoError(t, repo.Create(task))
	assert.NotEmpty(t, task.ID)

	got, err := repo.GetByID(task.ID)
	assert.NoError(t, err)
	assert.Equal(t, task.Title, got.Title)
	assert.Equal(t, task.Description, got.Description)
	assert.Equal(t, task.Status, got.Status)
	assert.Equal(t, task.Priority, got.Priority)
	require.NotNil(t, got.DueDate)
	assert.True(t, got.DueDate.Equal(due))

	got.Description = ""
	got.DueDate = nil
	assert.NoError(t, repo.Update(got))

	cleared, err := repo.GetByID(task.ID)
	assert.NoError(t, err)
	assert.Equal(t, "", cleared.Description)
	assert.Nil(t, cleared.DueDate)

	assert.NoError(t, repo.Delete(task.ID))
	_, err = repo.GetByID(task.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(task.ID), repositories.ErrNotFound)
}
