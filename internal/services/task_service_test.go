package services_test

import (
	"testing"
	"time"

	"taskmanager/internal/models"
	"taskmanager/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestTaskService_ListTasks(t *testing.T) {
	mockTasks := new(MockTaskRepository)
	taskService := services.NewTaskService(mockTasks, nil)

	expected := []models.Task{
		{ID: "t2", UserID: "user-1", Title: "Newer"},
		{ID: "t1", UserID: "user-1", Title: "Older"},
	}
	filters := models.TaskFilters{Status: "pending"}
	mockTasks.On("ListByUser", "user-1", filters).Return(expected, nil).Once()

	tasks, err := taskService.ListTasks("user-1", filters)
	assert.NoError(t, err)
	assert.Equal(t, expected, tasks)
	mockTasks.AssertExpectations(t)
}

func TestTaskService_GetTask(t *testing.T) {
	mockTasks := new(MockTaskRepository)
	taskService := services.NewTaskService(mockTasks, nil)

	task := &models.Task{ID: "t1", UserID: "user-1", Title: "Mine"}

	// Owner fetches their own task.
	mockTasks.On("GetByID", "t1").Return(task, nil).Once()
	got, err := taskService.GetTask("user-1", "t1")
	assert.NoError(t, err)
	assert.Equal(t, task, got)

	// Missing task.
	mockTasks.On("GetByID", "missing").Return(nil, notFoundErr("task")).Once()
	_, err = taskService.GetTask("user-1", "missing")
	assert.ErrorIs(t, err, services.ErrTaskNotFound)

	// Someone else's task: existence is checked first, then ownership.
	mockTasks.On("GetByID", "t1").Return(task, nil).Once()
	_, err = taskService.GetTask("user-2", "t1")
	assert.ErrorIs(t, err, services.ErrNotTaskOwner)

	mockTasks.AssertExpectations(t)
}

func TestTaskService_CreateTask(t *testing.T) {
	mockTasks := new(MockTaskRepository)
	taskService := services.NewTaskService(mockTasks, nil)

	mockTasks.On("Create", mock.AnythingOfType("*models.Task")).Run(func(args mock.Arguments) {
		args.Get(0).(*models.Task).ID = "t1"
	}).Return(nil).Once()

	task, err := taskService.CreateTask("user-1", services.CreateTaskInput{Title: "Buy milk"})
	assert.NoError(t, err)
	assert.Equal(t, "user-1", task.UserID)
	assert.Equal(t, "Buy milk", task.Title)
	// Defaults apply when status and priority are omitted.
	assert.Equal(t, "pending", task.Status)
	assert.Equal(t, "medium", task.Priority)
	assert.Nil(t, task.DueDate)
	mockTasks.AssertExpectations(t)
}

func TestTaskService_CreateTask_Validation(t *testing.T) {
	mockTasks := new(MockTaskRepository)
	taskService := services.NewTaskService(mockTasks, nil)

	_, err := taskService.CreateTask("user-1", services.CreateTaskInput{})
	assert.ErrorIs(t, err, services.ErrTitleRequired)

	_, err = taskService.CreateTask("user-1", services.CreateTaskInput{Title: "T", Status: "done"})
	assert.ErrorIs(t, err, services.ErrInvalidStatus)

	_, err = taskService.CreateTask("user-1", services.CreateTaskInput{Title: "T", Priority: "urgent"})
	assert.ErrorIs(t, err, services.ErrInvalidPriority)

	mockTasks.AssertNotCalled(t, "Create")
}

func TestTaskService_CreateTask_PublishesEvent(t *testing.T) {
	mockTasks := new(MockTaskRepository)
	mockMQ := new(MockEventPublisher)
	taskService := services.NewTaskService(mockTasks, mockMQ)

	mockTasks.On("Create", mock.AnythingOfType("*models.Task")).Return(nil).Once()
	mockMQ.On("Publish", "tasks", "task.created", mock.Anything).Return(nil).Once()

	_, err := taskService.CreateTask("user-1", services.CreateTaskInput{Title: "Buy milk"})
	assert.NoError(t, err)
	mockMQ.AssertExpectations(t)
}

func existingTask() *models.Task {
	due := time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)
	return &models.Task{
		ID:          "t1",
		UserID:      "user-1",
		Title:       "Original title",
		Description: "Original description",
		Status:      "pending",
		Priority:    "medium",
		DueDate:     &due,
	}
}

func TestTaskService_UpdateTask_PartialSemantics(t *testing.T) {
	mockTasks := new(MockTaskRepository)
	taskService := services.NewTaskService(mockTasks, nil)

	// An empty title is silently ignored, never cleared; an explicitly
	// provided empty description does clear the field.
	mockTasks.On("GetByID", "t1").Return(existingTask(), nil).Once()
	mockTasks.On("Update", mock.AnythingOfType("*models.Task")).Return(nil).Once()

	empty := ""
	task, err := taskService.UpdateTask("user-1", "t1", services.UpdateTaskInput{
		Title:       "",
		Description: &empty,
	})
	assert.NoError(t, err)
	assert.Equal(t, "Original title", task.Title)
	assert.Equal(t, "", task.Description)

	// Provided non-empty values overwrite.
	mockTasks.On("GetByID", "t1").Return(existingTask(), nil).Once()
	mockTasks.On("Update", mock.AnythingOfType("*models.Task")).Return(nil).Once()

	task, err = taskService.UpdateTask("user-1", "t1", services.UpdateTaskInput{
		Title:    "New title",
		Status:   "completed",
		Priority: "high",
	})
	assert.NoError(t, err)
	assert.Equal(t, "New title", task.Title)
	assert.Equal(t, "completed", task.Status)
	assert.Equal(t, "high", task.Priority)
	assert.Equal(t, "Original description", task.Description)

	// A due date provided as explicit null clears it; absent leaves it.
	mockTasks.On("GetByID", "t1").Return(existingTask(), nil).Once()
	mockTasks.On("Update", mock.AnythingOfType("*models.Task")).Return(nil).Once()

	task, err = taskService.UpdateTask("user-1", "t1", services.UpdateTaskInput{
		DueDateSet: true,
		DueDate:    nil,
	})
	assert.NoError(t, err)
	assert.Nil(t, task.DueDate)

	// No fields at all is a successful no-op.
	mockTasks.On("GetByID", "t1").Return(existingTask(), nil).Once()
	mockTasks.On("Update", mock.AnythingOfType("*models.Task")).Return(nil).Once()

	task, err = taskService.UpdateTask("user-1", "t1", services.UpdateTaskInput{})
	assert.NoError(t, err)
	assert.Equal(t, existingTask().Title, task.Title)
	assert.Equal(t, existingTask().Description, task.Description)
	assert.Equal(t, existingTask().Status, task.Status)

	mockTasks.AssertExpectations(t)
}

func TestTaskService_UpdateTask_Checks(t *testing.T) {
	mockTasks := new(MockTaskRepository)
	taskService := services.NewTaskService(mockTasks, nil)

	// Invalid enum values are rejected before anything is written.
	mockTasks.On("GetByID", "t1").Return(existingTask(), nil).Twice()
	_, err := taskService.UpdateTask("user-1", "t1", services.UpdateTaskInput{Status: "done"})
	assert.ErrorIs(t, err, services.ErrInvalidStatus)
	_, err = taskService.UpdateTask("user-1", "t1", services.UpdateTaskInput{Priority: "urgent"})
	assert.ErrorIs(t, err, services.ErrInvalidPriority)

	// Ownership and existence mirror GetTask.
	mockTasks.On("GetByID", "t1").Return(existingTask(), nil).Once()
	_, err = taskService.UpdateTask("user-2", "t1", services.UpdateTaskInput{Title: "Hijack"})
	assert.ErrorIs(t, err, services.ErrNotTaskOwner)

	mockTasks.On("GetByID", "missing").Return(nil, notFoundErr("task")).Once()
	_, err = taskService.UpdateTask("user-1", "missing", services.UpdateTaskInput{})
	assert.ErrorIs(t, err, services.ErrTaskNotFound)

	mockTasks.AssertNotCalled(t, "Update")
	mockTasks.AssertExpectations(t)
}

func TestTaskService_DeleteTask(t *testing.T) {
	mockTasks := new(MockTaskRepository)
	taskService := services.NewTaskService(mockTasks, nil)

	mockTasks.On("GetByID", "t1").Return(existingTask(), nil).Once()
	mockTasks.On("Delete", "t1").Return(nil).Once()
	assert.NoError(t, taskService.DeleteTask("user-1", "t1"))

	mockTasks.On("GetByID", "t1").Return(existingTask(), nil).Once()
	err := taskService.DeleteTask("user-2", "t1")
	assert.ErrorIs(t, err, services.ErrNotTaskOwner)

	mockTasks.On("GetByID", "missing").Return(nil, notFoundErr("task")).Once()
	err = taskService.DeleteTask("user-1", "missing")
	assert.ErrorIs(t, err, services.ErrTaskNotFound)

	mockTasks.AssertExpectations(t)
}
