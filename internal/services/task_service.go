package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"taskmanager/internal/models"
	"taskmanager/internal/repositories"
)

// Valid values for the task enums. Status is freely settable in any
// direction; there is no transition order.
var (
	validStatuses   = map[string]bool{"pending": true, "in-progress": true, "completed": true}
	validPriorities = map[string]bool{"low": true, "medium": true, "high": true}
)

// CreateTaskInput carries the fields for creating a task. Status and
// Priority default to "pending" and "medium" when empty.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     *time.Time
}

// UpdateTaskInput carries a partial update. Title, Status and Priority are
// applied only when non-empty; an empty title is silently ignored, never
// cleared. Description and DueDate use presence semantics instead, because
// both may be legitimately cleared: a nil Description pointer (resp.
// DueDateSet=false) means "not provided", while a pointer to the empty
// string (resp. DueDateSet=true with a nil DueDate) clears the field.
type UpdateTaskInput struct {
	Title       string
	Status      string
	Priority    string
	Description *string
	DueDate     *time.Time
	DueDateSet  bool
}

// TaskService handles business logic for ownership-scoped task CRUD.
type TaskService struct {
	taskRepo  repositories.TaskRepository
	publisher EventPublisher
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repositories.TaskRepository, publisher EventPublisher) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		publisher: publisher,
	}
}

// ListTasks returns all tasks owned by userID matching the filters,
// newest-created first. An empty result is an empty slice, not an error.
func (s *TaskService) ListTasks(userID string, filters models.TaskFilters) ([]models.Task, error) {
	return s.taskRepo.ListByUser(userID, filters)
}

// GetTask returns a single task. Existence is checked before ownership, so
// a missing task yields ErrTaskNotFound and someone else's task yields
// ErrNotTaskOwner.
func (s *TaskService) GetTask(userID, taskID string) (*models.Task, error) {
	task, err := s.taskRepo.GetByID(taskID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	if task.UserID != userID {
		return nil, ErrNotTaskOwner
	}
	return task, nil
}

// CreateTask creates a task owned by the authenticated caller. The owner is
// forced to userID regardless of input.
func (s *TaskService) CreateTask(userID string, input CreateTaskInput) (*models.Task, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}
	status := input.Status
	if status == "" {
		status = "pending"
	}
	if !validStatuses[status] {
		return nil, ErrInvalidStatus
	}
	priority := input.Priority
	if priority == "" {
		priority = "medium"
	}
	if !validPriorities[priority] {
		return nil, ErrInvalidPriority
	}

	task := &models.Task{
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
		Priority:    priority,
		DueDate:     input.DueDate,
	}
	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.publishEvent("task.created", task)
	return task, nil
}

// UpdateTask applies a partial update to a task after the same existence and
// ownership checks as GetTask. An update with no fields provided is a
// successful no-op.
func (s *TaskService) UpdateTask(userID, taskID string, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.GetTask(userID, taskID)
	if err != nil {
		return nil, err
	}

	if input.Status != "" && !validStatuses[input.Status] {
		return nil, ErrInvalidStatus
	}
	if input.Priority != "" && !validPriorities[input.Priority] {
		return nil, ErrInvalidPriority
	}

	if input.Title != "" {
		task.Title = input.Title
	}
	if input.Status != "" {
		task.Status = input.Status
	}
	if input.Priority != "" {
		task.Priority = input.Priority
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.DueDateSet {
		task.DueDate = input.DueDate
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task %s: %w", taskID, err)
	}

	s.publishEvent("task.updated", task)
	return task, nil
}

// DeleteTask removes a task after the same existence and ownership checks
// as GetTask.
func (s *TaskService) DeleteTask(userID, taskID string) error {
	task, err := s.GetTask(userID, taskID)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(task.ID); err != nil {
		return fmt.Errorf("failed to delete task %s: %w", taskID, err)
	}

	s.publishEvent("task.deleted", task)
	return nil
}

func (s *TaskService) publishEvent(routingKey string, task *models.Task) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(map[string]interface{}{
		"taskID": task.ID,
		"userID": task.UserID,
		"status": task.Status,
		"time":   time.Now().Format(time.RFC3339),
	})
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", routingKey, err)
		return
	}
	if err := s.publisher.Publish("tasks", routingKey, body); err != nil {
		log.Printf("Warning: failed to publish %s event for task %s: %v", routingKey, task.ID, err)
	}
}
