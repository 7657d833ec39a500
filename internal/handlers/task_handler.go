package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"taskmanager/internal/models"
	"taskmanager/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// TaskHandler handles HTTP requests for tasks.
type TaskHandler struct {
	service  *services.TaskService
	validate *validator.Validate
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(service *services.TaskService) *TaskHandler {
	return &TaskHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the task routes with the Fiber app. Every task
// route requires authentication.
func (h *TaskHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	taskRoutes := router.Group("/tasks", authRequired)
	taskRoutes.Get("/", h.HandleListTasks)
	taskRoutes.Get("/:id", h.HandleGetTask)
	taskRoutes.Post("/", h.HandleCreateTask)
	taskRoutes.Put("/:id", h.HandleUpdateTask)
	taskRoutes.Delete("/:id", h.HandleDeleteTask)
}

// CreateTaskRequest represents the request body for creating a task.
type CreateTaskRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	Status      string     `json:"status" validate:"omitempty,oneof=pending in-progress completed"`
	Priority    string     `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"dueDate"`
}

// UpdateTaskRequest represents the request body for a partial task update.
// Title, status and priority are ignored when empty. Description and dueDate
// overwrite whenever the key is present in the body, including an explicit
// empty or null value, because those two fields may be cleared.
type UpdateTaskRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      string     `json:"status" validate:"omitempty,oneof=pending in-progress completed"`
	Priority    string     `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"dueDate"`
}

// HandleListTasks returns the caller's tasks, optionally filtered by the
// status, priority and search query parameters.
func (h *TaskHandler) HandleListTasks(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	filters := models.TaskFilters{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Search:   c.Query("search"),
	}

	tasks, err := h.service.ListTasks(userID, filters)
	if err != nil {
		log.Printf("Error listing tasks for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Server error",
		})
	}
	return c.JSON(tasks)
}

// HandleGetTask returns a single task owned by the caller.
func (h *TaskHandler) HandleGetTask(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	taskID := c.Params("id")

	task, err := h.service.GetTask(userID, taskID)
	if err != nil {
		return taskErrorResponse(c, taskID, err)
	}
	return c.JSON(task)
}

// HandleCreateTask creates a new task owned by the caller.
func (h *TaskHandler) HandleCreateTask(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create task request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	task, err := h.service.CreateTask(userID, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		return taskErrorResponse(c, "", err)
	}

	return c.Status(fiber.StatusCreated).JSON(task)
}

// HandleUpdateTask applies a partial update to a task owned by the caller.
func (h *TaskHandler) HandleUpdateTask(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	taskID := c.Params("id")

	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update task request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	// Struct parsing alone can't tell an absent description or dueDate from
	// an explicit null, and both must clear the field when present. Check
	// key presence in the raw body.
	var raw map[string]json.RawMessage
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &raw); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid request body",
			})
		}
	}

	input := services.UpdateTaskInput{
		Title:    req.Title,
		Status:   req.Status,
		Priority: req.Priority,
	}
	if _, ok := raw["description"]; ok {
		description := ""
		if req.Description != nil {
			description = *req.Description
		}
		input.Description = &description
	}
	if _, ok := raw["dueDate"]; ok {
		input.DueDateSet = true
		input.DueDate = req.DueDate
	}

	task, err := h.service.UpdateTask(userID, taskID, input)
	if err != nil {
		return taskErrorResponse(c, taskID, err)
	}
	return c.JSON(task)
}

// HandleDeleteTask removes a task owned by the caller.
func (h *TaskHandler) HandleDeleteTask(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	taskID := c.Params("id")

	if err := h.service.DeleteTask(userID, taskID); err != nil {
		return taskErrorResponse(c, taskID, err)
	}
	return c.JSON(fiber.Map{
		"message": "Task removed",
	})
}

// taskErrorResponse maps task service errors to HTTP responses. Ownership
// mismatch is a 401 in this API's convention, not a 403.
func taskErrorResponse(c *fiber.Ctx, taskID string, err error) error {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Task not found",
		})
	case errors.Is(err, services.ErrNotTaskOwner):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Not authorized",
		})
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidPriority):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	default:
		log.Printf("Task handler error (task %s): %v", taskID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Server error",
		})
	}
}
