package repositories

import "taskmanager/internal/models"

// TaskRepository defines the interface for task data access.
type TaskRepository interface {
	Create(task *models.Task) error
	GetByID(id string) (*models.Task, error)
	ListByUser(userID string, filters models.TaskFilters) ([]models.Task, error)
	Update(task *models.Task) error
	Delete(id string) error
}
