package repository

import (
	"context"

	"gorm.io/gorm"

	"tasktrack/internal/model"
)

// TaskFilter narrows a task listing. Title and Description are
// case-insensitive substring matches, State is exact; all supplied
// filters are ANDed. Pagination applies after filtering.
type TaskFilter struct {
	Title       string
	Description string
	State       model.TaskState
	Offset      int
	Limit       int
}

// TaskRepository defines persistence operations for tasks. Every lookup is
// scoped to an owner; a task held by someone else is invisible.
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	FindByIDAndOwner(ctx context.Context, id, ownerID uint) (*model.Task, error)
	List(ctx context.Context, ownerID uint, filter TaskFilter) ([]model.Task, error)
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, task *model.Task) error
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository builds a GORM-backed repository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *taskRepository) FindByIDAndOwner(ctx context.Context, id, ownerID uint) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) List(ctx context.Context, ownerID uint, filter TaskFilter) ([]model.Task, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", ownerID)

	if filter.Title != "" {
		query = query.Where("LOWER(title) LIKE LOWER(?)", "%"+filter.Title+"%")
	}
	if filter.Description != "" {
		query = query.Where("LOWER(description) LIKE LOWER(?)", "%"+filter.Description+"%")
	}
	if filter.State != "" {
		query = query.Where("state = ?", filter.State)
	}

	var tasks []model.Task
	err := query.
		Order("id").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) Update(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

func (r *taskRepository) Delete(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Delete(task).Error
}
