package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	errs "tasktrack/internal/errors"
	"tasktrack/internal/model"
	"tasktrack/internal/repository"
)

// TaskUpdate is a partial update: only non-nil fields are applied.
type TaskUpdate struct {
	Title       *string
	Description *string
	State       *model.TaskState
}

// TaskService exposes owner-scoped task operations. A task belonging to a
// different owner is reported exactly like a nonexistent one.
type TaskService interface {
	Create(ctx context.Context, owner *model.User, title, description string, state model.TaskState) (*model.Task, error)
	List(ctx context.Context, owner *model.User, filter repository.TaskFilter) ([]model.Task, error)
	Patch(ctx context.Context, id uint, owner *model.User, update TaskUpdate) (*model.Task, error)
	Delete(ctx context.Context, id uint, owner *model.User) error
}

type taskService struct {
	tasks repository.TaskRepository
}

// NewTaskService builds a TaskService.
func NewTaskService(tasks repository.TaskRepository) TaskService {
	return &taskService{tasks: tasks}
}

// Create persists a new task for the owner.
func (s *taskService) Create(ctx context.Context, owner *model.User, title, description string, state model.TaskState) (*model.Task, error) {
	task := &model.Task{
		UserID:      owner.ID,
		Title:       title,
		Description: description,
		State:       state,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

// List returns the owner's tasks matching the filter, in insertion order.
func (s *taskService) List(ctx context.Context, owner *model.User, filter repository.TaskFilter) ([]model.Task, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.tasks.List(ctx, owner.ID, filter)
}

// Patch overwrites only the fields present in update, leaving the rest as
// they were, and refreshes the update timestamp.
func (s *taskService) Patch(ctx context.Context, id uint, owner *model.User, update TaskUpdate) (*model.Task, error) {
	task, err := s.findOwned(ctx, id, owner)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		task.Title = *update.Title
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.State != nil {
		task.State = *update.State
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

// Delete removes the owner's task. Deleting an id that is gone, or that
// belongs to someone else, is the same not-found outcome.
func (s *taskService) Delete(ctx context.Context, id uint, owner *model.User) error {
	task, err := s.findOwned(ctx, id, owner)
	if err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, task); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

func (s *taskService) findOwned(ctx context.Context, id uint, owner *model.User) (*model.Task, error) {
	task, err := s.tasks.FindByIDAndOwner(ctx, id, owner.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return task, nil
}
