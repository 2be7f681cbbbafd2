package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"tasktrack/internal/model"
	"tasktrack/internal/repository"
	"tasktrack/internal/service"
)

// TaskHandler bundles the owner-scoped task endpoints.
type TaskHandler struct {
	svc service.TaskService
}

// NewTaskHandler creates a handler layer.
func NewTaskHandler(svc service.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// TaskRequest creates a task. State is validated at this boundary; the
// storage layer accepts whatever it is handed.
type TaskRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	State       string `json:"state" validate:"required,oneof=draft doing done trash"`
}

// TaskUpdateRequest is a partial update; absent fields keep their value.
type TaskUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1"`
	Description *string `json:"description"`
	State       *string `json:"state" validate:"omitempty,oneof=draft doing done trash"`
}

// TaskFilterQuery narrows and pages a task listing.
type TaskFilterQuery struct {
	Title       string `query:"title"`
	Description string `query:"description"`
	State       string `query:"state" validate:"omitempty,oneof=draft doing done trash"`
	Offset      int    `query:"offset" validate:"gte=0"`
	Limit       int    `query:"limit" validate:"gte=0"`
}

// CreateTask godoc
// @Summary Create a task for the current user
// @Tags todos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param todo body TaskRequest true "Task"
// @Success 201 {object} model.Task
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /todos [post]
func (h *TaskHandler) CreateTask(c echo.Context) error {
	owner, err := currentUser(c)
	if err != nil {
		return err
	}

	var req TaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.svc.Create(c.Request().Context(), owner, req.Title, req.Description, model.TaskState(req.State))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, task)
}

// ListTasks godoc
// @Summary List the current user's tasks
// @Tags todos
// @Produce json
// @Security BearerAuth
// @Param title query string false "Title substring, case-insensitive"
// @Param description query string false "Description substring, case-insensitive"
// @Param state query string false "Exact state" Enums(draft, doing, done, trash)
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Limit" default(100)
// @Success 200 {object} TaskList
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /todos [get]
func (h *TaskHandler) ListTasks(c echo.Context) error {
	owner, err := currentUser(c)
	if err != nil {
		return err
	}

	var q TaskFilterQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	if err := c.Validate(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tasks, err := h.svc.List(c.Request().Context(), owner, repository.TaskFilter{
		Title:       q.Title,
		Description: q.Description,
		State:       model.TaskState(q.State),
		Offset:      q.Offset,
		Limit:       q.Limit,
	})
	if err != nil {
		return domainError(c, err)
	}

	if tasks == nil {
		tasks = []model.Task{}
	}
	return c.JSON(http.StatusOK, TaskList{Todos: tasks})
}

// PatchTask godoc
// @Summary Partially update one of the current user's tasks
// @Tags todos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Param todo body TaskUpdateRequest true "Fields to change"
// @Success 200 {object} model.Task
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /todos/{id} [patch]
func (h *TaskHandler) PatchTask(c echo.Context) error {
	owner, err := currentUser(c)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req TaskUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	update := service.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.State != nil {
		state := model.TaskState(*req.State)
		update.State = &state
	}

	task, err := h.svc.Patch(c.Request().Context(), uint(id), owner, update)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, task)
}

// DeleteTask godoc
// @Summary Delete one of the current user's tasks
// @Tags todos
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /todos/{id} [delete]
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	owner, err := currentUser(c)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := h.svc.Delete(c.Request().Context(), uint(id), owner); err != nil {
		return domainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
