package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/existflow/ironfocus/internal/logger"
	"github.com/existflow/ironfocus/internal/store"
)

type createTaskRequest struct {
	Name string `json:"name"`
}

type updateTaskRequest struct {
	IsActive *bool `json:"is_active"`
}

// handleListTasks returns active tasks, or completed ones with active=false
func (s *Server) handleListTasks(c echo.Context) error {
	ctx := c.Request().Context()

	active := true
	if v := c.QueryParam("active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "active must be true or false"})
		}
		active = b
	}

	if active {
		tasks, err := s.store.ListActive(ctx)
		if err != nil {
			return storeError(c, err)
		}
		return c.JSON(http.StatusOK, tasks)
	}

	limit := store.CompletedLimit
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
		}
		limit = n
	}

	tasks, err := s.store.ListCompleted(ctx, limit)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, tasks)
}

// handleCreateTask inserts a new active task
func (s *Server) handleCreateTask(c echo.Context) error {
	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	task, err := s.store.CreateTask(c.Request().Context(), req.Name)
	if err != nil {
		return storeError(c, err)
	}

	logger.Info("Task created", logger.F("task_id", task.ID))
	return c.JSON(http.StatusCreated, task)
}

// handleGetTask resolves an id or unique id prefix
func (s *Server) handleGetTask(c echo.Context) error {
	task, err := s.store.FindTask(c.Request().Context(), c.Param("id"))
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, task)
}

// handleUpdateTask supports exactly one transition: is_active true -> false
func (s *Server) handleUpdateTask(c echo.Context) error {
	var req updateTaskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if req.IsActive == nil || *req.IsActive {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "only is_active=false is supported"})
	}

	id := c.Param("id")
	if err := s.store.CompleteTask(c.Request().Context(), id); err != nil {
		return storeError(c, err)
	}

	logger.Info("Task completed", logger.F("task_id", id))
	return c.NoContent(http.StatusNoContent)
}

// storeError maps store sentinels to status codes
func storeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, store.ErrEmptyName):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, store.ErrAlreadyCompleted), errors.Is(err, store.ErrAmbiguous):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		logger.Error("Store failure",
			logger.F("path", c.Path()),
			logger.F("error", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}
