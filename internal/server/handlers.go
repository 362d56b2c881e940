package server

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/idilsaglam/todo/internal/coord"
	"github.com/idilsaglam/todo/internal/model"
)

// TodoHandler serves the shared list. Every handler goes through the guard.
type TodoHandler struct {
	guard  *coord.Guard
	logger *log.Logger
}

func NewTodoHandler(guard *coord.Guard, logger *log.Logger) *TodoHandler {
	return &TodoHandler{guard: guard, logger: logger}
}

type listParams struct {
	From uint `form:"from,default=0"`
	Size uint `form:"size,default=10"`
}

type addParams struct {
	Title *string `form:"title" binding:"required"`
	Body  *string `form:"body" binding:"required"`
}

type removeParams struct {
	Index *uint   `form:"index"`
	ID    *uint64 `form:"id"`
}

// List returns at most size entries starting at from.
func (h *TodoHandler) List(c *gin.Context) {
	var p listParams
	if err := c.ShouldBindQuery(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var page []model.Entry
	err := h.guard.View(func(l *model.TodoList) error {
		page = l.Page(p.From, p.Size)
		return nil
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Add appends an entry built from the title and body parameters.
func (h *TodoHandler) Add(c *gin.Context) {
	var p addParams
	if err := c.ShouldBindQuery(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := h.guard.Mutate(func(l *model.TodoList) error {
		l.AddEntry(model.Entry{Title: *p.Title, Body: *p.Body})
		return nil
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, "ok")
}

// Remove deletes by position (index) or by stable id (id).
func (h *TodoHandler) Remove(c *gin.Context) {
	var p removeParams
	if err := c.ShouldBindQuery(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if p.Index == nil && p.ID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index or id is required"})
		return
	}
	err := h.guard.Mutate(func(l *model.TodoList) error {
		if p.ID != nil {
			return l.RemoveByID(*p.ID)
		}
		return l.RemoveEntry(*p.Index)
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, "ok")
}

func (h *TodoHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, model.ErrNoSuchEntry) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No such entry found"})
		return
	}
	h.logger.Error("request failed", "path", c.Request.URL.Path, "err", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
