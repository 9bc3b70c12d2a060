package worksapi

import (
	"errors"
	"net/http"
	"strconv"

	"artist-portfolio/internal/api/respond"
	"artist-portfolio/internal/domain/works"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	store *works.Store
	log   *zap.Logger
}

func NewHandler(store *works.Store, log *zap.Logger) *Handler {
	return &Handler{store: store, log: log}
}

// GET /api/works?type=&featured=
func (h *Handler) List(c *gin.Context) {
	var f works.ListFilter

	if t := c.Query("type"); t != "" {
		if !works.ValidType(t) {
			respond.Error(c, http.StatusBadRequest, "Invalid type")
			return
		}
		f.Type = t
	}
	if raw := c.Query("featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "Invalid featured filter")
			return
		}
		f.Featured = &featured
	}

	list, err := h.store.List(c.Request.Context(), f)
	if err != nil {
		respond.Internal(c, h.log, "list works", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/works/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := respond.ParseID(c)
	if !ok {
		return
	}

	w, err := h.store.Get(c.Request.Context(), id)
	if errors.Is(err, works.ErrNotFound) {
		respond.Error(c, http.StatusNotFound, "Work not found")
		return
	}
	if err != nil {
		respond.Internal(c, h.log, "get work", err)
		return
	}
	c.JSON(http.StatusOK, w)
}

// POST /api/works
func (h *Handler) Create(c *gin.Context) {
	var req CreateWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}

	w := req.toWork()
	err := h.store.Create(c.Request.Context(), w)
	switch {
	case errors.Is(err, works.ErrEmptyTitle), errors.Is(err, works.ErrInvalidType):
		respond.Error(c, http.StatusBadRequest, "type and titre are required")
		return
	case err != nil:
		respond.Internal(c, h.log, "create work", err)
		return
	}
	c.JSON(http.StatusCreated, w)
}

// PUT /api/works/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := respond.ParseID(c)
	if !ok {
		return
	}

	var p works.Patch
	if err := c.ShouldBindJSON(&p); err != nil {
		respond.BindError(c, err)
		return
	}

	w, err := h.store.Update(c.Request.Context(), id, p)
	switch {
	case errors.Is(err, works.ErrEmptyTitle):
		respond.Error(c, http.StatusBadRequest, "titre cannot be empty")
		return
	case errors.Is(err, works.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "Work not found")
		return
	case err != nil:
		respond.Internal(c, h.log, "update work", err)
		return
	}
	c.JSON(http.StatusOK, w)
}

// DELETE /api/works/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := respond.ParseID(c)
	if !ok {
		return
	}

	err := h.store.Delete(c.Request.Context(), id)
	if errors.Is(err, works.ErrNotFound) {
		respond.Error(c, http.StatusNotFound, "Work not found")
		return
	}
	if err != nil {
		respond.Internal(c, h.log, "delete work", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Work deleted"})
}
