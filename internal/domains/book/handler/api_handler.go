package handler

import (
	"context"
	"errors"
	"net/http"

	"bookmanager/internal/domains/book/model"
	"bookmanager/internal/domains/book/repository"
	"bookmanager/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// APIHandler exposes a Repository as the JSON books API the UI talks to.
type APIHandler struct {
	repo repository.Repository
}

func NewAPIHandler(repo repository.Repository) *APIHandler {
	return &APIHandler{repo: repo}
}

func (h *APIHandler) RegisterRoutes(r gin.IRouter) {
	books := r.Group("/books")
	{
		books.GET("", h.ListBooks)
		books.POST("", h.CreateBook)
		books.GET("/:id", h.GetBook)
		books.PUT("/:id", h.UpdateBook)
		books.DELETE("/:id", h.DeleteBook)
	}
}

// ListBooks - GET /books
func (h *APIHandler) ListBooks(c *gin.Context) {
	books, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, books)
}

// GetBook - GET /books/:id
func (h *APIHandler) GetBook(c *gin.Context) {
	book, err := h.repo.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

// CreateBook - POST /books
func (h *APIHandler) CreateBook(c *gin.Context) {
	in, ok := h.bindInput(c)
	if !ok {
		return
	}

	book, err := h.repo.Create(c.Request.Context(), in)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, book)
}

// UpdateBook - PUT /books/:id
func (h *APIHandler) UpdateBook(c *gin.Context) {
	in, ok := h.bindInput(c)
	if !ok {
		return
	}

	book, err := h.repo.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

// DeleteBook - DELETE /books/:id
func (h *APIHandler) DeleteBook(c *gin.Context) {
	if err := h.repo.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *APIHandler) bindInput(c *gin.Context) (model.BookInput, bool) {
	var in model.BookInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Invalid request body")
		return in, false
	}
	in.Normalize()

	if err := in.Validate(); err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			response.ErrorWithDetails(c, http.StatusBadRequest, model.CodeFor(err), model.MessageFor(err), verr.Fields)
			return in, false
		}
		response.BadRequest(c, err.Error())
		return in, false
	}
	return in, true
}

func (h *APIHandler) handleError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	if errors.Is(err, context.DeadlineExceeded) {
		log.Ctx(ctx).Warn().Err(err).Msg("book store request timed out")
		response.GatewayTimeout(c, "The request timed out")
		return
	}

	status := model.StatusFor(err)
	if status >= http.StatusInternalServerError {
		log.Ctx(ctx).Error().Err(err).Msg("book store request failed")
	}
	response.ErrorResponse(c, status, model.CodeFor(err), model.MessageFor(err))
}
