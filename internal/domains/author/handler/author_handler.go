package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"bookstore-catalog/internal/domains/author/model"
	"bookstore-catalog/internal/domains/author/service"
	"bookstore-catalog/internal/shared/pagination"
	"bookstore-catalog/internal/shared/response"
	"bookstore-catalog/internal/shared/utils"
	"bookstore-catalog/internal/shared/validation"
	"bookstore-catalog/pkg/logger"
)

type AuthorHandler struct {
	service service.ServiceInterface
}

func NewAuthorHandler(svc service.ServiceInterface) *AuthorHandler {
	return &AuthorHandler{service: svc}
}

// Suggest - GET /v1/admin/authors/suggest?query=
// Answers a bare JSON array for autocomplete widgets.
func (h *AuthorHandler) Suggest(c *gin.Context) {
	suggestions, err := h.service.Suggest(c.Request.Context(), c.Query("query"))
	if err != nil {
		logger.Error("Author suggestion error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to fetch author suggestions",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, suggestions)
}

// List - GET /v1/admin/authors?search=&page=
func (h *AuthorHandler) List(c *gin.Context) {
	filter := model.AuthorFilter{
		Search: c.Query("search"),
		Page:   pagination.ParsePage(c.Query("page")),
	}

	authors, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		logger.Error("List authors error", err)
		response.InternalServerError(c, "Failed to list authors")
		return
	}

	items := make([]*model.AuthorResponse, len(authors))
	for i := range authors {
		items[i] = authors[i].ToResponse()
	}

	meta := pagination.New(c.Request.URL.Path, filter.Page, total, url.Values{"search": {filter.Search}})
	response.SuccessWithMeta(c, http.StatusOK, items, meta)
}

// Get - GET /v1/admin/authors/:id
func (h *AuthorHandler) Get(c *gin.Context) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		response.BadRequest(c, "Invalid author id")
		return
	}

	author, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err, nil)
		return
	}
	response.Success(c, http.StatusOK, author.ToResponse())
}

// Create - POST /v1/admin/authors
func (h *AuthorHandler) Create(c *gin.Context) {
	var in model.AuthorInput
	if err := c.ShouldBind(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	author, err := h.service.Create(c.Request.Context(), &in)
	if err != nil {
		h.handleError(c, err, in)
		return
	}
	response.SuccessWithMessage(c, http.StatusCreated, "Author created successfully.", author.ToResponse())
}

// Update - PUT /v1/admin/authors/:id
func (h *AuthorHandler) Update(c *gin.Context) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		response.BadRequest(c, "Invalid author id")
		return
	}

	var in model.AuthorInput
	if err := c.ShouldBind(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	author, err := h.service.Update(c.Request.Context(), id, &in)
	if err != nil {
		h.handleError(c, err, in)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Author updated successfully.", author.ToResponse())
}

// Delete - DELETE /v1/admin/authors/:id
func (h *AuthorHandler) Delete(c *gin.Context) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		response.BadRequest(c, "Invalid author id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err, nil)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Author deleted successfully.", nil)
}

func (h *AuthorHandler) handleError(c *gin.Context, err error, input interface{}) {
	if fields, ok := validation.AsErrors(err); ok {
		response.ValidationError(c, fields, input)
		return
	}

	var saveErr *model.SaveError
	switch {
	case errors.Is(err, model.ErrAuthorNotFound):
		response.NotFound(c, "Author not found")
	case errors.As(err, &saveErr):
		status := http.StatusInternalServerError
		if errors.Is(err, model.ErrDuplicate) {
			status = http.StatusConflict
		}
		response.ErrorWithDetails(c, status, "SAVE_FAILED", saveErr.Error(), gin.H{"input": input})
	default:
		logger.Error("Author request failed", err)
		response.InternalServerError(c, "Internal server error")
	}
}
