package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"bookstore-catalog/internal/domains/category/model"
	"bookstore-catalog/internal/domains/category/service"
	"bookstore-catalog/internal/shared/bulk"
	"bookstore-catalog/internal/shared/pagination"
	"bookstore-catalog/internal/shared/response"
	"bookstore-catalog/internal/shared/utils"
	"bookstore-catalog/internal/shared/validation"
	"bookstore-catalog/pkg/logger"
)

type CategoryHandler struct {
	service service.ServiceInterface
}

func NewCategoryHandler(svc service.ServiceInterface) *CategoryHandler {
	return &CategoryHandler{service: svc}
}

// List - GET /v1/admin/categories?search=&status=&page=
func (h *CategoryHandler) List(c *gin.Context) {
	filter := model.CategoryFilter{
		Search: c.Query("search"),
		Status: c.Query("status"),
		Page:   pagination.ParsePage(c.Query("page")),
	}

	categories, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		logger.Error("List categories error", err)
		response.InternalServerError(c, "Failed to list categories")
		return
	}

	items := make([]*model.CategoryResponse, len(categories))
	for i := range categories {
		items[i] = categories[i].ToResponse()
	}

	meta := pagination.New(c.Request.URL.Path, filter.Page, total, url.Values{
		"search": {filter.Search},
		"status": {filter.Status},
	})
	response.SuccessWithMeta(c, http.StatusOK, items, meta)
}

// Active - GET /v1/admin/categories/active
func (h *CategoryHandler) Active(c *gin.Context) {
	options, err := h.service.ListActive(c.Request.Context())
	if err != nil {
		logger.Error("List active categories error", err)
		response.InternalServerError(c, "Failed to list categories")
		return
	}
	response.Success(c, http.StatusOK, options)
}

// Get - GET /v1/admin/categories/:id
func (h *CategoryHandler) Get(c *gin.Context) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		response.BadRequest(c, "Invalid category id")
		return
	}

	category, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err, nil)
		return
	}
	response.Success(c, http.StatusOK, category.ToResponse())
}

// Create - POST /v1/admin/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var in model.CategoryInput
	if err := c.ShouldBind(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	category, err := h.service.Create(c.Request.Context(), &in)
	if err != nil {
		h.handleError(c, err, in)
		return
	}
	response.SuccessWithMessage(c, http.StatusCreated, "Category created successfully.", category.ToResponse())
}

// Update - PUT /v1/admin/categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		response.BadRequest(c, "Invalid category id")
		return
	}

	var in model.CategoryInput
	if err := c.ShouldBind(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	category, err := h.service.Update(c.Request.Context(), id, &in)
	if err != nil {
		h.handleError(c, err, in)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Category updated successfully.", category.ToResponse())
}

// Delete - DELETE /v1/admin/categories/:id
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		response.BadRequest(c, "Invalid category id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err, nil)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Category deleted successfully.", nil)
}

// Bulk - POST /v1/admin/categories/bulk {action, ids}
func (h *CategoryHandler) Bulk(c *gin.Context) {
	var req bulk.Request
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	msg, err := h.service.BulkAction(c.Request.Context(), req.Action, req.IDs)
	if err != nil {
		h.handleError(c, err, req)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, msg, nil)
}

func (h *CategoryHandler) handleError(c *gin.Context, err error, input interface{}) {
	if fields, ok := validation.AsErrors(err); ok {
		response.ValidationError(c, fields, input)
		return
	}

	var saveErr *model.SaveError
	switch {
	case errors.Is(err, bulk.ErrUnknownAction):
		response.ValidationError(c, map[string]string{"action": "The selected action is invalid."}, input)
	case errors.Is(err, model.ErrCategoryNotFound):
		response.NotFound(c, "Category not found")
	case errors.As(err, &saveErr):
		status := http.StatusInternalServerError
		if errors.Is(err, model.ErrDuplicate) {
			status = http.StatusConflict
		}
		response.ErrorWithDetails(c, status, "SAVE_FAILED", saveErr.Error(), gin.H{"input": input})
	default:
		logger.Error("Category request failed", err)
		response.InternalServerError(c, "Internal server error")
	}
}
