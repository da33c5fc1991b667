package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"bookstore-catalog/internal/domains/book/model"
	"bookstore-catalog/internal/domains/book/service"
	"bookstore-catalog/internal/infrastructure/storage"
	"bookstore-catalog/internal/shared/bulk"
	"bookstore-catalog/internal/shared/pagination"
	"bookstore-catalog/internal/shared/response"
	"bookstore-catalog/internal/shared/utils"
	"bookstore-catalog/internal/shared/validation"
	"bookstore-catalog/pkg/logger"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type BookHandler struct {
	service service.ServiceInterface
}

func NewBookHandler(svc service.ServiceInterface) *BookHandler {
	return &BookHandler{service: svc}
}

func filterFromQuery(c *gin.Context) model.BookFilter {
	return model.BookFilter{
		Search:   c.Query("search"),
		Status:   c.Query("status"),
		Featured: c.Query("featured"),
		Page:     pagination.ParsePage(c.Query("page")),
	}
}

// List - GET /v1/admin/books?search=&status=&featured=&page=
func (h *BookHandler) List(c *gin.Context) {
	filter := filterFromQuery(c)

	books, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		logger.Error("List books error", err)
		response.InternalServerError(c, "Failed to list books")
		return
	}

	items := make([]*model.BookResponse, len(books))
	for i := range books {
		items[i] = books[i].ToResponse(h.service.MediaURL)
	}

	meta := pagination.New(c.Request.URL.Path, filter.Page, total, url.Values{
		"search":   {filter.Search},
		"status":   {filter.Status},
		"featured": {filter.Featured},
	})
	response.SuccessWithMeta(c, http.StatusOK, items, meta)
}

// Export - GET /v1/admin/books/export?search=&status=&featured=
func (h *BookHandler) Export(c *gin.Context) {
	filter := filterFromQuery(c)

	data, err := h.service.Export(c.Request.Context(), filter)
	if err != nil {
		logger.Error("Export books error", err)
		response.InternalServerError(c, "Failed to export books")
		return
	}

	filename := fmt.Sprintf("books-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// Get - GET /v1/admin/books/:id
func (h *BookHandler) Get(c *gin.Context) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		response.BadRequest(c, "Invalid book id")
		return
	}

	book, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err, nil)
		return
	}
	response.Success(c, http.StatusOK, book.ToResponse(h.service.MediaURL))
}

// Create - POST /v1/admin/books (multipart or JSON)
func (h *BookHandler) Create(c *gin.Context) {
	var req model.CreateBookRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var err error
	if req.CoverImage, err = formUpload(c, "cover_image"); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if req.PreviewPDF, err = formUpload(c, "preview_pdf"); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	book, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err, req)
		return
	}
	response.SuccessWithMessage(c, http.StatusCreated, "Book created successfully.", book.ToResponse(h.service.MediaURL))
}

// Update - PUT|POST /v1/admin/books/:id
// POST is routed here as well for multipart form clients.
func (h *BookHandler) Update(c *gin.Context) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		response.BadRequest(c, "Invalid book id")
		return
	}

	var req model.UpdateBookRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if req.CoverImage, err = formUpload(c, "cover_image"); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if req.PreviewPDF, err = formUpload(c, "preview_pdf"); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	book, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleError(c, err, req)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Book updated successfully.", book.ToResponse(h.service.MediaURL))
}

// Delete - DELETE /v1/admin/books/:id
func (h *BookHandler) Delete(c *gin.Context) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		response.BadRequest(c, "Invalid book id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err, nil)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Book deleted successfully.", nil)
}

// Bulk - POST /v1/admin/books/bulk {action, ids}
func (h *BookHandler) Bulk(c *gin.Context) {
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

// SuggestAuthors - GET /v1/admin/books/author-suggestions?query=
// Same payload as the author autocomplete: a bare JSON array.
func (h *BookHandler) SuggestAuthors(c *gin.Context) {
	suggestions, err := h.service.SuggestAuthors(c.Request.Context(), c.Query("query"))
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

// formUpload reads an optional multipart file. Non-multipart requests and
// absent fields yield nil.
func formUpload(c *gin.Context, field string) (*storage.Upload, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return nil, nil
	}

	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("invalid %s upload: %w", field, err)
	}
	if fh.Size == 0 {
		return nil, nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", field, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", field, err)
	}

	return &storage.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func (h *BookHandler) handleError(c *gin.Context, err error, input interface{}) {
	if fields, ok := validation.AsErrors(err); ok {
		response.ValidationError(c, fields, input)
		return
	}

	var saveErr *model.SaveError
	switch {
	case errors.Is(err, bulk.ErrUnknownAction):
		response.ValidationError(c, map[string]string{"action": "The selected action is invalid."}, input)
	case errors.Is(err, model.ErrBookNotFound):
		response.NotFound(c, "Book not found")
	case errors.As(err, &saveErr):
		status := http.StatusInternalServerError
		if errors.Is(err, model.ErrDuplicate) {
			status = http.StatusConflict
		}
		response.ErrorWithDetails(c, status, "SAVE_FAILED", saveErr.Error(), gin.H{"input": input})
	default:
		logger.Error("Book request failed", err)
		response.InternalServerError(c, "Internal server error")
	}
}
