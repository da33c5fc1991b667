package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authorModel "bookstore-catalog/internal/domains/author/model"
	"bookstore-catalog/internal/domains/book/model"
	"bookstore-catalog/internal/shared/bulk"
	"bookstore-catalog/internal/shared/validation"
)

type fakeService struct {
	CreateFn     func(ctx context.Context, req *model.CreateBookRequest) (*model.Book, error)
	UpdateFn     func(ctx context.Context, id int64, req *model.UpdateBookRequest) (*model.Book, error)
	GetFn        func(ctx context.Context, id int64) (*model.Book, error)
	ListFn       func(ctx context.Context, filter model.BookFilter) ([]model.Book, int, error)
	BulkActionFn func(ctx context.Context, action string, ids []int64) (string, error)
	ExportFn     func(ctx context.Context, filter model.BookFilter) ([]byte, error)
}

func (f *fakeService) Create(ctx context.Context, req *model.CreateBookRequest) (*model.Book, error) {
	return f.CreateFn(ctx, req)
}
func (f *fakeService) Update(ctx context.Context, id int64, req *model.UpdateBookRequest) (*model.Book, error) {
	return f.UpdateFn(ctx, id, req)
}
func (f *fakeService) Delete(context.Context, int64) error { return model.ErrBookNotFound }
func (f *fakeService) Get(ctx context.Context, id int64) (*model.Book, error) {
	return f.GetFn(ctx, id)
}
func (f *fakeService) List(ctx context.Context, filter model.BookFilter) ([]model.Book, int, error) {
	return f.ListFn(ctx, filter)
}
func (f *fakeService) BulkAction(ctx context.Context, action string, ids []int64) (string, error) {
	return f.BulkActionFn(ctx, action, ids)
}
func (f *fakeService) Export(ctx context.Context, filter model.BookFilter) ([]byte, error) {
	return f.ExportFn(ctx, filter)
}
func (f *fakeService) SuggestAuthors(context.Context, string) ([]authorModel.Suggestion, error) {
	return []authorModel.Suggestion{}, nil
}
func (f *fakeService) MediaURL(path string) string {
	if path == "" {
		return ""
	}
	return "http://media.test/" + path
}

func setupRouter(svc *fakeService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewBookHandler(svc)
	r.GET("/books", h.List)
	r.GET("/books/export", h.Export)
	r.GET("/books/author-suggestions", h.SuggestAuthors)
	r.POST("/books", h.Create)
	r.GET("/books/:id", h.Get)
	r.PUT("/books/:id", h.Update)
	r.POST("/books/:id", h.Update)
	r.DELETE("/books/:id", h.Delete)
	r.POST("/books/bulk", h.Bulk)
	return r
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details struct {
			Errors map[string]string      `json:"errors"`
			Input  map[string]interface{} `json:"input"`
		} `json:"details"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func sampleBook() *model.Book {
	cover := "books/covers/abc.png"
	return &model.Book{
		ID:                 7,
		Title:              "The Hobbit",
		Slug:               "the-hobbit",
		Price:              decimal.NewFromInt(100),
		DiscountPercentage: decimal.NewFromInt(25),
		AuthorID:           1,
		AuthorName:         "J.R.R. Tolkien",
		CategoryID:         2,
		IsActive:           true,
		CoverImage:         &cover,
	}
}

func TestList_PassesFiltersAndRendersCurrentPrice(t *testing.T) {
	svc := &fakeService{
		ListFn: func(_ context.Context, f model.BookFilter) ([]model.Book, int, error) {
			assert.Equal(t, "tolkien", f.Search)
			assert.Equal(t, "active", f.Status)
			assert.Equal(t, "yes", f.Featured)
			assert.Equal(t, 1, f.Page)
			return []model.Book{*sampleBook()}, 11, nil
		},
	}

	w := httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/books?search=tolkien&status=active&featured=yes", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []struct {
			CurrentPrice  string `json:"current_price"`
			CoverImageURL string `json:"cover_image_url"`
		} `json:"data"`
		Meta struct {
			LastPage int `json:"last_page"`
			Links    struct {
				Next string `json:"next"`
			} `json:"links"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "75", body.Data[0].CurrentPrice)
	assert.Equal(t, "http://media.test/books/covers/abc.png", body.Data[0].CoverImageURL)
	assert.Equal(t, 2, body.Meta.LastPage)
	assert.Contains(t, body.Meta.Links.Next, "featured=yes")
	assert.Contains(t, body.Meta.Links.Next, "search=tolkien")
	assert.Contains(t, body.Meta.Links.Next, "page=2")
}

func TestCreate_Multipart(t *testing.T) {
	var got *model.CreateBookRequest
	svc := &fakeService{
		CreateFn: func(_ context.Context, req *model.CreateBookRequest) (*model.Book, error) {
			got = req
			return sampleBook(), nil
		},
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", "The Hobbit"))
	require.NoError(t, mw.WriteField("price", "100"))
	require.NoError(t, mw.WriteField("new_author_name", "J.R.R. Tolkien"))
	fw, err := mw.CreateFormFile("cover_image", "hobbit.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("fake image bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/books", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Book created successfully.", decode(t, w).Message)
	require.NotNil(t, got)
	assert.Equal(t, "The Hobbit", got.Title)
	assert.Equal(t, "J.R.R. Tolkien", got.NewAuthorName)
	require.NotNil(t, got.CoverImage)
	assert.Equal(t, "hobbit.png", got.CoverImage.Filename)
	assert.Equal(t, []byte("fake image bytes"), got.CoverImage.Data)
	assert.Nil(t, got.PreviewPDF)
}

func TestCreate_ValidationEchoesInput(t *testing.T) {
	svc := &fakeService{
		CreateFn: func(context.Context, *model.CreateBookRequest) (*model.Book, error) {
			return nil, validation.Errors{"title": "has already been taken"}
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/books", strings.NewReader(`{"title":"Dune","price":"9.99"}`))
	req.Header.Set("Content-Type", "application/json")
	setupRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	env := decode(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Equal(t, "has already been taken", env.Error.Details.Errors["title"])
	assert.Equal(t, "Dune", env.Error.Details.Input["title"])
	assert.Equal(t, "9.99", env.Error.Details.Input["price"])
}

func TestCreate_AcceptsTypedJSON(t *testing.T) {
	svc := &fakeService{
		CreateFn: func(_ context.Context, req *model.CreateBookRequest) (*model.Book, error) {
			assert.Equal(t, "Dune", req.Title)
			assert.Equal(t, "15.00", req.Price)
			assert.Equal(t, "10", req.StockQuantity)
			assert.Equal(t, "1", req.AuthorID)
			assert.Equal(t, "2", req.CategoryID)
			assert.Equal(t, "true", req.IsFeatured)
			assert.Equal(t, "", req.ISBN)
			return sampleBook(), nil
		},
	}

	body := `{"title":"Dune","price":15.00,"stock_quantity":10,"author_id":1,"category_id":2,"is_featured":true,"isbn":null}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/books", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	setupRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreate_TypedJSONValidationEchoesRawValues(t *testing.T) {
	svc := &fakeService{
		CreateFn: func(context.Context, *model.CreateBookRequest) (*model.Book, error) {
			return nil, validation.Errors{"price": "must be no less than 0"}
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/books", strings.NewReader(`{"title":"Dune","price":-5}`))
	req.Header.Set("Content-Type", "application/json")
	setupRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	env := decode(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "-5", env.Error.Details.Input["price"])
}

func TestCreate_ObjectBodyRequired(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/books", strings.NewReader(`[1,2]`))
	req.Header.Set("Content-Type", "application/json")
	setupRouter(&fakeService{}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreate_SaveFailure(t *testing.T) {
	svc := &fakeService{
		CreateFn: func(context.Context, *model.CreateBookRequest) (*model.Book, error) {
			return nil, &model.SaveError{Action: "create", Err: errors.New("disk full")}
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/books", strings.NewReader(`{"title":"Dune"}`))
	req.Header.Set("Content-Type", "application/json")
	setupRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	env := decode(t, w)
	assert.Equal(t, "SAVE_FAILED", env.Error.Code)
	assert.Equal(t, "Failed to create book. disk full", env.Error.Message)
	assert.Equal(t, "Dune", env.Error.Details.Input["title"])
}

func TestCreate_DuplicateIsConflict(t *testing.T) {
	svc := &fakeService{
		CreateFn: func(context.Context, *model.CreateBookRequest) (*model.Book, error) {
			return nil, &model.SaveError{Action: "create", Err: model.ErrDuplicate}
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/books", strings.NewReader(`{"title":"Dune"}`))
	req.Header.Set("Content-Type", "application/json")
	setupRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUpdate_PostAlias(t *testing.T) {
	svc := &fakeService{
		UpdateFn: func(_ context.Context, id int64, req *model.UpdateBookRequest) (*model.Book, error) {
			assert.Equal(t, int64(7), id)
			assert.Equal(t, "1", req.RemoveCoverImage)
			return sampleBook(), nil
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/books/7", strings.NewReader("title=The+Hobbit&remove_cover_image=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	setupRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Book updated successfully.", decode(t, w).Message)
}

func TestGet_InvalidAndMissing(t *testing.T) {
	svc := &fakeService{
		GetFn: func(context.Context, int64) (*model.Book, error) { return nil, model.ErrBookNotFound },
	}
	r := setupRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/books/abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/books/5", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/books/5", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBulk_UnknownAction(t *testing.T) {
	svc := &fakeService{
		BulkActionFn: func(context.Context, string, []int64) (string, error) {
			return "", bulk.ErrUnknownAction
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/books/bulk", strings.NewReader(`{"action":"archive","ids":[1]}`))
	req.Header.Set("Content-Type", "application/json")
	setupRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "The selected action is invalid.", decode(t, w).Error.Details.Errors["action"])
}

func TestBulk_Success(t *testing.T) {
	svc := &fakeService{
		BulkActionFn: func(_ context.Context, action string, ids []int64) (string, error) {
			assert.Equal(t, "feature", action)
			assert.Equal(t, []int64{1, 2}, ids)
			return "Selected books featured.", nil
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/books/bulk", strings.NewReader(`{"action":"feature","ids":[1,2]}`))
	req.Header.Set("Content-Type", "application/json")
	setupRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Selected books featured.", decode(t, w).Message)
}

func TestExport_Attachment(t *testing.T) {
	svc := &fakeService{
		ExportFn: func(_ context.Context, f model.BookFilter) ([]byte, error) {
			assert.Equal(t, "inactive", f.Status)
			return []byte("xlsx"), nil
		},
	}

	w := httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/books/export?status=inactive", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `attachment; filename="books-`)
	assert.Equal(t, "xlsx", w.Body.String())
}

func TestSuggestAuthors_BareArray(t *testing.T) {
	w := httptest.NewRecorder()
	setupRouter(&fakeService{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/books/author-suggestions?query=t", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}
