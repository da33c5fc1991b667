package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstore-catalog/internal/domains/author/model"
	"bookstore-catalog/internal/shared/validation"
)

type fakeService struct {
	SuggestFn func(ctx context.Context, query string) ([]model.Suggestion, error)
	CreateFn  func(ctx context.Context, in *model.AuthorInput) (*model.Author, error)
	GetFn     func(ctx context.Context, id int64) (*model.Author, error)
}

func (f *fakeService) Create(ctx context.Context, in *model.AuthorInput) (*model.Author, error) {
	return f.CreateFn(ctx, in)
}
func (f *fakeService) Update(context.Context, int64, *model.AuthorInput) (*model.Author, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeService) Get(ctx context.Context, id int64) (*model.Author, error) {
	return f.GetFn(ctx, id)
}
func (f *fakeService) List(context.Context, model.AuthorFilter) ([]model.Author, int, error) {
	return nil, 0, nil
}
func (f *fakeService) Delete(context.Context, int64) error { return nil }
func (f *fakeService) Suggest(ctx context.Context, query string) ([]model.Suggestion, error) {
	return f.SuggestFn(ctx, query)
}
func (f *fakeService) InvalidateSuggestions(context.Context) {}

func setupRouter(svc *fakeService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAuthorHandler(svc)
	r.GET("/authors/suggest", h.Suggest)
	r.GET("/authors/:id", h.Get)
	r.POST("/authors", h.Create)
	return r
}

func TestSuggest_ReturnsArray(t *testing.T) {
	svc := &fakeService{
		SuggestFn: func(_ context.Context, q string) ([]model.Suggestion, error) {
			assert.Equal(t, "tolk", q)
			return []model.Suggestion{{ID: 1, Name: "J.R.R. Tolkien"}}, nil
		},
	}

	w := httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/authors/suggest?query=tolk", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":1,"name":"J.R.R. Tolkien"}]`, w.Body.String())
}

func TestSuggest_EmptyIsArrayNotNull(t *testing.T) {
	svc := &fakeService{
		SuggestFn: func(context.Context, string) ([]model.Suggestion, error) {
			return []model.Suggestion{}, nil
		},
	}

	w := httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/authors/suggest?query=t", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestSuggest_Failure(t *testing.T) {
	svc := &fakeService{
		SuggestFn: func(context.Context, string) ([]model.Suggestion, error) {
			return nil, errors.New("db down")
		},
	}

	w := httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/authors/suggest?query=tolk", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Failed to fetch author suggestions", body["error"])
	assert.Equal(t, "db down", body["message"])
}

func TestGet_NotFoundAndBadID(t *testing.T) {
	svc := &fakeService{
		GetFn: func(context.Context, int64) (*model.Author, error) { return nil, model.ErrAuthorNotFound },
	}
	r := setupRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/authors/5", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/authors/abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreate_ValidationEchoesInput(t *testing.T) {
	svc := &fakeService{
		CreateFn: func(context.Context, *model.AuthorInput) (*model.Author, error) {
			return nil, validation.Errors{"name": "is required"}
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/authors", strings.NewReader(`{"name":"","email":"a@b.c"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Details struct {
				Errors map[string]string `json:"errors"`
				Input  map[string]string `json:"input"`
			} `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Equal(t, "is required", body.Error.Details.Errors["name"])
	assert.Equal(t, "a@b.c", body.Error.Details.Input["email"])
}

func TestCreate_SaveFailure(t *testing.T) {
	svc := &fakeService{
		CreateFn: func(context.Context, *model.AuthorInput) (*model.Author, error) {
			return nil, &model.SaveError{Action: "create", Err: errors.New("deadlock")}
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/authors", strings.NewReader(`{"name":"X"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to create author. deadlock")
}
