package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"recipe-blog/pkg/apperror"
	"recipe-blog/pkg/logger"
	"recipe-blog/pkg/middleware"
	"recipe-blog/pkg/validation"
	"recipe-blog/services/recipe/internal/entity"
	"recipe-blog/services/recipe/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPostUseCase is a mock implementation of PostUseCase
type MockPostUseCase struct {
	mock.Mock
}

func (m *MockPostUseCase) CreatePost(ctx context.Context, userID string, input usecase.PostInput, image *usecase.ImageUpload) (*entity.Post, error) {
	args := m.Called(userID, input, image != nil)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) GetPost(ctx context.Context, postID, userID string) (*entity.PostDetail, error) {
	args := m.Called(postID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PostDetail), args.Error(1)
}

func (m *MockPostUseCase) UpdatePost(ctx context.Context, postID, userID string, input usecase.PostInput) (*entity.Post, error) {
	args := m.Called(postID, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) DeletePost(ctx context.Context, postID, userID string) error {
	args := m.Called(postID, userID)
	return args.Error(0)
}

func (m *MockPostUseCase) PublishPost(ctx context.Context, postID, userID string) (*entity.Post, error) {
	args := m.Called(postID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) ListPublished(ctx context.Context) ([]*entity.Post, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) ListDrafts(ctx context.Context, userID string) ([]*entity.Post, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) Search(ctx context.Context, query string) ([]*entity.Post, error) {
	args := m.Called(query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) SearchByIngredient(ctx context.Context, term string) ([]*entity.Post, error) {
	args := m.Called(term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) TopIngredients(ctx context.Context) ([]entity.IngredientUsage, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.IngredientUsage), args.Error(1)
}

type MockLedgerUseCase struct {
	mock.Mock
}

func (m *MockLedgerUseCase) Like(ctx context.Context, postID, userID string) (*entity.LikeSummary, error) {
	args := m.Called(postID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.LikeSummary), args.Error(1)
}

func (m *MockLedgerUseCase) Unlike(ctx context.Context, postID, userID string) (*entity.LikeSummary, error) {
	args := m.Called(postID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.LikeSummary), args.Error(1)
}

func (m *MockLedgerUseCase) Rate(ctx context.Context, postID, userID string, input usecase.RateInput) (*entity.RatingSummary, error) {
	args := m.Called(postID, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RatingSummary), args.Error(1)
}

type MockCommentUseCase struct {
	mock.Mock
}

func (m *MockCommentUseCase) AddComment(ctx context.Context, postID, userID string, input usecase.CommentInput) (*entity.Comment, error) {
	args := m.Called(postID, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Comment), args.Error(1)
}

func (m *MockCommentUseCase) VisibleComments(ctx context.Context, postID, userID string) ([]*entity.Comment, error) {
	args := m.Called(postID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Comment), args.Error(1)
}

var (
	_ usecase.PostUseCase    = (*MockPostUseCase)(nil)
	_ usecase.LedgerUseCase  = (*MockLedgerUseCase)(nil)
	_ usecase.CommentUseCase = (*MockCommentUseCase)(nil)
)

func testLogger() *logger.Logger {
	return logger.NewWithOptions(logger.Options{Level: "error", Output: io.Discard})
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// asUser marks the request as authenticated before the handler runs.
func asUser(userID string, handler gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		handler(c)
	}
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestCreatePost_Multipart(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, testLogger())

	router := setupTestRouter()
	router.POST("/posts", asUser("user-1", handler.CreatePost))

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	writer.WriteField("title", "Pancakes")
	writer.WriteField("difficulty", "E")
	writer.WriteField("ingredients", "flour, milk")
	writer.WriteField("ingredients", "egg")
	part, err := writer.CreateFormFile("image", "pancakes.jpg")
	require.NoError(t, err)
	part.Write([]byte("jpeg bytes"))
	require.NoError(t, writer.Close())

	expected := usecase.PostInput{Title: "Pancakes", Difficulty: "E", Ingredients: []string{"flour", "milk", "egg"}}
	mockUseCase.On("CreatePost", "user-1", expected, true).
		Return(&entity.Post{ID: "post-1", Title: "Pancakes"}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/posts", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "post-1", decode(t, w)["id"])
	mockUseCase.AssertExpectations(t)
}

func TestCreatePost_JSON(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, testLogger())

	router := setupTestRouter()
	router.POST("/posts", asUser("user-1", handler.CreatePost))

	expected := usecase.PostInput{Title: "Soup", Difficulty: "M", Ingredients: []string{"leek"}}
	mockUseCase.On("CreatePost", "user-1", expected, false).
		Return(&entity.Post{ID: "post-2", Title: "Soup"}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/posts", bytes.NewBufferString(`{"title":"Soup","difficulty":"M","ingredients":["leek"]}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockUseCase.AssertExpectations(t)
}

func TestCreatePost_ValidationError(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, testLogger())

	router := setupTestRouter()
	router.POST("/posts", asUser("user-1", handler.CreatePost))

	verr := &validation.Error{Fields: []validation.FieldError{{Field: "title", Tag: "required", Message: "title is required"}}}
	mockUseCase.On("CreatePost", "user-1", mock.Anything, false).Return(nil, verr)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/posts", bytes.NewBufferString(`{"difficulty":"E"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Contains(t, body["error"], "title is required")
	assert.Len(t, body["fields"], 1)
}

func TestGetPost_Success(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, testLogger())

	router := setupTestRouter()
	router.GET("/posts/:id", handler.GetPost)

	detail := &entity.PostDetail{
		Post:        entity.Post{ID: "post-1", Title: "Pie", Ingredients: []string{"apple"}},
		LikeCount:   3,
		RateAverage: 4.5,
		Comments:    []*entity.Comment{{ID: "c1", Author: "bob", Text: "yum", Approved: true}},
	}
	mockUseCase.On("GetPost", "post-1", "").Return(detail, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/posts/post-1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Pie", body["title"])
	assert.Equal(t, float64(3), body["like_count"])
	assert.Equal(t, 4.5, body["rate_average"])
	assert.Len(t, body["comments"], 1)
}

func TestGetPost_NotFound(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, testLogger())

	router := setupTestRouter()
	router.GET("/posts/:id", handler.GetPost)

	mockUseCase.On("GetPost", "missing", "").Return(nil, apperror.NotFound("post"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/posts/missing", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "post not found", decode(t, w)["error"])
}

func TestUpdatePost_Forbidden(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, testLogger())

	router := setupTestRouter()
	router.PUT("/posts/:id", asUser("intruder", handler.UpdatePost))

	input := usecase.PostInput{Title: "New Title", Difficulty: "E"}
	mockUseCase.On("UpdatePost", "post-1", "intruder", input).Return(nil, apperror.ErrForbidden)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/posts/post-1", bytes.NewBufferString(`{"title":"New Title","difficulty":"E"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockUseCase.AssertExpectations(t)
}

func TestUpdatePost_InvalidBody(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, testLogger())

	router := setupTestRouter()
	router.PUT("/posts/:id", asUser("user-1", handler.UpdatePost))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/posts/post-1", bytes.NewBufferString(`{"title":`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockUseCase.AssertNotCalled(t, "UpdatePost", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeletePost_Success(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, testLogger())

	router := setupTestRouter()
	router.DELETE("/posts/:id", asUser("user-1", handler.DeletePost))

	mockUseCase.On("DeletePost", "post-1", "user-1").Return(nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/posts/post-1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockUseCase.AssertExpectations(t)
}

func TestPublishPost(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, testLogger())

	router := setupTestRouter()
	router.POST("/posts/:id/publish", asUser("user-2", handler.PublishPost))

	mockUseCase.On("PublishPost", "post-1", "user-2").Return(&entity.Post{ID: "post-1", AuthorID: "user-2"}, nil)
	mockUseCase.On("PublishPost", "gone", "user-2").Return(nil, apperror.NotFound("post"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/posts/post-1/publish", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-2", decode(t, w)["author_id"])

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/posts/gone/publish", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListPosts_InternalErrorIsHidden(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, testLogger())

	router := setupTestRouter()
	router.GET("/posts", handler.ListPosts)

	mockUseCase.On("ListPublished").Return(nil, errors.New("connection refused"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/posts", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to fetch posts", decode(t, w)["error"])
}

func TestListDrafts(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, testLogger())

	router := setupTestRouter()
	router.GET("/posts/drafts", asUser("user-1", handler.ListDrafts))

	mockUseCase.On("ListDrafts", "user-1").Return([]*entity.Post{{ID: "d1"}}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/posts/drafts", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["count"])
}

func TestSearchPosts(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, testLogger())

	router := setupTestRouter()
	router.GET("/posts/search", handler.SearchPosts)

	mockUseCase.On("Search", "tomato soup").Return([]*entity.Post{{ID: "p1"}, {ID: "p2"}}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/posts/search?query=tomato+soup", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "tomato soup", body["query"])
	assert.Equal(t, float64(2), body["count"])
}

func TestTopIngredients(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, testLogger())

	router := setupTestRouter()
	router.GET("/ingredients/top", handler.TopIngredients)

	mockUseCase.On("TopIngredients").Return([]entity.IngredientUsage{{Name: "flour", Total: 3}}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/ingredients/top", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ingredients":[{"name":"flour","total":3}]}`, w.Body.String())
}

func TestPostsByIngredient(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, testLogger())

	router := setupTestRouter()
	router.GET("/ingredients/:name/posts", handler.PostsByIngredient)

	mockUseCase.On("SearchByIngredient", "flour").Return([]*entity.Post{}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/ingredients/flour/posts", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decode(t, w)["count"])
}

func TestLikePost_Duplicate(t *testing.T) {
	mockUseCase := new(MockLedgerUseCase)
	handler := NewLedgerHandler(mockUseCase, testLogger())

	router := setupTestRouter()
	router.POST("/posts/:id/like", asUser("user-123", handler.LikePost))

	mockUseCase.On("Like", "post-123", "user-123").
		Return(&entity.LikeSummary{PostID: "post-123", Liked: true, Created: false, LikeCount: 1}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/posts/post-123/like", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["liked"])
	assert.Equal(t, false, body["created"])
	mockUseCase.AssertExpectations(t)
}

func TestUnlikePost(t *testing.T) {
	mockUseCase := new(MockLedgerUseCase)
	handler := NewLedgerHandler(mockUseCase, testLogger())

	router := setupTestRouter()
	router.DELETE("/posts/:id/like", asUser("user-123", handler.UnlikePost))

	mockUseCase.On("Unlike", "post-123", "user-123").
		Return(&entity.LikeSummary{PostID: "post-123", LikeCount: 0}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/posts/post-123/like", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["liked"])
}

func TestRatePost(t *testing.T) {
	mockUseCase := new(MockLedgerUseCase)
	handler := NewLedgerHandler(mockUseCase, testLogger())

	router := setupTestRouter()
	router.POST("/posts/:id/rate", asUser("user-1", handler.RatePost))

	mockUseCase.On("Rate", "post-1", "user-1", usecase.RateInput{Point: 5}).
		Return(&entity.RatingSummary{PostID: "post-1", Point: 5, Average: 4}, nil)
	mockUseCase.On("Rate", "post-1", "user-1", usecase.RateInput{Point: 9}).
		Return(nil, apperror.Validation("point must be less than or equal to 5"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/posts/post-1/rate", bytes.NewBufferString(`{"point":5}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(4), decode(t, w)["average"])

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/posts/post-1/rate", bytes.NewBufferString(`{"point":9}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddComment(t *testing.T) {
	mockUseCase := new(MockCommentUseCase)
	handler := NewCommentHandler(mockUseCase, testLogger())

	router := setupTestRouter()
	router.POST("/posts/:id/comments", asUser("user-1", handler.AddComment))

	input := usecase.CommentInput{Author: "Bob", Text: "Lovely"}
	mockUseCase.On("AddComment", "post-1", "user-1", input).
		Return(&entity.Comment{ID: "c1", PostID: "post-1", Author: "Bob", Text: "Lovely"}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/posts/post-1/comments", bytes.NewBufferString(`{"author":"Bob","text":"Lovely"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Comment submitted for moderation", body["message"])
	comment := body["comment"].(map[string]interface{})
	assert.Equal(t, false, comment["approved"])
}

func TestListComments(t *testing.T) {
	mockUseCase := new(MockCommentUseCase)
	handler := NewCommentHandler(mockUseCase, testLogger())

	router := setupTestRouter()
	router.GET("/posts/:id/comments", handler.ListComments)

	mockUseCase.On("VisibleComments", "post-1", "").
		Return([]*entity.Comment{{ID: "c1", Approved: true}}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/posts/post-1/comments", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["count"])
}
