package app

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"recipe-blog/pkg/config"
	"recipe-blog/pkg/database"
	"recipe-blog/pkg/jwt"
	"recipe-blog/pkg/logger"
	"recipe-blog/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	t      *testing.T
	router *gin.Engine
	tokens *jwt.Service
}

func newTestServer(t *testing.T) (*testServer, *App) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewMemoryDB(uuid.New().String(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	jwtService := jwt.NewService("test-secret")
	a := &App{
		cfg:        &config.Config{RateLimitPerMinute: 100},
		log:        logger.NewWithOptions(logger.Options{Level: "error", Output: io.Discard}),
		db:         db,
		jwtService: jwtService,
	}
	return &testServer{t: t, router: a.Router(), tokens: jwtService}, a
}

func (s *testServer) user(a *App, name string) string {
	u := &models.User{Email: name + "@example.com", Username: name, Password: "x"}
	require.NoError(s.t, a.db.Create(u).Error)
	token, err := s.tokens.GenerateToken(u.ID, string(models.RoleMember))
	require.NoError(s.t, err)
	return token
}

func (s *testServer) do(method, path, token, body string) (int, map[string]interface{}) {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req, _ := http.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var out map[string]interface{}
	if w.Body.Len() > 0 {
		json.Unmarshal(w.Body.Bytes(), &out)
	}
	return w.Code, out
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)

	code, body := s.do("GET", "/health", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestRecipeLifecycle(t *testing.T) {
	s, a := newTestServer(t)
	alice := s.user(a, "alice")
	bob := s.user(a, "bob")

	code, _ := s.do("POST", "/api/v1/posts", "", `{"title":"Bread","difficulty":"E"}`)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, post := s.do("POST", "/api/v1/posts", alice, `{"title":"Bread","difficulty":"E","ingredients":["Flour","water"]}`)
	require.Equal(t, http.StatusCreated, code)
	postID := post["id"].(string)
	path := "/api/v1/posts/" + postID

	// drafts stay private
	code, _ = s.do("GET", path, bob, "")
	assert.Equal(t, http.StatusNotFound, code)
	code, drafts := s.do("GET", "/api/v1/posts/drafts", alice, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), drafts["count"])
	code, list := s.do("GET", "/api/v1/posts", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(0), list["count"])

	code, _ = s.do("POST", path+"/publish", alice, "")
	require.Equal(t, http.StatusOK, code)

	code, list = s.do("GET", "/api/v1/posts", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), list["count"])

	code, like := s.do("POST", path+"/like", bob, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, like["created"])
	code, like = s.do("POST", path+"/like", bob, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, like["created"])
	assert.Equal(t, float64(1), like["like_count"])

	code, _ = s.do("POST", path+"/rate", bob, `{"point":3}`)
	assert.Equal(t, http.StatusOK, code)
	code, rating := s.do("POST", path+"/rate", bob, `{"point":5}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(5), rating["average"])
	code, _ = s.do("POST", path+"/rate", bob, `{"point":6}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do("POST", path+"/comments", bob, `{"author":"Bob","text":"Crusty!"}`)
	assert.Equal(t, http.StatusCreated, code)
	code, _ = s.do("POST", path+"/comments", bob, `{"author":"","text":"Crusty!"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, detail := s.do("GET", path, "", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), detail["like_count"])
	assert.Equal(t, float64(5), detail["rate_average"])
	assert.Empty(t, detail["comments"])

	code, found := s.do("GET", "/api/v1/posts/search?query=FLOUR", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), found["count"])

	code, top := s.do("GET", "/api/v1/ingredients/top", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, top["ingredients"], 2)

	code, _ = s.do("PUT", path, bob, `{"title":"Mine now","difficulty":"E"}`)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = s.do("DELETE", path, alice, "")
	assert.Equal(t, http.StatusOK, code)
	code, _ = s.do("GET", path, "", "")
	assert.Equal(t, http.StatusNotFound, code)
}
