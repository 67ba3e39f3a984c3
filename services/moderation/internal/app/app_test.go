package app

import (
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
	"gorm.io/gorm"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewMemoryDB(uuid.New().String(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	return &App{
		cfg:        &config.Config{},
		log:        logger.NewWithOptions(logger.Options{Level: "error", Output: io.Discard}),
		db:         db,
		jwtService: jwt.NewService("test-secret"),
	}
}

func token(t *testing.T, a *App, db *gorm.DB, name string, role models.UserRole) string {
	t.Helper()
	u := &models.User{Email: name + "@example.com", Username: name, Password: "x", Role: role}
	require.NoError(t, db.Create(u).Error)
	tok, err := a.jwtService.GenerateToken(u.ID, string(role))
	require.NoError(t, err)
	return tok
}

func do(r *gin.Engine, method, path, token string) (int, map[string]interface{}) {
	req, _ := http.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &out)
	return w.Code, out
}

func TestModerationRoutesRequireModerator(t *testing.T) {
	a := newTestApp(t)
	r := a.Router()
	member := token(t, a, a.db, "member", models.RoleMember)

	code, _ := do(r, http.MethodGet, "/api/v1/moderation/comments/pending", "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = do(r, http.MethodGet, "/api/v1/moderation/comments/pending", member)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestModerationFlow(t *testing.T) {
	a := newTestApp(t)
	r := a.Router()
	mod := token(t, a, a.db, "mod", models.RoleModerator)

	var author models.User
	require.NoError(t, a.db.Where("username = ?", "mod").First(&author).Error)
	post := &models.Post{AuthorID: author.ID, Title: "Pancakes", Difficulty: models.DifficultyEasy}
	require.NoError(t, a.db.Create(post).Error)
	keep := &models.Comment{PostID: post.ID, Author: "ann", Text: "Great"}
	spam := &models.Comment{PostID: post.ID, Author: "bot", Text: "Buy now"}
	require.NoError(t, a.db.Create(keep).Error)
	require.NoError(t, a.db.Create(spam).Error)

	code, body := do(r, http.MethodGet, "/api/v1/moderation/comments/pending", mod)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(2), body["count"])

	code, body = do(r, http.MethodPost, "/api/v1/moderation/comments/"+keep.ID+"/approve", mod)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["approved"])
	assert.Equal(t, "Pancakes", body["post_title"])

	code, body = do(r, http.MethodDelete, "/api/v1/moderation/comments/"+spam.ID, mod)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, post.ID, body["post_id"])

	code, body = do(r, http.MethodGet, "/api/v1/moderation/stats", mod)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(0), body["pending_comments"])
	assert.Equal(t, float64(-1), body["queued_events"])

	var remaining int64
	require.NoError(t, a.db.Model(&models.Comment{}).Count(&remaining).Error)
	assert.Equal(t, int64(1), remaining)
}

func TestModerationMalformedCommentID(t *testing.T) {
	a := newTestApp(t)
	r := a.Router()
	mod := token(t, a, a.db, "mod", models.RoleModerator)

	code, body := do(r, http.MethodPost, "/api/v1/moderation/comments/not-a-uuid/approve", mod)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "comment not found", body["error"])

	code, _ = do(r, http.MethodDelete, "/api/v1/moderation/comments/not-a-uuid", mod)
	assert.Equal(t, http.StatusNotFound, code)
}
