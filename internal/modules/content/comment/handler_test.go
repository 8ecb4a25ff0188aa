package comment

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/inkpress/core/internal/middleware"
	"github.com/inkpress/core/internal/models"
	"github.com/inkpress/core/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.Use(middleware.OptionalAuth(db))
	NewHandler(NewService(db)).RegisterRoutes(&r.RouterGroup, middleware.RequireAuthenticated())
	return r
}

func do(r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", testutil.Bearer(token))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func listComments(t *testing.T, r http.Handler, token string) []commentResponse {
	t.Helper()
	w := do(r, http.MethodGet, "/posts/post/comments", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data []commentResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Data
}

func TestNonOwnerDeleteIsForbidden(t *testing.T) {
	db := testutil.NewDB(t)
	alice := testutil.CreateUser(t, db, "alice", models.RoleUser)
	bob := testutil.CreateUser(t, db, "bob", models.RoleUser)
	testutil.CreatePost(t, db, alice, "post")
	aliceToken, bobToken := testutil.Token(t, db, alice), testutil.Token(t, db, bob)
	r := newRouter(db)

	w := do(r, http.MethodPost, "/posts/post/comments", aliceToken, `{"content":"first!"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created commentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Alice", created.Author.Name)

	assert.Equal(t, http.StatusForbidden, do(r, http.MethodDelete, "/comments/"+created.ID, bobToken, "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodDelete, "/comments/"+created.ID, "", "").Code)

	comments := listComments(t, r, "")
	require.Len(t, comments, 1)
	assert.Equal(t, created.ID, comments[0].ID)

	assert.Equal(t, http.StatusOK, do(r, http.MethodDelete, "/comments/"+created.ID, aliceToken, "").Code)
	assert.Empty(t, listComments(t, r, ""))
}

func TestCommentEndpoints(t *testing.T) {
	db := testutil.NewDB(t)
	alice := testutil.CreateUser(t, db, "alice", models.RoleUser)
	testutil.CreatePost(t, db, alice, "post")
	token := testutil.Token(t, db, alice)
	r := newRouter(db)

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, "/posts/post/comments", "", `{"content":"x"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/posts/post/comments", token, `{"content":""}`).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPost, "/posts/nope/comments", token, `{"content":"x"}`).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/posts/nope/comments", "", "").Code)

	w := do(r, http.MethodPost, "/posts/post/comments", token, `{"content":"hello"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created commentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, "/comments/"+created.ID+"/like", "", "").Code)

	w = do(r, http.MethodPost, "/comments/"+created.ID+"/like", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"likes":1,"isLiked":true}`, w.Body.String())

	comments := listComments(t, r, token)
	require.Len(t, comments, 1)
	assert.True(t, comments[0].IsLiked)
	assert.Equal(t, 1, comments[0].Likes)
	assert.False(t, listComments(t, r, "")[0].IsLiked)
}
