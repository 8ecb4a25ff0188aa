package post

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkpress/core/internal/authz"
	"github.com/inkpress/core/internal/middleware"
	"github.com/inkpress/core/internal/models"
	"github.com/inkpress/core/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()
	enforcer, err := authz.NewEnforcer()
	require.NoError(t, err)

	h := NewHandler(NewService(db))
	r := gin.New()
	r.Use(middleware.OptionalAuth(db))
	h.RegisterRoutes(&r.RouterGroup, middleware.RequireAuthenticated())
	h.RegisterAdminRoutes(r.Group("/admin", middleware.RequireAdmin(enforcer)))
	return r
}

func do(r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", testutil.Bearer(token))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestFavoriteStatusAnonymous(t *testing.T) {
	db := testutil.NewDB(t)
	admin := testutil.CreateUser(t, db, "admin", models.RoleAdmin)
	testutil.CreatePost(t, db, admin, "hello", func(p *models.PostModel) { p.Likes = 7 })
	r := newRouter(t, db)

	w := do(r, http.MethodGet, "/posts/hello/favorite", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"isFavorited":false,"likes":7}`, w.Body.String())

	w = do(r, http.MethodGet, "/posts/missing/favorite", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestToggleFavoriteRequiresUser(t *testing.T) {
	db := testutil.NewDB(t)
	admin := testutil.CreateUser(t, db, "admin", models.RoleAdmin)
	testutil.CreatePost(t, db, admin, "hello")
	r := newRouter(t, db)

	w := do(r, http.MethodPost, "/posts/hello/favorite", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodPost, "/posts/hello/favorite", "not-a-token", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTwoRapidTogglesRestoreState(t *testing.T) {
	db := testutil.NewDB(t)
	admin := testutil.CreateUser(t, db, "admin", models.RoleAdmin)
	alice := testutil.CreateUser(t, db, "alice", models.RoleUser)
	testutil.CreatePost(t, db, admin, "hello")
	token := testutil.Token(t, db, alice)
	r := newRouter(t, db)

	w := do(r, http.MethodPost, "/posts/hello/favorite", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"isFavorited":true,"likes":1}`, w.Body.String())

	w = do(r, http.MethodPost, "/posts/hello/favorite", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"isFavorited":false,"likes":0}`, w.Body.String())

	w = do(r, http.MethodGet, "/posts/hello/favorite", token, "")
	assert.JSONEq(t, `{"isFavorited":false,"likes":0}`, w.Body.String())
}

func TestPublicListHidesDrafts(t *testing.T) {
	db := testutil.NewDB(t)
	admin := testutil.CreateUser(t, db, "admin", models.RoleAdmin)
	testutil.CreatePost(t, db, admin, "live")
	testutil.CreatePost(t, db, admin, "draft", func(p *models.PostModel) { p.Published = false })
	r := newRouter(t, db)

	w := do(r, http.MethodGet, "/posts?limit=5", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[struct {
		Data       []postResponse `json:"data"`
		Pagination struct {
			Total int `json:"total"`
			Size  int `json:"size"`
		} `json:"pagination"`
	}](t, w)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "live", body.Data[0].Slug)
	assert.Empty(t, body.Data[0].Content)
	assert.Equal(t, 1, body.Pagination.Total)
	assert.Equal(t, 5, body.Pagination.Size)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/posts/draft", "", "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/posts/live", "", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/posts?from=yesterday", "", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/posts?sort=random", "", "").Code)
}

func TestPublicListInclusiveUpperBound(t *testing.T) {
	db := testutil.NewDB(t)
	admin := testutil.CreateUser(t, db, "admin", models.RoleAdmin)
	exact := time.Date(2024, time.May, 3, 9, 30, 0, 0, time.Local)
	stamp := func(at time.Time) func(*models.PostModel) {
		return func(p *models.PostModel) { p.CreatedAt = at }
	}
	testutil.CreatePost(t, db, admin, "late-night", stamp(time.Date(2024, time.May, 1, 23, 59, 0, 0, time.Local)))
	testutil.CreatePost(t, db, admin, "next-day", stamp(time.Date(2024, time.May, 2, 0, 0, 0, 0, time.Local)))
	testutil.CreatePost(t, db, admin, "exact", stamp(exact))
	testutil.CreatePost(t, db, admin, "one-second-later", stamp(exact.Add(time.Second)))
	r := newRouter(t, db)

	slugs := func(query string) []string {
		w := do(r, http.MethodGet, "/posts?"+query, "", "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		body := decode[struct {
			Data []postResponse `json:"data"`
		}](t, w)
		out := make([]string, len(body.Data))
		for i, p := range body.Data {
			out[i] = p.Slug
		}
		return out
	}

	assert.Equal(t, []string{"late-night"}, slugs("to=2024-05-01"))
	assert.Equal(t, []string{"next-day", "late-night"}, slugs("from=2024-05-01&to=2024-05-02"))
	assert.Equal(t, []string{"exact", "next-day", "late-night"},
		slugs("to="+url.QueryEscape(exact.Format(time.RFC3339))))
	assert.Equal(t, []string{"exact"},
		slugs("from="+url.QueryEscape(exact.UTC().Format(time.RFC3339))+"&to="+url.QueryEscape(exact.UTC().Format(time.RFC3339))))
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/posts?from=2024-05-02&to=2024-05-01", "", "").Code)
}

func TestAdminGate(t *testing.T) {
	db := testutil.NewDB(t)
	alice := testutil.CreateUser(t, db, "alice", models.RoleUser)
	r := newRouter(t, db)
	body := `{"title":"New","content":"text"}`

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, "/admin/posts", "", body).Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodPost, "/admin/posts", testutil.Token(t, db, alice), body).Code)

	var count int64
	db.Model(&models.PostModel{}).Count(&count)
	assert.Zero(t, count)
}

func TestAdminCreateAndSlugConflict(t *testing.T) {
	db := testutil.NewDB(t)
	admin := testutil.CreateUser(t, db, "admin", models.RoleAdmin)
	token := testutil.Token(t, db, admin)
	r := newRouter(t, db)

	w := do(r, http.MethodPost, "/admin/posts", token, `{"title":"First Post","content":"hello **there**","keywords":"go, web"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[postResponse](t, w)
	assert.Equal(t, "first-post", created.Slug)
	assert.Equal(t, "hello there", created.Excerpt)
	assert.Equal(t, []string{"go", "web"}, created.Keywords)
	require.NotNil(t, created.Author)
	assert.Equal(t, admin.ID, created.Author.ID)

	w = do(r, http.MethodPost, "/admin/posts", token, `{"title":"Second","content":"x"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	second := decode[postResponse](t, w)

	w = do(r, http.MethodPut, "/admin/posts/"+second.ID, token, `{"slug":"first-post"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodGet, "/admin/posts/"+second.ID, token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "second", decode[postResponse](t, w).Slug)

	w = do(r, http.MethodPost, "/admin/posts", token, `{"title":"","content":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/admin/posts", token, `{"title":"x","content":"x","meta_title":"`+strings.Repeat("m", 61)+`"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, http.StatusOK, do(r, http.MethodDelete, "/admin/posts/"+second.ID, token, "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, "/admin/posts/"+second.ID, token, "").Code)
}

func TestAdminListIncludesDrafts(t *testing.T) {
	db := testutil.NewDB(t)
	admin := testutil.CreateUser(t, db, "admin", models.RoleAdmin)
	testutil.CreatePost(t, db, admin, "live")
	testutil.CreatePost(t, db, admin, "draft", func(p *models.PostModel) { p.Published = false })
	token := testutil.Token(t, db, admin)
	r := newRouter(t, db)

	all := decode[struct {
		Data []postResponse `json:"data"`
	}](t, do(r, http.MethodGet, "/admin/posts", token, ""))
	assert.Len(t, all.Data, 2)

	drafts := decode[struct {
		Data []postResponse `json:"data"`
	}](t, do(r, http.MethodGet, "/admin/posts?published=false", token, ""))
	require.Len(t, drafts.Data, 1)
	assert.Equal(t, "draft", drafts.Data[0].Slug)
}
