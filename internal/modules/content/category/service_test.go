package category

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/inkpress/core/internal/pkg/apperr"
	"github.com/inkpress/core/internal/pkg/slug"
	"github.com/inkpress/core/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestCreateDerivesSlug(t *testing.T) {
	svc := NewService(testutil.NewDB(t))

	cat, err := svc.Create(context.Background(), &CreateCategoryDTO{Name: "Green Energy!"})
	require.NoError(t, err)
	assert.Equal(t, "green-energy", cat.Slug)
	assert.Equal(t, "Green Energy!", cat.Name)
}

func TestSlugDerivationIsIdempotent(t *testing.T) {
	for _, name := range []string{"Green Energy!", "  Hello -- World  ", "a_b_c", "Ünïcode Names"} {
		once := slug.Make(name)
		assert.Equal(t, once, slug.Make(once), name)
	}
}

func TestCreateConflicts(t *testing.T) {
	svc := NewService(testutil.NewDB(t))
	ctx := context.Background()

	_, err := svc.Create(ctx, &CreateCategoryDTO{Name: "Tech"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, &CreateCategoryDTO{Name: "Tech"})
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	// Different name, same derived slug.
	_, err = svc.Create(ctx, &CreateCategoryDTO{Name: "TECH!"})
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	_, err = svc.Create(ctx, &CreateCategoryDTO{Name: "???"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestUpdateAndDelete(t *testing.T) {
	svc := NewService(testutil.NewDB(t))
	ctx := context.Background()

	tech, err := svc.Create(ctx, &CreateCategoryDTO{Name: "Tech"})
	require.NoError(t, err)
	life, err := svc.Create(ctx, &CreateCategoryDTO{Name: "Life"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, life.ID, &UpdateCategoryDTO{Name: ptr("tech")})
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	updated, err := svc.Update(ctx, tech.ID, &UpdateCategoryDTO{Name: ptr("Tech News"), Description: ptr("all about tech")})
	require.NoError(t, err)
	assert.Equal(t, "tech-news", updated.Slug)

	got, err := svc.GetBySlug(ctx, "tech-news")
	require.NoError(t, err)
	assert.Equal(t, "all about tech", got.Description)

	_, err = svc.Update(ctx, "missing", &UpdateCategoryDTO{Name: ptr("x")})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	require.NoError(t, svc.Delete(ctx, tech.ID))
	assert.True(t, apperr.Is(svc.Delete(ctx, tech.ID), apperr.KindNotFound))
}

func TestHandlerCreate(t *testing.T) {
	r := gin.New()
	NewHandler(NewService(testutil.NewDB(t))).RegisterAdminRoutes(r.Group("/admin"))

	post := func(body string) int {
		req := httptest.NewRequest(http.MethodPost, "/admin/categories", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}
	assert.Equal(t, http.StatusCreated, post(`{"name":"Green Energy!"}`))
	assert.Equal(t, http.StatusConflict, post(`{"name":"green energy"}`))
	assert.Equal(t, http.StatusBadRequest, post(`{"name":""}`))
	assert.Equal(t, http.StatusBadRequest, post(`not json`))
}
