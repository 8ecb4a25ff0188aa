package post

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkpress/core/internal/middleware"
	"github.com/inkpress/core/internal/pkg/apperr"
	"github.com/inkpress/core/internal/pkg/pagination"
	"github.com/inkpress/core/internal/pkg/response"
	"github.com/inkpress/core/internal/pkg/validate"
)

const dateLayout = "2006-01-02"

// Handler handles post HTTP requests.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the public post routes. requireUser gates the
// favorite toggle.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, requireUser gin.HandlerFunc) {
	posts := rg.Group("/posts")
	posts.GET("", h.list)
	posts.GET("/:slug", h.getBySlug)
	posts.GET("/:slug/favorite", h.favoriteStatus)
	posts.POST("/:slug/favorite", requireUser, h.toggleFavorite)
}

// RegisterAdminRoutes mounts post management onto an admin-gated group.
func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	posts := admin.Group("/posts")
	posts.GET("", h.adminList)
	posts.GET("/:id", h.adminGet)
	posts.POST("", h.create)
	posts.PUT("/:id", h.update)
	posts.DELETE("/:id", h.delete)
}

// list GET /posts
func (h *Handler) list(c *gin.Context) {
	lq, err := parseListQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	published := true
	lq.Published = &published

	posts, pag, err := h.svc.List(c.Request.Context(), pagination.FromContext(c), lq)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paged(c, toResponses(posts, false), pag)
}

// getBySlug GET /posts/:slug
func (h *Handler) getBySlug(c *gin.Context) {
	post, err := h.svc.GetBySlug(c.Request.Context(), c.Param("slug"), false)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toResponse(post, true))
}

// favoriteStatus GET /posts/:slug/favorite
func (h *Handler) favoriteStatus(c *gin.Context) {
	status, err := h.svc.GetFavoriteStatus(c.Request.Context(), middleware.CurrentUserID(c), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, status)
}

// toggleFavorite POST /posts/:slug/favorite  [user]
func (h *Handler) toggleFavorite(c *gin.Context) {
	status, err := h.svc.ToggleFavorite(c.Request.Context(), middleware.CurrentUserID(c), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, status)
}

// adminList GET /admin/posts
func (h *Handler) adminList(c *gin.Context) {
	lq, err := parseListQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if raw := c.Query("published"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			response.BadRequest(c, "published must be a boolean")
			return
		}
		lq.Published = &v
	}

	posts, pag, err := h.svc.List(c.Request.Context(), pagination.FromContext(c), lq)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paged(c, toResponses(posts, false), pag)
}

// adminGet GET /admin/posts/:id
func (h *Handler) adminGet(c *gin.Context) {
	post, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toResponse(post, true))
}

// create POST /admin/posts
func (h *Handler) create(c *gin.Context) {
	var dto CreatePostDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := validate.Struct(&dto); err != nil {
		response.Error(c, err)
		return
	}

	post, err := h.svc.Create(c.Request.Context(), middleware.CurrentUserID(c), &dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, toResponse(post, true))
}

// update PUT /admin/posts/:id
func (h *Handler) update(c *gin.Context) {
	var dto UpdatePostDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := validate.Struct(&dto); err != nil {
		response.Error(c, err)
		return
	}

	post, err := h.svc.Update(c.Request.Context(), c.Param("id"), &dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toResponse(post, true))
}

// delete DELETE /admin/posts/:id
func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "post deleted")
}

func parseListQuery(c *gin.Context) (ListQuery, error) {
	lq := ListQuery{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Sort:     strings.ToLower(strings.TrimSpace(c.Query("sort"))),
	}
	if lq.Sort != "" && lq.Sort != SortLatest && lq.Sort != SortPopular {
		return lq, apperr.Validation("sort must be latest or popular")
	}

	if raw := c.Query("featured"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return lq, apperr.Validation("featured must be a boolean")
		}
		lq.Featured = v
	}

	if raw := strings.TrimSpace(c.Query("from")); raw != "" {
		from, _, err := parseDate(raw)
		if err != nil {
			return lq, apperr.Validation("from must be RFC3339 or YYYY-MM-DD")
		}
		lq.From = &from
	}
	if raw := strings.TrimSpace(c.Query("to")); raw != "" {
		to, dateOnly, err := parseDate(raw)
		if err != nil {
			return lq, apperr.Validation("to must be RFC3339 or YYYY-MM-DD")
		}
		// Upper bound is inclusive: a bare date covers that whole day.
		if dateOnly {
			to = to.AddDate(0, 0, 1)
		} else {
			to = to.Add(time.Nanosecond)
		}
		lq.To = &to
	}
	if lq.From != nil && lq.To != nil && !lq.From.Before(*lq.To) {
		return lq, apperr.Validation("from must not be after to")
	}
	return lq, nil
}

func parseDate(raw string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, false, nil
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.Local)
	return t, true, err
}
