package comment

import (
	"github.com/gin-gonic/gin"
	"github.com/inkpress/core/internal/middleware"
	"github.com/inkpress/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts comment routes. requireUser gates every mutation.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, requireUser gin.HandlerFunc) {
	rg.GET("/posts/:slug/comments", h.list)
	rg.POST("/posts/:slug/comments", requireUser, h.create)

	comments := rg.Group("/comments", requireUser)
	comments.DELETE("/:id", h.delete)
	comments.POST("/:id/like", h.toggleLike)
}

// list GET /posts/:slug/comments
func (h *Handler) list(c *gin.Context) {
	comments, err := h.svc.List(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}

	viewer := middleware.CurrentUserID(c)
	items := make([]commentResponse, len(comments))
	for i := range comments {
		items[i] = toResponse(&comments[i], viewer)
	}
	response.OK(c, items)
}

// create POST /posts/:slug/comments  [user]
func (h *Handler) create(c *gin.Context) {
	var dto CreateCommentDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	userID := middleware.CurrentUserID(c)
	comment, err := h.svc.Create(c.Request.Context(), userID, c.Param("slug"), dto.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, toResponse(comment, userID))
}

// delete DELETE /comments/:id  [owner]
func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "comment deleted")
}

// toggleLike POST /comments/:id/like  [user]
func (h *Handler) toggleLike(c *gin.Context) {
	status, err := h.svc.ToggleLike(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, status)
}
