package author

import (
	"github.com/gin-gonic/gin"
	"github.com/inkpress/core/internal/pkg/pagination"
	"github.com/inkpress/core/internal/pkg/response"
	"github.com/inkpress/core/internal/pkg/validate"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the public byline reads.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	authors := rg.Group("/authors")
	authors.GET("", h.list)
	authors.GET("/:id", h.get)
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	authors := admin.Group("/authors")
	authors.GET("", h.list)
	authors.GET("/:id", h.get)
	authors.POST("", h.create)
	authors.PUT("/:id", h.update)
	authors.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	authors, pag, err := h.svc.List(c.Request.Context(), pagination.FromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paged(c, authors, pag)
}

func (h *Handler) get(c *gin.Context) {
	a, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, a)
}

func (h *Handler) create(c *gin.Context) {
	var dto AuthorDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := validate.Struct(&dto); err != nil {
		response.Error(c, err)
		return
	}
	a, err := h.svc.Create(c.Request.Context(), &dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, a)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateAuthorDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := validate.Struct(&dto); err != nil {
		response.Error(c, err)
		return
	}
	a, err := h.svc.Update(c.Request.Context(), c.Param("id"), &dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, a)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "author deleted")
}
