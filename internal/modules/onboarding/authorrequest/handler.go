package authorrequest

import (
	"github.com/gin-gonic/gin"
	"github.com/inkpress/core/internal/middleware"
	"github.com/inkpress/core/internal/models"
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

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, requireUser gin.HandlerFunc) {
	reqs := rg.Group("/author-requests", requireUser)
	reqs.POST("", h.submit)
	reqs.GET("/mine", h.mine)
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	reqs := admin.Group("/author-requests")
	reqs.GET("", h.list)
	reqs.PUT("/:id", h.review)
}

// submit POST /author-requests  [user]
func (h *Handler) submit(c *gin.Context) {
	var dto SubmitDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := validate.Struct(&dto); err != nil {
		response.Error(c, err)
		return
	}
	req, err := h.svc.Submit(c.Request.Context(), middleware.CurrentUserID(c), &dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, req)
}

// mine GET /author-requests/mine  [user]
func (h *Handler) mine(c *gin.Context) {
	reqs, err := h.svc.Mine(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, reqs)
}

// list GET /admin/author-requests?status=
func (h *Handler) list(c *gin.Context) {
	status := models.AuthorRequestStatus(c.Query("status"))
	reqs, pag, err := h.svc.List(c.Request.Context(), pagination.FromContext(c), status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paged(c, reqs, pag)
}

// review PUT /admin/author-requests/:id
func (h *Handler) review(c *gin.Context) {
	var dto ReviewDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := validate.Struct(&dto); err != nil {
		response.Error(c, err)
		return
	}
	req, err := h.svc.Review(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), dto.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, req)
}
