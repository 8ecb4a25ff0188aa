package user

import (
	"github.com/gin-gonic/gin"
	"github.com/inkpress/core/internal/models"
	"github.com/inkpress/core/internal/pkg/pagination"
	"github.com/inkpress/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	users := admin.Group("/users")
	users.GET("", h.list)
	users.PUT("/:id/role", h.updateRole)
}

// list GET /admin/users?role=&search=
func (h *Handler) list(c *gin.Context) {
	users, pag, err := h.svc.List(c.Request.Context(), pagination.FromContext(c), models.Role(c.Query("role")), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paged(c, users, pag)
}

// updateRole PUT /admin/users/:id/role
func (h *Handler) updateRole(c *gin.Context) {
	var dto UpdateRoleDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	u, err := h.svc.UpdateRole(c.Request.Context(), c.Param("id"), dto.Role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, u)
}
