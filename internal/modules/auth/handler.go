package auth

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkpress/core/internal/middleware"
	"github.com/inkpress/core/internal/models"
	"github.com/inkpress/core/internal/pkg/response"
	"github.com/inkpress/core/internal/pkg/validate"
)

// FavoritesLister lists the posts a user has favorited.
type FavoritesLister interface {
	ListFavorites(ctx context.Context, userID string) ([]models.PostModel, error)
}

type Handler struct {
	svc          *Service
	favorites    FavoritesLister
	secureCookie bool
}

func NewHandler(svc *Service, favorites FavoritesLister, secureCookie bool) *Handler {
	return &Handler{svc: svc, favorites: favorites, secureCookie: secureCookie}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, requireUser gin.HandlerFunc) {
	a := rg.Group("/auth")
	a.POST("/register", h.register)
	a.POST("/login", h.login)
	a.POST("/logout", requireUser, h.logout)
	a.GET("/session", requireUser, h.session)
	a.GET("/favorites", requireUser, h.listFavorites)
}

// register POST /auth/register
func (h *Handler) register(c *gin.Context) {
	var dto RegisterDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := validate.Struct(&dto); err != nil {
		response.Error(c, err)
		return
	}
	u, err := h.svc.Register(c.Request.Context(), &dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, toUserResponse(u))
}

// login POST /auth/login
func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := validate.Struct(&dto); err != nil {
		response.Error(c, err)
		return
	}
	token, u, err := h.svc.Login(c.Request.Context(), dto.Username, dto.Password, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, token, int(h.svc.sessionTTL.Seconds()), "/", "", h.secureCookie, true)
	response.OK(c, loginResponse{Token: token, User: toUserResponse(u)})
}

// logout POST /auth/logout  [user]
func (h *Handler) logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context(), middleware.CurrentUserID(c), middleware.CurrentSessionID(c)); err != nil {
		response.Error(c, err)
		return
	}
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", h.secureCookie, true)
	response.Message(c, "signed out")
}

// session GET /auth/session  [user]
func (h *Handler) session(c *gin.Context) {
	u, err := h.svc.Get(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toUserResponse(u))
}

// listFavorites GET /auth/favorites  [user]
func (h *Handler) listFavorites(c *gin.Context) {
	posts, err := h.favorites.ListFavorites(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toFavoriteResponses(posts))
}
