package contact

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/inkpress/core/internal/models"
	"github.com/inkpress/core/internal/pkg/apperr"
	"github.com/inkpress/core/internal/pkg/pagination"
	"github.com/inkpress/core/internal/pkg/response"
	"github.com/inkpress/core/internal/pkg/validate"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var errMessageNotFound = apperr.NotFound("message not found")

type MessageDTO struct {
	Name    string `json:"name"    validate:"required,max=100"`
	Email   string `json:"email"   validate:"required,email,max=191"`
	Subject string `json:"subject" validate:"required,max=191"`
	Message string `json:"message" validate:"required,max=5000"`
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewService(db *gorm.DB, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: db, log: log}
}

// Submit stores an inbound message.
func (s *Service) Submit(ctx context.Context, dto *MessageDTO, ip string) (*models.ContactMessageModel, error) {
	if err := validate.Struct(dto); err != nil {
		return nil, err
	}
	msg := models.ContactMessageModel{
		Name:    strings.TrimSpace(dto.Name),
		Email:   strings.ToLower(strings.TrimSpace(dto.Email)),
		Subject: strings.TrimSpace(dto.Subject),
		Message: strings.TrimSpace(dto.Message),
		IP:      ip,
	}
	if err := s.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	s.log.Info("contact message received", zap.String("id", msg.ID), zap.String("email", msg.Email))
	return &msg, nil
}

func (s *Service) List(ctx context.Context, q pagination.Query) ([]models.ContactMessageModel, response.Pagination, error) {
	var msgs []models.ContactMessageModel
	tx := s.db.WithContext(ctx).Model(&models.ContactMessageModel{}).Order("created_at DESC")
	pag, err := pagination.Paginate(tx, q, &msgs)
	if err != nil {
		return nil, response.Pagination{}, apperr.Internal(err)
	}
	return msgs, pag, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.ContactMessageModel, error) {
	var msg models.ContactMessageModel
	if err := s.db.WithContext(ctx).First(&msg, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errMessageNotFound
		}
		return nil, apperr.Internal(err)
	}
	return &msg, nil
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/contact", h.submit)
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	g := admin.Group("/messages")
	g.GET("", h.list)
	g.GET("/:id", h.get)
}

func (h *Handler) submit(c *gin.Context) {
	var dto MessageDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if _, err := h.svc.Submit(c.Request.Context(), &dto, c.ClientIP()); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "message sent")
}

func (h *Handler) list(c *gin.Context) {
	msgs, pag, err := h.svc.List(c.Request.Context(), pagination.FromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paged(c, msgs, pag)
}

func (h *Handler) get(c *gin.Context) {
	msg, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, msg)
}
