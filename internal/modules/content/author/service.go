package author

import (
	"context"
	"errors"
	"strings"

	"github.com/inkpress/core/internal/models"
	"github.com/inkpress/core/internal/pkg/apperr"
	"github.com/inkpress/core/internal/pkg/pagination"
	"github.com/inkpress/core/internal/pkg/response"
	"gorm.io/gorm"
)

var errAuthorNotFound = apperr.NotFound("author not found")

// AuthorDTO is the request body for creating an author byline.
type AuthorDTO struct {
	Name   string             `json:"name"   validate:"required,max=191"`
	Email  string             `json:"email"  validate:"omitempty,email,max=191"`
	Bio    string             `json:"bio"    validate:"max=2000"`
	Image  string             `json:"image"  validate:"max=2048"`
	Social models.SocialLinks `json:"social"`
}

// UpdateAuthorDTO is the request body for updating an author (all fields optional).
type UpdateAuthorDTO struct {
	Name   *string             `json:"name"   validate:"omitempty,max=191"`
	Email  *string             `json:"email"  validate:"omitempty,email,max=191"`
	Bio    *string             `json:"bio"    validate:"omitempty,max=2000"`
	Image  *string             `json:"image"  validate:"omitempty,max=2048"`
	Social *models.SocialLinks `json:"social"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) List(ctx context.Context, q pagination.Query) ([]models.AuthorModel, response.Pagination, error) {
	var authors []models.AuthorModel
	pag, err := pagination.Paginate(s.db.WithContext(ctx).Model(&models.AuthorModel{}).Order("name ASC"), q, &authors)
	if err != nil {
		return nil, response.Pagination{}, apperr.Internal(err)
	}
	return authors, pag, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.AuthorModel, error) {
	var a models.AuthorModel
	if err := s.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errAuthorNotFound
		}
		return nil, apperr.Internal(err)
	}
	return &a, nil
}

// Create inserts a byline. Email is not unique at this level.
func (s *Service) Create(ctx context.Context, dto *AuthorDTO) (*models.AuthorModel, error) {
	name := strings.TrimSpace(dto.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	a := models.AuthorModel{
		Name:   name,
		Email:  strings.ToLower(strings.TrimSpace(dto.Email)),
		Bio:    dto.Bio,
		Image:  dto.Image,
		Social: dto.Social,
	}
	if err := s.db.WithContext(ctx).Create(&a).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return &a, nil
}

func (s *Service) Update(ctx context.Context, id string, dto *UpdateAuthorDTO) (*models.AuthorModel, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if dto.Name != nil {
		name := strings.TrimSpace(*dto.Name)
		if name == "" {
			return nil, apperr.Validation("name is required")
		}
		a.Name = name
	}
	if dto.Email != nil {
		a.Email = strings.ToLower(strings.TrimSpace(*dto.Email))
	}
	if dto.Bio != nil {
		a.Bio = *dto.Bio
	}
	if dto.Image != nil {
		a.Image = *dto.Image
	}
	if dto.Social != nil {
		a.Social = *dto.Social
	}
	if err := s.db.WithContext(ctx).Save(a).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return a, nil
}

// Delete removes a byline and detaches it from posts and approved requests.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.AuthorModel{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errAuthorNotFound
		}
		if err := tx.Model(&models.PostModel{}).Where("author_profile_id = ?", id).
			UpdateColumn("author_profile_id", nil).Error; err != nil {
			return err
		}
		return tx.Model(&models.AuthorRequestModel{}).Where("author_id = ?", id).
			UpdateColumn("author_id", nil).Error
	})
	return apperr.Internal(err)
}
