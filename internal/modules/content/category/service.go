package category

import (
	"context"
	"errors"
	"strings"

	"github.com/inkpress/core/internal/database"
	"github.com/inkpress/core/internal/models"
	"github.com/inkpress/core/internal/pkg/apperr"
	"github.com/inkpress/core/internal/pkg/slug"
	"gorm.io/gorm"
)

var (
	errCategoryNotFound = apperr.NotFound("category not found")
	errCategoryExists   = apperr.Conflict("name or slug already exists")
	errNameRequired     = apperr.Validation("name is required")
	errSlugEmpty        = apperr.Validation("name must contain at least one letter or digit")
)

type CreateCategoryDTO struct {
	Name        string `json:"name"        validate:"required,max=191"`
	Description string `json:"description" validate:"max=1000"`
}

type UpdateCategoryDTO struct {
	Name        *string `json:"name"        validate:"omitempty,max=191"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) List(ctx context.Context) ([]models.CategoryModel, error) {
	var cats []models.CategoryModel
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&cats).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return cats, nil
}

func (s *Service) GetBySlug(ctx context.Context, categorySlug string) (*models.CategoryModel, error) {
	return s.first(s.db.WithContext(ctx).Where("slug = ?", categorySlug))
}

func (s *Service) GetByID(ctx context.Context, id string) (*models.CategoryModel, error) {
	return s.first(s.db.WithContext(ctx).Where("id = ?", id))
}

func (s *Service) first(tx *gorm.DB) (*models.CategoryModel, error) {
	var cat models.CategoryModel
	if err := tx.First(&cat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errCategoryNotFound
		}
		return nil, apperr.Internal(err)
	}
	return &cat, nil
}

// Create inserts a category whose slug is derived from its name.
func (s *Service) Create(ctx context.Context, dto *CreateCategoryDTO) (*models.CategoryModel, error) {
	name, catSlug, err := nameAndSlug(dto.Name)
	if err != nil {
		return nil, err
	}

	cat := models.CategoryModel{Name: name, Slug: catSlug, Description: strings.TrimSpace(dto.Description)}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUnique(tx, name, catSlug, ""); err != nil {
			return err
		}
		return tx.Create(&cat).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &cat, nil
}

// Update renames or re-describes a category; a rename re-derives the slug.
func (s *Service) Update(ctx context.Context, id string, dto *UpdateCategoryDTO) (*models.CategoryModel, error) {
	var cat models.CategoryModel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&cat, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errCategoryNotFound
			}
			return err
		}

		if dto.Name != nil {
			name, catSlug, err := nameAndSlug(*dto.Name)
			if err != nil {
				return err
			}
			if err := ensureUnique(tx, name, catSlug, cat.ID); err != nil {
				return err
			}
			cat.Name, cat.Slug = name, catSlug
		}
		if dto.Description != nil {
			cat.Description = strings.TrimSpace(*dto.Description)
		}
		return tx.Save(&cat).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &cat, nil
}

// Delete removes a category by id. Posts keep their free-text category name.
func (s *Service) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.CategoryModel{}, "id = ?", id)
	if res.Error != nil {
		return apperr.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return errCategoryNotFound
	}
	return nil
}

func nameAndSlug(raw string) (string, string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", "", errNameRequired
	}
	catSlug := slug.Make(name)
	if catSlug == "" {
		return "", "", errSlugEmpty
	}
	return name, catSlug, nil
}

func ensureUnique(tx *gorm.DB, name, catSlug, exceptID string) error {
	q := tx.Model(&models.CategoryModel{}).Where("(name = ? OR slug = ?)", name, catSlug)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return errCategoryExists
	}
	return nil
}

func translate(err error) error {
	if database.IsDuplicateKey(err) {
		return errCategoryExists
	}
	return apperr.Internal(err)
}
