package user

import (
	"context"
	"strings"

	"github.com/inkpress/core/internal/database"
	"github.com/inkpress/core/internal/models"
	"github.com/inkpress/core/internal/pkg/apperr"
	"github.com/inkpress/core/internal/pkg/pagination"
	"github.com/inkpress/core/internal/pkg/response"
	"github.com/inkpress/core/internal/pkg/session"
	"gorm.io/gorm"
)

var (
	errUserNotFound = apperr.NotFound("user not found")
	errInvalidRole  = apperr.Validation("role must be one of user, admin, developer")
)

type UpdateRoleDTO struct {
	Role models.Role `json:"role"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// List pages through accounts, optionally filtered by role or a username/email search.
func (s *Service) List(ctx context.Context, q pagination.Query, role models.Role, search string) ([]models.UserModel, response.Pagination, error) {
	tx := s.db.WithContext(ctx).Model(&models.UserModel{}).Order("created_at DESC")
	if role != "" {
		if !role.Valid() {
			return nil, response.Pagination{}, errInvalidRole
		}
		tx = tx.Where("role = ?", role)
	}
	if term := strings.ToLower(strings.TrimSpace(search)); term != "" {
		pattern := "%" + term + "%"
		tx = tx.Where("(LOWER(username) LIKE ? OR LOWER(email) LIKE ?)", pattern, pattern)
	}

	var users []models.UserModel
	pag, err := pagination.Paginate(tx, q, &users)
	if err != nil {
		return nil, response.Pagination{}, apperr.Internal(err)
	}
	return users, pag, nil
}

// UpdateRole reassigns a user's role. Demoting an admin revokes every session
// the account holds, so admin tokens stop working immediately.
func (s *Service) UpdateRole(ctx context.Context, id string, role models.Role) (*models.UserModel, error) {
	if !role.Valid() {
		return nil, errInvalidRole
	}

	var u models.UserModel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&u, "id = ?", id).Error; err != nil {
			if database.IsNotFound(err) {
				return errUserNotFound
			}
			return err
		}
		if u.Role == role {
			return nil
		}
		demoted := u.Role == models.RoleAdmin
		if err := tx.Model(&u).Update("role", role).Error; err != nil {
			return err
		}
		u.Role = role
		if demoted {
			return session.RevokeAll(tx, u.ID)
		}
		return nil
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &u, nil
}
