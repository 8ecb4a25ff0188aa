package authorrequest

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/inkpress/core/internal/models"
	"github.com/inkpress/core/internal/pkg/apperr"
	"github.com/inkpress/core/internal/pkg/pagination"
	"github.com/inkpress/core/internal/pkg/response"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	errRequestNotFound = apperr.NotFound("author request not found")
	errAlreadyOpen     = apperr.Conflict("you already have a pending or approved author request")
	errAlreadyDecided  = apperr.Conflict("author request has already been decided")
	errInvalidStatus   = apperr.Validation("status must be approved or rejected")
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func NewService(db *gorm.DB, opts ...Option) *Service {
	s := &Service{db: db, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit files a new pending request for userID. A user may hold at most one
// pending or approved request; rejected applicants can apply again.
func (s *Service) Submit(ctx context.Context, userID string, dto *SubmitDTO) (*models.AuthorRequestModel, error) {
	req := models.AuthorRequestModel{
		UserID:    userID,
		Name:      strings.TrimSpace(dto.Name),
		Email:     normalizeEmail(dto.Email),
		Bio:       strings.TrimSpace(dto.Bio),
		Portfolio: strings.TrimSpace(dto.Portfolio),
		Status:    models.AuthorRequestPending,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var open int64
		err := tx.Model(&models.AuthorRequestModel{}).
			Where("user_id = ? AND status IN ?", userID, []models.AuthorRequestStatus{models.AuthorRequestPending, models.AuthorRequestApproved}).
			Count(&open).Error
		if err != nil {
			return err
		}
		if open > 0 {
			return errAlreadyOpen
		}
		return tx.Create(&req).Error
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &req, nil
}

// Mine lists userID's requests, newest first.
func (s *Service) Mine(ctx context.Context, userID string) ([]models.AuthorRequestModel, error) {
	var reqs []models.AuthorRequestModel
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&reqs).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return reqs, nil
}

// List pages through requests, optionally filtered by status.
func (s *Service) List(ctx context.Context, q pagination.Query, status models.AuthorRequestStatus) ([]models.AuthorRequestModel, response.Pagination, error) {
	tx := s.db.WithContext(ctx).Model(&models.AuthorRequestModel{}).Order("created_at DESC")
	if status != "" {
		if !status.Valid() {
			return nil, response.Pagination{}, apperr.Validation("status must be pending, approved or rejected")
		}
		tx = tx.Where("status = ?", status)
	}

	var reqs []models.AuthorRequestModel
	pag, err := pagination.Paginate(tx, q, &reqs)
	if err != nil {
		return nil, response.Pagination{}, apperr.Internal(err)
	}
	return reqs, pag, nil
}

// Review moves a pending request to approved or rejected. Approval creates the
// byline Author, reusing one that already has the request's email, in the same
// transaction as the status write. Repeating the current decision is a no-op
// that still guarantees the Author exists for approved requests.
func (s *Service) Review(ctx context.Context, reviewerID, id string, status models.AuthorRequestStatus) (*models.AuthorRequestModel, error) {
	if status != models.AuthorRequestApproved && status != models.AuthorRequestRejected {
		return nil, errInvalidStatus
	}

	var (
		req           models.AuthorRequestModel
		authorCreated bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&req, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errRequestNotFound
			}
			return err
		}
		if req.Status != models.AuthorRequestPending && req.Status != status {
			return errAlreadyDecided
		}

		changed := false
		if status == models.AuthorRequestApproved {
			author, created, err := ensureAuthor(tx, &req)
			if err != nil {
				return err
			}
			authorCreated = created
			if req.AuthorID == nil || *req.AuthorID != author.ID {
				req.AuthorID = &author.ID
				changed = true
			}
		}
		if req.Status != status {
			now := time.Now()
			req.Status = status
			req.ReviewedBy = &reviewerID
			req.ReviewedAt = &now
			changed = true
		}
		if !changed {
			return nil
		}
		return tx.Save(&req).Error
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}

	if authorCreated {
		s.log.Info("author created from request",
			zap.String("request_id", req.ID),
			zap.String("author_id", *req.AuthorID),
			zap.String("email", req.Email),
		)
	}
	return &req, nil
}

// ensureAuthor returns the Author whose email matches the request, creating
// it when absent.
func ensureAuthor(tx *gorm.DB, req *models.AuthorRequestModel) (*models.AuthorModel, bool, error) {
	var author models.AuthorModel
	err := tx.Where("email = ?", normalizeEmail(req.Email)).Order("created_at ASC").First(&author).Error
	if err == nil {
		return &author, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	var user models.UserModel
	if err := tx.Select("id", "image").First(&user, "id = ?", req.UserID).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	author = models.AuthorModel{
		Name:  req.Name,
		Email: normalizeEmail(req.Email),
		Bio:   req.Bio,
		Image: user.Image,
		Social: models.SocialLinks{
			Website: req.Portfolio,
		},
	}
	if err := tx.Create(&author).Error; err != nil {
		return nil, false, err
	}
	return &author, true, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
