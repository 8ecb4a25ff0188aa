package comment

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/inkpress/core/internal/metrics"
	"github.com/inkpress/core/internal/models"
	"github.com/inkpress/core/internal/pkg/apperr"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	errPostNotFound    = apperr.NotFound("post not found")
	errCommentNotFound = apperr.NotFound("comment not found")
	errNotOwner        = apperr.Forbidden("only the author can delete this comment")
	errContentRequired = apperr.Validation("content is required")
	errContentTooLong  = apperr.Validationf("content must be at most %d characters", MaxContentLength)
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

func (s *Service) postID(db *gorm.DB, postSlug string) (string, error) {
	var post models.PostModel
	if err := db.Select("id").Where("slug = ? AND published = ?", postSlug, true).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errPostNotFound
		}
		return "", apperr.Internal(err)
	}
	return post.ID, nil
}

// List returns the comments of a post, newest first, with their authors.
func (s *Service) List(ctx context.Context, postSlug string) ([]models.CommentModel, error) {
	db := s.db.WithContext(ctx)
	postID, err := s.postID(db, postSlug)
	if err != nil {
		return nil, err
	}

	var comments []models.CommentModel
	err = db.Preload("User").
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&comments).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return comments, nil
}

// Create stores a comment by userID on the post identified by postSlug.
func (s *Service) Create(ctx context.Context, userID, postSlug, content string) (*models.CommentModel, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errContentRequired
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return nil, errContentTooLong
	}

	db := s.db.WithContext(ctx)
	postID, err := s.postID(db, postSlug)
	if err != nil {
		return nil, err
	}

	comment := models.CommentModel{
		Content: content,
		PostID:  postID,
		UserID:  userID,
		Likes:   models.StringArray{},
	}
	if err := db.Create(&comment).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	if err := db.Preload("User").First(&comment, "id = ?", comment.ID).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return &comment, nil
}

// Delete removes a comment. Only its author may delete it.
func (s *Service) Delete(ctx context.Context, userID, commentID string) error {
	db := s.db.WithContext(ctx)

	var comment models.CommentModel
	if err := db.Select("id", "user_id").First(&comment, "id = ?", commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errCommentNotFound
		}
		return apperr.Internal(err)
	}
	if comment.UserID != userID {
		return errNotOwner
	}

	res := db.Where("id = ? AND user_id = ?", commentID, userID).Delete(&models.CommentModel{})
	if res.Error != nil {
		return apperr.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return errCommentNotFound
	}
	return nil
}

// ToggleLike flips userID's membership in the comment's likes set.
// The count is always the size of the set.
func (s *Service) ToggleLike(ctx context.Context, userID, commentID string) (LikeStatus, error) {
	var (
		likes models.StringArray
		liked bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment models.CommentModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "likes").
			First(&comment, "id = ?", commentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errCommentNotFound
			}
			return err
		}

		likes, liked = comment.Likes.Toggle(userID)
		return tx.Model(&models.CommentModel{}).Where("id = ?", commentID).UpdateColumn("likes", likes).Error
	})
	if err != nil {
		return LikeStatus{}, apperr.Internal(err)
	}

	metrics.RecordToggle(metrics.ToggleCommentLike, liked)
	return LikeStatus{Likes: len(likes), IsLiked: liked}, nil
}
