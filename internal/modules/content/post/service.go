package post

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/inkpress/core/internal/database"
	"github.com/inkpress/core/internal/metrics"
	"github.com/inkpress/core/internal/models"
	"github.com/inkpress/core/internal/pkg/apperr"
	"github.com/inkpress/core/internal/pkg/excerpt"
	"github.com/inkpress/core/internal/pkg/pagination"
	"github.com/inkpress/core/internal/pkg/response"
	"github.com/inkpress/core/internal/pkg/slug"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	errPostNotFound          = apperr.NotFound("post not found")
	errSlugTaken             = apperr.Conflict("slug already exists")
	errSlugEmpty             = apperr.Validation("slug must contain at least one letter or digit")
	errAuthorProfileNotFound = apperr.Validation("author profile not found")
)

// Service handles post business logic.
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

// likeEscaper escapes LIKE wildcards using '!' as the escape character,
// which both MySQL and SQLite accept in an ESCAPE clause.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// List returns a page of posts matching lq, newest first unless sorted by popularity.
func (s *Service) List(ctx context.Context, q pagination.Query, lq ListQuery) ([]models.PostModel, response.Pagination, error) {
	tx := s.db.WithContext(ctx).Model(&models.PostModel{})

	if lq.Published != nil {
		tx = tx.Where("published = ?", *lq.Published)
	}
	if c := strings.TrimSpace(lq.Category); c != "" && !strings.EqualFold(c, "all") {
		tx = tx.Where("category = ?", c)
	}
	if term := strings.TrimSpace(lq.Search); term != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
		tx = tx.Where("(LOWER(title) LIKE ? ESCAPE '!' OR LOWER(excerpt) LIKE ? ESCAPE '!')", pattern, pattern)
	}
	// Timestamps are written in time.Local and SQLite compares them as text,
	// so bounds must carry the same offset.
	if lq.From != nil {
		tx = tx.Where("created_at >= ?", lq.From.In(time.Local))
	}
	if lq.To != nil {
		tx = tx.Where("created_at < ?", lq.To.In(time.Local))
	}
	if lq.Featured {
		tx = tx.Where("featured = ?", true)
	}

	if lq.Sort == SortPopular {
		tx = tx.Order("likes DESC").Order("created_at DESC")
	} else {
		tx = tx.Order("created_at DESC")
	}

	var posts []models.PostModel
	pag, err := pagination.Paginate(tx, q, &posts, withAuthors)
	if err != nil {
		return nil, response.Pagination{}, apperr.Internal(err)
	}
	return posts, pag, nil
}

// GetBySlug fetches a post by slug. Drafts are hidden unless includeDrafts is set.
func (s *Service) GetBySlug(ctx context.Context, postSlug string, includeDrafts bool) (*models.PostModel, error) {
	tx := s.db.WithContext(ctx).Scopes(withAuthors).Where("slug = ?", postSlug)
	if !includeDrafts {
		tx = tx.Where("published = ?", true)
	}
	return first(tx)
}

// GetByID fetches any post by id.
func (s *Service) GetByID(ctx context.Context, id string) (*models.PostModel, error) {
	return first(s.db.WithContext(ctx).Scopes(withAuthors).Where("id = ?", id))
}

func withAuthors(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Author").Preload("AuthorProfile")
}

func first(tx *gorm.DB) (*models.PostModel, error) {
	var post models.PostModel
	if err := tx.First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errPostNotFound
		}
		return nil, apperr.Internal(err)
	}
	return &post, nil
}

// Create inserts a post owned by ownerID.
func (s *Service) Create(ctx context.Context, ownerID string, dto *CreatePostDTO) (*models.PostModel, error) {
	postSlug, err := resolveSlug(dto.Slug, dto.Title)
	if err != nil {
		return nil, err
	}

	post := models.PostModel{
		Title:           strings.TrimSpace(dto.Title),
		Slug:            postSlug,
		Content:         dto.Content,
		Excerpt:         strings.TrimSpace(dto.Excerpt),
		Image:           dto.Image,
		Category:        strings.TrimSpace(dto.Category),
		AuthorID:        ownerID,
		AuthorProfileID: normalizeID(dto.AuthorProfileID),
		Featured:        dto.Featured,
		Published:       dto.Published == nil || *dto.Published,
		MetaTitle:       dto.MetaTitle,
		MetaDescription: dto.MetaDescription,
		Keywords:        dto.Keywords,
	}
	if post.Excerpt == "" {
		post.Excerpt = excerpt.FromMarkdown(post.Content)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureSlugFree(tx, post.Slug, ""); err != nil {
			return err
		}
		if err := ensureAuthorProfile(tx, post.AuthorProfileID); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(&post).Error; err != nil {
			if database.IsDuplicateKey(err) {
				return errSlugTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return s.GetByID(ctx, post.ID)
}

// Update applies the non-nil fields of dto to the post with the given id.
// A slug owned by a different post is rejected and nothing is written.
func (s *Service) Update(ctx context.Context, id string, dto *UpdatePostDTO) (*models.PostModel, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.PostModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&post, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errPostNotFound
			}
			return err
		}

		if dto.Title != nil {
			title := strings.TrimSpace(*dto.Title)
			if title == "" {
				return apperr.Validation("title is required")
			}
			post.Title = title
		}
		if dto.Slug != nil {
			postSlug, err := resolveSlug(*dto.Slug, post.Title)
			if err != nil {
				return err
			}
			if postSlug != post.Slug {
				if err := ensureSlugFree(tx, postSlug, post.ID); err != nil {
					return err
				}
				post.Slug = postSlug
			}
		}
		if dto.Content != nil {
			// An excerpt that was derived from the old content follows the new content.
			if dto.Excerpt == nil && post.Excerpt == excerpt.FromMarkdown(post.Content) {
				post.Excerpt = excerpt.FromMarkdown(*dto.Content)
			}
			post.Content = *dto.Content
		}
		if dto.Excerpt != nil {
			post.Excerpt = strings.TrimSpace(*dto.Excerpt)
			if post.Excerpt == "" {
				post.Excerpt = excerpt.FromMarkdown(post.Content)
			}
		}
		if dto.Image != nil {
			post.Image = *dto.Image
		}
		if dto.Category != nil {
			post.Category = strings.TrimSpace(*dto.Category)
		}
		if dto.AuthorProfileID != nil {
			post.AuthorProfileID = normalizeID(dto.AuthorProfileID)
			if err := ensureAuthorProfile(tx, post.AuthorProfileID); err != nil {
				return err
			}
		}
		if dto.Featured != nil {
			post.Featured = *dto.Featured
		}
		if dto.Published != nil {
			post.Published = *dto.Published
		}
		if dto.MetaTitle != nil {
			post.MetaTitle = *dto.MetaTitle
		}
		if dto.MetaDescription != nil {
			post.MetaDescription = *dto.MetaDescription
		}
		if dto.Keywords != nil {
			post.Keywords = *dto.Keywords
		}

		if err := tx.Omit(clause.Associations).Save(&post).Error; err != nil {
			if database.IsDuplicateKey(err) {
				return errSlugTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return s.GetByID(ctx, id)
}

// Delete removes a post together with its comments and favorites.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.PostModel{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errPostNotFound
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.CommentModel{}).Error; err != nil {
			return err
		}
		return tx.Where("post_id = ?", id).Delete(&models.FavoriteModel{}).Error
	})
	return apperr.Internal(err)
}

func resolveSlug(explicit, title string) (string, error) {
	source := strings.TrimSpace(explicit)
	if source == "" {
		source = title
	}
	out := slug.Make(source)
	if out == "" {
		return "", errSlugEmpty
	}
	return out, nil
}

func ensureSlugFree(tx *gorm.DB, postSlug, exceptID string) error {
	q := tx.Model(&models.PostModel{}).Where("slug = ?", postSlug)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return errSlugTaken
	}
	return nil
}

func ensureAuthorProfile(tx *gorm.DB, id *string) error {
	if id == nil {
		return nil
	}
	var count int64
	if err := tx.Model(&models.AuthorModel{}).Where("id = ?", *id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errAuthorProfileNotFound
	}
	return nil
}

func normalizeID(id *string) *string {
	if id == nil {
		return nil
	}
	v := strings.TrimSpace(*id)
	if v == "" {
		return nil
	}
	return &v
}

// ToggleFavorite flips userID's membership in the post's favorites and
// recomputes the cached likes counter from the membership table in the
// same transaction, with the post row locked.
func (s *Service) ToggleFavorite(ctx context.Context, userID, postSlug string) (FavoriteStatus, error) {
	var status FavoriteStatus
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.PostModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("slug = ? AND published = ?", postSlug, true).
			First(&post).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errPostNotFound
			}
			return err
		}

		res := tx.Where("user_id = ? AND post_id = ?", userID, post.ID).Delete(&models.FavoriteModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if err := tx.Create(&models.FavoriteModel{UserID: userID, PostID: post.ID}).Error; err != nil {
				return err
			}
			status.IsFavorited = true
		}

		var count int64
		if err := tx.Model(&models.FavoriteModel{}).Where("post_id = ?", post.ID).Count(&count).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.PostModel{}).Where("id = ?", post.ID).UpdateColumn("likes", count).Error; err != nil {
			return err
		}
		status.Likes = int(count)
		return nil
	})
	if err != nil {
		return FavoriteStatus{}, apperr.Internal(err)
	}

	metrics.RecordToggle(metrics.ToggleFavorite, status.IsFavorited)
	return status, nil
}

// GetFavoriteStatus reports userID's membership and the post's like count.
// An empty userID is never a member.
func (s *Service) GetFavoriteStatus(ctx context.Context, userID, postSlug string) (FavoriteStatus, error) {
	db := s.db.WithContext(ctx)

	var post models.PostModel
	if err := db.Select("id", "likes").Where("slug = ? AND published = ?", postSlug, true).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return FavoriteStatus{}, errPostNotFound
		}
		return FavoriteStatus{}, apperr.Internal(err)
	}

	status := FavoriteStatus{Likes: post.Likes}
	if userID == "" {
		return status, nil
	}

	var count int64
	if err := db.Model(&models.FavoriteModel{}).Where("user_id = ? AND post_id = ?", userID, post.ID).Count(&count).Error; err != nil {
		return FavoriteStatus{}, apperr.Internal(err)
	}
	status.IsFavorited = count > 0
	return status, nil
}

// ListFavorites returns the published posts userID has favorited, most recently favorited first.
func (s *Service) ListFavorites(ctx context.Context, userID string) ([]models.PostModel, error) {
	var posts []models.PostModel
	err := s.db.WithContext(ctx).
		Scopes(withAuthors).
		Joins("JOIN favorites ON favorites.post_id = posts.id").
		Where("favorites.user_id = ? AND posts.published = ?", userID, true).
		Order("favorites.created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return posts, nil
}
