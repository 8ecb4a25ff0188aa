package post

import (
	"strings"
	"time"

	"github.com/inkpress/core/internal/models"
)

// CreatePostDTO is the request body for creating a post.
type CreatePostDTO struct {
	Title           string  `json:"title"             validate:"required,max=200"`
	Slug            string  `json:"slug"              validate:"max=191"`
	Content         string  `json:"content"           validate:"required"`
	Excerpt         string  `json:"excerpt"           validate:"max=300"`
	Image           string  `json:"image"             validate:"max=2048"`
	Category        string  `json:"category"          validate:"max=191"`
	AuthorProfileID *string `json:"author_profile_id"`
	Featured        bool    `json:"featured"`
	Published       *bool   `json:"published"`
	MetaTitle       string  `json:"meta_title"        validate:"max=60"`
	MetaDescription string  `json:"meta_description"  validate:"max=160"`
	Keywords        string  `json:"keywords"          validate:"max=500"`
}

// UpdatePostDTO is the request body for updating a post (all fields optional).
type UpdatePostDTO struct {
	Title           *string `json:"title"             validate:"omitempty,max=200"`
	Slug            *string `json:"slug"              validate:"omitempty,max=191"`
	Content         *string `json:"content"`
	Excerpt         *string `json:"excerpt"           validate:"omitempty,max=300"`
	Image           *string `json:"image"             validate:"omitempty,max=2048"`
	Category        *string `json:"category"          validate:"omitempty,max=191"`
	AuthorProfileID *string `json:"author_profile_id"`
	Featured        *bool   `json:"featured"`
	Published       *bool   `json:"published"`
	MetaTitle       *string `json:"meta_title"        validate:"omitempty,max=60"`
	MetaDescription *string `json:"meta_description"  validate:"omitempty,max=160"`
	Keywords        *string `json:"keywords"          validate:"omitempty,max=500"`
}

// Sort orders for listing.
const (
	SortLatest  = "latest"
	SortPopular = "popular"
)

// ListQuery holds the filters for listing posts.
type ListQuery struct {
	Category string
	Search   string
	From     *time.Time
	To       *time.Time // exclusive upper bound
	Featured bool
	Sort     string
	// Published filters by state; public listings force it to true.
	Published *bool
}

// FavoriteStatus is a caller's membership in a post's favorites.
type FavoriteStatus struct {
	IsFavorited bool `json:"isFavorited"`
	Likes       int  `json:"likes"`
}

type authorView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// postResponse is the API response shape for a post.
type postResponse struct {
	ID              string              `json:"id"`
	Title           string              `json:"title"`
	Slug            string              `json:"slug"`
	Content         string              `json:"content,omitempty"`
	Excerpt         string              `json:"excerpt"`
	Image           string              `json:"image"`
	Category        string              `json:"category"`
	Author          *authorView         `json:"author"`
	AuthorProfile   *models.AuthorModel `json:"author_profile"`
	Featured        bool                `json:"featured"`
	Published       bool                `json:"published"`
	Likes           int                 `json:"likes"`
	MetaTitle       string              `json:"meta_title"`
	MetaDescription string              `json:"meta_description"`
	Keywords        []string            `json:"keywords"`
	Created         time.Time           `json:"created"`
	Modified        time.Time           `json:"modified"`
}

func toResponse(p *models.PostModel, withContent bool) postResponse {
	resp := postResponse{
		ID:              p.ID,
		Title:           p.Title,
		Slug:            p.Slug,
		Excerpt:         p.Excerpt,
		Image:           p.Image,
		Category:        p.Category,
		AuthorProfile:   p.AuthorProfile,
		Featured:        p.Featured,
		Published:       p.Published,
		Likes:           p.Likes,
		MetaTitle:       p.MetaTitle,
		MetaDescription: p.MetaDescription,
		Keywords:        splitKeywords(p.Keywords),
		Created:         p.CreatedAt,
		Modified:        p.UpdatedAt,
	}
	if withContent {
		resp.Content = p.Content
	}
	if p.Author != nil {
		resp.Author = &authorView{ID: p.Author.ID, Name: p.Author.DisplayName(), Image: p.Author.Image}
	}
	return resp
}

func toResponses(posts []models.PostModel, withContent bool) []postResponse {
	items := make([]postResponse, len(posts))
	for i := range posts {
		items[i] = toResponse(&posts[i], withContent)
	}
	return items
}

func splitKeywords(raw string) []string {
	out := []string{}
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}
