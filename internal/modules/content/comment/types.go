package comment

import (
	"time"

	"github.com/inkpress/core/internal/models"
)

// MaxContentLength bounds a comment body, counted in characters.
const MaxContentLength = 500

// CreateCommentDTO is the request body for posting a comment.
type CreateCommentDTO struct {
	Content string `json:"content"`
}

// LikeStatus is the caller's membership in a comment's likes set.
type LikeStatus struct {
	Likes   int  `json:"likes"`
	IsLiked bool `json:"isLiked"`
}

type authorView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// commentResponse is the API response shape for a comment.
type commentResponse struct {
	ID      string     `json:"id"`
	PostID  string     `json:"post_id"`
	Content string     `json:"content"`
	Author  authorView `json:"author"`
	Likes   int        `json:"likes"`
	IsLiked bool       `json:"isLiked"`
	Created time.Time  `json:"created"`
}

func toResponse(c *models.CommentModel, viewerID string) commentResponse {
	resp := commentResponse{
		ID:      c.ID,
		PostID:  c.PostID,
		Content: c.Content,
		Author:  authorView{ID: c.UserID},
		Likes:   len(c.Likes),
		IsLiked: viewerID != "" && c.Likes.Contains(viewerID),
		Created: c.CreatedAt,
	}
	if c.User != nil {
		resp.Author.Name = c.User.DisplayName()
		resp.Author.Image = c.User.Image
	}
	return resp
}
