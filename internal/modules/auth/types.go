package auth

import (
	"time"

	"github.com/inkpress/core/internal/models"
)

// RegisterDTO is the request body for creating an account.
type RegisterDTO struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email"    validate:"required,email,max=191"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name"     validate:"max=191"`
}

// LoginDTO accepts either a username or an email as the identifier.
type LoginDTO struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID       string      `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Name     string      `json:"name"`
	Role     models.Role `json:"role"`
	Image    string      `json:"image"`
	Created  time.Time   `json:"created"`
}

type loginResponse struct {
	Token string        `json:"token"`
	User  *userResponse `json:"user"`
}

type favoriteResponse struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Slug     string    `json:"slug"`
	Excerpt  string    `json:"excerpt"`
	Image    string    `json:"image"`
	Category string    `json:"category"`
	Likes    int       `json:"likes"`
	Created  time.Time `json:"created"`
}

func toUserResponse(u *models.UserModel) *userResponse {
	return &userResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Name:     u.DisplayName(),
		Role:     u.Role,
		Image:    u.Image,
		Created:  u.CreatedAt,
	}
}

func toFavoriteResponses(posts []models.PostModel) []favoriteResponse {
	out := make([]favoriteResponse, len(posts))
	for i, p := range posts {
		out[i] = favoriteResponse{
			ID:       p.ID,
			Title:    p.Title,
			Slug:     p.Slug,
			Excerpt:  p.Excerpt,
			Image:    p.Image,
			Category: p.Category,
			Likes:    p.Likes,
			Created:  p.CreatedAt,
		}
	}
	return out
}
