package authorrequest

import "github.com/inkpress/core/internal/models"

// SubmitDTO is the request body for applying as an author.
type SubmitDTO struct {
	Name      string `json:"name"      validate:"required,max=191"`
	Email     string `json:"email"     validate:"required,email,max=191"`
	Bio       string `json:"bio"       validate:"required,max=2000"`
	Portfolio string `json:"portfolio" validate:"omitempty,url,max=2048"`
}

// ReviewDTO is the admin decision on a request.
type ReviewDTO struct {
	Status models.AuthorRequestStatus `json:"status" validate:"required,oneof=approved rejected"`
}
