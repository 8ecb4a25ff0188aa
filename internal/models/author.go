package models

import "time"

// SocialLinks are the optional profile links of a byline author.
type SocialLinks struct {
	Website  string `json:"website,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
	Github   string `json:"github,omitempty"`
	Linkedin string `json:"linkedin,omitempty"`
}

// AuthorModel is a display byline, distinct from the user who owns a post.
type AuthorModel struct {
	Base
	Name   string      `json:"name"   gorm:"size:191;not null"`
	Email  string      `json:"email"  gorm:"size:191;index"`
	Bio    string      `json:"bio"    gorm:"type:text"`
	Image  string      `json:"image"`
	Social SocialLinks `json:"social" gorm:"type:text;serializer:json"`
}

func (AuthorModel) TableName() string { return "authors" }

// AuthorRequestStatus is the review state of an author application.
type AuthorRequestStatus string

const (
	AuthorRequestPending  AuthorRequestStatus = "pending"
	AuthorRequestApproved AuthorRequestStatus = "approved"
	AuthorRequestRejected AuthorRequestStatus = "rejected"
)

// Valid reports whether s is a known status.
func (s AuthorRequestStatus) Valid() bool {
	switch s {
	case AuthorRequestPending, AuthorRequestApproved, AuthorRequestRejected:
		return true
	}
	return false
}

// AuthorRequestModel is a user's application to become a byline author.
type AuthorRequestModel struct {
	Base
	UserID     string              `json:"user_id"     gorm:"type:char(36);index;not null"`
	Name       string              `json:"name"        gorm:"size:191;not null"`
	Email      string              `json:"email"       gorm:"size:191;index;not null"`
	Bio        string              `json:"bio"         gorm:"type:text"`
	Portfolio  string              `json:"portfolio"`
	Status     AuthorRequestStatus `json:"status"      gorm:"size:16;index;default:'pending'"`
	AuthorID   *string             `json:"author_id"   gorm:"type:char(36)"`
	ReviewedBy *string             `json:"reviewed_by" gorm:"type:char(36)"`
	ReviewedAt *time.Time          `json:"reviewed_at"`
}

func (AuthorRequestModel) TableName() string { return "author_requests" }
