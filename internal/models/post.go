package models

// PostModel is a blog post.
type PostModel struct {
	Base
	Title           string       `json:"title"            gorm:"size:200;not null"`
	Slug            string       `json:"slug"             gorm:"size:191;uniqueIndex;not null"`
	Content         string       `json:"content"          gorm:"type:longtext"`
	Excerpt         string       `json:"excerpt"          gorm:"size:300"`
	Image           string       `json:"image"`
	Category        string       `json:"category"         gorm:"size:191;index"`
	AuthorID        string       `json:"author_id"        gorm:"type:char(36);index;not null"`
	Author          *UserModel   `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	AuthorProfileID *string      `json:"author_profile_id" gorm:"type:char(36);index"`
	AuthorProfile   *AuthorModel `json:"author_profile,omitempty" gorm:"foreignKey:AuthorProfileID"`
	Featured        bool         `json:"featured"         gorm:"default:false;index"`
	Published       bool         `json:"published"        gorm:"default:false;index"`
	Likes           int          `json:"likes"            gorm:"default:0"`
	MetaTitle       string       `json:"meta_title"       gorm:"size:60"`
	MetaDescription string       `json:"meta_description" gorm:"size:160"`
	Keywords        string       `json:"keywords"`
}

func (PostModel) TableName() string { return "posts" }

// FavoriteModel is one entry of a user's favorites list.
type FavoriteModel struct {
	Base
	UserID string `json:"user_id" gorm:"type:char(36);not null;uniqueIndex:idx_favorite_user_post"`
	PostID string `json:"post_id" gorm:"type:char(36);not null;uniqueIndex:idx_favorite_user_post;index"`
}

func (FavoriteModel) TableName() string { return "favorites" }
