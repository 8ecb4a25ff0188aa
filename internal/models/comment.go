package models

// CommentModel is a reader comment on a post.
type CommentModel struct {
	Base
	Content string      `json:"content" gorm:"size:500;not null"`
	PostID  string      `json:"post_id" gorm:"type:char(36);index;not null"`
	UserID  string      `json:"user_id" gorm:"type:char(36);index;not null"`
	User    *UserModel  `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Likes   StringArray `json:"likes"   gorm:"type:json"`
}

func (CommentModel) TableName() string { return "comments" }
