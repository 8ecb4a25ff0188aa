package models

// CategoryModel is a post category. Posts reference it by name.
type CategoryModel struct {
	Base
	Name        string `json:"name"        gorm:"size:191;uniqueIndex;not null"`
	Slug        string `json:"slug"        gorm:"size:191;uniqueIndex;not null"`
	Description string `json:"description"`
}

func (CategoryModel) TableName() string { return "categories" }
