package models

import (
	"fmt"
	"time"
)

type Post struct {
	BaseModel

	Text        string    `json:"text" gorm:"type:text;not null"`
	Language    string    `json:"language" gorm:"size:16"`
	PublishedAt time.Time `json:"published_at" gorm:"index"`
	Image       *string   `json:"image"`

	AuthorID uint    `json:"author_id"`
	Author   Account `json:"author" gorm:"constraint:OnDelete:CASCADE"`

	GroupID *uint  `json:"group_id"`
	Group   *Group `json:"group" gorm:"constraint:OnDelete:SET NULL"`
}

// URL needs the author to be preloaded.
func (v Post) URL() string {
	return fmt.Sprintf("/%s/%d", v.Author.Name, v.ID)
}

func (v Post) ImageURL() string {
	if v.Image == nil || len(*v.Image) == 0 {
		return ""
	}
	return "/media/" + *v.Image
}

// Excerpt returns the first 15 characters of the text.
func (v Post) Excerpt() string {
	runes := []rune(v.Text)
	if len(runes) > 15 {
		return string(runes[:15])
	}
	return v.Text
}
