package models

type Comment struct {
	BaseModel

	Text string `json:"text" gorm:"type:text;not null"`

	PostID uint  `json:"post_id" gorm:"index"`
	Post   *Post `json:"-" gorm:"constraint:OnDelete:CASCADE"`

	AuthorID uint    `json:"author_id"`
	Author   Account `json:"author" gorm:"constraint:OnDelete:CASCADE"`
}
