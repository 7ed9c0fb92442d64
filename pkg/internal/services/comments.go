package services

import (
	"fmt"

	"git.solsynth.dev/hypernet/chronicle/pkg/internal/database"
	"git.solsynth.dev/hypernet/chronicle/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm/clause"
)

// ListPostComments returns comments in the order they were written.
func ListPostComments(post models.Post) ([]models.Comment, error) {
	var comments []models.Comment
	if err := database.C.
		Where("post_id = ?", post.ID).
		Preload("Author").
		Order("created_at ASC, id ASC").
		Find(&comments).Error; err != nil {
		return comments, fmt.Errorf("unable to list comments: %v", err)
	}
	return comments, nil
}

func NewComment(author models.Account, post models.Post, item models.Comment) (models.Comment, error) {
	item.AuthorID = author.ID
	item.PostID = post.ID

	if err := database.C.Omit(clause.Associations).Create(&item).Error; err != nil {
		return item, err
	}

	item.Author = author
	log.Debug().Uint("post", post.ID).Uint("comment", item.ID).Msg("New comment was added.")
	return item, nil
}
