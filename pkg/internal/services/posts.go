package services

import (
	"fmt"
	"time"

	"git.solsynth.dev/hypernet/chronicle/pkg/internal/database"
	"git.solsynth.dev/hypernet/chronicle/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostDefaultOrder is newest first, the id breaks ties between posts published together.
const PostDefaultOrder = "published_at DESC, id DESC"

func FilterPostWithAuthor(tx *gorm.DB, uid uint) *gorm.DB {
	return tx.Where("author_id = ?", uid)
}

func FilterPostWithAuthorName(tx *gorm.DB, name string) *gorm.DB {
	accounts := tx.Session(&gorm.Session{NewDB: true}).
		Model(&models.Account{}).
		Select("id").
		Where("name = ?", name)
	return tx.Where("author_id IN (?)", accounts)
}

func FilterPostWithGroup(tx *gorm.DB, gid uint) *gorm.DB {
	return tx.Where("group_id = ?", gid)
}

// FilterPostWithFollowing keeps posts whose author is followed by the user.
func FilterPostWithFollowing(tx *gorm.DB, uid uint) *gorm.DB {
	following := tx.Session(&gorm.Session{NewDB: true}).
		Model(&models.Follow{}).
		Select("author_id").
		Where("follower_id = ?", uid)
	return tx.Where("author_id IN (?)", following)
}

func PreloadGeneral(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Author").
		Preload("Group")
}

func GetPost(tx *gorm.DB, id uint) (models.Post, error) {
	var item models.Post
	if err := PreloadGeneral(tx).
		Where("id = ?", id).
		First(&item).Error; err != nil {
		return item, err
	}

	return item, nil
}

// GetPostByAuthorName only resolves when the post belongs to the named author.
func GetPostByAuthorName(name string, id uint) (models.Post, error) {
	return GetPost(FilterPostWithAuthorName(database.C, name), id)
}

func CountPost(tx *gorm.DB) (int64, error) {
	var count int64
	if err := tx.Model(&models.Post{}).Count(&count).Error; err != nil {
		return count, err
	}

	return count, nil
}

func ListPost(tx *gorm.DB, take int, offset int, order any) ([]*models.Post, error) {
	if take > 100 {
		take = 100
	}

	var items []*models.Post
	if err := PreloadGeneral(tx).
		Limit(take).Offset(offset).
		Order(order).
		Find(&items).Error; err != nil {
		return items, err
	}

	return items, nil
}

// PaginatePosts counts the filtered posts and loads the requested page of them.
func PaginatePosts(tx *gorm.DB, page string, size int) (Pagination, []*models.Post, error) {
	tx = tx.Session(&gorm.Session{})

	count, err := CountPost(tx)
	if err != nil {
		return Pagination{}, nil, fmt.Errorf("unable to count posts: %v", err)
	}

	pagination := NewPagination(count, size, page)
	items, err := ListPost(tx, pagination.Size, pagination.Offset(), PostDefaultOrder)
	if err != nil {
		return pagination, nil, fmt.Errorf("unable to list posts: %v", err)
	}

	return pagination, items, nil
}

func NewPost(author models.Account, item models.Post) (models.Post, error) {
	item.AuthorID = author.ID
	item.PublishedAt = time.Now()
	item.Language = DetectLanguage(item.Text)

	log.Debug().Uint("author", author.ID).Str("language", item.Language).Msg("Posting a post...")

	if err := database.C.Omit(clause.Associations).Create(&item).Error; err != nil {
		return item, err
	}

	item.Author = author
	log.Info().Uint("post", item.ID).Uint("author", author.ID).Msg("New post was published.")
	return item, nil
}

// EditPost writes back the editable fields, the publish time is never touched.
func EditPost(item models.Post) (models.Post, error) {
	item.Language = DetectLanguage(item.Text)

	err := database.C.
		Model(&item).
		Omit(clause.Associations).
		Select("text", "language", "group_id", "image", "updated_at").
		Updates(&item).Error
	if err != nil {
		return item, err
	}

	return GetPost(database.C, item.ID)
}

func DeletePost(item models.Post) error {
	return database.C.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", item.ID).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("unable to delete comments: %v", err)
		}
		return tx.Delete(&item).Error
	})
}
