package services

import (
	"fmt"

	"git.solsynth.dev/hypernet/chronicle/pkg/internal/database"
	"git.solsynth.dev/hypernet/chronicle/pkg/internal/models"
	"gorm.io/gorm"
)

func ListGroups() ([]models.Group, error) {
	var groups []models.Group
	err := database.C.Order("title ASC").Find(&groups).Error

	return groups, err
}

func GetGroup(id uint) (models.Group, error) {
	var group models.Group
	if err := database.C.Where("id = ?", id).First(&group).Error; err != nil {
		return group, err
	}
	return group, nil
}

func GetGroupBySlug(slug string) (models.Group, error) {
	var group models.Group
	if err := database.C.Where("slug = ?", slug).First(&group).Error; err != nil {
		return group, err
	}
	return group, nil
}

func NewGroup(title, slug, description string) (models.Group, error) {
	group := models.Group{
		Title:       title,
		Slug:        slug,
		Description: description,
	}

	if len(group.Title) == 0 || len(group.Slug) == 0 {
		return group, fmt.Errorf("group title and slug cannot be empty")
	}

	err := database.C.Create(&group).Error

	return group, err
}

// DeleteGroup keeps the posts of the group and just detaches them.
func DeleteGroup(group models.Group) error {
	return database.C.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).
			Where("group_id = ?", group.ID).
			Update("group_id", nil).Error; err != nil {
			return fmt.Errorf("unable to detach posts from group: %v", err)
		}
		return tx.Delete(&group).Error
	})
}
