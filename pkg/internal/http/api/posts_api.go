package api

import (
	"errors"

	"git.solsynth.dev/hypernet/chronicle/pkg/internal/database"
	"git.solsynth.dev/hypernet/chronicle/pkg/internal/models"
	"git.solsynth.dev/hypernet/chronicle/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func universalPostFilter(c *fiber.Ctx, tx *gorm.DB) (*gorm.DB, error) {
	if len(c.Query("author")) > 0 {
		author, err := services.GetAccountByName(c.Query("author"))
		if err != nil {
			return tx, fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		tx = services.FilterPostWithAuthor(tx, author.ID)
	}

	if len(c.Query("group")) > 0 {
		group, err := services.GetGroupBySlug(c.Query("group"))
		if err != nil {
			return tx, fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		tx = services.FilterPostWithGroup(tx, group.ID)
	}

	return tx, nil
}

func getPost(c *fiber.Ctx) error {
	id, err := c.ParamsInt("postId", 0)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	item, err := services.GetPost(database.C, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	comments, err := services.ListPostComments(item)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(struct {
		models.Post
		Comments []models.Comment `json:"comments"`
	}{item, comments})
}

func listPost(c *fiber.Ctx) error {
	take := c.QueryInt("take", services.GetPageSize())
	offset := c.QueryInt("offset", 0)
	if take < 0 || offset < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "take and offset cannot be negative")
	}

	tx := database.C

	var err error
	if tx, err = universalPostFilter(c, tx); err != nil {
		return err
	}

	countTx := tx.Session(&gorm.Session{})
	count, err := services.CountPost(countTx)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	items, err := services.ListPost(tx.Session(&gorm.Session{}), take, offset, services.PostDefaultOrder)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(fiber.Map{
		"count": count,
		"data":  items,
	})
}
