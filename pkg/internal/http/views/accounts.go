package views

import (
	"git.solsynth.dev/hypernet/chronicle/pkg/internal/database"
	"git.solsynth.dev/hypernet/chronicle/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/chronicle/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func (v *Controller) profile(c *fiber.Ctx) error {
	author, err := v.getAuthor(c)
	if err != nil {
		return err
	}

	page, items, err := services.PaginatePosts(services.FilterPostWithAuthor(database.C, author.ID), c.Query("page"), v.pageSize)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	followers, err := services.CountFollowers(author)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	following, err := services.CountFollowing(author)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	user := exts.GetAccount(c)
	return v.render(c, "posts/profile", fiber.Map{
		"title":           author.DisplayName(),
		"author":          author,
		"page":            page,
		"posts":           items,
		"posts_count":     page.Count,
		"followers_count": followers,
		"following_count": following,
		"following":       services.IsFollowing(user, author),
		"can_follow":      user != nil && user.ID != author.ID,
	})
}

func (v *Controller) followIndex(c *fiber.Ctx) error {
	user := exts.GetAccount(c)
	if user == nil {
		return exts.RedirectToLogin(c)
	}

	tx := services.FilterPostWithFollowing(database.C, user.ID)
	page, items, err := services.PaginatePosts(tx, c.Query("page"), v.pageSize)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return v.render(c, "posts/follow", fiber.Map{
		"title": "Following",
		"page":  page,
		"posts": items,
	})
}

// followAccount ignores following yourself.
func (v *Controller) followAccount(c *fiber.Ctx) error {
	user := exts.GetAccount(c)
	if user == nil {
		return exts.RedirectToLogin(c)
	}

	author, err := v.getAuthor(c)
	if err != nil {
		return err
	}

	if author.ID != user.ID {
		if err := services.FollowAccount(*user, author); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
	}

	return c.Redirect("/"+author.Name, fiber.StatusFound)
}

func (v *Controller) unfollowAccount(c *fiber.Ctx) error {
	user := exts.GetAccount(c)
	if user == nil {
		return exts.RedirectToLogin(c)
	}

	author, err := v.getAuthor(c)
	if err != nil {
		return err
	}

	if err := services.UnfollowAccount(*user, author); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.Redirect("/"+author.Name, fiber.StatusFound)
}
