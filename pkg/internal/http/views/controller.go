package views

import (
	"errors"
	"fmt"
	"strconv"

	"git.solsynth.dev/hypernet/chronicle/pkg/internal/cache"
	"git.solsynth.dev/hypernet/chronicle/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/chronicle/pkg/internal/models"
	"git.solsynth.dev/hypernet/chronicle/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Controller serves the html pages.
type Controller struct {
	pages    *cache.PageCache
	media    *services.MediaStore
	pageSize int
}

func NewController(pages *cache.PageCache, media *services.MediaStore, pageSize int) *Controller {
	return &Controller{
		pages:    pages,
		media:    media,
		pageSize: pageSize,
	}
}

// MapControllers must run after every fixed top level route,
// the profile route swallows any single segment path.
func (v *Controller) MapControllers(app *fiber.App) {
	app.Get("/", v.index)
	app.Get("/group/:slug", v.groupPosts)
	app.Get("/new", v.createPost)
	app.Post("/new", v.createPost)
	app.Get("/follow", v.followIndex)

	app.Get("/:username", v.profile)
	app.Get("/:username/follow", v.followAccount)
	app.Get("/:username/unfollow", v.unfollowAccount)
	app.Get("/:username/:postId<int>", v.postDetail)
	app.Get("/:username/:postId<int>/edit", v.editPost)
	app.Post("/:username/:postId<int>/edit", v.editPost)
	app.Get("/:username/:postId<int>/comment", v.addComment)
	app.Post("/:username/:postId<int>/comment", v.addComment)
}

func (v *Controller) render(c *fiber.Ctx, name string, data fiber.Map) error {
	data["user"] = exts.GetAccount(c)
	return c.Render(name, data)
}

func wrapQueryError(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("%s was not found", what))
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}

func (v *Controller) getAuthor(c *fiber.Ctx) (models.Account, error) {
	author, err := services.GetAccountByName(c.Params("username"))
	if err != nil {
		return author, wrapQueryError(err, "author")
	}
	return author, nil
}

func (v *Controller) getPost(c *fiber.Ctx) (models.Post, error) {
	id, err := strconv.ParseUint(c.Params("postId"), 10, 64)
	if err != nil {
		return models.Post{}, fiber.NewError(fiber.StatusNotFound, "post was not found")
	}
	post, err := services.GetPostByAuthorName(c.Params("username"), uint(id))
	if err != nil {
		return post, wrapQueryError(err, "post")
	}
	return post, nil
}
