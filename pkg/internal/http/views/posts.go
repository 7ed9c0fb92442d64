package views

import (
	"fmt"

	"git.solsynth.dev/hypernet/chronicle/pkg/internal/database"
	"git.solsynth.dev/hypernet/chronicle/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/chronicle/pkg/internal/models"
	"git.solsynth.dev/hypernet/chronicle/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// homeCacheKey keeps one cache entry per page of the feed, other query parameters are ignored.
func homeCacheKey(c *fiber.Ctx, page int) string {
	return fmt.Sprintf("%s?page=%d", c.Path(), page)
}

func (v *Controller) index(c *fiber.Ctx) error {
	key := homeCacheKey(c, services.ParsePageNumber(c.Query("page")))
	if body, ok := v.pages.Get(c.UserContext(), key); ok {
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.Send(body)
	}

	page, items, err := services.PaginatePosts(database.C, c.Query("page"), v.pageSize)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	if err := v.render(c, "posts/index", fiber.Map{
		"title": "Latest posts",
		"page":  page,
		"posts": items,
	}); err != nil {
		return err
	}

	// Out of range pages are stored under the page actually shown
	key = homeCacheKey(c, page.Number)
	if err := v.pages.Set(c.UserContext(), key, c.Response().Body()); err != nil {
		log.Warn().Err(err).Str("url", key).Msg("Unable to cache rendered page...")
	}
	return nil
}

func (v *Controller) groupPosts(c *fiber.Ctx) error {
	group, err := services.GetGroupBySlug(c.Params("slug"))
	if err != nil {
		return wrapQueryError(err, "group")
	}

	tx := services.FilterPostWithGroup(database.C, group.ID)
	page, items, err := services.PaginatePosts(tx, c.Query("page"), v.pageSize)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return v.render(c, "posts/group", fiber.Map{
		"title": group.Title,
		"group": group,
		"page":  page,
		"posts": items,
	})
}

func (v *Controller) bindPostForm(c *fiber.Ctx) (services.PostCreateForm, error) {
	var form services.PostCreateForm
	if err := c.BodyParser(&form); err != nil {
		return form, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if header, err := c.FormFile("image"); err == nil && header.Size > 0 {
		form.Image = header
	}
	return form, nil
}

func (v *Controller) renderPostForm(c *fiber.Ctx, form services.PostCreateForm, post *models.Post) error {
	groups, err := services.ListGroups()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return v.render(c, "posts/new", fiber.Map{
		"title":   lo.Ternary(post != nil, "Edit post", "New post"),
		"form":    form,
		"groups":  groups,
		"is_edit": post != nil,
		"post":    post,
	})
}

func (v *Controller) storeImage(form services.PostCreateForm) (*string, error) {
	name, err := v.media.SaveImage(form.Image, form.ImageExtension())
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return &name, nil
}

func (v *Controller) createPost(c *fiber.Ctx) error {
	user := exts.GetAccount(c)
	if user == nil {
		return exts.RedirectToLogin(c)
	}

	if c.Method() != fiber.MethodPost {
		return v.renderPostForm(c, services.PostCreateForm{Errors: services.FormErrors{}}, nil)
	}

	form, err := v.bindPostForm(c)
	if err != nil {
		return err
	}
	if !form.Validate() {
		return v.renderPostForm(c, form, nil)
	}

	post := form.Save(models.Post{})
	if form.Image != nil {
		if post.Image, err = v.storeImage(form); err != nil {
			return err
		}
	}

	if _, err := services.NewPost(*user, post); err != nil {
		if post.Image != nil {
			_ = v.media.Remove(*post.Image)
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.Redirect("/", fiber.StatusFound)
}

func (v *Controller) editPost(c *fiber.Ctx) error {
	post, err := v.getPost(c)
	if err != nil {
		return err
	}

	if !services.CanEditPost(exts.GetAccount(c), post) {
		return c.Redirect(post.URL(), fiber.StatusFound)
	}

	if c.Method() != fiber.MethodPost {
		return v.renderPostForm(c, services.PostFormFromPost(post), &post)
	}

	form, err := v.bindPostForm(c)
	if err != nil {
		return err
	}
	if !form.Validate() {
		return v.renderPostForm(c, form, &post)
	}

	previous := post.Image
	updated := form.Save(post)
	if form.Image != nil {
		if updated.Image, err = v.storeImage(form); err != nil {
			return err
		}
	} else if form.ShouldClearImage() {
		updated.Image = nil
	}

	if _, err := services.EditPost(updated); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	if previous != nil && (updated.Image == nil || *updated.Image != *previous) {
		if err := v.media.Remove(*previous); err != nil {
			log.Warn().Err(err).Uint("post", post.ID).Msg("Unable to remove replaced image...")
		}
	}

	return c.Redirect(post.URL(), fiber.StatusFound)
}

func (v *Controller) postDetail(c *fiber.Ctx) error {
	post, err := v.getPost(c)
	if err != nil {
		return err
	}

	comments, err := services.ListPostComments(post)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	count, err := services.CountAccountPosts(post.Author)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return v.render(c, "posts/post", fiber.Map{
		"title":       post.Excerpt(),
		"post":        post,
		"comments":    comments,
		"form":        services.CommentForm{Errors: services.FormErrors{}},
		"posts_count": count,
		"can_edit":    services.CanEditPost(exts.GetAccount(c), post),
	})
}

// addComment always goes back to the post, an invalid comment is dropped.
func (v *Controller) addComment(c *fiber.Ctx) error {
	user := exts.GetAccount(c)
	if user == nil {
		return exts.RedirectToLogin(c)
	}

	var form services.CommentForm
	if c.Method() == fiber.MethodPost {
		if err := c.BodyParser(&form); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
	}

	if form.Validate() {
		post, err := v.getPost(c)
		if err != nil {
			return err
		}
		if _, err := services.NewComment(*user, post, form.Save(models.Comment{})); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
	} else {
		log.Debug().Any("errors", form.Errors).Str("path", c.Path()).Msg("Dropped invalid comment.")
	}

	return c.Redirect("/"+c.Params("username")+"/"+c.Params("postId"), fiber.StatusFound)
}
