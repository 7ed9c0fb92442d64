package api

import "github.com/gofiber/fiber/v2"

func MapAPIs(app *fiber.App, baseURL string) {
	api := app.Group(baseURL)
	{
		posts := api.Group("/posts")
		{
			posts.Get("/", listPost)
			posts.Get("/:postId<int>", getPost)
		}

		api.Get("/groups", listGroup)
	}
}
