package views

import (
	"embed"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"git.solsynth.dev/hypernet/chronicle/pkg/internal/http/exts"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

//go:embed templates
var templates embed.FS

const DefaultLayout = "layouts/main"

func NewEngine() *html.Engine {
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		log.Fatal().Err(err).Msg("An error occurred when loading templates...")
	}

	engine := html.NewFileSystem(http.FS(sub), ".gohtml")
	engine.Debug(viper.GetBool("debug.templates"))
	engine.AddFunc("date", func(t time.Time) string {
		return t.Format("2 January 2006")
	})
	engine.AddFunc("datetime", func(t time.Time) string {
		return t.Format("2 January 2006 15:04")
	})
	engine.AddFunc("loginURL", exts.GetLoginURL)

	return engine
}

// ErrorHandler renders the error pages. Other client errors are sent as plain text.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	c.Status(code)
	switch {
	case code == fiber.StatusNotFound:
		if rerr := c.Render("misc/404", fiber.Map{
			"title": "Page not found",
			"path":  c.Path(),
		}); rerr == nil {
			return nil
		}
	case code >= fiber.StatusInternalServerError:
		log.Error().Err(err).Str("path", c.Path()).Msg("An error occurred when handling request...")
		if rerr := c.Render("misc/500", fiber.Map{
			"title": "Server error",
		}); rerr == nil {
			return nil
		}
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(err.Error())
}
