package http

import (
	"strings"
	"time"

	"git.solsynth.dev/hypernet/chronicle/pkg/internal/cache"
	"git.solsynth.dev/hypernet/chronicle/pkg/internal/http/api"
	"git.solsynth.dev/hypernet/chronicle/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/chronicle/pkg/internal/http/views"
	"git.solsynth.dev/hypernet/chronicle/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type App struct {
	app *fiber.App
}

func NewServer(pages *cache.PageCache, media *services.MediaStore) *App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		EnableIPValidation:    true,
		ServerHeader:          "Hypernet.Chronicle",
		AppName:               "Hypernet.Chronicle",
		ProxyHeader:           fiber.HeaderXForwardedFor,
		JSONEncoder:           jsoniter.ConfigCompatibleWithStandardLibrary.Marshal,
		JSONDecoder:           jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal,
		BodyLimit:             int(services.GetMaxImageSize()) + 1<<20,
		EnablePrintRoutes:     viper.GetBool("debug.print_routes"),
		Views:                 views.NewEngine(),
		ViewsLayout:           views.DefaultLayout,
		ErrorHandler:          views.ErrorHandler,
	})

	app.Use(recover.New(recover.Config{
		EnableStackTrace: viper.GetBool("debug.stack_trace"),
	}))
	app.Use(logger.New(logger.Config{
		Format: "${status} | ${latency} | ${method} ${path}\n",
		Output: log.Logger,
	}))
	app.Use(exts.ContextMiddleware([]byte(viper.GetString("security.jwt_secret"))))

	app.Static("/media", media.Root(), fiber.Static{
		MaxAge: int((24 * time.Hour).Seconds()),
	})

	api.MapAPIs(app, "/api")
	views.NewController(pages, media, services.GetPageSize()).MapControllers(app)

	return &App{app}
}

func (v *App) Listen() {
	bind := viper.GetString("bind")
	if len(strings.TrimSpace(bind)) == 0 {
		bind = ":8000"
	}
	if err := v.app.Listen(bind); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when starting server...")
	}
}

func (v *App) Shutdown() error {
	return v.app.ShutdownWithTimeout(5 * time.Second)
}
