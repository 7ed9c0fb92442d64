package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	pkg "git.solsynth.dev/hypernet/chronicle/pkg/internal"
	"git.solsynth.dev/hypernet/chronicle/pkg/internal/cache"
	"git.solsynth.dev/hypernet/chronicle/pkg/internal/database"
	"git.solsynth.dev/hypernet/chronicle/pkg/internal/grpc"
	"git.solsynth.dev/hypernet/chronicle/pkg/internal/http"
	"git.solsynth.dev/hypernet/chronicle/pkg/internal/services"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {
	// Booting screen
	fmt.Println(color.YellowString("  ____ _                     _      _\n / ___| |__  _ __ ___  _ __ (_) ___| | ___\n| |   | '_ \\| '__/ _ \\| '_ \\| |/ __| |/ _ \\\n| |___| | | | | | (_) | | | | | (__| |  __/\n \\____|_| |_|_|  \\___/|_| |_|_|\\___|_|\\___|"))
	fmt.Printf("%s v%s\n", color.New(color.FgHiYellow).Add(color.Bold).Sprintf("Hypernet.Chronicle"), pkg.AppVersion)
	fmt.Printf("The little blogging community in Hypernet\n")
	color.HiBlack("=====================================================\n")

	// Environment overrides
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("An error occurred when loading .env file.")
	}

	// Configure settings
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("settings")
	viper.SetConfigType("toml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("bind", ":8000")
	viper.SetDefault("grpc_bind", ":7000")
	viper.SetDefault("cache.driver", "memory")
	viper.SetDefault("cache.ttl", cache.DefaultPageTTL)
	viper.SetDefault("posts.page_size", services.DefaultPageSize)
	viper.SetDefault("media.dir", "./uploads")
	viper.SetDefault("media.max_size", services.DefaultMaxImageSize)

	// Load settings
	if err := viper.ReadInConfig(); err != nil {
		log.Panic().Err(err).Msg("An error occurred when loading settings.")
	}

	if viper.GetBool("debug.print_logs") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	if len(viper.GetString("security.jwt_secret")) == 0 {
		log.Warn().Msg("No jwt secret configured, every visitor will be anonymous.")
	}

	// Connect to database
	if err := database.NewGorm(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when connect to database.")
	} else if err := database.RunMigration(database.C); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when running database auto migration.")
	}

	// Prepare page cache
	pages, err := cache.NewPageCacheFromConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("An error occurred when initializing page cache.")
	}

	media := services.NewMediaStoreFromConfig()

	// Configure timed tasks
	quartz := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(&log.Logger)))
	if _, err := quartz.AddFunc("@every 60m", media.DoAutoCleanup); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when scheduling media cleanup.")
	}
	quartz.Start()

	// Server
	server := http.NewServer(pages, media)
	go server.Listen()

	probes := grpc.NewGrpc()
	go func() {
		if err := probes.Listen(); err != nil {
			log.Error().Err(err).Msg("An error occurred when starting grpc server...")
		}
	}()

	// Messages
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down...")
	probes.Stop()
	if err := server.Shutdown(); err != nil {
		log.Error().Err(err).Msg("An error occurred when shutting down http server...")
	}
	<-quartz.Stop().Done()
	if err := database.Close(); err != nil {
		log.Error().Err(err).Msg("An error occurred when closing database...")
	}
}
