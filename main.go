package main

import (
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/meicontrol/backend/internal/config"
	"github.com/meicontrol/backend/internal/models"
	"github.com/meicontrol/backend/internal/router"
	"github.com/meicontrol/backend/internal/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// @title						MEI Control
// @description				Bookkeeping and fiscal obligations for Brazilian solo entrepreneurs
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
// @description				Session token, prefixed with "Bearer "
func main() {
	// gin uses debug as the default mode, we use release for
	// security reasons
	ginMode, ok := os.LookupEnv("GIN_MODE")
	if !ok {
		gin.SetMode("release")
	} else {
		gin.SetMode(ginMode)
	}

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	logFormat, ok := os.LookupEnv("LOG_FORMAT")
	output := io.Writer(os.Stdout)
	if (!ok && gin.IsDebugging()) || (ok && logFormat == "human") {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	// Create the data directory for the database file
	err = os.MkdirAll(filepath.Dir(cfg.DBConnectionString), os.ModePerm)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	// Connect to the database and migrate the schema
	err = models.Connect(cfg.DBConnectionString)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	store, err := storage.New(cfg.UploadDir)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	apiURL, err := url.Parse(cfg.APIURL)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	r, teardown, err := router.Config(apiURL, cfg.CORSAllowOrigins)
	defer teardown()

	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	router.AttachRoutes(cfg, store, r.Group("/"))

	if err := r.Run(); err != nil {
		log.Fatal().Msg(err.Error())
	}
}
