package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/spf13/viper"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/brawlspace/brawlspace/internal/achievement"
	"github.com/brawlspace/brawlspace/internal/broadcast"
	"github.com/brawlspace/brawlspace/internal/database"
	"github.com/brawlspace/brawlspace/internal/mission"
)

var (
	gitRevision = "unknown"
	gitBranch   = "unknown"
)

type AppConfig struct {
	apiAddr string

	dbFile string

	jwtSecret string
	jwtTTL    time.Duration

	joinInProgress bool

	debug bool
}

type App struct {
	logger *slog.Logger
	config *AppConfig

	dbm         *database.DatabaseManager
	broadcaster *broadcast.Broadcaster
	notifier    *broadcast.Dispatcher
	engine      *mission.Engine
}

func NewApp(config *AppConfig) *App {
	app := &App{
		logger: slog.Default(),
		config: config,
	}

	db, err := getDatabase(config.dbFile)
	if err != nil {
		panic(err)
	}

	app.dbm = database.New(db)

	if err := app.dbm.Migrate(); err != nil {
		panic(err)
	}

	app.dbm.AddDefaults()

	app.broadcaster = broadcast.NewBroadcaster()
	app.notifier = broadcast.NewDispatcher()

	app.engine = mission.NewEngine(
		app.dbm,
		achievement.NewEvaluator(app.dbm),
		app.broadcaster,
		app.notifier,
		mission.Options{JoinInProgress: config.joinInProgress},
	)

	return app
}

func (app *App) Run() {
	go func() {
		if err := NewHTTPApi(app, app.config.apiAddr).Listen(); err != nil {
			panic(err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	<-c
	app.logger.Info("exiting...")
}

func getDatabase(file string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(file), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
}

func main() {
	fmt.Printf("version %s %s\n", gitRevision, gitBranch)

	var debug = flag.Bool("debug", false, "debug mode")

	var conf = flag.String("config", "brawlspace_server.yml", "name of config file")

	flag.Parse()

	viper.SetConfigFile(*conf)

	viper.SetDefault("api_addr", ":8080")
	viper.SetDefault("db", "brawlspace.sqlite")
	viper.SetDefault("join_in_progress", true)
	viper.SetDefault("jwt.ttl", "24h")

	if err := viper.ReadInConfig(); err != nil {
		fmt.Printf("error reading config: %v, using defaults\n", err)
	}

	config := &AppConfig{
		apiAddr:        viper.GetString("api_addr"),
		dbFile:         viper.GetString("db"),
		jwtSecret:      viper.GetString("jwt.secret"),
		jwtTTL:         viper.GetDuration("jwt.ttl"),
		joinInProgress: viper.GetBool("join_in_progress"),
		debug:          *debug,
	}

	if config.jwtSecret == "" {
		fmt.Println("jwt.secret is not set")
		os.Exit(1)
	}

	var h slog.Handler

	if *debug {
		h = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		h = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}

	slog.SetDefault(slog.New(h))

	NewApp(config).Run()
}
