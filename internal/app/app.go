package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/notedrop/notedrop/internal/authz"
	"github.com/notedrop/notedrop/internal/config"
	"github.com/notedrop/notedrop/internal/db"
	"github.com/notedrop/notedrop/internal/repository"
	"github.com/notedrop/notedrop/internal/service"
	"github.com/notedrop/notedrop/internal/storage"
)

type App struct {
	Cfg            *config.Config
	DB             *sqlx.DB
	Gate           *authz.Gate
	SessionService *service.SessionService
	UserService    *service.UserService
	NoteService    *service.NoteService
	ImageService   *service.ImageService
	FetchService   *service.FetchService
	ContentService *service.ContentService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	noteRepository := repository.NewNoteRepository(database)
	imageRepository := repository.NewImageRepository(database)

	// Image pool
	pool, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize image pool: %v", err)
	}

	// Services
	sessionService := service.NewSessionService(userRepository, cfg.SessionSecret, cfg.IsProduction(), cfg.SessionExpiry)
	imageService := service.NewImageService(imageRepository, pool, cfg.StrictUploads)
	noteService := service.NewNoteService(noteRepository, cfg.NoteMaxLen)
	userService := service.NewUserService(userRepository, sessionService, imageService)
	fetchService := service.NewFetchService(cfg.FetchTimeout)
	contentService := service.NewContentService()

	// The reserved admin account must always exist
	err = userService.EnsureAdmin(cfg.AdminPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure admin account: %v", err)
	}

	return &App{
		Cfg:            cfg,
		DB:             database,
		Gate:           authz.NewGate(cfg.StrictOwnership),
		SessionService: sessionService,
		UserService:    userService,
		NoteService:    noteService,
		ImageService:   imageService,
		FetchService:   fetchService,
		ContentService: contentService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
