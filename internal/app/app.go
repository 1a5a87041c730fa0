package app

import (
	"context"
	"fmt"
	"time"

	"portfolio/internal/config"
	"portfolio/internal/db"
	"portfolio/internal/githubapi"
	"portfolio/internal/handlers"
	"portfolio/internal/logger"
	"portfolio/internal/models"
	"portfolio/internal/ratelimit"
	"portfolio/internal/repository"
	"portfolio/internal/routes"
	"portfolio/internal/services"
	"portfolio/internal/storage"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	mailQueueSize  = 100
	mailWorkers    = 3
	rateLimitSweep = 10 * time.Minute
)

// App: собранное приложение и то, что нужно закрыть при остановке.
type App struct {
	Router *mux.Router

	pool      *pgxpool.Pool
	stopLimit func()
	mailQueue *services.MailQueue
}

func InitApp(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := db.RunMigrations(cfg.GetDSN(), "up"); err != nil {
		return nil, err
	}
	logger.Log.Info("Миграции применены")

	conn, err := db.NewPostgresConnection(cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	a := &App{pool: conn}

	limits, stop, err := newRateLimitStore(ctx, cfg)
	if err != nil {
		conn.Close()
		return nil, err
	}
	a.stopLimit = stop

	store, err := storage.New(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("storage: %w", err)
	}

	// Репозитории
	userRepo := repository.NewUserRepo(conn)
	projectRepo := repository.NewProjectRepo(conn)
	blogRepo := repository.NewBlogRepo(conn)
	profileRepo := repository.NewProfileRepo(conn)

	// Почта
	emailService := services.NewEmailService(cfg)
	a.mailQueue = services.NewMailQueue(emailService, mailQueueSize)
	a.mailQueue.Start(mailWorkers)

	// Сервисы
	authService := services.NewAuthService(userRepo, limits, cfg.JWTSecret, cfg.AccessTTL())
	passwordService := services.NewPasswordService(userRepo, emailService, limits, cfg.SiteURL, cfg.Env == "dev")
	gh := githubapi.NewClient(cfg.GitHubToken, cfg.GitHubAPIURL, cfg.GitHubRawURL)
	syncService := services.NewProjectSyncService(gh, projectRepo, cfg.GitHubToken, cfg.GitHubUsername)
	projectService := services.NewProjectService(projectRepo)
	blogService := services.NewBlogService(blogRepo)
	contentService := services.NewContentService(
		repository.NewSkillRepo(conn),
		repository.NewExperienceRepo(conn),
		repository.NewEducationRepo(conn),
		repository.NewSocialLinkRepo(conn),
		profileRepo,
	)
	resumeService := services.NewResumeService(contentService, services.ResumeOwner{
		Name:     cfg.ResumeOwnerName,
		Email:    cfg.ResumeEmail,
		LinkedIn: cfg.ResumeLinkedIn,
		GitHub:   cfg.ResumeGitHub,
	})
	contactService := services.NewContactService(emailService, a.mailQueue, cfg.ContactEmail, cfg.ResumeOwnerName)
	uploadService := services.NewUploadService(store)

	if err := authService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName); err != nil {
		logger.Log.Warn("Администратор не создан", zap.Error(err))
	}

	// Хендлеры
	h := routes.Handlers{
		Auth:        handlers.NewAuthHandler(authService),
		Password:    handlers.NewPasswordHandler(passwordService),
		Projects:    handlers.NewProjectHandler(projectService, syncService),
		Blog:        handlers.NewBlogHandler(blogService),
		Profile:     handlers.NewProfileHandler(contentService),
		Skills:      handlers.NewCollectionHandler[models.Skill](contentService.Skills),
		Experiences: handlers.NewCollectionHandler[models.Experience](contentService.Experiences),
		Educations:  handlers.NewCollectionHandler[models.Education](contentService.Educations),
		SocialLinks: handlers.NewCollectionHandler[models.SocialLink](contentService.SocialLinks),
		Resume:      handlers.NewResumeHandler(resumeService),
		Contact:     handlers.NewContactHandler(contactService),
		Upload:      handlers.NewUploadHandler(uploadService),
		Logs:        handlers.NewLogsHandler("logs"),
	}

	a.Router = mux.NewRouter()
	routes.InitRoutes(a.Router, h, cfg.JWTSecret)
	return a, nil
}

// newRateLimitStore: redis при RATE_LIMIT_BACKEND=redis, иначе память процесса.
func newRateLimitStore(ctx context.Context, cfg *config.Config) (ratelimit.Store, func(), error) {
	if cfg.RateLimitBackend == "redis" {
		client, err := ratelimit.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		logger.Log.Info("Лимиты запросов хранятся в Redis")
		return ratelimit.NewRedisStore(client), func() { _ = client.Close() }, nil
	}

	mem := ratelimit.NewMemoryStore(rateLimitSweep)
	return mem, mem.Stop, nil
}

// Close дожидается отправки писем из очереди и закрывает соединения.
func (a *App) Close() {
	if a.mailQueue != nil {
		a.mailQueue.Close()
	}
	if a.stopLimit != nil {
		a.stopLimit()
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
