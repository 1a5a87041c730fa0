package routes

import (
	"net/http"

	"portfolio/internal/handlers"
	"portfolio/internal/middleware"
	"portfolio/internal/models"

	"github.com/gorilla/mux"
)

// Handlers: всё, что подключается к роутеру.
type Handlers struct {
	Auth        *handlers.AuthHandler
	Password    *handlers.PasswordHandler
	Projects    *handlers.ProjectHandler
	Blog        *handlers.BlogHandler
	Profile     *handlers.ProfileHandler
	Skills      *handlers.CollectionHandler[models.Skill]
	Experiences *handlers.CollectionHandler[models.Experience]
	Educations  *handlers.CollectionHandler[models.Education]
	SocialLinks *handlers.CollectionHandler[models.SocialLink]
	Resume      *handlers.ResumeHandler
	Contact     *handlers.ContactHandler
	Upload      *handlers.UploadHandler
	Logs        *handlers.LogsHandler
}

type collection interface {
	List(http.ResponseWriter, *http.Request)
	Create(http.ResponseWriter, *http.Request)
	Update(http.ResponseWriter, *http.Request)
	Delete(http.ResponseWriter, *http.Request)
}

func mountCollection(dashboard *mux.Router, name string, h collection) {
	dashboard.HandleFunc("/"+name, h.List).Methods(http.MethodGet)
	dashboard.HandleFunc("/"+name, h.Create).Methods(http.MethodPost)
	dashboard.HandleFunc("/"+name+"/{id:[0-9]+}", h.Update).Methods(http.MethodPut)
	dashboard.HandleFunc("/"+name+"/{id:[0-9]+}", h.Delete).Methods(http.MethodDelete)
}

func InitRoutes(router *mux.Router, h Handlers, jwtSecret string) {
	router.Use(middleware.RequestID, middleware.Recoverer, middleware.ClientIP, middleware.Logging, middleware.Metrics)

	api := router.PathPrefix("/api").Subrouter()

	// --- Публичные маршруты ---
	api.HandleFunc("/auth/login", h.Auth.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/forgot-password", h.Password.Forgot).Methods(http.MethodPost)
	api.HandleFunc("/auth/reset-password", h.Password.Reset).Methods(http.MethodPost)

	api.HandleFunc("/projects", h.Projects.List).Methods(http.MethodGet)

	api.HandleFunc("/blogs", h.Blog.List).Methods(http.MethodGet)
	api.HandleFunc("/blogs/{slug}", h.Blog.Get).Methods(http.MethodGet)
	api.HandleFunc("/blogs/{slug}/reaction", h.Blog.React).Methods(http.MethodPost)
	api.HandleFunc("/blogs/{slug}/comment", h.Blog.Comment).Methods(http.MethodPost)

	api.HandleFunc("/skills", h.Skills.List).Methods(http.MethodGet)
	api.HandleFunc("/experience", h.Experiences.List).Methods(http.MethodGet)
	api.HandleFunc("/education", h.Educations.List).Methods(http.MethodGet)
	api.HandleFunc("/social-links", h.SocialLinks.List).Methods(http.MethodGet)
	api.HandleFunc("/home", h.Profile.GetHome).Methods(http.MethodGet)
	api.HandleFunc("/about", h.Profile.GetAbout).Methods(http.MethodGet)
	api.HandleFunc("/resume/download", h.Resume.Download).Methods(http.MethodGet)
	api.HandleFunc("/contact", h.Contact.Submit).Methods(http.MethodPost)

	// --- Защищённые JWT ---
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.JWTAuth(jwtSecret))
	protected.HandleFunc("/auth/me", h.Auth.Me).Methods(http.MethodGet)

	dashboard := protected.PathPrefix("/dashboard").Subrouter()
	dashboard.Use(middleware.OnlyRole(models.RoleAdmin))

	dashboard.HandleFunc("/projects", h.Projects.ListAll).Methods(http.MethodGet)
	dashboard.HandleFunc("/projects/sync", h.Projects.Sync).Methods(http.MethodPost)
	dashboard.HandleFunc("/projects/update-images", h.Projects.UpdateImages).Methods(http.MethodPost)
	dashboard.HandleFunc("/projects/update-language-percentages", h.Projects.UpdateLanguagePercentages).Methods(http.MethodPost)
	dashboard.HandleFunc("/projects/{id:[0-9]+}", h.Projects.Update).Methods(http.MethodPut)
	dashboard.HandleFunc("/projects/{id:[0-9]+}", h.Projects.Delete).Methods(http.MethodDelete)

	dashboard.HandleFunc("/blogs", h.Blog.ListAll).Methods(http.MethodGet)
	dashboard.HandleFunc("/blogs", h.Blog.Create).Methods(http.MethodPost)
	dashboard.HandleFunc("/blogs/{id:[0-9]+}", h.Blog.GetByID).Methods(http.MethodGet)
	dashboard.HandleFunc("/blogs/{id:[0-9]+}", h.Blog.Update).Methods(http.MethodPut)
	dashboard.HandleFunc("/blogs/{id:[0-9]+}", h.Blog.Delete).Methods(http.MethodDelete)

	mountCollection(dashboard, "skills", h.Skills)
	mountCollection(dashboard, "experience", h.Experiences)
	mountCollection(dashboard, "education", h.Educations)
	mountCollection(dashboard, "social-links", h.SocialLinks)

	dashboard.HandleFunc("/home", h.Profile.SaveHome).Methods(http.MethodPut)
	dashboard.HandleFunc("/about", h.Profile.SaveAbout).Methods(http.MethodPut)
	dashboard.HandleFunc("/upload", h.Upload.Upload).Methods(http.MethodPost)

	dashboard.HandleFunc("/logs", h.Logs.Logs).Methods(http.MethodGet)
	dashboard.HandleFunc("/logs/days", h.Logs.Days).Methods(http.MethodGet)
	dashboard.HandleFunc("/logs/stats", h.Logs.Stats).Methods(http.MethodGet)
}
