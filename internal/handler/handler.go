package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"blogCPT/internal/config"
	"blogCPT/internal/models"
	"blogCPT/internal/repository"
	"blogCPT/internal/service"
)

type Handlers struct {
	UserService  service.UserService
	UserRepo     repository.UserRepository
	AuthService  service.AuthService
	BlogService  service.BlogService
	StatsService service.StatsService
	Cfg          *config.Config
	Validate     *validator.Validate
}

func NewHandlers(repo *repository.Repository, service *service.Service, config *config.Config) *Handlers {
	return &Handlers{
		UserService:  service.User,
		UserRepo:     repo.User,
		AuthService:  service.Auth,
		BlogService:  service.Blog,
		StatsService: service.Stats,
		Cfg:          config,
		Validate:     validator.New(),
	}
}

// requesterFromContext собирает личность запрашивающего из контекста,
// который заполнила auth-middleware. nil - анонимный запрос.
func requesterFromContext(r *http.Request) *models.User {
	userID, ok := r.Context().Value("userID").(string)
	if !ok || userID == "" {
		return nil
	}

	email, _ := r.Context().Value("email").(string)
	role, _ := r.Context().Value("role").(string)

	return &models.User{
		UserID: userID,
		Email:  email,
		Role:   role,
	}
}

func HomeHandler(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, "blogCPT API", nil, http.StatusOK)
}

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, "ok", nil, http.StatusOK)
}
