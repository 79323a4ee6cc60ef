package service

import (
	"blogCPT/internal/config"
	"blogCPT/internal/repository"
	"blogCPT/internal/storage"
)

type Service struct {
	User  UserService
	Blog  BlogService
	Auth  AuthService
	Stats StatsService
}

func NewService(rep *repository.Repository, cfg *config.Config, storage storage.Storage) *Service {
	return &Service{
		User:  NewUserService(rep.User, cfg),
		Blog:  NewBlogService(rep.Blog, rep.Comment, storage, cfg),
		Auth:  NewAuthService(rep.User, cfg),
		Stats: NewStatsService(rep.Stats),
	}
}
