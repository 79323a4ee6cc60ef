package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"blogCPT/internal/models"
	"blogCPT/internal/policy"
)

var (
	ErrBlogNotFound = errors.New("пост не найден")
	ErrSlugTaken    = errors.New("slug уже используется")
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User, password string) error
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	VerifyPassword(ctx context.Context, email, password string) (*models.User, error)
	UpdateRefreshToken(ctx context.Context, userID, refreshToken string, expiryTime time.Time) error
	GetUserByRefreshToken(ctx context.Context, refreshToken string) (*models.User, error)
}

type BlogRepository interface {
	Create(ctx context.Context, blog *models.Blog) error
	GetByID(ctx context.Context, blogID string) (*models.Blog, error)
	GetByIDOrSlug(ctx context.Context, idOrSlug string) (*models.Blog, error)
	List(ctx context.Context, filter policy.Filter, page, limit int) ([]models.Blog, int, error)
	Update(ctx context.Context, blog *models.Blog) error
	Delete(ctx context.Context, blogID string) error
	SetFeaturedImage(ctx context.Context, blogID, imageURL string) error
}

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByBlogID(ctx context.Context, blogID string) ([]models.Comment, error)
	DeleteByBlogID(ctx context.Context, blogID string) error
}

type StatsRepository interface {
	CountByStatus(ctx context.Context) (map[string]int, error)
}

type Repository struct {
	User    UserRepository
	Blog    BlogRepository
	Comment CommentRepository
	Stats   StatsRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		User:    NewUserRepository(db),
		Blog:    NewBlogRepository(db),
		Comment: NewCommentRepository(db),
		Stats:   NewStatsRepository(db),
	}
}
