package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"blogCPT/internal/models"
)

// Комментарии хранятся как есть: отдельной логики вокруг них нет,
// они только читаются вместе с постом и удаляются вместе с ним.
type CommentRepositoryImpl struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) *CommentRepositoryImpl {
	return &CommentRepositoryImpl{db: db}
}

func (r *CommentRepositoryImpl) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (comment_id, blog_id, author_id, content, is_edited, edited_at, created_at)
		VALUES (:comment_id, :blog_id, :author_id, :content, :is_edited, :edited_at, :created_at)
	`

	if comment.CommentID == "" {
		comment.CommentID = uuid.New().String()
	}

	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}

	_, err := r.db.NamedExecContext(ctx, query, comment)
	if err != nil {
		return fmt.Errorf("ошибка при создании комментария: %w", err)
	}

	return nil
}

func (r *CommentRepositoryImpl) GetByBlogID(ctx context.Context, blogID string) ([]models.Comment, error) {
	query := `SELECT * FROM comments WHERE blog_id = $1 ORDER BY created_at`

	var comments []models.Comment
	err := r.db.SelectContext(ctx, &comments, query, blogID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении комментариев: %w", err)
	}

	return comments, nil
}

func (r *CommentRepositoryImpl) DeleteByBlogID(ctx context.Context, blogID string) error {
	query := `DELETE FROM comments WHERE blog_id = $1`

	_, err := r.db.ExecContext(ctx, query, blogID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении комментариев поста: %w", err)
	}

	return nil
}
