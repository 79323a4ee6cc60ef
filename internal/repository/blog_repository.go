package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"blogCPT/internal/models"
	"blogCPT/internal/policy"
)

type BlogRepositoryImpl struct {
	db *sqlx.DB
}

func NewBlogRepository(db *sqlx.DB) *BlogRepositoryImpl {
	return &BlogRepositoryImpl{db: db}
}

func (r *BlogRepositoryImpl) Create(ctx context.Context, blog *models.Blog) error {
	query := `
        INSERT INTO blogs
        (blog_id, author_id, title, slug, content, excerpt, status, is_published,
         published_at, read_time, categories, tags, featured_image, views, likes,
         seo_title, seo_description, created_at, updated_at)
        VALUES
        (:blog_id, :author_id, :title, :slug, :content, :excerpt, :status, :is_published,
         :published_at, :read_time, :categories, :tags, :featured_image, :views, :likes,
         :seo_title, :seo_description, :created_at, :updated_at)
    `

	if blog.BlogID == "" {
		blog.BlogID = uuid.New().String()
	}

	now := time.Now()
	blog.CreatedAt = now
	blog.UpdatedAt = now

	_, err := r.db.NamedExecContext(ctx, query, blog)
	if err != nil {
		// Уникальность slug обеспечивает БД, а не проверка перед вставкой
		if strings.Contains(err.Error(), "duplicate key value") &&
			strings.Contains(err.Error(), "slug") {
			return ErrSlugTaken
		}
		return fmt.Errorf("ошибка при создании поста: %w", err)
	}

	return nil
}

func (r *BlogRepositoryImpl) GetByID(ctx context.Context, blogID string) (*models.Blog, error) {
	query := `SELECT * FROM blogs WHERE blog_id = $1`

	var blog models.Blog
	err := r.db.GetContext(ctx, &blog, query, blogID)
	if err != nil {
		// Отсутствие поста - не ошибка
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка при получении поста: %w", err)
	}

	return &blog, nil
}

// GetByIDOrSlug ищет по идентификатору, если строка похожа на UUID,
// иначе по slug.
func (r *BlogRepositoryImpl) GetByIDOrSlug(ctx context.Context, idOrSlug string) (*models.Blog, error) {
	if uuid.Validate(idOrSlug) == nil {
		return r.GetByID(ctx, idOrSlug)
	}

	query := `SELECT * FROM blogs WHERE slug = $1`

	var blog models.Blog
	err := r.db.GetContext(ctx, &blog, query, idOrSlug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка при получении поста по slug: %w", err)
	}

	return &blog, nil
}

// List выбирает посты по структурному фильтру с пагинацией.
// Сортировка: сначала по published_at по убыванию (черновики без
// published_at уходят в конец), затем по created_at по убыванию.
func (r *BlogRepositoryImpl) List(ctx context.Context, filter policy.Filter, page, limit int) ([]models.Blog, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	where, args := buildWhere(filter)

	countQuery := `SELECT COUNT(*) FROM blogs` + where

	var total int
	err := r.db.GetContext(ctx, &total, countQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка при подсчете постов: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT * FROM blogs%s ORDER BY published_at DESC NULLS LAST, created_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2,
	)
	args = append(args, limit, (page-1)*limit)

	blogs := make([]models.Blog, 0, limit)
	err = r.db.SelectContext(ctx, &blogs, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка при получении списка постов: %w", err)
	}

	return blogs, total, nil
}

func buildWhere(filter policy.Filter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filter.PublishedOnly {
		conditions = append(conditions, "is_published = TRUE")
	}

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	if filter.AuthorID != "" {
		args = append(args, filter.AuthorID)
		conditions = append(conditions, fmt.Sprintf("author_id = $%d", len(args)))
	}

	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("$%d = ANY(categories)", len(args)))
	}

	if filter.Tag != "" {
		args = append(args, filter.Tag)
		conditions = append(conditions, fmt.Sprintf("$%d = ANY(tags)", len(args)))
	}

	if filter.Search != "" {
		args = append(args, filter.Search)
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			`(to_tsvector('english', title || ' ' || content || ' ' || excerpt) @@ plainto_tsquery('english', $%d) OR $%d = ANY(categories) OR $%d = ANY(tags))`,
			n, n, n,
		))
	}

	if len(conditions) == 0 {
		return "", args
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (r *BlogRepositoryImpl) Update(ctx context.Context, blog *models.Blog) error {
	query := `
		UPDATE blogs SET
			title = :title,
			slug = :slug,
			content = :content,
			excerpt = :excerpt,
			status = :status,
			is_published = :is_published,
			published_at = :published_at,
			read_time = :read_time,
			categories = :categories,
			tags = :tags,
			featured_image = :featured_image,
			seo_title = :seo_title,
			seo_description = :seo_description,
			updated_at = :updated_at
		WHERE blog_id = :blog_id
	`

	blog.UpdatedAt = time.Now()

	result, err := r.db.NamedExecContext(ctx, query, blog)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key value") &&
			strings.Contains(err.Error(), "slug") {
			return ErrSlugTaken
		}
		return fmt.Errorf("ошибка при обновлении поста: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке обновленных строк: %w", err)
	}

	if rowsAffected == 0 {
		return ErrBlogNotFound
	}

	return nil
}

func (r *BlogRepositoryImpl) Delete(ctx context.Context, blogID string) error {
	query := `DELETE FROM blogs WHERE blog_id = $1`

	result, err := r.db.ExecContext(ctx, query, blogID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении поста: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке удаленных строк: %w", err)
	}

	if rowsAffected == 0 {
		return ErrBlogNotFound
	}

	return nil
}

func (r *BlogRepositoryImpl) SetFeaturedImage(ctx context.Context, blogID, imageURL string) error {
	query := `
		UPDATE blogs SET
			featured_image = $1,
			updated_at = CURRENT_TIMESTAMP
		WHERE blog_id = $2
	`

	result, err := r.db.ExecContext(ctx, query, imageURL, blogID)
	if err != nil {
		return fmt.Errorf("ошибка при сохранении обложки поста: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке обновленных строк: %w", err)
	}

	if rowsAffected == 0 {
		return ErrBlogNotFound
	}

	return nil
}
