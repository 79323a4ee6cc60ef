package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"blogCPT/internal/config"
	"blogCPT/internal/derive"
	"blogCPT/internal/models"
	"blogCPT/internal/policy"
	"blogCPT/internal/repository"
	"blogCPT/internal/storage"
)

type CreateBlogRequest struct {
	Title          string
	Content        string
	Status         string
	Categories     []string
	Tags           []string
	FeaturedImage  string
	SeoTitle       string
	SeoDescription string
}

// UpdateBlogRequest - частичное обновление: nil-поля не трогаем.
type UpdateBlogRequest struct {
	Title          *string
	Content        *string
	Status         *string
	Categories     *[]string
	Tags           *[]string
	FeaturedImage  *string
	SeoTitle       *string
	SeoDescription *string
}

type BlogService interface {
	CreateBlog(ctx context.Context, requester *models.User, req CreateBlogRequest) (*models.Blog, error)
	GetBlog(ctx context.Context, idOrSlug string, requester *models.User) (*models.Blog, error)
	ListBlogs(ctx context.Context, q policy.ListQuery, page, limit int, requester *models.User) ([]models.Blog, int, error)
	UpdateBlog(ctx context.Context, blogID string, requester *models.User, req UpdateBlogRequest) (*models.Blog, error)
	DeleteBlog(ctx context.Context, blogID string, requester *models.User) error
	UploadFeaturedImage(ctx context.Context, blogID string, requester *models.User, fileName string, file io.Reader, size int64) (string, error)
}

type blogService struct {
	blogRepo    repository.BlogRepository
	commentRepo repository.CommentRepository
	storage     storage.Storage
	cfg         *config.Config
}

func NewBlogService(blogRepo repository.BlogRepository, commentRepo repository.CommentRepository, storage storage.Storage, cfg *config.Config) BlogService {
	return &blogService{
		blogRepo:    blogRepo,
		commentRepo: commentRepo,
		storage:     storage,
		cfg:         cfg,
	}
}

func (s *blogService) CreateBlog(ctx context.Context, requester *models.User, req CreateBlogRequest) (*models.Blog, error) {
	if requester == nil {
		return nil, policy.ErrUnauthenticated
	}

	status := req.Status
	if status == "" {
		status = models.StatusDraft
	}

	// slug и excerpt выводим из заголовка и контента
	derived, err := derive.Derive(req.Title, req.Content, "", "")
	if err != nil {
		return nil, err
	}

	blog := &models.Blog{
		AuthorID:       requester.UserID, // автор всегда из токена, не из тела запроса
		Title:          req.Title,
		Slug:           derived.Slug,
		Content:        req.Content,
		Excerpt:        derived.Excerpt,
		Status:         status,
		ReadTime:       derived.ReadTime,
		Categories:     req.Categories,
		Tags:           req.Tags,
		FeaturedImage:  req.FeaturedImage,
		Likes:          []string{},
		SeoTitle:       req.SeoTitle,
		SeoDescription: req.SeoDescription,
	}

	if blog.Categories == nil {
		blog.Categories = []string{}
	}
	if blog.Tags == nil {
		blog.Tags = []string{}
	}

	if status == models.StatusPublished {
		blog.IsPublished = true
		now := time.Now()
		blog.PublishedAt = &now
	}

	err = s.blogRepo.Create(ctx, blog)
	if err != nil {
		return nil, err
	}

	return blog, nil
}

func (s *blogService) GetBlog(ctx context.Context, idOrSlug string, requester *models.User) (*models.Blog, error) {
	blog, err := s.blogRepo.GetByIDOrSlug(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}

	if blog == nil {
		return nil, repository.ErrBlogNotFound
	}

	// пост есть, но для этого пользователя он скрыт
	if !policy.CanAccess(blog, requester) {
		return nil, policy.ErrForbidden
	}

	comments, err := s.commentRepo.GetByBlogID(ctx, blog.BlogID)
	if err != nil {
		return nil, err
	}
	blog.Comments = comments

	return blog, nil
}

func (s *blogService) ListBlogs(ctx context.Context, q policy.ListQuery, page, limit int, requester *models.User) ([]models.Blog, int, error) {
	filter, err := policy.BuildFilter(q, requester)
	if err != nil {
		return nil, 0, err
	}

	return s.blogRepo.List(ctx, filter, page, limit)
}

func (s *blogService) UpdateBlog(ctx context.Context, blogID string, requester *models.User, req UpdateBlogRequest) (*models.Blog, error) {
	blog, err := s.blogRepo.GetByID(ctx, blogID)
	if err != nil {
		return nil, err
	}

	if blog == nil {
		return nil, repository.ErrBlogNotFound
	}

	if !policy.CanManage(blog, requester) {
		return nil, policy.ErrForbidden
	}

	if req.Title != nil {
		blog.Title = *req.Title
	}
	if req.Content != nil {
		blog.Content = *req.Content
	}
	if req.Status != nil {
		blog.Status = *req.Status
	}
	if req.Categories != nil {
		blog.Categories = *req.Categories
	}
	if req.Tags != nil {
		blog.Tags = *req.Tags
	}
	if req.FeaturedImage != nil {
		blog.FeaturedImage = *req.FeaturedImage
	}
	if req.SeoTitle != nil {
		blog.SeoTitle = *req.SeoTitle
	}
	if req.SeoDescription != nil {
		blog.SeoDescription = *req.SeoDescription
	}

	// publishedAt выставляется один раз, при первой публикации,
	// и при снятии с публикации не сбрасывается
	if blog.Status == models.StatusPublished {
		blog.IsPublished = true
		if blog.PublishedAt == nil {
			now := time.Now()
			blog.PublishedAt = &now
		}
	} else {
		blog.IsPublished = false
	}

	// slug и excerpt на обновлении не перевыводятся, время чтения - всегда
	derived, err := derive.Derive(blog.Title, blog.Content, blog.Slug, blog.Excerpt)
	if err != nil {
		return nil, err
	}
	blog.Slug = derived.Slug
	blog.Excerpt = derived.Excerpt
	blog.ReadTime = derived.ReadTime

	err = s.blogRepo.Update(ctx, blog)
	if err != nil {
		return nil, err
	}

	return blog, nil
}

func (s *blogService) DeleteBlog(ctx context.Context, blogID string, requester *models.User) error {
	blog, err := s.blogRepo.GetByID(ctx, blogID)
	if err != nil {
		return err
	}

	if blog == nil {
		return repository.ErrBlogNotFound
	}

	if !policy.CanManage(blog, requester) {
		return policy.ErrForbidden
	}

	// комментарии удаляем первыми, на них внешний ключ
	err = s.commentRepo.DeleteByBlogID(ctx, blog.BlogID)
	if err != nil {
		return err
	}

	return s.blogRepo.Delete(ctx, blog.BlogID)
}

func (s *blogService) UploadFeaturedImage(ctx context.Context, blogID string, requester *models.User, fileName string, file io.Reader, size int64) (string, error) {
	blog, err := s.blogRepo.GetByID(ctx, blogID)
	if err != nil {
		return "", err
	}

	if blog == nil {
		return "", repository.ErrBlogNotFound
	}

	if !policy.CanManage(blog, requester) {
		return "", policy.ErrForbidden
	}

	objectName, imageURL, err := s.storage.UploadImage(ctx, blog.BlogID, fileName, file, size)
	if err != nil {
		return "", fmt.Errorf("ошибка загрузки обложки в MinIO: %w", err)
	}

	err = s.blogRepo.SetFeaturedImage(ctx, blog.BlogID, imageURL)
	if err != nil {
		s.storage.DeleteImage(ctx, objectName)
		return "", err
	}

	return imageURL, nil
}
