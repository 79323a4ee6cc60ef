package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"blogCPT/internal/config"
	"blogCPT/internal/derive"
	"blogCPT/internal/models"
	"blogCPT/internal/policy"
	"blogCPT/internal/repository"
)

type MockBlogRepository struct {
	mock.Mock
}

func (m *MockBlogRepository) Create(ctx context.Context, blog *models.Blog) error {
	args := m.Called(ctx, blog)
	return args.Error(0)
}

func (m *MockBlogRepository) GetByID(ctx context.Context, blogID string) (*models.Blog, error) {
	args := m.Called(ctx, blogID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Blog), args.Error(1)
}

func (m *MockBlogRepository) GetByIDOrSlug(ctx context.Context, idOrSlug string) (*models.Blog, error) {
	args := m.Called(ctx, idOrSlug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Blog), args.Error(1)
}

func (m *MockBlogRepository) List(ctx context.Context, filter policy.Filter, page, limit int) ([]models.Blog, int, error) {
	args := m.Called(ctx, filter, page, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.Blog), args.Int(1), args.Error(2)
}

func (m *MockBlogRepository) Update(ctx context.Context, blog *models.Blog) error {
	args := m.Called(ctx, blog)
	return args.Error(0)
}

func (m *MockBlogRepository) Delete(ctx context.Context, blogID string) error {
	args := m.Called(ctx, blogID)
	return args.Error(0)
}

func (m *MockBlogRepository) SetFeaturedImage(ctx context.Context, blogID, imageURL string) error {
	args := m.Called(ctx, blogID, imageURL)
	return args.Error(0)
}

type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) GetByBlogID(ctx context.Context, blogID string) ([]models.Comment, error) {
	args := m.Called(ctx, blogID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Comment), args.Error(1)
}

func (m *MockCommentRepository) DeleteByBlogID(ctx context.Context, blogID string) error {
	args := m.Called(ctx, blogID)
	return args.Error(0)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) UploadImage(ctx context.Context, blogID, fileName string, file io.Reader, size int64) (string, string, error) {
	args := m.Called(ctx, blogID, fileName, file, size)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockStorage) DeleteImage(ctx context.Context, objectName string) error {
	args := m.Called(ctx, objectName)
	return args.Error(0)
}

func newTestBlogService(blogRepo *MockBlogRepository, commentRepo *MockCommentRepository, store *MockStorage) BlogService {
	return NewBlogService(blogRepo, commentRepo, store, &config.Config{})
}

var (
	testOwner = &models.User{UserID: "owner-id", Email: "owner@example.com", Role: models.RoleUser}
	testOther = &models.User{UserID: "other-id", Email: "other@example.com", Role: models.RoleUser}
	testAdmin = &models.User{UserID: "admin-id", Email: "admin@example.com", Role: models.RoleAdmin}
)

func TestBlogService_CreateBlog(t *testing.T) {
	t.Run("Аноним не может создать пост", func(t *testing.T) {
		svc := newTestBlogService(new(MockBlogRepository), new(MockCommentRepository), new(MockStorage))

		_, err := svc.CreateBlog(context.Background(), nil, CreateBlogRequest{
			Title:   "Title",
			Content: "Content",
		})

		assert.ErrorIs(t, err, policy.ErrUnauthenticated)
	})

	t.Run("Автор берется из токена, статус по умолчанию draft", func(t *testing.T) {
		blogRepo := new(MockBlogRepository)
		blogRepo.On("Create", mock.Anything, mock.MatchedBy(func(b *models.Blog) bool {
			return b.AuthorID == testOwner.UserID &&
				b.Status == models.StatusDraft &&
				!b.IsPublished &&
				b.PublishedAt == nil &&
				b.Slug == "my-first-post" &&
				b.ReadTime == 1
		})).Return(nil)

		svc := newTestBlogService(blogRepo, new(MockCommentRepository), new(MockStorage))

		blog, err := svc.CreateBlog(context.Background(), testOwner, CreateBlogRequest{
			Title:   "My First Post",
			Content: "some words here",
		})

		require.NoError(t, err)
		assert.Equal(t, testOwner.UserID, blog.AuthorID)
		assert.NotNil(t, blog.Categories)
		assert.NotNil(t, blog.Tags)
		blogRepo.AssertExpectations(t)
	})

	t.Run("При публикации проставляется publishedAt", func(t *testing.T) {
		blogRepo := new(MockBlogRepository)
		blogRepo.On("Create", mock.Anything, mock.MatchedBy(func(b *models.Blog) bool {
			return b.IsPublished && b.PublishedAt != nil
		})).Return(nil)

		svc := newTestBlogService(blogRepo, new(MockCommentRepository), new(MockStorage))

		blog, err := svc.CreateBlog(context.Background(), testOwner, CreateBlogRequest{
			Title:   "Published Post",
			Content: "content",
			Status:  models.StatusPublished,
		})

		require.NoError(t, err)
		assert.True(t, blog.IsPublished)
		blogRepo.AssertExpectations(t)
	})

	t.Run("Заголовок из одной пунктуации - ошибка slug", func(t *testing.T) {
		svc := newTestBlogService(new(MockBlogRepository), new(MockCommentRepository), new(MockStorage))

		_, err := svc.CreateBlog(context.Background(), testOwner, CreateBlogRequest{
			Title:   "!!!",
			Content: "content",
		})

		assert.ErrorIs(t, err, derive.ErrEmptySlug)
	})
}

func TestBlogService_GetBlog(t *testing.T) {
	t.Run("Отсутствующий пост - ErrBlogNotFound", func(t *testing.T) {
		blogRepo := new(MockBlogRepository)
		blogRepo.On("GetByIDOrSlug", mock.Anything, "missing").Return(nil, nil)

		svc := newTestBlogService(blogRepo, new(MockCommentRepository), new(MockStorage))

		_, err := svc.GetBlog(context.Background(), "missing", testOwner)
		assert.ErrorIs(t, err, repository.ErrBlogNotFound)
	})

	t.Run("Чужой черновик скрыт", func(t *testing.T) {
		draft := &models.Blog{BlogID: "b1", AuthorID: testOwner.UserID, Status: models.StatusDraft}

		blogRepo := new(MockBlogRepository)
		blogRepo.On("GetByIDOrSlug", mock.Anything, "b1").Return(draft, nil)

		svc := newTestBlogService(blogRepo, new(MockCommentRepository), new(MockStorage))

		_, err := svc.GetBlog(context.Background(), "b1", testOther)
		assert.ErrorIs(t, err, policy.ErrForbidden)
	})

	t.Run("Опубликованный пост отдается с комментариями", func(t *testing.T) {
		published := &models.Blog{BlogID: "b1", AuthorID: testOwner.UserID, Status: models.StatusPublished, IsPublished: true}
		comments := []models.Comment{{CommentID: "c1", BlogID: "b1", Content: "nice"}}

		blogRepo := new(MockBlogRepository)
		blogRepo.On("GetByIDOrSlug", mock.Anything, "b1").Return(published, nil)

		commentRepo := new(MockCommentRepository)
		commentRepo.On("GetByBlogID", mock.Anything, "b1").Return(comments, nil)

		svc := newTestBlogService(blogRepo, commentRepo, new(MockStorage))

		blog, err := svc.GetBlog(context.Background(), "b1", nil)
		require.NoError(t, err)
		assert.Len(t, blog.Comments, 1)
		commentRepo.AssertExpectations(t)
	})

	t.Run("Владелец видит свой черновик", func(t *testing.T) {
		draft := &models.Blog{BlogID: "b1", AuthorID: testOwner.UserID, Status: models.StatusDraft}

		blogRepo := new(MockBlogRepository)
		blogRepo.On("GetByIDOrSlug", mock.Anything, "b1").Return(draft, nil)

		commentRepo := new(MockCommentRepository)
		commentRepo.On("GetByBlogID", mock.Anything, "b1").Return([]models.Comment{}, nil)

		svc := newTestBlogService(blogRepo, commentRepo, new(MockStorage))

		blog, err := svc.GetBlog(context.Background(), "b1", testOwner)
		require.NoError(t, err)
		assert.Equal(t, "b1", blog.BlogID)
	})
}

func TestBlogService_ListBlogs(t *testing.T) {
	t.Run("Фильтр политики передается в хранилище", func(t *testing.T) {
		blogRepo := new(MockBlogRepository)
		blogRepo.On("List", mock.Anything, policy.Filter{PublishedOnly: true}, 1, 10).
			Return([]models.Blog{}, 0, nil)

		svc := newTestBlogService(blogRepo, new(MockCommentRepository), new(MockStorage))

		_, _, err := svc.ListBlogs(context.Background(), policy.ListQuery{}, 1, 10, nil)
		require.NoError(t, err)
		blogRepo.AssertExpectations(t)
	})

	t.Run("Ошибка политики не доходит до хранилища", func(t *testing.T) {
		blogRepo := new(MockBlogRepository)

		svc := newTestBlogService(blogRepo, new(MockCommentRepository), new(MockStorage))

		_, _, err := svc.ListBlogs(context.Background(), policy.ListQuery{Status: "draft"}, 1, 10, nil)
		assert.ErrorIs(t, err, policy.ErrUnauthenticated)
		blogRepo.AssertNotCalled(t, "List")
	})
}

func TestBlogService_UpdateBlog(t *testing.T) {
	newDraft := func() *models.Blog {
		return &models.Blog{
			BlogID:   "b1",
			AuthorID: testOwner.UserID,
			Title:    "Old Title",
			Slug:     "old-title",
			Content:  "old content",
			Excerpt:  "old content",
			Status:   models.StatusDraft,
			ReadTime: 1,
		}
	}

	t.Run("Чужой пользователь не может обновить пост", func(t *testing.T) {
		blogRepo := new(MockBlogRepository)
		blogRepo.On("GetByID", mock.Anything, "b1").Return(newDraft(), nil)

		svc := newTestBlogService(blogRepo, new(MockCommentRepository), new(MockStorage))

		title := "Hacked"
		_, err := svc.UpdateBlog(context.Background(), "b1", testOther, UpdateBlogRequest{Title: &title})
		assert.ErrorIs(t, err, policy.ErrForbidden)
		blogRepo.AssertNotCalled(t, "Update")
	})

	t.Run("Частичное обновление не трогает остальные поля", func(t *testing.T) {
		blogRepo := new(MockBlogRepository)
		blogRepo.On("GetByID", mock.Anything, "b1").Return(newDraft(), nil)
		blogRepo.On("Update", mock.Anything, mock.MatchedBy(func(b *models.Blog) bool {
			return b.Title == "New Title" &&
				b.Content == "old content" &&
				b.Slug == "old-title" &&
				b.Excerpt == "old content"
		})).Return(nil)

		svc := newTestBlogService(blogRepo, new(MockCommentRepository), new(MockStorage))

		title := "New Title"
		blog, err := svc.UpdateBlog(context.Background(), "b1", testOwner, UpdateBlogRequest{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, "New Title", blog.Title)
		assert.Equal(t, "old-title", blog.Slug)
		blogRepo.AssertExpectations(t)
	})

	t.Run("Первая публикация проставляет publishedAt", func(t *testing.T) {
		blogRepo := new(MockBlogRepository)
		blogRepo.On("GetByID", mock.Anything, "b1").Return(newDraft(), nil)
		blogRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

		svc := newTestBlogService(blogRepo, new(MockCommentRepository), new(MockStorage))

		status := models.StatusPublished
		blog, err := svc.UpdateBlog(context.Background(), "b1", testOwner, UpdateBlogRequest{Status: &status})
		require.NoError(t, err)
		assert.True(t, blog.IsPublished)
		require.NotNil(t, blog.PublishedAt)
	})

	t.Run("Снятие с публикации сохраняет publishedAt", func(t *testing.T) {
		firstPublished := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		published := newDraft()
		published.Status = models.StatusPublished
		published.IsPublished = true
		published.PublishedAt = &firstPublished

		blogRepo := new(MockBlogRepository)
		blogRepo.On("GetByID", mock.Anything, "b1").Return(published, nil)
		blogRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

		svc := newTestBlogService(blogRepo, new(MockCommentRepository), new(MockStorage))

		status := models.StatusDraft
		blog, err := svc.UpdateBlog(context.Background(), "b1", testOwner, UpdateBlogRequest{Status: &status})
		require.NoError(t, err)
		assert.False(t, blog.IsPublished)
		require.NotNil(t, blog.PublishedAt)
		assert.Equal(t, firstPublished, *blog.PublishedAt)
	})

	t.Run("Повторная публикация не меняет publishedAt", func(t *testing.T) {
		firstPublished := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		unpublished := newDraft()
		unpublished.PublishedAt = &firstPublished

		blogRepo := new(MockBlogRepository)
		blogRepo.On("GetByID", mock.Anything, "b1").Return(unpublished, nil)
		blogRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

		svc := newTestBlogService(blogRepo, new(MockCommentRepository), new(MockStorage))

		status := models.StatusPublished
		blog, err := svc.UpdateBlog(context.Background(), "b1", testOwner, UpdateBlogRequest{Status: &status})
		require.NoError(t, err)
		assert.Equal(t, firstPublished, *blog.PublishedAt)
	})

	t.Run("Время чтения пересчитывается при смене контента", func(t *testing.T) {
		blogRepo := new(MockBlogRepository)
		blogRepo.On("GetByID", mock.Anything, "b1").Return(newDraft(), nil)
		blogRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

		svc := newTestBlogService(blogRepo, new(MockCommentRepository), new(MockStorage))

		longContent := ""
		for i := 0; i < 401; i++ {
			longContent += "w "
		}

		blog, err := svc.UpdateBlog(context.Background(), "b1", testOwner, UpdateBlogRequest{Content: &longContent})
		require.NoError(t, err)
		assert.Equal(t, 3, blog.ReadTime)
		// excerpt закреплен и не перевыводится из нового контента
		assert.Equal(t, "old content", blog.Excerpt)
	})

	t.Run("Админ обновляет чужой пост", func(t *testing.T) {
		blogRepo := new(MockBlogRepository)
		blogRepo.On("GetByID", mock.Anything, "b1").Return(newDraft(), nil)
		blogRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

		svc := newTestBlogService(blogRepo, new(MockCommentRepository), new(MockStorage))

		title := "Admin Edit"
		_, err := svc.UpdateBlog(context.Background(), "b1", testAdmin, UpdateBlogRequest{Title: &title})
		assert.NoError(t, err)
	})
}

func TestBlogService_DeleteBlog(t *testing.T) {
	draft := &models.Blog{BlogID: "b1", AuthorID: testOwner.UserID, Status: models.StatusDraft}

	t.Run("Комментарии удаляются перед постом", func(t *testing.T) {
		blogRepo := new(MockBlogRepository)
		blogRepo.On("GetByID", mock.Anything, "b1").Return(draft, nil)
		blogRepo.On("Delete", mock.Anything, "b1").Return(nil)

		commentRepo := new(MockCommentRepository)
		commentRepo.On("DeleteByBlogID", mock.Anything, "b1").Return(nil)

		svc := newTestBlogService(blogRepo, commentRepo, new(MockStorage))

		err := svc.DeleteBlog(context.Background(), "b1", testOwner)
		require.NoError(t, err)
		commentRepo.AssertExpectations(t)
		blogRepo.AssertExpectations(t)
	})

	t.Run("Чужой пользователь не может удалить пост", func(t *testing.T) {
		blogRepo := new(MockBlogRepository)
		blogRepo.On("GetByID", mock.Anything, "b1").Return(draft, nil)

		svc := newTestBlogService(blogRepo, new(MockCommentRepository), new(MockStorage))

		err := svc.DeleteBlog(context.Background(), "b1", testOther)
		assert.ErrorIs(t, err, policy.ErrForbidden)
		blogRepo.AssertNotCalled(t, "Delete")
	})

	t.Run("Отсутствующий пост - ErrBlogNotFound", func(t *testing.T) {
		blogRepo := new(MockBlogRepository)
		blogRepo.On("GetByID", mock.Anything, "missing").Return(nil, nil)

		svc := newTestBlogService(blogRepo, new(MockCommentRepository), new(MockStorage))

		err := svc.DeleteBlog(context.Background(), "missing", testOwner)
		assert.ErrorIs(t, err, repository.ErrBlogNotFound)
	})
}

func TestBlogService_UploadFeaturedImage(t *testing.T) {
	draft := &models.Blog{BlogID: "b1", AuthorID: testOwner.UserID, Status: models.StatusDraft}

	t.Run("Успешная загрузка обложки", func(t *testing.T) {
		blogRepo := new(MockBlogRepository)
		blogRepo.On("GetByID", mock.Anything, "b1").Return(draft, nil)
		blogRepo.On("SetFeaturedImage", mock.Anything, "b1", "http://minio/images/cover.jpg").Return(nil)

		store := new(MockStorage)
		store.On("UploadImage", mock.Anything, "b1", "cover.jpg", mock.Anything, int64(42)).
			Return("blogs/b1/cover.jpg", "http://minio/images/cover.jpg", nil)

		svc := newTestBlogService(blogRepo, new(MockCommentRepository), store)

		url, err := svc.UploadFeaturedImage(context.Background(), "b1", testOwner, "cover.jpg", nil, 42)
		require.NoError(t, err)
		assert.Equal(t, "http://minio/images/cover.jpg", url)
	})

	t.Run("Ошибка записи URL откатывает загрузку", func(t *testing.T) {
		blogRepo := new(MockBlogRepository)
		blogRepo.On("GetByID", mock.Anything, "b1").Return(draft, nil)
		blogRepo.On("SetFeaturedImage", mock.Anything, "b1", "http://minio/images/cover.jpg").
			Return(repository.ErrBlogNotFound)

		store := new(MockStorage)
		store.On("UploadImage", mock.Anything, "b1", "cover.jpg", mock.Anything, int64(42)).
			Return("blogs/b1/cover.jpg", "http://minio/images/cover.jpg", nil)
		store.On("DeleteImage", mock.Anything, "blogs/b1/cover.jpg").Return(nil)

		svc := newTestBlogService(blogRepo, new(MockCommentRepository), store)

		_, err := svc.UploadFeaturedImage(context.Background(), "b1", testOwner, "cover.jpg", nil, 42)
		assert.Error(t, err)
		store.AssertExpectations(t)
	})

	t.Run("Чужой пользователь не может загрузить обложку", func(t *testing.T) {
		blogRepo := new(MockBlogRepository)
		blogRepo.On("GetByID", mock.Anything, "b1").Return(draft, nil)

		store := new(MockStorage)

		svc := newTestBlogService(blogRepo, new(MockCommentRepository), store)

		_, err := svc.UploadFeaturedImage(context.Background(), "b1", testOther, "cover.jpg", nil, 42)
		assert.ErrorIs(t, err, policy.ErrForbidden)
		store.AssertNotCalled(t, "UploadImage")
	})
}
