package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"blogCPT/internal/models"
	"blogCPT/internal/policy"
	"blogCPT/internal/service"
)

type CreateBlogRequest struct {
	Title          string   `json:"title" validate:"required,min=3,max=200"`
	Content        string   `json:"content" validate:"required,min=1"`
	Status         string   `json:"status" validate:"omitempty,oneof=draft published archived"`
	Categories     []string `json:"categories" validate:"omitempty,dive,max=50"`
	Tags           []string `json:"tags" validate:"omitempty,dive,max=30"`
	FeaturedImage  string   `json:"featuredImage"`
	SeoTitle       string   `json:"seoTitle" validate:"omitempty,max=60"`
	SeoDescription string   `json:"seoDescription" validate:"omitempty,max=160"`
}

type UpdateBlogRequest struct {
	Title          *string   `json:"title" validate:"omitempty,min=3,max=200"`
	Content        *string   `json:"content" validate:"omitempty,min=1"`
	Status         *string   `json:"status" validate:"omitempty,oneof=draft published archived"`
	Categories     *[]string `json:"categories" validate:"omitempty,dive,max=50"`
	Tags           *[]string `json:"tags" validate:"omitempty,dive,max=30"`
	FeaturedImage  *string   `json:"featuredImage"`
	SeoTitle       *string   `json:"seoTitle" validate:"omitempty,max=60"`
	SeoDescription *string   `json:"seoDescription" validate:"omitempty,max=160"`
}

type ImageResponse struct {
	BlogID   string `json:"blogId"`
	ImageURL string `json:"imageUrl"`
	FileName string `json:"fileName"`
	FileSize int64  `json:"fileSize"`
	MimeType string `json:"mimeType"`
}

func (h *Handlers) CreateBlog(w http.ResponseWriter, r *http.Request) {
	requester := requesterFromContext(r)
	if requester == nil {
		WriteError(w, "Требуется аутентификация", http.StatusUnauthorized)
		return
	}

	var req CreateBlogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	// валидация до любой записи
	req.Title = strings.TrimSpace(req.Title)
	if err := h.Validate.Struct(req); err != nil {
		WriteValidationError(w, err)
		return
	}

	serviceReq := service.CreateBlogRequest{
		Title:          req.Title,
		Content:        req.Content,
		Status:         req.Status,
		Categories:     req.Categories,
		Tags:           req.Tags,
		FeaturedImage:  req.FeaturedImage,
		SeoTitle:       req.SeoTitle,
		SeoDescription: req.SeoDescription,
	}

	blog, err := h.BlogService.CreateBlog(r.Context(), requester, serviceReq)
	if err != nil {
		writeBlogError(w, err)
		return
	}

	WriteSuccess(w, "Пост создан", blog, http.StatusCreated)
}

func (h *Handlers) ListBlogs(w http.ResponseWriter, r *http.Request) {
	requester := requesterFromContext(r)

	// Pagination parameters
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 10
	}

	q := policy.ListQuery{
		Status:   r.URL.Query().Get("status"),
		Mine:     r.URL.Query().Get("mine"),
		Search:   r.URL.Query().Get("q"),
		Category: r.URL.Query().Get("category"),
		Tag:      r.URL.Query().Get("tag"),
		Author:   r.URL.Query().Get("author"),
	}

	switch q.Status {
	case "", models.StatusDraft, models.StatusPublished, models.StatusArchived:
	default:
		WriteError(w, "Неверное значение статуса", http.StatusBadRequest)
		return
	}

	switch q.Mine {
	case "", "true", "false":
	default:
		WriteError(w, "Неверное значение mine", http.StatusBadRequest)
		return
	}

	blogs, total, err := h.BlogService.ListBlogs(r.Context(), q, page, limit, requester)
	if err != nil {
		writeBlogError(w, err)
		return
	}

	WriteList(w, blogs, Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
	})
}

func (h *Handlers) GetBlog(w http.ResponseWriter, r *http.Request) {
	idOrSlug := mux.Vars(r)["idOrSlug"]
	requester := requesterFromContext(r)

	blog, err := h.BlogService.GetBlog(r.Context(), idOrSlug, requester)
	if err != nil {
		writeBlogError(w, err)
		return
	}

	WriteSuccess(w, "", blog, http.StatusOK)
}

func (h *Handlers) UpdateBlog(w http.ResponseWriter, r *http.Request) {
	blogID := mux.Vars(r)["id"]

	requester := requesterFromContext(r)
	if requester == nil {
		WriteError(w, "Требуется аутентификация", http.StatusUnauthorized)
		return
	}

	var req UpdateBlogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		req.Title = &trimmed
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteValidationError(w, err)
		return
	}

	serviceReq := service.UpdateBlogRequest{
		Title:          req.Title,
		Content:        req.Content,
		Status:         req.Status,
		Categories:     req.Categories,
		Tags:           req.Tags,
		FeaturedImage:  req.FeaturedImage,
		SeoTitle:       req.SeoTitle,
		SeoDescription: req.SeoDescription,
	}

	blog, err := h.BlogService.UpdateBlog(r.Context(), blogID, requester, serviceReq)
	if err != nil {
		writeBlogError(w, err)
		return
	}

	WriteSuccess(w, "Пост обновлен", blog, http.StatusOK)
}

func (h *Handlers) DeleteBlog(w http.ResponseWriter, r *http.Request) {
	blogID := mux.Vars(r)["id"]

	requester := requesterFromContext(r)
	if requester == nil {
		WriteError(w, "Требуется аутентификация", http.StatusUnauthorized)
		return
	}

	if err := h.BlogService.DeleteBlog(r.Context(), blogID, requester); err != nil {
		writeBlogError(w, err)
		return
	}

	WriteSuccess(w, "Пост удален", nil, http.StatusOK)
}

func (h *Handlers) UploadFeaturedImage(w http.ResponseWriter, r *http.Request) {
	blogID := mux.Vars(r)["id"]

	requester := requesterFromContext(r)
	if requester == nil {
		WriteError(w, "Требуется аутентификация", http.StatusUnauthorized)
		return
	}

	// setting the size limit from the config
	r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxUploadSize)
	if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil {
		if strings.Contains(err.Error(), "request body too large") {
			WriteError(w, fmt.Sprintf("Файл слишком большой (макс. %d MB)",
				h.Cfg.MaxUploadSize/(1024*1024)), http.StatusBadRequest)
		} else {
			WriteError(w, "Ошибка при обработке файла", http.StatusBadRequest)
		}
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		WriteError(w, "Не удалось получить файл", http.StatusBadRequest)
		return
	}
	defer file.Close()

	allowedTypes := map[string]bool{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
		"image/gif":  true,
		"image/webp": true,
	}

	contentType := header.Header.Get("Content-Type")
	if !allowedTypes[contentType] {
		WriteError(w, "Неподдерживаемый тип файла. Разрешены: JPEG, PNG, GIF, WebP", http.StatusBadRequest)
		return
	}

	imageURL, err := h.BlogService.UploadFeaturedImage(r.Context(), blogID, requester, header.Filename, file, header.Size)
	if err != nil {
		writeBlogError(w, err)
		return
	}

	response := ImageResponse{
		BlogID:   blogID,
		ImageURL: imageURL,
		FileName: header.Filename,
		FileSize: header.Size,
		MimeType: contentType,
	}

	WriteSuccess(w, "Обложка загружена", response, http.StatusCreated)
}
