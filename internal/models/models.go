package models

import (
	"time"

	"github.com/lib/pq"
)

type User struct {
	UserID                 string    `json:"userId" db:"user_id"`
	Email                  string    `json:"email" db:"email"`
	PasswordHash           string    `json:"passwordHash" db:"password_hash"`
	Role                   string    `json:"role" db:"role"`
	RefreshToken           string    `json:"refreshToken" db:"refresh_token"`
	RefreshTokenExpiryTime time.Time `json:"refreshTokenExpiryTime" db:"refresh_token_expiry_time"`
}

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

type Blog struct {
	BlogID         string         `json:"blogId" db:"blog_id"`
	AuthorID       string         `json:"authorId" db:"author_id"`
	Title          string         `json:"title" db:"title"`
	Slug           string         `json:"slug" db:"slug"`
	Content        string         `json:"content" db:"content"`
	Excerpt        string         `json:"excerpt" db:"excerpt"`
	Status         string         `json:"status" db:"status"`
	IsPublished    bool           `json:"isPublished" db:"is_published"`
	PublishedAt    *time.Time     `json:"publishedAt" db:"published_at"`
	ReadTime       int            `json:"readTime" db:"read_time"`
	Categories     pq.StringArray `json:"categories" db:"categories"`
	Tags           pq.StringArray `json:"tags" db:"tags"`
	FeaturedImage  string         `json:"featuredImage" db:"featured_image"`
	Views          int            `json:"views" db:"views"`
	Likes          pq.StringArray `json:"likes" db:"likes"`
	SeoTitle       string         `json:"seoTitle" db:"seo_title"`
	SeoDescription string         `json:"seoDescription" db:"seo_description"`
	CreatedAt      time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time      `json:"updatedAt" db:"updated_at"`
	Comments       []Comment      `json:"comments,omitempty" db:"-"`
}

// LikeCount - количество лайков (сами идентификаторы наружу не отдаём)
func (b *Blog) LikeCount() int {
	return len(b.Likes)
}

type Comment struct {
	CommentID string     `json:"commentId" db:"comment_id"`
	BlogID    string     `json:"blogId" db:"blog_id"`
	AuthorID  string     `json:"authorId" db:"author_id"`
	Content   string     `json:"content" db:"content"`
	IsEdited  bool       `json:"isEdited" db:"is_edited"`
	EditedAt  *time.Time `json:"editedAt" db:"edited_at"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
}
