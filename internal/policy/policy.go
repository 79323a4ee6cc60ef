package policy

import (
	"errors"

	"github.com/google/uuid"

	"blogCPT/internal/models"
)

// Правила видимости постов. Чистые функции без обращения к хранилищу:
// кто и какие посты видит, кто может их менять и какой фильтр
// уходит в репозиторий при выборке списка.

var (
	ErrUnauthenticated = errors.New("требуется аутентификация")
	ErrForbidden       = errors.New("доступ запрещен")
)

// ListQuery - параметры списка постов, как они пришли от клиента.
type ListQuery struct {
	Status   string
	Mine     string
	Search   string
	Category string
	Tag      string
	Author   string
}

// Filter - результат проверки доступа: структурный фильтр для репозитория.
// Уточняющие поля (Search, Category, Tag) только сужают выборку.
type Filter struct {
	PublishedOnly bool
	Status        string
	AuthorID      string
	Search        string
	Category      string
	Tag           string
}

// CanManage - true для админа и для владельца поста.
func CanManage(blog *models.Blog, requester *models.User) bool {
	if requester == nil {
		return false
	}
	if requester.Role == models.RoleAdmin {
		return true
	}
	return requester.UserID == blog.AuthorID
}

// CanAccess управляет чтением одиночного поста: опубликованное видно всем,
// черновики и архив - только тем, кто может постом управлять.
func CanAccess(blog *models.Blog, requester *models.User) bool {
	if blog.IsPublished {
		return true
	}
	return CanManage(blog, requester)
}

// BuildFilter превращает параметры запроса в фильтр выборки с учетом
// личности и роли запрашивающего. Порядок правил фиксированный:
//  1. без статуса и без mine=true - только опубликованные;
//  2. status=published - только опубликованные;
//  3. status=draft - требуется аутентификация, не-админ видит только свои;
//  4. status=archived - только админ;
//  5. mine=true - требуется аутентификация, ограничение на своего автора
//     (складывается с правилом по статусу);
//  6. уточняющие фильтры (поиск, категория, тег, автор) накладываются сверху.
func BuildFilter(q ListQuery, requester *models.User) (Filter, error) {
	var f Filter

	if q.Status == "" && q.Mine != "true" {
		f.PublishedOnly = true
	}

	switch q.Status {
	case models.StatusPublished:
		f.PublishedOnly = true
	case models.StatusDraft:
		if requester == nil {
			return Filter{}, ErrUnauthenticated
		}
		if requester.Role != models.RoleAdmin {
			f.AuthorID = requester.UserID
		}
		f.Status = models.StatusDraft
	case models.StatusArchived:
		if requester == nil || requester.Role != models.RoleAdmin {
			return Filter{}, ErrForbidden
		}
		f.Status = models.StatusArchived
	}

	if q.Mine == "true" {
		if requester == nil {
			return Filter{}, ErrUnauthenticated
		}
		f.AuthorID = requester.UserID
	}

	if q.Search != "" {
		f.Search = q.Search
	}
	if q.Category != "" {
		f.Category = q.Category
	}
	if q.Tag != "" {
		f.Tag = q.Tag
	}
	if q.Author != "" {
		// Кривой идентификатор автора молча отбрасываем, чтобы не ронять запрос.
		// Если ограничение по автору уже выставлено правилами 3/5, оно сильнее:
		// фильтр может только сужать выборку.
		if uuid.Validate(q.Author) == nil && f.AuthorID == "" {
			f.AuthorID = q.Author
		}
	}

	return f, nil
}
