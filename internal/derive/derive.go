package derive

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Производные поля поста: slug, выдержка и время чтения.
// Чистые функции без побочных эффектов, вызываются перед каждой записью.

const (
	excerptLimit   = 300
	wordsPerMinute = 200
	ellipsisMarker = "..."
)

var ErrEmptySlug = errors.New("не удалось сформировать slug из заголовка")

var (
	nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)
	htmlTags     = regexp.MustCompile(`<[^>]*>`)
)

type Derived struct {
	Slug     string
	Excerpt  string
	ReadTime int
}

// Derive считает производные поля. Если slug или выдержка уже заданы,
// они сохраняются как есть и не пересчитываются. Время чтения
// пересчитывается всегда, так как контент мог измениться.
func Derive(title, content, existingSlug, existingExcerpt string) (Derived, error) {
	slug := existingSlug
	if slug == "" {
		slug = Slugify(title)
		if slug == "" {
			return Derived{}, ErrEmptySlug
		}
	}

	excerpt := existingExcerpt
	if excerpt == "" {
		excerpt = Excerpt(content)
	}

	return Derived{
		Slug:     slug,
		Excerpt:  excerpt,
		ReadTime: ReadTime(content),
	}, nil
}

// Slugify переводит заголовок в нижний регистр, заменяет каждую серию
// символов вне [a-z0-9] на один дефис и убирает дефисы по краям.
func Slugify(title string) string {
	slug := strings.ToLower(title)
	slug = nonSlugChars.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// Excerpt убирает HTML-теги, берет первые 300 символов и добавляет
// многоточие, если текст был обрезан.
func Excerpt(content string) string {
	plain := htmlTags.ReplaceAllString(content, "")

	runes := []rune(plain)
	if len(runes) > excerptLimit {
		runes = runes[:excerptLimit]
	}

	excerpt := strings.TrimSpace(string(runes))
	if utf8.RuneCountInString(excerpt) == excerptLimit {
		excerpt += ellipsisMarker
	}

	return excerpt
}

// ReadTime - оценка времени чтения в минутах при скорости 200 слов в минуту,
// округление вверх.
func ReadTime(content string) int {
	wordCount := len(strings.Fields(content))
	return (wordCount + wordsPerMinute - 1) / wordsPerMinute
}
