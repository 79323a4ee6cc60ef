package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"

	"blogCPT/internal/derive"
	"blogCPT/internal/policy"
	"blogCPT/internal/repository"
)

// Response - единый конверт ответа: клиент ветвится только по success
type Response struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    interface{}  `json:"data,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
	Meta    *Pagination  `json:"meta,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// WriteError - универсальная функция для отправки ошибок
func WriteError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(Response{Success: false, Message: message})
}

// WriteSuccess - функция для успешных ответов
func WriteSuccess(w http.ResponseWriter, message string, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(Response{Success: true, Message: message, Data: data})
}

// WriteList - ответ списка с метаданными пагинации
func WriteList(w http.ResponseWriter, data interface{}, meta Pagination) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(Response{Success: true, Data: data, Meta: &meta})
}

// WriteValidationError разворачивает ошибки валидатора в список по полям
func WriteValidationError(w http.ResponseWriter, err error) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		WriteError(w, "Неверные данные", http.StatusBadRequest)
		return
	}

	fieldErrors := make([]FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fieldErrors = append(fieldErrors, FieldError{
			Field:   fe.Field(),
			Message: validationMessage(fe),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(Response{
		Success: false,
		Message: "Ошибка валидации",
		Errors:  fieldErrors,
	})
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "обязательное поле"
	case "min":
		return fmt.Sprintf("минимальная длина %s", fe.Param())
	case "max":
		return fmt.Sprintf("максимальная длина %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("допустимые значения: %s", fe.Param())
	case "email":
		return "неверный формат email"
	default:
		return "неверное значение"
	}
}

// writeBlogError переводит ошибки сервисного слоя в HTTP-статусы.
// Отсутствующий пост - 404, существующий но скрытый - 403; это
// разделение одинаково для get/update/delete.
func writeBlogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, policy.ErrUnauthenticated):
		WriteError(w, "Требуется аутентификация", http.StatusUnauthorized)
	case errors.Is(err, policy.ErrForbidden):
		WriteError(w, "Доступ запрещен", http.StatusForbidden)
	case errors.Is(err, repository.ErrBlogNotFound):
		WriteError(w, "Пост не найден", http.StatusNotFound)
	case errors.Is(err, repository.ErrSlugTaken):
		WriteError(w, "Пост с таким slug уже существует", http.StatusConflict)
	case errors.Is(err, derive.ErrEmptySlug):
		WriteError(w, "Из заголовка не получается slug, добавьте буквы или цифры", http.StatusBadRequest)
	default:
		log.Printf("Внутренняя ошибка: %v", err)
		WriteError(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
	}
}
