package handlers

import (
	"net/http"
)

func (h *Handlers) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	requester := requesterFromContext(r)
	if requester == nil {
		WriteError(w, "Требуется аутентификация", http.StatusUnauthorized)
		return
	}

	user, err := h.UserService.GetUser(r.Context(), requester.UserID)
	if err != nil {
		WriteError(w, "Пользователь не найден", http.StatusNotFound)
		return
	}

	WriteSuccess(w, "", UserResponse{
		UserID: user.UserID,
		Email:  user.Email,
		Role:   user.Role,
	}, http.StatusOK)
}
