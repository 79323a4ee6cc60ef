package handlers

import (
	"net/http"
)

// GetStats - счетчики постов по статусам, доступно только админу
func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	requester := requesterFromContext(r)

	counts, err := h.StatsService.GetBlogStats(r.Context(), requester)
	if err != nil {
		writeBlogError(w, err)
		return
	}

	WriteSuccess(w, "", counts, http.StatusOK)
}
