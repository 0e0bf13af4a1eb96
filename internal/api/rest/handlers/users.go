package handlers

import (
	"log/slog"
	"net/http"

	"github.com/CameronXie/credential-registry/internal/api/rest/middlewares"
	"github.com/CameronXie/credential-registry/internal/api/rest/response"
)

type UserCounter interface {
	Count() int
}

type UserClearer interface {
	Clear()
}

// UserCountHandler reports how many users are registered.
type UserCountHandler struct {
	counter UserCounter
}

func (h *UserCountHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	response.JSONResponse(w, http.StatusOK, map[string]int{"count": h.counter.Count()})
}

func NewUserCountHandler(counter UserCounter) http.Handler {
	return &UserCountHandler{counter: counter}
}

// ClearUsersHandler removes every registered user.
type ClearUsersHandler struct {
	clearer UserClearer
	logger  *slog.Logger
}

func (h *ClearUsersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.clearer.Clear()

	sub, _ := middlewares.SubjectFromContext(r.Context())
	h.logger.InfoContext(r.Context(), "registry cleared", "subject", sub)

	w.WriteHeader(http.StatusNoContent)
}

func NewClearUsersHandler(clearer UserClearer, logger *slog.Logger) http.Handler {
	return &ClearUsersHandler{clearer: clearer, logger: logger}
}
