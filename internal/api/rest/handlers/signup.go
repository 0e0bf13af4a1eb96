package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/CameronXie/credential-registry/internal/api/rest/response"
	"github.com/CameronXie/credential-registry/internal/credstore"
)

// Registrar stores new credentials. *credstore.Store satisfies it.
type Registrar interface {
	Register(username, password string) (bool, string)
}

// SignUpHandler registers new users.
type SignUpHandler struct {
	registrar Registrar
	logger    *slog.Logger
}

func (h *SignUpHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req := new(CredentialsRequest)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		response.JSONErrorResponse(w, http.StatusBadRequest, invalidRequestBodyMessage)
		return
	}

	logger := h.logger.With("username", req.Username)
	ok, msg := h.registrar.Register(req.Username, req.Password)
	if !ok {
		logger.WarnContext(r.Context(), "failed to register user", "reason", msg)
		response.JSONErrorResponse(w, registrationFailureStatus(msg), msg)
		return
	}

	logger.InfoContext(r.Context(), "user registered")
	response.JSONMessageResponse(w, http.StatusCreated, msg)
}

func registrationFailureStatus(msg string) int {
	switch msg {
	case credstore.UserAlreadyExistsMessage:
		return http.StatusConflict
	case credstore.PasswordStoreFailedMessage:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// NewSignUpHandler creates an HTTP handler that registers users with registrar.
func NewSignUpHandler(registrar Registrar, logger *slog.Logger) http.Handler {
	return &SignUpHandler{registrar: registrar, logger: logger}
}
