package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/CameronXie/credential-registry/internal/api/rest/response"
	"github.com/CameronXie/credential-registry/internal/authn"
	"github.com/CameronXie/credential-registry/internal/keyfetcher"
)

const (
	DefaultTokenTTL                  = time.Hour
	invalidRequestBodyMessage        = "invalid request body"
	invalidUsernameOrPasswordMessage = "invalid username or password"
	internalServerErrorMessage       = "internal server error"
)

// CredentialsRequest is the body accepted by sign-up and sign-in.
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignInHandler processes user sign-in requests, authenticates credentials, and generates JWT tokens.
type SignInHandler struct {
	authenticator     authn.Authenticator
	privateKeyFetcher keyfetcher.PrivateKeyFetcher
	tokenTTL          time.Duration
	logger            *slog.Logger
}

// ServeHTTP handles HTTP requests for user sign-in, authenticates users and generates JWT tokens on successful login.
func (h *SignInHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req := new(CredentialsRequest)
	decodeErr := json.NewDecoder(r.Body).Decode(req)
	if decodeErr != nil {
		response.JSONErrorResponse(w, http.StatusBadRequest, invalidRequestBodyMessage)
		return
	}

	logger := h.logger.With("username", req.Username)
	authenticatedUser, authError := h.authenticator.Authenticate(req.Username, req.Password)
	if authError != nil {
		logger.ErrorContext(r.Context(), "failed to authenticate user", "error", authError)
		response.JSONErrorResponse(w, http.StatusUnauthorized, invalidUsernameOrPasswordMessage)
		return
	}

	token, jwtError := h.generateJWT(authenticatedUser.Username)
	if jwtError != nil {
		logger.ErrorContext(r.Context(), "failed to generate JWT", "error", jwtError)
		response.JSONErrorResponse(w, http.StatusInternalServerError, internalServerErrorMessage)
		return
	}

	response.JSONResponse(w, http.StatusOK, map[string]string{"token": token})
}

// generateJWT signs an RS512 token for username that expires after the configured TTL.
func (h *SignInHandler) generateJWT(username string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(
		jwt.SigningMethodRS512,
		jwt.MapClaims{
			"jti": uuid.NewString(),
			"sub": username,
			"iat": now.Unix(),
			"exp": now.Add(h.tokenTTL).Unix(),
		},
	)

	privateKey, jwtError := h.privateKeyFetcher.FetchPrivateKey()
	if jwtError != nil {
		return "", jwtError
	}

	tokenString, signError := token.SignedString(privateKey)
	if signError != nil {
		return "", signError
	}

	return tokenString, nil
}

// NewSignInHandler creates a new HTTP handler for user sign-in. A non-positive tokenTTL falls back to DefaultTokenTTL.
func NewSignInHandler(
	authenticator authn.Authenticator,
	privateKeyFetcher keyfetcher.PrivateKeyFetcher,
	tokenTTL time.Duration,
	logger *slog.Logger,
) http.Handler {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}

	return &SignInHandler{
		authenticator:     authenticator,
		privateKeyFetcher: privateKeyFetcher,
		tokenTTL:          tokenTTL,
		logger:            logger,
	}
}
