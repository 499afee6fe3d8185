package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"modqueue/internal/platform/middleware"
	dErrors "modqueue/pkg/domain-errors"
	"modqueue/pkg/platform/httputil"
	"modqueue/pkg/requestcontext"
)

// Handler serves the login endpoint.
type Handler struct {
	logger *slog.Logger
	users  *UserStore
	tokens *TokenManager
}

func NewHandler(users *UserStore, tokens *TokenManager, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, users: users, tokens: tokens}
}

// Register mounts the login route on r. Login sits outside RequireAuth.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/auth/login", h.handleLogin)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	user, err := h.users.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		h.logger.WarnContext(ctx, "login failed",
			"request_id", middleware.GetRequestID(ctx),
			"email", req.Email,
		)
		httputil.WriteError(w, err)
		return
	}

	token, err := h.tokens.IssueToken(user, requestcontext.Now(ctx))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue token",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}
