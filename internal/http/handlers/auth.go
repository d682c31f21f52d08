package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/creatorlink/creatorlink/internal/config"
	"github.com/creatorlink/creatorlink/internal/domain/user"
	"github.com/creatorlink/creatorlink/internal/http/middlewares"
	"github.com/creatorlink/creatorlink/internal/observability"
	"github.com/creatorlink/creatorlink/internal/session"
	"github.com/creatorlink/creatorlink/internal/store"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	users    store.Store
	sessions *session.Manager
	prom     *observability.Prom
	cfg      config.Config
}

func NewAuthHandler(users store.Store, sessions *session.Manager, prom *observability.Prom, cfg config.Config) *AuthHandler {
	return &AuthHandler{
		users:    users,
		sessions: sessions,
		prom:     prom,
		cfg:      cfg,
	}
}

type RegisterRequest struct {
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=6"`
	Role           string `json:"role" binding:"omitempty,oneof=creator influencer sponsor"`
	ProfilePicture string `json:"profilePicture" binding:"omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// default role for new users

	role := req.Role

	if role == "" {
		role = user.RoleCreator
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	u, err := h.users.Create(cctx, user.CreateUserRequest{
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		ProfilePicture: req.ProfilePicture,
		Role:           role,
	})

	if err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			RespondBadRequest(ctx, "User with this email already exists", nil)
			return
		}

		RespondInternal(ctx, "Could not create user")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    u.PublicView(),
	})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// short timeout for the store lookup
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	s, err := h.sessions.Login(cctx, req.Email, req.Password)

	if err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			h.countLogin("rejected")
			RespondUnauthorized(ctx, "Invalid email or password")
			return
		}

		h.countLogin("error")
		RespondInternal(ctx, "An unexpected error occurred")
		return
	}

	h.countLogin("ok")
	h.countSession("created")

	h.setSessionCookie(ctx, s.Token)

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    s.User,
	})
}

// Me returns the identity snapshot cached at login. The session
// middleware has already resolved the cookie by the time this runs.
func (h *AuthHandler) Me(ctx *gin.Context) {
	snapshot, ok := middlewares.UserFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Not authenticated")
		return
	}

	ctx.JSON(http.StatusOK, snapshot)
}

func (h *AuthHandler) Logout(ctx *gin.Context) {
	token, err := ctx.Cookie(middlewares.SessionCookieName)

	if err != nil || token == "" {
		// nothing to destroy; still clear the cookie to be safe
		h.clearSessionCookie(ctx)
		ctx.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	if err := h.sessions.Logout(cctx, token); err != nil {
		RespondInternal(ctx, "Could not log out")
		return
	}

	h.countSession("destroyed")

	h.clearSessionCookie(ctx)

	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// Helper functions

func (h *AuthHandler) setSessionCookie(ctx *gin.Context, token string) {
	secure := h.cfg.Env == "prod"

	maxAge := int(h.sessions.TTL().Seconds())

	ctx.SetSameSite(http.SameSiteLaxMode)

	ctx.SetCookie(
		middlewares.SessionCookieName,
		token,
		maxAge,
		"/",
		"",
		secure,
		true, // HttpOnly.
	)
}

func (h *AuthHandler) clearSessionCookie(ctx *gin.Context) {
	secure := h.cfg.Env == "prod"
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(
		middlewares.SessionCookieName,
		"",
		-1,
		"/",
		"",
		secure,
		true,
	)
}

func (h *AuthHandler) countLogin(outcome string) {
	if h.prom == nil {
		return
	}
	h.prom.LoginsTotal.WithLabelValues(outcome).Inc()
}

func (h *AuthHandler) countSession(event string) {
	if h.prom == nil {
		return
	}
	h.prom.SessionsTotal.WithLabelValues(event).Inc()

	switch event {
	case "created":
		h.prom.LiveSessions.Inc()
	case "destroyed":
		h.prom.LiveSessions.Dec()
	}
}
