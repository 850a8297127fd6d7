package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"alertdesk/internal/auth"
	"alertdesk/internal/config"
	"alertdesk/internal/repository"
)

const minPasswordLen = 8

// AuthHandler serves the session endpoints. The SSO redirect and password
// routes stay outside /api so the session middleware never guards them.
type AuthHandler struct {
	Repo   repository.Repository
	Logger *zap.Logger
	Cfg    config.AuthConfig
}

func (h *AuthHandler) Register(r *gin.Engine) {
	group := r.Group("/auth")
	group.GET("/sso", h.sso)
	group.POST("/password/setup", h.passwordSetup)
	group.POST("/login", h.login)
	group.POST("/logout", h.logout)
	r.GET("/api/me", h.me)
}

// @Summary Redirect to the SSO login page
// @Tags auth
// @Success 302
// @Router /auth/sso [get]
func (h *AuthHandler) sso(c *gin.Context) {
	target := strings.TrimSpace(h.Cfg.SSOLoginURL)
	if target == "" {
		Error(c, http.StatusServiceUnavailable, "sso login is not configured", nil)
		return
	}
	c.Redirect(http.StatusFound, target)
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// passwordSetup sets the initial password for a provisioned account and opens
// a session in the same call.
func (h *AuthHandler) passwordSetup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid payload", nil)
		return
	}

	fields := map[string]string{}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		fields["email"] = "email is required"
	}
	if len(req.Password) < minPasswordLen {
		fields["password"] = "password must be at least 8 characters"
	}
	if len(fields) > 0 {
		ValidationError(c, fields)
		return
	}

	user, err := h.Repo.GetUserByEmail(c.Request.Context(), email)
	if err != nil {
		h.Logger.Error("password setup lookup failed", zap.Error(err))
		Error(c, http.StatusInternalServerError, "setup failed", nil)
		return
	}
	if user == nil {
		ValidationError(c, map[string]string{"email": "unknown account"})
		return
	}
	if user.PasswordSet {
		ValidationError(c, map[string]string{"email": "password already set, use login"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.Logger.Error("password hash failed", zap.Error(err))
		Error(c, http.StatusInternalServerError, "setup failed", nil)
		return
	}
	if err := h.Repo.SetUserPassword(c.Request.Context(), user.ID, string(hash)); err != nil {
		h.Logger.Error("password setup failed", zap.Error(err))
		Error(c, http.StatusInternalServerError, "setup failed", nil)
		return
	}
	h.openSession(c, user.ID, user.Email)
}

// @Summary Log in with email and password
// @Tags auth
// @Accept json
// @Success 200 {object} map[string]any
// @Failure 401 {object} map[string]any
// @Router /auth/login [post]
func (h *AuthHandler) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid payload", nil)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := h.Repo.GetUserByEmail(c.Request.Context(), email)
	if err != nil {
		h.Logger.Error("login lookup failed", zap.Error(err))
		Error(c, http.StatusInternalServerError, "login failed", nil)
		return
	}
	// One message for every miss so probes cannot tell accounts apart.
	if user == nil || !user.PasswordSet {
		Error(c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		Error(c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}
	h.openSession(c, user.ID, user.Email)
}

func (h *AuthHandler) logout(c *gin.Context) {
	c.SetCookie(h.cookieName(), "", -1, "/", h.Cfg.CookieDomain, false, true)
	Ok(c, gin.H{"logged_out": true}, nil)
}

func (h *AuthHandler) me(c *gin.Context) {
	v, ok := c.Get(auth.ContextUserID)
	if !ok {
		Error(c, http.StatusUnauthorized, "no session", nil)
		return
	}
	userID, _ := v.(string)
	user, err := h.Repo.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		h.Logger.Error("me lookup failed", zap.Error(err))
		Error(c, http.StatusInternalServerError, "lookup failed", nil)
		return
	}
	if user == nil {
		Error(c, http.StatusUnauthorized, "no session", nil)
		return
	}
	Ok(c, user, nil)
}

func (h *AuthHandler) openSession(c *gin.Context, userID, email string) {
	issuer := auth.TokenIssuer{Secret: h.Cfg.JWTSecret, TTL: h.Cfg.TokenTTL}
	token, err := issuer.Generate(userID, email)
	if err != nil {
		h.Logger.Error("token generate failed", zap.Error(err))
		Error(c, http.StatusInternalServerError, "login failed", nil)
		return
	}
	maxAge := int(h.Cfg.TokenTTL.Seconds())
	if maxAge <= 0 {
		maxAge = 168 * 3600
	}
	c.SetCookie(h.cookieName(), token, maxAge, "/", h.Cfg.CookieDomain, false, true)
	Ok(c, gin.H{"user_id": userID, "email": email, "token": token}, nil)
}

func (h *AuthHandler) cookieName() string {
	if h.Cfg.CookieName != "" {
		return h.Cfg.CookieName
	}
	return "token"
}
