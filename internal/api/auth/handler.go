package authapi

import (
	"errors"
	"net/http"
	"time"

	"artist-portfolio/internal/api/respond"
	"artist-portfolio/internal/app/http/middleware"
	"artist-portfolio/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type Handler struct {
	users  *users.Store
	secret []byte
	ttl    time.Duration
	log    *zap.Logger
}

func NewHandler(store *users.Store, secret string, ttl time.Duration, log *zap.Logger) *Handler {
	return &Handler{users: store, secret: []byte(secret), ttl: ttl, log: log}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  *users.User `json:"user"`
}

// POST /api/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}

	u, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if errors.Is(err, users.ErrInvalidCredentials) {
		h.log.Info("login rejected", zap.String("username", req.Username), zap.String("ip", c.ClientIP()))
		respond.Error(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		respond.Internal(c, h.log, "authenticate", err)
		return
	}

	token, err := IssueToken(h.secret, h.ttl, u, time.Now())
	if err != nil {
		respond.Internal(c, h.log, "sign token", err)
		return
	}
	c.JSON(http.StatusOK, LoginResponse{Token: token, User: u})
}

// GET /api/auth/verify
func (h *Handler) Verify(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"user": gin.H{
			"id":       c.GetUint(middleware.UserIDKey),
			"username": c.GetString(middleware.UsernameKey),
		},
	})
}

// IssueToken signs an HS256 token carrying user_id, username and exp.
func IssueToken(secret []byte, ttl time.Duration, u *users.User, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  u.ID,
		"username": u.Username,
		"iat":      now.Unix(),
		"exp":      now.Add(ttl).Unix(),
	})
	return token.SignedString(secret)
}
