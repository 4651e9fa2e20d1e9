package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"marketfront/internal/domain"
	authsvc "marketfront/internal/service/auth"
)

type authService interface {
	Signup(ctx context.Context, in authsvc.SignupInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, string, error)
	ActorFromToken(ctx context.Context, token string) (domain.Actor, error)
	AccessTTLSeconds() int
}

// actorMiddleware resolves an optional bearer token to a typed actor once
// per request. Requests without a token proceed as guests; a token that is
// present but invalid is rejected.
func actorMiddleware(svc authService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			c.Next()
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")
		if token == header || strings.TrimSpace(token) == "" {
			failJSON(c, http.StatusUnauthorized, "malformed authorization header")
			c.Abort()
			return
		}
		actor, err := svc.ActorFromToken(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			if errors.Is(err, authsvc.ErrInvalidToken) {
				failJSON(c, http.StatusUnauthorized, "invalid token")
			} else {
				failJSON(c, http.StatusInternalServerError, "internal error")
			}
			c.Abort()
			return
		}
		setActor(c, actor)
		c.Next()
	}
}

// requireActor gates routes that have no guest mode.
func requireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !actorFromContext(c).Authenticated() {
			failJSON(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}
		c.Next()
	}
}

func signupHandler(svc authService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in authsvc.SignupInput
		if err := c.ShouldBindJSON(&in); err != nil {
			failJSON(c, http.StatusBadRequest, "invalid request body")
			return
		}
		user, err := svc.Signup(c.Request.Context(), in)
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				failJSON(c, http.StatusConflict, "email already registered")
				return
			}
			failJSON(c, http.StatusBadRequest, err.Error())
			return
		}
		c.JSON(http.StatusCreated, gin.H{"ok": true, "user": user})
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func loginHandler(svc authService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in loginRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			failJSON(c, http.StatusBadRequest, "email and password required")
			return
		}
		user, access, refresh, err := svc.Login(c.Request.Context(), in.Email, in.Password)
		if err != nil {
			if errors.Is(err, authsvc.ErrInvalidCredentials) {
				failJSON(c, http.StatusUnauthorized, "invalid credentials")
				return
			}
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"ok":           true,
			"user":         user,
			"accessToken":  access,
			"refreshToken": refresh,
			"expiresIn":    svc.AccessTTLSeconds(),
		})
	}
}
