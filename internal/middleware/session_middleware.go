package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/warung_api/internal/models"
	"github.com/GTDGit/warung_api/internal/utils"
)

// CookieName holds the session token.
const CookieName = "auth_token"

const sessionKey = "session"

// Authenticator turns a token into a session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (models.Session, error)
}

// SetSession stores the session on the request context.
func SetSession(c *gin.Context, s models.Session) {
	c.Set(sessionKey, s)
}

// GetSession returns the session set by SessionMiddleware.
func GetSession(c *gin.Context) (models.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return models.Session{}, false
	}
	s, ok := v.(models.Session)
	return s, ok
}

// TokenFromRequest reads the session token from the auth cookie or a bearer header.
func TokenFromRequest(c *gin.Context) string {
	if token, err := c.Cookie(CookieName); err == nil && token != "" {
		return token
	}
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// SessionMiddleware rejects API requests without a valid, unrevoked token.
func SessionMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromRequest(c)
		if token == "" {
			utils.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing session token")
			c.Abort()
			return
		}

		sess, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, utils.ErrInvalidToken) {
				log.Error().Err(err).Msg("session check failed")
				utils.RequestFailed(c)
				c.Abort()
				return
			}
			utils.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired session")
			c.Abort()
			return
		}

		SetSession(c, sess)
		c.Next()
	}
}

// RequireStore rejects requests whose :store_id differs from the session's store.
func RequireStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := GetSession(c)
		if !ok {
			utils.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing session")
			c.Abort()
			return
		}
		if c.Param("store_id") != sess.StoreID {
			utils.Error(c, http.StatusForbidden, "FORBIDDEN", "Store does not belong to this account")
			c.Abort()
			return
		}
		c.Next()
	}
}

// PageGate redirects page requests: signed-out visitors go to /auth and
// signed-in visitors of /auth or /login go to /.
func PageGate(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		signedIn := false
		if token := TokenFromRequest(c); token != "" {
			if sess, err := auth.Authenticate(c.Request.Context(), token); err == nil {
				SetSession(c, sess)
				signedIn = true
			}
		}

		path := c.Request.URL.Path
		authPage := path == "/auth" || path == "/login"
		switch {
		case authPage && signedIn:
			c.Redirect(http.StatusFound, "/")
			c.Abort()
		case !authPage && !signedIn:
			c.Redirect(http.StatusFound, "/auth")
			c.Abort()
		default:
			c.Next()
		}
	}
}
