package middlewares

import (
	"context"
	"net/http"

	"github.com/creatorlink/creatorlink/internal/domain/user"
	"github.com/gin-gonic/gin"
)

// Keep this small interface so tests can fake it easily.
type SessionResolver interface {
	CurrentUser(ctx context.Context, token string) (user.Public, error)
}

type SessionMiddleware struct {
	sessions SessionResolver
}

func NewSessionMiddleware(sessions SessionResolver) *SessionMiddleware {
	return &SessionMiddleware{sessions: sessions}
}

// RequireSession resolves the session cookie to the identity snapshot
// cached at login and stashes it on the gin context. Missing, unknown
// and expired tokens all get the same 401.
func (m *SessionMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookieName)

		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Not authenticated",
			})
			return
		}

		snapshot, err := m.sessions.CurrentUser(c.Request.Context(), token)

		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Not authenticated",
			})
			return
		}

		c.Set(CtxUser, snapshot)

		c.Next()
	}
}

// Optional helper so handlers don't need to know the magic key.

func UserFromContext(c *gin.Context) (user.Public, bool) {
	v, ok := c.Get(CtxUser)
	if !ok {
		return user.Public{}, false
	}
	u, ok := v.(user.Public)
	return u, ok
}
