package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"hairline/internal/session"
	"hairline/pkg/utils"
)

const (
	SessionHeader = "X-Session-ID"
	sessionKey    = "session"
)

// SessionMiddleware loads the browser session named by X-Session-ID, or
// creates one, and echoes its id back in the response header.
func SessionMiddleware(store session.Store, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var sess *session.Session
		if id := c.GetHeader(SessionHeader); id != "" {
			loaded, err := store.Load(ctx, id)
			if err != nil {
				logger.Error("load session", zap.String("trace_id", c.GetString("trace_id")), zap.Error(err))
				utils.RespondError(c, http.StatusInternalServerError, "Internal server error")
				c.Abort()
				return
			}
			sess = loaded
		}
		if sess == nil {
			sess = session.New()
			if err := store.Save(ctx, sess); err != nil {
				logger.Error("create session", zap.String("trace_id", c.GetString("trace_id")), zap.Error(err))
				utils.RespondError(c, http.StatusInternalServerError, "Internal server error")
				c.Abort()
				return
			}
		}

		c.Set(sessionKey, sess)
		c.Writer.Header().Set(SessionHeader, sess.ID)
		c.Next()
	}
}

// CurrentSession returns the session placed by SessionMiddleware.
func CurrentSession(c *gin.Context) *session.Session {
	if v, ok := c.Get(sessionKey); ok {
		if s, ok := v.(*session.Session); ok {
			return s
		}
	}
	return nil
}
