package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"hairline/internal/session"
	"hairline/pkg/utils"
)

// AuthMiddleware requires a logged-in session whose access token is not
// about to expire. A stale token is dropped from the store before the 401.
func AuthMiddleware(store session.Store, skew time.Duration, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := CurrentSession(c)
		if !sess.Authenticated() {
			utils.HandleServiceError(c, utils.ErrUnauthorized)
			c.Abort()
			return
		}

		expired, err := utils.TokenExpired(sess.AccessToken, time.Now(), skew)
		if expired {
			if err != nil {
				logger.Debug("unreadable access token", zap.String("session_id", sess.ID), zap.Error(err))
			}
			sess.ClearTokens()
			if err := store.Clear(c.Request.Context(), sess.ID); err != nil {
				logger.Warn("clear expired session", zap.String("session_id", sess.ID), zap.Error(err))
			}
			utils.HandleServiceError(c, utils.ErrUnauthorized)
			c.Abort()
			return
		}

		if sess.Profile != nil {
			c.Set("user_id", sess.Profile.ID)
			c.Set("Role", sess.Profile.Role)
		}
		c.Next()
	}
}
