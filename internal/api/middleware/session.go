package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"cell-monitor/internal/session"
)

const (
	sessionIDKey = "sid"
	// SessionIDContextKey is where Session stores the id in the gin context.
	SessionIDContextKey = "cellmon.session_id"
)

// Session assigns every browser a registry session id, kept in the signed
// cookie managed by gin-contrib/sessions. Must run after sessions.Sessions.
func Session(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		id, _ := sess.Get(sessionIDKey).(string)
		if id != "" && !store.Has(id) {
			logrus.WithField("session", id).Debug("session expired or reset, starting empty")
		}
		if id == "" {
			id = store.NewID()
			sess.Set(sessionIDKey, id)
			if err := sess.Save(); err != nil {
				logrus.WithError(err).Warn("failed to save session cookie")
			}
		}
		c.Set(SessionIDContextKey, id)
		c.Next()
	}
}

// SessionID returns the id set by Session.
func SessionID(c *gin.Context) string {
	return c.GetString(SessionIDContextKey)
}
